package grabbieldb

import (
	"errors"
	"fmt"
	"regexp"
)

// StatusComplete is the processing status recorded for stored media.
const StatusComplete = "complete"

// Image is a row of the images table.
type Image struct {
	ID               int64  `json:"id"`
	OriginalURL      string `json:"original_url"`
	Filename         string `json:"filename"`
	MimeType         string `json:"mime_type"`
	Size             int64  `json:"size"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	ContentID        int64  `json:"content_id"`
	ImageType        string `json:"image_type"`
	ProcessingStatus string `json:"processing_status"`
}

// Video is a row of the videos table.
type Video struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	GCSPath          string `json:"gcs_path"`
	MimeType         string `json:"mime_type"`
	SizeBytes        int64  `json:"size_bytes"`
	DurationSeconds  int    `json:"duration_seconds"`
	ContentID        int64  `json:"content_id"`
	ProcessingStatus string `json:"processing_status"`
}

// ImageType tells the site how an image is used.
type ImageType string

const (
	ImageThumbnail ImageType = "thumbnail"
	ImageContent   ImageType = "content"
)

func (t ImageType) IsValid() bool {
	switch t {
	case ImageThumbnail, ImageContent:
		return true
	default:
		return false
	}
}

// StorageType selects the bucket an upload goes to.
type StorageType string

const (
	StoragePublic  StorageType = "public"
	StoragePrivate StorageType = "private"
)

func (s StorageType) IsValid() bool {
	switch s {
	case StoragePublic, StoragePrivate:
		return true
	default:
		return false
	}
}

func ParseStorageType(s string) (StorageType, error) {
	st := StorageType(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid storage type: %s (valid types: public, private): %w", s, ErrInvalidInput)
	}
	return st, nil
}

// SaveResult describes a file written to the upload spool.
type SaveResult struct {
	Name         string
	Path         string
	BytesWritten int64
	Etag         string
}

// Column describes one column of a table as reported by the database.
type Column struct {
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"`
	NotNull    bool   `json:"not_null" yaml:"not_null"`
	PrimaryKey bool   `json:"primary_key" yaml:"primary_key"`
}

// Value is one cell rendered as text. Null distinguishes SQL NULL from "".
type Value struct {
	Text string `json:"text"`
	Null bool   `json:"null,omitempty"`
}

// String returns the cell text, or "NULL".
func (v Value) String() string {
	if v.Null {
		return "NULL"
	}
	return v.Text
}

// Row holds the cells of one row in column order.
type Row []Value

// TableView is one page of a table.
type TableView struct {
	Name      string   `json:"name"`
	Columns   []Column `json:"columns"`
	Rows      []Row    `json:"rows"`
	KeyColumn string   `json:"key_column"`
	Page      int      `json:"page"`
	PageSize  int      `json:"page_size"`
	HasNext   bool     `json:"has_next"`
}

// KeyIndex returns the position of the key column, or -1.
func (v TableView) KeyIndex() int {
	for i, c := range v.Columns {
		if c.Name == v.KeyColumn {
			return i
		}
	}
	return -1
}

// KeyColumn picks the column rows are addressed by: the first primary key
// column, else a column named "id". It returns "" when neither exists.
func KeyColumn(cols []Column) string {
	for _, c := range cols {
		if c.PrimaryKey {
			return c.Name
		}
	}

	for _, c := range cols {
		if c.Name == "id" {
			return c.Name
		}
	}

	return ""
}

// Tables holds configurable table names for media storage.
type Tables struct {
	Images string `mapstructure:"images"`
	Videos string `mapstructure:"videos"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set and valid.
func (t Tables) Validate() error {
	if t.Images == "" {
		return errors.New("validate tables: images table name cannot be empty")
	}

	if t.Videos == "" {
		return errors.New("validate tables: videos table name cannot be empty")
	}

	for _, name := range []string{t.Images, t.Videos} {
		if !IsValidTableName(name) {
			return fmt.Errorf("validate tables: invalid table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", name)
		}
	}

	if t.Images == t.Videos {
		return fmt.Errorf("validate tables: images and videos share table name %s", t.Images)
	}

	return nil
}
