package clientcli

import (
	"fmt"

	"github.com/grabbiel/grabbieldb"
)

// Kind selects images or videos.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// ParseKind accepts the singular and plural forms.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "image", "images":
		return KindImage, nil
	case "video", "videos":
		return KindVideo, nil
	default:
		return "", fmt.Errorf("%w: %q (valid kinds: image, video)", ErrInvalidKind, s)
	}
}

// ImageUploadOptions configures an image upload. Zero values take the
// server defaults (content image, public bucket, content id 0).
type ImageUploadOptions struct {
	LocalPath string
	ContentID int64
	ImageType string
	Storage   string
}

// VideoUploadOptions configures a video upload. An empty Title makes the
// server use the filename.
type VideoUploadOptions struct {
	LocalPath string
	Title     string
	ContentID int64
	Duration  int
	Storage   string
}

// UploadResult represents the result of uploading a single file.
type UploadResult struct {
	Kind      Kind   `json:"kind"`
	LocalPath string `json:"local_path"`
	Filename  string `json:"filename"`
	Size      int64  `json:"size_bytes"`
	// ID and URL are set once the new row was found in the listing.
	ID  int64  `json:"id,omitempty"`
	URL string `json:"url,omitempty"`
	Err error  `json:"-"` // nil on success
}

// DeleteResult represents the result of deleting a single row.
type DeleteResult struct {
	Kind    Kind  `json:"kind"`
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
	Err     error `json:"-"` // nil on success
}

// ListOptions configures a list operation.
type ListOptions struct {
	Kind  Kind
	Limit int
}

// ListResult holds the rows of one kind; the other slice stays nil.
type ListResult struct {
	Images []grabbieldb.Image `json:"images,omitempty"`
	Videos []grabbieldb.Video `json:"videos,omitempty"`
}

// TotalSize sums the stored sizes in bytes.
func (r *ListResult) TotalSize() int64 {
	var total int64
	for _, img := range r.Images {
		total += img.Size
	}
	for _, v := range r.Videos {
		total += v.SizeBytes
	}
	return total
}

// Len returns the number of rows.
func (r *ListResult) Len() int {
	return len(r.Images) + len(r.Videos)
}

// serverImageList and serverVideoList mirror the /api listing bodies.
type serverImageList struct {
	Images []grabbieldb.Image `json:"images"`
}

type serverVideoList struct {
	Videos []grabbieldb.Video `json:"videos"`
}
