package grabbieldb

import (
	"context"
	"io"
)

// MediaRepo persists image and video records.
//
// List methods return the most recent rows first (highest id). Get and
// Delete return ErrNotFound for unknown ids.
type MediaRepo interface {
	ListImages(ctx context.Context, limit int) ([]Image, error)
	ListVideos(ctx context.Context, limit int) ([]Video, error)
	GetImage(ctx context.Context, id int64) (Image, error)
	GetVideo(ctx context.Context, id int64) (Video, error)
	// InsertImage stores img and returns it with ID set. img.ID is ignored.
	InsertImage(ctx context.Context, img Image) (Image, error)
	// InsertVideo stores v and returns it with ID set. v.ID is ignored.
	InsertVideo(ctx context.Context, v Video) (Video, error)
	DeleteImage(ctx context.Context, id int64) error
	DeleteVideo(ctx context.Context, id int64) error
}

// SchemaRepo exposes generic table introspection and row CRUD.
//
// Table names passed in must come from Tables; implementations quote them as
// identifiers. Column names in values must exist in the table. Cell values
// are always bound as parameters.
type SchemaRepo interface {
	// Tables lists user tables ordered by name.
	Tables(ctx context.Context) ([]string, error)
	// Columns returns the columns of table in declaration order.
	Columns(ctx context.Context, table string) ([]Column, error)
	// Rows returns up to limit rows starting at offset, ordered by keyCol when set.
	Rows(ctx context.Context, table, keyCol string, limit, offset int) ([]Row, error)
	// Row returns the row whose keyCol equals key, or ErrNotFound.
	Row(ctx context.Context, table, keyCol, key string) (Row, error)
	Insert(ctx context.Context, table string, values map[string]Value) error
	// Update returns ErrNotFound when no row matched.
	Update(ctx context.Context, table, keyCol, key string, values map[string]Value) error
	// Delete returns ErrNotFound when no row matched.
	Delete(ctx context.Context, table, keyCol, key string) error
}

// Spool is the local staging area uploads are written to before they are
// pushed to object storage.
type Spool interface {
	// Write stores content under a unique name derived from name.
	Write(ctx context.Context, name string, content io.Reader) (SaveResult, error)
	// Remove deletes a spooled file by the Name returned from Write.
	Remove(ctx context.Context, name string) error
}

// ObjectStore pushes spooled files to durable bucket storage.
type ObjectStore interface {
	// Upload copies localPath to remotePath and makes it world-readable when
	// public is set. It returns ErrUploadFailed when the object cannot be
	// confirmed afterwards.
	Upload(ctx context.Context, localPath, remotePath string, public bool) error
	// Delete removes remotePath. It returns ErrDeleteFailed on failure.
	Delete(ctx context.Context, remotePath string) error
}
