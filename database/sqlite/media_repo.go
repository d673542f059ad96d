package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/grabbiel/grabbieldb"
)

// mediaRepo holds pre-quoted table names.
type mediaRepo struct {
	db     *sql.DB
	images string
	videos string
}

const imageColumns = `id, COALESCE(original_url, ''), COALESCE(filename, ''), COALESCE(mime_type, ''),
	COALESCE(size, 0), COALESCE(width, 0), COALESCE(height, 0), COALESCE(content_id, 0),
	COALESCE(image_type, ''), COALESCE(processing_status, '')`

const videoColumns = `id, COALESCE(title, ''), COALESCE(gcs_path, ''), COALESCE(mime_type, ''),
	COALESCE(size_bytes, 0), COALESCE(duration_seconds, 0), COALESCE(content_id, 0),
	COALESCE(processing_status, '')`

type scanner interface {
	Scan(dest ...any) error
}

func scanImage(s scanner) (grabbieldb.Image, error) {
	var img grabbieldb.Image
	err := s.Scan(&img.ID, &img.OriginalURL, &img.Filename, &img.MimeType,
		&img.Size, &img.Width, &img.Height, &img.ContentID, &img.ImageType, &img.ProcessingStatus)
	return img, err
}

func scanVideo(s scanner) (grabbieldb.Video, error) {
	var v grabbieldb.Video
	err := s.Scan(&v.ID, &v.Title, &v.GCSPath, &v.MimeType,
		&v.SizeBytes, &v.DurationSeconds, &v.ContentID, &v.ProcessingStatus)
	return v, err
}

func (r *mediaRepo) ListImages(ctx context.Context, limit int) ([]grabbieldb.Image, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id DESC LIMIT ?`, imageColumns, r.images) //nolint:gosec // G201: table name is validated

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer func() { _ = rows.Close() }()

	images := []grabbieldb.Image{}
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("list images: scan: %w", err)
		}
		images = append(images, img)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	return images, nil
}

func (r *mediaRepo) ListVideos(ctx context.Context, limit int) ([]grabbieldb.Video, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id DESC LIMIT ?`, videoColumns, r.videos) //nolint:gosec // G201: table name is validated

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	videos := []grabbieldb.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("list videos: scan: %w", err)
		}
		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}

	return videos, nil
}

func (r *mediaRepo) GetImage(ctx context.Context, id int64) (grabbieldb.Image, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, imageColumns, r.images) //nolint:gosec // G201: table name is validated

	img, err := scanImage(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return grabbieldb.Image{}, grabbieldb.ErrNotFound
		}
		return grabbieldb.Image{}, fmt.Errorf("get image: %w", err)
	}

	return img, nil
}

func (r *mediaRepo) GetVideo(ctx context.Context, id int64) (grabbieldb.Video, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, videoColumns, r.videos) //nolint:gosec // G201: table name is validated

	v, err := scanVideo(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return grabbieldb.Video{}, grabbieldb.ErrNotFound
		}
		return grabbieldb.Video{}, fmt.Errorf("get video: %w", err)
	}

	return v, nil
}

func (r *mediaRepo) InsertImage(ctx context.Context, img grabbieldb.Image) (grabbieldb.Image, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (original_url, filename, mime_type, size, width, height, content_id, image_type, processing_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, r.images)

	res, err := r.db.ExecContext(ctx, query,
		img.OriginalURL, img.Filename, img.MimeType, img.Size, img.Width, img.Height,
		img.ContentID, img.ImageType, img.ProcessingStatus,
	)
	if err != nil {
		return grabbieldb.Image{}, fmt.Errorf("insert image: %w", err)
	}

	img.ID, err = res.LastInsertId()
	if err != nil {
		return grabbieldb.Image{}, fmt.Errorf("insert image: last insert id: %w", err)
	}

	return img, nil
}

func (r *mediaRepo) InsertVideo(ctx context.Context, v grabbieldb.Video) (grabbieldb.Video, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (title, gcs_path, mime_type, size_bytes, duration_seconds, content_id, processing_status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, r.videos)

	res, err := r.db.ExecContext(ctx, query,
		v.Title, v.GCSPath, v.MimeType, v.SizeBytes, v.DurationSeconds, v.ContentID, v.ProcessingStatus,
	)
	if err != nil {
		return grabbieldb.Video{}, fmt.Errorf("insert video: %w", err)
	}

	v.ID, err = res.LastInsertId()
	if err != nil {
		return grabbieldb.Video{}, fmt.Errorf("insert video: last insert id: %w", err)
	}

	return v, nil
}

func (r *mediaRepo) DeleteImage(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, r.images, id)
}

func (r *mediaRepo) DeleteVideo(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, r.videos, id)
}

func deleteByID(ctx context.Context, db *sql.DB, quotedTable string, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, quotedTable) //nolint:gosec // G201: table name is validated

	res, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete: rows affected: %w", err)
	}

	if n == 0 {
		return grabbieldb.ErrNotFound
	}

	return nil
}
