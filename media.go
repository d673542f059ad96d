package grabbieldb

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

const (
	imagePrefix = "/images/originals/"
	videoPrefix = "/videos/originals/"

	defaultImageMime = "image/jpeg"
	defaultVideoMime = "video/mp4"

	// DefaultRecentLimit is how many rows the dashboard lists per media kind.
	DefaultRecentLimit = 10

	previewBytes = 64
)

// MediaConfig holds the bucket layout for uploads.
type MediaConfig struct {
	// PublicBucket and PrivateBucket are bucket URLs such as gs://grabbiel-media-public.
	PublicBucket  string
	PrivateBucket string
	// PublicURLBase is the HTTP prefix world-readable objects are served from.
	PublicURLBase  string
	RecentLimit    int
	CleanupTimeout time.Duration // Timeout for spool cleanup (default: 30s)
	Logger         *slog.Logger
}

// ImageUpload is a decoded image upload form.
type ImageUpload struct {
	Filename  string
	Content   []byte
	ContentID int64
	ImageType ImageType
	Storage   StorageType
}

// VideoUpload is a decoded video upload form. An empty Title defaults to
// the filename.
type VideoUpload struct {
	Filename        string
	Title           string
	Content         []byte
	ContentID       int64
	DurationSeconds int
	Storage         StorageType
}

// RecentMedia is what the dashboard shows.
type RecentMedia struct {
	Images []Image `json:"images"`
	Videos []Video `json:"videos"`
}

type MediaService struct {
	repo  MediaRepo
	spool Spool
	store ObjectStore
	cfg   MediaConfig
	log   *slog.Logger
}

func NewMediaService(repo MediaRepo, spool Spool, store ObjectStore, cfg MediaConfig) (*MediaService, error) {
	if cfg.PublicBucket == "" || cfg.PrivateBucket == "" {
		return nil, fmt.Errorf("new media service: %w: buckets cannot be empty", ErrInvalidInput)
	}

	if cfg.PublicURLBase == "" {
		return nil, fmt.Errorf("new media service: %w: public url base cannot be empty", ErrInvalidInput)
	}

	cfg.PublicBucket = strings.TrimSuffix(cfg.PublicBucket, "/")
	cfg.PrivateBucket = strings.TrimSuffix(cfg.PrivateBucket, "/")
	cfg.PublicURLBase = strings.TrimSuffix(cfg.PublicURLBase, "/")

	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = DefaultRecentLimit
	}

	if cfg.CleanupTimeout <= 0 {
		cfg.CleanupTimeout = 30 * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &MediaService{
		repo:  repo,
		spool: spool,
		store: store,
		cfg:   cfg,
		log:   logger,
	}, nil
}

// Recent returns the latest images and videos, newest first.
func (s *MediaService) Recent(ctx context.Context) (RecentMedia, error) {
	images, err := s.repo.ListImages(ctx, s.cfg.RecentLimit)
	if err != nil {
		return RecentMedia{}, fmt.Errorf("recent media: %w", err)
	}

	videos, err := s.repo.ListVideos(ctx, s.cfg.RecentLimit)
	if err != nil {
		return RecentMedia{}, fmt.Errorf("recent media: %w", err)
	}

	return RecentMedia{Images: images, Videos: videos}, nil
}

func (s *MediaService) ListImages(ctx context.Context, limit int) ([]Image, error) {
	images, err := s.repo.ListImages(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return images, nil
}

func (s *MediaService) ListVideos(ctx context.Context, limit int) ([]Video, error) {
	videos, err := s.repo.ListVideos(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}

// UploadImage spools the file, pushes it to
// <bucket>/images/originals/<filename> and records it.
//
// Public images are recorded with their HTTP URL, private ones with the
// bucket path. Width and height are read from the image header when the
// format is known (gif, jpeg, png) and left at 0 otherwise.
//
// Error types returned:
//   - ErrInvalidInput: bad filename, image type, storage type or content id
//   - ErrUploadFailed: object storage did not confirm the upload
//   - Wrapped spool or repository errors
func (s *MediaService) UploadImage(ctx context.Context, up ImageUpload) (Image, error) {
	if err := ctx.Err(); err != nil {
		return Image{}, fmt.Errorf("upload image: %w", err)
	}

	if up.ImageType == "" {
		up.ImageType = ImageContent
	}

	if up.Storage == "" {
		up.Storage = StoragePublic
	}

	if err := validateUpload(up.Filename, up.Storage, up.ContentID); err != nil {
		return Image{}, fmt.Errorf("upload image: %w", err)
	}

	if !up.ImageType.IsValid() {
		return Image{}, fmt.Errorf("upload image %s: %w: invalid image type %q", up.Filename, ErrInvalidInput, up.ImageType)
	}

	public := up.Storage == StoragePublic
	remote := s.bucket(up.Storage) + imagePrefix + up.Filename

	saved, err := s.push(ctx, up.Filename, up.Content, remote, public)
	if err != nil {
		return Image{}, fmt.Errorf("upload image %s: %w", up.Filename, err)
	}

	location := remote
	if public {
		location = s.cfg.PublicURLBase + imagePrefix + url.PathEscape(up.Filename)
	}

	width, height := imageDimensions(up.Content)

	img, err := s.repo.InsertImage(ctx, Image{
		OriginalURL:      location,
		Filename:         up.Filename,
		MimeType:         detectMimeType(up.Filename, up.Content, defaultImageMime),
		Size:             saved.BytesWritten,
		Width:            width,
		Height:           height,
		ContentID:        up.ContentID,
		ImageType:        string(up.ImageType),
		ProcessingStatus: StatusComplete,
	})
	if err != nil {
		return Image{}, fmt.Errorf("upload image %s: %w", up.Filename, err)
	}

	s.log.Info("image stored", "id", img.ID, "location", location, "size", img.Size)

	return img, nil
}

// UploadVideo spools the file, pushes it to
// <bucket>/videos/originals/<filename> and records the bucket path.
func (s *MediaService) UploadVideo(ctx context.Context, up VideoUpload) (Video, error) {
	if err := ctx.Err(); err != nil {
		return Video{}, fmt.Errorf("upload video: %w", err)
	}

	if up.Storage == "" {
		up.Storage = StoragePublic
	}

	if err := validateUpload(up.Filename, up.Storage, up.ContentID); err != nil {
		return Video{}, fmt.Errorf("upload video: %w", err)
	}

	if up.DurationSeconds < 0 {
		return Video{}, fmt.Errorf("upload video %s: %w: negative duration", up.Filename, ErrInvalidInput)
	}

	if up.Title == "" {
		up.Title = up.Filename
	}

	remote := s.bucket(up.Storage) + videoPrefix + up.Filename

	saved, err := s.push(ctx, up.Filename, up.Content, remote, up.Storage == StoragePublic)
	if err != nil {
		return Video{}, fmt.Errorf("upload video %s: %w", up.Filename, err)
	}

	v, err := s.repo.InsertVideo(ctx, Video{
		Title:            up.Title,
		GCSPath:          remote,
		MimeType:         detectMimeType(up.Filename, up.Content, defaultVideoMime),
		SizeBytes:        saved.BytesWritten,
		DurationSeconds:  up.DurationSeconds,
		ContentID:        up.ContentID,
		ProcessingStatus: StatusComplete,
	})
	if err != nil {
		return Video{}, fmt.Errorf("upload video %s: %w", up.Filename, err)
	}

	s.log.Info("video stored", "id", v.ID, "location", remote, "size", v.SizeBytes)

	return v, nil
}

// DeleteImage removes the bucket object when the record points at one and
// then removes the record. A failed object delete is logged and does not
// keep the record.
func (s *MediaService) DeleteImage(ctx context.Context, id int64) error {
	img, err := s.repo.GetImage(ctx, id)
	if err != nil {
		return fmt.Errorf("delete image %d: %w", id, err)
	}

	if hasGCSScheme(img.OriginalURL) {
		s.deleteObject(ctx, img.OriginalURL)
	}

	if err := s.repo.DeleteImage(ctx, id); err != nil {
		return fmt.Errorf("delete image %d: %w", id, err)
	}

	return nil
}

// DeleteVideo removes the bucket object, if any, and then the record.
func (s *MediaService) DeleteVideo(ctx context.Context, id int64) error {
	v, err := s.repo.GetVideo(ctx, id)
	if err != nil {
		return fmt.Errorf("delete video %d: %w", id, err)
	}

	if v.GCSPath != "" {
		s.deleteObject(ctx, v.GCSPath)
	}

	if err := s.repo.DeleteVideo(ctx, id); err != nil {
		return fmt.Errorf("delete video %d: %w", id, err)
	}

	return nil
}

func (s *MediaService) deleteObject(ctx context.Context, remote string) {
	if err := s.store.Delete(ctx, remote); err != nil {
		s.log.Warn("object delete failed, removing record anyway", "remote", remote, "error", err)
	}
}

// push writes content to the spool, uploads it and always removes the
// spooled copy.
func (s *MediaService) push(ctx context.Context, filename string, content []byte, remote string, public bool) (SaveResult, error) {
	saved, err := s.spool.Write(ctx, filename, bytes.NewReader(content))
	if err != nil {
		return SaveResult{}, fmt.Errorf("spool: %w", err)
	}
	defer s.removeSpooled(saved.Name)

	s.log.Debug("upload spooled",
		"path", saved.Path,
		"bytes", saved.BytesWritten,
		"etag", saved.Etag,
		"preview", hex.EncodeToString(content[:min(len(content), previewBytes)]),
	)

	if err := s.store.Upload(ctx, saved.Path, remote, public); err != nil {
		return SaveResult{}, err
	}

	return saved, nil
}

func (s *MediaService) removeSpooled(name string) {
	// the request context may already be cancelled
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.CleanupTimeout)
	defer cancel()

	if err := s.spool.Remove(ctx, name); err != nil && !errors.Is(err, ErrNotFound) {
		s.log.Warn("spool cleanup failed", "name", name, "error", err)
	}
}

func (s *MediaService) bucket(st StorageType) string {
	if st == StoragePublic {
		return s.cfg.PublicBucket
	}
	return s.cfg.PrivateBucket
}

func validateUpload(filename string, st StorageType, contentID int64) error {
	if !IsValidFilename(filename) {
		return fmt.Errorf("%w: invalid filename %q", ErrInvalidInput, filename)
	}

	if !st.IsValid() {
		return fmt.Errorf("%w: invalid storage type %q", ErrInvalidInput, st)
	}

	if contentID < 0 {
		return fmt.Errorf("%w: negative content id", ErrInvalidInput)
	}

	return nil
}

func imageDimensions(content []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

// detectMimeType prefers the extension, then content sniffing, then fallback.
func detectMimeType(filename string, content []byte, fallback string) string {
	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		mediaType, _, _ := strings.Cut(byExt, ";")
		return mediaType
	}

	sniffed, _, _ := strings.Cut(http.DetectContentType(content), ";")
	if sniffed == "application/octet-stream" || sniffed == "text/plain" {
		return fallback
	}

	return sniffed
}
