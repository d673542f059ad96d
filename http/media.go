package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/grabbiel/grabbieldb"
	"github.com/grabbiel/grabbieldb/render"
)

// API listing bounds.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type MediaService interface {
	Recent(ctx context.Context) (grabbieldb.RecentMedia, error)
	ListImages(ctx context.Context, limit int) ([]grabbieldb.Image, error)
	ListVideos(ctx context.Context, limit int) ([]grabbieldb.Video, error)
	UploadImage(ctx context.Context, up grabbieldb.ImageUpload) (grabbieldb.Image, error)
	UploadVideo(ctx context.Context, up grabbieldb.VideoUpload) (grabbieldb.Video, error)
	DeleteImage(ctx context.Context, id int64) error
	DeleteVideo(ctx context.Context, id int64) error
}

// ImageList is the body of GET /api/images.
type ImageList struct {
	Images []grabbieldb.Image `json:"images"`
}

// VideoList is the body of GET /api/videos.
type VideoList struct {
	Videos []grabbieldb.Video `json:"videos"`
}

type imageForm struct {
	ContentID   int64  `validate:"gte=0"`
	ImageType   string `validate:"oneof=thumbnail content"`
	StorageType string `validate:"oneof=public private"`
}

type videoForm struct {
	Title       string `validate:"max=1024"`
	ContentID   int64  `validate:"gte=0"`
	Duration    int64  `validate:"gte=0"`
	StorageType string `validate:"oneof=public private"`
}

// MediaHandler serves the media manager.
type MediaHandler struct {
	config  HandlerConfig
	service MediaService
	pages   *render.Renderer
}

func NewMediaHandler(config *HandlerConfig, service MediaService, pages *render.Renderer) *MediaHandler {
	return &MediaHandler{
		config:  *config,
		service: service,
		pages:   pages,
	}
}

// Router returns the media routes. A POST to an unknown path is a bad
// request; other unknown methods are not allowed.
func (h *MediaHandler) Router() http.Handler {
	r := h.config.newRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			notFound(w, r)
		case http.MethodPost:
			writeText(w, http.StatusBadRequest, TextBadRequest)
		default:
			methodNotAllowed(w, r)
		}
	})

	r.Get("/", h.handleIndex)
	r.Get("/index", h.handleIndex)
	r.Post("/upload-image", h.handleUploadImage)
	r.Post("/upload-video", h.handleUploadVideo)
	r.Get("/delete-image", h.handleDeleteImage)
	r.Get("/delete-video", h.handleDeleteVideo)
	r.Get("/api/images", h.handleListImages)
	r.Get("/api/videos", h.handleListVideos)

	return r
}

func (h *MediaHandler) handleIndex(w http.ResponseWriter, r *http.Request) {
	recent, err := h.service.Recent(r.Context())
	if err != nil {
		writePageError(w, r, err)
		return
	}

	writeHTML(w, r, h.pages, render.MediaIndex, render.MediaPage{Images: recent.Images, Videos: recent.Videos})
}

func (h *MediaHandler) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	log := LoggerFrom(r.Context())

	form, err := multipartForm(r)
	if err != nil {
		writePageError(w, r, err)
		return
	}

	file, ok := form.File("image")
	if !ok {
		writePageError(w, r, errors.Join(grabbieldb.ErrInvalidInput, errors.New("missing image file")))
		return
	}

	in := imageForm{
		ImageType:   orDefault(form.Value("image_type"), string(grabbieldb.ImageContent)),
		StorageType: orDefault(form.Value("storage_type"), string(grabbieldb.StoragePublic)),
	}
	if in.ContentID, err = parseInt("content_id", form.Value("content_id"), 0); err != nil {
		writePageError(w, r, err)
		return
	}
	if err := validate.Struct(in); err != nil {
		writePageError(w, r, validationError(log, err))
		return
	}

	img, err := h.service.UploadImage(r.Context(), grabbieldb.ImageUpload{
		Filename:  file.Filename,
		Content:   file.Data,
		ContentID: in.ContentID,
		ImageType: grabbieldb.ImageType(in.ImageType),
		Storage:   grabbieldb.StorageType(in.StorageType),
	})
	if err == nil {
		log.Info("image uploaded", "id", img.ID, "filename", img.Filename)
	}

	h.finishUpload(w, r, err)
}

func (h *MediaHandler) handleUploadVideo(w http.ResponseWriter, r *http.Request) {
	log := LoggerFrom(r.Context())

	form, err := multipartForm(r)
	if err != nil {
		writePageError(w, r, err)
		return
	}

	file, ok := form.File("video")
	if !ok {
		writePageError(w, r, errors.Join(grabbieldb.ErrInvalidInput, errors.New("missing video file")))
		return
	}

	in := videoForm{
		Title:       form.Value("title"),
		StorageType: orDefault(form.Value("storage_type"), string(grabbieldb.StoragePublic)),
	}
	if in.ContentID, err = parseInt("content_id", form.Value("content_id"), 0); err != nil {
		writePageError(w, r, err)
		return
	}
	if in.Duration, err = parseInt("duration", form.Value("duration"), 0); err != nil {
		writePageError(w, r, err)
		return
	}
	if err := validate.Struct(in); err != nil {
		writePageError(w, r, validationError(log, err))
		return
	}

	v, err := h.service.UploadVideo(r.Context(), grabbieldb.VideoUpload{
		Filename:        file.Filename,
		Title:           in.Title,
		Content:         file.Data,
		ContentID:       in.ContentID,
		DurationSeconds: int(in.Duration),
		Storage:         grabbieldb.StorageType(in.StorageType),
	})
	if err == nil {
		log.Info("video uploaded", "id", v.ID, "title", v.Title)
	}

	h.finishUpload(w, r, err)
}

// finishUpload redirects to the dashboard unless the upload was rejected
// or hit an internal error. An object store failure only gets logged.
func (h *MediaHandler) finishUpload(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case err == nil:
	case errors.Is(err, grabbieldb.ErrUploadFailed):
		LoggerFrom(r.Context()).Error("upload failed", "error", err)
	default:
		writePageError(w, r, err)
		return
	}

	seeOther(w, "/")
}

func (h *MediaHandler) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, h.service.DeleteImage)
}

func (h *MediaHandler) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, h.service.DeleteVideo)
}

// handleDelete redirects without doing anything when id is missing and
// treats an unknown id as already deleted.
func (h *MediaHandler) handleDelete(w http.ResponseWriter, r *http.Request, del func(context.Context, int64) error) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		seeOther(w, "/")
		return
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeText(w, http.StatusBadRequest, TextBadRequest)
		return
	}

	if err := del(r.Context(), id); err != nil {
		if !errors.Is(err, grabbieldb.ErrNotFound) {
			writePageError(w, r, err)
			return
		}
		LoggerFrom(r.Context()).Debug("delete of unknown media", "id", id)
	}

	seeOther(w, "/")
}

func (h *MediaHandler) handleListImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.service.ListImages(r.Context(), limitParam(r))
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, ImageList{Images: images})
}

func (h *MediaHandler) handleListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.service.ListVideos(r.Context(), limitParam(r))
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, VideoList{Videos: videos})
}

func limitParam(r *http.Request) int {
	limit := DefaultListLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil {
			limit = max(1, min(MaxListLimit, parsed))
		}
	}
	return limit
}
