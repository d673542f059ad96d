package clientcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dchest/uniuri"
	jsoniter "github.com/json-iterator/go"

	"github.com/grabbiel/grabbieldb"
	"github.com/grabbiel/grabbieldb/rawhttp"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// DefaultTimeout is the default HTTP client timeout. Uploads wait for
	// the server's gsutil round trip.
	DefaultTimeout = 5 * time.Minute

	// DefaultListLimit matches the server default.
	DefaultListLimit = 20

	// confirmWindow is how many recent rows are searched for a new upload.
	confirmWindow = 10

	boundaryPrefix = "----grabbieldb"
)

// Client performs operations against a grabbieldb media server.
type Client struct {
	endpoint   string
	httpClient *http.Client
	boundary   func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. Redirects are never followed;
// the client's CheckRedirect is replaced.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithBoundary fixes the multipart boundary.
func WithBoundary(boundary string) Option {
	return func(c *Client) {
		c.boundary = func() string { return boundary }
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		boundary:   func() string { return boundaryPrefix + uniuri.NewLen(24) },
	}

	for _, opt := range opts {
		opt(c)
	}

	// 303 See Other is the success answer
	hc := *c.httpClient
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	c.httpClient = &hc

	return c, nil
}

// Endpoint returns the normalized server URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// UploadImage posts a file to /upload-image and looks the new row up.
func (c *Client) UploadImage(ctx context.Context, opts ImageUploadOptions) (UploadResult, error) {
	fields := []rawhttp.Part{
		{Name: "content_id", Value: strconv.FormatInt(opts.ContentID, 10)},
	}
	if opts.ImageType != "" {
		fields = append(fields, rawhttp.Part{Name: "image_type", Value: opts.ImageType})
	}
	if opts.Storage != "" {
		fields = append(fields, rawhttp.Part{Name: "storage_type", Value: opts.Storage})
	}

	result, err := c.upload(ctx, KindImage, "/upload-image", "image", opts.LocalPath, fields)
	if err != nil {
		return result, err
	}

	images, err := c.listImages(ctx, confirmWindow)
	if err != nil {
		result.Err = fmt.Errorf("confirm upload: %w", err)
		return result, nil
	}

	for _, img := range images {
		if img.Filename == result.Filename {
			result.ID, result.URL = img.ID, img.OriginalURL
			return result, nil
		}
	}

	result.Err = ErrNotConfirmed
	return result, nil
}

// UploadVideo posts a file to /upload-video and looks the new row up.
func (c *Client) UploadVideo(ctx context.Context, opts VideoUploadOptions) (UploadResult, error) {
	fields := []rawhttp.Part{
		{Name: "content_id", Value: strconv.FormatInt(opts.ContentID, 10)},
		{Name: "duration", Value: strconv.Itoa(opts.Duration)},
	}
	if opts.Title != "" {
		fields = append(fields, rawhttp.Part{Name: "title", Value: opts.Title})
	}
	if opts.Storage != "" {
		fields = append(fields, rawhttp.Part{Name: "storage_type", Value: opts.Storage})
	}

	result, err := c.upload(ctx, KindVideo, "/upload-video", "video", opts.LocalPath, fields)
	if err != nil {
		return result, err
	}

	title := opts.Title
	if title == "" {
		title = result.Filename
	}

	videos, err := c.listVideos(ctx, confirmWindow)
	if err != nil {
		result.Err = fmt.Errorf("confirm upload: %w", err)
		return result, nil
	}

	for _, v := range videos {
		if v.Title == title && v.SizeBytes == result.Size {
			result.ID, result.URL = v.ID, v.GCSPath
			return result, nil
		}
	}

	result.Err = ErrNotConfirmed
	return result, nil
}

// upload sends fields plus the file part named fileField. A 303 from the
// server means the form was accepted.
func (c *Client) upload(ctx context.Context, kind Kind, path, fileField, localPath string, fields []rawhttp.Part) (UploadResult, error) {
	if localPath == "" {
		return UploadResult{}, fmt.Errorf("upload: %w", ErrEmptyPath)
	}

	data, err := os.ReadFile(localPath) //#nosec G304 -- localPath is user-provided input
	if err != nil {
		return UploadResult{}, fmt.Errorf("read file: %w", err)
	}

	result := UploadResult{
		Kind:      kind,
		LocalPath: localPath,
		Filename:  filepath.Base(localPath),
		Size:      int64(len(data)),
	}

	boundary := c.boundary()
	parts := append(fields, rawhttp.Part{Name: fileField, Filename: result.Filename, Data: data})
	body := rawhttp.EncodeMultipart(boundary, parts)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return result, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", rawhttp.FormContentType(boundary))

	if _, err := c.do(req, http.StatusSeeOther); err != nil {
		return result, err
	}

	return result, nil
}

// Delete removes rows of one kind by id. Continues on error, collecting
// results for all ids.
func (c *Client) Delete(ctx context.Context, kind Kind, ids []int64) ([]DeleteResult, error) {
	if len(ids) == 0 {
		return nil, ErrNoIDs
	}

	path := "/delete-image"
	if kind == KindVideo {
		path = "/delete-video"
	}

	results := make([]DeleteResult, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		r := DeleteResult{Kind: kind, ID: id}
		u := c.endpoint + path + "?" + url.Values{"id": {strconv.FormatInt(id, 10)}}.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
		if err != nil {
			r.Err = fmt.Errorf("create request: %w", err)
		} else if _, err := c.do(req, http.StatusSeeOther); err != nil {
			r.Err = err
		} else {
			r.Deleted = true
		}

		results = append(results, r)
	}

	return results, nil
}

// HasDeleteErrors returns true if any delete operation failed.
func HasDeleteErrors(results []DeleteResult) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// List returns the most recent rows of one kind, newest first.
func (c *Client) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	switch opts.Kind {
	case KindImage:
		images, err := c.listImages(ctx, limit)
		if err != nil {
			return nil, err
		}
		return &ListResult{Images: images}, nil
	case KindVideo:
		videos, err := c.listVideos(ctx, limit)
		if err != nil {
			return nil, err
		}
		return &ListResult{Videos: videos}, nil
	default:
		return nil, fmt.Errorf("list: %w: %q", ErrInvalidKind, opts.Kind)
	}
}

func (c *Client) listImages(ctx context.Context, limit int) ([]grabbieldb.Image, error) {
	var out serverImageList
	if err := c.getJSON(ctx, "/api/images", limit, &out); err != nil {
		return nil, err
	}
	return out.Images, nil
}

func (c *Client) listVideos(ctx context.Context, limit int) ([]grabbieldb.Video, error) {
	var out serverVideoList
	if err := c.getJSON(ctx, "/api/videos", limit, &out); err != nil {
		return nil, err
	}
	return out.Videos, nil
}

func (c *Client) getJSON(ctx context.Context, path string, limit int, v any) error {
	u := c.endpoint + path + "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	body, err := c.do(req, http.StatusOK)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// do executes req and returns the body when the status is want.
func (c *Client) do(req *http.Request, want int) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != want {
		return nil, parseServerError(resp.StatusCode, body)
	}

	return body, nil
}

// parseServerError extracts the error message from a server response. JSON
// bodies carry a message field; HTML routes answer with plain text.
func parseServerError(statusCode int, body []byte) error {
	var payload struct {
		Code    string `json:"error"`
		Message string `json:"message"`
	}

	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		msg = payload.Message
	}

	return &APIError{StatusCode: statusCode, Body: msg}
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Body
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrNotFound is returned when the requested resource does not exist (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrBadRequest is returned when the server rejected the form (400).
	ErrBadRequest = &APIError{StatusCode: http.StatusBadRequest}
)
