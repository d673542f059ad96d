package http

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/grabbiel/grabbieldb/render"
)

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age" validate:"min=0"`
}

// HandlerConfig is shared by the admin and media handlers.
type HandlerConfig struct {
	CORS   CORSConfig
	Logger *slog.Logger
}

var validate = validator.New()

func (c *HandlerConfig) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *HandlerConfig) newRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(RequestLogger(c.logger()))

	if c.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   c.CORS.AllowedOrigins,
			AllowedMethods:   c.CORS.AllowedMethods,
			AllowedHeaders:   c.CORS.AllowedHeaders,
			ExposedHeaders:   c.CORS.ExposedHeaders,
			AllowCredentials: c.CORS.AllowCredentials,
			MaxAge:           c.CORS.MaxAge,
		}))
	}

	r.MethodNotAllowed(methodNotAllowed)

	return r
}

// writeHTML renders the whole page before writing so a template error can
// still become an error response.
func writeHTML(w http.ResponseWriter, r *http.Request, pages *render.Renderer, name string, data any) {
	var buf bytes.Buffer
	if err := pages.Render(&buf, name, data); err != nil {
		writePageError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
