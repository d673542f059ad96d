package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/grabbiel/grabbieldb/rawhttp"
)

// Config holds the socket settings shared by both applications.
type Config struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxHeaderBytes int
	MaxBodyBytes   int64
	ReadBufferSize int
	// AllowTruncated dispatches requests whose body ended before
	// Content-Length. Handlers can tell by RawRequest.Complete.
	AllowTruncated bool
}

type Server struct {
	cfg     Config
	handler http.Handler
	log     *slog.Logger
	framer  rawhttp.Framer
	wg      sync.WaitGroup
}

func New(cfg Config, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		cfg:     cfg,
		handler: handler,
		log:     logger,
		framer: rawhttp.Framer{
			MaxHeaderBytes: cfg.MaxHeaderBytes,
			MaxBodyBytes:   cfg.MaxBodyBytes,
			ReadTimeout:    cfg.ReadTimeout,
			BufferSize:     cfg.ReadBufferSize,
		},
	}
}

// ListenAndServe listens on Config.Addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve accepts connections until ctx is done, then closes ln and waits for
// in-flight connections. It returns nil after a cancellation.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()
	defer s.wg.Wait()

	s.log.Info("listening", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}

			_ = ln.Close()
			return fmt.Errorf("accept: %w", err)
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.ServeConn(ctx, conn)
		}()
	}
}

// ServeConn handles the single request on conn and closes it.
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) {
	defer func() { _ = conn.Close() }()

	log := s.log.With("remote", conn.RemoteAddr().String())

	raw, err := s.framer.ReadRequest(conn)
	switch {
	case err == nil:
	case errors.Is(err, rawhttp.ErrTruncatedBody):
		log.Warn("truncated request body", "method", raw.Method, "path", raw.Path, "error", err)
		if !s.cfg.AllowTruncated {
			return
		}
	case errors.Is(err, rawhttp.ErrIncompleteHeaders):
		log.Debug("connection closed before headers", "error", err)
		return
	case errors.Is(err, rawhttp.ErrInvalidContentLength):
		s.reject(conn, log, http.StatusBadRequest, err)
		return
	case errors.Is(err, rawhttp.ErrHeadersTooLarge):
		s.reject(conn, log, http.StatusRequestHeaderFieldsTooLarge, err)
		return
	case errors.Is(err, rawhttp.ErrBodyTooLarge):
		s.reject(conn, log, http.StatusRequestEntityTooLarge, err)
		return
	default:
		log.Debug("read request", "error", err)
		return
	}

	req, err := newRequest(ctx, raw, conn.RemoteAddr().String())
	if err != nil {
		s.reject(conn, log, http.StatusBadRequest, err)
		return
	}

	w := newResponseWriter()
	if aborted := s.dispatch(w, req, log); aborted {
		return
	}

	s.write(conn, log, w, req.Method == http.MethodHead)
}

// dispatch runs the handler. A panic becomes a 500 unless it is
// http.ErrAbortHandler, which drops the connection.
func (s *Server) dispatch(w *responseWriter, r *http.Request, log *slog.Logger) (aborted bool) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}

		if v == http.ErrAbortHandler {
			aborted = true
			return
		}

		log.Error("handler panic", "method", r.Method, "path", r.URL.Path, "panic", v, "stack", string(debug.Stack()))
		w.reset()
		writeStatusText(w, http.StatusInternalServerError)
	}()

	s.handler.ServeHTTP(w, r)
	return false
}

func (s *Server) reject(conn net.Conn, log *slog.Logger, code int, err error) {
	log.Warn("rejecting request", "status", code, "error", err)

	w := newResponseWriter()
	writeStatusText(w, code)
	s.write(conn, log, w, false)
}

func (s *Server) write(conn net.Conn, log *slog.Logger, w *responseWriter, head bool) {
	if s.cfg.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	}

	if err := w.writeTo(conn, head); err != nil {
		log.Debug("write response", "error", err)
	}
}
