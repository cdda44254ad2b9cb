// Package server exposes version resolution and feedback collection over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/cors"

	"github.com/amonks/remindme/feedback"
	internalstrings "github.com/amonks/remindme/internal/strings"
	"github.com/amonks/remindme/version"
)

// DefaultKeepAliveInterval matches the hosting platform's idle timeout margin.
const DefaultKeepAliveInterval = 14 * time.Minute

const shutdownTimeout = 5 * time.Second

// ServerOptions configures a server.
type ServerOptions struct {
	Versions *version.Service
	Feedback *feedback.Service

	// AdminSecret signs admin tokens. When empty, admin routes are open.
	AdminSecret []byte

	// CORSOrigins lists allowed origins. Empty allows any origin.
	CORSOrigins []string

	// KeepAliveInterval is how often Serve pings its own health endpoint.
	// Zero uses DefaultKeepAliveInterval; a negative value disables pinging.
	KeepAliveInterval time.Duration

	Logger *log.Logger
}

// Server handles the version and feedback API.
type Server struct {
	versions          *version.Service
	feedback          *feedback.Service
	auth              *Authenticator
	corsOrigins       []string
	keepAliveInterval time.Duration
	logger            *log.Logger
}

// NewServer creates a server.
func NewServer(opts ServerOptions) (*Server, error) {
	if opts.Versions == nil {
		return nil, fmt.Errorf("version service is required")
	}
	if opts.Feedback == nil {
		return nil, fmt.Errorf("feedback service is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "remindme-server: ", log.LstdFlags)
	}
	interval := opts.KeepAliveInterval
	if interval == 0 {
		interval = DefaultKeepAliveInterval
	}

	var auth *Authenticator
	if len(opts.AdminSecret) > 0 {
		auth = NewAuthenticator(opts.AdminSecret)
	}

	return &Server{
		versions:          opts.Versions,
		feedback:          opts.Feedback,
		auth:              auth,
		corsOrigins:       opts.CORSOrigins,
		keepAliveInterval: interval,
		logger:            logger,
	}, nil
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/version/latest", s.handleLatestVersion)
	mux.Handle("POST /api/version", s.requireAdmin(http.HandlerFunc(s.handlePublishVersion)))
	mux.Handle("DELETE /api/version/{version}", s.requireAdmin(http.HandlerFunc(s.handleDeleteVersion)))
	mux.HandleFunc("POST /api/feedback", s.handleSubmitFeedback)
	mux.Handle("GET /api/feedback", s.requireAdmin(http.HandlerFunc(s.handleListFeedback)))

	origins := s.corsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return s.recoverHandler(c.Handler(mux))
}

// Serve runs the server on addr until it fails or the process is interrupted.
func (s *Server) Serve(addr string) error {
	server := &http.Server{
		Addr:     addr,
		Handler:  s.Handler(),
		ErrorLog: s.logger,
	}

	listenErrs := make(chan error, 1)
	go func() {
		listenErrs <- server.ListenAndServe()
	}()
	s.logf("listening on %s", addr)

	pingCtx, stopPinging := context.WithCancel(context.Background())
	defer stopPinging()
	if s.keepAliveInterval > 0 {
		pinger := &KeepAlive{
			URL:      resolveBaseURL(addr) + "/health",
			Interval: s.keepAliveInterval,
			Logger:   s.logger,
		}
		go pinger.Run(pingCtx)
	}

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	select {
	case err := <-listenErrs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logf("server stopped: %v", err)
			return err
		}
		return nil
	case <-interrupts:
		s.logf("interrupt received, shutting down")
		stopPinging()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		shutdownErr := server.Shutdown(shutdownCtx)
		cancel()
		listenErr := <-listenErrs
		if errors.Is(listenErr, http.ErrServerClosed) {
			listenErr = nil
		}
		return errors.Join(shutdownErr, listenErr)
	}
}

func resolveBaseURL(addr string) string {
	trimmed := strings.TrimSpace(addr)
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return internalstrings.TrimTrailingSlash(trimmed)
	}
	host := trimmed
	if host == "" {
		host = ":80"
	}
	if strings.HasPrefix(host, ":") {
		host = "127.0.0.1" + host
	}
	if strings.HasPrefix(host, "0.0.0.0:") {
		host = "127.0.0.1:" + strings.TrimPrefix(host, "0.0.0.0:")
	}
	return "http://" + host
}

func (s *Server) recoverHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := &responseTracker{ResponseWriter: w}
		defer func() {
			if recovered := recover(); recovered != nil {
				s.logf("panic handling request %s %s: %v\n%s", r.Method, r.URL.Path, recovered, debug.Stack())
				if writer.wroteHeader {
					return
				}
				writeJSON(writer, http.StatusInternalServerError, errorResponse{
					Message: "Internal server error",
					Error:   "internal server error",
				})
			}
		}()
		next.ServeHTTP(writer, r)
	})
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	if decoder.More() {
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	s.logRequestError(r, status, err)
	payload := errorResponse{Message: message}
	if err != nil {
		payload.Error = err.Error()
	}
	writeJSON(w, status, payload)
}

func (s *Server) logRequestError(r *http.Request, status int, err error) {
	if s == nil || s.logger == nil {
		return
	}
	s.logger.Printf("request %s %s failed (%d): %v", r.Method, r.URL.Path, status, err)
}

func (s *Server) logf(format string, args ...any) {
	if s == nil || s.logger == nil {
		return
	}
	s.logger.Printf(format, args...)
}

type responseTracker struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *responseTracker) WriteHeader(status int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseTracker) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
	}
	return w.ResponseWriter.Write(data)
}
