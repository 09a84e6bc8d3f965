// Package server exposes the query engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/pable/hoopstats/internal/engine"
	"github.com/pable/hoopstats/internal/interpret"
	"github.com/pable/hoopstats/internal/logging"
	"github.com/pable/hoopstats/internal/metrics"
	"github.com/pable/hoopstats/internal/model"
)

const maxBodyBytes = 1 << 16

// Runner executes engine requests. *engine.Engine satisfies it.
type Runner interface {
	Run(ctx context.Context, req model.Request) (*model.Result, error)
}

// Pinger reports store health. *storage.DB satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires HTTP routes for the query API.
type Server struct {
	runner     Runner
	store      Pinger
	translator *interpret.Translator
	metrics    *metrics.Manager
	log        *slog.Logger
}

// New returns a Server. translator may be nil, which disables /v1/ask.
func New(runner Runner, store Pinger, translator *interpret.Translator, m *metrics.Manager, log *slog.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	if m == nil {
		m = metrics.NewManager()
	}
	return &Server{runner: runner, store: store, translator: translator, metrics: m, log: log}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/query", s.instrument("query", s.handleQuery))
	mux.HandleFunc("POST /v1/ask", s.instrument("ask", s.handleAsk))
	mux.HandleFunc("GET /healthz", s.instrument("healthz", s.handleHealth))
	mux.Handle("GET /metrics", s.metrics.Handler())
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.InfoContext(ctx, "listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type errorResponse struct {
	Code      string `json:"code"`
	Field     string `json:"field,omitempty"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Request     model.Request `json:"request"`
	Description string        `json:"description"`
	Result      *model.Result `json:"result"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req model.Request
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err)
		return
	}
	res, err := s.runner.Run(r.Context(), req)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if s.translator == nil {
		writeError(w, http.StatusNotImplemented, "ASK_DISABLED", errors.New("no language model configured"))
		return
	}
	var body askRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err)
		return
	}
	tr, err := s.translator.Translate(r.Context(), body.Question)
	if err != nil {
		if errors.Is(err, interpret.ErrUnanswerable) {
			writeError(w, http.StatusUnprocessableEntity, "UNANSWERABLE", err)
			return
		}
		writeError(w, http.StatusBadGateway, "TRANSLATION_FAILED", err)
		return
	}
	res, err := s.runner.Run(r.Context(), tr.Request)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, askResponse{Request: tr.Request, Description: tr.Description, Result: res})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, string(engine.KindStoreUnavailable), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	var e *engine.Error
	if !errors.As(err, &e) {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err)
		return
	}
	status := http.StatusBadRequest
	if e.Kind == engine.KindStoreUnavailable {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, errorResponse{
		Code:      string(e.Kind),
		Field:     e.Field,
		Message:   e.Message,
		Retryable: e.Retryable(),
	})
}

// instrument attaches a request id and records the response status.
func (s *Server) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := r.Header.Get("X-Request-ID"); id != "" {
			ctx = logging.WithRequestID(ctx, id)
		}
		ctx, id := logging.EnsureRequestID(ctx)
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(wrapped, r.WithContext(ctx))

		s.metrics.RecordHTTPRequest(endpoint, r.Method, strconv.Itoa(wrapped.statusCode))
		s.log.LogAttrs(ctx, slog.LevelDebug, "http",
			slog.String("request_id", id),
			slog.String("endpoint", endpoint),
			slog.Int("status", wrapped.statusCode),
			slog.Duration("elapsed", time.Since(start)),
		)
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
