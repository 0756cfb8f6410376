package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"compboard/internal/config"
	"compboard/internal/dataset"
)

// Source hands out the cleaned dataset for a data file.
type Source interface {
	Load(path string) (*dataset.Result, error)
}

// Server renders the dashboard for the configured data file.
type Server struct {
	cfg    *config.Config
	source Source
	logger *slog.Logger
	router *mux.Router
}

// NewServer wires the routes.
func NewServer(cfg *config.Config, source Source, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{cfg: cfg, source: source, logger: logger, router: mux.NewRouter()}
	s.router.Use(s.loggingMiddleware)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/api/view", s.handleAPIView).Methods(http.MethodGet)
	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// view runs one threshold-change pass: load (memoized), filter, summarize, project.
func (s *Server) view(r *http.Request) (View, error) {
	res, err := s.source.Load(s.cfg.DataFile)
	if err != nil {
		return View{}, err
	}
	rating, log := Sliders(res.Dataset, s.cfg.Filters.DefaultMinLog10)
	t := ParseThresholds(r.URL.Query(), rating, log)
	v := BuildView(res.Dataset, t, rating, log, AxesFromConfig(s.cfg.Chart))
	v.DataFile = s.cfg.DataFile
	return v, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	v, err := s.view(r)
	if err != nil {
		s.renderLoadError(w, err)
		return
	}
	data := pageData{
		Title:   pageTitle,
		View:    v,
		Metrics: metricCards(v.Summary),
	}
	if !v.Empty {
		data.Chart = renderBubbleChart(v.Points, v.Axes, s.cfg.Chart.Height)
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.logger.Error("template error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleAPIView(w http.ResponseWriter, r *http.Request) {
	v, err := s.view(r)
	if err != nil {
		s.logger.Error("dataset load failed", "path", s.cfg.DataFile, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": userMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) renderLoadError(w http.ResponseWriter, err error) {
	s.logger.Error("dataset load failed", "path", s.cfg.DataFile, "error", err)
	var buf bytes.Buffer
	if tErr := errorTemplate.Execute(&buf, errorPageData{Title: pageTitle, Message: userMessage(err)}); tErr != nil {
		http.Error(w, userMessage(err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write(buf.Bytes())
}

func userMessage(err error) string {
	var le *dataset.LoadError
	if errors.As(err, &le) {
		return le.UserMessage()
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
