package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/coursedex/internal/domain"
	"github.com/kailas-cloud/coursedex/internal/domain/search/filter"
	"github.com/kailas-cloud/coursedex/internal/domain/search/request"
	"github.com/kailas-cloud/coursedex/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/coursedex/internal/usecase/health"
)

// currentAPIVersion is the response shape served by /search. Older clients are refused.
const currentAPIVersion = 2

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// searcher is the consumer interface for the search use case (ISP).
type searcher interface {
	Search(ctx context.Context, req *request.Request) (result.Result, error)
	FacetNames() []string
}

// healthChecker is the consumer interface for the health use case (ISP).
type healthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// PageConfig bounds the result window a client may request.
type PageConfig struct {
	DefaultSize int
	MaxSize     int
}

// Server serves the search HTTP API.
type Server struct {
	search        searcher
	health        healthChecker
	page          PageConfig
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search searcher, health healthChecker, page PageConfig, logger *zap.Logger) *Server {
	if page.DefaultSize <= 0 {
		page.DefaultSize = request.DefaultPageSize
	}
	if page.MaxSize <= 0 {
		page.MaxSize = request.MaxPageSize
	}
	s := &Server{
		search: search,
		health: health,
		page:   page,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeBadRequest),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusBadGateway, ErrorCodeIndexUnavailable),
		sentinelHandler(domain.ErrSubjectsUnavailable, http.StatusBadGateway, ErrorCodeSubjectsUnavailable),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/search", s.Search)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.handleDomainError(w, fmt.Errorf("%w: %s %s", domain.ErrNotFound, r.Method, r.URL.Path))
	})
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseSearchRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	res, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResultToResponse(res, s.search.FacetNames()))
}

func (s *Server) parseSearchRequest(r *http.Request) (*request.Request, error) {
	q := r.URL.Query()

	var (
		minIndex   int
		maxIndex   *int
		apiVersion *int
	)
	if err := runtime.BindQueryParameter("form", true, false, "minIndex", q, &minIndex); err != nil {
		return nil, fmt.Errorf("invalid minIndex: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "maxIndex", q, &maxIndex); err != nil {
		return nil, fmt.Errorf("invalid maxIndex: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "apiVersion", q, &apiVersion); err != nil {
		return nil, fmt.Errorf("invalid apiVersion: %w", err)
	}
	if apiVersion != nil && *apiVersion != currentAPIVersion {
		return nil, fmt.Errorf("unsupported apiVersion %d, expected %d", *apiVersion, currentAPIVersion)
	}

	upper := minIndex + s.page.DefaultSize
	if maxIndex != nil {
		upper = *maxIndex
	}

	filters, err := parseFilters(q.Get("filters"))
	if err != nil {
		return nil, err
	}

	req, err := request.New(q.Get("query"), q.Get("termId"), minIndex, upper, filters, s.page.MaxSize)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// parseFilters decodes the JSON filter object. An empty parameter means no filters.
func parseFilters(raw string) (filter.Selection, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return filter.Selection{}, nil
	}
	var sel filter.Selection
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(raw, &sel); err != nil {
		return nil, fmt.Errorf("filters must be a JSON object: %w", err)
	}
	if sel == nil {
		sel = filter.Selection{}
	}
	return sel, nil
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrNotFound,
		domain.ErrIndexUnavailable,
		domain.ErrSubjectsUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
