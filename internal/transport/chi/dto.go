package chi

import (
	"github.com/kailas-cloud/coursedex/internal/domain"
	"github.com/kailas-cloud/coursedex/internal/domain/search/result"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.Code.
const (
	ErrorCodeBadRequest          ErrorCode = "bad_request"
	ErrorCodeUnauthorized        ErrorCode = "unauthorized"
	ErrorCodeNotFound            ErrorCode = "not_found"
	ErrorCodeIndexUnavailable    ErrorCode = "index_unavailable"
	ErrorCodeSubjectsUnavailable ErrorCode = "subjects_unavailable"
	ErrorCodeInternalError       ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Results       []domain.SearchItem        `json:"results"`
	ResultCount   int                        `json:"resultCount"`
	Took          int                        `json:"took"`
	FilterOptions map[string][]result.Bucket `json:"filterOptions"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func searchResultToResponse(r result.Result, facetNames []string) SearchResponse {
	items := r.Items
	if items == nil {
		items = []domain.SearchItem{}
	}
	return SearchResponse{
		Results:       items,
		ResultCount:   r.Total,
		Took:          r.TookMs,
		FilterOptions: r.FacetOptions(facetNames),
	}
}
