package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/coursedex/internal/domain/search/filter"
	"github.com/kailas-cloud/coursedex/internal/domain/search/query"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	// TermIDLength is the length of a term identifier such as "202110".
	TermIDLength    = 6
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Request is a validated search query.
type Request struct {
	query   string
	termID  string
	page    query.Page
	filters filter.Selection
}

// New validates search parameters. maxPageSize <= 0 falls back to MaxPageSize.
func New(
	text string,
	termID string,
	minIndex, maxIndex int,
	filters filter.Selection,
	maxPageSize int,
) (Request, error) {
	if len(text) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	termID = strings.TrimSpace(termID)
	if len(termID) != TermIDLength {
		return Request{}, fmt.Errorf("termId must be %d characters, got %q", TermIDLength, termID)
	}
	if maxPageSize <= 0 {
		maxPageSize = MaxPageSize
	}
	page, err := query.NewPage(minIndex, maxIndex, maxPageSize)
	if err != nil {
		return Request{}, err
	}
	if filters == nil {
		filters = filter.Selection{}
	}
	return Request{query: text, termID: termID, page: page, filters: filters}, nil
}

// Query returns the free-text query.
func (r *Request) Query() string { return r.query }

// TermID returns the academic term to search within.
func (r *Request) TermID() string { return r.termID }

// Page returns the result window.
func (r *Request) Page() query.Page { return r.page }

// Filters returns the raw, unvalidated filter selection.
func (r *Request) Filters() filter.Selection { return r.filters }
