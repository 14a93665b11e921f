package search

import (
	"context"
	"encoding/json"

	"github.com/kailas-cloud/coursedex/internal/domain"
)

// MultiSearcher submits several index queries as one batched request.
// Responses must come back in submission order.
type MultiSearcher interface {
	MultiSearch(ctx context.Context, indices []string, bodies []map[string]any) ([]json.RawMessage, error)
}

// SubjectSource lists distinct values of a catalog field.
type SubjectSource interface {
	Distinct(ctx context.Context, field string) ([]string, error)
}

// Hydrator turns index hits into display-ready items, same length and order.
type Hydrator interface {
	Hydrate(ctx context.Context, refs []domain.DocumentRef) ([]domain.SearchItem, error)
}

// SubjectProvider returns the known subject codes.
type SubjectProvider interface {
	Subjects(ctx context.Context) (domain.SubjectSet, error)
}
