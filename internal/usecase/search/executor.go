package search

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/coursedex/internal/domain"
	"github.com/kailas-cloud/coursedex/internal/domain/search/query"
)

// Executor sends a compiled plan to the index as a single batched request.
type Executor struct {
	index   MultiSearcher
	indices []string
}

// NewExecutor creates an executor spanning the course and employee indices.
func NewExecutor(index MultiSearcher, courseIndex, employeeIndex string) *Executor {
	return &Executor{index: index, indices: []string{courseIndex, employeeIndex}}
}

// Execute submits [baseline, facet variants...] in one round trip and returns the
// raw per-query responses in the same order. Any failure fails the whole batch.
func (e *Executor) Execute(ctx context.Context, plan query.Plan) ([]json.RawMessage, error) {
	queries := plan.Queries()
	bodies := make([]map[string]any, len(queries))
	for i, q := range queries {
		bodies[i] = q.Source()
	}

	responses, err := e.index.MultiSearch(ctx, e.indices, bodies)
	if err != nil {
		return nil, fmt.Errorf("multi search: %w", err)
	}
	if len(responses) != len(bodies) {
		return nil, fmt.Errorf("%w: sent %d queries, got %d responses",
			domain.ErrIndexUnavailable, len(bodies), len(responses))
	}
	return responses, nil
}
