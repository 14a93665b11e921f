package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/coursedex/internal/domain/search/filter"
	"github.com/kailas-cloud/coursedex/internal/domain/search/query"
	"github.com/kailas-cloud/coursedex/internal/domain/search/request"
	"github.com/kailas-cloud/coursedex/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/coursedex/internal/logger"
	"github.com/kailas-cloud/coursedex/internal/metrics"
)

// Service runs course and staff searches: validate, compile, execute, parse, hydrate.
type Service struct {
	compiler *Compiler
	executor *Executor
	hydrator Hydrator
}

// New creates a search service.
func New(compiler *Compiler, executor *Executor, hydrator Hydrator) *Service {
	return &Service{compiler: compiler, executor: executor, hydrator: hydrator}
}

// FacetNames returns the facet filters reported with every search, in response order.
func (s *Service) FacetNames() []string {
	facets := s.compiler.Registry().Facets()
	names := make([]string, len(facets))
	for i, d := range facets {
		names[i] = d.Name
	}
	return names
}

// Plan validates the request filters and compiles the query batch without executing it.
func (s *Service) Plan(ctx context.Context, req *request.Request) (query.Plan, error) {
	validated := s.validate(ctx, req.Filters())

	plan, err := s.compiler.BuildPlan(ctx, req.Query(), req.TermID(), validated, req.Page())
	if err != nil {
		return query.Plan{}, fmt.Errorf("compile plan: %w", err)
	}
	return plan, nil
}

// Search executes a search and returns hydrated hits with facet counts.
// A failed batched call yields no hits and no facets.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Result, error) {
	res, err := s.search(ctx, req)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return result.Result{}, err
	}
	metrics.SearchRequestsTotal.WithLabelValues("success").Inc()
	return res, nil
}

func (s *Service) search(ctx context.Context, req *request.Request) (result.Result, error) {
	ctx = logpkg.With(ctx, zap.String("term_id", req.TermID()))

	plan, err := s.Plan(ctx, req)
	if err != nil {
		return result.Result{}, err
	}

	raw, err := s.executor.Execute(ctx, plan)
	if err != nil {
		return result.Result{}, fmt.Errorf("execute plan: %w", err)
	}

	resp, err := Parse(raw, plan.FacetNames())
	if err != nil {
		return result.Result{}, fmt.Errorf("parse response: %w", err)
	}

	items, err := s.hydrator.Hydrate(ctx, resp.Hits)
	if err != nil {
		return result.Result{}, fmt.Errorf("hydrate hits: %w", err)
	}
	if len(items) != len(resp.Hits) {
		return result.Result{}, fmt.Errorf("hydrate hits: got %d items for %d hits", len(items), len(resp.Hits))
	}

	logpkg.FromContext(ctx).Debug("search done",
		zap.Int("hits", len(items)),
		zap.Int("total", resp.Total),
		zap.Int("took_ms", resp.TookMs),
	)

	return result.Result{
		Items:  items,
		Total:  resp.Total,
		TookMs: resp.TookMs,
		Facets: resp.Facets,
	}, nil
}

// validate drops unknown or mistyped filters; each drop is logged and counted, never fatal.
func (s *Service) validate(ctx context.Context, sel filter.Selection) filter.Validated {
	validated, rejected := s.compiler.Registry().Validate(sel)
	log := logpkg.FromContext(ctx)
	for _, r := range rejected {
		metrics.FilterRejectionsTotal.WithLabelValues(string(r.Reason)).Inc()
		log.Warn("dropped filter",
			zap.String("filter", r.Key),
			zap.String("reason", string(r.Reason)),
		)
	}
	return validated
}
