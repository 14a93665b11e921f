package search

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/kailas-cloud/coursedex/internal/domain"
	"github.com/kailas-cloud/coursedex/internal/metrics"
)

// subjectField is the catalog column holding course subject codes.
const subjectField = "subject"

// SubjectCache memoizes the catalog's subject codes for the life of the process.
// It is never invalidated. Concurrent cold reads may each hit the store; the last
// write wins and every write carries the same set.
type SubjectCache struct {
	src SubjectSource
	set atomic.Pointer[domain.SubjectSet]
}

// NewSubjectCache creates a cold cache. src may be nil if the cache is only seeded.
func NewSubjectCache(src SubjectSource) *SubjectCache {
	return &SubjectCache{src: src}
}

// Get returns the cached set without I/O. ok is false until the cache is warm.
func (c *SubjectCache) Get() (domain.SubjectSet, bool) {
	s := c.set.Load()
	if s == nil {
		return domain.SubjectSet{}, false
	}
	return *s, true
}

// Seed stores codes without touching the backing store.
func (c *SubjectCache) Seed(codes []string) {
	s := domain.NewSubjectSet(codes)
	c.set.Store(&s)
}

// Warm loads distinct subjects from the backing store and caches them.
func (c *SubjectCache) Warm(ctx context.Context) (domain.SubjectSet, error) {
	if c.src == nil {
		return domain.SubjectSet{}, fmt.Errorf("%w: no subject source configured", domain.ErrSubjectsUnavailable)
	}
	codes, err := c.src.Distinct(ctx, subjectField)
	if err != nil {
		metrics.SubjectWarmupsTotal.WithLabelValues("error").Inc()
		if errors.Is(err, domain.ErrSubjectsUnavailable) {
			return domain.SubjectSet{}, err
		}
		return domain.SubjectSet{}, fmt.Errorf("load subjects: %w: %w", domain.ErrSubjectsUnavailable, err)
	}
	metrics.SubjectWarmupsTotal.WithLabelValues("success").Inc()
	s := domain.NewSubjectSet(codes)
	c.set.Store(&s)
	return s, nil
}

// Subjects returns the cached set, warming it on first use.
func (c *SubjectCache) Subjects(ctx context.Context) (domain.SubjectSet, error) {
	if s, ok := c.Get(); ok {
		return s, nil
	}
	return c.Warm(ctx)
}
