package respcache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/coursedex/internal/db"
)

type mockSearcher struct {
	responses []json.RawMessage
	err       error
	calls     int
}

func (m *mockSearcher) MultiSearch(_ context.Context, _ []string, _ []map[string]any) ([]json.RawMessage, error) {
	m.calls++
	return m.responses, m.err
}

// mockKVStore implements db.KVStore for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	delFn func(ctx context.Context, key string) error

	plainSets []string
	deleted   []string
}

var _ db.KVStore = (*mockKVStore)(nil)

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockKVStore) Set(_ context.Context, key string, _ []byte) error {
	m.plainSets = append(m.plainSets, key)
	return nil
}

func (m *mockKVStore) Del(ctx context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func newTestCachedSearcher(t *testing.T, inner *mockSearcher) (*CachedSearcher, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	cs := New(inner, ms, time.Minute, nil, zap.NewNop())
	return cs, ms
}
