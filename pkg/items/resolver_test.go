package items

import (
	"context"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/internal/repositories/item"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

type fakeRepo struct {
	items map[string]int64
	err   error
	calls int
}

func (f *fakeRepo) GetBySKU(_ context.Context, sku string) (*item.Item, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	id, ok := f.items[sku]
	if !ok {
		return nil, nil
	}
	return &item.Item{SKU: sku, InternalID: id}, nil
}

func TestResolveSKU(t *testing.T) {
	repo := &fakeRepo{items: map[string]int64{"sku-1": 101}}
	resolver := NewResolver(nil, 0, repo, testLogger())

	id, err := resolver.ResolveSKU(context.Background(), "SKU-1")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(101), *id)
}

func TestResolveSKUMemoizes(t *testing.T) {
	repo := &fakeRepo{items: map[string]int64{"sku-1": 101}}
	resolver := NewResolver(nil, 0, repo, testLogger())

	for i := 0; i < 3; i++ {
		// Lookups normalize case and whitespace onto one memo key.
		id, err := resolver.ResolveSKU(context.Background(), "  Sku-1 ")
		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, int64(101), *id)
	}
	assert.Equal(t, 1, repo.calls)
}

func TestResolveSKUUnknownHitsRepoOnce(t *testing.T) {
	repo := &fakeRepo{}
	resolver := NewResolver(nil, 0, repo, testLogger())

	for i := 0; i < 3; i++ {
		id, err := resolver.ResolveSKU(context.Background(), "sku-missing")
		require.NoError(t, err)
		assert.Nil(t, id)
	}
	assert.Equal(t, 1, repo.calls)
}

func TestResolveSKUEmpty(t *testing.T) {
	repo := &fakeRepo{}
	resolver := NewResolver(nil, 0, repo, testLogger())

	id, err := resolver.ResolveSKU(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, id)
	assert.Zero(t, repo.calls)
}

func TestResolveSKURepoError(t *testing.T) {
	repo := &fakeRepo{err: errors.New("connection refused")}
	resolver := NewResolver(nil, 0, repo, testLogger())

	_, err := resolver.ResolveSKU(context.Background(), "sku-1")
	assert.Error(t, err)

	// Errors are not memoized; the next lookup retries the repository.
	repo.err = nil
	repo.items = map[string]int64{"sku-1": 101}
	id, err := resolver.ResolveSKU(context.Background(), "sku-1")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(101), *id)
}
