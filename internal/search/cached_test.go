package search

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chamorrodict/dictsearch/internal/domain/entities"
	"github.com/chamorrodict/dictsearch/internal/domain/providers"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	args := m.Called(ctx, key, value, expirationSeconds)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockSystem struct {
	mock.Mock
}

func (m *MockSystem) Name() string { return "ratio" }

func (m *MockSystem) Search(ctx context.Context, query string, n int) ([]entities.SearchHit, error) {
	args := m.Called(ctx, query, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.SearchHit), args.Error(1)
}

func TestCacheKey_Normalizes(t *testing.T) {
	assert.Equal(t, "search:ratio:10:hånom", CacheKey("ratio", 10, "Hånom"))
}

func TestCachedSystem_Hit(t *testing.T) {
	cache := new(MockCache)
	next := new(MockSystem)
	hits := []entities.SearchHit{{Headword: "hånom", Score: 1}}
	data, _ := json.Marshal(hits)

	cache.On("Get", mock.Anything, "search:ratio:5:hånom").Return(data, nil)

	got, err := NewCachedSystem(next, cache, 60, nil).Search(context.Background(), "hånom", 5)
	require.NoError(t, err)
	assert.Equal(t, hits, got)
	next.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedSystem_MissStores(t *testing.T) {
	cache := new(MockCache)
	next := new(MockSystem)
	hits := []entities.SearchHit{{Headword: "guma'", Score: 0.9}}
	data, _ := json.Marshal(hits)

	cache.On("Get", mock.Anything, "search:ratio:5:guma").Return(nil, providers.ErrCacheMiss)
	next.On("Search", mock.Anything, "guma", 5).Return(hits, nil)
	cache.On("Set", mock.Anything, "search:ratio:5:guma", data, 60).Return(nil)

	got, err := NewCachedSystem(next, cache, 60, nil).Search(context.Background(), "guma", 5)
	require.NoError(t, err)
	assert.Equal(t, hits, got)
	cache.AssertExpectations(t)
	next.AssertExpectations(t)
}

func TestCachedSystem_CacheDownFallsThrough(t *testing.T) {
	cache := new(MockCache)
	next := new(MockSystem)
	hits := []entities.SearchHit{{Headword: "guma'", Score: 0.9}}

	cache.On("Get", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused"))
	next.On("Search", mock.Anything, "guma", 5).Return(hits, nil)

	got, err := NewCachedSystem(next, cache, 60, nil).Search(context.Background(), "guma", 5)
	require.NoError(t, err)
	assert.Equal(t, hits, got)
}

func TestCachedSystem_SearchError(t *testing.T) {
	cache := new(MockCache)
	next := new(MockSystem)

	cache.On("Get", mock.Anything, mock.Anything).Return(nil, providers.ErrCacheMiss)
	next.On("Search", mock.Anything, "guma", 5).Return(nil, errors.New("index offline"))

	_, err := NewCachedSystem(next, cache, 60, nil).Search(context.Background(), "guma", 5)
	assert.Error(t, err)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
