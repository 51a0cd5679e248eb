package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

// MockRepository only needs ListCities for the cache; the embedded interface
// panics on anything else.
type MockRepository struct {
	Repository
	mock.Mock
}

func (m *MockRepository) ListCities(ctx context.Context) ([]types.City, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.City), args.Error(1)
}

func TestCachedProvider_ListCities(t *testing.T) {
	ctx := context.Background()
	inner := new(MockRepository)
	inner.On("ListCities", ctx).Return([]types.City{{ID: 2, Name: "Antwerp"}}, nil).Once()

	provider := NewCachedProvider(ProviderFunc(func() Repository { return inner }), time.Minute)

	first, err := provider.Open().ListCities(ctx)
	require.NoError(t, err)
	first[0].Name = "mutated by caller"

	second, err := provider.Open().ListCities(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Antwerp", second[0].Name)

	inner.AssertExpectations(t)
}

func TestCachedProvider_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	inner := new(MockRepository)
	inner.On("ListCities", ctx).Return(nil, assert.AnError).Once()
	inner.On("ListCities", ctx).Return([]types.City{{ID: 1, Name: "New York City"}}, nil).Once()

	provider := NewCachedProvider(ProviderFunc(func() Repository { return inner }), time.Minute)

	_, err := provider.Open().ListCities(ctx)
	assert.ErrorIs(t, err, assert.AnError)

	cities, err := provider.Open().ListCities(ctx)
	require.NoError(t, err)
	assert.Len(t, cities, 1)
	inner.AssertExpectations(t)
}
