// Package repository is the only path to the city/point-of-interest store.
//
// A Repository is a request-scoped unit of work: reads return detached
// copies, mutations are staged with AddPointOfInterest, UpdatePointOfInterest
// and DeletePointOfInterest, and nothing reaches the store until Save.
package repository

import (
	"context"

	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

// Repository is the store contract used by the services.
type Repository interface {
	// ListCities returns every city sorted by name, without points of interest.
	ListCities(ctx context.Context) ([]types.City, error)

	// GetCity returns types.ErrNotFound when the city does not exist. When
	// includePointsOfInterest is false the returned PointsOfInterest is nil.
	GetCity(ctx context.Context, cityID int, includePointsOfInterest bool) (*types.City, error)

	// CityExists is the cheap parent check for nested resources.
	CityExists(ctx context.Context, cityID int) (bool, error)

	// GetPointOfInterest is scoped by city: an id that only exists under
	// another city yields types.ErrNotFound.
	GetPointOfInterest(ctx context.Context, cityID, poiID int) (*types.PointOfInterest, error)

	// ListPointsOfInterest returns the city's points of interest in insertion
	// order. An unknown city yields an empty slice, not an error.
	ListPointsOfInterest(ctx context.Context, cityID int) ([]types.PointOfInterest, error)

	// NextPointOfInterestID is one greater than the largest point of interest
	// id across all cities. Two concurrent callers can receive the same value;
	// the second Save then fails with types.ErrConflict.
	NextPointOfInterestID(ctx context.Context) (int, error)

	// AddPointOfInterest stages poi under cityID, failing with
	// types.ErrNotFound when the city does not exist.
	AddPointOfInterest(ctx context.Context, cityID int, poi *types.PointOfInterest) error

	// AttachPointOfInterest stages poi under an already loaded city and
	// appends it to the city's collection when that collection is loaded.
	AttachPointOfInterest(city *types.City, poi *types.PointOfInterest)

	// UpdatePointOfInterest stages the current name and description of poi.
	UpdatePointOfInterest(poi *types.PointOfInterest)

	// DeletePointOfInterest stages the removal of poi.
	DeletePointOfInterest(poi *types.PointOfInterest)

	// Save commits the staged changes atomically. Failures wrap
	// types.ErrPersistence; the staged changes are discarded either way.
	Save(ctx context.Context) error
}

// Provider hands out request-scoped repositories.
type Provider interface {
	Open() Repository
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func() Repository

func (f ProviderFunc) Open() Repository { return f() }
