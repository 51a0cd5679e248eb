package city

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-city-info-api/internal/repository"
	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service is the read-only city contract.
type Service interface {
	ListCities(ctx context.Context) ([]types.City, error)
	GetCity(ctx context.Context, cityID int, includePointsOfInterest bool) (*types.City, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repos  repository.Provider
}

func NewServiceImpl(repos repository.Provider, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repos:  repos,
	}
}

func (s *ServiceImpl) ListCities(ctx context.Context) ([]types.City, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "ListCities")
	defer span.End()

	cities, err := s.repos.Open().ListCities(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list cities")
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}

	span.SetAttributes(attribute.Int("cities.count", len(cities)))
	span.SetStatus(codes.Ok, "Cities listed")
	return cities, nil
}

func (s *ServiceImpl) GetCity(ctx context.Context, cityID int, includePointsOfInterest bool) (*types.City, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "GetCity", trace.WithAttributes(
		attribute.Int("city.id", cityID),
		attribute.Bool("include_points_of_interest", includePointsOfInterest),
	))
	defer span.End()

	city, err := s.repos.Open().GetCity(ctx, cityID, includePointsOfInterest)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get city")
		return nil, fmt.Errorf("failed to get city %d: %w", cityID, err)
	}

	span.SetStatus(codes.Ok, "City retrieved")
	return city, nil
}
