package poi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-city-info-api/app/mail"
	"github.com/FACorreiaa/go-city-info-api/app/observability/metrics"
	"github.com/FACorreiaa/go-city-info-api/internal/repository"
	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the point of interest operations. Every call works on its
// own unit of work.
type Service interface {
	GetPointsOfInterest(ctx context.Context, cityID int) ([]types.PointOfInterest, error)
	GetPointOfInterest(ctx context.Context, cityID, poiID int) (*types.PointOfInterest, error)
	CreatePointOfInterest(ctx context.Context, cityID int, in types.PointOfInterestForCreation) (*types.PointOfInterest, error)
	UpdatePointOfInterest(ctx context.Context, cityID, poiID int, in types.PointOfInterestForUpdate) error
	PatchPointOfInterest(ctx context.Context, cityID, poiID int, patch Patch) error
	DeletePointOfInterest(ctx context.Context, cityID, poiID int) error
}

type ServiceImpl struct {
	logger        *slog.Logger
	repos         repository.Provider
	mailer        mail.Service
	metrics       *metrics.AppMetrics
	notifyTimeout time.Duration
}

func NewServiceImpl(repos repository.Provider, mailer mail.Service, m *metrics.AppMetrics, notifyTimeout time.Duration, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:        logger,
		repos:         repos,
		mailer:        mailer,
		metrics:       m,
		notifyTimeout: notifyTimeout,
	}
}

func (s *ServiceImpl) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer("PointOfInterestService").Start(ctx, name, trace.WithAttributes(attrs...))
}

// finish closes out a mutating call: span status and the mutation counter.
func (s *ServiceImpl) finish(ctx context.Context, span trace.Span, operation string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
		span.SetStatus(codes.Ok, operation+" succeeded")
	case errors.Is(err, types.ErrValidation):
		outcome = "invalid"
		span.SetStatus(codes.Error, "validation failed")
	case errors.Is(err, types.ErrNotFound):
		outcome = "not_found"
		span.SetStatus(codes.Error, "not found")
	default:
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, operation+" failed")
	}
	s.metrics.RecordMutation(ctx, operation, outcome)
}

func requireCity(ctx context.Context, repo repository.Repository, cityID int) error {
	exists, err := repo.CityExists(ctx, cityID)
	if err != nil {
		return fmt.Errorf("failed to look up city %d: %w", cityID, err)
	}
	if !exists {
		return fmt.Errorf("city %d: %w", cityID, types.ErrNotFound)
	}
	return nil
}

func (s *ServiceImpl) GetPointsOfInterest(ctx context.Context, cityID int) ([]types.PointOfInterest, error) {
	ctx, span := s.startSpan(ctx, "GetPointsOfInterest", attribute.Int("city.id", cityID))
	defer span.End()

	repo := s.repos.Open()
	if err := requireCity(ctx, repo, cityID); err != nil {
		span.SetStatus(codes.Error, "city lookup failed")
		return nil, err
	}

	pois, err := repo.ListPointsOfInterest(ctx, cityID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list points of interest")
		return nil, fmt.Errorf("failed to list points of interest for city %d: %w", cityID, err)
	}

	span.SetAttributes(attribute.Int("points_of_interest.count", len(pois)))
	span.SetStatus(codes.Ok, "Points of interest listed")
	return pois, nil
}

func (s *ServiceImpl) GetPointOfInterest(ctx context.Context, cityID, poiID int) (*types.PointOfInterest, error) {
	ctx, span := s.startSpan(ctx, "GetPointOfInterest", attribute.Int("city.id", cityID), attribute.Int("poi.id", poiID))
	defer span.End()

	repo := s.repos.Open()
	if err := requireCity(ctx, repo, cityID); err != nil {
		span.SetStatus(codes.Error, "city lookup failed")
		return nil, err
	}

	poi, err := repo.GetPointOfInterest(ctx, cityID, poiID)
	if err != nil {
		span.SetStatus(codes.Error, "point of interest lookup failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Point of interest retrieved")
	return poi, nil
}

// CreatePointOfInterest validates in, then stores it under the city with the
// next global id. Concurrent creates can pick the same id; the later Save
// then fails.
func (s *ServiceImpl) CreatePointOfInterest(ctx context.Context, cityID int, in types.PointOfInterestForCreation) (created *types.PointOfInterest, err error) {
	ctx, span := s.startSpan(ctx, "CreatePointOfInterest", attribute.Int("city.id", cityID))
	defer span.End()
	defer func() { s.finish(ctx, span, "create", err) }()

	l := s.logger.With(slog.String("method", "CreatePointOfInterest"), slog.Int("cityID", cityID))

	if err = types.Validate(in); err != nil {
		return nil, err
	}

	repo := s.repos.Open()
	city, err := repo.GetCity(ctx, cityID, false)
	if err != nil {
		return nil, err
	}

	id, err := repo.NextPointOfInterestID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate point of interest id: %w", err)
	}

	poi := &types.PointOfInterest{ID: id, Name: in.Name, Description: in.Description}
	repo.AttachPointOfInterest(city, poi)

	if err = repo.Save(ctx); err != nil {
		return nil, err
	}

	l.InfoContext(ctx, "Point of interest created", slog.Int("poiID", poi.ID))
	span.SetAttributes(attribute.Int("poi.id", poi.ID))
	return poi, nil
}

// UpdatePointOfInterest replaces name and description wholesale.
func (s *ServiceImpl) UpdatePointOfInterest(ctx context.Context, cityID, poiID int, in types.PointOfInterestForUpdate) (err error) {
	ctx, span := s.startSpan(ctx, "UpdatePointOfInterest", attribute.Int("city.id", cityID), attribute.Int("poi.id", poiID))
	defer span.End()
	defer func() { s.finish(ctx, span, "update", err) }()

	if err = types.Validate(in); err != nil {
		return err
	}

	repo := s.repos.Open()
	if err = requireCity(ctx, repo, cityID); err != nil {
		return err
	}
	poi, err := repo.GetPointOfInterest(ctx, cityID, poiID)
	if err != nil {
		return err
	}

	poi.Name = in.Name
	poi.Description = in.Description
	repo.UpdatePointOfInterest(poi)

	if err = repo.Save(ctx); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Point of interest updated", slog.Int("cityID", cityID), slog.Int("poiID", poiID))
	return nil
}

// PatchPointOfInterest applies patch to a detached snapshot and only stages
// the result once it validates. An empty patch still saves.
func (s *ServiceImpl) PatchPointOfInterest(ctx context.Context, cityID, poiID int, patch Patch) (err error) {
	ctx, span := s.startSpan(ctx, "PatchPointOfInterest",
		attribute.Int("city.id", cityID),
		attribute.Int("poi.id", poiID),
		attribute.Int("patch.operations", patch.Len()),
	)
	defer span.End()
	defer func() { s.finish(ctx, span, "patch", err) }()

	repo := s.repos.Open()
	if err = requireCity(ctx, repo, cityID); err != nil {
		return err
	}
	poi, err := repo.GetPointOfInterest(ctx, cityID, poiID)
	if err != nil {
		return err
	}

	patched, err := patch.ApplyTo(types.ToPointOfInterestForUpdate(*poi))
	if err != nil {
		return err
	}
	if err = types.Validate(patched); err != nil {
		return err
	}

	poi.Name = patched.Name
	poi.Description = patched.Description
	repo.UpdatePointOfInterest(poi)

	if err = repo.Save(ctx); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Point of interest patched", slog.Int("cityID", cityID), slog.Int("poiID", poiID))
	return nil
}

// DeletePointOfInterest removes the point of interest and then notifies the
// administrator. The notification is best effort.
func (s *ServiceImpl) DeletePointOfInterest(ctx context.Context, cityID, poiID int) (err error) {
	ctx, span := s.startSpan(ctx, "DeletePointOfInterest", attribute.Int("city.id", cityID), attribute.Int("poi.id", poiID))
	defer span.End()
	defer func() { s.finish(ctx, span, "delete", err) }()

	repo := s.repos.Open()
	if err = requireCity(ctx, repo, cityID); err != nil {
		return err
	}
	poi, err := repo.GetPointOfInterest(ctx, cityID, poiID)
	if err != nil {
		return err
	}

	repo.DeletePointOfInterest(poi)
	if err = repo.Save(ctx); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Point of interest deleted", slog.Int("cityID", cityID), slog.Int("poiID", poiID))
	s.notifyDeleted(ctx, poi)
	return nil
}

func (s *ServiceImpl) notifyDeleted(ctx context.Context, poi *types.PointOfInterest) {
	if s.mailer == nil {
		return
	}
	nctx := context.WithoutCancel(ctx)
	if s.notifyTimeout > 0 {
		var cancel context.CancelFunc
		nctx, cancel = context.WithTimeout(nctx, s.notifyTimeout)
		defer cancel()
	}

	err := s.mailer.Send(nctx,
		"Point of interest deleted.",
		fmt.Sprintf("Point of interest %s with id %d was deleted.", poi.Name, poi.ID),
	)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to send deletion notification",
			slog.Int("poiID", poi.ID), slog.Any("error", err))
		s.metrics.RecordNotification(ctx, "error")
		return
	}
	s.metrics.RecordNotification(ctx, "ok")
}
