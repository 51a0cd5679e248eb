package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-city-info-api/app/observability/metrics"
	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

var (
	_ Repository = (*PostgresRepository)(nil)
	_ Provider   = (*PostgresProvider)(nil)
)

// PgxIface is the subset of *pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type PgxIface interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	selectCitiesSQL           = `SELECT id, name, description FROM cities ORDER BY name`
	selectCitySQL             = `SELECT id, name, description FROM cities WHERE id = $1`
	cityExistsSQL             = `SELECT EXISTS (SELECT 1 FROM cities WHERE id = $1)`
	selectPointsOfInterestSQL = `SELECT id, city_id, name, description FROM points_of_interest WHERE city_id = $1 ORDER BY seq`
	selectPointOfInterestSQL  = `SELECT id, city_id, name, description FROM points_of_interest WHERE city_id = $1 AND id = $2`
	nextPointOfInterestIDSQL  = `SELECT COALESCE(MAX(id), 0) + 1 FROM points_of_interest`
	insertPointOfInterestSQL  = `INSERT INTO points_of_interest (id, city_id, name, description) VALUES ($1, $2, $3, $4)`
	updatePointOfInterestSQL  = `UPDATE points_of_interest SET name = $3, description = $4 WHERE city_id = $1 AND id = $2`
	deletePointOfInterestSQL  = `DELETE FROM points_of_interest WHERE city_id = $1 AND id = $2`
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

var errNoRowsAffected = errors.New("no rows affected")

type PostgresProvider struct {
	db      PgxIface
	logger  *slog.Logger
	metrics *metrics.AppMetrics
}

func NewPostgresProvider(db PgxIface, logger *slog.Logger, m *metrics.AppMetrics) *PostgresProvider {
	return &PostgresProvider{db: db, logger: logger, metrics: m}
}

func (p *PostgresProvider) Open() Repository {
	return NewPostgresRepository(p.db, p.logger, p.metrics)
}

// PostgresRepository is one unit of work over the pool.
type PostgresRepository struct {
	db      PgxIface
	logger  *slog.Logger
	metrics *metrics.AppMetrics
	changes changeSet
}

func NewPostgresRepository(db PgxIface, logger *slog.Logger, m *metrics.AppMetrics) *PostgresRepository {
	return &PostgresRepository{db: db, logger: logger, metrics: m}
}

func (r *PostgresRepository) startSpan(ctx context.Context, name, table string) (context.Context, trace.Span) {
	return otel.Tracer("CityInfoRepository").Start(ctx, name, trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", table),
	))
}

func (r *PostgresRepository) ListCities(ctx context.Context) ([]types.City, error) {
	ctx, span := r.startSpan(ctx, "ListCities", "cities")
	defer span.End()

	start := time.Now()
	rows, err := r.db.Query(ctx, selectCitiesSQL)
	if err != nil {
		r.metrics.ObserveQuery(ctx, "select_cities", start, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("failed to query cities: %w", err)
	}
	defer rows.Close()

	cities := make([]types.City, 0)
	for rows.Next() {
		var c types.City
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			r.metrics.ObserveQuery(ctx, "select_cities", start, err)
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan city row: %w", err)
		}
		cities = append(cities, c)
	}
	err = rows.Err()
	r.metrics.ObserveQuery(ctx, "select_cities", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row iteration failed")
		return nil, fmt.Errorf("error iterating city rows: %w", err)
	}

	span.SetAttributes(attribute.Int("cities.count", len(cities)))
	span.SetStatus(codes.Ok, "Cities listed")
	return cities, nil
}

func (r *PostgresRepository) GetCity(ctx context.Context, cityID int, includePointsOfInterest bool) (*types.City, error) {
	ctx, span := r.startSpan(ctx, "GetCity", "cities")
	defer span.End()
	span.SetAttributes(attribute.Int("city.id", cityID), attribute.Bool("include_pois", includePointsOfInterest))

	l := r.logger.With(slog.String("method", "GetCity"), slog.Int("cityID", cityID))

	var city types.City
	start := time.Now()
	err := r.db.QueryRow(ctx, selectCitySQL, cityID).Scan(&city.ID, &city.Name, &city.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		r.metrics.ObserveQuery(ctx, "select_city", start, nil)
		l.DebugContext(ctx, "City not found")
		span.SetStatus(codes.Error, "City not found")
		return nil, fmt.Errorf("city %d: %w", cityID, types.ErrNotFound)
	}
	r.metrics.ObserveQuery(ctx, "select_city", start, err)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query city", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("failed to query city: %w", err)
	}

	if includePointsOfInterest {
		pois, err := r.ListPointsOfInterest(ctx, cityID)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		city.PointsOfInterest = pois
	}

	span.SetStatus(codes.Ok, "City fetched")
	return &city, nil
}

func (r *PostgresRepository) CityExists(ctx context.Context, cityID int) (bool, error) {
	ctx, span := r.startSpan(ctx, "CityExists", "cities")
	defer span.End()

	var exists bool
	start := time.Now()
	err := r.db.QueryRow(ctx, cityExistsSQL, cityID).Scan(&exists)
	r.metrics.ObserveQuery(ctx, "city_exists", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return false, fmt.Errorf("failed to check city %d: %w", cityID, err)
	}
	return exists, nil
}

func (r *PostgresRepository) GetPointOfInterest(ctx context.Context, cityID, poiID int) (*types.PointOfInterest, error) {
	ctx, span := r.startSpan(ctx, "GetPointOfInterest", "points_of_interest")
	defer span.End()
	span.SetAttributes(attribute.Int("city.id", cityID), attribute.Int("poi.id", poiID))

	var poi types.PointOfInterest
	start := time.Now()
	err := r.db.QueryRow(ctx, selectPointOfInterestSQL, cityID, poiID).
		Scan(&poi.ID, &poi.CityID, &poi.Name, &poi.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		r.metrics.ObserveQuery(ctx, "select_poi", start, nil)
		span.SetStatus(codes.Error, "Point of interest not found")
		return nil, fmt.Errorf("point of interest %d in city %d: %w", poiID, cityID, types.ErrNotFound)
	}
	r.metrics.ObserveQuery(ctx, "select_poi", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query point of interest",
			slog.Int("cityID", cityID), slog.Int("poiID", poiID), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("failed to query point of interest: %w", err)
	}

	span.SetStatus(codes.Ok, "Point of interest fetched")
	return &poi, nil
}

func (r *PostgresRepository) ListPointsOfInterest(ctx context.Context, cityID int) ([]types.PointOfInterest, error) {
	ctx, span := r.startSpan(ctx, "ListPointsOfInterest", "points_of_interest")
	defer span.End()
	span.SetAttributes(attribute.Int("city.id", cityID))

	start := time.Now()
	rows, err := r.db.Query(ctx, selectPointsOfInterestSQL, cityID)
	if err != nil {
		r.metrics.ObserveQuery(ctx, "select_pois", start, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("failed to query points of interest: %w", err)
	}
	defer rows.Close()

	pois := make([]types.PointOfInterest, 0)
	for rows.Next() {
		var p types.PointOfInterest
		if err := rows.Scan(&p.ID, &p.CityID, &p.Name, &p.Description); err != nil {
			r.metrics.ObserveQuery(ctx, "select_pois", start, err)
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan point of interest row: %w", err)
		}
		pois = append(pois, p)
	}
	err = rows.Err()
	r.metrics.ObserveQuery(ctx, "select_pois", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row iteration failed")
		return nil, fmt.Errorf("error iterating point of interest rows: %w", err)
	}

	span.SetAttributes(attribute.Int("pois.count", len(pois)))
	span.SetStatus(codes.Ok, "Points of interest listed")
	return pois, nil
}

func (r *PostgresRepository) NextPointOfInterestID(ctx context.Context) (int, error) {
	ctx, span := r.startSpan(ctx, "NextPointOfInterestID", "points_of_interest")
	defer span.End()

	var next int
	start := time.Now()
	err := r.db.QueryRow(ctx, nextPointOfInterestIDSQL).Scan(&next)
	r.metrics.ObserveQuery(ctx, "max_poi_id", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return 0, fmt.Errorf("failed to compute next point of interest id: %w", err)
	}
	return next, nil
}

func (r *PostgresRepository) AddPointOfInterest(ctx context.Context, cityID int, poi *types.PointOfInterest) error {
	exists, err := r.CityExists(ctx, cityID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("city %d: %w", cityID, types.ErrNotFound)
	}
	poi.CityID = cityID
	r.changes.stage(changeInsert, poi)
	return nil
}

func (r *PostgresRepository) AttachPointOfInterest(city *types.City, poi *types.PointOfInterest) {
	poi.CityID = city.ID
	if city.PointsLoaded() {
		city.PointsOfInterest = append(city.PointsOfInterest, *poi)
	}
	r.changes.stage(changeInsert, poi)
}

func (r *PostgresRepository) UpdatePointOfInterest(poi *types.PointOfInterest) {
	r.changes.stage(changeUpdate, poi)
}

func (r *PostgresRepository) DeletePointOfInterest(poi *types.PointOfInterest) {
	r.changes.stage(changeDelete, poi)
}

func (r *PostgresRepository) Save(ctx context.Context) error {
	ctx, span := r.startSpan(ctx, "Save", "points_of_interest")
	defer span.End()

	l := r.logger.With(slog.String("method", "Save"))

	pending := r.changes.drain()
	span.SetAttributes(attribute.Int("changes.count", len(pending)))
	if len(pending) == 0 {
		return nil
	}

	start := time.Now()
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.metrics.ObserveQuery(ctx, "save", start, err)
		l.ErrorContext(ctx, "Failed to start transaction", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "BEGIN failed")
		return fmt.Errorf("%w: failed to start transaction: %w", types.ErrPersistence, err)
	}
	defer tx.Rollback(ctx)

	for _, ch := range pending {
		if err := applyChange(ctx, tx, ch); err != nil {
			r.metrics.ObserveQuery(ctx, "save", start, err)
			l.ErrorContext(ctx, "Failed to apply change",
				slog.String("change", ch.kind.String()),
				slog.Int("cityID", ch.poi.CityID),
				slog.Int("poiID", ch.poi.ID),
				slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Change failed")
			return fmt.Errorf("%w: %s point of interest %d: %w", types.ErrPersistence, ch.kind, ch.poi.ID, err)
		}
	}

	err = tx.Commit(ctx)
	r.metrics.ObserveQuery(ctx, "save", start, err)
	if err != nil {
		l.ErrorContext(ctx, "Failed to commit transaction", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "COMMIT failed")
		return fmt.Errorf("%w: failed to commit transaction: %w", types.ErrPersistence, mapError(err))
	}

	l.DebugContext(ctx, "Changes committed", slog.Int("count", len(pending)))
	span.SetStatus(codes.Ok, "Changes committed")
	return nil
}

func applyChange(ctx context.Context, tx pgx.Tx, ch change) error {
	var (
		tag pgconn.CommandTag
		err error
	)
	switch ch.kind {
	case changeInsert:
		tag, err = tx.Exec(ctx, insertPointOfInterestSQL, ch.poi.ID, ch.poi.CityID, ch.poi.Name, ch.poi.Description)
	case changeUpdate:
		tag, err = tx.Exec(ctx, updatePointOfInterestSQL, ch.poi.CityID, ch.poi.ID, ch.poi.Name, ch.poi.Description)
	case changeDelete:
		tag, err = tx.Exec(ctx, deletePointOfInterestSQL, ch.poi.CityID, ch.poi.ID)
	default:
		return fmt.Errorf("unknown change kind %d", ch.kind)
	}
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return errNoRowsAffected
	}
	return nil
}

// mapError translates constraint violations into domain errors and leaves
// everything else untouched.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case uniqueViolationCode, foreignKeyViolationCode:
		return fmt.Errorf("%w (%s): %w", types.ErrConflict, pgErr.ConstraintName, err)
	default:
		return err
	}
}
