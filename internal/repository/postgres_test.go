package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

func newMockRepo(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPostgresRepository(mock, logger, nil), mock
}

func TestPostgresRepository_ListCities(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(selectCitiesSQL)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description"}).
			AddRow(2, "Antwerp", "Cathedral").
			AddRow(1, "New York City", "Big park"))

	cities, err := repo.ListCities(ctx)
	require.NoError(t, err)
	require.Len(t, cities, 2)
	assert.Equal(t, "Antwerp", cities[0].Name)
	assert.Nil(t, cities[0].PointsOfInterest)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetCity(t *testing.T) {
	ctx := context.Background()

	t.Run("without points of interest", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectCitySQL)).WithArgs(1).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description"}).AddRow(1, "New York City", "Big park"))

		city, err := repo.GetCity(ctx, 1, false)
		require.NoError(t, err)
		assert.Equal(t, "New York City", city.Name)
		assert.False(t, city.PointsLoaded())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("with points of interest", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectCitySQL)).WithArgs(3).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description"}).AddRow(3, "Paris", "Tower"))
		mock.ExpectQuery(regexp.QuoteMeta(selectPointsOfInterestSQL)).WithArgs(3).
			WillReturnRows(pgxmock.NewRows([]string{"id", "city_id", "name", "description"}).
				AddRow(1, 3, "Eiffel Tower", "The most famous tower").
				AddRow(2, 3, "Arc de Triumph", "Napoleon's favourite"))

		city, err := repo.GetCity(ctx, 3, true)
		require.NoError(t, err)
		require.Len(t, city.PointsOfInterest, 2)
		assert.Equal(t, "Arc de Triumph", city.PointsOfInterest[1].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectCitySQL)).WithArgs(99).WillReturnError(pgx.ErrNoRows)

		city, err := repo.GetCity(ctx, 99, true)
		assert.Nil(t, city)
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error is not a not-found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectCitySQL)).WithArgs(1).WillReturnError(errors.New("connection reset"))

		_, err := repo.GetCity(ctx, 1, false)
		require.Error(t, err)
		assert.NotErrorIs(t, err, types.ErrNotFound)
	})
}

func TestPostgresRepository_GetPointOfInterest_ScopedByCity(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(selectPointOfInterestSQL)).WithArgs(2, 2).WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetPointOfInterest(ctx, 2, 2)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_NextPointOfInterestID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(nextPointOfInterestIDSQL)).
		WillReturnRows(pgxmock.NewRows([]string{"next"}).AddRow(3))

	next, err := repo.NextPointOfInterestID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, next)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_AddPointOfInterest_UnknownCity(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(cityExistsSQL)).WithArgs(99).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	err := repo.AddPointOfInterest(ctx, 99, &types.PointOfInterest{ID: 3, Name: "Statue"})
	assert.ErrorIs(t, err, types.ErrNotFound)

	// nothing was staged, so Save does not touch the database
	require.NoError(t, repo.Save(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("commits staged changes in order", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(cityExistsSQL)).WithArgs(1).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(insertPointOfInterestSQL)).WithArgs(3, 1, "Statue", "Liberty").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(regexp.QuoteMeta(updatePointOfInterestSQL)).WithArgs(1, 1, "Central Park", "Green").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec(regexp.QuoteMeta(deletePointOfInterestSQL)).WithArgs(1, 2).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectCommit()

		require.NoError(t, repo.AddPointOfInterest(ctx, 1, &types.PointOfInterest{ID: 3, Name: "Statue", Description: "Liberty"}))
		repo.UpdatePointOfInterest(&types.PointOfInterest{ID: 1, CityID: 1, Name: "Central Park", Description: "Green"})
		repo.DeletePointOfInterest(&types.PointOfInterest{ID: 2, CityID: 1})

		require.NoError(t, repo.Save(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation is a persistence conflict", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(insertPointOfInterestSQL)).WithArgs(3, 1, "Statue", "Liberty").
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "points_of_interest_city_id_id_key"})
		mock.ExpectRollback()

		repo.AttachPointOfInterest(&types.City{ID: 1}, &types.PointOfInterest{ID: 3, Name: "Statue", Description: "Liberty"})

		err := repo.Save(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrPersistence)
		assert.ErrorIs(t, err, types.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("row vanished before commit", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(deletePointOfInterestSQL)).WithArgs(1, 2).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectRollback()

		repo.DeletePointOfInterest(&types.PointOfInterest{ID: 2, CityID: 1})

		err := repo.Save(ctx)
		assert.ErrorIs(t, err, types.ErrPersistence)
		assert.NotErrorIs(t, err, types.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

		repo.UpdatePointOfInterest(&types.PointOfInterest{ID: 1, CityID: 1, Name: "n", Description: "d"})
		assert.ErrorIs(t, repo.Save(ctx), types.ErrPersistence)

		// the failed change set is discarded
		assert.NoError(t, repo.Save(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEnsureSeedData(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("skips a populated store", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM cities`)).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

		require.NoError(t, EnsureSeedData(ctx, mock, SeedCities(), logger))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("seeds an empty store", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		seed := []types.City{{
			Name:        "Ghent",
			Description: "Castle",
			PointsOfInterest: []types.PointOfInterest{
				{ID: 1, Name: "Gravensteen", Description: "Castle of the counts"},
			},
		}}

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM cities`)).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO cities (name, description) VALUES ($1, $2) RETURNING id`)).
			WithArgs("Ghent", "Castle").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectExec(regexp.QuoteMeta(insertPointOfInterestSQL)).
			WithArgs(1, 7, "Gravensteen", "Castle of the counts").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		require.NoError(t, EnsureSeedData(ctx, mock, seed, logger))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
