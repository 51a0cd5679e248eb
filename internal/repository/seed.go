package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

// SeedCities is the data loaded into an empty store at startup. Point of
// interest ids repeat across cities; new ids continue from the global max.
func SeedCities() []types.City {
	return []types.City{
		{
			ID:          1,
			Name:        "New York City",
			Description: "The one with the big park",
			PointsOfInterest: []types.PointOfInterest{
				{ID: 1, CityID: 1, Name: "Central Park", Description: "Big park.. in the centre"},
				{ID: 2, CityID: 1, Name: "Empire State Building", Description: "102 year old building"},
			},
		},
		{
			ID:          2,
			Name:        "Antwerp",
			Description: "The one with the cathedral that was never really finished",
			PointsOfInterest: []types.PointOfInterest{
				{ID: 1, CityID: 2, Name: "Uneven Cathedral", Description: "Cathedral with uneven towers"},
			},
		},
		{
			ID:          3,
			Name:        "Paris",
			Description: "The one with that big tower",
			PointsOfInterest: []types.PointOfInterest{
				{ID: 1, CityID: 3, Name: "Eiffel Tower", Description: "The most famous tower"},
				{ID: 2, CityID: 3, Name: "Arc de Triumph", Description: "Napoleon's favourite"},
			},
		},
	}
}

// EnsureSeedData inserts cities into an empty Postgres store. It does nothing
// when any city already exists.
func EnsureSeedData(ctx context.Context, db PgxIface, cities []types.City, logger *slog.Logger) error {
	l := logger.With(slog.String("method", "EnsureSeedData"))

	var count int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM cities`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count cities: %w", err)
	}
	if count != 0 {
		l.DebugContext(ctx, "Store already seeded", slog.Int("cities", count))
		return nil
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range cities {
		var cityID int
		if err := tx.QueryRow(ctx,
			`INSERT INTO cities (name, description) VALUES ($1, $2) RETURNING id`,
			c.Name, c.Description,
		).Scan(&cityID); err != nil {
			return fmt.Errorf("failed to insert city %q: %w", c.Name, err)
		}

		for _, p := range c.PointsOfInterest {
			if _, err := tx.Exec(ctx, insertPointOfInterestSQL, p.ID, cityID, p.Name, p.Description); err != nil {
				return fmt.Errorf("failed to insert point of interest %q for %q: %w", p.Name, c.Name, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	l.InfoContext(ctx, "Seeded store", slog.Int("cities", len(cities)))
	return nil
}
