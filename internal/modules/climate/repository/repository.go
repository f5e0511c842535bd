package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	"climate-server/internal/modules/climate/types"
)

//go:embed sql/get-observations.sql
var getObservationsSQL string

//go:embed sql/get-observations-in-range.sql
var getObservationsInRangeSQL string

//go:embed sql/get-distinct-stations.sql
var getDistinctStationsSQL string

//go:embed sql/get-date-bounds.sql
var getDateBoundsSQL string

//go:embed sql/get-temperature-stats.sql
var getTemperatureStatsSQL string

//go:embed sql/get-stations.sql
var getStationsSQL string

// ClimateRepository reads the prepared dataset. Date arguments are compared
// as strings against the stored ISO dates.
type ClimateRepository interface {
	GetObservations(ctx context.Context) ([]types.Observation, error)
	GetObservationsInRange(ctx context.Context, start string, end string) ([]types.Observation, error)
	GetDistinctStations(ctx context.Context) ([]string, error)
	GetDateBounds(ctx context.Context) (types.DateBounds, error)
	GetTemperatureStats(ctx context.Context, start string, end string) (types.TemperatureStats, error)
	GetStations(ctx context.Context) ([]types.Station, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ClimateRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) GetObservations(ctx context.Context) ([]types.Observation, error) {
	rows, err := r.db.QueryContext(ctx, getObservationsSQL)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer closeRows(rows, "observations")
	return scanObservations(rows)
}

func (r *repositoryImpl) GetObservationsInRange(ctx context.Context, start string, end string) ([]types.Observation, error) {
	rows, err := r.db.QueryContext(ctx, getObservationsInRangeSQL, start, end)
	if err != nil {
		return nil, fmt.Errorf("query observations %s..%s: %w", start, end, err)
	}
	defer closeRows(rows, "observations in range")
	return scanObservations(rows)
}

func (r *repositoryImpl) GetDistinctStations(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, getDistinctStationsSQL)
	if err != nil {
		return nil, fmt.Errorf("query distinct stations: %w", err)
	}
	defer closeRows(rows, "distinct stations")

	out := []string{}
	for rows.Next() {
		var s sql.NullString
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		if s.Valid {
			out = append(out, s.String)
		}
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetDateBounds(ctx context.Context) (types.DateBounds, error) {
	var lo, hi sql.NullString
	if err := r.db.QueryRowContext(ctx, getDateBoundsSQL).Scan(&lo, &hi); err != nil {
		return types.DateBounds{}, fmt.Errorf("query date bounds: %w", err)
	}
	if !lo.Valid || !hi.Valid {
		return types.DateBounds{Empty: true}, nil
	}
	return types.DateBounds{Min: lo.String, Max: hi.String}, nil
}

func (r *repositoryImpl) GetTemperatureStats(ctx context.Context, start string, end string) (types.TemperatureStats, error) {
	var lo, avg, hi sql.NullFloat64
	err := r.db.QueryRowContext(ctx, getTemperatureStatsSQL, start, end).Scan(&lo, &avg, &hi)
	if err != nil {
		return types.TemperatureStats{}, fmt.Errorf("query temperature stats %s..%s: %w", start, end, err)
	}
	return types.TemperatureStats{
		Min: floatPtr(lo),
		Avg: floatPtr(avg),
		Max: floatPtr(hi),
	}, nil
}

func (r *repositoryImpl) GetStations(ctx context.Context) ([]types.Station, error) {
	rows, err := r.db.QueryContext(ctx, getStationsSQL)
	if err != nil {
		return nil, fmt.Errorf("query stations: %w", err)
	}
	defer closeRows(rows, "stations")

	var out []types.Station
	for rows.Next() {
		var (
			s                   types.Station
			name                sql.NullString
			lat, lon, elevation sql.NullFloat64
		)
		if err := rows.Scan(&s.ID, &name, &lat, &lon, &elevation); err != nil {
			return nil, err
		}
		s.Name = name.String
		s.Latitude = lat.Float64
		s.Longitude = lon.Float64
		s.Elevation = elevation.Float64
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanObservations(rows *sql.Rows) ([]types.Observation, error) {
	out := []types.Observation{}
	for rows.Next() {
		var (
			rec        types.Observation
			station    sql.NullString
			prcp, tobs sql.NullFloat64
		)
		if err := rows.Scan(&station, &rec.Date, &prcp, &tobs); err != nil {
			return nil, err
		}
		rec.Station = station.String
		rec.Precipitation = floatPtr(prcp)
		rec.Temperature = floatPtr(tobs)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func closeRows(rows *sql.Rows, what string) {
	if err := rows.Close(); err != nil {
		slog.Error("close rows", "query", what, "error", err)
	}
}
