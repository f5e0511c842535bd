package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"climate-server/internal/modules/climate/repository"
	"climate-server/internal/modules/climate/types"
)

const (
	dateLayout = "2006-01-02"
	// recentWindowDays is how far back from the last observation the tobs window reaches.
	recentWindowDays = 365
)

var ErrDateOutOfRange = errors.New("date out of range")

// DateRangeError reports a requested start (and end) outside the dataset bounds.
type DateRangeError struct {
	Start  string
	End    string
	HasEnd bool
	Bounds types.DateBounds
}

func (e *DateRangeError) Error() string {
	if e.HasEnd {
		return fmt.Sprintf("The dates %s or %s were not found. Please select dates between %s and %s.",
			e.Start, e.End, e.Bounds.Min, e.Bounds.Max)
	}
	return fmt.Sprintf("The date %s was not found. Please select a date between %s and %s.",
		e.Start, e.Bounds.Min, e.Bounds.Max)
}

func (e *DateRangeError) Is(target error) bool {
	return target == ErrDateOutOfRange
}

type Service struct {
	repository repository.ClimateRepository
}

func NewService(repository repository.ClimateRepository) *Service {
	return &Service{repository: repository}
}

// PrecipitationSeries returns (date, prcp) for every observation in date order.
// Dates are not merged, so duplicates appear once per station.
func (s *Service) PrecipitationSeries(ctx context.Context) ([]types.DateValue, error) {
	obs, err := s.repository.GetObservations(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.DateValue, 0, len(obs))
	for _, o := range obs {
		out = append(out, types.DateValue{Date: o.Date, Value: o.Precipitation})
	}
	return out, nil
}

func (s *Service) StationList(ctx context.Context) ([]string, error) {
	return s.repository.GetDistinctStations(ctx)
}

// RecentTemperatureObservations returns (date, tobs) for the 365 days ending
// at the last observation date, both ends inclusive.
func (s *Service) RecentTemperatureObservations(ctx context.Context) ([]types.DateValue, error) {
	bounds, err := s.repository.GetDateBounds(ctx)
	if err != nil {
		return nil, err
	}
	if bounds.Empty {
		return []types.DateValue{}, nil
	}

	start, end, err := recentWindow(bounds.Max)
	if err != nil {
		return nil, err
	}
	obs, err := s.repository.GetObservationsInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]types.DateValue, 0, len(obs))
	for _, o := range obs {
		out = append(out, types.DateValue{Date: o.Date, Value: o.Temperature})
	}
	return out, nil
}

// TemperatureStats aggregates from start to the last observation date.
// start must lie within the dataset bounds.
func (s *Service) TemperatureStats(ctx context.Context, start string) (types.TemperatureStats, error) {
	bounds, err := s.repository.GetDateBounds(ctx)
	if err != nil {
		return types.TemperatureStats{}, err
	}
	// Raw string comparison: ISO dates order lexicographically.
	if bounds.Empty || start < bounds.Min || start > bounds.Max {
		return types.TemperatureStats{}, &DateRangeError{Start: start, Bounds: bounds}
	}
	return s.repository.GetTemperatureStats(ctx, start, bounds.Max)
}

// TemperatureStatsRange aggregates over [start, end]. Only start >= min and
// end <= max are checked; an inverted range yields empty stats.
func (s *Service) TemperatureStatsRange(ctx context.Context, start string, end string) (types.TemperatureStats, error) {
	bounds, err := s.repository.GetDateBounds(ctx)
	if err != nil {
		return types.TemperatureStats{}, err
	}
	if bounds.Empty || start < bounds.Min || end > bounds.Max {
		return types.TemperatureStats{}, &DateRangeError{Start: start, End: end, HasEnd: true, Bounds: bounds}
	}
	return s.repository.GetTemperatureStats(ctx, start, end)
}

func recentWindow(lastDate string) (start string, end string, err error) {
	last, err := time.Parse(dateLayout, lastDate)
	if err != nil {
		return "", "", fmt.Errorf("parse last observation date %q: %w", lastDate, err)
	}
	return last.AddDate(0, 0, -recentWindowDays).Format(dateLayout), last.Format(dateLayout), nil
}
