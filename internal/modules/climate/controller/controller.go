package controller

import (
	"context"
	"net/http"

	"climate-server/internal/modules/climate/types"
)

// ClimateService is the query surface the handlers need.
type ClimateService interface {
	PrecipitationSeries(ctx context.Context) ([]types.DateValue, error)
	StationList(ctx context.Context) ([]string, error)
	RecentTemperatureObservations(ctx context.Context) ([]types.DateValue, error)
	TemperatureStats(ctx context.Context, start string) (types.TemperatureStats, error)
	TemperatureStatsRange(ctx context.Context, start string, end string) (types.TemperatureStats, error)
}

type ClimateController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type climateControllerImpl struct {
	service ClimateService
}

func NewClimateController(service ClimateService) ClimateController {
	return &climateControllerImpl{service: service}
}

// RegisterRoutes mounts the v1.0 API. Literal segments take precedence over
// the {start} wildcard, so /api/v1.0/stations never reaches handleStartStats.
func (c *climateControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.handleIndex)
	mux.HandleFunc("GET /api/v1.0/precipitation", c.handlePrecipitation)
	mux.HandleFunc("GET /api/v1.0/stations", c.handleStations)
	mux.HandleFunc("GET /api/v1.0/tobs", c.handleTobs)
	mux.HandleFunc("GET /api/v1.0/{start}", c.handleStartStats)
	mux.HandleFunc("GET /api/v1.0/{start}/{end}", c.handleStartEndStats)
}
