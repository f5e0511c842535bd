package controller

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"climate-server/internal/modules/climate/service"
	"climate-server/internal/modules/climate/types"
	"climate-server/internal/modules/climate/views"
	"climate-server/internal/utils"
)

func (c *climateControllerImpl) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := views.RenderIndex(&buf, &views.IndexData{Routes: views.APIRoutes}); err != nil {
		slog.Error("index template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	utils.WriteHTML(w, http.StatusOK, buf.String())
}

func (c *climateControllerImpl) handlePrecipitation(w http.ResponseWriter, r *http.Request) {
	series, err := c.service.PrecipitationSeries(r.Context())
	if err != nil {
		slog.Error("precipitation: query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load precipitation")
		return
	}
	utils.WriteJSON(w, http.StatusOK, dateValueObjects(series))
}

func (c *climateControllerImpl) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := c.service.StationList(r.Context())
	if err != nil {
		slog.Error("stations: query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load stations")
		return
	}
	if stations == nil {
		stations = []string{}
	}
	utils.WriteJSON(w, http.StatusOK, stations)
}

func (c *climateControllerImpl) handleTobs(w http.ResponseWriter, r *http.Request) {
	series, err := c.service.RecentTemperatureObservations(r.Context())
	if err != nil {
		slog.Error("tobs: query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load temperature observations")
		return
	}
	utils.WriteJSON(w, http.StatusOK, dateValueObjects(series))
}

func (c *climateControllerImpl) handleStartStats(w http.ResponseWriter, r *http.Request) {
	start := r.PathValue("start")
	stats, err := c.service.TemperatureStats(r.Context(), start)
	c.writeStats(w, stats, err, "start", start)
}

func (c *climateControllerImpl) handleStartEndStats(w http.ResponseWriter, r *http.Request) {
	start, end := r.PathValue("start"), r.PathValue("end")
	stats, err := c.service.TemperatureStatsRange(r.Context(), start, end)
	c.writeStats(w, stats, err, "start", start, "end", end)
}

func (c *climateControllerImpl) writeStats(w http.ResponseWriter, stats types.TemperatureStats, err error, logAttrs ...any) {
	if err != nil {
		if errors.Is(err, service.ErrDateOutOfRange) {
			slog.Debug("temperature stats: date out of range", logAttrs...)
			utils.WriteErrorMessage(w, http.StatusNotFound, err.Error())
			return
		}
		slog.Error("temperature stats: query failed", append(logAttrs, "error", err)...)
		utils.WriteError(w, http.StatusInternalServerError, "failed to compute temperature stats")
		return
	}
	utils.WriteHTML(w, http.StatusOK, formatStats(stats))
}
