package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"climate-server/internal/config"
	db "climate-server/internal/db"
	httpapi "climate-server/internal/httpapi"
	climate "climate-server/internal/modules/climate"
	"climate-server/internal/modules/climate/repository"
	climateviews "climate-server/internal/modules/climate/views"
)

// Run opens the dataset, serves HTTP until ctx is canceled, then shuts down.
// Any failure before the listener is up is returned without serving.
func Run(ctx context.Context, cfg config.Config) error {
	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.HTTPAddr, err)
	}
	return Serve(ctx, cfg, ln)
}

// Serve is Run on an existing listener. It closes ln.
func Serve(ctx context.Context, cfg config.Config, ln net.Listener) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", ln.Addr().String(),
		"sqliteDriver", cfg.SQLiteDriver,
		"sqlitePath", cfg.SQLitePath,
		"sqliteMaxOpenConns", cfg.SQLiteMaxOpenConns,
		"sqliteMaxIdleConns", cfg.SQLiteMaxIdleConns,
		"sqliteConnMaxLifetime", cfg.SQLiteConnMaxLifetime,
		"sqliteLogStatements", cfg.SQLiteLogStatements,
	)

	dbConn, err := db.Open(cfg)
	if err != nil {
		_ = ln.Close()
		return err
	}
	defer func() {
		if closeErr := db.Close(dbConn); closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	if err := checkDataset(ctx, dbConn); err != nil {
		_ = ln.Close()
		return err
	}

	if err := climateviews.LoadTemplates(); err != nil {
		_ = ln.Close()
		return err
	}
	mux := httpapi.NewMux(dbConn)
	climate.RegisterFeature(mux, dbConn)

	srv := httpapi.NewServer(cfg, mux)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}

func checkDataset(ctx context.Context, dbConn *sql.DB) error {
	if err := db.RequireTables(ctx, dbConn, "measurement", "station"); err != nil {
		return err
	}
	repo := repository.NewRepository(dbConn)
	bounds, err := repo.GetDateBounds(ctx)
	if err != nil {
		return err
	}
	stations, err := repo.GetStations(ctx)
	if err != nil {
		return err
	}
	if bounds.Empty {
		slog.Warn("dataset has no observations")
	} else {
		slog.Info("dataset loaded", "minDate", bounds.Min, "maxDate", bounds.Max, "stations", len(stations))
	}
	return nil
}
