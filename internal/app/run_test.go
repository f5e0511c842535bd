package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"climate-server/internal/config"
	"climate-server/internal/testutil"
)

func testConfig(path string) config.Config {
	return config.Config{
		AppEnv:             "dev",
		HTTPAddr:           "127.0.0.1:0",
		SQLiteDriver:       "sqlite3",
		SQLitePath:         path,
		SQLiteMaxOpenConns: 2,
		SQLiteMaxIdleConns: 2,
	}
}

func listen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	return ln
}

func TestServe_MissingDatasetFailsBeforeServing(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "absent.sqlite"))
	ln := listen(t)
	addr := ln.Addr().String()

	if err := Serve(context.Background(), cfg, ln); err == nil {
		t.Fatal("Serve error = nil, want non-nil")
	}
	if conn, err := net.DialTimeout("tcp", addr, 200*time.Millisecond); err == nil {
		_ = conn.Close()
		t.Fatal("listener still accepting after startup failure")
	}
}

func TestServe_ServesUntilCanceled(t *testing.T) {
	cfg := testConfig(testutil.NewDatasetFile(t, testutil.SampleRows()))
	ln := listen(t)
	url := "http://" + ln.Addr().String() + "/api/v1.0/stations"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, cfg, ln) }()

	client := &http.Client{Timeout: time.Second}
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusOK)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server not reachable: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Serve error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
