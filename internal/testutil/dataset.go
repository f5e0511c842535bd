// Package testutil builds throwaway climate datasets for tests.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// Schema mirrors the tables of the prepared hawaii.sqlite dataset.
const Schema = `
CREATE TABLE measurement (
  id      INTEGER NOT NULL PRIMARY KEY,
  station TEXT,
  date    TEXT,
  prcp    FLOAT,
  tobs    FLOAT
);
CREATE TABLE station (
  id        INTEGER NOT NULL PRIMARY KEY,
  station   TEXT,
  name      TEXT,
  latitude  FLOAT,
  longitude FLOAT,
  elevation FLOAT
);
`

// Row is one measurement. Nil readings are stored as NULL.
type Row struct {
	Station string
	Date    string
	Prcp    *float64
	Tobs    *float64
}

func F(v float64) *float64 { return &v }

// Stations inserted by NewDatasetFile.
var Stations = [][]any{
	{"USC00519397", "WAIKIKI 717.2, HI US", 21.2716, -157.8168, 3.0},
	{"USC00513117", "KANEOHE 838.1, HI US", 21.4234, -157.8015, 14.6},
	{"USC00519281", "WAIHEE 837.5, HI US", 21.45167, -157.84889, 32.9},
}

// SampleRows spans the bounds of the real dataset: 2010-01-01 to 2017-08-23.
func SampleRows() []Row {
	return []Row{
		{Station: "USC00519397", Date: "2010-01-01", Prcp: F(0.08), Tobs: F(65)},
		{Station: "USC00513117", Date: "2010-01-01", Prcp: F(0.28), Tobs: F(67)},
		{Station: "USC00519397", Date: "2015-06-01", Prcp: nil, Tobs: F(74)},
		{Station: "USC00519281", Date: "2016-01-01", Prcp: F(0.1), Tobs: F(62)},
		{Station: "USC00519281", Date: "2016-08-22", Prcp: F(0.2), Tobs: F(70)},
		{Station: "USC00519397", Date: "2016-08-23", Prcp: F(0.0), Tobs: F(81)},
		{Station: "USC00513117", Date: "2016-12-31", Prcp: F(0.5), Tobs: F(66)},
		{Station: "USC00519397", Date: "2017-01-01", Prcp: F(0.0), Tobs: F(62)},
		{Station: "USC00519281", Date: "2017-08-23", Prcp: F(0.45), Tobs: F(76)},
		{Station: "USC00519397", Date: "2017-08-23", Prcp: F(0.0), Tobs: F(81)},
	}
}

// NewDatasetFile writes a dataset file into a temp dir and returns its path.
func NewDatasetFile(t *testing.T, rows []Row) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hawaii.sqlite")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			t.Fatalf("close fixture db: %v", err)
		}
	}()
	Populate(t, db, rows)
	return path
}

// NewMemoryDataset returns an in-memory dataset limited to one connection.
func NewMemoryDataset(t *testing.T, rows []Row) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	Populate(t, db, rows)
	return db
}

// Populate creates the schema and inserts rows plus the station table.
func Populate(t *testing.T, db *sql.DB, rows []Row) {
	t.Helper()
	if _, err := db.Exec(Schema); err != nil {
		t.Fatalf("exec schema: %v", err)
	}
	for _, s := range Stations {
		if _, err := db.Exec(`INSERT INTO station (station, name, latitude, longitude, elevation) VALUES (?, ?, ?, ?, ?)`, s...); err != nil {
			t.Fatalf("insert station: %v", err)
		}
	}
	for _, r := range rows {
		if _, err := db.Exec(`INSERT INTO measurement (station, date, prcp, tobs) VALUES (?, ?, ?, ?)`,
			r.Station, r.Date, nullable(r.Prcp), nullable(r.Tobs)); err != nil {
			t.Fatalf("insert measurement: %v", err)
		}
	}
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
