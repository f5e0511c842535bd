package types

// Observation is one station/day row of the measurement table.
// Dates are ISO "YYYY-MM-DD" strings; missing readings are nil.
type Observation struct {
	Station       string   `json:"station"`
	Date          string   `json:"date"`
	Precipitation *float64 `json:"prcp"`
	Temperature   *float64 `json:"tobs"`
}

type Station struct {
	ID        string  `json:"station"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`
}

// DateValue pairs a date with a single reading.
type DateValue struct {
	Date  string
	Value *float64
}

// DateBounds are the minimum and maximum observation dates.
// Empty is set when the measurement table has no dated rows.
type DateBounds struct {
	Min   string
	Max   string
	Empty bool
}

// TemperatureStats holds min/avg/max temperature; nil when no row matched.
type TemperatureStats struct {
	Min *float64
	Avg *float64
	Max *float64
}
