package controller

import (
	"math"
	"strconv"
	"strings"

	"climate-server/internal/modules/climate/types"
)

// dateValueObjects turns a series into [{"<date>": value}, ...]. Each entry
// stays its own object so repeated dates are not merged.
func dateValueObjects(series []types.DateValue) []map[string]*float64 {
	out := make([]map[string]*float64, 0, len(series))
	for _, dv := range series {
		out = append(out, map[string]*float64{dv.Date: dv.Value})
	}
	return out
}

func formatStats(s types.TemperatureStats) string {
	var b strings.Builder
	b.WriteString("Min temp: ")
	b.WriteString(formatReading(s.Min))
	b.WriteString("</br>")
	b.WriteString("Avg temp: ")
	b.WriteString(formatReading(s.Avg))
	b.WriteString("</br>")
	b.WriteString("Max temp: ")
	b.WriteString(formatReading(s.Max))
	b.WriteString("</br>")
	return b.String()
}

// formatReading prints a float the way clients of the stats endpoint have
// always seen it: shortest round-trip digits, integral values as "72.0",
// and "None" for an aggregate over no rows.
func formatReading(v *float64) string {
	if v == nil {
		return "None"
	}
	f := *v
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
