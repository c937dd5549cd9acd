package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/prepsched/prepsched/core/model"
)

// RawInterval is the boundary representation of one busy interval as
// supplied by an external calendar collaborator.
type RawInterval struct {
	Start            string `json:"start"`
	End              string `json:"end"`
	SourceCalendarID string `json:"source_calendar_id"`
}

// ParseRawIntervals converts boundary payloads into the strict core
// value type. Timestamps must be RFC 3339.
func ParseRawIntervals(raw []RawInterval) ([]model.TimeInterval, error) {
	out := make([]model.TimeInterval, 0, len(raw))
	for i, r := range raw {
		start, err := time.Parse(time.RFC3339, r.Start)
		if err != nil {
			return nil, fmt.Errorf("interval %d start: %w", i, err)
		}
		end, err := time.Parse(time.RFC3339, r.End)
		if err != nil {
			return nil, fmt.Errorf("interval %d end: %w", i, err)
		}
		iv := model.TimeInterval{Start: start, End: end}
		if err := iv.Validate(); err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, nil
}

// LoadIntervalsFile reads a JSON array of raw intervals from disk.
func LoadIntervalsFile(path string) ([]model.TimeInterval, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []RawInterval
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse intervals file: %w", err)
	}
	return ParseRawIntervals(raw)
}
