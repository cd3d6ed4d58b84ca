package domain

import "fmt"

// Status is the derived alerting state of a snapshot. It is recomputed from
// the persisted readings each run and never stored itself.
type Status bool

const (
	// StatusGood means not alerting, including the unknown case where a
	// snapshot is missing readings.
	StatusGood Status = false
	// StatusBad means at least one watched reading exceeded its threshold.
	StatusBad Status = true
)

func (s Status) String() string {
	if s == StatusBad {
		return "BAD"
	}
	return "GOOD"
}

// Default alerting thresholds. Equal-to-threshold is not alerting.
const (
	DefaultMaxTemperature   = 75.0
	DefaultMaxCategoryIndex = 1
)

// Thresholds holds the alerting cutoffs. All comparisons against them are
// strict greater-than.
type Thresholds struct {
	MaxTemperature   float64
	MaxCategoryIndex int
}

// DefaultThresholds returns the stock cutoffs: 75°F feels-like, AirNow
// category 1 ("Good").
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxTemperature:   DefaultMaxTemperature,
		MaxCategoryIndex: DefaultMaxCategoryIndex,
	}
}

// Evaluate reduces a snapshot to its alerting status.
//
// A snapshot missing either reading has unknown status and evaluates to
// StatusGood, so missing data never looks like a recovery or an alert by
// itself. A present air-quality map missing the PM2.5 or O3 key is different:
// the source adapters guarantee both keys whenever they return a map at all,
// so that is a contract violation and an error, not an unknown.
func Evaluate(s Snapshot, th Thresholds) (Status, error) {
	if !s.Complete() {
		return StatusGood, nil
	}

	pm25, ok := s.AirQuality[PollutantPM25]
	if !ok {
		return StatusGood, fmt.Errorf("air quality map present but missing %s reading", PollutantPM25)
	}
	o3, ok := s.AirQuality[PollutantO3]
	if !ok {
		return StatusGood, fmt.Errorf("air quality map present but missing %s reading", PollutantO3)
	}

	if pm25.CategoryIndex > th.MaxCategoryIndex ||
		o3.CategoryIndex > th.MaxCategoryIndex ||
		*s.Temperature > th.MaxTemperature {
		return StatusBad, nil
	}
	return StatusGood, nil
}
