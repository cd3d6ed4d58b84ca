package domain

import "time"

// Pollutant keys as named by the AirNow observation API. These two are the
// only pollutants the evaluator looks at.
const (
	PollutantPM25 = "PM2.5"
	PollutantO3   = "O3"
)

// PollutantReading is one pollutant's observation within a snapshot.
type PollutantReading struct {
	AQI           float64 `json:"aqi"`
	CategoryIndex int     `json:"category_index"`
}

// Snapshot is one run's combined reading, persisted between runs. A nil
// AirQuality map or a nil Temperature means that reading is absent for the
// run; absence is meaningful (see Evaluate) and must survive a round trip
// through the state file, hence the omitempty pointers.
type Snapshot struct {
	AirQuality  map[string]PollutantReading `json:"air_quality,omitempty"`
	Temperature *float64                    `json:"temperature,omitempty"`

	// Timestamp is stamped by the state store at save time, not at fetch time.
	Timestamp time.Time `json:"timestamp"`
}

// Complete reports whether both readings are present.
func (s Snapshot) Complete() bool {
	return s.AirQuality != nil && s.Temperature != nil
}
