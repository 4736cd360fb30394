package timeseries

import (
	"time"

	"vegtrend/internal/errors"
)

// Observation is a single dated scalar measurement.
type Observation struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is a chronologically ordered sequence of observations. Dates must be
// strictly increasing; duplicates or out-of-order dates are rejected by
// Validate, not silently reordered.
type Series []Observation

// Validate checks the chronological invariants required by every temporal
// statistic. It returns an invalid-configuration error on unsorted or
// duplicated dates.
func (s Series) Validate() error {
	for i := 1; i < len(s); i++ {
		if s[i].Date.Equal(s[i-1].Date) {
			return errors.InvalidConfiguration("series contains duplicate timestamp " + s[i].Date.Format("2006-01-02"))
		}
		if s[i].Date.Before(s[i-1].Date) {
			return errors.InvalidConfiguration("series timestamps are not in chronological order")
		}
	}
	return nil
}

// Days returns the numeric regression axis: fractional days elapsed since the
// first observation. Empty series yields nil.
func (s Series) Days() []float64 {
	if len(s) == 0 {
		return nil
	}
	first := s[0].Date
	days := make([]float64, len(s))
	for i, obs := range s {
		days[i] = obs.Date.Sub(first).Hours() / 24
	}
	return days
}

// Values returns the observation values in series order.
func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, obs := range s {
		values[i] = obs.Value
	}
	return values
}

// Span returns the elapsed days between first and last observation.
func (s Series) Span() float64 {
	if len(s) < 2 {
		return 0
	}
	return s[len(s)-1].Date.Sub(s[0].Date).Hours() / 24
}
