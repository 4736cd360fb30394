package timeseries

import (
	"math"
	"testing"
	"time"

	"vegtrend/internal/errors"
)

func day(offset int) time.Time {
	return time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestSeriesValidate(t *testing.T) {
	ok := Series{{Date: day(0), Value: 1}, {Date: day(5), Value: 2}, {Date: day(9), Value: 3}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid series rejected: %v", err)
	}

	dup := Series{{Date: day(0)}, {Date: day(0)}}
	if err := dup.Validate(); !errors.HasCode(err, errors.CodeInvalidConfiguration) {
		t.Fatalf("expected INVALID_CONFIGURATION for duplicate dates, got %v", err)
	}

	unsorted := Series{{Date: day(5)}, {Date: day(0)}}
	if err := unsorted.Validate(); !errors.HasCode(err, errors.CodeInvalidConfiguration) {
		t.Fatalf("expected INVALID_CONFIGURATION for unsorted dates, got %v", err)
	}

	if err := (Series{}).Validate(); err != nil {
		t.Fatalf("empty series should validate, got %v", err)
	}
}

func TestSeriesDays_FractionalAxis(t *testing.T) {
	s := Series{
		{Date: day(0), Value: 1},
		{Date: day(0).Add(36 * time.Hour), Value: 2},
		{Date: day(10), Value: 3},
	}
	days := s.Days()
	if days[0] != 0 {
		t.Fatalf("axis must start at zero, got %.4f", days[0])
	}
	if math.Abs(days[1]-1.5) > 1e-12 {
		t.Fatalf("expected 1.5 days for a 36h gap, got %.6f", days[1])
	}
	if math.Abs(days[2]-10) > 1e-12 {
		t.Fatalf("expected 10 days, got %.6f", days[2])
	}
}

func TestSeriesSpan(t *testing.T) {
	if (Series{}).Span() != 0 {
		t.Fatal("empty series must span zero days")
	}
	s := Series{{Date: day(0)}, {Date: day(3)}, {Date: day(40)}}
	if s.Span() != 40 {
		t.Fatalf("expected span 40, got %.2f", s.Span())
	}
}
