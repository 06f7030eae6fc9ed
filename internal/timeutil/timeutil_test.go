package timeutil_test

import (
	"testing"
	"time"

	"github.com/malikhw47/hwtracker/internal/timeutil"
)

func TestRoundToStartAndEnd(t *testing.T) {
	v := time.Date(2024, 5, 3, 14, 30, 45, 123, time.UTC)

	start := timeutil.RoundToStart(v)
	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 {
		t.Fatalf("unexpected start of day: %v", start)
	}

	end := timeutil.RoundToEnd(v)
	if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Fatalf("unexpected end of day: %v", end)
	}

	if !timeutil.SameDay(start, end) {
		t.Fatal("start and end of the same day must share a day key")
	}
}

func TestDayKey(t *testing.T) {
	v := time.Date(2024, 5, 3, 23, 59, 59, 0, time.UTC)

	if got := timeutil.DayKey(v); got != "2024-05-03" {
		t.Fatalf("unexpected day key: %s", got)
	}
}

func TestRangeCoversAllPeriods(t *testing.T) {
	for _, period := range timeutil.PeriodCollection {
		if _, ok := timeutil.Range[period]; !ok {
			t.Fatalf("period %s has no range entry", period)
		}
	}
}
