package config

import (
	"errors"
	"time"

	"github.com/araddon/dateparse"
	"github.com/urfave/cli/v2"

	"github.com/malikhw47/hwtracker/internal/timeutil"
)

var (
	errInvalidDate = errors.New(
		"please provide a valid date, e.g. 2024-05-03",
	)

	errInvalidPeriod = errors.New(
		"please provide a valid time period",
	)
)

// FilterConfig represents a configuration to filter sessions
// in the database by their start and end time.
type FilterConfig struct {
	StartTime time.Time
	EndTime   time.Time
}

// getTimeRange returns the start and end time according to the
// specified time period.
func getTimeRange(period timeutil.Period) (start, end time.Time) {
	now := time.Now()

	start = timeutil.RoundToStart(now)

	end = timeutil.RoundToEnd(now)

	//nolint:exhaustive // other cases covered by default
	switch period {
	case timeutil.PeriodToday:
		return
	case timeutil.PeriodYesterday:
		start = now.AddDate(0, 0, timeutil.Range[period])
		start = timeutil.RoundToStart(start)
		end = timeutil.RoundToEnd(start)

		return
	case timeutil.PeriodAllTime:
		start = time.Time{}
		return
	default:
		start = now.AddDate(0, 0, timeutil.Range[period])
		start = timeutil.RoundToStart(start)
	}

	return
}

// Filter derives the session time bounds from command-line arguments.
func Filter(ctx *cli.Context) (*FilterConfig, error) {
	period := timeutil.Period(ctx.String("period"))

	if _, ok := timeutil.Range[period]; !ok {
		return nil, errInvalidPeriod
	}

	start, end := getTimeRange(period)

	cfg := &FilterConfig{
		StartTime: start,
		EndTime:   end,
	}

	return cfg, nil
}

// Date parses the --date flag, defaulting to today. Any format
// understood by dateparse is accepted.
func Date(ctx *cli.Context) (time.Time, error) {
	dateStr := ctx.String("date")
	if dateStr == "" {
		return time.Now(), nil
	}

	date, err := dateparse.ParseLocal(dateStr)
	if err != nil {
		return time.Time{}, errInvalidDate
	}

	return date, nil
}
