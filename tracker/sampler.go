package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/malikhw47/hwtracker/internal/models"
)

// Sampler wraps a platform probe behind a uniform, null-safe sampling
// operation. Probe failures of any kind degrade to a nil observation
// and never propagate to the caller.
type Sampler struct {
	probe         Probe
	idleThreshold time.Duration
	probeTimeout  time.Duration
	lastActivity  time.Time
	now           func() time.Time
}

type probeResult struct {
	fg  *models.ForegroundContext
	err error
}

// NewSampler returns a sampler that reports idleness after
// idleThreshold without foreground activity and abandons probe calls
// after probeTimeout.
func NewSampler(
	probe Probe,
	idleThreshold, probeTimeout time.Duration,
) *Sampler {
	s := &Sampler{
		probe:         probe,
		idleThreshold: idleThreshold,
		probeTimeout:  probeTimeout,
		now:           time.Now,
	}

	s.lastActivity = s.now()

	return s
}

// Sample queries the probe once and normalises the result. It returns
// a window observation when a foreground context is readable, a
// synthetic idle observation on every call once the idle threshold has
// elapsed without activity, and nil otherwise.
func (s *Sampler) Sample(ctx context.Context) *models.Observation {
	now := s.now()

	fg := s.activeContext(ctx)
	if fg != nil {
		s.lastActivity = now

		kind := models.KindWindow
		if fg.WindowTitle == "" {
			// Some probes can name the foreground process but not read
			// its window title.
			kind = models.KindProcess
		}

		return &models.Observation{
			Kind:        kind,
			ProcessName: fg.ProcessName,
			WindowTitle: fg.WindowTitle,
			PID:         fg.PID,
			Timestamp:   now,
		}
	}

	if now.Sub(s.lastActivity) > s.idleThreshold {
		return &models.Observation{
			Kind:      models.KindIdle,
			Timestamp: now,
		}
	}

	return nil
}

// activeContext calls the probe with a deadline. The probe runs in its
// own goroutine so that a blocking call cannot starve the tick
// cadence; a slow, failing, or panicking probe yields nil.
func (s *Sampler) activeContext(ctx context.Context) *models.ForegroundContext {
	cctx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	defer cancel()

	ch := make(chan probeResult, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				ch <- probeResult{err: fmt.Errorf("probe panic: %v", rec)}
			}
		}()

		fg, err := s.probe.ActiveContext(cctx)

		ch <- probeResult{fg: fg, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			slog.Debug("foreground probe failed", slog.Any("error", res.err))
			return nil
		}

		return res.fg
	case <-cctx.Done():
		slog.Debug("foreground probe timed out")
		return nil
	}
}
