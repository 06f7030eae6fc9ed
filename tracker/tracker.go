// Package tracker implements the foreground activity sampling loop and
// the segmentation of observations into sessions.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/gen2brain/beeep"
	"github.com/kballard/go-shellquote"

	"github.com/malikhw47/hwtracker/internal/config"
	"github.com/malikhw47/hwtracker/internal/models"
	"github.com/malikhw47/hwtracker/store"
)

// Tracker drives the sample/segment loop on a fixed cadence. It is the
// sole writer of session state transitions.
type Tracker struct {
	opts    *config.Config
	sampler *Sampler
	seg     *Segmenter
	wasIdle bool
}

// New wires the platform probe, the sampler, and the segmenter to the
// given store.
func New(db store.DB, cfg *config.Config) *Tracker {
	sampler := NewSampler(
		NewProbe(),
		cfg.Tracking.IdleThreshold,
		cfg.Tracking.ProbeTimeout,
	)

	t := &Tracker{
		opts:    cfg,
		sampler: sampler,
		seg:     NewSegmenter(db),
	}

	t.seg.OnClose(t.postSession)

	return t
}

// Run samples once per poll interval until ctx is cancelled. The loop
// exits within one tick of cancellation, closing the open session
// first.
func (t *Tracker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.opts.Tracking.PollInterval)
	defer ticker.Stop()

	slog.Info(
		"tracking started",
		slog.Duration("poll_interval", t.opts.Tracking.PollInterval),
		slog.Duration("idle_threshold", t.opts.Tracking.IdleThreshold),
	)

	for {
		select {
		case <-ctx.Done():
			t.seg.Flush(time.Now())
			slog.Info("tracking stopped")

			return nil
		case <-ticker.C:
			t.tick(ctx)
		}
	}
}

func (t *Tracker) tick(ctx context.Context) {
	obs := t.sampler.Sample(ctx)
	if obs == nil {
		return
	}

	slog.Debug(spew.Sdump(obs))

	if obs.Kind == models.KindIdle {
		if !t.wasIdle {
			t.notifyIdle()
		}

		t.wasIdle = true
	} else {
		t.wasIdle = false
	}

	t.seg.Observe(obs)
}

// postSession runs the configured hooks after a session closes.
func (t *Tracker) postSession(sess *models.Session) {
	if t.opts.Tracking.SessionCmd == "" {
		return
	}

	err := runSessionCmd(t.opts.Tracking.SessionCmd)
	if err != nil {
		slog.Error(
			"session command failed",
			slog.Any("error", err),
			slog.String("process", sess.ProcessName),
		)
	}
}

func (t *Tracker) notifyIdle() {
	if !t.opts.Notifications.Enabled {
		return
	}

	err := beeep.Notify("hwtracker", "Idle detected, session closed", "")
	if err != nil {
		slog.Error("unable to display notification", slog.Any("error", err))
	}
}

// runSessionCmd executes the specified command.
func runSessionCmd(sessionCmd string) error {
	cmdSlice, err := shellquote.Split(sessionCmd)
	if err != nil {
		return fmt.Errorf("unable to parse session_cmd option: %w", err)
	}

	if len(cmdSlice) == 0 {
		return nil
	}

	name := cmdSlice[0]
	args := cmdSlice[1:]

	cmd := exec.Command(name, args...)

	return cmd.Run()
}
