package tracker

import (
	"context"
	"errors"

	"github.com/malikhw47/hwtracker/internal/models"
)

// Probe supplies the foreground window context for the current
// platform. Implementations may fail or block; the sampler absorbs
// both.
type Probe interface {
	ActiveContext(ctx context.Context) (*models.ForegroundContext, error)
}

// ErrProbeUnavailable is reported on platforms without a usable
// foreground window probe.
var ErrProbeUnavailable = errors.New(
	"foreground window inspection is not supported on this platform",
)

var errNoActiveWindow = errors.New("no active window")
