//go:build !linux && !windows

package tracker

import (
	"context"

	"github.com/malikhw47/hwtracker/internal/models"
)

type unsupportedProbe struct{}

// NewProbe returns the foreground window probe for this platform.
func NewProbe() Probe {
	return unsupportedProbe{}
}

func (unsupportedProbe) ActiveContext(
	_ context.Context,
) (*models.ForegroundContext, error) {
	return nil, ErrProbeUnavailable
}
