package config

import "github.com/urfave/cli/v2"

// WithCLIConfig returns an Option that overrides configuration with
// command-line flags.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		if d := ctx.Duration("poll-interval"); d > 0 {
			c.Tracking.PollInterval = d
		}

		if d := ctx.Duration("idle-threshold"); d > 0 {
			c.Tracking.IdleThreshold = d
		}

		if cmd := ctx.String("session-cmd"); cmd != "" {
			c.Tracking.SessionCmd = cmd
		}

		if ctx.Bool("disable-notification") {
			c.Notifications.Enabled = false
		}

		return nil
	}
}
