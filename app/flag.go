package app

import "github.com/urfave/cli/v2"

var (
	dateFlag = &cli.StringFlag{
		Name:    "date",
		Aliases: []string{"d"},
		Usage:   "Specify a date (e.g. 2024-05-03). Defaults to today",
	}

	periodFlag = &cli.StringFlag{
		Name:    "period",
		Aliases: []string{"p"},
		Usage:   "Specify a time period (defaults to 7days). Possible values are: today, yesterday, 7days, 14days, 30days, 90days, 180days, 365days, all-time",
		Value:   "7days",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Output in JSON format",
	}

	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Write the export to the specified file instead of standard output",
	}

	forceFlag = &cli.BoolFlag{
		Name:  "force",
		Usage: "Skip the confirmation prompt",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Log observations at debug level",
	}

	pollIntervalFlag = &cli.DurationFlag{
		Name:  "poll-interval",
		Usage: "Interval between foreground window samples (default: 1s)",
	}

	idleThresholdFlag = &cli.DurationFlag{
		Name:    "idle-threshold",
		Aliases: []string{"i"},
		Usage:   "Inactivity period after which the open session is closed (default: 5m)",
	}

	sessionCmdFlag = &cli.StringFlag{
		Name:    "session-cmd",
		Aliases: []string{"cmd"},
		Usage:   "Execute an arbitrary command after each session closes",
	}

	disableNotificationFlag = &cli.BoolFlag{
		Name:    "disable-notification",
		Aliases: []string{"n"},
		Usage:   "Disable the system notification that appears when idleness is detected",
	}
)
