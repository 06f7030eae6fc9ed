// Package app defines the hwtracker command-line interface
package app

import (
	"github.com/urfave/cli/v2"

	"github.com/malikhw47/hwtracker/internal/config"
)

// Get retrieves the hwtracker app instance.
func Get() *cli.App {
	return &cli.App{
		Name:                 "hwtracker",
		Usage:                "hwtracker records which application and window are in the foreground\n\t\tand reports how your time is spent",
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Before:               beforeAction,
		After:                afterAction,
		Commands: []*cli.Command{
			{
				Name:   "timeline",
				Usage:  "List the sessions recorded on a given day in start time order",
				Action: timelineAction,
				Flags:  []cli.Flag{dateFlag, jsonFlag, noColorFlag},
			},
			{
				Name:   "stats",
				Usage:  "Report per-application usage for a time period. Defaults to a reporting period of 7 days",
				Action: statsAction,
				Flags:  []cli.Flag{periodFlag, jsonFlag, noColorFlag},
			},
			{
				Name:   "summary",
				Usage:  "Show the daily summary for a given day",
				Action: summaryAction,
				Flags:  []cli.Flag{dateFlag, jsonFlag, noColorFlag},
			},
			{
				Name:      "tag",
				Usage:     "Attach a label to a recorded session",
				ArgsUsage: "<session-id> <tag>",
				Action:    tagAction,
			},
			{
				Name:   "export",
				Usage:  "Export a day's sessions as JSON",
				Action: exportAction,
				Flags:  []cli.Flag{dateFlag, outputFlag},
			},
			{
				Name:   "purge",
				Usage:  "Permanently delete all recorded sessions and summaries. Will prompt before deleting",
				Action: purgeAction,
				Flags:  []cli.Flag{forceFlag},
			},
		},
		Flags: []cli.Flag{
			pollIntervalFlag,
			idleThresholdFlag,
			sessionCmdFlag,
			disableNotificationFlag,
			debugFlag,
			noColorFlag,
		},
		Action: trackAction,
	}
}
