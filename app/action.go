package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/malikhw47/hwtracker/internal/config"
	"github.com/malikhw47/hwtracker/internal/logutil"
	"github.com/malikhw47/hwtracker/stats"
	"github.com/malikhw47/hwtracker/store"
	"github.com/malikhw47/hwtracker/tracker"
)

const (
	envNoColor          = "NO_COLOR"
	envHwtrackerNoColor = "HWTRACKER_NO_COLOR"
)

func initConfig(ctx *cli.Context) (*config.Config, error) {
	return config.New(
		config.WithViperConfig(config.ConfigFilePath()),
		config.WithCLIConfig(ctx),
	)
}

func openStore() (*store.Client, error) {
	return store.NewClient(config.DBFilePath())
}

// trackAction runs the sampling loop in the foreground until the
// process is interrupted.
func trackAction(ctx *cli.Context) error {
	cfg, err := initConfig(ctx)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}

	defer db.Close()

	sigCtx, stop := signal.NotifyContext(
		ctx.Context,
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	pterm.Info.Printfln(
		"Tracking foreground activity every %s. Press Ctrl+C to stop.",
		cfg.Tracking.PollInterval,
	)

	return tracker.New(db, cfg).Run(sigCtx)
}

// timelineAction prints the sessions recorded on a given day.
func timelineAction(ctx *cli.Context) error {
	date, err := config.Date(ctx)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}

	defer db.Close()

	sessions, err := db.SessionsOn(date)
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		b, err := json.Marshal(sessions)
		if err != nil {
			return err
		}

		pterm.Println(string(b))

		return nil
	}

	stats.ListSessions(sessions, config.Stdout)

	return nil
}

// statsAction prints per-application usage for the specified period.
func statsAction(ctx *cli.Context) error {
	filter, err := config.Filter(ctx)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}

	defer db.Close()

	usage, err := db.UsageStats(filter.StartTime, filter.EndTime)
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		b, err := json.Marshal(usage)
		if err != nil {
			return err
		}

		pterm.Println(string(b))

		return nil
	}

	stats.ListUsage(usage, config.Stdout)

	return nil
}

// summaryAction prints the daily summary for a given day.
func summaryAction(ctx *cli.Context) error {
	date, err := config.Date(ctx)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}

	defer db.Close()

	summary, err := stats.Summary(db, date)
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		b, err := json.Marshal(summary)
		if err != nil {
			return err
		}

		pterm.Println(string(b))

		return nil
	}

	stats.PrintSummary(summary, config.Stdout)

	return nil
}

// tagAction updates the tag of a single session.
func tagAction(ctx *cli.Context) error {
	if ctx.NArg() < 2 {
		return fmt.Errorf("usage: hwtracker tag <session-id> <tag>")
	}

	id, err := strconv.ParseUint(ctx.Args().Get(0), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid session id: %w", err)
	}

	db, err := openStore()
	if err != nil {
		return err
	}

	defer db.Close()

	if err := db.SetTag(id, ctx.Args().Get(1)); err != nil {
		return err
	}

	pterm.Success.Printfln("Session %d tagged", id)

	return nil
}

// exportAction writes a JSON snapshot of a day's sessions.
func exportAction(ctx *cli.Context) error {
	date, err := config.Date(ctx)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}

	defer db.Close()

	w := config.Stdout

	if output := ctx.String("output"); output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}

		defer f.Close()

		w = f
	}

	return stats.ExportDay(db, date, w)
}

// purgeAction deletes all recorded sessions and summaries after
// confirmation.
func purgeAction(ctx *cli.Context) error {
	if !ctx.Bool("force") {
		confirmed, err := pterm.DefaultInteractiveConfirm.
			WithDefaultValue(false).
			Show("This will permanently delete all recorded sessions. Proceed?")
		if err != nil {
			return err
		}

		if !confirmed {
			pterm.Info.Println("Purge cancelled")
			return nil
		}
	}

	db, err := openStore()
	if err != nil {
		return err
	}

	defer db.Close()

	if err := db.PurgeAll(); err != nil {
		return err
	}

	pterm.Success.Println("All sessions and summaries deleted")

	return nil
}

func beforeAction(ctx *cli.Context) error {
	config.InitializePaths()

	logutil.Init(config.LogFilePath(), ctx.Bool("debug"))

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if HWTRACKER_NO_COLOR is set
	if _, exists := os.LookupEnv(envHwtrackerNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	return nil
}

func afterAction(ctx *cli.Context) error {
	slog.InfoContext(ctx.Context, "exiting hwtracker")

	return nil
}

func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}
