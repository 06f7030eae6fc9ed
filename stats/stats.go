// Package stats reports activity statistics and daily summaries
package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/hako/durafmt"
	"github.com/pterm/pterm"

	"github.com/malikhw47/hwtracker/internal/models"
	"github.com/malikhw47/hwtracker/internal/timeutil"
	"github.com/malikhw47/hwtracker/internal/ui"
	"github.com/malikhw47/hwtracker/store"
)

const noSessionsMsg = "No sessions found for the specified time range"

// Compute derives the summary of one calendar day from its sessions.
// Ties for the most used application are broken by process name.
func Compute(sessions []models.Session, date time.Time) *models.DailySummary {
	summary := &models.DailySummary{
		Date:      timeutil.DayKey(date),
		CreatedAt: time.Now(),
	}

	appTotals := make(map[string]int64)

	for i := range sessions {
		sess := &sessions[i]

		summary.SessionCount++

		if sess.IsIdle {
			summary.TotalIdleTime += sess.Duration
			continue
		}

		summary.TotalActiveTime += sess.Duration
		appTotals[sess.ProcessName] += sess.Duration
	}

	apps := make([]string, 0, len(appTotals))

	for app := range appTotals {
		apps = append(apps, app)
	}

	sort.Strings(apps)

	best := int64(-1)

	for _, app := range apps {
		if appTotals[app] > best {
			best = appTotals[app]
			summary.MostUsedApp = app
		}
	}

	return summary
}

// Summary recomputes the summary of a day from the session records and
// refreshes the cached copy. The cache is never authoritative.
func Summary(db store.DB, date time.Time) (*models.DailySummary, error) {
	sessions, err := db.SessionsOn(date)
	if err != nil {
		return nil, err
	}

	summary := Compute(sessions, date)

	if err := db.PutSummary(summary); err != nil {
		return nil, err
	}

	return summary, nil
}

// formatSeconds expresses a whole-second duration in a human readable
// form.
func formatSeconds(secs int64) string {
	return durafmt.Parse(time.Duration(secs) * time.Second).
		LimitFirstN(2).
		String()
}

// ListSessions prints a timeline table of the given sessions.
func ListSessions(sessions []models.Session, w io.Writer) {
	if len(sessions) == 0 {
		pterm.Info.Println(noSessionsMsg)
		return
	}

	tableBody := make([][]string, len(sessions))

	for i := range sessions {
		sess := sessions[i]

		endDate := sess.EndTime.Format("Jan 02, 2006 03:04:05 PM")
		duration := formatSeconds(sess.Duration)

		if sess.Open() {
			endDate = "-"
			duration = "-"
		}

		app := sess.ProcessName
		if sess.IsIdle {
			app = "(idle)"
		}

		row := []string{
			fmt.Sprintf("%d", sess.ID),
			sess.StartTime.Format("Jan 02, 2006 03:04:05 PM"),
			endDate,
			app,
			sess.WindowTitle,
			duration,
			sess.Tag,
		}

		tableBody[i] = row
	}

	tableBody = append([][]string{
		{"ID", "START", "END", "APPLICATION", "WINDOW", "DURATION", "TAG"},
	}, tableBody...)

	ui.PrintTable(tableBody, w)
}

// ListUsage prints the per-application usage table.
func ListUsage(stats []models.UsageStat, w io.Writer) {
	if len(stats) == 0 {
		pterm.Info.Println(noSessionsMsg)
		return
	}

	tableBody := make([][]string, len(stats))

	for i, st := range stats {
		tableBody[i] = []string{
			st.ProcessName,
			formatSeconds(st.TotalTime),
			fmt.Sprintf("%d", st.SessionCount),
		}
	}

	tableBody = append([][]string{
		{"APPLICATION", "TIME USED", "SESSIONS"},
	}, tableBody...)

	ui.PrintTable(tableBody, w)
}

// PrintSummary prints a daily summary.
func PrintSummary(summary *models.DailySummary, w io.Writer) {
	tableBody := [][]string{
		{"DATE", "ACTIVE", "IDLE", "MOST USED", "SESSIONS"},
		{
			summary.Date,
			formatSeconds(summary.TotalActiveTime),
			formatSeconds(summary.TotalIdleTime),
			summary.MostUsedApp,
			fmt.Sprintf("%d", summary.SessionCount),
		},
	}

	ui.PrintTable(tableBody, w)
}

// ExportDay writes a JSON snapshot of a day's sessions to w.
func ExportDay(db store.DB, date time.Time, w io.Writer) error {
	sessions, err := db.SessionsOn(date)
	if err != nil {
		return err
	}

	if sessions == nil {
		sessions = []models.Session{}
	}

	b, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))

	return err
}
