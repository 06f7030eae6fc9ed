package stats_test

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/malikhw47/hwtracker/internal/models"
	"github.com/malikhw47/hwtracker/stats"
	"github.com/malikhw47/hwtracker/store"
)

var base = time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T) *store.Client {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "hwtracker.db")

	c, err := store.NewClient(dbPath)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	t.Cleanup(func() {
		_ = c.Close()
	})

	return c
}

func TestCompute(t *testing.T) {
	sessions := []models.Session{
		{ProcessName: "firefox", Duration: 120},
		{ProcessName: "code", Duration: 300},
		{ProcessName: "firefox", Duration: 60},
		{IsIdle: true, Duration: 600},
	}

	got := stats.Compute(sessions, base)

	want := &models.DailySummary{
		Date:            "2024-05-03",
		TotalActiveTime: 480,
		TotalIdleTime:   600,
		MostUsedApp:     "code",
		SessionCount:    4,
	}

	opts := cmpopts.IgnoreFields(models.DailySummary{}, "CreatedAt")

	if diff := cmp.Diff(want, got, opts); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeMostUsedTie(t *testing.T) {
	sessions := []models.Session{
		{ProcessName: "zathura", Duration: 100},
		{ProcessName: "alacritty", Duration: 100},
	}

	got := stats.Compute(sessions, base)

	if got.MostUsedApp != "alacritty" {
		t.Fatalf(
			"expected ties to resolve by name, got %q",
			got.MostUsedApp,
		)
	}
}

func TestComputeEmptyDay(t *testing.T) {
	got := stats.Compute(nil, base)

	if got.SessionCount != 0 || got.TotalActiveTime != 0 ||
		got.MostUsedApp != "" {
		t.Fatalf("expected an empty summary, got %+v", got)
	}
}

func TestSummaryRefreshesCache(t *testing.T) {
	c := newTestClient(t)

	if _, err := c.RecordOpen(&models.Session{
		ProcessName: "firefox",
		StartTime:   base,
		EndTime:     base.Add(90 * time.Second),
		Duration:    90,
	}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got, err := stats.Summary(c, base)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got.TotalActiveTime != 90 || got.MostUsedApp != "firefox" {
		t.Fatalf("unexpected summary: %+v", got)
	}

	cached, err := c.GetSummary(base)
	if err != nil {
		t.Fatalf("expected the summary to be cached, got %v", err)
	}

	if cached.Date != "2024-05-03" {
		t.Fatalf("unexpected cached summary: %+v", cached)
	}
}

func TestExportDay(t *testing.T) {
	c := newTestClient(t)

	if _, err := c.RecordOpen(&models.Session{
		ProcessName: "firefox",
		WindowTitle: "Example",
		StartTime:   base,
		EndTime:     base.Add(time.Minute),
		Duration:    60,
	}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var buf strings.Builder

	if err := stats.ExportDay(c, base, &buf); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var exported []models.Session

	if err := json.Unmarshal([]byte(buf.String()), &exported); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}

	if len(exported) != 1 || exported[0].ProcessName != "firefox" {
		t.Fatalf("unexpected export payload: %+v", exported)
	}
}

func TestExportEmptyDay(t *testing.T) {
	c := newTestClient(t)

	var buf strings.Builder

	if err := stats.ExportDay(c, base, &buf); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("expected an empty JSON array, got %q", buf.String())
	}
}

func TestSummaryPropagatesStoreErrors(t *testing.T) {
	c := newTestClient(t)

	if err := c.Close(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, err := stats.Summary(c, base); err == nil {
		t.Fatal("expected an error from a closed store")
	}
}
