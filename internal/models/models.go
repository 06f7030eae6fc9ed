// Package models defines the data types shared between the tracker,
// the store, and the reporting layer.
package models

import "time"

// ObservationKind distinguishes the three kinds of samples the
// tracker can produce.
type ObservationKind string

const (
	KindWindow  ObservationKind = "window"
	KindProcess ObservationKind = "process"
	KindIdle    ObservationKind = "idle"
)

// ForegroundContext is the raw result of a platform probe.
type ForegroundContext struct {
	ProcessName string
	WindowTitle string
	PID         int
}

// Observation is a single point-in-time sample of foreground activity.
// It is produced by the sampler and consumed once by the segmenter.
type Observation struct {
	Kind        ObservationKind `json:"kind"`
	ProcessName string          `json:"process_name"`
	WindowTitle string          `json:"window_title"`
	PID         int             `json:"pid,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

// Identity is the (process name, window title) pair used to decide
// session boundaries. Comparison is exact and case-sensitive; an empty
// string is a valid component meaning "unknown".
type Identity struct {
	ProcessName string
	WindowTitle string
}

// Identity returns the session identity of the observation.
func (o *Observation) Identity() Identity {
	return Identity{
		ProcessName: o.ProcessName,
		WindowTitle: o.WindowTitle,
	}
}

// Session is a contiguous interval of activity under one identity.
// EndTime is the zero value while the session is still open.
type Session struct {
	ID          uint64    `json:"id"`
	ProcessName string    `json:"process_name"`
	WindowTitle string    `json:"window_title"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	// Duration is the closed session length in whole seconds.
	Duration int64  `json:"duration"`
	Tag      string `json:"tag,omitempty"`
	IsIdle   bool   `json:"is_idle"`
}

// Open reports whether the session has not been closed yet.
func (s *Session) Open() bool {
	return s.EndTime.IsZero()
}

// DailySummary is a cached aggregate over the sessions of one calendar
// day. It is recomputed on demand and never authoritative.
type DailySummary struct {
	Date            string    `json:"date"`
	TotalActiveTime int64     `json:"total_active_time"`
	TotalIdleTime   int64     `json:"total_idle_time"`
	MostUsedApp     string    `json:"most_used_app"`
	SessionCount    int       `json:"session_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// UsageStat is the per-application aggregate returned by usage queries.
type UsageStat struct {
	ProcessName  string `json:"process_name"`
	TotalTime    int64  `json:"total_time"`
	SessionCount int    `json:"session_count"`
}
