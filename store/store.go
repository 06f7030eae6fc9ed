// Package store connects to the data store and manages activity sessions
package store

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/malikhw47/hwtracker/internal/models"
	"github.com/malikhw47/hwtracker/internal/timeutil"
)

const (
	sessionBucket = "sessions"
	idBucket      = "session_ids"
	summaryBucket = "summaries"
)

var (
	// ErrSessionNotFound is reported when a session id does not exist in
	// the database.
	ErrSessionNotFound = errors.New(
		"session not found",
	)

	// ErrSummaryNotFound is reported when no cached summary exists for a
	// date.
	ErrSummaryNotFound = errors.New(
		"summary not found",
	)

	errTrackerRunning = errors.New(
		"is hwtracker already running? Only one instance can be active at a time",
	)
)

// DB is the storage interface shared by the tracking loop and the CLI
// query commands. The tracking loop is the only writer of session
// lifecycle fields; tag edits and reads come from the CLI side. The
// underlying Bolt handle serialises concurrent access.
type DB interface {
	RecordOpen(sess *models.Session) (uint64, error)
	RecordClose(id uint64, endTime time.Time, duration int64) error
	SessionsOn(date time.Time) ([]models.Session, error)
	Sessions(startTime, endTime time.Time) ([]models.Session, error)
	UsageStats(startTime, endTime time.Time) ([]models.UsageStat, error)
	SetTag(id uint64, tag string) error
	PurgeAll() error
	PutSummary(summary *models.DailySummary) error
	GetSummary(date time.Time) (*models.DailySummary, error)
	Close() error
}

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

// sessionKey builds a bucket key that sorts chronologically: a
// fixed-width UTC timestamp with the session id as a tie-breaker for
// sessions starting within the same second.
func sessionKey(startTime time.Time, id uint64) []byte {
	return fmt.Appendf(
		nil,
		"%s-%020d",
		startTime.UTC().Format(time.RFC3339),
		id,
	)
}

func idKey(id uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, id)
}

// RecordOpen inserts a new session with no end time and returns its
// assigned id.
func (c *Client) RecordOpen(sess *models.Session) (uint64, error) {
	var id uint64

	err := c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucket))

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}

		sess.ID = seq
		key := sessionKey(sess.StartTime, seq)

		value, err := json.Marshal(sess)
		if err != nil {
			return err
		}

		if err := b.Put(key, value); err != nil {
			return err
		}

		if err := tx.Bucket([]byte(idBucket)).Put(idKey(seq), key); err != nil {
			return err
		}

		id = seq

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("recording session open: %w", err)
	}

	return id, nil
}

// mutateSession applies fn to the stored session with the given id
// inside a single write transaction.
func (c *Client) mutateSession(id uint64, fn func(*models.Session)) error {
	return c.Update(func(tx *bolt.Tx) error {
		key := tx.Bucket([]byte(idBucket)).Get(idKey(id))
		if key == nil {
			return ErrSessionNotFound
		}

		b := tx.Bucket([]byte(sessionBucket))

		value := b.Get(key)
		if value == nil {
			return ErrSessionNotFound
		}

		var sess models.Session

		if err := json.Unmarshal(value, &sess); err != nil {
			return err
		}

		fn(&sess)

		updated, err := json.Marshal(&sess)
		if err != nil {
			return err
		}

		return b.Put(key, updated)
	})
}

// RecordClose finalises a previously opened session. It fails with
// ErrSessionNotFound if the id is unknown.
func (c *Client) RecordClose(
	id uint64,
	endTime time.Time,
	duration int64,
) error {
	return c.mutateSession(id, func(sess *models.Session) {
		sess.EndTime = endTime
		sess.Duration = duration
	})
}

// SetTag updates the free-form label of a session.
func (c *Client) SetTag(id uint64, tag string) error {
	return c.mutateSession(id, func(sess *models.Session) {
		sess.Tag = tag
	})
}

// Sessions retrieves the saved sessions whose start time falls within
// the specified time period, in ascending start time order.
func (c *Client) Sessions(
	startTime, endTime time.Time,
) ([]models.Session, error) {
	var sessions []models.Session

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(sessionBucket)).Cursor()

		min := []byte(startTime.UTC().Format(time.RFC3339))
		// '~' sorts after the id suffix of any key sharing the final
		// second of the range
		max := []byte(endTime.UTC().Format(time.RFC3339) + "-~")

		for k, v := cur.Seek(min); k != nil && bytes.Compare(k, max) <= 0; k, v = cur.Next() {
			var sess models.Session

			if err := json.Unmarshal(v, &sess); err != nil {
				return err
			}

			sessions = append(sessions, sess)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("retrieving sessions: %w", err)
	}

	return sessions, nil
}

// SessionsOn retrieves all sessions started on the given calendar day,
// ascending by start time.
func (c *Client) SessionsOn(date time.Time) ([]models.Session, error) {
	return c.Sessions(timeutil.RoundToStart(date), timeutil.RoundToEnd(date))
}

// UsageStats aggregates total time and session counts per application
// for non-idle sessions started within the bounds. Results are sorted
// by total time descending, ties broken by process name.
func (c *Client) UsageStats(
	startTime, endTime time.Time,
) ([]models.UsageStat, error) {
	sessions, err := c.Sessions(startTime, endTime)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*models.UsageStat)

	for i := range sessions {
		sess := &sessions[i]
		if sess.IsIdle {
			continue
		}

		st, ok := totals[sess.ProcessName]
		if !ok {
			st = &models.UsageStat{ProcessName: sess.ProcessName}
			totals[sess.ProcessName] = st
		}

		st.TotalTime += sess.Duration
		st.SessionCount++
	}

	stats := make([]models.UsageStat, 0, len(totals))

	for _, st := range totals {
		stats = append(stats, *st)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalTime != stats[j].TotalTime {
			return stats[i].TotalTime > stats[j].TotalTime
		}

		return stats[i].ProcessName < stats[j].ProcessName
	})

	return stats, nil
}

// PutSummary stores the cached summary for a day, overwriting any
// previous value.
func (c *Client) PutSummary(summary *models.DailySummary) error {
	value, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(summaryBucket)).
			Put([]byte(summary.Date), value)
	})
}

// GetSummary retrieves the cached summary for a day.
func (c *Client) GetSummary(date time.Time) (*models.DailySummary, error) {
	var summary models.DailySummary

	err := c.View(func(tx *bolt.Tx) error {
		value := tx.Bucket([]byte(summaryBucket)).
			Get([]byte(timeutil.DayKey(date)))
		if value == nil {
			return ErrSummaryNotFound
		}

		return json.Unmarshal(value, &summary)
	})
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

// PurgeAll deletes all sessions and summaries. Irreversible.
func (c *Client) PurgeAll() error {
	return c.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{sessionBucket, idBucket, summaryBucket} {
			if err := tx.DeleteBucket([]byte(name)); err != nil {
				return err
			}

			if _, err := tx.CreateBucket([]byte(name)); err != nil {
				return err
			}
		}

		return nil
	})
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, errTrackerRunning
		}

		return nil, err
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}
	// Create the necessary buckets for storing data if they do not exist already
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{sessionBucket, idBucket, summaryBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		db,
	}, nil
}
