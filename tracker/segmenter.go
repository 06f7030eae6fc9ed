package tracker

import (
	"errors"
	"log/slog"
	"time"

	"github.com/malikhw47/hwtracker/internal/models"
	"github.com/malikhw47/hwtracker/store"
)

// Recorder is the subset of the store the segmenter writes to.
type Recorder interface {
	RecordOpen(sess *models.Session) (uint64, error)
	RecordClose(id uint64, endTime time.Time, duration int64) error
}

// Segmenter converts the observation stream into non-overlapping
// sessions. It owns the single open-session slot and must only be
// driven from one goroutine.
type Segmenter struct {
	db        Recorder
	current   *models.Session
	persisted bool
	onClose   func(sess *models.Session)
}

// NewSegmenter returns a segmenter with no open session.
func NewSegmenter(db Recorder) *Segmenter {
	return &Segmenter{db: db}
}

// OnClose registers fn to run after each session has been finalised.
func (sg *Segmenter) OnClose(fn func(sess *models.Session)) {
	sg.onClose = fn
}

// Current returns the open session, or nil.
func (sg *Segmenter) Current() *models.Session {
	return sg.current
}

// Observe processes a single observation. An idle observation closes
// the open session; a changed identity closes it and opens a new one;
// a matching identity extends it without touching storage.
func (sg *Segmenter) Observe(obs *models.Observation) {
	if obs == nil {
		return
	}

	if obs.Kind == models.KindIdle {
		// Idle is a gap between sessions, not a tracked interval.
		// Materialising idle periods as sessions of their own is a
		// possible extension here.
		sg.closeCurrent(obs.Timestamp)
		return
	}

	if sg.current != nil && obs.Identity() == sg.identity() {
		// Same identity: the session continues. Duration is computed
		// at close time only, so gaps between identical observations
		// never split a session.
		return
	}

	sg.closeCurrent(obs.Timestamp)
	sg.open(obs)
}

// Flush closes the open session, if any. Called before shutdown.
func (sg *Segmenter) Flush(now time.Time) {
	sg.closeCurrent(now)
}

func (sg *Segmenter) identity() models.Identity {
	return models.Identity{
		ProcessName: sg.current.ProcessName,
		WindowTitle: sg.current.WindowTitle,
	}
}

func (sg *Segmenter) open(obs *models.Observation) {
	sess := &models.Session{
		ProcessName: obs.ProcessName,
		WindowTitle: obs.WindowTitle,
		StartTime:   obs.Timestamp,
	}

	sg.current = sess

	id, err := sg.db.RecordOpen(sess)
	if err != nil {
		// A storage fault must not stop the sampling loop. The session
		// stays in memory and is written in finalised form on close.
		slog.Error("failed to persist session open", slog.Any("error", err))

		sg.persisted = false

		return
	}

	sess.ID = id
	sg.persisted = true
}

func (sg *Segmenter) closeCurrent(now time.Time) {
	if sg.current == nil {
		return
	}

	sess := sg.current

	end := now
	if end.Before(sess.StartTime) {
		end = sess.StartTime
	}

	sess.EndTime = end
	sess.Duration = int64(end.Sub(sess.StartTime) / time.Second)

	sg.persist(sess)

	if sg.onClose != nil {
		sg.onClose(sess)
	}

	sg.current = nil
	sg.persisted = false
}

// persist guarantees that each finalised session reaches the store
// exactly once, whether or not the write on open succeeded.
func (sg *Segmenter) persist(sess *models.Session) {
	if !sg.persisted {
		id, err := sg.db.RecordOpen(sess)
		if err != nil {
			slog.Error(
				"dropping session: failed to persist",
				slog.Any("error", err),
			)

			return
		}

		sess.ID = id
	}

	err := sg.db.RecordClose(sess.ID, sess.EndTime, sess.Duration)

	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		// The open slot is reset by the caller, so a vanished row
		// halts this session's lifecycle without crashing the loop.
		slog.Error(
			"session vanished from store before close",
			slog.Uint64("id", sess.ID),
		)
	case err != nil:
		slog.Error("failed to persist session close", slog.Any("error", err))
	}
}
