package tracker

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/malikhw47/hwtracker/internal/models"
	"github.com/malikhw47/hwtracker/store"
)

var base = time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)

func at(secs int) time.Time {
	return base.Add(time.Duration(secs) * time.Second)
}

func window(process, title string, secs int) *models.Observation {
	return &models.Observation{
		Kind:        models.KindWindow,
		ProcessName: process,
		WindowTitle: title,
		Timestamp:   at(secs),
	}
}

func idle(secs int) *models.Observation {
	return &models.Observation{
		Kind:      models.KindIdle,
		Timestamp: at(secs),
	}
}

// fakeRecorder implements Recorder in memory and can be made to fail.
type fakeRecorder struct {
	sessions map[uint64]*models.Session
	order    []uint64
	nextID   uint64
	openErr  error
	closeErr error
	opens    int
	closes   int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{sessions: make(map[uint64]*models.Session)}
}

func (r *fakeRecorder) RecordOpen(sess *models.Session) (uint64, error) {
	r.opens++

	if r.openErr != nil {
		return 0, r.openErr
	}

	r.nextID++

	stored := *sess
	stored.ID = r.nextID
	r.sessions[r.nextID] = &stored
	r.order = append(r.order, r.nextID)

	return r.nextID, nil
}

func (r *fakeRecorder) RecordClose(
	id uint64,
	endTime time.Time,
	duration int64,
) error {
	r.closes++

	if r.closeErr != nil {
		return r.closeErr
	}

	sess, ok := r.sessions[id]
	if !ok {
		return store.ErrSessionNotFound
	}

	sess.EndTime = endTime
	sess.Duration = duration

	return nil
}

func (r *fakeRecorder) closed() []models.Session {
	var out []models.Session

	for _, id := range r.order {
		sess := r.sessions[id]
		if !sess.Open() {
			out = append(out, *sess)
		}
	}

	return out
}

func TestSegmenterIdentityChange(t *testing.T) {
	rec := newFakeRecorder()
	sg := NewSegmenter(rec)

	for _, obs := range []*models.Observation{
		window("A", "T1", 0),
		window("A", "T1", 1),
		window("B", "T2", 2),
		idle(10),
	} {
		sg.Observe(obs)
	}

	if sg.Current() != nil {
		t.Fatal("expected no open session after idle observation")
	}

	want := []models.Session{
		{
			ID:          1,
			ProcessName: "A",
			WindowTitle: "T1",
			StartTime:   at(0),
			EndTime:     at(2),
			Duration:    2,
		},
		{
			ID:          2,
			ProcessName: "B",
			WindowTitle: "T2",
			StartTime:   at(2),
			EndTime:     at(10),
			Duration:    8,
		},
	}

	if diff := cmp.Diff(want, rec.closed()); diff != "" {
		t.Fatalf("closed sessions mismatch (-want +got):\n%s", diff)
	}
}

func TestSegmenterIdleThenResume(t *testing.T) {
	rec := newFakeRecorder()
	sg := NewSegmenter(rec)

	sg.Observe(window("A", "", 0))
	sg.Observe(idle(1))

	if sg.Current() != nil {
		t.Fatal("expected no open session after idle observation")
	}

	sg.Observe(window("A", "", 5))

	first := rec.sessions[1]
	if first.Open() || first.Duration != 1 {
		t.Fatalf(
			"first session not closed correctly: end=%v duration=%d",
			first.EndTime, first.Duration,
		)
	}

	second := sg.Current()
	if second == nil {
		t.Fatal("expected a new open session after activity resumed")
	}

	if second.ID == first.ID {
		t.Fatal("resumed session must have a distinct id")
	}

	if !second.StartTime.Equal(at(5)) {
		t.Fatalf("unexpected start time: %v", second.StartTime)
	}
}

func TestSegmenterSameIdentityContinues(t *testing.T) {
	rec := newFakeRecorder()
	sg := NewSegmenter(rec)

	sg.Observe(window("A", "T1", 0))
	sg.Observe(window("A", "T1", 1))
	sg.Observe(window("A", "T1", 2))

	if rec.opens != 1 {
		t.Fatalf("expected a single open, got %d", rec.opens)
	}

	if rec.closes != 0 {
		t.Fatalf("expected no closes, got %d", rec.closes)
	}
}

func TestSegmenterGapDoesNotSplit(t *testing.T) {
	rec := newFakeRecorder()
	sg := NewSegmenter(rec)

	// a sampler hiccup: 30s between identical observations
	sg.Observe(window("A", "T1", 0))
	sg.Observe(window("A", "T1", 30))
	sg.Flush(at(40))

	closed := rec.closed()
	if len(closed) != 1 {
		t.Fatalf("expected one session, got %d", len(closed))
	}

	if closed[0].Duration != 40 {
		t.Fatalf("expected duration 40, got %d", closed[0].Duration)
	}
}

func TestSegmenterZeroDuration(t *testing.T) {
	rec := newFakeRecorder()
	sg := NewSegmenter(rec)

	sg.Observe(window("A", "T1", 0))
	sg.Observe(idle(0))

	closed := rec.closed()
	if len(closed) != 1 {
		t.Fatalf("expected one session, got %d", len(closed))
	}

	if closed[0].Duration != 0 {
		t.Fatalf("expected zero duration, got %d", closed[0].Duration)
	}
}

func TestSegmenterEmptyStream(t *testing.T) {
	rec := newFakeRecorder()
	sg := NewSegmenter(rec)

	sg.Observe(nil)
	sg.Flush(at(10))

	if rec.opens != 0 || rec.closes != 0 {
		t.Fatalf(
			"expected untouched store, got %d opens and %d closes",
			rec.opens, rec.closes,
		)
	}
}

func TestSegmenterNoOverlappingSessions(t *testing.T) {
	rec := newFakeRecorder()
	sg := NewSegmenter(rec)

	for _, obs := range []*models.Observation{
		window("A", "T1", 0),
		window("B", "T1", 3),
		window("A", "T1", 5),
		idle(9),
		window("A", "T1", 12),
		window("A", "T2", 15),
	} {
		sg.Observe(obs)
	}

	sg.Flush(at(20))

	byIdentity := make(map[models.Identity][]models.Session)

	for _, sess := range rec.closed() {
		id := models.Identity{
			ProcessName: sess.ProcessName,
			WindowTitle: sess.WindowTitle,
		}
		byIdentity[id] = append(byIdentity[id], sess)
	}

	for id, sessions := range byIdentity {
		for i := 1; i < len(sessions); i++ {
			prev, cur := sessions[i-1], sessions[i]
			if cur.StartTime.Before(prev.EndTime) {
				t.Fatalf(
					"overlapping sessions for %+v: [%v,%v) and [%v,%v)",
					id,
					prev.StartTime, prev.EndTime,
					cur.StartTime, cur.EndTime,
				)
			}
		}
	}
}

func TestSegmenterOpenFaultPersistsOnClose(t *testing.T) {
	rec := newFakeRecorder()
	rec.openErr = errors.New("disk full")

	sg := NewSegmenter(rec)

	sg.Observe(window("A", "T1", 0))

	if len(rec.sessions) != 0 {
		t.Fatal("open should have failed")
	}

	// the fault clears before the session ends
	rec.openErr = nil

	sg.Observe(idle(7))

	closed := rec.closed()
	if len(closed) != 1 {
		t.Fatalf("expected the session to be persisted once, got %d", len(closed))
	}

	if closed[0].Duration != 7 {
		t.Fatalf("expected duration 7, got %d", closed[0].Duration)
	}
}

func TestSegmenterCloseUnknownSession(t *testing.T) {
	rec := newFakeRecorder()
	sg := NewSegmenter(rec)

	sg.Observe(window("A", "T1", 0))

	// the row vanishes behind the segmenter's back
	delete(rec.sessions, 1)

	sg.Observe(idle(5))

	if sg.Current() != nil {
		t.Fatal("expected the open slot to be reset")
	}

	// the loop keeps working afterwards
	sg.Observe(window("B", "T2", 6))

	if sg.Current() == nil {
		t.Fatal("expected a new session to open after the violation")
	}
}

func TestSegmenterOnCloseHook(t *testing.T) {
	rec := newFakeRecorder()
	sg := NewSegmenter(rec)

	var got []models.Session

	sg.OnClose(func(sess *models.Session) {
		got = append(got, *sess)
	})

	sg.Observe(window("A", "T1", 0))
	sg.Observe(window("B", "T2", 4))
	sg.Flush(at(6))

	if len(got) != 2 {
		t.Fatalf("expected 2 close callbacks, got %d", len(got))
	}

	if got[0].ProcessName != "A" || got[1].ProcessName != "B" {
		t.Fatalf("unexpected callback order: %v", got)
	}
}
