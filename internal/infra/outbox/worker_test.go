package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "github.com/Ishaq74/tetouanluxury-sub001/internal/app/outbox"
)

type fakeStore struct {
	mu      sync.Mutex
	records []StoredRecord
	fail    error
}

func (s *fakeStore) Append(_ context.Context, records []appoutbox.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	for _, rec := range records {
		s.records = append(s.records, StoredRecord{EventRecord: rec, Status: StatusPending})
	}
	return nil
}

func (s *fakeStore) Claim(_ context.Context, now time.Time, limit int) ([]StoredRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []StoredRecord
	for _, rec := range s.records {
		if rec.Status == StatusSent {
			continue
		}
		if !rec.NextAttemptAt.IsZero() && rec.NextAttemptAt.After(now) {
			continue
		}
		out = append(out, rec)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStore) MarkSent(_ context.Context, id string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Status = StatusSent
		}
	}
	return nil
}

func (s *fakeStore) MarkFailed(_ context.Context, id string, _ time.Time, retryAt time.Time, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Status = StatusFailed
			s.records[i].Attempts++
			s.records[i].NextAttemptAt = retryAt
			if cause != nil {
				s.records[i].LastError = cause.Error()
			}
		}
	}
	return nil
}

func (s *fakeStore) byID(id string) (StoredRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, true
		}
	}
	return StoredRecord{}, false
}

type fakePublisher struct {
	mu        sync.Mutex
	published []string
	fail      map[string]error
}

func (p *fakePublisher) Publish(_ context.Context, record appoutbox.EventRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err, ok := p.fail[record.ID]; ok {
		return err
	}
	p.published = append(p.published, record.ID)
	return nil
}

func record(id, name string) appoutbox.EventRecord {
	return appoutbox.EventRecord{
		ID:         id,
		Name:       name,
		Payload:    []byte(`{}`),
		OccurredAt: time.Now().UTC(),
		Aggregate:  "BK-1001",
	}
}

func TestStageBuffersUntilFlush(t *testing.T) {
	store := &fakeStore{}
	stage := NewStage(store)
	ctx := context.Background()

	require.NoError(t, stage.Add(ctx, record("ev-1", "booking.requested")))
	require.NoError(t, stage.Add(ctx, record("ev-2", "booking.confirmed")))
	assert.Empty(t, store.records)

	require.NoError(t, stage.Flush(ctx))
	assert.Len(t, store.records, 2)

	// Flushing an empty stage is a no-op.
	require.NoError(t, stage.Flush(ctx))
	assert.Len(t, store.records, 2)
}

func TestStageRequeuesOnAppendFailure(t *testing.T) {
	store := &fakeStore{fail: errors.New("store down")}
	stage := NewStage(store)
	ctx := context.Background()

	require.NoError(t, stage.Add(ctx, record("ev-1", "booking.requested")))
	require.Error(t, stage.Flush(ctx))

	store.fail = nil
	require.NoError(t, stage.Flush(ctx))
	assert.Len(t, store.records, 1)
}

func TestWorkerDrainMarksSent(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	require.NoError(t, store.Append(context.Background(), []appoutbox.EventRecord{
		record("ev-1", "booking.requested"),
		record("ev-2", "booking.confirmed"),
	}))

	w := &Worker{Store: store, Publisher: pub}
	w.drain(context.Background())

	assert.Equal(t, []string{"ev-1", "ev-2"}, pub.published)
	for _, id := range []string{"ev-1", "ev-2"} {
		rec, ok := store.byID(id)
		require.True(t, ok)
		assert.Equal(t, StatusSent, rec.Status)
	}
}

func TestWorkerDrainSchedulesRetry(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{fail: map[string]error{"ev-1": errors.New("broker unreachable")}}
	require.NoError(t, store.Append(context.Background(), []appoutbox.EventRecord{
		record("ev-1", "booking.requested"),
		record("ev-2", "booking.confirmed"),
	}))

	w := &Worker{Store: store, Publisher: pub, RetryBackoff: []time.Duration{time.Minute}}
	before := time.Now().UTC()
	w.drain(context.Background())

	rec, ok := store.byID("ev-1")
	require.True(t, ok)
	assert.Equal(t, StatusFailed, rec.Status)
	assert.Equal(t, 1, rec.Attempts)
	assert.Equal(t, "broker unreachable", rec.LastError)
	assert.False(t, rec.NextAttemptAt.Before(before.Add(time.Minute)))

	// A failure on one record must not block the rest of the batch.
	assert.Equal(t, []string{"ev-2"}, pub.published)

	// The retry is deferred past its backoff window.
	claimed, err := store.Claim(context.Background(), time.Now().UTC(), 10)
	require.NoError(t, err)
	assert.Empty(t, claimed)
}

func TestWorkerBackoffSchedule(t *testing.T) {
	w := &Worker{RetryBackoff: []time.Duration{time.Second, 5 * time.Second, 30 * time.Second}}

	assert.Equal(t, time.Second, w.backoff(0))
	assert.Equal(t, 5*time.Second, w.backoff(1))
	assert.Equal(t, 30*time.Second, w.backoff(2))
	// Attempts beyond the schedule reuse the last entry.
	assert.Equal(t, 30*time.Second, w.backoff(9))

	assert.Equal(t, 30*time.Second, (&Worker{}).backoff(3))
}
