package outbox

import (
	"context"
	"sync"
	"time"

	appoutbox "github.com/Ishaq74/tetouanluxury-sub001/internal/app/outbox"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// StoredRecord is an event record with delivery bookkeeping.
type StoredRecord struct {
	appoutbox.EventRecord
	Status        Status
	Attempts      int
	NextAttemptAt time.Time
	LastError     string
}

// Store is the durable half of the outbox. Append runs inside the command's
// commit path; the worker drains via Claim/MarkSent/MarkFailed.
type Store interface {
	Append(ctx context.Context, records []appoutbox.EventRecord) error
	Claim(ctx context.Context, now time.Time, limit int) ([]StoredRecord, error)
	MarkSent(ctx context.Context, id string, at time.Time) error
	MarkFailed(ctx context.Context, id string, at time.Time, retryAt time.Time, cause error) error
}

// Stage buffers event records during a command and hands them to the durable
// store when the middleware flushes after commit.
type Stage struct {
	store Store

	mu      sync.Mutex
	pending []appoutbox.EventRecord
}

func NewStage(store Store) *Stage {
	return &Stage{store: store}
}

func (s *Stage) Add(_ context.Context, record appoutbox.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, record)
	return nil
}

func (s *Stage) Flush(ctx context.Context) error {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()
	if len(batch) == 0 {
		return nil
	}
	if err := s.store.Append(ctx, batch); err != nil {
		s.mu.Lock()
		s.pending = append(batch, s.pending...)
		s.mu.Unlock()
		return err
	}
	return nil
}

var _ appoutbox.Outbox = (*Stage)(nil)
