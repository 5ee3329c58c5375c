package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "github.com/Ishaq74/tetouanluxury-sub001/internal/app/outbox"
	infraoutbox "github.com/Ishaq74/tetouanluxury-sub001/internal/infra/outbox"
)

type OutboxStore struct {
	mu      sync.Mutex
	records []infraoutbox.StoredRecord
}

func NewOutboxStore() *OutboxStore {
	return &OutboxStore{}
}

func (s *OutboxStore) Append(_ context.Context, records []appoutbox.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		s.records = append(s.records, infraoutbox.StoredRecord{
			EventRecord: rec,
			Status:      infraoutbox.StatusPending,
		})
	}
	return nil
}

func (s *OutboxStore) Claim(_ context.Context, now time.Time, limit int) ([]infraoutbox.StoredRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []infraoutbox.StoredRecord
	for _, rec := range s.records {
		if rec.Status == infraoutbox.StatusSent {
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

func (s *OutboxStore) MarkSent(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Status = infraoutbox.StatusSent
			s.records[i].NextAttemptAt = at
			return nil
		}
	}
	return nil
}

func (s *OutboxStore) MarkFailed(_ context.Context, id string, _ time.Time, retryAt time.Time, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Status = infraoutbox.StatusFailed
			s.records[i].Attempts++
			s.records[i].NextAttemptAt = retryAt
			if cause != nil {
				s.records[i].LastError = cause.Error()
			}
			return nil
		}
	}
	return nil
}

// Pending reports undelivered records; tests use it to assert staging.
func (s *OutboxStore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, rec := range s.records {
		if rec.Status != infraoutbox.StatusSent {
			n++
		}
	}
	return n
}

var _ infraoutbox.Store = (*OutboxStore)(nil)
