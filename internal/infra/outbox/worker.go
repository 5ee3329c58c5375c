package outbox

import (
	"context"
	"log/slog"
	"time"

	appoutbox "github.com/Ishaq74/tetouanluxury-sub001/internal/app/outbox"
)

// Publisher delivers one record to the broker.
type Publisher interface {
	Publish(ctx context.Context, record appoutbox.EventRecord) error
}

// Worker drains the durable outbox on a fixed interval. Failed deliveries
// are retried on the backoff schedule, indexed by attempt count; delivery is
// at-least-once, so consumers deduplicate by event id.
type Worker struct {
	Store        Store
	Publisher    Publisher
	Logger       *slog.Logger
	PollInterval time.Duration
	RetryBackoff []time.Duration
	BatchSize    int
}

func (w *Worker) Run(ctx context.Context) error {
	interval := w.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

func (w *Worker) drain(ctx context.Context) {
	batch := w.BatchSize
	if batch <= 0 {
		batch = 50
	}
	now := time.Now().UTC()
	records, err := w.Store.Claim(ctx, now, batch)
	if err != nil {
		w.log().Error("outbox claim failed", "error", err)
		return
	}
	for _, rec := range records {
		if err := w.Publisher.Publish(ctx, rec.EventRecord); err != nil {
			retryAt := time.Now().UTC().Add(w.backoff(rec.Attempts))
			if markErr := w.Store.MarkFailed(ctx, rec.ID, time.Now().UTC(), retryAt, err); markErr != nil {
				w.log().Error("outbox mark failed", "event_id", rec.ID, "error", markErr)
			}
			w.log().Warn("event publish failed", "event_id", rec.ID, "event", rec.Name, "attempts", rec.Attempts+1, "error", err)
			continue
		}
		if err := w.Store.MarkSent(ctx, rec.ID, time.Now().UTC()); err != nil {
			w.log().Error("outbox mark sent failed", "event_id", rec.ID, "error", err)
			continue
		}
		w.log().Debug("event published", "event_id", rec.ID, "event", rec.Name)
	}
}

func (w *Worker) backoff(attempts int) time.Duration {
	if len(w.RetryBackoff) == 0 {
		return 30 * time.Second
	}
	if attempts >= len(w.RetryBackoff) {
		attempts = len(w.RetryBackoff) - 1
	}
	return w.RetryBackoff[attempts]
}

func (w *Worker) log() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}
