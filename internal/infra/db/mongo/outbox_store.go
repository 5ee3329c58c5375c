package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appoutbox "github.com/Ishaq74/tetouanluxury-sub001/internal/app/outbox"
	infraoutbox "github.com/Ishaq74/tetouanluxury-sub001/internal/infra/outbox"
)

type OutboxStore struct {
	col *mongo.Collection
}

func NewOutboxStore(db *mongo.Database) *OutboxStore {
	return &OutboxStore{col: db.Collection("outbox_events")}
}

func (s *OutboxStore) Append(ctx context.Context, records []appoutbox.EventRecord) error {
	if len(records) == 0 {
		return nil
	}
	docs := make([]any, 0, len(records))
	for _, rec := range records {
		docs = append(docs, newOutboxDocument(rec))
	}
	_, err := s.col.InsertMany(ctx, docs)
	return err
}

func (s *OutboxStore) Claim(ctx context.Context, now time.Time, limit int) ([]infraoutbox.StoredRecord, error) {
	query := bson.M{
		"status":          bson.M{"$ne": string(infraoutbox.StatusSent)},
		"next_attempt_at": bson.M{"$lte": now.UnixMilli()},
	}
	opts := options.Find().SetLimit(int64(limit)).SetSort(bson.D{{Key: "occurred_at", Value: 1}})
	cursor, err := s.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []infraoutbox.StoredRecord
	for cursor.Next(ctx) {
		var doc outboxDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toStoredRecord())
	}
	return out, cursor.Err()
}

func (s *OutboxStore) MarkSent(ctx context.Context, id string, at time.Time) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":  string(infraoutbox.StatusSent),
		"sent_at": at.UnixMilli(),
	}})
	return err
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id string, at time.Time, retryAt time.Time, cause error) error {
	set := bson.M{
		"status":          string(infraoutbox.StatusFailed),
		"failed_at":       at.UnixMilli(),
		"next_attempt_at": retryAt.UnixMilli(),
	}
	if cause != nil {
		set["last_error"] = cause.Error()
	}
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": set,
		"$inc": bson.M{"attempts": 1},
	})
	return err
}

type outboxDocument struct {
	ID            string            `bson:"_id"`
	Name          string            `bson:"name"`
	Payload       []byte            `bson:"payload"`
	OccurredAt    int64             `bson:"occurred_at"`
	Aggregate     string            `bson:"aggregate"`
	Headers       map[string]string `bson:"headers"`
	Status        string            `bson:"status"`
	Attempts      int               `bson:"attempts"`
	NextAttemptAt int64             `bson:"next_attempt_at"`
	LastError     string            `bson:"last_error"`
}

func newOutboxDocument(rec appoutbox.EventRecord) outboxDocument {
	return outboxDocument{
		ID:            rec.ID,
		Name:          rec.Name,
		Payload:       rec.Payload,
		OccurredAt:    rec.OccurredAt.UnixMilli(),
		Aggregate:     rec.Aggregate,
		Headers:       rec.Headers,
		Status:        string(infraoutbox.StatusPending),
		NextAttemptAt: rec.OccurredAt.UnixMilli(),
	}
}

func (d outboxDocument) toStoredRecord() infraoutbox.StoredRecord {
	return infraoutbox.StoredRecord{
		EventRecord: appoutbox.EventRecord{
			ID:         d.ID,
			Name:       d.Name,
			Payload:    d.Payload,
			OccurredAt: timestampToTime(d.OccurredAt),
			Aggregate:  d.Aggregate,
			Headers:    d.Headers,
		},
		Status:        infraoutbox.Status(d.Status),
		Attempts:      d.Attempts,
		NextAttemptAt: timestampToTime(d.NextAttemptAt),
		LastError:     d.LastError,
	}
}

var _ infraoutbox.Store = (*OutboxStore)(nil)
