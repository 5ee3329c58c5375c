package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/shared/money"
	domainvilla "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/villa"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type VillaRepository struct {
	col *mongo.Collection
}

func NewVillaRepository(db *mongo.Database) *VillaRepository {
	return &VillaRepository{col: db.Collection("agg_villa")}
}

func (r *VillaRepository) ByID(ctx context.Context, id domainvilla.ID) (*domainvilla.Villa, error) {
	var doc villaDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainvilla.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *VillaRepository) BySlug(ctx context.Context, slug string) (*domainvilla.Villa, error) {
	var doc villaDocument
	if err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainvilla.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *VillaRepository) List(ctx context.Context, filter domainvilla.ListFilter) ([]*domainvilla.Villa, error) {
	query := bson.M{}
	if filter.OnlyAvailable {
		query["available"] = true
	}
	if filter.MinGuests > 0 {
		query["max_guests"] = bson.M{"$gte": filter.MinGuests}
	}
	if filter.MaxRateCents > 0 {
		query["nightly_rate.amount"] = bson.M{"$lte": filter.MaxRateCents}
	}
	if filter.PoolOnly {
		query["has_pool"] = true
	}
	cursor, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "slug", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainvilla.Villa
	for cursor.Next(ctx) {
		var doc villaDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *VillaRepository) Save(ctx context.Context, v *domainvilla.Villa) error {
	doc := newVillaDocument(v)
	filter := bson.M{"_id": doc.ID, "version": v.Version}
	doc.Version = v.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	v.Version = doc.Version
	return nil
}

func (r *VillaRepository) Delete(ctx context.Context, id domainvilla.ID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainvilla.ErrNotFound
	}
	return nil
}

type villaDocument struct {
	ID          string        `bson:"_id"`
	Slug        string        `bson:"slug"`
	Name        string        `bson:"name"`
	Description string        `bson:"description"`
	NightlyRate moneyDocument `bson:"nightly_rate"`
	Bedrooms    int           `bson:"bedrooms"`
	Bathrooms   int           `bson:"bathrooms"`
	MaxGuests   int           `bson:"max_guests"`
	HasPool     bool          `bson:"has_pool"`
	Available   bool          `bson:"available"`
	PhotoURLs   []string      `bson:"photo_urls"`
	CreatedAt   int64         `bson:"created_at"`
	UpdatedAt   int64         `bson:"updated_at"`
	Version     int64         `bson:"version"`
}

func newVillaDocument(v *domainvilla.Villa) villaDocument {
	return villaDocument{
		ID:          string(v.ID),
		Slug:        v.Slug,
		Name:        v.Name,
		Description: v.Description,
		NightlyRate: newMoneyDocument(v.NightlyRate),
		Bedrooms:    v.Bedrooms,
		Bathrooms:   v.Bathrooms,
		MaxGuests:   v.MaxGuests,
		HasPool:     v.HasPool,
		Available:   v.Available,
		PhotoURLs:   v.PhotoURLs,
		CreatedAt:   v.CreatedAt.UnixMilli(),
		UpdatedAt:   v.UpdatedAt.UnixMilli(),
		Version:     v.Version,
	}
}

func (d villaDocument) toAggregate() *domainvilla.Villa {
	return &domainvilla.Villa{
		ID:          domainvilla.ID(d.ID),
		Slug:        d.Slug,
		Name:        d.Name,
		Description: d.Description,
		NightlyRate: d.NightlyRate.toMoney(),
		Bedrooms:    d.Bedrooms,
		Bathrooms:   d.Bathrooms,
		MaxGuests:   d.MaxGuests,
		HasPool:     d.HasPool,
		Available:   d.Available,
		PhotoURLs:   d.PhotoURLs,
		CreatedAt:   timestampToTime(d.CreatedAt),
		UpdatedAt:   timestampToTime(d.UpdatedAt),
		Version:     d.Version,
	}
}

type moneyDocument struct {
	Amount   int64  `bson:"amount"`
	Currency string `bson:"currency"`
}

func newMoneyDocument(m money.Money) moneyDocument {
	return moneyDocument{Amount: m.Amount, Currency: m.Currency}
}

func (d moneyDocument) toMoney() money.Money {
	return money.Money{Amount: d.Amount, Currency: d.Currency}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

var _ domainvilla.Repository = (*VillaRepository)(nil)
