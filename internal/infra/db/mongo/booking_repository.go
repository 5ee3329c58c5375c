package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/booking"
	domainpricing "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/pricing"
	domainrange "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/shared/daterange"
	domainvilla "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/villa"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("agg_booking")}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
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
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) ListByVilla(ctx context.Context, villaID domainvilla.ID) ([]*domainbooking.Booking, error) {
	return r.list(ctx, bson.M{"villa_id": string(villaID)})
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	return r.list(ctx, bson.M{"guest_id": guestID})
}

func (r *BookingRepository) list(ctx context.Context, query bson.M) ([]*domainbooking.Booking, error) {
	cursor, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "range.check_in", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainbooking.Booking
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

type bookingDocument struct {
	ID          string        `bson:"_id"`
	VillaID     string        `bson:"villa_id"`
	GuestID     string        `bson:"guest_id"`
	ClientName  string        `bson:"client_name"`
	ClientEmail string        `bson:"client_email"`
	Range       rangeDocument `bson:"range"`
	Guests      int           `bson:"guests"`
	Quote       quoteDocument `bson:"quote"`
	Status      string        `bson:"status"`
	CreatedAt   int64         `bson:"created_at"`
	UpdatedAt   int64         `bson:"updated_at"`
	Version     int64         `bson:"version"`
}

type rangeDocument struct {
	CheckIn  int64 `bson:"check_in"`
	CheckOut int64 `bson:"check_out"`
}

type quoteDocument struct {
	Nights      int           `bson:"nights"`
	Subtotal    moneyDocument `bson:"subtotal"`
	Discount    moneyDocument `bson:"discount"`
	CleaningFee moneyDocument `bson:"cleaning_fee"`
	Tax         moneyDocument `bson:"tax"`
	Total       moneyDocument `bson:"total"`
	LongStay    bool          `bson:"long_stay"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:          string(b.ID),
		VillaID:     string(b.VillaID),
		GuestID:     b.GuestID,
		ClientName:  b.ClientName,
		ClientEmail: b.ClientEmail,
		Range:       rangeDocument{CheckIn: b.Range.CheckIn.UnixMilli(), CheckOut: b.Range.CheckOut.UnixMilli()},
		Guests:      b.Guests,
		Quote: quoteDocument{
			Nights:      b.Quote.Nights,
			Subtotal:    newMoneyDocument(b.Quote.Subtotal),
			Discount:    newMoneyDocument(b.Quote.Discount),
			CleaningFee: newMoneyDocument(b.Quote.CleaningFee),
			Tax:         newMoneyDocument(b.Quote.Tax),
			Total:       newMoneyDocument(b.Quote.Total),
			LongStay:    b.Quote.LongStay,
		},
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt.UnixMilli(),
		UpdatedAt: b.UpdatedAt.UnixMilli(),
		Version:   b.Version,
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:          domainbooking.ID(d.ID),
		VillaID:     domainvilla.ID(d.VillaID),
		GuestID:     d.GuestID,
		ClientName:  d.ClientName,
		ClientEmail: d.ClientEmail,
		Range: domainrange.StayRange{
			CheckIn:  timestampToTime(d.Range.CheckIn),
			CheckOut: timestampToTime(d.Range.CheckOut),
		},
		Guests: d.Guests,
		Quote: domainpricing.StayQuote{
			Nights:      d.Quote.Nights,
			Subtotal:    d.Quote.Subtotal.toMoney(),
			Discount:    d.Quote.Discount.toMoney(),
			CleaningFee: d.Quote.CleaningFee.toMoney(),
			Tax:         d.Quote.Tax.toMoney(),
			Total:       d.Quote.Total.toMoney(),
			LongStay:    d.Quote.LongStay,
		},
		Status:    domainbooking.Status(d.Status),
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
