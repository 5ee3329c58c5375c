package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/uow"
	domainbooking "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/booking"
	domainpricing "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/pricing"
	domainuser "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/user"
	domainvilla "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/villa"
)

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Factory wires Mongo sessions into the generic UnitOfWork interface. The
// transaction gives the booking flow its check-then-insert serialization:
// two conflicting commits race on the version filter and one loses.
type Factory struct {
	DB *mongo.Database

	VillaRepo   domainvilla.Repository
	BookingRepo domainbooking.Repository
	UserRepo    domainuser.Repository
	PricingSvc  domainpricing.Calculator
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		session:  session,
		villas:   f.VillaRepo,
		bookings: f.BookingRepo,
		users:    f.UserRepo,
		pricing:  f.PricingSvc,
	}, nil
}

type Unit struct {
	session mongo.Session

	villas   domainvilla.Repository
	bookings domainbooking.Repository
	users    domainuser.Repository
	pricing  domainpricing.Calculator
}

func (u *Unit) Villas() domainvilla.Repository {
	return u.villas
}

func (u *Unit) Bookings() domainbooking.Repository {
	return u.bookings
}

func (u *Unit) Users() domainuser.Repository {
	return u.users
}

func (u *Unit) Pricing() domainpricing.Calculator {
	return u.pricing
}

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext makes the session visible to repositories downstream.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var _ uow.Factory = Factory{}
var _ uow.UnitOfWork = (*Unit)(nil)
