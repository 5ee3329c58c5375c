package uow

import (
	"context"
	"errors"

	domainbooking "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/booking"
	domainpricing "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/pricing"
	domainuser "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/user"
	domainvilla "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/villa"
)

var ErrUnitOfWorkMissing = errors.New("uow: unit of work missing from context")

// UnitOfWork coordinates repositories inside one transaction boundary. The
// availability re-check and the booking insert run through the same unit so
// the storage backend can serialize conflicting commits.
type UnitOfWork interface {
	Villas() domainvilla.Repository
	Bookings() domainbooking.Repository
	Users() domainuser.Repository
	Pricing() domainpricing.Calculator

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Factory starts unit of work instances.
type Factory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}

type ctxKey struct{}

// ContextWith stores the provided unit of work in context.
func ContextWith(ctx context.Context, unit UnitOfWork) context.Context {
	return context.WithValue(ctx, ctxKey{}, unit)
}

// Bind stores the unit of work in context and, when the backend carries a
// storage session, injects that session too so repository calls made with the
// returned context run inside the unit's transaction.
func Bind(ctx context.Context, unit UnitOfWork) context.Context {
	if injector, ok := unit.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		ctx = injector.InjectContext(ctx)
	}
	return ContextWith(ctx, unit)
}

// FromContext retrieves a unit of work from context if present.
func FromContext(ctx context.Context) (UnitOfWork, bool) {
	val := ctx.Value(ctxKey{})
	if val == nil {
		return nil, false
	}
	unit, ok := val.(UnitOfWork)
	return unit, ok
}
