package memory

import (
	"context"
	"sync"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/uow"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/booking"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/pricing"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/user"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/villa"
)

// Factory hands out units of work backed by shared in-memory repositories.
// There is no real transaction: a process-wide mutex serializes write units
// so the availability check-then-insert sequence cannot interleave, which is
// the property the booking flow depends on.
type Factory struct {
	Villas   *VillaRepository
	Bookings *BookingRepository
	Users    *UserRepository
	Pricing  pricing.Calculator

	writeMu sync.Mutex
}

func (f *Factory) Begin(_ context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	unit := &Unit{factory: f, readOnly: opts.ReadOnly}
	if !opts.ReadOnly {
		f.writeMu.Lock()
		unit.locked = true
	}
	return unit, nil
}

type Unit struct {
	factory  *Factory
	readOnly bool
	locked   bool
	mu       sync.Mutex
}

func (u *Unit) Villas() villa.Repository     { return u.factory.Villas }
func (u *Unit) Bookings() booking.Repository { return u.factory.Bookings }
func (u *Unit) Users() user.Repository       { return u.factory.Users }
func (u *Unit) Pricing() pricing.Calculator  { return u.factory.Pricing }

func (u *Unit) Commit(context.Context) error {
	u.release()
	return nil
}

// Rollback releases the unit. Writes applied through the shared repositories
// are not undone; command handlers validate before the first Save so a
// rollback after a partial write only happens on storage faults.
func (u *Unit) Rollback(context.Context) error {
	u.release()
	return nil
}

func (u *Unit) release() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.locked {
		u.factory.writeMu.Unlock()
		u.locked = false
	}
}

var _ uow.Factory = (*Factory)(nil)
var _ uow.UnitOfWork = (*Unit)(nil)
