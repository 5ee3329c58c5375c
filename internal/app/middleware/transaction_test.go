package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/commands"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/uow"
	domainbooking "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/booking"
	domainpricing "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/pricing"
	domainuser "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/user"
	domainvilla "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/villa"
)

type sessionKey struct{}

// sessionUnit mimics a backend whose unit carries a storage session that must
// travel in the context, like the Mongo unit does.
type sessionUnit struct {
	injected   bool
	committed  bool
	rolledBack bool
}

func (u *sessionUnit) Villas() domainvilla.Repository     { return nil }
func (u *sessionUnit) Bookings() domainbooking.Repository { return nil }
func (u *sessionUnit) Users() domainuser.Repository       { return nil }
func (u *sessionUnit) Pricing() domainpricing.Calculator  { return nil }

func (u *sessionUnit) Commit(context.Context) error {
	u.committed = true
	return nil
}

func (u *sessionUnit) Rollback(context.Context) error {
	u.rolledBack = true
	return nil
}

func (u *sessionUnit) InjectContext(ctx context.Context) context.Context {
	u.injected = true
	return context.WithValue(ctx, sessionKey{}, u)
}

type unitFactory struct {
	unit uow.UnitOfWork
}

func (f unitFactory) Begin(context.Context, uow.TxOptions) (uow.UnitOfWork, error) {
	return f.unit, nil
}

type txCommand struct{}

func (txCommand) Key() string { return "test.tx" }

type txHandler struct {
	sawSession bool
	sawUnit    bool
	fail       error
}

func (h *txHandler) Handle(ctx context.Context, _ txCommand) (string, error) {
	h.sawSession = ctx.Value(sessionKey{}) != nil
	_, h.sawUnit = uow.FromContext(ctx)
	return "ok", h.fail
}

func newTxBus(unit uow.UnitOfWork, handler *txHandler) commands.Bus {
	base := commands.NewInMemoryBus()
	commands.Register[txCommand, string](base, "test.tx", handler)
	return ChainCommands(base, Transaction(unitFactory{unit: unit}))
}

func TestTransactionInjectsSession(t *testing.T) {
	unit := &sessionUnit{}
	handler := &txHandler{}

	_, err := commands.Dispatch[txCommand, string](context.Background(), newTxBus(unit, handler), txCommand{})
	require.NoError(t, err)

	assert.True(t, unit.injected, "session must be injected before the handler runs")
	assert.True(t, handler.sawSession, "handler context must carry the storage session")
	assert.True(t, handler.sawUnit)
	assert.True(t, unit.committed)
	assert.False(t, unit.rolledBack)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	unit := &sessionUnit{}
	handler := &txHandler{fail: errors.New("boom")}

	_, err := commands.Dispatch[txCommand, string](context.Background(), newTxBus(unit, handler), txCommand{})
	require.Error(t, err)

	assert.False(t, unit.committed)
	assert.True(t, unit.rolledBack)
}

func TestTransactionUnitWithoutSession(t *testing.T) {
	unit := &sessionUnit{}
	handler := &txHandler{}

	// Wrapping the unit in a bare interface struct hides InjectContext,
	// matching the surface the memory unit exposes.
	bare := struct{ uow.UnitOfWork }{UnitOfWork: unit}

	_, err := commands.Dispatch[txCommand, string](context.Background(), newTxBus(bare, handler), txCommand{})
	require.NoError(t, err)

	assert.False(t, unit.injected)
	assert.False(t, handler.sawSession)
	assert.True(t, handler.sawUnit, "unit still reaches the handler without a session")
	assert.True(t, unit.committed)
}
