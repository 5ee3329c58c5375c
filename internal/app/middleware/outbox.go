package middleware

import (
	"context"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/commands"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/outbox"
)

// OutboxFlush hands staged event records to the durable store once the
// command has succeeded.
func OutboxFlush(box outbox.Outbox) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := nextFn(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := box.Flush(ctx); err != nil {
				return nil, err
			}
			return res, nil
		})
	}
}
