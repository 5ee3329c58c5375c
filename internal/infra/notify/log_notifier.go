package notify

import (
	"context"
	"log/slog"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/policies"
)

// LogNotifier stands in for the mail pipeline: it records what would have
// been sent. Real dispatch happens in a separate service consuming booking
// events off the broker.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) BookingConfirmed(_ context.Context, email, bookingID string) error {
	n.log().Info("notify booking confirmed", "email", email, "booking_id", bookingID)
	return nil
}

func (n LogNotifier) BookingCancelled(_ context.Context, email, bookingID string) error {
	n.log().Info("notify booking cancelled", "email", email, "booking_id", bookingID)
	return nil
}

func (n LogNotifier) log() *slog.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return slog.Default()
}

var _ policies.NotifierPort = LogNotifier{}
