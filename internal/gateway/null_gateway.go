package gateway

import (
	"context"
	"io"
	"log/slog"

	"github.com/aradsms/sms_transceiver/internal/core_sms/domain"
)

const (
	NullTrackingID = "Null gateway tracking id"
	NullStatus     = "Null gateway status"
	NullText       = "Null gateway text"
	NullTo         = "46700112233"
	NullFrom       = "46700123456"
)

// NullGateway is a black hole for development and testing. Nothing leaves
// the process.
type NullGateway struct {
	logger *slog.Logger
}

// NewNullGateway returns a NullGateway. logger may be nil.
func NewNullGateway(logger *slog.Logger) *NullGateway {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &NullGateway{logger: logger.With("provider", "null")}
}

func (g *NullGateway) GetName() string {
	return "null"
}

func (g *NullGateway) SendMessage(ctx context.Context, msg domain.SMS) error {
	msg.SetID(NullTrackingID)
	g.logger.DebugContext(ctx, "Message swallowed", "to", domain.AddressString(msg.To()))
	return nil
}

func (g *NullGateway) SendMessages(ctx context.Context, msgs []domain.SMS) error {
	return SendEach(ctx, msgs, g.SendMessage)
}

// ReceiveMessage builds a message from destination, text and originator,
// filling in fixed values for keys that are absent.
func (g *NullGateway) ReceiveMessage(payload domain.Payload) (*domain.Message, error) {
	return domain.NewMessageFromStrings(
		fieldOr(payload, "destination", NullTo),
		fieldOr(payload, "text", NullText),
		fieldOr(payload, "originator", NullFrom),
	)
}

func (g *NullGateway) ReceiveDeliveryReport(payload domain.Payload) (domain.DeliveryReport, error) {
	return domain.NewDeliveryReport(
		fieldOr(payload, "trackingid", NullTrackingID),
		fieldOr(payload, "status", NullStatus),
	), nil
}

func fieldOr(payload domain.Payload, key, fallback string) string {
	if payload.Has(key) {
		return payload.Get(key)
	}
	return fallback
}
