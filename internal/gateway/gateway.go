// Package gateway defines the contract every SMS provider adapter satisfies
// and the small amount of plumbing they share.
package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aradsms/sms_transceiver/internal/core_sms/domain"
)

// Gateway sends messages through one SMS provider and parses the provider's
// inbound webhook data.
//
// SendMessage mutates msg in place: on success the provider tracking id is
// set and, where the provider reports it, the segment count. Failures are
// *domain.SendError. Receive failures are *domain.PayloadError, or
// domain.ErrNotImplemented when the provider has no such webhook.
type Gateway interface {
	GetName() string
	SendMessage(ctx context.Context, msg domain.SMS) error
	SendMessages(ctx context.Context, msgs []domain.SMS) error
	ReceiveMessage(payload domain.Payload) (*domain.Message, error)
	ReceiveDeliveryReport(payload domain.Payload) (domain.DeliveryReport, error)
}

// HTTPClient is the transport boundary. *http.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPClientFunc adapts a function to HTTPClient.
type HTTPClientFunc func(req *http.Request) (*http.Response, error)

func (f HTTPClientFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

// SendEach calls send for every message in order and stops at the first
// failure. The returned error names the failing index and wraps the cause.
// A done context stops the batch with a *domain.SendError.
func SendEach(ctx context.Context, msgs []domain.SMS, send func(context.Context, domain.SMS) error) error {
	for i, msg := range msgs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("message %d: %w", i, domain.NewSendError("", "request cancelled", err))
		}
		if err := send(ctx, msg); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
	}
	return nil
}
