package provider

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aradsms/sms_transceiver/internal/core_sms/domain"
	"github.com/aradsms/sms_transceiver/internal/gateway"
)

// VonageGateway sends through the Vonage SDK. Unlike the other gateways a
// successful send without a message id is not an error; the message simply
// keeps no id.
type VonageGateway struct {
	logger *slog.Logger
	client VonageMessageSender
}

func NewVonageGateway(logger *slog.Logger, client VonageMessageSender) (*VonageGateway, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: Vonage client is required", domain.ErrInvalidArgument)
	}
	return &VonageGateway{
		logger: providerLogger(logger, NameVonage),
		client: client,
	}, nil
}

func (g *VonageGateway) GetName() string {
	return NameVonage
}

func (g *VonageGateway) SendMessage(ctx context.Context, msg domain.SMS) error {
	g.logger.DebugContext(ctx, "Sending message", "to", domain.AddressString(msg.To()))
	id, err := g.client.SendSMS(ctx, domain.AddressString(msg.From()), domain.AddressString(msg.To()), msg.Text())
	if err != nil {
		return domain.NewSendError(NameVonage, err.Error(), err)
	}
	if id != "" {
		msg.SetID(id)
	}
	return nil
}

func (g *VonageGateway) SendMessages(ctx context.Context, msgs []domain.SMS) error {
	return gateway.SendEach(ctx, msgs, g.SendMessage)
}

func (g *VonageGateway) ReceiveMessage(payload domain.Payload) (*domain.Message, error) {
	return receiveVonageMessage(NameVonage, payload)
}

func (g *VonageGateway) ReceiveDeliveryReport(payload domain.Payload) (domain.DeliveryReport, error) {
	return receiveVonageDeliveryReport(NameVonage, payload)
}

// receiveVonageMessage parses the inbound webhook shared by Vonage and the
// legacy Nexmo API: to, text, msisdn (the sender) and messageId.
func receiveVonageMessage(provider string, payload domain.Payload) (*domain.Message, error) {
	if err := payload.Require(provider, "receive message", "text", "to", "msisdn", "messageId"); err != nil {
		return nil, err
	}
	msg, err := domain.NewMessageFromStrings(payload.Get("to"), strings.TrimSpace(payload.Get("text")), payload.Get("msisdn"))
	if err != nil {
		return nil, domain.NewPayloadError(provider, err.Error(), payload)
	}
	msg.SetID(payload.Get("messageId"))
	return msg, nil
}

func receiveVonageDeliveryReport(provider string, payload domain.Payload) (domain.DeliveryReport, error) {
	if err := payload.Require(provider, "delivery report", "messageId", "status"); err != nil {
		return domain.DeliveryReport{}, err
	}
	return domain.NewDeliveryReport(payload.Get("messageId"), payload.Get("status")), nil
}
