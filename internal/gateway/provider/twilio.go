package provider

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/aradsms/sms_transceiver/internal/core_sms/domain"
	"github.com/aradsms/sms_transceiver/internal/gateway"
)

// TwilioGateway sends through the Twilio SDK and parses Twilio webhooks.
type TwilioGateway struct {
	logger *slog.Logger
	client TwilioMessageCreator
}

func NewTwilioGateway(logger *slog.Logger, client TwilioMessageCreator) (*TwilioGateway, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: Twilio client is required", domain.ErrInvalidArgument)
	}
	return &TwilioGateway{
		logger: providerLogger(logger, NameTwilio),
		client: client,
	}, nil
}

func (g *TwilioGateway) GetName() string {
	return NameTwilio
}

func (g *TwilioGateway) SendMessage(ctx context.Context, msg domain.SMS) error {
	if err := ctx.Err(); err != nil {
		return domain.NewSendError(NameTwilio, "request cancelled", err)
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(domain.AddressString(msg.To()))
	if from := msg.From(); from != nil {
		params.SetFrom(from.String())
	}
	params.SetBody(msg.Text())

	g.logger.DebugContext(ctx, "Creating message", "to", domain.AddressString(msg.To()))
	created, err := g.client.CreateMessage(params)
	if err != nil {
		return domain.NewSendError(NameTwilio, err.Error(), err)
	}
	if created == nil || created.Sid == nil || *created.Sid == "" {
		return domain.NewSendError(NameTwilio, "Message sent but missing sid in response", nil)
	}

	msg.SetID(*created.Sid)
	if created.NumSegments != nil {
		if n, err := strconv.Atoi(*created.NumSegments); err == nil {
			msg.SetSegmentCount(n)
		}
	}
	return nil
}

func (g *TwilioGateway) SendMessages(ctx context.Context, msgs []domain.SMS) error {
	return gateway.SendEach(ctx, msgs, g.SendMessage)
}

// ReceiveMessage parses Twilio's incoming message webhook (To, From, Body,
// MessageSid). Numbers arrive in E.164 form; the '+' is dropped.
func (g *TwilioGateway) ReceiveMessage(payload domain.Payload) (*domain.Message, error) {
	if err := payload.Require(NameTwilio, "receive message", "To", "Body", "From", "MessageSid"); err != nil {
		return nil, err
	}
	msg, err := domain.NewMessageFromStrings(
		stripPlus(payload.Get("To")),
		strings.TrimSpace(payload.Get("Body")),
		stripPlus(payload.Get("From")),
	)
	if err != nil {
		return nil, domain.NewPayloadError(NameTwilio, err.Error(), payload)
	}
	msg.SetID(payload.Get("MessageSid"))
	return msg, nil
}

// ReceiveDeliveryReport parses Twilio's status callback.
func (g *TwilioGateway) ReceiveDeliveryReport(payload domain.Payload) (domain.DeliveryReport, error) {
	if err := payload.Require(NameTwilio, "delivery report", "MessageSid", "MessageStatus"); err != nil {
		return domain.DeliveryReport{}, err
	}
	return domain.NewDeliveryReport(payload.Get("MessageSid"), payload.Get("MessageStatus")), nil
}
