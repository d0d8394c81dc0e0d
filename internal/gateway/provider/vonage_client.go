package provider

import (
	"context"
	"fmt"

	"github.com/vonage/vonage-go-sdk"

	"github.com/aradsms/sms_transceiver/internal/core_sms/domain"
)

// VonageMessageSender is the single SDK call the Vonage gateway needs. It
// returns the message id, which may be empty.
type VonageMessageSender interface {
	SendSMS(ctx context.Context, from, to, text string) (string, error)
}

// VonageMessageSenderFunc adapts a function to VonageMessageSender.
type VonageMessageSenderFunc func(ctx context.Context, from, to, text string) (string, error)

func (f VonageMessageSenderFunc) SendSMS(ctx context.Context, from, to, text string) (string, error) {
	return f(ctx, from, to, text)
}

type vonageSMSClient struct {
	sms *vonage.SMSClient
}

// NewVonageClient returns a sender backed by the Vonage SMS API.
func NewVonageClient(apiKey, apiSecret string) (VonageMessageSender, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("%w: Vonage API key and secret are required", domain.ErrInvalidArgument)
	}
	auth := vonage.CreateAuthFromKeySecret(apiKey, apiSecret)
	return &vonageSMSClient{sms: vonage.NewSMSClient(auth)}, nil
}

func (c *vonageSMSClient) SendSMS(ctx context.Context, from, to, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	resp, errResp, err := c.sms.Send(from, to, text, vonage.SMSOpts{})
	if err != nil {
		return "", err
	}
	if len(resp.Messages) == 0 {
		return "", nil
	}
	if status := resp.Messages[0].Status; status != "0" {
		reason := "status " + status
		if len(errResp.Messages) > 0 && errResp.Messages[0].ErrorText != "" {
			reason += ": " + errResp.Messages[0].ErrorText
		}
		return "", fmt.Errorf("vonage rejected message, %s", reason)
	}
	return resp.Messages[0].MessageId, nil
}
