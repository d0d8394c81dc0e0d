package provider

import (
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/aradsms/sms_transceiver/internal/core_sms/domain"
)

// TwilioMessageCreator is the part of the Twilio REST API the gateway uses.
// *openapi.ApiService satisfies it.
type TwilioMessageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// NewTwilioClient returns an authenticated Twilio API client.
func NewTwilioClient(accountSID, authToken string) (TwilioMessageCreator, error) {
	if accountSID == "" || authToken == "" {
		return nil, fmt.Errorf("%w: Twilio Account SID and auth token are required", domain.ErrInvalidArgument)
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return client.Api, nil
}
