package provider

import (
	"fmt"
	"log/slog"

	"github.com/aradsms/sms_transceiver/internal/core_sms/domain"
	"github.com/aradsms/sms_transceiver/internal/gateway"
	"github.com/aradsms/sms_transceiver/internal/platform/config"
)

// New builds the gateway named by cfg.Gateway. httpClient is used by the
// gateways that speak HTTP themselves; the SDK backed ones bring their own.
func New(cfg *config.Config, logger *slog.Logger, httpClient gateway.HTTPClient) (gateway.Gateway, error) {
	switch cfg.Gateway {
	case config.GatewayNull, "":
		return gateway.NewNullGateway(logger), nil

	case config.GatewayCellsynt:
		return asGateway(NewCellsyntGateway(logger, httpClient, CellsyntConfig{
			Username:        cfg.Cellsynt.Username,
			Password:        cfg.Cellsynt.Password,
			SMSEndpoint:     cfg.Cellsynt.SMSURL,
			PremiumEndpoint: cfg.Cellsynt.PremiumURL,
		}))

	case config.GatewayFortySixElks:
		return asGateway(NewFortySixElksGateway(logger, httpClient, FortySixElksConfig{
			Username: cfg.FortySixElks.Username,
			Password: cfg.FortySixElks.Password,
			Endpoint: cfg.FortySixElks.URL,
		}))

	case config.GatewayTwilio:
		client, err := NewTwilioClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken)
		if err != nil {
			return nil, err
		}
		return asGateway(NewTwilioGateway(logger, client))

	case config.GatewayVonage:
		client, err := NewVonageClient(cfg.Vonage.APIKey, cfg.Vonage.APISecret)
		if err != nil {
			return nil, err
		}
		return asGateway(NewVonageGateway(logger, client))

	case config.GatewayNexmo:
		return asGateway(NewNexmoGateway(logger, httpClient, NexmoConfig{
			APIKey:    cfg.Nexmo.APIKey,
			APISecret: cfg.Nexmo.APISecret,
			Endpoint:  cfg.Nexmo.URL,
		}))

	case config.GatewayTelenor:
		return asGateway(NewTelenorGateway(logger, httpClient, TelenorConfig{
			Username:                 cfg.Telenor.Username,
			Password:                 cfg.Telenor.Password,
			CustomerID:               cfg.Telenor.CustomerID,
			CustomerPassword:         cfg.Telenor.CustomerPassword,
			SupplementaryInformation: cfg.Telenor.SupplementaryInformation,
			StatusDeliveryURL:        cfg.Telenor.StatusDeliveryURL,
			BaseURL:                  cfg.Telenor.BaseURL,
		}))

	default:
		return nil, fmt.Errorf("%w: unknown gateway %q", domain.ErrInvalidArgument, cfg.Gateway)
	}
}

// asGateway keeps a failed constructor from yielding a non-nil interface
// around a nil pointer.
func asGateway(gw gateway.Gateway, err error) (gateway.Gateway, error) {
	if err != nil {
		return nil, err
	}
	return gw, nil
}
