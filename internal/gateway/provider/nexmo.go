package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aradsms/sms_transceiver/internal/core_sms/domain"
	"github.com/aradsms/sms_transceiver/internal/gateway"
)

const NexmoEndpoint = "https://rest.nexmo.com/sms/json"

type NexmoConfig struct {
	APIKey    string
	APISecret string
	Endpoint  string
}

// NexmoGateway speaks the legacy Nexmo SMS API directly over HTTP. Inbound
// webhooks share Vonage's format.
type NexmoGateway struct {
	logger     *slog.Logger
	httpClient gateway.HTTPClient
	cfg        NexmoConfig
}

func NewNexmoGateway(logger *slog.Logger, httpClient gateway.HTTPClient, cfg NexmoConfig) (*NexmoGateway, error) {
	if err := gateway.RequireSettings("Nexmo", gateway.Param{Key: "API key", Value: cfg.APIKey}, gateway.Param{Key: "API secret", Value: cfg.APISecret}); err != nil {
		return nil, err
	}
	if httpClient == nil {
		return nil, fmt.Errorf("%w: Nexmo http client is required", domain.ErrInvalidArgument)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = NexmoEndpoint
	}
	return &NexmoGateway{
		logger:     providerLogger(logger, NameNexmo),
		httpClient: httpClient,
		cfg:        cfg,
	}, nil
}

func (g *NexmoGateway) GetName() string {
	return NameNexmo
}

type nexmoSendResponse struct {
	MessageCount string `json:"message-count"`
	Messages     []struct {
		Status    string `json:"status"`
		MessageID string `json:"message-id"`
		ErrorText string `json:"error-text"`
	} `json:"messages"`
}

func (g *NexmoGateway) SendMessage(ctx context.Context, msg domain.SMS) error {
	var params gateway.Params
	params.Add("api_key", g.cfg.APIKey)
	params.Add("api_secret", g.cfg.APISecret)
	params.Add("from", domain.AddressString(msg.From()))
	params.Add("to", domain.AddressString(msg.To()))
	params.Add("text", msg.Text())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.Endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return domain.NewSendError(NameNexmo, "building request failed", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	g.logger.DebugContext(ctx, "Sending request", "endpoint", g.cfg.Endpoint)
	_, body, err := gateway.Exchange(g.httpClient, NameNexmo, req)
	if err != nil {
		return err
	}
	g.logger.DebugContext(ctx, "Received response", "body", string(body))

	var resp nexmoSendResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.NewSendError(NameNexmo, "Could not parse send response: "+string(body), err)
	}
	if len(resp.Messages) == 0 {
		return domain.NewSendError(NameNexmo, "Send message failed with empty response: "+string(body), nil)
	}

	first := resp.Messages[0]
	if first.Status != "0" {
		return domain.NewSendError(NameNexmo, fmt.Sprintf("Send message failed with status %s: %s", first.Status, first.ErrorText), nil)
	}
	if first.MessageID == "" {
		return domain.NewSendError(NameNexmo, "Message sent but missing message-id in response: "+string(body), nil)
	}
	msg.SetID(first.MessageID)
	if parts, err := strconv.Atoi(resp.MessageCount); err == nil && parts > 0 {
		msg.SetSegmentCount(parts)
	}
	return nil
}

func (g *NexmoGateway) SendMessages(ctx context.Context, msgs []domain.SMS) error {
	return gateway.SendEach(ctx, msgs, g.SendMessage)
}

func (g *NexmoGateway) ReceiveMessage(payload domain.Payload) (*domain.Message, error) {
	return receiveVonageMessage(NameNexmo, payload)
}

func (g *NexmoGateway) ReceiveDeliveryReport(payload domain.Payload) (domain.DeliveryReport, error) {
	return receiveVonageDeliveryReport(NameNexmo, payload)
}
