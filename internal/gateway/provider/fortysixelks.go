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

const FortySixElksEndpoint = "https://api.46elks.com/a1/SMS"

type FortySixElksConfig struct {
	Username string
	Password string
	Endpoint string
}

// FortySixElksGateway posts form encoded messages to the 46elks REST API.
type FortySixElksGateway struct {
	logger     *slog.Logger
	httpClient gateway.HTTPClient
	cfg        FortySixElksConfig
}

func NewFortySixElksGateway(logger *slog.Logger, httpClient gateway.HTTPClient, cfg FortySixElksConfig) (*FortySixElksGateway, error) {
	if err := gateway.RequireSettings("46elks", gateway.Param{Key: "api username", Value: cfg.Username}, gateway.Param{Key: "api password", Value: cfg.Password}); err != nil {
		return nil, err
	}
	if httpClient == nil {
		return nil, fmt.Errorf("%w: 46elks http client is required", domain.ErrInvalidArgument)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = FortySixElksEndpoint
	}
	return &FortySixElksGateway{
		logger:     providerLogger(logger, NameFortySixElks),
		httpClient: httpClient,
		cfg:        cfg,
	}, nil
}

func (g *FortySixElksGateway) GetName() string {
	return NameFortySixElks
}

var fortySixElksAcceptedStatuses = map[string]bool{
	"created":   true,
	"sent":      true,
	"delivered": true,
}

func (g *FortySixElksGateway) SendMessage(ctx context.Context, msg domain.SMS) error {
	var params gateway.Params
	params.Add("from", domain.AddressString(msg.From()))
	params.Add("to", domain.AddressString(msg.To()))
	params.Add("message", msg.Text())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.Endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return domain.NewSendError(NameFortySixElks, "building request failed", err)
	}
	req.SetBasicAuth(g.cfg.Username, g.cfg.Password)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	g.logger.DebugContext(ctx, "Sending request", "endpoint", g.cfg.Endpoint)
	_, body, err := gateway.Exchange(g.httpClient, NameFortySixElks, req)
	if err != nil {
		return err
	}
	g.logger.DebugContext(ctx, "Received response", "body", string(body))

	return parseFortySixElksResponse(body, msg)
}

func parseFortySixElksResponse(body []byte, msg domain.SMS) error {
	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil || result == nil {
		return domain.NewSendError(NameFortySixElks, "Send message failed with error: "+string(body), nil)
	}

	status, _ := result["status"].(string)
	if !fortySixElksAcceptedStatuses[status] {
		return domain.NewSendError(NameFortySixElks, "Send message failed with missing status value: "+string(body), nil)
	}

	id, _ := result["id"].(string)
	if id == "" {
		return domain.NewSendError(NameFortySixElks, "Message sent but missing id in response: "+string(body), nil)
	}

	msg.SetID(id)
	if parts, ok := segmentCount(result["parts"]); ok {
		msg.SetSegmentCount(parts)
	}
	return nil
}

func segmentCount(v any) (int, bool) {
	switch parts := v.(type) {
	case float64:
		return int(parts), true
	case string:
		n, err := strconv.Atoi(parts)
		return n, err == nil
	default:
		return 0, false
	}
}

func (g *FortySixElksGateway) SendMessages(ctx context.Context, msgs []domain.SMS) error {
	return gateway.SendEach(ctx, msgs, g.SendMessage)
}

// ReceiveMessage parses the id, from, to and message fields 46elks posts for
// incoming SMS. Numbers arrive in E.164 form; the '+' is dropped.
func (g *FortySixElksGateway) ReceiveMessage(payload domain.Payload) (*domain.Message, error) {
	if err := payload.Require(NameFortySixElks, "receive message", "id", "from", "to", "message"); err != nil {
		return nil, err
	}
	msg, err := domain.NewMessageFromStrings(stripPlus(payload.Get("to")), payload.Get("message"), stripPlus(payload.Get("from")))
	if err != nil {
		return nil, domain.NewPayloadError(NameFortySixElks, err.Error(), payload)
	}
	msg.SetID(payload.Get("id"))
	return msg, nil
}

func (g *FortySixElksGateway) ReceiveDeliveryReport(payload domain.Payload) (domain.DeliveryReport, error) {
	if err := payload.Require(NameFortySixElks, "delivery report", "id", "status"); err != nil {
		return domain.DeliveryReport{}, err
	}
	return domain.NewDeliveryReport(payload.Get("id"), payload.Get("status")), nil
}
