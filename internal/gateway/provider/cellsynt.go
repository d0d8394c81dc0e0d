package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/aradsms/sms_transceiver/internal/core_sms/domain"
	"github.com/aradsms/sms_transceiver/internal/gateway"
	"github.com/aradsms/sms_transceiver/internal/platform/charset"
)

const (
	CellsyntSMSEndpoint     = "https://se-1.cellsynt.net/sms.php"
	CellsyntPremiumEndpoint = "https://se-2.cellsynt.net/sendsms.php"
)

// CellsyntConfig holds credentials and, optionally, endpoint overrides.
type CellsyntConfig struct {
	Username        string
	Password        string
	SMSEndpoint     string
	PremiumEndpoint string
}

// CellsyntGateway talks to Cellsynt's SMS and Premium SMS HTTP APIs. Requests
// are GETs with a query string; responses are ISO-8859-1 plain text.
type CellsyntGateway struct {
	logger     *slog.Logger
	httpClient gateway.HTTPClient
	cfg        CellsyntConfig
}

func NewCellsyntGateway(logger *slog.Logger, httpClient gateway.HTTPClient, cfg CellsyntConfig) (*CellsyntGateway, error) {
	if err := gateway.RequireSettings("Cellsynt", gateway.Param{Key: "username", Value: cfg.Username}, gateway.Param{Key: "password", Value: cfg.Password}); err != nil {
		return nil, err
	}
	if httpClient == nil {
		return nil, fmt.Errorf("%w: Cellsynt http client is required", domain.ErrInvalidArgument)
	}
	if cfg.SMSEndpoint == "" {
		cfg.SMSEndpoint = CellsyntSMSEndpoint
	}
	if cfg.PremiumEndpoint == "" {
		cfg.PremiumEndpoint = CellsyntPremiumEndpoint
	}
	return &CellsyntGateway{
		logger:     providerLogger(logger, NameCellsynt),
		httpClient: httpClient,
		cfg:        cfg,
	}, nil
}

func (g *CellsyntGateway) GetName() string {
	return NameCellsynt
}

func (g *CellsyntGateway) SendMessage(ctx context.Context, msg domain.SMS) error {
	target := g.requestTarget(msg)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return domain.NewSendError(NameCellsynt, "building request failed", err)
	}

	g.logger.DebugContext(ctx, "Sending request", "endpoint", req.URL.Host+req.URL.Path)
	_, body, err := gateway.Exchange(g.httpClient, NameCellsynt, req)
	if err != nil {
		return err
	}
	g.logger.DebugContext(ctx, "Received response", "body", string(body))

	trackingID, err := parseCellsyntResponse(body)
	if err != nil {
		return err
	}
	msg.SetID(trackingID)
	return nil
}

func (g *CellsyntGateway) SendMessages(ctx context.Context, msgs []domain.SMS) error {
	// Cellsynt accepts several destinations per request, but texts differ per message.
	return gateway.SendEach(ctx, msgs, g.SendMessage)
}

// requestTarget returns the full GET URL for msg. Premium messages go to the
// premium endpoint and are tied to the incoming session.
func (g *CellsyntGateway) requestTarget(msg domain.SMS) string {
	var params gateway.Params
	params.Add("username", g.cfg.Username)
	params.Add("password", g.cfg.Password)

	if premium, ok := msg.(domain.Premium); ok {
		params.Add("text", premium.Text())
		params.Add("charset", "UTF-8")
		params.Add("price", strconv.Itoa(premium.Price()))
		params.Add("sessionid", premium.IncomingMessageID())
		return g.cfg.PremiumEndpoint + "?" + params.Encode()
	}

	params.Add("destination", "00"+domain.AddressString(msg.To()))
	params.Add("text", msg.Text())
	params.Add("charset", "UTF-8")
	if from := msg.From(); from != nil {
		params.Add("originatortype", originatorType(from))
		params.Add("originator", from.String())
	}
	return g.cfg.SMSEndpoint + "?" + params.Encode()
}

func originatorType(a domain.Address) string {
	switch a.Kind() {
	case domain.KindAlphanumeric:
		return "alpha"
	case domain.KindShortCode:
		return "shortcode"
	default:
		return "numeric"
	}
}

// parseCellsyntResponse reads "OK: <tracking id>" or "Error: <message>".
func parseCellsyntResponse(body []byte) (string, error) {
	content := charset.DecodeLatin1(body)

	if hasPrefixFold(content, "Error") {
		var reason string
		if len(content) > 7 {
			reason = content[7:]
		}
		return "", domain.NewSendError(NameCellsynt, "Send message failed with error: "+strings.TrimSpace(reason), nil)
	}
	if !hasPrefixFold(content, "OK") {
		return "", domain.NewSendError(NameCellsynt, "Send message failed with unknown error format: "+content, nil)
	}

	var trackingID string
	if len(content) > 4 {
		trackingID = strings.TrimSpace(content[4:])
	}
	if trackingID == "" {
		return "", domain.NewSendError(NameCellsynt, "Message sent but missing tracking id in response: "+content, nil)
	}
	return trackingID, nil
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// ReceiveMessage parses an incoming SMS or, when sessionid is present, an
// incoming premium SMS.
//
//	SMS:     destination=46700123456&originator=46700123456&text=ok
//	Premium: country=se&operator=telia&shortcode=72456&sender=0046700123456&text=ABC+test!&sessionid=1:1136364712521:0046700123456
func (g *CellsyntGateway) ReceiveMessage(payload domain.Payload) (*domain.Message, error) {
	if payload.Has("sessionid") {
		return g.receivePremiumMessage(payload)
	}

	if err := payload.Require(NameCellsynt, "receive message", "text", "destination", "originator"); err != nil {
		return nil, err
	}
	msg, err := domain.NewMessageFromStrings(
		payload.Get("destination"),
		charset.DecodeLatin1String(strings.TrimSpace(payload.Get("text"))),
		payload.Get("originator"),
	)
	if err != nil {
		return nil, domain.NewPayloadError(NameCellsynt, err.Error(), payload)
	}

	// Cellsynt has no reference id for ordinary incoming SMS.
	msg.SetID(uuid.NewString())
	return msg, nil
}

func (g *CellsyntGateway) receivePremiumMessage(payload domain.Payload) (*domain.Message, error) {
	if err := payload.Require(NameCellsynt, "receive premium message", "country", "operator", "shortcode", "sender", "text", "sessionid"); err != nil {
		return nil, err
	}
	msg, err := domain.NewMessageFromStrings(
		payload.Get("shortcode"),
		charset.DecodeLatin1String(strings.TrimSpace(payload.Get("text"))),
		strings.TrimLeft(payload.Get("sender"), "0"),
	)
	if err != nil {
		return nil, domain.NewPayloadError(NameCellsynt, err.Error(), payload)
	}

	msg.SetID(payload.Get("sessionid"))
	msg.SetOperator(payload.Get("operator"))
	msg.SetCountryCode(strings.ToUpper(payload.Get("country")))
	return msg, nil
}

// ReceiveDeliveryReport parses trackingid=e1066ca059abb8661ffc059ed842c3cf&status=delivered.
func (g *CellsyntGateway) ReceiveDeliveryReport(payload domain.Payload) (domain.DeliveryReport, error) {
	if err := payload.Require(NameCellsynt, "delivery report", "trackingid", "status"); err != nil {
		return domain.DeliveryReport{}, err
	}
	return domain.NewDeliveryReport(payload.Get("trackingid"), payload.Get("status")), nil
}
