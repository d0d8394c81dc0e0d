package provider

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/aradsms/sms_transceiver/internal/core_sms/domain"
	"github.com/aradsms/sms_transceiver/internal/gateway"
	latin1 "github.com/aradsms/sms_transceiver/internal/platform/charset"
)

const (
	TelenorBaseURL = "https://sms-pro.net:44343/services"

	telenorXMLHeader = `<?xml version="1.0" encoding="ISO-8859-1"?>` + "\n"
)

type TelenorConfig struct {
	Username         string
	Password         string
	CustomerID       string
	CustomerPassword string
	// SupplementaryInformation is sent as sub_id_1 when not empty.
	SupplementaryInformation string
	// StatusDeliveryURL asks Telenor to post delivery reports there.
	StatusDeliveryURL string
	BaseURL           string
}

// TelenorGateway posts ISO-8859-1 XML documents to Telenor SMS Pro.
// Incoming messages are not supported.
type TelenorGateway struct {
	logger     *slog.Logger
	httpClient gateway.HTTPClient
	cfg        TelenorConfig
	endpoint   string
}

func NewTelenorGateway(logger *slog.Logger, httpClient gateway.HTTPClient, cfg TelenorConfig) (*TelenorGateway, error) {
	err := gateway.RequireSettings("Sms Pro",
		gateway.Param{Key: "username", Value: cfg.Username},
		gateway.Param{Key: "password", Value: cfg.Password},
		gateway.Param{Key: "customer id", Value: cfg.CustomerID},
		gateway.Param{Key: "customer password", Value: cfg.CustomerPassword},
	)
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		return nil, fmt.Errorf("%w: Sms Pro http client is required", domain.ErrInvalidArgument)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = TelenorBaseURL
	}
	return &TelenorGateway{
		logger:     providerLogger(logger, NameTelenor),
		httpClient: httpClient,
		cfg:        cfg,
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + "/" + url.PathEscape(cfg.CustomerID) + "/sendsms",
	}, nil
}

func (g *TelenorGateway) GetName() string {
	return NameTelenor
}

type telenorSMSRequest struct {
	XMLName xml.Name       `xml:"mobilectrl_sms"`
	Header  telenorHeader  `xml:"header"`
	Payload telenorPayload `xml:"payload"`
}

type telenorHeader struct {
	CustomerID        string `xml:"customer_id"`
	Password          string `xml:"password"`
	RequestID         string `xml:"request_id,omitempty"`
	FromMSISDN        string `xml:"from_msisdn,omitempty"`
	FromAlphanumeric  string `xml:"from_alphanumeric,omitempty"`
	SubID1            string `xml:"sub_id_1,omitempty"`
	StatusDeliveryURL string `xml:"status_delivery_url,omitempty"`
}

type telenorPayload struct {
	SMS telenorSMS `xml:"sms"`
}

type telenorSMS struct {
	Message  telenorText `xml:"message"`
	ToMSISDN string      `xml:"to_msisdn"`
}

type telenorText struct {
	Text string `xml:",cdata"`
}

type telenorSendResponse struct {
	MobilectrlID string  `xml:"mobilectrl_id"`
	Status       *string `xml:"status"`
	Message      string  `xml:"message"`
}

type telenorDeliveryStatus struct {
	MobilectrlID string `xml:"mobilectrl_id"`
	Message      string `xml:"message"`
}

func (g *TelenorGateway) SendMessage(ctx context.Context, msg domain.SMS) error {
	body, err := g.buildSendBody(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.NewSendError(NameTelenor, "building request failed", err)
	}
	req.SetBasicAuth(g.cfg.Username, g.cfg.Password)
	req.Header.Set("Content-Type", "text/xml; charset=ISO-8859-1")

	g.logger.DebugContext(ctx, "Sending request", "endpoint", g.endpoint)
	_, respBody, err := gateway.Exchange(g.httpClient, NameTelenor, req)
	if err != nil {
		return err
	}
	g.logger.DebugContext(ctx, "Received response", "body", latin1.DecodeLatin1(respBody))

	trackingID, err := parseTelenorSendResponse(respBody)
	if err != nil {
		return err
	}
	msg.SetID(trackingID)
	return nil
}

// buildSendBody renders the mobilectrl_sms document in ISO-8859-1. Runes
// outside Latin-1 are replaced.
func (g *TelenorGateway) buildSendBody(msg domain.SMS) ([]byte, error) {
	doc := telenorSMSRequest{
		Header: telenorHeader{
			CustomerID:        g.cfg.CustomerID,
			Password:          g.cfg.CustomerPassword,
			RequestID:         msg.ID(),
			SubID1:            g.cfg.SupplementaryInformation,
			StatusDeliveryURL: g.cfg.StatusDeliveryURL,
		},
		Payload: telenorPayload{SMS: telenorSMS{
			Message:  telenorText{Text: msg.Text()},
			ToMSISDN: "+" + domain.AddressString(msg.To()),
		}},
	}

	if from := msg.From(); from != nil {
		switch from.Kind() {
		case domain.KindPhoneNumber:
			doc.Header.FromMSISDN = "+" + from.String()
		case domain.KindAlphanumeric:
			doc.Header.FromAlphanumeric = from.String()
		default:
			return nil, domain.NewSendError(NameTelenor, fmt.Sprintf("Unsupported message from address type %q", from.Kind()), nil)
		}
	}

	out, err := xml.Marshal(doc)
	if err != nil {
		return nil, domain.NewSendError(NameTelenor, "encoding request XML failed", err)
	}
	return latin1.EncodeLatin1(telenorXMLHeader + string(out) + "\n"), nil
}

func decodeTelenorXML(data []byte, v any) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel
	return decoder.Decode(v)
}

func parseTelenorSendResponse(body []byte) (string, error) {
	var resp telenorSendResponse
	if err := decodeTelenorXML(body, &resp); err != nil {
		return "", domain.NewSendError(NameTelenor, "Could not parse send XML response: "+latin1.DecodeLatin1(body), err)
	}
	if resp.Status == nil {
		return "", domain.NewSendError(NameTelenor, "Send message failed with error: "+resp.Message, nil)
	}
	if status, err := strconv.Atoi(strings.TrimSpace(*resp.Status)); err != nil || status != 0 {
		return "", domain.NewSendError(NameTelenor, "Send message failed with error: "+resp.Message, nil)
	}

	trackingID := strings.TrimSpace(resp.MobilectrlID)
	if trackingID == "" {
		return "", domain.NewSendError(NameTelenor, "Message sent but missing mobilectrl_id in response: "+latin1.DecodeLatin1(body), nil)
	}
	return trackingID, nil
}

func (g *TelenorGateway) SendMessages(ctx context.Context, msgs []domain.SMS) error {
	return gateway.SendEach(ctx, msgs, g.SendMessage)
}

// ReceiveMessage is not supported: SMS Pro defines no incoming message format.
func (g *TelenorGateway) ReceiveMessage(domain.Payload) (*domain.Message, error) {
	return nil, fmt.Errorf("%s: receive message: %w", NameTelenor, domain.ErrNotImplemented)
}

// ReceiveDeliveryReport parses a mobilectrl_delivery_status document, passed
// either raw or under the "xml" field.
func (g *TelenorGateway) ReceiveDeliveryReport(payload domain.Payload) (domain.DeliveryReport, error) {
	data := payload.Raw
	if len(data) == 0 {
		data = []byte(payload.Get("xml"))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.DeliveryReport{}, domain.NewPayloadError(NameTelenor, "empty delivery report XML", payload)
	}

	var status telenorDeliveryStatus
	if err := decodeTelenorXML(data, &status); err != nil {
		return domain.DeliveryReport{}, domain.NewPayloadError(NameTelenor, "could not parse delivery report XML: "+err.Error(), payload)
	}

	id := strings.TrimSpace(status.MobilectrlID)
	message := strings.TrimSpace(status.Message)
	if id == "" || message == "" {
		return domain.DeliveryReport{}, domain.NewPayloadError(NameTelenor, "invalid delivery report data", payload)
	}
	return domain.NewDeliveryReport(id, message), nil
}
