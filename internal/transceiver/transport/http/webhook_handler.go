package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"

	"github.com/aradsms/sms_transceiver/internal/core_sms/domain"
)

// WebhookHandler accepts provider callbacks for inbound SMS and delivery
// reports and hands them to the active gateway for parsing.
type WebhookHandler struct {
	transceiver Transceiver
	logger      *slog.Logger
}

func NewWebhookHandler(transceiver Transceiver, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		transceiver: transceiver,
		logger:      logger.With("handler", "webhook"),
	}
}

func (h *WebhookHandler) RegisterRoutes(r chi.Router) {
	r.Get("/webhooks/sms", h.ReceiveMessage)
	r.Post("/webhooks/sms", h.ReceiveMessage)
	r.Get("/webhooks/dlr", h.ReceiveDeliveryReport)
	r.Post("/webhooks/dlr", h.ReceiveDeliveryReport)
}

func (h *WebhookHandler) ReceiveMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))

	payload, err := payloadFromRequest(w, r)
	if err != nil {
		logger.WarnContext(ctx, "Failed to read inbound SMS callback", "error", err)
		writeError(w, http.StatusBadRequest, "Failed to read request: "+err.Error())
		return
	}

	msg, err := h.transceiver.ReceiveMessage(ctx, payload)
	if err != nil {
		logger.WarnContext(ctx, "Failed to parse inbound SMS callback", "error", err)
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toReceivedMessageResponse(msg))
}

func (h *WebhookHandler) ReceiveDeliveryReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))

	payload, err := payloadFromRequest(w, r)
	if err != nil {
		logger.WarnContext(ctx, "Failed to read DLR callback", "error", err)
		writeError(w, http.StatusBadRequest, "Failed to read request: "+err.Error())
		return
	}

	report, err := h.transceiver.ReceiveDeliveryReport(ctx, payload)
	if err != nil {
		logger.WarnContext(ctx, "Failed to parse DLR callback", "error", err)
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toDeliveryReportResponse(report))
}

// payloadFromRequest turns an XML body into a raw payload, a JSON object
// into a field payload, and anything else (query string, urlencoded or
// multipart form) into a field payload.
func payloadFromRequest(w http.ResponseWriter, r *http.Request) (domain.Payload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case strings.HasSuffix(mediaType, "/xml") || strings.HasSuffix(mediaType, "+xml"):
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return domain.Payload{}, err
		}
		return domain.RawPayload(body), nil
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		return jsonPayload(r.Body)
	}

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return domain.Payload{}, err
		}
	} else if err := r.ParseForm(); err != nil {
		return domain.Payload{}, err
	}
	return domain.ValuesPayload(r.Form), nil
}

// jsonPayload flattens a JSON object into string fields. Numbers keep their
// literal form, nulls are dropped and nested values stay as JSON text.
func jsonPayload(body io.Reader) (domain.Payload, error) {
	decoder := json.NewDecoder(body)
	decoder.UseNumber()

	var object map[string]any
	if err := decoder.Decode(&object); err != nil {
		return domain.Payload{}, fmt.Errorf("decoding JSON body: %w", err)
	}

	fields := make(map[string]string, len(object))
	for key, value := range object {
		switch v := value.(type) {
		case nil:
		case string:
			fields[key] = v
		case json.Number:
			fields[key] = v.String()
		case bool:
			fields[key] = strconv.FormatBool(v)
		default:
			raw, err := json.Marshal(v)
			if err != nil {
				return domain.Payload{}, fmt.Errorf("encoding %q: %w", key, err)
			}
			fields[key] = string(raw)
		}
	}
	return domain.FieldsPayload(fields), nil
}
