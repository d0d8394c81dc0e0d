package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/aradsms/sms_transceiver/internal/core_sms/domain"
)

const maxBodyBytes = 1 << 20

// Transceiver is the part of app.Transceiver the handlers use.
type Transceiver interface {
	SendMessage(ctx context.Context, msg domain.SMS) error
	SendMessages(ctx context.Context, msgs []domain.SMS) error
	ReceiveMessage(ctx context.Context, payload domain.Payload) (*domain.Message, error)
	ReceiveDeliveryReport(ctx context.Context, payload domain.Payload) (domain.DeliveryReport, error)
}

type MessageHandler struct {
	transceiver Transceiver
	logger      *slog.Logger
	validate    *validator.Validate
}

func NewMessageHandler(transceiver Transceiver, logger *slog.Logger, validate *validator.Validate) *MessageHandler {
	return &MessageHandler{
		transceiver: transceiver,
		logger:      logger.With("handler", "message"),
		validate:    validate,
	}
}

// RegisterRoutes mounts the send endpoints. Callers wrap r in AuthMiddleware.
func (h *MessageHandler) RegisterRoutes(r chi.Router) {
	r.Post("/messages", h.SendMessage)
	r.Post("/messages/batch", h.SendMessages)
	r.Post("/messages/premium", h.SendPremiumMessage)
}

// SendMessage handles POST /messages.
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(ctx)

	var req SendMessageRequest
	if !h.decode(w, r, logger, &req) {
		return
	}

	msg, err := domain.NewMessageFromStrings(req.To, req.Text, req.From)
	if err != nil {
		logger.WarnContext(ctx, "Rejected message", "error", err)
		writeError(w, statusForError(err), err.Error())
		return
	}

	if err := h.transceiver.SendMessage(ctx, msg); err != nil {
		logger.ErrorContext(ctx, "Failed to send message", "error", err, "to", req.To)
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toSentMessageResponse(msg))
}

// SendMessages handles POST /messages/batch. Messages are sent in order and
// the batch stops at the first failure.
func (h *MessageHandler) SendMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(ctx)

	var req SendMessagesRequest
	if !h.decode(w, r, logger, &req) {
		return
	}

	msgs := make([]domain.SMS, 0, len(req.Messages))
	for i, m := range req.Messages {
		msg, err := domain.NewMessageFromStrings(m.To, m.Text, m.From)
		if err != nil {
			logger.WarnContext(ctx, "Rejected message in batch", "index", i, "error", err)
			writeError(w, statusForError(err), err.Error())
			return
		}
		msgs = append(msgs, msg)
	}

	if err := h.transceiver.SendMessages(ctx, msgs); err != nil {
		logger.ErrorContext(ctx, "Failed to send message batch", "error", err, "count", len(msgs))
		writeError(w, statusForError(err), err.Error())
		return
	}

	resp := SendMessagesResponse{Messages: make([]SentMessageResponse, 0, len(msgs))}
	for _, msg := range msgs {
		resp.Messages = append(resp.Messages, toSentMessageResponse(msg))
	}
	writeJSON(w, http.StatusOK, resp)
}

// SendPremiumMessage handles POST /messages/premium.
func (h *MessageHandler) SendPremiumMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(ctx)

	var req SendPremiumMessageRequest
	if !h.decode(w, r, logger, &req) {
		return
	}

	msg, err := domain.NewPremiumMessageFromStrings(req.To, req.Text, req.Price, req.IncomingMessageID, req.From)
	if err != nil {
		logger.WarnContext(ctx, "Rejected premium message", "error", err)
		writeError(w, statusForError(err), err.Error())
		return
	}

	if err := h.transceiver.SendMessage(ctx, msg); err != nil {
		logger.ErrorContext(ctx, "Failed to send premium message", "error", err, "to", req.To, "incoming_message_id", req.IncomingMessageID)
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toSentMessageResponse(msg))
}

func (h *MessageHandler) requestLogger(ctx context.Context) *slog.Logger {
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))
	if client, ok := APIClientFromContext(ctx); ok && client != "" {
		logger = logger.With("api_client", client)
	}
	return logger
}

// decode reads and validates a JSON body into dst, writing a 400 and
// returning false on failure.
func (h *MessageHandler) decode(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst any) bool {
	ctx := r.Context()
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		logger.WarnContext(ctx, "Failed to decode request JSON", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid JSON format: "+err.Error())
		return false
	}
	if err := h.validate.StructCtx(ctx, dst); err != nil {
		logger.WarnContext(ctx, "Failed to validate request", "error", err)
		writeError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return false
	}
	return true
}
