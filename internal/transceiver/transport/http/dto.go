package http

import "github.com/aradsms/sms_transceiver/internal/core_sms/domain"

// SendMessageRequest is the body of POST /messages. From is optional; the
// transceiver default applies when it is empty.
type SendMessageRequest struct {
	To   string `json:"to" validate:"required,max=32"`
	Text string `json:"text" validate:"required"`
	From string `json:"from,omitempty" validate:"omitempty,max=32"`
}

// SendMessagesRequest is the body of POST /messages/batch.
type SendMessagesRequest struct {
	Messages []SendMessageRequest `json:"messages" validate:"required,min=1,max=100,dive"`
}

// SendPremiumMessageRequest is the body of POST /messages/premium.
type SendPremiumMessageRequest struct {
	To                string `json:"to" validate:"required,max=32"`
	Text              string `json:"text" validate:"required"`
	Price             int    `json:"price" validate:"min=0"`
	IncomingMessageID string `json:"incoming_message_id" validate:"required"`
	From              string `json:"from" validate:"required,max=32"`
}

type SentMessageResponse struct {
	ID           string `json:"id"`
	To           string `json:"to"`
	From         string `json:"from,omitempty"`
	SegmentCount int    `json:"segment_count,omitempty"`
}

type SendMessagesResponse struct {
	Messages []SentMessageResponse `json:"messages"`
}

type ReceivedMessageResponse struct {
	ID          string `json:"id,omitempty"`
	To          string `json:"to"`
	From        string `json:"from,omitempty"`
	Text        string `json:"text"`
	Operator    string `json:"operator,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
}

type DeliveryReportResponse struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	Classification string `json:"classification"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func toSentMessageResponse(msg domain.SMS) SentMessageResponse {
	return SentMessageResponse{
		ID:           msg.ID(),
		To:           domain.AddressString(msg.To()),
		From:         domain.AddressString(msg.From()),
		SegmentCount: msg.SegmentCount(),
	}
}

func toReceivedMessageResponse(msg *domain.Message) ReceivedMessageResponse {
	return ReceivedMessageResponse{
		ID:          msg.ID(),
		To:          domain.AddressString(msg.To()),
		From:        domain.AddressString(msg.From()),
		Text:        msg.Text(),
		Operator:    msg.Operator(),
		CountryCode: msg.CountryCode(),
	}
}

func toDeliveryReportResponse(report domain.DeliveryReport) DeliveryReportResponse {
	return DeliveryReportResponse{
		ID:             report.ID(),
		Status:         report.Status(),
		Classification: string(report.Classification()),
	}
}
