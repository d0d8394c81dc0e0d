package domain

import "strings"

// DeliveryStatus is a coarse classification of the provider specific status
// carried by a DeliveryReport. The report itself keeps the verbatim value.
type DeliveryStatus string

const (
	DeliveryStatusPending     DeliveryStatus = "pending"
	DeliveryStatusDelivered   DeliveryStatus = "delivered"
	DeliveryStatusUndelivered DeliveryStatus = "undelivered"
	DeliveryStatusUnknown     DeliveryStatus = "unknown"
)

var deliveryStatusAliases = map[string]DeliveryStatus{
	// 46elks, Twilio
	"created":   DeliveryStatusPending,
	"queued":    DeliveryStatusPending,
	"accepted":  DeliveryStatusPending,
	"sending":   DeliveryStatusPending,
	"sent":      DeliveryStatusPending,
	"buffered":  DeliveryStatusPending,
	"delivered": DeliveryStatusDelivered,
	"read":      DeliveryStatusDelivered,
	"failed":    DeliveryStatusUndelivered,

	"undelivered": DeliveryStatusUndelivered,
	"expired":     DeliveryStatusUndelivered,
	"rejected":    DeliveryStatusUndelivered,

	// Cellsynt
	"acked": DeliveryStatusPending,

	// Telenor SMS Pro
	"sms sent":      DeliveryStatusPending,
	"sms delivered": DeliveryStatusDelivered,
	"sms failed":    DeliveryStatusUndelivered,
}

// ClassifyDeliveryStatus maps a raw provider status onto a DeliveryStatus.
// Matching is case-insensitive; anything unrecognised is DeliveryStatusUnknown.
func ClassifyDeliveryStatus(status string) DeliveryStatus {
	if s, ok := deliveryStatusAliases[strings.ToLower(strings.TrimSpace(status))]; ok {
		return s
	}
	return DeliveryStatusUnknown
}

// Classification returns the coarse status of the report.
func (r DeliveryReport) Classification() DeliveryStatus {
	return ClassifyDeliveryStatus(r.status)
}
