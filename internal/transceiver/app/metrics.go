package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesSentCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sms_transceiver",
			Name:      "messages_sent_total",
			Help:      "Outbound SMS by outcome. success counts each message the gateway accepted, including those sent before a batch failed; error counts each failed send call.",
		},
		[]string{"gateway", "status"}, // status: "success", "error"
	)

	segmentsSentCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sms_transceiver",
			Name:      "segments_sent_total",
			Help:      "Total SMS segments reported by the gateway.",
		},
		[]string{"gateway"},
	)

	sendDurationHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sms_transceiver",
			Name:      "send_duration_seconds",
			Help:      "Duration of gateway send calls.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"gateway"},
	)

	messagesReceivedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sms_transceiver",
			Name:      "messages_received_total",
			Help:      "Total inbound SMS webhooks parsed.",
		},
		[]string{"gateway", "status"},
	)

	deliveryReportsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sms_transceiver",
			Name:      "delivery_reports_received_total",
			Help:      "Total delivery reports parsed, by coarse delivery status.",
		},
		[]string{"gateway", "delivery_status"}, // delivery_status: pending, delivered, undelivered, unknown, invalid
	)
)

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
