package app

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aradsms/sms_transceiver/internal/core_sms/domain"
	"github.com/aradsms/sms_transceiver/internal/gateway"
)

// Transceiver is the entry point for sending and receiving SMS. It wraps one
// gateway, fills in a default originator and logs every successful
// operation. Errors from the gateway are returned unchanged.
//
// A Transceiver is safe for concurrent use if its gateway is.
type Transceiver struct {
	gateway gateway.Gateway
	logger  *slog.Logger

	mu          sync.RWMutex
	defaultFrom domain.Address
}

// NewTransceiver returns a Transceiver for gw. logger may be nil, which turns
// logging off and changes nothing else.
func NewTransceiver(gw gateway.Gateway, logger *slog.Logger) *Transceiver {
	t := &Transceiver{gateway: gw}
	if logger != nil {
		t.logger = logger.With("service", "sms_transceiver", "gateway", gw.GetName())
	}
	return t
}

func (t *Transceiver) Gateway() gateway.Gateway {
	return t.gateway
}

func (t *Transceiver) DefaultFrom() domain.Address {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.defaultFrom
}

// SetDefaultFrom sets the originator used for messages without one. nil
// clears it.
func (t *Transceiver) SetDefaultFrom(from domain.Address) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.defaultFrom = from
}

// SetDefaultFromString parses raw with domain.NewAddressAllowingAlphanumeric
// and sets it as the default originator.
func (t *Transceiver) SetDefaultFromString(raw string) error {
	from, err := domain.NewAddressAllowingAlphanumeric(raw)
	if err != nil {
		return err
	}
	t.SetDefaultFrom(from)
	return nil
}

func (t *Transceiver) SendMessage(ctx context.Context, msg domain.SMS) error {
	t.applyDefaultFrom(msg)

	before := msg.ID()
	start := time.Now()
	err := t.gateway.SendMessage(ctx, msg)
	t.observeSend(start, err, []domain.SMS{msg}, []string{before})
	if err != nil {
		return err
	}

	t.log(ctx, "SMS sent", msg.LogContext())
	return nil
}

// SendMessages sends msgs in order through the gateway, which stops at the
// first failure. Nothing is logged for a batch that failed.
func (t *Transceiver) SendMessages(ctx context.Context, msgs []domain.SMS) error {
	before := make([]string, len(msgs))
	for i, msg := range msgs {
		t.applyDefaultFrom(msg)
		before[i] = msg.ID()
	}

	start := time.Now()
	err := t.gateway.SendMessages(ctx, msgs)
	t.observeSend(start, err, msgs, before)
	if err != nil {
		return err
	}

	for _, msg := range msgs {
		t.log(ctx, "SMS sent", msg.LogContext())
	}
	return nil
}

func (t *Transceiver) ReceiveMessage(ctx context.Context, payload domain.Payload) (*domain.Message, error) {
	msg, err := t.gateway.ReceiveMessage(payload)
	messagesReceivedCounter.WithLabelValues(t.gateway.GetName(), statusLabel(err)).Inc()
	if err != nil {
		return nil, err
	}

	t.log(ctx, "SMS received", msg.LogContext())
	return msg, nil
}

func (t *Transceiver) ReceiveDeliveryReport(ctx context.Context, payload domain.Payload) (domain.DeliveryReport, error) {
	report, err := t.gateway.ReceiveDeliveryReport(payload)
	if err != nil {
		deliveryReportsCounter.WithLabelValues(t.gateway.GetName(), "invalid").Inc()
		return domain.DeliveryReport{}, err
	}
	deliveryReportsCounter.WithLabelValues(t.gateway.GetName(), string(report.Classification())).Inc()

	t.log(ctx, "SMS delivery report received", report.LogContext())
	return report, nil
}

func (t *Transceiver) applyDefaultFrom(msg domain.SMS) {
	if msg.From() != nil {
		return
	}
	if from := t.DefaultFrom(); from != nil {
		msg.SetFrom(from)
	}
}

// observeSend records one send call. A message counts as sent when the
// gateway gave it a new tracking id, so the messages a failed batch got
// through before the failure are counted as successes.
func (t *Transceiver) observeSend(start time.Time, err error, msgs []domain.SMS, idsBefore []string) {
	name := t.gateway.GetName()
	sendDurationHist.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		messagesSentCounter.WithLabelValues(name, "error").Inc()
	}
	for i, msg := range msgs {
		if err != nil && (msg.ID() == "" || msg.ID() == idsBefore[i]) {
			continue
		}
		messagesSentCounter.WithLabelValues(name, "success").Inc()
		if n := msg.SegmentCount(); n > 0 {
			segmentsSentCounter.WithLabelValues(name).Add(float64(n))
		}
	}
}

func (t *Transceiver) log(ctx context.Context, message string, logContext domain.LogContext) {
	if t.logger == nil {
		return
	}
	t.logger.InfoContext(ctx, message, logArgs(logContext)...)
}

// logArgs flattens a LogContext into slog key/value pairs in key order.
func logArgs(logContext domain.LogContext) []any {
	keys := make([]string, 0, len(logContext))
	for k := range logContext {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		args = append(args, k, logContext[k])
	}
	return args
}
