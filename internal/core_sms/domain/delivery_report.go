package domain

// DeliveryReport is a delivery status callback for a previously sent message.
// Status vocabulary is provider specific and passed through verbatim.
type DeliveryReport struct {
	id     string
	status string
}

// NewDeliveryReport returns a report for the provider tracking id.
func NewDeliveryReport(id, status string) DeliveryReport {
	return DeliveryReport{id: id, status: status}
}

// ID is the provider tracking id assigned when the message was sent.
func (r DeliveryReport) ID() string { return r.id }

func (r DeliveryReport) Status() string { return r.status }

func (r DeliveryReport) LogContext() LogContext {
	return LogContext{
		"id":     r.id,
		"status": r.status,
	}
}
