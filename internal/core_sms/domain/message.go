package domain

import (
	"fmt"
)

// SMS is implemented by *Message and *PremiumMessage. Gateways take an SMS
// on send and write the provider tracking id back onto it.
type SMS interface {
	To() Address
	Text() string
	From() Address
	SetFrom(from Address)
	ID() string
	SetID(id string)
	SegmentCount() int
	SetSegmentCount(count int)
	LogContext() LogContext
}

// Premium is implemented by reverse billed messages.
type Premium interface {
	SMS
	Price() int
	IncomingMessageID() string
}

// LogContext holds the non-empty fields of an entity for structured logging.
// Values are strings or ints.
type LogContext map[string]any

// Message is an SMS text message, outgoing or received.
//
// Zero values mean "not set": a nil From, an empty ID/Operator/CountryCode
// and a SegmentCount of 0.
type Message struct {
	to           Address
	text         string
	from         Address
	id           string
	operator     string
	countryCode  string
	segmentCount int
}

// NewMessage returns a message to the given recipient. from may be nil.
func NewMessage(to Address, text string, from Address) (*Message, error) {
	m := &Message{from: from}
	if err := m.SetTo(to); err != nil {
		return nil, err
	}
	if err := m.SetText(text); err != nil {
		return nil, err
	}
	return m, nil
}

// NewMessageFromStrings builds the recipient with NewAddress and, when from is
// not empty, the sender with NewAddressAllowingAlphanumeric.
func NewMessageFromStrings(to, text, from string) (*Message, error) {
	toAddress, fromAddress, err := parseAddresses(to, from)
	if err != nil {
		return nil, err
	}
	return NewMessage(toAddress, text, fromAddress)
}

func parseAddresses(to, from string) (Address, Address, error) {
	toAddress, err := NewAddress(to)
	if err != nil {
		return nil, nil, err
	}
	if from == "" {
		return toAddress, nil, nil
	}
	fromAddress, err := NewAddressAllowingAlphanumeric(from)
	if err != nil {
		return nil, nil, err
	}
	return toAddress, fromAddress, nil
}

func (m *Message) To() Address { return m.to }

// SetTo replaces the recipient, which is required.
func (m *Message) SetTo(to Address) error {
	if to == nil {
		return fmt.Errorf("%w: recipient is required", ErrInvalidArgument)
	}
	m.to = to
	return nil
}

func (m *Message) Text() string { return m.text }

// SetText replaces the text, which must not be empty.
func (m *Message) SetText(text string) error {
	if text == "" {
		return fmt.Errorf("%w: text is required", ErrInvalidArgument)
	}
	m.text = text
	return nil
}

func (m *Message) From() Address { return m.from }
func (m *Message) SetFrom(from Address) { m.from = from }
func (m *Message) ID() string { return m.id }
func (m *Message) SetID(id string) { m.id = id }
func (m *Message) Operator() string { return m.operator }
func (m *Message) SetOperator(op string) { m.operator = op }
func (m *Message) CountryCode() string { return m.countryCode }

func (m *Message) SetCountryCode(countryCode string) { m.countryCode = countryCode }

func (m *Message) SegmentCount() int { return m.segmentCount }
func (m *Message) SetSegmentCount(count int) { m.segmentCount = count }

// LogContext returns to, text, from, id, operator, countryCode and
// segmentCount, leaving out the ones that are not set.
func (m *Message) LogContext() LogContext {
	ctx := LogContext{}
	putString(ctx, "to", AddressString(m.to))
	putString(ctx, "text", m.text)
	putString(ctx, "from", AddressString(m.from))
	putString(ctx, "id", m.id)
	putString(ctx, "operator", m.operator)
	putString(ctx, "countryCode", m.countryCode)
	if m.segmentCount != 0 {
		ctx["segmentCount"] = m.segmentCount
	}
	return ctx
}

func putString(ctx LogContext, key, value string) {
	if value != "" {
		ctx[key] = value
	}
}
