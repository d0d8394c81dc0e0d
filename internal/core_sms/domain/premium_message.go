package domain

import "fmt"

// PremiumMessage is a reverse billed (MT) message, charged to the recipient
// and tied to the inbound message that triggered it.
type PremiumMessage struct {
	Message
	price             int
	incomingMessageID string
}

// NewPremiumMessage returns a premium message. price is in minor units.
func NewPremiumMessage(to Address, text string, price int, incomingMessageID string, from Address) (*PremiumMessage, error) {
	msg, err := NewMessage(to, text, from)
	if err != nil {
		return nil, err
	}
	return &PremiumMessage{Message: *msg, price: price, incomingMessageID: incomingMessageID}, nil
}

// NewPremiumMessageFromStrings parses to and from like NewMessageFromStrings.
func NewPremiumMessageFromStrings(to, text string, price int, incomingMessageID, from string) (*PremiumMessage, error) {
	toAddress, fromAddress, err := parseAddresses(to, from)
	if err != nil {
		return nil, err
	}
	return NewPremiumMessage(toAddress, text, price, incomingMessageID, fromAddress)
}

// NewPremiumMessageFromIncoming answers incoming: the reply goes to the
// incoming sender, from the number the incoming message was sent to, within
// the incoming message's session.
func NewPremiumMessageFromIncoming(text string, price int, incoming SMS) (*PremiumMessage, error) {
	if incoming.From() == nil {
		return nil, fmt.Errorf("%w: incoming message has empty from", ErrInvalidArgument)
	}
	if incoming.ID() == "" {
		return nil, fmt.Errorf("%w: incoming message has empty id", ErrInvalidArgument)
	}
	return NewPremiumMessage(incoming.From(), text, price, incoming.ID(), incoming.To())
}

func (m *PremiumMessage) Price() int { return m.price }
func (m *PremiumMessage) IncomingMessageID() string { return m.incomingMessageID }

// LogContext extends the message context with price and incomingMessageId.
func (m *PremiumMessage) LogContext() LogContext {
	ctx := m.Message.LogContext()
	if m.price != 0 {
		ctx["price"] = m.price
	}
	putString(ctx, "incomingMessageId", m.incomingMessageID)
	return ctx
}
