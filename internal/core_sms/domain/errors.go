package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidAddress indicates a value that fails the format rules of its address variant.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrInvalidArgument indicates missing credentials or an invalid constructor argument.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrSendFailed indicates that the transport or the provider rejected an outbound message.
	ErrSendFailed = errors.New("send failed")
	// ErrMalformedPayload indicates inbound webhook data with absent or empty required fields.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrNotImplemented indicates an operation a gateway structurally cannot perform.
	ErrNotImplemented = errors.New("not implemented")
)

// SendError carries a human readable reason and, when the failure came from
// the transport or a vendor SDK, the original cause.
type SendError struct {
	Provider string
	Reason   string
	Err      error
}

// NewSendError returns a SendError for provider. err may be nil.
func NewSendError(provider, reason string, err error) *SendError {
	return &SendError{Provider: provider, Reason: reason, Err: err}
}

func (e *SendError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrSendFailed.Error(), e.Reason)
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.Err != nil && e.Err.Error() != e.Reason {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SendError) Unwrap() error { return e.Err }

func (e *SendError) Is(target error) bool { return target == ErrSendFailed }

// PayloadError reports inbound data that could not be turned into a domain entity.
type PayloadError struct {
	Provider string
	Reason   string
	Payload  Payload
}

// NewPayloadError returns a PayloadError for provider.
func NewPayloadError(provider, reason string, payload Payload) *PayloadError {
	return &PayloadError{Provider: provider, Reason: reason, Payload: payload}
}

func (e *PayloadError) Error() string {
	msg := fmt.Sprintf("%s: %s. Data received: %s", ErrMalformedPayload.Error(), e.Reason, e.Payload.Dump())
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	return msg
}

func (e *PayloadError) Is(target error) bool { return target == ErrMalformedPayload }

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}
