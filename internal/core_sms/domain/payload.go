package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// Payload is raw inbound webhook data, already extracted from whatever HTTP
// framework delivered it. Form/query style providers fill Fields; providers
// that post a document (Telenor XML) fill Raw.
type Payload struct {
	Fields map[string]string
	Raw    []byte
}

// FieldsPayload wraps a string keyed field map.
func FieldsPayload(fields map[string]string) Payload {
	return Payload{Fields: fields}
}

// ValuesPayload flattens url.Values, keeping the first value of each key.
func ValuesPayload(values url.Values) Payload {
	fields := make(map[string]string, len(values))
	for key, vs := range values {
		if len(vs) > 0 {
			fields[key] = vs[0]
		}
	}
	return Payload{Fields: fields}
}

// RawPayload wraps an unparsed document body.
func RawPayload(raw []byte) Payload {
	return Payload{Raw: raw}
}

// Get returns the value for key, or "" if absent.
func (p Payload) Get(key string) string {
	return p.Fields[key]
}

// Has reports whether key is present, even with an empty value.
func (p Payload) Has(key string) bool {
	_, ok := p.Fields[key]
	return ok
}

// MissingFields returns the keys that are absent or empty. A payload without
// a field map reports every key as missing.
func (p Payload) MissingFields(keys ...string) []string {
	var missing []string
	for _, key := range keys {
		if strings.TrimSpace(p.Fields[key]) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// Require returns a PayloadError naming every absent or empty key.
func (p Payload) Require(provider, subject string, keys ...string) error {
	if p.Fields == nil {
		return NewPayloadError(provider, fmt.Sprintf("invalid %s data, expected a field map", subject), p)
	}
	if missing := p.MissingFields(keys...); len(missing) > 0 {
		return NewPayloadError(provider, fmt.Sprintf("invalid %s data, missing %s", subject, quoteAll(missing)), p)
	}
	return nil
}

// Dump renders the payload for diagnostics.
func (p Payload) Dump() string {
	if p.Fields == nil {
		if len(p.Raw) == 0 {
			return "<empty>"
		}
		return string(p.Raw)
	}
	var b strings.Builder
	b.WriteString("{")
	for i, key := range sortedKeys(p.Fields) {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: %q", key, p.Fields[key])
	}
	b.WriteString("}")
	return b.String()
}
