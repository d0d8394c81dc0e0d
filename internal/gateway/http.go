package gateway

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aradsms/sms_transceiver/internal/core_sms/domain"
)

// MaxResponseBytes caps how much of a provider response body is read.
// Anything beyond it is dropped.
const MaxResponseBytes = 1 << 20

// Param is a single query or form parameter.
type Param struct {
	Key   string
	Value string
}

// Params keeps parameters in insertion order. url.Values sorts keys when
// encoding, and provider request targets are compared verbatim.
type Params []Param

// Add appends key=value.
func (p *Params) Add(key, value string) {
	*p = append(*p, Param{Key: key, Value: value})
}

// Encode renders the parameters as application/x-www-form-urlencoded.
func (p Params) Encode() string {
	var b strings.Builder
	for i, param := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(param.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(param.Value))
	}
	return b.String()
}

// RequireSettings fails with domain.ErrInvalidArgument naming every empty
// setting.
func RequireSettings(provider string, settings ...Param) error {
	var missing []string
	for _, s := range settings {
		if s.Value == "" {
			missing = append(missing, s.Key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s %s required", domain.ErrInvalidArgument, provider, strings.Join(missing, ", "))
	}
	return nil
}

// Exchange performs req and returns the response body. The status code is
// not inspected; providers report failures in the body. Transport and read
// errors come back as *domain.SendError.
func Exchange(client HTTPClient, provider string, req *http.Request) (*http.Response, []byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, domain.NewSendError(provider, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes))
	if err != nil {
		return resp, nil, domain.NewSendError(provider, "reading response body failed", err)
	}
	return resp, body, nil
}
