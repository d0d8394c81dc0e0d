package provider

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aradsms/sms_transceiver/internal/core_sms/domain"
	"github.com/aradsms/sms_transceiver/internal/gateway"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingClient answers every request with body and keeps the requests.
type recordingClient struct {
	body     string
	requests []*http.Request
	bodies   []string
}

func (c *recordingClient) Do(req *http.Request) (*http.Response, error) {
	c.requests = append(c.requests, req)
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		c.bodies = append(c.bodies, string(b))
	} else {
		c.bodies = append(c.bodies, "")
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(c.body)),
		Request:    req,
	}, nil
}

var _ gateway.HTTPClient = (*recordingClient)(nil)

func failingClient(err error) gateway.HTTPClient {
	return gateway.HTTPClientFunc(func(*http.Request) (*http.Response, error) {
		return nil, err
	})
}

func mustMessage(t *testing.T, to, text, from string) *domain.Message {
	t.Helper()
	msg, err := domain.NewMessageFromStrings(to, text, from)
	require.NoError(t, err)
	return msg
}
