package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aradsms/sms_transceiver/internal/core_sms/domain"
)

func newMessage(t *testing.T, to string) *domain.Message {
	t.Helper()
	msg, err := domain.NewMessageFromStrings(to, "Hello world!", "")
	require.NoError(t, err)
	return msg
}

func TestSendEach_SendsInOrder(t *testing.T) {
	msgs := []domain.SMS{newMessage(t, "46700123001"), newMessage(t, "46700123002")}

	var seen []string
	err := SendEach(context.Background(), msgs, func(_ context.Context, msg domain.SMS) error {
		seen = append(seen, msg.To().String())
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"46700123001", "46700123002"}, seen)
}

func TestSendEach_AbortsOnFirstFailure(t *testing.T) {
	msgs := []domain.SMS{newMessage(t, "46700123001"), newMessage(t, "46700123002"), newMessage(t, "46700123003")}
	sendErr := domain.NewSendError("test", "rejected", nil)

	calls := 0
	err := SendEach(context.Background(), msgs, func(_ context.Context, msg domain.SMS) error {
		calls++
		if msg.To().String() == "46700123002" {
			return sendErr
		}
		msg.SetID("ok")
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.ErrorIs(t, err, domain.ErrSendFailed)
	assert.Contains(t, err.Error(), "message 1:")
	assert.Equal(t, "ok", msgs[0].ID())
	assert.Empty(t, msgs[2].ID())
}

func TestSendEach_StopsWhenContextIsDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := SendEach(ctx, []domain.SMS{newMessage(t, "46700123001")}, func(context.Context, domain.SMS) error {
		t.Fatal("send must not be called")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, domain.ErrSendFailed)
	assert.Contains(t, err.Error(), "message 0: ")
}

func TestSendEach_StopsMidBatchWhenContextIsDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	msgs := []domain.SMS{newMessage(t, "46700123001"), newMessage(t, "46700123002")}

	err := SendEach(ctx, msgs, func(_ context.Context, msg domain.SMS) error {
		msg.SetID("sent")
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrSendFailed)
	assert.Contains(t, err.Error(), "message 1: ")
	assert.Equal(t, "sent", msgs[0].ID())
	assert.Empty(t, msgs[1].ID())
}

func TestParams_EncodeKeepsOrder(t *testing.T) {
	var p Params
	p.Add("username", "user")
	p.Add("destination", "0046700123001")
	p.Add("text", "Hello world!")

	assert.Equal(t, "username=user&destination=0046700123001&text=Hello+world%21", p.Encode())
	assert.Equal(t, "", Params{}.Encode())
}

func TestRequireSettings(t *testing.T) {
	assert.NoError(t, RequireSettings("cellsynt", Param{"username", "u"}, Param{"password", "p"}))

	err := RequireSettings("cellsynt", Param{"username", ""}, Param{"password", ""})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "cellsynt username, password required")
}

func TestExchange(t *testing.T) {
	client := HTTPClientFunc(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "https://example.test/sms", req.URL.String())
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("OK: 1"))}, nil
	})
	req, err := http.NewRequest(http.MethodGet, "https://example.test/sms", nil)
	require.NoError(t, err)

	resp, body, err := Exchange(client, "test", req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK: 1", string(body))
}

func TestExchange_WrapsTransportErrors(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	client := HTTPClientFunc(func(*http.Request) (*http.Response, error) { return nil, cause })
	req, err := http.NewRequest(http.MethodGet, "https://example.test/sms", nil)
	require.NoError(t, err)

	_, _, err = Exchange(client, "test", req)
	assert.ErrorIs(t, err, domain.ErrSendFailed)
	assert.ErrorIs(t, err, cause)
}

func TestExchange_CapsResponseBody(t *testing.T) {
	oversized := strings.Repeat("x", MaxResponseBytes+512)
	client := HTTPClientFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(oversized))}, nil
	})
	req, err := http.NewRequest(http.MethodGet, "https://example.test/sms", nil)
	require.NoError(t, err)

	_, body, err := Exchange(client, "test", req)
	require.NoError(t, err)
	assert.Len(t, body, MaxResponseBytes)
}
