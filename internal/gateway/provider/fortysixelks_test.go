package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aradsms/sms_transceiver/internal/core_sms/domain"
)

func newFortySixElksGateway(t *testing.T, client *recordingClient) *FortySixElksGateway {
	t.Helper()
	gw, err := NewFortySixElksGateway(discardLogger(), client, FortySixElksConfig{Username: "some-username", Password: "some-password"})
	require.NoError(t, err)
	return gw
}

func TestNewFortySixElksGateway_RequiresCredentials(t *testing.T) {
	_, err := NewFortySixElksGateway(discardLogger(), &recordingClient{}, FortySixElksConfig{Username: "u"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestFortySixElksGateway_SendMessage(t *testing.T) {
	client := &recordingClient{body: `{"status":"created","direction":"outgoing","from":"Forty6Elks","parts":1,"to":"+46700123001","cost":3500,"message":"Hello world!","id":"a95b04cf23d7f94c508e675b38eb46934"}`}
	gw := newFortySixElksGateway(t, client)
	msg := mustMessage(t, "46700123001", "Hello world!", "Forty6Elks")

	require.NoError(t, gw.SendMessage(context.Background(), msg))

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "https://api.46elks.com/a1/SMS", req.URL.String())
	assert.Equal(t, "application/x-www-form-urlencoded", req.Header.Get("Content-Type"))
	assert.Equal(t, "Basic c29tZS11c2VybmFtZTpzb21lLXBhc3N3b3Jk", req.Header.Get("Authorization"))
	assert.Equal(t, "from=Forty6Elks&to=46700123001&message=Hello+world%21", client.bodies[0])

	assert.Equal(t, "a95b04cf23d7f94c508e675b38eb46934", msg.ID())
	assert.Equal(t, 1, msg.SegmentCount())
}

func TestFortySixElksGateway_SendMessageErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantReason string
	}{
		{name: "not json", body: "Some error message", wantReason: "Send message failed with error: Some error message"},
		{name: "json null", body: "null", wantReason: "Send message failed with error: null"},
		{name: "missing status", body: `{"id":"abc"}`, wantReason: `Send message failed with missing status value: {"id":"abc"}`},
		{name: "unexpected status", body: `{"status":"failed","id":"abc"}`, wantReason: `Send message failed with missing status value: {"status":"failed","id":"abc"}`},
		{name: "missing id", body: `{"status":"created"}`, wantReason: `Message sent but missing id in response: {"status":"created"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newFortySixElksGateway(t, &recordingClient{body: tt.body})
			msg := mustMessage(t, "46700123001", "Hello world!", "")

			err := gw.SendMessage(context.Background(), msg)

			var sendErr *domain.SendError
			require.ErrorAs(t, err, &sendErr)
			assert.Equal(t, tt.wantReason, sendErr.Reason)
			assert.Empty(t, msg.ID())
		})
	}
}

func TestFortySixElksGateway_SendMessagesAgainstServer(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "u123", user)
		assert.Equal(t, "secret", pass)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "message=Hi")

		calls++
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"status": "sent", "id": "id-" + string(rune('0'+calls)), "parts": 2})
	}))
	defer server.Close()

	gw, err := NewFortySixElksGateway(discardLogger(), server.Client(), FortySixElksConfig{
		Username: "u123",
		Password: "secret",
		Endpoint: server.URL,
	})
	require.NoError(t, err)

	msgs := []domain.SMS{mustMessage(t, "46700123001", "Hi", "Tester"), mustMessage(t, "46700123002", "Hi", "Tester")}
	require.NoError(t, gw.SendMessages(context.Background(), msgs))

	assert.Equal(t, 2, calls)
	assert.Equal(t, "id-1", msgs[0].ID())
	assert.Equal(t, "id-2", msgs[1].ID())
	assert.Equal(t, 2, msgs[1].SegmentCount())
}

func TestFortySixElksGateway_ReceiveMessage(t *testing.T) {
	gw := newFortySixElksGateway(t, &recordingClient{})

	msg, err := gw.ReceiveMessage(domain.FieldsPayload(map[string]string{
		"id":      "sf8425555e5d8db61dda7a7b3f1b91bdb",
		"from":    "+46700123001",
		"to":      "+46700123456",
		"message": "Hello hello",
		"created": "2018-07-13T13:57:23.741000",
	}))
	require.NoError(t, err)

	assert.Equal(t, "46700123456", msg.To().String())
	assert.Equal(t, "46700123001", msg.From().String())
	assert.Equal(t, "Hello hello", msg.Text())
	assert.Equal(t, "sf8425555e5d8db61dda7a7b3f1b91bdb", msg.ID())
}

func TestFortySixElksGateway_ReceiveWithMissingFields(t *testing.T) {
	gw := newFortySixElksGateway(t, &recordingClient{})

	_, err := gw.ReceiveMessage(domain.FieldsPayload(map[string]string{"id": "1", "from": "+46700123001", "to": "+46700123456"}))
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)

	_, err = gw.ReceiveDeliveryReport(domain.FieldsPayload(map[string]string{"id": "1"}))
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestFortySixElksGateway_ReceiveDeliveryReport(t *testing.T) {
	gw := newFortySixElksGateway(t, &recordingClient{})

	report, err := gw.ReceiveDeliveryReport(domain.FieldsPayload(map[string]string{
		"id":        "s70df59406a1b4643b96f3f91e0bfb7b0",
		"status":    "delivered",
		"delivered": "2018-07-13T13:57:23.741000",
	}))
	require.NoError(t, err)
	assert.Equal(t, "s70df59406a1b4643b96f3f91e0bfb7b0", report.ID())
	assert.Equal(t, "delivered", report.Status())
}
