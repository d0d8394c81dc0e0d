package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aradsms/sms_transceiver/internal/core_sms/domain"
)

func newNexmoGateway(t *testing.T, client *recordingClient) *NexmoGateway {
	t.Helper()
	gw, err := NewNexmoGateway(discardLogger(), client, NexmoConfig{APIKey: "some-key", APISecret: "some-secret"})
	require.NoError(t, err)
	return gw
}

func TestNewNexmoGateway_RequiresCredentials(t *testing.T) {
	_, err := NewNexmoGateway(discardLogger(), &recordingClient{}, NexmoConfig{APIKey: "k"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestNexmoGateway_SendMessage(t *testing.T) {
	client := &recordingClient{body: `{"message-count":"2","messages":[{"to":"46700123001","message-id":"0A0000000123ABCD1","status":"0"}]}`}
	gw := newNexmoGateway(t, client)
	msg := mustMessage(t, "46700123001", "Hello world!", "Tester")

	require.NoError(t, gw.SendMessage(context.Background(), msg))

	req := client.requests[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "https://rest.nexmo.com/sms/json", req.URL.String())
	assert.Equal(t, "api_key=some-key&api_secret=some-secret&from=Tester&to=46700123001&text=Hello+world%21", client.bodies[0])
	assert.Equal(t, "0A0000000123ABCD1", msg.ID())
	assert.Equal(t, 2, msg.SegmentCount())
}

func TestNexmoGateway_SendMessageErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantReason string
	}{
		{name: "rejected", body: `{"message-count":"1","messages":[{"status":"4","error-text":"Bad Credentials"}]}`, wantReason: "Send message failed with status 4: Bad Credentials"},
		{name: "no messages", body: `{"message-count":"0","messages":[]}`, wantReason: `Send message failed with empty response: {"message-count":"0","messages":[]}`},
		{name: "missing id", body: `{"message-count":"1","messages":[{"status":"0"}]}`, wantReason: `Message sent but missing message-id in response: {"message-count":"1","messages":[{"status":"0"}]}`},
		{name: "not json", body: "Service Unavailable", wantReason: "Could not parse send response: Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newNexmoGateway(t, &recordingClient{body: tt.body})

			err := gw.SendMessage(context.Background(), mustMessage(t, "46700123001", "Hi", ""))

			var sendErr *domain.SendError
			require.ErrorAs(t, err, &sendErr)
			assert.Equal(t, tt.wantReason, sendErr.Reason)
		})
	}
}

func TestNexmoGateway_SendMessageAgainstServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "some-key", r.PostForm.Get("api_key"))
		assert.Equal(t, "46700123001", r.PostForm.Get("to"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message-count":"1","messages":[{"message-id":"abc","status":"0"}]}`))
	}))
	defer server.Close()

	gw, err := NewNexmoGateway(discardLogger(), server.Client(), NexmoConfig{APIKey: "some-key", APISecret: "s", Endpoint: server.URL})
	require.NoError(t, err)

	msg := mustMessage(t, "46700123001", "Hi", "")
	require.NoError(t, gw.SendMessage(context.Background(), msg))
	assert.Equal(t, "abc", msg.ID())
}

func TestNexmoGateway_Receive(t *testing.T) {
	gw := newNexmoGateway(t, &recordingClient{})

	msg, err := gw.ReceiveMessage(domain.FieldsPayload(map[string]string{
		"msisdn":    "46700123001",
		"to":        "46700123456",
		"messageId": "0A0000000123ABCD1",
		"text":      "Hello world!",
	}))
	require.NoError(t, err)
	assert.Equal(t, "0A0000000123ABCD1", msg.ID())

	_, err = gw.ReceiveDeliveryReport(domain.FieldsPayload(map[string]string{"messageId": "x"}))
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
	assert.Contains(t, err.Error(), "nexmo")
}
