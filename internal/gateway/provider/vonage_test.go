package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aradsms/sms_transceiver/internal/core_sms/domain"
)

func TestNewVonageClient_RequiresCredentials(t *testing.T) {
	_, err := NewVonageClient("key", "")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	client, err := NewVonageClient("key", "secret")
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestVonageGateway_SendMessage(t *testing.T) {
	var gotFrom, gotTo, gotText string
	sender := VonageMessageSenderFunc(func(_ context.Context, from, to, text string) (string, error) {
		gotFrom, gotTo, gotText = from, to, text
		return "0A0000000123ABCD1", nil
	})
	gw, err := NewVonageGateway(discardLogger(), sender)
	require.NoError(t, err)
	msg := mustMessage(t, "46700123001", "Hello world!", "Tester")

	require.NoError(t, gw.SendMessage(context.Background(), msg))

	assert.Equal(t, "Tester", gotFrom)
	assert.Equal(t, "46700123001", gotTo)
	assert.Equal(t, "Hello world!", gotText)
	assert.Equal(t, "0A0000000123ABCD1", msg.ID())
}

func TestVonageGateway_SendMessageWithoutReturnedID(t *testing.T) {
	sender := VonageMessageSenderFunc(func(context.Context, string, string, string) (string, error) {
		return "", nil
	})
	gw, err := NewVonageGateway(discardLogger(), sender)
	require.NoError(t, err)
	msg := mustMessage(t, "46700123001", "Hello world!", "")

	require.NoError(t, gw.SendMessage(context.Background(), msg), "a missing id is not an error for Vonage")
	assert.Empty(t, msg.ID())
}

func TestVonageGateway_SendMessageFailure(t *testing.T) {
	cause := errors.New("vonage rejected message, status 2: Missing to param")
	sender := VonageMessageSenderFunc(func(context.Context, string, string, string) (string, error) {
		return "", cause
	})
	gw, err := NewVonageGateway(discardLogger(), sender)
	require.NoError(t, err)

	err = gw.SendMessage(context.Background(), mustMessage(t, "46700123001", "Hi", ""))
	assert.ErrorIs(t, err, domain.ErrSendFailed)
	assert.ErrorIs(t, err, cause)
}

func TestVonageGateway_Receive(t *testing.T) {
	gw, err := NewVonageGateway(discardLogger(), VonageMessageSenderFunc(nil))
	require.NoError(t, err)

	msg, err := gw.ReceiveMessage(domain.FieldsPayload(map[string]string{
		"msisdn":    "46700123001",
		"to":        "46700123456",
		"messageId": "0A0000000123ABCD1",
		"text":      "Hello world! ",
		"type":      "text",
	}))
	require.NoError(t, err)
	assert.Equal(t, "46700123456", msg.To().String())
	assert.Equal(t, "46700123001", msg.From().String())
	assert.Equal(t, "Hello world!", msg.Text())
	assert.Equal(t, "0A0000000123ABCD1", msg.ID())

	report, err := gw.ReceiveDeliveryReport(domain.FieldsPayload(map[string]string{"messageId": "0A0000000123ABCD1", "status": "delivered"}))
	require.NoError(t, err)
	assert.Equal(t, "delivered", report.Status())

	_, err = gw.ReceiveMessage(domain.FieldsPayload(map[string]string{"msisdn": "46700123001"}))
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
	_, err = gw.ReceiveDeliveryReport(domain.FieldsPayload(map[string]string{"status": "delivered"}))
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
}
