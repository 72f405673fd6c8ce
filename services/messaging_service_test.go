package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodorder_server/structs"
	"foodorder_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *gecho.Logger {
	return gecho.NewDefaultLogger()
}

func TestMessagingService_Simulated(t *testing.T) {
	store := newMemStore()
	ms := NewMessagingService(testLogger(), &structs.MessagingConfig{SendTimeout: time.Second}, store)
	ms.now = func() time.Time { return time.UnixMilli(1700000000123) }

	receipt, err := ms.Send(context.Background(), "9876543210", "hello")

	require.NoError(t, err)
	assert.True(t, receipt.Simulated)
	assert.Equal(t, "sim_1700000000123", receipt.Sid)
	assert.Equal(t, "delivered", receipt.Status)
	require.Len(t, store.messages, 1)
	assert.Equal(t, tables.MessageOutgoing, store.messages[0].Type)
	assert.Equal(t, "sim_1700000000123", store.messages[0].MessageSid)
}

func TestMessagingService_Twilio(t *testing.T) {
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)
		assert.NoError(t, r.ParseForm())
		gotForm = map[string]string{"From": r.Form.Get("From"), "To": r.Form.Get("To"), "Body": r.Form.Get("Body")}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM42","status":"queued"}`))
	}))
	defer server.Close()

	ms := NewMessagingService(testLogger(), &structs.MessagingConfig{
		AccountSid:  "AC123",
		AuthToken:   "secret",
		FromNumber:  "whatsapp:+14155238886",
		APIBaseURL:  server.URL,
		CountryCode: "91",
		SendTimeout: time.Second,
	}, nil)

	receipt, err := ms.Send(context.Background(), "9876543210", "Order ready")

	require.NoError(t, err)
	assert.Equal(t, "SM42", receipt.Sid)
	assert.False(t, receipt.Simulated)
	assert.Equal(t, "whatsapp:+919876543210", gotForm["To"])
	assert.Equal(t, "whatsapp:+14155238886", gotForm["From"])
	assert.Equal(t, "Order ready", gotForm["Body"])
}

func TestMessagingService_TwilioError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":21211,"message":"Invalid 'To' Phone Number","status":400}`))
	}))
	defer server.Close()

	ms := NewMessagingService(testLogger(), &structs.MessagingConfig{
		AccountSid: "AC123", AuthToken: "secret", APIBaseURL: server.URL, CountryCode: "91", SendTimeout: time.Second,
	}, nil)

	_, err := ms.Send(context.Background(), "123", "x")

	var apiErr *TwilioError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 21211, apiErr.Code)
	assert.Equal(t, http.StatusBadRequest, apiErr.HTTPCode)
}

func TestMessagingService_CancelledContextSkipsAPI(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	ms := NewMessagingService(testLogger(), &structs.MessagingConfig{
		AccountSid: "AC123", AuthToken: "secret", APIBaseURL: server.URL, CountryCode: "91", SendTimeout: time.Second,
	}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ms.Send(ctx, "9876543210", "x")

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}
