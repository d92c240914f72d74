package sender

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CelestialBrain/sms-scheduler/internal/model"
	"github.com/CelestialBrain/sms-scheduler/pkg/semaphore"
)

func newGatewayServer(t *testing.T) (*httptest.Server, *string, *string) {
	var path, senderName string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		path = r.URL.Path
		senderName = r.FormValue("sendername")
		_, _ = w.Write([]byte(`{"message_id":1,"network":"Globe"}`))
	}))
	t.Cleanup(srv.Close)

	return srv, &path, &senderName
}

func TestGatewaySender_RegularPriority(t *testing.T) {
	srv, path, senderName := newGatewayServer(t)

	s := NewGatewaySender(semaphore.NewClient("key", srv.URL), "ACME", false)

	msg := model.ScheduledMessage{Recipient: "09171234567", Body: "hello", Priority: model.PriorityDefault}
	require.NoError(t, s.Send(context.Background(), msg))

	assert.Equal(t, "/messages", *path)
	assert.Equal(t, "ACME", *senderName)
}

func TestGatewaySender_HighPriorityUsesPriorityEndpoint(t *testing.T) {
	srv, path, _ := newGatewayServer(t)

	s := NewGatewaySender(semaphore.NewClient("key", srv.URL), "ACME", false)

	msg := model.ScheduledMessage{Recipient: "09171234567", Body: "urgent", Priority: model.PriorityHighThreshold}
	require.NoError(t, s.Send(context.Background(), msg))

	assert.Equal(t, "/priority", *path)
}

func TestGatewaySender_AlwaysPriority(t *testing.T) {
	srv, path, _ := newGatewayServer(t)

	s := NewGatewaySender(semaphore.NewClient("key", srv.URL), "ACME", true)

	msg := model.ScheduledMessage{Recipient: "09171234567", Body: "hello", Priority: model.PriorityMin}
	require.NoError(t, s.Send(context.Background(), msg))

	assert.Equal(t, "/priority", *path)
}

func TestGatewaySender_PerMessageSenderName(t *testing.T) {
	srv, _, senderName := newGatewayServer(t)

	s := NewGatewaySender(semaphore.NewClient("key", srv.URL), "ACME", false)

	msg := model.ScheduledMessage{Recipient: "09171234567", Body: "hello", SenderName: "PROMO", Priority: model.PriorityDefault}
	require.NoError(t, s.Send(context.Background(), msg))

	assert.Equal(t, "PROMO", *senderName)
}

func TestGatewaySender_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewGatewaySender(semaphore.NewClient("key", srv.URL), "ACME", false)

	err := s.Send(context.Background(), model.ScheduledMessage{Recipient: "09171234567", Body: "hello"})
	require.Error(t, err)

	var apiErr *semaphore.APIError
	assert.ErrorAs(t, err, &apiErr)
}
