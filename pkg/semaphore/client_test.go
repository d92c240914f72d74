package semaphore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Send(t *testing.T) {
	var gotPath string
	var gotForm map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotPath = r.URL.Path
		gotForm = map[string]string{
			"apikey":     r.FormValue("apikey"),
			"number":     r.FormValue("number"),
			"message":    r.FormValue("message"),
			"sendername": r.FormValue("sendername"),
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message_id":123,"recipient":"09171234567","network":"Globe","status":"Pending","sender_name":"ACME","created_at":"2025-08-01 10:00:00"}`))
	}))
	defer srv.Close()

	client := NewClient("secret", srv.URL)

	resp, err := client.Send(context.Background(), "09171234567", "hello", "ACME")
	require.NoError(t, err)

	assert.Equal(t, "/messages", gotPath)
	assert.Equal(t, "secret", gotForm["apikey"])
	assert.Equal(t, "09171234567", gotForm["number"])
	assert.Equal(t, "hello", gotForm["message"])
	assert.Equal(t, "ACME", gotForm["sendername"])

	assert.Equal(t, "123", resp.MessageID.String())
	assert.Equal(t, "Globe", resp.Network)
	assert.Equal(t, "Pending", resp.Status)
}

func TestClient_SendPriority(t *testing.T) {
	var gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"message_id":1}`))
	}))
	defer srv.Close()

	client := NewClient("secret", srv.URL)

	_, err := client.SendPriority(context.Background(), "09171234567", "urgent", "")
	require.NoError(t, err)
	assert.Equal(t, "/priority", gotPath)
}

func TestClient_Send_ArrayResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"message_id":456,"recipient":"09171234567","network":"Smart"}]`))
	}))
	defer srv.Close()

	client := NewClient("secret", srv.URL)

	resp, err := client.Send(context.Background(), "09171234567", "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "456", resp.MessageID.String())
	assert.Equal(t, "Smart", resp.Network)
}

func TestClient_Send_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"senderName":["The selected sender name is invalid."]}`))
	}))
	defer srv.Close()

	client := NewClient("secret", srv.URL)

	_, err := client.Send(context.Background(), "09171234567", "hello", "WRONG")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "sender name is invalid")
}

func TestClient_Send_UnparseableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`Number is out of coverage`))
	}))
	defer srv.Close()

	client := NewClient("secret", srv.URL)

	_, err := client.Send(context.Background(), "09171234567", "hello", "")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusOK, apiErr.StatusCode)
	assert.Equal(t, "Number is out of coverage", apiErr.Body)
}

func TestClient_GetAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("apikey"))
		_, _ = w.Write([]byte(`{"account_id":777,"account_name":"acme","status":"Active","credit_balance":1024}`))
	}))
	defer srv.Close()

	client := NewClient("secret", srv.URL)

	acc, err := client.GetAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acme", acc.AccountName)
	assert.Equal(t, "Active", acc.Status)
	assert.Equal(t, "1024", acc.CreditBalance.String())
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	client := NewClient("secret", "")
	assert.Equal(t, DefaultBaseURL, client.baseURL)

	client = NewClient("secret", "https://example.com/api/")
	assert.Equal(t, "https://example.com/api", client.baseURL)
}
