package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPostsJSON(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	msg := Message{
		TemplateID: "ORDER_PAID",
		Recipient:  "aiko@example.com",
		Subject:    "Your order is paid",
		Body:       "<p>Thanks!</p>",
	}
	require.NoError(t, client.Send(context.Background(), msg))
	assert.Equal(t, msg, got)
}

func TestSendRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "relay down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.Send(context.Background(), Message{Recipient: "aiko@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestSendRequiresEndpoint(t *testing.T) {
	client := NewClient("")
	err := client.Send(context.Background(), Message{Recipient: "aiko@example.com"})
	assert.Error(t, err)
}
