package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFonnteMessengerRequiresKey(t *testing.T) {
	_, err := NewFonnteMessenger("", "")
	assert.Error(t, err)
}

func TestFonnteSend(t *testing.T) {
	var gotAuth, gotTarget, gotMessage, gotCountry string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotAuth = r.Header.Get("Authorization")
		gotTarget = r.FormValue("target")
		gotMessage = r.FormValue("message")
		gotCountry = r.FormValue("countryCode")
		w.Write([]byte(`{"status":true}`))
	}))
	defer server.Close()

	m, err := NewFonnteMessenger("secret-key", server.URL)
	require.NoError(t, err)

	resp, err := m.Send(context.Background(), "6281234567890", "halo")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":true}`, string(resp))
	assert.Equal(t, "secret-key", gotAuth)
	assert.Equal(t, "6281234567890", gotTarget)
	assert.Equal(t, "halo", gotMessage)
	assert.Equal(t, "62", gotCountry)
}

func TestFonnteSendRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":false,"reason":"invalid target"}`))
	}))
	defer server.Close()

	m, err := NewFonnteMessenger("secret-key", server.URL)
	require.NoError(t, err)

	resp, err := m.Send(context.Background(), "123", "halo")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid target")
	assert.NotEmpty(t, resp, "rejection body is kept for the audit record")
}

func TestFonnteSendHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"reason":"bad token"}`))
	}))
	defer server.Close()

	m, err := NewFonnteMessenger("wrong-key", server.URL)
	require.NoError(t, err)

	_, err = m.Send(context.Background(), "6281234567890", "halo")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}
