package whatsapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"temple-receipt-service/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck_Ping_Healthy(t *testing.T) {
	var gotUser, gotPass string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		assert.Equal(t, "/2010-04-01/Accounts/AC_test.json", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	h := NewHealthCheck(config.WhatsAppConfig{
		AccountSID: "AC_test",
		AuthToken:  "token",
		APIBaseURL: server.URL,
	})

	require.NoError(t, h.Ping(context.Background()))
	assert.Equal(t, "AC_test", gotUser)
	assert.Equal(t, "token", gotPass)
	assert.Equal(t, "whatsapp-gateway", h.Name())
}

func TestHealthCheck_Ping_BadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	h := NewHealthCheck(config.WhatsAppConfig{
		AccountSID: "AC_test",
		AuthToken:  "wrong",
		APIBaseURL: server.URL,
	})

	assert.Error(t, h.Ping(context.Background()))
}

func TestHealthCheck_Ping_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	h := NewHealthCheck(config.WhatsAppConfig{
		AccountSID: "AC_test",
		AuthToken:  "token",
		APIBaseURL: server.URL,
	})

	assert.Error(t, h.Ping(context.Background()))
}
