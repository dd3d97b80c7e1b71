package gymauth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitstack/go-gymauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestPasswordResetHandler(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/password-reset/request", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]string{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "pepe.rone@example.com", body["email"])
		_ = json.NewEncoder(w).Encode(gymauth.MessageResponse{Message: "reset email sent"})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	service := newSessionService(server.URL, gymauth.NewMemoryTokenStore())
	handler := gymauth.NewRequestPasswordResetHandler(service)

	var resp *gymauth.RequestPasswordResetResponse
	err := handler.Execute(context.Background(), gymauth.RequestPasswordResetMessage{
		Email: "pepe.rone@example.com",
		OnResponse: func(r *gymauth.RequestPasswordResetResponse) {
			resp = r
		},
	})
	require.NoError(t, err)

	require.NotNil(t, resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "reset email sent", resp.Message)
}

func TestRequestPasswordResetHandler_CancelledContext(t *testing.T) {
	service := newSessionService("http://localhost:0", gymauth.NewMemoryTokenStore())
	handler := gymauth.NewRequestPasswordResetHandler(service)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := handler.Execute(ctx, gymauth.RequestPasswordResetMessage{
		Email: "pepe.rone@example.com",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancelled")
}

func TestConfirmPasswordResetHandler(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/password-reset/confirm", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]string{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "reset-token", body["token"])
		_ = json.NewEncoder(w).Encode(gymauth.MessageResponse{Message: "password updated"})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	service := newSessionService(server.URL, gymauth.NewMemoryTokenStore())
	handler := gymauth.NewConfirmPasswordResetHandler(service)

	var resp *gymauth.ConfirmPasswordResetResponse
	err := handler.Execute(context.Background(), gymauth.ConfirmPasswordResetMessage{
		Token:       "reset-token",
		NewPassword: "newsecret123",
		OnResponse: func(r *gymauth.ConfirmPasswordResetResponse) {
			resp = r
		},
	})
	require.NoError(t, err)

	require.NotNil(t, resp)
	assert.Equal(t, "password updated", resp.Message)
}

func TestConfirmPasswordResetHandler_InvalidPayload(t *testing.T) {
	service := newSessionService("http://localhost:0", gymauth.NewMemoryTokenStore())
	handler := gymauth.NewConfirmPasswordResetHandler(service)

	err := handler.Execute(context.Background(), gymauth.ConfirmPasswordResetMessage{
		Token:       "reset-token",
		NewPassword: "short",
	})
	require.Error(t, err)
	assert.True(t, gymauth.IsValidationFailure(err))
}
