package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/check-exists", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "student@uni.edu", body["email"])

		json.NewEncoder(w).Encode(map[string]any{"success": true, "exists": true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	exists, err := c.CheckExists(context.Background(), "student@uni.edu")

	require.NoError(t, err)
	assert.True(t, exists)
}

func TestVerifyOTPSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/otp/verify", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"success":       true,
			"access_token":  "acc",
			"refresh_token": "ref",
			"user":          map[string]any{"email": "student@uni.edu", "role": "student"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	creds, err := c.VerifyOTP(context.Background(), "student@uni.edu", "123456")

	require.NoError(t, err)
	assert.Equal(t, "acc", creds.AccessToken)
	assert.Equal(t, "ref", creds.RefreshToken)
	require.NotNil(t, creds.User)
	assert.Equal(t, "student@uni.edu", creds.User.Email)
}

func TestVerifyOTPErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "OTP has expired, please request a new one",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.VerifyOTP(context.Background(), "student@uni.edu", "123456")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "expired", "the server wording drives client classification")
}

func TestPostSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.SetToken("tok123")
	require.NoError(t, c.SendLoginOTP(context.Background(), "student@uni.edu"))

	assert.Equal(t, "Bearer tok123", gotAuth)
}

func TestFetchDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/pdf", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.7 fake"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	data, err := c.FetchDocument(context.Background(), srv.URL+"/storage/papers/1")

	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7 fake"), data)
}

func TestFetchDocumentNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.FetchDocument(context.Background(), srv.URL+"/storage/papers/999")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
