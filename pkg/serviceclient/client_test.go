package serviceclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybnb/pkg/apperror"
)

type costResponse struct {
	TotalCost float64 `json:"totalCost"`
}

func TestClient_GetDecodesResponse(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/listings/l-1/cost", r.URL.Path)
		assert.Equal(t, "2024-06-01", r.URL.Query().Get("checkIn"))
		json.NewEncoder(w).Encode(costResponse{TotalCost: 300})
	}))
	defer server.Close()

	client := New("listings-service", server.URL)

	// Act
	var out costResponse
	err := client.Get(context.Background(), "/listings/l-1/cost", url.Values{"checkIn": {"2024-06-01"}}, &out)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, float64(300), out.TotalCost)
}

func TestClient_PostSendsJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u-1", body["userId"])
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	err := New("payments-service", server.URL).Post(context.Background(), "/payments/subtract", map[string]any{"userId": "u-1"}, nil)

	assert.NoError(t, err)
}

func TestClient_MapsErrorCodeToKind(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":"Insufficient funds","code":"InsufficientFundsError"}`))
	}))
	defer server.Close()

	err := New("payments-service", server.URL).Post(context.Background(), "/payments/subtract", map[string]any{}, nil)

	assert.ErrorIs(t, err, apperror.ErrInsufficientFunds)
	assert.Equal(t, "Insufficient funds", err.Error())
}

func TestClient_FallsBackToStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	err := New("listings-service", server.URL).Get(context.Background(), "/listings/missing", nil, nil)

	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestClient_EnvelopeMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"code":403,"success":false,"message":"Only hosts can create new listings"}`))
	}))
	defer server.Close()

	err := New("listings-service", server.URL).Post(context.Background(), "/listings", nil, nil)

	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Equal(t, "Only hosts can create new listings", err.Error())
}

func TestClient_ServerErrorIsInternal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	err := New("bookings-service", server.URL).Get(context.Background(), "/bookings/1", nil, nil)

	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer server.Close()

	err := New("slow", server.URL, WithTimeout(10*time.Millisecond)).Get(context.Background(), "/", nil, nil)

	assert.Error(t, err)
}

func TestClient_RateLimitRespectsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	client := New("limited", server.URL, WithRateLimit(0.001, 1))
	require.NoError(t, client.Get(context.Background(), "/", nil, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := client.Get(ctx, "/", nil, nil)
	assert.Error(t, err)
}
