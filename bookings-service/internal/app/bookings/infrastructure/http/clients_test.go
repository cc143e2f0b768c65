package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybnb/pkg/apperror"
	"staybnb/pkg/availability"
	"staybnb/pkg/serviceclient"
)

// ===================== ListingsClient Tests =====================

func TestListingsClient_GetTotalCost(t *testing.T) {
	// Arrange
	listingID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/listings/"+listingID.String()+"/cost", r.URL.Path)
		assert.Equal(t, "2024-06-01", r.URL.Query().Get("checkIn"))
		assert.Equal(t, "2024-06-04", r.URL.Query().Get("checkOut"))
		json.NewEncoder(w).Encode(map[string]float64{"totalCost": 300})
	}))
	defer server.Close()

	client := NewListingsClient(serviceclient.New("listings-service", server.URL))
	dates, err := availability.ParseDateRange("2024-06-01", "2024-06-04")
	require.NoError(t, err)

	// Act
	total, err := client.GetTotalCost(context.Background(), listingID, dates)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 300.0, total)
}

func TestListingsClient_GetTotalCost_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Listing not found","code":"NotFoundError"}`))
	}))
	defer server.Close()

	client := NewListingsClient(serviceclient.New("listings-service", server.URL))
	dates, _ := availability.ParseDateRange("2024-06-01", "2024-06-04")

	_, err := client.GetTotalCost(context.Background(), uuid.New(), dates)

	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, "Listing not found", apperror.PublicMessage(err))
}

func TestListingsClient_GetListingHostID(t *testing.T) {
	listingID := uuid.New()
	hostID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/listings/"+listingID.String(), r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"id": listingID.String(), "hostId": hostID.String()})
	}))
	defer server.Close()

	client := NewListingsClient(serviceclient.New("listings-service", server.URL))

	result, err := client.GetListingHostID(context.Background(), listingID)

	require.NoError(t, err)
	assert.Equal(t, hostID, result)
}

// ===================== PaymentsClient Tests =====================

func TestPaymentsClient_SubtractFunds(t *testing.T) {
	// Arrange
	userID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payments/subtract", r.URL.Path)

		var body fundsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, userID, body.UserID)
		assert.Equal(t, 300.0, body.Amount)
		assert.Equal(t, "booking:a-1:debit", body.IdempotencyKey)

		w.Write([]byte(`{"type":"debit","amount":300}`))
	}))
	defer server.Close()

	client := NewPaymentsClient(serviceclient.New("payments-service", server.URL, serviceclient.WithRateLimit(100, 1)))

	// Act
	err := client.SubtractFunds(context.Background(), userID, 300, "booking:a-1:debit")

	// Assert
	assert.NoError(t, err)
}

func TestPaymentsClient_SubtractFunds_Insufficient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":"Insufficient funds","code":"InsufficientFundsError"}`))
	}))
	defer server.Close()

	client := NewPaymentsClient(serviceclient.New("payments-service", server.URL))

	err := client.SubtractFunds(context.Background(), uuid.New(), 300, "k")

	assert.ErrorIs(t, err, apperror.ErrInsufficientFunds)
}

func TestPaymentsClient_AddFunds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/add", r.URL.Path)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewPaymentsClient(serviceclient.New("payments-service", server.URL))

	err := client.AddFunds(context.Background(), uuid.New(), 300, "booking:a-1:refund")

	assert.NoError(t, err)
}

// ===================== ReviewsClient Tests =====================

func TestReviewsClient_GetReviewForBooking(t *testing.T) {
	bookingID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reviews/booking/"+bookingID.String(), r.URL.Path)
		assert.Equal(t, "HOST", r.URL.Query().Get("targetType"))
		w.Write([]byte(`{"__typename":"Review","id":"r-1","targetType":"HOST","text":"Great host","rating":5,"author":{"__typename":"Guest","id":"g-1"}}`))
	}))
	defer server.Close()

	client := NewReviewsClient(serviceclient.New("reviews-service", server.URL))

	review, err := client.GetReviewForBooking(context.Background(), "HOST", bookingID)

	require.NoError(t, err)
	require.NotNil(t, review)
	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, "Guest", review.Author.Typename)
}

func TestReviewsClient_GetReviewForBooking_Null(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	}))
	defer server.Close()

	client := NewReviewsClient(serviceclient.New("reviews-service", server.URL))

	review, err := client.GetReviewForBooking(context.Background(), "GUEST", uuid.New())

	assert.NoError(t, err)
	assert.Nil(t, review)
}
