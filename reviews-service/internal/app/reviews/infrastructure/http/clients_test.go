package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybnb/pkg/apperror"
	"staybnb/pkg/serviceclient"
)

// ===================== BookingsClient Tests =====================

func TestBookingsClient_GetListingIDForBooking(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bookings/booking-1/listing-id", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"id": "listing-1"})
	}))
	defer server.Close()

	client := NewBookingsClient(serviceclient.New("bookings-service", server.URL))

	// Act
	listingID, err := client.GetListingIDForBooking(context.Background(), "booking-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "listing-1", listingID)
}

func TestBookingsClient_GetGuestIDForBooking(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bookings/booking-1/guest-id", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"id": "guest-1"})
	}))
	defer server.Close()

	client := NewBookingsClient(serviceclient.New("bookings-service", server.URL))

	guestID, err := client.GetGuestIDForBooking(context.Background(), "booking-1")

	require.NoError(t, err)
	assert.Equal(t, "guest-1", guestID)
}

func TestBookingsClient_BookingNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Booking not found","code":"NotFoundError"}`))
	}))
	defer server.Close()

	client := NewBookingsClient(serviceclient.New("bookings-service", server.URL))

	_, err := client.GetListingIDForBooking(context.Background(), "missing")

	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, "Booking not found", apperror.PublicMessage(err))
}

// ===================== ListingsClient Tests =====================

func TestListingsClient_GetListingHostID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/listings/listing-1", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"id": "listing-1", "hostId": "host-1"})
	}))
	defer server.Close()

	client := NewListingsClient(serviceclient.New("listings-service", server.URL))

	hostID, err := client.GetListingHostID(context.Background(), "listing-1")

	require.NoError(t, err)
	assert.Equal(t, "host-1", hostID)
}
