package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByKind(t *testing.T) {
	err := Forbidden("Only hosts have access to listings.")

	assert.ErrorIs(t, err, ErrForbidden)
	assert.NotErrorIs(t, err, ErrAuthentication)
	assert.Equal(t, "Only hosts have access to listings.", err.Error())
}

func TestError_IsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("failed to create booking: %w", Overlap("dates taken"))

	assert.ErrorIs(t, err, ErrOverlap)
	assert.Equal(t, KindOverlap, KindOf(err))
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, KindNotFound, "Listing not found")

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Authentication(), http.StatusUnauthorized},
		{Forbidden("x"), http.StatusForbidden},
		{NotFound("x"), http.StatusNotFound},
		{InsufficientFunds("x"), http.StatusPaymentRequired},
		{Overlap("x"), http.StatusConflict},
		{InvalidState("x"), http.StatusUnprocessableEntity},
		{errors.New("db is down"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestPublicMessage_HidesInternalErrors(t *testing.T) {
	assert.Equal(t, "Internal server error", PublicMessage(errors.New("pq: password authentication failed")))
	assert.Equal(t, "Listing not found", PublicMessage(NotFound("Listing not found")))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "OverlapError", KindOverlap.String())
	assert.Equal(t, "InternalError", Kind(99).String())
}

func TestParseKind_RoundTrip(t *testing.T) {
	for k := KindInternal; k <= KindInvalidState; k++ {
		assert.Equal(t, k, ParseKind(k.String()))
	}
	assert.Equal(t, KindInternal, ParseKind("TeapotError"))
}
