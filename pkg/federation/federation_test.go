package federation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybnb/pkg/apperror"
)

type listing struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func newTestResolver(calls *atomic.Int32) *Resolver {
	listings := map[string]*listing{
		"listing-1": {ID: "listing-1", Title: "Cave"},
		"listing-2": {ID: "listing-2", Title: "Spaceship"},
	}

	return NewResolver().Register(TypeListing, Fetcher(func(_ context.Context, key string) (*listing, error) {
		calls.Add(1)
		if key == "broken" {
			return nil, errors.New("connection refused")
		}
		return listings[key], nil
	}))
}

// ===================== Resolver Tests =====================

func TestResolver_Resolve_Success(t *testing.T) {
	var calls atomic.Int32
	resolver := newTestResolver(&calls)

	entity, err := resolver.Resolve(context.Background(), ListingRef("listing-1"))

	require.NoError(t, err)
	assert.Equal(t, "Cave", entity.(*listing).Title)
	assert.Equal(t, int32(1), calls.Load())
}

func TestResolver_Resolve_NotFound(t *testing.T) {
	var calls atomic.Int32
	resolver := newTestResolver(&calls)

	entity, err := resolver.Resolve(context.Background(), ListingRef("missing"))

	assert.Nil(t, entity)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestResolver_Resolve_UnknownTypename(t *testing.T) {
	var calls atomic.Int32
	resolver := newTestResolver(&calls)

	_, err := resolver.Resolve(context.Background(), Stub("Spaceport", "x"))

	assert.ErrorIs(t, err, apperror.ErrInvalidState)
	assert.Equal(t, int32(0), calls.Load())
}

func TestResolver_Resolve_Idempotent(t *testing.T) {
	var calls atomic.Int32
	resolver := newTestResolver(&calls)

	first, err := resolver.Resolve(context.Background(), ListingRef("listing-2"))
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), ListingRef("listing-2"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolver_Register_DuplicatePanics(t *testing.T) {
	resolver := NewResolver().Register(TypeHost, func(context.Context, string) (any, error) { return nil, nil })

	assert.Panics(t, func() {
		resolver.Register(TypeHost, func(context.Context, string) (any, error) { return nil, nil })
	})
}

func TestResolver_Typenames_Sorted(t *testing.T) {
	noop := func(context.Context, string) (any, error) { return nil, nil }
	resolver := NewResolver().Register(TypeReview, noop).Register(TypeHost, noop)

	assert.Equal(t, []string{TypeHost, TypeReview}, resolver.Typenames())
}

func TestResolver_ResolveAll_FailureDoesNotAbortSiblings(t *testing.T) {
	var calls atomic.Int32
	resolver := newTestResolver(&calls)

	results := resolver.ResolveAll(context.Background(), []EntityStub{
		ListingRef("listing-1"),
		ListingRef("broken"),
		ListingRef("listing-2"),
	})

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, "Spaceship", results[2].Entity.(*listing).Title)
}

// ===================== Result Tests =====================

func TestResult_Succeeded(t *testing.T) {
	payload := &listing{ID: "listing-1"}

	result := Succeeded("Listing successfully created!", payload)

	assert.Equal(t, http.StatusOK, result.Code)
	assert.True(t, result.Success)
	assert.Same(t, payload, result.Payload)
}

func TestResult_FailedWith(t *testing.T) {
	result := FailedWith[listing](apperror.NotFound("Listing not found"))
	assert.Equal(t, http.StatusNotFound, result.Code)
	assert.False(t, result.Success)
	assert.Equal(t, "NotFoundError", result.ErrorCode)
	assert.Nil(t, result.Payload)

	result = FailedWith[listing](apperror.Overlap("taken"))
	assert.Equal(t, http.StatusBadRequest, result.Code)
	assert.Equal(t, "taken", result.Message)
	assert.Equal(t, "OverlapError", result.ErrorCode)

	// одинаковый HTTP код, разный класс
	result = FailedWith[listing](apperror.InvalidState("Check-out date must be after check-in date"))
	assert.Equal(t, http.StatusBadRequest, result.Code)
	assert.Equal(t, "InvalidStateError", result.ErrorCode)
}

func TestResult_SucceededHasNoErrorCode(t *testing.T) {
	result := Succeeded("ok", &listing{})
	assert.True(t, result.Success)
	assert.Empty(t, result.ErrorCode)

	body, err := json.Marshal(result)
	assert.NoError(t, err)
	assert.NotContains(t, string(body), "errorCode")
}

// ===================== EntitiesHandler Tests =====================

func TestEntitiesHandler_PartialFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var calls atomic.Int32
	router := gin.New()
	router.POST("/_entities", EntitiesHandler(newTestResolver(&calls)))

	body, _ := json.Marshal(gin.H{"representations": []EntityStub{
		ListingRef("listing-1"),
		ListingRef("missing"),
	}})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/_entities", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Entities []*listing    `json:"entities"`
		Errors   []EntityError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Entities, 2)
	assert.Equal(t, "Cave", response.Entities[0].Title)
	assert.Nil(t, response.Entities[1])
	require.Len(t, response.Errors, 1)
	assert.Equal(t, 1, response.Errors[0].Index)
	assert.Equal(t, "NotFoundError", response.Errors[0].Code)
}

func TestEntitiesHandler_InvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var calls atomic.Int32
	router := gin.New()
	router.POST("/_entities", EntitiesHandler(newTestResolver(&calls)))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/_entities", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
