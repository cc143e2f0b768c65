package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"pgregory.net/rapid"

	"staybnb/pkg/apperror"
	"staybnb/pkg/auth"
	"staybnb/pkg/federation"
	"staybnb/reviews-service/internal/app/reviews/entity"
	"staybnb/reviews-service/internal/app/reviews/repository"
	"staybnb/reviews-service/internal/app/reviews/repository/mocks"
)

const (
	testBookingID = "b6f1c0de-0000-4000-8000-000000000001"
	testListingID = "listing-1"
	testGuestID   = "guest-1"
	testHostID    = "host-1"
)

type testDeps struct {
	repo      *mocks.MockReviewRepository
	bookings  *mocks.MockBookingsClient
	listings  *mocks.MockListingsClient
	publisher *mocks.MockMessagePublisher
	service   *ReviewService
}

func newTestDeps() *testDeps {
	d := &testDeps{
		repo:      new(mocks.MockReviewRepository),
		bookings:  new(mocks.MockBookingsClient),
		listings:  new(mocks.MockListingsClient),
		publisher: &mocks.MockMessagePublisher{Messages: make([][]byte, 0)},
	}
	d.service = NewReviewService(d.repo, d.bookings, d.listings, d.publisher)
	return d
}

func assignID(args mock.Arguments) {
	args.Get(1).(*entity.Review).ID = primitive.NewObjectID()
}

func reviewOfType(targetType entity.TargetType) interface{} {
	return mock.MatchedBy(func(r *entity.Review) bool { return r.TargetType == targetType })
}

func hostAndLocationRequest() *entity.SubmitHostAndLocationRequest {
	return &entity.SubmitHostAndLocationRequest{
		HostReview:     entity.ReviewInput{Text: "Very welcoming", Rating: 5},
		LocationReview: entity.ReviewInput{Text: "Quiet street", Rating: 4},
	}
}

var (
	guest = auth.Identity{UserID: testGuestID, Role: auth.RoleGuest}
	host  = auth.Identity{UserID: testHostID, Role: auth.RoleHost}
)

// ===================== ResolveAuthor Tests =====================

func TestResolveAuthor(t *testing.T) {
	tests := []struct {
		targetType entity.TargetType
		typename   string
	}{
		{entity.TargetListing, federation.TypeGuest},
		{entity.TargetHost, federation.TypeGuest},
		{entity.TargetGuest, federation.TypeHost},
	}

	for _, tt := range tests {
		t.Run(string(tt.targetType), func(t *testing.T) {
			stub, err := ResolveAuthor(tt.targetType, "author-1")

			require.NoError(t, err)
			assert.Equal(t, federation.Stub(tt.typename, "author-1"), stub)
		})
	}
}

func TestResolveAuthor_UnknownTarget(t *testing.T) {
	_, err := ResolveAuthor("BOOKING", "author-1")

	assert.ErrorIs(t, err, apperror.ErrInvalidState)
}

func TestResolveAuthor_KeepsAuthorID(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		targetType := rapid.SampledFrom([]entity.TargetType{entity.TargetListing, entity.TargetHost, entity.TargetGuest}).Draw(t, "targetType")
		authorID := rapid.StringMatching(`[a-z0-9-]{1,36}`).Draw(t, "authorID")

		stub, err := ResolveAuthor(targetType, authorID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stub.ID != authorID {
			t.Fatalf("author id %q replaced with %q", authorID, stub.ID)
		}
		if (targetType == entity.TargetGuest) != (stub.Typename == federation.TypeHost) {
			t.Fatalf("target %s resolved to %s", targetType, stub.Typename)
		}
	})
}

// ===================== SubmitHostAndLocationReviews Tests =====================

func TestSubmitHostAndLocationReviews_Success(t *testing.T) {
	// Arrange
	d := newTestDeps()
	ctx := context.Background()

	d.bookings.On("GetGuestIDForBooking", mock.Anything, testBookingID).Return(testGuestID, nil)
	d.bookings.On("GetListingIDForBooking", mock.Anything, testBookingID).Return(testListingID, nil)
	d.listings.On("GetListingHostID", mock.Anything, testListingID).Return(testHostID, nil)
	d.repo.On("Create", mock.Anything, reviewOfType(entity.TargetListing)).Return(nil).Run(assignID)
	d.repo.On("Create", mock.Anything, reviewOfType(entity.TargetHost)).Return(nil).Run(assignID)
	d.publisher.On("PublishMessage", mock.Anything, testBookingID, mock.Anything).Return(nil)

	// Act
	result, err := d.service.SubmitHostAndLocationReviews(ctx, guest, testBookingID, hostAndLocationRequest())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.Code)
	assert.True(t, result.Success)
	assert.Equal(t, MsgHostAndLocationReviewed, result.Message)
	require.NotNil(t, result.Payload)
	assert.Equal(t, 5, result.Payload.HostReview.Rating)
	assert.Equal(t, entity.TargetHost, result.Payload.HostReview.TargetType)
	assert.Equal(t, federation.GuestRef(testGuestID), result.Payload.HostReview.Author)
	assert.Equal(t, 4, result.Payload.LocationReview.Rating)
	assert.Equal(t, federation.GuestRef(testGuestID), result.Payload.LocationReview.Author)

	d.repo.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(r *entity.Review) bool {
		return r.TargetType == entity.TargetHost && r.TargetID == testHostID && r.AuthorID == testGuestID
	}))
	d.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	require.Len(t, d.publisher.Messages, 2)
	var event entity.ReviewEvent
	require.NoError(t, json.Unmarshal(d.publisher.Messages[0], &event))
	assert.Equal(t, entity.EventReviewCreated, event.EventType)
	assert.Equal(t, entity.TargetListing, event.TargetType)
	assert.Equal(t, testListingID, event.TargetID)
}

func TestSubmitHostAndLocationReviews_Anonymous(t *testing.T) {
	d := newTestDeps()

	_, err := d.service.SubmitHostAndLocationReviews(context.Background(), auth.Anonymous, testBookingID, hostAndLocationRequest())

	assert.ErrorIs(t, err, apperror.ErrAuthentication)
	d.bookings.AssertNotCalled(t, "GetGuestIDForBooking", mock.Anything, mock.Anything)
}

func TestSubmitHostAndLocationReviews_HostForbidden(t *testing.T) {
	d := newTestDeps()

	_, err := d.service.SubmitHostAndLocationReviews(context.Background(), host, testBookingID, hostAndLocationRequest())

	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Equal(t, MsgGuestsOnly, err.Error())
}

func TestSubmitHostAndLocationReviews_NotBookingGuest(t *testing.T) {
	d := newTestDeps()
	d.bookings.On("GetGuestIDForBooking", mock.Anything, testBookingID).Return("someone-else", nil)

	result, err := d.service.SubmitHostAndLocationReviews(context.Background(), guest, testBookingID, hostAndLocationRequest())

	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, result.Code)
	assert.Equal(t, MsgBookingNotOwned, result.Message)
	d.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitHostAndLocationReviews_BookingNotFound(t *testing.T) {
	d := newTestDeps()
	d.bookings.On("GetGuestIDForBooking", mock.Anything, testBookingID).Return("", apperror.NotFound("Booking not found"))

	result, err := d.service.SubmitHostAndLocationReviews(context.Background(), guest, testBookingID, hostAndLocationRequest())

	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, result.Code)
	assert.False(t, result.Success)
	assert.Equal(t, "Booking not found", result.Message)
	assert.Nil(t, result.Payload)
}

func TestSubmitHostAndLocationReviews_Duplicate(t *testing.T) {
	d := newTestDeps()
	d.bookings.On("GetGuestIDForBooking", mock.Anything, testBookingID).Return(testGuestID, nil)
	d.bookings.On("GetListingIDForBooking", mock.Anything, testBookingID).Return(testListingID, nil)
	d.repo.On("Create", mock.Anything, reviewOfType(entity.TargetListing)).Return(repository.ErrDuplicateReview)

	result, err := d.service.SubmitHostAndLocationReviews(context.Background(), guest, testBookingID, hostAndLocationRequest())

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, result.Code)
	assert.Equal(t, MsgAlreadyReviewed, result.Message)
	d.listings.AssertNotCalled(t, "GetListingHostID", mock.Anything, mock.Anything)
	assert.Empty(t, d.publisher.Messages)
}

func TestSubmitHostAndLocationReviews_HostReviewFails_RollsBackLocation(t *testing.T) {
	d := newTestDeps()
	locationID := primitive.NewObjectID()

	d.bookings.On("GetGuestIDForBooking", mock.Anything, testBookingID).Return(testGuestID, nil)
	d.bookings.On("GetListingIDForBooking", mock.Anything, testBookingID).Return(testListingID, nil)
	d.listings.On("GetListingHostID", mock.Anything, testListingID).Return(testHostID, nil)
	d.repo.On("Create", mock.Anything, reviewOfType(entity.TargetListing)).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Review).ID = locationID
	})
	d.repo.On("Create", mock.Anything, reviewOfType(entity.TargetHost)).Return(errors.New("mongo down"))
	d.repo.On("Delete", mock.Anything, locationID.Hex()).Return(nil)

	result, err := d.service.SubmitHostAndLocationReviews(context.Background(), guest, testBookingID, hostAndLocationRequest())

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Failed to submit review", result.Message)
	d.repo.AssertCalled(t, "Delete", mock.Anything, locationID.Hex())
	assert.Empty(t, d.publisher.Messages)
}

func TestSubmitHostAndLocationReviews_ListingLookupFails_RollsBackLocation(t *testing.T) {
	d := newTestDeps()

	d.bookings.On("GetGuestIDForBooking", mock.Anything, testBookingID).Return(testGuestID, nil)
	d.bookings.On("GetListingIDForBooking", mock.Anything, testBookingID).Return(testListingID, nil)
	d.listings.On("GetListingHostID", mock.Anything, testListingID).Return("", apperror.NotFound("Listing not found"))
	d.repo.On("Create", mock.Anything, reviewOfType(entity.TargetListing)).Return(nil).Run(assignID)
	d.repo.On("Delete", mock.Anything, mock.Anything).Return(nil)

	result, err := d.service.SubmitHostAndLocationReviews(context.Background(), guest, testBookingID, hostAndLocationRequest())

	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, result.Code)
	d.repo.AssertNumberOfCalls(t, "Delete", 1)
}

func TestSubmitHostAndLocationReviews_KafkaErrorIgnored(t *testing.T) {
	d := newTestDeps()

	d.bookings.On("GetGuestIDForBooking", mock.Anything, testBookingID).Return(testGuestID, nil)
	d.bookings.On("GetListingIDForBooking", mock.Anything, testBookingID).Return(testListingID, nil)
	d.listings.On("GetListingHostID", mock.Anything, testListingID).Return(testHostID, nil)
	d.repo.On("Create", mock.Anything, mock.Anything).Return(nil).Run(assignID)
	d.publisher.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("kafka error"))

	result, err := d.service.SubmitHostAndLocationReviews(context.Background(), guest, testBookingID, hostAndLocationRequest())

	require.NoError(t, err)
	assert.True(t, result.Success)
}

// ===================== SubmitGuestReview Tests =====================

func TestSubmitGuestReview_Success(t *testing.T) {
	// Arrange
	d := newTestDeps()
	req := &entity.SubmitGuestReviewRequest{GuestReview: entity.ReviewInput{Text: "Left the place spotless", Rating: 5}}

	d.bookings.On("GetListingIDForBooking", mock.Anything, testBookingID).Return(testListingID, nil)
	d.listings.On("GetListingHostID", mock.Anything, testListingID).Return(testHostID, nil)
	d.bookings.On("GetGuestIDForBooking", mock.Anything, testBookingID).Return(testGuestID, nil)
	d.repo.On("Create", mock.Anything, reviewOfType(entity.TargetGuest)).Return(nil).Run(assignID)
	d.publisher.On("PublishMessage", mock.Anything, testBookingID, mock.Anything).Return(nil)

	// Act
	result, err := d.service.SubmitGuestReview(context.Background(), host, testBookingID, req)

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, MsgGuestReviewed, result.Message)
	require.NotNil(t, result.Payload)
	assert.Equal(t, federation.HostRef(testHostID), result.Payload.GuestReview.Author)
	d.repo.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(r *entity.Review) bool {
		return r.TargetID == testGuestID && r.AuthorID == testHostID
	}))
	assert.Len(t, d.publisher.Messages, 1)
}

func TestSubmitGuestReview_GuestForbidden(t *testing.T) {
	d := newTestDeps()
	req := &entity.SubmitGuestReviewRequest{GuestReview: entity.ReviewInput{Text: "ok", Rating: 3}}

	_, err := d.service.SubmitGuestReview(context.Background(), guest, testBookingID, req)

	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Equal(t, MsgHostsOnly, err.Error())
}

func TestSubmitGuestReview_NotListingHost(t *testing.T) {
	d := newTestDeps()
	req := &entity.SubmitGuestReviewRequest{GuestReview: entity.ReviewInput{Text: "ok", Rating: 3}}

	d.bookings.On("GetListingIDForBooking", mock.Anything, testBookingID).Return(testListingID, nil)
	d.listings.On("GetListingHostID", mock.Anything, testListingID).Return("another-host", nil)

	result, err := d.service.SubmitGuestReview(context.Background(), host, testBookingID, req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, result.Code)
	d.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitGuestReview_Duplicate(t *testing.T) {
	d := newTestDeps()
	req := &entity.SubmitGuestReviewRequest{GuestReview: entity.ReviewInput{Text: "again", Rating: 2}}

	d.bookings.On("GetListingIDForBooking", mock.Anything, testBookingID).Return(testListingID, nil)
	d.listings.On("GetListingHostID", mock.Anything, testListingID).Return(testHostID, nil)
	d.bookings.On("GetGuestIDForBooking", mock.Anything, testBookingID).Return(testGuestID, nil)
	d.repo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateReview)

	result, err := d.service.SubmitGuestReview(context.Background(), host, testBookingID, req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, result.Code)
	assert.Equal(t, MsgAlreadyReviewed, result.Message)
}

// ===================== Query Tests =====================

func TestGetReview_Success(t *testing.T) {
	d := newTestDeps()
	id := primitive.NewObjectID()
	d.repo.On("GetByID", mock.Anything, id.Hex()).Return(&entity.Review{
		ID: id, TargetType: entity.TargetGuest, AuthorID: testHostID, Text: "Polite", Rating: 4,
	}, nil)

	review, err := d.service.GetReview(context.Background(), id.Hex())

	require.NoError(t, err)
	assert.Equal(t, federation.TypeReview, review.Typename)
	assert.Equal(t, id.Hex(), review.ID)
	assert.Equal(t, federation.HostRef(testHostID), review.Author)
}

func TestGetReview_NotFound(t *testing.T) {
	d := newTestDeps()
	d.repo.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrReviewNotFound)

	review, err := d.service.GetReview(context.Background(), "missing")

	assert.Nil(t, review)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, MsgReviewNotFound, err.Error())
}

func TestGetReviewForBooking_Absent(t *testing.T) {
	d := newTestDeps()
	d.repo.On("GetForBooking", mock.Anything, testBookingID, entity.TargetHost).Return(nil, repository.ErrReviewNotFound)

	review, err := d.service.GetReviewForBooking(context.Background(), testBookingID, entity.TargetHost)

	assert.NoError(t, err)
	assert.Nil(t, review)
}

func TestGetReviewForBooking_Found(t *testing.T) {
	d := newTestDeps()
	d.repo.On("GetForBooking", mock.Anything, testBookingID, entity.TargetListing).Return(&entity.Review{
		ID: primitive.NewObjectID(), BookingID: testBookingID, TargetType: entity.TargetListing, AuthorID: testGuestID, Rating: 5,
	}, nil)

	review, err := d.service.GetReviewForBooking(context.Background(), testBookingID, entity.TargetListing)

	require.NoError(t, err)
	assert.Equal(t, federation.GuestRef(testGuestID), review.Author)
}

func TestGetReviewForBooking_InvalidTargetType(t *testing.T) {
	d := newTestDeps()

	_, err := d.service.GetReviewForBooking(context.Background(), testBookingID, "PAYMENT")

	assert.ErrorIs(t, err, apperror.ErrInvalidState)
	d.repo.AssertNotCalled(t, "GetForBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetHostRating(t *testing.T) {
	d := newTestDeps()
	average := 4.5
	d.repo.On("AverageRating", mock.Anything, entity.TargetHost, testHostID).Return(&average, nil)

	rating, err := d.service.GetHostRating(context.Background(), testHostID)

	require.NoError(t, err)
	assert.Equal(t, federation.TypeHost, rating.Typename)
	require.NotNil(t, rating.OverallRating)
	assert.Equal(t, 4.5, *rating.OverallRating)
}

func TestGetHostRating_NoReviews(t *testing.T) {
	d := newTestDeps()
	d.repo.On("AverageRating", mock.Anything, entity.TargetHost, testHostID).Return(nil, nil)

	rating, err := d.service.GetHostRating(context.Background(), testHostID)

	require.NoError(t, err)
	assert.Nil(t, rating.OverallRating)
}

// ===================== Entities Tests =====================

func TestRegisterEntities_ResolvesReviewAndHost(t *testing.T) {
	d := newTestDeps()
	id := primitive.NewObjectID()
	d.repo.On("GetByID", mock.Anything, id.Hex()).Return(&entity.Review{ID: id, TargetType: entity.TargetHost, AuthorID: testGuestID, Rating: 5}, nil)
	d.repo.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrReviewNotFound)
	d.repo.On("AverageRating", mock.Anything, entity.TargetHost, testHostID).Return(nil, nil)

	resolver := federation.NewResolver()
	d.service.RegisterEntities(resolver)

	results := resolver.ResolveAll(context.Background(), []federation.EntityStub{
		federation.Stub(federation.TypeReview, id.Hex()),
		federation.Stub(federation.TypeReview, "missing"),
		federation.HostRef(testHostID),
	})

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, apperror.ErrNotFound)
	assert.NoError(t, results[2].Err)
	assert.ElementsMatch(t, []string{federation.TypeHost, federation.TypeReview}, resolver.Typenames())
}
