package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"staybnb/payments-service/internal/app/payments/entity"
	"staybnb/payments-service/internal/app/payments/repository"
	"staybnb/payments-service/internal/app/payments/repository/mocks"
	"staybnb/pkg/apperror"
)

func newTestService() (*PaymentsService, *mocks.MockWalletRepository, *mocks.MockIdempotencyCache) {
	walletRepo := new(mocks.MockWalletRepository)
	cache := new(mocks.MockIdempotencyCache)
	return NewPaymentsService(walletRepo, cache), walletRepo, cache
}

func newMovement(userID uuid.UUID, movementType entity.MovementType, amount, balanceAfter float64, key string) *entity.Movement {
	return &entity.Movement{
		ID:             uuid.New(),
		UserID:         userID,
		Type:           movementType,
		Amount:         amount,
		BalanceAfter:   balanceAfter,
		IdempotencyKey: key,
	}
}

// ==================== SubtractFunds Tests ====================

func TestPaymentsService_SubtractFunds_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, walletRepo, cache := newTestService()
	userID := uuid.New()
	key := "booking:a-1:debit"
	movement := newMovement(userID, entity.MovementDebit, 300, 700, key)

	cache.On("Get", ctx, key).Return(nil, nil)
	walletRepo.On("GetMovement", ctx, key).Return(nil, repository.ErrNotFound)
	walletRepo.On("Debit", ctx, userID, float64(300), key).Return(movement, nil)
	cache.On("Set", ctx, movement).Return(nil)

	// Act
	result, err := svc.SubtractFunds(ctx, &entity.FundsRequest{UserID: userID, Amount: 300, IdempotencyKey: key})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, float64(700), result.BalanceAfter)
	assert.False(t, result.Replayed)
	walletRepo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestPaymentsService_SubtractFunds_InsufficientFunds(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, walletRepo, cache := newTestService()
	userID := uuid.New()

	cache.On("Get", ctx, "k").Return(nil, nil)
	walletRepo.On("GetMovement", ctx, "k").Return(nil, repository.ErrNotFound)
	walletRepo.On("Debit", ctx, userID, float64(5000), "k").Return(nil, repository.ErrInsufficientFunds)

	// Act
	result, err := svc.SubtractFunds(ctx, &entity.FundsRequest{UserID: userID, Amount: 5000, IdempotencyKey: "k"})

	// Assert
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperror.ErrInsufficientFunds)
	assert.Equal(t, "Insufficient funds", err.Error())
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
}

func TestPaymentsService_SubtractFunds_ReplayFromCache(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, walletRepo, cache := newTestService()
	userID := uuid.New()
	cached := newMovement(userID, entity.MovementDebit, 300, 700, "k")

	cache.On("Get", ctx, "k").Return(cached, nil)

	// Act
	result, err := svc.SubtractFunds(ctx, &entity.FundsRequest{UserID: userID, Amount: 300, IdempotencyKey: "k"})

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Replayed)
	walletRepo.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentsService_SubtractFunds_ReplayFromLedger(t *testing.T) {
	ctx := context.Background()
	svc, walletRepo, cache := newTestService()
	userID := uuid.New()
	existing := newMovement(userID, entity.MovementDebit, 300, 700, "k")

	cache.On("Get", ctx, "k").Return(nil, errors.New("connection refused"))
	walletRepo.On("GetMovement", ctx, "k").Return(existing, nil)

	result, err := svc.SubtractFunds(ctx, &entity.FundsRequest{UserID: userID, Amount: 300, IdempotencyKey: "k"})

	require.NoError(t, err)
	assert.True(t, result.Replayed)
	assert.Equal(t, existing.ID, result.ID)
	walletRepo.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentsService_SubtractFunds_KeyReusedForCredit(t *testing.T) {
	ctx := context.Background()
	svc, _, cache := newTestService()
	userID := uuid.New()

	cache.On("Get", ctx, "k").Return(newMovement(userID, entity.MovementCredit, 300, 300, "k"), nil)

	_, err := svc.SubtractFunds(ctx, &entity.FundsRequest{UserID: userID, Amount: 300, IdempotencyKey: "k"})

	assert.ErrorIs(t, err, apperror.ErrInvalidState)
}

func TestPaymentsService_SubtractFunds_GeneratesKey(t *testing.T) {
	ctx := context.Background()
	svc, walletRepo, cache := newTestService()
	userID := uuid.New()

	walletRepo.On("Debit", ctx, userID, float64(10), mock.MatchedBy(func(key string) bool {
		_, err := uuid.Parse(key)
		return err == nil
	})).Return(newMovement(userID, entity.MovementDebit, 10, 90, "generated"), nil)
	cache.On("Set", ctx, mock.AnythingOfType("*entity.Movement")).Return(errors.New("redis down"))

	result, err := svc.SubtractFunds(ctx, &entity.FundsRequest{UserID: userID, Amount: 10})

	// Ошибка кеша не мешает ответу
	require.NoError(t, err)
	assert.Equal(t, float64(90), result.BalanceAfter)
	cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestPaymentsService_SubtractFunds_NonPositiveAmount(t *testing.T) {
	svc, walletRepo, _ := newTestService()

	_, err := svc.SubtractFunds(context.Background(), &entity.FundsRequest{UserID: uuid.New(), Amount: 0})

	assert.ErrorIs(t, err, apperror.ErrInvalidState)
	walletRepo.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentsService_SubtractFunds_RepositoryError(t *testing.T) {
	ctx := context.Background()
	svc, walletRepo, cache := newTestService()
	userID := uuid.New()

	cache.On("Get", ctx, "k").Return(nil, nil)
	walletRepo.On("GetMovement", ctx, "k").Return(nil, repository.ErrNotFound)
	walletRepo.On("Debit", ctx, userID, float64(1), "k").Return(nil, errors.New("connection reset"))

	_, err := svc.SubtractFunds(ctx, &entity.FundsRequest{UserID: userID, Amount: 1, IdempotencyKey: "k"})

	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}

// ==================== AddFunds Tests ====================

func TestPaymentsService_AddFunds_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, walletRepo, cache := newTestService()
	userID := uuid.New()
	key := "booking:a-1:refund"
	movement := newMovement(userID, entity.MovementCredit, 300, 1000, key)

	cache.On("Get", ctx, key).Return(nil, nil)
	walletRepo.On("GetMovement", ctx, key).Return(nil, repository.ErrNotFound)
	walletRepo.On("Credit", ctx, userID, float64(300), key).Return(movement, nil)
	cache.On("Set", ctx, movement).Return(nil)

	// Act
	result, err := svc.AddFunds(ctx, &entity.FundsRequest{UserID: userID, Amount: 300, IdempotencyKey: key})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.MovementCredit, result.Type)
	assert.Equal(t, float64(1000), result.BalanceAfter)
}

func TestPaymentsService_AddFunds_ConcurrentReplay(t *testing.T) {
	// Ключ занят параллельным запросом: репозиторий сам вернул исходную запись
	ctx := context.Background()
	svc, walletRepo, cache := newTestService()
	userID := uuid.New()
	existing := newMovement(userID, entity.MovementCredit, 300, 1000, "k")
	existing.Replayed = true

	cache.On("Get", ctx, "k").Return(nil, nil)
	walletRepo.On("GetMovement", ctx, "k").Return(nil, repository.ErrNotFound)
	walletRepo.On("Credit", ctx, userID, float64(300), "k").Return(existing, nil)
	cache.On("Set", ctx, existing).Return(nil)

	result, err := svc.AddFunds(ctx, &entity.FundsRequest{UserID: userID, Amount: 300, IdempotencyKey: "k"})

	require.NoError(t, err)
	assert.True(t, result.Replayed)
}

func TestPaymentsService_AddFunds_ConcurrentKeyConflict(t *testing.T) {
	// Ключ занят параллельным списанием: повтором это не считается
	ctx := context.Background()
	svc, walletRepo, cache := newTestService()
	userID := uuid.New()

	// Arrange
	cache.On("Get", ctx, "k").Return(nil, nil)
	walletRepo.On("GetMovement", ctx, "k").Return(nil, repository.ErrNotFound)
	walletRepo.On("Credit", ctx, userID, float64(300), "k").Return(nil, repository.ErrKeyConflict)

	// Act
	result, err := svc.AddFunds(ctx, &entity.FundsRequest{UserID: userID, Amount: 300, IdempotencyKey: "k"})

	// Assert
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperror.ErrInvalidState)
	assert.Contains(t, err.Error(), keyConflictMessage)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
}

// ==================== GetBalance Tests ====================

func TestPaymentsService_GetBalance(t *testing.T) {
	ctx := context.Background()
	svc, walletRepo, _ := newTestService()
	userID := uuid.New()

	walletRepo.On("GetBalance", ctx, userID).Return(float64(250), nil)

	balance, err := svc.GetBalance(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, userID, balance.UserID)
	assert.Equal(t, float64(250), balance.Balance)
}

func TestPaymentsService_GetBalance_Error(t *testing.T) {
	ctx := context.Background()
	svc, walletRepo, _ := newTestService()
	userID := uuid.New()

	walletRepo.On("GetBalance", ctx, userID).Return(float64(0), errors.New("db down"))

	_, err := svc.GetBalance(ctx, userID)

	assert.Error(t, err)
}
