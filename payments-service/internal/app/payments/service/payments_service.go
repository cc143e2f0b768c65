package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"staybnb/payments-service/internal/app/payments/entity"
	"staybnb/payments-service/internal/app/payments/repository"
	"staybnb/pkg/apperror"
	"staybnb/pkg/logger"
	"staybnb/pkg/metrics"
)

const (
	insufficientFundsMessage = "Insufficient funds"
	keyConflictMessage       = "Idempotency key already used for another operation"
)

type PaymentsService struct {
	walletRepo repository.WalletRepository
	cache      repository.IdempotencyCache
}

func NewPaymentsService(walletRepo repository.WalletRepository, cache repository.IdempotencyCache) *PaymentsService {
	return &PaymentsService{
		walletRepo: walletRepo,
		cache:      cache,
	}
}

// SubtractFunds списывает средства. Отказ по остатку возвращается как InsufficientFundsError.
func (s *PaymentsService) SubtractFunds(ctx context.Context, req *entity.FundsRequest) (*entity.Movement, error) {
	return s.apply(ctx, entity.MovementDebit, req, s.walletRepo.Debit)
}

// AddFunds зачисляет средства, используется для компенсации брони
func (s *PaymentsService) AddFunds(ctx context.Context, req *entity.FundsRequest) (*entity.Movement, error) {
	return s.apply(ctx, entity.MovementCredit, req, s.walletRepo.Credit)
}

func (s *PaymentsService) GetBalance(ctx context.Context, userID uuid.UUID) (*entity.Balance, error) {
	balance, err := s.walletRepo.GetBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return &entity.Balance{UserID: userID, Balance: balance}, nil
}

type moveFunc func(ctx context.Context, userID uuid.UUID, amount float64, key string) (*entity.Movement, error)

func (s *PaymentsService) apply(ctx context.Context, movementType entity.MovementType, req *entity.FundsRequest, move moveFunc) (*entity.Movement, error) {
	if req.Amount <= 0 {
		return nil, apperror.InvalidState("Amount must be positive")
	}

	key := req.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	} else if replayed := s.lookup(ctx, key); replayed != nil {
		if replayed.Type != movementType || replayed.UserID != req.UserID {
			return nil, apperror.InvalidState(keyConflictMessage)
		}
		metrics.RecordPaymentMovement(string(movementType), "replayed")
		return replayed, nil
	}

	movement, err := move(ctx, req.UserID, req.Amount, key)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientFunds) {
			metrics.RecordPaymentMovement(string(movementType), "insufficient")
			return nil, apperror.InsufficientFunds(insufficientFundsMessage)
		}
		if errors.Is(err, repository.ErrKeyConflict) {
			metrics.RecordPaymentMovement(string(movementType), "conflict")
			return nil, apperror.InvalidState(keyConflictMessage)
		}
		metrics.RecordPaymentMovement(string(movementType), "failed")
		return nil, fmt.Errorf("failed to %s funds: %w", movementType, err)
	}

	status := "ok"
	if movement.Replayed {
		status = "replayed"
	}
	metrics.RecordPaymentMovement(string(movementType), status)

	if err := s.cache.Set(ctx, movement); err != nil {
		logger.Warn().Err(err).Str("idempotency_key", key).Msg("Failed to cache movement")
	}

	logger.Info().
		Str("user_id", req.UserID.String()).
		Str("type", string(movementType)).
		Float64("amount", req.Amount).
		Bool("replayed", movement.Replayed).
		Msg("Funds moved")

	return movement, nil
}

// lookup ищет уже выполненное движение: сначала Redis, затем журнал
func (s *PaymentsService) lookup(ctx context.Context, key string) *entity.Movement {
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn().Err(err).Str("idempotency_key", key).Msg("Idempotency cache unavailable")
	}
	if cached != nil {
		cached.Replayed = true
		return cached
	}

	existing, err := s.walletRepo.GetMovement(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Warn().Err(err).Str("idempotency_key", key).Msg("Failed to look up movement")
		}
		return nil
	}
	existing.Replayed = true
	return existing
}
