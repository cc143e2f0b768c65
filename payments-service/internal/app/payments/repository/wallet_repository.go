package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"staybnb/payments-service/internal/app/payments/entity"
	"staybnb/pkg/metrics"
)

const serviceName = "payments-service"

type walletRepository struct {
	db *pgxpool.Pool
}

func NewWalletRepository(db *pgxpool.Pool) WalletRepository {
	return &walletRepository{db: db}
}

// Debit списывает средства одной транзакцией: условный UPDATE не дает уйти в минус,
// вставка в журнал с уникальным ключом не дает списать дважды
func (r *walletRepository) Debit(ctx context.Context, userID uuid.UUID, amount float64, key string) (*entity.Movement, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "accounts")
	defer timer.ObserveDuration()

	return r.move(ctx, userID, entity.MovementDebit, amount, key, func(tx pgx.Tx) (float64, error) {
		var balance float64
		err := tx.QueryRow(ctx, `
			UPDATE accounts
			SET balance = balance - $2, updated_at = now()
			WHERE user_id = $1 AND balance >= $2
			RETURNING balance
		`, userID, amount).Scan(&balance)
		if errors.Is(err, pgx.ErrNoRows) {
			// Либо кошелька нет, либо не хватает средств, для вызывающего это одно и то же
			return 0, ErrInsufficientFunds
		}
		return balance, err
	})
}

// Credit зачисляет средства, кошелек создается при первом зачислении
func (r *walletRepository) Credit(ctx context.Context, userID uuid.UUID, amount float64, key string) (*entity.Movement, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "accounts")
	defer timer.ObserveDuration()

	return r.move(ctx, userID, entity.MovementCredit, amount, key, func(tx pgx.Tx) (float64, error) {
		var balance float64
		err := tx.QueryRow(ctx, `
			INSERT INTO accounts (user_id, balance, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (user_id) DO UPDATE
			SET balance = accounts.balance + EXCLUDED.balance, updated_at = now()
			RETURNING balance
		`, userID, amount).Scan(&balance)
		return balance, err
	})
}

// move применяет изменение остатка и пишет строку журнала в одной транзакции
func (r *walletRepository) move(
	ctx context.Context,
	userID uuid.UUID,
	movementType entity.MovementType,
	amount float64,
	key string,
	apply func(tx pgx.Tx) (float64, error),
) (*entity.Movement, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	balance, err := apply(tx)
	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			return nil, err
		}
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return nil, fmt.Errorf("failed to apply %s: %w", movementType, err)
	}

	movement := &entity.Movement{
		ID:             uuid.New(),
		UserID:         userID,
		Type:           movementType,
		Amount:         amount,
		BalanceAfter:   balance,
		IdempotencyKey: key,
		CreatedAt:      time.Now().UTC(),
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO movements (id, user_id, type, amount, balance_after, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, movement.ID, movement.UserID, string(movement.Type), movement.Amount, movement.BalanceAfter, movement.IdempotencyKey, movement.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			// Ключ уже использован: откатываем движение и отдаем исходную запись
			_ = tx.Rollback(ctx)
			existing, getErr := r.GetMovement(ctx, key)
			if getErr != nil {
				return nil, getErr
			}
			return replayOf(existing, movementType, userID)
		}
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return nil, fmt.Errorf("failed to insert movement: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit movement: %w", err)
	}

	return movement, nil
}

// replayOf отдает сохраненное движение как повтор, только если оно того же типа и пользователя
func replayOf(stored *entity.Movement, movementType entity.MovementType, userID uuid.UUID) (*entity.Movement, error) {
	if stored.Type != movementType || stored.UserID != userID {
		return nil, ErrKeyConflict
	}
	stored.Replayed = true
	return stored, nil
}

// GetMovement ищет движение по ключу идемпотентности
func (r *walletRepository) GetMovement(ctx context.Context, key string) (*entity.Movement, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "movements")
	defer timer.ObserveDuration()

	var (
		movement     entity.Movement
		movementType string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, type, amount, balance_after, idempotency_key, created_at
		FROM movements
		WHERE idempotency_key = $1
	`, key).Scan(
		&movement.ID,
		&movement.UserID,
		&movementType,
		&movement.Amount,
		&movement.BalanceAfter,
		&movement.IdempotencyKey,
		&movement.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get movement: %w", err)
	}
	movement.Type = entity.MovementType(movementType)

	return &movement, nil
}

// GetBalance возвращает остаток, у пользователя без кошелька он нулевой
func (r *walletRepository) GetBalance(ctx context.Context, userID uuid.UUID) (float64, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "accounts")
	defer timer.ObserveDuration()

	var balance float64
	err := r.db.QueryRow(ctx, `SELECT balance FROM accounts WHERE user_id = $1`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}
