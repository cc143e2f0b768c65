package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	user_id    UUID PRIMARY KEY,
	balance    NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS movements (
	id              UUID PRIMARY KEY,
	user_id         UUID NOT NULL REFERENCES accounts (user_id),
	type            TEXT NOT NULL CHECK (type IN ('debit', 'credit')),
	amount          NUMERIC(12,2) NOT NULL CHECK (amount > 0),
	balance_after   NUMERIC(12,2) NOT NULL,
	idempotency_key TEXT NOT NULL UNIQUE,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_movements_user_id ON movements (user_id);
`

// Migrate создает таблицы кошельков, если их нет
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate payments schema: %w", err)
	}
	return nil
}
