package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS amenities (
	id       TEXT PRIMARY KEY,
	category TEXT NOT NULL,
	name     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS listings (
	id              UUID PRIMARY KEY,
	host_id         UUID NOT NULL,
	title           TEXT NOT NULL,
	description     TEXT NOT NULL,
	photo_thumbnail TEXT NOT NULL DEFAULT '',
	num_of_beds     INT NOT NULL CHECK (num_of_beds > 0),
	cost_per_night  NUMERIC(12,2) NOT NULL CHECK (cost_per_night > 0),
	location_type   TEXT NOT NULL CHECK (location_type IN ('SPACESHIP', 'HOUSE', 'CAMPSITE', 'APARTMENT', 'ROOM')),
	is_featured     BOOLEAN NOT NULL DEFAULT false,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_listings_host_id ON listings (host_id);
CREATE INDEX IF NOT EXISTS idx_listings_num_of_beds ON listings (num_of_beds);

CREATE TABLE IF NOT EXISTS listing_amenities (
	listing_id UUID NOT NULL REFERENCES listings (id) ON DELETE CASCADE,
	amenity_id TEXT NOT NULL REFERENCES amenities (id),
	PRIMARY KEY (listing_id, amenity_id)
);

INSERT INTO amenities (id, category, name) VALUES
	('am-1', 'Accommodation Details', 'Interdimensional wifi'),
	('am-2', 'Accommodation Details', 'Towel'),
	('am-3', 'Space Survival', 'Oxygen'),
	('am-4', 'Space Survival', 'Prepackaged meals'),
	('am-5', 'Outdoors', 'Campfire'),
	('am-6', 'Outdoors', 'Hiking trails'),
	('am-7', 'Accommodation Details', 'Kitchen'),
	('am-8', 'Accommodation Details', 'Heating')
ON CONFLICT (id) DO NOTHING;
`

// Migrate создает таблицы listings-service и заполняет справочник удобств
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate listings schema: %w", err)
	}
	return nil
}
