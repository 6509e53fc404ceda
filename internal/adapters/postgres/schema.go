package postgres

import (
	"context"
	"fmt"
)

// Схема хранилища снимков. Таблица append-only: путей UPDATE/DELETE в коде
// нет, натуральный ключ (complex_id, listing_id, collected_at) закреплен
// ограничением уникальности. created_at - серверное время вставки, отдельное
// от аналитического collected_at.
//
// Два вторичных индекса из контракта хранилища: по (complex_id, collected_at)
// для сканов временных рядов и по (complex_id, listing_id) для истории
// конкретного объявления.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS listing_snapshots (
	id                BIGSERIAL PRIMARY KEY,
	complex_id        TEXT        NOT NULL,
	listing_id        TEXT        NOT NULL,
	collected_at      TIMESTAMPTZ NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),

	listing_type_name TEXT NOT NULL DEFAULT '',
	trade_type_name   TEXT NOT NULL DEFAULT '',
	price_raw         TEXT NOT NULL DEFAULT '',
	price_normalized  BIGINT,
	area_primary      TEXT NOT NULL DEFAULT '',
	area_secondary    TEXT NOT NULL DEFAULT '',
	floor_info        TEXT NOT NULL DEFAULT '',
	direction         TEXT NOT NULL DEFAULT '',
	latitude          DOUBLE PRECISION,
	longitude         DOUBLE PRECISION,
	geohash           TEXT NOT NULL DEFAULT '',
	trade_price       TEXT NOT NULL DEFAULT '',
	realtor_name      TEXT NOT NULL DEFAULT '',
	building_name     TEXT NOT NULL DEFAULT '',
	description       TEXT NOT NULL DEFAULT '',
	confirmed_date    TEXT NOT NULL DEFAULT '',

	CONSTRAINT listing_snapshots_natural_key UNIQUE (complex_id, listing_id, collected_at)
);

CREATE INDEX IF NOT EXISTS idx_listing_snapshots_collected_at
	ON listing_snapshots (complex_id, collected_at DESC);

CREATE INDEX IF NOT EXISTS idx_listing_snapshots_listing_id
	ON listing_snapshots (complex_id, listing_id);
`

// EnsureSchema создает таблицу и индексы, если их еще нет.
func (a *PostgresStorageAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := a.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure listing_snapshots schema: %w", err)
	}
	return nil
}
