package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/YOOYEONGHO/naver-land-collector/internal/contextkeys"
	"github.com/YOOYEONGHO/naver-land-collector/internal/core/domain"
	"github.com/YOOYEONGHO/naver-land-collector/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorageAdapter реализует SnapshotStoragePort для PostgreSQL.
// Все снимки всех комплексов лежат в одной таблице listing_snapshots,
// комплекс - ключ партиционирования в адресации, а не отдельная схема.
type PostgresStorageAdapter struct {
	pool *pgxpool.Pool
}

// NewPostgresStorageAdapter создает новый экземпляр адаптера.
func NewPostgresStorageAdapter(pool *pgxpool.Pool) (*PostgresStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresStorageAdapter{pool: pool}, nil
}

var copyColumns = []string{
	"complex_id", "listing_id", "collected_at",
	"listing_type_name", "trade_type_name",
	"price_raw", "price_normalized",
	"area_primary", "area_secondary", "floor_info", "direction",
	"latitude", "longitude", "geohash",
	"trade_price", "realtor_name", "building_name",
	"description", "confirmed_date",
}

// Append сохраняет пачку записей одного прогона в одной транзакции,
// используя протокол COPY. Либо вся пачка, либо ничего: defer tx.Rollback
// откатывает частично залитые строки при любой ошибке до Commit.
// created_at назначает сама база (DEFAULT NOW()), строки после Commit
// никогда не обновляются и не удаляются.
func (a *PostgresStorageAdapter) Append(ctx context.Context, records []domain.ListingRecord) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":    "PostgresStorageAdapter",
		"method":       "Append",
		"record_count": len(records),
	})

	if len(records) == 0 {
		repoLogger.Debug("No records to append", nil)
		return nil
	}

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		repoLogger.Error("Failed to begin transaction", err, nil)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows := make([][]interface{}, len(records))
	for i, rec := range records {
		rows[i] = []interface{}{
			rec.ComplexID, rec.ListingID, rec.CollectedAt,
			rec.ListingTypeName, rec.TradeTypeName,
			rec.PriceRaw, rec.PriceNormalized,
			rec.AreaPrimary, rec.AreaSecondary, rec.FloorInfo, rec.Direction,
			rec.Latitude, rec.Longitude, rec.Geohash,
			rec.TradePrice, rec.RealtorName, rec.BuildingName,
			rec.Description, rec.ConfirmedDate,
		}
	}

	copied, err := tx.CopyFrom(ctx, pgx.Identifier{"listing_snapshots"}, copyColumns, pgx.CopyFromRows(rows))
	if err != nil {
		repoLogger.Error("COPY failed, batch rolled back", err, nil)
		return fmt.Errorf("failed to copy listing snapshot batch: %w", err)
	}
	if int(copied) != len(records) {
		repoLogger.Error("COPY row count mismatch, batch rolled back", nil, port.Fields{"copied": copied})
		return fmt.Errorf("copy row count mismatch: copied %d of %d", copied, len(records))
	}

	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit transaction", err, nil)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Info("Batch appended", port.Fields{"copied": copied})
	return nil
}

// Query возвращает историю комплекса в интервале в порядке
// (collected_at, listing_id). Неизвестный комплекс - пустой срез, не ошибка.
func (a *PostgresStorageAdapter) Query(ctx context.Context, complexID string, tr domain.TimeRange) ([]domain.ListingRecord, error) {
	sql := `
		SELECT complex_id, listing_id, collected_at, created_at,
		       listing_type_name, trade_type_name,
		       price_raw, price_normalized,
		       area_primary, area_secondary, floor_info, direction,
		       latitude, longitude, geohash,
		       trade_price, realtor_name, building_name,
		       description, confirmed_date
		FROM listing_snapshots
		WHERE complex_id = $1
		  AND ($2::timestamptz IS NULL OR collected_at >= $2)
		  AND ($3::timestamptz IS NULL OR collected_at <= $3)
		ORDER BY collected_at ASC, listing_id ASC;
	`

	rows, err := a.pool.Query(ctx, sql, complexID, tr.From, tr.To)
	if err != nil {
		return nil, fmt.Errorf("failed to query listing snapshots: %w", err)
	}
	defer rows.Close()

	return scanListingRecords(rows)
}

// SnapshotTimes возвращает различные моменты сбора комплекса по возрастанию.
func (a *PostgresStorageAdapter) SnapshotTimes(ctx context.Context, complexID string) ([]time.Time, error) {
	rows, err := a.pool.Query(ctx,
		`SELECT DISTINCT collected_at FROM listing_snapshots WHERE complex_id = $1 ORDER BY collected_at ASC`,
		complexID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot times: %w", err)
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot time: %w", err)
		}
		times = append(times, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot times: %w", err)
	}
	return times, nil
}

// LatestSnapshotAt возвращает ближайший момент снимка не позже at,
// nil - истории не позже at нет.
func (a *PostgresStorageAdapter) LatestSnapshotAt(ctx context.Context, complexID string, at time.Time) (*time.Time, error) {
	var latest *time.Time
	err := a.pool.QueryRow(ctx,
		`SELECT MAX(collected_at) FROM listing_snapshots WHERE complex_id = $1 AND collected_at <= $2`,
		complexID, at,
	).Scan(&latest)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve latest snapshot: %w", err)
	}
	return latest, nil
}

// SnapshotListings возвращает один полный снимок, отсортированный по listing_id.
func (a *PostgresStorageAdapter) SnapshotListings(ctx context.Context, complexID string, collectedAt time.Time) ([]domain.ListingRecord, error) {
	sql := `
		SELECT complex_id, listing_id, collected_at, created_at,
		       listing_type_name, trade_type_name,
		       price_raw, price_normalized,
		       area_primary, area_secondary, floor_info, direction,
		       latitude, longitude, geohash,
		       trade_price, realtor_name, building_name,
		       description, confirmed_date
		FROM listing_snapshots
		WHERE complex_id = $1 AND collected_at = $2
		ORDER BY listing_id ASC;
	`

	rows, err := a.pool.Query(ctx, sql, complexID, collectedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot listings: %w", err)
	}
	defer rows.Close()

	return scanListingRecords(rows)
}

func scanListingRecords(rows pgx.Rows) ([]domain.ListingRecord, error) {
	records := make([]domain.ListingRecord, 0)
	for rows.Next() {
		var rec domain.ListingRecord
		err := rows.Scan(
			&rec.ComplexID, &rec.ListingID, &rec.CollectedAt, &rec.CreatedAt,
			&rec.ListingTypeName, &rec.TradeTypeName,
			&rec.PriceRaw, &rec.PriceNormalized,
			&rec.AreaPrimary, &rec.AreaSecondary, &rec.FloorInfo, &rec.Direction,
			&rec.Latitude, &rec.Longitude, &rec.Geohash,
			&rec.TradePrice, &rec.RealtorName, &rec.BuildingName,
			&rec.Description, &rec.ConfirmedDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read listing records: %w", err)
	}
	return records, nil
}
