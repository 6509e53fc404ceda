package port

import (
	"context"
	"time"

	"github.com/YOOYEONGHO/naver-land-collector/internal/core/domain"
)

// SnapshotStoragePort - контракт append-only хранилища снимков.
// Две равноправные реализации: таблица PostgreSQL и плоский JSON-файл на комплекс.
// Реализация обязана:
//   - выполнять Append атомарно: либо вся пачка, либо ничего;
//   - никогда не обновлять и не удалять уже записанные строки;
//   - сериализовать конкурентные Append (транзакция или мьютекс).
type SnapshotStoragePort interface {
	// Append дописывает пачку нормализованных записей одного прогона.
	Append(ctx context.Context, records []domain.ListingRecord) error

	// Query возвращает историю комплекса в интервале, отсортированную по
	// (collected_at, listing_id) по возрастанию. Неизвестный комплекс или
	// пустой интервал - пустой срез, не ошибка.
	Query(ctx context.Context, complexID string, tr domain.TimeRange) ([]domain.ListingRecord, error)

	// SnapshotTimes возвращает различные моменты сбора комплекса по возрастанию.
	SnapshotTimes(ctx context.Context, complexID string) ([]time.Time, error)

	// LatestSnapshotAt возвращает ближайший момент снимка не позже at,
	// nil - снимков не позже at нет.
	LatestSnapshotAt(ctx context.Context, complexID string, at time.Time) (*time.Time, error)

	// SnapshotListings возвращает один полный снимок (все записи с данным collected_at).
	SnapshotListings(ctx context.Context, complexID string, collectedAt time.Time) ([]domain.ListingRecord, error)
}
