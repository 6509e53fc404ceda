package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/YOOYEONGHO/naver-land-collector/internal/contextkeys"
	"github.com/YOOYEONGHO/naver-land-collector/internal/core/domain"
	"github.com/YOOYEONGHO/naver-land-collector/internal/core/port"
)

// QueryListingsUseCase - читающая проекция истории для аналитика (дашборд,
// экспорт). Потребители не пишут через этот путь.
type QueryListingsUseCase struct {
	storage port.SnapshotStoragePort
}

// NewQueryListingsUseCase создает новый экземпляр use case.
func NewQueryListingsUseCase(storage port.SnapshotStoragePort) *QueryListingsUseCase {
	return &QueryListingsUseCase{storage: storage}
}

// Query возвращает историю комплекса в интервале в порядке
// (collected_at, listing_id). Неизвестный комплекс - пустой срез.
func (uc *QueryListingsUseCase) Query(ctx context.Context, complexID string, tr domain.TimeRange) ([]domain.ListingRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "QueryListings",
		"complex_id": complexID,
	})

	records, err := uc.storage.Query(ctx, complexID, tr)
	if err != nil {
		ucLogger.Error("Storage query failed", err, nil)
		return nil, fmt.Errorf("%w: query complex %s: %v", domain.ErrStoreFailed, complexID, err)
	}

	ucLogger.Debug("Query finished", port.Fields{"count": len(records)})
	return records, nil
}

// SnapshotTimes возвращает моменты всех прогонов сбора комплекса по возрастанию.
func (uc *QueryListingsUseCase) SnapshotTimes(ctx context.Context, complexID string) ([]time.Time, error) {
	logger := contextkeys.LoggerFromContext(ctx)

	times, err := uc.storage.SnapshotTimes(ctx, complexID)
	if err != nil {
		logger.Error("Storage snapshot times query failed", err, port.Fields{"complex_id": complexID})
		return nil, fmt.Errorf("%w: snapshot times for complex %s: %v", domain.ErrStoreFailed, complexID, err)
	}
	return times, nil
}
