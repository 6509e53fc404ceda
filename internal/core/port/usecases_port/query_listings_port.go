package usecases_port

import (
	"context"
	"time"

	"github.com/YOOYEONGHO/naver-land-collector/internal/core/domain"
)

type QueryListingsUseCase interface {
	Query(ctx context.Context, complexID string, tr domain.TimeRange) ([]domain.ListingRecord, error)
}

type ListSnapshotsUseCase interface {
	SnapshotTimes(ctx context.Context, complexID string) ([]time.Time, error)
}
