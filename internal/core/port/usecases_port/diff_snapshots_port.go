package usecases_port

import (
	"context"
	"time"

	"github.com/YOOYEONGHO/naver-land-collector/internal/core/domain"
)

type DiffSnapshotsUseCase interface {
	Diff(ctx context.Context, complexID string, from, to time.Time) (*domain.SnapshotDiff, error)
}
