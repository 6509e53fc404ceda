package usecases_port

import (
	"context"

	"github.com/YOOYEONGHO/naver-land-collector/internal/core/domain"
)

type CollectSnapshotUseCase interface {
	Run(ctx context.Context, complexID string, tradeType string) (*domain.CollectionResult, error)
}
