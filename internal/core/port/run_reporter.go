package port

import (
	"context"

	"github.com/YOOYEONGHO/naver-land-collector/internal/core/domain"
)

// RunReporterPort - публикация итога прогона сбора во внешнюю шину событий.
// Ошибка публикации не должна проваливать уже сохраненный прогон.
type RunReporterPort interface {
	ReportRun(ctx context.Context, result *domain.CollectionResult) error
}
