package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/YOOYEONGHO/naver-land-collector/internal/core/port"
	"github.com/YOOYEONGHO/naver-land-collector/internal/core/port/usecases_port"
)

// Scheduler периодически запускает сбор снапшотов для настроенных комплексов.
// Интервал задается в конфигурации; нулевой интервал отключает планировщик.
type Scheduler struct {
	collectUC  usecases_port.CollectSnapshotUseCase
	complexIDs []string
	tradeType  string
	interval   time.Duration
	logger     port.LoggerPort
}

func NewScheduler(collectUC usecases_port.CollectSnapshotUseCase,
	complexIDs []string,
	tradeType string,
	interval time.Duration,
	logger port.LoggerPort) *Scheduler {

	return &Scheduler{
		collectUC:  collectUC,
		complexIDs: complexIDs,
		tradeType:  tradeType,
		interval:   interval,
		logger:     logger,
	}
}

// Run блокируется до отмены контекста. Первый прогон выполняется сразу,
// не дожидаясь первого тика.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("Scheduler started", port.Fields{
		"interval":  s.interval.String(),
		"complexes": len(s.complexIDs),
	})

	s.collectAll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped", nil)
			return
		case <-ticker.C:
			s.collectAll(ctx)
		}
	}
}

// collectAll запускает прогоны по всем комплексам параллельно и ждет их завершения.
// Ошибка одного комплекса не мешает остальным.
func (s *Scheduler) collectAll(ctx context.Context) {
	var wg sync.WaitGroup

	for _, complexID := range s.complexIDs {
		wg.Add(1)
		go func(complexID string) {
			defer wg.Done()

			result, err := s.collectUC.Run(ctx, complexID, s.tradeType)
			if err != nil {
				s.logger.Error("Scheduled collection run failed", err, port.Fields{
					"complex_id": complexID,
				})
				return
			}

			s.logger.Info("Scheduled collection run finished", port.Fields{
				"complex_id": complexID,
				"run_id":     result.RunID.String(),
				"stored":     result.Stored,
				"failed":     result.Failed,
				"duplicates": result.Duplicates,
			})
		}(complexID)
	}

	wg.Wait()
}
