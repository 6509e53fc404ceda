package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/YOOYEONGHO/naver-land-collector/internal/contextkeys"
	"github.com/YOOYEONGHO/naver-land-collector/internal/contracts"
	"github.com/YOOYEONGHO/naver-land-collector/internal/core/domain"
	"github.com/YOOYEONGHO/naver-land-collector/internal/core/normalize"
	"github.com/YOOYEONGHO/naver-land-collector/internal/core/port"

	"github.com/google/uuid"
)

// CollectSnapshotUseCase - оркестратор одного прогона сбора:
// fetch -> validate -> normalize -> dedupe -> append. Строго последовательный
// внутри прогона; разные комплексы могут собираться конкурентно, так как
// каждый прогон пишет только свой снимок со своим collected_at.
type CollectSnapshotUseCase struct {
	fetcher  port.ListingFetcherPort
	storage  port.SnapshotStoragePort
	reporter port.RunReporterPort // необязательный, nil - события не публикуются
}

// NewCollectSnapshotUseCase создает новый экземпляр use case.
func NewCollectSnapshotUseCase(fetcher port.ListingFetcherPort, storage port.SnapshotStoragePort, reporter port.RunReporterPort) *CollectSnapshotUseCase {
	return &CollectSnapshotUseCase{
		fetcher:  fetcher,
		storage:  storage,
		reporter: reporter,
	}
}

// Run выполняет один прогон по одному комплексу. Один collected_at назначается
// в начале прогона и общий для всех его записей; повтор после сбоя создаст
// полностью отдельный снимок, сливать нечего.
func (uc *CollectSnapshotUseCase) Run(ctx context.Context, complexID string, tradeType string) (*domain.CollectionResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)

	runID := uuid.New()
	collectedAt := time.Now().UTC().Truncate(time.Second)

	ucLogger := logger.WithFields(port.Fields{
		"use_case":     "CollectSnapshot",
		"run_id":       runID.String(),
		"complex_id":   complexID,
		"trade_type":   tradeType,
		"collected_at": collectedAt.Format(time.RFC3339),
	})
	ucLogger.Info("Use case started: collecting snapshot", nil)

	rawRecords, err := uc.fetcher.FetchListings(ctx, complexID, tradeType)
	if err != nil {
		// Прогон прерывается целиком: ни одной полунормализованной записи
		// в хранилище. Вызывающий может повторить прогон позже.
		ucLogger.Error("Upstream fetch failed, aborting run", err, nil)
		return nil, fmt.Errorf("%w: complex %s: %v", domain.ErrFetchFailed, complexID, err)
	}
	ucLogger.Info("Upstream fetch finished", port.Fields{"raw_count": len(rawRecords)})

	records := make([]domain.ListingRecord, 0, len(rawRecords))
	failed := 0
	for _, raw := range rawRecords {
		if err := contracts.ValidateRawListing(map[string]interface{}(raw)); err != nil {
			// Запись без atclNo не адресуема - пропускаем, прогон продолжается.
			ucLogger.Warn("Raw record failed contract validation, skipping", port.Fields{"error": err.Error()})
			failed++
			continue
		}
		records = append(records, normalize.Normalize(raw, complexID, collectedAt))
	}

	records, duplicates := normalize.DedupeByListingID(records)
	if duplicates > 0 {
		ucLogger.Debug("Collapsed duplicate listing IDs", port.Fields{"duplicates": duplicates})
	}

	if len(records) > 0 {
		if err := uc.storage.Append(ctx, records); err != nil {
			ucLogger.Error("Storage append failed", err, nil)
			return nil, fmt.Errorf("%w: complex %s: %v", domain.ErrStoreFailed, complexID, err)
		}
	}

	result := &domain.CollectionResult{
		RunID:       runID,
		ComplexID:   complexID,
		TradeType:   tradeType,
		CollectedAt: collectedAt,
		Stored:      len(records),
		Failed:      failed,
		Duplicates:  duplicates,
	}

	if uc.reporter != nil {
		if err := uc.reporter.ReportRun(ctx, result); err != nil {
			// Снимок уже сохранен, проваливать прогон из-за отчета нельзя.
			ucLogger.Error("Failed to report run results after successful append", err, nil)
		}
	}

	ucLogger.Info("Use case finished: snapshot collected", port.Fields{
		"stored": result.Stored, "failed": result.Failed, "duplicates": result.Duplicates,
	})
	return result, nil
}
