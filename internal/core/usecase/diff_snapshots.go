package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/YOOYEONGHO/naver-land-collector/internal/contextkeys"
	"github.com/YOOYEONGHO/naver-land-collector/internal/core/domain"
	"github.com/YOOYEONGHO/naver-land-collector/internal/core/port"
)

// DiffSnapshotsUseCase сравнивает два снимка одного комплекса и находит
// исчезнувшие объявления (главный сигнал приманки), новые объявления и
// изменения цены.
type DiffSnapshotsUseCase struct {
	storage port.SnapshotStoragePort
}

// NewDiffSnapshotsUseCase создает новый экземпляр use case.
func NewDiffSnapshotsUseCase(storage port.SnapshotStoragePort) *DiffSnapshotsUseCase {
	return &DiffSnapshotsUseCase{storage: storage}
}

// Diff вычисляет разницу между снимками на моменты from и to.
//
// Прогоны идут нерегулярно, поэтому оба момента разрешаются в ближайший
// снимок не позже запрошенного ("nearest prior"). Если не позже from (или to)
// снимков нет - это валидный ответ "истории еще нет": все множества пустые,
// ошибки нет. Ошибка только на некорректном входе: from позже to.
func (uc *DiffSnapshotsUseCase) Diff(ctx context.Context, complexID string, from, to time.Time) (*domain.SnapshotDiff, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "DiffSnapshots",
		"complex_id": complexID,
		"from":       from.Format(time.RFC3339),
		"to":         to.Format(time.RFC3339),
	})

	if from.After(to) {
		ucLogger.Warn("Rejecting diff request: malformed timestamp ordering", nil)
		return nil, fmt.Errorf("%w: %s > %s", domain.ErrInvalidTimeRange, from.Format(time.RFC3339), to.Format(time.RFC3339))
	}

	diff := &domain.SnapshotDiff{
		ComplexID:     complexID,
		FromRequested: from,
		ToRequested:   to,
		Disappeared:   []string{},
		Appeared:      []string{},
		PriceChanged:  []domain.PriceChange{},
	}

	fromSnapshot, err := uc.storage.LatestSnapshotAt(ctx, complexID, from)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving from snapshot: %v", domain.ErrStoreFailed, err)
	}
	if fromSnapshot == nil {
		ucLogger.Info("No snapshot at or before 'from', returning empty diff", nil)
		return diff, nil
	}

	toSnapshot, err := uc.storage.LatestSnapshotAt(ctx, complexID, to)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving to snapshot: %v", domain.ErrStoreFailed, err)
	}
	if toSnapshot == nil {
		return diff, nil
	}

	diff.FromSnapshot = fromSnapshot
	diff.ToSnapshot = toSnapshot

	fromListings, err := uc.storage.SnapshotListings(ctx, complexID, *fromSnapshot)
	if err != nil {
		return nil, fmt.Errorf("%w: loading from snapshot: %v", domain.ErrStoreFailed, err)
	}
	toListings, err := uc.storage.SnapshotListings(ctx, complexID, *toSnapshot)
	if err != nil {
		return nil, fmt.Errorf("%w: loading to snapshot: %v", domain.ErrStoreFailed, err)
	}

	fromByID := indexByListingID(fromListings)
	toByID := indexByListingID(toListings)

	for id, fromRec := range fromByID {
		toRec, stillListed := toByID[id]
		if !stillListed {
			diff.Disappeared = append(diff.Disappeared, id)
			continue
		}
		// Сравниваем только когда обе цены разобрались: nil с любой стороны
		// исключает объявление, иначе получим ложное изменение.
		if fromRec.PriceNormalized != nil && toRec.PriceNormalized != nil &&
			*fromRec.PriceNormalized != *toRec.PriceNormalized {
			diff.PriceChanged = append(diff.PriceChanged, domain.PriceChange{
				ListingID: id,
				From:      *fromRec.PriceNormalized,
				To:        *toRec.PriceNormalized,
			})
		}
	}

	for id := range toByID {
		if _, wasListed := fromByID[id]; !wasListed {
			diff.Appeared = append(diff.Appeared, id)
		}
	}

	// Порядок обхода map недетерминирован, а результат - аналитический отчет.
	sort.Strings(diff.Disappeared)
	sort.Strings(diff.Appeared)
	sort.Slice(diff.PriceChanged, func(i, j int) bool {
		return diff.PriceChanged[i].ListingID < diff.PriceChanged[j].ListingID
	})

	ucLogger.Info("Diff computed", port.Fields{
		"from_snapshot": fromSnapshot.Format(time.RFC3339),
		"to_snapshot":   toSnapshot.Format(time.RFC3339),
		"disappeared":   len(diff.Disappeared),
		"appeared":      len(diff.Appeared),
		"price_changed": len(diff.PriceChanged),
	})
	return diff, nil
}

func indexByListingID(records []domain.ListingRecord) map[string]domain.ListingRecord {
	index := make(map[string]domain.ListingRecord, len(records))
	for _, rec := range records {
		index[rec.ListingID] = rec
	}
	return index
}
