package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/YOOYEONGHO/naver-land-collector/internal/core/domain"
)

// JSONFileStorageAdapter реализует SnapshotStoragePort поверх плоских
// append-only JSON-файлов: один файл на комплекс (партиционирование по
// комплексу - ключ в адресации, а не отдельная схема). Подходит для локальных
// запусков без PostgreSQL.
//
// Атомарность Append: вся пачка сначала валидируется, затем новое содержимое
// файла пишется во временный файл и подменяется rename-ом. Упавший Append
// оставляет прежнее содержимое нетронутым.
type JSONFileStorageAdapter struct {
	dir string
	mu  sync.Mutex // сериализует конкурентные Append
}

// NewJSONFileStorageAdapter создает адаптер и директорию данных, если ее нет.
func NewJSONFileStorageAdapter(dir string) (*JSONFileStorageAdapter, error) {
	if dir == "" {
		return nil, fmt.Errorf("jsonfile storage: data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("jsonfile storage: failed to create data directory %s: %w", dir, err)
	}
	return &JSONFileStorageAdapter{dir: dir}, nil
}

func (a *JSONFileStorageAdapter) complexFile(complexID string) string {
	return filepath.Join(a.dir, "complex_"+complexID+".json")
}

// Append дописывает пачку записей. Либо вся пачка, либо ничего.
func (a *JSONFileStorageAdapter) Append(ctx context.Context, records []domain.ListingRecord) error {
	if len(records) == 0 {
		return nil
	}

	// Валидируем всю пачку до каких-либо записей на диск.
	for i, rec := range records {
		if rec.ListingID == "" || rec.ComplexID == "" || rec.CollectedAt.IsZero() {
			return fmt.Errorf("jsonfile storage: record %d is not addressable (listing_id=%q, complex_id=%q)", i, rec.ListingID, rec.ComplexID)
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	createdAt := time.Now().UTC()

	byComplex := make(map[string][]domain.ListingRecord)
	for _, rec := range records {
		rec.CreatedAt = createdAt
		byComplex[rec.ComplexID] = append(byComplex[rec.ComplexID], rec)
	}

	for complexID, batch := range byComplex {
		existing, err := a.readComplex(complexID)
		if err != nil {
			return err
		}
		updated := append(existing, batch...)

		data, err := json.MarshalIndent(updated, "", "  ")
		if err != nil {
			return fmt.Errorf("jsonfile storage: failed to marshal records for complex %s: %w", complexID, err)
		}

		target := a.complexFile(complexID)
		tmp := target + ".tmp"
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			return fmt.Errorf("jsonfile storage: failed to write temp file for complex %s: %w", complexID, err)
		}
		if err := os.Rename(tmp, target); err != nil {
			os.Remove(tmp)
			return fmt.Errorf("jsonfile storage: failed to replace data file for complex %s: %w", complexID, err)
		}
	}

	return nil
}

// Query возвращает историю комплекса в интервале, отсортированную по
// (collected_at, listing_id). Неизвестный комплекс - пустой срез.
func (a *JSONFileStorageAdapter) Query(ctx context.Context, complexID string, tr domain.TimeRange) ([]domain.ListingRecord, error) {
	all, err := a.readComplex(complexID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.ListingRecord, 0, len(all))
	for _, rec := range all {
		if tr.Contains(rec.CollectedAt) {
			result = append(result, rec)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CollectedAt.Equal(result[j].CollectedAt) {
			return result[i].CollectedAt.Before(result[j].CollectedAt)
		}
		return result[i].ListingID < result[j].ListingID
	})
	return result, nil
}

// SnapshotTimes возвращает различные моменты сбора по возрастанию.
func (a *JSONFileStorageAdapter) SnapshotTimes(ctx context.Context, complexID string) ([]time.Time, error) {
	all, err := a.readComplex(complexID)
	if err != nil {
		return nil, err
	}

	seen := make(map[time.Time]struct{})
	times := make([]time.Time, 0)
	for _, rec := range all {
		if _, ok := seen[rec.CollectedAt]; !ok {
			seen[rec.CollectedAt] = struct{}{}
			times = append(times, rec.CollectedAt)
		}
	}

	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times, nil
}

// LatestSnapshotAt возвращает ближайший момент снимка не позже at.
func (a *JSONFileStorageAdapter) LatestSnapshotAt(ctx context.Context, complexID string, at time.Time) (*time.Time, error) {
	times, err := a.SnapshotTimes(ctx, complexID)
	if err != nil {
		return nil, err
	}

	var latest *time.Time
	for i := range times {
		if times[i].After(at) {
			break
		}
		latest = &times[i]
	}
	return latest, nil
}

// SnapshotListings возвращает один полный снимок.
func (a *JSONFileStorageAdapter) SnapshotListings(ctx context.Context, complexID string, collectedAt time.Time) ([]domain.ListingRecord, error) {
	all, err := a.readComplex(complexID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.ListingRecord, 0)
	for _, rec := range all {
		if rec.CollectedAt.Equal(collectedAt) {
			result = append(result, rec)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ListingID < result[j].ListingID })
	return result, nil
}

func (a *JSONFileStorageAdapter) readComplex(complexID string) ([]domain.ListingRecord, error) {
	data, err := os.ReadFile(a.complexFile(complexID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("jsonfile storage: failed to read data file for complex %s: %w", complexID, err)
	}

	var records []domain.ListingRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("jsonfile storage: corrupted data file for complex %s: %w", complexID, err)
	}
	return records, nil
}
