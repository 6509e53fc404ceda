package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/YOOYEONGHO/naver-land-collector/internal/core/domain"
)

// fakeSnapshotStorage - хранилище в памяти для тестов use case.
// Снимки хранятся как complexID -> collectedAt -> записи.
type fakeSnapshotStorage struct {
	snapshots map[string]map[time.Time][]domain.ListingRecord
	appendErr error
	appended  [][]domain.ListingRecord
}

func newFakeStorage() *fakeSnapshotStorage {
	return &fakeSnapshotStorage{snapshots: make(map[string]map[time.Time][]domain.ListingRecord)}
}

func (f *fakeSnapshotStorage) addSnapshot(complexID string, at time.Time, records []domain.ListingRecord) {
	if f.snapshots[complexID] == nil {
		f.snapshots[complexID] = make(map[time.Time][]domain.ListingRecord)
	}
	f.snapshots[complexID][at] = records
}

func (f *fakeSnapshotStorage) Append(ctx context.Context, records []domain.ListingRecord) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, records)
	for _, rec := range records {
		if f.snapshots[rec.ComplexID] == nil {
			f.snapshots[rec.ComplexID] = make(map[time.Time][]domain.ListingRecord)
		}
		f.snapshots[rec.ComplexID][rec.CollectedAt] = append(f.snapshots[rec.ComplexID][rec.CollectedAt], rec)
	}
	return nil
}

func (f *fakeSnapshotStorage) Query(ctx context.Context, complexID string, tr domain.TimeRange) ([]domain.ListingRecord, error) {
	var result []domain.ListingRecord
	for at, records := range f.snapshots[complexID] {
		if tr.Contains(at) {
			result = append(result, records...)
		}
	}
	return result, nil
}

func (f *fakeSnapshotStorage) SnapshotTimes(ctx context.Context, complexID string) ([]time.Time, error) {
	var times []time.Time
	for at := range f.snapshots[complexID] {
		times = append(times, at)
	}
	return times, nil
}

func (f *fakeSnapshotStorage) LatestSnapshotAt(ctx context.Context, complexID string, at time.Time) (*time.Time, error) {
	var latest *time.Time
	for snapAt := range f.snapshots[complexID] {
		if snapAt.After(at) {
			continue
		}
		if latest == nil || snapAt.After(*latest) {
			copied := snapAt
			latest = &copied
		}
	}
	return latest, nil
}

func (f *fakeSnapshotStorage) SnapshotListings(ctx context.Context, complexID string, collectedAt time.Time) ([]domain.ListingRecord, error) {
	return f.snapshots[complexID][collectedAt], nil
}

func price(v int64) *int64 { return &v }

func TestDiffDisappearedAndPriceChanged(t *testing.T) {
	storage := newFakeStorage()
	d1 := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)

	storage.addSnapshot("8928", d1, []domain.ListingRecord{
		{ListingID: "A", ComplexID: "8928", CollectedAt: d1, PriceNormalized: price(500_000_000)},
		{ListingID: "B", ComplexID: "8928", CollectedAt: d1, PriceNormalized: price(300_000_000)},
	})
	storage.addSnapshot("8928", d2, []domain.ListingRecord{
		{ListingID: "A", ComplexID: "8928", CollectedAt: d2, PriceNormalized: price(520_000_000)},
	})

	uc := NewDiffSnapshotsUseCase(storage)
	diff, err := uc.Diff(context.Background(), "8928", d1, d2)
	if err != nil {
		t.Fatalf("Diff() error: %v", err)
	}

	if len(diff.Disappeared) != 1 || diff.Disappeared[0] != "B" {
		t.Errorf("Disappeared = %v, want [B]", diff.Disappeared)
	}
	if len(diff.Appeared) != 0 {
		t.Errorf("Appeared = %v, want empty", diff.Appeared)
	}
	if len(diff.PriceChanged) != 1 {
		t.Fatalf("PriceChanged = %v, want one entry", diff.PriceChanged)
	}
	change := diff.PriceChanged[0]
	if change.ListingID != "A" || change.From != 500_000_000 || change.To != 520_000_000 {
		t.Errorf("PriceChanged[0] = %+v", change)
	}
	if diff.FromSnapshot == nil || !diff.FromSnapshot.Equal(d1) {
		t.Errorf("FromSnapshot = %v, want %v", diff.FromSnapshot, d1)
	}
	if diff.ToSnapshot == nil || !diff.ToSnapshot.Equal(d2) {
		t.Errorf("ToSnapshot = %v, want %v", diff.ToSnapshot, d2)
	}
}

func TestDiffIdenticalSnapshotsIsEmpty(t *testing.T) {
	storage := newFakeStorage()
	d1 := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)

	records := []domain.ListingRecord{
		{ListingID: "A", PriceNormalized: price(500_000_000)},
		{ListingID: "B", PriceNormalized: price(300_000_000)},
	}
	storage.addSnapshot("8928", d1, records)
	storage.addSnapshot("8928", d2, records)

	uc := NewDiffSnapshotsUseCase(storage)
	diff, err := uc.Diff(context.Background(), "8928", d1, d2)
	if err != nil {
		t.Fatalf("Diff() error: %v", err)
	}

	if len(diff.Disappeared)+len(diff.Appeared)+len(diff.PriceChanged) != 0 {
		t.Errorf("diff of identical snapshots is not empty: %+v", diff)
	}
}

func TestDiffAppeared(t *testing.T) {
	storage := newFakeStorage()
	d1 := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)

	storage.addSnapshot("8928", d1, []domain.ListingRecord{{ListingID: "A"}})
	storage.addSnapshot("8928", d2, []domain.ListingRecord{{ListingID: "A"}, {ListingID: "C"}})

	uc := NewDiffSnapshotsUseCase(storage)
	diff, err := uc.Diff(context.Background(), "8928", d1, d2)
	if err != nil {
		t.Fatalf("Diff() error: %v", err)
	}

	if len(diff.Appeared) != 1 || diff.Appeared[0] != "C" {
		t.Errorf("Appeared = %v, want [C]", diff.Appeared)
	}
}

func TestDiffNilPriceExcludedFromPriceChanges(t *testing.T) {
	storage := newFakeStorage()
	d1 := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)

	storage.addSnapshot("8928", d1, []domain.ListingRecord{
		{ListingID: "A", PriceNormalized: price(500_000_000)},
		{ListingID: "B", PriceNormalized: nil},
	})
	storage.addSnapshot("8928", d2, []domain.ListingRecord{
		{ListingID: "A", PriceNormalized: nil},
		{ListingID: "B", PriceNormalized: price(300_000_000)},
	})

	uc := NewDiffSnapshotsUseCase(storage)
	diff, err := uc.Diff(context.Background(), "8928", d1, d2)
	if err != nil {
		t.Fatalf("Diff() error: %v", err)
	}

	if len(diff.PriceChanged) != 0 {
		t.Errorf("PriceChanged = %v, want empty when either side is nil", diff.PriceChanged)
	}
}

func TestDiffNearestPriorSnapshotResolution(t *testing.T) {
	storage := newFakeStorage()
	d1 := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)

	storage.addSnapshot("8928", d1, []domain.ListingRecord{{ListingID: "A"}, {ListingID: "B"}})
	storage.addSnapshot("8928", d2, []domain.ListingRecord{{ListingID: "A"}})

	// Запрошенные моменты не совпадают со снимками: каждый должен
	// разрешиться в ближайший снимок не позже запрошенного.
	uc := NewDiffSnapshotsUseCase(storage)
	diff, err := uc.Diff(context.Background(), "8928",
		d1.Add(3*time.Hour), d2.Add(5*time.Hour))
	if err != nil {
		t.Fatalf("Diff() error: %v", err)
	}

	if diff.FromSnapshot == nil || !diff.FromSnapshot.Equal(d1) {
		t.Errorf("FromSnapshot = %v, want %v", diff.FromSnapshot, d1)
	}
	if diff.ToSnapshot == nil || !diff.ToSnapshot.Equal(d2) {
		t.Errorf("ToSnapshot = %v, want %v", diff.ToSnapshot, d2)
	}
	if len(diff.Disappeared) != 1 || diff.Disappeared[0] != "B" {
		t.Errorf("Disappeared = %v, want [B]", diff.Disappeared)
	}
}

func TestDiffBeforeAnyHistoryIsEmpty(t *testing.T) {
	storage := newFakeStorage()
	d1 := time.Date(2025, 11, 10, 9, 0, 0, 0, time.UTC)
	storage.addSnapshot("8928", d1, []domain.ListingRecord{{ListingID: "A"}})

	uc := NewDiffSnapshotsUseCase(storage)
	diff, err := uc.Diff(context.Background(), "8928",
		d1.Add(-48*time.Hour), d1.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Diff() error: %v", err)
	}

	if diff.FromSnapshot != nil || diff.ToSnapshot != nil {
		t.Errorf("snapshots resolved before any history: %v, %v", diff.FromSnapshot, diff.ToSnapshot)
	}
	if len(diff.Disappeared)+len(diff.Appeared)+len(diff.PriceChanged) != 0 {
		t.Errorf("diff before history is not empty: %+v", diff)
	}
}

func TestDiffUnknownComplexIsEmpty(t *testing.T) {
	uc := NewDiffSnapshotsUseCase(newFakeStorage())
	diff, err := uc.Diff(context.Background(), "no-such-complex",
		time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Diff() error: %v", err)
	}
	if len(diff.Disappeared)+len(diff.Appeared)+len(diff.PriceChanged) != 0 {
		t.Errorf("diff for unknown complex is not empty: %+v", diff)
	}
}

func TestDiffRejectsInvertedRange(t *testing.T) {
	uc := NewDiffSnapshotsUseCase(newFakeStorage())
	_, err := uc.Diff(context.Background(), "8928",
		time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, domain.ErrInvalidTimeRange) {
		t.Fatalf("err = %v, want ErrInvalidTimeRange", err)
	}
}
