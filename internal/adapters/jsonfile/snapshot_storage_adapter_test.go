package jsonfile

import (
	"context"
	"testing"
	"time"

	"github.com/YOOYEONGHO/naver-land-collector/internal/core/domain"
)

func newTestAdapter(t *testing.T) *JSONFileStorageAdapter {
	t.Helper()
	adapter, err := NewJSONFileStorageAdapter(t.TempDir())
	if err != nil {
		t.Fatalf("NewJSONFileStorageAdapter() error: %v", err)
	}
	return adapter
}

func record(complexID, listingID string, collectedAt time.Time) domain.ListingRecord {
	return domain.ListingRecord{
		ComplexID:   complexID,
		ListingID:   listingID,
		CollectedAt: collectedAt,
		PriceRaw:    "5억",
	}
}

func TestAppendAndQueryRoundTrip(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	t1 := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)

	if err := adapter.Append(ctx, []domain.ListingRecord{
		record("8928", "B", t1),
		record("8928", "A", t1),
	}); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if err := adapter.Append(ctx, []domain.ListingRecord{
		record("8928", "A", t2),
	}); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	got, err := adapter.Query(ctx, "8928", domain.TimeRange{})
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Query() returned %d records, want 3", len(got))
	}

	// Сортировка по (collected_at, listing_id).
	wantOrder := []string{"A", "B", "A"}
	for i, want := range wantOrder {
		if got[i].ListingID != want {
			t.Errorf("got[%d].ListingID = %q, want %q", i, got[i].ListingID, want)
		}
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("CreatedAt was not assigned on append")
	}
}

func TestQueryTimeRangeFilter(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	t1 := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)
	t3 := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)

	for _, at := range []time.Time{t1, t2, t3} {
		if err := adapter.Append(ctx, []domain.ListingRecord{record("8928", "A", at)}); err != nil {
			t.Fatalf("Append() error: %v", err)
		}
	}

	got, err := adapter.Query(ctx, "8928", domain.TimeRange{From: &t2, To: &t2})
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if len(got) != 1 || !got[0].CollectedAt.Equal(t2) {
		t.Errorf("Query() with [t2, t2] = %v, want exactly the t2 record", got)
	}

	got, err = adapter.Query(ctx, "8928", domain.TimeRange{From: &t2})
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Query() with open upper bound returned %d records, want 2", len(got))
	}
}

func TestQueryUnknownComplexIsEmpty(t *testing.T) {
	adapter := newTestAdapter(t)

	got, err := adapter.Query(context.Background(), "no-such-complex", domain.TimeRange{})
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Query() for unknown complex = %v, want empty", got)
	}
}

func TestAppendInvalidBatchWritesNothing(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	t1 := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	batch := []domain.ListingRecord{
		record("8928", "A", t1),
		{ComplexID: "8928", ListingID: "", CollectedAt: t1}, // не адресуема
	}

	if err := adapter.Append(ctx, batch); err == nil {
		t.Fatal("Append() accepted a batch with an unaddressable record")
	}

	got, err := adapter.Query(ctx, "8928", domain.TimeRange{})
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("partial batch was written: %v", got)
	}
}

func TestSnapshotTimesAndLatestSnapshotAt(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	t1 := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)

	if err := adapter.Append(ctx, []domain.ListingRecord{
		record("8928", "A", t1),
		record("8928", "B", t1),
		record("8928", "A", t2),
	}); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	times, err := adapter.SnapshotTimes(ctx, "8928")
	if err != nil {
		t.Fatalf("SnapshotTimes() error: %v", err)
	}
	if len(times) != 2 || !times[0].Equal(t1) || !times[1].Equal(t2) {
		t.Errorf("SnapshotTimes() = %v, want [t1 t2]", times)
	}

	latest, err := adapter.LatestSnapshotAt(ctx, "8928", t1.Add(6*time.Hour))
	if err != nil {
		t.Fatalf("LatestSnapshotAt() error: %v", err)
	}
	if latest == nil || !latest.Equal(t1) {
		t.Errorf("LatestSnapshotAt(t1+6h) = %v, want t1", latest)
	}

	latest, err = adapter.LatestSnapshotAt(ctx, "8928", t1.Add(-time.Hour))
	if err != nil {
		t.Fatalf("LatestSnapshotAt() error: %v", err)
	}
	if latest != nil {
		t.Errorf("LatestSnapshotAt(before history) = %v, want nil", latest)
	}
}

func TestSnapshotListings(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	t1 := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)

	if err := adapter.Append(ctx, []domain.ListingRecord{
		record("8928", "B", t1),
		record("8928", "A", t1),
		record("8928", "A", t2),
	}); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	got, err := adapter.SnapshotListings(ctx, "8928", t1)
	if err != nil {
		t.Fatalf("SnapshotListings() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("SnapshotListings(t1) returned %d records, want 2", len(got))
	}
	if got[0].ListingID != "A" || got[1].ListingID != "B" {
		t.Errorf("SnapshotListings(t1) order = [%s %s], want [A B]", got[0].ListingID, got[1].ListingID)
	}
}

func TestComplexesAreIsolated(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	t1 := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	if err := adapter.Append(ctx, []domain.ListingRecord{
		record("111", "A", t1),
		record("222", "B", t1),
	}); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	got, err := adapter.Query(ctx, "111", domain.TimeRange{})
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if len(got) != 1 || got[0].ListingID != "A" {
		t.Errorf("Query(111) = %v, want only record A", got)
	}
}
