package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/YOOYEONGHO/naver-land-collector/internal/core/domain"
)

type fakeFetcher struct {
	listings []domain.RawListing
	err      error
}

func (f *fakeFetcher) FetchListings(ctx context.Context, complexID string, tradeType string) ([]domain.RawListing, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.listings, nil
}

type fakeReporter struct {
	reported []*domain.CollectionResult
	err      error
}

func (f *fakeReporter) ReportRun(ctx context.Context, result *domain.CollectionResult) error {
	if f.err != nil {
		return f.err
	}
	f.reported = append(f.reported, result)
	return nil
}

func TestCollectSnapshotHappyPath(t *testing.T) {
	fetcher := &fakeFetcher{listings: []domain.RawListing{
		{"atclNo": "A", "prcInfo": "5억"},
		{"atclNo": "B", "prcInfo": "3억"},
	}}
	storage := newFakeStorage()
	reporter := &fakeReporter{}

	uc := NewCollectSnapshotUseCase(fetcher, storage, reporter)
	result, err := uc.Run(context.Background(), "8928", "A1")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if result.Stored != 2 || result.Failed != 0 || result.Duplicates != 0 {
		t.Errorf("result = %+v, want 2 stored", result)
	}
	if result.ComplexID != "8928" || result.TradeType != "A1" {
		t.Errorf("result identity = (%q, %q)", result.ComplexID, result.TradeType)
	}
	if result.CollectedAt.IsZero() {
		t.Error("CollectedAt was not assigned")
	}

	if len(storage.appended) != 1 {
		t.Fatalf("Append was called %d times, want 1", len(storage.appended))
	}
	batch := storage.appended[0]
	if len(batch) != 2 {
		t.Fatalf("appended batch has %d records, want 2", len(batch))
	}
	// Один прогон - один общий collected_at для всех записей.
	for _, rec := range batch {
		if !rec.CollectedAt.Equal(result.CollectedAt) {
			t.Errorf("record %s has collected_at %v, want %v", rec.ListingID, rec.CollectedAt, result.CollectedAt)
		}
		if rec.ComplexID != "8928" {
			t.Errorf("record %s has complex_id %q", rec.ListingID, rec.ComplexID)
		}
	}

	if len(reporter.reported) != 1 {
		t.Errorf("reporter was called %d times, want 1", len(reporter.reported))
	}
}

func TestCollectSnapshotDeduplicatesWithinRun(t *testing.T) {
	fetcher := &fakeFetcher{listings: []domain.RawListing{
		{"atclNo": "A", "prcInfo": "5억"},
		{"atclNo": "A", "prcInfo": "6억"}, // перекрытие страниц
		{"atclNo": "B", "prcInfo": "3억"},
	}}
	storage := newFakeStorage()

	uc := NewCollectSnapshotUseCase(fetcher, storage, nil)
	result, err := uc.Run(context.Background(), "8928", "A1")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if result.Stored != 2 {
		t.Errorf("Stored = %d, want 2", result.Stored)
	}
	if result.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", result.Duplicates)
	}

	batch := storage.appended[0]
	if len(batch) != 2 {
		t.Fatalf("appended batch has %d records, want 2", len(batch))
	}
	// Побеждает первое вхождение.
	if batch[0].ListingID != "A" || batch[0].PriceRaw != "5억" {
		t.Errorf("first record = (%q, %q), want first occurrence of A", batch[0].ListingID, batch[0].PriceRaw)
	}
}

func TestCollectSnapshotFetchFailureStoresNothing(t *testing.T) {
	fetcher := &fakeFetcher{err: fmt.Errorf("connection refused")}
	storage := newFakeStorage()

	uc := NewCollectSnapshotUseCase(fetcher, storage, nil)
	_, err := uc.Run(context.Background(), "8928", "A1")

	if !errors.Is(err, domain.ErrFetchFailed) {
		t.Fatalf("err = %v, want ErrFetchFailed", err)
	}
	if len(storage.appended) != 0 {
		t.Errorf("Append was called after fetch failure")
	}
}

func TestCollectSnapshotInvalidRecordCountedAsFailed(t *testing.T) {
	fetcher := &fakeFetcher{listings: []domain.RawListing{
		{"atclNo": "A", "prcInfo": "5억"},
		{"prcInfo": "3억"},  // без atclNo запись не адресуема
		{"atclNo": ""},      // пустой atclNo тоже не проходит контракт
	}}
	storage := newFakeStorage()

	uc := NewCollectSnapshotUseCase(fetcher, storage, nil)
	result, err := uc.Run(context.Background(), "8928", "A1")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if result.Stored != 1 {
		t.Errorf("Stored = %d, want 1", result.Stored)
	}
	if result.Failed != 2 {
		t.Errorf("Failed = %d, want 2", result.Failed)
	}
}

func TestCollectSnapshotStoreFailure(t *testing.T) {
	fetcher := &fakeFetcher{listings: []domain.RawListing{{"atclNo": "A"}}}
	storage := newFakeStorage()
	storage.appendErr = fmt.Errorf("disk full")

	uc := NewCollectSnapshotUseCase(fetcher, storage, nil)
	_, err := uc.Run(context.Background(), "8928", "A1")

	if !errors.Is(err, domain.ErrStoreFailed) {
		t.Fatalf("err = %v, want ErrStoreFailed", err)
	}
}

func TestCollectSnapshotReporterFailureDoesNotFailRun(t *testing.T) {
	fetcher := &fakeFetcher{listings: []domain.RawListing{{"atclNo": "A"}}}
	storage := newFakeStorage()
	reporter := &fakeReporter{err: fmt.Errorf("broker unavailable")}

	uc := NewCollectSnapshotUseCase(fetcher, storage, reporter)
	result, err := uc.Run(context.Background(), "8928", "A1")
	if err != nil {
		t.Fatalf("Run() error: %v, reporter failure must not fail the run", err)
	}
	if result.Stored != 1 {
		t.Errorf("Stored = %d, want 1", result.Stored)
	}
}

func TestCollectSnapshotEmptyUpstream(t *testing.T) {
	fetcher := &fakeFetcher{listings: nil}
	storage := newFakeStorage()

	uc := NewCollectSnapshotUseCase(fetcher, storage, nil)
	result, err := uc.Run(context.Background(), "8928", "A1")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if result.Stored != 0 {
		t.Errorf("Stored = %d, want 0", result.Stored)
	}
	if len(storage.appended) != 0 {
		t.Errorf("Append was called for an empty run")
	}
}
