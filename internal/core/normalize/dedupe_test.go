package normalize

import (
	"testing"

	"github.com/YOOYEONGHO/naver-land-collector/internal/core/domain"
)

func TestDedupeByListingID(t *testing.T) {
	records := []domain.ListingRecord{
		{ListingID: "A", PriceRaw: "5억"},
		{ListingID: "B", PriceRaw: "3억"},
		{ListingID: "A", PriceRaw: "999억"}, // повтор со страницы перекрытия
		{ListingID: "C", PriceRaw: "1억"},
		{ListingID: "B", PriceRaw: "2억"},
	}

	result, dropped := DedupeByListingID(records)

	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
	if len(result) != 3 {
		t.Fatalf("len(result) = %d, want 3", len(result))
	}

	// Первое вхождение побеждает, порядок сохраняется.
	wantOrder := []string{"A", "B", "C"}
	for i, want := range wantOrder {
		if result[i].ListingID != want {
			t.Errorf("result[%d].ListingID = %q, want %q", i, result[i].ListingID, want)
		}
	}
	if result[0].PriceRaw != "5억" {
		t.Errorf("first occurrence of A was not kept: PriceRaw = %q", result[0].PriceRaw)
	}
}

func TestDedupeByListingIDNoDuplicates(t *testing.T) {
	records := []domain.ListingRecord{
		{ListingID: "A"},
		{ListingID: "B"},
	}

	result, dropped := DedupeByListingID(records)
	if dropped != 0 {
		t.Errorf("dropped = %d, want 0", dropped)
	}
	if len(result) != 2 {
		t.Errorf("len(result) = %d, want 2", len(result))
	}
}

func TestDedupeByListingIDEmpty(t *testing.T) {
	result, dropped := DedupeByListingID(nil)
	if dropped != 0 || len(result) != 0 {
		t.Errorf("DedupeByListingID(nil) = (%v, %d), want empty", result, dropped)
	}
}
