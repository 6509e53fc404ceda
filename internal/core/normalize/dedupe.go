package normalize

import "github.com/YOOYEONGHO/naver-land-collector/internal/core/domain"

// DedupeByListingID схлопывает повторы listing_id внутри одного прогона.
// Ожидаемая причина повторов - перекрытие страниц пагинации, поэтому
// оставляем первое вхождение: порядок выдачи апстрима в рамках прогона
// стабилен, и первое вхождение детерминировано. Возвращает срез без
// повторов и число отброшенных записей.
func DedupeByListingID(records []domain.ListingRecord) ([]domain.ListingRecord, int) {
	if len(records) == 0 {
		return records, 0
	}

	seen := make(map[string]struct{}, len(records))
	result := make([]domain.ListingRecord, 0, len(records))
	dropped := 0

	for _, rec := range records {
		if _, ok := seen[rec.ListingID]; ok {
			dropped++
			continue
		}
		seen[rec.ListingID] = struct{}{}
		result = append(result, rec)
	}

	return result, dropped
}
