package normalize

import (
	"time"

	"github.com/YOOYEONGHO/naver-land-collector/internal/core/domain"
	"github.com/mmcloughlin/geohash"
)

// Точность геохэша: ~150м, достаточно чтобы сгруппировать объявления
// одного дома, не схлопывая соседние комплексы.
const geohashPrecision = 7

// Normalize преобразует одну сырую запись апстрима в каноническую
// ListingRecord. Чистая функция: неизвестные поля игнорируются, отсутствующие
// становятся нулевыми значениями, ошибок не бывает. Единственная вычислимая
// деградация - неразобранная цена (PriceNormalized == nil).
func Normalize(raw domain.RawListing, complexID string, collectedAt time.Time) domain.ListingRecord {
	record := domain.ListingRecord{
		ListingID: stringField(raw, "atclNo"),
		ComplexID: complexID,

		ListingTypeName: stringField(raw, "rletTpNm"),
		TradeTypeName:   stringField(raw, "tradTpNm"),

		PriceRaw: stringField(raw, "prcInfo"),

		AreaPrimary:   stringField(raw, "spc1"),
		AreaSecondary: stringField(raw, "spc2"),
		FloorInfo:     stringField(raw, "flrInfo"),
		Direction:     stringField(raw, "direction"),

		TradePrice:   stringField(raw, "rentPrc"),
		RealtorName:  stringField(raw, "rltrNm"),
		BuildingName: stringField(raw, "bildNm"),

		Description:   stringField(raw, "atclFetrDesc"),
		ConfirmedDate: stringField(raw, "atclCfmYmd"),

		CollectedAt: collectedAt,
	}

	record.PriceNormalized = ParsePrice(record.PriceRaw)

	record.Latitude = floatField(raw, "lat")
	record.Longitude = floatField(raw, "lng")
	if record.Latitude != nil && record.Longitude != nil {
		record.Geohash = geohash.EncodeWithPrecision(*record.Latitude, *record.Longitude, geohashPrecision)
	}

	return record
}

// stringField достает строковое поле из сырой записи, не падая на
// отсутствующих и неожиданно типизированных значениях.
func stringField(raw domain.RawListing, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}

// floatField достает числовое поле. encoding/json декодирует все числа
// в float64, других представлений не ждем.
func floatField(raw domain.RawListing, key string) *float64 {
	if v, ok := raw[key].(float64); ok {
		return &v
	}
	return nil
}
