package domain

import (
	"time"

	"github.com/google/uuid"
)

// RawListing - "сырая" запись объявления от Naver Land API.
// Свободная форма (имя поля -> значение), валидируется на границе нормализатора
// и дальше ядра не распространяется.
type RawListing map[string]interface{}

// ListingRecord - каноническая запись: одно объявление, наблюдаемое в один
// момент сбора. Натуральный ключ - (ComplexID, ListingID, CollectedAt).
// После сохранения запись неизменяема.
type ListingRecord struct {
	ListingID string `json:"listing_id"` // atclNo - стабильный идентификатор объявления
	ComplexID string `json:"complex_id"` // hscpNo - идентификатор жилого комплекса

	ListingTypeName string `json:"listing_type_name"` // rletTpNm - тип недвижимости
	TradeTypeName   string `json:"trade_type_name"`   // tradTpNm - тип сделки (매매/전세/월세)

	PriceRaw        string `json:"price_raw"`                  // prcInfo - цена как есть, например "3억 5,000"
	PriceNormalized *int64 `json:"price_normalized,omitempty"` // цена в вонах; nil при ошибке разбора

	AreaPrimary   string `json:"area_primary"`   // spc1 - общая площадь
	AreaSecondary string `json:"area_secondary"` // spc2 - жилая площадь
	FloorInfo     string `json:"floor_info"`     // flrInfo - "этаж/этажность"
	Direction     string `json:"direction"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Geohash   string   `json:"geohash,omitempty"` // производное поле для группировки по локации

	TradePrice   string `json:"trade_price"` // залог/аренда для 월세
	RealtorName  string `json:"realtor_name"`
	BuildingName string `json:"building_name"` // bildNm, например "101동"

	Description   string `json:"description"`    // atclFetrDesc
	ConfirmedDate string `json:"confirmed_date"` // atclCfmYmd

	// CollectedAt назначается оркестратором в начале прогона и общий для всех
	// записей одного прогона. CreatedAt назначается хранилищем при вставке.
	CollectedAt time.Time `json:"collected_at"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// TimeRange - полуоткрытый интервал запроса истории. nil-границы не ограничивают.
type TimeRange struct {
	From *time.Time
	To   *time.Time
}

// Contains проверяет, попадает ли момент времени в интервал (границы включительно).
func (tr TimeRange) Contains(t time.Time) bool {
	if tr.From != nil && t.Before(*tr.From) {
		return false
	}
	if tr.To != nil && t.After(*tr.To) {
		return false
	}
	return true
}

// PriceChange - изменение нормализованной цены одного объявления между двумя снимками.
type PriceChange struct {
	ListingID string `json:"listing_id"`
	From      int64  `json:"from"`
	To        int64  `json:"to"`
}

// SnapshotDiff - результат сравнения двух снимков одного комплекса.
// FromSnapshot/ToSnapshot - фактически использованные снимки (ближайшие не позже
// запрошенных моментов); nil - истории на тот момент еще не было.
type SnapshotDiff struct {
	ComplexID string `json:"complex_id"`

	FromRequested time.Time  `json:"from_requested"`
	ToRequested   time.Time  `json:"to_requested"`
	FromSnapshot  *time.Time `json:"from_snapshot,omitempty"`
	ToSnapshot    *time.Time `json:"to_snapshot,omitempty"`

	Disappeared  []string      `json:"disappeared"`   // были в from, пропали в to - главный сигнал
	Appeared     []string      `json:"appeared"`      // появились после from
	PriceChanged []PriceChange `json:"price_changed"` // обе цены не nil и различаются
}

// CollectionResult - итог одного прогона сбора по одному комплексу.
type CollectionResult struct {
	RunID       uuid.UUID `json:"run_id"`
	ComplexID   string    `json:"complex_id"`
	TradeType   string    `json:"trade_type"`
	CollectedAt time.Time `json:"collected_at"`

	Stored     int `json:"stored"`     // записей дошло до хранилища
	Failed     int `json:"failed"`     // записей отброшено на валидации
	Duplicates int `json:"duplicates"` // записей схлопнуто дедупликатором
}
