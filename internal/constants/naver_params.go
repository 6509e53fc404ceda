package constants

// Коды типа сделки Naver Land (параметр tradTpCd).
const (
	TradeTypeSale  = "A1" // 매매 - продажа
	TradeTypeLease = "B1" // 전세 - долгосрочная аренда с залогом
	TradeTypeRent  = "B2" // 월세 - помесячная аренда
)

// Параметры выгрузки getComplexArticleList.
const (
	// DefaultPageSize - примерный размер страницы API; страница короче
	// означает конец списка.
	DefaultPageSize = 20

	// DefaultMaxPages - предохранитель от бесконечной пагинации.
	DefaultMaxPages = 5
)

// IsKnownTradeType проверяет код типа сделки.
func IsKnownTradeType(code string) bool {
	switch code {
	case TradeTypeSale, TradeTypeLease, TradeTypeRent:
		return true
	}
	return false
}
