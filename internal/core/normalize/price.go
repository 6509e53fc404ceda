package normalize

import (
	"strconv"
	"strings"
)

// Масштабы корейских ценовых единиц: 억 = 100 млн вон, остаток после 억
// указывается в 만 (10 тыс. вон).
const (
	eokWon  = 100_000_000
	manWon  = 10_000
	eokRune = "억"
)

// ParsePrice разбирает цену Naver Land ("prcInfo") в воны.
//
//	"15억"       -> 1_500_000_000
//	"3억 5,000"  -> 350_000_000
//	"5000"       -> 5000
//
// Возвращает nil, если строка не разбирается (например, "가격협의" или
// составная цена 월세 вида "3000/30"). Ошибка разбора - деградация одной
// записи, а не ошибка прогона: запись сохраняется с nil-ценой.
func ParsePrice(raw string) *int64 {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" {
		return nil
	}

	if strings.Contains(s, eokRune) {
		parts := strings.SplitN(s, eokRune, 2)
		eokPart := strings.TrimSpace(parts[0])
		manPart := ""
		if len(parts) > 1 {
			manPart = strings.TrimSpace(parts[1])
		}

		var total int64
		if eokPart != "" {
			eok, err := strconv.ParseInt(eokPart, 10, 64)
			if err != nil {
				return nil
			}
			total += eok * eokWon
		}
		if manPart != "" {
			man, err := strconv.ParseInt(manPart, 10, 64)
			if err != nil {
				return nil
			}
			total += man * manWon
		}
		return &total
	}

	// Чисто числовая цена. Для дорогой недвижимости редкость, но встречается.
	value, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &value
}
