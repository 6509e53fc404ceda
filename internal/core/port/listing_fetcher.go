package port

import (
	"context"

	"github.com/YOOYEONGHO/naver-land-collector/internal/core/domain"
)

// ListingFetcherPort - внешний коллаборатор: выгрузка "сырых" объявлений
// по комплексу и типу сделки. Транспорт ядру не важен, важно только то,
// что каждая запись - отображение имя поля -> значение.
type ListingFetcherPort interface {
	FetchListings(ctx context.Context, complexID string, tradeType string) ([]domain.RawListing, error)
}
