package naverfetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/YOOYEONGHO/naver-land-collector/internal/core/domain"

	"github.com/gocolly/colly/v2"
)

// naverArticleList - структура ответа getComplexArticleList. Сами объявления
// оставляем сырыми отображениями: их схема плывет, и разбирается она только
// на границе нормализатора.
type naverArticleList struct {
	Result struct {
		List       []domain.RawListing `json:"list"`
		MoreDataYn string              `json:"moreDataYn"`
	} `json:"result"`
}

func (a *NaverFetcherAdapter) buildPageURL(complexID, tradeType string, page int) (string, error) {
	u, err := url.Parse(a.baseURL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("hscpNo", complexID)
	q.Set("tradTpCd", tradeType)
	q.Set("order", "date_desc") // сначала новые
	q.Set("showR0", "N")        // скрыть завершенные сделки
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// FetchListings выгружает все страницы объявлений одного комплекса.
// Ошибка любой страницы проваливает выгрузку целиком: оркестратору нужен
// полный снимок или ничего, иначе diff увидит ложные "исчезновения".
func (a *NaverFetcherAdapter) FetchListings(ctx context.Context, complexID string, tradeType string) ([]domain.RawListing, error) {
	if complexID == "" {
		return nil, fmt.Errorf("naver adapter: complex ID (hscpNo) is required")
	}

	var fetched []domain.RawListing

	for page := 1; page <= a.maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("naver adapter: fetch cancelled on page %d: %w", page, err)
		}

		targetURL, err := a.buildPageURL(complexID, tradeType, page)
		if err != nil {
			return nil, fmt.Errorf("naver adapter: failed to build URL: %w", err)
		}

		// наследует лимиты, но имеет свои собственные обработчики
		collector := a.collector.Clone()

		var pageListings []domain.RawListing
		var hasMore bool
		var responseErr error

		collector.OnResponse(func(r *colly.Response) {
			pageListings, hasMore, responseErr = decodeArticleListPage(r.Body)
			if responseErr != nil {
				responseErr = fmt.Errorf("naver adapter: page %s: %w", r.Request.URL.String(), responseErr)
			}
		})
		collector.OnError(func(r *colly.Response, err error) {
			responseErr = fmt.Errorf("naver adapter: request to %s failed with status %d: %w", r.Request.URL, r.StatusCode, err)
		})

		if err := collector.Visit(targetURL); err != nil {
			return nil, fmt.Errorf("naver adapter: failed to visit %s: %w", targetURL, err)
		}
		collector.Wait()

		if responseErr != nil {
			return nil, responseErr
		}

		fetched = append(fetched, pageListings...)

		// Страница короче номинала или явный признак конца - стоп.
		if len(pageListings) < a.pageSize || !hasMore {
			break
		}
	}

	return fetched, nil
}

// decodeArticleListPage разбирает тело одной страницы. Возвращает объявления
// страницы и признак наличия следующей страницы.
func decodeArticleListPage(body []byte) ([]domain.RawListing, bool, error) {
	var data naverArticleList
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, false, fmt.Errorf("failed to decode article list: %w", err)
	}

	if data.Result.List == nil {
		// Нет result.list - апстрим сменил формат или вернул отказ.
		return nil, false, fmt.Errorf("malformed response: missing result.list")
	}

	return data.Result.List, data.Result.MoreDataYn == "Y", nil
}
