package naverfetcher

import (
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
)

// Мобильная версия Naver Land отдает JSON без авторизации, но ожидает
// заголовки мобильного браузера.
const mobileUserAgent = "Mozilla/5.0 (Linux; Android 10; SM-G981B) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/80.0.3987.162 Mobile Safari/537.36"

// NaverFetcherAdapter отвечает за все взаимодействия с m.land.naver.com.
type NaverFetcherAdapter struct {
	// один родительский коллектор, который разделяет лимиты между прогонами
	collector *colly.Collector
	baseURL   string
	maxPages  int
	pageSize  int
}

// NewNaverFetcherAdapter - конструктор.
func NewNaverFetcherAdapter(baseURL string, maxPages, pageSize int) (*NaverFetcherAdapter, error) {
	c := colly.NewCollector(
		colly.AllowedDomains("m.land.naver.com"),
		colly.AllowURLRevisit(),
		colly.UserAgent(mobileUserAgent),
	)

	err := c.Limit(&colly.LimitRule{
		DomainGlob:  "m.land.naver.com",
		Parallelism: 1,
		RandomDelay: 2 * time.Second, // вежливая пауза между страницами
	})
	if err != nil {
		return nil, fmt.Errorf("naver adapter: failed to set limit rule: %w", err)
	}

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Referer", "https://m.land.naver.com/")
		r.Headers.Set("Accept", "application/json, text/javascript, */*; q=0.01")
		r.Headers.Set("X-Requested-With", "XMLHttpRequest")
		r.Headers.Set("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7")
	})

	return &NaverFetcherAdapter{
		collector: c,
		baseURL:   baseURL,
		maxPages:  maxPages,
		pageSize:  pageSize,
	}, nil
}
