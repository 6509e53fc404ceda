package domain

import "errors"

// Таксономия ошибок ядра. Слои оборачивают их через fmt.Errorf("...: %w", ...),
// вызывающие проверяют errors.Is.
var (
	// ErrFetchFailed - апстрим недоступен или ответ не разбирается.
	// Прогон прерывается целиком, в хранилище ничего не попадает.
	ErrFetchFailed = errors.New("upstream fetch failed")

	// ErrStoreFailed - append или query не смогли завершиться.
	// Неудачный append гарантированно не оставляет частично записанной пачки.
	ErrStoreFailed = errors.New("snapshot store operation failed")

	// ErrInvalidTimeRange - fromTimestamp позже toTimestamp в запросе diff.
	// Отсутствие истории ошибкой не является.
	ErrInvalidTimeRange = errors.New("from timestamp is after to timestamp")
)
