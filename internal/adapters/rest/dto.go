package rest

import "time"

// CollectRequest - тело запроса на ручной запуск сбора снапшота.
type CollectRequest struct {
	ComplexID string `json:"complexId"`
	TradeType string `json:"tradeType,omitempty"`
}

// CollectResponse - итог прогона сбора.
type CollectResponse struct {
	RunID       string    `json:"runId"`
	ComplexID   string    `json:"complexId"`
	TradeType   string    `json:"tradeType"`
	CollectedAt time.Time `json:"collectedAt"`
	Stored      int       `json:"stored"`
	Failed      int       `json:"failed"`
	Duplicates  int       `json:"duplicates"`
}

// SnapshotTimesResponse - список моментов снапшотов по комплексу.
type SnapshotTimesResponse struct {
	ComplexID string      `json:"complexId"`
	Snapshots []time.Time `json:"snapshots"`
}
