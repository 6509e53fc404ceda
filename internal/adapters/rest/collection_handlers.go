package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/YOOYEONGHO/naver-land-collector/internal/constants"
	"github.com/YOOYEONGHO/naver-land-collector/internal/contextkeys"
	"github.com/YOOYEONGHO/naver-land-collector/internal/core/domain"
	"github.com/YOOYEONGHO/naver-land-collector/internal/core/port"
	"github.com/YOOYEONGHO/naver-land-collector/internal/core/port/usecases_port"
)

// CollectionHandler обрабатывает запросы на запуск сбора снапшотов.
type CollectionHandler struct {
	collectUC usecases_port.CollectSnapshotUseCase
}

func NewCollectionHandler(collectUC usecases_port.CollectSnapshotUseCase) *CollectionHandler {
	return &CollectionHandler{collectUC: collectUC}
}

// Collect обрабатывает POST /api/v1/collect.
func (h *CollectionHandler) Collect(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	var req CollectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ComplexID == "" {
		WriteJSONError(w, http.StatusBadRequest, "complexId is required")
		return
	}
	if req.TradeType == "" {
		req.TradeType = constants.TradeTypeSale
	}
	if !constants.IsKnownTradeType(req.TradeType) {
		WriteJSONError(w, http.StatusBadRequest, "unknown tradeType: "+req.TradeType)
		return
	}

	result, err := h.collectUC.Run(r.Context(), req.ComplexID, req.TradeType)
	if err != nil {
		logger.Error("Collection run failed", err, port.Fields{"complex_id": req.ComplexID})
		switch {
		case errors.Is(err, domain.ErrFetchFailed):
			WriteJSONError(w, http.StatusBadGateway, "failed to fetch listings from source")
		case errors.Is(err, domain.ErrStoreFailed):
			WriteJSONError(w, http.StatusInternalServerError, "failed to store snapshot")
		default:
			WriteJSONError(w, http.StatusInternalServerError, "collection run failed")
		}
		return
	}

	RespondWithJSON(w, http.StatusOK, CollectResponse{
		RunID:       result.RunID.String(),
		ComplexID:   result.ComplexID,
		TradeType:   result.TradeType,
		CollectedAt: result.CollectedAt,
		Stored:      result.Stored,
		Failed:      result.Failed,
		Duplicates:  result.Duplicates,
	})
}
