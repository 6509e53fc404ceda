package rest

import (
	"errors"
	"net/http"

	"github.com/YOOYEONGHO/naver-land-collector/internal/contextkeys"
	"github.com/YOOYEONGHO/naver-land-collector/internal/core/domain"
	"github.com/YOOYEONGHO/naver-land-collector/internal/core/port"
	"github.com/YOOYEONGHO/naver-land-collector/internal/core/port/usecases_port"
)

// AnalysisHandler обрабатывает читающие запросы: выборки, снапшоты, диффы.
type AnalysisHandler struct {
	queryUC     usecases_port.QueryListingsUseCase
	snapshotsUC usecases_port.ListSnapshotsUseCase
	diffUC      usecases_port.DiffSnapshotsUseCase
}

func NewAnalysisHandler(queryUC usecases_port.QueryListingsUseCase,
	snapshotsUC usecases_port.ListSnapshotsUseCase,
	diffUC usecases_port.DiffSnapshotsUseCase) *AnalysisHandler {

	return &AnalysisHandler{
		queryUC:     queryUC,
		snapshotsUC: snapshotsUC,
		diffUC:      diffUC,
	}
}

// QueryListings обрабатывает GET /api/v1/listings?complexId=...&from=...&to=...
func (h *AnalysisHandler) QueryListings(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	complexID := r.URL.Query().Get("complexId")
	if complexID == "" {
		WriteJSONError(w, http.StatusBadRequest, "complexId is required")
		return
	}

	from, err := ParseTimeParam(r.URL.Query().Get("from"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid 'from' timestamp, expected RFC3339")
		return
	}
	to, err := ParseTimeParam(r.URL.Query().Get("to"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid 'to' timestamp, expected RFC3339")
		return
	}

	records, err := h.queryUC.Query(r.Context(), complexID, domain.TimeRange{From: from, To: to})
	if err != nil {
		logger.Error("Failed to query listings", err, port.Fields{"complex_id": complexID})
		WriteJSONError(w, http.StatusInternalServerError, "failed to query listings")
		return
	}

	RespondWithJSON(w, http.StatusOK, records)
}

// ListSnapshots обрабатывает GET /api/v1/snapshots?complexId=...
func (h *AnalysisHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	complexID := r.URL.Query().Get("complexId")
	if complexID == "" {
		WriteJSONError(w, http.StatusBadRequest, "complexId is required")
		return
	}

	times, err := h.snapshotsUC.SnapshotTimes(r.Context(), complexID)
	if err != nil {
		logger.Error("Failed to list snapshot times", err, port.Fields{"complex_id": complexID})
		WriteJSONError(w, http.StatusInternalServerError, "failed to list snapshots")
		return
	}

	RespondWithJSON(w, http.StatusOK, SnapshotTimesResponse{
		ComplexID: complexID,
		Snapshots: times,
	})
}

// DiffSnapshots обрабатывает GET /api/v1/diff?complexId=...&from=...&to=...
func (h *AnalysisHandler) DiffSnapshots(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	complexID := r.URL.Query().Get("complexId")
	if complexID == "" {
		WriteJSONError(w, http.StatusBadRequest, "complexId is required")
		return
	}

	from, err := ParseTimeParam(r.URL.Query().Get("from"))
	if err != nil || from == nil {
		WriteJSONError(w, http.StatusBadRequest, "'from' is required, expected RFC3339")
		return
	}
	to, err := ParseTimeParam(r.URL.Query().Get("to"))
	if err != nil || to == nil {
		WriteJSONError(w, http.StatusBadRequest, "'to' is required, expected RFC3339")
		return
	}

	diff, err := h.diffUC.Diff(r.Context(), complexID, *from, *to)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTimeRange) {
			WriteJSONError(w, http.StatusBadRequest, "'from' must not be after 'to'")
			return
		}
		logger.Error("Failed to diff snapshots", err, port.Fields{"complex_id": complexID})
		WriteJSONError(w, http.StatusInternalServerError, "failed to diff snapshots")
		return
	}

	RespondWithJSON(w, http.StatusOK, diff)
}
