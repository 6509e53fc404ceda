package rest

import (
	"encoding/json"
	"net/http"
	"time"
)

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// RespondWithJSON отправляет JSON-ответ.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// ParseTimeParam разбирает временной query-параметр в формате RFC3339.
// Пустое значение - это nil, а не ошибка.
func ParseTimeParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
