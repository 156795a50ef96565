// Package handlers общие помощники HTTP-слоя: конверт ответа {message, data},
// разбор тела запроса и представления слотов и сессий в JSON.
package handlers

import (
	"encoding/json"
	"net/http"
)

const msgInternalError = "Internal server error."

// Envelope единый формат ответа API
type Envelope struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// RespondJSON пишет payload как JSON с указанным статусом
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondData успешный ответ 200 {message, data}
func RespondData(w http.ResponseWriter, message string, data interface{}) {
	RespondJSON(w, http.StatusOK, Envelope{Message: message, Data: data})
}

// RespondFailure доменный отказ: 200 {message, data: null}
func RespondFailure(w http.ResponseWriter, message string) {
	RespondJSON(w, http.StatusOK, Envelope{Message: message})
}

// RespondError ответ об ошибке с произвольным статусом
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, Envelope{Message: message})
}

// RespondBadRequest ошибка валидации 400
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondInternalError ошибка хранилища или транзакции 500, детали только в логе
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}
