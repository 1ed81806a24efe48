package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/GoArmGo/foodgram/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxBodySize ограничивает тело запроса: картинка рецепта приходит внутри JSON.
const maxBodySize = 20 << 20

const (
	messageInternal = "Внутренняя ошибка сервера"
	messageBusy     = "Сервер занят, попробуйте позже"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to marshal JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, errorResponse{Error: message}, logger)
}

// respondWithDomainError выбирает код ответа по виду ошибки.
// Конфликт отдаётся как 400, так клиенты API получали его всегда.
func respondWithDomainError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var code int
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict):
		code = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		code = http.StatusForbidden
	default:
		logger.Error("request failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, messageInternal, logger)
		return
	}
	logger.Warn("request rejected", "status", code, "field", domain.FieldOf(err), "error", err)
	respondWithJSON(w, code, errorResponse{Error: domain.MessageOf(err), Field: domain.FieldOf(err)}, logger)
}

// decodeJSON читает тело запроса в dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.NewValidationError("", "Некорректное тело запроса")
	}
	return nil
}

// uuidParam достаёт идентификатор из пути. Кривой id даёт 404, как и несуществующий.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, domain.NewNotFoundError(name, "Страница не найдена")
	}
	return id, nil
}

// intQuery читает неотрицательное число из query-параметра, иначе возвращает def.
func intQuery(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 0 {
		return def
	}
	return v
}

func boolQuery(r *http.Request, name string) bool {
	switch r.URL.Query().Get(name) {
	case "1", "true", "True":
		return true
	}
	return false
}

// acquireUpload занимает слот в лимитере загрузок и возвращает функцию освобождения.
func acquireUpload(ctx context.Context, limiter chan struct{}) (func(), error) {
	if limiter == nil {
		return func() {}, nil
	}
	select {
	case limiter <- struct{}{}:
		return func() { <-limiter }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
