package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// UserIDHeader — заголовок, в котором шлюз аутентификации передаёт id пользователя.
const UserIDHeader = "X-User-ID"

const messageUnauthorized = "Учетные данные не были предоставлены"

type userIDKey struct{}

// RequestLogger — middleware для логирования HTTP-запросов.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Оборачиваем ResponseWriter, чтобы знать статус
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"user_id", UserIDFrom(r.Context()),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// responseWriter нужен, чтобы перехватывать код ответа
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// UserIdentity кладёт id пользователя из заголовка в контекст запроса.
// Без заголовка запрос считается анонимным, с некорректным значением — отклоняется.
func UserIdentity(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(UserIDHeader)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := uuid.Parse(raw)
			if err != nil || id == uuid.Nil {
				logger.Warn("invalid user id header", "value", raw)
				respondWithError(w, http.StatusUnauthorized, messageUnauthorized, logger)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey{}, id)))
		})
	}
}

// RequireUser пропускает только запросы с известным пользователем.
func RequireUser(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserIDFrom(r.Context()) == uuid.Nil {
				respondWithError(w, http.StatusUnauthorized, messageUnauthorized, logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFrom возвращает id пользователя запроса или uuid.Nil для анонима.
func UserIDFrom(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(userIDKey{}).(uuid.UUID)
	return id
}
