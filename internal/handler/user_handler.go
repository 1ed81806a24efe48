package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/foodgram/internal/domain"
	"github.com/GoArmGo/foodgram/internal/usecase"
)

// UserHandler — пользователи и подписки.
type UserHandler struct {
	users   usecase.UserUseCase
	members usecase.MembershipUseCase
	logger  *slog.Logger
}

func NewUserHandler(users usecase.UserUseCase, members usecase.MembershipUseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, members: members, logger: logger}
}

// Register обрабатывает POST /api/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in domain.UserRegistration
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	view, err := h.users.Register(r.Context(), in)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, view, h.logger)
}

// ListUsers обрабатывает GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.users.ListUsers(r.Context(), UserIDFrom(r.Context()), intQuery(r, "page", 1), intQuery(r, "limit", 0))
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, page, h.logger)
}

// GetUser обрабатывает GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	view, err := h.users.GetUser(r.Context(), UserIDFrom(r.Context()), id)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, view, h.logger)
}

// Me обрабатывает GET /api/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	me := UserIDFrom(r.Context())
	view, err := h.users.GetUser(r.Context(), me, me)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, view, h.logger)
}

// Subscribe обрабатывает POST /api/users/{id}/subscribe
func (h *UserHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	authorID, err := uuidParam(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	view, err := h.members.Subscribe(r.Context(), UserIDFrom(r.Context()), authorID, intQuery(r, "recipes_limit", 0))
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, view, h.logger)
}

// Unsubscribe обрабатывает DELETE /api/users/{id}/subscribe
func (h *UserHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	authorID, err := uuidParam(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	if err := h.members.Unsubscribe(r.Context(), UserIDFrom(r.Context()), authorID); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSubscriptions обрабатывает GET /api/users/subscriptions
func (h *UserHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	page, err := h.members.ListSubscriptions(
		r.Context(),
		UserIDFrom(r.Context()),
		intQuery(r, "page", 1),
		intQuery(r, "limit", 0),
		intQuery(r, "recipes_limit", 0),
	)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, page, h.logger)
}
