package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/foodgram/internal/domain"
	"github.com/GoArmGo/foodgram/internal/usecase"
)

// ReferenceHandler — теги, ингредиенты и импорт справочника.
type ReferenceHandler struct {
	reference     usecase.ReferenceUseCase
	imports       usecase.IngredientImportUseCase
	uploadLimiter chan struct{}
	logger        *slog.Logger
}

func NewReferenceHandler(
	reference usecase.ReferenceUseCase,
	imports usecase.IngredientImportUseCase,
	limiter chan struct{},
	logger *slog.Logger,
) *ReferenceHandler {
	return &ReferenceHandler{reference: reference, imports: imports, uploadLimiter: limiter, logger: logger}
}

// ListTags обрабатывает GET /api/tags
func (h *ReferenceHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.reference.ListTags(r.Context())
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, tags, h.logger)
}

// GetTag обрабатывает GET /api/tags/{id}
func (h *ReferenceHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	tag, err := h.reference.GetTag(r.Context(), id)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, tag, h.logger)
}

// CreateTag обрабатывает POST /api/tags
func (h *ReferenceHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var in domain.Tag
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	tag, err := h.reference.CreateTag(r.Context(), in)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, tag, h.logger)
}

// ListIngredients обрабатывает GET /api/ingredients?name=...
func (h *ReferenceHandler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	items, err := h.reference.ListIngredients(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, items, h.logger)
}

// GetIngredient обрабатывает GET /api/ingredients/{id}
func (h *ReferenceHandler) GetIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	item, err := h.reference.GetIngredient(r.Context(), id)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, item, h.logger)
}

// ImportIngredients обрабатывает POST /api/ingredients/import
// Тело запроса содержит сам JSON-файл, импорт выполняет воркер.
func (h *ReferenceHandler) ImportIngredients(w http.ResponseWriter, r *http.Request) {
	release, err := acquireUpload(r.Context(), h.uploadLimiter)
	if err != nil {
		respondWithError(w, http.StatusServiceUnavailable, messageBusy, h.logger)
		return
	}
	defer release()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	key, err := h.imports.EnqueueImport(r.Context(), UserIDFrom(r.Context()), r.Body)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusAccepted, map[string]string{"object_key": key}, h.logger)
}
