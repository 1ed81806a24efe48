package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/foodgram/internal/domain"
	"github.com/GoArmGo/foodgram/internal/usecase"
	"github.com/google/uuid"
)

const shoppingListFilename = "shopping_list.txt"

// RecipeHandler — обработчик HTTP-запросов для рецептов, избранного и корзины.
type RecipeHandler struct {
	recipes       usecase.RecipeUseCase
	members       usecase.MembershipUseCase
	shopping      usecase.ShoppingListUseCase
	uploadLimiter chan struct{}
	logger        *slog.Logger
}

// NewRecipeHandler создаёт новый экземпляр RecipeHandler.
func NewRecipeHandler(
	recipes usecase.RecipeUseCase,
	members usecase.MembershipUseCase,
	shopping usecase.ShoppingListUseCase,
	limiter chan struct{},
	logger *slog.Logger,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:       recipes,
		members:       members,
		shopping:      shopping,
		uploadLimiter: limiter,
		logger:        logger,
	}
}

// ListRecipes обрабатывает GET /api/recipes
func (h *RecipeHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	viewer := UserIDFrom(r.Context())
	q := r.URL.Query()

	filter := domain.RecipeFilter{
		Page:     intQuery(r, "page", 1),
		Limit:    intQuery(r, "limit", 0),
		TagSlugs: q["tags"],
	}
	if raw := q.Get("author"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithDomainError(w, domain.NewValidationError("author", "Некорректный идентификатор автора"), h.logger)
			return
		}
		filter.AuthorID = id
	}
	if boolQuery(r, "is_favorited") {
		filter.FavoritedBy = viewer
	}
	if boolQuery(r, "is_in_shopping_cart") {
		filter.InCartOf = viewer
	}

	page, err := h.recipes.ListRecipes(r.Context(), viewer, filter)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, page, h.logger)
}

// GetRecipe обрабатывает GET /api/recipes/{id}
func (h *RecipeHandler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	view, err := h.recipes.GetRecipe(r.Context(), UserIDFrom(r.Context()), id)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, view, h.logger)
}

// CreateRecipe обрабатывает POST /api/recipes
func (h *RecipeHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var in domain.RecipeCreate
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	release, err := acquireUpload(r.Context(), h.uploadLimiter)
	if err != nil {
		respondWithError(w, http.StatusServiceUnavailable, messageBusy, h.logger)
		return
	}
	defer release()

	view, err := h.recipes.CreateRecipe(r.Context(), UserIDFrom(r.Context()), in)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	h.logger.Info("recipe created", "recipe_id", view.ID, "author_id", view.Author.ID)
	respondWithJSON(w, http.StatusCreated, view, h.logger)
}

// UpdateRecipe обрабатывает PATCH /api/recipes/{id}
func (h *RecipeHandler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	var in domain.RecipeUpdate
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	release, err := acquireUpload(r.Context(), h.uploadLimiter)
	if err != nil {
		respondWithError(w, http.StatusServiceUnavailable, messageBusy, h.logger)
		return
	}
	defer release()

	view, err := h.recipes.UpdateRecipe(r.Context(), UserIDFrom(r.Context()), id, in)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, view, h.logger)
}

// DeleteRecipe обрабатывает DELETE /api/recipes/{id}
func (h *RecipeHandler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	if err := h.recipes.DeleteRecipe(r.Context(), UserIDFrom(r.Context()), id); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddFavorite обрабатывает POST /api/recipes/{id}/favorite
func (h *RecipeHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	h.addToggle(w, r, h.members.AddFavorite)
}

// RemoveFavorite обрабатывает DELETE /api/recipes/{id}/favorite
func (h *RecipeHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	h.removeToggle(w, r, h.members.RemoveFavorite)
}

// AddToCart обрабатывает POST /api/recipes/{id}/shopping_cart
func (h *RecipeHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	h.addToggle(w, r, h.members.AddToCart)
}

// RemoveFromCart обрабатывает DELETE /api/recipes/{id}/shopping_cart
func (h *RecipeHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	h.removeToggle(w, r, h.members.RemoveFromCart)
}

// DownloadShoppingCart обрабатывает GET /api/recipes/download_shopping_cart
func (h *RecipeHandler) DownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	body, err := h.shopping.RenderShoppingList(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+shoppingListFilename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("failed to write HTTP response", "error", err)
	}
}

type addFunc func(ctx context.Context, userID, recipeID uuid.UUID) (*domain.RecipeSummary, error)
type removeFunc func(ctx context.Context, userID, recipeID uuid.UUID) error

func (h *RecipeHandler) addToggle(w http.ResponseWriter, r *http.Request, add addFunc) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	summary, err := add(r.Context(), UserIDFrom(r.Context()), id)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, summary, h.logger)
}

func (h *RecipeHandler) removeToggle(w http.ResponseWriter, r *http.Request, remove removeFunc) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	if err := remove(r.Context(), UserIDFrom(r.Context()), id); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
