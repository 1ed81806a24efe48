package usecase

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/GoArmGo/foodgram/internal/core/ports"
	"github.com/GoArmGo/foodgram/internal/domain"
	"github.com/google/uuid"
)

const recipeImagePrefix = "recipes/"

// RecipePolicy — настраиваемые правила сохранения рецептов.
type RecipePolicy struct {
	AllowEmptyTags        bool
	AllowEmptyIngredients bool
	PageSize              int
}

// recipeUseCase implements RecipeUseCase
type recipeUseCase struct {
	recipes ports.RecipeStorage
	users   ports.UserStorage
	members ports.MembershipStorage
	files   ports.FileStorage
	policy  RecipePolicy
	logger  *slog.Logger
}

// NewRecipeUseCase создает новый экземпляр RecipeUseCase
func NewRecipeUseCase(
	recipes ports.RecipeStorage,
	users ports.UserStorage,
	members ports.MembershipStorage,
	files ports.FileStorage,
	policy RecipePolicy,
	logger *slog.Logger,
) RecipeUseCase {
	return &recipeUseCase{
		recipes: recipes,
		users:   users,
		members: members,
		files:   files,
		policy:  policy,
		logger:  logger,
	}
}

// CreateRecipe проверяет входные данные до любой записи, загружает картинку
// и сохраняет рецепт. Если запись в БД не удалась, картинка удаляется.
func (uc *recipeUseCase) CreateRecipe(ctx context.Context, authorID uuid.UUID, in domain.RecipeCreate) (*domain.RecipeView, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	tagIDs, err := uc.checkTags(in.Tags, uc.policy.AllowEmptyTags)
	if err != nil {
		return nil, err
	}
	if err := uc.checkLines(in.Ingredients, uc.policy.AllowEmptyIngredients); err != nil {
		return nil, err
	}
	img, err := DecodeImage(in.Image)
	if err != nil {
		return nil, err
	}
	if _, err := uc.users.GetUserByID(ctx, authorID); err != nil {
		return nil, err
	}

	recipe := &domain.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Name:        in.Name,
		Text:        in.Text,
		CookingTime: in.CookingTime,
	}

	key := imageKey(recipe.ID, img.Ext)
	recipe.Image, err = uc.files.UploadFile(ctx, key, bytes.NewReader(img.Data), img.ContentType)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при загрузке картинки рецепта: %w", err)
	}

	if err := uc.recipes.CreateRecipe(ctx, recipe, tagIDs, in.Ingredients); err != nil {
		uc.discardObject(ctx, key)
		return nil, fmt.Errorf("usecase: ошибка при создании рецепта: %w", err)
	}

	uc.logger.Info("recipe composed", "recipe_id", recipe.ID, "author_id", authorID)
	return uc.buildView(ctx, authorID, recipe)
}

// UpdateRecipe меняет рецепт. Изменять может только автор.
func (uc *recipeUseCase) UpdateRecipe(ctx context.Context, userID, recipeID uuid.UUID, in domain.RecipeUpdate) (*domain.RecipeView, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	tags := domain.None[[]uuid.UUID]()
	if ids, ok := in.Tags.Get(); ok {
		checked, err := uc.checkTags(ids, true)
		if err != nil {
			return nil, err
		}
		tags = domain.Some(checked)
	}
	lines := domain.None[[]domain.IngredientLine]()
	if ls, ok := in.Ingredients.Get(); ok {
		if err := uc.checkLines(ls, true); err != nil {
			return nil, err
		}
		if ls == nil {
			ls = []domain.IngredientLine{}
		}
		lines = domain.Some(ls)
	}
	var newImage *DecodedImage
	if raw, ok := in.Image.Get(); ok {
		decoded, err := DecodeImage(raw)
		if err != nil {
			return nil, err
		}
		newImage = decoded
	}

	recipe, err := uc.recipes.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, domain.NewForbiddenError(domain.MessageNotRecipeAuthor)
	}

	recipe.Name = in.Name
	recipe.Text = in.Text
	recipe.CookingTime = in.CookingTime

	oldImage := recipe.Image
	newKey := ""
	if newImage != nil {
		newKey = imageKey(uuid.New(), newImage.Ext)
		recipe.Image, err = uc.files.UploadFile(ctx, newKey, bytes.NewReader(newImage.Data), newImage.ContentType)
		if err != nil {
			return nil, fmt.Errorf("usecase: ошибка при загрузке картинки рецепта: %w", err)
		}
	}

	if err := uc.recipes.UpdateRecipe(ctx, recipe, tags, lines); err != nil {
		if newKey != "" {
			uc.discardObject(ctx, newKey)
		}
		return nil, fmt.Errorf("usecase: ошибка при обновлении рецепта: %w", err)
	}
	if newKey != "" {
		uc.discardImageURL(ctx, oldImage)
	}

	return uc.buildView(ctx, userID, recipe)
}

// DeleteRecipe удаляет рецепт и его картинку. Удалять может только автор.
func (uc *recipeUseCase) DeleteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	recipe, err := uc.recipes.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe.AuthorID != userID {
		return domain.NewForbiddenError(domain.MessageNotRecipeAuthor)
	}
	if err := uc.recipes.DeleteRecipe(ctx, recipeID); err != nil {
		return fmt.Errorf("usecase: ошибка при удалении рецепта: %w", err)
	}
	uc.discardImageURL(ctx, recipe.Image)
	return nil
}

func (uc *recipeUseCase) GetRecipe(ctx context.Context, viewerID, recipeID uuid.UUID) (*domain.RecipeView, error) {
	recipe, err := uc.recipes.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return uc.buildView(ctx, viewerID, recipe)
}

// ListRecipes отдаёт страницу рецептов. Фильтры "в избранном" и "в корзине"
// без пользователя ничего не фильтруют.
func (uc *recipeUseCase) ListRecipes(ctx context.Context, viewerID uuid.UUID, filter domain.RecipeFilter) (*domain.Page[domain.RecipeView], error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit, uc.policy.PageSize)

	recipes, total, err := uc.recipes.ListRecipes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении списка рецептов: %w", err)
	}

	views := make([]domain.RecipeView, 0, len(recipes))
	for i := range recipes {
		view, err := uc.buildView(ctx, viewerID, &recipes[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return &domain.Page[domain.RecipeView]{Count: total, Results: views}, nil
}

// checkTags убирает повторы: набор тегов — это множество.
func (uc *recipeUseCase) checkTags(ids []uuid.UUID, allowEmpty bool) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			return nil, domain.NewValidationError("tags", domain.MessageTagNotFound)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 && !allowEmpty {
		return nil, domain.NewValidationError("tags", domain.MessageEmptyTags)
	}
	return out, nil
}

// checkLines проверяет диапазоны количества и то, что ингредиент не повторяется.
func (uc *recipeUseCase) checkLines(lines []domain.IngredientLine, allowEmpty bool) error {
	if len(lines) == 0 && !allowEmpty {
		return domain.NewValidationError("ingredients", domain.MessageEmptyIngredients)
	}
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		if err := toValidationError(validate.Struct(line), "ingredients"); err != nil {
			return err
		}
		if _, ok := seen[line.IngredientID]; ok {
			return domain.NewValidationError("ingredients", domain.MessageDuplicateIngredient)
		}
		seen[line.IngredientID] = struct{}{}
	}
	return nil
}

func (uc *recipeUseCase) buildView(ctx context.Context, viewerID uuid.UUID, recipe *domain.Recipe) (*domain.RecipeView, error) {
	author, err := uc.users.GetUserByID(ctx, recipe.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении автора рецепта: %w", err)
	}
	tags, err := uc.recipes.RecipeTags(ctx, recipe.ID)
	if err != nil {
		return nil, err
	}
	ingredients, err := uc.recipes.RecipeIngredients(ctx, recipe.ID)
	if err != nil {
		return nil, err
	}

	view := &domain.RecipeView{
		ID:          recipe.ID,
		Tags:        tags,
		Ingredients: ingredients,
		Name:        recipe.Name,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
		Image:       recipe.Image,
		CreatedAt:   recipe.CreatedAt,
	}

	subscribed := false
	if viewerID != uuid.Nil {
		if subscribed, err = uc.members.IsSubscribed(ctx, viewerID, author.ID); err != nil {
			return nil, err
		}
		if view.IsFavorited, err = uc.members.IsFavorited(ctx, viewerID, recipe.ID); err != nil {
			return nil, err
		}
		if view.IsInShoppingCart, err = uc.members.IsInCart(ctx, viewerID, recipe.ID); err != nil {
			return nil, err
		}
	}
	view.Author = domain.NewUserView(*author, subscribed)
	return view, nil
}

// discardObject убирает загруженный объект после неудачной записи.
// Ошибка только логируется: основная ошибка уже возвращается вызывающему.
func (uc *recipeUseCase) discardObject(ctx context.Context, key string) {
	if err := uc.files.DeleteFile(context.WithoutCancel(ctx), key); err != nil {
		uc.logger.Warn("failed to remove orphaned object", "key", key, "error", err)
	}
}

func (uc *recipeUseCase) discardImageURL(ctx context.Context, url string) {
	if key, ok := imageKeyFromURL(url); ok {
		uc.discardObject(ctx, key)
	}
}

func imageKey(id uuid.UUID, ext string) string {
	return fmt.Sprintf("%s%s.%s", recipeImagePrefix, id, ext)
}

func imageKeyFromURL(url string) (string, bool) {
	if !strings.Contains(url, "/"+recipeImagePrefix) {
		return "", false
	}
	return recipeImagePrefix + path.Base(url), true
}

func normalizePage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit < 1 {
		limit = 6
	}
	return page, limit
}
