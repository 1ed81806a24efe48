package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/foodgram/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRecipeStorage реализует интерфейс ports.RecipeStorage с использованием GORM
type GormRecipeStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormRecipeStorage создает новый экземпляр GormRecipeStorage
func NewGormRecipeStorage(db *gorm.DB, logger *slog.Logger) *GormRecipeStorage {
	return &GormRecipeStorage{db: db, logger: logger}
}

// CreateRecipe сохраняет рецепт, его теги и состав в одной транзакции.
// Неизвестный тег или ингредиент откатывает всю запись.
func (s *GormRecipeStorage) CreateRecipe(ctx context.Context, recipe *domain.Recipe, tagIDs []uuid.UUID, lines []domain.IngredientLine) error {
	start := time.Now()

	if recipe.ID == uuid.Nil {
		recipe.ID = uuid.New()
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkTagsExist(tx, tagIDs); err != nil {
			return err
		}
		if err := checkIngredientsExist(tx, lines); err != nil {
			return err
		}
		if err := tx.Create(recipe).Error; err != nil {
			return fmt.Errorf("ошибка при сохранении рецепта: %w", err)
		}
		if err := insertRecipeTags(tx, recipe.ID, tagIDs); err != nil {
			return err
		}
		return insertIngredientAmounts(tx, recipe.ID, lines)
	})
	if err != nil {
		s.logger.Error("failed to create recipe", "recipe_id", recipe.ID, "author_id", recipe.AuthorID, "error", err)
		return err
	}

	s.logger.Info("recipe created",
		"recipe_id", recipe.ID,
		"author_id", recipe.AuthorID,
		"tags", len(tagIDs),
		"ingredients", len(lines),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// UpdateRecipe перезаписывает скалярные поля рецепта. Переданная коллекция
// заменяется целиком (в том числе на пустую), непереданная остаётся как была.
func (s *GormRecipeStorage) UpdateRecipe(
	ctx context.Context,
	recipe *domain.Recipe,
	tagIDs domain.Optional[[]uuid.UUID],
	lines domain.Optional[[]domain.IngredientLine],
) error {
	start := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		newTags, replaceTags := tagIDs.Get()
		newLines, replaceLines := lines.Get()

		if replaceTags {
			if err := checkTagsExist(tx, newTags); err != nil {
				return err
			}
		}
		if replaceLines {
			if err := checkIngredientsExist(tx, newLines); err != nil {
				return err
			}
		}

		recipe.UpdatedAt = time.Now()
		res := tx.Model(&domain.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]interface{}{
			"name":         recipe.Name,
			"text":         recipe.Text,
			"cooking_time": recipe.CookingTime,
			"image":        recipe.Image,
			"updated_at":   recipe.UpdatedAt,
		})
		if res.Error != nil {
			return fmt.Errorf("ошибка при обновлении рецепта: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.NewNotFoundError("id", domain.MessageRecipeNotFound)
		}

		if replaceTags {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&domain.RecipeTag{}).Error; err != nil {
				return fmt.Errorf("ошибка при удалении тегов рецепта: %w", err)
			}
			if err := insertRecipeTags(tx, recipe.ID, newTags); err != nil {
				return err
			}
		}
		if replaceLines {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&domain.IngredientAmount{}).Error; err != nil {
				return fmt.Errorf("ошибка при удалении состава рецепта: %w", err)
			}
			if err := insertIngredientAmounts(tx, recipe.ID, newLines); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to update recipe", "recipe_id", recipe.ID, "error", err)
		return err
	}

	s.logger.Info("recipe updated",
		"recipe_id", recipe.ID,
		"tags_replaced", tagIDs.IsSet(),
		"ingredients_replaced", lines.IsSet(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// DeleteRecipe удаляет рецепт вместе со всеми связанными строками.
func (s *GormRecipeStorage) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&domain.RecipeTag{},
			&domain.IngredientAmount{},
			&domain.Favorite{},
			&domain.Cart{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("ошибка при удалении связей рецепта: %w", err)
			}
		}
		res := tx.Where("id = ?", id).Delete(&domain.Recipe{})
		if res.Error != nil {
			return fmt.Errorf("ошибка при удалении рецепта: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.NewNotFoundError("id", domain.MessageRecipeNotFound)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("failed to delete recipe", "recipe_id", id, "error", err)
		return err
	}

	s.logger.Info("recipe deleted", "recipe_id", id, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// GetRecipeByID получает рецепт по ID
func (s *GormRecipeStorage) GetRecipeByID(ctx context.Context, id uuid.UUID) (*domain.Recipe, error) {
	var recipe domain.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.NewNotFoundError("id", domain.MessageRecipeNotFound)
		}
		s.logger.Error("failed to get recipe by id", "recipe_id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении рецепта по ID: %w", err)
	}
	return &recipe, nil
}

// ListRecipes возвращает страницу рецептов, новые первыми, и общее число подходящих под фильтр.
func (s *GormRecipeStorage) ListRecipes(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, int64, error) {
	start := time.Now()

	query := func() *gorm.DB {
		return s.applyFilter(s.db.WithContext(ctx).Model(&domain.Recipe{}), filter)
	}

	var count int64
	if err := query().Count(&count).Error; err != nil {
		s.logger.Error("failed to count recipes", "error", err)
		return nil, 0, fmt.Errorf("ошибка при подсчёте рецептов: %w", err)
	}

	var recipes []domain.Recipe
	err := query().
		Order("created_at DESC").
		Order("id").
		Limit(filter.Limit).
		Offset(offset(filter.Page, filter.Limit)).
		Find(&recipes).Error
	if err != nil {
		s.logger.Error("failed to list recipes", "page", filter.Page, "limit", filter.Limit, "error", err)
		return nil, 0, fmt.Errorf("ошибка при получении списка рецептов: %w", err)
	}

	s.logger.Info("listed recipes",
		"page", filter.Page,
		"limit", filter.Limit,
		"count", len(recipes),
		"total", count,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return recipes, count, nil
}

func (s *GormRecipeStorage) applyFilter(q *gorm.DB, filter domain.RecipeFilter) *gorm.DB {
	if filter.AuthorID != uuid.Nil {
		q = q.Where("author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		q = q.Where("id IN (?)", s.db.Model(&domain.RecipeTag{}).
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs))
	}
	if filter.FavoritedBy != uuid.Nil {
		q = q.Where("id IN (?)", s.db.Model(&domain.Favorite{}).
			Select("recipe_id").
			Where("user_id = ?", filter.FavoritedBy))
	}
	if filter.InCartOf != uuid.Nil {
		q = q.Where("id IN (?)", s.db.Model(&domain.Cart{}).
			Select("recipe_id").
			Where("user_id = ?", filter.InCartOf))
	}
	return q
}

// ListRecipesByAuthor отдаёт последние рецепты автора. limit <= 0 — без ограничения.
func (s *GormRecipeStorage) ListRecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]domain.Recipe, error) {
	q := s.db.WithContext(ctx).Where("author_id = ?", authorID).Order("created_at DESC").Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var recipes []domain.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		s.logger.Error("failed to list author recipes", "author_id", authorID, "error", err)
		return nil, fmt.Errorf("ошибка при получении рецептов автора: %w", err)
	}
	return recipes, nil
}

func (s *GormRecipeStorage) CountRecipesByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("ошибка при подсчёте рецептов автора: %w", err)
	}
	return count, nil
}

// RecipeTags возвращает теги рецепта, отсортированные по названию.
func (s *GormRecipeStorage) RecipeTags(ctx context.Context, recipeID uuid.UUID) ([]domain.Tag, error) {
	tags := []domain.Tag{}
	err := s.db.WithContext(ctx).
		Model(&domain.Tag{}).
		Select("tags.id, tags.name, tags.color, tags.slug").
		Joins("JOIN recipe_tags ON recipe_tags.tag_id = tags.id").
		Where("recipe_tags.recipe_id = ?", recipeID).
		Order("tags.name").
		Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении тегов рецепта: %w", err)
	}
	return tags, nil
}

// RecipeIngredients возвращает состав рецепта вместе с названиями и единицами измерения.
func (s *GormRecipeStorage) RecipeIngredients(ctx context.Context, recipeID uuid.UUID) ([]domain.IngredientAmountView, error) {
	views := []domain.IngredientAmountView{}
	err := s.db.WithContext(ctx).
		Table("ingredient_amounts").
		Select("ingredients.id AS id, ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, ingredient_amounts.amount AS amount").
		Joins("JOIN ingredients ON ingredients.id = ingredient_amounts.ingredient_id").
		Where("ingredient_amounts.recipe_id = ?", recipeID).
		Order("ingredients.name").
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении состава рецепта: %w", err)
	}
	return views, nil
}

func checkTagsExist(tx *gorm.DB, tagIDs []uuid.UUID) error {
	ids := distinctIDs(tagIDs)
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&domain.Tag{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return fmt.Errorf("ошибка при проверке тегов: %w", err)
	}
	if count != int64(len(ids)) {
		return domain.NewValidationError("tags", domain.MessageTagNotFound)
	}
	return nil
}

func checkIngredientsExist(tx *gorm.DB, lines []domain.IngredientLine) error {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.IngredientID)
	}
	ids = distinctIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&domain.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return fmt.Errorf("ошибка при проверке ингредиентов: %w", err)
	}
	if count != int64(len(ids)) {
		return domain.NewValidationError("ingredients", domain.MessageIngredientNotFound)
	}
	return nil
}

func insertRecipeTags(tx *gorm.DB, recipeID uuid.UUID, tagIDs []uuid.UUID) error {
	ids := distinctIDs(tagIDs)
	if len(ids) == 0 {
		return nil
	}
	rows := make([]domain.RecipeTag, 0, len(ids))
	for _, tagID := range ids {
		rows = append(rows, domain.RecipeTag{ID: uuid.New(), RecipeID: recipeID, TagID: tagID})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("ошибка при сохранении тегов рецепта: %w", err)
	}
	return nil
}

func insertIngredientAmounts(tx *gorm.DB, recipeID uuid.UUID, lines []domain.IngredientLine) error {
	if len(lines) == 0 {
		return nil
	}
	rows := make([]domain.IngredientAmount, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, domain.IngredientAmount{
			ID:           uuid.New(),
			RecipeID:     recipeID,
			IngredientID: line.IngredientID,
			Amount:       line.Amount,
		})
	}
	if err := tx.Create(&rows).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.NewValidationError("ingredients", domain.MessageDuplicateIngredient)
		}
		return fmt.Errorf("ошибка при сохранении состава рецепта: %w", err)
	}
	return nil
}
