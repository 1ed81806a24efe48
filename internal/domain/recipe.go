package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinCookingTime = 1
	MaxCookingTime = 4320
	MinAmount      = 1
	MaxAmount      = 10000
)

// Ingredient — справочник ингредиентов, заполняется импортом.
type Ingredient struct {
	ID              uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	Name            string    `json:"name" db:"name" gorm:"size:64;not null;index:idx_ingredients_name_unit"`
	MeasurementUnit string    `json:"measurement_unit" db:"measurement_unit" gorm:"size:16;not null;index:idx_ingredients_name_unit"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

// Tag представляет модель тега,
// соответствует таблице tags в бд
type Tag struct {
	ID    uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	Name  string    `json:"name" db:"name" gorm:"size:64;uniqueIndex;not null"`
	Color string    `json:"color" db:"color" gorm:"size:16;uniqueIndex;not null"`
	Slug  string    `json:"slug" db:"slug" gorm:"size:50;uniqueIndex;not null"`
}

func (Tag) TableName() string {
	return "tags"
}

// Recipe — рецепт, принадлежит ровно одному автору.
type Recipe struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	AuthorID    uuid.UUID `json:"author_id" db:"author_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" db:"name" gorm:"size:64;not null"`
	Text        string    `json:"text" db:"text" gorm:"type:text;not null"`
	CookingTime int       `json:"cooking_time" db:"cooking_time" gorm:"not null"`
	Image       string    `json:"image" db:"image" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at" db:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeTag связывает рецепт и тег, соответствует таблице recipe_tags в бд
type RecipeTag struct {
	ID       uuid.UUID `db:"id" gorm:"type:uuid;primaryKey"`
	RecipeID uuid.UUID `db:"recipe_id" gorm:"type:uuid;not null;uniqueIndex:idx_recipe_tags_recipe_tag"`
	TagID    uuid.UUID `db:"tag_id" gorm:"type:uuid;not null;uniqueIndex:idx_recipe_tags_recipe_tag"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}

// IngredientAmount — строка состава рецепта, количество своё у каждого рецепта.
type IngredientAmount struct {
	ID           uuid.UUID `db:"id" gorm:"type:uuid;primaryKey"`
	RecipeID     uuid.UUID `db:"recipe_id" gorm:"type:uuid;not null;uniqueIndex:idx_ingredient_amounts_recipe_ingredient"`
	IngredientID uuid.UUID `db:"ingredient_id" gorm:"type:uuid;not null;uniqueIndex:idx_ingredient_amounts_recipe_ingredient"`
	Amount       int       `db:"amount" gorm:"not null"`
}

func (IngredientAmount) TableName() string {
	return "ingredient_amounts"
}

// IngredientLine — входная строка состава: какой ингредиент и сколько.
type IngredientLine struct {
	IngredientID uuid.UUID `json:"id" validate:"required"`
	Amount       int       `json:"amount" validate:"min=1,max=10000"`
}

// RecipeCreate — поля, которые принимаются при создании рецепта.
// Image — картинка в виде data:image/<ext>;base64,...
type RecipeCreate struct {
	Name        string           `json:"name" validate:"required,max=64"`
	Text        string           `json:"text" validate:"required"`
	CookingTime int              `json:"cooking_time" validate:"min=1,max=4320"`
	Image       string           `json:"image" validate:"required"`
	Tags        []uuid.UUID      `json:"tags"`
	Ingredients []IngredientLine `json:"ingredients"`
}

// RecipeUpdate — поля для обновления. Скалярные поля перезаписываются всегда,
// коллекции заменяются целиком только если переданы.
type RecipeUpdate struct {
	Name        string                     `json:"name" validate:"required,max=64"`
	Text        string                     `json:"text" validate:"required"`
	CookingTime int                        `json:"cooking_time" validate:"min=1,max=4320"`
	Image       Optional[string]           `json:"image"`
	Tags        Optional[[]uuid.UUID]      `json:"tags"`
	Ingredients Optional[[]IngredientLine] `json:"ingredients"`
}

// IngredientAmountView — строка состава для чтения.
type IngredientAmountView struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	MeasurementUnit string    `json:"measurement_unit" db:"measurement_unit"`
	Amount          int       `json:"amount" db:"amount"`
}

// RecipeView — рецепт в том виде, в котором его отдают на чтение.
type RecipeView struct {
	ID               uuid.UUID              `json:"id"`
	Tags             []Tag                  `json:"tags"`
	Author           UserView               `json:"author"`
	Ingredients      []IngredientAmountView `json:"ingredients"`
	Name             string                 `json:"name"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
	Image            string                 `json:"image"`
	CreatedAt        time.Time              `json:"created_at"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
}

// RecipeSummary — сокращённый рецепт для избранного, корзины и подписок.
type RecipeSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

func NewRecipeSummary(r Recipe) RecipeSummary {
	return RecipeSummary{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

// RecipeFilter — параметры выборки списка рецептов. uuid.Nil означает "без фильтра".
type RecipeFilter struct {
	Page        int
	Limit       int
	TagSlugs    []string
	AuthorID    uuid.UUID
	FavoritedBy uuid.UUID
	InCartOf    uuid.UUID
}

// Page — одна страница выдачи.
type Page[T any] struct {
	Count   int64 `json:"count"`
	Results []T   `json:"results"`
}
