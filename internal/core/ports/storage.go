package ports

import (
	"context"
	"io"

	"github.com/GoArmGo/foodgram/internal/domain"
	"github.com/google/uuid"
)

// RecipeStorage определяет методы для работы с рецептами и их составом.
// Запись рецепта вместе с тегами и ингредиентами выполняется одной транзакцией.
type RecipeStorage interface {
	CreateRecipe(ctx context.Context, recipe *domain.Recipe, tagIDs []uuid.UUID, lines []domain.IngredientLine) error
	UpdateRecipe(ctx context.Context, recipe *domain.Recipe, tagIDs domain.Optional[[]uuid.UUID], lines domain.Optional[[]domain.IngredientLine]) error
	DeleteRecipe(ctx context.Context, id uuid.UUID) error
	GetRecipeByID(ctx context.Context, id uuid.UUID) (*domain.Recipe, error)
	ListRecipes(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, int64, error)
	ListRecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]domain.Recipe, error)
	CountRecipesByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
	RecipeTags(ctx context.Context, recipeID uuid.UUID) ([]domain.Tag, error)
	RecipeIngredients(ctx context.Context, recipeID uuid.UUID) ([]domain.IngredientAmountView, error)
}

// MembershipStorage — избранное, корзина и подписки.
// Add* возвращают ErrConflict, Remove* — ErrNotFound.
type MembershipStorage interface {
	AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*domain.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
	IsFavorited(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)

	AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*domain.Cart, error)
	RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error
	IsInCart(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)

	Subscribe(ctx context.Context, userID, authorID uuid.UUID) (*domain.Subscription, error)
	Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error
	IsSubscribed(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
	ListSubscriptions(ctx context.Context, userID uuid.UUID, page, limit int) ([]domain.User, int64, error)
}

// UserStorage определяет методы для взаимодействия с хранилищем пользователей
type UserStorage interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ListUsers(ctx context.Context, page, limit int) ([]domain.User, int64, error)
}

// ReferenceStorage — чтение справочников тегов и ингредиентов.
type ReferenceStorage interface {
	ListTags(ctx context.Context) ([]domain.Tag, error)
	GetTagByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error)
	ListIngredients(ctx context.Context, name string) ([]domain.Ingredient, error)
	GetIngredientByID(ctx context.Context, id uuid.UUID) (*domain.Ingredient, error)
}

// CatalogStorage — запись в справочники.
type CatalogStorage interface {
	CreateTag(ctx context.Context, tag *domain.Tag) error
	ImportIngredients(ctx context.Context, records []domain.IngredientRecord) (int, error)
}

// ShoppingListStorage сводит ингредиенты из корзины пользователя.
type ShoppingListStorage interface {
	AggregateCart(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingItem, error)
}

// FileStorage — объектное хранилище для картинок и файлов импорта.
type FileStorage interface {
	UploadFile(ctx context.Context, objectKey string, fileContent io.Reader, contentType string) (string, error)
	GetFile(ctx context.Context, objectKey string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, objectKey string) error
}
