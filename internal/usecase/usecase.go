package usecase

import (
	"context"
	"io"

	"github.com/GoArmGo/foodgram/internal/domain"
	"github.com/google/uuid"
)

// RecipeUseCase — создание, изменение и чтение рецептов.
// viewerID может быть uuid.Nil для анонимного запроса.
type RecipeUseCase interface {
	// CreateRecipe сохраняет рецепт вместе с тегами и составом атомарно
	CreateRecipe(ctx context.Context, authorID uuid.UUID, in domain.RecipeCreate) (*domain.RecipeView, error)

	// UpdateRecipe перезаписывает поля рецепта; коллекции заменяются, только если переданы
	UpdateRecipe(ctx context.Context, userID, recipeID uuid.UUID, in domain.RecipeUpdate) (*domain.RecipeView, error)

	DeleteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error
	GetRecipe(ctx context.Context, viewerID, recipeID uuid.UUID) (*domain.RecipeView, error)
	ListRecipes(ctx context.Context, viewerID uuid.UUID, filter domain.RecipeFilter) (*domain.Page[domain.RecipeView], error)
}

// ShoppingListUseCase собирает список покупок по корзине пользователя.
type ShoppingListUseCase interface {
	ShoppingList(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingItem, error)

	// RenderShoppingList отдаёт список покупок текстом, одна строка на группу
	RenderShoppingList(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

// MembershipUseCase — избранное, корзина и подписки.
type MembershipUseCase interface {
	AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*domain.RecipeSummary, error)
	RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
	AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*domain.RecipeSummary, error)
	RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error

	// Subscribe подписывает userID на authorID. Подписка на себя — ошибка валидации,
	// проверяется раньше всего остального
	Subscribe(ctx context.Context, userID, authorID uuid.UUID, recipesLimit int) (*domain.SubscriptionView, error)
	Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error
	ListSubscriptions(ctx context.Context, userID uuid.UUID, page, limit, recipesLimit int) (*domain.Page[domain.SubscriptionView], error)
}

// ReferenceUseCase — справочники тегов и ингредиентов.
type ReferenceUseCase interface {
	ListTags(ctx context.Context) ([]domain.Tag, error)
	GetTag(ctx context.Context, id uuid.UUID) (*domain.Tag, error)
	CreateTag(ctx context.Context, tag domain.Tag) (*domain.Tag, error)
	ListIngredients(ctx context.Context, name string) ([]domain.Ingredient, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*domain.Ingredient, error)
}

// IngredientImportUseCase загружает справочник ингредиентов из JSON-файла.
type IngredientImportUseCase interface {
	// ImportFromReader разбирает и импортирует файл сразу
	ImportFromReader(ctx context.Context, r io.Reader) (*domain.ImportResult, error)

	// EnqueueImport кладёт файл в хранилище и ставит задачу в очередь, возвращает ключ объекта
	EnqueueImport(ctx context.Context, userID uuid.UUID, r io.Reader) (string, error)

	// ImportFromObject выполняет задачу из очереди: скачивает файл и импортирует его
	ImportFromObject(ctx context.Context, objectKey string) (*domain.ImportResult, error)
}

// UserUseCase — регистрация и просмотр пользователей.
type UserUseCase interface {
	Register(ctx context.Context, in domain.UserRegistration) (*domain.UserView, error)
	GetUser(ctx context.Context, viewerID, id uuid.UUID) (*domain.UserView, error)
	ListUsers(ctx context.Context, viewerID uuid.UUID, page, limit int) (*domain.Page[domain.UserView], error)
}
