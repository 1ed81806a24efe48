package domain

import (
	"time"

	"github.com/google/uuid"
)

// Favorite — рецепт в избранном у пользователя. Пара (recipe, user) уникальна.
type Favorite struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	RecipeID  uuid.UUID `json:"recipe_id" db:"recipe_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_recipe_user"`
	UserID    uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_recipe_user;index"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// Cart — рецепт в списке покупок пользователя. Уникальность та же, что у Favorite,
// но таблица своя.
type Cart struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	RecipeID  uuid.UUID `json:"recipe_id" db:"recipe_id" gorm:"type:uuid;not null;uniqueIndex:idx_carts_recipe_user"`
	UserID    uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_carts_recipe_user;index"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (Cart) TableName() string {
	return "carts"
}

// Subscription — пользователь UserID подписан на автора AuthorID.
type Subscription struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	AuthorID  uuid.UUID `json:"author_id" db:"author_id" gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_author_user"`
	UserID    uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_author_user;index"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
