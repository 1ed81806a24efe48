package domain

import (
	"time"

	"github.com/google/uuid"
)

// User представляет модель пользователя в системе.
// Соответствует таблице 'users' в базе данных.
type User struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	Username     string    `json:"username" db:"username" gorm:"size:150;uniqueIndex;not null"`
	Email        string    `json:"email" db:"email" gorm:"size:254;uniqueIndex;not null"`
	FirstName    string    `json:"first_name" db:"first_name" gorm:"size:150;not null"`
	LastName     string    `json:"last_name" db:"last_name" gorm:"size:150;not null"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserRegistration — данные для создания пользователя.
type UserRegistration struct {
	Username  string `json:"username" validate:"required,max=150"`
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

// UserView — пользователь глазами того, кто делает запрос.
type UserView struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

func NewUserView(u User, isSubscribed bool) UserView {
	return UserView{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}

// SubscriptionView — автор из списка подписок вместе с его рецептами.
type SubscriptionView struct {
	UserView
	RecipesCount int64           `json:"recipes_count"`
	Recipes      []RecipeSummary `json:"recipes"`
}
