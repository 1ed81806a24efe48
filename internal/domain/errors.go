package domain

import (
	"errors"
	"fmt"
)

// Виды ошибок, которые видит вызывающая сторона. Проверяются через errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("already exists")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
)

// FieldError — ошибка конкретного вида с указанием поля, к которому она относится.
type FieldError struct {
	Kind    error
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

func NewValidationError(field, message string) error {
	return &FieldError{Kind: ErrValidation, Field: field, Message: message}
}

func NewConflictError(field, message string) error {
	return &FieldError{Kind: ErrConflict, Field: field, Message: message}
}

func NewNotFoundError(field, message string) error {
	return &FieldError{Kind: ErrNotFound, Field: field, Message: message}
}

func NewForbiddenError(message string) error {
	return &FieldError{Kind: ErrForbidden, Message: message}
}

// FieldOf достаёт имя поля из цепочки ошибок, если оно есть.
func FieldOf(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}

// MessageOf возвращает сообщение для пользователя без технических обёрток.
func MessageOf(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Message
	}
	return err.Error()
}

// Сообщения для пользователя
const (
	MessageAlreadyFavorited    = "Ошибка, данный рецепт уже в избранном"
	MessageAlreadyInCart       = "Ошибка, данный рецепт уже в списке покупок"
	MessageAlreadySubscribed   = "Ошибка, данная подписка уже существует"
	MessageSelfSubscription    = "Ошибка, нельзя подписываться на самого себя"
	MessageNotFavorited        = "Рецепта нет в избранном"
	MessageNotInCart           = "Рецепта нет в списке покупок"
	MessageNotSubscribed       = "Подписка не найдена"
	MessageRecipeNotFound      = "Рецепт не найден"
	MessageUserNotFound        = "Пользователь не найден"
	MessageRelatedNotFound     = "Рецепт или пользователь не найден"
	MessageTagNotFound         = "Тег не найден"
	MessageIngredientNotFound  = "Ингредиент не найден"
	MessageNotRecipeAuthor     = "Изменять рецепт может только его автор"
	MessageUserExists          = "Пользователь с таким username или email уже существует"
	MessageTagExists           = "Тег с таким названием, цветом или slug уже существует"
	MessageDuplicateIngredient = "Ингредиенты в рецепте не должны повторяться"
	MessageEmptyTags           = "Нужно указать хотя бы один тег"
	MessageEmptyIngredients    = "Нужно указать хотя бы один ингредиент"
	MessageInvalidImage        = "Картинка должна быть в формате data:image/<ext>;base64,..."
)
