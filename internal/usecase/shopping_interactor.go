package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GoArmGo/foodgram/internal/core/ports"
	"github.com/GoArmGo/foodgram/internal/domain"
	"github.com/google/uuid"
)

// shoppingListUseCase implements ShoppingListUseCase
type shoppingListUseCase struct {
	storage ports.ShoppingListStorage
	logger  *slog.Logger
}

func NewShoppingListUseCase(storage ports.ShoppingListStorage, logger *slog.Logger) ShoppingListUseCase {
	return &shoppingListUseCase{storage: storage, logger: logger}
}

// ShoppingList возвращает группы (название, единица) с суммой по всем рецептам корзины.
// Пустая корзина — пустой список, не ошибка.
func (uc *shoppingListUseCase) ShoppingList(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingItem, error) {
	items, err := uc.storage.AggregateCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при сборе списка покупок: %w", err)
	}
	return items, nil
}

func (uc *shoppingListUseCase) RenderShoppingList(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	items, err := uc.ShoppingList(ctx, userID)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("shopping list rendered", "user_id", userID, "groups", len(items))
	return []byte(RenderShoppingList(items)), nil
}

// RenderShoppingList печатает по строке "<название> (<единица>) — <сумма>" на группу,
// без пустых строк и без завершающего перевода строки.
func RenderShoppingList(items []domain.ShoppingItem) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s (%s) — %d", item.Name, item.MeasurementUnit, item.TotalAmount)
	}
	return b.String()
}
