package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/foodgram/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ShoppingListStorage сводит состав рецептов из корзины одним запросом.
type ShoppingListStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewShoppingListStorage(db *sqlx.DB, logger *slog.Logger) *ShoppingListStorage {
	return &ShoppingListStorage{db: db, logger: logger}
}

// AggregateCart группирует ингредиенты по (название, единица) и суммирует количество.
// Порядок строк: по названию, затем по единице измерения.
func (s *ShoppingListStorage) AggregateCart(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingItem, error) {
	start := time.Now()

	q := s.db.Rebind(`
	SELECT i.name AS name,
	       i.measurement_unit AS measurement_unit,
	       SUM(ia.amount) AS total_amount
	FROM ingredient_amounts ia
	JOIN ingredients i ON i.id = ia.ingredient_id
	JOIN carts c ON c.recipe_id = ia.recipe_id
	WHERE c.user_id = ?
	GROUP BY i.name, i.measurement_unit
	ORDER BY i.name, i.measurement_unit
	`)

	items := []domain.ShoppingItem{}
	if err := s.db.SelectContext(ctx, &items, q, userID); err != nil {
		s.logger.Error("failed to aggregate shopping cart", "user_id", userID, "error", err)
		return nil, fmt.Errorf("ошибка при сборе списка покупок: %w", err)
	}

	s.logger.Info("shopping cart aggregated",
		"user_id", userID,
		"groups", len(items),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return items, nil
}
