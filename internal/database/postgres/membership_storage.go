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

// GormMembershipStorage хранит избранное, корзину и подписки.
// Повторное добавление ловится уникальным индексом, а не предварительной проверкой.
type GormMembershipStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewGormMembershipStorage(db *gorm.DB, logger *slog.Logger) *GormMembershipStorage {
	return &GormMembershipStorage{db: db, logger: logger}
}

func (s *GormMembershipStorage) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*domain.Favorite, error) {
	row := &domain.Favorite{ID: uuid.New(), RecipeID: recipeID, UserID: userID}
	if err := s.insert(ctx, "favorite", row, "recipe", domain.MessageAlreadyFavorited); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *GormMembershipStorage) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.delete(ctx, "favorite", &domain.Favorite{}, "user_id = ? AND recipe_id = ?",
		[]interface{}{userID, recipeID}, "recipe", domain.MessageNotFavorited)
}

func (s *GormMembershipStorage) IsFavorited(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	return s.exists(ctx, &domain.Favorite{}, "user_id = ? AND recipe_id = ?", userID, recipeID)
}

func (s *GormMembershipStorage) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*domain.Cart, error) {
	row := &domain.Cart{ID: uuid.New(), RecipeID: recipeID, UserID: userID}
	if err := s.insert(ctx, "cart", row, "recipe", domain.MessageAlreadyInCart); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *GormMembershipStorage) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.delete(ctx, "cart", &domain.Cart{}, "user_id = ? AND recipe_id = ?",
		[]interface{}{userID, recipeID}, "recipe", domain.MessageNotInCart)
}

func (s *GormMembershipStorage) IsInCart(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	return s.exists(ctx, &domain.Cart{}, "user_id = ? AND recipe_id = ?", userID, recipeID)
}

func (s *GormMembershipStorage) Subscribe(ctx context.Context, userID, authorID uuid.UUID) (*domain.Subscription, error) {
	row := &domain.Subscription{ID: uuid.New(), AuthorID: authorID, UserID: userID}
	if err := s.insert(ctx, "subscription", row, "author", domain.MessageAlreadySubscribed); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *GormMembershipStorage) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	return s.delete(ctx, "subscription", &domain.Subscription{}, "user_id = ? AND author_id = ?",
		[]interface{}{userID, authorID}, "author", domain.MessageNotSubscribed)
}

func (s *GormMembershipStorage) IsSubscribed(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	return s.exists(ctx, &domain.Subscription{}, "user_id = ? AND author_id = ?", userID, authorID)
}

// ListSubscriptions возвращает авторов, на которых подписан пользователь.
func (s *GormMembershipStorage) ListSubscriptions(ctx context.Context, userID uuid.UUID, page, limit int) ([]domain.User, int64, error) {
	start := time.Now()

	query := func() *gorm.DB {
		return s.db.WithContext(ctx).
			Model(&domain.User{}).
			Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
			Where("subscriptions.user_id = ?", userID)
	}

	var count int64
	if err := query().Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("ошибка при подсчёте подписок: %w", err)
	}

	var authors []domain.User
	err := query().
		Select("users.*").
		Order("users.username").
		Limit(limit).
		Offset(offset(page, limit)).
		Find(&authors).Error
	if err != nil {
		s.logger.Error("failed to list subscriptions", "user_id", userID, "error", err)
		return nil, 0, fmt.Errorf("ошибка при получении подписок: %w", err)
	}

	s.logger.Info("listed subscriptions",
		"user_id", userID,
		"count", len(authors),
		"total", count,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return authors, count, nil
}

func (s *GormMembershipStorage) insert(ctx context.Context, relation string, row interface{}, field, conflictMessage string) error {
	start := time.Now()

	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			s.logger.Warn("relation already exists", "relation", relation)
			return domain.NewConflictError(field, conflictMessage)
		}
		if isForeignKeyViolation(err) {
			s.logger.Warn("relation references missing row", "relation", relation, "error", err)
			return domain.NewNotFoundError(field, domain.MessageRelatedNotFound)
		}
		s.logger.Error("failed to insert relation", "relation", relation, "error", err)
		return fmt.Errorf("ошибка при добавлении связи %s: %w", relation, err)
	}

	s.logger.Info("relation added", "relation", relation, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (s *GormMembershipStorage) delete(ctx context.Context, relation string, model interface{}, where string, args []interface{}, field, notFoundMessage string) error {
	start := time.Now()

	res := s.db.WithContext(ctx).Where(where, args...).Delete(model)
	if res.Error != nil {
		s.logger.Error("failed to delete relation", "relation", relation, "error", res.Error)
		return fmt.Errorf("ошибка при удалении связи %s: %w", relation, res.Error)
	}
	if res.RowsAffected == 0 {
		s.logger.Warn("relation not found", "relation", relation)
		return domain.NewNotFoundError(field, notFoundMessage)
	}

	s.logger.Info("relation removed", "relation", relation, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (s *GormMembershipStorage) exists(ctx context.Context, model interface{}, where string, args ...interface{}) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(model).Where(where, args...).Count(&count).Error; err != nil {
		return false, fmt.Errorf("ошибка при проверке связи: %w", err)
	}
	return count > 0, nil
}
