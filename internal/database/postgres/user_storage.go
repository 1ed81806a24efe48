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

// GormUserStorage реализует интерфейс ports.UserStorage с использованием GORM
type GormUserStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormUserStorage создает новый экземпляр GormUserStorage
func NewGormUserStorage(db *gorm.DB, logger *slog.Logger) *GormUserStorage {
	return &GormUserStorage{db: db, logger: logger}
}

// CreateUser сохраняет нового пользователя. Занятые username или email дают ErrConflict.
func (s *GormUserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	start := time.Now()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			field := s.conflictField(ctx, user)
			s.logger.Warn("user already exists", "username", user.Username, "field", field)
			return domain.NewConflictError(field, domain.MessageUserExists)
		}
		s.logger.Error("failed to create user", "username", user.Username, "error", err)
		return fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	s.logger.Info("user created",
		"user_id", user.ID,
		"username", user.Username,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *GormUserStorage) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.NewNotFoundError("id", domain.MessageUserNotFound)
		}
		s.logger.Error("failed to get user by id", "user_id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}
	return &user, nil
}

func (s *GormUserStorage) ListUsers(ctx context.Context, page, limit int) ([]domain.User, int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("ошибка при подсчёте пользователей: %w", err)
	}

	var users []domain.User
	err := s.db.WithContext(ctx).
		Order("username").
		Limit(limit).
		Offset(offset(page, limit)).
		Find(&users).Error
	if err != nil {
		s.logger.Error("failed to list users", "page", page, "error", err)
		return nil, 0, fmt.Errorf("ошибка при получении списка пользователей: %w", err)
	}
	return users, count, nil
}

// conflictField определяет, какое уникальное поле уже занято: username проверяется первым.
func (s *GormUserStorage) conflictField(ctx context.Context, user *domain.User) string {
	var n int64
	err := s.db.WithContext(ctx).Model(&domain.User{}).Where("username = ?", user.Username).Count(&n).Error
	if err == nil && n == 0 {
		return "email"
	}
	return "username"
}
