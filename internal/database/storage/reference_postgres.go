package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/foodgram/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ReferenceStorage читает справочники тегов и ингредиентов.
type ReferenceStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewReferenceStorage(db *sqlx.DB, logger *slog.Logger) *ReferenceStorage {
	return &ReferenceStorage{db: db, logger: logger}
}

// ListTags получает все теги
func (s *ReferenceStorage) ListTags(ctx context.Context) ([]domain.Tag, error) {
	start := time.Now()

	tags := []domain.Tag{}
	if err := s.db.SelectContext(ctx, &tags, `SELECT id, name, color, slug FROM tags ORDER BY name`); err != nil {
		s.logger.Error("failed to list tags", "error", err)
		return nil, fmt.Errorf("ошибка при получении тегов: %w", err)
	}

	s.logger.Info("listed tags", "count", len(tags), "duration_ms", time.Since(start).Milliseconds())
	return tags, nil
}

// GetTagByID получает тег по ID
func (s *ReferenceStorage) GetTagByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	var tag domain.Tag
	q := s.db.Rebind(`SELECT id, name, color, slug FROM tags WHERE id = ? LIMIT 1`)

	if err := s.db.GetContext(ctx, &tag, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("tag not found by id", "id", id)
			return nil, domain.NewNotFoundError("id", domain.MessageTagNotFound)
		}
		s.logger.Error("failed to get tag by id", "id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении тега по ID: %w", err)
	}
	return &tag, nil
}

// ListIngredients ищет ингредиенты по вхождению подстроки в название без учёта регистра.
// Пустая строка возвращает весь справочник.
func (s *ReferenceStorage) ListIngredients(ctx context.Context, name string) ([]domain.Ingredient, error) {
	start := time.Now()

	q := s.db.Rebind(`
	SELECT id, name, measurement_unit FROM ingredients
	WHERE LOWER(name) LIKE LOWER(?) ESCAPE '\'
	ORDER BY name, measurement_unit
	`)

	ingredients := []domain.Ingredient{}
	if err := s.db.SelectContext(ctx, &ingredients, q, "%"+escapeLike(name)+"%"); err != nil {
		s.logger.Error("failed to list ingredients", "name", name, "error", err)
		return nil, fmt.Errorf("ошибка при поиске ингредиентов: %w", err)
	}

	s.logger.Info("ingredients search completed",
		"name", name,
		"found", len(ingredients),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return ingredients, nil
}

// GetIngredientByID получает ингредиент по ID
func (s *ReferenceStorage) GetIngredientByID(ctx context.Context, id uuid.UUID) (*domain.Ingredient, error) {
	var ingredient domain.Ingredient
	q := s.db.Rebind(`SELECT id, name, measurement_unit FROM ingredients WHERE id = ? LIMIT 1`)

	if err := s.db.GetContext(ctx, &ingredient, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("ingredient not found by id", "id", id)
			return nil, domain.NewNotFoundError("id", domain.MessageIngredientNotFound)
		}
		s.logger.Error("failed to get ingredient by id", "id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении ингредиента по ID: %w", err)
	}
	return &ingredient, nil
}

// likeEscaper экранирует спецсимволы LIKE, чтобы строка искалась буквально.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
