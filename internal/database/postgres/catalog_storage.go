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

// GormCatalogStorage пишет в справочники тегов и ингредиентов.
type GormCatalogStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewGormCatalogStorage(db *gorm.DB, logger *slog.Logger) *GormCatalogStorage {
	return &GormCatalogStorage{db: db, logger: logger}
}

func (s *GormCatalogStorage) CreateTag(ctx context.Context, tag *domain.Tag) error {
	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(tag).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError("slug", domain.MessageTagExists)
		}
		s.logger.Error("failed to create tag", "slug", tag.Slug, "error", err)
		return fmt.Errorf("ошибка при создании тега: %w", err)
	}
	s.logger.Info("tag created", "tag_id", tag.ID, "slug", tag.Slug)
	return nil
}

// ImportIngredients добавляет недостающие пары (название, единица измерения).
// Уже существующие записи не трогаются. Возвращает число созданных.
func (s *GormCatalogStorage) ImportIngredients(ctx context.Context, records []domain.IngredientRecord) (int, error) {
	start := time.Now()
	created := 0

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			newID := uuid.New()
			var ing domain.Ingredient
			err := tx.
				Where(domain.Ingredient{Name: rec.Name, MeasurementUnit: rec.MeasurementUnit}).
				Attrs(domain.Ingredient{ID: newID}).
				FirstOrCreate(&ing).Error
			if err != nil {
				return fmt.Errorf("ошибка при импорте ингредиента %q: %w", rec.Name, err)
			}
			if ing.ID == newID {
				created++
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to import ingredients", "records", len(records), "error", err)
		return 0, err
	}

	s.logger.Info("ingredients imported",
		"records", len(records),
		"created", created,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return created, nil
}
