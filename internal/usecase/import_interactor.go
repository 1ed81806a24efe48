package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/GoArmGo/foodgram/internal/core/ports"
	"github.com/GoArmGo/foodgram/internal/domain"
	"github.com/GoArmGo/foodgram/internal/messaging/payloads"
	"github.com/google/uuid"
)

const (
	importObjectPrefix = "imports/"
	// maxImportSize ограничивает размер файла импорта.
	maxImportSize = 16 << 20
)

// ingredientImportUseCase implements IngredientImportUseCase
type ingredientImportUseCase struct {
	catalog   ports.CatalogStorage
	files     ports.FileStorage
	publisher ports.IngredientImportPublisher
	logger    *slog.Logger
}

func NewIngredientImportUseCase(
	catalog ports.CatalogStorage,
	files ports.FileStorage,
	publisher ports.IngredientImportPublisher,
	logger *slog.Logger,
) IngredientImportUseCase {
	return &ingredientImportUseCase{
		catalog:   catalog,
		files:     files,
		publisher: publisher,
		logger:    logger,
	}
}

// ImportFromReader читает JSON-массив [{"name", "measurement_unit"}] и добавляет
// недостающие ингредиенты. Ошибка в любой записи отменяет весь импорт.
func (uc *ingredientImportUseCase) ImportFromReader(ctx context.Context, r io.Reader) (*domain.ImportResult, error) {
	records, err := decodeIngredientRecords(io.LimitReader(r, maxImportSize))
	if err != nil {
		return nil, err
	}

	created, err := uc.catalog.ImportIngredients(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при импорте ингредиентов: %w", err)
	}

	uc.logger.Info("ingredient import finished", "total", len(records), "created", created)
	return &domain.ImportResult{Total: len(records), Created: created}, nil
}

// EnqueueImport проверяет файл, кладёт его в хранилище и публикует задачу для воркера.
func (uc *ingredientImportUseCase) EnqueueImport(ctx context.Context, userID uuid.UUID, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxImportSize))
	if err != nil {
		return "", fmt.Errorf("usecase: ошибка чтения файла импорта: %w", err)
	}
	if _, err := decodeIngredientRecords(bytes.NewReader(data)); err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s%s.json", importObjectPrefix, uuid.New())
	if _, err := uc.files.UploadFile(ctx, key, bytes.NewReader(data), "application/json"); err != nil {
		return "", fmt.Errorf("usecase: ошибка при сохранении файла импорта: %w", err)
	}

	payload := payloads.IngredientImportPayload{ObjectKey: key}
	if userID != uuid.Nil {
		payload.RequestedBy = userID.String()
	}
	if err := uc.publisher.PublishIngredientImport(ctx, payload); err != nil {
		if delErr := uc.files.DeleteFile(context.WithoutCancel(ctx), key); delErr != nil {
			uc.logger.Warn("failed to remove import file", "key", key, "error", delErr)
		}
		return "", fmt.Errorf("usecase: ошибка при публикации задачи импорта: %w", err)
	}

	uc.logger.Info("ingredient import enqueued", "key", key, "size", len(data))
	return key, nil
}

// ImportFromObject выполняет задачу из очереди. После успешного импорта файл удаляется.
func (uc *ingredientImportUseCase) ImportFromObject(ctx context.Context, objectKey string) (*domain.ImportResult, error) {
	if !strings.HasPrefix(objectKey, importObjectPrefix) {
		return nil, domain.NewValidationError("object_key", "Неизвестный ключ файла импорта")
	}

	body, err := uc.files.GetFile(ctx, objectKey)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении файла импорта: %w", err)
	}
	defer body.Close()

	result, err := uc.ImportFromReader(ctx, body)
	if err != nil {
		return nil, err
	}

	if err := uc.files.DeleteFile(ctx, objectKey); err != nil {
		uc.logger.Warn("failed to remove processed import file", "key", objectKey, "error", err)
	}
	return result, nil
}

func decodeIngredientRecords(r io.Reader) ([]domain.IngredientRecord, error) {
	var records []domain.IngredientRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, domain.NewValidationError("file", "Файл должен содержать JSON-массив ингредиентов")
	}
	for i := range records {
		records[i].Name = strings.TrimSpace(records[i].Name)
		records[i].MeasurementUnit = strings.TrimSpace(records[i].MeasurementUnit)
		if err := validateStruct(records[i]); err != nil {
			return nil, fmt.Errorf("запись %d: %w", i+1, err)
		}
	}
	return records, nil
}
