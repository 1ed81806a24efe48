package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/GoArmGo/foodgram/internal/core/ports"
	"github.com/GoArmGo/foodgram/internal/messaging/payloads"
	"github.com/GoArmGo/foodgram/internal/usecase"
)

// importHandler выполняет одну задачу импорта из очереди
func importHandler(imports usecase.IngredientImportUseCase, logger *slog.Logger) func(context.Context, payloads.IngredientImportPayload) error {
	return func(ctx context.Context, payload payloads.IngredientImportPayload) error {
		start := time.Now()
		logger.Info("processing ingredient import",
			"object_key", payload.ObjectKey,
			"requested_by", payload.RequestedBy,
		)

		result, err := imports.ImportFromObject(ctx, payload.ObjectKey)
		if err != nil {
			return fmt.Errorf("import %s: %w", payload.ObjectKey, err)
		}

		logger.Info("ingredient import done",
			"object_key", payload.ObjectKey,
			"total", result.Total,
			"created", result.Created,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}
}

// runWorker запускает потребителя RabbitMQ и блокируется до отмены ctx
func runWorker(
	ctx context.Context,
	imports usecase.IngredientImportUseCase,
	consumer ports.IngredientImportConsumer,
	logger *slog.Logger,
) error {
	if consumer == nil {
		return fmt.Errorf("worker: очередь не настроена")
	}

	if err := consumer.StartConsumingIngredientImports(ctx, importHandler(imports, logger)); err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}
	logger.Info("worker started, waiting for import jobs")

	<-ctx.Done()
	logger.Info("worker stopped")
	return nil
}

// runImport загружает справочник ингредиентов из локального файла
func runImport(ctx context.Context, imports usecase.IngredientImportUseCase, file string, logger *slog.Logger) error {
	if file == "" {
		return fmt.Errorf("import: не указан файл (-file)")
	}
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	defer f.Close()

	result, err := imports.ImportFromReader(ctx, f)
	if err != nil {
		return fmt.Errorf("import %s: %w", file, err)
	}
	logger.Info("ingredients imported", "file", file, "total", result.Total, "created", result.Created)
	return nil
}
