package ports

import (
	"context"

	"github.com/GoArmGo/foodgram/internal/messaging/payloads"
)

// IngredientImportPublisher публикует задачи на импорт ингредиентов.
// Используется HTTP-обработчиком после загрузки файла в хранилище
type IngredientImportPublisher interface {
	PublishIngredientImport(ctx context.Context, payload payloads.IngredientImportPayload) error
}

// IngredientImportConsumer используется воркером для получения задач из очереди
type IngredientImportConsumer interface {
	// StartConsumingIngredientImports начинает прослушивание очереди,
	// handler вызывается для каждого полученного сообщения
	StartConsumingIngredientImports(ctx context.Context, handler func(context.Context, payloads.IngredientImportPayload) error) error
}
