package di

import (
	"context"

	"github.com/GoArmGo/foodgram/internal/adapter/storage/minio"
	"github.com/GoArmGo/foodgram/internal/app"
	"github.com/GoArmGo/foodgram/internal/config"
	"github.com/GoArmGo/foodgram/internal/core/ports"
	"github.com/GoArmGo/foodgram/internal/database/client"
	"github.com/GoArmGo/foodgram/internal/database/postgres"
	"github.com/GoArmGo/foodgram/internal/database/storage"
	"github.com/GoArmGo/foodgram/internal/handler"
	"github.com/GoArmGo/foodgram/internal/logger"
	"github.com/GoArmGo/foodgram/internal/rabbitmq"
	"github.com/GoArmGo/foodgram/internal/usecase"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
// В режиме import внешние сервисы (MinIO, RabbitMQ) не поднимаются.
func BuildApp(ctx context.Context, mode string) (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	var closers []func() error

	// 2. Инициализация PostgreSQL клиента (миграции применяются здесь же)
	dbClient, err := client.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}
	closers = append(closers, dbClient.Close)

	// 3. Инициализация хранилищ
	recipeStorage := postgres.NewGormRecipeStorage(dbClient.Gorm, slogger)
	membershipStorage := postgres.NewGormMembershipStorage(dbClient.Gorm, slogger)
	userStorage := postgres.NewGormUserStorage(dbClient.Gorm, slogger)
	catalogStorage := postgres.NewGormCatalogStorage(dbClient.Gorm, slogger)
	referenceStorage := storage.NewReferenceStorage(dbClient.DB, slogger)
	shoppingStorage := storage.NewShoppingListStorage(dbClient.DB, slogger)

	// 4. Объектное хранилище и очередь
	var (
		fileStorage    ports.FileStorage
		importQueue    ports.IngredientImportPublisher
		importConsumer ports.IngredientImportConsumer
	)
	if mode != app.ModeImport {
		if err := cfg.RequireExternal(); err != nil {
			_ = dbClient.Close()
			return nil, err
		}
		minioClient, err := minio.NewMinioClient(ctx, cfg, slogger)
		if err != nil {
			_ = dbClient.Close()
			return nil, err
		}
		fileStorage = minioClient

		rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
		if err != nil {
			_ = dbClient.Close()
			return nil, err
		}
		closers = append(closers, func() error {
			rabbitMQClient.Close()
			return nil
		})
		importQueue = rabbitMQClient
		importConsumer = rabbitMQClient
	}

	// 5. Инициализация бизнес-логики (usecases)
	policy := usecase.RecipePolicy{
		AllowEmptyTags:        cfg.Recipe.AllowEmptyTags,
		AllowEmptyIngredients: cfg.Recipe.AllowEmptyIngredients,
		PageSize:              cfg.PageSize,
	}
	recipeUseCase := usecase.NewRecipeUseCase(recipeStorage, userStorage, membershipStorage, fileStorage, policy, slogger)
	membershipUseCase := usecase.NewMembershipUseCase(membershipStorage, recipeStorage, userStorage, cfg.PageSize, slogger)
	shoppingUseCase := usecase.NewShoppingListUseCase(shoppingStorage, slogger)
	userUseCase := usecase.NewUserUseCase(userStorage, membershipStorage, cfg.PageSize, slogger)
	referenceUseCase := usecase.NewReferenceUseCase(referenceStorage, catalogStorage)
	importUseCase := usecase.NewIngredientImportUseCase(catalogStorage, fileStorage, importQueue, slogger)

	// 6. Лимитер загрузок картинок и файлов импорта
	uploadLimiter := make(chan struct{}, cfg.UploadConcurrency)

	// 7. HTTP-роутер
	router := handler.NewRouter(handler.Handlers{
		Recipes:   handler.NewRecipeHandler(recipeUseCase, membershipUseCase, shoppingUseCase, uploadLimiter, slogger),
		Users:     handler.NewUserHandler(userUseCase, membershipUseCase, slogger),
		Reference: handler.NewReferenceHandler(referenceUseCase, importUseCase, uploadLimiter, slogger),
	}, cfg.RequestTimeout, slogger)

	// 8. Сборка итогового приложения
	application := app.NewApp(cfg, slogger, router, importUseCase, importConsumer, closers...)

	slogger.Info("dependencies initialized", "mode", mode)
	return application, nil
}
