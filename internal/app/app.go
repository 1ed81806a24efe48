package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/foodgram/internal/config"
	"github.com/GoArmGo/foodgram/internal/core/ports"
	"github.com/GoArmGo/foodgram/internal/usecase"
)

// Режимы запуска
const (
	ModeServer = "server"
	ModeWorker = "worker"
	ModeImport = "import"
)

type App struct {
	Config         *config.Config
	logger         *slog.Logger
	router         http.Handler
	importUseCase  usecase.IngredientImportUseCase
	importConsumer ports.IngredientImportConsumer
	closers        []func() error
}

func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	router http.Handler,
	importUseCase usecase.IngredientImportUseCase,
	importConsumer ports.IngredientImportConsumer,
	closers ...func() error,
) *App {
	return &App{
		Config:         cfg,
		logger:         logger,
		router:         router,
		importUseCase:  importUseCase,
		importConsumer: importConsumer,
		closers:        closers,
	}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает приложение в выбранном режиме и ждёт SIGINT/SIGTERM.
// file нужен только режиму import.
func (a *App) Run(ctx context.Context, mode, file string) error {
	// канал для graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting app", "mode", mode)

	var err error
	switch mode {
	case ModeServer:
		err = runServer(ctx, a.Config, a.router, a.logger)
	case ModeWorker:
		err = runWorker(ctx, a.importUseCase, a.importConsumer, a.logger)
	case ModeImport:
		err = runImport(ctx, a.importUseCase, file, a.logger)
	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте 'server', 'worker' или 'import')", mode)
	}

	// аккуратно закрываем ресурсы
	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown failed", "error", closeErr)
	}
	if err != nil {
		return err
	}

	a.logger.Info("app stopped")
	return nil
}

// Shutdown закрывает все ресурсы приложения в обратном порядке
func (a *App) Shutdown() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
