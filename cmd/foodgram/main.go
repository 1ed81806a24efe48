package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/GoArmGo/foodgram/internal/di"
)

func main() {
	mode := flag.String("mode", "server", "Режим запуска приложения: server, worker или import")
	file := flag.String("file", "", "JSON-файл с ингредиентами для режима import")
	flag.Parse()

	// bootstrap-логгер (используется только на этапе инициализации т.к еще не создал slogger)
	bootstrapLogger := slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)
	bootstrapLogger.Info("starting application", "mode", *mode)

	ctx := context.Background()

	app, err := di.BuildApp(ctx, *mode)
	if err != nil {
		bootstrapLogger.Error("failed to build app", "error", err)
		os.Exit(1)
	}

	logger := app.LoggerIns()
	logger.Info("application using main logger")

	if err := app.Run(ctx, *mode, *file); err != nil {
		logger.Error("application run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
