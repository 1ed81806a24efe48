package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL    string        `env:"DATABASE_URL,required"`
	MigrationsPath string        `env:"MIGRATIONS_PATH" envDefault:"file://internal/database/migrations"`
	ServerPort     string        `env:"SERVER_PORT"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	PageSize       int           `env:"PAGE_SIZE" envDefault:"6"`
	// Сколько загрузок картинок и файлов импорта обрабатывается одновременно
	UploadConcurrency int `env:"UPLOAD_CONCURRENCY" envDefault:"5"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Настройки для MinIO (картинки рецептов и файлы импорта)
	MinioEndpoint        string `env:"MINIO_ENDPOINT"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME"`
	MinioRegion          string `env:"MINIO_REGION"`
	// MinioPublicURL — базовый адрес, по которому клиенты видят загруженные файлы.
	// Если пусто, строится из endpoint.
	MinioPublicURL string `env:"MINIO_PUBLIC_URL"`

	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"ingredient_import_queue"`
	}

	// Можно ли сохранять рецепт без тегов или без ингредиентов.
	Recipe struct {
		AllowEmptyTags        bool `env:"RECIPE_ALLOW_EMPTY_TAGS"`
		AllowEmptyIngredients bool `env:"RECIPE_ALLOW_EMPTY_INGREDIENTS"`
	}
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config from environment: %w", err)
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}

	if cfg.UploadConcurrency <= 0 {
		return nil, fmt.Errorf("UPLOAD_CONCURRENCY must be positive, got %d", cfg.UploadConcurrency)
	}

	return &cfg, nil
}

// RequireExternal проверяет настройки MinIO и RabbitMQ.
// Нужны серверу и воркеру, режиму import достаточно базы.
func (c *Config) RequireExternal() error {
	missing := []string{}
	check := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}
	check("MINIO_ENDPOINT", c.MinioEndpoint)
	check("MINIO_ACCESS_KEY_ID", c.MinioAccessKeyID)
	check("MINIO_SECRET_ACCESS_KEY", c.MinioSecretAccessKey)
	check("MINIO_BUCKET_NAME", c.MinioBucketName)
	check("MINIO_REGION", c.MinioRegion)
	check("RABBITMQ_URL", c.RabbitMQ.RabbitMQURL)

	if len(missing) > 0 {
		return fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	return nil
}

// PublicBaseURL возвращает адрес, под которым лежат объекты бакета.
func (c *Config) PublicBaseURL() string {
	if c.MinioPublicURL != "" {
		return c.MinioPublicURL
	}
	scheme := "http"
	if c.MinioUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, c.MinioEndpoint)
}
