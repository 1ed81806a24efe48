// Package testdb поднимает изолированную базу SQLite в памяти для тестов хранилищ и сценариев.
package testdb

import (
	"fmt"
	"testing"

	"github.com/GoArmGo/foodgram/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB — обе обёртки над одним соединением, как в рабочем клиенте.
type DB struct {
	Gorm *gorm.DB
	SQLX *sqlx.DB
}

// Models — все таблицы схемы в порядке создания.
var Models = []interface{}{
	&domain.User{},
	&domain.Tag{},
	&domain.Ingredient{},
	&domain.Recipe{},
	&domain.RecipeTag{},
	&domain.IngredientAmount{},
	&domain.Favorite{},
	&domain.Cart{},
	&domain.Subscription{},
}

// Open создаёт новую базу для одного теста и закрывает её по окончании.
func Open(t *testing.T) *DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(Models...))

	return &DB{Gorm: gdb, SQLX: sqlx.NewDb(sqlDB, "sqlite3")}
}

// Seed — небольшие фабрики для заполнения справочников в тестах.

func User(t *testing.T, db *DB, username string) domain.User {
	t.Helper()
	u := domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    username,
		LastName:     "Test",
		PasswordHash: "hash",
	}
	require.NoError(t, db.Gorm.Create(&u).Error)
	return u
}

func Tag(t *testing.T, db *DB, slug string) domain.Tag {
	t.Helper()
	tag := domain.Tag{ID: uuid.New(), Name: slug, Color: "#" + slug, Slug: slug}
	require.NoError(t, db.Gorm.Create(&tag).Error)
	return tag
}

func Ingredient(t *testing.T, db *DB, name, unit string) domain.Ingredient {
	t.Helper()
	ing := domain.Ingredient{ID: uuid.New(), Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Gorm.Create(&ing).Error)
	return ing
}
