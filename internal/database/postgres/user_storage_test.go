package postgres

import (
	"context"
	"testing"

	"github.com/GoArmGo/foodgram/internal/database/testdb"
	"github.com/GoArmGo/foodgram/internal/domain"
	"github.com/GoArmGo/foodgram/internal/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStorage(t *testing.T) {
	db := testdb.Open(t)
	s := NewGormUserStorage(db.Gorm, logger.Discard())
	ctx := context.Background()

	u := &domain.User{Username: "cook", Email: "cook@example.com", FirstName: "C", LastName: "K", PasswordHash: "x"}
	require.NoError(t, s.CreateUser(ctx, u))
	require.NotEqual(t, uuid.Nil, u.ID)

	dup := &domain.User{Username: "cook", Email: "other@example.com", FirstName: "C", LastName: "K", PasswordHash: "x"}
	err := s.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "username", domain.FieldOf(err))

	sameEmail := &domain.User{Username: "baker", Email: "cook@example.com", FirstName: "B", LastName: "K", PasswordHash: "x"}
	err = s.CreateUser(ctx, sameEmail)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "email", domain.FieldOf(err))

	got, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", got.Email)

	_, err = s.GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	users, total, err := s.ListUsers(ctx, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, users, 1)
}

func TestCatalogImportIsIdempotent(t *testing.T) {
	db := testdb.Open(t)
	s := NewGormCatalogStorage(db.Gorm, logger.Discard())
	ctx := context.Background()

	records := []domain.IngredientRecord{
		{Name: "salt", MeasurementUnit: "g"},
		{Name: "salt", MeasurementUnit: "tsp"},
		{Name: "milk", MeasurementUnit: "ml"},
	}
	created, err := s.ImportIngredients(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	created, err = s.ImportIngredients(ctx, append(records, domain.IngredientRecord{Name: "egg", MeasurementUnit: "pcs"}))
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	var n int64
	require.NoError(t, db.Gorm.Model(&domain.Ingredient{}).Count(&n).Error)
	assert.EqualValues(t, 4, n)
}

func TestCatalogCreateTagUnique(t *testing.T) {
	db := testdb.Open(t)
	s := NewGormCatalogStorage(db.Gorm, logger.Discard())
	ctx := context.Background()

	require.NoError(t, s.CreateTag(ctx, &domain.Tag{Name: "Завтрак", Color: "#E26C2D", Slug: "breakfast"}))
	err := s.CreateTag(ctx, &domain.Tag{Name: "Обед", Color: "#49B64E", Slug: "breakfast"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
