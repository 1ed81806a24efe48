package usecase

import (
	"context"
	"testing"

	"github.com/GoArmGo/foodgram/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndReadTags(t *testing.T) {
	e := newEnv(t, strictPolicy())
	ctx := context.Background()

	tag, err := e.refUC.CreateTag(ctx, domain.Tag{Name: " Завтрак ", Color: "#e26c2d", Slug: "breakfast"})
	require.NoError(t, err)
	assert.Equal(t, "Завтрак", tag.Name)
	assert.Equal(t, "#E26C2D", tag.Color)

	_, err = e.refUC.CreateTag(ctx, domain.Tag{Name: "Обед", Color: "green", Slug: "lunch"})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "color", domain.FieldOf(err))

	_, err = e.refUC.CreateTag(ctx, domain.Tag{Name: "Другой", Color: "#000000", Slug: "breakfast"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := e.refUC.GetTag(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, *tag, *got)

	tags, err := e.refUC.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 1)

	_, err = e.refUC.GetIngredient(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
