package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/GoArmGo/foodgram/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ingredientsJSON = `[
	{"name": "абрикосовое варенье", "measurement_unit": "г"},
	{"name": "абрикосовое пюре", "measurement_unit": "г"},
	{"name": "абрикосовое пюре", "measurement_unit": "г"},
	{"name": "соль", "measurement_unit": "по вкусу"}
]`

func TestImportFromReader(t *testing.T) {
	e := newEnv(t, strictPolicy())
	ctx := context.Background()

	res, err := e.importUC.ImportFromReader(ctx, strings.NewReader(ingredientsJSON))
	require.NoError(t, err)
	assert.Equal(t, &domain.ImportResult{Total: 4, Created: 3}, res)

	res, err = e.importUC.ImportFromReader(ctx, strings.NewReader(ingredientsJSON))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)

	found, err := e.refUC.ListIngredients(ctx, "пюре")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestImportRejectsBadFile(t *testing.T) {
	e := newEnv(t, strictPolicy())
	ctx := context.Background()

	_, err := e.importUC.ImportFromReader(ctx, strings.NewReader(`{"name": "x"}`))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.importUC.ImportFromReader(ctx, strings.NewReader(`[{"name": "x", "measurement_unit": ""}]`))
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "measurement_unit", domain.FieldOf(err))

	assert.Zero(t, e.count(t, &domain.Ingredient{}))
}

func TestEnqueueAndProcessImport(t *testing.T) {
	e := newEnv(t, strictPolicy())
	ctx := context.Background()
	requester := uuid.New()

	key, err := e.importUC.EnqueueImport(ctx, requester, strings.NewReader(ingredientsJSON))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "imports/"))
	require.Len(t, e.publisher.published, 1)
	assert.Equal(t, key, e.publisher.published[0].ObjectKey)
	assert.Equal(t, requester.String(), e.publisher.published[0].RequestedBy)
	assert.Equal(t, []string{key}, e.files.keys())

	res, err := e.importUC.ImportFromObject(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Created)
	assert.Empty(t, e.files.keys())
	assert.EqualValues(t, 3, e.count(t, &domain.Ingredient{}))
}

func TestEnqueueImportCleansUpWhenPublishFails(t *testing.T) {
	e := newEnv(t, strictPolicy())
	e.publisher.err = errors.New("broker down")

	_, err := e.importUC.EnqueueImport(context.Background(), uuid.Nil, strings.NewReader(ingredientsJSON))
	require.Error(t, err)
	assert.Empty(t, e.files.keys())

	_, err = e.importUC.EnqueueImport(context.Background(), uuid.Nil, strings.NewReader(`nope`))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestImportFromObjectRejectsForeignKeys(t *testing.T) {
	e := newEnv(t, strictPolicy())

	_, err := e.importUC.ImportFromObject(context.Background(), "recipes/a.png")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
