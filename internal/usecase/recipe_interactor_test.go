package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/GoArmGo/foodgram/internal/database/testdb"
	"github.com/GoArmGo/foodgram/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRecipePersistsOneRowPerTagAndLine(t *testing.T) {
	e := newEnv(t, strictPolicy())
	author := testdb.User(t, e.db, "author")
	breakfast := testdb.Tag(t, e.db, "breakfast")
	lunch := testdb.Tag(t, e.db, "lunch")
	eggs := testdb.Ingredient(t, e.db, "eggs", "pcs")
	milk := testdb.Ingredient(t, e.db, "milk", "ml")
	salt := testdb.Ingredient(t, e.db, "salt", "g")

	view := e.createRecipe(t, author.ID, "Омлет",
		[]uuid.UUID{breakfast.ID, lunch.ID},
		line(eggs.ID, 3), line(milk.ID, 100), line(salt.ID, 2))

	assert.EqualValues(t, 3, e.count(t, &domain.IngredientAmount{}, "recipe_id = ?", view.ID))
	assert.EqualValues(t, 2, e.count(t, &domain.RecipeTag{}, "recipe_id = ?", view.ID))

	assert.Equal(t, "Омлет", view.Name)
	assert.Equal(t, author.ID, view.Author.ID)
	assert.Len(t, view.Tags, 2)
	assert.Len(t, view.Ingredients, 3)
	assert.False(t, view.IsFavorited)
	assert.True(t, strings.HasPrefix(view.Image, "http://files.test/bucket/recipes/"))
	assert.Len(t, e.files.keys(), 1)
}

func TestCreateRecipeCollapsesRepeatedTags(t *testing.T) {
	e := newEnv(t, strictPolicy())
	author := testdb.User(t, e.db, "author")
	tag := testdb.Tag(t, e.db, "dinner")
	salt := testdb.Ingredient(t, e.db, "salt", "g")

	view := e.createRecipe(t, author.ID, "Суп", []uuid.UUID{tag.ID, tag.ID}, line(salt.ID, 1))
	assert.EqualValues(t, 1, e.count(t, &domain.RecipeTag{}, "recipe_id = ?", view.ID))
}

func TestCreateRecipeOutOfRangeWritesNothing(t *testing.T) {
	e := newEnv(t, strictPolicy())
	author := testdb.User(t, e.db, "author")
	tag := testdb.Tag(t, e.db, "dinner")
	salt := testdb.Ingredient(t, e.db, "salt", "g")

	cases := []struct {
		name  string
		in    domain.RecipeCreate
		field string
	}{
		{
			name:  "cooking time zero",
			in:    domain.RecipeCreate{Name: "x", Text: "x", CookingTime: 0, Image: tinyPNG, Tags: []uuid.UUID{tag.ID}, Ingredients: []domain.IngredientLine{line(salt.ID, 1)}},
			field: "cooking_time",
		},
		{
			name:  "cooking time too long",
			in:    domain.RecipeCreate{Name: "x", Text: "x", CookingTime: domain.MaxCookingTime + 1, Image: tinyPNG, Tags: []uuid.UUID{tag.ID}, Ingredients: []domain.IngredientLine{line(salt.ID, 1)}},
			field: "cooking_time",
		},
		{
			name:  "amount zero",
			in:    domain.RecipeCreate{Name: "x", Text: "x", CookingTime: 10, Image: tinyPNG, Tags: []uuid.UUID{tag.ID}, Ingredients: []domain.IngredientLine{line(salt.ID, 0)}},
			field: "ingredients",
		},
		{
			name:  "amount too large",
			in:    domain.RecipeCreate{Name: "x", Text: "x", CookingTime: 10, Image: tinyPNG, Tags: []uuid.UUID{tag.ID}, Ingredients: []domain.IngredientLine{line(salt.ID, domain.MaxAmount+1)}},
			field: "ingredients",
		},
		{
			name:  "duplicate ingredient",
			in:    domain.RecipeCreate{Name: "x", Text: "x", CookingTime: 10, Image: tinyPNG, Tags: []uuid.UUID{tag.ID}, Ingredients: []domain.IngredientLine{line(salt.ID, 1), line(salt.ID, 2)}},
			field: "ingredients",
		},
		{
			name:  "bad image",
			in:    domain.RecipeCreate{Name: "x", Text: "x", CookingTime: 10, Image: "not an image", Tags: []uuid.UUID{tag.ID}, Ingredients: []domain.IngredientLine{line(salt.ID, 1)}},
			field: "image",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.recipeUC.CreateRecipe(context.Background(), author.ID, tc.in)
			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, tc.field, domain.FieldOf(err))

			assert.Zero(t, e.count(t, &domain.Recipe{}))
			assert.Zero(t, e.count(t, &domain.RecipeTag{}))
			assert.Zero(t, e.count(t, &domain.IngredientAmount{}))
			assert.Empty(t, e.files.keys())
		})
	}
}

func TestCreateRecipeUnknownReferenceRemovesUploadedImage(t *testing.T) {
	e := newEnv(t, strictPolicy())
	author := testdb.User(t, e.db, "author")
	tag := testdb.Tag(t, e.db, "dinner")

	_, err := e.recipeUC.CreateRecipe(context.Background(), author.ID, domain.RecipeCreate{
		Name: "x", Text: "x", CookingTime: 10, Image: tinyPNG,
		Tags:        []uuid.UUID{tag.ID},
		Ingredients: []domain.IngredientLine{line(uuid.New(), 1)},
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "ingredients", domain.FieldOf(err))
	assert.Zero(t, e.count(t, &domain.Recipe{}))
	assert.Empty(t, e.files.keys())
}

func TestCreateRecipeEmptyCollectionsFollowPolicy(t *testing.T) {
	strict := newEnv(t, strictPolicy())
	author := testdb.User(t, strict.db, "author")
	salt := testdb.Ingredient(t, strict.db, "salt", "g")

	_, err := strict.recipeUC.CreateRecipe(context.Background(), author.ID, domain.RecipeCreate{
		Name: "x", Text: "x", CookingTime: 10, Image: tinyPNG,
		Ingredients: []domain.IngredientLine{line(salt.ID, 1)},
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "tags", domain.FieldOf(err))

	tag := testdb.Tag(t, strict.db, "dinner")
	_, err = strict.recipeUC.CreateRecipe(context.Background(), author.ID, domain.RecipeCreate{
		Name: "x", Text: "x", CookingTime: 10, Image: tinyPNG,
		Tags: []uuid.UUID{tag.ID},
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "ingredients", domain.FieldOf(err))

	lenient := newEnv(t, RecipePolicy{AllowEmptyTags: true, AllowEmptyIngredients: true, PageSize: 6})
	author = testdb.User(t, lenient.db, "author")
	view := lenient.createRecipe(t, author.ID, "Вода", nil)
	assert.Empty(t, view.Tags)
	assert.Empty(t, view.Ingredients)
}

func TestUpdateRecipeReplacesIngredientLines(t *testing.T) {
	e := newEnv(t, strictPolicy())
	ctx := context.Background()
	author := testdb.User(t, e.db, "author")
	tag := testdb.Tag(t, e.db, "dinner")
	a := testdb.Ingredient(t, e.db, "a", "g")
	b := testdb.Ingredient(t, e.db, "b", "g")
	c := testdb.Ingredient(t, e.db, "c", "g")

	view := e.createRecipe(t, author.ID, "Рагу", []uuid.UUID{tag.ID}, line(a.ID, 1), line(b.ID, 2), line(c.ID, 3))

	for _, lines := range [][]domain.IngredientLine{
		{line(c.ID, 30)},
		{line(a.ID, 10), line(b.ID, 20)},
		{},
	} {
		updated, err := e.recipeUC.UpdateRecipe(ctx, author.ID, view.ID, domain.RecipeUpdate{
			Name: "Рагу", Text: "Описание", CookingTime: 40,
			Ingredients: domain.Some(lines),
		})
		require.NoError(t, err)
		assert.Len(t, updated.Ingredients, len(lines))
		assert.EqualValues(t, len(lines), e.count(t, &domain.IngredientAmount{}, "recipe_id = ?", view.ID))
		assert.EqualValues(t, 1, e.count(t, &domain.RecipeTag{}, "recipe_id = ?", view.ID))
	}
}

func TestUpdateRecipeWithoutIngredientsKeepsRows(t *testing.T) {
	e := newEnv(t, strictPolicy())
	ctx := context.Background()
	author := testdb.User(t, e.db, "author")
	lunch := testdb.Tag(t, e.db, "lunch")
	dinner := testdb.Tag(t, e.db, "dinner")
	a := testdb.Ingredient(t, e.db, "a", "g")
	b := testdb.Ingredient(t, e.db, "b", "g")

	view := e.createRecipe(t, author.ID, "Рагу", []uuid.UUID{lunch.ID}, line(a.ID, 1), line(b.ID, 2))
	before := e.amounts(t, view.ID)

	updated, err := e.recipeUC.UpdateRecipe(ctx, author.ID, view.ID, domain.RecipeUpdate{
		Name: "Новое рагу", Text: "Другое описание", CookingTime: 45,
		Tags: domain.Some([]uuid.UUID{dinner.ID}),
	})
	require.NoError(t, err)

	assert.Equal(t, before, e.amounts(t, view.ID))
	assert.Equal(t, "Новое рагу", updated.Name)
	assert.Equal(t, 45, updated.CookingTime)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, dinner.ID, updated.Tags[0].ID)
	assert.Equal(t, view.Image, updated.Image)
}

func TestUpdateRecipeImageReplacesObject(t *testing.T) {
	e := newEnv(t, strictPolicy())
	author := testdb.User(t, e.db, "author")
	tag := testdb.Tag(t, e.db, "dinner")
	a := testdb.Ingredient(t, e.db, "a", "g")

	view := e.createRecipe(t, author.ID, "Рагу", []uuid.UUID{tag.ID}, line(a.ID, 1))
	oldKeys := e.files.keys()
	require.Len(t, oldKeys, 1)

	updated, err := e.recipeUC.UpdateRecipe(context.Background(), author.ID, view.ID, domain.RecipeUpdate{
		Name: "Рагу", Text: "x", CookingTime: 10,
		Image: domain.Some("data:image/jpeg;base64,/9j/4AAQ"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, view.Image, updated.Image)
	assert.True(t, strings.HasSuffix(updated.Image, ".jpeg"))

	keys := e.files.keys()
	require.Len(t, keys, 1)
	assert.NotEqual(t, oldKeys[0], keys[0])
}

func TestUpdateRecipeByOtherUserIsForbidden(t *testing.T) {
	e := newEnv(t, strictPolicy())
	author := testdb.User(t, e.db, "author")
	stranger := testdb.User(t, e.db, "stranger")
	tag := testdb.Tag(t, e.db, "dinner")
	a := testdb.Ingredient(t, e.db, "a", "g")
	view := e.createRecipe(t, author.ID, "Рагу", []uuid.UUID{tag.ID}, line(a.ID, 1))

	_, err := e.recipeUC.UpdateRecipe(context.Background(), stranger.ID, view.ID, domain.RecipeUpdate{
		Name: "Чужое", Text: "x", CookingTime: 10,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = e.recipeUC.DeleteRecipe(context.Background(), stranger.ID, view.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.recipeUC.UpdateRecipe(context.Background(), author.ID, uuid.New(), domain.RecipeUpdate{
		Name: "x", Text: "x", CookingTime: 10,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateRecipeOutOfRangeKeepsRecipe(t *testing.T) {
	e := newEnv(t, strictPolicy())
	author := testdb.User(t, e.db, "author")
	tag := testdb.Tag(t, e.db, "dinner")
	a := testdb.Ingredient(t, e.db, "a", "g")
	view := e.createRecipe(t, author.ID, "Рагу", []uuid.UUID{tag.ID}, line(a.ID, 1))
	before := e.amounts(t, view.ID)

	_, err := e.recipeUC.UpdateRecipe(context.Background(), author.ID, view.ID, domain.RecipeUpdate{
		Name: "Рагу", Text: "x", CookingTime: 10,
		Ingredients: domain.Some([]domain.IngredientLine{line(a.ID, 0)}),
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, before, e.amounts(t, view.ID))
}

func TestDeleteRecipeRemovesImage(t *testing.T) {
	e := newEnv(t, strictPolicy())
	author := testdb.User(t, e.db, "author")
	tag := testdb.Tag(t, e.db, "dinner")
	a := testdb.Ingredient(t, e.db, "a", "g")
	view := e.createRecipe(t, author.ID, "Рагу", []uuid.UUID{tag.ID}, line(a.ID, 1))

	require.NoError(t, e.recipeUC.DeleteRecipe(context.Background(), author.ID, view.ID))
	assert.Empty(t, e.files.keys())
	_, err := e.recipeUC.GetRecipe(context.Background(), author.ID, view.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecipeViewReflectsViewerRelations(t *testing.T) {
	e := newEnv(t, strictPolicy())
	ctx := context.Background()
	author := testdb.User(t, e.db, "author")
	reader := testdb.User(t, e.db, "reader")
	tag := testdb.Tag(t, e.db, "dinner")
	a := testdb.Ingredient(t, e.db, "a", "g")
	view := e.createRecipe(t, author.ID, "Рагу", []uuid.UUID{tag.ID}, line(a.ID, 1))

	_, err := e.memberUC.AddFavorite(ctx, reader.ID, view.ID)
	require.NoError(t, err)
	_, err = e.memberUC.Subscribe(ctx, reader.ID, author.ID, 0)
	require.NoError(t, err)

	got, err := e.recipeUC.GetRecipe(ctx, reader.ID, view.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFavorited)
	assert.False(t, got.IsInShoppingCart)
	assert.True(t, got.Author.IsSubscribed)

	anon, err := e.recipeUC.GetRecipe(ctx, uuid.Nil, view.ID)
	require.NoError(t, err)
	assert.False(t, anon.IsFavorited)
	assert.False(t, anon.Author.IsSubscribed)

	page, err := e.recipeUC.ListRecipes(ctx, reader.ID, domain.RecipeFilter{FavoritedBy: reader.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Count)
	require.Len(t, page.Results, 1)
	assert.True(t, page.Results[0].IsFavorited)
}
