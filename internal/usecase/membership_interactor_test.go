package usecase

import (
	"context"
	"testing"

	"github.com/GoArmGo/foodgram/internal/database/testdb"
	"github.com/GoArmGo/foodgram/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddFavoriteTwiceConflicts(t *testing.T) {
	e := newEnv(t, strictPolicy())
	ctx := context.Background()
	author := testdb.User(t, e.db, "author")
	tag := testdb.Tag(t, e.db, "t")
	salt := testdb.Ingredient(t, e.db, "salt", "g")
	r := e.createRecipe(t, author.ID, "R", []uuid.UUID{tag.ID}, line(salt.ID, 1))

	summary, err := e.memberUC.AddFavorite(ctx, author.ID, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, summary.ID)
	assert.Equal(t, r.CookingTime, summary.CookingTime)

	_, err = e.memberUC.AddFavorite(ctx, author.ID, r.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, domain.MessageAlreadyFavorited, domain.MessageOf(err))
	assert.EqualValues(t, 1, e.count(t, &domain.Favorite{}))
}

func TestRemoveMissingFavoriteIsNotFound(t *testing.T) {
	e := newEnv(t, strictPolicy())
	ctx := context.Background()
	author := testdb.User(t, e.db, "author")
	tag := testdb.Tag(t, e.db, "t")
	salt := testdb.Ingredient(t, e.db, "salt", "g")
	r := e.createRecipe(t, author.ID, "R", []uuid.UUID{tag.ID}, line(salt.ID, 1))

	err := e.memberUC.RemoveFavorite(ctx, author.ID, r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = e.memberUC.RemoveFromCart(ctx, author.ID, r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.memberUC.AddFavorite(ctx, author.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSelfSubscriptionIsValidationError(t *testing.T) {
	e := newEnv(t, strictPolicy())
	ctx := context.Background()
	u := testdb.User(t, e.db, "u")

	_, err := e.memberUC.Subscribe(ctx, u.ID, u.ID, 0)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, domain.MessageSelfSubscription, domain.MessageOf(err))

	ghost := uuid.New()
	_, err = e.memberUC.Subscribe(ctx, ghost, ghost, 0)
	assert.ErrorIs(t, err, domain.ErrValidation, "checked before the user lookup")

	require.NoError(t, e.db.Gorm.Exec("INSERT INTO subscriptions (id, author_id, user_id, created_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)",
		uuid.New(), u.ID, u.ID).Error)
	_, err = e.memberUC.Subscribe(ctx, u.ID, u.ID, 0)
	assert.ErrorIs(t, err, domain.ErrValidation, "checked before the uniqueness constraint")
	assert.EqualValues(t, 1, e.count(t, &domain.Subscription{}))
}

func TestSubscribeFlow(t *testing.T) {
	e := newEnv(t, strictPolicy())
	ctx := context.Background()
	reader := testdb.User(t, e.db, "reader")
	author := testdb.User(t, e.db, "author")
	tag := testdb.Tag(t, e.db, "t")
	salt := testdb.Ingredient(t, e.db, "salt", "g")
	for _, name := range []string{"one", "two", "three"} {
		e.createRecipe(t, author.ID, name, []uuid.UUID{tag.ID}, line(salt.ID, 1))
	}

	_, err := e.memberUC.Subscribe(ctx, reader.ID, uuid.New(), 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	view, err := e.memberUC.Subscribe(ctx, reader.ID, author.ID, 2)
	require.NoError(t, err)
	assert.True(t, view.IsSubscribed)
	assert.EqualValues(t, 3, view.RecipesCount)
	assert.Len(t, view.Recipes, 2)

	_, err = e.memberUC.Subscribe(ctx, reader.ID, author.ID, 2)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, domain.MessageAlreadySubscribed, domain.MessageOf(err))

	page, err := e.memberUC.ListSubscriptions(ctx, reader.ID, 1, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, author.ID, page.Results[0].ID)
	assert.Len(t, page.Results[0].Recipes, 3)

	require.NoError(t, e.memberUC.Unsubscribe(ctx, reader.ID, author.ID))
	err = e.memberUC.Unsubscribe(ctx, reader.ID, author.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTogglesRequireExistingUser(t *testing.T) {
	e := newEnv(t, strictPolicy())
	ctx := context.Background()
	author := testdb.User(t, e.db, "author")
	tag := testdb.Tag(t, e.db, "t")
	salt := testdb.Ingredient(t, e.db, "salt", "g")
	r := e.createRecipe(t, author.ID, "R", []uuid.UUID{tag.ID}, line(salt.ID, 1))
	ghost := uuid.New()

	_, err := e.memberUC.AddFavorite(ctx, ghost, r.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "user", domain.FieldOf(err))

	_, err = e.memberUC.AddToCart(ctx, ghost, r.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "user", domain.FieldOf(err))

	_, err = e.memberUC.Subscribe(ctx, ghost, author.ID, 0)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "user", domain.FieldOf(err))

	assert.EqualValues(t, 0, e.count(t, &domain.Favorite{}))
	assert.EqualValues(t, 0, e.count(t, &domain.Cart{}))
	assert.EqualValues(t, 0, e.count(t, &domain.Subscription{}))
}
