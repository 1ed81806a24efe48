package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/foodgram/internal/core/ports"
	"github.com/GoArmGo/foodgram/internal/domain"
	"github.com/google/uuid"
)

// membershipUseCase implements MembershipUseCase
type membershipUseCase struct {
	members  ports.MembershipStorage
	recipes  ports.RecipeStorage
	users    ports.UserStorage
	pageSize int
	logger   *slog.Logger
}

func NewMembershipUseCase(
	members ports.MembershipStorage,
	recipes ports.RecipeStorage,
	users ports.UserStorage,
	pageSize int,
	logger *slog.Logger,
) MembershipUseCase {
	return &membershipUseCase{
		members:  members,
		recipes:  recipes,
		users:    users,
		pageSize: pageSize,
		logger:   logger,
	}
}

// AddFavorite добавляет рецепт в избранное. Повтор даёт ErrConflict от уникального индекса.
func (uc *membershipUseCase) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*domain.RecipeSummary, error) {
	if err := uc.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	recipe, err := uc.recipes.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.members.AddFavorite(ctx, userID, recipeID); err != nil {
		return nil, err
	}
	summary := domain.NewRecipeSummary(*recipe)
	return &summary, nil
}

func (uc *membershipUseCase) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := uc.recipes.GetRecipeByID(ctx, recipeID); err != nil {
		return err
	}
	return uc.members.RemoveFavorite(ctx, userID, recipeID)
}

func (uc *membershipUseCase) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*domain.RecipeSummary, error) {
	if err := uc.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	recipe, err := uc.recipes.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.members.AddToCart(ctx, userID, recipeID); err != nil {
		return nil, err
	}
	summary := domain.NewRecipeSummary(*recipe)
	return &summary, nil
}

func (uc *membershipUseCase) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := uc.recipes.GetRecipeByID(ctx, recipeID); err != nil {
		return err
	}
	return uc.members.RemoveFromCart(ctx, userID, recipeID)
}

// Subscribe: сначала запрет подписки на себя, затем существование подписчика и автора, затем вставка.
func (uc *membershipUseCase) Subscribe(ctx context.Context, userID, authorID uuid.UUID, recipesLimit int) (*domain.SubscriptionView, error) {
	if userID == authorID {
		return nil, domain.NewValidationError("author", domain.MessageSelfSubscription)
	}
	if err := uc.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	author, err := uc.users.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.members.Subscribe(ctx, userID, authorID); err != nil {
		return nil, err
	}
	uc.logger.Info("subscribed", "user_id", userID, "author_id", authorID)
	return uc.subscriptionView(ctx, *author, recipesLimit)
}

func (uc *membershipUseCase) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	if _, err := uc.users.GetUserByID(ctx, authorID); err != nil {
		return err
	}
	return uc.members.Unsubscribe(ctx, userID, authorID)
}

// ListSubscriptions возвращает авторов с их последними рецептами. recipesLimit <= 0 — все рецепты.
func (uc *membershipUseCase) ListSubscriptions(ctx context.Context, userID uuid.UUID, page, limit, recipesLimit int) (*domain.Page[domain.SubscriptionView], error) {
	page, limit = normalizePage(page, limit, uc.pageSize)

	authors, total, err := uc.members.ListSubscriptions(ctx, userID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении подписок: %w", err)
	}

	views := make([]domain.SubscriptionView, 0, len(authors))
	for _, author := range authors {
		view, err := uc.subscriptionView(ctx, author, recipesLimit)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return &domain.Page[domain.SubscriptionView]{Count: total, Results: views}, nil
}

func (uc *membershipUseCase) subscriptionView(ctx context.Context, author domain.User, recipesLimit int) (*domain.SubscriptionView, error) {
	count, err := uc.recipes.CountRecipesByAuthor(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	recipes, err := uc.recipes.ListRecipesByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.RecipeSummary, 0, len(recipes))
	for _, r := range recipes {
		summaries = append(summaries, domain.NewRecipeSummary(r))
	}
	return &domain.SubscriptionView{
		UserView:     domain.NewUserView(author, true),
		RecipesCount: count,
		Recipes:      summaries,
	}, nil
}

// requireUser проверяет, что пользователь запроса существует.
func (uc *membershipUseCase) requireUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := uc.users.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewNotFoundError("user", domain.MessageUserNotFound)
		}
		return err
	}
	return nil
}
