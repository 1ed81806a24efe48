package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GoArmGo/foodgram/internal/core/ports"
	"github.com/GoArmGo/foodgram/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// userUseCase implements UserUseCase
type userUseCase struct {
	users    ports.UserStorage
	members  ports.MembershipStorage
	pageSize int
	logger   *slog.Logger
}

func NewUserUseCase(users ports.UserStorage, members ports.MembershipStorage, pageSize int, logger *slog.Logger) UserUseCase {
	return &userUseCase{users: users, members: members, pageSize: pageSize, logger: logger}
}

// Register создаёт пользователя, пароль хранится только в виде bcrypt-хэша.
func (uc *userUseCase) Register(ctx context.Context, in domain.UserRegistration) (*domain.UserView, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при хэшировании пароля: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hash),
	}
	if err := uc.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("user registered", "user_id", user.ID)
	view := domain.NewUserView(*user, false)
	return &view, nil
}

func (uc *userUseCase) GetUser(ctx context.Context, viewerID, id uuid.UUID) (*domain.UserView, error) {
	user, err := uc.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	subscribed, err := uc.isSubscribed(ctx, viewerID, id)
	if err != nil {
		return nil, err
	}
	view := domain.NewUserView(*user, subscribed)
	return &view, nil
}

func (uc *userUseCase) ListUsers(ctx context.Context, viewerID uuid.UUID, page, limit int) (*domain.Page[domain.UserView], error) {
	page, limit = normalizePage(page, limit, uc.pageSize)

	users, total, err := uc.users.ListUsers(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении пользователей: %w", err)
	}

	views := make([]domain.UserView, 0, len(users))
	for _, u := range users {
		subscribed, err := uc.isSubscribed(ctx, viewerID, u.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, domain.NewUserView(u, subscribed))
	}
	return &domain.Page[domain.UserView]{Count: total, Results: views}, nil
}

func (uc *userUseCase) isSubscribed(ctx context.Context, viewerID, authorID uuid.UUID) (bool, error) {
	if viewerID == uuid.Nil || viewerID == authorID {
		return false, nil
	}
	return uc.members.IsSubscribed(ctx, viewerID, authorID)
}
