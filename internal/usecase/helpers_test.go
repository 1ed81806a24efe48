package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/GoArmGo/foodgram/internal/database/postgres"
	"github.com/GoArmGo/foodgram/internal/database/storage"
	"github.com/GoArmGo/foodgram/internal/database/testdb"
	"github.com/GoArmGo/foodgram/internal/domain"
	"github.com/GoArmGo/foodgram/internal/logger"
	"github.com/GoArmGo/foodgram/internal/messaging/payloads"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// tinyPNG — валидная строка data URI для тестов.
const tinyPNG = "data:image/png;base64,iVBORw0KGgo="

// memFiles — объектное хранилище в памяти.
type memFiles struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
}

func newMemFiles() *memFiles {
	return &memFiles{objects: map[string][]byte{}}
}

func (m *memFiles) UploadFile(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return "http://files.test/bucket/" + key, nil
}

func (m *memFiles) GetFile(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s: %w", key, errors.New("no such key"))
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memFiles) DeleteFile(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memFiles) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys
}

// memPublisher запоминает опубликованные задачи.
type memPublisher struct {
	published []payloads.IngredientImportPayload
	err       error
}

func (p *memPublisher) PublishIngredientImport(_ context.Context, payload payloads.IngredientImportPayload) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, payload)
	return nil
}

// env — все сценарии поверх одной базы SQLite.
type env struct {
	db         *testdb.DB
	files      *memFiles
	publisher  *memPublisher
	recipes    *postgres.GormRecipeStorage
	members    *postgres.GormMembershipStorage
	users      *postgres.GormUserStorage
	recipeUC   RecipeUseCase
	memberUC   MembershipUseCase
	shoppingUC ShoppingListUseCase
	userUC     UserUseCase
	importUC   IngredientImportUseCase
	refUC      ReferenceUseCase
}

func newEnv(t *testing.T, policy RecipePolicy) *env {
	t.Helper()
	db := testdb.Open(t)
	log := logger.Discard()

	e := &env{
		db:        db,
		files:     newMemFiles(),
		publisher: &memPublisher{},
		recipes:   postgres.NewGormRecipeStorage(db.Gorm, log),
		members:   postgres.NewGormMembershipStorage(db.Gorm, log),
		users:     postgres.NewGormUserStorage(db.Gorm, log),
	}
	catalog := postgres.NewGormCatalogStorage(db.Gorm, log)

	e.recipeUC = NewRecipeUseCase(e.recipes, e.users, e.members, e.files, policy, log)
	e.memberUC = NewMembershipUseCase(e.members, e.recipes, e.users, 6, log)
	e.shoppingUC = NewShoppingListUseCase(storage.NewShoppingListStorage(db.SQLX, log), log)
	e.userUC = NewUserUseCase(e.users, e.members, 6, log)
	e.importUC = NewIngredientImportUseCase(catalog, e.files, e.publisher, log)
	e.refUC = NewReferenceUseCase(storage.NewReferenceStorage(db.SQLX, log), catalog)
	return e
}

func strictPolicy() RecipePolicy {
	return RecipePolicy{PageSize: 6}
}

func (e *env) count(t *testing.T, model interface{}, where ...interface{}) int64 {
	t.Helper()
	var n int64
	q := e.db.Gorm.Model(model)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func (e *env) amounts(t *testing.T, recipeID uuid.UUID) []domain.IngredientAmount {
	t.Helper()
	var rows []domain.IngredientAmount
	require.NoError(t, e.db.Gorm.Where("recipe_id = ?", recipeID).Order("id").Find(&rows).Error)
	return rows
}

func (e *env) createRecipe(t *testing.T, author uuid.UUID, name string, tags []uuid.UUID, lines ...domain.IngredientLine) *domain.RecipeView {
	t.Helper()
	view, err := e.recipeUC.CreateRecipe(context.Background(), author, domain.RecipeCreate{
		Name:        name,
		Text:        "Описание",
		CookingTime: 30,
		Image:       tinyPNG,
		Tags:        tags,
		Ingredients: lines,
	})
	require.NoError(t, err)
	return view
}

func line(id uuid.UUID, amount int) domain.IngredientLine {
	return domain.IngredientLine{IngredientID: id, Amount: amount}
}
