package usecase

import (
	"context"
	"strings"

	"github.com/GoArmGo/foodgram/internal/core/ports"
	"github.com/GoArmGo/foodgram/internal/domain"
	"github.com/google/uuid"
)

// referenceUseCase implements ReferenceUseCase
type referenceUseCase struct {
	reference ports.ReferenceStorage
	catalog   ports.CatalogStorage
}

func NewReferenceUseCase(reference ports.ReferenceStorage, catalog ports.CatalogStorage) ReferenceUseCase {
	return &referenceUseCase{reference: reference, catalog: catalog}
}

func (uc *referenceUseCase) ListTags(ctx context.Context) ([]domain.Tag, error) {
	return uc.reference.ListTags(ctx)
}

func (uc *referenceUseCase) GetTag(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	return uc.reference.GetTagByID(ctx, id)
}

// tagInput — правила для нового тега.
type tagInput struct {
	Name  string `json:"name" validate:"required,max=64"`
	Color string `json:"color" validate:"required,hexcolor"`
	Slug  string `json:"slug" validate:"required,max=50"`
}

func (uc *referenceUseCase) CreateTag(ctx context.Context, tag domain.Tag) (*domain.Tag, error) {
	in := tagInput{
		Name:  strings.TrimSpace(tag.Name),
		Color: strings.ToUpper(strings.TrimSpace(tag.Color)),
		Slug:  strings.TrimSpace(tag.Slug),
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	created := domain.Tag{Name: in.Name, Color: in.Color, Slug: in.Slug}
	if err := uc.catalog.CreateTag(ctx, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (uc *referenceUseCase) ListIngredients(ctx context.Context, name string) ([]domain.Ingredient, error) {
	return uc.reference.ListIngredients(ctx, strings.TrimSpace(name))
}

func (uc *referenceUseCase) GetIngredient(ctx context.Context, id uuid.UUID) (*domain.Ingredient, error) {
	return uc.reference.GetIngredientByID(ctx, id)
}
