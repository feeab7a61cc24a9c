package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"production-system/internal/dto"
	"production-system/internal/entities"
	"production-system/internal/events"
	"production-system/internal/repositories"
	apperrors "production-system/pkg/errors"
)

type IngredientServiceInterface interface {
	ListByOrder(ctx context.Context, orderID uint64) ([]dto.IngredientDTO, error)
	CreateIngredient(ctx context.Context, orderID uint64, data dto.CreateIngredientDTO) (*dto.IngredientDTO, error)
	UpdateIngredient(ctx context.Context, id uint64, data dto.UpdateIngredientDTO) (*dto.IngredientDTO, error)
	DeleteIngredient(ctx context.Context, id uint64) error
}

type IngredientService struct {
	ingredientRepo repositories.IngredientRepositoryInterface
	orderRepo      repositories.OrderRepositoryInterface
	publisher      EventPublisher
	logger         *zap.Logger
}

func NewIngredientService(
	ingredientRepo repositories.IngredientRepositoryInterface,
	orderRepo repositories.OrderRepositoryInterface,
	publisher EventPublisher,
	logger *zap.Logger,
) IngredientServiceInterface {
	return &IngredientService{
		ingredientRepo: ingredientRepo,
		orderRepo:      orderRepo,
		publisher:      publisher,
		logger:         logger,
	}
}

func (s *IngredientService) ListByOrder(ctx context.Context, orderID uint64) ([]dto.IngredientDTO, error) {
	if err := s.orderRepo.OrderExists(ctx, orderID); err != nil {
		return nil, err
	}
	list, err := s.ingredientRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.IngredientDTO, len(list))
	for i, ing := range list {
		out[i] = ingredientToDTO(ing)
	}
	return out, nil
}

func buildIngredient(data dto.CreateIngredientDTO) (entities.Ingredient, error) {
	name := strings.TrimSpace(data.Name)
	if name == "" {
		return entities.Ingredient{}, apperrors.NewInvalidInputError("название ингредиента обязательно")
	}
	if data.QuantityMg < 0 {
		return entities.Ingredient{}, apperrors.NewInvalidInputError("количество не может быть отрицательным")
	}
	return entities.Ingredient{Name: name, QuantityMg: data.QuantityMg, Notes: data.Notes.Ptr()}, nil
}

func (s *IngredientService) CreateIngredient(ctx context.Context, orderID uint64, data dto.CreateIngredientDTO) (*dto.IngredientDTO, error) {
	if err := s.orderRepo.OrderExists(ctx, orderID); err != nil {
		return nil, err
	}
	ing, err := buildIngredient(data)
	if err != nil {
		return nil, err
	}
	ing.OrderID = orderID

	created, err := s.ingredientRepo.CreateIngredient(ctx, ing)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, events.NewOrderChanged(orderID, events.ActionUpdated))
	d := ingredientToDTO(*created)
	return &d, nil
}

func (s *IngredientService) UpdateIngredient(ctx context.Context, id uint64, data dto.UpdateIngredientDTO) (*dto.IngredientDTO, error) {
	existing, err := s.ingredientRepo.FindIngredient(ctx, id)
	if err != nil {
		return nil, err
	}
	ing, err := buildIngredient(data)
	if err != nil {
		return nil, err
	}
	ing.ID = existing.ID
	ing.OrderID = existing.OrderID

	updated, err := s.ingredientRepo.UpdateIngredient(ctx, ing)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, events.NewOrderChanged(updated.OrderID, events.ActionUpdated))
	d := ingredientToDTO(*updated)
	return &d, nil
}

func (s *IngredientService) DeleteIngredient(ctx context.Context, id uint64) error {
	existing, err := s.ingredientRepo.FindIngredient(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ingredientRepo.DeleteIngredient(ctx, id); err != nil {
		return err
	}
	s.logger.Debug("Ингредиент удален", zap.Uint64("ingredientID", id), zap.Uint64("orderID", existing.OrderID))
	s.publisher.Publish(ctx, events.NewOrderChanged(existing.OrderID, events.ActionUpdated))
	return nil
}
