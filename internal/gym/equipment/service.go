package equipment

import (
	"context"
	"log/slog"
	"time"

	"github.com/gymfusion/gymfusion/pkg/pagination"
	"github.com/gymfusion/gymfusion/pkg/uuid"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// CreateInput carries the fields accepted when registering new equipment.
type CreateInput struct {
	Name                string
	Type                string
	Brand               string
	PurchaseDate        time.Time
	Condition           Condition
	Location            string
	MaintenanceSchedule []time.Time
	IsAvailable         *bool
}

// UpdateInput carries the patchable fields; nil means "leave unchanged".
type UpdateInput struct {
	Name                *string
	Type                *string
	Brand               *string
	PurchaseDate        *time.Time
	Condition           *Condition
	Location            *string
	MaintenanceSchedule []time.Time
	IsAvailable         *bool
}

func (service *Service) List(context context.Context, params pagination.Params) ([]*Equipment, pagination.Meta, error) {
	items, total, err := service.repo.List(context, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, pagination.NewMeta(params.Page, params.Limit, total), nil
}

func (service *Service) Get(context context.Context, id string) (*Equipment, error) {
	return service.repo.FindByID(context, id)
}

func (service *Service) Create(context context.Context, input CreateInput) (*Equipment, error) {
	condition := input.Condition
	if condition == "" {
		condition = ConditionGood
	}

	available := true
	if input.IsAvailable != nil {
		available = *input.IsAvailable
	}

	item := &Equipment{
		ID:                  uuid.New(),
		Name:                input.Name,
		Type:                input.Type,
		Brand:               input.Brand,
		PurchaseDate:        input.PurchaseDate,
		Condition:           condition,
		Location:            input.Location,
		MaintenanceSchedule: input.MaintenanceSchedule,
		IsAvailable:         available,
	}

	if err := service.repo.Create(context, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (service *Service) Update(context context.Context, id string, input UpdateInput) (*Equipment, error) {
	item, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Type != nil {
		item.Type = *input.Type
	}
	if input.Brand != nil {
		item.Brand = *input.Brand
	}
	if input.PurchaseDate != nil {
		item.PurchaseDate = *input.PurchaseDate
	}
	if input.Condition != nil {
		item.Condition = *input.Condition
	}
	if input.Location != nil {
		item.Location = *input.Location
	}
	if input.MaintenanceSchedule != nil {
		item.MaintenanceSchedule = input.MaintenanceSchedule
	}
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}

	if err := service.repo.Update(context, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (service *Service) Delete(context context.Context, id string) error {
	return service.repo.Delete(context, id)
}

// DeleteAll removes every equipment row and returns how many were deleted.
func (service *Service) DeleteAll(context context.Context) (int, error) {
	count, err := service.repo.DeleteAll(context)
	if err != nil {
		return 0, err
	}

	service.logger.InfoContext(context, "equipment_bulk_deleted", slog.Int("count", count))
	return count, nil
}
