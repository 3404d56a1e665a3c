// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

package facility

import (
	"context"
	"log/slog"

	"github.com/gymfusion/gymfusion/pkg/pagination"
	"github.com/gymfusion/gymfusion/pkg/slug"
	"github.com/gymfusion/gymfusion/pkg/uuid"
)

// Service implements facility use cases on top of [Repository].
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a facility Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// CreateInput carries the fields accepted when opening a new facility.
type CreateInput struct {
	Name         string
	Description  string
	Availability *bool
	Location     string
	OpeningHours string
	Capacity     int
	EquipmentIDs []string
}

// UpdateInput carries the patchable fields; nil means "leave unchanged".
// EquipmentIDs, when non-nil, replaces the full assignment set.
type UpdateInput struct {
	Name         *string
	Description  *string
	Availability *bool
	Location     *string
	OpeningHours *string
	Capacity     *int
	EquipmentIDs []string
}

/*
List returns a paginated slice of facilities with their equipment summaries.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*Facility: Page of facilities
  - pagination.Meta: Total/page metadata
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, params pagination.Params) ([]*Facility, pagination.Meta, error) {
	facilities, total, err := service.repo.List(context, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return facilities, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// Get returns a single facility by ID.
func (service *Service) Get(context context.Context, id string) (*Facility, error) {
	return service.repo.FindByID(context, id)
}

/*
Create validates and persists a new facility.

Description: The URL slug is derived from the name at creation time and is
never regenerated afterwards, so links stay stable across renames.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Facility: Created entity with hydrated equipment summaries
  - error: Conflict (duplicate slug) or storage failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Facility, error) {
	available := true
	if input.Availability != nil {
		available = *input.Availability
	}

	facility := &Facility{
		ID:           uuid.New(),
		Name:         input.Name,
		Slug:         slug.From(input.Name),
		Description:  input.Description,
		Availability: available,
		Location:     input.Location,
		OpeningHours: input.OpeningHours,
		Capacity:     input.Capacity,
	}

	if err := service.repo.Create(context, facility, input.EquipmentIDs); err != nil {
		return nil, err
	}

	// Re-read to hydrate the equipment summaries for the response.
	return service.repo.FindByID(context, facility.ID)
}

/*
Update applies a partial patch to an existing facility.

Parameters:
  - context: context.Context
  - id: string
  - input: UpdateInput

Returns:
  - *Facility: Updated entity
  - error: NotFound or storage failures
*/
func (service *Service) Update(context context.Context, id string, input UpdateInput) (*Facility, error) {
	facility, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		facility.Name = *input.Name
	}
	if input.Description != nil {
		facility.Description = *input.Description
	}
	if input.Availability != nil {
		facility.Availability = *input.Availability
	}
	if input.Location != nil {
		facility.Location = *input.Location
	}
	if input.OpeningHours != nil {
		facility.OpeningHours = *input.OpeningHours
	}
	if input.Capacity != nil {
		facility.Capacity = *input.Capacity
	}

	if err := service.repo.Update(context, facility, input.EquipmentIDs); err != nil {
		return nil, err
	}

	return service.repo.FindByID(context, id)
}

// Delete removes a single facility and its equipment assignments.
func (service *Service) Delete(context context.Context, id string) error {
	return service.repo.Delete(context, id)
}

// DeleteAll removes every facility and returns how many were deleted.
func (service *Service) DeleteAll(context context.Context) (int, error) {
	count, err := service.repo.DeleteAll(context)
	if err != nil {
		return 0, err
	}

	service.logger.InfoContext(context, "facilities_bulk_deleted", slog.Int("count", count))
	return count, nil
}
