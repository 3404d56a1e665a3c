// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

package facility_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymfusion/gymfusion/internal/gym/facility"
	"github.com/gymfusion/gymfusion/internal/platform/apperr"
	"github.com/gymfusion/gymfusion/pkg/pagination"
)

// memoryRepository is a map-backed Repository that mimics the join-table
// behavior: equipment IDs are stored per facility and hydrated into
// placeholder summaries on read.
type memoryRepository struct {
	facilities  map[string]*facility.Facility
	assignments map[string][]string
	order       []string
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		facilities:  make(map[string]*facility.Facility),
		assignments: make(map[string][]string),
	}
}

func (repo *memoryRepository) hydrate(f *facility.Facility) *facility.Facility {
	copied := *f
	copied.Equipment = nil
	for _, id := range repo.assignments[f.ID] {
		copied.Equipment = append(copied.Equipment, facility.EquipmentSummary{
			ID:          id,
			Name:        "Equipment " + id,
			Condition:   "GOOD",
			IsAvailable: true,
		})
	}
	return &copied
}

func (repo *memoryRepository) List(_ context.Context, limit, offset int) ([]*facility.Facility, int, error) {
	var page []*facility.Facility
	for i := offset; i < len(repo.order) && len(page) < limit; i++ {
		page = append(page, repo.hydrate(repo.facilities[repo.order[i]]))
	}
	return page, len(repo.order), nil
}

func (repo *memoryRepository) FindByID(_ context.Context, id string) (*facility.Facility, error) {
	if f, ok := repo.facilities[id]; ok {
		return repo.hydrate(f), nil
	}
	return nil, apperr.NotFound("Facility")
}

func (repo *memoryRepository) Create(_ context.Context, f *facility.Facility, equipmentIDs []string) error {
	for _, existing := range repo.facilities {
		if existing.Slug == f.Slug {
			return apperr.Conflict("Facility already exists")
		}
	}
	copied := *f
	repo.facilities[f.ID] = &copied
	repo.assignments[f.ID] = equipmentIDs
	repo.order = append(repo.order, f.ID)
	return nil
}

func (repo *memoryRepository) Update(_ context.Context, f *facility.Facility, equipmentIDs []string) error {
	if _, ok := repo.facilities[f.ID]; !ok {
		return apperr.NotFound("Facility")
	}
	copied := *f
	repo.facilities[f.ID] = &copied
	if equipmentIDs != nil {
		repo.assignments[f.ID] = equipmentIDs
	}
	return nil
}

func (repo *memoryRepository) Delete(_ context.Context, id string) error {
	if _, ok := repo.facilities[id]; !ok {
		return apperr.NotFound("Facility")
	}
	delete(repo.facilities, id)
	delete(repo.assignments, id)
	for i, existing := range repo.order {
		if existing == id {
			repo.order = append(repo.order[:i], repo.order[i+1:]...)
			break
		}
	}
	return nil
}

func (repo *memoryRepository) DeleteAll(_ context.Context) (int, error) {
	count := len(repo.order)
	repo.facilities = make(map[string]*facility.Facility)
	repo.assignments = make(map[string][]string)
	repo.order = nil
	return count, nil
}

func newService() (*facility.Service, *memoryRepository) {
	repo := newMemoryRepository()
	return facility.NewService(repo, slog.Default()), repo
}

/*
TestService_Create verifies facility creation: the slug is derived from the
name and the equipment assignments are hydrated into summaries.
*/
func TestService_Create(t *testing.T) {
	service, _ := newService()

	created, err := service.Create(context.Background(), facility.CreateInput{
		Name:         "Main Weight Room",
		Description:  "Free weights and racks",
		Location:     "Building A, Floor 1",
		OpeningHours: "06:00-22:00",
		Capacity:     40,
		EquipmentIDs: []string{"eq-1", "eq-2"},
	})
	require.NoError(t, err)

	// 1. Identity and derived slug
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "main-weight-room", created.Slug)

	// 2. Defaults
	assert.True(t, created.Availability)

	// 3. Equipment summaries hydrated from the assignment set
	require.Len(t, created.Equipment, 2)
	assert.Equal(t, "eq-1", created.Equipment[0].ID)
}

/*
TestService_Create_DuplicateSlug verifies that two facilities whose names
collapse to the same slug conflict.
*/
func TestService_Create_DuplicateSlug(t *testing.T) {
	service, _ := newService()

	_, err := service.Create(context.Background(), facility.CreateInput{
		Name: "Spin Studio", Description: "d", Location: "l", OpeningHours: "h", Capacity: 20,
	})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), facility.CreateInput{
		Name: "SPIN  Studio!", Description: "d", Location: "l", OpeningHours: "h", Capacity: 20,
	})
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

/*
TestService_Update verifies partial patching: the slug is stable across
renames and a nil equipment set keeps existing assignments.
*/
func TestService_Update(t *testing.T) {
	service, _ := newService()

	created, err := service.Create(context.Background(), facility.CreateInput{
		Name:         "Yoga Studio",
		Description:  "Quiet room",
		Location:     "Building B",
		OpeningHours: "07:00-21:00",
		Capacity:     15,
		EquipmentIDs: []string{"eq-1"},
	})
	require.NoError(t, err)

	// 1. Rename keeps the original slug (links stay stable)
	newName := "Hot Yoga Studio"
	newCapacity := 12
	updated, err := service.Update(context.Background(), created.ID, facility.UpdateInput{
		Name:     &newName,
		Capacity: &newCapacity,
	})
	require.NoError(t, err)

	assert.Equal(t, "Hot Yoga Studio", updated.Name)
	assert.Equal(t, "yoga-studio", updated.Slug)
	assert.Equal(t, 12, updated.Capacity)

	// 2. Nil equipment set left the assignment untouched
	require.Len(t, updated.Equipment, 1)

	// 3. Non-nil equipment set replaces assignments wholesale
	updated, err = service.Update(context.Background(), created.ID, facility.UpdateInput{
		EquipmentIDs: []string{"eq-2", "eq-3"},
	})
	require.NoError(t, err)
	require.Len(t, updated.Equipment, 2)
	assert.Equal(t, "eq-2", updated.Equipment[0].ID)
}

/*
TestService_Update_NotFound verifies patching a missing facility fails.
*/
func TestService_Update_NotFound(t *testing.T) {
	service, _ := newService()

	name := "Ghost Room"
	_, err := service.Update(context.Background(), "missing-id", facility.UpdateInput{Name: &name})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

/*
TestService_List verifies pagination metadata over a seeded repository.
*/
func TestService_List(t *testing.T) {
	service, _ := newService()

	names := []string{"Room A", "Room B", "Room C"}
	for _, name := range names {
		_, err := service.Create(context.Background(), facility.CreateInput{
			Name: name, Description: "d", Location: "l", OpeningHours: "h", Capacity: 10,
		})
		require.NoError(t, err)
	}

	facilities, meta, err := service.List(context.Background(), pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)

	assert.Len(t, facilities, 2)
	assert.Equal(t, 3, meta.Total)
	assert.Equal(t, 2, meta.TotalPages)
}

/*
TestService_DeleteAll verifies the bulk wipe returns the removed count.
*/
func TestService_DeleteAll(t *testing.T) {
	service, repo := newService()

	for _, name := range []string{"Room A", "Room B"} {
		_, err := service.Create(context.Background(), facility.CreateInput{
			Name: name, Description: "d", Location: "l", OpeningHours: "h", Capacity: 10,
		})
		require.NoError(t, err)
	}

	count, err := service.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Empty(t, repo.facilities)
}
