package equipment_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymfusion/gymfusion/internal/gym/equipment"
	"github.com/gymfusion/gymfusion/internal/platform/apperr"
	"github.com/gymfusion/gymfusion/pkg/pagination"
)

type memoryRepository struct {
	items map[string]*equipment.Equipment
	order []string
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{items: make(map[string]*equipment.Equipment)}
}

func (repo *memoryRepository) List(_ context.Context, limit, offset int) ([]*equipment.Equipment, int, error) {
	var page []*equipment.Equipment
	for i := offset; i < len(repo.order) && len(page) < limit; i++ {
		copied := *repo.items[repo.order[i]]
		page = append(page, &copied)
	}
	return page, len(repo.order), nil
}

func (repo *memoryRepository) FindByID(_ context.Context, id string) (*equipment.Equipment, error) {
	if item, ok := repo.items[id]; ok {
		copied := *item
		return &copied, nil
	}
	return nil, apperr.NotFound("Equipment")
}

func (repo *memoryRepository) Create(_ context.Context, item *equipment.Equipment) error {
	copied := *item
	repo.items[item.ID] = &copied
	repo.order = append(repo.order, item.ID)
	return nil
}

func (repo *memoryRepository) Update(_ context.Context, item *equipment.Equipment) error {
	if _, ok := repo.items[item.ID]; !ok {
		return apperr.NotFound("Equipment")
	}
	copied := *item
	repo.items[item.ID] = &copied
	return nil
}

func (repo *memoryRepository) Delete(_ context.Context, id string) error {
	if _, ok := repo.items[id]; !ok {
		return apperr.NotFound("Equipment")
	}
	delete(repo.items, id)
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
	repo.items = make(map[string]*equipment.Equipment)
	repo.order = nil
	return count, nil
}

func newService() (*equipment.Service, *memoryRepository) {
	repo := newMemoryRepository()
	return equipment.NewService(repo, slog.Default()), repo
}

func TestCondition_Valid(t *testing.T) {
	assert.True(t, equipment.ConditionNew.Valid())
	assert.True(t, equipment.ConditionPoor.Valid())
	assert.False(t, equipment.Condition("BROKEN").Valid())
	assert.False(t, equipment.Condition("").Valid())
}

func TestService_Create_Defaults(t *testing.T) {
	service, repo := newService()

	item, err := service.Create(context.Background(), equipment.CreateInput{
		Name:         "Treadmill T-1000",
		Type:         "cardio",
		PurchaseDate: time.Now(),
		Location:     "Cardio Zone",
	})
	require.NoError(t, err)

	// Unspecified condition and availability fall back to sensible defaults.
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, equipment.ConditionGood, item.Condition)
	assert.True(t, item.IsAvailable)
	assert.Contains(t, repo.items, item.ID)
}

func TestService_Update_Patch(t *testing.T) {
	service, _ := newService()

	item, err := service.Create(context.Background(), equipment.CreateInput{
		Name:         "Squat Rack",
		Type:         "strength",
		Brand:        "IronWorks",
		PurchaseDate: time.Now(),
		Location:     "Free Weights",
	})
	require.NoError(t, err)

	// Only the provided fields change.
	condition := equipment.ConditionFair
	unavailable := false
	updated, err := service.Update(context.Background(), item.ID, equipment.UpdateInput{
		Condition:   &condition,
		IsAvailable: &unavailable,
	})
	require.NoError(t, err)

	assert.Equal(t, equipment.ConditionFair, updated.Condition)
	assert.False(t, updated.IsAvailable)
	assert.Equal(t, "Squat Rack", updated.Name)
	assert.Equal(t, "IronWorks", updated.Brand)
}

func TestService_Update_NotFound(t *testing.T) {
	service, _ := newService()

	name := "Ghost Machine"
	_, err := service.Update(context.Background(), "missing-id", equipment.UpdateInput{Name: &name})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

func TestService_List_Pagination(t *testing.T) {
	service, _ := newService()

	for i := 0; i < 5; i++ {
		_, err := service.Create(context.Background(), equipment.CreateInput{
			Name:         "Bike",
			Type:         "cardio",
			PurchaseDate: time.Now(),
			Location:     "Spin Room",
		})
		require.NoError(t, err)
	}

	items, meta, err := service.List(context.Background(), pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)

	assert.Len(t, items, 2)
	assert.Equal(t, 5, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 2, meta.Page)
}

func TestService_DeleteAll(t *testing.T) {
	service, repo := newService()

	for i := 0; i < 3; i++ {
		_, err := service.Create(context.Background(), equipment.CreateInput{
			Name:         "Kettlebell",
			Type:         "strength",
			PurchaseDate: time.Now(),
			Location:     "Free Weights",
		})
		require.NoError(t, err)
	}

	count, err := service.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Empty(t, repo.items)

	// Deleting from an empty table reports zero, not an error.
	count, err = service.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
