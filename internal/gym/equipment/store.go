package equipment

import "context"

// Repository defines the data access contract for gym equipment.
type Repository interface {
	List(context context.Context, limit, offset int) ([]*Equipment, int, error)
	FindByID(context context.Context, id string) (*Equipment, error)
	Create(context context.Context, item *Equipment) error
	Update(context context.Context, item *Equipment) error
	Delete(context context.Context, id string) error
	DeleteAll(context context.Context) (int, error)
}
