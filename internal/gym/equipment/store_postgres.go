package equipment

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gymfusion/gymfusion/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed equipment store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const equipmentColumns = `
	id, name, type, brand, purchasedate, condition, location,
	maintenanceschedule, isavailable, createdat, updatedat`

func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Equipment, int, error) {
	query := `
		SELECT ` + equipmentColumns + `, COUNT(*) OVER() AS total
		FROM gym.equipment
		ORDER BY name ASC
		LIMIT $1 OFFSET $2`

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Equipment")
	}
	defer rows.Close()

	var items []*Equipment
	var total int
	for rows.Next() {
		item := &Equipment{}
		var brand *string
		err := rows.Scan(
			&item.ID, &item.Name, &item.Type, &brand, &item.PurchaseDate, &item.Condition,
			&item.Location, &item.MaintenanceSchedule, &item.IsAvailable,
			&item.CreatedAt, &item.UpdatedAt, &total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Equipment")
		}
		if brand != nil {
			item.Brand = *brand
		}
		items = append(items, item)
	}

	return items, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM gym.equipment WHERE id = $1`

	item := &Equipment{}
	var brand *string
	err := repository.db.QueryRow(context, query, id).Scan(
		&item.ID, &item.Name, &item.Type, &brand, &item.PurchaseDate, &item.Condition,
		&item.Location, &item.MaintenanceSchedule, &item.IsAvailable,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Equipment")
	}
	if brand != nil {
		item.Brand = *brand
	}

	return item, nil
}

func (repository *PostgresRepository) Create(context context.Context, item *Equipment) error {
	const query = `
		INSERT INTO gym.equipment (
			id, name, type, brand, purchasedate, condition, location,
			maintenanceschedule, isavailable, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		item.ID, item.Name, item.Type, emptyToNil(item.Brand), item.PurchaseDate,
		item.Condition, item.Location, item.MaintenanceSchedule, item.IsAvailable,
		item.CreatedAt, item.UpdatedAt,
	)
	return dberr.Wrap(err, "Equipment")
}

func (repository *PostgresRepository) Update(context context.Context, item *Equipment) error {
	const query = `
		UPDATE gym.equipment
		SET name = $2, type = $3, brand = $4, purchasedate = $5, condition = $6,
		    location = $7, maintenanceschedule = $8, isavailable = $9, updatedat = NOW()
		WHERE id = $1`

	result, err := repository.db.Exec(context, query,
		item.ID, item.Name, item.Type, emptyToNil(item.Brand), item.PurchaseDate,
		item.Condition, item.Location, item.MaintenanceSchedule, item.IsAvailable,
	)
	if err != nil {
		return dberr.Wrap(err, "Equipment")
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Equipment")
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	result, err := repository.db.Exec(context, `DELETE FROM gym.equipment WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "Equipment")
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Equipment")
	}
	return nil
}

func (repository *PostgresRepository) DeleteAll(context context.Context) (int, error) {
	result, err := repository.db.Exec(context, `DELETE FROM gym.equipment`)
	if err != nil {
		return 0, dberr.Wrap(err, "Equipment")
	}
	return int(result.RowsAffected()), nil
}

func emptyToNil(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
