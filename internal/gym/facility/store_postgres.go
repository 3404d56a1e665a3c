// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

package facility

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gymfusion/gymfusion/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed facility store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const facilityColumns = `
	id, name, slug, description, availability, location,
	openinghours, capacity, createdat, updatedat`

// # Facility Retrieval

/*
List returns a paginated slice of facilities with equipment summaries hydrated.

Description: Uses COUNT(*) OVER() for total metadata, then a single join-table
query to attach equipment summaries to the whole page.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*Facility: Page of facilities
  - int: Total record count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Facility, int, error) {
	query := `
		SELECT ` + facilityColumns + `, COUNT(*) OVER() AS total
		FROM gym.facility
		ORDER BY name ASC
		LIMIT $1 OFFSET $2`

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Facility")
	}
	defer rows.Close()

	var facilities []*Facility
	var total int
	for rows.Next() {
		facility := &Facility{}
		err := rows.Scan(
			&facility.ID, &facility.Name, &facility.Slug, &facility.Description,
			&facility.Availability, &facility.Location, &facility.OpeningHours,
			&facility.Capacity, &facility.CreatedAt, &facility.UpdatedAt, &total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Facility")
		}
		facility.Equipment = []EquipmentSummary{}
		facilities = append(facilities, facility)
	}

	if err := repository.hydrateEquipment(context, facilities); err != nil {
		return nil, 0, err
	}

	return facilities, total, nil
}

/*
FindByID retrieves a single facility with its equipment summaries.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Facility: Hydrated entity
  - error: NotFound or database failures
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Facility, error) {
	query := `SELECT ` + facilityColumns + ` FROM gym.facility WHERE id = $1`

	facility := &Facility{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&facility.ID, &facility.Name, &facility.Slug, &facility.Description,
		&facility.Availability, &facility.Location, &facility.OpeningHours,
		&facility.Capacity, &facility.CreatedAt, &facility.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Facility")
	}

	facility.Equipment = []EquipmentSummary{}
	if err := repository.hydrateEquipment(context, []*Facility{facility}); err != nil {
		return nil, err
	}

	return facility, nil
}

// # Facility Mutation

/*
Create persists a facility and its equipment assignments atomically.

Parameters:
  - context: context.Context
  - facility: *Facility
  - equipmentIDs: []string

Returns:
  - error: Conflict (duplicate slug), invalid equipment reference, or
    connectivity failures
*/
func (repository *PostgresRepository) Create(context context.Context, facility *Facility, equipmentIDs []string) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "Facility")
	}
	defer func() { _ = transaction.Rollback(context) }()

	const query = `
		INSERT INTO gym.facility (
			id, name, slug, description, availability, location,
			openinghours, capacity, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now()
	facility.CreatedAt = now
	facility.UpdatedAt = now

	_, err = transaction.Exec(context, query,
		facility.ID, facility.Name, facility.Slug, facility.Description,
		facility.Availability, facility.Location, facility.OpeningHours,
		facility.Capacity, facility.CreatedAt, facility.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Facility")
	}

	if err := replaceAssignments(context, transaction, facility.ID, equipmentIDs); err != nil {
		return err
	}

	return transaction.Commit(context)
}

/*
Update persists facility fields and, when equipmentIDs is non-nil, replaces
the full assignment set atomically.

Parameters:
  - context: context.Context
  - facility: *Facility
  - equipmentIDs: []string (nil = keep current assignments)

Returns:
  - error: NotFound or persistence failures
*/
func (repository *PostgresRepository) Update(context context.Context, facility *Facility, equipmentIDs []string) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "Facility")
	}
	defer func() { _ = transaction.Rollback(context) }()

	const query = `
		UPDATE gym.facility
		SET name = $2, description = $3, availability = $4, location = $5,
		    openinghours = $6, capacity = $7, updatedat = NOW()
		WHERE id = $1`

	result, err := transaction.Exec(context, query,
		facility.ID, facility.Name, facility.Description, facility.Availability,
		facility.Location, facility.OpeningHours, facility.Capacity,
	)
	if err != nil {
		return dberr.Wrap(err, "Facility")
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Facility")
	}

	if equipmentIDs != nil {
		if _, err := transaction.Exec(context,
			`DELETE FROM gym.facility_equipment WHERE facilityid = $1`, facility.ID); err != nil {
			return dberr.Wrap(err, "Facility")
		}
		if err := replaceAssignments(context, transaction, facility.ID, equipmentIDs); err != nil {
			return err
		}
	}

	return transaction.Commit(context)
}

// Delete removes a facility; assignments cascade via the FK.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	result, err := repository.db.Exec(context, `DELETE FROM gym.facility WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "Facility")
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Facility")
	}
	return nil
}

// DeleteAll removes every facility and returns the deleted count.
func (repository *PostgresRepository) DeleteAll(context context.Context) (int, error) {
	result, err := repository.db.Exec(context, `DELETE FROM gym.facility`)
	if err != nil {
		return 0, dberr.Wrap(err, "Facility")
	}
	return int(result.RowsAffected()), nil
}

// # Internal Helpers

// replaceAssignments inserts join rows for the given equipment IDs.
func replaceAssignments(context context.Context, transaction pgx.Tx, facilityID string, equipmentIDs []string) error {
	for _, equipmentID := range equipmentIDs {
		_, err := transaction.Exec(context,
			`INSERT INTO gym.facility_equipment (facilityid, equipmentid) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			facilityID, equipmentID,
		)
		if err != nil {
			return dberr.Wrap(fmt.Errorf("assign equipment %s: %w", equipmentID, err), "Equipment")
		}
	}
	return nil
}

// hydrateEquipment attaches equipment summaries to a page of facilities in
// one query.
func (repository *PostgresRepository) hydrateEquipment(context context.Context, facilities []*Facility) error {
	if len(facilities) == 0 {
		return nil
	}

	ids := make([]string, len(facilities))
	index := make(map[string]*Facility, len(facilities))
	for i, facility := range facilities {
		ids[i] = facility.ID
		index[facility.ID] = facility
	}

	const query = `
		SELECT fe.facilityid, e.id, e.name, e.condition, e.isavailable
		FROM gym.facility_equipment fe
		JOIN gym.equipment e ON e.id = fe.equipmentid
		WHERE fe.facilityid = ANY($1)
		ORDER BY e.name ASC`

	rows, err := repository.db.Query(context, query, ids)
	if err != nil {
		return dberr.Wrap(err, "Equipment")
	}
	defer rows.Close()

	for rows.Next() {
		var facilityID string
		summary := EquipmentSummary{}
		if err := rows.Scan(&facilityID, &summary.ID, &summary.Name, &summary.Condition, &summary.IsAvailable); err != nil {
			return dberr.Wrap(err, "Equipment")
		}
		if facility, ok := index[facilityID]; ok {
			facility.Equipment = append(facility.Equipment, summary)
		}
	}

	return nil
}
