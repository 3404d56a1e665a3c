// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

package facility

import "context"

// Repository defines the data access contract for facilities.
//
// Equipment assignments are passed as ID slices; implementations own the
// join-table bookkeeping and the hydration of [EquipmentSummary] slices.
type Repository interface {
	List(context context.Context, limit, offset int) ([]*Facility, int, error)
	FindByID(context context.Context, id string) (*Facility, error)
	Create(context context.Context, facility *Facility, equipmentIDs []string) error
	Update(context context.Context, facility *Facility, equipmentIDs []string) error
	Delete(context context.Context, id string) error
	DeleteAll(context context.Context) (int, error)
}
