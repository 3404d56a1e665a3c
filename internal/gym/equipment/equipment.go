package equipment

import "time"

// Condition grades the physical state of a piece of equipment.
type Condition string

const (
	ConditionNew  Condition = "NEW"
	ConditionGood Condition = "GOOD"
	ConditionFair Condition = "FAIR"
	ConditionPoor Condition = "POOR"
)

// Valid reports whether the condition is one of the known grades.
func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// Equipment represents a single trackable piece of gym hardware.
type Equipment struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	Type                string      `json:"type"`
	Brand               string      `json:"brand,omitempty"`
	PurchaseDate        time.Time   `json:"purchase_date"`
	Condition           Condition   `json:"condition"`
	Location            string      `json:"location"`
	MaintenanceSchedule []time.Time `json:"maintenance_schedule"`
	IsAvailable         bool        `json:"is_available"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}
