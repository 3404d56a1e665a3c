// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

/*
Package facility manages gym facilities and their equipment assignments.

A facility is a bookable physical space (weight room, studio, pool lane)
with opening hours, a capacity, and a set of equipment installed in it.
Equipment assignments live in a join table; listings hydrate a lightweight
summary of each assigned item rather than the full equipment entity.
*/
package facility

import "time"

// Facility represents a physical space members can use.
type Facility struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Slug         string             `json:"slug"`
	Description  string             `json:"description"`
	Availability bool               `json:"availability"`
	Location     string             `json:"location"`
	OpeningHours string             `json:"opening_hours"`
	Capacity     int                `json:"capacity"`
	Equipment    []EquipmentSummary `json:"equipment"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// EquipmentSummary is the slim projection of an assigned equipment item,
// hydrated via the join table for listings.
type EquipmentSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Condition   string `json:"condition"`
	IsAvailable bool   `json:"is_available"`
}
