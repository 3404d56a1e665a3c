// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access, required for facility/equipment mutation
	RoleAdmin UserRole = "ADMIN"

	// Can run classes and manage member programs
	RoleTrainer UserRole = "TRAINER"

	// Default role for standard registered members
	RoleUser UserRole = "USER"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 30
	case RoleTrainer:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}
