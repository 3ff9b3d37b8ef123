// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package models

import (
	"time"
)

// Routine step times.
const (
	RoutineMorning = "morning"
	RoutineNight   = "night"
)

// IsValidRoutineTime reports whether s is morning or night.
func IsValidRoutineTime(s string) bool {
	return s == RoutineMorning || s == RoutineNight
}

// RoutineStep is one product application in a routine.
type RoutineStep struct {
	Product   string `json:"product" validate:"required,max=200"`
	Time      string `json:"time" validate:"omitempty,routinetime"`
	Order     int    `json:"order" validate:"gte=0"`
	Completed bool   `json:"completed"`
}

// Routine is an ordered list of steps owned by a user.
type Routine struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	Name      string        `json:"name"`
	Steps     []RoutineStep `json:"steps"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// AddStep appends a step at the next order position.
func (r *Routine) AddStep(product, at string) {
	r.Steps = append(r.Steps, RoutineStep{
		Product: product,
		Time:    at,
		Order:   len(r.Steps) + 1,
	})
}
