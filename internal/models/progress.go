// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package models

import (
	"time"
)

// Photo is an inline progress photo. Data serialises as base64.
type Photo struct {
	Data        []byte `json:"data"`
	ContentType string `json:"contentType"`
}

// Progress is a tracking entry recorded against a routine.
type Progress struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"userId"`
	RoutineID string                 `json:"routineId"`
	Photo     *Photo                 `json:"photo,omitempty"`
	Analysis  map[string]interface{} `json:"analysis,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}
