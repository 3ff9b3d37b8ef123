// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Event types published on the bus.
const (
	TypeAnalysisCompleted = "analysis.completed"
	TypeRoutineGenerated  = "routine.generated"
	TypeProfileCompleted  = "profile.completed"
)

// Types lists every event type the bus routes.
var Types = []string{
	TypeAnalysisCompleted,
	TypeRoutineGenerated,
	TypeProfileCompleted,
}

// ErrUnknownType is returned when publishing an event type the bus does not route.
var ErrUnknownType = errors.New("unknown event type")

// Event is the envelope for a domain event.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	UserID    string          `json:"userId"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEvent builds an event with a fresh ID, marshaling data as the payload.
func NewEvent(eventType, userID string, data interface{}) (*Event, error) {
	if !isValidType(eventType) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, eventType)
	}
	if userID == "" {
		return nil, errors.New("event user id is required")
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal event data: %w", err)
	}

	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		UserID:    userID,
		Data:      payload,
		Timestamp: time.Now().UTC(),
	}, nil
}

func isValidType(eventType string) bool {
	for _, t := range Types {
		if t == eventType {
			return true
		}
	}
	return false
}

// Marshal serializes the event for the wire.
func (e *Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalEvent parses a wire payload back into an Event.
func UnmarshalEvent(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	if e.Type == "" || e.UserID == "" {
		return nil, errors.New("event is missing type or user id")
	}
	return &e, nil
}
