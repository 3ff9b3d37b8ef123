// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/lumiskin/internal/authz"
	"github.com/tomtom215/lumiskin/internal/events"
	"github.com/tomtom215/lumiskin/internal/models"
	"github.com/tomtom215/lumiskin/internal/routine"
	"github.com/tomtom215/lumiskin/internal/store"
)

// CreateRoutineRequest is the body of POST /api/routines.
type CreateRoutineRequest struct {
	UserID string               `json:"userId" validate:"omitempty,max=64"`
	Name   string               `json:"name" validate:"required,max=100"`
	Steps  []models.RoutineStep `json:"steps" validate:"max=50,dive"`
}

// PatchRoutineRequest is the body of PATCH /api/routines/{routineId}. Step
// appends one product; otherwise Steps replaces the whole list.
type PatchRoutineRequest struct {
	Step  string               `json:"step" validate:"omitempty,max=200"`
	Steps []models.RoutineStep `json:"steps" validate:"omitempty,max=50,dive"`
}

// RenameRoutineRequest is the body of PUT /api/routines/{routineId}.
type RenameRoutineRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// normalizeSteps fills in the defaults of client-supplied steps: morning
// time and 1-based order by position.
func normalizeSteps(steps []models.RoutineStep) []models.RoutineStep {
	out := make([]models.RoutineStep, len(steps))
	for i, s := range steps {
		if s.Time == "" {
			s.Time = models.RoutineMorning
		}
		if s.Order == 0 {
			s.Order = i + 1
		}
		out[i] = s
	}
	return out
}

// canActFor reports whether the caller may act on resources of userID.
func (h *Handler) canActFor(r *http.Request, userID, action string) bool {
	user := currentUser(r)
	return user.ID == userID || h.authz.Can(user, authz.ObjectAnyRoutine, action)
}

// loadRoutine returns routine id for action. Missing routines and routines
// the caller may not touch both answer 404.
func (h *Handler) loadRoutine(w http.ResponseWriter, r *http.Request, id, action string) (*models.Routine, bool) {
	rt, err := h.store.GetRoutine(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "Routine not found", nil)
			return nil, false
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to load routine", err)
		return nil, false
	}
	if !h.canActFor(r, rt.UserID, action) {
		respondError(w, http.StatusNotFound, codeNotFound, "Routine not found", nil)
		return nil, false
	}
	return rt, true
}

// CreateRoutine stores a routine. userId defaults to the caller.
//
// @Summary Create a routine
// @Tags routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateRoutineRequest true "Routine"
// @Success 201 {object} models.APIResponse
// @Router /routines [post]
func (h *Handler) CreateRoutine(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req CreateRoutineRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userID := firstNonEmpty(req.UserID, currentUser(r).ID)
	if !h.canActFor(r, userID, authz.ActionWrite) {
		respondError(w, http.StatusForbidden, codeAuthorization, "Cannot create routines for another user", nil)
		return
	}

	rt := &models.Routine{
		UserID: userID,
		Name:   strings.TrimSpace(req.Name),
		Steps:  normalizeSteps(req.Steps),
	}
	if err := h.store.CreateRoutine(rt); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to create routine", err)
		return
	}

	respondSuccess(w, http.StatusCreated, rt, start)
}

// ListRoutines returns the routines of a user.
//
// @Summary List routines of a user
// @Tags routines
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Router /routines/{userId} [get]
func (h *Handler) ListRoutines(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID := chi.URLParam(r, "userId")
	if !h.canActFor(r, userID, authz.ActionRead) {
		respondError(w, http.StatusForbidden, codeAuthorization, "Cannot view routines of another user", nil)
		return
	}

	routines, err := h.store.ListRoutinesByUser(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to list routines", err)
		return
	}
	if routines == nil {
		routines = []models.Routine{}
	}

	respondSuccess(w, http.StatusOK, routines, start)
}

// GenerateRoutine builds a routine from the user's latest analysis.
//
// @Summary Generate a routine from the latest analysis
// @Tags routines
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 201 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /routines/generate/{userId} [post]
func (h *Handler) GenerateRoutine(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID := chi.URLParam(r, "userId")
	if !h.canActFor(r, userID, authz.ActionWrite) {
		respondError(w, http.StatusForbidden, codeAuthorization, "Cannot create routines for another user", nil)
		return
	}

	analysis, err := h.store.LatestAnalysis(userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "No analysis found for this user", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to load analysis", err)
		return
	}

	rt := routine.Generate(userID, analysis.SkinProfile)
	if err := h.store.CreateRoutine(rt); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to create routine", err)
		return
	}

	h.publishEvent(r.Context(), events.TypeRoutineGenerated, userID, map[string]interface{}{
		"routineId":  rt.ID,
		"analysisId": analysis.ID,
		"steps":      len(rt.Steps),
	})

	respondSuccess(w, http.StatusCreated, rt, start)
}

// PatchRoutine appends a step or replaces the steps.
//
// @Summary Add a step or replace the steps
// @Tags routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param routineId path string true "Routine ID"
// @Param body body PatchRoutineRequest true "Step or steps"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /routines/{routineId} [patch]
func (h *Handler) PatchRoutine(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req PatchRoutineRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rt, ok := h.loadRoutine(w, r, chi.URLParam(r, "routineId"), authz.ActionWrite)
	if !ok {
		return
	}

	switch {
	case strings.TrimSpace(req.Step) != "":
		rt.AddStep(strings.TrimSpace(req.Step), models.RoutineMorning)
	case req.Steps != nil:
		rt.Steps = normalizeSteps(req.Steps)
	}

	if err := h.store.UpdateRoutine(rt); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to update routine", err)
		return
	}

	respondSuccess(w, http.StatusOK, rt, start)
}

// RenameRoutine changes the routine name.
//
// @Summary Rename a routine
// @Tags routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param routineId path string true "Routine ID"
// @Param body body RenameRoutineRequest true "New name"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /routines/{routineId} [put]
func (h *Handler) RenameRoutine(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RenameRoutineRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rt, ok := h.loadRoutine(w, r, chi.URLParam(r, "routineId"), authz.ActionWrite)
	if !ok {
		return
	}

	rt.Name = strings.TrimSpace(req.Name)
	if err := h.store.UpdateRoutine(rt); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to update routine", err)
		return
	}

	respondSuccess(w, http.StatusOK, rt, start)
}

// DeleteRoutine removes a routine and returns it.
//
// @Summary Delete a routine
// @Tags routines
// @Produce json
// @Security BearerAuth
// @Param routineId path string true "Routine ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /routines/{routineId} [delete]
func (h *Handler) DeleteRoutine(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	rt, ok := h.loadRoutine(w, r, chi.URLParam(r, "routineId"), authz.ActionDelete)
	if !ok {
		return
	}

	if err := h.store.DeleteRoutine(rt.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "Routine not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to delete routine", err)
		return
	}

	respondSuccess(w, http.StatusOK, rt, start)
}
