// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package api

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/lumiskin/internal/authz"
	"github.com/tomtom215/lumiskin/internal/models"
)

// CreateProgressRequest is the body of POST /api/tracking. Photo is base64
// encoded, optionally as a data URL.
type CreateProgressRequest struct {
	RoutineID   string                 `json:"routineId" validate:"required,max=64"`
	Photo       string                 `json:"photo"`
	ContentType string                 `json:"contentType" validate:"omitempty,max=100"`
	Analysis    map[string]interface{} `json:"analysis"`
}

// decodePhoto decodes a base64 photo, accepting "data:<type>;base64,<data>".
// The returned content type is the one from the data URL, if any.
func decodePhoto(raw string) ([]byte, string, error) {
	contentType := ""
	if rest, ok := strings.CutPrefix(raw, "data:"); ok {
		meta, data, found := strings.Cut(rest, ",")
		if found {
			contentType, _, _ = strings.Cut(meta, ";")
			raw = data
		}
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	return data, contentType, err
}

// CreateProgress records a progress entry for one of the caller's routines.
//
// @Summary Record progress
// @Tags tracking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateProgressRequest true "Progress entry"
// @Success 201 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /tracking [post]
func (h *Handler) CreateProgress(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req CreateProgressRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rt, ok := h.loadRoutine(w, r, req.RoutineID, authz.ActionWrite)
	if !ok {
		return
	}

	entry := &models.Progress{
		UserID:    rt.UserID,
		RoutineID: rt.ID,
		Analysis:  req.Analysis,
	}

	if req.Photo != "" {
		data, urlType, err := decodePhoto(req.Photo)
		if err != nil {
			respondError(w, http.StatusBadRequest, codeValidation, "photo must be base64 encoded", nil)
			return
		}
		contentType := firstNonEmpty(req.ContentType, urlType, http.DetectContentType(data))
		if !strings.HasPrefix(contentType, "image/") {
			respondError(w, http.StatusBadRequest, codeValidation, "Only image files are allowed!", nil)
			return
		}
		if int64(len(data)) > h.config.Server.MaxUploadBytes {
			respondError(w, http.StatusBadRequest, codeValidation, "File size too large. Maximum 5MB allowed.", nil)
			return
		}
		entry.Photo = &models.Photo{Data: data, ContentType: contentType}
	}

	if err := h.store.CreateProgress(entry); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to save progress", err)
		return
	}

	respondSuccess(w, http.StatusCreated, entry, start)
}

// ListProgress returns a routine's progress entries, oldest first.
//
// @Summary List progress of a routine
// @Tags tracking
// @Produce json
// @Security BearerAuth
// @Param routineId path string true "Routine ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /tracking/{routineId} [get]
func (h *Handler) ListProgress(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	rt, ok := h.loadRoutine(w, r, chi.URLParam(r, "routineId"), authz.ActionRead)
	if !ok {
		return
	}

	entries, err := h.store.ListProgressByRoutine(rt.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to list progress", err)
		return
	}
	if entries == nil {
		entries = []models.Progress{}
	}

	respondSuccess(w, http.StatusOK, entries, start)
}
