// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/lumiskin/internal/events"
	"github.com/tomtom215/lumiskin/internal/logging"
	"github.com/tomtom215/lumiskin/internal/metrics"
	"github.com/tomtom215/lumiskin/internal/mlclient"
	"github.com/tomtom215/lumiskin/internal/models"
	"github.com/tomtom215/lumiskin/internal/severity"
	"github.com/tomtom215/lumiskin/internal/store"
)

// hyperpigmentationThreshold is the pigmentation probability above which
// the skin profile flags hyperpigmentation.
const hyperpigmentationThreshold = 0.3

// multipartOverhead is the allowance for form fields and boundaries on top
// of the file bytes of an upload request.
const multipartOverhead = 1 << 20

var allowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp"}

// uploadError is a client mistake in an upload; its message is returned as is.
type uploadError struct{ message string }

func (e *uploadError) Error() string { return e.message }

// parseUpload parses a multipart request allowing up to files images.
func (h *Handler) parseUpload(w http.ResponseWriter, r *http.Request, files int) error {
	limit := h.config.Server.MaxUploadBytes*int64(files) + multipartOverhead
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(h.config.Server.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return &uploadError{fmt.Sprintf("File size too large. Maximum %s allowed.", h.maxUploadLabel())}
		}
		return &uploadError{"Invalid multipart form data"}
	}
	return nil
}

func (h *Handler) maxUploadLabel() string {
	return strconv.FormatInt(h.config.Server.MaxUploadBytes>>20, 10) + "MB"
}

// readImage validates and reads one uploaded file.
func (h *Handler) readImage(fh *multipart.FileHeader) (mlclient.Image, error) {
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return mlclient.Image{}, &uploadError{"Only image files are allowed!"}
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	allowed := false
	for _, a := range allowedImageExtensions {
		if ext == a {
			allowed = true
			break
		}
	}
	if !allowed {
		return mlclient.Image{}, &uploadError{"Invalid file extension. Allowed: " + strings.Join(allowedImageExtensions, ", ")}
	}

	if fh.Size > h.config.Server.MaxUploadBytes {
		return mlclient.Image{}, &uploadError{fmt.Sprintf("File size too large. Maximum %s allowed.", h.maxUploadLabel())}
	}

	f, err := fh.Open()
	if err != nil {
		return mlclient.Image{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.config.Server.MaxUploadBytes+1))
	if err != nil {
		return mlclient.Image{}, err
	}
	return mlclient.Image{
		Filename:    filepath.Base(fh.Filename),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func respondUploadError(w http.ResponseWriter, err error) {
	var ue *uploadError
	if errors.As(err, &ue) {
		respondError(w, http.StatusBadRequest, codeValidation, ue.message, nil)
		return
	}
	respondError(w, http.StatusInternalServerError, codeInternal, "Failed to read upload", err)
}

// analysisOptions reads the optional analysis form fields.
func analysisOptions(r *http.Request) (mlclient.Options, error) {
	opts := mlclient.Options{AnalysisType: strings.TrimSpace(r.FormValue("analysis_type"))}
	if raw := r.FormValue("confidence_threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			return opts, &uploadError{"confidence_threshold must be a number between 0 and 1"}
		}
		opts.ConfidenceThreshold = v
	}
	return opts, nil
}

// buildSkinProfile derives the profile used for routine generation.
func buildSkinProfile(user *models.User, res *models.SkinAnalysisResult) models.SkinProfile {
	return models.SkinProfile{
		SkinType:          firstNonEmpty(user.SkinType, models.SkinTypeNormal),
		Acne:              res.Acne.Severity,
		Hyperpigmentation: res.Pigmentation.Probability > hyperpigmentationThreshold,
		Wrinkles:          user.HasConcern(models.ConcernAging),
		SkinTone:          res.SkinTone.Classification,
	}
}

// saveAnalysis stores one ML result for user and publishes it.
func (h *Handler) saveAnalysis(ctx context.Context, user *models.User, img mlclient.Image, opts mlclient.Options, res *models.SkinAnalysisResult) (*models.Analysis, error) {
	a := &models.Analysis{
		UserID:          user.ID,
		Filename:        img.Filename,
		ContentType:     img.ContentType,
		Size:            int64(len(img.Data)),
		AnalysisType:    opts.AnalysisType,
		Results:         *res,
		SkinProfile:     buildSkinProfile(user, res),
		OverallSeverity: severity.MapOverall(res.Probabilities()),
	}
	if err := h.store.CreateAnalysis(a); err != nil {
		return nil, err
	}

	metrics.RecordAnalysis(a.OverallSeverity.Severity)
	h.publishEvent(ctx, events.TypeAnalysisCompleted, user.ID, map[string]interface{}{
		"analysisId":      a.ID,
		"overallSeverity": a.OverallSeverity.Severity,
		"overallScore":    a.Results.OverallScore,
	})
	return a, nil
}

// countAnalyses bumps the user's analysis counter by n.
func (h *Handler) countAnalyses(ctx context.Context, user *models.User, n int) {
	if n == 0 {
		return
	}
	now := time.Now().UTC()
	user.AnalysisCount += n
	user.LastAnalysisDate = &now
	if err := h.store.UpdateUser(user); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to update analysis count")
	}
}

// AnalyzeImage sends one image to the ML service and stores the result.
//
// @Summary Analyze a skin image
// @Tags analysis
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Face image (jpg, jpeg, png, gif, bmp, webp; 5MB max)"
// @Param analysis_type formData string false "Analysis type"
// @Param confidence_threshold formData number false "Confidence threshold (0-1)"
// @Success 201 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 502 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Router /analysis [post]
func (h *Handler) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := h.parseUpload(w, r, 1); err != nil {
		respondUploadError(w, err)
		return
	}
	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, codeValidation, "No image file provided", nil)
		return
	}
	if len(files) > 1 {
		respondError(w, http.StatusBadRequest, codeValidation, "Only one file at a time", nil)
		return
	}

	opts, err := analysisOptions(r)
	if err != nil {
		respondUploadError(w, err)
		return
	}
	img, err := h.readImage(files[0])
	if err != nil {
		respondUploadError(w, err)
		return
	}

	res, err := h.ml.Analyze(r.Context(), img, opts)
	if err != nil {
		respondMLError(w, "Failed to analyze image", err)
		return
	}

	user := currentUser(r)
	analysis, err := h.saveAnalysis(r.Context(), user, img, opts, res)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to save analysis", err)
		return
	}
	h.countAnalyses(r.Context(), user, 1)

	respondMessage(w, http.StatusCreated, "Analysis completed successfully", map[string]interface{}{
		"analysis": analysis,
	}, start)
}

// BatchAnalyze analyzes several images; each gets its own result.
//
// @Summary Analyze several skin images
// @Tags analysis
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param images formData file true "Face images (5 max)"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /analysis/batch [post]
func (h *Handler) BatchAnalyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	maxFiles := h.config.Server.MaxUploadFiles

	if err := h.parseUpload(w, r, maxFiles); err != nil {
		respondUploadError(w, err)
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, codeValidation, "No image files provided", nil)
		return
	}
	if len(files) > maxFiles {
		respondError(w, http.StatusBadRequest, codeValidation,
			fmt.Sprintf("Too many files. Maximum %d allowed.", maxFiles), nil)
		return
	}

	opts, err := analysisOptions(r)
	if err != nil {
		respondUploadError(w, err)
		return
	}
	images := make([]mlclient.Image, 0, len(files))
	for _, fh := range files {
		img, err := h.readImage(fh)
		if err != nil {
			respondUploadError(w, err)
			return
		}
		images = append(images, img)
	}

	user := currentUser(r)
	results := h.ml.BatchAnalyze(r.Context(), images, opts)

	type batchItem struct {
		mlclient.BatchResult
		AnalysisID string `json:"analysisId,omitempty"`
	}
	items := make([]batchItem, len(results))
	saved := 0
	for i, res := range results {
		items[i] = batchItem{BatchResult: res}
		if !res.Success {
			continue
		}
		a, err := h.saveAnalysis(r.Context(), user, images[i], opts, res.Results)
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Str("filename", sanitizeLogValue(res.Filename)).Msg("Failed to save batch analysis")
			continue
		}
		items[i].AnalysisID = a.ID
		saved++
	}
	h.countAnalyses(r.Context(), user, saved)

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"results":    items,
		"total":      len(items),
		"successful": saved,
	}, start)
}

// ListAnalyses returns the caller's analyses, newest first.
//
// @Summary List analyses
// @Tags analysis
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse
// @Router /analysis [get]
func (h *Handler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	list, err := h.store.ListAnalysesByUser(currentUser(r).ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to list analyses", err)
		return
	}
	if list == nil {
		list = []models.Analysis{}
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"analyses": list,
		"count":    len(list),
	}, start)
}

// GetAnalysis returns one of the caller's analyses with per-concern advice.
//
// @Summary Get an analysis
// @Tags analysis
// @Produce json
// @Security BearerAuth
// @Param analysisId path string true "Analysis ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /analysis/{analysisId} [get]
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	a, ok := h.loadAnalysis(w, r)
	if !ok {
		return
	}

	info := map[string]severity.Info{
		models.ConcernAcne:         severity.InfoFor(a.Results.Acne.Severity, models.ConcernAcne),
		models.ConcernPores:        severity.InfoFor(a.Results.Pores.Severity, models.ConcernPores),
		models.ConcernPigmentation: severity.InfoFor(a.Results.Pigmentation.Severity, models.ConcernPigmentation),
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"analysis":     a,
		"severityInfo": info,
	}, start)
}

// loadAnalysis returns the caller's analysis named by analysisId.
func (h *Handler) loadAnalysis(w http.ResponseWriter, r *http.Request) (*models.Analysis, bool) {
	a, err := h.store.GetAnalysis(currentUser(r).ID, chi.URLParam(r, "analysisId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "Analysis not found", nil)
			return nil, false
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to load analysis", err)
		return nil, false
	}
	return a, true
}

// AnalysisHealth reports the ML service health and breaker state.
//
// @Summary ML service health
// @Tags analysis
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Router /analysis/health [get]
func (h *Handler) AnalysisHealth(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	status := h.ml.Health(r.Context())
	code := http.StatusOK
	if status.Status != mlclient.StatusHealthy {
		code = http.StatusServiceUnavailable
	}

	respondSuccess(w, code, map[string]interface{}{
		"ml_service":      status,
		"circuit_breaker": h.ml.BreakerState(),
	}, start)
}
