// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package mlclient

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/lumiskin/internal/logging"
	"github.com/tomtom215/lumiskin/internal/models"
	"github.com/tomtom215/lumiskin/internal/severity"
)

// Options are the optional form fields sent with an image.
type Options struct {
	AnalysisType        string
	ConfidenceThreshold float64
}

// Image is one uploaded file.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Analyze sends one image to /predict and returns the validated result.
func (c *Client) Analyze(ctx context.Context, img Image, opts Options) (*models.SkinAnalysisResult, error) {
	body, err := c.call(ctx, "predict", func(ctx context.Context) (*http.Request, error) {
		payload, contentType, err := multipartBody(img, opts)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/predict", payload)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	return ValidateResponse(body)
}

func multipartBody(img Image, opts Options) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, img.Filename))
	ct := img.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create image part: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, "", fmt.Errorf("write image part: %w", err)
	}
	if opts.AnalysisType != "" {
		if err := w.WriteField("analysis_type", opts.AnalysisType); err != nil {
			return nil, "", err
		}
	}
	if opts.ConfidenceThreshold != 0 {
		if err := w.WriteField("confidence_threshold", strconv.FormatFloat(opts.ConfidenceThreshold, 'f', -1, 64)); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// defaultConcernConfidence applies to concern results that omit confidence.
const defaultConcernConfidence = 0.8

var overallWeights = []struct {
	concern string
	weight  float64
}{
	{models.ConcernAcne, 0.35},
	{models.ConcernPores, 0.25},
	{models.ConcernPigmentation, 0.30},
	{"skinTone", 0.10},
}

var severityHealth = map[string]float64{
	severity.Mild:     0.8,
	severity.Moderate: 0.5,
	severity.Severe:   0.2,
}

// ValidateResponse parses and normalises a /predict payload. The payload is
// the "results" object when present, otherwise the root object.
func ValidateResponse(body []byte) (*models.SkinAnalysisResult, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(body, &root); err != nil || root == nil {
		return nil, fmt.Errorf("%w: invalid response format", ErrInvalidResponse)
	}

	payload := root
	if raw, ok := root["results"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(raw, &inner); err == nil && inner != nil {
			payload = inner
		}
	}

	var missing []string
	for _, f := range []string{"acne", "pores", "pigmentation", "skin_tone"} {
		if !isObject(payload[f]) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required fields in ML response: %v", ErrInvalidResponse, missing)
	}

	var (
		res models.SkinAnalysisResult
		err error
	)
	if res.Acne, err = validateConcern(payload["acne"], "acne"); err != nil {
		return nil, err
	}
	if res.Pores, err = validateConcern(payload["pores"], "pores"); err != nil {
		return nil, err
	}
	if res.Pigmentation, err = validateConcern(payload["pigmentation"], "pigmentation"); err != nil {
		return nil, err
	}
	if res.SkinTone, err = validateSkinTone(payload["skin_tone"]); err != nil {
		return nil, err
	}

	var overall float64
	if raw, ok := payload["overall_score"]; ok {
		v, err := parseOverallScore(raw)
		if err != nil {
			logging.Warn().Err(err).Str("overall_score", string(raw)).Msg("Ignoring ML overall score, computing it instead")
		}
		overall = v
	}
	if overall != 0 && !math.IsNaN(overall) {
		res.OverallScore = math.Max(0, math.Min(100, overall))
	} else {
		res.OverallScore = OverallScore(&res)
	}
	return &res, nil
}

// parseOverallScore accepts a JSON number or a numeric string. null yields 0.
func parseOverallScore(raw json.RawMessage) (float64, error) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return t, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("overall_score %q is not numeric", t)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("overall_score has unsupported type %T", v)
	}
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func validateConcern(raw json.RawMessage, concern string) (models.ConcernResult, error) {
	var in struct {
		Probability *float64 `json:"probability"`
		Severity    string   `json:"severity"`
		Confidence  float64  `json:"confidence"`
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return models.ConcernResult{}, fmt.Errorf("%w: invalid %s result format", ErrInvalidResponse, concern)
	}
	if in.Probability == nil || *in.Probability < 0 || *in.Probability > 1 {
		return models.ConcernResult{}, fmt.Errorf("%w: invalid %s probability value", ErrInvalidResponse, concern)
	}
	if in.Severity != "" && !severity.IsValidLevel(in.Severity) {
		return models.ConcernResult{}, fmt.Errorf("%w: invalid %s severity value", ErrInvalidResponse, concern)
	}

	out := models.ConcernResult{
		Probability: severity.Round2(*in.Probability),
		Severity:    in.Severity,
		Confidence:  in.Confidence,
	}
	if out.Severity == "" {
		out.Severity = severity.Mild
	}
	if out.Confidence == 0 {
		out.Confidence = defaultConcernConfidence
	}
	return out, nil
}

func validateSkinTone(raw json.RawMessage) (models.SkinToneResult, error) {
	var in struct {
		Classification string   `json:"classification"`
		Confidence     *float64 `json:"confidence"`
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return models.SkinToneResult{}, fmt.Errorf("%w: invalid skin tone result format", ErrInvalidResponse)
	}
	if !models.IsValidSkinTone(in.Classification) {
		return models.SkinToneResult{}, fmt.Errorf("%w: invalid skin tone classification", ErrInvalidResponse)
	}
	if in.Confidence == nil || *in.Confidence < 0 || *in.Confidence > 1 {
		return models.SkinToneResult{}, fmt.Errorf("%w: invalid skin tone confidence value", ErrInvalidResponse)
	}
	return models.SkinToneResult{
		Classification: in.Classification,
		Confidence:     severity.Round2(*in.Confidence),
	}, nil
}

// OverallScore is the weighted skin health score (0-100) derived from the
// concern severities. Skin tone carries no severity and scores 0.5.
func OverallScore(r *models.SkinAnalysisResult) float64 {
	levels := map[string]string{
		models.ConcernAcne:         r.Acne.Severity,
		models.ConcernPores:        r.Pores.Severity,
		models.ConcernPigmentation: r.Pigmentation.Severity,
	}

	var total, weights float64
	for _, w := range overallWeights {
		score, ok := severityHealth[levels[w.concern]]
		if !ok {
			score = 0.5
		}
		total += score * w.weight
		weights += w.weight
	}
	if weights == 0 {
		return 50
	}
	return severity.RoundHalfUp(total / weights * 100)
}

// BatchResult is the outcome for one image of a batch.
type BatchResult struct {
	Filename  string                     `json:"filename"`
	Success   bool                       `json:"success"`
	Results   *models.SkinAnalysisResult `json:"results,omitempty"`
	Error     string                     `json:"error,omitempty"`
	Timestamp time.Time                  `json:"timestamp"`
}
