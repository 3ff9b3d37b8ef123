// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package mlclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/lumiskin/internal/config"
	"github.com/tomtom215/lumiskin/internal/models"
)

const validPrediction = `{
	"results": {
		"acne": {"probability": 0.456, "severity": "severe", "confidence": 0.9},
		"pores": {"probability": 0.2},
		"pigmentation": {"probability": 0.8, "severity": "severe"},
		"skin_tone": {"classification": "olive", "confidence": 0.873}
	}
}`

func newTestClient(t *testing.T, srv *httptest.Server, mutate func(*Config)) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.RecommendationsURL = srv.URL
	cfg.RetryDelay = time.Millisecond
	cfg.RequestsPerSecond = 1000
	cfg.Burst = 1000
	if mutate != nil {
		mutate(&cfg)
	}
	c := New(cfg)
	c.sleep = func(context.Context, time.Duration) error { return nil }
	return c
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		check   func(t *testing.T, res *models.SkinAnalysisResult)
	}{
		{
			name: "results wrapper with defaults",
			body: validPrediction,
			check: func(t *testing.T, res *models.SkinAnalysisResult) {
				if res.Acne.Probability != 0.46 {
					t.Errorf("acne probability = %v, want 0.46", res.Acne.Probability)
				}
				if res.Pores.Severity != "mild" || res.Pores.Confidence != 0.8 {
					t.Errorf("pores defaults = %+v", res.Pores)
				}
				if res.SkinTone.Confidence != 0.87 {
					t.Errorf("skin tone confidence = %v, want 0.87", res.SkinTone.Confidence)
				}
				// .35*.2 + .25*.8 + .30*.2 + .10*.5 = .38
				if res.OverallScore != 38 {
					t.Errorf("overall = %v, want 38", res.OverallScore)
				}
			},
		},
		{
			name: "root payload with explicit overall clamped",
			body: `{"acne":{"probability":0.1},"pores":{"probability":0.1},"pigmentation":{"probability":0.1},
				"skin_tone":{"classification":"fair","confidence":0.5},"overall_score":150}`,
			check: func(t *testing.T, res *models.SkinAnalysisResult) {
				if res.OverallScore != 100 {
					t.Errorf("overall = %v, want 100", res.OverallScore)
				}
			},
		},
		{
			name: "all mild computed",
			body: `{"acne":{"probability":0.1},"pores":{"probability":0.1},"pigmentation":{"probability":0.1},
				"skin_tone":{"classification":"dark","confidence":0.5},"overall_score":0}`,
			check: func(t *testing.T, res *models.SkinAnalysisResult) {
				if res.OverallScore != 77 {
					t.Errorf("overall = %v, want 77", res.OverallScore)
				}
			},
		},
		{
			name: "numeric string overall",
			body: `{"acne":{"probability":0.1},"pores":{"probability":0.1},"pigmentation":{"probability":0.1},
				"skin_tone":{"classification":"dark","confidence":0.5},"overall_score":" 75 "}`,
			check: func(t *testing.T, res *models.SkinAnalysisResult) {
				if res.OverallScore != 75 {
					t.Errorf("overall = %v, want 75", res.OverallScore)
				}
			},
		},
		{
			name: "unusable overall falls back to computed",
			body: `{"acne":{"probability":0.1},"pores":{"probability":0.1},"pigmentation":{"probability":0.1},
				"skin_tone":{"classification":"dark","confidence":0.5},"overall_score":"high"}`,
			check: func(t *testing.T, res *models.SkinAnalysisResult) {
				if res.OverallScore != 77 {
					t.Errorf("overall = %v, want 77", res.OverallScore)
				}
			},
		},
		{name: "not an object", body: `[1,2]`, wantErr: true},
		{name: "missing skin tone", body: `{"acne":{"probability":0.1},"pores":{"probability":0.1},"pigmentation":{"probability":0.1}}`, wantErr: true},
		{
			name:    "probability out of range",
			body:    `{"acne":{"probability":1.5},"pores":{"probability":0.1},"pigmentation":{"probability":0.1},"skin_tone":{"classification":"fair","confidence":0.5}}`,
			wantErr: true,
		},
		{
			name:    "missing probability",
			body:    `{"acne":{},"pores":{"probability":0.1},"pigmentation":{"probability":0.1},"skin_tone":{"classification":"fair","confidence":0.5}}`,
			wantErr: true,
		},
		{
			name:    "unknown severity",
			body:    `{"acne":{"probability":0.1,"severity":"extreme"},"pores":{"probability":0.1},"pigmentation":{"probability":0.1},"skin_tone":{"classification":"fair","confidence":0.5}}`,
			wantErr: true,
		},
		{
			name:    "unknown skin tone",
			body:    `{"acne":{"probability":0.1},"pores":{"probability":0.1},"pigmentation":{"probability":0.1},"skin_tone":{"classification":"blue","confidence":0.5}}`,
			wantErr: true,
		},
		{
			name:    "skin tone confidence missing",
			body:    `{"acne":{"probability":0.1},"pores":{"probability":0.1},"pigmentation":{"probability":0.1},"skin_tone":{"classification":"fair"}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ValidateResponse([]byte(tt.body))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidResponse) {
					t.Fatalf("err = %v, want ErrInvalidResponse", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateResponse: %v", err)
			}
			tt.check(t, res)
		})
	}
}

func TestParseOverallScore(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{`82.5`, 82.5, false},
		{`"64"`, 64, false},
		{`null`, 0, false},
		{`"n/a"`, 0, true},
		{`true`, 0, true},
		{`{"v":1}`, 0, true},
	}
	for _, tt := range tests {
		got, err := parseOverallScore([]byte(tt.raw))
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseOverallScore(%s) = %v, %v; want %v, err %v", tt.raw, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestAnalyze_SendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		file, hdr, err := r.FormFile("image")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			http.Error(w, "bad", http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if string(data) != "pixels" || hdr.Filename != "face.jpg" {
			t.Errorf("image part = %q %q", hdr.Filename, data)
		}
		if got := r.FormValue("analysis_type"); got != "full" {
			t.Errorf("analysis_type = %q", got)
		}
		if got := r.FormValue("confidence_threshold"); got != "0.7" {
			t.Errorf("confidence_threshold = %q", got)
		}
		_, _ = w.Write([]byte(validPrediction))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, nil)
	res, err := c.Analyze(context.Background(),
		Image{Filename: "face.jpg", ContentType: "image/jpeg", Data: []byte("pixels")},
		Options{AnalysisType: "full", ConfidenceThreshold: 0.7})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.SkinTone.Classification != "olive" {
		t.Errorf("skin tone = %q", res.SkinTone.Classification)
	}
}

func TestAnalyze_Retries(t *testing.T) {
	tests := []struct {
		name      string
		statuses  []int
		wantCalls int32
		wantErr   bool
		clientErr bool
	}{
		{"recovers after server errors", []int{500, 502, 200}, 3, false, false},
		{"gives up after retries", []int{500, 500, 500, 500}, 3, true, false},
		{"client error not retried", []int{422, 200}, 1, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&calls, 1)
				status := tt.statuses[n-1]
				if status != http.StatusOK {
					w.WriteHeader(status)
					return
				}
				_, _ = w.Write([]byte(validPrediction))
			}))
			defer srv.Close()

			c := newTestClient(t, srv, nil)
			_, err := c.Analyze(context.Background(), Image{Filename: "a.jpg", Data: []byte("x")}, Options{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got := atomic.LoadInt32(&calls); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
			var se *StatusError
			if tt.clientErr && (!errors.As(err, &se) || se.Code != 422) {
				t.Errorf("err = %v, want 422 StatusError", err)
			}
		})
	}
}

func TestAnalyze_CircuitOpens(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, func(cfg *Config) {
		cfg.Retries = 1
		cfg.BreakerMinRequests = 2
		cfg.BreakerFailureRatio = 0.5
	})

	for i := 0; i < 2; i++ {
		if _, err := c.Analyze(context.Background(), Image{Data: []byte("x")}, Options{}); err == nil {
			t.Fatal("expected failure")
		}
	}
	if c.BreakerState() != "open" {
		t.Fatalf("breaker state = %s, want open", c.BreakerState())
	}

	_, err := c.Analyze(context.Background(), Image{Data: []byte("x")}, Options{})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("server calls = %d, want 2", got)
	}
}

func TestBatchAnalyze_KeepsOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hdr, err := r.FormFile("image")
		if err != nil || strings.HasPrefix(hdr.Filename, "bad") {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(validPrediction))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, func(cfg *Config) { cfg.BatchSize = 2 })

	names := []string{"a.jpg", "bad1.jpg", "c.jpg", "d.jpg", "bad2.jpg"}
	images := make([]Image, len(names))
	for i, n := range names {
		images[i] = Image{Filename: n, Data: []byte("x")}
	}

	results := c.BatchAnalyze(context.Background(), images, Options{})
	if len(results) != len(names) {
		t.Fatalf("len = %d", len(results))
	}
	for i, r := range results {
		if r.Filename != names[i] {
			t.Errorf("results[%d].Filename = %q, want %q", i, r.Filename, names[i])
		}
		wantOK := !strings.HasPrefix(names[i], "bad")
		if r.Success != wantOK {
			t.Errorf("results[%d].Success = %v, want %v (%s)", i, r.Success, wantOK, r.Error)
		}
		if !wantOK && r.Error == "" {
			t.Errorf("results[%d] has no error text", i)
		}
	}
}

func TestHealth(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer healthy.Close()

	h := newTestClient(t, healthy, nil).Health(context.Background())
	if h.Status != StatusHealthy || string(h.Response) != `{"status":"ok"}` {
		t.Errorf("Health = %+v", h)
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	h = newTestClient(t, down, nil).Health(context.Background())
	if h.Status != StatusUnhealthy || h.Error == "" {
		t.Errorf("Health = %+v", h)
	}
}

func TestRecommendations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/recommendations":
			var req RecommendationRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode: %v", err)
			}
			if req.MaxProducts != DefaultMaxProducts {
				t.Errorf("max_products = %d", req.MaxProducts)
			}
			_, _ = w.Write([]byte(`{"profile_id":"p1","products":[]}`))
		case r.Method == http.MethodGet && r.URL.Path == "/recommendations/p1":
			if got := r.URL.Query().Get("max_products"); got != "3" {
				t.Errorf("max_products = %q", got)
			}
			_, _ = w.Write([]byte(`{"products":[1,2,3]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv, nil)

	out, err := c.Recommendations(context.Background(), RecommendationRequest{
		SkinAnalysis:    json.RawMessage(`{"acne":0.4}`),
		UserPreferences: json.RawMessage(`{"skin_type":"oily"}`),
	})
	if err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	if !strings.Contains(string(out), `"p1"`) {
		t.Errorf("Recommendations = %s", out)
	}

	out, err = c.ProfileRecommendations(context.Background(), "p1", 3)
	if err != nil {
		t.Fatalf("ProfileRecommendations: %v", err)
	}
	if string(out) != `{"products":[1,2,3]}` {
		t.Errorf("ProfileRecommendations = %s", out)
	}
}

func TestFromConfig_Defaults(t *testing.T) {
	cfg := FromConfig(&config.MLConfig{BaseURL: "http://ml:9000"})
	if cfg.BaseURL != "http://ml:9000" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	d := DefaultConfig()
	if cfg.Retries != d.Retries || cfg.BatchSize != d.BatchSize || cfg.Timeout != d.Timeout {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.BreakerFailureRatio != 0.6 || cfg.BreakerMinRequests != 10 {
		t.Errorf("breaker defaults = %v/%d", cfg.BreakerFailureRatio, cfg.BreakerMinRequests)
	}
}
