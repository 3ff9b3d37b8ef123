// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package api

import (
	"bytes"
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
	"github.com/rs/zerolog"

	"github.com/tomtom215/lumiskin/internal/auth"
	"github.com/tomtom215/lumiskin/internal/authz"
	"github.com/tomtom215/lumiskin/internal/catalog"
	"github.com/tomtom215/lumiskin/internal/config"
	"github.com/tomtom215/lumiskin/internal/mlclient"
	"github.com/tomtom215/lumiskin/internal/models"
	"github.com/tomtom215/lumiskin/internal/recommend"
	"github.com/tomtom215/lumiskin/internal/store"
	ws "github.com/tomtom215/lumiskin/internal/websocket"
)

const testPassword = "secret123"

// mlPrediction has acne and pigmentation above the recommendation threshold.
const mlPrediction = `{
	"results": {
		"acne": {"probability": 0.72, "severity": "moderate", "confidence": 0.9},
		"pores": {"probability": 0.1},
		"pigmentation": {"probability": 0.45, "severity": "mild"},
		"skin_tone": {"classification": "medium", "confidence": 0.81}
	}
}`

// fakeML stands in for the image analysis and recommendation services.
type fakeML struct {
	srv       *httptest.Server
	failing   atomic.Bool
	predicts  atomic.Int32
	lastRecBy atomic.Value // string body of the last POST /recommendations
}

func newFakeML(t *testing.T) *fakeML {
	t.Helper()
	f := &fakeML{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /predict", func(w http.ResponseWriter, r *http.Request) {
		f.predicts.Add(1)
		if f.failing.Load() {
			http.Error(w, "model crashed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, mlPrediction)
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if f.failing.Load() {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":"ok"}`)
	})
	mux.HandleFunc("POST /recommendations", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.lastRecBy.Store(string(body))
		if f.failing.Load() {
			http.Error(w, "down", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"recommendations":[{"product_id":"p1","score":0.9}]}`)
	})
	mux.HandleFunc("GET /recommendations/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"profile_id":"`+r.PathValue("id")+`","max_products":"`+r.URL.Query().Get("max_products")+`"}`)
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

// testEnv is a fully wired API over an in-memory store and a fake ML service.
type testEnv struct {
	t       *testing.T
	store   *store.Store
	handler *Handler
	roles   *authz.Service
	router  http.Handler
	ml      *fakeML
	hub     *ws.Hub
	config  *config.Config
}

func testConfig(mlURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Environment:    "test",
			MaxUploadBytes: 5 << 20,
			MaxUploadFiles: 5,
		},
		Security: config.SecurityConfig{
			JWTSecret:         "test-secret-that-is-long-enough-for-hs256",
			JWTTTL:            time.Hour,
			BcryptCost:        4,
			CookieName:        "token",
			RateLimitDisabled: true,
			CORSOrigins:       []string{"http://localhost:3000"},
		},
		ML: config.MLConfig{
			BaseURL:            mlURL,
			RecommendationsURL: mlURL,
			Timeout:            5 * time.Second,
			MaxRetries:         1,
			RetryDelay:         time.Millisecond,
			HealthTimeout:      time.Second,
			BatchSize:          5,
			RequestsPerSecond:  1000,
			Burst:              1000,
		},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	products, err := catalog.Embedded()
	if err != nil {
		t.Fatalf("Embedded: %v", err)
	}
	if _, err := catalog.Import(context.Background(), db, products); err != nil {
		t.Fatalf("Import: %v", err)
	}

	ml := newFakeML(t)
	cfg := testConfig(ml.srv.URL)

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	authMW := auth.NewMiddleware(jwtManager, db, db, cfg.Security.CookieName, func(err error) bool {
		return errors.Is(err, store.ErrNotFound)
	})

	enforcer, err := authz.NewEnforcer(&authz.EnforcerConfig{DefaultRole: models.RoleUser})
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	roles, err := authz.NewService(enforcer, db)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	engine, err := recommend.NewEngine(db, recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := ws.NewHub()
	go hub.RunWithContext(ctx)

	h := NewHandler(Dependencies{
		Store:      db,
		Engine:     engine,
		ML:         mlclient.New(mlclient.FromConfig(&cfg.ML)),
		JWTManager: jwtManager,
		Auth:       authMW,
		Lockout:    auth.NewLockoutManager(db, auth.LockoutConfig{MaxAttempts: 3, Duration: time.Minute}),
		Roles:      roles,
		Hub:        hub,
		Config:     cfg,
	})

	return &testEnv{
		t:       t,
		store:   db,
		handler: h,
		roles:   roles,
		router:  NewRouter(h).SetupChi(),
		ml:      ml,
		hub:     hub,
		config:  cfg,
	}
}

// envelope mirrors models.APIResponse with undecoded data.
type envelope struct {
	Status string           `json:"status"`
	Data   json.RawMessage  `json:"data"`
	Error  *models.APIError `json:"error"`
}

// do sends a request through the router. body may be nil, a string, or a
// value that is JSON encoded.
func (e *testEnv) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			e.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decode parses the envelope and, when out is non-nil, its data.
func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("decode data: %v (data %s)", err, env.Data)
		}
	}
	return env
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	expectStatus(t, rec, status)
	env := decode(t, rec, nil)
	if env.Status != "error" || env.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if message != "" && env.Error.Message != message {
		t.Errorf("error message = %q, want %q", env.Error.Message, message)
	}
}

type authResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// register creates an account and returns its token and user.
func (e *testEnv) register(email string) (string, models.User) {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/auth/register", RegisterRequest{
		Email:     email,
		Password:  testPassword,
		FirstName: "Test",
		LastName:  "User",
	}, "")
	expectStatus(e.t, rec, http.StatusCreated)
	var res authResult
	decode(e.t, rec, &res)
	if res.Token == "" {
		e.t.Fatal("register returned no token")
	}
	return res.Token, res.User
}

// completeProfile fills in the skin profile of the token's user.
func (e *testEnv) completeProfile(token string, req CompleteProfileRequest) {
	e.t.Helper()
	rec := e.do(http.MethodPut, "/api/auth/complete-profile", req, token)
	expectStatus(e.t, rec, http.StatusOK)
}

func (e *testEnv) makeAdmin(userID string) {
	e.t.Helper()
	if err := e.roles.Grant(userID, models.RoleAdmin, "test"); err != nil {
		e.t.Fatalf("Grant: %v", err)
	}
}
