// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package api

import (
	"net/http"
	"testing"

	"github.com/tomtom215/lumiskin/internal/catalog"
	"github.com/tomtom215/lumiskin/internal/ingredients"
	"github.com/tomtom215/lumiskin/internal/models"
)

func TestCheckIngredients(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("check@example.com")

	for _, body := range []string{`{}`, `{"ingredients":[]}`, `{"ingredients":"retinol"}`} {
		rec := env.do(http.MethodPost, "/api/ingredients/check", body, token)
		expectError(t, rec, http.StatusBadRequest, "ingredients must be a non-empty array")
	}

	rec := env.do(http.MethodPost, "/api/ingredients/check", `{"ingredients":["Retinol","Fragrance","Unobtainium"]}`, token)
	expectStatus(t, rec, http.StatusOK)

	var res struct {
		Message  string                    `json:"message"`
		Analysis []ingredients.CheckResult `json:"analysis"`
	}
	decode(t, rec, &res)
	if res.Message != "Ingredient check result" || len(res.Analysis) != 3 {
		t.Fatalf("unexpected response %+v", res)
	}

	tests := []struct {
		idx     int
		found   bool
		harmful bool
	}{
		{0, true, false},
		{1, true, true},
		{2, false, false},
	}
	for _, tt := range tests {
		got := res.Analysis[tt.idx]
		if got.Found != tt.found {
			t.Errorf("%s found = %v, want %v", got.Ingredient, got.Found, tt.found)
		}
		if tt.found && (got.Harmful == nil || *got.Harmful != tt.harmful) {
			t.Errorf("%s harmful = %v, want %v", got.Ingredient, got.Harmful, tt.harmful)
		}
		if !tt.found && (got.Harmful != nil || got.Category != "Unknown") {
			t.Errorf("%s should be unknown, got %+v", got.Ingredient, got)
		}
	}
}

func TestIngredientInfoAndSearch(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("info@example.com")

	rec := env.do(http.MethodGet, "/api/ingredients/info/Niacinamide", nil, token)
	expectStatus(t, rec, http.StatusOK)
	var entry ingredients.Entry
	decode(t, rec, &entry)
	if entry.Ingredient != "niacinamide" || entry.Harmful {
		t.Errorf("unexpected entry %+v", entry)
	}

	rec = env.do(http.MethodGet, "/api/ingredients/info/unobtainium", nil, token)
	expectError(t, rec, http.StatusNotFound, "Ingredient not found")

	rec = env.do(http.MethodGet, "/api/ingredients/search?q=ACID", nil, token)
	expectStatus(t, rec, http.StatusOK)
	var res struct {
		Message string              `json:"message"`
		Results []ingredients.Entry `json:"results"`
	}
	decode(t, rec, &res)
	if res.Message != "Search results" || len(res.Results) == 0 {
		t.Fatalf("unexpected search response %+v", res)
	}
	for i := 1; i < len(res.Results); i++ {
		if res.Results[i].Ingredient < res.Results[i-1].Ingredient {
			t.Errorf("results not sorted at %d", i)
		}
	}

	rec = env.do(http.MethodGet, "/api/ingredients/search", nil, token)
	expectError(t, rec, http.StatusBadRequest, "")
}

func newProductInput(id string) catalog.ProductInput {
	return catalog.ProductInput{
		ID:                    id,
		Name:                  "Test Serum",
		Brand:                 "Lab",
		Category:              "serum",
		SkinTypeCompatibility: []string{"oily"},
		SkinConcernTargets:    []string{"acne"},
		Price:                 catalog.PriceInput{Amount: 20, Currency: "USD", Size: "30ml"},
		Budget:                "medium",
		Rating:                catalog.RatingInput{Average: 4.9, Count: 10},
	}
}

func TestProductAdministration(t *testing.T) {
	env := newTestEnv(t)
	userToken, _ := env.register("shopper@example.com")
	adminToken, admin := env.register("catalog-admin@example.com")
	env.makeAdmin(admin.ID)

	t.Run("users can list", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/products", nil, userToken)
		expectStatus(t, rec, http.StatusOK)
		var res struct {
			Count int `json:"count"`
		}
		decode(t, rec, &res)
		if res.Count == 0 {
			t.Error("expected seeded products")
		}
	})

	t.Run("users cannot write", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/products", newProductInput("user-made"), userToken)
		expectStatus(t, rec, http.StatusForbidden)

		rec = env.do(http.MethodDelete, "/api/products/seed-foaming-gel-cleanser", nil, userToken)
		expectStatus(t, rec, http.StatusForbidden)
	})

	t.Run("admin create", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/products", newProductInput("test-serum"), adminToken)
		expectStatus(t, rec, http.StatusCreated)
		var p models.Product
		decode(t, rec, &p)
		if p.ID != "test-serum" || !p.IsActive {
			t.Errorf("unexpected product %+v", p)
		}

		rec = env.do(http.MethodPost, "/api/products", newProductInput("test-serum"), adminToken)
		expectStatus(t, rec, http.StatusConflict)

		bad := newProductInput("bad")
		bad.Category = "potion"
		rec = env.do(http.MethodPost, "/api/products", bad, adminToken)
		expectError(t, rec, http.StatusBadRequest, "")
	})

	t.Run("new product is recommended", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/recommendations/trending?limit=1", nil, userToken)
		var res struct {
			Products []models.Product `json:"products"`
		}
		decode(t, rec, &res)
		if len(res.Products) != 1 || res.Products[0].ID != "test-serum" {
			t.Errorf("expected the 4.9 rated product first, got %+v", res.Products)
		}
	})

	t.Run("admin update", func(t *testing.T) {
		in := newProductInput("")
		in.Name = "Renamed Serum"
		rec := env.do(http.MethodPut, "/api/products/test-serum", in, adminToken)
		expectStatus(t, rec, http.StatusOK)

		rec = env.do(http.MethodGet, "/api/products/test-serum", nil, userToken)
		expectStatus(t, rec, http.StatusOK)
		var p models.Product
		decode(t, rec, &p)
		if p.Name != "Renamed Serum" {
			t.Errorf("name = %q", p.Name)
		}

		rec = env.do(http.MethodPut, "/api/products/missing", in, adminToken)
		expectError(t, rec, http.StatusNotFound, "Product not found")
	})

	t.Run("admin delete", func(t *testing.T) {
		rec := env.do(http.MethodDelete, "/api/products/test-serum", nil, adminToken)
		expectStatus(t, rec, http.StatusOK)

		rec = env.do(http.MethodGet, "/api/products/test-serum", nil, adminToken)
		expectError(t, rec, http.StatusNotFound, "Product not found")
	})
}

func TestChatbot(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("chat@example.com")
	env.completeProfile(token, CompleteProfileRequest{SkinType: "oily", SkinConcerns: []string{"acne"}})

	rec := env.do(http.MethodPost, "/api/chatbot/message", ChatMessageRequest{}, token)
	expectError(t, rec, http.StatusBadRequest, "")

	rec = env.do(http.MethodPost, "/api/chatbot/message", ChatMessageRequest{Message: "What should I use?"}, token)
	expectStatus(t, rec, http.StatusCreated)
	var res struct {
		Message models.ChatMessage `json:"message"`
		Reply   models.ChatMessage `json:"reply"`
	}
	decode(t, rec, &res)
	if res.Message.Role != models.ChatRoleUser || res.Reply.Role != models.ChatRoleAssistant {
		t.Errorf("unexpected roles %q/%q", res.Message.Role, res.Reply.Role)
	}
	if res.Reply.Content == "" {
		t.Error("expected advisory reply")
	}

	rec = env.do(http.MethodGet, "/api/chatbot/history", nil, token)
	expectStatus(t, rec, http.StatusOK)
	var hist struct {
		Messages []models.ChatMessage `json:"messages"`
		Count    int                  `json:"count"`
	}
	decode(t, rec, &hist)
	if hist.Count != 2 || hist.Messages[0].Role != models.ChatRoleUser {
		t.Errorf("unexpected history %+v", hist)
	}

	rec = env.do(http.MethodDelete, "/api/chatbot/history", nil, token)
	expectStatus(t, rec, http.StatusOK)
	var cleared struct {
		Deleted int `json:"deleted"`
	}
	decode(t, rec, &cleared)
	if cleared.Deleted != 2 {
		t.Errorf("deleted = %d, want 2", cleared.Deleted)
	}

	rec = env.do(http.MethodGet, "/api/chatbot/history", nil, token)
	decode(t, rec, &hist)
	if hist.Count != 0 {
		t.Errorf("count after clear = %d", hist.Count)
	}
}

func TestAdvisoryReply(t *testing.T) {
	tests := []struct {
		name string
		user models.User
	}{
		{"no profile", models.User{}},
		{"oily with concerns", models.User{SkinType: "oily", SkinConcerns: []string{"acne", "pores"}}},
		{"dry", models.User{SkinType: "dry"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := advisoryReply(&tt.user)
			if reply == "" {
				t.Fatal("empty reply")
			}
		})
	}
}
