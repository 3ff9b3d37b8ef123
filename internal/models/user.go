// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package models

import (
	"time"
)

// Skin types accepted on a user profile and product compatibility lists.
const (
	SkinTypeOily        = "oily"
	SkinTypeDry         = "dry"
	SkinTypeCombination = "combination"
	SkinTypeNormal      = "normal"
	SkinTypeSensitive   = "sensitive"
)

// Skin concerns a user can select and a product can target.
const (
	ConcernAcne         = "acne"
	ConcernPores        = "pores"
	ConcernPigmentation = "pigmentation"
	ConcernAging        = "aging"
	ConcernSensitivity  = "sensitivity"
	ConcernDryness      = "dryness"
)

// Budget tiers, ordered from cheapest to most expensive.
const (
	BudgetLow    = "low"
	BudgetMedium = "medium"
	BudgetHigh   = "high"
	BudgetLuxury = "luxury"
)

var (
	// SkinTypes lists every valid skin type.
	SkinTypes = []string{SkinTypeOily, SkinTypeDry, SkinTypeCombination, SkinTypeNormal, SkinTypeSensitive}

	// SkinConcerns lists every valid skin concern.
	SkinConcerns = []string{ConcernAcne, ConcernPores, ConcernPigmentation, ConcernAging, ConcernSensitivity, ConcernDryness}

	// BudgetOrder lists budgets in ascending price order.
	BudgetOrder = []string{BudgetLow, BudgetMedium, BudgetHigh, BudgetLuxury}
)

// IsValidSkinType reports whether s is a known skin type.
func IsValidSkinType(s string) bool { return contains(SkinTypes, s) }

// IsValidSkinConcern reports whether s is a known skin concern.
func IsValidSkinConcern(s string) bool { return contains(SkinConcerns, s) }

// IsValidBudget reports whether s is a known budget tier.
func IsValidBudget(s string) bool { return contains(BudgetOrder, s) }

// BudgetIndex returns the position of budget in BudgetOrder, or -1.
func BudgetIndex(budget string) int {
	for i, b := range BudgetOrder {
		if b == budget {
			return i
		}
	}
	return -1
}

// User is a registered account. PasswordHash is never serialised.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`

	SkinType         string   `json:"skinType,omitempty"`
	SkinConcerns     []string `json:"skinConcerns"`
	Allergies        []string `json:"allergies"`
	Budget           string   `json:"budget,omitempty"`
	ProfileCompleted bool     `json:"profileCompleted"`

	AnalysisCount    int        `json:"analysisCount"`
	LastAnalysisDate *time.Time `json:"lastAnalysisDate,omitempty"`

	IsActive      bool      `json:"isActive"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// HasConcern reports whether the user selected concern.
func (u *User) HasConcern(concern string) bool {
	return contains(u.SkinConcerns, concern)
}

// FullName returns "First Last".
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// storedUser mirrors User with the hash exposed, for persistence only.
type storedUser struct {
	User
	PasswordHash string `json:"passwordHash"`
}

// ToStored returns a value that serialises the password hash.
func (u *User) ToStored() interface{} {
	return storedUser{User: *u, PasswordHash: u.PasswordHash}
}

// UserFromStored restores a User written with ToStored.
func UserFromStored(decode func(v interface{}) error) (*User, error) {
	var s storedUser
	if err := decode(&s); err != nil {
		return nil, err
	}
	u := s.User
	u.PasswordHash = s.PasswordHash
	return &u, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
