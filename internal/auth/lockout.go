// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package auth

import (
	"fmt"
	"time"

	"github.com/tomtom215/lumiskin/internal/config"
	"github.com/tomtom215/lumiskin/internal/logging"
	"github.com/tomtom215/lumiskin/internal/models"
)

// lockoutRetention is how long an entry outlives its last failed attempt,
// so repeat offenders keep their backoff.
const lockoutRetention = 24 * time.Hour

// LockoutConfig holds configuration for login lockout.
type LockoutConfig struct {
	// MaxAttempts is the number of consecutive failures before lockout.
	// Zero disables lockout.
	MaxAttempts int

	// Duration is the first lockout period. Each further lockout doubles
	// it, capped at MaxDuration.
	Duration    time.Duration
	MaxDuration time.Duration
}

// LockoutConfigFrom reads the lockout settings from the security config.
func LockoutConfigFrom(cfg *config.SecurityConfig) LockoutConfig {
	return LockoutConfig{
		MaxAttempts: cfg.LockoutAttempts,
		Duration:    cfg.LockoutDuration,
		MaxDuration: cfg.LockoutMaxDuration,
	}
}

// LockoutStore persists lockout entries. GetLockout returns nil for an
// unknown subject.
type LockoutStore interface {
	GetLockout(subject string) (*models.LockoutEntry, error)
	SaveLockout(entry *models.LockoutEntry, ttl time.Duration) error
	DeleteLockout(subject string) error
}

// LockoutManager locks an email address after repeated failed logins. A
// nil manager never locks.
type LockoutManager struct {
	config LockoutConfig
	store  LockoutStore
	now    func() time.Time
}

// NewLockoutManager creates a new lockout manager.
func NewLockoutManager(store LockoutStore, cfg LockoutConfig) *LockoutManager {
	if cfg.Duration <= 0 {
		cfg.Duration = 15 * time.Minute
	}
	if cfg.MaxDuration < cfg.Duration {
		cfg.MaxDuration = cfg.Duration
	}
	return &LockoutManager{config: cfg, store: store, now: time.Now}
}

// Enabled reports whether lockout is active.
func (m *LockoutManager) Enabled() bool {
	return m != nil && m.config.MaxAttempts > 0
}

// CheckLocked returns true if the subject is currently locked out, with the
// time remaining.
func (m *LockoutManager) CheckLocked(subject string) (bool, time.Duration, error) {
	if !m.Enabled() {
		return false, 0, nil
	}
	entry, err := m.store.GetLockout(subject)
	if err != nil {
		return false, 0, fmt.Errorf("check lockout: %w", err)
	}
	now := m.now()
	if entry == nil || !entry.IsLockedAt(now) {
		return false, 0, nil
	}
	return true, entry.LockedUntil.Sub(now), nil
}

// RecordFailedAttempt counts a failed login and returns whether the subject
// is now locked.
func (m *LockoutManager) RecordFailedAttempt(subject string) (locked bool, remaining time.Duration, err error) {
	if !m.Enabled() {
		return false, 0, nil
	}
	entry, err := m.store.GetLockout(subject)
	if err != nil {
		return false, 0, fmt.Errorf("get lockout: %w", err)
	}
	if entry == nil {
		entry = &models.LockoutEntry{Subject: subject}
	}

	now := m.now()
	if entry.IsLockedAt(now) {
		return true, entry.LockedUntil.Sub(now), nil
	}

	entry.FailedAttempts++
	entry.LastAttempt = now
	if entry.FailedAttempts >= m.config.MaxAttempts {
		remaining = m.lockoutDuration(entry.LockoutCount)
		entry.LockedUntil = now.Add(remaining)
		entry.LockoutCount++
		entry.FailedAttempts = 0
		locked = true

		logging.Warn().
			Str("subject", logging.SanitizeEmail(subject)).
			Dur("duration", remaining).
			Int("lockout_count", entry.LockoutCount).
			Msg("Account locked")
	}

	if err := m.store.SaveLockout(entry, remaining+lockoutRetention); err != nil {
		return false, 0, fmt.Errorf("save lockout: %w", err)
	}
	return locked, remaining, nil
}

// RecordSuccessfulLogin clears the lockout state for subject.
func (m *LockoutManager) RecordSuccessfulLogin(subject string) error {
	if !m.Enabled() {
		return nil
	}
	if err := m.store.DeleteLockout(subject); err != nil {
		return fmt.Errorf("clear lockout: %w", err)
	}
	return nil
}

// lockoutDuration doubles the base duration for every previous lockout.
func (m *LockoutManager) lockoutDuration(previous int) time.Duration {
	d := m.config.Duration
	for i := 0; i < previous && d < m.config.MaxDuration; i++ {
		d *= 2
	}
	if d > m.config.MaxDuration {
		return m.config.MaxDuration
	}
	return d
}
