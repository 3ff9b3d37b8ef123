// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// AccountEvent is an audit record for an account-level action.
type AccountEvent struct {
	Event     string // register, login, logout, password_change, deactivate, token_refresh
	UserID    string
	Email     string
	IPAddress string
	Success   bool
	Reason    string
}

// SecurityLogger writes account audit events with PII masked.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a security logger tagged with component=auth.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{logger: WithComponent("auth")}
}

// LogEvent writes event. Failures are logged at warn level.
func (l *SecurityLogger) LogEvent(event *AccountEvent) {
	e := l.logger.Info()
	status := "success"
	if !event.Success {
		e = l.logger.Warn()
		status = "failed"
	}
	e = e.Str("event", event.Event).Str("status", status)

	if event.UserID != "" {
		e = e.Str("user_id", event.UserID)
	}
	if event.Email != "" {
		e = e.Str("email", SanitizeEmail(event.Email))
	}
	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.Reason != "" {
		e = e.Str("reason", truncateString(event.Reason, 200))
	}
	e.Msg("account event")
}

// LogLogin records a login attempt.
func (l *SecurityLogger) LogLogin(userID, email, ip string, success bool, reason string) {
	l.LogEvent(&AccountEvent{Event: "login", UserID: userID, Email: email, IPAddress: ip, Success: success, Reason: reason})
}

// LogLogout records a token revocation.
func (l *SecurityLogger) LogLogout(userID, ip string) {
	l.LogEvent(&AccountEvent{Event: "logout", UserID: userID, IPAddress: ip, Success: true})
}

// SanitizeToken masks a token, showing only the first and last 4 characters.
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeEmail masks the local part of an email address.
// "jane.doe@example.com" becomes "ja***@example.com".
func SanitizeEmail(email string) string {
	if email == "" {
		return ""
	}
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return "***" + domain
	}
	return local[:2] + "***" + domain
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
