// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

/*
Package auth provides account authentication for the LumiSkin API.

Key Components:

  - JWTManager: HS256 token generation and validation. Every token carries a
    unique jti so logout can revoke it.
  - Middleware: resolves the bearer token (Authorization header, then the
    token cookie) to an active, unrevoked user and stores it in the request
    context.
  - LockoutManager: locks an email after repeated failed logins, with
    exponential backoff between lockouts.
  - HashPassword / CheckPassword: bcrypt helpers.

Usage Example:

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
	    return err
	}
	authMW := auth.NewMiddleware(jwtManager, db, db, cfg.Security.CookieName, isNotFound)

	r.With(authMW.Authenticate).Get("/api/auth/profile", h.GetProfile)

	// Inside a handler
	user := auth.UserFromContext(r.Context())

Error Handling:

AuthenticateToken returns sentinel errors (ErrNoToken, ErrTokenExpired,
ErrTokenRevoked, ...). IsAuthFailure separates them from store failures,
which are answered with 500 instead of 401.
*/
package auth
