// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

/*
Package store persists LumiSkin documents in BadgerDB.

Every record is a JSON value (goccy/go-json) under a prefixed key:

	user:<id>                     user document, including the password hash
	user_email:<email>            email index, value is the user id
	routine:<id>                  routine document
	routine_user:<uid>:<id>       per-user routine index
	progress:<routineID>:<id>     progress entry
	analysis:<uid>:<id>           analysis result
	product:<id>                  catalog product
	history:<uid>:<id>            recommendation history
	feedback:<uid>:<id>           recommendation feedback
	chat:<uid>:<id>               chatbot message
	role:<uid>:<role>             casbin role grant
	revoked:<jti>                 revoked token id, expires with the token

Lookups of missing records return ErrNotFound; unique-index conflicts
return ErrDuplicate. Every operation is timed into the store metrics.

The catalog side implements recommend.Catalog through ListProducts.
*/
package store
