// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

/*
Package authz provides role-based authorization using Casbin.

The model and policy are embedded (model.conf, policy.csv). Two roles exist:

  - user: held implicitly by every authenticated account; may read the
    product catalog
  - admin: granted explicitly; inherits user, manages the catalog and may
    access routines owned by other accounts

Objects are request paths matched with keyMatch2 (/api/products/:id) or
named resources (routines:any, roles). Actions are read, write and delete,
derived from the HTTP method by AuthorizeRequest.

Grants are persisted by the store under role:<uid>:<role> and loaded into
the enforcer by NewService at startup. Decisions are cached per subject and
the cache is invalidated when a subject's roles change.

Example:

	enforcer, _ := authz.NewEnforcer(nil)
	svc, _ := authz.NewService(enforcer, store)
	_ = svc.Grant(userID, models.RoleAdmin, "cli")

	r.With(authzMW.AuthorizeRequest).Post("/api/products", h.CreateProduct)
*/
package authz
