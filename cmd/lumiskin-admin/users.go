// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/lumiskin/internal/authz"
	"github.com/tomtom215/lumiskin/internal/models"
	"github.com/tomtom215/lumiskin/internal/store"
)

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := a.db.ListUsers()
			if err != nil {
				return err
			}
			roles, err := a.roles()
			if err != nil {
				return err
			}

			tbl := newTable("ID", "EMAIL", "NAME", "SKIN TYPE", "ANALYSES", "ACTIVE", "ADMIN", "CREATED")
			for _, u := range users {
				tbl.addRow(u.ID, u.Email, u.FullName(), orDash(u.SkinType), strconv.Itoa(u.AnalysisCount),
					strconv.FormatBool(u.IsActive), strconv.FormatBool(roles.IsAdmin(u.ID)), u.CreatedAt.Format(time.DateOnly))
			}
			if err := tbl.render(cmd.OutOrStdout()); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%d users\n", len(users))
			return nil
		},
	}

	deactivateCmd := &cobra.Command{
		Use:   "deactivate <email>",
		Short: "Deactivate an account",
		Long: `Deactivate an account. Deactivated accounts cannot log in and their
existing tokens are rejected by the API.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.userByEmail(args[0])
			if err != nil {
				return err
			}
			if !u.IsActive {
				printf(cmd.OutOrStdout(), "%s is already inactive\n", u.Email)
				return nil
			}
			u.IsActive = false
			if err := a.db.UpdateUser(u); err != nil {
				return fmt.Errorf("update user: %w", err)
			}
			printf(cmd.OutOrStdout(), "Deactivated %s (%s)\n", u.Email, u.ID)
			return nil
		},
	}

	promoteCmd := &cobra.Command{
		Use:   "promote <email>",
		Short: "Grant the admin role to an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.userByEmail(args[0])
			if err != nil {
				return err
			}
			roles, err := a.roles()
			if err != nil {
				return err
			}
			if roles.IsAdmin(u.ID) {
				printf(cmd.OutOrStdout(), "%s is already an admin\n", u.Email)
				return nil
			}
			if err := roles.Grant(u.ID, models.RoleAdmin, "lumiskin-admin"); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Granted admin to %s (%s)\n", u.Email, u.ID)
			return nil
		},
	}

	cmd.AddCommand(listCmd, deactivateCmd, promoteCmd)
	return cmd
}

func (a *app) userByEmail(email string) (*models.User, error) {
	u, err := a.db.GetUserByEmail(email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("no account for %s", email)
	}
	return u, err
}

// roles builds an authorization service over the persisted grants.
func (a *app) roles() (*authz.Service, error) {
	cfg := authz.DefaultEnforcerConfig()
	cfg.CacheEnabled = false
	enforcer, err := authz.NewEnforcer(cfg)
	if err != nil {
		return nil, err
	}
	return authz.NewService(enforcer, a.db)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
