// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package main

import (
	"time"

	"github.com/spf13/cobra"
)

// defaultTokenTTL matches the API's default JWT lifetime.
const defaultTokenTTL = 7 * 24 * time.Hour

func newTokensCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Manage issued tokens",
	}

	var ttl time.Duration
	revokeCmd := &cobra.Command{
		Use:   "revoke <jti>",
		Short: "Revoke a token by its jti claim",
		Long: `Revoke a token by its jti claim. The revocation is kept until the
token would have expired anyway; --ttl defaults to the configured JWT TTL.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ttl <= 0 {
				ttl = a.cfg.Security.JWTTTL
			}
			if ttl <= 0 {
				ttl = defaultTokenTTL
			}
			expires := time.Now().Add(ttl)
			if err := a.db.RevokeToken(args[0], expires); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Revoked %s until %s\n", args[0], expires.UTC().Format(time.RFC3339))
			return nil
		},
	}
	revokeCmd.Flags().DurationVar(&ttl, "ttl", 0, "how long to keep the revocation (default: security.jwt_ttl)")

	cmd.AddCommand(revokeCmd)
	return cmd
}
