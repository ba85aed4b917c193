/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dykam/gangwars/command"
)

// NewRunCommand creates the run command, which runs a single gang command
// and exits.
func NewRunCommand(root *RootOptions) *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:   "run [--as player] <command> [args...]",
		Short: "Run one gang command",
		Example: "  gangwars run gang-list\n" +
			"  gangwars run --as alice gang-create red",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			s, err := openSession(ctx, root, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			sender := command.Console
			if as != "" {
				if sender, err = s.app.Login(as); err != nil {
					return err
				}
			}

			runErr := s.app.Dispatch(ctx, sender, strings.Join(args, " "))
			if err := s.close(ctx); err != nil && runErr == nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&as, "as", "", "run the command as this player instead of the console")
	return cmd
}
