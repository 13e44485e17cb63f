package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"shotpath/internal/pathutil"
)

func newSanitiseCommand(ctx *commandContext) *cobra.Command {
	var extra string

	cmd := &cobra.Command{
		Use:         "sanitise <name>",
		Aliases:     []string{"sanitize"},
		Short:       "Turn a free-form label into a safe lower-case identifier",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := pathutil.SanitiseName(args[0], extra)
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{"name": name})
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
	cmd.Flags().StringVar(&extra, "extra", "", "Additional characters to keep")
	return cmd
}

func newUIDCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "uid",
		Short:       "Print a time-ordered unique identifier",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			id := pathutil.UniqueID(time.Now())
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{"uid": id})
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}
