package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"shotpath/internal/entity"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Move files between this site and its remote site",
	}

	syncCmd.AddCommand(newSyncDirectionCommand(ctx, "push", "Send a file or sequence to the remote site",
		func(c context.Context, e entity.Entity) error { return e.SyncToRemoteSite(c) }))
	syncCmd.AddCommand(newSyncDirectionCommand(ctx, "pull", "Fetch a file or sequence from the remote site",
		func(c context.Context, e entity.Entity) error { return e.SyncLocally(c) }))

	return syncCmd
}

func newSyncDirectionCommand(ctx *commandContext, use, short string, run func(context.Context, entity.Entity) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <path>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := ctx.entityOptions(cmd.Context(), true)
			if err != nil {
				if isNoTransport(err) {
					return errors.New("syncing is disabled; set remote.backend in the config")
				}
				return err
			}
			e := entity.New(args[0], opts...)
			if err := run(cmd.Context(), e); err != nil {
				return fmt.Errorf("sync %s %s: %w", use, e.ReferenceName(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Synced %s (%s)\n", e.ReferenceName(), use)
			return nil
		},
	}
}
