package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"shotpath/internal/catalog"
	"shotpath/internal/entity"
	"shotpath/internal/version"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Index folders into the entity catalog and query it",
	}

	catalogCmd.AddCommand(newCatalogIndexCommand(ctx))
	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	catalogCmd.AddCommand(newCatalogShowCommand(ctx))
	catalogCmd.AddCommand(newCatalogRemoveCommand(ctx))

	return catalogCmd
}

// catalogRef maps any path naming an entity (a frame, a frame pattern, or a
// file) to the reference path it is stored under.
func catalogRef(arg string) (string, error) {
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", arg, err)
	}
	return entity.New(abs).ReferencePath(), nil
}

func newCatalogIndexCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "index <folder>...",
		Short: "Scan folders and record every file and sequence found",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := ctx.entityOptions(cmd.Context(), false)
			if err != nil {
				return err
			}
			return ctx.withCatalog(func(store *catalog.Store) error {
				out := cmd.OutOrStdout()
				for _, arg := range args {
					folder, err := filepath.Abs(arg)
					if err != nil {
						return fmt.Errorf("resolve %s: %w", arg, err)
					}
					n, err := store.IndexFolder(cmd.Context(), folder, opts...)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Indexed %d entities in %s\n", n, folder)
				}
				return nil
			})
		},
	}
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	var filter catalog.Filter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if filter.Prefix != "" {
				abs, err := filepath.Abs(filter.Prefix)
				if err != nil {
					return fmt.Errorf("resolve prefix: %w", err)
				}
				filter.Prefix = abs
			}
			return ctx.withCatalog(func(store *catalog.Store) error {
				records, err := store.List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					if records == nil {
						records = []*catalog.Record{}
					}
					return writeJSON(cmd, records)
				}
				rows := make([][]string, 0, len(records))
				for _, rec := range records {
					rows = append(rows, []string{
						rec.Kind,
						rec.Ref,
						rec.Shot,
						recordVersion(rec),
						recordRange(rec),
						humanize.Bytes(uint64(rec.SizeBytes)),
						humanize.Time(rec.IndexedAt),
					})
				}
				return writeRows(cmd,
					[]string{"Kind", "Reference", "Shot", "Version", "Range", "Size", "Indexed"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				)
			})
		},
	}
	cmd.Flags().StringVar(&filter.Kind, "kind", "", "Only records of this kind (file or sequence)")
	cmd.Flags().StringVar(&filter.Shot, "shot", "", "Only records of this shot")
	cmd.Flags().StringVar(&filter.Prefix, "prefix", "", "Only records under this path")
	cmd.Flags().BoolVar(&filter.OnlineOnly, "online", false, "Only records that were on disk when indexed")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "Maximum number of records")
	return cmd
}

func newCatalogShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <path>",
		Short: "Show the catalog record for a file or sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := catalogRef(args[0])
			if err != nil {
				return err
			}
			return ctx.withCatalog(func(store *catalog.Store) error {
				rec, err := store.Get(cmd.Context(), ref)
				if errors.Is(err, catalog.ErrNotFound) {
					return fmt.Errorf("%s is not in the catalog; run `shotpath catalog index` first", ref)
				}
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, rec)
				}
				return writeFields(cmd, [][2]string{
					{"reference", rec.Ref},
					{"kind", rec.Kind},
					{"label", rec.Label},
					{"online", yesNo(rec.Online)},
					{"shot", rec.Shot},
					{"version", recordVersion(rec)},
					{"range", recordRange(rec)},
					{"frames", strconv.Itoa(rec.AvailableCount)},
					{"missing", strconv.Itoa(len(rec.MissingFrames))},
					{"size", humanize.Bytes(uint64(rec.SizeBytes))},
					{"owner", rec.Owner},
					{"indexed", humanize.Time(rec.IndexedAt)},
				})
			})
		},
	}
}

func newCatalogRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <path>",
		Aliases: []string{"remove"},
		Short:   "Remove the catalog record for a file or sequence",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := catalogRef(args[0])
			if err != nil {
				return err
			}
			return ctx.withCatalog(func(store *catalog.Store) error {
				if err := store.Delete(cmd.Context(), ref); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", ref)
				return nil
			})
		},
	}
}

func recordVersion(rec *catalog.Record) string {
	if rec.Version == 0 {
		return ""
	}
	v := version.Version{Number: rec.Version, Take: rec.Take, HasTake: rec.HasTake, User: rec.User}
	return v.String()
}

func recordRange(rec *catalog.Record) string {
	if !rec.HasRange {
		return ""
	}
	return fmt.Sprintf("%d-%d", rec.StartFrame, rec.EndFrame)
}
