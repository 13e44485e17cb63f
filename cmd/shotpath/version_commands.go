package main

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"shotpath/internal/version"
)

func newVersionCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newParseCommand(ctx),
		newUpdateCommand(ctx),
		newLatestCommand(ctx),
		newVersionsCommand(ctx),
		newNextTakeCommand(ctx),
	}
}

type parseResult struct {
	Path      string `json:"path"`
	Version   string `json:"version,omitempty"`
	Number    int    `json:"number"`
	Take      int    `json:"take"`
	HasTake   bool   `json:"has_take"`
	User      string `json:"user,omitempty"`
	Shot      string `json:"shot,omitempty"`
	Basename  string `json:"basename,omitempty"`
	Extension string `json:"extension,omitempty"`
	Frame     string `json:"frame,omitempty"`
}

func parsePath(path string) parseResult {
	res := parseResult{Path: path}
	v := version.ExtractVersion(path)
	if !v.IsSentinel() {
		res.Version = v.String()
	}
	res.Number, res.Take, res.HasTake, res.User = v.Number, v.Take, v.HasTake, v.User
	res.Shot, _ = version.ExtractShot(path)
	if parts, ok := version.ExtractFileParts(path); ok {
		res.Basename = parts.Basename
		res.Extension = parts.Extension
		if parts.HasFrame {
			res.Frame = parts.Frame
		}
	}
	return res
}

func newParseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "parse <path>",
		Short:       "Show the version, take, user, and shot encoded in a path",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			res := parsePath(args[0])
			if ctx.jsonOutput() {
				return writeJSON(cmd, res)
			}
			take := ""
			if res.HasTake && res.Version != "" {
				take = strconv.Itoa(res.Take)
			}
			return writeFields(cmd, [][2]string{
				{"version", res.Version},
				{"take", take},
				{"user", res.User},
				{"shot", res.Shot},
				{"basename", res.Basename},
				{"extension", res.Extension},
				{"frame", res.Frame},
			})
		},
	}
}

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	var number, take int

	cmd := &cobra.Command{
		Use:         "update <path>",
		Short:       "Rewrite the first version and take of a path",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			v := version.New(number)
			if cmd.Flags().Changed("take") {
				v = version.NewWithTake(number, take)
			}
			updated, err := version.UpdateVersion(args[0], v)
			if err != nil {
				return fmt.Errorf("update %s: %w", args[0], err)
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{"path": updated, "version": v.String()})
			}
			fmt.Fprintln(cmd.OutOrStdout(), updated)
			return nil
		},
	}
	cmd.Flags().IntVar(&number, "version", 1, "Version number to write")
	cmd.Flags().IntVar(&take, "take", 0, "Take number to write (required)")
	return cmd
}

func newLatestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "latest <path>",
		Short: "Print the highest version of a path present on disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			finder, err := ctx.finder()
			if err != nil {
				return err
			}
			latest, ok := finder.FindLatest(args[0])
			if !ok {
				return fmt.Errorf("no versions of %s found on disk", args[0])
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{
					"path":    latest,
					"version": version.ExtractVersion(latest).String(),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), latest)
			return nil
		},
	}
}

type versionEntry struct {
	Version string `json:"version"`
	Path    string `json:"path"`
}

func newVersionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "versions <path>",
		Short: "List every version of a path present on disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			finder, err := ctx.finder()
			if err != nil {
				return err
			}
			all := finder.FindAllVersions(args[0])
			keys := make([]version.Version, 0, len(all))
			for v := range all {
				keys = append(keys, v)
			}
			slices.SortFunc(keys, version.Compare)

			entries := make([]versionEntry, 0, len(keys))
			for _, v := range keys {
				entries = append(entries, versionEntry{Version: v.String(), Path: all[v]})
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, entries)
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Version, e.Path})
			}
			return writeRows(cmd, []string{"Version", "Path"}, rows, nil)
		},
	}
}

func newNextTakeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "next-take <path>",
		Short: "Print the take number after the highest take on disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			finder, err := ctx.finder()
			if err != nil {
				return err
			}
			take := finder.NextAvailableTake(args[0])
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]int{"take": take})
			}
			fmt.Fprintln(cmd.OutOrStdout(), take)
			return nil
		},
	}
}
