package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"shotpath/internal/entity"
	"shotpath/internal/framerange"
	"shotpath/internal/pathutil"
)

func newEntityCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newRangeCommand(ctx),
		newInfoCommand(ctx),
		newLsCommand(ctx),
		newCopyCommand(ctx),
	}
}

func newRangeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "range <path>",
		Short:       "Print the first and last frame present for a frame path",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			first, last, err := framerange.CalcRange(args[0])
			if err != nil {
				return fmt.Errorf("range %s: %w", args[0], err)
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]int{"first": first, "last": last})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %d\n", first, last)
			return nil
		},
	}
}

type entityView struct {
	entity.Info
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Owner     string `json:"owner,omitempty"`
	SizeBytes int64  `json:"size_bytes"`
}

func describe(e entity.Entity) entityView {
	view := entityView{
		Info: e.Info(),
		Kind: e.Kind().String(),
		Name: e.ReferenceName(),
	}
	if !view.Online {
		return view
	}
	for _, p := range e.Paths() {
		view.SizeBytes += pathutil.SizeInBytes(p)
	}
	if owner, err := e.Owner(); err == nil {
		view.Owner = owner
	}
	return view
}

func (v entityView) frameRange() string {
	if !v.HasRange {
		return ""
	}
	return fmt.Sprintf("%d-%d", v.StartFrame, v.EndFrame)
}

func (v entityView) size() string {
	if !v.Online {
		return ""
	}
	return humanize.Bytes(uint64(v.SizeBytes))
}

func newInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info <path>",
		Short: "Describe a file or frame sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := ctx.entityOptions(cmd.Context(), false)
			if err != nil {
				return err
			}
			view := describe(entity.New(args[0], opts...))
			if ctx.jsonOutput() {
				return writeJSON(cmd, view)
			}
			fields := [][2]string{
				{"kind", view.Kind},
				{"reference", view.ReferencePath},
				{"online", yesNo(view.Online)},
				{"label", view.Label},
				{"owner", view.Owner},
				{"size", view.size()},
			}
			if view.IsSequence {
				fields = append(fields,
					[2]string{"range", view.frameRange()},
					[2]string{"frames", strconv.Itoa(view.AvailableCount)},
					[2]string{"missing", strconv.Itoa(view.MissingCount())},
				)
			}
			return writeFields(cmd, fields)
		},
	}
}

func newLsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ls [folder]",
		Short: "List files and collapsed sequences in a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := "."
			if len(args) == 1 {
				folder = args[0]
			}
			opts, err := ctx.entityOptions(cmd.Context(), false)
			if err != nil {
				return err
			}
			entities, err := entity.List(folder, opts...)
			if err != nil {
				return fmt.Errorf("list %s: %w", folder, err)
			}

			views := make([]entityView, 0, len(entities))
			for _, e := range entities {
				views = append(views, describe(e))
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, views)
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				frames := ""
				if v.IsSequence {
					frames = strconv.Itoa(v.AvailableCount)
				}
				rows = append(rows, []string{v.Kind, v.Name, v.frameRange(), frames, v.size()})
			}
			return writeRows(cmd,
				[]string{"Kind", "Name", "Range", "Frames", "Size"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			)
		},
	}
}

func newCopyCommand(ctx *commandContext) *cobra.Command {
	var basepath bool

	cmd := &cobra.Command{
		Use:   "copy <source> <destination>",
		Short: "Copy a file or every frame of a sequence",
		Long: "Copy a file or sequence to a destination path. With --basepath the\n" +
			"destination is a path without frame token or extension, and the\n" +
			"source's frame token and extension are appended.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := ctx.entityOptions(cmd.Context(), false)
			if err != nil {
				return err
			}
			src := entity.New(args[0], opts...)
			if !src.Exists() {
				return fmt.Errorf("copy: %s does not exist", args[0])
			}
			dest := args[1]
			if err := pathutil.EnsureFolder(filepath.Dir(dest)); err != nil {
				return fmt.Errorf("copy: %w", err)
			}

			var ok bool
			if basepath {
				ok = src.CopyBasepath(dest)
			} else {
				ok = src.Copy(dest)
			}
			if !ok {
				return errors.New("copy failed; see log for details")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Copied %s to %s\n", src.ReferenceName(), dest)
			return nil
		},
	}
	cmd.Flags().BoolVar(&basepath, "basepath", false, "Treat the destination as a base path")
	return cmd
}
