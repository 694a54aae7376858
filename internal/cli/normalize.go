package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pframe/pkg/axes"
	"github.com/matzehuels/pframe/pkg/linker"
	"github.com/matzehuels/pframe/pkg/spec"
)

// normalizedColumn is one entry of the normalize output.
type normalizedColumn struct {
	ColumnID      spec.PObjectID            `json:"columnId"`
	Name          string                    `json:"name"`
	Axes          []spec.AxisSpecNormalized `json:"axes"`
	CycleDetected bool                      `json:"cycleDetected,omitempty"`
}

// normalizeCommand creates the normalize command.
func (c *CLI) normalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <columns-file>...",
		Short: "Print normalized axis hierarchies per column",
		Long: `Resolve the parent axes of every column, either from parentAxes indices
or from the pl7.app/parents annotation, and print each axis with its
materialized, deep-sorted parents.

A parent cycle flattens every axis of the column and prints a warning.
With --strict it fails with CYCLE_DETECTED instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cols, err := c.loadColumns(ctx, args)
			if err != nil {
				return err
			}

			out := make([]normalizedColumn, 0, len(cols))
			cycles := 0
			for _, col := range cols {
				res, err := c.normalize(ctx, col)
				if err != nil {
					return err
				}
				if res.CycleDetected {
					cycles++
					printWarning(cmd.ErrOrStderr(), "%s: parent cycle, axes flattened", col.ColumnID)
				}
				out = append(out, normalizedColumn{
					ColumnID:      col.ColumnID,
					Name:          col.Spec.Name,
					Axes:          res.Axes,
					CycleDetected: res.CycleDetected,
				})
			}

			if err := c.writeResult(cmd, out); err != nil {
				return err
			}
			printSuccess(cmd.ErrOrStderr(), "Normalized %d columns", len(out))
			printStats(cmd.ErrOrStderr(), stat{cycles, "cycles"})
			return nil
		},
	}
}

// axisGroup is one connected component of a column's axes.
type axisGroup struct {
	Axes  []spec.AxisID `json:"axes"`
	Roots []spec.AxisID `json:"roots"`
}

// groupedColumn is one entry of the groups output.
type groupedColumn struct {
	ColumnID spec.PObjectID `json:"columnId"`
	Name     string         `json:"name"`
	IsLinker bool           `json:"isLinker,omitempty"`
	Groups   []axisGroup    `json:"groups"`
}

// groupsCommand creates the groups command.
func (c *CLI) groupsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "groups <columns-file>...",
		Short: "Print connected axis groups and their roots per column",
		Long: `Partition the normalized axes of every column into groups connected by
parent relations and print each group with its roots. A linker column
has exactly two groups.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cols, err := c.loadColumns(ctx, args)
			if err != nil {
				return err
			}

			out := make([]groupedColumn, 0, len(cols))
			linkers := 0
			for _, col := range cols {
				res, err := c.normalize(ctx, col)
				if err != nil {
					return err
				}
				entry := groupedColumn{
					ColumnID: col.ColumnID,
					Name:     col.Spec.Name,
					IsLinker: linker.IsLinker(col.Spec),
				}
				for _, g := range axes.Groups(res.Axes) {
					entry.Groups = append(entry.Groups, axisGroup{
						Axes:  axisIDs(g),
						Roots: axisIDs(axes.Roots(g)),
					})
				}
				if entry.IsLinker {
					linkers++
				}
				out = append(out, entry)
			}

			if err := c.writeResult(cmd, out); err != nil {
				return err
			}
			printStats(cmd.ErrOrStderr(), stat{len(out), "columns"}, stat{linkers, "linkers"})
			return nil
		},
	}
}

func axisIDs(list []spec.AxisSpecNormalized) []spec.AxisID {
	ids := make([]spec.AxisID, len(list))
	for i, a := range list {
		ids[i] = a.ID()
	}
	return ids
}
