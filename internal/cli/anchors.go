package cli

import (
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valyala/fastjson"

	"github.com/matzehuels/pframe/pkg/anchor"
	perrors "github.com/matzehuels/pframe/pkg/errors"
	pio "github.com/matzehuels/pframe/pkg/io"
	"github.com/matzehuels/pframe/pkg/observability"
	"github.com/matzehuels/pframe/pkg/selector"
	"github.com/matzehuels/pframe/pkg/spec"
)

// derivedColumn is one entry of the anchor derive output.
type derivedColumn struct {
	ColumnID spec.PObjectID `json:"columnId"`
	Name     string         `json:"name"`
	ID       string         `json:"id"`
}

// anchorCommand creates the anchor command group.
func (c *CLI) anchorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anchor",
		Short: "Derive anchored column ids and resolve anchored selectors",
		Long: `Anchors are named reference columns read from a JSON or YAML map of
anchor name to column spec. Anchored ids express a column relative to
them; anchored selectors are resolved against them into plain selectors.`,
	}

	cmd.AddCommand(c.anchorDeriveCommand())
	cmd.AddCommand(c.anchorResolveCommand())
	return cmd
}

func (c *CLI) anchorDeriveCommand() *cobra.Command {
	var (
		anchorsPath string
		filterArgs  []string
	)

	cmd := &cobra.Command{
		Use:   "derive --anchors <file> <columns-file>... [--filter idx=value]",
		Short: "Print the canonical anchored id of every column",
		Long: `Express every column relative to the anchors and print its canonical id.

A --filter slices the id on one axis. The axis is given by index or name,
the value is parsed as a JSON number, null or quoted string and taken
as a plain string otherwise:

  pframe anchor derive --anchors anchors.yaml cols.yaml --filter 0=3 --filter gene=TP53`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			filters, err := parseFilters(filterArgs)
			if err != nil {
				return err
			}
			actx, err := c.requireAnchors(ctx, anchorsPath)
			if err != nil {
				return err
			}
			cols, err := c.loadColumns(ctx, args)
			if err != nil {
				return err
			}

			out := make([]derivedColumn, 0, len(cols))
			for _, col := range cols {
				id, err := actx.DeriveCanonical(col.Spec, filters...)
				observability.Anchor().OnDerive(ctx, col.Spec.Name, len(filters) > 0, err)
				if err != nil {
					return perrors.Wrap(perrors.GetCode(err), err, "derive %s", col.ColumnID)
				}
				out = append(out, derivedColumn{ColumnID: col.ColumnID, Name: col.Spec.Name, ID: id})
			}

			if err := c.writeResult(cmd, out); err != nil {
				return err
			}
			printSuccess(cmd.ErrOrStderr(), "Derived %d ids", len(out))
			printKeyValue(cmd.ErrOrStderr(), "anchors", strings.Join(anchorNames(actx), ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&anchorsPath, "anchors", "", "anchors file (default from config)")
	cmd.Flags().StringArrayVar(&filterArgs, "filter", nil, "axis filter as idx=value or name=value (repeatable)")
	return cmd
}

func (c *CLI) anchorResolveCommand() *cobra.Command {
	var anchorsPath string

	cmd := &cobra.Command{
		Use:   "resolve --anchors <file> <selector-file>",
		Short: "Resolve anchored selectors into plain column selectors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actx, err := c.requireAnchors(ctx, anchorsPath)
			if err != nil {
				return err
			}
			sels, err := pio.ImportSelectors(args[0])
			if err != nil {
				return err
			}

			anchors := actx.Anchors()
			out := make([]selector.ColumnSelector, 0, len(sels))
			for i, sel := range sels {
				resolved, err := anchor.Resolve(anchors, sel)
				observability.Anchor().OnResolve(ctx, len(anchors), err)
				if err != nil {
					return perrors.Wrap(perrors.GetCode(err), err, "selector %d", i)
				}
				out = append(out, resolved)
			}

			if err := c.writeResult(cmd, out); err != nil {
				return err
			}
			printSuccess(cmd.ErrOrStderr(), "Resolved %d selectors", len(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&anchorsPath, "anchors", "", "anchors file (default from config)")
	return cmd
}

// parseFilters parses idx=value and name=value arguments.
func parseFilters(args []string) ([]anchor.AxisFilter, error) {
	filters := make([]anchor.AxisFilter, 0, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, perrors.New(perrors.ErrCodeInvalidInput, "filter %q: want idx=value or name=value", arg)
		}
		value := filterValue(raw)
		if i, err := strconv.Atoi(key); err == nil {
			filters = append(filters, anchor.FilterByIndex(i, value))
		} else {
			filters = append(filters, anchor.FilterByName(key, value))
		}
	}
	return filters, nil
}

// filterValue returns raw as a number, nil or a JSON string when it parses
// as such, and as the raw string otherwise. Integral numbers are kept as
// int64.
func filterValue(raw string) any {
	v, err := fastjson.Parse(raw)
	if err != nil {
		return raw
	}
	switch v.Type() {
	case fastjson.TypeNull:
		return nil
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNumber:
		f := v.GetFloat64()
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f)
		}
		return f
	}
	return raw
}

func anchorNames(actx *anchor.Context) []string {
	return slices.Sorted(maps.Keys(actx.Anchors()))
}
