package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/pframe/pkg/errors"
	"github.com/matzehuels/pframe/pkg/linker"
	"github.com/matzehuels/pframe/pkg/observability"
	"github.com/matzehuels/pframe/pkg/render"
	"github.com/matzehuels/pframe/pkg/render/linkgraph"
	"github.com/matzehuels/pframe/pkg/spec"
)

const (
	graphDOT = "dot"
	graphSVG = "svg"
	graphPDF = "pdf"
	graphPNG = "png"
)

// linkerRef is one linker column of the path output.
type linkerRef struct {
	ColumnID spec.PObjectID `json:"columnId"`
	Name     string         `json:"name"`
}

// linkersCommand creates the linkers command group.
func (c *CLI) linkersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkers",
		Short: "Search and render linker columns between axes",
		Long: `A linker column connects exactly two axis groups. The linker commands build
a graph whose nodes are axis trees and whose edges are linker columns, and
search it by axis name. An axis name refers to the first axis with that
name in the given column files.`,
	}

	cmd.AddCommand(c.linkersPathCommand())
	cmd.AddCommand(c.linkersReachableCommand())
	cmd.AddCommand(c.linkersGraphCommand())
	return cmd
}

func (c *CLI) linkersPathCommand() *cobra.Command {
	var from, to []string

	cmd := &cobra.Command{
		Use:   "path --from A --to B <columns-file>...",
		Short: "Print the linker columns joining source axes to target axes",
		Long: `Find, for every target axis, the shortest chain of linker columns from any
source axis and print the union of the linkers used.

Targets that cannot be reached are skipped, or fail with LINK_RESOLUTION
under --strict.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cols, err := c.loadColumns(ctx, args)
			if err != nil {
				return err
			}
			lookup, err := c.axisLookup(ctx, cols)
			if err != nil {
				return err
			}
			sources, err := lookup.resolve(from)
			if err != nil {
				return err
			}
			targets, err := lookup.resolve(to)
			if err != nil {
				return err
			}

			g, err := c.buildGraph(ctx, cols)
			if err != nil {
				return err
			}

			start := time.Now()
			found, err := g.LinkersForAxes(sources, targets, c.strict)
			observability.Resolve().OnLinkSearch(ctx, len(sources), len(targets), len(found), time.Since(start), err)
			if err != nil {
				return err
			}
			for _, t := range g.UnreachableTargets(sources, targets) {
				printWarning(cmd.ErrOrStderr(), "no linker path to %s", t.Name)
			}

			out := make([]linkerRef, len(found))
			for i, l := range found {
				out[i] = linkerRef{ColumnID: l.ColumnID, Name: l.Spec.Name}
			}
			if err := c.writeResult(cmd, out); err != nil {
				return err
			}
			printSuccess(cmd.ErrOrStderr(), "Found %d linkers", len(out))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&from, "from", nil, "source axis names")
	cmd.Flags().StringSliceVar(&to, "to", nil, "target axis names")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func (c *CLI) linkersReachableCommand() *cobra.Command {
	var from []string

	cmd := &cobra.Command{
		Use:   "reachable --from A <columns-file>...",
		Short: "Print every axis reachable from the source axes through linkers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cols, err := c.loadColumns(ctx, args)
			if err != nil {
				return err
			}
			lookup, err := c.axisLookup(ctx, cols)
			if err != nil {
				return err
			}
			sources, err := lookup.resolve(from)
			if err != nil {
				return err
			}
			g, err := c.buildGraph(ctx, cols)
			if err != nil {
				return err
			}

			out := axisIDs(g.ReachableFrom(sources))
			if err := c.writeResult(cmd, out); err != nil {
				return err
			}
			printSuccess(cmd.ErrOrStderr(), "%d axes reachable", len(out))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&from, "from", nil, "source axis names")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

// graphOpts holds the command-line flags for the linkers graph command.
type graphOpts struct {
	format   string  // dot, svg, pdf or png
	output   string  // output file path, stdout when empty
	detailed bool    // label nodes with canonical axis ids
	scale    float64 // PNG scale factor
}

func (c *CLI) linkersGraphCommand() *cobra.Command {
	opts := graphOpts{scale: 2}

	cmd := &cobra.Command{
		Use:   "graph [--format dot|svg|pdf|png] [-o out] <columns-file>...",
		Short: "Render the linker graph",
		Long: `Render the linker graph as Graphviz DOT or, via Graphviz, as SVG.
PDF and PNG output is converted from the SVG and requires rsvg-convert.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				opts.format = c.cfg.GraphFormat
			}
			opts.format = strings.ToLower(opts.format)
			switch opts.format {
			case graphDOT, graphSVG, graphPDF, graphPNG:
			default:
				return perrors.New(perrors.ErrCodeInvalidInput, "unknown graph format %q (want dot, svg, pdf or png)", opts.format)
			}

			ctx := cmd.Context()
			cols, err := c.loadColumns(ctx, args)
			if err != nil {
				return err
			}
			g, err := c.buildGraph(ctx, cols)
			if err != nil {
				return err
			}
			return c.runGraph(cmd, g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", graphDOT, "output format: dot, svg, pdf or png")
	cmd.Flags().StringVarP(&opts.output, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with canonical axis ids")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, g *linker.Graph, opts graphOpts) error {
	ctx := cmd.Context()
	lopts := linkgraph.Options{Detailed: opts.detailed}

	var data []byte
	if opts.format == graphDOT {
		data = []byte(linkgraph.ToDOT(g, lopts))
	} else {
		spin := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering "+opts.format+"...")
		spin.Start()
		var err error
		data, err = renderGraph(ctx, g, lopts, opts)
		if err != nil {
			spin.StopWithError("Rendering failed")
			return err
		}
		spin.Stop()
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := perrors.ValidatePath(opts.output); err != nil {
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess(cmd.ErrOrStderr(), "Rendered linker graph")
	printFile(cmd.ErrOrStderr(), opts.output)
	printStats(cmd.ErrOrStderr(), stat{g.NodeCount(), "nodes"}, stat{g.EdgeCount(), "edges"})
	return nil
}

func renderGraph(ctx context.Context, g *linker.Graph, lopts linkgraph.Options, opts graphOpts) ([]byte, error) {
	svg, err := linkgraph.Render(ctx, g, lopts)
	if err != nil {
		return nil, err
	}
	switch opts.format {
	case graphPDF:
		return render.ToPDF(ctx, svg)
	case graphPNG:
		return render.ToPNG(ctx, svg, opts.scale)
	}
	return svg, nil
}

// buildGraph builds the linker graph and reports it to the hooks.
func (c *CLI) buildGraph(ctx context.Context, cols []spec.PColumnIDAndSpec) (*linker.Graph, error) {
	prog := newProgress(loggerFromContext(ctx))
	g, err := linker.Build(cols)
	if err != nil {
		observability.Resolve().OnGraphBuilt(ctx, 0, 0, 0, prog.elapsed(), err)
		return nil, err
	}
	observability.Resolve().OnGraphBuilt(ctx, len(g.Linkers()), g.NodeCount(), g.EdgeCount(), prog.elapsed(), nil)
	prog.done("Built linker graph with %d linkers", len(g.Linkers()))
	return g, nil
}

// axisLookup maps axis names to the first normalized axis with that name.
type axisLookup map[string]spec.AxisSpecNormalized

func (c *CLI) axisLookup(ctx context.Context, cols []spec.PColumnIDAndSpec) (axisLookup, error) {
	lookup := make(axisLookup)
	for _, col := range cols {
		res, err := c.normalize(ctx, col)
		if err != nil {
			return nil, err
		}
		for _, a := range res.Axes {
			if _, ok := lookup[a.Name]; !ok {
				lookup[a.Name] = a
			}
		}
	}
	return lookup, nil
}

func (l axisLookup) resolve(names []string) ([]spec.AxisSpecNormalized, error) {
	out := make([]spec.AxisSpecNormalized, 0, len(names))
	for _, name := range names {
		a, ok := l[strings.TrimSpace(name)]
		if !ok {
			return nil, perrors.New(perrors.ErrCodeInvalidInput, "axis %q not found in any column", name)
		}
		out = append(out, a)
	}
	return out, nil
}
