package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pframe/pkg/anchor"
	perrors "github.com/matzehuels/pframe/pkg/errors"
	"github.com/matzehuels/pframe/pkg/hierarchy"
	pio "github.com/matzehuels/pframe/pkg/io"
	"github.com/matzehuels/pframe/pkg/observability"
	"github.com/matzehuels/pframe/pkg/spec"
)

// loadColumns reads every column file concurrently and returns the merged
// list in argument order.
func (c *CLI) loadColumns(ctx context.Context, paths []string) ([]spec.PColumnIDAndSpec, error) {
	prog := newProgress(loggerFromContext(ctx))
	cols, err := pio.ReadFiles(ctx, paths...)
	if err != nil {
		return nil, err
	}
	prog.done("Loaded %d columns from %d files", len(cols), len(paths))
	return cols, nil
}

// loadAnchors reads the anchors file named by path, falling back to the
// configured one. It returns nil when neither is set.
func (c *CLI) loadAnchors(ctx context.Context, path string) (*anchor.Context, error) {
	if path == "" {
		path = c.cfg.Anchors
	}
	if path == "" {
		return nil, nil
	}
	anchors, err := pio.ImportAnchors(path)
	if err != nil {
		return nil, err
	}
	loggerFromContext(ctx).Debug("loaded anchors", "path", path, "count", len(anchors))
	return anchor.NewContext(anchors), nil
}

// requireAnchors is loadAnchors for commands that cannot run without them.
func (c *CLI) requireAnchors(ctx context.Context, path string) (*anchor.Context, error) {
	actx, err := c.loadAnchors(ctx, path)
	if err != nil {
		return nil, err
	}
	if actx == nil {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "no anchors: pass --anchors or set anchors in the config file")
	}
	return actx, nil
}

// normalize resolves the axes of one column and reports the outcome to the
// hooks. A parent cycle is a warning unless strict mode is on.
func (c *CLI) normalize(ctx context.Context, col spec.PColumnIDAndSpec) (hierarchy.Result, error) {
	start := time.Now()
	res, err := hierarchy.Normalize(col.Spec.AxesSpec)
	observability.Resolve().OnNormalize(ctx, string(col.ColumnID), len(col.Spec.AxesSpec), time.Since(start), err)
	if err != nil {
		return res, fmt.Errorf("column %s: %w", col.ColumnID, err)
	}
	if res.CycleDetected {
		observability.Resolve().OnCycleDetected(ctx, string(col.ColumnID))
		if c.strict {
			return res, perrors.New(perrors.ErrCodeCycleDetected, "column %s: parent axes form a cycle", col.ColumnID)
		}
		loggerFromContext(ctx).Warn("parent cycle, hierarchy flattened", "column", col.ColumnID)
	}
	return res, nil
}

// writeResult encodes v to stdout in the selected output format.
func (c *CLI) writeResult(cmd *cobra.Command, v any) error {
	return pio.Write(cmd.OutOrStdout(), c.output, v)
}
