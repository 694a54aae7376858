package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pframe/pkg/anchor"
	"github.com/matzehuels/pframe/pkg/catalog"
	pio "github.com/matzehuels/pframe/pkg/io"
	"github.com/matzehuels/pframe/pkg/spec"
)

// selectOpts holds the command-line flags for the select command.
type selectOpts struct {
	selectors string // selectors file
	anchors   string // anchors file, config default when empty
	exclude   string // selectors file of columns to drop
	enrich    bool   // add columns reachable from anchor axes through linkers
}

// selectCommand creates the select command.
func (c *CLI) selectCommand() *cobra.Command {
	var opts selectOpts

	cmd := &cobra.Command{
		Use:   "select --selector <file> [--anchors <file>] <columns-file>...",
		Short: "Select columns by (anchored) selectors",
		Long: `Select the columns matched by any selector, drop excluded ones and
deduplicate columns with identical specs. Each selector's matchStrategy
(expectSingle, expectMultiple, takeFirst) limits its matches.

With anchors, entries carry their canonical anchored id. --enrich adds the
columns whose axes are reachable from the anchor axes through linkers.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sels, err := pio.ImportSelectors(opts.selectors)
			if err != nil {
				return err
			}
			var exclude []anchor.Selector
			if opts.exclude != "" {
				if exclude, err = pio.ImportSelectors(opts.exclude); err != nil {
					return err
				}
			}
			actx, err := c.loadAnchors(ctx, opts.anchors)
			if err != nil {
				return err
			}
			cols, err := c.loadColumns(ctx, args)
			if err != nil {
				return err
			}

			entries, err := catalog.New(cols...).Select(ctx, sels, catalog.Options{
				Anchors:         actx,
				Exclude:         exclude,
				EnrichByLinkers: opts.enrich,
			})
			if err != nil {
				return err
			}
			if entries == nil {
				entries = []catalog.Entry{}
			}

			if err := c.writeResult(cmd, entries); err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo(cmd.ErrOrStderr(), "No columns matched")
				return nil
			}
			printSuccess(cmd.ErrOrStderr(), "Selected %d of %d columns", len(entries), len(cols))
			for _, e := range entries {
				if spec.IsLabelColumn(e.Column.Spec) {
					printDetail(cmd.ErrOrStderr(), "%s  %s  (labels)", e.Column.Spec.Name, e.Column.ColumnID)
					continue
				}
				printDetail(cmd.ErrOrStderr(), "%s  %s", e.Column.Spec.Name, e.Column.ColumnID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.selectors, "selector", "", "selectors file (one selector or a list)")
	cmd.Flags().StringVar(&opts.anchors, "anchors", "", "anchors file (default from config)")
	cmd.Flags().StringVar(&opts.exclude, "exclude", "", "selectors file of columns to exclude")
	cmd.Flags().BoolVar(&opts.enrich, "enrich", false, "add columns linked to the anchor axes")
	_ = cmd.MarkFlagRequired("selector")
	return cmd
}
