package catalog

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/matzehuels/pframe/pkg/anchor"
	"github.com/matzehuels/pframe/pkg/linker"
	"github.com/matzehuels/pframe/pkg/observability"
	"github.com/matzehuels/pframe/pkg/selector"
	"github.com/matzehuels/pframe/pkg/spec"
)

// enrich appends to r every non-linker column sharing an axis with what the
// anchor axes reach through the linkers already in r.
func (c *Collection) enrich(ctx context.Context, r *result, anchors *anchor.Context, excluded selector.Predicate) error {
	var linkers []spec.PColumnIDAndSpec
	for _, e := range r.entries {
		if linker.IsLinker(e.Column.Spec) {
			linkers = append(linkers, e.Column)
		}
	}
	if len(linkers) == 0 {
		return nil
	}

	start := time.Now()
	g, err := linker.Build(linkers)
	if err != nil {
		observability.Resolve().OnGraphBuilt(ctx, len(linkers), 0, 0, time.Since(start), err)
		return err
	}
	observability.Resolve().OnGraphBuilt(ctx, len(g.Linkers()), g.NodeCount(), g.EdgeCount(), time.Since(start), nil)

	sources := anchorAxes(anchors.Anchors())
	var keys []string
	for _, key := range g.Nodes() {
		tree, _ := g.NodeAxes(key)
		if len(tree) > 0 && matchesAny(tree[0].ID(), sources) {
			keys = append(keys, key)
		}
	}

	reachable := g.ReachableFromKeys(keys)
	if len(reachable) == 0 {
		observability.Catalog().OnEnrich(ctx, 0, 0)
		return nil
	}
	targets := make([]spec.AxisID, len(reachable))
	for i, a := range reachable {
		targets[i] = a.ID()
	}

	extra, err := c.match(func(s spec.PColumnSpec) bool {
		if !s.IsPColumn() || linker.IsLinker(s) || excluded(s) {
			return false
		}
		return slices.ContainsFunc(s.AxesSpec, func(a spec.AxisSpec) bool {
			return matchesAny(a.ID(), targets)
		})
	})
	if err != nil {
		return err
	}

	before := len(r.entries)
	if err := r.add(extra...); err != nil {
		return err
	}
	observability.Catalog().OnEnrich(ctx, len(reachable), len(r.entries)-before)
	return nil
}

// anchorAxes returns the axis ids of every anchor in anchor name order.
func anchorAxes(anchors map[string]spec.PColumnSpec) []spec.AxisID {
	var out []spec.AxisID
	for _, name := range slices.Sorted(maps.Keys(anchors)) {
		out = append(out, spec.AxesID(anchors[name].AxesSpec)...)
	}
	return out
}

// looseMatch reports whether either axis is compatible with the other.
func looseMatch(a, b spec.AxisID) bool {
	return spec.AxisCompatible(a, b) || spec.AxisCompatible(b, a)
}

func matchesAny(id spec.AxisID, list []spec.AxisID) bool {
	return slices.ContainsFunc(list, func(other spec.AxisID) bool { return looseMatch(id, other) })
}
