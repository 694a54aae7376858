package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks reports resolution events to the CLI logger at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnNormalize(_ context.Context, column string, axisCount int, d time.Duration, err error) {
	h.logger.Debug("normalized", "column", column, "axes", axisCount, "took", d, "err", err)
}

func (h logHooks) OnCycleDetected(_ context.Context, column string) {
	h.logger.Debug("parent cycle", "column", column)
}

func (h logHooks) OnGraphBuilt(_ context.Context, linkers, nodes, edges int, d time.Duration, err error) {
	h.logger.Debug("linker graph", "linkers", linkers, "nodes", nodes, "edges", edges, "took", d, "err", err)
}

func (h logHooks) OnLinkSearch(_ context.Context, sources, targets, linkers int, d time.Duration, err error) {
	h.logger.Debug("link search", "from", sources, "to", targets, "linkers", linkers, "took", d, "err", err)
}

func (h logHooks) OnDerive(_ context.Context, column string, sliced bool, err error) {
	h.logger.Debug("derived id", "column", column, "sliced", sliced, "err", err)
}

func (h logHooks) OnResolve(_ context.Context, anchors int, err error) {
	h.logger.Debug("resolved selector", "anchors", anchors, "err", err)
}

func (h logHooks) OnSelect(_ context.Context, selectors, candidates, matched int, d time.Duration, err error) {
	h.logger.Debug("selected", "selectors", selectors, "candidates", candidates, "matched", matched, "took", d, "err", err)
}

func (h logHooks) OnEnrich(_ context.Context, reachableAxes, added int) {
	h.logger.Debug("enriched", "reachable", reachableAxes, "added", added)
}
