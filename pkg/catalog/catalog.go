package catalog

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/matzehuels/pframe/pkg/anchor"
	"github.com/matzehuels/pframe/pkg/canonical"
	perrors "github.com/matzehuels/pframe/pkg/errors"
	"github.com/matzehuels/pframe/pkg/observability"
	"github.com/matzehuels/pframe/pkg/selector"
	"github.com/matzehuels/pframe/pkg/spec"
)

// Entry is one selected column.
type Entry struct {
	ID     string                `json:"id"`
	Column spec.PColumnIDAndSpec `json:"column"`
}

// Options control a selection.
type Options struct {
	// Anchors resolves anchored selectors and derives entry ids. Without it,
	// anchored selectors are rejected and entries use the column id.
	Anchors *anchor.Context

	// Exclude drops every column matched by any of these selectors.
	Exclude []anchor.Selector

	// EnrichByLinkers appends columns reachable from the anchor axes through
	// the linker columns among the results. It needs Anchors.
	EnrichByLinkers bool
}

// Collection is an ordered set of columns. It is not safe for concurrent
// mutation; concurrent selections on an unchanged collection are safe.
type Collection struct {
	columns []spec.PColumnIDAndSpec
}

// New returns a collection holding columns.
func New(columns ...spec.PColumnIDAndSpec) *Collection {
	return &Collection{columns: slices.Clone(columns)}
}

// Add appends columns and returns c.
func (c *Collection) Add(columns ...spec.PColumnIDAndSpec) *Collection {
	c.columns = append(c.columns, columns...)
	return c
}

// Len returns the number of columns.
func (c *Collection) Len() int { return len(c.columns) }

// Columns returns a copy of the columns in insertion order.
func (c *Collection) Columns() []spec.PColumnIDAndSpec { return slices.Clone(c.columns) }

// NativeID returns the identity of a column independent of its object id:
// the canonical JSON of its PColumnSpecID.
func NativeID(s spec.PColumnSpec) string {
	return canonical.MustMarshal(s.ID())
}

// Select returns the columns matched by selectors, in selector order and
// then collection order.
//
// Each selector is resolved against opts.Anchors when it carries anchors
// and applies its own match strategy: expectSingle fails when more than one
// column matches, takeFirst keeps the first and expectMultiple keeps all.
func (c *Collection) Select(ctx context.Context, selectors []anchor.Selector, opts Options) ([]Entry, error) {
	start := time.Now()
	out, err := c.selectors(ctx, selectors, opts)
	observability.Catalog().OnSelect(ctx, len(selectors), len(c.columns), len(out), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SelectFunc returns the columns accepted by pred. Match strategies do not
// apply.
func (c *Collection) SelectFunc(ctx context.Context, pred selector.Predicate, opts Options) ([]Entry, error) {
	start := time.Now()
	out, err := c.predicate(ctx, pred, opts)
	observability.Catalog().OnSelect(ctx, 1, len(c.columns), len(out), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Collection) selectors(ctx context.Context, selectors []anchor.Selector, opts Options) ([]Entry, error) {
	excluded, err := excluder(ctx, opts)
	if err != nil {
		return nil, err
	}

	r := newResult(ctx, opts.Anchors)
	for i, raw := range selectors {
		sel, err := resolve(ctx, opts.Anchors, raw)
		if err != nil {
			return nil, fmt.Errorf("selector %d: %w", i, err)
		}
		m, err := selector.Compile(sel)
		if err != nil {
			return nil, fmt.Errorf("selector %d: %w", i, err)
		}

		matched, err := c.match(func(s spec.PColumnSpec) bool {
			return s.IsPColumn() && m.Match(s) && !excluded(s)
		})
		if err != nil {
			return nil, err
		}
		if matched, err = applyStrategy(sel.MatchStrategy, matched); err != nil {
			return nil, fmt.Errorf("selector %d: %w", i, err)
		}
		if err := r.add(matched...); err != nil {
			return nil, err
		}
	}

	if opts.EnrichByLinkers && opts.Anchors != nil {
		if err := c.enrich(ctx, r, opts.Anchors, excluded); err != nil {
			return nil, err
		}
	}
	return r.entries, nil
}

func (c *Collection) predicate(ctx context.Context, pred selector.Predicate, opts Options) ([]Entry, error) {
	excluded, err := excluder(ctx, opts)
	if err != nil {
		return nil, err
	}
	matched, err := c.match(func(s spec.PColumnSpec) bool { return pred(s) && !excluded(s) })
	if err != nil {
		return nil, err
	}

	r := newResult(ctx, opts.Anchors)
	if err := r.add(matched...); err != nil {
		return nil, err
	}
	if opts.EnrichByLinkers && opts.Anchors != nil {
		if err := c.enrich(ctx, r, opts.Anchors, excluded); err != nil {
			return nil, err
		}
	}
	return r.entries, nil
}

// match returns the columns accepted by keep. The same object id twice is
// an error.
func (c *Collection) match(keep selector.Predicate) ([]spec.PColumnIDAndSpec, error) {
	var out []spec.PColumnIDAndSpec
	ids := make(map[spec.PObjectID]struct{})
	for _, col := range c.columns {
		if !keep(col.Spec) {
			continue
		}
		if _, dup := ids[col.ColumnID]; dup {
			return nil, perrors.New(perrors.ErrCodeInvalidInput, "duplicate column id %s", col.ColumnID)
		}
		ids[col.ColumnID] = struct{}{}
		out = append(out, col)
	}
	return out, nil
}

func applyStrategy(s selector.MatchStrategy, matched []spec.PColumnIDAndSpec) ([]spec.PColumnIDAndSpec, error) {
	switch s.OrDefault() {
	case selector.ExpectSingle:
		if len(matched) > 1 {
			return nil, perrors.New(perrors.ErrCodeInvalidInput,
				"selector matched %d columns, expected a single one", len(matched))
		}
	case selector.TakeFirst:
		if len(matched) > 1 {
			return matched[:1], nil
		}
	case selector.ExpectMultiple:
	default:
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "unknown match strategy %q", s)
	}
	return matched, nil
}

// resolve turns raw into a plain selector. Anchored selectors need actx.
func resolve(ctx context.Context, actx *anchor.Context, raw anchor.Selector) (selector.ColumnSelector, error) {
	if !anchor.HasAnchors(raw) {
		return anchor.Resolve(nil, raw)
	}
	if actx == nil {
		return selector.ColumnSelector{}, perrors.New(perrors.ErrCodeInvalidInput,
			"anchored selector requires an anchor context")
	}
	sel, err := actx.Resolve(raw)
	observability.Anchor().OnResolve(ctx, len(actx.Anchors()), err)
	return sel, err
}

func excluder(ctx context.Context, opts Options) (selector.Predicate, error) {
	if len(opts.Exclude) == 0 {
		return func(spec.PColumnSpec) bool { return false }, nil
	}
	matchers := make([]*selector.Matcher, len(opts.Exclude))
	for i, raw := range opts.Exclude {
		sel, err := resolve(ctx, opts.Anchors, raw)
		if err != nil {
			return nil, fmt.Errorf("exclude %d: %w", i, err)
		}
		if matchers[i], err = selector.Compile(sel); err != nil {
			return nil, fmt.Errorf("exclude %d: %w", i, err)
		}
	}
	return func(s spec.PColumnSpec) bool {
		return slices.ContainsFunc(matchers, func(m *selector.Matcher) bool { return m.Match(s) })
	}, nil
}

// result accumulates entries, dropping native duplicates.
type result struct {
	ctx     context.Context
	anchors *anchor.Context
	native  map[string]struct{}
	ids     map[string]struct{}
	entries []Entry
}

func newResult(ctx context.Context, anchors *anchor.Context) *result {
	return &result{
		ctx:     ctx,
		anchors: anchors,
		native:  make(map[string]struct{}),
		ids:     make(map[string]struct{}),
	}
}

func (r *result) add(cols ...spec.PColumnIDAndSpec) error {
	for _, col := range cols {
		nid := NativeID(col.Spec)
		if _, ok := r.native[nid]; ok {
			continue
		}
		id, err := r.id(col)
		if err != nil {
			return err
		}
		if _, ok := r.ids[id]; ok {
			continue
		}
		r.native[nid] = struct{}{}
		r.ids[id] = struct{}{}
		r.entries = append(r.entries, Entry{ID: id, Column: col})
	}
	return nil
}

func (r *result) id(col spec.PColumnIDAndSpec) (string, error) {
	if r.anchors == nil {
		return string(col.ColumnID), nil
	}
	id, err := r.anchors.DeriveCanonical(col.Spec)
	observability.Anchor().OnDerive(r.ctx, col.Spec.Name, false, err)
	if err != nil {
		return "", fmt.Errorf("derive id of %s: %w", col.ColumnID, err)
	}
	return id, nil
}
