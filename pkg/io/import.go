package io

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pframe/pkg/anchor"
	"github.com/matzehuels/pframe/pkg/canonical"
	perrors "github.com/matzehuels/pframe/pkg/errors"
	"github.com/matzehuels/pframe/pkg/spec"
)

// Namespace is the UUID namespace of generated column ids.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/pframe/column"))

// ColumnID returns the deterministic id of a bare spec.
func ColumnID(s spec.PColumnSpec) spec.PObjectID {
	return spec.PObjectID(uuid.NewSHA1(Namespace, []byte(canonical.MustMarshal(s))).String())
}

// columnEntry decodes either a PColumnIDAndSpec or a bare PColumnSpec.
type columnEntry spec.PColumnIDAndSpec

func (e *columnEntry) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Spec json.RawMessage `json:"spec"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	if envelope.Spec != nil {
		return json.Unmarshal(data, (*spec.PColumnIDAndSpec)(e))
	}

	var s spec.PColumnSpec
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s.Kind == "" {
		s.Kind = spec.KindPColumn
	}
	*e = columnEntry{ColumnID: ColumnID(s), Spec: s}
	return nil
}

func (e columnEntry) validate(i int) error {
	if e.Spec.Kind != "" && !e.Spec.IsPColumn() {
		return perrors.New(perrors.ErrCodeInvalidInput, "column %d: kind %q is not %s", i, e.Spec.Kind, spec.KindPColumn)
	}
	if e.ColumnID == "" {
		return perrors.New(perrors.ErrCodeInvalidInput, "column %d (%s): empty columnId", i, e.Spec.Name)
	}
	if e.Spec.ValueType != "" && !e.Spec.ValueType.Valid() {
		return perrors.New(perrors.ErrCodeInvalidInput, "column %s: unknown value type %q", e.ColumnID, e.Spec.ValueType)
	}
	return nil
}

// ReadColumns decodes a list of columns in format f from r. An empty kind
// defaults to PColumn.
func ReadColumns(r io.Reader, f Format) ([]spec.PColumnIDAndSpec, error) {
	var entries []columnEntry
	if err := decode(r, f, &entries); err != nil {
		return nil, err
	}
	out := make([]spec.PColumnIDAndSpec, len(entries))
	for i, e := range entries {
		if err := e.validate(i); err != nil {
			return nil, err
		}
		if e.Spec.Kind == "" {
			e.Spec.Kind = spec.KindPColumn
		}
		out[i] = spec.PColumnIDAndSpec(e)
	}
	return out, nil
}

// ImportColumns reads the columns file at path.
func ImportColumns(path string) ([]spec.PColumnIDAndSpec, error) {
	var cols []spec.PColumnIDAndSpec
	err := withFile(path, func(r io.Reader, f Format) error {
		var err error
		cols, err = ReadColumns(r, f)
		return err
	})
	return cols, err
}

// ReadFiles imports every columns file concurrently and concatenates the
// results in argument order. The first failure cancels the rest.
func ReadFiles(ctx context.Context, paths ...string) ([]spec.PColumnIDAndSpec, error) {
	results := make([][]spec.PColumnIDAndSpec, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cols, err := ImportColumns(path)
			if err != nil {
				return err
			}
			results[i] = cols
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []spec.PColumnIDAndSpec
	for _, cols := range results {
		out = append(out, cols...)
	}
	return out, nil
}

// ReadAnchors decodes an anchor set: an object mapping anchor names to
// column specs, bare or with id.
func ReadAnchors(r io.Reader, f Format) (map[string]spec.PColumnSpec, error) {
	var raw map[string]columnEntry
	if err := decode(r, f, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]spec.PColumnSpec, len(raw))
	for name, e := range raw {
		if err := perrors.ValidateAnchorName(name); err != nil {
			return nil, err
		}
		out[name] = e.Spec
	}
	return out, nil
}

// ImportAnchors reads the anchors file at path.
func ImportAnchors(path string) (map[string]spec.PColumnSpec, error) {
	var anchors map[string]spec.PColumnSpec
	err := withFile(path, func(r io.Reader, f Format) error {
		var err error
		anchors, err = ReadAnchors(r, f)
		return err
	})
	return anchors, err
}

// ReadSelectors decodes one anchored selector or a list of them.
func ReadSelectors(r io.Reader, f Format) ([]anchor.Selector, error) {
	var raw json.RawMessage
	if err := decode(r, f, &raw); err != nil {
		return nil, err
	}

	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		var list []anchor.Selector
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "decode selectors")
		}
		return list, nil
	}
	var one anchor.Selector
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "decode selector")
	}
	return []anchor.Selector{one}, nil
}

// ImportSelectors reads the selectors file at path.
func ImportSelectors(path string) ([]anchor.Selector, error) {
	var sels []anchor.Selector
	err := withFile(path, func(r io.Reader, f Format) error {
		var err error
		sels, err = ReadSelectors(r, f)
		return err
	})
	return sels, err
}

func withFile(path string, fn func(io.Reader, Format) error) error {
	if err := perrors.ValidatePath(path); err != nil {
		return err
	}
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return perrors.Wrap(perrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if err := fn(file, f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
