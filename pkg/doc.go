// Package pkg provides the core libraries for PFrame column identity and
// resolution.
//
// # Overview
//
// A PFrame is a set of columns, each keyed by typed axes. Axes may declare
// parent axes; linker columns join two otherwise unrelated axis groups. The
// pkg directory is organized into three areas:
//
//  1. Model - [spec] (columns, axes, axis identity) and [canonical]
//  2. Resolution - [hierarchy], [axes], [linker], [anchor], [selector]
//     and [catalog]
//  3. Support - [io], [config], [errors], [observability], [render]
//     and [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	column specs (JSON/YAML)
//	         ↓
//	    [io] package (decode, assign ids)
//	         ↓
//	    [hierarchy] package (resolve parents, detect cycles)
//	         ↓
//	    [axes] package (trees, groups, roots)
//	         ↓
//	    [linker] package (linker graph, shortest paths)
//	         ↓
//	    [anchor] / [catalog] packages (anchored ids, selection)
//
// # Quick Start
//
// Find the linker columns joining two axes:
//
//	import (
//	    "github.com/matzehuels/pframe/pkg/hierarchy"
//	    "github.com/matzehuels/pframe/pkg/io"
//	    "github.com/matzehuels/pframe/pkg/linker"
//	)
//
//	cols, _ := io.ImportColumns("columns.yaml")
//	g, _ := linker.Build(cols)
//
//	from := hierarchy.MustNormalize(cols[0].Spec.AxesSpec)[:1]
//	to := hierarchy.MustNormalize(cols[2].Spec.AxesSpec)[:1]
//	linkers, _ := g.LinkersForAxes(from, to, false)
//
// Every core package is pure and synchronous: snapshots are immutable after
// construction and safe for concurrent readers.
package pkg
