// Package io reads and writes pframe documents in JSON and YAML.
//
// # Overview
//
// The CLI works on plain files: lists of column specs, anchor sets and
// selectors. This package decodes them into the types of the core packages
// and encodes results back out. Format is chosen by file extension:
// ".json" for JSON, ".yaml" or ".yml" for YAML.
//
// YAML documents are decoded into generic values and re-encoded as JSON
// before reaching the typed decoders, so both formats accept exactly the
// same shapes, including the string-or-object forms of anchored domain
// values and axis references.
//
// # Columns
//
// A columns file is a list whose elements are either a column with its id
// or a bare spec:
//
//	[
//	  {"columnId": "c1", "spec": {"kind": "PColumn", "name": "counts", ...}},
//	  {"kind": "PColumn", "name": "abundance", ...}
//	]
//
// A bare spec receives a deterministic id, [ColumnID]: a name-based UUID
// (version 5) of its canonical JSON. The same spec always gets the same id.
//
// # Anchors and selectors
//
// An anchors file maps anchor names to column specs (bare or with id).
// A selectors file holds one anchored selector object or a list of them.
//
// # Concurrency
//
// [ReadFiles] reads several column files concurrently and returns their
// columns in argument order.
package io
