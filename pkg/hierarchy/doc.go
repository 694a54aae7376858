// Package hierarchy normalizes the parent structure of an axis list.
//
// # Overview
//
// Parents of an axis can arrive in two encodings: positional indices
// ([spec.AxisSpec.ParentAxes]) or a JSON list stored under the
// [spec.AnnotationParents] annotation. [Normalize] resolves both into one
// internal index form at the boundary (indices win when both are present),
// checks the resulting graph for cycles, and materializes each axis's
// parents as a deep-sorted tree of [spec.AxisSpecNormalized]:
//
//	res, err := hierarchy.Normalize(col.AxesSpec)
//	if err != nil {
//	    return err // MALFORMED_HIERARCHY
//	}
//	if res.CycleDetected {
//	    log.Warn("parent cycle, hierarchy flattened")
//	}
//
// Parents are sorted by name, type, domain, parent-chain signature and
// annotations, so two lists describing the same hierarchy in a different
// order produce identical [Signature] values per axis.
//
// # Cycles
//
// A parent cycle anywhere in the list flattens the whole list: every axis
// is returned with no parents and [Result.CycleDetected] is set. The cyclic
// subset is not isolated.
//
// # Denormalization
//
// [Denormalize] recomputes parent indices for a list that was normalized
// from the same array. It is not a general way to attach parents to an
// unrelated list.
package hierarchy
