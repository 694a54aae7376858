// Package selector evaluates axis and column predicates.
//
// A [ColumnSelector] lists optional criteria (name or name pattern, value
// type, domain entries, axes, annotations and annotation patterns); a
// column matches when every present criterion holds. Absent criteria are
// vacuously satisfied:
//
//	ok, err := selector.MatchColumn(col, selector.ColumnSelector{
//	    NamePattern: "^abundance",
//	    Axes:        []selector.AxisSelector{{Name: ptr("sample")}},
//	    PartialAxesMatch: true,
//	})
//
// [MatchColumn] reports invalid selectors (bad regular expressions, name and
// name pattern both set) as errors. [Matches] and [ToPredicate] never fail;
// an invalid selector simply matches nothing.
//
// Selectors carry a [MatchStrategy] that tells callers how many matches to
// expect. The strategy does not affect matching itself.
package selector
