package anchor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/matzehuels/pframe/pkg/errors"
	"github.com/matzehuels/pframe/pkg/selector"
	"github.com/matzehuels/pframe/pkg/spec"
)

var (
	sampleAxis = spec.AxisSpec{Type: spec.ValueTypeString, Name: "sample", Domain: map[string]string{spec.DomainBlockID: "b1"}}
	cloneAxis  = spec.AxisSpec{Type: spec.ValueTypeString, Name: "clonotype", Domain: map[string]string{"pl7.app/chain": "A"}}
	geneAxis   = spec.AxisSpec{Type: spec.ValueTypeString, Name: "gene"}
)

func anchors() map[string]spec.PColumnSpec {
	return map[string]spec.PColumnSpec{
		"main": {
			Kind:      spec.KindPColumn,
			Name:      "counts",
			ValueType: spec.ValueTypeInt,
			Domain:    map[string]string{spec.DomainBlockID: "b1", "pl7.app/chain": "A"},
			AxesSpec:  []spec.AxisSpec{sampleAxis, cloneAxis},
		},
		"species": {
			Kind:      spec.KindPColumn,
			Name:      "taxonomy",
			ValueType: spec.ValueTypeString,
			Domain:    map[string]string{"pl7.app/species": "human"},
			AxesSpec:  []spec.AxisSpec{geneAxis},
		},
	}
}

func column(domain map[string]string, axes ...spec.AxisSpec) spec.PColumnSpec {
	return spec.PColumnSpec{
		Kind:      spec.KindPColumn,
		Name:      "abundance",
		ValueType: spec.ValueTypeDouble,
		Domain:    domain,
		AxesSpec:  axes,
	}
}

func TestDerive_DomainPack(t *testing.T) {
	ctx := NewContext(anchors())
	id := ctx.Derive(column(
		map[string]string{spec.DomainBlockID: "b1", "pl7.app/chain": "A", "pl7.app/extra": "x"},
		sampleAxis, cloneAxis,
	))

	assert.Equal(t, "main", id.DomainAnchor)
	assert.Equal(t, map[string]DomainValue{"pl7.app/extra": Literal("x")}, id.Domain)
	assert.Equal(t, []AxisRef{AxisByIdx("main", 0), AxisByIdx("main", 1)}, id.Axes)
}

// A pack whose keys are missing is skipped and later packs are still tried.
func TestDerive_SkipsIncompletePack(t *testing.T) {
	// Known difference: the upstream model stops at the first incomplete pack; Derive tries the next one.
	ctx := NewContext(anchors())
	id := ctx.Derive(column(map[string]string{"pl7.app/species": "human", spec.DomainBlockID: "b2"}, geneAxis))

	assert.Equal(t, "species", id.DomainAnchor)
	assert.Equal(t, map[string]DomainValue{spec.DomainBlockID: Literal("b2")}, id.Domain)
	assert.Equal(t, []AxisRef{AxisByIdx("species", 0)}, id.Axes)
}

func TestDerive_PackValuesMustMatch(t *testing.T) {
	ctx := NewContext(anchors())
	id := ctx.Derive(column(map[string]string{spec.DomainBlockID: "b9", "pl7.app/chain": "A"}))

	assert.Empty(t, id.DomainAnchor)
	assert.Equal(t, map[string]DomainValue{
		spec.DomainBlockID: Literal("b9"),
		"pl7.app/chain":    AnchorDomain("main"),
	}, id.Domain)
	assert.NotNil(t, id.Axes)
	assert.Empty(t, id.Axes)
}

func TestDerive_LiteralAxes(t *testing.T) {
	ctx := NewContext(anchors())
	other := spec.AxisSpec{Type: spec.ValueTypeInt, Name: "well", Annotations: map[string]string{spec.AnnotationLabel: "Well"}}
	id := ctx.Derive(column(nil, other))

	require.Len(t, id.Axes, 1)
	assert.Equal(t, AxisRefID, id.Axes[0].Kind)
	assert.Equal(t, "well", id.Axes[0].ID.Name)
	assert.Nil(t, id.Domain)
}

func TestNewContext_LaterAnchorWins(t *testing.T) {
	shared := spec.AxisSpec{Type: spec.ValueTypeString, Name: "sample"}
	ctx := NewContext(map[string]spec.PColumnSpec{
		"b": {Name: "second", AxesSpec: []spec.AxisSpec{geneAxis, shared}, Domain: map[string]string{"k": "v"}},
		"a": {Name: "first", AxesSpec: []spec.AxisSpec{shared}, Domain: map[string]string{"k": "v"}},
	})

	id := ctx.Derive(column(map[string]string{"k": "v"}, shared))
	assert.Equal(t, "b", id.DomainAnchor)
	assert.Equal(t, []AxisRef{AxisByIdx("b", 1)}, id.Axes)
}

func TestDeriveSliced(t *testing.T) {
	ctx := NewContext(anchors())
	col := column(nil, sampleAxis, cloneAxis, geneAxis)

	u, err := ctx.DeriveSliced(col, []AxisFilter{
		FilterByName("gene", "TP53"),
		FilterByIndex(0, "s1"),
	})
	require.NoError(t, err)
	require.True(t, u.IsSliced())
	assert.Equal(t, []AxisFilterByIdx{{Index: 0, Value: "s1"}, {Index: 2, Value: "TP53"}}, u.Filters)

	plain, err := ctx.DeriveSliced(col, nil)
	require.NoError(t, err)
	assert.False(t, plain.IsSliced())
}

func TestDeriveSliced_Errors(t *testing.T) {
	ctx := NewContext(anchors())
	col := column(nil, sampleAxis, cloneAxis)

	tests := []struct {
		name   string
		filter AxisFilter
		msg    string
	}{
		{"index past end", FilterByIndex(2, 1), "Axis index 2 is out of bounds (0-1)"},
		{"negative index", FilterByIndex(-1, 1), "Axis index -1 is out of bounds"},
		{"unknown name", FilterByName("well", 1), `Axis with name "well" not found`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ctx.DeriveSliced(col, []AxisFilter{tt.filter})
			require.Error(t, err)
			assert.True(t, perrors.Is(err, perrors.ErrCodeOutOfRange))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestDeriveCanonical(t *testing.T) {
	ctx := NewContext(anchors())
	col := column(map[string]string{spec.DomainBlockID: "b1", "pl7.app/chain": "A"}, sampleAxis, geneAxis)

	got, err := ctx.DeriveCanonical(col)
	require.NoError(t, err)
	want := `{"axes":[{"anchor":"main","idx":0},{"anchor":"species","idx":0}],"domainAnchor":"main","name":"abundance"}`
	assert.Equal(t, want, got)

	sliced, err := ctx.DeriveCanonical(col, FilterByIndex(1, "TP53"), FilterByIndex(0, 3))
	require.NoError(t, err)
	assert.Equal(t, `{"axisFilters":[[0,3],[1,"TP53"]],"source":`+want+`}`, sliced)

	for i := 0; i < 10; i++ {
		again, err := ctx.DeriveCanonical(col)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}
}

func TestDeriveCanonical_DomainOrderIndependent(t *testing.T) {
	ctx := NewContext(anchors())
	d1 := map[string]string{}
	d2 := map[string]string{}
	keys := []string{"z", "a", "m", "pl7.app/chain"}
	for _, k := range keys {
		d1[k] = "v-" + k
	}
	for i := len(keys) - 1; i >= 0; i-- {
		d2[keys[i]] = "v-" + keys[i]
	}

	s1, err := ctx.DeriveCanonical(column(d1, cloneAxis))
	require.NoError(t, err)
	s2, err := ctx.DeriveCanonical(column(d2, cloneAxis))
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
}

func TestParseCanonical(t *testing.T) {
	ctx := NewContext(anchors())
	col := column(map[string]string{"pl7.app/species": "human", "x": "y"}, geneAxis, spec.AxisSpec{Type: spec.ValueTypeInt, Name: "well"})

	for _, filters := range [][]AxisFilter{nil, {FilterByIndex(1, 42)}} {
		s, err := ctx.DeriveCanonical(col, filters...)
		require.NoError(t, err)

		u, err := ParseCanonical(s)
		require.NoError(t, err)
		assert.Equal(t, len(filters) > 0, u.IsSliced())
		assert.Equal(t, s, u.String())
	}

	_, err := ParseCanonical(`{"name":`)
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidFormat))
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		sel  Selector
		code perrors.Code
	}{
		{"unknown domain anchor", Selector{DomainAnchor: "nope"}, perrors.ErrCodeAnchorNotFound},
		{"unknown domain ref anchor", Selector{Domain: map[string]DomainValue{"k": AnchorDomain("nope")}}, perrors.ErrCodeAnchorNotFound},
		{"domain key absent in anchor", Selector{Domain: map[string]DomainValue{"k": AnchorDomain("main")}}, perrors.ErrCodeOutOfRange},
		{"unknown axis anchor", Selector{Axes: []AxisRef{AxisByIdx("nope", 0)}}, perrors.ErrCodeAnchorNotFound},
		{"axis index past end", Selector{Axes: []AxisRef{AxisByIdx("main", 2)}}, perrors.ErrCodeOutOfRange},
		{"axis index negative", Selector{Axes: []AxisRef{AxisByIdx("main", -1)}}, perrors.ErrCodeOutOfRange},
		{"axis name absent", Selector{Axes: []AxisRef{AxisByName("main", "gene")}}, perrors.ErrCodeAmbiguousAxisReference},
		{"axis name twice", Selector{Axes: []AxisRef{AxisByName("dup", "x")}}, perrors.ErrCodeAmbiguousAxisReference},
		{
			"matcher absent",
			Selector{Axes: []AxisRef{AxisByMatcher("main", spec.AxisID{Name: "gene"})}},
			perrors.ErrCodeAmbiguousAxisReference,
		},
		{
			"matcher twice",
			Selector{Axes: []AxisRef{AxisByMatcher("dup", spec.AxisID{Name: "x", Domain: map[string]string{"k": "1", "j": "2"}})}},
			perrors.ErrCodeAmbiguousAxisReference,
		},
	}

	set := anchors()
	set["dup"] = spec.PColumnSpec{AxesSpec: []spec.AxisSpec{
		{Type: spec.ValueTypeString, Name: "x", Domain: map[string]string{"k": "1"}},
		{Type: spec.ValueTypeString, Name: "x", Domain: map[string]string{"j": "2"}},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(set, tt.sel)
			require.Error(t, err)
			assert.Equal(t, tt.code, perrors.GetCode(err), err.Error())
		})
	}
}

func TestResolve_AxisReferences(t *testing.T) {
	set := anchors()
	got, err := Resolve(set, Selector{
		Name: "abundance",
		Axes: []AxisRef{
			AxisByIdx("main", 1),
			AxisByName("species", "gene"),
			AxisByMatcher("main", spec.AxisID{Name: "sample", Domain: map[string]string{spec.DomainBlockID: "b1", "extra": "1"}}),
			AxisIDRef(spec.AxisID{Type: spec.ValueTypeInt, Name: "well"}),
		},
	})
	require.NoError(t, err)

	require.Len(t, got.Axes, 4)
	assert.Equal(t, selector.FromAxisID(cloneAxis.ID()), got.Axes[0])
	assert.Equal(t, selector.FromAxisID(geneAxis.ID()), got.Axes[1])
	assert.Equal(t, selector.FromAxisID(sampleAxis.ID()), got.Axes[2])
	assert.Equal(t, "well", *got.Axes[3].Name)
}

func TestResolve_ExplicitDomainWins(t *testing.T) {
	got, err := Resolve(anchors(), Selector{
		DomainAnchor: "main",
		Domain: map[string]DomainValue{
			"pl7.app/chain":   Literal("B"),
			"pl7.app/species": AnchorDomain("species"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		spec.DomainBlockID: "b1",
		"pl7.app/chain":    "B",
		"pl7.app/species":  "human",
	}, got.Domain)
}

func TestResolve_PassesCriteriaThrough(t *testing.T) {
	got, err := Resolve(anchors(), Selector{
		NamePattern:        "^abund",
		Type:               selector.Types{spec.ValueTypeDouble},
		PartialAxesMatch:   true,
		Annotations:        map[string]string{"a": "b"},
		AnnotationPatterns: map[string]string{"c": "d"},
		MatchStrategy:      selector.TakeFirst,
	})
	require.NoError(t, err)
	assert.Equal(t, "^abund", got.NamePattern)
	assert.Equal(t, selector.Types{spec.ValueTypeDouble}, got.Type)
	assert.True(t, got.PartialAxesMatch)
	assert.Equal(t, selector.TakeFirst, got.MatchStrategy)
	assert.Nil(t, got.Domain)
	assert.Nil(t, got.Axes)
}

func TestResolveDeriveIdentity(t *testing.T) {
	ctx := NewContext(anchors())
	cols := []spec.PColumnSpec{
		column(map[string]string{spec.DomainBlockID: "b1", "pl7.app/chain": "A"}, sampleAxis, cloneAxis),
		column(map[string]string{"pl7.app/species": "human", "extra": "1"}, geneAxis, sampleAxis),
		column(map[string]string{"pl7.app/chain": "A"}, spec.AxisSpec{Type: spec.ValueTypeLong, Name: "cell"}),
		column(nil),
	}

	for _, col := range cols {
		sel, err := ctx.Resolve(ctx.Derive(col).Selector())
		require.NoError(t, err)

		ok, err := selector.MatchColumn(col, sel)
		require.NoError(t, err)
		assert.True(t, ok, "resolved selector does not match %s", col.Name)

		if len(col.Domain) == 0 {
			assert.Empty(t, sel.Domain)
		} else {
			assert.Equal(t, col.Domain, sel.Domain)
		}
		require.Len(t, sel.Axes, len(col.AxesSpec))
		for i, a := range col.AxesSpec {
			assert.Equal(t, selector.FromAxisID(a.ID()), sel.Axes[i])
		}
	}
}

func TestHasAnchors(t *testing.T) {
	assert.False(t, HasAnchors(Selector{Name: "x", Domain: map[string]DomainValue{"k": Literal("v")}}))
	assert.False(t, HasAnchors(Selector{Axes: []AxisRef{AxisIDRef(spec.AxisID{Name: "a"})}}))
	assert.True(t, HasAnchors(Selector{DomainAnchor: "main"}))
	assert.True(t, HasAnchors(Selector{Domain: map[string]DomainValue{"k": AnchorDomain("main")}}))
	assert.True(t, HasAnchors(Selector{Axes: []AxisRef{AxisByName("main", "sample")}}))
}

func TestSelectorJSON(t *testing.T) {
	doc := `{
		"namePattern": "^abund",
		"type": ["Double", "Float"],
		"domainAnchor": "main",
		"domain": {"pl7.app/species": {"anchor": "species"}, "k": "v"},
		"axes": [
			{"anchor": "main", "idx": 0},
			{"anchor": "main", "name": "clonotype"},
			{"anchor": "species", "id": {"type": "String", "name": "gene"}},
			{"type": "Int", "name": "well"}
		],
		"matchStrategy": "expectMultiple"
	}`

	var sel Selector
	require.NoError(t, json.Unmarshal([]byte(doc), &sel))

	assert.Equal(t, AnchorDomain("species"), sel.Domain["pl7.app/species"])
	assert.Equal(t, Literal("v"), sel.Domain["k"])
	require.Len(t, sel.Axes, 4)
	assert.Equal(t, AxisByIdx("main", 0), sel.Axes[0])
	assert.Equal(t, AxisByName("main", "clonotype"), sel.Axes[1])
	assert.Equal(t, AxisByMatcher("species", spec.AxisID{Type: spec.ValueTypeString, Name: "gene"}), sel.Axes[2])
	assert.Equal(t, AxisIDRef(spec.AxisID{Type: spec.ValueTypeInt, Name: "well"}), sel.Axes[3])
	assert.Equal(t, selector.ExpectMultiple, sel.MatchStrategy)

	resolved, err := Resolve(anchors(), sel)
	require.NoError(t, err)
	assert.Equal(t, "human", resolved.Domain["pl7.app/species"])
	assert.Equal(t, "b1", resolved.Domain[spec.DomainBlockID])
}

func TestAxisRefJSON_Invalid(t *testing.T) {
	for _, doc := range []string{`{"anchor":"main"}`, `{"type":"Int"}`, `[]`} {
		var r AxisRef
		assert.Error(t, json.Unmarshal([]byte(doc), &r), doc)
	}

	var d DomainValue
	assert.Error(t, json.Unmarshal([]byte(`{"other":"x"}`), &d))
}
