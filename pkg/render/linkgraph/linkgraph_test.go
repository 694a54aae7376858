package linkgraph

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pframe/pkg/linker"
	"github.com/matzehuels/pframe/pkg/spec"
)

func ax(name string, parents ...int) spec.AxisSpec {
	return spec.AxisSpec{Type: spec.ValueTypeString, Name: name, ParentAxes: append([]int{}, parents...)}
}

func linkerCol(id, name string, axes ...spec.AxisSpec) spec.PColumnIDAndSpec {
	return spec.PColumnIDAndSpec{
		ColumnID: spec.PObjectID(id),
		Spec: spec.PColumnSpec{
			Kind:        spec.KindPColumn,
			Name:        name,
			ValueType:   spec.ValueTypeString,
			Annotations: map[string]string{spec.AnnotationIsLinkerColumn: "true"},
			AxesSpec:    axes,
		},
	}
}

func graph(t *testing.T) *linker.Graph {
	t.Helper()
	g, err := linker.Build([]spec.PColumnIDAndSpec{
		linkerCol("l1", "sampleToClone", ax("sample"), ax("clonotype"), ax("chain", 1)),
		linkerCol("l2", "cloneToGene", ax("clonotype"), ax("gene")),
	})
	require.NoError(t, err)
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(graph(t), Options{})

	assert.True(t, strings.HasPrefix(dot, "graph G {\n"))
	assert.True(t, strings.HasSuffix(dot, "}\n"))
	assert.Equal(t, 6, strings.Count(dot, "[label="), "four nodes and two edges")
	assert.Equal(t, 2, strings.Count(dot, " -- "), "each undirected edge once")
	assert.Contains(t, dot, `label="sampleToClone"`)
	assert.Contains(t, dot, `label="cloneToGene"`)
	assert.Contains(t, dot, `label="chain\n(clonotype)"`)
	assert.NotContains(t, dot, `"type"`)
}

func TestToDOT_Deterministic(t *testing.T) {
	first := ToDOT(graph(t), Options{Detailed: true})
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ToDOT(graph(t), Options{Detailed: true}))
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(graph(t), Options{Detailed: true})
	assert.Contains(t, dot, `{\"name\":\"gene\",\"type\":\"String\"}`)
	assert.Contains(t, dot, `label="cloneToGene\nl2"`)
}

func TestToDOT_Empty(t *testing.T) {
	g, err := linker.Build(nil)
	require.NoError(t, err)
	dot := ToDOT(g, Options{})
	assert.NotContains(t, dot, "--")
	assert.NotContains(t, dot, "[label=")
}

func TestRenderSVG(t *testing.T) {
	svg, err := Render(context.Background(), graph(t), Options{})
	require.NoError(t, err)
	assert.Contains(t, string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)
	assert.Contains(t, string(svg), "cloneToGene")
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	_, err := RenderSVG(context.Background(), "graph {")
	assert.Error(t, err)
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "rewrites root",
			in:   `<svg width="10pt" viewBox="0.00 0.00 120.50 80.00"><g/></svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 120.50 80.00" width="120" height="80"><g/></svg>`,
		},
		{
			name: "no viewBox",
			in:   `<svg><g/></svg>`,
			want: `<svg><g/></svg>`,
		},
		{
			name: "zero size",
			in:   `<svg viewBox="0 0 0 10"></svg>`,
			want: `<svg viewBox="0 0 0 10"></svg>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(normalizeViewBox([]byte(tt.in))); got != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", got, tt.want)
			}
		})
	}
}
