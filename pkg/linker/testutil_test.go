package linker

import (
	"github.com/matzehuels/pframe/pkg/hierarchy"
	"github.com/matzehuels/pframe/pkg/spec"
)

func ax(name string, parents ...int) spec.AxisSpec {
	return spec.AxisSpec{
		Type:        spec.ValueTypeInt,
		Name:        name,
		Annotations: map[string]string{spec.AnnotationLabel: name + " axis"},
		ParentAxes:  append([]int{}, parents...),
	}
}

func linkerCol(name string, axesSpec ...spec.AxisSpec) spec.PColumnIDAndSpec {
	return spec.PColumnIDAndSpec{
		ColumnID: spec.PObjectID(name),
		Spec: spec.PColumnSpec{
			Kind:      spec.KindPColumn,
			Name:      name,
			ValueType: spec.ValueTypeString,
			AxesSpec:  axesSpec,
			Annotations: map[string]string{
				spec.AnnotationLabel:          name + " column",
				spec.AnnotationIsLinkerColumn: "true",
			},
		},
	}
}

func norm(axesSpec ...spec.AxisSpec) []spec.AxisSpecNormalized {
	return hierarchy.MustNormalize(axesSpec)
}

func colNames(cols []spec.PColumnIDAndSpec) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Spec.Name
	}
	return out
}

func axisNames(list []spec.AxisSpecNormalized) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.Name
	}
	return out
}

// partialTrees is the axis layout A→[B,C], E→[B,C], B→[D], C→[D]
// followed by the standalone axis F, as one linker's axes.
func partialTrees() []spec.AxisSpec {
	return []spec.AxisSpec{
		ax("a", 1, 2),
		ax("b", 3),
		ax("c", 3),
		ax("d"),
		ax("e", 1, 2),
		ax("f"),
	}
}
