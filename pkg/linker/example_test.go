package linker_test

import (
	"fmt"

	"github.com/matzehuels/pframe/pkg/hierarchy"
	"github.com/matzehuels/pframe/pkg/linker"
	"github.com/matzehuels/pframe/pkg/spec"
)

func linkerColumn(id, from, to string) spec.PColumnIDAndSpec {
	return spec.PColumnIDAndSpec{
		ColumnID: spec.PObjectID(id),
		Spec: spec.PColumnSpec{
			Kind:        spec.KindPColumn,
			Name:        id,
			ValueType:   spec.ValueTypeString,
			Annotations: map[string]string{spec.AnnotationIsLinkerColumn: "true"},
			AxesSpec: []spec.AxisSpec{
				{Type: spec.ValueTypeString, Name: from},
				{Type: spec.ValueTypeString, Name: to},
			},
		},
	}
}

func ExampleGraph_LinkersForAxes() {
	g, err := linker.Build([]spec.PColumnIDAndSpec{
		linkerColumn("sample2donor", "sample", "donor"),
		linkerColumn("donor2cohort", "donor", "cohort"),
	})
	if err != nil {
		panic(err)
	}

	from := hierarchy.MustNormalize([]spec.AxisSpec{{Type: spec.ValueTypeString, Name: "sample"}})
	to := hierarchy.MustNormalize([]spec.AxisSpec{{Type: spec.ValueTypeString, Name: "cohort"}})

	cols, err := g.LinkersForAxes(from, to, true)
	if err != nil {
		panic(err)
	}
	for _, c := range cols {
		fmt.Println(c.ColumnID)
	}
	// Output:
	// sample2donor
	// donor2cohort
}
