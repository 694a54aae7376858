package hierarchy_test

import (
	"fmt"

	"github.com/matzehuels/pframe/pkg/hierarchy"
	"github.com/matzehuels/pframe/pkg/spec"
)

func ExampleNormalize() {
	axes := []spec.AxisSpec{
		{Type: spec.ValueTypeString, Name: "plate"},
		{Type: spec.ValueTypeString, Name: "well", ParentAxes: []int{0}},
	}
	res, err := hierarchy.Normalize(axes)
	if err != nil {
		panic(err)
	}
	fmt.Println(hierarchy.Signature(res.Axes[1]))
	// Output: {"name":"well","parentAxesSpec":[{"name":"plate","parentAxesSpec":[],"type":"String"}],"type":"String"}
}

func ExampleNormalize_cycle() {
	axes := []spec.AxisSpec{
		{Type: spec.ValueTypeString, Name: "a", ParentAxes: []int{1}},
		{Type: spec.ValueTypeString, Name: "b", ParentAxes: []int{0}},
	}
	res, _ := hierarchy.Normalize(axes)
	fmt.Println(res.CycleDetected, len(res.Axes[0].ParentAxesSpec), len(res.Axes[1].ParentAxesSpec))
	// Output: true 0 0
}
