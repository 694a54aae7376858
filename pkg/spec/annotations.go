package spec

// Well-known annotation keys.
const (
	AnnotationAlphabet                  = "pl7.app/alphabet"
	AnnotationDiscreteValues            = "pl7.app/discreteValues"
	AnnotationFormat                    = "pl7.app/format"
	AnnotationGraphIsVirtual            = "pl7.app/graph/isVirtual"
	AnnotationHideDataFromUI            = "pl7.app/hideDataFromUi"
	AnnotationIsLinkerColumn            = "pl7.app/isLinkerColumn"
	AnnotationLabel                     = "pl7.app/label"
	AnnotationMax                       = "pl7.app/max"
	AnnotationMin                       = "pl7.app/min"
	AnnotationParents                   = "pl7.app/parents"
	AnnotationSequenceAnnotationMapping = "pl7.app/sequence/annotation/mapping"
	AnnotationSequenceIsAnnotation      = "pl7.app/sequence/isAnnotation"
	AnnotationTableFontFamily           = "pl7.app/table/fontFamily"
	AnnotationTableOrderPriority        = "pl7.app/table/orderPriority"
	AnnotationTableVisibility           = "pl7.app/table/visibility"
	AnnotationTrace                     = "pl7.app/trace"
)

// Well-known domain keys.
const (
	DomainAlphabet = "pl7.app/alphabet"
	DomainBlockID  = "pl7.app/blockId"
)

// Well-known column names.
const (
	ColumnNameLabel             = "pl7.app/label"
	ColumnNameTableRowSelection = "pl7.app/table/row-selection"
)

// Annotated is implemented by every spec type that carries annotations
// and a domain.
type Annotated interface {
	AxisSpec | AxisSpecNormalized | PColumnSpec
}

// ReadAnnotation returns the raw annotation value stored under key.
// Values of JSON-encoded annotations are returned undecoded.
func ReadAnnotation[T Annotated](v T, key string) (string, bool) {
	var m map[string]string
	switch x := any(v).(type) {
	case AxisSpec:
		m = x.Annotations
	case AxisSpecNormalized:
		m = x.Annotations
	case PColumnSpec:
		m = x.Annotations
	}
	val, ok := m[key]
	return val, ok
}

// ReadDomain returns the domain value stored under key.
func ReadDomain[T Annotated](v T, key string) (string, bool) {
	var m map[string]string
	switch x := any(v).(type) {
	case AxisSpec:
		m = x.Domain
	case AxisSpecNormalized:
		m = x.Domain
	case PColumnSpec:
		m = x.Domain
	}
	val, ok := m[key]
	return val, ok
}

// IsLabelColumn reports whether the column holds display labels for its axis.
func IsLabelColumn(s PColumnSpec) bool {
	return s.Name == ColumnNameLabel
}
