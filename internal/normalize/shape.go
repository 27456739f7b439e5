package normalize

import "strings"

// Shape names the field-naming convention a record arrived in.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeCamel
	ShapeSnake
	ShapeMixed
)

func (s Shape) String() string {
	switch s {
	case ShapeCamel:
		return "camel"
	case ShapeSnake:
		return "snake"
	case ShapeMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// DetectShape inspects multi-word keys only; single-word keys such as
// "emoji" or "title" read the same in both conventions.
func DetectShape(r Record) Shape {
	var camel, snake bool
	for key := range r {
		k := strings.TrimPrefix(key, "_")
		switch {
		case strings.Contains(k, "_"):
			snake = true
		case strings.ToLower(k) != k:
			camel = true
		}
	}
	switch {
	case camel && snake:
		return ShapeMixed
	case camel:
		return ShapeCamel
	case snake:
		return ShapeSnake
	default:
		return ShapeUnknown
	}
}
