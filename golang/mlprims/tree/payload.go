package tree

import "fmt"

//PayloadKind tells which field of a SplitPayload carries the split descriptor.
type PayloadKind int

const (
	//ScalarPayload keeps the descriptor in SplitPayload.Scalar.
	ScalarPayload PayloadKind = iota
	//VectorPayload keeps the descriptor in SplitPayload.Vector.
	VectorPayload
)

func (k PayloadKind) String() string {
	switch k {
	case ScalarPayload:
		return "scalar"
	case VectorPayload:
		return "vector"
	}
	return fmt.Sprintf("PayloadKind(%d)", int(k))
}

//SplitPayload is the descriptor a categorical split records: the number of categories.
type SplitPayload struct {
	Kind   PayloadKind
	Scalar float64   `json:",omitempty"`
	Vector []float64 `json:",omitempty"`
}

//NewPayload stores numCategories in the representation of the given kind.
func NewPayload(kind PayloadKind, numCategories int) SplitPayload {
	if kind == VectorPayload {
		return SplitPayload{Kind: VectorPayload, Vector: []float64{float64(numCategories)}}
	}
	return SplitPayload{Kind: ScalarPayload, Scalar: float64(numCategories)}
}

//NumChildren returns the number of children of a categorical split.
func NumChildren(payload SplitPayload) int {
	if payload.Kind == VectorPayload {
		if len(payload.Vector) == 0 {
			return 0
		}
		return int(payload.Vector[0])
	}
	return int(payload.Scalar)
}

//RouteToChild returns the child a point with the given category value goes to.
func RouteToChild(point float64, _ SplitPayload) int {
	return int(point)
}
