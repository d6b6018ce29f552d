package data

import (
	"fmt"
	"math"

	"github.com/tarstars/mlprims/golang/mlprims/mlerrors"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

//LabelShape tells how a Labels container is laid out. It is decided when the
//container is built and checked by the operations that need a flat vector.
type LabelShape int

const (
	//RowVector is a flat vector, one value per sample.
	RowVector LabelShape = iota
	//ColumnVector is a flat vector stored as a column, one value per sample.
	ColumnVector
	//Structured is a label set of rank two or more; samples run along the last axis.
	Structured
)

func (s LabelShape) String() string {
	switch s {
	case RowVector:
		return "row"
	case ColumnVector:
		return "column"
	case Structured:
		return "structured"
	}
	return fmt.Sprintf("LabelShape(%d)", int(s))
}

//IsVector reports whether labels of this shape hold a single value per sample.
func (s LabelShape) IsVector() bool {
	return s == RowVector || s == ColumnVector
}

//Labels is an ordered numeric container with one entry per sample.
//Values are stored row-major with samples on the last axis, so for a structured
//label set with Dims = [k] the label of sample j is Values[i*n+j] for i < k.
//Dims is empty for vectors.
type Labels struct {
	Shape  LabelShape
	Dims   []int
	Values []float64
}

//RowLabels wraps values as a row vector of labels. The slice is not copied.
func RowLabels(values []float64) *Labels {
	return &Labels{Shape: RowVector, Values: values}
}

//ColumnLabels wraps values as a column vector of labels. The slice is not copied.
func ColumnLabels(values []float64) *Labels {
	return &Labels{Shape: ColumnVector, Values: values}
}

//IntLabels converts discrete class labels into a row vector.
func IntLabels(values []int) *Labels {
	converted := make([]float64, len(values))
	for i, v := range values {
		converted[i] = float64(v)
	}
	return RowLabels(converted)
}

//LabelsFromDense builds labels from a k x n matrix holding one column per sample.
//A single row is a row vector; a single column of more than one row is a column
//vector of r samples; anything else is a structured label set.
func LabelsFromDense(m *mat.Dense) *Labels {
	if m == nil || m.IsEmpty() {
		return RowLabels(nil)
	}
	r, c := m.Dims()
	switch {
	case r == 1:
		return RowLabels(mat.Row(nil, 0, m))
	case c == 1:
		return ColumnLabels(mat.Col(nil, 0, m))
	}
	values := make([]float64, r*c)
	for i := 0; i < r; i++ {
		mat.Row(values[i*c:(i+1)*c], i, m)
	}
	return &Labels{Shape: Structured, Dims: []int{r}, Values: values}
}

//LabelsFromTensor builds labels from a dense tensor whose last axis runs over samples.
//A rank-1 tensor and a 1 x n tensor are row vectors, an n x 1 tensor is a column vector,
//everything else is structured.
func LabelsFromTensor(t *tensor.Dense) (*Labels, error) {
	if t == nil {
		return nil, mlerrors.InvalidArgument("nil label tensor")
	}
	if t.IsMaterializable() {
		if materialized, ok := t.Materialize().(*tensor.Dense); ok {
			t = materialized
		}
	}
	values, err := tensorValues(t)
	if err != nil {
		return nil, err
	}

	shape := t.Shape()
	rank := shape.Dims()
	switch {
	case rank == 0:
		return nil, mlerrors.InvalidArgument("scalar label tensor")
	case rank == 1:
		return RowLabels(values), nil
	case rank == 2 && shape[0] == 1:
		return RowLabels(values), nil
	case rank == 2 && shape[1] == 1:
		return ColumnLabels(values), nil
	}
	dims := append([]int(nil), shape[:rank-1]...)
	for _, d := range dims {
		if d < 1 {
			return nil, mlerrors.InvalidArgument("label tensor shape %v has an empty leading axis", shape)
		}
	}
	return &Labels{Shape: Structured, Dims: dims, Values: values}, nil
}

func tensorValues(t *tensor.Dense) ([]float64, error) {
	switch data := t.Data().(type) {
	case []float64:
		return append([]float64(nil), data...), nil
	case []float32:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out, nil
	case []int:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out, nil
	case []int64:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out, nil
	}
	return nil, mlerrors.InvalidArgument("unsupported label tensor dtype %v", t.Dtype())
}

//width is the number of values stored per sample.
func (l *Labels) width() int {
	w := 1
	for _, d := range l.Dims {
		w *= d
	}
	return w
}

//Len returns the number of samples.
func (l *Labels) Len() int {
	if l == nil {
		return 0
	}
	w := l.width()
	if w == 0 {
		return 0
	}
	return len(l.Values) / w
}

//At returns the label of sample i of a vector. It panics for structured labels.
func (l *Labels) At(i int) float64 {
	if !l.Shape.IsVector() {
		panic("data: At called on structured labels")
	}
	return l.Values[i]
}

//Column returns the label values of sample j, one per leading position.
func (l *Labels) Column(j int) []float64 {
	n := l.Len()
	w := l.width()
	out := make([]float64, w)
	for i := 0; i < w; i++ {
		out[i] = l.Values[i*n+j]
	}
	return out
}

//Tensor converts the labels back into a dense tensor. It returns nil when there are no samples.
func (l *Labels) Tensor() *tensor.Dense {
	n := l.Len()
	if n == 0 {
		return nil
	}
	var shape []int
	switch l.Shape {
	case RowVector:
		shape = []int{n}
	case ColumnVector:
		shape = []int{n, 1}
	default:
		shape = append(append([]int(nil), l.Dims...), n)
	}
	backing := append([]float64(nil), l.Values...)
	return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(backing))
}

//gather returns the labels of the samples at indices, in that order.
func (l *Labels) gather(indices []int) *Labels {
	n := l.Len()
	w := l.width()
	m := len(indices)
	out := &Labels{Shape: l.Shape, Dims: append([]int(nil), l.Dims...), Values: make([]float64, w*m)}
	for i := 0; i < w; i++ {
		for j, idx := range indices {
			out.Values[i*m+j] = l.Values[i*n+idx]
		}
	}
	return out
}

//MaxClassLabel is the largest class index ClassCounts accepts.
const MaxClassLabel = 1<<20 - 1

//ClassCounts counts the samples of every class of a discrete label vector.
//The result has maxLabel+1 entries.
func ClassCounts(labels *Labels) ([]int, error) {
	if labels == nil {
		return nil, mlerrors.InvalidArgument("class counts need labels")
	}
	if !labels.Shape.IsVector() {
		return nil, mlerrors.InvalidArgument("class counts need a label vector, got %v labels", labels.Shape)
	}
	maxLabel := -1
	for i, v := range labels.Values {
		if v < 0 || math.IsInf(v, 0) || v != math.Trunc(v) {
			return nil, mlerrors.InvalidArgument("label %v of sample %d is not a non-negative integer", v, i)
		}
		if v > MaxClassLabel {
			return nil, mlerrors.InvalidArgument("label %v of sample %d exceeds the largest class %d", v, i, MaxClassLabel)
		}
		if int(v) > maxLabel {
			maxLabel = int(v)
		}
	}
	counts := make([]int, maxLabel+1)
	for _, v := range labels.Values {
		counts[int(v)]++
	}
	return counts, nil
}
