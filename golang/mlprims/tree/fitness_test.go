package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGiniGain(t *testing.T) {
	a := assert.New(t)
	gini := GiniGain[int]{}

	a.InDelta(-0.5, gini.Evaluate([]int{0, 0, 1, 1}, 2, nil), 1e-12)
	a.Equal(0.0, gini.Evaluate([]int{2, 2, 2}, 3, nil))
	a.Equal(0.0, gini.Evaluate(nil, 3, nil))
	a.InDelta(-0.375, gini.Evaluate([]int{0, 1}, 2, []float64{3, 1}), 1e-12)
	a.Equal(0.0, gini.Evaluate([]int{0, 1}, 2, []float64{0, 0}))
	a.Equal(0.0, gini.Evaluate([]int{0, 2}, 2, nil))
	a.Equal(0.0, gini.Evaluate([]int{-1, 1}, 2, nil))
}

func TestInformationGain(t *testing.T) {
	a := assert.New(t)
	info := InformationGain[uint8]{}

	a.InDelta(-1.0, info.Evaluate([]uint8{0, 1}, 2, nil), 1e-12)
	a.InDelta(-2.0, info.Evaluate([]uint8{0, 1, 2, 3}, 4, nil), 1e-12)
	a.Equal(0.0, info.Evaluate([]uint8{1, 1}, 2, nil))
	a.Equal(0.0, info.Evaluate(nil, 2, nil))
	a.Equal(0.0, info.Evaluate([]uint8{0, 200}, 2, nil))
}

func TestMSEGain(t *testing.T) {
	a := assert.New(t)

	a.InDelta(-1.0, MSEGain[float64]{}.Evaluate([]float64{1, 3}, 0, nil), 1e-12)
	a.InDelta(-1.0, MSEGain[int]{}.Evaluate([]int{1, 3}, 0, nil), 1e-12)
	a.Equal(0.0, MSEGain[float64]{}.Evaluate([]float64{4}, 0, nil))
	a.Equal(0.0, MSEGain[float64]{}.Evaluate(nil, 0, nil))
	// mean 2.5, squared deviations 2.25 and 0.25 weighted 1:3
	a.InDelta(-0.75, MSEGain[float64]{}.Evaluate([]float64{1, 3}, 0, []float64{1, 3}), 1e-12)
}
