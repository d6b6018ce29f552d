package data

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarstars/mlprims/golang/mlprims/mlerrors"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/mat"
)

// indexedDataset builds a 2 x n dataset whose column c holds (c, 100 + c), so the
// origin of every output column can be read back from its values.
func indexedDataset(n int) *mat.Dense {
	dataset := mat.NewDense(2, n, nil)
	for c := 0; c < n; c++ {
		dataset.Set(0, c, float64(c))
		dataset.Set(1, c, float64(100+c))
	}
	return dataset
}

func columnOrigins(t *testing.T, m *mat.Dense) []int {
	t.Helper()
	if m.IsEmpty() {
		return []int{}
	}
	_, c := m.Dims()
	origins := make([]int, c)
	for j := 0; j < c; j++ {
		origins[j] = int(m.At(0, j))
		require.Equal(t, m.At(0, j)+100, m.At(1, j), "rows of column %d were separated", j)
	}
	return origins
}

func requireSetPartition(t *testing.T, n int, train, test []int) {
	t.Helper()
	all := append(append([]int(nil), train...), test...)
	slices.Sort(all)
	require.Len(t, all, n)
	for i, v := range all {
		require.Equal(t, i, v, "index %d missing or duplicated", i)
	}
}

func TestSplitContiguous(t *testing.T) {
	a := assert.New(t)
	dataset := indexedDataset(10)
	labels := RowLabels([]float64{0, 1, 0, 1, 0, 1, 0, 1, 0, 1})
	weights := []float64{0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5}

	p, err := Split(dataset, labels, weights, SplitParams{TestRatio: 0.3})
	require.NoError(t, err)

	a.Equal(7, p.TrainSize())
	a.Equal(3, p.TestSize())
	a.Equal([]int{0, 1, 2, 3, 4, 5, 6}, columnOrigins(t, p.Train))
	a.Equal([]int{7, 8, 9}, columnOrigins(t, p.Test))
	a.Equal([]int{7, 8, 9}, p.TestIndices)
	a.Equal([]float64{1, 0, 1}, p.TestLabels.Values)
	a.Equal(RowVector, p.TestLabels.Shape)
	a.Equal([]float64{4, 4.5, 5}, p.TestWeights)
	a.Equal(weights[:7], p.TrainWeights)

	concatenated := append(columnOrigins(t, p.Train), columnOrigins(t, p.Test)...)
	a.Equal([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, concatenated)
}

func TestSplitSizes(t *testing.T) {
	rng := rand.New(rand.NewSource(1337))
	for _, n := range []int{1, 2, 7, 10, 33, 100} {
		for _, ratio := range []float64{0, 0.1, 0.25, 0.3, 0.5, 0.77, 1} {
			for _, shuffle := range []bool{false, true} {
				params := SplitParams{TestRatio: ratio, Shuffle: shuffle, Rand: rng}
				p, err := SplitDataset(indexedDataset(n), params)
				require.NoError(t, err)

				testSize := int(math.Floor(float64(n) * ratio))
				require.Equal(t, testSize, p.TestSize(), "n=%d ratio=%g", n, ratio)
				require.Equal(t, n, p.TrainSize()+p.TestSize())
				require.Equal(t, p.TrainIndices, columnOrigins(t, p.Train))
				require.Equal(t, p.TestIndices, columnOrigins(t, p.Test))
				requireSetPartition(t, n, p.TrainIndices, p.TestIndices)
			}
		}
	}
}

func TestSplitEmptySides(t *testing.T) {
	a := assert.New(t)

	p, err := SplitDataset(indexedDataset(5), SplitParams{TestRatio: 0})
	require.NoError(t, err)
	a.True(p.Test.IsEmpty())
	a.Equal(5, p.TrainSize())

	p, err = Split(indexedDataset(5), RowLabels([]float64{1, 2, 3, 4, 5}), nil, SplitParams{TestRatio: 1})
	require.NoError(t, err)
	a.True(p.Train.IsEmpty())
	a.Equal(0, p.TrainLabels.Len())
	a.Equal([]float64{1, 2, 3, 4, 5}, p.TestLabels.Values)
	a.Nil(p.TrainWeights)
}

func TestSplitShuffledIsReproducible(t *testing.T) {
	dataset := indexedDataset(50)
	first, err := SplitDataset(dataset, NewSplitParams(0.2, 42))
	require.NoError(t, err)
	second, err := SplitDataset(dataset, NewSplitParams(0.2, 42))
	require.NoError(t, err)

	assert.Equal(t, first.TrainIndices, second.TrainIndices)
	assert.Equal(t, first.TestIndices, second.TestIndices)
	assert.True(t, mat.Equal(first.Test, second.Test))
}

func TestSplitShuffledMovesLabelsAndWeights(t *testing.T) {
	n := 40
	values := make([]float64, n)
	weights := make([]float64, n)
	for i := range values {
		values[i] = float64(1000 + i)
		weights[i] = float64(i) / 10
	}

	p, err := Split(indexedDataset(n), RowLabels(values), weights, NewSplitParams(0.25, 7))
	require.NoError(t, err)

	for j, idx := range p.TrainIndices {
		require.Equal(t, float64(1000+idx), p.TrainLabels.At(j))
		require.Equal(t, float64(idx)/10, p.TrainWeights[j])
	}
	for j, idx := range p.TestIndices {
		require.Equal(t, float64(1000+idx), p.TestLabels.At(j))
		require.Equal(t, float64(idx)/10, p.TestWeights[j])
	}
}

func TestSplitStructuredLabels(t *testing.T) {
	a := assert.New(t)
	labelMatrix := mat.NewDense(2, 6, []float64{
		0, 1, 2, 3, 4, 5,
		10, 11, 12, 13, 14, 15,
	})
	labels := LabelsFromDense(labelMatrix)
	a.Equal(Structured, labels.Shape)
	a.Equal(6, labels.Len())

	p, err := Split(indexedDataset(6), labels, nil, NewSplitParams(0.5, 3))
	require.NoError(t, err)
	a.Equal(Structured, p.TestLabels.Shape)
	a.Equal([]int{2}, p.TestLabels.Dims)
	for j, idx := range p.TestIndices {
		a.Equal([]float64{float64(idx), float64(10 + idx)}, p.TestLabels.Column(j))
	}
}

func TestStratifiedSplitLinearOrder(t *testing.T) {
	a := assert.New(t)
	labels := IntLabels([]int{0, 0, 0, 1, 1, 1, 1, 0, 1, 1})

	p, err := Split(indexedDataset(10), labels, nil, SplitParams{TestRatio: 0.5, Stratify: true})
	require.NoError(t, err)

	a.Equal([]int{0, 1, 3, 4, 5}, p.TestIndices)
	a.Equal([]int{2, 6, 7, 8, 9}, p.TrainIndices)
	a.Equal([]float64{0, 0, 1, 1, 1}, p.TestLabels.Values)
	a.Equal([]int{0, 1, 3, 4, 5}, columnOrigins(t, p.Test))
}

func TestStratifiedSplitClassCounts(t *testing.T) {
	rng := rand.New(rand.NewSource(1337))
	n := 97
	classes := make([]int, n)
	for i := range classes {
		classes[i] = rng.Intn(4)
	}
	labels := IntLabels(classes)
	counts, err := ClassCounts(labels)
	require.NoError(t, err)

	for _, ratio := range []float64{0, 0.2, 0.35, 0.5, 0.9, 1} {
		for _, shuffle := range []bool{false, true} {
			params := SplitParams{TestRatio: ratio, Shuffle: shuffle, Stratify: true, Rand: rng}
			p, err := Split(indexedDataset(n), labels, nil, params)
			require.NoError(t, err)

			testCounts, err := ClassCounts(p.TestLabels)
			require.NoError(t, err)
			for class, count := range counts {
				want := int(math.Floor(float64(count) * ratio))
				got := 0
				if class < len(testCounts) {
					got = testCounts[class]
				}
				require.Equal(t, want, got, "class %d ratio %g shuffle %v", class, ratio, shuffle)
			}
			requireSetPartition(t, n, p.TrainIndices, p.TestIndices)
			require.Equal(t, p.TestIndices, columnOrigins(t, p.Test))
		}
	}
}

func TestSplitErrors(t *testing.T) {
	dataset := indexedDataset(4)
	rng := rand.New(rand.NewSource(1))

	for _, ratio := range []float64{-0.1, 1.5, math.NaN()} {
		_, err := SplitDataset(dataset, SplitParams{TestRatio: ratio})
		assert.True(t, mlerrors.IsInvalidArgument(err), "ratio %v", ratio)
	}

	_, err := Split(dataset, RowLabels([]float64{0, 1, 0}), nil, SplitParams{TestRatio: 0.5})
	assert.True(t, mlerrors.IsDimensionMismatch(err))

	_, err = Split(dataset, nil, []float64{1, 1}, SplitParams{TestRatio: 0.5})
	assert.True(t, mlerrors.IsDimensionMismatch(err))

	_, err = SplitDataset(dataset, SplitParams{TestRatio: 0.5, Shuffle: true})
	assert.True(t, mlerrors.IsInvalidArgument(err))

	_, err = SplitDataset(nil, SplitParams{TestRatio: 0.5})
	assert.True(t, mlerrors.IsInvalidArgument(err))

	structured := LabelsFromDense(mat.NewDense(2, 4, []float64{0, 1, 0, 1, 1, 0, 1, 0}))
	_, err = Split(dataset, structured, nil, SplitParams{TestRatio: 0.5, Stratify: true, Shuffle: true, Rand: rng})
	assert.True(t, mlerrors.IsInvalidArgument(err))

	_, err = Split(dataset, nil, nil, SplitParams{TestRatio: 0.5, Stratify: true})
	assert.True(t, mlerrors.IsInvalidArgument(err))

	for _, bad := range []float64{-1, 0.5, math.Inf(1), math.NaN(), 1e11, 1e300} {
		_, err = Split(dataset, RowLabels([]float64{0, 1, bad, 1}), nil, SplitParams{TestRatio: 0.5, Stratify: true})
		assert.True(t, mlerrors.IsInvalidArgument(err), "label %v", bad)
	}

	for _, bad := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err = Split(dataset, nil, []float64{1, bad, 1, 1}, SplitParams{TestRatio: 0.5})
		assert.True(t, mlerrors.IsInvalidArgument(err), "weight %v", bad)
	}
}

func TestSplitFieldSequences(t *testing.T) {
	a := assert.New(t)
	series := make([]*mat.Dense, 8)
	labels := make([]string, 8)
	for i := range series {
		series[i] = mat.NewDense(1, 1, []float64{float64(i)})
		labels[i] = string(rune('a' + i))
	}

	p, err := SplitField(series, labels, SplitParams{TestRatio: 0.25})
	require.NoError(t, err)
	a.Len(p.Train, 6)
	a.Equal([]string{"g", "h"}, p.TestLabels)
	a.Equal(6.0, p.Test[0].At(0, 0))

	p, err = SplitField(series, labels, NewSplitParams(0.5, 11))
	require.NoError(t, err)
	requireSetPartition(t, 8, p.TrainIndices, p.TestIndices)
	for j, idx := range p.TestIndices {
		a.Equal(float64(idx), p.Test[j].At(0, 0))
		a.Equal(labels[idx], p.TestLabels[j])
	}

	_, err = SplitField(series, labels[:3], SplitParams{TestRatio: 0.5})
	a.True(mlerrors.IsDimensionMismatch(err))

	_, err = SplitField[*mat.Dense, string](series, nil, SplitParams{TestRatio: 0.5, Stratify: true})
	a.True(mlerrors.IsInvalidArgument(err))
}
