package tree

import (
	"bytes"
	"testing"

	"github.com/goccy/go-graphviz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarstars/mlprims/golang/mlprims/mlerrors"
	"gonum.org/v1/gonum/mat"
)

// searchDataset has three categorical rows over six samples: row 0 mixes the classes,
// rows 1 and 2 separate them perfectly.
func searchDataset() *mat.Dense {
	return mat.NewDense(3, 6, []float64{
		0, 1, 0, 1, 0, 1,
		0, 0, 0, 1, 1, 1,
		1, 1, 1, 0, 0, 0,
	})
}

func TestSelectCategoricalSplit(t *testing.T) {
	a := assert.New(t)
	labels := []int{0, 0, 0, 1, 1, 1}
	params := SearchParams{Dimensions: []int{0, 1, 2}, NumCategories: []int{2, 2, 2}, MinimumLeafSize: 1}

	best, err := SelectCategoricalSplit(giniSplit(), searchDataset(), labels, 2, nil, params)
	require.NoError(t, err)
	require.NotNil(t, best)

	a.Equal(1, best.Dimension)
	a.Equal(2, best.NumCategories)
	a.Equal(0.0, best.Gain)
	a.InDelta(-0.5, best.ParentGain, 1e-12)
	a.Equal(6, best.NumberOfObjects)
	a.Equal(2, NumChildren(best.Payload))
	a.Equal([]ChildStats{{Category: 0, Count: 3}, {Category: 1, Count: 3}}, best.Children)
}

func TestSelectCategoricalSplitKeepsEarlierTie(t *testing.T) {
	labels := []int{0, 0, 0, 1, 1, 1}
	params := SearchParams{Dimensions: []int{2, 1}, NumCategories: []int{2, 2}, MinimumLeafSize: 1}

	best, err := SelectCategoricalSplit(giniSplit(), searchDataset(), labels, 2, nil, params)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, 2, best.Dimension)
}

func TestSelectCategoricalSplitNoImprovement(t *testing.T) {
	params := SearchParams{Dimensions: []int{0, 1, 2}, NumCategories: []int{2, 2, 2}, MinimumLeafSize: 1}

	best, err := SelectCategoricalSplit(giniSplit(), searchDataset(), []int{1, 1, 1, 1, 1, 1}, 2, nil, params)
	require.NoError(t, err)
	assert.Nil(t, best)

	params.MinimumLeafSize = 4
	best, err = SelectCategoricalSplit(giniSplit(), searchDataset(), []int{0, 0, 0, 1, 1, 1}, 2, nil, params)
	require.NoError(t, err)
	assert.Nil(t, best)
}

func TestSelectCategoricalSplitErrors(t *testing.T) {
	labels := []int{0, 0, 0, 1, 1, 1}

	_, err := SelectCategoricalSplit(giniSplit(), searchDataset(), labels, 2, nil,
		SearchParams{Dimensions: []int{3}, NumCategories: []int{2}})
	assert.True(t, mlerrors.IsInvalidArgument(err))

	_, err = SelectCategoricalSplit(giniSplit(), searchDataset(), labels, 2, nil,
		SearchParams{Dimensions: []int{0, 1}, NumCategories: []int{2}})
	assert.True(t, mlerrors.IsDimensionMismatch(err))

	_, err = SelectCategoricalSplit(giniSplit(), searchDataset(), labels[:4], 2, nil,
		SearchParams{Dimensions: []int{0}, NumCategories: []int{2}})
	assert.True(t, mlerrors.IsDimensionMismatch(err))

	_, err = SelectCategoricalSplit(giniSplit(), searchDataset(), labels, 2, nil,
		SearchParams{Dimensions: []int{0}, NumCategories: []int{1}})
	assert.True(t, mlerrors.IsInvalidArgument(err))

	_, err = SelectCategoricalSplit(giniSplit(), nil, labels, 2, nil, SearchParams{})
	assert.True(t, mlerrors.IsInvalidArgument(err))
}

func TestStump(t *testing.T) {
	a := assert.New(t)
	labels := []int{0, 0, 0, 1, 1, 1}
	weights := []float64{1, 1, 1, 2, 2, 2}
	params := SearchParams{Dimensions: []int{1}, NumCategories: []int{2}, MinimumLeafSize: 1}

	best, err := SelectCategoricalSplit(giniSplit(), searchDataset(), labels, 2, weights, params)
	require.NoError(t, err)
	require.NotNil(t, best)
	a.Equal(6.0, best.Children[1].Weight)

	stump := NewStump(best)
	best.Children[0].Count = 100
	a.Equal(3, stump.Split.Children[0].Count)
	a.Equal(2, stump.NumChildren())

	child, err := stump.Route([]float64{0, 1, 0})
	require.NoError(t, err)
	a.Equal(1, child)

	_, err = stump.Route([]float64{0, 2, 0})
	a.True(mlerrors.IsInvalidArgument(err))

	_, err = stump.Route([]float64{0})
	a.True(mlerrors.IsDimensionMismatch(err))

	graphViz, graph, err := stump.DrawGraph()
	require.NoError(t, err)
	defer func() {
		graph.Close()
		graphViz.Close()
	}()

	var buf bytes.Buffer
	require.NoError(t, graphViz.Render(graph, graphviz.XDOT, &buf))
	a.Contains(buf.String(), "category 1")

	a.True(mlerrors.IsInvalidArgument(stump.Render("bmp", "stump.bmp")))
}
