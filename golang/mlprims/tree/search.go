package tree

import (
	"github.com/tarstars/mlprims/golang/mlprims/log"
	"github.com/tarstars/mlprims/golang/mlprims/mlerrors"
	"gonum.org/v1/gonum/mat"
)

//SearchParams collect the arguments of a split search over several dimensions.
type SearchParams struct {
	//Dimensions are the dataset rows tried, in this order.
	Dimensions []int
	//NumCategories holds the category count of every entry of Dimensions.
	NumCategories    []int
	MinimumLeafSize  int
	MinimumGainSplit float64
}

//ChildStats summarizes one child of a split.
type ChildStats struct {
	Category int
	Count    int
	Weight   float64
	Fitness  float64
}

//BestSplit contains results of the split selection algorithm.
type BestSplit struct {
	Dimension       int
	NumCategories   int
	Gain            float64
	ParentGain      float64
	Payload         SplitPayload
	NumberOfObjects int
	Children        []ChildStats
}

//SelectCategoricalSplit finds the best categorical split of a node whose samples are the
//columns of dataset. The search starts from the fitness of the whole node and keeps a
//running best: a dimension replaces the current best only when SplitIfBetter accepts it,
//so ties go to the earlier dimension. It returns nil when no dimension improves on the node.
func SelectCategoricalSplit[L Label](
	splitter AllCategoricalSplit[L],
	dataset *mat.Dense,
	labels []L,
	numClasses int,
	weights []float64,
	params SearchParams,
) (*BestSplit, error) {
	if dataset == nil || dataset.IsEmpty() {
		return nil, mlerrors.InvalidArgument("empty dataset")
	}
	if len(params.Dimensions) != len(params.NumCategories) {
		return nil, mlerrors.DimensionMismatch("%d dimensions with %d category counts", len(params.Dimensions), len(params.NumCategories))
	}
	h, w := dataset.Dims()
	if err := splitter.validateLabels(w, labels, numClasses, weights); err != nil {
		return nil, err
	}
	for _, dim := range params.Dimensions {
		if dim < 0 || dim >= h {
			return nil, mlerrors.InvalidArgument("dimension %d outside [0, %d)", dim, h)
		}
	}

	parentGain := splitter.Fitness.Evaluate(labels, numClasses, weights)
	bestGain := parentGain
	bestIndex := -1
	var bestPayload SplitPayload

	row := make([]float64, w)
	for ind, dim := range params.Dimensions {
		mat.Row(row, dim, dataset)
		gain, payload, err := splitter.SplitIfBetter(bestGain, row, params.NumCategories[ind], labels, numClasses, weights,
			params.MinimumLeafSize, params.MinimumGainSplit)
		if err != nil {
			return nil, err
		}
		if gain != NoImprovement {
			bestGain = gain
			bestIndex = ind
			bestPayload = payload
		}
	}

	if bestIndex == -1 {
		return nil, nil
	}

	dim := params.Dimensions[bestIndex]
	numCategories := params.NumCategories[bestIndex]
	buckets, err := splitter.Buckets(mat.Row(nil, dim, dataset), numCategories, labels, numClasses, weights)
	if err != nil {
		return nil, err
	}
	bestSplit := &BestSplit{
		Dimension:       dim,
		NumCategories:   numCategories,
		Gain:            bestGain,
		ParentGain:      parentGain,
		Payload:         bestPayload,
		NumberOfObjects: w,
		Children:        make([]ChildStats, len(buckets)),
	}
	for c, b := range buckets {
		bestSplit.Children[c] = ChildStats{Category: c, Count: b.Count, Weight: b.Weight, Fitness: b.Fitness}
	}

	logger.WithFields(log.Fields{
		"dimension":  dim,
		"categories": numCategories,
		"gain":       bestGain,
		"parent":     parentGain,
	}).Debug("best categorical split")

	return bestSplit, nil
}
