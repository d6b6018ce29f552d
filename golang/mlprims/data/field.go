package data

import (
	"github.com/tarstars/mlprims/golang/mlprims/log"
	"github.com/tarstars/mlprims/golang/mlprims/mlerrors"
)

//FieldPartition is the result of SplitField.
type FieldPartition[T, L any] struct {
	Train, Test               []T
	TrainLabels, TestLabels   []L
	TrainIndices, TestIndices []int
}

//SplitField splits a sequence of per-sample objects, for example one matrix per
//time series, and the matching labels. labels may be nil. Stratification is not
//defined for sequences and is rejected.
func SplitField[T, L any](input []T, labels []L, params SplitParams) (*FieldPartition[T, L], error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}
	if params.Stratify {
		return nil, mlerrors.InvalidArgument("stratified split is not defined for sequences")
	}
	n := len(input)
	if labels != nil && len(labels) != n {
		return nil, mlerrors.DimensionMismatch("labels hold %d samples, input has %d", len(labels), n)
	}

	trainIndices, testIndices := sliceIndices(sampleOrder(n, params), TestSize(n, params.TestRatio))
	partition := &FieldPartition[T, L]{
		Train:        gatherAny(input, trainIndices),
		Test:         gatherAny(input, testIndices),
		TrainIndices: trainIndices,
		TestIndices:  testIndices,
	}
	if labels != nil {
		partition.TrainLabels = gatherAny(labels, trainIndices)
		partition.TestLabels = gatherAny(labels, testIndices)
	}

	logger.WithFields(log.Fields{
		"samples": n,
		"train":   len(trainIndices),
		"test":    len(testIndices),
		"shuffle": params.Shuffle,
	}).Debug("split sequence")

	return partition, nil
}

func gatherAny[T any](values []T, indices []int) []T {
	out := make([]T, len(indices))
	for j, idx := range indices {
		out[j] = values[idx]
	}
	return out
}
