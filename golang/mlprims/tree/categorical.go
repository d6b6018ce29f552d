// Package tree evaluates categorical splits of decision tree nodes.
package tree

import (
	"math"

	"github.com/tarstars/mlprims/golang/mlprims/log"
	"github.com/tarstars/mlprims/golang/mlprims/mlerrors"
	"gonum.org/v1/gonum/floats"
)

var logger = log.WithPackage("tree")

//NoImprovement is returned in place of a gain when a split is infeasible or does not
//beat the best gain seen so far.
const NoImprovement = math.MaxFloat64

//gainEpsilon keeps splits that differ from the best one only by rounding noise out.
const gainEpsilon = 1e-7

//SplitMode selects how labels are checked and how the split descriptor is stored.
type SplitMode int

const (
	//Classification expects labels in [0, numClasses) and stores a vector payload.
	Classification SplitMode = iota
	//Regression accepts any labels and stores a scalar payload.
	Regression
)

//AllCategoricalSplit splits a node into one child per category of a feature.
type AllCategoricalSplit[L Label] struct {
	Fitness FitnessFunction[L]
	Mode    SplitMode
}

//ChildBucket holds the samples of a node that fall into one category.
//Weight and Weights are left empty for unweighted splits.
type ChildBucket[L Label] struct {
	Count   int
	Weight  float64
	Labels  []L
	Weights []float64
	Fitness float64
}

//SplitIfBetter evaluates the split of data into numCategories children and returns its
//gain and payload when the gain exceeds bestGain + minimumGainSplit + 1e-7.
//Otherwise, or when any category holds fewer than minimumLeafSize samples, it returns
//NoImprovement and an empty payload. weights may be nil.
func (s AllCategoricalSplit[L]) SplitIfBetter(
	bestGain float64,
	data []float64,
	numCategories int,
	labels []L,
	numClasses int,
	weights []float64,
	minimumLeafSize int,
	minimumGainSplit float64,
) (float64, SplitPayload, error) {
	if err := s.validate(data, numCategories, labels, numClasses, weights); err != nil {
		return NoImprovement, SplitPayload{}, err
	}

	counts := categoryCounts(data, numCategories)
	minCount := counts[0]
	for _, c := range counts[1:] {
		if c < minCount {
			minCount = c
		}
	}
	if minCount < minimumLeafSize {
		return NoImprovement, SplitPayload{}, nil
	}

	buckets := s.fillBuckets(data, counts, labels, numClasses, weights)
	gain := overallGain(buckets, len(data), weights != nil)

	if gain > bestGain+minimumGainSplit+gainEpsilon {
		if log.DebugEnabled() {
			logger.WithFields(log.Fields{
				"categories": numCategories,
				"gain":       gain,
				"best":       bestGain,
			}).Debug("categorical split accepted")
		}
		return gain, s.payload(numCategories), nil
	}
	return NoImprovement, SplitPayload{}, nil
}

//Buckets returns the children a split of data into numCategories categories produces,
//with the fitness of each child.
func (s AllCategoricalSplit[L]) Buckets(data []float64, numCategories int, labels []L, numClasses int, weights []float64) ([]ChildBucket[L], error) {
	if err := s.validate(data, numCategories, labels, numClasses, weights); err != nil {
		return nil, err
	}
	return s.fillBuckets(data, categoryCounts(data, numCategories), labels, numClasses, weights), nil
}

//OverallGain returns the share-weighted sum of the fitness of the buckets.
func OverallGain[L Label](buckets []ChildBucket[L], weighted bool) float64 {
	n := 0
	for _, b := range buckets {
		n += b.Count
	}
	return overallGain(buckets, n, weighted)
}

func overallGain[L Label](buckets []ChildBucket[L], n int, weighted bool) float64 {
	shares := make([]float64, len(buckets))
	fitness := make([]float64, len(buckets))
	totalWeight := 0.0
	for i, b := range buckets {
		totalWeight += b.Weight
		fitness[i] = b.Fitness
	}
	for i, b := range buckets {
		if weighted {
			shares[i] = b.Weight / totalWeight
		} else {
			shares[i] = float64(b.Count) / float64(n)
		}
	}
	return floats.Dot(shares, fitness)
}

func (s AllCategoricalSplit[L]) payload(numCategories int) SplitPayload {
	if s.Mode == Classification {
		return NewPayload(VectorPayload, numCategories)
	}
	return NewPayload(ScalarPayload, numCategories)
}

func (s AllCategoricalSplit[L]) validate(data []float64, numCategories int, labels []L, numClasses int, weights []float64) error {
	if numCategories < 1 {
		return mlerrors.InvalidArgument("number of categories %d is not positive", numCategories)
	}
	if err := s.validateLabels(len(data), labels, numClasses, weights); err != nil {
		return err
	}
	for i, v := range data {
		if math.IsNaN(v) || v < 0 || v >= float64(numCategories) {
			return mlerrors.InvalidArgument("category %v of point %d outside [0, %d)", v, i, numCategories)
		}
	}
	return nil
}

//validateLabels checks the labels and weights of n points.
func (s AllCategoricalSplit[L]) validateLabels(n int, labels []L, numClasses int, weights []float64) error {
	if s.Fitness == nil {
		return mlerrors.InvalidArgument("categorical split without a fitness function")
	}
	if len(labels) != n {
		return mlerrors.DimensionMismatch("%d labels for %d points", len(labels), n)
	}
	if weights != nil && len(weights) != n {
		return mlerrors.DimensionMismatch("%d weights for %d points", len(weights), n)
	}
	for i, w := range weights {
		if !(w >= 0) || math.IsInf(w, 1) {
			return mlerrors.InvalidArgument("weight %v of point %d is not a finite non-negative number", w, i)
		}
	}
	if _, ok := s.Fitness.(classFitness); ok || s.Mode == Classification {
		for i, l := range labels {
			v := float64(l)
			if v < 0 || v >= float64(numClasses) || v != math.Trunc(v) {
				return mlerrors.InvalidArgument("label %v of point %d outside [0, %d)", v, i, numClasses)
			}
		}
	}
	return nil
}

func categoryCounts(data []float64, numCategories int) []int {
	counts := make([]int, numCategories)
	for _, v := range data {
		counts[int(v)]++
	}
	return counts
}

//fillBuckets distributes labels and weights over the categories, keeping the input
//order inside every bucket, and evaluates the fitness of each bucket.
func (s AllCategoricalSplit[L]) fillBuckets(data []float64, counts []int, labels []L, numClasses int, weights []float64) []ChildBucket[L] {
	buckets := make([]ChildBucket[L], len(counts))
	for c, count := range counts {
		buckets[c].Labels = make([]L, 0, count)
		if weights != nil {
			buckets[c].Weights = make([]float64, 0, count)
		}
	}
	for i, v := range data {
		b := &buckets[int(v)]
		b.Count++
		b.Labels = append(b.Labels, labels[i])
		if weights != nil {
			b.Weights = append(b.Weights, weights[i])
			b.Weight += weights[i]
		}
	}
	for c := range buckets {
		buckets[c].Fitness = s.Fitness.Evaluate(buckets[c].Labels, numClasses, buckets[c].Weights)
	}
	return buckets
}
