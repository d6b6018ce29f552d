package tree

import (
	"math"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//Label is the element type of a label vector: a class index or a regression target.
type Label interface {
	constraints.Integer | constraints.Float
}

//FitnessFunction scores how pure a set of labels is. Higher is better; a gain of a
//split is a weighted sum of the fitness of its children. weights is nil for
//unweighted evaluation, otherwise it holds one weight per label.
type FitnessFunction[L Label] interface {
	Evaluate(labels []L, numClasses int, weights []float64) float64
}

//classFitness is implemented by fitness functions that read labels as class indices.
type classFitness interface {
	classLabels()
}

//GiniGain is the negated Gini impurity of class labels in [0, numClasses).
type GiniGain[L constraints.Integer] struct{}

func (g GiniGain[L]) classLabels() {}

//Evaluate returns -(1 - sum p_k^2). It is 0 for a pure or empty set.
func (g GiniGain[L]) Evaluate(labels []L, numClasses int, weights []float64) float64 {
	frequencies := classFrequencies(labels, numClasses, weights)
	if frequencies == nil {
		return 0
	}
	impurity := 0.0
	for _, f := range frequencies {
		impurity += f * (1 - f)
	}
	return -impurity
}

//InformationGain is the negated entropy, in bits, of class labels in [0, numClasses).
type InformationGain[L constraints.Integer] struct{}

func (g InformationGain[L]) classLabels() {}

//Evaluate returns sum p_k log2 p_k. It is 0 for a pure or empty set.
func (g InformationGain[L]) Evaluate(labels []L, numClasses int, weights []float64) float64 {
	frequencies := classFrequencies(labels, numClasses, weights)
	gain := 0.0
	for _, f := range frequencies {
		if f > 0 {
			gain += f * math.Log2(f)
		}
	}
	return gain
}

//MSEGain is the negated population variance of regression targets. numClasses is ignored.
type MSEGain[L Label] struct{}

//Evaluate returns the negated (weighted) variance of labels around their mean.
func (g MSEGain[L]) Evaluate(labels []L, _ int, weights []float64) float64 {
	if len(labels) == 0 {
		return 0
	}
	if weights != nil && floats.Sum(weights) <= 0 {
		return 0
	}
	values := make([]float64, len(labels))
	for i, l := range labels {
		values[i] = float64(l)
	}
	return -stat.PopVariance(values, weights)
}

//classFrequencies returns the (weighted) share of every class, or nil when the set
//holds no weight or a label outside [0, numClasses).
func classFrequencies[L constraints.Integer](labels []L, numClasses int, weights []float64) []float64 {
	if len(labels) == 0 || numClasses <= 0 {
		return nil
	}
	counts := make([]float64, numClasses)
	for i, l := range labels {
		if l < 0 || uint64(l) >= uint64(numClasses) {
			return nil
		}
		if weights == nil {
			counts[int(l)]++
		} else {
			counts[int(l)] += weights[i]
		}
	}
	total := floats.Sum(counts)
	if total <= 0 {
		return nil
	}
	floats.Scale(1/total, counts)
	return counts
}
