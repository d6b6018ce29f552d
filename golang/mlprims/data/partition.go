// Package data splits column-oriented datasets, with their labels and weights,
// into training and test partitions.
package data

import (
	"math"
	"math/rand"

	"github.com/tarstars/mlprims/golang/mlprims/log"
	"github.com/tarstars/mlprims/golang/mlprims/mlerrors"
	"gonum.org/v1/gonum/mat"
)

var logger = log.WithPackage("data")

//SplitParams collect arguments required to split a dataset.
type SplitParams struct {
	//TestRatio is the share of samples held out for the test set, in [0, 1].
	TestRatio float64
	//Shuffle visits the samples in a random permutation drawn from Rand.
	Shuffle bool
	//Stratify keeps floor(classCount * TestRatio) samples of every class in the test set.
	Stratify bool
	//Rand is the random source used when Shuffle is set. It must not be nil then.
	Rand *rand.Rand
}

//NewSplitParams returns shuffled, non-stratified parameters with a generator seeded by seed.
func NewSplitParams(testRatio float64, seed int64) SplitParams {
	return SplitParams{
		TestRatio: testRatio,
		Shuffle:   true,
		Rand:      rand.New(rand.NewSource(seed)),
	}
}

//Partition is the result of a split. Column j of Train is column TrainIndices[j] of
//the input dataset, and the same holds for labels, weights and the test side.
//Labels and weights are nil when none were given. An empty side is an empty *mat.Dense.
type Partition struct {
	Train, Test               *mat.Dense
	TrainLabels, TestLabels   *Labels
	TrainWeights, TestWeights []float64
	TrainIndices, TestIndices []int
}

//TrainSize returns the number of training samples.
func (p *Partition) TrainSize() int {
	return len(p.TrainIndices)
}

//TestSize returns the number of test samples.
func (p *Partition) TestSize() int {
	return len(p.TestIndices)
}

//TestSize returns floor(n * testRatio), the number of samples a non-stratified split holds out.
func TestSize(n int, testRatio float64) int {
	return int(float64(n) * testRatio)
}

//SplitDataset splits a dataset without labels.
func SplitDataset(dataset *mat.Dense, params SplitParams) (*Partition, error) {
	return Split(dataset, nil, nil, params)
}

//Split splits the columns of dataset, and the matching entries of labels and weights,
//into a training and a test partition. labels and weights are optional.
//
//Without stratification the first n - floor(n * TestRatio) visited samples go to the
//training set and the rest to the test set. With stratification every sample goes to
//the test set while its class has not used up its floor(classCount * TestRatio) budget.
//Samples are visited in column order, or in a random permutation when Shuffle is set.
func Split(dataset *mat.Dense, labels *Labels, weights []float64, params SplitParams) (*Partition, error) {
	n, err := validateSplit(dataset, labels, weights, params)
	if err != nil {
		return nil, err
	}

	order := sampleOrder(n, params)
	var trainIndices, testIndices []int
	if params.Stratify {
		trainIndices, testIndices, err = stratifiedIndices(labels, order, params.TestRatio)
		if err != nil {
			return nil, err
		}
	} else {
		trainIndices, testIndices = sliceIndices(order, TestSize(n, params.TestRatio))
	}

	partition := &Partition{
		Train:        gatherColumns(dataset, trainIndices),
		Test:         gatherColumns(dataset, testIndices),
		TrainIndices: trainIndices,
		TestIndices:  testIndices,
	}
	if labels != nil {
		partition.TrainLabels = labels.gather(trainIndices)
		partition.TestLabels = labels.gather(testIndices)
	}
	if weights != nil {
		partition.TrainWeights = gatherFloats(weights, trainIndices)
		partition.TestWeights = gatherFloats(weights, testIndices)
	}

	logger.WithFields(log.Fields{
		"samples":  n,
		"train":    len(trainIndices),
		"test":     len(testIndices),
		"shuffle":  params.Shuffle,
		"stratify": params.Stratify,
	}).Debug("split dataset")

	return partition, nil
}

//validateSplit checks every argument before any output is allocated and returns the
//number of samples.
func validateSplit(dataset *mat.Dense, labels *Labels, weights []float64, params SplitParams) (int, error) {
	if err := validateParams(params); err != nil {
		return 0, err
	}
	if dataset == nil {
		return 0, mlerrors.InvalidArgument("nil dataset")
	}
	_, n := dataset.Dims()
	if labels != nil && labels.Len() != n {
		return 0, mlerrors.DimensionMismatch("labels hold %d samples, dataset has %d columns", labels.Len(), n)
	}
	if weights != nil && len(weights) != n {
		return 0, mlerrors.DimensionMismatch("weights hold %d samples, dataset has %d columns", len(weights), n)
	}
	for i, w := range weights {
		if !(w >= 0) || math.IsInf(w, 1) {
			return 0, mlerrors.InvalidArgument("weight %v of sample %d is not a finite non-negative number", w, i)
		}
	}
	if params.Stratify {
		if labels == nil {
			return 0, mlerrors.InvalidArgument("stratified split needs labels")
		}
		if !labels.Shape.IsVector() {
			return 0, mlerrors.InvalidArgument("stratified split needs a label vector, got %v labels", labels.Shape)
		}
	}
	return n, nil
}

func validateParams(params SplitParams) error {
	if math.IsNaN(params.TestRatio) || params.TestRatio < 0 || params.TestRatio > 1 {
		return mlerrors.InvalidArgument("test ratio %v outside [0, 1]", params.TestRatio)
	}
	if params.Shuffle && params.Rand == nil {
		return mlerrors.InvalidArgument("shuffled split needs a random source")
	}
	return nil
}

//sliceIndices sends the first n - testSize visited samples to train and the rest to test.
func sliceIndices(order IntIterable, testSize int) (trainIndices, testIndices []int) {
	trainSize := order.Len() - testSize
	trainIndices = make([]int, trainSize)
	testIndices = make([]int, testSize)
	for pos := 0; order.HasNext(); pos++ {
		if pos < trainSize {
			trainIndices[pos] = order.GetNext()
		} else {
			testIndices[pos-trainSize] = order.GetNext()
		}
	}
	return
}

//stratifiedIndices assigns each visited sample to test while its class budget lasts.
func stratifiedIndices(labels *Labels, order IntIterable, testRatio float64) (trainIndices, testIndices []int, err error) {
	counts, err := ClassCounts(labels)
	if err != nil {
		return nil, nil, err
	}

	budget := make([]int, len(counts))
	testSize := 0
	for class, count := range counts {
		budget[class] = int(math.Floor(float64(count) * testRatio))
		testSize += budget[class]
	}
	trainSize := labels.Len() - testSize

	trainIndices = make([]int, trainSize)
	testIndices = make([]int, testSize)
	used := make([]int, len(counts))
	trainInd, testInd := 0, 0
	for order.HasNext() {
		idx := order.GetNext()
		class := int(labels.Values[idx])
		if used[class] < budget[class] {
			used[class]++
			testIndices[testInd] = idx
			testInd++
		} else {
			trainIndices[trainInd] = idx
			trainInd++
		}
	}
	if trainInd != trainSize || testInd != testSize {
		panic("data: stratified assignment does not match the class budgets")
	}
	return trainIndices, testIndices, nil
}

//gatherColumns copies the columns of src at indices into a new matrix.
func gatherColumns(src *mat.Dense, indices []int) *mat.Dense {
	r, _ := src.Dims()
	if r == 0 || len(indices) == 0 {
		return &mat.Dense{}
	}
	dst := mat.NewDense(r, len(indices), nil)
	col := make([]float64, r)
	for j, idx := range indices {
		mat.Col(col, idx, src)
		dst.SetCol(j, col)
	}
	return dst
}

func gatherFloats(values []float64, indices []int) []float64 {
	out := make([]float64, len(indices))
	for j, idx := range indices {
		out[j] = values[idx]
	}
	return out
}
