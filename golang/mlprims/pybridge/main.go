// SPDX-License-Identifier: Apache-2.0

package main

/*
#cgo CFLAGS: -I.
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"math/rand"
	"sync"
	"unsafe"

	"github.com/tarstars/mlprims/golang/mlprims/data"
	"github.com/tarstars/mlprims/golang/mlprims/ensemble"
	"github.com/tarstars/mlprims/golang/mlprims/log"
	"github.com/tarstars/mlprims/golang/mlprims/tree"
	"gonum.org/v1/gonum/mat"
)

var (
	handleMu   sync.Mutex
	nextHandle uint64 = 1
	partitions        = make(map[uint64]*data.Partition)

	lastErrorMu sync.Mutex
	lastError   string

	logSilenceOnce sync.Once
)

func setLastError(err error) {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	if err != nil {
		lastError = err.Error()
	} else {
		lastError = ""
	}
}

func getLastError() string {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	return lastError
}

func storePartition(p *data.Partition) uint64 {
	handleMu.Lock()
	defer handleMu.Unlock()
	handle := nextHandle
	partitions[handle] = p
	nextHandle++
	return handle
}

func fetchPartition(handle uint64) (*data.Partition, error) {
	handleMu.Lock()
	defer handleMu.Unlock()
	partition, ok := partitions[handle]
	if !ok {
		return nil, errors.New("invalid partition handle")
	}
	return partition, nil
}

//export FreePartition
func FreePartition(handle C.ulonglong) {
	handleMu.Lock()
	defer handleMu.Unlock()
	delete(partitions, uint64(handle))
}

func copyFloatSlice(ptr *C.double, length int) ([]float64, error) {
	if length < 0 {
		return nil, errors.New("negative length")
	}
	if length == 0 {
		return []float64{}, nil
	}
	if ptr == nil {
		return nil, errors.New("null pointer for non-empty slice")
	}
	src := unsafe.Slice((*float64)(unsafe.Pointer(ptr)), length)
	dst := make([]float64, length)
	copy(dst, src)
	return dst, nil
}

//optionalFloatSlice copies an optional input; a null pointer means the input is absent.
func optionalFloatSlice(ptr *C.double, length int) ([]float64, error) {
	if ptr == nil {
		return nil, nil
	}
	return copyFloatSlice(ptr, length)
}

func sliceFromPtr(ptr *C.double, length int) ([]float64, error) {
	if length < 0 {
		return nil, errors.New("negative length")
	}
	if length == 0 {
		return nil, nil
	}
	if ptr == nil {
		return nil, errors.New("null pointer for non-empty slice")
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(ptr)), length), nil
}

func buildDense(ptr *C.double, rows, cols C.int) (*mat.Dense, error) {
	r := int(rows)
	c := int(cols)
	if r <= 0 || c <= 0 {
		return nil, errors.New("invalid matrix dimensions")
	}
	values, err := copyFloatSlice(ptr, r*c)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(r, c, values), nil
}

func silenceLog() {
	logSilenceOnce.Do(func() {
		log.InitLogger("/dev/null", log.TextFormatter, "warning")
	})
}

//export SplitData
func SplitData(
	datasetPtr *C.double,
	rows C.int,
	cols C.int,
	labelsPtr *C.double,
	weightsPtr *C.double,
	testRatio C.double,
	shuffle C.int,
	stratify C.int,
	seed C.longlong,
) C.ulonglong {
	setLastError(nil)
	silenceLog()

	dataset, err := buildDense(datasetPtr, rows, cols)
	if err != nil {
		setLastError(err)
		return 0
	}

	var labels *data.Labels
	labelValues, err := optionalFloatSlice(labelsPtr, int(cols))
	if err != nil {
		setLastError(err)
		return 0
	}
	if labelValues != nil {
		labels = data.RowLabels(labelValues)
	}

	weights, err := optionalFloatSlice(weightsPtr, int(cols))
	if err != nil {
		setLastError(err)
		return 0
	}

	params := data.SplitParams{
		TestRatio: float64(testRatio),
		Shuffle:   shuffle != 0,
		Stratify:  stratify != 0,
		Rand:      rand.New(rand.NewSource(int64(seed))),
	}
	partition, err := data.Split(dataset, labels, weights, params)
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.ulonglong(storePartition(partition))
}

//export PartitionSizes
func PartitionSizes(handle C.ulonglong, trainSize, testSize *C.int) C.int {
	setLastError(nil)
	partition, err := fetchPartition(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}
	if trainSize != nil {
		*trainSize = C.int(partition.TrainSize())
	}
	if testSize != nil {
		*testSize = C.int(partition.TestSize())
	}
	return 0
}

//copyMatrix writes m row-major into out, which holds rows*cols values.
func copyMatrix(out *C.double, m *mat.Dense) error {
	if out == nil || m.IsEmpty() {
		return nil
	}
	r, c := m.Dims()
	dst, err := sliceFromPtr(out, r*c)
	if err != nil {
		return err
	}
	raw := m.RawMatrix()
	for i := 0; i < r; i++ {
		copy(dst[i*c:(i+1)*c], raw.Data[i*raw.Stride:i*raw.Stride+c])
	}
	return nil
}

func copyVector(out *C.double, values []float64) error {
	if out == nil {
		return nil
	}
	dst, err := sliceFromPtr(out, len(values))
	if err != nil {
		return err
	}
	copy(dst, values)
	return nil
}

func copyIndices(out *C.longlong, indices []int) {
	if out == nil || len(indices) == 0 {
		return
	}
	dst := unsafe.Slice((*int64)(unsafe.Pointer(out)), len(indices))
	for i, idx := range indices {
		dst[i] = int64(idx)
	}
}

//export CopyPartition
func CopyPartition(
	handle C.ulonglong,
	trainPtr, testPtr *C.double,
	trainLabelsPtr, testLabelsPtr *C.double,
	trainWeightsPtr, testWeightsPtr *C.double,
	trainIndicesPtr, testIndicesPtr *C.longlong,
) C.int {
	setLastError(nil)
	partition, err := fetchPartition(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}

	if err := copyMatrix(trainPtr, partition.Train); err != nil {
		setLastError(err)
		return 2
	}
	if err := copyMatrix(testPtr, partition.Test); err != nil {
		setLastError(err)
		return 3
	}
	if partition.TrainLabels != nil {
		if err := copyVector(trainLabelsPtr, partition.TrainLabels.Values); err != nil {
			setLastError(err)
			return 4
		}
		if err := copyVector(testLabelsPtr, partition.TestLabels.Values); err != nil {
			setLastError(err)
			return 4
		}
	}
	if err := copyVector(trainWeightsPtr, partition.TrainWeights); err != nil {
		setLastError(err)
		return 5
	}
	if err := copyVector(testWeightsPtr, partition.TestWeights); err != nil {
		setLastError(err)
		return 5
	}
	copyIndices(trainIndicesPtr, partition.TrainIndices)
	copyIndices(testIndicesPtr, partition.TestIndices)
	return 0
}

//export EvaluateCategoricalSplit
func EvaluateCategoricalSplit(
	bestGain C.double,
	dataPtr *C.double,
	n C.int,
	numCategories C.int,
	labelsPtr *C.double,
	numClasses C.int,
	weightsPtr *C.double,
	minimumLeafSize C.int,
	minimumGainSplit C.double,
	classification C.int,
	gainOut *C.double,
	numChildrenOut *C.int,
) C.int {
	setLastError(nil)
	silenceLog()

	points, err := copyFloatSlice(dataPtr, int(n))
	if err != nil {
		setLastError(err)
		return 1
	}
	labels, err := copyFloatSlice(labelsPtr, int(n))
	if err != nil {
		setLastError(err)
		return 2
	}
	weights, err := optionalFloatSlice(weightsPtr, int(n))
	if err != nil {
		setLastError(err)
		return 3
	}

	var gain float64
	var payload tree.SplitPayload
	if classification != 0 {
		classes := make([]int, len(labels))
		for i, v := range labels {
			if v < 0 || v != float64(int(v)) {
				setLastError(errors.New("classification labels must be non-negative integers"))
				return 2
			}
			classes[i] = int(v)
		}
		splitter := tree.AllCategoricalSplit[int]{Fitness: tree.GiniGain[int]{}, Mode: tree.Classification}
		gain, payload, err = splitter.SplitIfBetter(float64(bestGain), points, int(numCategories), classes, int(numClasses),
			weights, int(minimumLeafSize), float64(minimumGainSplit))
	} else {
		splitter := tree.AllCategoricalSplit[float64]{Fitness: tree.MSEGain[float64]{}, Mode: tree.Regression}
		gain, payload, err = splitter.SplitIfBetter(float64(bestGain), points, int(numCategories), labels, 0,
			weights, int(minimumLeafSize), float64(minimumGainSplit))
	}
	if err != nil {
		setLastError(err)
		return 4
	}

	if gainOut != nil {
		*gainOut = C.double(gain)
	}
	if numChildrenOut != nil {
		*numChildrenOut = C.int(tree.NumChildren(payload))
	}
	return 0
}

//export SSEGradients
func SSEGradients(
	observedPtr, predictedPtr *C.double,
	n C.int,
	gradientsOut, hessiansOut, residualsOut *C.double,
) C.int {
	setLastError(nil)
	observed, err := copyFloatSlice(observedPtr, int(n))
	if err != nil {
		setLastError(err)
		return 1
	}
	predicted, err := copyFloatSlice(predictedPtr, int(n))
	if err != nil {
		setLastError(err)
		return 2
	}

	var sse ensemble.SSELoss
	outputs := []struct {
		ptr     *C.double
		compute func(observed, predicted []float64) ([]float64, error)
	}{
		{gradientsOut, sse.Gradients},
		{hessiansOut, sse.Hessians},
		{residualsOut, sse.Residuals},
	}
	for _, output := range outputs {
		if output.ptr == nil {
			continue
		}
		values, err := output.compute(observed, predicted)
		if err != nil {
			setLastError(err)
			return 3
		}
		if err := copyVector(output.ptr, values); err != nil {
			setLastError(err)
			return 4
		}
	}
	return 0
}

//export GetLastError
func GetLastError() *C.char {
	errStr := getLastError()
	if errStr == "" {
		return nil
	}
	return C.CString(errStr)
}

//export FreeCString
func FreeCString(str *C.char) {
	if str != nil {
		C.free(unsafe.Pointer(str))
	}
}

func main() {}
