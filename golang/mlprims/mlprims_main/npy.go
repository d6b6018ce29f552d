package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sbinet/npyio"
	"github.com/tarstars/mlprims/golang/mlprims/data"
	"github.com/tarstars/mlprims/golang/mlprims/log"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

//readNpy reads the content of a float64 npy file as a flat array and its shape.
func readNpy(fileName string) ([]float64, []int, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, nil, err
	}
	defer func() { handleError(f.Close()) }()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read header of %s", fileName)
	}
	if r.Header.Descr.Fortran {
		return nil, nil, errors.Errorf("%s is stored in Fortran order", fileName)
	}
	var values []float64
	if err := r.Read(&values); err != nil {
		return nil, nil, errors.Wrapf(err, "read %s", fileName)
	}
	return values, append([]int(nil), r.Header.Descr.Shape...), nil
}

//readDataset reads a two-dimensional npy file. With samplesInRows the file holds one
//sample per row and the matrix is transposed so that samples become columns.
func readDataset(fileName string, samplesInRows bool) *mat.Dense {
	log.WithFields(log.Fields{"file": fileName}).Info("load dataset")
	values, shape, err := readNpy(fileName)
	handleError(err)
	if len(shape) != 2 {
		log.Fatalf("dataset %s has shape %v, want two dimensions", fileName, shape)
	}
	if shape[0] == 0 || shape[1] == 0 {
		log.Fatalf("dataset %s is empty", fileName)
	}
	dataset := mat.NewDense(shape[0], shape[1], values)
	if samplesInRows {
		return mat.DenseCopyOf(dataset.T())
	}
	return dataset
}

//readLabels reads labels of any rank; samples run along the last axis.
func readLabels(fileName string) *data.Labels {
	if fileName == "" {
		return nil
	}
	log.WithFields(log.Fields{"file": fileName}).Info("load labels")
	values, shape, err := readNpy(fileName)
	handleError(err)
	if len(values) == 0 {
		return data.RowLabels(values)
	}
	labels, err := data.LabelsFromTensor(tensor.New(tensor.WithShape(shape...), tensor.WithBacking(values)))
	handleError(err)
	return labels
}

//readVector reads a one-dimensional npy file, or returns nil for an empty file name.
func readVector(fileName string) []float64 {
	if fileName == "" {
		return nil
	}
	log.WithFields(log.Fields{"file": fileName}).Info("load vector")
	values, shape, err := readNpy(fileName)
	handleError(err)
	if len(shape) > 1 && len(values) != shape[0] && len(values) != shape[len(shape)-1] {
		log.Fatalf("%s has shape %v, want a vector", fileName, shape)
	}
	return values
}

func writeNpy(fileName string, val interface{}) {
	if fileName == "" {
		return
	}
	dst, err := os.Create(fileName)
	handleError(err)
	defer func() { handleError(dst.Close()) }()
	handleError(npyio.Write(dst, val))
}

//writeDataset writes a partition side, transposed back when samples were read in rows.
func writeDataset(fileName string, m *mat.Dense, samplesInRows bool) {
	if m.IsEmpty() {
		writeNpy(fileName, []float64{})
		return
	}
	if samplesInRows {
		m = mat.DenseCopyOf(m.T())
	}
	writeNpy(fileName, m)
}

func writeLabels(fileName string, labels *data.Labels) {
	if labels == nil {
		return
	}
	t := labels.Tensor()
	if t == nil {
		writeNpy(fileName, []float64{})
		return
	}
	values := t.Data().([]float64)
	shape := t.Shape()
	switch shape.Dims() {
	case 1:
		writeNpy(fileName, values)
	case 2:
		writeNpy(fileName, mat.NewDense(shape[0], shape[1], values))
	default:
		log.Fatalf("labels of shape %v can not be written", shape)
	}
}
