package ensemble

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

//SSELoss is the sum of squared errors, L = 1/2 sum (y - f)^2.
type SSELoss struct{}

//InitialPrediction returns the mean of values, the constant minimizing the loss.
//It is NaN for no values.
func (SSELoss) InitialPrediction(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return floats.Sum(values) / float64(len(values))
}

//Gradient returns f - y.
func (SSELoss) Gradient(observed, predicted float64) float64 {
	return predicted - observed
}

//Hessian is 1 everywhere.
func (SSELoss) Hessian(_, _ float64) float64 {
	return 1
}

//Residual returns y - f, the negated gradient.
func (SSELoss) Residual(observed, predicted float64) float64 {
	return observed - predicted
}

//Gradients returns predicted - observed.
func (SSELoss) Gradients(observed, predicted []float64) ([]float64, error) {
	if err := checkLengths(observed, predicted); err != nil {
		return nil, err
	}
	return floats.SubTo(make([]float64, len(observed)), predicted, observed), nil
}

//Hessians returns a vector of ones.
func (SSELoss) Hessians(observed, predicted []float64) ([]float64, error) {
	if err := checkLengths(observed, predicted); err != nil {
		return nil, err
	}
	out := make([]float64, len(observed))
	for i := range out {
		out[i] = 1
	}
	return out, nil
}

//Residuals returns observed - predicted.
func (SSELoss) Residuals(observed, predicted []float64) ([]float64, error) {
	if err := checkLengths(observed, predicted); err != nil {
		return nil, err
	}
	return floats.SubTo(make([]float64, len(observed)), observed, predicted), nil
}

//Loss returns 1/2 sum (observed - predicted)^2.
func (SSELoss) Loss(observed, predicted []float64) (float64, error) {
	if err := checkLengths(observed, predicted); err != nil {
		return 0, err
	}
	diff := floats.SubTo(make([]float64, len(observed)), observed, predicted)
	return floats.Dot(diff, diff) / 2, nil
}
