// Package ensemble holds the loss functions a gradient boosting driver fits trees to.
package ensemble

import (
	"github.com/tarstars/mlprims/golang/mlprims/mlerrors"
)

//Loss is the interface of a differentiable loss of a boosted model.
//Observed values come first, the current predictions second.
type Loss interface {
	//InitialPrediction returns the constant prediction the ensemble starts from.
	InitialPrediction(values []float64) float64
	Gradient(observed, predicted float64) float64
	Hessian(observed, predicted float64) float64
	Residual(observed, predicted float64) float64
	Loss(observed, predicted []float64) (float64, error)
}

//Gradients returns the gradient of loss at every sample.
func Gradients(loss Loss, observed, predicted []float64) ([]float64, error) {
	return elementwise(observed, predicted, loss.Gradient)
}

//Hessians returns the second derivative of loss at every sample.
func Hessians(loss Loss, observed, predicted []float64) ([]float64, error) {
	return elementwise(observed, predicted, loss.Hessian)
}

//Residuals returns the pseudo-residual of loss at every sample.
func Residuals(loss Loss, observed, predicted []float64) ([]float64, error) {
	return elementwise(observed, predicted, loss.Residual)
}

func checkLengths(observed, predicted []float64) error {
	if len(observed) != len(predicted) {
		return mlerrors.DimensionMismatch("%d observed values, %d predictions", len(observed), len(predicted))
	}
	return nil
}

func elementwise(observed, predicted []float64, f func(o, p float64) float64) ([]float64, error) {
	if err := checkLengths(observed, predicted); err != nil {
		return nil, err
	}
	out := make([]float64, len(observed))
	for i := range observed {
		out[i] = f(observed[i], predicted[i])
	}
	return out, nil
}
