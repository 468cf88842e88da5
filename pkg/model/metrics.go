package model

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MSE returns the mean squared error of yPred against yTrue.
func MSE(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	res := make([]float64, len(yTrue))
	floats.SubTo(res, yTrue, yPred)
	return floats.Dot(res, res) / float64(len(yTrue))
}

func RMSE(yTrue, yPred []float64) float64 { return math.Sqrt(MSE(yTrue, yPred)) }

// R2 returns the coefficient of determination of yPred against yTrue.
// A constant yTrue has no variance to explain and yields 0.
func R2(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 || floats.Max(yTrue) == floats.Min(yTrue) {
		return 0
	}
	return stat.RSquaredFrom(yPred, yTrue, nil)
}
