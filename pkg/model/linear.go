package model

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// rcond is the relative singular value cutoff used to decide the rank of a design matrix.
const rcond = 1e-12

// ErrDimensionMismatch is returned when features and targets disagree in size.
var ErrDimensionMismatch = errors.New("model: dimension mismatch")

// LinearRegression is an ordinary least squares fit, optionally with an intercept.
type LinearRegression struct {
	W            []float64 // weights
	b            float64   // bias
	FitIntercept bool
}

// NewLinearRegression returns an unfitted least squares model.
func NewLinearRegression(fitIntercept bool) *LinearRegression {
	return &LinearRegression{FitIntercept: fitIntercept}
}

// Fit solves the least squares problem through an SVD of the design matrix, so
// rank deficient designs get the minimum-norm solution instead of an error.
func (m *LinearRegression) Fit(X *mat.Dense, y []float64) error {
	n, p := X.Dims()
	if n == 0 || len(y) != n {
		return errors.Wrapf(ErrDimensionMismatch, "%d rows, %d targets", n, len(y))
	}
	off := 0
	if m.FitIntercept {
		off = 1
	}
	if p+off == 0 {
		return errors.Wrap(ErrDimensionMismatch, "no regressors")
	}

	design := mat.NewDense(n, p+off, nil)
	for i := 0; i < n; i++ {
		row := design.RawRowView(i)
		if m.FitIntercept {
			row[0] = 1
		}
		copy(row[off:], X.RawRowView(i))
	}
	target := mat.NewDense(n, 1, append([]float64(nil), y...))

	var svd mat.SVD
	if !svd.Factorize(design, mat.SVDThin) {
		return errors.New("model: SVD factorization failed")
	}
	coef := make([]float64, p+off)
	if rank := svd.Rank(rcond); rank > 0 {
		var beta mat.Dense
		svd.SolveTo(&beta, target, rank)
		mat.Col(coef, 0, &beta)
	}

	m.b = 0
	if m.FitIntercept {
		m.b = coef[0]
	}
	m.W = coef[off:]
	return nil
}

// Predict returns predictions for the rows of X.
func (m *LinearRegression) Predict(X *mat.Dense) []float64 {
	n, p := X.Dims()
	pred := make([]float64, n)
	for i := 0; i < n; i++ {
		row := X.RawRowView(i)
		sum := m.b
		for j := 0; j < p; j++ {
			sum += m.W[j] * row[j]
		}
		pred[i] = sum
	}
	return pred
}

// Bias returns the fitted intercept.
func (m *LinearRegression) Bias() float64 {
	return m.b
}
