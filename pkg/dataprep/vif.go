package dataprep

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"datacleaner/pkg/model"
	"datacleaner/pkg/stats"
)

// DefaultVIFThreshold is the usual cutoff above which a feature is considered collinear.
const DefaultVIFThreshold = 5.0

// tolerance below which 1-R² is treated as a perfect fit.
const perfectFit = 1e-12

// VIFScore is the variance inflation factor of one feature.
type VIFScore struct {
	Feature string
	VIF     float64
}

// VIF computes the variance inflation factor of every column of X by
// regressing it, with an intercept, on all other columns. Perfectly explained
// columns, constant ones included, score +Inf.
func VIF(X *mat.Dense, names []string) ([]VIFScore, error) {
	n, m := X.Dims()
	if m < 2 || len(names) < 2 {
		return nil, errors.Wrapf(ErrInsufficientData, "need at least 2 numeric features, got %d", len(names))
	}
	if len(names) != m {
		return nil, errors.Wrapf(ErrInvalidParameter, "%d names for %d features", len(names), m)
	}
	if n < 2 {
		return nil, errors.Wrapf(ErrInsufficientData, "need at least 2 rows, got %d", n)
	}
	for i := 0; i < n; i++ {
		if stats.HasNaN(X.RawRowView(i)) {
			return nil, errors.Wrapf(ErrMissingValues, "row %d", i)
		}
	}

	scores := make([]VIFScore, m)
	others := mat.NewDense(n, m-1, nil)
	for j := 0; j < m; j++ {
		y := mat.Col(nil, j, X)
		k := 0
		for c := 0; c < m; c++ {
			if c == j {
				continue
			}
			others.SetCol(k, mat.Col(nil, c, X))
			k++
		}
		v, err := vifOf(others, y)
		if err != nil {
			return nil, errors.Wrapf(err, "feature %q", names[j])
		}
		scores[j] = VIFScore{Feature: names[j], VIF: v}
	}
	return scores, nil
}

func vifOf(X *mat.Dense, y []float64) (float64, error) {
	if floats.Max(y) == floats.Min(y) {
		return math.Inf(1), nil
	}
	lr := model.NewLinearRegression(true)
	if err := lr.Fit(X, y); err != nil {
		return 0, err
	}
	r2 := model.R2(y, lr.Predict(X))
	if 1-r2 <= perfectFit {
		return math.Inf(1), nil
	}
	return 1 / (1 - r2), nil
}

// Collinear returns the scores strictly above threshold, in input order.
func Collinear(scores []VIFScore, threshold float64) []VIFScore {
	var out []VIFScore
	for _, s := range scores {
		if s.VIF > threshold {
			out = append(out, s)
		}
	}
	return out
}
