package dataprep

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"datacleaner/pkg/stats"
)

// DefaultContamination is the expected outlier fraction used when none is given.
const DefaultContamination = 0.1

// OutlierDetector flags rows far from a robust estimate of the data's center,
// measured by Mahalanobis distance.
type OutlierDetector struct {
	// Contamination is the expected fraction of outliers, in (0, 0.5].
	Contamination float64
	// Trials is the number of random starts of the covariance fit.
	Trials int
	// Rand drives the covariance fit's random starts.
	Rand *rand.Rand
}

// OutlierScores holds the per-row distances of a fitted detector and the
// cutoff separating inliers from outliers.
type OutlierScores struct {
	Distances  []float64
	Threshold  float64
	Covariance *stats.Covariance
}

// Inliers marks the rows whose distance is at most the threshold.
func (s *OutlierScores) Inliers() []bool {
	out := make([]bool, len(s.Distances))
	for i, d := range s.Distances {
		out[i] = d <= s.Threshold
	}
	return out
}

// Outliers marks the rows whose distance exceeds the threshold.
func (s *OutlierScores) Outliers() []bool {
	out := make([]bool, len(s.Distances))
	for i, d := range s.Distances {
		out[i] = d > s.Threshold
	}
	return out
}

// ValidateContamination checks that c lies in (0, 0.5].
func ValidateContamination(c float64) error {
	if math.IsNaN(c) || c <= 0 || c > 0.5 {
		return errors.Wrapf(ErrInvalidParameter, "contamination %v outside (0, 0.5]", c)
	}
	return nil
}

// SupportSize returns how many rows the robust fit is computed from for n rows,
// m features and contamination c: enough to leave out the expected outliers,
// and never fewer than the breakdown-optimal half.
func SupportSize(n, m int, c float64) int {
	h := n - int(math.Floor(c*float64(n)))
	return min(max(h, stats.DefaultSupportSize(n, m)), n)
}

// Score fits the robust covariance of X once and computes every row's
// distance together with the (1-c) percentile threshold.
func (d OutlierDetector) Score(X *mat.Dense) (*OutlierScores, error) {
	if err := ValidateContamination(d.Contamination); err != nil {
		return nil, err
	}
	n, m := X.Dims()
	if n == 0 || m == 0 {
		return nil, errors.Wrapf(ErrInsufficientData, "empty feature matrix (%d rows, %d features)", n, m)
	}
	if n <= m {
		return nil, errors.Wrapf(ErrInsufficientData, "need more than %d rows for %d features, got %d", m, m, n)
	}
	for i := 0; i < n; i++ {
		if stats.HasNaN(X.RawRowView(i)) {
			return nil, errors.Wrapf(ErrMissingValues, "row %d", i)
		}
	}

	mcd := stats.MinCovDet{
		SupportSize: SupportSize(n, m, d.Contamination),
		Trials:      d.Trials,
		Rand:        d.Rand,
	}
	cov, err := mcd.Fit(X)
	switch {
	case errors.Is(err, stats.ErrTooFewSamples), errors.Is(err, stats.ErrZeroCovariance):
		return nil, errors.Wrapf(ErrInsufficientData, "%v", err)
	case err != nil:
		return nil, errors.Wrap(err, "robust covariance")
	}

	dist := cov.Distances(X)
	return &OutlierScores{
		Distances:  dist,
		Threshold:  stats.Percentile(dist, 100*(1-d.Contamination)),
		Covariance: cov,
	}, nil
}
