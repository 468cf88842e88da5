package stats

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Covariance is a location and scatter estimate of a feature matrix,
// together with the precision matrix used for distance computations.
type Covariance struct {
	Location   []float64
	Covariance *mat.SymDense
	Precision  *mat.SymDense
	// Support holds the row indices the final estimate was computed from.
	Support []int
	// LogDet is the log-determinant of Covariance, -Inf when it is singular.
	LogDet float64
}

// SquaredDistances returns the squared Mahalanobis distance of every row of X
// to the estimated location.
func (c *Covariance) SquaredDistances(X *mat.Dense) []float64 {
	return squaredMahalanobis(X, c.Location, c.Precision)
}

// Distances returns the Mahalanobis distance of every row of X to the
// estimated location.
func (c *Covariance) Distances(X *mat.Dense) []float64 {
	d := c.SquaredDistances(X)
	for i, v := range d {
		d[i] = math.Sqrt(v)
	}
	return d
}

func squaredMahalanobis(X *mat.Dense, loc []float64, prec *mat.SymDense) []float64 {
	n, p := X.Dims()
	out := make([]float64, n)
	diff := mat.NewVecDense(p, nil)
	for i := 0; i < n; i++ {
		row := X.RawRowView(i)
		for j := 0; j < p; j++ {
			diff.SetVec(j, row[j]-loc[j])
		}
		d := mat.Inner(diff, prec, diff)
		// rounding can push a zero distance slightly negative
		if d < 0 {
			d = 0
		}
		out[i] = d
	}
	return out
}

// empirical computes the maximum likelihood location and covariance of the
// given rows of X.
func empirical(X *mat.Dense, rows []int) ([]float64, *mat.SymDense) {
	_, p := X.Dims()
	h := len(rows)
	sub := mat.NewDense(h, p, nil)
	for i, r := range rows {
		sub.SetRow(i, X.RawRowView(r))
	}
	loc := make([]float64, p)
	for j := 0; j < p; j++ {
		loc[j] = stat.Mean(mat.Col(nil, j, sub), nil)
	}
	cov := mat.NewSymDense(p, nil)
	stat.CovarianceMatrix(cov, sub, nil)
	if h > 1 {
		cov.ScaleSym(float64(h-1)/float64(h), cov)
	}
	return loc, cov
}

// precisionOf inverts cov through its Cholesky factorization and falls back
// to the Moore-Penrose pseudo-inverse when cov is singular.
func precisionOf(cov *mat.SymDense) (*mat.SymDense, float64) {
	p := cov.SymmetricDim()
	var chol mat.Cholesky
	if chol.Factorize(cov) {
		prec := mat.NewSymDense(p, nil)
		if err := chol.InverseTo(prec); err == nil {
			return prec, chol.LogDet()
		}
	}
	return pseudoInverse(cov), math.Inf(-1)
}

func pseudoInverse(a *mat.SymDense) *mat.SymDense {
	p := a.SymmetricDim()
	out := mat.NewSymDense(p, nil)

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return out
	}
	s := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	tol := 0.0
	if len(s) > 0 {
		tol = s[0] * float64(p) * 2.220446049250313e-16
	}
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			sum := 0.0
			for k, sk := range s {
				if sk > tol {
					sum += v.At(i, k) * u.At(j, k) / sk
				}
			}
			out.SetSym(i, j, sum)
		}
	}
	return out
}
