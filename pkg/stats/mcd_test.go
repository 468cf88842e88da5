package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// genData draws n correlated 2D gaussian rows and moves the rows at planted
// far away from the cloud.
func genData(n int, planted []int) *mat.Dense {
	rng := rand.New(rand.NewSource(7))
	X := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		a := rng.NormFloat64()
		b := 0.6*a + 0.8*rng.NormFloat64()
		X.SetRow(i, []float64{a, b})
	}
	for k, i := range planted {
		X.SetRow(i, []float64{25 + float64(k), -25 - float64(k)})
	}
	return X
}

func TestMinCovDetFlagsPlantedRows(t *testing.T) {
	require := require.New(t)

	planted := []int{3, 50, 97, 120, 199}
	X := genData(200, planted)

	cov, err := MinCovDet{Rand: rand.New(rand.NewSource(1))}.Fit(X)
	require.NoError(err)
	require.Len(cov.Location, 2)
	require.InDelta(0, cov.Location[0], 0.5)
	require.InDelta(0, cov.Location[1], 0.5)

	d := cov.Distances(X)
	require.Len(d, 200)
	support := make(map[int]bool, len(cov.Support))
	for _, i := range cov.Support {
		support[i] = true
	}
	for _, i := range planted {
		require.Greater(d[i], 10.0, "row %d", i)
		require.False(support[i], "row %d in support", i)
	}
}

func TestMinCovDetDeterministic(t *testing.T) {
	require := require.New(t)

	X := genData(80, []int{10})
	a, err := MinCovDet{Rand: rand.New(rand.NewSource(3))}.Fit(X)
	require.NoError(err)
	b, err := MinCovDet{Rand: rand.New(rand.NewSource(3))}.Fit(X)
	require.NoError(err)
	require.Equal(a.Distances(X), b.Distances(X))
}

func TestMinCovDetUnivariate(t *testing.T) {
	require := require.New(t)

	vals := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 1000}
	X := mat.NewDense(len(vals), 1, vals)
	cov, err := MinCovDet{}.Fit(X)
	require.NoError(err)

	d := cov.Distances(X)
	for i := 0; i < len(vals)-1; i++ {
		require.Less(d[i], d[len(vals)-1])
	}
	require.Greater(d[len(vals)-1], 50.0)
}

func TestMinCovDetTooFewSamples(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	_, err := MinCovDet{}.Fit(X)
	require.ErrorIs(t, err, ErrTooFewSamples)
}

func TestMinCovDetSingular(t *testing.T) {
	require := require.New(t)

	// second column is an exact multiple of the first
	X := mat.NewDense(10, 2, nil)
	for i := 0; i < 10; i++ {
		X.SetRow(i, []float64{float64(i), 2 * float64(i)})
	}
	cov, err := MinCovDet{}.Fit(X)
	require.NoError(err)
	for _, v := range cov.Distances(X) {
		require.False(math.IsNaN(v))
	}
}

// duplicated returns nine copies of (1, 0) followed by the row (5, 9).
func duplicated() *mat.Dense {
	X := mat.NewDense(10, 2, nil)
	for i := 0; i < 9; i++ {
		X.SetRow(i, []float64{1, 0})
	}
	X.SetRow(9, []float64{5, 9})
	return X
}

func TestMinCovDetZeroCovariance(t *testing.T) {
	require := require.New(t)

	for _, seed := range []int64{0, 1, 2} {
		_, err := MinCovDet{SupportSize: 9, Rand: rand.New(rand.NewSource(seed))}.Fit(duplicated())
		require.ErrorIs(err, ErrZeroCovariance, "seed %d", seed)
	}

	vals := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 5}
	_, err := MinCovDet{}.Fit(mat.NewDense(len(vals), 1, vals))
	require.ErrorIs(err, ErrZeroCovariance)
}

func TestMinCovDetCollinearWithOutlier(t *testing.T) {
	require := require.New(t)

	// the third column duplicates the first, so every support is singular
	rng := rand.New(rand.NewSource(11))
	X := mat.NewDense(60, 3, nil)
	for i := 0; i < 60; i++ {
		a, b := rng.NormFloat64(), rng.NormFloat64()
		X.SetRow(i, []float64{a, b, a})
	}
	X.SetRow(17, []float64{20, -20, 20})

	cov, err := MinCovDet{Rand: rand.New(rand.NewSource(1))}.Fit(X)
	require.NoError(err)
	require.NotEmpty(cov.Support)
	for i, v := range cov.Distances(X) {
		require.False(math.IsNaN(v), "row %d", i)
		require.False(math.IsInf(v, 0), "row %d", i)
	}
}

func TestCstepExactFit(t *testing.T) {
	require := require.New(t)

	X := genData(12, nil)
	for i := 0; i < 6; i++ {
		X.SetRow(i, []float64{1, 2})
	}
	support := []int{0, 1, 2, 3, 4, 5}
	c := cstep(X, support, 6, refineSteps)
	require.True(math.IsInf(c.logDet, -1))
	require.Equal(support, c.support)
	require.Equal([]float64{1, 2}, c.loc)
	require.True(isZero(c.cov))
	require.True(isZero(c.prec))
}

func TestPrecisionOfSingular(t *testing.T) {
	require := require.New(t)

	prec, logDet := precisionOf(mat.NewSymDense(2, []float64{1, 1, 1, 1}))
	require.True(math.IsInf(logDet, -1))
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			require.InDelta(0.25, prec.At(i, j), 1e-9)
		}
	}

	prec, logDet = precisionOf(mat.NewSymDense(2, []float64{2, 0, 0, 0.5}))
	require.InDelta(0, logDet, 1e-12)
	require.InDelta(0.5, prec.At(0, 0), 1e-12)
	require.InDelta(2, prec.At(1, 1), 1e-12)
}

func TestPseudoInverse(t *testing.T) {
	require := require.New(t)

	a := mat.NewSymDense(2, []float64{4, 0, 0, 0})
	p := pseudoInverse(a)
	require.InDelta(0.25, p.At(0, 0), 1e-12)
	require.InDelta(0, p.At(1, 1), 1e-12)
	require.InDelta(0, p.At(0, 1), 1e-12)
}
