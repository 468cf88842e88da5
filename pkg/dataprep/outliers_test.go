package dataprep

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"datacleaner/pkg/stats"
)

func genMatrix(n, m int, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	X := mat.NewDense(n, m, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			X.Set(i, j, rng.NormFloat64()*float64(j+1))
		}
	}
	return X
}

func TestValidateContamination(t *testing.T) {
	for _, c := range []float64{0.01, 0.1, 0.5} {
		require.NoError(t, ValidateContamination(c), "%v", c)
	}
	for _, c := range []float64{0, -0.1, 0.51, 1, math.NaN()} {
		require.ErrorIs(t, ValidateContamination(c), ErrInvalidParameter, "%v", c)
	}
}

func TestSupportSize(t *testing.T) {
	require := require.New(t)

	require.Equal(90, SupportSize(100, 2, 0.1))
	require.Equal(52, SupportSize(100, 2, 0.5))
	require.Equal(3, SupportSize(3, 2, 0.1))
}

func TestScorePartition(t *testing.T) {
	require := require.New(t)

	X := genMatrix(100, 3, 5)
	for _, c := range []float64{0.05, 0.1, 0.25, 0.5} {
		det := OutlierDetector{Contamination: c, Rand: rand.New(rand.NewSource(1))}
		scores, err := det.Score(X)
		require.NoError(err)
		require.Len(scores.Distances, 100)

		in, out := scores.Inliers(), scores.Outliers()
		kept := 0
		for i := range in {
			require.NotEqual(in[i], out[i], "row %d in exactly one set", i)
			if in[i] {
				kept++
			}
		}
		want := int(math.Floor(100 * (1 - c)))
		require.GreaterOrEqual(kept, want, "c=%v", c)
		require.LessOrEqual(kept, want+1, "c=%v", c)
	}
}

func TestScoreFindsPlantedOutliers(t *testing.T) {
	require := require.New(t)

	X := genMatrix(150, 2, 9)
	planted := []int{0, 42, 149}
	for _, i := range planted {
		X.SetRow(i, []float64{40, -60})
	}
	scores, err := OutlierDetector{Contamination: 0.05}.Score(X)
	require.NoError(err)
	out := scores.Outliers()
	for _, i := range planted {
		require.True(out[i], "row %d", i)
	}
}

func TestThresholdTiesAreInliers(t *testing.T) {
	require := require.New(t)

	s := &OutlierScores{Distances: []float64{1, 2, 2, 3}, Threshold: 2}
	require.Equal([]bool{true, true, true, false}, s.Inliers())
	require.Equal([]bool{false, false, false, true}, s.Outliers())
}

func TestScoreErrors(t *testing.T) {
	require := require.New(t)

	_, err := OutlierDetector{Contamination: 0.7}.Score(genMatrix(10, 2, 1))
	require.ErrorIs(err, ErrInvalidParameter)

	_, err = OutlierDetector{Contamination: 0.1}.Score(genMatrix(3, 3, 1))
	require.ErrorIs(err, ErrInsufficientData)

	_, err = OutlierDetector{Contamination: 0.1}.Score(&mat.Dense{})
	require.ErrorIs(err, ErrInsufficientData)

	X := genMatrix(10, 2, 1)
	X.Set(4, 1, math.NaN())
	_, err = OutlierDetector{Contamination: 0.1}.Score(X)
	require.ErrorIs(err, ErrMissingValues)
}

func TestScoreDuplicatedRows(t *testing.T) {
	require := require.New(t)

	X := mat.NewDense(10, 2, nil)
	for i := 0; i < 9; i++ {
		X.SetRow(i, []float64{1, 0})
	}
	X.SetRow(9, []float64{5, 9})

	_, err := OutlierDetector{Contamination: 0.1}.Score(X)
	require.ErrorIs(err, ErrInsufficientData)
	require.Contains(err.Error(), stats.ErrZeroCovariance.Error())
}
