package frame

import (
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/require"
)

func mixedFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]string{"a", "b", "c"}, series.String, "id"),
		series.New([]float64{1, math.NaN(), 3}, series.Float, "x"),
		series.New([]int{4, 5, 6}, series.Int, "n"),
		series.New([]bool{true, false, true}, series.Bool, "flag"),
	)
}

func TestNumericColumns(t *testing.T) {
	require.Equal(t, []string{"x", "n"}, NumericColumns(mixedFrame()))
}

func TestFeatures(t *testing.T) {
	require := require.New(t)

	df := mixedFrame()
	names, err := Features(df, nil)
	require.NoError(err)
	require.Equal([]string{"x", "n"}, names)

	names, err = Features(df, []string{"n"})
	require.NoError(err)
	require.Equal([]string{"n"}, names)

	_, err = Features(df, []string{"id"})
	require.ErrorIs(err, ErrUnknownColumn)
	_, err = Features(df, []string{"nope"})
	require.ErrorIs(err, ErrUnknownColumn)
}

func TestMatrix(t *testing.T) {
	require := require.New(t)

	m := Matrix(mixedFrame(), []string{"n", "x"})
	r, c := m.Dims()
	require.Equal(3, r)
	require.Equal(2, c)
	require.Equal(5.0, m.At(1, 0))
	require.True(math.IsNaN(m.At(1, 1)))
}

func TestMissing(t *testing.T) {
	require := require.New(t)

	df := mixedFrame()
	require.Equal([]bool{false, true, false}, Missing(df.Col("x")))
	require.True(HasMissing(df.Col("x")))
	require.False(HasMissing(df.Col("id")))
}

func TestWhereKeepsOrderAndColumns(t *testing.T) {
	require := require.New(t)

	df := mixedFrame()
	out := Where(df, []bool{true, false, true})
	require.Equal(2, out.Nrow())
	require.Equal(df.Names(), out.Names())
	require.Equal([]string{"a", "c"}, out.Col("id").Records())
	require.Equal([]float64{4, 6}, out.Col("n").Float())

	none := Where(df, []bool{false, false, false})
	require.Equal(0, none.Nrow())
	require.Equal(4, none.Ncol())
}

func TestReplaceCopies(t *testing.T) {
	require := require.New(t)

	df := mixedFrame()
	out := Replace(df, map[string][]float64{"x": {1, 2, 3}})
	require.Equal([]float64{1, 2, 3}, out.Col("x").Float())
	require.True(math.IsNaN(df.Col("x").Float()[1]), "source untouched")
	require.Equal(df.Names(), out.Names())
}

func TestEqual(t *testing.T) {
	require := require.New(t)

	require.True(Equal(mixedFrame(), mixedFrame()))

	other := Replace(mixedFrame(), map[string][]float64{"x": {1, 2, 3}})
	require.False(Equal(mixedFrame(), other))
	require.False(Equal(mixedFrame(), Where(mixedFrame(), []bool{true, true, false})))
}
