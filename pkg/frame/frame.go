// Package frame holds the dataset helpers shared by the cleaning operations.
// Datasets are gota data frames; helpers never modify the frame they are given.
package frame

import (
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrUnknownColumn is returned when a requested column is absent or not numeric.
var ErrUnknownColumn = errors.New("frame: unknown or non-numeric column")

// IsNumeric reports whether s holds numbers.
func IsNumeric(s series.Series) bool {
	t := s.Type()
	return t == series.Float || t == series.Int
}

// NumericColumns returns the names of the numeric columns of df, in frame order.
func NumericColumns(df dataframe.DataFrame) []string {
	var names []string
	for _, name := range df.Names() {
		if IsNumeric(df.Col(name)) {
			names = append(names, name)
		}
	}
	return names
}

// Features resolves the feature subset of df. An empty subset selects every
// numeric column; an explicit subset must only name numeric columns.
func Features(df dataframe.DataFrame, subset []string) ([]string, error) {
	if len(subset) == 0 {
		return NumericColumns(df), nil
	}
	known := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		known[name] = IsNumeric(df.Col(name))
	}
	out := make([]string, len(subset))
	for i, name := range subset {
		if !known[name] {
			return nil, errors.Wrapf(ErrUnknownColumn, "%q", name)
		}
		out[i] = name
	}
	return out, nil
}

// Matrix copies the named columns of df into a rows x len(names) matrix.
// Missing cells become NaN.
func Matrix(df dataframe.DataFrame, names []string) *mat.Dense {
	rows := df.Nrow()
	if rows == 0 || len(names) == 0 {
		return &mat.Dense{}
	}
	m := mat.NewDense(rows, len(names), nil)
	for j, name := range names {
		m.SetCol(j, df.Col(name).Float())
	}
	return m
}

// Missing returns, for every cell of s, whether the value is absent.
// Numeric NaN values count as missing.
func Missing(s series.Series) []bool {
	if IsNumeric(s) {
		vals := s.Float()
		out := make([]bool, len(vals))
		for i, v := range vals {
			out[i] = math.IsNaN(v)
		}
		return out
	}
	return s.IsNaN()
}

// HasMissing reports whether any cell of s is absent.
func HasMissing(s series.Series) bool {
	for _, m := range Missing(s) {
		if m {
			return true
		}
	}
	return false
}

// Take returns a new frame holding the given rows of df, in the given order.
func Take(df dataframe.DataFrame, rows []int) dataframe.DataFrame {
	idx := make([]int, len(rows))
	copy(idx, rows)
	return df.Subset(idx)
}

// Where returns a new frame holding the rows of df for which keep is true,
// preserving row order.
func Where(df dataframe.DataFrame, keep []bool) dataframe.DataFrame {
	rows := make([]int, 0, len(keep))
	for i, k := range keep {
		if k {
			rows = append(rows, i)
		}
	}
	return Take(df, rows)
}

// Replace returns a copy of df whose named columns are swapped for the given
// float values. Columns not listed are copied unchanged.
func Replace(df dataframe.DataFrame, cols map[string][]float64) dataframe.DataFrame {
	out := make([]series.Series, 0, df.Ncol())
	for _, name := range df.Names() {
		if vals, ok := cols[name]; ok {
			out = append(out, series.New(vals, series.Float, name))
			continue
		}
		out = append(out, df.Col(name))
	}
	return dataframe.New(out...)
}

// Equal reports whether a and b hold the same columns, types and values.
// Missing cells compare equal to each other.
func Equal(a, b dataframe.DataFrame) bool {
	if a.Nrow() != b.Nrow() || a.Ncol() != b.Ncol() {
		return false
	}
	an, bn := a.Names(), b.Names()
	for i := range an {
		if an[i] != bn[i] {
			return false
		}
		ac, bc := a.Col(an[i]), b.Col(bn[i])
		if ac.Type() != bc.Type() {
			return false
		}
		if !equalSeries(ac, bc) {
			return false
		}
	}
	return true
}

func equalSeries(a, b series.Series) bool {
	am, bm := Missing(a), Missing(b)
	if IsNumeric(a) {
		av, bv := a.Float(), b.Float()
		for i := range av {
			if am[i] != bm[i] || (!am[i] && av[i] != bv[i]) {
				return false
			}
		}
		return true
	}
	ar, br := a.Records(), b.Records()
	for i := range ar {
		if am[i] != bm[i] || (!am[i] && ar[i] != br[i]) {
			return false
		}
	}
	return true
}
