package dataprep

import (
	"math"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/pkg/errors"

	"datacleaner/pkg/frame"
	"datacleaner/pkg/stats"
)

// Strategy selects how missing values are resolved.
type Strategy int

const (
	// Drop removes every row holding at least one missing value.
	Drop Strategy = iota
	// FillMedian replaces missing numeric values with the column median.
	FillMedian
	// FillMean replaces missing numeric values with the column mean.
	FillMean
	// Interpolate fills missing numeric values by linear interpolation along row order.
	Interpolate
)

var strategyNames = [...]string{
	Drop:        "drop",
	FillMedian:  "fill_median",
	FillMean:    "fill_mean",
	Interpolate: "interpolate",
}

// Strategies lists every supported strategy.
func Strategies() []Strategy {
	return []Strategy{Drop, FillMedian, FillMean, Interpolate}
}

func (s Strategy) String() string {
	if s < 0 || int(s) >= len(strategyNames) {
		return "unknown"
	}
	return strategyNames[s]
}

// ParseStrategy maps a strategy name to its Strategy.
func ParseStrategy(name string) (Strategy, error) {
	for _, s := range Strategies() {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, invalidStrategy(name)
}

func invalidStrategy(name string) error {
	return errors.Wrapf(ErrInvalidStrategy, "%q, choose from %s", name, strings.Join(strategyNames[:], ", "))
}

// ---------- Column Imputation ----------

// ImputeConstant returns a copy of col with missing values replaced by v.
func ImputeConstant(col []float64, v float64) []float64 {
	out := make([]float64, len(col))
	for i, x := range col {
		if math.IsNaN(x) {
			x = v
		}
		out[i] = x
	}
	return out
}

// ImputeMean replaces missing values with the mean of the present ones.
func ImputeMean(col []float64) []float64 {
	return ImputeConstant(col, stats.Mean(col))
}

// ImputeMedian replaces missing values with the median of the present ones.
func ImputeMedian(col []float64) []float64 {
	return ImputeConstant(col, stats.Median(col))
}

// ImputeLinear fills interior gaps by linear interpolation between the
// closest present neighbours. Leading and trailing gaps stay missing.
func ImputeLinear(col []float64) []float64 {
	out := make([]float64, len(col))
	copy(out, col)
	prev := -1
	for i, v := range col {
		if math.IsNaN(v) {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			span := float64(i - prev)
			for k := prev + 1; k < i; k++ {
				t := float64(k-prev) / span
				out[k] = col[prev] + t*(v-col[prev])
			}
		}
		prev = i
	}
	return out
}

// ---------- Frame Imputation ----------

// HandleMissingValues returns a new frame with missing values resolved by s.
// Fill and interpolate strategies only touch numeric columns; other columns
// are passed through with their missing cells intact.
func HandleMissingValues(df dataframe.DataFrame, s Strategy) (dataframe.DataFrame, error) {
	switch s {
	case Drop:
		return DropMissing(df), nil
	case FillMedian:
		return imputeColumns(df, ImputeMedian), nil
	case FillMean:
		return imputeColumns(df, ImputeMean), nil
	case Interpolate:
		return imputeColumns(df, ImputeLinear), nil
	}
	return dataframe.DataFrame{}, invalidStrategy(s.String())
}

// DropMissing removes every row holding a missing value in any column.
func DropMissing(df dataframe.DataFrame) dataframe.DataFrame {
	keep := make([]bool, df.Nrow())
	for i := range keep {
		keep[i] = true
	}
	for _, name := range df.Names() {
		for i, m := range frame.Missing(df.Col(name)) {
			if m {
				keep[i] = false
			}
		}
	}
	return frame.Where(df, keep)
}

func imputeColumns(df dataframe.DataFrame, fill func([]float64) []float64) dataframe.DataFrame {
	replaced := make(map[string][]float64)
	for _, name := range frame.NumericColumns(df) {
		col := df.Col(name).Float()
		if !stats.HasNaN(col) {
			continue
		}
		filled := fill(col)
		if changed(col, filled) {
			replaced[name] = filled
		}
	}
	return frame.Replace(df, replaced)
}

func changed(before, after []float64) bool {
	for i := range before {
		if math.IsNaN(before[i]) != math.IsNaN(after[i]) {
			return true
		}
	}
	return false
}
