// Package cleaner bundles the data cleaning operations: robust Mahalanobis
// outlier removal, missing value imputation and variance inflation factor
// diagnostics.
//
// A DataCleaner only holds configuration. Every operation takes the dataset
// explicitly and returns a new frame; the input frame is never modified, so a
// DataCleaner may be shared between goroutines.
package cleaner

import (
	"math"
	"math/rand"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"datacleaner/pkg/dataprep"
	"datacleaner/pkg/frame"
	"datacleaner/pkg/stats"
)

// DataCleaner runs cleaning operations over gota data frames.
type DataCleaner struct {
	opts options
}

// New returns a DataCleaner configured by opts.
func New(opts ...Option) *DataCleaner {
	o := options{
		logger: zerolog.Nop(),
		trials: stats.DefaultTrials,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return &DataCleaner{opts: o}
}

func (c *DataCleaner) features(df dataframe.DataFrame) ([]string, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	names, err := frame.Features(df, c.opts.features)
	if err != nil {
		return nil, errors.Wrap(dataprep.ErrInvalidParameter, err.Error())
	}
	return names, nil
}

// OutlierScores fits the robust covariance of the feature columns of df and
// returns every row's Mahalanobis distance with the (1-contamination)
// percentile threshold.
func (c *DataCleaner) OutlierScores(df dataframe.DataFrame, contamination float64) (*dataprep.OutlierScores, error) {
	names, err := c.features(df)
	if err != nil {
		return nil, err
	}
	det := dataprep.OutlierDetector{
		Contamination: contamination,
		Trials:        c.opts.trials,
		Rand:          rand.New(rand.NewSource(c.opts.seed)),
	}
	scores, err := det.Score(frame.Matrix(df, names))
	if err != nil {
		return nil, err
	}
	c.opts.logger.Debug().
		Int("rows", df.Nrow()).
		Strs("features", names).
		Float64("contamination", contamination).
		Float64("threshold", scores.Threshold).
		Int("support", len(scores.Covariance.Support)).
		Msg("robust covariance fitted")
	return scores, nil
}

// DetectOutliers removes the rows of df whose robust Mahalanobis distance
// exceeds the (1-contamination) percentile of all distances. With
// returnOutliers set it returns only those rows instead. Rows are returned
// whole, all columns included, in their original order.
func (c *DataCleaner) DetectOutliers(df dataframe.DataFrame, contamination float64, returnOutliers bool) (dataframe.DataFrame, error) {
	scores, err := c.OutlierScores(df, contamination)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return c.SelectRows(df, scores, returnOutliers), nil
}

// SelectRows splits df by scores computed on it earlier: the inlier rows, or
// with returnOutliers set the outlier rows.
func (c *DataCleaner) SelectRows(df dataframe.DataFrame, scores *dataprep.OutlierScores, returnOutliers bool) dataframe.DataFrame {
	mask := scores.Inliers()
	if returnOutliers {
		mask = scores.Outliers()
	}
	out := frame.Where(df, mask)
	c.opts.logger.Info().
		Int("rows", df.Nrow()).
		Int("kept", out.Nrow()).
		Bool("return_outliers", returnOutliers).
		Msg("outlier detection done")
	return out
}

// ImputeMissing returns a copy of df with missing values resolved by strategy.
func (c *DataCleaner) ImputeMissing(df dataframe.DataFrame, strategy dataprep.Strategy) (dataframe.DataFrame, error) {
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	if strategy != dataprep.Drop {
		for _, name := range df.Names() {
			col := df.Col(name)
			if !frame.IsNumeric(col) && frame.HasMissing(col) {
				c.opts.logger.Debug().
					Str("column", name).
					Stringer("strategy", strategy).
					Msg("non-numeric column left with missing values")
			}
		}
	}
	out, err := dataprep.HandleMissingValues(df, strategy)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	c.opts.logger.Info().
		Stringer("strategy", strategy).
		Int("rows", df.Nrow()).
		Int("kept", out.Nrow()).
		Msg("missing values handled")
	return out, nil
}

// VIFScores returns the variance inflation factor of every feature column of
// df, in column order.
func (c *DataCleaner) VIFScores(df dataframe.DataFrame) ([]dataprep.VIFScore, error) {
	names, err := c.features(df)
	if err != nil {
		return nil, err
	}
	return dataprep.VIF(frame.Matrix(df, names), names)
}

// ComputeVIF returns the full VIF table of the feature columns of df and the
// subset of features whose VIF is above threshold.
func (c *DataCleaner) ComputeVIF(df dataframe.DataFrame, threshold float64) (all, flagged dataframe.DataFrame, err error) {
	if math.IsNaN(threshold) {
		return all, flagged, errors.Wrap(dataprep.ErrInvalidParameter, "threshold is NaN")
	}
	scores, err := c.VIFScores(df)
	if err != nil {
		return all, flagged, err
	}
	high := dataprep.Collinear(scores, threshold)
	c.opts.logger.Info().
		Int("features", len(scores)).
		Int("collinear", len(high)).
		Float64("threshold", threshold).
		Msg("variance inflation computed")
	return VIFFrame(scores), VIFFrame(high), nil
}

// VIFFrame renders scores as a frame with a "feature" and a "vif" column.
func VIFFrame(scores []dataprep.VIFScore) dataframe.DataFrame {
	names := make([]string, len(scores))
	vals := make([]float64, len(scores))
	for i, s := range scores {
		names[i], vals[i] = s.Feature, s.VIF
	}
	return dataframe.New(
		series.New(names, series.String, "feature"),
		series.New(vals, series.Float, "vif"),
	)
}
