package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/go-gota/gota/dataframe"
	"github.com/rs/zerolog"

	"datacleaner/pkg/cleaner"
	"datacleaner/pkg/data"
	"datacleaner/pkg/dataprep"
)

var (
	name    = "datacleaner"
	version = "0.1.0"
)

// Usage:
//
//	datacleaner outliers --input data.csv --contamination 0.1 --plot dist.png
//	datacleaner outliers --input data.csv --return-outliers --features a,b
//	datacleaner impute --input data.csv --strategy fill_median --output filled.csv
//	datacleaner vif --input data.csv --threshold 5 --all

type outliersCmd struct {
	Input          string   `arg:"-i,--input,required" help:"input CSV file"`
	Output         string   `arg:"-o,--output" help:"output CSV file (stdout when empty)"`
	Contamination  float64  `arg:"-c,--contamination" default:"0.1" help:"expected outlier fraction in (0, 0.5]"`
	ReturnOutliers bool     `arg:"--return-outliers" help:"return the outlier rows instead of the cleaned rows"`
	Features       []string `arg:"-f,--features,separate" help:"numeric feature columns (default all numeric)"`
	Seed           int64    `arg:"--seed" default:"0" help:"random seed of the robust covariance fit"`
	Plot           string   `arg:"--plot" help:"save a histogram of the distances to this PNG/SVG/PDF file"`
}

type imputeCmd struct {
	Input    string `arg:"-i,--input,required" help:"input CSV file"`
	Output   string `arg:"-o,--output" help:"output CSV file (stdout when empty)"`
	Strategy string `arg:"-s,--strategy" default:"drop" help:"drop, fill_median, fill_mean or interpolate"`
}

type vifCmd struct {
	Input     string   `arg:"-i,--input,required" help:"input CSV file"`
	Threshold float64  `arg:"-t,--threshold" default:"5" help:"VIF above which a feature is flagged"`
	Features  []string `arg:"-f,--features,separate" help:"numeric feature columns (default all numeric)"`
	All       bool     `arg:"--all" help:"print every feature, not only the flagged ones"`
}

type args struct {
	Outliers *outliersCmd `arg:"subcommand:outliers" help:"remove or extract outliers by robust Mahalanobis distance"`
	Impute   *imputeCmd   `arg:"subcommand:impute" help:"resolve missing values"`
	VIF      *vifCmd      `arg:"subcommand:vif" help:"variance inflation factors of numeric features"`
	LogLevel string       `arg:"--log-level" default:"info" help:"debug, info, warn or error"`
}

func (args) Version() string {
	return fmt.Sprintf("%s %s", name, version)
}

func (args) Description() string {
	return "Data cleaning helpers for CSV datasets: outlier removal, missing value imputation and collinearity diagnostics."
}

func main() {
	var args args
	p := arg.MustParse(&args)
	if p.Subcommand() == nil {
		p.Fail("missing subcommand")
	}

	level, err := zerolog.ParseLevel(args.LogLevel)
	if err != nil {
		p.Fail(err.Error())
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	switch {
	case args.Outliers != nil:
		err = runOutliers(args.Outliers, log)
	case args.Impute != nil:
		err = runImpute(args.Impute, log)
	case args.VIF != nil:
		err = runVIF(args.VIF, os.Stdout, log)
	}
	if err != nil {
		log.Error().Err(err).Msg(name)
		os.Exit(1)
	}
}

func runOutliers(cmd *outliersCmd, log zerolog.Logger) error {
	df, err := data.LoadCSV(cmd.Input)
	if err != nil {
		return err
	}
	log.Info().Str("input", cmd.Input).Int("rows", df.Nrow()).Int("columns", df.Ncol()).Msg("loaded")

	c := cleaner.New(
		cleaner.WithLogger(log),
		cleaner.WithSeed(cmd.Seed),
		cleaner.WithFeatures(splitNames(cmd.Features)...),
	)
	scores, err := c.OutlierScores(df, cmd.Contamination)
	if err != nil {
		return err
	}
	if cmd.Plot != "" {
		if err := plotDistances(scores, cmd.Plot); err != nil {
			return err
		}
		log.Info().Str("plot", cmd.Plot).Msg("distance histogram saved")
	}

	out := c.SelectRows(df, scores, cmd.ReturnOutliers)
	return save(out, cmd.Output, log)
}

func runImpute(cmd *imputeCmd, log zerolog.Logger) error {
	strategy, err := dataprep.ParseStrategy(cmd.Strategy)
	if err != nil {
		return err
	}
	df, err := data.LoadCSV(cmd.Input)
	if err != nil {
		return err
	}
	log.Info().Str("input", cmd.Input).Int("rows", df.Nrow()).Int("columns", df.Ncol()).Msg("loaded")

	out, err := cleaner.New(cleaner.WithLogger(log)).ImputeMissing(df, strategy)
	if err != nil {
		return err
	}
	return save(out, cmd.Output, log)
}

func runVIF(cmd *vifCmd, w io.Writer, log zerolog.Logger) error {
	df, err := data.LoadCSV(cmd.Input)
	if err != nil {
		return err
	}
	c := cleaner.New(
		cleaner.WithLogger(log),
		cleaner.WithFeatures(splitNames(cmd.Features)...),
	)
	all, flagged, err := c.ComputeVIF(df, cmd.Threshold)
	if err != nil {
		return err
	}
	if cmd.All {
		printVIF(w, all, cmd.Threshold)
	} else {
		printVIF(w, flagged, cmd.Threshold)
	}
	return nil
}

// printVIF writes one aligned line per row of a feature/vif frame, marking
// the features above threshold.
func printVIF(w io.Writer, scores dataframe.DataFrame, threshold float64) {
	fmt.Fprintf(w, "%-20s%-15s\n", "Feature", "VIF")
	if scores.Nrow() == 0 {
		return
	}
	features := scores.Col("feature").Records()
	vifs := scores.Col("vif").Float()
	for i, f := range features {
		mark := ""
		if vifs[i] > threshold {
			mark = " *"
		}
		if math.IsInf(vifs[i], 1) {
			fmt.Fprintf(w, "%-20s%-15s%s\n", f, "inf", mark)
			continue
		}
		fmt.Fprintf(w, "%-20s%-15.6f%s\n", f, vifs[i], mark)
	}
}

func save(df dataframe.DataFrame, path string, log zerolog.Logger) error {
	if path == "" {
		return data.WriteCSV(os.Stdout, df)
	}
	if err := data.SaveCSV(path, df); err != nil {
		return err
	}
	log.Info().Str("output", path).Int("rows", df.Nrow()).Msg("saved")
	return nil
}

// splitNames accepts both repeated flags and comma separated lists.
func splitNames(in []string) []string {
	var out []string
	for _, s := range in {
		for _, n := range strings.Split(s, ",") {
			if n = strings.TrimSpace(n); n != "" {
				out = append(out, n)
			}
		}
	}
	return out
}
