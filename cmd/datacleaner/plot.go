package main

import (
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"datacleaner/pkg/dataprep"
)

const histBins = 30

// plotDistances saves a histogram of the Mahalanobis distances with the
// outlier threshold drawn as a vertical line.
func plotDistances(scores *dataprep.OutlierScores, filename string) error {
	p := plot.New()
	p.Title.Text = "Robust Mahalanobis distances"
	p.X.Label.Text = "distance"
	p.Y.Label.Text = "rows"

	hist, err := plotter.NewHist(plotter.Values(scores.Distances), histBins)
	if err != nil {
		return errors.Wrap(err, "histogram")
	}
	hist.FillColor = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	p.Add(hist)

	top := 0.0
	for _, b := range hist.Bins {
		top = max(top, b.Weight)
	}
	line, err := plotter.NewLine(plotter.XYs{
		{X: scores.Threshold, Y: 0},
		{X: scores.Threshold, Y: top},
	})
	if err != nil {
		return errors.Wrap(err, "threshold line")
	}
	line.Color = color.RGBA{R: 220, A: 255}
	line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	line.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add("threshold", line)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, filename); err != nil {
		return errors.Wrapf(err, "save %s", filename)
	}
	return nil
}
