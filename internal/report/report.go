// Package report summarizes a scored review table and its regression as
// plain text tables.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/tsawler/sentiprose"
	"github.com/tsawler/sentiprose/internal/dataset"
	"github.com/tsawler/sentiprose/internal/regression"
)

// HistogramBins is the number of rating histogram bins.
const HistogramBins = 10

// Bin is one histogram bucket covering [Low, High).
type Bin struct {
	Low, High float64
	Count     int
}

// Pair is one (x, y) observation.
type Pair struct {
	X, Y float64
}

// LabelStats describes the ratings of the reviews carrying one label.
type LabelStats struct {
	Label  sentiprose.Label
	Count  int
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
	Mean   float64
}

// Report holds the summaries of a scored table.
type Report struct {
	Reviews int
	Skipped int

	RatingHistogram []Bin

	PolarityRating []Pair
	Correlation    float64 // Pearson, NaN when either side is constant

	Labels []LabelStats

	Regression       regression.Summary
	ActualPredicted  []Pair
	HasRegressionFit bool
}

// Build computes the report for the scored rows of table. A nil summary
// leaves the regression sections empty.
func Build(table *dataset.Table, summary *regression.Summary) Report {
	rows := table.Scored()
	r := Report{Reviews: len(table.Rows), Skipped: len(table.Rows) - len(rows)}

	ratings := table.Ratings()
	r.RatingHistogram = histogram(ratings, HistogramBins)

	polarities := table.Polarities()
	for i := range polarities {
		r.PolarityRating = append(r.PolarityRating, Pair{X: polarities[i], Y: ratings[i]})
	}
	r.Correlation = math.NaN()
	if len(polarities) > 1 {
		r.Correlation = stat.Correlation(polarities, ratings, nil)
	}

	byLabel := make(map[sentiprose.Label][]float64)
	for _, row := range rows {
		byLabel[row.Label] = append(byLabel[row.Label], row.Rating)
	}
	for _, label := range sentiprose.Labels {
		if values, ok := byLabel[label]; ok {
			r.Labels = append(r.Labels, describe(label, values))
		}
	}

	if summary != nil {
		r.Regression = *summary
		r.HasRegressionFit = true
		for i, actual := range summary.Split.TestY {
			r.ActualPredicted = append(r.ActualPredicted, Pair{X: actual, Y: summary.BestPredictions[i]})
		}
	}
	return r
}

// histogram splits the range of x into equal-width bins. The last bin
// includes the maximum.
func histogram(x []float64, bins int) []Bin {
	if len(x) == 0 {
		return nil
	}
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	dividers[0], dividers[bins] = lo, hi
	edges := append([]float64(nil), dividers...)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	out := make([]Bin, bins)
	for i, c := range counts {
		out[i] = Bin{Low: edges[i], High: edges[i+1], Count: int(c)}
	}
	return out
}

func describe(label sentiprose.Label, values []float64) LabelStats {
	sort.Float64s(values)
	return LabelStats{
		Label:  label,
		Count:  len(values),
		Min:    values[0],
		Q1:     quantile(0.25, values),
		Median: quantile(0.5, values),
		Q3:     quantile(0.75, values),
		Max:    values[len(values)-1],
		Mean:   stat.Mean(values, nil),
	}
}

// quantile interpolates between the closest ranks of sorted x, the
// convention box plots use.
func quantile(p float64, x []float64) float64 {
	h := p * float64(len(x)-1)
	i := int(math.Floor(h))
	if i+1 >= len(x) {
		return x[len(x)-1]
	}
	return x[i] + (h-float64(i))*(x[i+1]-x[i])
}

// Write prints every section of the report.
func (r Report) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Reviews scored:\t%d\n", r.Reviews-r.Skipped)
	fmt.Fprintf(tw, "Reviews skipped:\t%d\n\n", r.Skipped)

	fmt.Fprintln(tw, "Rating distribution")
	fmt.Fprintln(tw, "From\tTo\tCount\t")
	for _, b := range r.RatingHistogram {
		fmt.Fprintf(tw, "%s\t%s\t%d\t\n", num(b.Low), num(b.High), b.Count)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "Sentiment polarity vs rating")
	fmt.Fprintf(tw, "Pairs:\t%d\n", len(r.PolarityRating))
	fmt.Fprintf(tw, "Correlation:\t%s\n\n", num(r.Correlation))

	fmt.Fprintln(tw, "Rating by sentiment label")
	fmt.Fprintln(tw, "Label\tCount\tMin\tQ1\tMedian\tQ3\tMax\tMean\t")
	for _, s := range r.Labels {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			s.Label, s.Count, num(s.Min), num(s.Q1), num(s.Median), num(s.Q3), num(s.Max), num(s.Mean))
	}
	fmt.Fprintln(tw)

	if r.HasRegressionFit {
		s := r.Regression
		fmt.Fprintln(tw, "Linear regression of rating on polarity")
		fmt.Fprintln(tw, "Model\tIntercept\tSlope\tTest MSE\t")
		fmt.Fprintf(tw, "baseline\t%s\t%s\t%s\t\n", num(s.Baseline.Intercept), num(s.Baseline.Slope), num(s.BaselineMSE))
		fmt.Fprintf(tw, "best (fit_intercept=%t)\t%s\t%s\t%s\t\n",
			s.Search.Best.FitIntercept, num(s.Search.Model.Intercept), num(s.Search.Model.Slope), num(s.BestMSE))
		fmt.Fprintln(tw)

		fmt.Fprintln(tw, "Grid search (mean cross-validated MSE)")
		for _, c := range s.Search.Candidates {
			fmt.Fprintf(tw, "fit_intercept=%t\t%s\t\n", c.FitIntercept, num(c.MeanMSE))
		}
		fmt.Fprintln(tw)

		fmt.Fprintln(tw, "Actual vs predicted rating")
		fmt.Fprintln(tw, "Actual\tPredicted\t")
		for _, p := range r.ActualPredicted {
			fmt.Fprintf(tw, "%s\t%s\t\n", num(p.X), num(p.Y))
		}
	}

	return tw.Flush()
}

// Head prints the first n rows of the table with their derived columns.
func Head(w io.Writer, table *dataset.Table, n int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Line\tReview\tRating\tPreprocessed_Review\tSentiment_Label\tSentiment_Polarity\t")

	for i, row := range table.Rows {
		if i >= n {
			break
		}
		review := "NaN"
		if row.Review.Valid {
			review = truncate(row.Review.Text, 40)
		}
		label, polarity := "", ""
		if row.Scored {
			label, polarity = string(row.Label), num(row.Polarity)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t\n",
			row.Line, review, num(row.Rating), truncate(row.Preprocessed, 40), label, polarity)
	}
	return tw.Flush()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func truncate(s string, n int) string {
	r := []rune(s)
	for i, c := range r {
		if c == '\n' || c == '\t' || c == '\r' {
			r[i] = ' '
		}
	}
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-3]) + "..."
}
