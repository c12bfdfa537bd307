// Package regression fits rating against sentiment polarity: a seeded
// train/test split, ordinary least squares with or without an intercept,
// mean squared error, and a k-fold search over the intercept flag.
package regression

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrTooFewSamples reports data too small for the requested split or folds.
var ErrTooFewSamples = errors.New("too few samples")

// Model is a fitted line y = Intercept + Slope*x.
type Model struct {
	FitIntercept bool
	Intercept    float64
	Slope        float64
}

// Fit computes the least-squares line through (x, y). Without an intercept
// the line passes through the origin. Degenerate inputs give a zero slope.
func Fit(x, y []float64, fitIntercept bool) (Model, error) {
	if len(x) != len(y) {
		return Model{}, fmt.Errorf("x has %d values, y has %d", len(x), len(y))
	}
	if len(x) == 0 {
		return Model{}, fmt.Errorf("%w: cannot fit zero samples", ErrTooFewSamples)
	}

	m := Model{FitIntercept: fitIntercept}
	if fitIntercept {
		if _, variance := stat.MeanVariance(x, nil); len(x) < 2 || variance == 0 {
			m.Intercept = stat.Mean(y, nil)
			return m, nil
		}
	} else if floats.Dot(x, x) == 0 {
		return m, nil
	}

	m.Intercept, m.Slope = stat.LinearRegression(x, y, nil, !fitIntercept)
	return m, nil
}

// Predict evaluates the line at every x.
func (m Model) Predict(x []float64) []float64 {
	if len(x) == 0 {
		return []float64{}
	}
	v := mat.NewVecDense(len(x), append([]float64(nil), x...))
	v.ScaleVec(m.Slope, v)
	out := mat.Col(nil, 0, v)
	floats.AddConst(m.Intercept, out)
	return out
}

// MeanSquaredError returns the mean of the squared differences.
func MeanSquaredError(actual, predicted []float64) (float64, error) {
	if len(actual) != len(predicted) {
		return 0, fmt.Errorf("actual has %d values, predicted has %d", len(actual), len(predicted))
	}
	if len(actual) == 0 {
		return 0, fmt.Errorf("%w: no values to compare", ErrTooFewSamples)
	}
	diff := make([]float64, len(actual))
	floats.SubTo(diff, actual, predicted)
	return floats.Dot(diff, diff) / float64(len(diff)), nil
}

// Split is a train/test partition of paired samples.
type Split struct {
	TrainIdx, TestIdx []int
	TrainX, TrainY    []float64
	TestX, TestY      []float64
}

// TrainTestSplit shuffles the indices with seed and puts the first
// ceil(testSize*n) of them in the test set.
func TrainTestSplit(x, y []float64, testSize float64, seed int64) (Split, error) {
	n := len(x)
	if n != len(y) {
		return Split{}, fmt.Errorf("x has %d values, y has %d", len(x), len(y))
	}
	if !(testSize > 0 && testSize < 1) {
		return Split{}, fmt.Errorf("test size %v must be between 0 and 1", testSize)
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	if nTest == 0 || n-nTest == 0 {
		return Split{}, fmt.Errorf("%w: %d samples cannot be split with test size %v", ErrTooFewSamples, n, testSize)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	s := Split{TestIdx: perm[:nTest], TrainIdx: perm[nTest:]}
	s.TrainX, s.TrainY = gather(x, y, s.TrainIdx)
	s.TestX, s.TestY = gather(x, y, s.TestIdx)
	return s, nil
}

func gather(x, y []float64, idx []int) ([]float64, []float64) {
	gx := make([]float64, len(idx))
	gy := make([]float64, len(idx))
	for i, j := range idx {
		gx[i], gy[i] = x[j], y[j]
	}
	return gx, gy
}

// Fold is one round of k-fold cross-validation.
type Fold struct {
	Train, Test []int
}

// KFold splits n samples into k contiguous folds without shuffling. The
// first n%k folds hold one extra sample.
func KFold(n, k int) ([]Fold, error) {
	if k < 2 {
		return nil, fmt.Errorf("need at least 2 folds, got %d", k)
	}
	if k > n {
		return nil, fmt.Errorf("%w: %d samples cannot make %d folds", ErrTooFewSamples, n, k)
	}

	folds := make([]Fold, 0, k)
	start := 0
	for i := 0; i < k; i++ {
		size := n / k
		if i < n%k {
			size++
		}
		var f Fold
		for j := 0; j < n; j++ {
			if j >= start && j < start+size {
				f.Test = append(f.Test, j)
			} else {
				f.Train = append(f.Train, j)
			}
		}
		folds = append(folds, f)
		start += size
	}
	return folds, nil
}

// Candidate is the cross-validated score of one intercept setting.
type Candidate struct {
	FitIntercept bool
	MeanMSE      float64
	FoldMSE      []float64
}

// SearchResult is the outcome of GridSearch.
type SearchResult struct {
	Candidates []Candidate
	Best       Candidate
	Model      Model // Best setting refit on all of x and y
}

// GridSearch scores fit_intercept true and false by mean k-fold MSE and
// refits the better one on all the data. Ties go to fitting the intercept.
func GridSearch(x, y []float64, k int) (SearchResult, error) {
	if len(x) != len(y) {
		return SearchResult{}, fmt.Errorf("x has %d values, y has %d", len(x), len(y))
	}
	folds, err := KFold(len(x), k)
	if err != nil {
		return SearchResult{}, err
	}

	var res SearchResult
	for i, fitIntercept := range []bool{true, false} {
		c := Candidate{FitIntercept: fitIntercept}
		for _, f := range folds {
			trainX, trainY := gather(x, y, f.Train)
			testX, testY := gather(x, y, f.Test)
			m, err := Fit(trainX, trainY, fitIntercept)
			if err != nil {
				return SearchResult{}, err
			}
			mse, err := MeanSquaredError(testY, m.Predict(testX))
			if err != nil {
				return SearchResult{}, err
			}
			c.FoldMSE = append(c.FoldMSE, mse)
		}
		c.MeanMSE = stat.Mean(c.FoldMSE, nil)
		res.Candidates = append(res.Candidates, c)
		if i == 0 || c.MeanMSE < res.Best.MeanMSE {
			res.Best = c
		}
	}

	res.Model, err = Fit(x, y, res.Best.FitIntercept)
	if err != nil {
		return SearchResult{}, err
	}
	return res, nil
}

// Config controls Analyze.
type Config struct {
	TestSize float64
	Seed     int64
	Folds    int
}

// DefaultConfig returns an 80/20 split seeded with 42 and 5 folds.
func DefaultConfig() Config {
	return Config{TestSize: 0.2, Seed: 42, Folds: 5}
}

// Summary holds every result of Analyze.
type Summary struct {
	Split Split

	Baseline            Model // Fitted with an intercept on the training set
	BaselinePredictions []float64
	BaselineMSE         float64

	Search          SearchResult
	BestPredictions []float64
	BestMSE         float64
}

// Analyze splits the data, fits the baseline model, runs the grid search on
// the training set and evaluates both models on the test set.
func Analyze(x, y []float64, cfg Config) (Summary, error) {
	var s Summary
	var err error

	if s.Split, err = TrainTestSplit(x, y, cfg.TestSize, cfg.Seed); err != nil {
		return Summary{}, err
	}

	if s.Baseline, err = Fit(s.Split.TrainX, s.Split.TrainY, true); err != nil {
		return Summary{}, err
	}
	s.BaselinePredictions = s.Baseline.Predict(s.Split.TestX)
	if s.BaselineMSE, err = MeanSquaredError(s.Split.TestY, s.BaselinePredictions); err != nil {
		return Summary{}, err
	}
	slog.Info("[Regression] Baseline fitted",
		slog.Float64("intercept", s.Baseline.Intercept),
		slog.Float64("slope", s.Baseline.Slope),
		slog.Float64("mse", s.BaselineMSE))

	if s.Search, err = GridSearch(s.Split.TrainX, s.Split.TrainY, cfg.Folds); err != nil {
		return Summary{}, err
	}
	s.BestPredictions = s.Search.Model.Predict(s.Split.TestX)
	if s.BestMSE, err = MeanSquaredError(s.Split.TestY, s.BestPredictions); err != nil {
		return Summary{}, err
	}
	slog.Info("[Regression] Grid search finished",
		slog.Bool("fit_intercept", s.Search.Best.FitIntercept),
		slog.Float64("cv_mse", s.Search.Best.MeanMSE),
		slog.Float64("mse", s.BestMSE))

	return s, nil
}
