package regression

import (
	"errors"
	"math"
	"sort"
	"testing"
)

func seq(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i + 1)
	}
	return x
}

func line(x []float64, intercept, slope float64) []float64 {
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = intercept + slope*v
	}
	return y
}

func TestFit(t *testing.T) {
	x := seq(10)

	tests := []struct {
		name          string
		x, y          []float64
		fitIntercept  bool
		wantIntercept float64
		wantSlope     float64
	}{
		{"with intercept", x, line(x, 2, 3), true, 2, 3},
		{"through origin", x, line(x, 0, -1.5), false, 0, -1.5},
		{"origin ignores offset", []float64{1, 1}, []float64{3, 5}, false, 0, 4},
		{"constant x", []float64{2, 2, 2}, []float64{1, 2, 6}, true, 3, 0},
		{"single sample", []float64{4}, []float64{7}, true, 7, 0},
		{"zero x through origin", []float64{0, 0}, []float64{1, 2}, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Fit(tt.x, tt.y, tt.fitIntercept)
			if err != nil {
				t.Fatalf("Fit: %v", err)
			}
			if math.Abs(m.Intercept-tt.wantIntercept) > 1e-9 || math.Abs(m.Slope-tt.wantSlope) > 1e-9 {
				t.Errorf("Fit = %+v, want intercept %v slope %v", m, tt.wantIntercept, tt.wantSlope)
			}
			if m.FitIntercept != tt.fitIntercept {
				t.Errorf("FitIntercept = %v, want %v", m.FitIntercept, tt.fitIntercept)
			}
		})
	}
}

func TestFitErrors(t *testing.T) {
	if _, err := Fit(nil, nil, true); !errors.Is(err, ErrTooFewSamples) {
		t.Errorf("Fit(empty) err = %v, want ErrTooFewSamples", err)
	}
	if _, err := Fit([]float64{1, 2}, []float64{1}, true); err == nil {
		t.Error("expected error for mismatched lengths")
	}
}

func TestPredictAndMSE(t *testing.T) {
	m := Model{FitIntercept: true, Intercept: 1, Slope: 2}
	x := []float64{0, 1, -1}
	got := m.Predict(x)
	want := []float64{1, 3, -1}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("Predict[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if x[1] != 1 {
		t.Error("Predict modified its input")
	}
	if got := m.Predict(nil); len(got) != 0 {
		t.Errorf("Predict(nil) = %v, want empty", got)
	}

	mse, err := MeanSquaredError([]float64{1, 2, 3}, []float64{1, 4, 0})
	if err != nil {
		t.Fatalf("MeanSquaredError: %v", err)
	}
	if math.Abs(mse-13.0/3) > 1e-12 {
		t.Errorf("MeanSquaredError = %v, want %v", mse, 13.0/3)
	}
	if _, err := MeanSquaredError(nil, nil); !errors.Is(err, ErrTooFewSamples) {
		t.Errorf("MeanSquaredError(empty) err = %v, want ErrTooFewSamples", err)
	}
}

func TestTrainTestSplit(t *testing.T) {
	x := seq(11)
	y := line(x, 0, 10)

	s, err := TrainTestSplit(x, y, 0.2, 42)
	if err != nil {
		t.Fatalf("TrainTestSplit: %v", err)
	}
	if len(s.TestIdx) != 3 || len(s.TrainIdx) != 8 {
		t.Fatalf("sizes = %d/%d, want 8/3", len(s.TrainIdx), len(s.TestIdx))
	}

	all := append(append([]int(nil), s.TrainIdx...), s.TestIdx...)
	sort.Ints(all)
	for i, idx := range all {
		if i != idx {
			t.Fatalf("indices %v are not a permutation", all)
		}
	}
	for i, idx := range s.TestIdx {
		if s.TestX[i] != x[idx] || s.TestY[i] != y[idx] {
			t.Errorf("test sample %d does not match row %d", i, idx)
		}
	}

	again, _ := TrainTestSplit(x, y, 0.2, 42)
	for i := range s.TestIdx {
		if again.TestIdx[i] != s.TestIdx[i] {
			t.Fatalf("same seed gave %v then %v", s.TestIdx, again.TestIdx)
		}
	}
}

func TestTrainTestSplitErrors(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		testSize float64
	}{
		{"empty", 0, 0.2},
		{"single sample", 1, 0.2},
		{"zero test size", 10, 0},
		{"whole set", 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := seq(tt.n)
			if _, err := TrainTestSplit(x, x, tt.testSize, 1); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestKFold(t *testing.T) {
	folds, err := KFold(11, 5)
	if err != nil {
		t.Fatalf("KFold: %v", err)
	}
	wantSizes := []int{3, 2, 2, 2, 2}
	next := 0
	for i, f := range folds {
		if len(f.Test) != wantSizes[i] || len(f.Train)+len(f.Test) != 11 {
			t.Errorf("fold %d sizes = %d/%d", i, len(f.Train), len(f.Test))
		}
		for _, idx := range f.Test {
			if idx != next {
				t.Errorf("fold %d test index %d, want %d", i, idx, next)
			}
			next++
		}
	}

	if _, err := KFold(3, 5); !errors.Is(err, ErrTooFewSamples) {
		t.Errorf("KFold(3, 5) err = %v, want ErrTooFewSamples", err)
	}
	if _, err := KFold(10, 1); err == nil {
		t.Error("expected error for a single fold")
	}
}

func TestGridSearch(t *testing.T) {
	x := seq(10)

	// An offset line is only recovered with an intercept.
	res, err := GridSearch(x, line(x, 10, 1), 5)
	if err != nil {
		t.Fatalf("GridSearch: %v", err)
	}
	if !res.Best.FitIntercept {
		t.Errorf("Best = %+v, want intercept", res.Best)
	}
	if len(res.Candidates) != 2 || len(res.Candidates[0].FoldMSE) != 5 {
		t.Errorf("Candidates = %+v", res.Candidates)
	}
	if math.Abs(res.Model.Intercept-10) > 1e-9 || math.Abs(res.Model.Slope-1) > 1e-9 {
		t.Errorf("refit model = %+v, want 10 + 1x", res.Model)
	}

	// Alternating noise around a line through the origin makes the free
	// intercept overfit each fold.
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2*v + 3
		if i%2 == 1 {
			y[i] = 2*v - 3
		}
	}
	res, err = GridSearch(x, y, 5)
	if err != nil {
		t.Fatalf("GridSearch: %v", err)
	}
	if res.Best.FitIntercept || res.Model.FitIntercept || res.Model.Intercept != 0 {
		t.Errorf("Best = %+v, model %+v; want origin fit", res.Best, res.Model)
	}
	if res.Candidates[1].MeanMSE >= res.Candidates[0].MeanMSE {
		t.Errorf("origin MSE %v not below intercept MSE %v", res.Candidates[1].MeanMSE, res.Candidates[0].MeanMSE)
	}
}

func TestGridSearchTiePrefersIntercept(t *testing.T) {
	// With x all zero both settings predict from nothing but the intercept
	// flag; y of zero makes both exact.
	x := make([]float64, 6)
	y := make([]float64, 6)
	res, err := GridSearch(x, y, 3)
	if err != nil {
		t.Fatalf("GridSearch: %v", err)
	}
	if !res.Best.FitIntercept {
		t.Errorf("Best = %+v, want intercept on a tie", res.Best)
	}
}

func TestAnalyze(t *testing.T) {
	x := make([]float64, 50)
	for i := range x {
		x[i] = float64(i%21-10) / 10
	}
	y := line(x, 3, 2)

	s, err := Analyze(x, y, DefaultConfig())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(s.Split.TestX) != 10 || len(s.BaselinePredictions) != 10 || len(s.BestPredictions) != 10 {
		t.Errorf("test sizes = %d/%d/%d, want 10", len(s.Split.TestX), len(s.BaselinePredictions), len(s.BestPredictions))
	}
	if s.BaselineMSE > 1e-9 || s.BestMSE > 1e-9 {
		t.Errorf("MSE = %v/%v, want 0 on a noise-free line", s.BaselineMSE, s.BestMSE)
	}
	if !s.Search.Best.FitIntercept {
		t.Errorf("Best = %+v, want intercept", s.Search.Best)
	}

	if _, err := Analyze(x[:3], y[:3], Config{TestSize: 0.2, Seed: 42, Folds: 5}); !errors.Is(err, ErrTooFewSamples) {
		t.Errorf("Analyze(3 samples) err = %v, want ErrTooFewSamples", err)
	}
}
