// Package predict extrapolates a double-star relative-position track to
// a future epoch. The motion of a slow visual pair over the plotted
// window is close enough to linear that a least-squares fit of X(t) and
// Y(t) over the dated historical series gives a usable predicted
// position; anything better needs a full orbital solution, which is out
// of scope here.
package predict

import (
	"fmt"
	"math"

	"github.com/starplotd/starplot/internal/astro"
)

// MinDataPoints is the minimum number of historical points required for
// a fit.
const MinDataPoints = 3

// ModelInfo describes the fitted track model.
type ModelInfo struct {
	Algorithm  string  `json:"algorithm"`
	SlopeX     float64 `json:"slope_x"`  // arcsec per year
	SlopeY     float64 `json:"slope_y"`  // arcsec per year
	InterceptX float64 `json:"intercept_x"`
	InterceptY float64 `json:"intercept_y"`
	RMSEX      float64 `json:"rmse_x"`
	RMSEY      float64 `json:"rmse_y"`
	DataPoints int     `json:"data_points"`
}

// Prediction is an extrapolated relative position at a target epoch.
type Prediction struct {
	Epoch float64     `json:"epoch"` // fractional year
	Point astro.Point `json:"point"`
	Model ModelInfo   `json:"model"`
}

// Linear fits X(t) and Y(t) by ordinary least squares over the dated
// historical series and evaluates both fits at the target epoch.
func Linear(hist astro.DatedSeries, epoch float64) (*Prediction, error) {
	n := hist.Len()
	if n < MinDataPoints {
		return nil, fmt.Errorf("insufficient data points: need %d, have %d", MinDataPoints, n)
	}
	if len(hist.Dates) != n {
		return nil, fmt.Errorf("dates length %d does not match series length %d", len(hist.Dates), n)
	}

	slopeX, interceptX, err := fitLine(hist.Dates, hist.X)
	if err != nil {
		return nil, err
	}
	slopeY, interceptY, err := fitLine(hist.Dates, hist.Y)
	if err != nil {
		return nil, err
	}

	return &Prediction{
		Epoch: epoch,
		Point: astro.Point{
			X: interceptX + slopeX*epoch,
			Y: interceptY + slopeY*epoch,
		},
		Model: ModelInfo{
			Algorithm:  "linear",
			SlopeX:     slopeX,
			SlopeY:     slopeY,
			InterceptX: interceptX,
			InterceptY: interceptY,
			RMSEX:      rmse(hist.Dates, hist.X, slopeX, interceptX),
			RMSEY:      rmse(hist.Dates, hist.Y, slopeY, interceptY),
			DataPoints: n,
		},
	}, nil
}

// fitLine computes the least-squares slope and intercept of y over t.
func fitLine(t, y []float64) (slope, intercept float64, err error) {
	n := float64(len(t))

	sumT := 0.0
	sumY := 0.0
	sumTY := 0.0
	sumT2 := 0.0
	for i := range t {
		sumT += t[i]
		sumY += y[i]
		sumTY += t[i] * y[i]
		sumT2 += t[i] * t[i]
	}

	denominator := n*sumT2 - sumT*sumT
	if denominator == 0 {
		return 0, 0, fmt.Errorf("cannot fit track: all observation dates are identical")
	}

	slope = (n*sumTY - sumT*sumY) / denominator
	intercept = (sumY - slope*sumT) / n
	return slope, intercept, nil
}

// rmse computes the root mean squared residual of the fit.
func rmse(t, y []float64, slope, intercept float64) float64 {
	sum := 0.0
	for i := range t {
		r := y[i] - (intercept + slope*t[i])
		sum += r * r
	}
	return math.Sqrt(sum / float64(len(t)))
}
