package models

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// FitResult holds the fitted path-loss parameters and solver diagnostics
type FitResult struct {
	C float64 `json:"c" doc:"Calibration constant"`
	N float64 `json:"n" doc:"Path-loss exponent"`

	// Covariance of (C, n). Nil when it cannot be estimated (exactly
	// determined fit or singular JᵀJ).
	Covariance *mat.SymDense `json:"-"`

	Residual    float64 `json:"residual" doc:"Sum of squared residuals at the solution"`
	Iterations  int     `json:"iterations"`
	Evaluations int     `json:"evaluations"`
	Samples     int     `json:"samples"`
}

// StdErr returns the one-sigma uncertainties of C and n, or false when no
// covariance is available.
func (r *FitResult) StdErr() (c, n float64, ok bool) {
	if r == nil || r.Covariance == nil {
		return 0, 0, false
	}
	return math.Sqrt(r.Covariance.At(0, 0)), math.Sqrt(r.Covariance.At(1, 1)), true
}

// LabelSummary describes how well the fitted model reproduces one distance label
type LabelSummary struct {
	Distance      float64 `json:"distance" doc:"Distance label in meters"`
	Samples       int     `json:"samples"`
	MeanRSSI      float64 `json:"mean_rssi" doc:"Mean observed RSSI in dBm"`
	MeanPredicted float64 `json:"mean_predicted" doc:"Mean model-predicted distance in meters"`
	RMSE          float64 `json:"rmse" doc:"RMS error of predicted distances in meters"`
}
