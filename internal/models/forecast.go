package models

import "time"

// ForecastPoint is one row of the pre-computed forecast. YReal is set once
// the actual value for the period is known.
type ForecastPoint struct {
	Date  time.Time `json:"date"`
	YReal *float64  `json:"y_real"`
	YPred float64   `json:"y_pred"`
}

// IsRealized reports whether the actual value for the period is known.
func (p ForecastPoint) IsRealized() bool {
	return p.YReal != nil
}

// Overlay series names
const (
	SeriesHistorical = "historical"
	SeriesSmoothed   = "smoothed"
	SeriesForecast   = "forecast"
)

// OverlayPoint is one point of the stitched history/forecast display.
type OverlayPoint struct {
	Date   time.Time `json:"date"`
	Value  *float64  `json:"value"`
	Series string    `json:"series"`
}
