// Package series derives change rates and moving averages from the housing
// index series.
package series

import (
	"math"
	"sort"

	"vivienda/server/internal/models"
)

// Lags and windows of the derived columns, in periods of the series.
const (
	QoQLag = 1
	YoYLag = 4

	ShortWindow = 4
	LongWindow  = 8
)

// Enrich sorts a copy of points by date and computes the QoQ and YoY
// percentage changes and the 4- and 8-period moving averages. The result
// has the same length as points. Missing values propagate as nil.
func Enrich(points []models.TimePoint) []models.EnrichedTimePoint {
	sorted := make([]models.TimePoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	values := make([]*float64, len(sorted))
	for i, p := range sorted {
		values[i] = finite(p.Value)
	}

	out := make([]models.EnrichedTimePoint, len(sorted))
	for i, p := range sorted {
		out[i] = models.EnrichedTimePoint{
			Date:      p.Date,
			Value:     values[i],
			VarQoQPct: pctChange(values, i, QoQLag),
			VarYoYPct: pctChange(values, i, YoYLag),
			MM4:       movingAverage(values, i, ShortWindow),
			MM8:       movingAverage(values, i, LongWindow),
		}
	}
	return out
}

// Strip drops the derived columns.
func Strip(points []models.EnrichedTimePoint) []models.TimePoint {
	out := make([]models.TimePoint, len(points))
	for i, p := range points {
		out[i] = models.TimePoint{Date: p.Date, Value: p.Value}
	}
	return out
}

// Smoothed returns the moving average column selected by s, or nil for
// SmoothingNone.
func Smoothed(p models.EnrichedTimePoint, s models.Smoothing) *float64 {
	switch s {
	case models.Smoothing4:
		return p.MM4
	case models.Smoothing8:
		return p.MM8
	default:
		return nil
	}
}

// finite copies v, mapping NaN and infinities to nil.
func finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return models.Float(*v)
}

func pctChange(values []*float64, i, lag int) *float64 {
	if i < lag {
		return nil
	}
	cur, prev := values[i], values[i-lag]
	if cur == nil || prev == nil || *prev == 0 {
		return nil
	}
	return models.Float((*cur / *prev - 1) * 100)
}

func movingAverage(values []*float64, i, window int) *float64 {
	if i < window-1 {
		return nil
	}
	var sum float64
	for _, v := range values[i-window+1 : i+1] {
		if v == nil {
			return nil
		}
		sum += *v
	}
	return models.Float(sum / float64(window))
}
