// Package forecast separates realized forecast rows from future ones and
// stitches history and forecast into a single display series.
package forecast

import (
	"vivienda/server/internal/models"
	"vivienda/server/internal/series"
)

// Split partitions points into rows whose actual value is known and rows that
// are pure predictions. Relative order is kept in both partitions.
func Split(points []models.ForecastPoint) (realized, future []models.ForecastPoint) {
	realized = make([]models.ForecastPoint, 0, len(points))
	future = make([]models.ForecastPoint, 0, len(points))
	for _, p := range points {
		if p.IsRealized() {
			realized = append(realized, p)
		} else {
			future = append(future, p)
		}
	}
	return realized, future
}

// Overlay builds the points drawn for the given horizon. History is always
// emitted as the historical series plus the selected moving average. The
// forecast horizons add the future rows only, so realized rows are not drawn
// twice.
func Overlay(history []models.EnrichedTimePoint, fc []models.ForecastPoint, horizon models.Horizon, smoothing models.Smoothing) []models.OverlayPoint {
	out := make([]models.OverlayPoint, 0, len(history)*2+len(fc))

	for _, p := range history {
		out = append(out, models.OverlayPoint{Date: p.Date, Value: p.Value, Series: models.SeriesHistorical})
	}
	if smoothing != models.SmoothingNone {
		for _, p := range history {
			out = append(out, models.OverlayPoint{Date: p.Date, Value: series.Smoothed(p, smoothing), Series: models.SeriesSmoothed})
		}
	}

	if horizon.ShowsForecast() {
		_, future := Split(fc)
		for _, p := range future {
			out = append(out, models.OverlayPoint{Date: p.Date, Value: models.Float(p.YPred), Series: models.SeriesForecast})
		}
	}

	return out
}

// BySeries groups overlay points by series name, keeping order.
func BySeries(points []models.OverlayPoint) map[string][]models.OverlayPoint {
	out := make(map[string][]models.OverlayPoint)
	for _, p := range points {
		out[p.Series] = append(out[p.Series], p)
	}
	return out
}
