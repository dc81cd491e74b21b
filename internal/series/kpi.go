package series

import (
	"fmt"

	"vivienda/server/internal/models"
)

// KPIs reports the latest defined observation of an enriched series together
// with its change rates. Count includes entries without a value.
func KPIs(points []models.EnrichedTimePoint) (models.KPI, error) {
	for i := len(points) - 1; i >= 0; i-- {
		last := points[i]
		if last.Value == nil {
			continue
		}
		return models.KPI{
			LastValue: *last.Value,
			LastDate:  last.Date,
			QoQ:       last.VarQoQPct,
			YoY:       last.VarYoYPct,
			Count:     len(points),
		}, nil
	}
	return models.KPI{}, fmt.Errorf("%w: no defined value among %d observations", models.ErrInsufficientData, len(points))
}
