package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vivienda/server/internal/models"
)

func TestKPIs(t *testing.T) {
	tests := []struct {
		name      string
		input     []models.TimePoint
		lastValue float64
		lastYear  int
		count     int
		hasQoQ    bool
		hasYoY    bool
	}{
		{
			name: "Last entry defined",
			input: []models.TimePoint{
				point(2020, 1, 100), point(2020, 2, 102), point(2020, 3, 101),
				point(2020, 4, 103), point(2021, 1, 105),
			},
			lastValue: 105, lastYear: 2021, count: 5, hasQoQ: true, hasYoY: true,
		},
		{
			name: "Trailing gaps are skipped",
			input: []models.TimePoint{
				point(2020, 1, 100), point(2020, 2, 102), gap(2020, 3), gap(2020, 4),
			},
			lastValue: 102, lastYear: 2020, count: 4, hasQoQ: true,
		},
		{
			name:      "Single observation",
			input:     []models.TimePoint{point(2022, 2, 99.5)},
			lastValue: 99.5, lastYear: 2022, count: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kpi, err := KPIs(Enrich(tt.input))
			require.NoError(t, err)

			assert.InDelta(t, tt.lastValue, kpi.LastValue, 1e-9)
			assert.Equal(t, tt.lastYear, kpi.LastDate.Year())
			assert.Equal(t, tt.count, kpi.Count)
			assert.Equal(t, tt.hasQoQ, kpi.QoQ != nil)
			assert.Equal(t, tt.hasYoY, kpi.YoY != nil)
		})
	}
}

func TestKPIsInsufficientData(t *testing.T) {
	tests := []struct {
		name  string
		input []models.TimePoint
	}{
		{name: "Empty series", input: nil},
		{name: "Only gaps", input: []models.TimePoint{gap(2020, 1), gap(2020, 2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := KPIs(Enrich(tt.input))
			assert.ErrorIs(t, err, models.ErrInsufficientData)
		})
	}
}
