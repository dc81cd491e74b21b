package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHorizon(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Horizon
		wantErr  bool
	}{
		{name: "Empty defaults to both", input: "", expected: HorizonBoth},
		{name: "Query value", input: "historical", expected: HorizonHistorical},
		{name: "Display label", input: "Forecast", expected: HorizonForecast},
		{name: "Mixed case with spaces", input: "  BOTH ", expected: HorizonBoth},
		{name: "Unknown", input: "next-decade", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := ParseHorizon(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidSelector))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, h)
		})
	}
}

func TestParseSmoothing(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Smoothing
		window   int
		wantErr  bool
	}{
		{name: "Empty defaults to none", input: "", expected: SmoothingNone, window: 0},
		{name: "Four periods", input: "4", expected: Smoothing4, window: 4},
		{name: "Eight period label", input: "8-period", expected: Smoothing8, window: 8},
		{name: "None label", input: "None", expected: SmoothingNone, window: 0},
		{name: "Unsupported window", input: "12", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseSmoothing(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSelector)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s)
			assert.Equal(t, tt.window, s.Window())
		})
	}
}

func TestHorizonSegments(t *testing.T) {
	assert.False(t, HorizonHistorical.ShowsForecast())
	assert.True(t, HorizonForecast.ShowsForecast())
	assert.True(t, HorizonBoth.ShowsForecast())
}

func TestForecastPointIsRealized(t *testing.T) {
	assert.True(t, ForecastPoint{YReal: Float(105), YPred: 104}.IsRealized())
	assert.False(t, ForecastPoint{YPred: 106}.IsRealized())
}
