package models

import (
	"fmt"
	"strings"
)

// Horizon selects whether the future forecast is drawn next to the history.
// The history itself is always shown.
type Horizon int

const (
	HorizonHistorical Horizon = iota
	HorizonForecast
	HorizonBoth
)

// String returns the query value of a Horizon
func (h Horizon) String() string {
	switch h {
	case HorizonHistorical:
		return "historical"
	case HorizonForecast:
		return "forecast"
	case HorizonBoth:
		return "both"
	default:
		return "unknown"
	}
}

// Label returns the display label of a Horizon
func (h Horizon) Label() string {
	switch h {
	case HorizonHistorical:
		return "Historical"
	case HorizonForecast:
		return "Forecast"
	case HorizonBoth:
		return "Both"
	default:
		return "Unknown"
	}
}

// ShowsForecast reports whether future forecast values are part of the display.
func (h Horizon) ShowsForecast() bool {
	return h == HorizonForecast || h == HorizonBoth
}

// Horizons lists every horizon in display order.
var Horizons = []Horizon{HorizonHistorical, HorizonForecast, HorizonBoth}

// ParseHorizon accepts either the query value or the display label. An empty
// string selects HorizonBoth, the dashboard default.
func ParseHorizon(s string) (Horizon, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return HorizonBoth, nil
	}
	for _, h := range Horizons {
		if strings.EqualFold(s, h.String()) || strings.EqualFold(s, h.Label()) {
			return h, nil
		}
	}
	return 0, fmt.Errorf("%w: horizon %q", ErrInvalidSelector, s)
}

// Smoothing selects the moving average drawn over the history.
type Smoothing int

const (
	SmoothingNone Smoothing = iota
	Smoothing4
	Smoothing8
)

// String returns the query value of a Smoothing
func (s Smoothing) String() string {
	switch s {
	case SmoothingNone:
		return "none"
	case Smoothing4:
		return "4"
	case Smoothing8:
		return "8"
	default:
		return "unknown"
	}
}

// Label returns the display label of a Smoothing
func (s Smoothing) Label() string {
	switch s {
	case SmoothingNone:
		return "None"
	case Smoothing4:
		return "4-period"
	case Smoothing8:
		return "8-period"
	default:
		return "Unknown"
	}
}

// Window returns the moving average window, 0 for SmoothingNone.
func (s Smoothing) Window() int {
	switch s {
	case Smoothing4:
		return 4
	case Smoothing8:
		return 8
	default:
		return 0
	}
}

// Smoothings lists every smoothing option in display order.
var Smoothings = []Smoothing{SmoothingNone, Smoothing4, Smoothing8}

// ParseSmoothing accepts either the query value or the display label. An
// empty string selects SmoothingNone.
func ParseSmoothing(s string) (Smoothing, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SmoothingNone, nil
	}
	for _, sm := range Smoothings {
		if strings.EqualFold(s, sm.String()) || strings.EqualFold(s, sm.Label()) {
			return sm, nil
		}
	}
	return 0, fmt.Errorf("%w: smoothing %q", ErrInvalidSelector, s)
}
