package config

import "vivienda/server/internal/models"

// AllRegions is the region selector value that disables region filtering
const AllRegions = "(all)"

// Option is one selectable value of a dashboard control
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Control describes a dashboard selector and its options
type Control struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Default string   `json:"default"`
	Options []Option `json:"options"`
}

// SupportedControls lists the selectors whose options do not depend on data.
// The region selector is built from the lookup table at request time.
var SupportedControls = []Control{
	{
		Name:    "horizon",
		Label:   "Horizonte a mostrar",
		Default: models.HorizonBoth.String(),
		Options: horizonOptions(),
	},
	{
		Name:    "smoothing",
		Label:   "Suavizado",
		Default: models.SmoothingNone.String(),
		Options: smoothingOptions(),
	},
}

func horizonOptions() []Option {
	opts := make([]Option, len(models.Horizons))
	for i, h := range models.Horizons {
		opts[i] = Option{Value: h.String(), Label: h.Label()}
	}
	return opts
}

func smoothingOptions() []Option {
	opts := make([]Option, len(models.Smoothings))
	for i, s := range models.Smoothings {
		opts[i] = Option{Value: s.String(), Label: s.Label()}
	}
	return opts
}

// GetControlNames returns the names of the supported controls
func GetControlNames() []string {
	names := make([]string, len(SupportedControls))
	for i, c := range SupportedControls {
		names[i] = c.Name
	}
	return names
}

// GetControlByName returns a control by name, or nil
func GetControlByName(name string) *Control {
	for _, c := range SupportedControls {
		if c.Name == name {
			return &c
		}
	}
	return nil
}

// RegionControl builds the region selector from the distinct region names.
func RegionControl(names []string) Control {
	opts := make([]Option, 0, len(names)+1)
	opts = append(opts, Option{Value: AllRegions, Label: AllRegions})
	for _, n := range names {
		opts = append(opts, Option{Value: n, Label: n})
	}
	return Control{
		Name:    "region",
		Label:   "Región",
		Default: AllRegions,
		Options: opts,
	}
}
