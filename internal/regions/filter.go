// Package regions filters the administrative division lookup table.
package regions

import (
	"sort"

	"vivienda/server/config"
	"vivienda/server/internal/models"
)

// Filter returns the records matching selector. config.AllRegions returns
// every record ordered by region code then commune code; a region name
// returns that region's communes ordered by province then commune name. An
// unknown selector yields an empty slice.
func Filter(records []models.RegionRecord, selector string) []models.RegionRecord {
	if selector == config.AllRegions {
		out := make([]models.RegionRecord, len(records))
		copy(out, records)
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].RegionCode != out[j].RegionCode {
				return out[i].RegionCode < out[j].RegionCode
			}
			return out[i].CommuneCode < out[j].CommuneCode
		})
		return out
	}

	out := make([]models.RegionRecord, 0)
	for _, r := range records {
		if r.RegionName == selector {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ProvinceName != out[j].ProvinceName {
			return out[i].ProvinceName < out[j].ProvinceName
		}
		return out[i].CommuneName < out[j].CommuneName
	})
	return out
}

// Names returns the distinct region names, sorted.
func Names(records []models.RegionRecord) []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, r := range records {
		if !seen[r.RegionName] {
			seen[r.RegionName] = true
			names = append(names, r.RegionName)
		}
	}
	sort.Strings(names)
	return names
}

// Selectors returns the valid selector values: the all-regions sentinel
// followed by every region name.
func Selectors(records []models.RegionRecord) []string {
	return append([]string{config.AllRegions}, Names(records)...)
}

// IsKnown reports whether selector is one of Selectors(records).
func IsKnown(records []models.RegionRecord, selector string) bool {
	if selector == config.AllRegions {
		return true
	}
	for _, r := range records {
		if r.RegionName == selector {
			return true
		}
	}
	return false
}
