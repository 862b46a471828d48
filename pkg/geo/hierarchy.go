// Package geo holds the country to sub-region to region hierarchy and the
// country-name alias tables used to join heterogeneous sources.
package geo

import (
	"sort"
	"strings"
)

// Unknown labels a sub-region or region that could not be determined.
const Unknown = "Unknown"

// Location places a country in the two grouping levels used for imputation.
type Location struct {
	SubRegion string `json:"sub_region"`
	Region    string `json:"region"`
}

// Hierarchy maps canonical country names to their Location.
type Hierarchy struct {
	locations map[string]Location
}

// NewHierarchy creates an empty hierarchy.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{locations: make(map[string]Location)}
}

// Set records country's location, replacing any previous one.
func (h *Hierarchy) Set(country string, loc Location) {
	h.locations[country] = loc
}

// SetIfAbsent records country's location only if none is known yet and
// reports whether it did.
func (h *Hierarchy) SetIfAbsent(country string, loc Location) bool {
	if _, ok := h.locations[country]; ok {
		return false
	}
	h.locations[country] = loc
	return true
}

// Lookup returns country's location.
func (h *Hierarchy) Lookup(country string) (Location, bool) {
	loc, ok := h.locations[country]
	return loc, ok
}

// Get returns country's location, or Unknown for both levels.
func (h *Hierarchy) Get(country string) Location {
	if loc, ok := h.locations[country]; ok {
		return loc
	}
	return Location{SubRegion: Unknown, Region: Unknown}
}

// Countries lists the known countries in sorted order.
func (h *Hierarchy) Countries() []string {
	out := make([]string, 0, len(h.locations))
	for c := range h.locations {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Len is the number of known countries.
func (h *Hierarchy) Len() int {
	return len(h.locations)
}

// ApplyFallbacks overrides sub-region and region with the literal tables for
// countries the seizure source leaves unlabelled or mislabels.
func (h *Hierarchy) ApplyFallbacks() {
	for c, loc := range h.locations {
		if sr, ok := missingSubRegion[c]; ok {
			loc.SubRegion = sr
		}
		if r, ok := missingRegion[c]; ok {
			loc.Region = r
		}
		h.locations[c] = loc
	}
}

// Absent reports whether a geographic field carries no usable country.
func Absent(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "unknown", "other", "nan":
		return true
	}
	return false
}

// Composites are locations reported by some sources only through their parts.
var Composites = map[string][]string{
	"United Kingdom": {
		"United Kingdom (England and Wales)",
		"United Kingdom (Northern Ireland)",
		"United Kingdom (Scotland)",
	},
}
