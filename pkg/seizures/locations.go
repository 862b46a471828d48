package seizures

import (
	"sort"

	"github.com/dd0wney/drugnet/pkg/drugs"
	"github.com/dd0wney/drugnet/pkg/geo"
	"github.com/dd0wney/drugnet/pkg/period"
	"github.com/dd0wney/drugnet/pkg/sources"
)

// Locations collects every country that appears in any seizure role for
// cats during p and places each in the hierarchy. A country's sub-region and
// region come from the first year it is a country of seizure; the literal
// fallback tables then override them. Countries never seized in get Unknown
// unless a fallback covers them.
func Locations(records []sources.Seizure, cats []drugs.Category, p period.Period) *geo.Hierarchy {
	countries := make(map[string]struct{})
	for _, r := range records {
		if !p.Contains(r.Year) || !selected(cats, r.DrugName) {
			continue
		}
		for _, c := range []string{r.CountryOfSeizure, r.Departure, r.Destination, r.Producing} {
			if !geo.Absent(c) {
				countries[c] = struct{}{}
			}
		}
	}

	ordered := make([]sources.Seizure, 0, len(records))
	for _, r := range records {
		if p.Contains(r.Year) {
			ordered = append(ordered, r)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Year < ordered[j].Year })

	h := geo.NewHierarchy()
	for _, r := range ordered {
		if _, ok := countries[r.CountryOfSeizure]; !ok {
			continue
		}
		h.SetIfAbsent(r.CountryOfSeizure, geo.Location{
			SubRegion: labelOrUnknown(r.SubRegion),
			Region:    labelOrUnknown(r.Region),
		})
	}
	for c := range countries {
		h.SetIfAbsent(c, geo.Location{SubRegion: geo.Unknown, Region: geo.Unknown})
	}
	h.ApplyFallbacks()
	return h
}

func selected(cats []drugs.Category, drugName string) bool {
	for _, c := range cats {
		if c.Includes(drugName) {
			return true
		}
	}
	return false
}

func labelOrUnknown(s string) string {
	if geo.Absent(s) {
		return geo.Unknown
	}
	return s
}
