package pipeline

import (
	"github.com/dd0wney/drugnet/pkg/drugs"
	"github.com/dd0wney/drugnet/pkg/estimate"
	"github.com/dd0wney/drugnet/pkg/sources"
)

func purityOf(drug drugs.Category) estimate.Extractor[sources.PurityRow] {
	return func(r sources.PurityRow) (estimate.Observation, bool) {
		if r.Drug != drug {
			return estimate.Observation{}, false
		}
		return estimate.Observation{Country: r.Country, SubRegion: r.SubRegion, Region: r.Region, Year: r.Year, Value: r.Typical}, true
	}
}

func prevalenceOf(drug drugs.Category) estimate.Extractor[sources.PrevalenceRow] {
	return func(r sources.PrevalenceRow) (estimate.Observation, bool) {
		if r.Drug != drug {
			return estimate.Observation{}, false
		}
		return estimate.Observation{Country: r.Country, SubRegion: r.SubRegion, Region: r.Region, Year: r.Year, Value: r.Best}, true
	}
}

func priceOf(drug drugs.Category) estimate.Extractor[sources.PriceRow] {
	return func(r sources.PriceRow) (estimate.Observation, bool) {
		if r.Drug != drug {
			return estimate.Observation{}, false
		}
		return estimate.Observation{Country: r.Country, SubRegion: r.SubRegion, Region: r.Region, Year: r.Year, Value: r.TypicalUSD}, true
	}
}
