package sources

import (
	"fmt"
	"io"

	"github.com/dd0wney/drugnet/pkg/drugs"
)

const (
	colTerritory   = "Country/Territory"
	colSubRegionWB = "SubRegion"
	colSubRegionPV = "Sub-region"
	colRegionName  = "Region"
	colDrug        = "Drug"
	colDrugGroup   = "DrugGroup"
	colYearName    = "Year"
	colLevel       = "LevelOfSale"

	purityMeasurement = "% (percent)"
	wholesale         = "Wholesale"
	priceUnit         = "Kilogram"
)

// typical fills a missing typical value from the midpoint of min and max,
// then from whichever bound exists.
func typical(typ, lo, hi float64, hasTyp, hasLo, hasHi bool) (float64, bool) {
	switch {
	case hasTyp:
		return typ, true
	case hasLo && hasHi:
		return (lo + hi) / 2, true
	case hasLo:
		return lo, true
	case hasHi:
		return hi, true
	}
	return 0, false
}

func (t *table) optional(rec []string, i int, col string) (float64, bool, error) {
	s := t.getField(rec, col)
	v, ok, err := parseOptional(s)
	if err != nil {
		return 0, false, t.rowError(i, col, s, err)
	}
	return v, ok, nil
}

func (t *table) bounded(rec []string, i int, typCol, loCol, hiCol string) (float64, bool, error) {
	typ, hasTyp, err := t.optional(rec, i, typCol)
	if err != nil {
		return 0, false, err
	}
	lo, hasLo, err := t.optional(rec, i, loCol)
	if err != nil {
		return 0, false, err
	}
	hi, hasHi, err := t.optional(rec, i, hiCol)
	if err != nil {
		return 0, false, err
	}
	v, ok := typical(typ, lo, hi, hasTyp, hasLo, hasHi)
	return v, ok, nil
}

// ReadPurity parses and prepares the purity survey: typical values are
// imputed from min/max, only percentage measurements at wholesale level are
// kept, percentages above one are rescaled to fractions and drug groups are
// mapped to categories. Rows of other drug groups are dropped.
func ReadPurity(r io.Reader) ([]PurityRow, error) {
	t, err := readTable(r, "purity", colTerritory, colDrugGroup, colYearName, "Typical")
	if err != nil {
		return nil, err
	}

	out := make([]PurityRow, 0, len(t.records))
	for i, rec := range t.records {
		v, ok, err := t.bounded(rec, i, "Typical", "Minimum", "Maximum")
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if t.has("Measurement") && t.getField(rec, "Measurement") != purityMeasurement {
			continue
		}
		if t.has(colLevel) && t.getField(rec, colLevel) != wholesale {
			continue
		}
		cat, ok := drugs.FromPurityGroup(t.getField(rec, colDrugGroup))
		if !ok {
			continue
		}
		if v > 1 {
			v /= 100
		}
		if v < 0 || v > 1 {
			return nil, t.rowError(i, "Typical", fmt.Sprint(v), nil)
		}
		year, err := parseYear(t.getField(rec, colYearName))
		if err != nil {
			return nil, t.rowError(i, colYearName, t.getField(rec, colYearName), err)
		}
		out = append(out, PurityRow{
			Country:   t.getField(rec, colTerritory),
			SubRegion: t.getField(rec, colSubRegionWB),
			Region:    t.getField(rec, colRegionName),
			Drug:      cat,
			Year:      year,
			Typical:   v,
		})
	}
	return out, nil
}

// ReadPrevalence parses the prevalence survey. Best estimates are given in
// percent and returned as fractions; rows without one are dropped.
func ReadPrevalence(r io.Reader) ([]PrevalenceRow, error) {
	t, err := readTable(r, "prevalence", colTerritory, colDrug, colYearName, "Best")
	if err != nil {
		return nil, err
	}

	subCol := colSubRegionPV
	if !t.has(subCol) {
		subCol = colSubRegionWB
	}

	out := make([]PrevalenceRow, 0, len(t.records))
	for i, rec := range t.records {
		best, ok, err := t.optional(rec, i, "Best")
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		cat, ok := drugs.FromPrevalenceGroup(t.getField(rec, colDrug))
		if !ok {
			continue
		}
		year, err := parseYear(t.getField(rec, colYearName))
		if err != nil {
			return nil, t.rowError(i, colYearName, t.getField(rec, colYearName), err)
		}
		out = append(out, PrevalenceRow{
			Country:   t.getField(rec, colTerritory),
			SubRegion: t.getField(rec, subCol),
			Region:    t.getField(rec, colRegionName),
			Drug:      cat,
			Year:      year,
			Best:      best / 100,
		})
	}
	return out, nil
}

// ReadPrices parses the price table keeping wholesale prices per kilogram.
func ReadPrices(r io.Reader) ([]PriceRow, error) {
	t, err := readTable(r, "prices", colTerritory, colDrug, colYearName, "Typical_USD")
	if err != nil {
		return nil, err
	}

	out := make([]PriceRow, 0, len(t.records))
	for i, rec := range t.records {
		if t.has("Unit") && t.getField(rec, "Unit") != priceUnit {
			continue
		}
		if t.has(colLevel) && t.getField(rec, colLevel) != wholesale {
			continue
		}
		cat, ok := drugs.FromPriceName(t.getField(rec, colDrug))
		if !ok {
			continue
		}
		v, ok, err := t.bounded(rec, i, "Typical_USD", "Minimum_USD", "Maximum_USD")
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		year, err := parseYear(t.getField(rec, colYearName))
		if err != nil {
			return nil, t.rowError(i, colYearName, t.getField(rec, colYearName), err)
		}
		out = append(out, PriceRow{
			Country:    t.getField(rec, colTerritory),
			SubRegion:  t.getField(rec, colSubRegionWB),
			Region:     t.getField(rec, colRegionName),
			Drug:       cat,
			Year:       year,
			TypicalUSD: v,
		})
	}
	return out, nil
}
