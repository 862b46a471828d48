package sources

import (
	"io"

	"github.com/dd0wney/drugnet/pkg/drugs"
	"github.com/dd0wney/drugnet/pkg/geo"
)

// governanceSeries maps World Bank series names to indicator columns.
var governanceSeries = map[string]string{
	"Control of Corruption: Estimate":                                 ControlOfCorruption,
	"Government Effectiveness: Estimate":                              GovEffectiveness,
	"Political Stability and Absence of Violence/Terrorism: Estimate": StabilityNoTerrorism,
	"Regulatory Quality: Estimate":                                    RegulatoryQuality,
	"Rule of Law: Estimate":                                           RuleOfLaw,
}

// ReadPopulation parses Location, Year, Population rows as written by the
// population fetcher. Location names are normalised to canonical spellings.
func ReadPopulation(r io.Reader) ([]PopulationRow, error) {
	t, err := readTable(r, "population", "Location", colYearName, "Population")
	if err != nil {
		return nil, err
	}
	out := make([]PopulationRow, 0, len(t.records))
	for i, rec := range t.records {
		v, ok, err := t.optional(rec, i, "Population")
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
		out = append(out, PopulationRow{
			Location:   geo.Canonical(geo.SourcePopulation, t.getField(rec, "Location")),
			Year:       year,
			Population: v,
		})
	}
	return out, nil
}

// ReadProduction parses global production totals per drug and year.
func ReadProduction(r io.Reader) ([]ProductionRow, error) {
	t, err := readTable(r, "production", colDrug, colYearName, "Quantity(kg)")
	if err != nil {
		return nil, err
	}
	out := make([]ProductionRow, 0, len(t.records))
	for i, rec := range t.records {
		cat, err := drugs.Parse(t.getField(rec, colDrug))
		if err != nil {
			continue
		}
		v, ok, err := t.optional(rec, i, "Quantity(kg)")
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
		out = append(out, ProductionRow{Drug: cat, Year: year, Quantity: v})
	}
	return out, nil
}

// ReadGDP parses the wide World Bank GDP per capita table.
func ReadGDP(r io.Reader) ([]GDPRow, error) {
	t, err := readTable(r, "gdp", "Country Name")
	if err != nil {
		return nil, err
	}
	years := t.yearColumns()
	out := make([]GDPRow, 0, len(t.records))
	for i, rec := range t.records {
		values, err := t.yearValues(rec, i, years)
		if err != nil {
			return nil, err
		}
		out = append(out, GDPRow{
			Country: geo.Canonical(geo.SourceWorldBank, t.getField(rec, "Country Name")),
			Values:  values,
		})
	}
	return out, nil
}

// ReadGovernance parses the wide World Bank governance table, keeping the
// five estimate series.
func ReadGovernance(r io.Reader) ([]GovernanceRow, error) {
	t, err := readTable(r, "governance", "Country Name", "Series Name")
	if err != nil {
		return nil, err
	}
	years := t.yearColumns()
	out := make([]GovernanceRow, 0, len(t.records))
	for i, rec := range t.records {
		indicator, ok := governanceSeries[t.getField(rec, "Series Name")]
		if !ok {
			continue
		}
		values, err := t.yearValues(rec, i, years)
		if err != nil {
			return nil, err
		}
		out = append(out, GovernanceRow{
			Country:   geo.Canonical(geo.SourceWorldBank, t.getField(rec, "Country Name")),
			Indicator: indicator,
			Values:    values,
		})
	}
	return out, nil
}

func (t *table) yearValues(rec []string, i int, years map[int]string) (map[int]float64, error) {
	values := make(map[int]float64, len(years))
	for y, col := range years {
		v, ok, err := t.optional(rec, i, col)
		if err != nil {
			return nil, err
		}
		if ok {
			values[y] = v
		}
	}
	return values, nil
}

// ReadCoordinates parses the country centroid table (country, latitude,
// longitude, name). Names are normalised, Curaçao inherits the coordinates
// of the Netherlands Antilles and Namibia's ISO code, which CSV readers
// commonly turn into a missing value, is restored.
func ReadCoordinates(r io.Reader) ([]CoordinateRow, error) {
	t, err := readTable(r, "coordinates", "country", "latitude", "longitude", "name")
	if err != nil {
		return nil, err
	}
	out := make([]CoordinateRow, 0, len(t.records)+1)
	var antilles CoordinateRow
	hasAntilles := false
	hasCuracao := false

	for i, rec := range t.records {
		lat, okLat, err := t.optional(rec, i, "latitude")
		if err != nil {
			return nil, err
		}
		lon, okLon, err := t.optional(rec, i, "longitude")
		if err != nil {
			return nil, err
		}
		if !okLat || !okLon {
			continue
		}
		row := CoordinateRow{
			Country:   geo.Canonical(geo.SourceCoordinates, t.getField(rec, "name")),
			ISO:       t.getField(rec, "country"),
			Latitude:  lat,
			Longitude: lon,
		}
		switch row.Country {
		case "Namibia":
			row.ISO = "NA"
		case "Curaçao":
			hasCuracao = true
		}
		out = append(out, row)
		if row.Country == "Netherlands Antilles" {
			antilles, hasAntilles = row, true
		}
	}
	if hasAntilles && !hasCuracao {
		out = append(out, CoordinateRow{
			Country:   "Curaçao",
			ISO:       "CW",
			Latitude:  antilles.Latitude,
			Longitude: antilles.Longitude,
		})
	}
	return out, nil
}
