package sources

import (
	"fmt"
	"io"
	"os"
)

// Paths locates every source table. Optional tables may be left empty, in
// which case their feature columns stay null.
type Paths struct {
	Seizures    string `yaml:"seizures" validate:"required"`
	Purity      string `yaml:"purity" validate:"required"`
	Prevalence  string `yaml:"prevalence" validate:"required"`
	Population  string `yaml:"population" validate:"required"`
	Production  string `yaml:"production" validate:"required"`
	Prices      string `yaml:"prices"`
	GDP         string `yaml:"gdp"`
	Governance  string `yaml:"governance"`
	Coordinates string `yaml:"coordinates"`
}

// Bundle holds every prepared source table of a run.
type Bundle struct {
	Seizures    []Seizure
	Purity      []PurityRow
	Prevalence  []PrevalenceRow
	Population  []PopulationRow
	Production  []ProductionRow
	Prices      []PriceRow
	GDP         []GDPRow
	Governance  []GovernanceRow
	Coordinates []CoordinateRow
}

// Counts reports the number of rows per table.
func (b *Bundle) Counts() map[string]int {
	return map[string]int{
		"seizures":    len(b.Seizures),
		"purity":      len(b.Purity),
		"prevalence":  len(b.Prevalence),
		"population":  len(b.Population),
		"production":  len(b.Production),
		"prices":      len(b.Prices),
		"gdp":         len(b.GDP),
		"governance":  len(b.Governance),
		"coordinates": len(b.Coordinates),
	}
}

func load[T any](path string, optional bool, read func(io.Reader) ([]T, error)) ([]T, error) {
	if path == "" {
		if optional {
			return nil, nil
		}
		return nil, fmt.Errorf("source path is empty")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return read(f)
}

// LoadBundle reads and prepares every configured table.
func LoadBundle(p Paths) (*Bundle, error) {
	var (
		b   Bundle
		err error
	)
	if b.Seizures, err = load(p.Seizures, false, ReadSeizures); err != nil {
		return nil, fmt.Errorf("load seizures: %w", err)
	}
	if b.Purity, err = load(p.Purity, false, ReadPurity); err != nil {
		return nil, fmt.Errorf("load purity: %w", err)
	}
	if b.Prevalence, err = load(p.Prevalence, false, ReadPrevalence); err != nil {
		return nil, fmt.Errorf("load prevalence: %w", err)
	}
	if b.Population, err = load(p.Population, false, ReadPopulation); err != nil {
		return nil, fmt.Errorf("load population: %w", err)
	}
	if b.Production, err = load(p.Production, false, ReadProduction); err != nil {
		return nil, fmt.Errorf("load production: %w", err)
	}
	if b.Prices, err = load(p.Prices, true, ReadPrices); err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}
	if b.GDP, err = load(p.GDP, true, ReadGDP); err != nil {
		return nil, fmt.Errorf("load gdp: %w", err)
	}
	if b.Governance, err = load(p.Governance, true, ReadGovernance); err != nil {
		return nil, fmt.Errorf("load governance: %w", err)
	}
	if b.Coordinates, err = load(p.Coordinates, true, ReadCoordinates); err != nil {
		return nil, fmt.Errorf("load coordinates: %w", err)
	}
	return &b, nil
}
