package seizures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/drugnet/pkg/drugs"
	"github.com/dd0wney/drugnet/pkg/estimate"
	"github.com/dd0wney/drugnet/pkg/geo"
	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/period"
	"github.com/dd0wney/drugnet/pkg/sources"
	"github.com/dd0wney/drugnet/pkg/units"
)

func testRecords() []sources.Seizure {
	return []sources.Seizure{
		{Year: 2010, CountryOfSeizure: "Spain", SubRegion: "West & Central Europe", Region: "Europe",
			Departure: "Colombia", Destination: "Other", DrugName: "Cocaine", DrugUnit: "Tablet", Amount: 10},
		{Year: 2010, CountryOfSeizure: "Spain", SubRegion: "West & Central Europe", Region: "Europe",
			Departure: "Colombia", DrugName: "Cocaine HCL", DrugUnit: "Gram", Amount: 500},
		{Year: 2011, CountryOfSeizure: "Spain", SubRegion: "Southern Europe", Region: "Europe",
			Producing: "Peru", DrugName: "Coca leaf", DrugUnit: "Kilogram", Amount: 220},
		{Year: 2011, CountryOfSeizure: "Colombia", SubRegion: "South America", Region: "Americas",
			Destination: "Unknown", DrugName: "Cannabis", DrugUnit: "Kilogram", Amount: 3},
		{Year: 2011, CountryOfSeizure: "Albania", SubRegion: "", Region: "",
			DrugName: "Heroin", DrugUnit: "Kilogram", Amount: 1},
		{Year: 2004, CountryOfSeizure: "Chile", SubRegion: "South America", Region: "Americas",
			DrugName: "Cocaine", DrugUnit: "Kilogram", Amount: 1},
	}
}

func testPeriod(t *testing.T) period.Period {
	t.Helper()
	p, err := period.New(2010, 2011)
	require.NoError(t, err)
	return p
}

func TestLocations(t *testing.T) {
	h := Locations(testRecords(), []drugs.Category{drugs.Cocaine}, testPeriod(t))

	// Heroin and cannabis rows do not contribute countries for cocaine;
	// out-of-period rows are ignored entirely.
	assert.Equal(t, []string{"Colombia", "Peru", "Spain"}, h.Countries())

	spain, ok := h.Lookup("Spain")
	require.True(t, ok)
	assert.Equal(t, "West & Central Europe", spain.SubRegion, "first year of seizure wins")

	colombia := h.Get("Colombia")
	assert.Equal(t, "South America", colombia.SubRegion, "taken from a cannabis seizure")

	assert.Equal(t, geo.Location{SubRegion: geo.Unknown, Region: geo.Unknown}, h.Get("Peru"))
}

func TestLocations_Fallbacks(t *testing.T) {
	h := Locations(testRecords(), drugs.All, testPeriod(t))
	albania := h.Get("Albania")
	assert.Equal(t, "East Europe", albania.SubRegion)
	assert.Equal(t, "Europe", albania.Region)
}

func cocainePurity(values map[string]float64, years ...int) *estimate.Table {
	tbl := estimate.NewTable()
	for c, v := range values {
		for _, y := range years {
			tbl.Set(c, y, estimate.Estimate{Value: v, Tier: estimate.National})
		}
	}
	return tbl
}

func TestAggregate(t *testing.T) {
	p := testPeriod(t)
	cats := []drugs.Category{drugs.Cocaine}
	h := Locations(testRecords(), cats, p)
	purity := map[drugs.Category]Purity{
		drugs.Cocaine: cocainePurity(map[string]float64{"Spain": 0.8}, 2010, 2011),
	}

	tbl, err := Aggregate(testRecords(), h, purity, cats, p, Options{Logger: logging.NewNopLogger()})
	require.NoError(t, err)
	assert.Equal(t, []int{2010, 2011}, tbl.Years())

	q, ok := tbl.Quantity(drugs.Cocaine, 2010, "Spain")
	require.True(t, ok)
	assert.InDelta(t, (0.001+0.5)*0.8, q, 1e-12)

	q, ok = tbl.Quantity(drugs.Cocaine, 2011, "Spain")
	require.True(t, ok)
	assert.InDelta(t, 0.8, q, 1e-12)

	// countries without seizures get zero rows and need no purity
	q, ok = tbl.Quantity(drugs.Cocaine, 2010, "Peru")
	require.True(t, ok)
	assert.Zero(t, q)

	rows := tbl.Year(2010)
	require.Len(t, rows, 3)
	assert.Equal(t, "Americas", rows[0].Region)
	assert.Equal(t, "Colombia", rows[0].Country)
	assert.Equal(t, "Spain", rows[1].Country)
	assert.Equal(t, "Peru", rows[2].Country, "Unknown region sorts last")
}

func TestAggregate_MissingPurity(t *testing.T) {
	p := testPeriod(t)
	cats := []drugs.Category{drugs.Cocaine}
	h := Locations(testRecords(), cats, p)

	_, err := Aggregate(testRecords(), h, map[drugs.Category]Purity{
		drugs.Cocaine: cocainePurity(map[string]float64{"Colombia": 0.5}, 2010, 2011),
	}, cats, p, Options{})
	assert.ErrorIs(t, err, ErrNoPurity)
	assert.ErrorIs(t, err, estimate.ErrNoData)

	_, err = Aggregate(testRecords(), h, nil, cats, p, Options{})
	assert.ErrorIs(t, err, ErrNoPurity)
}

func TestAggregate_ConversionErrorAborts(t *testing.T) {
	p := testPeriod(t)
	records := []sources.Seizure{{
		Year: 2010, CountryOfSeizure: "Spain", DrugName: "Cocaine", DrugUnit: "Bucket", Amount: 2,
	}}
	cats := []drugs.Category{drugs.Cocaine}
	h := Locations(records, cats, p)

	_, err := Aggregate(records, h, map[drugs.Category]Purity{
		drugs.Cocaine: cocainePurity(map[string]float64{"Spain": 1}, 2010, 2011),
	}, cats, p, Options{})
	assert.ErrorIs(t, err, units.ErrUnknownUnit)
}
