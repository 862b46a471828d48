package features

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/drugnet/pkg/drugs"
	"github.com/dd0wney/drugnet/pkg/estimate"
	"github.com/dd0wney/drugnet/pkg/geo"
	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/period"
	"github.com/dd0wney/drugnet/pkg/sources"
)

type seizureMap map[string]float64

func (s seizureMap) Quantity(_ drugs.Category, year int, country string) (float64, bool) {
	v, ok := s[country]
	return v, ok
}

func flatTable(p period.Period, values map[string]float64) *estimate.Table {
	t := estimate.NewTable()
	for c, v := range values {
		for _, y := range p.Years() {
			t.Set(c, y, estimate.Estimate{Value: v})
		}
	}
	return t
}

func fixture(t *testing.T) (period.Period, MarketInputs) {
	t.Helper()
	p, err := period.New(2010, 2011)
	require.NoError(t, err)
	return p, MarketInputs{
		Drug:       drugs.Cocaine,
		Period:     p,
		Countries:  []string{"Colombia", "Spain", "Atlantis"},
		Seizures:   seizureMap{"Spain": 2, "Colombia": 10},
		Prevalence: flatTable(p, map[string]float64{"Colombia": 0.01, "Spain": 0.02, "Atlantis": 0.5}),
		Population: []sources.PopulationRow{
			{Location: "Colombia", Year: 2010, Population: 1000},
			{Location: "Spain", Year: 2010, Population: 2000},
			{Location: "Colombia", Year: 2011, Population: 1000},
			{Location: "Spain", Year: 2011, Population: 4500},
		},
		Production: []sources.ProductionRow{
			{Drug: drugs.Cocaine, Year: 2010, Quantity: 100},
			{Drug: drugs.Cocaine, Year: 2011, Quantity: 200},
			{Drug: drugs.Heroin, Year: 2010, Quantity: 7},
		},
		Logger: logging.NewNopLogger(),
	}
}

func TestComputeMarkets(t *testing.T) {
	_, in := fixture(t)
	m, err := ComputeMarkets(in)
	require.NoError(t, err)

	// 2010: users 10 + 40 = 50; per user 2 kg
	perUser, ok := m.PerUser(2010)
	require.True(t, ok)
	assert.InDelta(t, 2.0, perUser, 1e-12)

	spain, ok := m.Row("Spain", 2010)
	require.True(t, ok)
	assert.InDelta(t, 80.0, spain.Consumption, 1e-12)
	assert.Equal(t, spain.Consumption+spain.Seizures, spain.Market)

	// no population: zero users, market is seizures only
	atlantis, ok := m.Row("Atlantis", 2011)
	require.True(t, ok)
	assert.Zero(t, atlantis.Consumption)
	assert.Zero(t, atlantis.Market)

	v, ok := m.Market("Colombia", 2011)
	require.True(t, ok)
	assert.InDelta(t, 10*(200.0/100)+10, v, 1e-12)

	rows := m.Rows(2011)
	require.Len(t, rows, 3)
	assert.Equal(t, "Atlantis", rows[0].Country)
}

func TestComputeMarkets_Errors(t *testing.T) {
	_, in := fixture(t)
	in.Production = in.Production[:1]
	_, err := ComputeMarkets(in)
	assert.ErrorIs(t, err, ErrNoProduction)

	_, in = fixture(t)
	in.Population = nil
	_, err = ComputeMarkets(in)
	assert.ErrorIs(t, err, ErrNoUsers)

	_, in = fixture(t)
	in.Countries = append(in.Countries, "Peru")
	_, err = ComputeMarkets(in)
	assert.ErrorIs(t, err, estimate.ErrNoData)
}

func TestMarketInvariantProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("market equals consumption plus seizures", prop.ForAll(
		func(pop, prev, seized, production float64) bool {
			p, _ := period.New(2010, 2010)
			m, err := ComputeMarkets(MarketInputs{
				Drug:       drugs.Heroin,
				Period:     p,
				Countries:  []string{"A", "B"},
				Seizures:   seizureMap{"A": seized},
				Prevalence: flatTable(p, map[string]float64{"A": prev, "B": 0.5}),
				Population: []sources.PopulationRow{{Location: "A", Year: 2010, Population: pop}, {Location: "B", Year: 2010, Population: 10}},
				Production: []sources.ProductionRow{{Drug: drugs.Heroin, Year: 2010, Quantity: production}},
				Logger:     logging.NewNopLogger(),
			})
			if err != nil {
				return false
			}
			for _, c := range []string{"A", "B"} {
				r, _ := m.Row(c, 2010)
				if r.Market != r.Consumption+r.Seizures {
					return false
				}
			}
			return true
		},
		gen.Float64Range(0, 1e8),
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1e4),
		gen.Float64Range(0, 1e6),
	))

	properties.TestingRun(t)
}

func buildSet(t *testing.T) *Set {
	t.Helper()
	p, in := fixture(t)
	m, err := ComputeMarkets(in)
	require.NoError(t, err)

	h := geo.NewHierarchy()
	h.Set("Colombia", geo.Location{SubRegion: "South America", Region: "Americas"})
	h.Set("Spain", geo.Location{SubRegion: "West & Central Europe", Region: "Europe"})
	h.Set("Atlantis", geo.Location{SubRegion: geo.Unknown, Region: geo.Unknown})

	set, err := Build(Inputs{
		Drug:      drugs.Cocaine,
		Period:    p,
		Hierarchy: h,
		Markets:   m,
		Price:     flatTable(p, map[string]float64{"Spain": 40000}),
		GDP: []sources.GDPRow{
			{Country: "Spain", Values: map[int]float64{2010: 30000, 2011: 32000}},
			{Country: "Colombia", Values: map[int]float64{2010: 6000}},
		},
		Governance: []sources.GovernanceRow{
			{Country: "Spain", Indicator: sources.RuleOfLaw, Values: map[int]float64{2010: 1.0, 2011: 1.2}},
		},
		Coordinates: []sources.CoordinateRow{
			{Country: "Spain", ISO: "ES", Latitude: 40.4, Longitude: -3.7},
		},
	})
	require.NoError(t, err)
	return set
}

func TestBuild_LeftJoin(t *testing.T) {
	set := buildSet(t)

	tbl, ok := set.Table("2010")
	require.True(t, ok)
	assert.Equal(t, []string{"Atlantis", "Colombia", "Spain"}, tbl.Countries())

	spain, _ := tbl.Row("Spain")
	assert.Equal(t, "ES", spain.ISO)
	assert.Equal(t, "Europe", spain.Region)
	price, ok := spain.Value(ColPrice)
	require.True(t, ok)
	assert.Equal(t, 40000.0, price)
	rol, ok := spain.Value(sources.RuleOfLaw)
	require.True(t, ok)
	assert.Equal(t, 1.0, rol)

	colombia, _ := tbl.Row("Colombia")
	_, ok = colombia.Value(ColPrice)
	assert.False(t, ok, "missing price is null")
	_, ok = colombia.Value(ColLatitude)
	assert.False(t, ok, "missing coordinates are null")
	gdp, ok := colombia.Value(ColGDP)
	require.True(t, ok)
	assert.Equal(t, 6000.0, gdp)

	for _, r := range tbl.Rows() {
		market, _ := r.Value(ColMarket)
		consumption, _ := r.Value(ColConsumption)
		seized, _ := r.Value(ColSeizures)
		assert.Equal(t, consumption+seized, market, r.Country)
	}
}

func TestAggregate_Total(t *testing.T) {
	set := buildSet(t)
	total, ok := set.Table(TotalLabel)
	require.True(t, ok)
	assert.Equal(t, TotalLabel, total.Label)

	spain, ok := total.Row("Spain")
	require.True(t, ok)
	gdp, _ := spain.Value(ColGDP)
	assert.InDelta(t, 31000.0, gdp, 1e-9)
	lat, _ := spain.Value(ColLatitude)
	assert.Equal(t, 40.4, lat)
	assert.Equal(t, "West & Central Europe", spain.SubRegion)

	colombia, _ := total.Row("Colombia")
	_, ok = colombia.Value(ColGDP)
	assert.False(t, ok, "a null year makes the total null")
	seized, ok := colombia.Value(ColSeizures)
	require.True(t, ok)
	assert.Equal(t, 10.0, seized)

	_, ok = set.Table("not-a-year")
	assert.False(t, ok)
}
