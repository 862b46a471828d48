package units

import (
	"fmt"
	"math"
	"strings"

	"github.com/dd0wney/drugnet/pkg/drugs"
)

// unitToKg is the base mass table. Litres are treated as mass-equivalent.
var unitToKg = map[string]float64{
	"Kilogram":             1.0,
	"Gram":                 0.001,
	"Pound":                0.453592,
	"Litre":                1,
	"Millilitre":           0.001,
	"Gallons (US, liquid)": 3.78541,
	"Ton":                  1000,
	"Viss":                 1.63293,
	"Picul":                60.478982,
	"Block (350gr)":        0.35,
}

// zeroUnits carry no usable quantity.
var zeroUnits = []string{"", "other", "unknown", "nan"}

var (
	hectares = []string{"Hectars", "Hectar", "Hectares", "Hectare"}

	plantsToHa = step{from: []string{"Plants"}, factor: 5.263157894736842e-06, to: Hectare}
	acresToHa  = step{from: []string{"Acres"}, factor: 0.404686, to: Hectare}
)

func dose(kg float64, units ...string) step {
	return step{from: units, factor: kg, to: Kilogram}
}

var rules = table{
	drugs.Cocaine: {
		{
			forms:   []string{"Coca leaf"},
			steps:   []step{dose(1e-4, "Unit")},
			divisor: 220,
		},
		{
			steps: []step{dose(1e-4, "Tablet", "Unit", "Capsule")},
		},
	},
	drugs.Heroin: {
		{
			forms: []string{"Heroin"},
			steps: []step{dose(3e-5, "Tablet", "Unit", "Ampoule", "Piece", "Capsule")},
		},
		{
			forms: []string{"Opium", "Opium Poppy", "Poppy seeds"},
			steps: []step{
				dose(3e-4, "Tablet", "Unit", "Ampoule", "Piece", "Capsule"),
				plantsToHa,
				acresToHa,
				{from: hectares, factor: 42.4, to: Kilogram},
			},
			potency: 0.1,
		},
		{
			forms: []string{"Poppy straw"},
			steps: []step{
				{from: []string{"Plants", "Bush"}, factor: plantsToHa.factor, to: Hectare},
				acresToHa,
				{from: hectares, factor: 411.1297071129707, to: Kilogram},
			},
			divisor: 3,
		},
		{
			forms: []string{"Morphine"},
			steps: []step{dose(1e-4, "Tablet", "Unit", "Ampoule", "Dose", "Vials", "Injection", "Bottles")},
		},
	},
	drugs.Cannabis: {
		{
			steps: []step{
				dose(5e-4, "Tablet", "Unit", "Piece", "Ampoule", "Capsule", "Dose", "Vials", "Injection", "Bottles", "Seed", "Cigarette", "Pill"),
				acresToHa,
				{from: hectares, factor: 42.5, to: Kilogram},
				dose(0.1*0.33, "Plants", "Bush"),
			},
		},
	},
	drugs.Amphetamine: {
		{
			steps: []step{
				dose(2.5e-4, "Tablet", "Unit", "Pill", "Capsule"),
				dose(0.025, "Hundred of units"),
				dose(0.25, "Thousand of doses"),
			},
		},
	},
	drugs.Ecstasy: {
		{
			steps: []step{
				dose(2.7e-4, "Tablet", "Unit", "Pill", "Capsule", "Piece", "Barette"),
				dose(0.27, "Thousand of tablets"),
			},
		},
	},
}

// Convert returns the kilograms of reference substance represented by qty
// units of drug form form. The result is never negative; zero is valid for
// units that carry no mass ("other", "unknown", missing).
func Convert(cat drugs.Category, qty float64, form, unit string) (float64, error) {
	if math.IsNaN(qty) || math.IsInf(qty, 0) || qty < 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidQuantity, qty)
	}
	set, ok := rules[cat]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, cat)
	}
	r, ok := set.match(form)
	if !ok {
		return 0, fmt.Errorf("%w: %q for %s", ErrUnknownForm, form, cat)
	}
	return r.apply(qty, strings.TrimSpace(unit))
}

// Covers reports whether the category has a rule for form.
func Covers(cat drugs.Category, form string) bool {
	_, ok := rules[cat].match(form)
	return ok
}

// UnitToKg returns the base mass factor of unit.
func UnitToKg(unit string) (float64, error) {
	if isZeroUnit(unit) {
		return 0, nil
	}
	unit = strings.TrimSpace(unit)
	if f, ok := unitToKg[unit]; ok {
		return f, nil
	}
	for name, f := range unitToKg {
		if strings.EqualFold(name, unit) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
}

func (rs ruleSet) match(form string) (rule, bool) {
	form = strings.TrimSpace(form)
	for _, r := range rs {
		if len(r.forms) == 0 {
			return r, true
		}
		for _, f := range r.forms {
			if strings.EqualFold(f, form) {
				return r, true
			}
		}
	}
	return rule{}, false
}

func (r rule) apply(q float64, unit string) (float64, error) {
	if isZeroUnit(unit) {
		return 0, nil
	}
	for _, s := range r.steps {
		if contains(s.from, unit) {
			q *= s.factor
			unit = s.to
		}
	}
	factor, err := UnitToKg(unit)
	if err != nil {
		return 0, err
	}
	q *= factor
	if r.potency != 0 {
		q *= r.potency
	}
	if r.divisor != 0 {
		q /= r.divisor
	}
	return q, nil
}

func isZeroUnit(unit string) bool {
	u := strings.ToLower(strings.TrimSpace(unit))
	for _, z := range zeroUnits {
		if u == z {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
