// Package units converts reported seizure quantities of any drug form and
// measurement unit into kilograms of the category's reference substance.
package units

import (
	"errors"

	"github.com/dd0wney/drugnet/pkg/drugs"
)

var (
	// ErrInvalidQuantity is returned for negative, NaN or infinite quantities.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrUnknownForm is returned when no rule of the category covers the drug form.
	ErrUnknownForm = errors.New("unknown drug form")
	// ErrUnknownUnit is returned when a unit survives every step without a mass factor.
	ErrUnknownUnit = errors.New("unknown unit")
	// ErrUnknownCategory is returned for a category with no rule set.
	ErrUnknownCategory = errors.New("no conversion rules for category")
)

// Unit names used as intermediate stages of a conversion chain.
const (
	Kilogram = "Kilogram"
	Hectare  = "Hectars"
)

// step rewrites a quantity expressed in one of from into to, scaling by factor.
type step struct {
	from   []string
	factor float64
	to     string
}

// rule converts the forms it matches. An empty forms list matches any form
// of the category. Steps run in order, each only when the current unit is
// one of its from units, and the base mass table is applied last.
type rule struct {
	forms   []string
	steps   []step
	potency float64
	divisor float64
}

// ruleSet is the ordered rule list of one category; the first match wins.
type ruleSet []rule

// table dispatches a category to its rule set.
type table map[drugs.Category]ruleSet
