// Package drugs names the five drug categories the pipeline models and the
// seizure-record drug names that belong to each of them.
package drugs

import (
	"errors"
	"fmt"
	"strings"
)

// Category is one of the modelled drug families.
type Category string

const (
	Cocaine     Category = "Cocaine"
	Heroin      Category = "Heroin"
	Cannabis    Category = "Cannabis"
	Amphetamine Category = "Amphetamine"
	Ecstasy     Category = "Ecstasy"
)

// ErrUnknownCategory is returned when a name matches no category.
var ErrUnknownCategory = errors.New("unknown drug category")

// All lists the categories in their canonical order.
var All = []Category{Cocaine, Heroin, Cannabis, Amphetamine, Ecstasy}

// derivatives are the seizure DRUG_NAME values counted towards each category.
var derivatives = map[Category][]string{
	Cocaine:     {"Cocaine", "Cocaine HCL", "Coca paste", "Coca leaf", "Crack"},
	Heroin:      {"Heroin", "Opium", "Opium Poppy", "Poppy seeds", "Poppy straw", "Morphine"},
	Cannabis:    {"Cannabis", "Cannabis resin", "Cannabis Oil", "Cannabis Pollen", "Cannabis seeds", "Cannabis Plants", "Cannabis Herb (Marijuana)", "THC"},
	Amphetamine: {"Amphetamine", "Methamphetamine", "4-Fluoroamphetamine", "MDA"},
	Ecstasy:     {"Ecstasy", "MDP2P"},
}

// purityGroups maps drug-group labels of the purity survey to categories.
var purityGroups = map[string]Category{
	"Cocaine-type":                        Cocaine,
	"Cocaine-type drugs":                  Cocaine,
	"Opioids":                             Heroin,
	"Cannabis-type":                       Cannabis,
	"Cannabis-type drugs":                 Cannabis,
	"Amphetamine-type stimulants":         Amphetamine,
	"ATS":                                 Amphetamine,
	"\u201cEcstasy\u201d-type substances": Ecstasy,
	"\"Ecstasy\"-type substances":         Ecstasy,
}

// prevalenceGroups maps drug-group labels of the prevalence survey to categories.
var prevalenceGroups = map[string]Category{
	"Cocaine":      Cocaine,
	"Opioids":      Heroin,
	"Opiates":      Heroin,
	"Cannabis":     Cannabis,
	"Amphetamines": Amphetamine,
	"Ecstasy":      Ecstasy,
}

// priceNames maps price-table drug names to categories.
var priceNames = map[string]Category{
	"Cocaine":               Cocaine,
	"Cocaine salts":         Cocaine,
	"Cocaine hydrochloride": Cocaine,
	"Heroin":                Heroin,
	"Cannabis herb":         Cannabis,
	"Cannabis":              Cannabis,
	"Amphetamine":           Amphetamine,
	"Ecstasy":               Ecstasy,
}

// Parse resolves a category name case-insensitively.
func Parse(name string) (Category, error) {
	for _, c := range All {
		if strings.EqualFold(string(c), strings.TrimSpace(name)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// ParseAll resolves every name, failing on the first unknown one.
func ParseAll(names []string) ([]Category, error) {
	out := make([]Category, 0, len(names))
	for _, n := range names {
		c, err := Parse(n)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Names returns the string form of cats.
func Names(cats []Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}

// Derivatives returns the seizure drug names belonging to c.
func Derivatives(c Category) []string {
	return append([]string(nil), derivatives[c]...)
}

// Includes reports whether a seizure drug name belongs to c.
func (c Category) Includes(drugName string) bool {
	for _, d := range derivatives[c] {
		if d == drugName {
			return true
		}
	}
	return false
}

// CategoryOf returns the category a seizure drug name belongs to.
func CategoryOf(drugName string) (Category, bool) {
	for _, c := range All {
		if c.Includes(drugName) {
			return c, true
		}
	}
	return "", false
}

// FromPurityGroup maps a purity-survey drug group to a category.
func FromPurityGroup(group string) (Category, bool) {
	c, ok := purityGroups[strings.TrimSpace(group)]
	return c, ok
}

// FromPrevalenceGroup maps a prevalence-survey drug group to a category.
func FromPrevalenceGroup(group string) (Category, bool) {
	c, ok := prevalenceGroups[strings.TrimSpace(group)]
	return c, ok
}

// FromPriceName maps a price-table drug name to a category.
func FromPriceName(name string) (Category, bool) {
	c, ok := priceNames[strings.TrimSpace(name)]
	return c, ok
}
