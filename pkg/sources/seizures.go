package sources

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// Seizure table columns.
const (
	colYear        = "YEAR"
	colCountry     = "COUNTRY_OF_SEIZURE"
	colSubRegion   = "SUBREGION_OF_SEIZURE"
	colRegion      = "REGION_OF_SEIZURE"
	colDeparture   = "DEPARTURE_COUNTRY"
	colDestination = "DESTINATION_COUNTRY"
	colProducing   = "PRODUCING_COUNTRY"
	colDrugName    = "DRUG_NAME"
	colDrugUnit    = "DRUG_UNIT"
	colAmount      = "AMOUNT_OF_DRUG"
)

// ReadSeizures parses the individual drug seizures table. A row whose amount
// is missing, non-numeric or negative is rejected with ErrInvalidRow.
func ReadSeizures(r io.Reader) ([]Seizure, error) {
	t, err := readTable(r, "seizures", colYear, colCountry, colDrugName, colDrugUnit, colAmount)
	if err != nil {
		return nil, err
	}

	out := make([]Seizure, 0, len(t.records))
	for i, rec := range t.records {
		yearStr := t.getField(rec, colYear)
		year, err := parseYear(yearStr)
		if err != nil {
			return nil, t.rowError(i, colYear, yearStr, err)
		}
		amountStr := t.getField(rec, colAmount)
		amount, err := strconv.ParseFloat(strings.ReplaceAll(amountStr, ",", ""), 64)
		if err != nil || amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
			return nil, t.rowError(i, colAmount, amountStr, err)
		}
		out = append(out, Seizure{
			Year:             year,
			CountryOfSeizure: t.getField(rec, colCountry),
			SubRegion:        t.getField(rec, colSubRegion),
			Region:           t.getField(rec, colRegion),
			Departure:        t.getField(rec, colDeparture),
			Destination:      t.getField(rec, colDestination),
			Producing:        t.getField(rec, colProducing),
			DrugName:         t.getField(rec, colDrugName),
			DrugUnit:         t.getField(rec, colDrugUnit),
			Amount:           amount,
		})
	}
	return out, nil
}
