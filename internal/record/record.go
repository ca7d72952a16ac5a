// Package record validates and normalizes one prescription order line.
package record

import (
	"math"
	"strconv"
	"strings"

	"pharmacy-counting-go/internal/types"
)

const prescriberSeparator = "_"

// Record is an immutable, validated order line.
type Record struct {
	id            string
	prescriberKey string
	drugName      string
	cost          float64
}

// New validates raw and returns the normalized Record, or an *InvalidRecordError.
func New(raw types.RawOrder) (Record, error) {
	first := strings.TrimSpace(raw.FirstName)
	last := strings.TrimSpace(raw.LastName)
	if first == "" || last == "" {
		return Record{}, invalid(ErrMissingPrescriber, "prescriber", raw.FirstName+prescriberSeparator+raw.LastName)
	}

	drug := strings.ToUpper(strings.TrimSpace(raw.DrugName))
	if drug == "" {
		return Record{}, invalid(ErrMissingDrugName, "drug_name", raw.DrugName)
	}

	cost, err := strconv.ParseFloat(strings.TrimSpace(raw.Cost), 64)
	if err != nil || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return Record{}, invalid(ErrNonNumericCost, "drug_cost", raw.Cost)
	}

	return Record{
		id:            raw.OrderID,
		prescriberKey: strings.ToUpper(first + prescriberSeparator + last),
		drugName:      drug,
		cost:          cost,
	}, nil
}

// ID is the source order id. It plays no part in aggregation.
func (r Record) ID() string { return r.id }

func (r Record) PrescriberKey() string { return r.prescriberKey }

func (r Record) DrugName() string { return r.drugName }

func (r Record) Cost() float64 { return r.cost }
