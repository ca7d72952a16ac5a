package types

// RawOrder is one input line split into its positional fields, before validation.
type RawOrder struct {
	OrderID   string `json:"id"`
	FirstName string `json:"prescriber_first_name"`
	LastName  string `json:"prescriber_last_name"`
	DrugName  string `json:"drug_name"`
	Cost      string `json:"drug_cost"`
}

// RawOrderFromFields maps positional fields onto a RawOrder.
// Missing trailing fields are left empty and extra fields are ignored.
func RawOrderFromFields(fields []string) RawOrder {
	at := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}
	return RawOrder{
		OrderID:   at(0),
		FirstName: at(1),
		LastName:  at(2),
		DrugName:  at(3),
		Cost:      at(4),
	}
}

type ReportRow struct {
	DrugName          string  `json:"drug_name"`
	UniquePrescribers int     `json:"num_prescriber"`
	TotalCost         float64 `json:"total_cost"`
}
