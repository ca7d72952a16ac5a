package aggregator

import (
	"sort"

	"pharmacy-counting-go/internal/record"
	"pharmacy-counting-go/internal/types"
)

// Aggregate is the running state for one drug.
type Aggregate struct {
	DrugName    string
	TotalCost   float64
	Prescribers map[string]struct{}
}

func (a Aggregate) UniquePrescribers() int { return len(a.Prescribers) }

// Aggregator groups records by drug name. It is not safe for concurrent use.
type Aggregator struct {
	drugs map[string]*Aggregate
}

func New() *Aggregator {
	return &Aggregator{drugs: make(map[string]*Aggregate)}
}

// Fold adds one record to the aggregate for its drug, creating it on first sight.
// The cost always counts, even when the prescriber was already seen for that drug.
func (g *Aggregator) Fold(r record.Record) {
	agg, ok := g.drugs[r.DrugName()]
	if !ok {
		agg = &Aggregate{DrugName: r.DrugName(), Prescribers: make(map[string]struct{})}
		g.drugs[r.DrugName()] = agg
	}
	agg.TotalCost += r.Cost()
	agg.Prescribers[r.PrescriberKey()] = struct{}{}
}

// Merge folds other's aggregates into g: totals are added and prescriber sets unioned.
// other is left unchanged.
func (g *Aggregator) Merge(other *Aggregator) {
	for name, src := range other.drugs {
		dst, ok := g.drugs[name]
		if !ok {
			dst = &Aggregate{DrugName: name, Prescribers: make(map[string]struct{}, len(src.Prescribers))}
			g.drugs[name] = dst
		}
		dst.TotalCost += src.TotalCost
		for p := range src.Prescribers {
			dst.Prescribers[p] = struct{}{}
		}
	}
}

// Len is the number of distinct drugs seen.
func (g *Aggregator) Len() int { return len(g.drugs) }

// Lookup returns a copy of the aggregate for drug, which must already be normalized.
func (g *Aggregator) Lookup(drug string) (Aggregate, bool) {
	agg, ok := g.drugs[drug]
	if !ok {
		return Aggregate{}, false
	}
	cp := Aggregate{DrugName: agg.DrugName, TotalCost: agg.TotalCost, Prescribers: make(map[string]struct{}, len(agg.Prescribers))}
	for p := range agg.Prescribers {
		cp.Prescribers[p] = struct{}{}
	}
	return cp, true
}

// Report returns one row per drug, ordered by total cost descending and then
// by drug name descending. It does not modify the aggregator.
func (g *Aggregator) Report() []types.ReportRow {
	rows := make([]types.ReportRow, 0, len(g.drugs))
	for _, agg := range g.drugs {
		rows = append(rows, types.ReportRow{
			DrugName:          agg.DrugName,
			UniquePrescribers: agg.UniquePrescribers(),
			TotalCost:         agg.TotalCost,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalCost != rows[j].TotalCost {
			return rows[i].TotalCost > rows[j].TotalCost
		}
		return rows[i].DrugName > rows[j].DrugName
	})
	return rows
}
