package dataset

import (
	"sort"

	"maritime-forecast/internal/model"
)

// MergeSummary describes join coverage of a merged table.
type MergeSummary struct {
	Rows            int
	UnmatchedPorts  []string // distinct, sorted
	UnmatchedYears  []int    // distinct, ascending
	RowsMissingPort int
	RowsMissingFuel int
	TotalVolume     float64
	OperationalCost float64 // sum over rows with a fuel cost
}

// Complete reports whether every row matched both joins.
func (s MergeSummary) Complete() bool {
	return s.RowsMissingPort == 0 && s.RowsMissingFuel == 0
}

func Summarize(enriched []model.EnrichedTradeRecord) MergeSummary {
	s := MergeSummary{Rows: len(enriched)}
	ports := map[string]struct{}{}
	years := map[int]struct{}{}
	for _, e := range enriched {
		s.TotalVolume += e.Volume
		if !e.HasPort() {
			s.RowsMissingPort++
			ports[e.TradeRecord.Port] = struct{}{}
		}
		if !e.HasFuelCost() {
			s.RowsMissingFuel++
			years[e.Year] = struct{}{}
			continue
		}
		s.OperationalCost += *e.OperationalCost
	}
	for p := range ports {
		s.UnmatchedPorts = append(s.UnmatchedPorts, p)
	}
	for y := range years {
		s.UnmatchedYears = append(s.UnmatchedYears, y)
	}
	sort.Strings(s.UnmatchedPorts)
	sort.Ints(s.UnmatchedYears)
	return s
}
