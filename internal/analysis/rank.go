package analysis

import (
	"sort"

	"maritime-forecast/internal/model"
)

// RankPortsByRisk sorts scored ports by ascending risk (safest first).
// Unscored ports sort last. Ties keep input order.
func RankPortsByRisk(ports []model.PortInfo) []model.PortInfo {
	out := make([]model.PortInfo, len(ports))
	copy(out, ports)
	sort.SliceStable(out, func(i, j int) bool {
		ri, okI := out[i].RiskScore()
		rj, okJ := out[j].RiskScore()
		if okI != okJ {
			return okI
		}
		return ri < rj
	})
	return out
}

// RankVesselsByCost sorts by ascending cost per ton (most efficient first).
func RankVesselsByCost(vessels []model.VesselCost) []model.VesselCost {
	out := make([]model.VesselCost, len(vessels))
	copy(out, vessels)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CostPerTon < out[j].CostPerTon
	})
	return out
}
