package analysis

import (
	"fmt"

	"maritime-forecast/internal/model"
)

// VesselCostPerTon is operational cost per trip divided by capacity (USD/ton).
func VesselCostPerTon(v model.VesselType) (float64, error) {
	if v.Capacity == 0 {
		return 0, fmt.Errorf("vessel %q cost per ton: capacity is 0: %w", v.Name, model.ErrDivisionByZero)
	}
	return v.OperationalCostPerTrip / v.Capacity, nil
}

// ComputeVesselCosts derives cost per ton for every vessel, in input order.
func ComputeVesselCosts(vessels []model.VesselType) ([]model.VesselCost, error) {
	out := make([]model.VesselCost, 0, len(vessels))
	for _, v := range vessels {
		if err := v.Validate(); err != nil {
			return nil, err
		}
		cpt, err := VesselCostPerTon(v)
		if err != nil {
			return nil, err
		}
		out = append(out, model.VesselCost{VesselType: v, CostPerTon: cpt})
	}
	return out, nil
}

// SuitableVessels returns the vessels able to carry goodCategory, cheapest first.
func SuitableVessels(goodCategory string, vessels []model.VesselCost) []model.VesselCost {
	var out []model.VesselCost
	for _, v := range vessels {
		if v.Suits(goodCategory) {
			out = append(out, v)
		}
	}
	return RankVesselsByCost(out)
}
