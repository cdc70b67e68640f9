package model

import (
	"slices"
	"strings"
)

// VesselType describes a class of vessel.
// Units:
// - Capacity: metric tons per trip
// - OperationalCostPerTrip: USD
type VesselType struct {
	Name                   string
	Capacity               float64
	OperationalCostPerTrip float64
	SuitableGoods          []string
}

// Validate does not reject zero capacity: that is reported as
// ErrDivisionByZero when cost per ton is computed.
func (v VesselType) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return invalid("vessel type: name is required")
	}
	if v.Capacity < 0 || !finite(v.Capacity) {
		return invalid("vessel %s: capacity must be a finite value >= 0", v.Name)
	}
	if v.OperationalCostPerTrip < 0 || !finite(v.OperationalCostPerTrip) {
		return invalid("vessel %s: operational cost per trip must be a finite value >= 0", v.Name)
	}
	return nil
}

// Suits reports whether the vessel is suitable for the good category
// (case-insensitive).
func (v VesselType) Suits(goodCategory string) bool {
	return slices.ContainsFunc(v.SuitableGoods, func(g string) bool {
		return strings.EqualFold(strings.TrimSpace(g), strings.TrimSpace(goodCategory))
	})
}

// VesselCost is a vessel type with its derived cost per ton (USD/ton).
type VesselCost struct {
	VesselType
	CostPerTon float64
}
