package model

import (
	"math"
	"strings"
)

// Attribute scores on PortInfo are rated on a 0..10 scale.
const MaxAttributeScore = 10.0

// PortInfo describes a port and its quality attributes.
// Units:
// - AnnualCapacity: metric tons per year
// - InfrastructureQuality, ProximityToHubs, PoliticalStability, CustomsEfficiency: 0..10
//
// Risk is nil until the port has been scored.
type PortInfo struct {
	Port           string
	Country        string
	AnnualCapacity float64

	InfrastructureQuality float64
	ProximityToHubs       float64
	PoliticalStability    float64
	CustomsEfficiency     float64

	Risk *RiskScores
}

// RiskScores holds the normalized components (0..1) and the composite risk
// score (0..1, higher = riskier).
type RiskScores struct {
	InfrastructureNorm float64
	ProximityNorm      float64
	StabilityNorm      float64
	CustomsNorm        float64
	RiskScore          float64
}

func (p PortInfo) Validate() error {
	if strings.TrimSpace(p.Port) == "" {
		return invalid("port info: port is required")
	}
	if p.AnnualCapacity < 0 || !finite(p.AnnualCapacity) {
		return invalid("port %s: annual capacity must be a finite value >= 0", p.Port)
	}
	attrs := []struct {
		name string
		v    float64
	}{
		{"infrastructure quality", p.InfrastructureQuality},
		{"proximity to hubs", p.ProximityToHubs},
		{"political stability", p.PoliticalStability},
		{"customs efficiency", p.CustomsEfficiency},
	}
	for _, a := range attrs {
		if math.IsNaN(a.v) || a.v < 0 || a.v > MaxAttributeScore {
			return invalid("port %s: %s must be in [0, 10], got %g", p.Port, a.name, a.v)
		}
	}
	return nil
}

// RiskScore returns the composite risk score, or false if the port has not
// been scored.
func (p PortInfo) RiskScore() (float64, bool) {
	if p.Risk == nil {
		return 0, false
	}
	return p.Risk.RiskScore, true
}
