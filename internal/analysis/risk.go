package analysis

import (
	"fmt"

	"maritime-forecast/internal/model"
)

// Weights is the contribution of each normalized port attribute to port quality.
type Weights struct {
	Infrastructure float64
	Proximity      float64
	Stability      float64
	Customs        float64
}

// RiskWeights are fixed; they sum to exactly 1.0 so that the weighted quality,
// and therefore the risk score, stays within [0,1].
var RiskWeights = Weights{
	Infrastructure: 0.3,
	Proximity:      0.2,
	Stability:      0.3,
	Customs:        0.2,
}

func (w Weights) Sum() float64 {
	return w.Infrastructure + w.Proximity + w.Stability + w.Customs
}

// ScorePort normalizes the four attributes to [0,1] and combines them into a
// risk score: 1 - weighted quality.
func ScorePort(p model.PortInfo) model.RiskScores {
	s := model.RiskScores{
		InfrastructureNorm: normalize(p.InfrastructureQuality),
		ProximityNorm:      normalize(p.ProximityToHubs),
		StabilityNorm:      normalize(p.PoliticalStability),
		CustomsNorm:        normalize(p.CustomsEfficiency),
	}
	quality := s.InfrastructureNorm*RiskWeights.Infrastructure +
		s.ProximityNorm*RiskWeights.Proximity +
		s.StabilityNorm*RiskWeights.Stability +
		s.CustomsNorm*RiskWeights.Customs
	s.RiskScore = clamp01(1 - quality)
	return s
}

// PortRiskScore is ScorePort(p).RiskScore.
func PortRiskScore(p model.PortInfo) float64 {
	return ScorePort(p).RiskScore
}

// ScorePorts returns copies of ports with Risk populated, in input order.
// Attributes outside [0,10] are rejected rather than clamped.
func ScorePorts(ports []model.PortInfo) ([]model.PortInfo, error) {
	out := make([]model.PortInfo, 0, len(ports))
	for _, p := range ports {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("score ports: %w", err)
		}
		scores := ScorePort(p)
		p.Risk = &scores
		out = append(out, p)
	}
	return out, nil
}

func normalize(score float64) float64 {
	return score / model.MaxAttributeScore
}

// clamp01 only absorbs float rounding at the edges; inputs are validated.
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
