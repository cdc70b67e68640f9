package pipeline

import (
	"time"

	"maritime-forecast/internal/dataset"
	"maritime-forecast/internal/forecast"
	"maritime-forecast/internal/model"
)

// Result holds every table a run produces.
type Result struct {
	StartedAt  time.Time
	Duration   time.Duration
	Forecaster string

	Horizon         forecast.Horizon
	Rates           []float64
	FixedCostPerTon float64

	Ports    []model.PortInfo // scored, input order
	Vessels  []model.VesselCost
	Enriched []model.EnrichedTradeRecord
	Summary  dataset.MergeSummary

	Trend       model.YearlyTrend
	Forecast    []model.ForecastPoint
	Profits     []model.ProfitScenario
	Projections []model.YearProjection
}

// BestScenario returns the most profitable rate, if any.
func (r *Result) BestScenario() (model.ProfitScenario, bool) {
	if r == nil || len(r.Profits) == 0 {
		return model.ProfitScenario{}, false
	}
	best := r.Profits[0]
	for _, p := range r.Profits[1:] {
		if p.TotalProfitMillionsUSD > best.TotalProfitMillionsUSD {
			best = p
		}
	}
	return best, true
}
