package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"maritime-forecast/internal/model"
)

// Defaults for the shipping-rate sweep, in USD/ton.
const (
	DefaultRateMin         = 40.0
	DefaultRateMax         = 60.0
	DefaultRateStep        = 5.0
	DefaultFixedCostPerTon = 35.0

	// MaxSweepRates caps the number of rates a single sweep may produce.
	MaxSweepRates = 1000
)

var million = decimal.NewFromInt(1_000_000)

// RateSweep returns minRate, minRate+step, ... up to and including maxRate.
// Steps are accumulated in decimal so that e.g. 0.1 increments do not drift.
func RateSweep(minRate, maxRate, step float64) ([]float64, error) {
	if step <= 0 || math.IsNaN(step) {
		return nil, errors.New("rate sweep: step must be > 0")
	}
	if !isFinite(minRate) || !isFinite(maxRate) || math.IsInf(step, 0) {
		return nil, errors.New("rate sweep: bounds must be finite")
	}
	if maxRate < minRate {
		return nil, fmt.Errorf("rate sweep: max (%g) must be >= min (%g)", maxRate, minRate)
	}
	lo := decimal.NewFromFloat(minRate)
	hi := decimal.NewFromFloat(maxRate)
	st := decimal.NewFromFloat(step)
	if hi.Sub(lo).Div(st).Floor().GreaterThanOrEqual(decimal.NewFromInt(MaxSweepRates)) {
		return nil, fmt.Errorf("rate sweep: more than %d rates between %g and %g at step %g", MaxSweepRates, minRate, maxRate, step)
	}

	var rates []float64
	for r := lo; r.LessThanOrEqual(hi); r = r.Add(st) {
		rates = append(rates, r.InexactFloat64())
	}
	return rates, nil
}

// EvaluateProfits computes, for each rate, the total profit over all forecast
// points in millions of USD:
//
//	sum(volume*rate - volume*fixedCostPerTon) / 1e6
//
// One scenario is returned per rate, in the order of rates.
func EvaluateProfits(forecast []model.ForecastPoint, rates []float64, fixedCostPerTon float64) ([]model.ProfitScenario, error) {
	if err := checkFinite(forecast, rates, fixedCostPerTon); err != nil {
		return nil, err
	}
	fixed := decimal.NewFromFloat(fixedCostPerTon)

	out := make([]model.ProfitScenario, 0, len(rates))
	for _, r := range rates {
		rate := decimal.NewFromFloat(r)
		total := decimal.Zero
		for _, p := range forecast {
			_, profit := revenueAndProfit(decimal.NewFromFloat(p.PredictedVolume), rate, fixed)
			total = total.Add(profit)
		}
		out = append(out, model.ProfitScenario{
			Rate:                   r,
			TotalProfitMillionsUSD: total.Div(million).InexactFloat64(),
		})
	}
	return out, nil
}

// ProjectYearly breaks the profit sweep down per forecast year, in millions of USD.
func ProjectYearly(forecast []model.ForecastPoint, rates []float64, fixedCostPerTon float64) ([]model.YearProjection, error) {
	if err := checkFinite(forecast, rates, fixedCostPerTon); err != nil {
		return nil, err
	}
	fixed := decimal.NewFromFloat(fixedCostPerTon)

	out := make([]model.YearProjection, 0, len(forecast))
	for _, p := range forecast {
		vol := decimal.NewFromFloat(p.PredictedVolume)
		row := model.YearProjection{
			Year:            p.Year,
			PredictedVolume: p.PredictedVolume,
			ByRate:          make([]model.RateProjection, 0, len(rates)),
		}
		for _, r := range rates {
			revenue, profit := revenueAndProfit(vol, decimal.NewFromFloat(r), fixed)
			row.ByRate = append(row.ByRate, model.RateProjection{
				Rate:            r,
				RevenueMillions: revenue.Div(million).InexactFloat64(),
				ProfitMillions:  profit.Div(million).InexactFloat64(),
			})
		}
		out = append(out, row)
	}
	return out, nil
}

func revenueAndProfit(volume, rate, fixed decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	revenue := volume.Mul(rate)
	return revenue, revenue.Sub(volume.Mul(fixed))
}

// decimal.NewFromFloat panics on NaN and Inf.
func checkFinite(forecast []model.ForecastPoint, rates []float64, fixed float64) error {
	if !isFinite(fixed) {
		return fmt.Errorf("%w: fixed cost per ton must be finite", model.ErrInvalidRecord)
	}
	for _, r := range rates {
		if !isFinite(r) {
			return fmt.Errorf("%w: rate must be finite", model.ErrInvalidRecord)
		}
	}
	for _, p := range forecast {
		if !isFinite(p.PredictedVolume) {
			return fmt.Errorf("%w: predicted volume for %d must be finite", model.ErrInvalidRecord, p.Year)
		}
	}
	return nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
