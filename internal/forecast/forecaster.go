// Package forecast turns yearly trade volume into a single time series and
// projects it over a fixed horizon of future years.
package forecast

import (
	"context"
	"fmt"
	"sort"

	"maritime-forecast/internal/model"
)

// Prediction is a forecaster's output for one year. Lower and Upper bound the
// uncertainty interval; Forecast keeps only Yhat.
type Prediction struct {
	Year  int
	Yhat  float64
	Lower float64
	Upper float64
}

// Forecaster fits a model to a yearly trend and predicts the requested years.
// Implementations must return one prediction per requested year, in order.
type Forecaster interface {
	Name() string
	Predict(ctx context.Context, trend model.YearlyTrend, years []int) ([]Prediction, error)
}

// Horizon is an inclusive range of future years.
type Horizon struct {
	Start int
	End   int
}

// MaxHorizonYears caps how many years a single forecast may cover.
const MaxHorizonYears = 100

// DefaultHorizon is 2025..2030.
var DefaultHorizon = Horizon{Start: 2025, End: 2030}

func (h Horizon) Validate() error {
	if h.End < h.Start {
		return fmt.Errorf("forecast horizon: end (%d) must be >= start (%d)", h.End, h.Start)
	}
	if uint64(h.End-h.Start) >= MaxHorizonYears {
		return fmt.Errorf("forecast horizon: %d-%d spans more than %d years", h.Start, h.End, MaxHorizonYears)
	}
	return nil
}

// Years lists the horizon's years, or nil when the horizon is invalid.
func (h Horizon) Years() []int {
	if h.Validate() != nil {
		return nil
	}
	years := make([]int, 0, h.End-h.Start+1)
	for y := h.Start; y <= h.End; y++ {
		years = append(years, y)
	}
	return years
}

// AggregateYearly sums volume per year. The result has one point per distinct
// year, ascending.
func AggregateYearly(trades []model.TradeRecord) model.YearlyTrend {
	totals := map[int]float64{}
	for _, t := range trades {
		totals[t.Year] += t.Volume
	}
	trend := make(model.YearlyTrend, 0, len(totals))
	for y, v := range totals {
		trend = append(trend, model.TrendPoint{Year: y, TotalVolume: v})
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Year < trend[j].Year })
	return trend
}

// AggregateEnriched aggregates the trade records underlying merged rows.
func AggregateEnriched(rows []model.EnrichedTradeRecord) model.YearlyTrend {
	trades := make([]model.TradeRecord, len(rows))
	for i, r := range rows {
		trades[i] = r.TradeRecord
	}
	return AggregateYearly(trades)
}

// Forecast predicts every horizon year with f and returns point estimates only.
func Forecast(ctx context.Context, f Forecaster, trend model.YearlyTrend, h Horizon) ([]model.ForecastPoint, error) {
	if f == nil {
		return nil, fmt.Errorf("forecaster is nil")
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if err := checkHistory(trend); err != nil {
		return nil, err
	}

	years := h.Years()
	preds, err := f.Predict(ctx, trend, years)
	if err != nil {
		return nil, fmt.Errorf("%s predict: %w", f.Name(), err)
	}
	if len(preds) != len(years) {
		return nil, fmt.Errorf("%s returned %d predictions for %d years", f.Name(), len(preds), len(years))
	}

	out := make([]model.ForecastPoint, len(years))
	for i, p := range preds {
		if p.Year != years[i] {
			return nil, fmt.Errorf("%s returned year %d at position %d, want %d", f.Name(), p.Year, i, years[i])
		}
		out[i] = model.ForecastPoint{Year: p.Year, PredictedVolume: p.Yhat}
	}
	return out, nil
}

// checkHistory requires at least two distinct years, strictly ascending.
func checkHistory(trend model.YearlyTrend) error {
	distinct := map[int]struct{}{}
	for _, p := range trend {
		distinct[p.Year] = struct{}{}
	}
	if len(distinct) < 2 {
		return fmt.Errorf("%w: need at least 2 distinct years, got %d", model.ErrInsufficientHistory, len(distinct))
	}
	for i := 1; i < len(trend); i++ {
		if trend[i].Year <= trend[i-1].Year {
			return fmt.Errorf("%w: trend years must be strictly ascending (%d after %d)",
				model.ErrInvalidRecord, trend[i].Year, trend[i-1].Year)
		}
	}
	return nil
}
