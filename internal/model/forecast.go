package model

// TrendPoint is the total trade volume (metric tons) for one year.
type TrendPoint struct {
	Year        int
	TotalVolume float64
}

// YearlyTrend is ordered by Year ascending with one point per distinct year.
type YearlyTrend []TrendPoint

func (t YearlyTrend) FirstYear() int {
	if len(t) == 0 {
		return 0
	}
	return t[0].Year
}

func (t YearlyTrend) LastYear() int {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1].Year
}

// ForecastPoint is a point prediction of total trade volume for a future year.
type ForecastPoint struct {
	Year            int
	PredictedVolume float64
}

// ProfitScenario is the aggregate projected profit over the forecast horizon
// at one shipping rate (USD/ton).
type ProfitScenario struct {
	Rate                   float64
	TotalProfitMillionsUSD float64
}

// RateProjection is revenue and profit for one year at one rate, in millions of USD.
type RateProjection struct {
	Rate            float64
	RevenueMillions float64
	ProfitMillions  float64
}

// YearProjection is one row of the per-year revenue/profit table.
type YearProjection struct {
	Year            int
	PredictedVolume float64
	ByRate          []RateProjection
}
