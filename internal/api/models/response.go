package models

import (
	"time"

	"maritime-forecast/internal/model"
	"maritime-forecast/internal/pipeline"
)

// RunResponse is returned by POST /api/v1/runs and GET /api/v1/runs/:id.
type RunResponse struct {
	ID      string     `json:"id"`
	Status  string     `json:"status"`
	Summary RunSummary `json:"summary"`
}

type RunSummary struct {
	StartedAt       time.Time `json:"started_at"`
	DurationMS      float64   `json:"duration_ms"`
	Forecaster      string    `json:"forecaster"`
	TradeRows       int       `json:"trade_rows"`
	RowsMissingPort int       `json:"rows_missing_port"`
	RowsMissingFuel int       `json:"rows_missing_fuel"`
	UnmatchedPorts  []string  `json:"unmatched_ports,omitempty"`
	UnmatchedYears  []int     `json:"unmatched_years,omitempty"`
	TotalVolume     float64   `json:"total_volume"`
	OperationalCost float64   `json:"operational_cost"`
	HorizonStart    int       `json:"horizon_start"`
	HorizonEnd      int       `json:"horizon_end"`
	Rates           []float64 `json:"rates"`
	FixedCostPerTon float64   `json:"fixed_cost_per_ton"`
	BestRate        *float64  `json:"best_rate,omitempty"`
	BestProfit      *float64  `json:"best_profit_millions_usd,omitempty"`
}

type TrendPoint struct {
	Year        int     `json:"year"`
	TotalVolume float64 `json:"total_volume"`
}

type ForecastPoint struct {
	Year            int     `json:"year"`
	PredictedVolume float64 `json:"predicted_volume"`
}

type ForecastResponse struct {
	Forecaster string          `json:"forecaster"`
	History    []TrendPoint    `json:"history"`
	Forecast   []ForecastPoint `json:"forecast"`
}

type ProfitScenario struct {
	Rate                   float64 `json:"rate"`
	TotalProfitMillionsUSD float64 `json:"total_profit_millions_usd"`
}

type RateProjection struct {
	Rate            float64 `json:"rate"`
	RevenueMillions float64 `json:"revenue_millions_usd"`
	ProfitMillions  float64 `json:"profit_millions_usd"`
}

type YearProjection struct {
	Year            int              `json:"year"`
	PredictedVolume float64          `json:"predicted_volume"`
	ByRate          []RateProjection `json:"by_rate"`
}

type ProfitsResponse struct {
	FixedCostPerTon float64          `json:"fixed_cost_per_ton"`
	Scenarios       []ProfitScenario `json:"scenarios"`
	Projections     []YearProjection `json:"projections"`
}

type RiskScores struct {
	InfrastructureNorm float64 `json:"infrastructure_norm"`
	ProximityNorm      float64 `json:"proximity_norm"`
	StabilityNorm      float64 `json:"stability_norm"`
	CustomsNorm        float64 `json:"customs_norm"`
	RiskScore          float64 `json:"risk_score"`
}

type Port struct {
	Port                  string      `json:"port"`
	Country               string      `json:"country"`
	AnnualCapacity        float64     `json:"annual_capacity"`
	InfrastructureQuality float64     `json:"infrastructure_quality"`
	ProximityToHubs       float64     `json:"proximity_to_hubs"`
	PoliticalStability    float64     `json:"political_stability"`
	CustomsEfficiency     float64     `json:"customs_efficiency"`
	Risk                  *RiskScores `json:"risk,omitempty"`
}

type PortsResponse struct {
	Ports []Port `json:"ports"`
}

type Vessel struct {
	Name                   string   `json:"name"`
	Capacity               float64  `json:"capacity"`
	OperationalCostPerTrip float64  `json:"operational_cost_per_trip"`
	SuitableGoods          []string `json:"suitable_goods"`
	CostPerTon             float64  `json:"cost_per_ton"`
}

type VesselsResponse struct {
	Vessels []Vessel `json:"vessels"`
}

// Trade is one merged row. Pointer fields are null when the join found no match.
type Trade struct {
	Port            string   `json:"port"`
	GoodCategory    string   `json:"good_category"`
	Volume          float64  `json:"volume"`
	Year            int      `json:"year"`
	Country         *string  `json:"country"`
	RiskScore       *float64 `json:"risk_score"`
	FuelCostPerTon  *float64 `json:"fuel_cost_per_ton"`
	OperationalCost *float64 `json:"operational_cost"`
}

type TradesResponse struct {
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Trades []Trade `json:"trades"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func NewRunResponse(id string, res *pipeline.Result) RunResponse {
	s := RunSummary{
		StartedAt:       res.StartedAt,
		DurationMS:      float64(res.Duration) / float64(time.Millisecond),
		Forecaster:      res.Forecaster,
		TradeRows:       res.Summary.Rows,
		RowsMissingPort: res.Summary.RowsMissingPort,
		RowsMissingFuel: res.Summary.RowsMissingFuel,
		UnmatchedPorts:  res.Summary.UnmatchedPorts,
		UnmatchedYears:  res.Summary.UnmatchedYears,
		TotalVolume:     res.Summary.TotalVolume,
		OperationalCost: res.Summary.OperationalCost,
		HorizonStart:    res.Horizon.Start,
		HorizonEnd:      res.Horizon.End,
		Rates:           res.Rates,
		FixedCostPerTon: res.FixedCostPerTon,
	}
	if best, ok := res.BestScenario(); ok {
		s.BestRate = &best.Rate
		s.BestProfit = &best.TotalProfitMillionsUSD
	}
	return RunResponse{ID: id, Status: "completed", Summary: s}
}

func NewForecastResponse(res *pipeline.Result) ForecastResponse {
	out := ForecastResponse{
		Forecaster: res.Forecaster,
		History:    make([]TrendPoint, len(res.Trend)),
		Forecast:   make([]ForecastPoint, len(res.Forecast)),
	}
	for i, t := range res.Trend {
		out.History[i] = TrendPoint{Year: t.Year, TotalVolume: t.TotalVolume}
	}
	for i, f := range res.Forecast {
		out.Forecast[i] = ForecastPoint{Year: f.Year, PredictedVolume: f.PredictedVolume}
	}
	return out
}

func NewProfitsResponse(res *pipeline.Result) ProfitsResponse {
	out := ProfitsResponse{
		FixedCostPerTon: res.FixedCostPerTon,
		Scenarios:       make([]ProfitScenario, len(res.Profits)),
		Projections:     make([]YearProjection, len(res.Projections)),
	}
	for i, p := range res.Profits {
		out.Scenarios[i] = ProfitScenario{Rate: p.Rate, TotalProfitMillionsUSD: p.TotalProfitMillionsUSD}
	}
	for i, y := range res.Projections {
		row := YearProjection{Year: y.Year, PredictedVolume: y.PredictedVolume, ByRate: make([]RateProjection, len(y.ByRate))}
		for j, r := range y.ByRate {
			row.ByRate[j] = RateProjection{Rate: r.Rate, RevenueMillions: r.RevenueMillions, ProfitMillions: r.ProfitMillions}
		}
		out.Projections[i] = row
	}
	return out
}

func NewPortsResponse(ports []model.PortInfo) PortsResponse {
	out := PortsResponse{Ports: make([]Port, len(ports))}
	for i, p := range ports {
		out.Ports[i] = Port{
			Port:                  p.Port,
			Country:               p.Country,
			AnnualCapacity:        p.AnnualCapacity,
			InfrastructureQuality: p.InfrastructureQuality,
			ProximityToHubs:       p.ProximityToHubs,
			PoliticalStability:    p.PoliticalStability,
			CustomsEfficiency:     p.CustomsEfficiency,
		}
		if p.Risk != nil {
			out.Ports[i].Risk = &RiskScores{
				InfrastructureNorm: p.Risk.InfrastructureNorm,
				ProximityNorm:      p.Risk.ProximityNorm,
				StabilityNorm:      p.Risk.StabilityNorm,
				CustomsNorm:        p.Risk.CustomsNorm,
				RiskScore:          p.Risk.RiskScore,
			}
		}
	}
	return out
}

func NewVesselsResponse(vessels []model.VesselCost) VesselsResponse {
	out := VesselsResponse{Vessels: make([]Vessel, len(vessels))}
	for i, v := range vessels {
		out.Vessels[i] = Vessel{
			Name:                   v.Name,
			Capacity:               v.Capacity,
			OperationalCostPerTrip: v.OperationalCostPerTrip,
			SuitableGoods:          v.SuitableGoods,
			CostPerTon:             v.CostPerTon,
		}
	}
	return out
}

func NewTrade(e model.EnrichedTradeRecord) Trade {
	t := Trade{
		Port:            e.TradeRecord.Port,
		GoodCategory:    e.GoodCategory,
		Volume:          e.Volume,
		Year:            e.Year,
		FuelCostPerTon:  e.FuelCostPerTon,
		OperationalCost: e.OperationalCost,
	}
	if e.Port != nil {
		country := e.Port.Country
		t.Country = &country
		if r, ok := e.Port.RiskScore(); ok {
			t.RiskScore = &r
		}
	}
	return t
}
