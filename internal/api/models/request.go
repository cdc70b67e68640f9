package models

// RunRequest is the optional body of POST /api/v1/runs. Omitted fields fall
// back to the server configuration.
type RunRequest struct {
	// Either Rates, or RateMin/RateMax/RateStep, or neither.
	Rates    []float64 `json:"rates,omitempty"`
	RateMin  *float64  `json:"rate_min,omitempty"`
	RateMax  *float64  `json:"rate_max,omitempty"`
	RateStep *float64  `json:"rate_step,omitempty"`

	FixedCostPerTon *float64 `json:"fixed_cost_per_ton,omitempty" binding:"omitempty,gte=0"`
	HorizonStart    int      `json:"horizon_start,omitempty"`
	HorizonEnd      int      `json:"horizon_end,omitempty"`
}

// TradesQuery pages through the merged trade table.
type TradesQuery struct {
	Limit  int    `form:"limit,default=100" binding:"gte=1,lte=10000"`
	Offset int    `form:"offset" binding:"gte=0"`
	Port   string `form:"port"`
	Year   int    `form:"year"`
}
