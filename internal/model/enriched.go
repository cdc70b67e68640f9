package model

// EnrichedTradeRecord is a trade row joined with its port and fuel cost.
//
// The joins are left-outer: Port is nil when the trade's port is not in the
// port table, and FuelCostPerTon/OperationalCost are nil when the trade's year
// has no fuel cost. Missing values are never filled with zero.
type EnrichedTradeRecord struct {
	TradeRecord

	Port           *PortInfo
	FuelCostPerTon *float64

	// OperationalCost = Volume * FuelCostPerTon / 1000 (USD).
	OperationalCost *float64
}

func (e EnrichedTradeRecord) HasPort() bool { return e.Port != nil }

func (e EnrichedTradeRecord) HasFuelCost() bool { return e.FuelCostPerTon != nil }

// RiskScore returns the joined port's risk score, if the port matched and was scored.
func (e EnrichedTradeRecord) RiskScore() (float64, bool) {
	if e.Port == nil {
		return 0, false
	}
	return e.Port.RiskScore()
}
