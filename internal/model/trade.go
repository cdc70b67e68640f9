package model

import (
	"math"
	"strings"
)

// TradeRecord is one row of the trade volume table.
// Units:
// - Volume: metric tons
// - Year: calendar year
type TradeRecord struct {
	Port         string
	GoodCategory string
	Volume       float64
	Year         int
}

func (t TradeRecord) Validate() error {
	if strings.TrimSpace(t.Port) == "" {
		return invalid("trade record: port is required")
	}
	if math.IsNaN(t.Volume) || math.IsInf(t.Volume, 0) {
		return invalid("trade record %s/%d: volume must be finite", t.Port, t.Year)
	}
	if t.Volume < 0 {
		return invalid("trade record %s/%d: volume must be >= 0, got %g", t.Port, t.Year, t.Volume)
	}
	return nil
}

// FuelCostRecord is the fuel price for one year in USD per metric ton.
// Year is the table key.
type FuelCostRecord struct {
	Year       int
	CostPerTon float64
}

func (f FuelCostRecord) Validate() error {
	if math.IsNaN(f.CostPerTon) || math.IsInf(f.CostPerTon, 0) || f.CostPerTon < 0 {
		return invalid("fuel cost %d: cost per ton must be a finite value >= 0", f.Year)
	}
	return nil
}

// ReferenceData bundles the four raw tables consumed by the pipeline.
type ReferenceData struct {
	Trades    []TradeRecord
	FuelCosts []FuelCostRecord
	Ports     []PortInfo
	Vessels   []VesselType
}

// Validate checks every row. Key uniqueness is a join concern and is checked
// by the merger, not here.
func (r ReferenceData) Validate() error {
	for _, t := range r.Trades {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	for _, f := range r.FuelCosts {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	for _, p := range r.Ports {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	for _, v := range r.Vessels {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
