package model

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func validPort() PortInfo {
	return PortInfo{
		Port:                  "Alexandria",
		Country:               "Egypt",
		AnnualCapacity:        1_500_000,
		InfrastructureQuality: 8,
		ProximityToHubs:       7,
		PoliticalStability:    6,
		CustomsEfficiency:     7,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		v       interface{ Validate() error }
		wantErr bool
	}{
		{"trade ok", TradeRecord{Port: "Tripoli", GoodCategory: "Machinery", Volume: 1200, Year: 2010}, false},
		{"trade zero volume", TradeRecord{Port: "Tripoli", Volume: 0, Year: 2010}, false},
		{"trade missing port", TradeRecord{Port: " ", Volume: 10, Year: 2010}, true},
		{"trade negative volume", TradeRecord{Port: "Tripoli", Volume: -1, Year: 2010}, true},
		{"trade NaN volume", TradeRecord{Port: "Tripoli", Volume: math.NaN(), Year: 2010}, true},
		{"fuel ok", FuelCostRecord{Year: 2010, CostPerTon: 450}, false},
		{"fuel negative", FuelCostRecord{Year: 2010, CostPerTon: -1}, true},
		{"fuel inf", FuelCostRecord{Year: 2010, CostPerTon: math.Inf(1)}, true},
		{"port ok", validPort(), false},
		{"port attribute above 10", func() PortInfo { p := validPort(); p.CustomsEfficiency = 11; return p }(), true},
		{"port attribute below 0", func() PortInfo { p := validPort(); p.ProximityToHubs = -1; return p }(), true},
		{"port infinite capacity", func() PortInfo { p := validPort(); p.AnnualCapacity = math.Inf(1); return p }(), true},
		{"port negative capacity", func() PortInfo { p := validPort(); p.AnnualCapacity = -5; return p }(), true},
		{"vessel ok", VesselType{Name: "Tanker", Capacity: 25000, OperationalCostPerTrip: 70000}, false},
		{"vessel zero capacity", VesselType{Name: "Tanker", Capacity: 0, OperationalCostPerTrip: 70000}, false},
		{"vessel infinite capacity", VesselType{Name: "Void", Capacity: math.Inf(1), OperationalCostPerTrip: 100}, true},
		{"vessel infinite cost", VesselType{Name: "Ghost", Capacity: 1000, OperationalCostPerTrip: math.Inf(1)}, true},
		{"vessel negative cost", VesselType{Name: "Tanker", Capacity: 1, OperationalCostPerTrip: -1}, true},
		{"vessel missing name", VesselType{Capacity: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.v.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("error %v does not wrap ErrInvalidRecord", err)
			}
		})
	}
}

func TestReferenceData_ValidateStopsAtFirstBadRow(t *testing.T) {
	ref := ReferenceData{
		Trades:  []TradeRecord{{Port: "Tripoli", Volume: 1, Year: 2010}},
		Ports:   []PortInfo{validPort()},
		Vessels: []VesselType{{Name: "Reefer", Capacity: 12000, OperationalCostPerTrip: 45000}},
	}
	if err := ref.Validate(); err != nil {
		t.Fatalf("valid data rejected: %v", err)
	}
	ref.FuelCosts = []FuelCostRecord{{Year: 2010, CostPerTon: math.NaN()}}
	if err := ref.Validate(); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("err = %v, want ErrInvalidRecord", err)
	}
}

func TestDuplicateKeyError(t *testing.T) {
	err := fmt.Errorf("merge: %w", &DuplicateKeyError{Table: "port_info", Key: "Tripoli"})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatal("errors.Is(ErrDuplicateKey) = false")
	}
	var dup *DuplicateKeyError
	if !errors.As(err, &dup) || dup.Key != "Tripoli" {
		t.Fatalf("errors.As = %v", dup)
	}
	if errors.Is(err, ErrInvalidRecord) {
		t.Error("duplicate key should not match ErrInvalidRecord")
	}
}

func TestVesselType_Suits(t *testing.T) {
	v := VesselType{Name: "Container Ship", SuitableGoods: []string{"Manufactured Goods", " Machinery"}}
	if !v.Suits("machinery") {
		t.Error("match should ignore case and surrounding space")
	}
	if v.Suits("Perishables") {
		t.Error("Perishables is not suitable")
	}
}

func TestYearlyTrend_Bounds(t *testing.T) {
	var empty YearlyTrend
	if empty.FirstYear() != 0 || empty.LastYear() != 0 {
		t.Error("empty trend should report zero years")
	}
	tr := YearlyTrend{{Year: 2003, TotalVolume: 1}, {Year: 2023, TotalVolume: 2}}
	if tr.FirstYear() != 2003 || tr.LastYear() != 2023 {
		t.Errorf("bounds = %d..%d", tr.FirstYear(), tr.LastYear())
	}
}

func TestEnrichedTradeRecord_Accessors(t *testing.T) {
	e := EnrichedTradeRecord{TradeRecord: TradeRecord{Port: "Tobruk", Year: 2003}}
	if e.HasPort() || e.HasFuelCost() {
		t.Fatal("unmatched row reports a match")
	}
	if _, ok := e.RiskScore(); ok {
		t.Fatal("unmatched row has a risk score")
	}

	p := validPort()
	p.Risk = &RiskScores{RiskScore: 0.3}
	e.Port = &p
	if r, ok := e.RiskScore(); !ok || r != 0.3 {
		t.Errorf("risk = %v, %v", r, ok)
	}
}
