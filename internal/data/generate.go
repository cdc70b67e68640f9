package data

import (
	"fmt"
	"math/rand/v2"

	"maritime-forecast/internal/model"
)

// GenerationConfig controls the synthetic trade history.
type GenerationConfig struct {
	StartYear int
	EndYear   int
}

func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{StartYear: 2003, EndYear: 2023}
}

func (c GenerationConfig) Validate() error {
	if c.EndYear < c.StartYear {
		return fmt.Errorf("generation: end year (%d) must be >= start year (%d)", c.EndYear, c.StartYear)
	}
	return nil
}

var (
	Ports           = []string{"Alexandria", "Damietta", "Port Said", "Tripoli", "Benghazi", "Misurata"}
	GoodsCategories = []string{"Raw Materials", "Manufactured Goods", "Perishables", "Machinery", "Others"}
)

// Volume bounds of a single generated trade row, [min, max) metric tons.
const (
	minTradeVolume = 500
	maxTradeVolume = 10000
)

// Fuel cost bounds, USD per metric ton.
const (
	minFuelCost = 300.0
	maxFuelCost = 700.0
)

// EventMultiplier scales the trade volume of a year hit by a regional shock:
// 2010-2012 unrest, the 2020-2021 pandemic and the 2022 recovery.
func EventMultiplier(year int) float64 {
	switch {
	case year >= 2010 && year <= 2012:
		return 0.7
	case year >= 2020 && year <= 2021:
		return 0.5
	case year == 2022:
		return 0.8
	default:
		return 1
	}
}

// Generate builds a full synthetic reference dataset. The same seed always
// yields the same data.
func Generate(seed uint64, cfg GenerationConfig) (model.ReferenceData, error) {
	if err := cfg.Validate(); err != nil {
		return model.ReferenceData{}, err
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return model.ReferenceData{
		Trades:    generateTrades(rng, cfg),
		FuelCosts: generateFuelCosts(rng, cfg),
		Ports:     DefaultPorts(),
		Vessels:   DefaultVessels(),
	}, nil
}

func generateTrades(rng *rand.Rand, cfg GenerationConfig) []model.TradeRecord {
	years := cfg.EndYear - cfg.StartYear + 1
	out := make([]model.TradeRecord, 0, years*len(Ports)*len(GoodsCategories))
	for year := cfg.StartYear; year <= cfg.EndYear; year++ {
		for _, port := range Ports {
			for _, good := range GoodsCategories {
				volume := float64(minTradeVolume + rng.IntN(maxTradeVolume-minTradeVolume))
				out = append(out, model.TradeRecord{
					Port:         port,
					GoodCategory: good,
					Volume:       volume * EventMultiplier(year),
					Year:         year,
				})
			}
		}
	}
	return out
}

func generateFuelCosts(rng *rand.Rand, cfg GenerationConfig) []model.FuelCostRecord {
	out := make([]model.FuelCostRecord, 0, cfg.EndYear-cfg.StartYear+1)
	for year := cfg.StartYear; year <= cfg.EndYear; year++ {
		out = append(out, model.FuelCostRecord{
			Year:       year,
			CostPerTon: minFuelCost + rng.Float64()*(maxFuelCost-minFuelCost),
		})
	}
	return out
}

// DefaultPorts is the fixed port table for Egypt and Libya.
func DefaultPorts() []model.PortInfo {
	return []model.PortInfo{
		{Port: "Alexandria", Country: "Egypt", AnnualCapacity: 200000, InfrastructureQuality: 8, ProximityToHubs: 9, PoliticalStability: 7, CustomsEfficiency: 8},
		{Port: "Damietta", Country: "Egypt", AnnualCapacity: 180000, InfrastructureQuality: 7, ProximityToHubs: 8, PoliticalStability: 7, CustomsEfficiency: 7},
		{Port: "Port Said", Country: "Egypt", AnnualCapacity: 220000, InfrastructureQuality: 9, ProximityToHubs: 9, PoliticalStability: 8, CustomsEfficiency: 9},
		{Port: "Tripoli", Country: "Libya", AnnualCapacity: 150000, InfrastructureQuality: 6, ProximityToHubs: 6, PoliticalStability: 4, CustomsEfficiency: 5},
		{Port: "Benghazi", Country: "Libya", AnnualCapacity: 160000, InfrastructureQuality: 5, ProximityToHubs: 7, PoliticalStability: 5, CustomsEfficiency: 6},
		{Port: "Misurata", Country: "Libya", AnnualCapacity: 140000, InfrastructureQuality: 5, ProximityToHubs: 6, PoliticalStability: 4, CustomsEfficiency: 5},
	}
}

// DefaultVessels is the fixed vessel type table.
func DefaultVessels() []model.VesselType {
	return []model.VesselType{
		{Name: "Container Ship", Capacity: 20000, OperationalCostPerTrip: 50000, SuitableGoods: []string{"Manufactured Goods", "Machinery"}},
		{Name: "Bulk Carrier", Capacity: 30000, OperationalCostPerTrip: 60000, SuitableGoods: []string{"Raw Materials", "Others"}},
		{Name: "Tanker", Capacity: 25000, OperationalCostPerTrip: 70000, SuitableGoods: []string{"Perishables", "Liquid Cargo"}},
		{Name: "General Cargo", Capacity: 15000, OperationalCostPerTrip: 40000, SuitableGoods: []string{"General Cargo", "Machinery"}},
		{Name: "Reefer", Capacity: 12000, OperationalCostPerTrip: 45000, SuitableGoods: []string{"Perishables"}},
	}
}
