// Package dataset joins the trade volume table with the port and fuel cost
// reference tables.
package dataset

import (
	"strconv"

	"maritime-forecast/internal/model"
)

// Table names reported in DuplicateKeyError.
const (
	TablePorts     = "ports"
	TableFuelCosts = "fuel_costs"
)

// Merge left-joins trades to ports on port name and then to fuel costs on
// year, and derives OperationalCost = Volume * FuelCostPerTon / 1000.
//
// Output rows are in input trade order. Unmatched keys leave the joined
// fields nil. Duplicate keys in either reference table are a data contract
// violation and return a *model.DuplicateKeyError.
func Merge(trades []model.TradeRecord, ports []model.PortInfo, fuelCosts []model.FuelCostRecord) ([]model.EnrichedTradeRecord, error) {
	portIdx, err := indexPorts(ports)
	if err != nil {
		return nil, err
	}
	fuelIdx, err := indexFuelCosts(fuelCosts)
	if err != nil {
		return nil, err
	}

	out := make([]model.EnrichedTradeRecord, 0, len(trades))
	for _, t := range trades {
		row := model.EnrichedTradeRecord{TradeRecord: t}
		if i, ok := portIdx[t.Port]; ok {
			p := ports[i]
			row.Port = &p
		}
		if cost, ok := fuelIdx[t.Year]; ok {
			c := cost
			opCost := t.Volume * c / 1000
			row.FuelCostPerTon = &c
			row.OperationalCost = &opCost
		}
		out = append(out, row)
	}
	return out, nil
}

func indexPorts(ports []model.PortInfo) (map[string]int, error) {
	idx := make(map[string]int, len(ports))
	for i, p := range ports {
		if _, dup := idx[p.Port]; dup {
			return nil, &model.DuplicateKeyError{Table: TablePorts, Key: p.Port}
		}
		idx[p.Port] = i
	}
	return idx, nil
}

func indexFuelCosts(costs []model.FuelCostRecord) (map[int]float64, error) {
	idx := make(map[int]float64, len(costs))
	for _, f := range costs {
		if _, dup := idx[f.Year]; dup {
			return nil, &model.DuplicateKeyError{Table: TableFuelCosts, Key: strconv.Itoa(f.Year)}
		}
		idx[f.Year] = f.CostPerTon
	}
	return idx, nil
}

// Trades returns the underlying trade records, in order.
func Trades(enriched []model.EnrichedTradeRecord) []model.TradeRecord {
	out := make([]model.TradeRecord, len(enriched))
	for i, e := range enriched {
		out[i] = e.TradeRecord
	}
	return out
}
