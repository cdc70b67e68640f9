package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/stat"

	"maritime-forecast/internal/model"
	"maritime-forecast/internal/pipeline"
)

// Sheet names of the workbook, in order.
const (
	SheetSummary     = "Summary"
	SheetTrades      = "Trade With Ports"
	SheetPorts       = "Ports"
	SheetVessels     = "Vessels"
	SheetForecast    = "Forecast"
	SheetProfits     = "Profits"
	SheetCorrelation = "Port Correlation"
)

// WriteWorkbook saves one sheet per output table plus a summary and the
// correlation matrix of port attributes.
func WriteWorkbook(res *pipeline.Result, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}
	writers := []struct {
		sheet string
		rows  [][]any
	}{
		{SheetSummary, summaryRows(res)},
		{SheetTrades, tradeRows(res.Enriched)},
		{SheetPorts, portRows(res.Ports)},
		{SheetVessels, vesselRows(res.Vessels)},
		{SheetForecast, forecastRows(res)},
		{SheetProfits, profitRows(res.Profits)},
		{SheetCorrelation, correlationRows(res.Ports)},
	}
	for _, w := range writers {
		if w.sheet != SheetSummary {
			if _, err := f.NewSheet(w.sheet); err != nil {
				return err
			}
		}
		if err := writeRows(f, w.sheet, w.rows); err != nil {
			return fmt.Errorf("sheet %s: %w", w.sheet, err)
		}
	}
	return f.SaveAs(path)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func summaryRows(res *pipeline.Result) [][]any {
	rows := [][]any{
		{"Metric", "Value"},
		{"Run started (UTC)", res.StartedAt.Format("2006-01-02 15:04:05")},
		{"Forecaster", res.Forecaster},
		{"Trade rows", res.Summary.Rows},
		{"Rows missing port", res.Summary.RowsMissingPort},
		{"Rows missing fuel cost", res.Summary.RowsMissingFuel},
		{"Total volume (Metric Tons)", res.Summary.TotalVolume},
		{"Total operational cost (USD)", res.Summary.OperationalCost},
		{"Horizon", fmt.Sprintf("%d-%d", res.Horizon.Start, res.Horizon.End)},
		{"Fixed cost per ton (USD)", res.FixedCostPerTon},
	}
	if best, ok := res.BestScenario(); ok {
		rows = append(rows,
			[]any{"Best rate (USD per Ton)", best.Rate},
			[]any{"Best total profit (Million USD)", best.TotalProfitMillionsUSD},
		)
	}
	return rows
}

func tradeRows(enriched []model.EnrichedTradeRecord) [][]any {
	rows := [][]any{{
		"Port", "Good Category", "Trade Volume (Metric Tons)", "Trade Year",
		"Country", "Risk Score", "Fuel Cost (USD per Metric Ton)", "Operational Cost",
	}}
	for _, e := range enriched {
		row := []any{e.TradeRecord.Port, e.GoodCategory, e.Volume, e.Year, nil, nil, nil, nil}
		if e.Port != nil {
			row[4] = e.Port.Country
			if r, ok := e.Port.RiskScore(); ok {
				row[5] = r
			}
		}
		if e.FuelCostPerTon != nil {
			row[6] = *e.FuelCostPerTon
		}
		if e.OperationalCost != nil {
			row[7] = *e.OperationalCost
		}
		rows = append(rows, row)
	}
	return rows
}

func portRows(ports []model.PortInfo) [][]any {
	rows := [][]any{{
		"Port", "Country", "Annual Capacity (Metric Tons)",
		"Infrastructure Quality (1-10)", "Proximity to Trade Hubs (1-10)",
		"Political Stability (1-10)", "Customs Efficiency (1-10)", "Risk Score",
	}}
	for _, p := range ports {
		var risk any
		if r, ok := p.RiskScore(); ok {
			risk = r
		}
		rows = append(rows, []any{
			p.Port, p.Country, p.AnnualCapacity, p.InfrastructureQuality,
			p.ProximityToHubs, p.PoliticalStability, p.CustomsEfficiency, risk,
		})
	}
	return rows
}

func vesselRows(vessels []model.VesselCost) [][]any {
	rows := [][]any{{"Vessel Type", "Capacity (Metric Tons)", "Operational Cost per Trip (USD)", "Suitable for Goods", "Cost per Ton (USD)"}}
	for _, v := range vessels {
		rows = append(rows, []any{v.Name, v.Capacity, v.OperationalCostPerTrip, strings.Join(v.SuitableGoods, ", "), v.CostPerTon})
	}
	return rows
}

// forecastRows lists history and forecast side by side, one row per year.
func forecastRows(res *pipeline.Result) [][]any {
	rows := [][]any{{"Year", "Historical Volume (Metric Tons)", "Predicted Volume (Metric Tons)"}}
	for _, t := range res.Trend {
		rows = append(rows, []any{t.Year, t.TotalVolume, nil})
	}
	for _, p := range res.Forecast {
		rows = append(rows, []any{p.Year, nil, p.PredictedVolume})
	}
	return rows
}

func profitRows(profits []model.ProfitScenario) [][]any {
	rows := [][]any{{"Rate (USD per Ton)", "Total Profit (Million USD)"}}
	for _, p := range profits {
		rows = append(rows, []any{p.Rate, p.TotalProfitMillionsUSD})
	}
	return rows
}

var correlationColumns = []string{
	"Annual Capacity",
	"Infrastructure Quality",
	"Proximity to Trade Hubs",
	"Political Stability",
	"Customs Efficiency",
}

// correlationRows is the Pearson correlation matrix of the numeric port
// attributes. Cells are empty when a column has no variance.
func correlationRows(ports []model.PortInfo) [][]any {
	cols := make([][]float64, len(correlationColumns))
	for _, p := range ports {
		vals := []float64{p.AnnualCapacity, p.InfrastructureQuality, p.ProximityToHubs, p.PoliticalStability, p.CustomsEfficiency}
		for i, v := range vals {
			cols[i] = append(cols[i], v)
		}
	}

	header := append([]any{""}, toAny(correlationColumns)...)
	rows := [][]any{header}
	for i, name := range correlationColumns {
		row := []any{name}
		for j := range correlationColumns {
			row = append(row, correlation(cols[i], cols[j]))
		}
		rows = append(rows, row)
	}
	return rows
}

func correlation(x, y []float64) any {
	if len(x) < 2 {
		return nil
	}
	c := stat.Correlation(x, y, nil)
	if math.IsNaN(c) {
		return nil
	}
	return c
}

func toAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
