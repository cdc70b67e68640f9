package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"maritime-forecast/internal/data"
	"maritime-forecast/internal/model"
)

// Output file names.
const (
	TradeWithPortsFile   = "trade_with_ports.csv"
	PortsProcessedFile   = "port_info_processed.csv"
	VesselsProcessedFile = "vessel_types_processed.csv"
	PredictionsFile      = "future_trade_and_profit_predictions.csv"
	ProfitsFile          = "profit_analysis_at_varying_rates.csv"
)

var riskHeader = []string{
	"Infrastructure Quality (1-10) Norm",
	"Proximity to Trade Hubs (1-10) Norm",
	"Political Stability (1-10) Norm",
	"Customs Efficiency (1-10) Norm",
	"Risk Score",
}

// WriteOutputs writes the processed tables under <root>/processed and the
// prediction tables under <root>/prediction. It returns the written paths.
func WriteOutputs(root string, res *Result) ([]string, error) {
	if res == nil {
		return nil, fmt.Errorf("result is nil")
	}
	processed := filepath.Join(root, data.ProcessedDir)
	prediction := filepath.Join(root, data.PredictionDir)

	files := []struct {
		path  string
		write func(io.Writer) error
	}{
		{filepath.Join(processed, TradeWithPortsFile), func(w io.Writer) error { return WriteTradeWithPorts(w, res.Enriched) }},
		{filepath.Join(processed, PortsProcessedFile), func(w io.Writer) error { return WritePortsProcessed(w, res.Ports) }},
		{filepath.Join(processed, VesselsProcessedFile), func(w io.Writer) error { return WriteVesselsProcessed(w, res.Vessels) }},
		{filepath.Join(prediction, PredictionsFile), func(w io.Writer) error { return WritePredictions(w, res.Rates, res.Projections) }},
		{filepath.Join(prediction, ProfitsFile), func(w io.Writer) error { return WriteProfits(w, res.Profits) }},
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		if err := data.WriteFile(f.path, f.write); err != nil {
			return paths, err
		}
		paths = append(paths, f.path)
	}
	return paths, nil
}

// WriteTradeWithPorts writes the merged table. Unmatched join fields are
// written as empty cells.
func WriteTradeWithPorts(w io.Writer, rows []model.EnrichedTradeRecord) error {
	header := append([]string{}, data.TradeHeader...)
	header = append(header, data.PortHeader[1:]...)
	header = append(header, riskHeader...)
	header = append(header, data.FuelHeader...)
	header = append(header, "Operational Cost")

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		row := []string{r.TradeRecord.Port, r.GoodCategory, fmtFloat(r.Volume), strconv.Itoa(r.Year)}
		if r.Port != nil {
			row = append(row, portCells(*r.Port)[1:]...)
			row = append(row, riskCells(r.Port.Risk)...)
		} else {
			row = append(row, blanks(len(data.PortHeader)-1+len(riskHeader))...)
		}
		if r.FuelCostPerTon != nil {
			row = append(row, strconv.Itoa(r.Year), fmtFloat(*r.FuelCostPerTon))
		} else {
			row = append(row, "", "")
		}
		row = append(row, fmtOptional(r.OperationalCost))
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WritePortsProcessed(w io.Writer, ports []model.PortInfo) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string{}, data.PortHeader...), riskHeader...)); err != nil {
		return err
	}
	for _, p := range ports {
		if err := cw.Write(append(portCells(p), riskCells(p.Risk)...)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteVesselsProcessed(w io.Writer, vessels []model.VesselCost) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string{}, data.VesselHeader...), "Cost per Ton (USD)")); err != nil {
		return err
	}
	for _, v := range vessels {
		row := []string{
			v.Name,
			fmtFloat(v.Capacity),
			fmtFloat(v.OperationalCostPerTrip),
			data.JoinGoods(v.SuitableGoods),
			fmtFloat(v.CostPerTon),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePredictions writes one row per forecast year with revenue and profit
// (millions of USD) for every rate.
func WritePredictions(w io.Writer, rates []float64, rows []model.YearProjection) error {
	header := []string{"Year", "Predicted Trade Volume (Metric Tons)"}
	for _, r := range rates {
		header = append(header, fmt.Sprintf("Revenue at $%s/ton", fmtFloat(r)), fmt.Sprintf("Profit at $%s/ton", fmtFloat(r)))
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, y := range rows {
		if len(y.ByRate) != len(rates) {
			return fmt.Errorf("year %d: %d rate columns, want %d", y.Year, len(y.ByRate), len(rates))
		}
		row := []string{strconv.Itoa(y.Year), fmtFloat(y.PredictedVolume)}
		for _, rp := range y.ByRate {
			row = append(row, fmtFloat(rp.RevenueMillions), fmtFloat(rp.ProfitMillions))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteProfits(w io.Writer, profits []model.ProfitScenario) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Rate (USD per Ton)", "Total Profit (Million USD)"}); err != nil {
		return err
	}
	for _, p := range profits {
		if err := cw.Write([]string{fmtFloat(p.Rate), fmtFloat(p.TotalProfitMillionsUSD)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func portCells(p model.PortInfo) []string {
	return []string{
		p.Port,
		p.Country,
		fmtFloat(p.AnnualCapacity),
		fmtFloat(p.InfrastructureQuality),
		fmtFloat(p.ProximityToHubs),
		fmtFloat(p.PoliticalStability),
		fmtFloat(p.CustomsEfficiency),
	}
}

func riskCells(r *model.RiskScores) []string {
	if r == nil {
		return blanks(len(riskHeader))
	}
	return []string{
		fmtFloat(r.InfrastructureNorm),
		fmtFloat(r.ProximityNorm),
		fmtFloat(r.StabilityNorm),
		fmtFloat(r.CustomsNorm),
		fmtFloat(r.RiskScore),
	}
}

func blanks(n int) []string { return make([]string, n) }

func fmtFloat(x float64) string { return data.FormatFloat(x) }

func fmtOptional(x *float64) string {
	if x == nil {
		return ""
	}
	return fmtFloat(*x)
}
