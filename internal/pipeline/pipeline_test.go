package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"maritime-forecast/internal/data"
	"maritime-forecast/internal/forecast"
	"maritime-forecast/internal/model"
	"maritime-forecast/internal/telemetry"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	m, err := forecast.NewTrendModel(forecast.DefaultTrendParams())
	if err != nil {
		t.Fatal(err)
	}
	return New(m, telemetry.Discard())
}

func generated(t *testing.T) model.ReferenceData {
	t.Helper()
	ref, err := data.Generate(2024, data.DefaultGenerationConfig())
	if err != nil {
		t.Fatal(err)
	}
	return ref
}

func TestRun_GeneratedData(t *testing.T) {
	ref := generated(t)
	res, err := newEngine(t).Run(context.Background(), ref, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Enriched) != len(ref.Trades) {
		t.Errorf("enriched rows = %d, want %d", len(res.Enriched), len(ref.Trades))
	}
	if !res.Summary.Complete() {
		t.Errorf("generated data should join completely: %+v", res.Summary)
	}
	if len(res.Trend) != 21 {
		t.Errorf("trend years = %d, want 21", len(res.Trend))
	}
	if len(res.Forecast) != 6 || res.Forecast[0].Year != 2025 || res.Forecast[5].Year != 2030 {
		t.Errorf("forecast = %+v", res.Forecast)
	}
	if len(res.Profits) != 5 || len(res.Projections) != 6 {
		t.Errorf("profits = %d, projections = %d", len(res.Profits), len(res.Projections))
	}
	for i, p := range res.Ports {
		if p.Risk == nil {
			t.Errorf("port %d not scored", i)
		}
		if ref.Ports[i].Risk != nil {
			t.Errorf("input port %d was mutated", i)
		}
	}
	if res.Vessels[0].CostPerTon != 2.5 {
		t.Errorf("container ship cost per ton = %v, want 2.5", res.Vessels[0].CostPerTon)
	}
}

func TestRun_ProfitsMatchYearlyProjections(t *testing.T) {
	res, err := newEngine(t).Run(context.Background(), generated(t), Options{})
	if err != nil {
		t.Fatal(err)
	}
	for i, scenario := range res.Profits {
		sum := 0.0
		for _, y := range res.Projections {
			sum += y.ByRate[i].ProfitMillions
		}
		if math.Abs(sum-scenario.TotalProfitMillionsUSD) > 1e-6 {
			t.Errorf("rate %v: yearly sum %v != total %v", scenario.Rate, sum, scenario.TotalProfitMillionsUSD)
		}
	}
	best, ok := res.BestScenario()
	if !ok || best.Rate != 60 {
		t.Errorf("best = %+v, %v; want rate 60", best, ok)
	}
}

func TestRun_CustomOptions(t *testing.T) {
	opts := Options{
		Horizon:         forecast.Horizon{Start: 2024, End: 2025},
		Rates:           []float64{35},
		FixedCostPerTon: 35,
	}
	res, err := newEngine(t).Run(context.Background(), generated(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Forecast) != 2 || len(res.Profits) != 1 {
		t.Fatalf("forecast = %d, profits = %d", len(res.Forecast), len(res.Profits))
	}
	if res.Profits[0].TotalProfitMillionsUSD != 0 {
		t.Errorf("break-even rate profit = %v, want 0", res.Profits[0].TotalProfitMillionsUSD)
	}
}

func TestRun_UnmatchedKeysAreNotErrors(t *testing.T) {
	ref := generated(t)
	ref.Trades = append(ref.Trades, model.TradeRecord{Port: "Tobruk", GoodCategory: "Others", Volume: 1000, Year: 2023})
	ref.FuelCosts = ref.FuelCosts[1:] // drop 2003

	res, err := newEngine(t).Run(context.Background(), ref, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := res.Summary.UnmatchedPorts; len(got) != 1 || got[0] != "Tobruk" {
		t.Errorf("unmatched ports = %v", got)
	}
	if got := res.Summary.UnmatchedYears; len(got) != 1 || got[0] != 2003 {
		t.Errorf("unmatched years = %v", got)
	}
}

func TestRun_DataErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.ReferenceData)
		want   error
		stage  string
	}{
		{
			name:   "duplicate port",
			mutate: func(r *model.ReferenceData) { r.Ports = append(r.Ports, r.Ports[0]) },
			want:   model.ErrDuplicateKey,
			stage:  StageMerge,
		},
		{
			name:   "zero capacity vessel",
			mutate: func(r *model.ReferenceData) { r.Vessels[0].Capacity = 0 },
			want:   model.ErrDivisionByZero,
			stage:  StageVessels,
		},
		{
			name: "single year",
			mutate: func(r *model.ReferenceData) {
				var kept []model.TradeRecord
				for _, tr := range r.Trades {
					if tr.Year == 2015 {
						kept = append(kept, tr)
					}
				}
				r.Trades = kept
			},
			want:  model.ErrInsufficientHistory,
			stage: StageForecast,
		},
		{
			name:   "negative volume",
			mutate: func(r *model.ReferenceData) { r.Trades[3].Volume = -1 },
			want:   model.ErrInvalidRecord,
			stage:  StageValidate,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ref := generated(t)
			tc.mutate(&ref)
			_, err := newEngine(t).Run(context.Background(), ref, Options{})
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if !strings.HasPrefix(err.Error(), tc.stage+":") {
				t.Errorf("err = %q, want stage prefix %q", err, tc.stage)
			}
			if !IsDataError(err) {
				t.Error("IsDataError = false")
			}
		})
	}
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newEngine(t).Run(ctx, generated(t), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if IsDataError(err) {
		t.Error("cancellation is not a data error")
	}
}

func TestWriteOutputs(t *testing.T) {
	res, err := newEngine(t).Run(context.Background(), generated(t), Options{})
	if err != nil {
		t.Fatal(err)
	}
	root := t.TempDir()
	paths, err := WriteOutputs(root, res)
	if err != nil {
		t.Fatalf("WriteOutputs: %v", err)
	}
	if len(paths) != 5 {
		t.Fatalf("paths = %v", paths)
	}

	rows := readCSV(t, filepath.Join(root, data.PredictionDir, PredictionsFile))
	wantHeader := []string{"Year", "Predicted Trade Volume (Metric Tons)", "Revenue at $40/ton", "Profit at $40/ton"}
	for i, h := range wantHeader {
		if rows[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], h)
		}
	}
	if len(rows) != 7 || len(rows[0]) != 2+2*5 {
		t.Errorf("predictions shape = %dx%d", len(rows), len(rows[0]))
	}

	trades := readCSV(t, filepath.Join(root, data.ProcessedDir, TradeWithPortsFile))
	if len(trades) != len(res.Enriched)+1 {
		t.Errorf("trade rows = %d", len(trades))
	}
}

func TestWriteTradeWithPorts_UnmatchedCellsAreEmpty(t *testing.T) {
	rows := []model.EnrichedTradeRecord{{TradeRecord: model.TradeRecord{Port: "Tobruk", GoodCategory: "Others", Volume: 10, Year: 2020}}}
	var buf bytes.Buffer
	if err := WriteTradeWithPorts(&buf, rows); err != nil {
		t.Fatal(err)
	}
	recs, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	row := recs[1]
	if row[0] != "Tobruk" || row[2] != "10" || row[3] != "2020" {
		t.Errorf("trade cells = %q", row[:4])
	}
	for i, cell := range row[4:] {
		if cell != "" {
			t.Errorf("column %q = %q, want empty", recs[0][4+i], cell)
		}
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return recs
}
