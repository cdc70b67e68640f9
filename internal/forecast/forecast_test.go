package forecast

import (
	"context"
	"errors"
	"math"
	"testing"

	"maritime-forecast/internal/model"
)

func linearTrend(from, to int, base, slope float64) model.YearlyTrend {
	var t model.YearlyTrend
	for y := from; y <= to; y++ {
		t = append(t, model.TrendPoint{Year: y, TotalVolume: base + slope*float64(y-from)})
	}
	return t
}

func defaultModel(t *testing.T) *TrendModel {
	t.Helper()
	m, err := NewTrendModel(DefaultTrendParams())
	if err != nil {
		t.Fatalf("NewTrendModel: %v", err)
	}
	return m
}

func TestAggregateYearly(t *testing.T) {
	trades := []model.TradeRecord{
		{Port: "A", GoodCategory: "X", Volume: 100, Year: 2021},
		{Port: "B", GoodCategory: "Y", Volume: 50, Year: 2020},
		{Port: "A", GoodCategory: "Y", Volume: 25, Year: 2021},
	}
	got := AggregateYearly(trades)
	want := model.YearlyTrend{{Year: 2020, TotalVolume: 50}, {Year: 2021, TotalVolume: 125}}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestAggregateYearly_PreservesTotal(t *testing.T) {
	trades := []model.TradeRecord{
		{Port: "A", Volume: 1234.5, Year: 2003},
		{Port: "A", Volume: 10, Year: 2010},
		{Port: "B", Volume: 999, Year: 2003},
	}
	sum := 0.0
	for _, p := range AggregateYearly(trades) {
		sum += p.TotalVolume
	}
	if sum != 1234.5+10+999 {
		t.Errorf("sum = %v", sum)
	}
}

func TestAggregateEnriched(t *testing.T) {
	rows := []model.EnrichedTradeRecord{
		{TradeRecord: model.TradeRecord{Port: "A", Volume: 10, Year: 2020}},
		{TradeRecord: model.TradeRecord{Port: "Z", Volume: 5, Year: 2020}},
	}
	got := AggregateEnriched(rows)
	if len(got) != 1 || got[0].TotalVolume != 15 {
		t.Errorf("got %+v, want one point with 15", got)
	}
}

func TestHorizonYears(t *testing.T) {
	got := DefaultHorizon.Years()
	want := []int{2025, 2026, 2027, 2028, 2029, 2030}
	if len(got) != len(want) {
		t.Fatalf("years = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("years = %v, want %v", got, want)
		}
	}
	if (Horizon{Start: 2030, End: 2025}).Validate() == nil {
		t.Error("inverted horizon should be invalid")
	}
}

func TestHorizon_SpanCap(t *testing.T) {
	tests := []struct {
		name  string
		h     Horizon
		valid bool
	}{
		{"at cap", Horizon{Start: 2025, End: 2025 + MaxHorizonYears - 1}, true},
		{"one past cap", Horizon{Start: 2025, End: 2025 + MaxHorizonYears}, false},
		{"huge end", Horizon{Start: 2025, End: 2_000_000_000}, false},
		{"full int range", Horizon{Start: math.MinInt, End: math.MaxInt}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.h.Validate()
			if (err == nil) != tt.valid {
				t.Fatalf("Validate() = %v, valid %v", err, tt.valid)
			}
			if !tt.valid && tt.h.Years() != nil {
				t.Error("Years() of an invalid horizon should be nil")
			}
		})
	}
}

func TestForecast_LinearHistoryExtrapolates(t *testing.T) {
	trend := linearTrend(2003, 2023, 50000, 1000)
	points, err := Forecast(context.Background(), defaultModel(t), trend, DefaultHorizon)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if len(points) != 6 {
		t.Fatalf("len = %d, want 6", len(points))
	}
	for i, p := range points {
		if p.Year != 2025+i {
			t.Errorf("point %d year = %d", i, p.Year)
		}
		want := 50000 + 1000*float64(p.Year-2003)
		if rel := math.Abs(p.PredictedVolume-want) / want; rel > 0.01 {
			t.Errorf("%d: predicted %.1f, want ~%.1f (rel err %.4f)", p.Year, p.PredictedVolume, want, rel)
		}
	}
}

func TestForecast_TwoYearsIsEnough(t *testing.T) {
	trend := model.YearlyTrend{{Year: 2022, TotalVolume: 100}, {Year: 2023, TotalVolume: 110}}
	points, err := Forecast(context.Background(), defaultModel(t), trend, Horizon{Start: 2024, End: 2024})
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if got := points[0].PredictedVolume; math.Abs(got-120) > 0.5 {
		t.Errorf("2024 = %v, want ~120", got)
	}
}

func TestForecast_PlausibleOnNoisyHistory(t *testing.T) {
	vols := []float64{
		160e3, 152e3, 171e3, 149e3, 158e3, 163e3, 155e3, 112e3, 109e3, 115e3, 166e3,
		150e3, 168e3, 157e3, 161e3, 159e3, 164e3, 80e3, 77e3, 128e3, 162e3,
	}
	var trend model.YearlyTrend
	maxVol := 0.0
	for i, v := range vols {
		trend = append(trend, model.TrendPoint{Year: 2003 + i, TotalVolume: v})
		maxVol = math.Max(maxVol, v)
	}
	points, err := Forecast(context.Background(), defaultModel(t), trend, DefaultHorizon)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	for _, p := range points {
		if math.IsNaN(p.PredictedVolume) || p.PredictedVolume <= 0 || p.PredictedVolume > 2*maxVol {
			t.Errorf("%d: implausible prediction %v", p.Year, p.PredictedVolume)
		}
	}
}

func TestForecast_Deterministic(t *testing.T) {
	trend := linearTrend(2003, 2023, 1000, -7)
	trend[10].TotalVolume += 300
	m := defaultModel(t)
	a, err := Forecast(context.Background(), m, trend, DefaultHorizon)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Forecast(context.Background(), m, trend, DefaultHorizon)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("run differs at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestForecast_InsufficientHistory(t *testing.T) {
	cases := map[string]model.YearlyTrend{
		"empty":    nil,
		"one year": {{Year: 2020, TotalVolume: 10}},
	}
	for name, trend := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Forecast(context.Background(), defaultModel(t), trend, DefaultHorizon)
			if !errors.Is(err, model.ErrInsufficientHistory) {
				t.Errorf("err = %v, want ErrInsufficientHistory", err)
			}
		})
	}
}

func TestForecast_UnorderedTrendRejected(t *testing.T) {
	trend := model.YearlyTrend{{Year: 2021, TotalVolume: 1}, {Year: 2020, TotalVolume: 2}}
	_, err := Forecast(context.Background(), defaultModel(t), trend, DefaultHorizon)
	if !errors.Is(err, model.ErrInvalidRecord) {
		t.Errorf("err = %v, want ErrInvalidRecord", err)
	}
}

func TestTrendModel_IntervalBracketsEstimate(t *testing.T) {
	trend := linearTrend(2003, 2023, 500, 20)
	trend[5].TotalVolume += 90
	trend[15].TotalVolume -= 60
	preds, err := defaultModel(t).Predict(context.Background(), trend, []int{2025, 2030})
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range preds {
		if !(p.Lower < p.Yhat && p.Yhat < p.Upper) {
			t.Errorf("%d: interval [%v, %v] does not bracket %v", p.Year, p.Lower, p.Upper, p.Yhat)
		}
	}
	if w0, w1 := preds[0].Upper-preds[0].Lower, preds[1].Upper-preds[1].Lower; w1 <= w0 {
		t.Errorf("interval should widen with distance: %v then %v", w0, w1)
	}
}

func TestTrendModel_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := defaultModel(t).Predict(ctx, linearTrend(2000, 2010, 1, 1), []int{2011})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestNewTrendModel_InvalidParams(t *testing.T) {
	p := DefaultTrendParams()
	p.IntervalWidth = 1.5
	if _, err := NewTrendModel(p); err == nil {
		t.Error("expected error for interval width 1.5")
	}
}

type stubForecaster struct {
	preds []Prediction
	err   error
}

func (s stubForecaster) Name() string { return "stub" }

func (s stubForecaster) Predict(context.Context, model.YearlyTrend, []int) ([]Prediction, error) {
	return s.preds, s.err
}

func TestForecast_DiscardsBounds(t *testing.T) {
	f := stubForecaster{preds: []Prediction{{Year: 2025, Yhat: 42, Lower: 1, Upper: 99}}}
	got, err := Forecast(context.Background(), f, linearTrend(2020, 2021, 1, 1), Horizon{Start: 2025, End: 2025})
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != (model.ForecastPoint{Year: 2025, PredictedVolume: 42}) {
		t.Errorf("got %+v", got[0])
	}
}

func TestForecast_RejectsShortOutput(t *testing.T) {
	f := stubForecaster{preds: []Prediction{{Year: 2025, Yhat: 1}}}
	if _, err := Forecast(context.Background(), f, linearTrend(2020, 2021, 1, 1), DefaultHorizon); err == nil {
		t.Error("expected error for wrong prediction count")
	}
}
