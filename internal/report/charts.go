package report

import (
	"cmp"
	"fmt"
	"math"
	"path/filepath"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"maritime-forecast/internal/model"
	"maritime-forecast/internal/pipeline"
)

// Chart file names.
const (
	VolumeByYearChart   = "trade_volume_by_year_and_goods.png"
	PortCapacityChart   = "annual_port_capacities.png"
	VesselCostChart     = "vessel_cost_efficiency.png"
	VolumeByPortChart   = "trade_volume_distribution_by_port.png"
	TopPortsChart       = "yearly_trade_volume_top_ports.png"
	ForecastChart       = "trade_volume_predictions.png"
	ProfitByRateChart   = "profits_at_varying_rates.png"
	topPortsInTrendPlot = 3
)

// RenderCharts draws every chart into dir.
func RenderCharts(res *pipeline.Result, dir string, cfg RenderConfig) ([]string, error) {
	charts := []struct {
		file string
		draw func(*pipeline.Result, RenderConfig) (*plot.Plot, error)
	}{
		{VolumeByYearChart, volumeByYearAndGoods},
		{PortCapacityChart, portCapacities},
		{VesselCostChart, vesselCostEfficiency},
		{VolumeByPortChart, volumeDistributionByPort},
		{TopPortsChart, topPortsTrend},
		{ForecastChart, forecastChart},
		{ProfitByRateChart, profitsByRate},
	}

	paths := make([]string, 0, len(charts))
	for _, c := range charts {
		p, err := c.draw(res, cfg)
		if err != nil {
			return paths, fmt.Errorf("%s: %w", c.file, err)
		}
		path := filepath.Join(dir, c.file)
		if err := p.Save(cfg.Width, cfg.Height, path); err != nil {
			return paths, fmt.Errorf("save %s: %w", c.file, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func newPlot(cfg RenderConfig, title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = cfg.TitleFontSize
	p.X.Label.Text = x
	p.Y.Label.Text = y
	return p
}

// volumeByYearAndGoods draws one bar group per year, one bar per good category.
func volumeByYearAndGoods(res *pipeline.Result, cfg RenderConfig) (*plot.Plot, error) {
	p := newPlot(cfg, "Total Trade Volume by Year and Goods Category", "Year", "Trade Volume (Metric Tons)")

	years := make([]int, len(res.Trend))
	yearIdx := map[int]int{}
	for i, t := range res.Trend {
		years[i] = t.Year
		yearIdx[t.Year] = i
	}
	var goods []string
	totals := map[string]plotter.Values{}
	for _, e := range res.Enriched {
		v, ok := totals[e.GoodCategory]
		if !ok {
			goods = append(goods, e.GoodCategory)
			v = make(plotter.Values, len(years))
			totals[e.GoodCategory] = v
		}
		v[yearIdx[e.Year]] += e.Volume
	}

	width := vg.Points(3)
	for i, g := range goods {
		bars, err := plotter.NewBarChart(totals[g], width)
		if err != nil {
			return nil, err
		}
		bars.Color = cfg.color(i)
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = width * vg.Length(float64(i)-float64(len(goods)-1)/2)
		p.Add(bars)
		p.Legend.Add(g, bars)
	}
	p.Legend.Top = true
	p.NominalX(yearLabels(years)...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	return p, nil
}

// portCapacities draws ports by descending capacity, coloured by country.
func portCapacities(res *pipeline.Result, cfg RenderConfig) (*plot.Plot, error) {
	p := newPlot(cfg, "Annual Port Capacities by Country", "Port", "Capacity (Metric Tons)")

	ports := slices.Clone(res.Ports)
	slices.SortStableFunc(ports, func(a, b model.PortInfo) int { return cmp.Compare(b.AnnualCapacity, a.AnnualCapacity) })

	var countries []string
	for _, port := range ports {
		if !slices.Contains(countries, port.Country) {
			countries = append(countries, port.Country)
		}
	}
	names := make([]string, len(ports))
	for i, port := range ports {
		names[i] = port.Port
	}
	for ci, country := range countries {
		values := make(plotter.Values, len(ports))
		for i, port := range ports {
			if port.Country == country {
				values[i] = port.AnnualCapacity
			}
		}
		bars, err := plotter.NewBarChart(values, vg.Points(20))
		if err != nil {
			return nil, err
		}
		bars.Color = cfg.color(ci + 1)
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
		p.Legend.Add(country, bars)
	}
	p.NominalX(names...)
	return p, nil
}

func vesselCostEfficiency(res *pipeline.Result, cfg RenderConfig) (*plot.Plot, error) {
	p := newPlot(cfg, "Cost Efficiency of Vessel Types (USD per Ton)", "Cost per Ton (USD)", "Vessel Type")

	vessels := slices.Clone(res.Vessels)
	slices.SortStableFunc(vessels, func(a, b model.VesselCost) int { return cmp.Compare(a.CostPerTon, b.CostPerTon) })
	values := make(plotter.Values, len(vessels))
	names := make([]string, len(vessels))
	for i, v := range vessels {
		values[i] = v.CostPerTon
		names[i] = v.Name
	}

	bars, err := plotter.NewBarChart(values, vg.Points(16))
	if err != nil {
		return nil, err
	}
	bars.Horizontal = true
	bars.Color = cfg.color(5)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalY(names...)
	return p, nil
}

func volumeDistributionByPort(res *pipeline.Result, cfg RenderConfig) (*plot.Plot, error) {
	p := newPlot(cfg, "Trade Volume Distribution by Port", "Port", "Trade Volume (Metric Tons)")

	var ports []string
	volumes := map[string]plotter.Values{}
	for _, e := range res.Enriched {
		name := e.TradeRecord.Port
		if _, ok := volumes[name]; !ok {
			ports = append(ports, name)
		}
		volumes[name] = append(volumes[name], e.Volume)
	}
	for i, name := range ports {
		box, err := plotter.NewBoxPlot(vg.Points(20), float64(i), volumes[name])
		if err != nil {
			return nil, err
		}
		box.FillColor = cfg.color(i)
		p.Add(box)
	}
	p.NominalX(ports...)
	return p, nil
}

// topPortsTrend draws the yearly volume of the ports with the largest total volume.
func topPortsTrend(res *pipeline.Result, cfg RenderConfig) (*plot.Plot, error) {
	p := newPlot(cfg, "Yearly Trade Volume for Top Ports", "Year", "Trade Volume (Metric Tons)")

	byPort := map[string]map[int]float64{}
	totals := map[string]float64{}
	for _, e := range res.Enriched {
		name := e.TradeRecord.Port
		if byPort[name] == nil {
			byPort[name] = map[int]float64{}
		}
		byPort[name][e.Year] += e.Volume
		totals[name] += e.Volume
	}
	ports := make([]string, 0, len(totals))
	for name := range totals {
		ports = append(ports, name)
	}
	slices.SortFunc(ports, func(a, b string) int {
		if c := cmp.Compare(totals[b], totals[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	if len(ports) > topPortsInTrendPlot {
		ports = ports[:topPortsInTrendPlot]
	}

	for i, name := range ports {
		xys := make(plotter.XYs, 0, len(res.Trend))
		for _, t := range res.Trend {
			xys = append(xys, plotter.XY{X: float64(t.Year), Y: byPort[name][t.Year]})
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, err
		}
		line.Color = cfg.color(i)
		points.Color = cfg.color(i)
		p.Add(line, points)
		p.Legend.Add(name, line, points)
	}
	return p, nil
}

func forecastChart(res *pipeline.Result, cfg RenderConfig) (*plot.Plot, error) {
	title := fmt.Sprintf("Trade Volume Predictions (%d-%d)", res.Horizon.Start, res.Horizon.End)
	p := newPlot(cfg, title, "Year", "Trade Volume (Metric Tons)")

	hist := make(plotter.XYs, len(res.Trend))
	for i, t := range res.Trend {
		hist[i] = plotter.XY{X: float64(t.Year), Y: t.TotalVolume}
	}
	line, points, err := plotter.NewLinePoints(hist)
	if err != nil {
		return nil, err
	}
	line.Color = cfg.color(1)
	points.Color = cfg.color(1)
	p.Add(line, points)
	p.Legend.Add("Historical", line, points)

	if len(res.Forecast) > 0 {
		fc := make(plotter.XYs, len(res.Forecast))
		for i, f := range res.Forecast {
			fc[i] = plotter.XY{X: float64(f.Year), Y: f.PredictedVolume}
		}
		fline, err := plotter.NewLine(fc)
		if err != nil {
			return nil, err
		}
		fline.Color = cfg.color(2)
		fline.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
		p.Add(fline)
		p.Legend.Add("Forecast", fline)
	}
	p.Add(plotter.NewGrid())
	return p, nil
}

func profitsByRate(res *pipeline.Result, cfg RenderConfig) (*plot.Plot, error) {
	title := fmt.Sprintf("Total Predicted Profits at Varying Shipping Rates (%d-%d)", res.Horizon.Start, res.Horizon.End)
	p := newPlot(cfg, title, "Shipping Rate (USD per Ton)", "Total Profit (Million USD)")

	values := make(plotter.Values, len(res.Profits))
	labels := make([]string, len(res.Profits))
	for i, s := range res.Profits {
		values[i] = s.TotalProfitMillionsUSD
		labels[i] = fmt.Sprintf("%g", s.Rate)
	}
	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return nil, err
	}
	bars.Color = cfg.color(1)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)
	return p, nil
}

func yearLabels(years []int) []string {
	out := make([]string, len(years))
	for i, y := range years {
		out[i] = fmt.Sprint(y)
	}
	return out
}
