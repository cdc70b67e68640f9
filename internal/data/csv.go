package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"maritime-forecast/internal/model"
)

// Column headers of the raw tables. Files must carry exactly these headers in
// this order.
var (
	TradeHeader = []string{"Port", "Good Category", "Trade Volume (Metric Tons)", "Trade Year"}
	FuelHeader  = []string{"Year", "Fuel Cost (USD per Metric Ton)"}
	PortHeader  = []string{
		"Port",
		"Country",
		"Annual Capacity (Metric Tons)",
		"Infrastructure Quality (1-10)",
		"Proximity to Trade Hubs (1-10)",
		"Political Stability (1-10)",
		"Customs Efficiency (1-10)",
	}
	VesselHeader = []string{"Vessel Type", "Capacity (Metric Tons)", "Operational Cost per Trip (USD)", "Suitable for Goods"}
)

// goodsSep separates entries of the "Suitable for Goods" column.
const goodsSep = ", "

func ReadTrades(r io.Reader) ([]model.TradeRecord, error) {
	var out []model.TradeRecord
	err := readTable(r, "trade_volume", TradeHeader, func(rec []string, p *rowParser) error {
		t := model.TradeRecord{
			Port:         rec[0],
			GoodCategory: rec[1],
			Volume:       p.float(rec[2], "volume"),
			Year:         p.int(rec[3], "year"),
		}
		if p.err != nil {
			return p.err
		}
		if err := t.Validate(); err != nil {
			return err
		}
		out = append(out, t)
		return nil
	})
	return out, err
}

func ReadFuelCosts(r io.Reader) ([]model.FuelCostRecord, error) {
	var out []model.FuelCostRecord
	err := readTable(r, "fuel_cost", FuelHeader, func(rec []string, p *rowParser) error {
		f := model.FuelCostRecord{
			Year:       p.int(rec[0], "year"),
			CostPerTon: p.float(rec[1], "fuel cost"),
		}
		if p.err != nil {
			return p.err
		}
		if err := f.Validate(); err != nil {
			return err
		}
		out = append(out, f)
		return nil
	})
	return out, err
}

func ReadPorts(r io.Reader) ([]model.PortInfo, error) {
	var out []model.PortInfo
	err := readTable(r, "port_info", PortHeader, func(rec []string, p *rowParser) error {
		port := model.PortInfo{
			Port:                  rec[0],
			Country:               rec[1],
			AnnualCapacity:        p.float(rec[2], "annual capacity"),
			InfrastructureQuality: p.float(rec[3], "infrastructure quality"),
			ProximityToHubs:       p.float(rec[4], "proximity to hubs"),
			PoliticalStability:    p.float(rec[5], "political stability"),
			CustomsEfficiency:     p.float(rec[6], "customs efficiency"),
		}
		if p.err != nil {
			return p.err
		}
		if err := port.Validate(); err != nil {
			return err
		}
		out = append(out, port)
		return nil
	})
	return out, err
}

func ReadVessels(r io.Reader) ([]model.VesselType, error) {
	var out []model.VesselType
	err := readTable(r, "vessel_types", VesselHeader, func(rec []string, p *rowParser) error {
		v := model.VesselType{
			Name:                   rec[0],
			Capacity:               p.float(rec[1], "capacity"),
			OperationalCostPerTrip: p.float(rec[2], "operational cost per trip"),
			SuitableGoods:          SplitGoods(rec[3]),
		}
		if p.err != nil {
			return p.err
		}
		if err := v.Validate(); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

func WriteTrades(w io.Writer, trades []model.TradeRecord) error {
	return writeTable(w, TradeHeader, len(trades), func(i int) []string {
		t := trades[i]
		return []string{t.Port, t.GoodCategory, FormatFloat(t.Volume), strconv.Itoa(t.Year)}
	})
}

func WriteFuelCosts(w io.Writer, costs []model.FuelCostRecord) error {
	return writeTable(w, FuelHeader, len(costs), func(i int) []string {
		return []string{strconv.Itoa(costs[i].Year), FormatFloat(costs[i].CostPerTon)}
	})
}

func WritePorts(w io.Writer, ports []model.PortInfo) error {
	return writeTable(w, PortHeader, len(ports), func(i int) []string {
		p := ports[i]
		return []string{
			p.Port,
			p.Country,
			FormatFloat(p.AnnualCapacity),
			FormatFloat(p.InfrastructureQuality),
			FormatFloat(p.ProximityToHubs),
			FormatFloat(p.PoliticalStability),
			FormatFloat(p.CustomsEfficiency),
		}
	})
}

func WriteVessels(w io.Writer, vessels []model.VesselType) error {
	return writeTable(w, VesselHeader, len(vessels), func(i int) []string {
		v := vessels[i]
		return []string{v.Name, FormatFloat(v.Capacity), FormatFloat(v.OperationalCostPerTrip), JoinGoods(v.SuitableGoods)}
	})
}

// SplitGoods parses a "Suitable for Goods" cell.
func SplitGoods(s string) []string {
	var out []string
	for _, g := range strings.Split(s, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

func JoinGoods(goods []string) string { return strings.Join(goods, goodsSep) }

// FormatFloat writes the shortest representation that parses back to x.
func FormatFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// rowParser keeps the first conversion error of a row.
type rowParser struct {
	err error
}

func (p *rowParser) float(s, field string) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		p.err = fmt.Errorf("%w: %s %q is not a number", model.ErrInvalidRecord, field, s)
	}
	return v
}

func (p *rowParser) int(s, field string) int {
	if p.err != nil {
		return 0
	}
	s = strings.TrimSpace(s)
	v, err := strconv.Atoi(s)
	if err != nil {
		// Years written by float-typed tools come back as "2003.0".
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			p.err = fmt.Errorf("%w: %s %q is not an integer", model.ErrInvalidRecord, field, s)
			return 0
		}
		v = int(f)
	}
	return v
}

func readTable(r io.Reader, table string, header []string, row func([]string, *rowParser) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)
	cr.TrimLeadingSpace = true

	got, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s: missing header", model.ErrInvalidRecord, table)
	}
	if err != nil {
		return fmt.Errorf("%s: read header: %w", table, err)
	}
	if len(got) > 0 {
		got[0] = strings.TrimPrefix(got[0], "\ufeff")
	}
	for i := range header {
		if strings.TrimSpace(got[i]) != header[i] {
			return fmt.Errorf("%w: %s: column %d is %q, want %q", model.ErrInvalidRecord, table, i+1, got[i], header[i])
		}
	}

	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("%w: %s: %v", model.ErrInvalidRecord, table, err)
		}
		if err := row(rec, &rowParser{}); err != nil {
			return fmt.Errorf("%s line %d: %w", table, line, err)
		}
	}
}

func writeTable(w io.Writer, header []string, n int, row func(int) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(row(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
