package data

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"maritime-forecast/internal/model"
)

// Raw table file names under <root>/raw.
const (
	TradeFile  = "trade_volume.csv"
	FuelFile   = "fuel_cost.csv"
	PortFile   = "port_info.csv"
	VesselFile = "vessel_types.csv"
)

// Output directories under the data root.
const (
	RawDir        = "raw"
	ProcessedDir  = "processed"
	PredictionDir = "prediction"
	ReportDir     = "report"
)

// DirStore keeps the raw reference tables as CSV files in <Root>/raw.
type DirStore struct {
	Root string
}

func NewDirStore(root string) *DirStore {
	return &DirStore{Root: root}
}

func (s *DirStore) RawPath(name string) string {
	return filepath.Join(s.Root, RawDir, name)
}

// LoadReference reads the four raw tables concurrently.
func (s *DirStore) LoadReference(ctx context.Context) (model.ReferenceData, error) {
	var ref model.ReferenceData
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		ref.Trades, err = readFile(ctx, s.RawPath(TradeFile), ReadTrades)
		return err
	})
	g.Go(func() error {
		var err error
		ref.FuelCosts, err = readFile(ctx, s.RawPath(FuelFile), ReadFuelCosts)
		return err
	})
	g.Go(func() error {
		var err error
		ref.Ports, err = readFile(ctx, s.RawPath(PortFile), ReadPorts)
		return err
	})
	g.Go(func() error {
		var err error
		ref.Vessels, err = readFile(ctx, s.RawPath(VesselFile), ReadVessels)
		return err
	})

	if err := g.Wait(); err != nil {
		return model.ReferenceData{}, err
	}
	return ref, nil
}

// SaveReference writes the four raw tables, replacing existing files.
func (s *DirStore) SaveReference(ctx context.Context, ref model.ReferenceData) error {
	if err := os.MkdirAll(filepath.Join(s.Root, RawDir), 0o755); err != nil {
		return err
	}
	writes := []struct {
		name  string
		write func(io.Writer) error
	}{
		{TradeFile, func(w io.Writer) error { return WriteTrades(w, ref.Trades) }},
		{FuelFile, func(w io.Writer) error { return WriteFuelCosts(w, ref.FuelCosts) }},
		{PortFile, func(w io.Writer) error { return WritePorts(w, ref.Ports) }},
		{VesselFile, func(w io.Writer) error { return WriteVessels(w, ref.Vessels) }},
	}
	for _, wr := range writes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := WriteFile(s.RawPath(wr.name), wr.write); err != nil {
			return err
		}
	}
	return nil
}

func (s *DirStore) Close() error { return nil }

// WriteFile creates path (and its directory) and fills it with write.
func WriteFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func readFile[T any](ctx context.Context, path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rows, nil
}
