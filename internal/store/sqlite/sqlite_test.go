package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"maritime-forecast/internal/data"
	"maritime-forecast/internal/model"
)

func newStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_RoundTrip(t *testing.T) {
	ref, err := data.Generate(11, data.GenerationConfig{StartYear: 2018, EndYear: 2020})
	if err != nil {
		t.Fatal(err)
	}
	s := newStore(t, filepath.Join(t.TempDir(), "ref.db"))
	ctx := context.Background()

	if err := s.SaveReference(ctx, ref); err != nil {
		t.Fatalf("SaveReference: %v", err)
	}
	got, err := s.LoadReference(ctx)
	if err != nil {
		t.Fatalf("LoadReference: %v", err)
	}
	if !reflect.DeepEqual(got, ref) {
		t.Error("loaded data differs from saved data")
	}
}

func TestStore_SaveReplacesPreviousRows(t *testing.T) {
	s := newStore(t, filepath.Join(t.TempDir(), "ref.db"))
	ctx := context.Background()

	first := model.ReferenceData{
		Trades: []model.TradeRecord{
			{Port: "A", GoodCategory: "X", Volume: 1, Year: 2020},
			{Port: "B", GoodCategory: "X", Volume: 2, Year: 2020},
		},
	}
	second := model.ReferenceData{
		Trades: []model.TradeRecord{{Port: "C", GoodCategory: "Y", Volume: 3, Year: 2021}},
	}
	if err := s.SaveReference(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveReference(ctx, second); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadReference(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Trades, second.Trades) {
		t.Errorf("trades = %+v, want %+v", got.Trades, second.Trades)
	}
}

func TestStore_KeepsDuplicateBusinessKeys(t *testing.T) {
	s := newStore(t, filepath.Join(t.TempDir(), "ref.db"))
	ctx := context.Background()
	ref := model.ReferenceData{
		FuelCosts: []model.FuelCostRecord{{Year: 2020, CostPerTon: 400}, {Year: 2020, CostPerTon: 500}},
	}
	if err := s.SaveReference(ctx, ref); err != nil {
		t.Fatal(err)
	}
	got, _ := s.LoadReference(ctx)
	if len(got.FuelCosts) != 2 {
		t.Errorf("fuel costs = %+v, want both rows", got.FuelCosts)
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.db")
	ctx := context.Background()
	vessels := data.DefaultVessels()

	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveReference(ctx, model.ReferenceData{Vessels: vessels}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := newStore(t, path).LoadReference(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Vessels, vessels) {
		t.Errorf("vessels = %+v", got.Vessels)
	}
}

func TestNew_RequiresPath(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Error("expected error for empty path")
	}
}
