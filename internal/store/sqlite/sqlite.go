package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"maritime-forecast/internal/data"
	"maritime-forecast/internal/model"
)

// Store persists the reference tables. Rows are keyed by their position in
// the source table so load order matches save order and duplicate business
// keys survive until the merger reports them.
type Store struct {
	db *sql.DB
}

func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveReference replaces the stored tables with ref in one transaction.
func (s *Store) SaveReference(ctx context.Context, ref model.ReferenceData) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = upsertRows(ctx, tx, "trade_volume", `
		INSERT INTO trade_volume (seq, port, good_category, volume, year)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(seq) DO UPDATE SET
			port = excluded.port,
			good_category = excluded.good_category,
			volume = excluded.volume,
			year = excluded.year
	`, len(ref.Trades), func(i int) []any {
		t := ref.Trades[i]
		return []any{t.Port, t.GoodCategory, t.Volume, t.Year}
	})
	if err != nil {
		return err
	}

	err = upsertRows(ctx, tx, "fuel_cost", `
		INSERT INTO fuel_cost (seq, year, cost_per_ton)
		VALUES (?, ?, ?)
		ON CONFLICT(seq) DO UPDATE SET
			year = excluded.year,
			cost_per_ton = excluded.cost_per_ton
	`, len(ref.FuelCosts), func(i int) []any {
		f := ref.FuelCosts[i]
		return []any{f.Year, f.CostPerTon}
	})
	if err != nil {
		return err
	}

	err = upsertRows(ctx, tx, "port_info", `
		INSERT INTO port_info (
			seq, port, country, annual_capacity, infrastructure_quality,
			proximity_to_hubs, political_stability, customs_efficiency
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(seq) DO UPDATE SET
			port = excluded.port,
			country = excluded.country,
			annual_capacity = excluded.annual_capacity,
			infrastructure_quality = excluded.infrastructure_quality,
			proximity_to_hubs = excluded.proximity_to_hubs,
			political_stability = excluded.political_stability,
			customs_efficiency = excluded.customs_efficiency
	`, len(ref.Ports), func(i int) []any {
		p := ref.Ports[i]
		return []any{p.Port, p.Country, p.AnnualCapacity, p.InfrastructureQuality,
			p.ProximityToHubs, p.PoliticalStability, p.CustomsEfficiency}
	})
	if err != nil {
		return err
	}

	err = upsertRows(ctx, tx, "vessel_types", `
		INSERT INTO vessel_types (seq, name, capacity, operational_cost_per_trip, suitable_goods)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(seq) DO UPDATE SET
			name = excluded.name,
			capacity = excluded.capacity,
			operational_cost_per_trip = excluded.operational_cost_per_trip,
			suitable_goods = excluded.suitable_goods
	`, len(ref.Vessels), func(i int) []any {
		v := ref.Vessels[i]
		return []any{v.Name, v.Capacity, v.OperationalCostPerTrip, data.JoinGoods(v.SuitableGoods)}
	})
	if err != nil {
		return err
	}

	return tx.Commit()
}

// upsertRows writes n rows keyed 0..n-1 and drops any rows left over from a
// longer previous save.
func upsertRows(ctx context.Context, tx *sql.Tx, table, query string, n int, args func(int) []any) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%s: prepare: %w", table, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, append([]any{i}, args(i)...)...); err != nil {
			return fmt.Errorf("%s row %d: %w", table, i, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE seq >= ?`, n); err != nil {
		return fmt.Errorf("%s: trim: %w", table, err)
	}
	return nil
}

func (s *Store) LoadReference(ctx context.Context) (model.ReferenceData, error) {
	var ref model.ReferenceData
	var err error

	ref.Trades, err = queryRows(ctx, s.db,
		`SELECT port, good_category, volume, year FROM trade_volume ORDER BY seq`,
		func(rows *sql.Rows) (model.TradeRecord, error) {
			var t model.TradeRecord
			err := rows.Scan(&t.Port, &t.GoodCategory, &t.Volume, &t.Year)
			return t, err
		})
	if err != nil {
		return model.ReferenceData{}, fmt.Errorf("load trades: %w", err)
	}

	ref.FuelCosts, err = queryRows(ctx, s.db,
		`SELECT year, cost_per_ton FROM fuel_cost ORDER BY seq`,
		func(rows *sql.Rows) (model.FuelCostRecord, error) {
			var f model.FuelCostRecord
			err := rows.Scan(&f.Year, &f.CostPerTon)
			return f, err
		})
	if err != nil {
		return model.ReferenceData{}, fmt.Errorf("load fuel costs: %w", err)
	}

	ref.Ports, err = queryRows(ctx, s.db,
		`SELECT port, country, annual_capacity, infrastructure_quality,
			proximity_to_hubs, political_stability, customs_efficiency
		FROM port_info ORDER BY seq`,
		func(rows *sql.Rows) (model.PortInfo, error) {
			var p model.PortInfo
			err := rows.Scan(&p.Port, &p.Country, &p.AnnualCapacity, &p.InfrastructureQuality,
				&p.ProximityToHubs, &p.PoliticalStability, &p.CustomsEfficiency)
			return p, err
		})
	if err != nil {
		return model.ReferenceData{}, fmt.Errorf("load ports: %w", err)
	}

	ref.Vessels, err = queryRows(ctx, s.db,
		`SELECT name, capacity, operational_cost_per_trip, suitable_goods FROM vessel_types ORDER BY seq`,
		func(rows *sql.Rows) (model.VesselType, error) {
			var v model.VesselType
			var goods string
			err := rows.Scan(&v.Name, &v.Capacity, &v.OperationalCostPerTrip, &goods)
			v.SuitableGoods = data.SplitGoods(goods)
			return v, err
		})
	if err != nil {
		return model.ReferenceData{}, fmt.Errorf("load vessels: %w", err)
	}

	return ref, nil
}

func queryRows[T any](ctx context.Context, db *sql.DB, query string, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS trade_volume (
			seq INTEGER PRIMARY KEY,
			port TEXT NOT NULL,
			good_category TEXT NOT NULL,
			volume REAL NOT NULL,
			year INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS trade_volume_year ON trade_volume (year);`,
		`CREATE TABLE IF NOT EXISTS fuel_cost (
			seq INTEGER PRIMARY KEY,
			year INTEGER NOT NULL,
			cost_per_ton REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS port_info (
			seq INTEGER PRIMARY KEY,
			port TEXT NOT NULL,
			country TEXT NOT NULL,
			annual_capacity REAL NOT NULL,
			infrastructure_quality REAL NOT NULL,
			proximity_to_hubs REAL NOT NULL,
			political_stability REAL NOT NULL,
			customs_efficiency REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS vessel_types (
			seq INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			capacity REAL NOT NULL,
			operational_cost_per_trip REAL NOT NULL,
			suitable_goods TEXT NOT NULL
		);`,
	}

	for _, statement := range statements {
		if _, err := s.db.Exec(statement); err != nil {
			return err
		}
	}

	return nil
}
