package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	rates, err := c.Rates()
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{40, 45, 50, 55, 60}; !reflect.DeepEqual(rates, want) {
		t.Errorf("rates = %v, want %v", rates, want)
	}
	if h := c.Horizon(); h.Start != 2025 || h.End != 2030 {
		t.Errorf("horizon = %+v", h)
	}
	if c.Profit.FixedCostPerTon != 35 {
		t.Errorf("fixed cost = %v", c.Profit.FixedCostPerTon)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
data_dir: /tmp/maritime
profit:
  rate_min: 30
  rate_max: 40
forecast:
  horizon_end: 2027
server:
  run_cache_ttl: 15m
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DataDir != "/tmp/maritime" {
		t.Errorf("data_dir = %q", c.DataDir)
	}
	rates, _ := c.Rates()
	if want := []float64{30, 35, 40}; !reflect.DeepEqual(rates, want) {
		t.Errorf("rates = %v, want %v", rates, want)
	}
	if c.Forecast.HorizonStart != 2025 || c.Forecast.HorizonEnd != 2027 {
		t.Errorf("horizon = %d..%d", c.Forecast.HorizonStart, c.Forecast.HorizonEnd)
	}
	if c.Server.RunCacheTTL != 15*time.Minute {
		t.Errorf("ttl = %v", c.Server.RunCacheTTL)
	}
	if c.Profit.FixedCostPerTon != 35 {
		t.Errorf("untouched field changed: %v", c.Profit.FixedCostPerTon)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "store:\n  sqlite_path: file.db\n")
	t.Setenv("MARITIME_SQLITE_PATH", "env.db")
	t.Setenv("MARITIME_PROFIT_FIXED_COST_PER_TON", "20")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Store.SQLitePath != "env.db" {
		t.Errorf("sqlite path = %q", c.Store.SQLitePath)
	}
	if c.Profit.FixedCostPerTon != 20 {
		t.Errorf("fixed cost = %v", c.Profit.FixedCostPerTon)
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(c.Server.AllowedOrigins, want) {
		t.Errorf("origins = %v", c.Server.AllowedOrigins)
	}
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("MARITIME_SEED", "not-a-number")
	_, err := Load("")
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Errorf("err = %v, want parse env error", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error")
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty data dir":   func(c *Config) { c.DataDir = "" },
		"inverted horizon": func(c *Config) { c.Forecast.HorizonStart = 2031 },
		"inverted years":   func(c *Config) { c.Generation.EndYear = 1990 },
		"zero step":        func(c *Config) { c.Profit.RateStep = 0 },
		"negative cost":    func(c *Config) { c.Profit.FixedCostPerTon = -1 },
		"bad interval":     func(c *Config) { c.Forecast.IntervalWidth = 1 },
		"bad log format":   func(c *Config) { c.Log.Format = "xml" },
		"zero ttl":         func(c *Config) { c.Server.RunCacheTTL = 0 },
		"zero width":       func(c *Config) { c.Render.WidthCM = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRenderConfig(t *testing.T) {
	c := Default()
	c.Render.Charts = false
	r := c.RenderConfig()
	if r.Charts || !r.Workbook {
		t.Errorf("render flags = %+v", r)
	}
	if r.Width <= r.Height {
		t.Errorf("width %v should exceed height %v", r.Width, r.Height)
	}
}
