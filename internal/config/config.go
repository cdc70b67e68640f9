package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"

	"maritime-forecast/internal/analysis"
	"maritime-forecast/internal/data"
	"maritime-forecast/internal/forecast"
	"maritime-forecast/internal/report"
)

// Config is the on-disk configuration shape (YAML). Environment variables
// listed in the env tags override file values.
type Config struct {
	DataDir string `yaml:"data_dir" env:"MARITIME_DATA_DIR"`
	Seed    uint64 `yaml:"seed" env:"MARITIME_SEED"`

	Generation GenerationConfig `yaml:"generation"`
	Forecast   ForecastConfig   `yaml:"forecast"`
	Profit     ProfitConfig     `yaml:"profit"`
	Render     RenderConfig     `yaml:"render"`
	Store      StoreConfig      `yaml:"store"`
	Log        LogConfig        `yaml:"log"`
	Server     ServerConfig     `yaml:"server"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

type GenerationConfig struct {
	StartYear int `yaml:"start_year" env:"MARITIME_GENERATION_START_YEAR"`
	EndYear   int `yaml:"end_year" env:"MARITIME_GENERATION_END_YEAR"`
}

type ForecastConfig struct {
	HorizonStart          int     `yaml:"horizon_start" env:"MARITIME_FORECAST_HORIZON_START"`
	HorizonEnd            int     `yaml:"horizon_end" env:"MARITIME_FORECAST_HORIZON_END"`
	ChangepointPriorScale float64 `yaml:"changepoint_prior_scale"`
	SeasonalityPriorScale float64 `yaml:"seasonality_prior_scale"`
	ChangepointRange      float64 `yaml:"changepoint_range"`
	MaxChangepoints       int     `yaml:"max_changepoints"`
	FourierOrder          int     `yaml:"fourier_order"`
	IntervalWidth         float64 `yaml:"interval_width"`
}

// ProfitConfig holds the shipping rate sweep (USD/ton) and the fixed
// operational cost per ton.
type ProfitConfig struct {
	RateMin         float64 `yaml:"rate_min" env:"MARITIME_PROFIT_RATE_MIN"`
	RateMax         float64 `yaml:"rate_max" env:"MARITIME_PROFIT_RATE_MAX"`
	RateStep        float64 `yaml:"rate_step" env:"MARITIME_PROFIT_RATE_STEP"`
	FixedCostPerTon float64 `yaml:"fixed_cost_per_ton" env:"MARITIME_PROFIT_FIXED_COST_PER_TON"`
}

type RenderConfig struct {
	Charts   bool    `yaml:"charts" env:"MARITIME_RENDER_CHARTS"`
	Workbook bool    `yaml:"workbook" env:"MARITIME_RENDER_WORKBOOK"`
	WidthCM  float64 `yaml:"width_cm"`
	HeightCM float64 `yaml:"height_cm"`
}

type StoreConfig struct {
	// SQLitePath selects the SQLite store; empty means CSV files under data_dir/raw.
	SQLitePath string `yaml:"sqlite_path" env:"MARITIME_SQLITE_PATH"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

type ServerConfig struct {
	Port           string        `yaml:"port" env:"API_PORT"`
	Env            string        `yaml:"env" env:"API_ENV"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
	RateLimitRPS   float64       `yaml:"rate_limit_rps" env:"MARITIME_RATE_LIMIT_RPS"`
	RateLimitBurst int           `yaml:"rate_limit_burst" env:"MARITIME_RATE_LIMIT_BURST"`
	RunCacheTTL    time.Duration `yaml:"run_cache_ttl" env:"MARITIME_RUN_CACHE_TTL"`
}

type TelemetryConfig struct {
	ServiceName string `yaml:"service_name" env:"MARITIME_SERVICE_NAME"`
	// OTLPEndpoint enables tracing when set (host:port of an OTLP/HTTP collector).
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"MARITIME_OTEL_ENDPOINT"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	params := forecast.DefaultTrendParams()
	gen := data.DefaultGenerationConfig()
	return &Config{
		DataDir: "data",
		Seed:    1,
		Generation: GenerationConfig{
			StartYear: gen.StartYear,
			EndYear:   gen.EndYear,
		},
		Forecast: ForecastConfig{
			HorizonStart:          forecast.DefaultHorizon.Start,
			HorizonEnd:            forecast.DefaultHorizon.End,
			ChangepointPriorScale: params.ChangepointPriorScale,
			SeasonalityPriorScale: params.SeasonalityPriorScale,
			ChangepointRange:      params.ChangepointRange,
			MaxChangepoints:       params.MaxChangepoints,
			FourierOrder:          params.FourierOrder,
			IntervalWidth:         params.IntervalWidth,
		},
		Profit: ProfitConfig{
			RateMin:         analysis.DefaultRateMin,
			RateMax:         analysis.DefaultRateMax,
			RateStep:        analysis.DefaultRateStep,
			FixedCostPerTon: analysis.DefaultFixedCostPerTon,
		},
		Render: RenderConfig{
			Charts:   true,
			Workbook: true,
			WidthCM:  20,
			HeightCM: 12,
		},
		Log: LogConfig{Level: "info", Format: "text"},
		Server: ServerConfig{
			Port:           "8080",
			Env:            "development",
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			RateLimitRPS:   5,
			RateLimitBurst: 10,
			RunCacheTTL:    time.Hour,
		},
		Telemetry: TelemetryConfig{ServiceName: "maritime-forecast"},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := ParseEnv(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ParseEnv applies environment variable overrides to target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.New("data_dir is required")
	}
	if err := c.GenerationConfig().Validate(); err != nil {
		return err
	}
	if err := c.Horizon().Validate(); err != nil {
		return err
	}
	if err := c.TrendParams().Validate(); err != nil {
		return err
	}
	if _, err := c.Rates(); err != nil {
		return fmt.Errorf("profit config invalid: %w", err)
	}
	if c.Profit.FixedCostPerTon < 0 {
		return errors.New("profit.fixed_cost_per_ton must be >= 0")
	}
	if c.Render.WidthCM <= 0 || c.Render.HeightCM <= 0 {
		return errors.New("render.width_cm and render.height_cm must be > 0")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Server.RateLimitRPS < 0 || c.Server.RateLimitBurst < 0 {
		return errors.New("server rate limit must be >= 0")
	}
	if c.Server.RunCacheTTL <= 0 {
		return errors.New("server.run_cache_ttl must be > 0")
	}
	return nil
}

func (c *Config) GenerationConfig() data.GenerationConfig {
	return data.GenerationConfig{StartYear: c.Generation.StartYear, EndYear: c.Generation.EndYear}
}

func (c *Config) Horizon() forecast.Horizon {
	return forecast.Horizon{Start: c.Forecast.HorizonStart, End: c.Forecast.HorizonEnd}
}

func (c *Config) TrendParams() forecast.TrendParams {
	f := c.Forecast
	return forecast.TrendParams{
		ChangepointPriorScale: f.ChangepointPriorScale,
		SeasonalityPriorScale: f.SeasonalityPriorScale,
		ChangepointRange:      f.ChangepointRange,
		MaxChangepoints:       f.MaxChangepoints,
		YearlySeasonality:     true,
		FourierOrder:          f.FourierOrder,
		IntervalWidth:         f.IntervalWidth,
	}
}

// Rates expands the configured sweep.
func (c *Config) Rates() ([]float64, error) {
	return analysis.RateSweep(c.Profit.RateMin, c.Profit.RateMax, c.Profit.RateStep)
}

func (c *Config) RenderConfig() report.RenderConfig {
	r := report.DefaultRenderConfig()
	r.Charts = c.Render.Charts
	r.Workbook = c.Render.Workbook
	r.Width = vg.Length(c.Render.WidthCM) * vg.Centimeter
	r.Height = vg.Length(c.Render.HeightCM) * vg.Centimeter
	return r
}

// Production reports whether the server runs in production mode.
func (c *Config) Production() bool {
	return c.Server.Env == "production"
}
