// Package pipeline runs the full analysis over a reference dataset: port
// scoring, vessel costs, the trade merge, the forecast and the profit sweep.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"maritime-forecast/internal/analysis"
	"maritime-forecast/internal/dataset"
	"maritime-forecast/internal/forecast"
	"maritime-forecast/internal/model"
	"maritime-forecast/internal/telemetry"
)

// Stage names, used for spans, metrics and error prefixes.
const (
	StageValidate = "validate"
	StagePorts    = "score_ports"
	StageVessels  = "vessel_costs"
	StageMerge    = "merge"
	StageForecast = "forecast"
	StageProfits  = "profits"
)

// Options are the per-run knobs. A zero Horizon or empty Rates is replaced by
// the default; a zero FixedCostPerTon is kept as given.
type Options struct {
	Horizon         forecast.Horizon
	Rates           []float64
	FixedCostPerTon float64
}

func DefaultOptions() Options {
	rates, _ := analysis.RateSweep(analysis.DefaultRateMin, analysis.DefaultRateMax, analysis.DefaultRateStep)
	return Options{
		Horizon:         forecast.DefaultHorizon,
		Rates:           rates,
		FixedCostPerTon: analysis.DefaultFixedCostPerTon,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Horizon == (forecast.Horizon{}) {
		o.Horizon = d.Horizon
	}
	if len(o.Rates) == 0 {
		o.Rates = d.Rates
	}
	return o
}

type Engine struct {
	forecaster forecast.Forecaster
	log        *slog.Logger
	tracer     trace.Tracer
}

func New(f forecast.Forecaster, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{forecaster: f, log: log, tracer: telemetry.Tracer()}
}

// Run executes every stage in order. The reference data is not modified.
func (e *Engine) Run(ctx context.Context, ref model.ReferenceData, opts Options) (res *Result, err error) {
	if e.forecaster == nil {
		return nil, fmt.Errorf("forecaster is nil")
	}
	opts = opts.withDefaults()

	ctx, span := e.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.Int("trades", len(ref.Trades)),
		attribute.String("forecaster", e.forecaster.Name()),
	))
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		telemetry.PipelineRuns.WithLabelValues(status).Inc()
		span.End()
	}()

	res = &Result{
		StartedAt:       time.Now().UTC(),
		Forecaster:      e.forecaster.Name(),
		Horizon:         opts.Horizon,
		Rates:           append([]float64(nil), opts.Rates...),
		FixedCostPerTon: opts.FixedCostPerTon,
	}

	err = e.stage(ctx, StageValidate, func(context.Context) error {
		return ref.Validate()
	})
	if err != nil {
		return nil, err
	}

	err = e.stage(ctx, StagePorts, func(context.Context) error {
		res.Ports, err = analysis.ScorePorts(ref.Ports)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = e.stage(ctx, StageVessels, func(context.Context) error {
		res.Vessels, err = analysis.ComputeVesselCosts(ref.Vessels)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = e.stage(ctx, StageMerge, func(context.Context) error {
		res.Enriched, err = dataset.Merge(ref.Trades, res.Ports, ref.FuelCosts)
		if err != nil {
			return err
		}
		res.Summary = dataset.Summarize(res.Enriched)
		e.reportUnmatched(res.Summary)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = e.stage(ctx, StageForecast, func(ctx context.Context) error {
		res.Trend = forecast.AggregateEnriched(res.Enriched)
		res.Forecast, err = forecast.Forecast(ctx, e.forecaster, res.Trend, opts.Horizon)
		if err != nil {
			return err
		}
		telemetry.ForecastPoints.Set(float64(len(res.Forecast)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = e.stage(ctx, StageProfits, func(context.Context) error {
		res.Profits, err = analysis.EvaluateProfits(res.Forecast, opts.Rates, opts.FixedCostPerTon)
		if err != nil {
			return err
		}
		res.Projections, err = analysis.ProjectYearly(res.Forecast, opts.Rates, opts.FixedCostPerTon)
		return err
	})
	if err != nil {
		return nil, err
	}

	res.Duration = time.Since(res.StartedAt)
	e.log.InfoContext(ctx, "pipeline run complete",
		"trades", res.Summary.Rows,
		"history_years", len(res.Trend),
		"forecast_years", len(res.Forecast),
		"rates", len(res.Profits),
		"duration", res.Duration,
	)
	return res, nil
}

func (e *Engine) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx, span := e.tracer.Start(ctx, "pipeline."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	telemetry.StageDuration.WithLabelValues(name).Observe(elapsed.Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.log.ErrorContext(ctx, "pipeline stage failed", "stage", name, "error", err)
		return fmt.Errorf("%s: %w", name, err)
	}
	e.log.DebugContext(ctx, "pipeline stage done", "stage", name, "elapsed", elapsed)
	return nil
}

// reportUnmatched logs and counts join keys the merge could not resolve.
// They are not errors: the affected rows carry nil join fields.
func (e *Engine) reportUnmatched(s dataset.MergeSummary) {
	for _, p := range s.UnmatchedPorts {
		e.log.Warn("trade port not found in port table", "port", p)
	}
	for _, y := range s.UnmatchedYears {
		e.log.Warn("trade year has no fuel cost", "year", y)
	}
	telemetry.MergeUnmatched.WithLabelValues("port").Add(float64(len(s.UnmatchedPorts)))
	telemetry.MergeUnmatched.WithLabelValues("year").Add(float64(len(s.UnmatchedYears)))
}

// IsDataError reports whether err comes from bad input data rather than from
// the environment.
func IsDataError(err error) bool {
	return errors.Is(err, model.ErrDivisionByZero) ||
		errors.Is(err, model.ErrDuplicateKey) ||
		errors.Is(err, model.ErrInsufficientHistory) ||
		errors.Is(err, model.ErrInvalidRecord)
}
