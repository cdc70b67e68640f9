package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"maritime-forecast/internal/analysis"
	"maritime-forecast/internal/api/models"
	"maritime-forecast/internal/data"
	"maritime-forecast/internal/model"
	"maritime-forecast/internal/pipeline"
	"maritime-forecast/internal/telemetry"
)

// Loader supplies the reference tables a run is computed from.
type Loader interface {
	LoadReference(ctx context.Context) (model.ReferenceData, error)
}

// RunHandler handles pipeline runs and the tables they produce.
type RunHandler struct {
	loader   Loader
	engine   *pipeline.Engine
	runs     *data.RunCache[*pipeline.Result]
	defaults pipeline.Options
	log      *slog.Logger
}

// NewRunHandler creates a run handler. Results are kept in runs until they expire.
func NewRunHandler(loader Loader, engine *pipeline.Engine, runs *data.RunCache[*pipeline.Result], defaults pipeline.Options, log *slog.Logger) *RunHandler {
	if log == nil {
		log = slog.Default()
	}
	return &RunHandler{loader: loader, engine: engine, runs: runs, defaults: defaults, log: log}
}

// CreateRun handles POST /api/v1/runs
func (h *RunHandler) CreateRun(c *gin.Context) {
	var req models.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	opts, err := h.options(req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	ctx := c.Request.Context()
	ref, err := h.loader.LoadReference(ctx)
	if err != nil {
		h.log.ErrorContext(ctx, "load reference data", "error", err)
		abortWithRunError(c, fmt.Errorf("load reference data: %w", err))
		return
	}
	res, err := h.engine.Run(ctx, ref, opts)
	if err != nil {
		abortWithRunError(c, err)
		return
	}

	id := h.runs.Put(res)
	telemetry.CachedRuns.Set(float64(h.runs.Len()))
	h.log.InfoContext(ctx, "run stored", "run_id", id, "duration", res.Duration)
	c.JSON(http.StatusCreated, models.NewRunResponse(id.String(), res))
}

// GetRun handles GET /api/v1/runs/:id
func (h *RunHandler) GetRun(c *gin.Context) {
	id, res, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.NewRunResponse(id.String(), res))
}

// GetForecast handles GET /api/v1/runs/:id/forecast
func (h *RunHandler) GetForecast(c *gin.Context) {
	if _, res, ok := h.lookup(c); ok {
		c.JSON(http.StatusOK, models.NewForecastResponse(res))
	}
}

// GetProfits handles GET /api/v1/runs/:id/profits
func (h *RunHandler) GetProfits(c *gin.Context) {
	if _, res, ok := h.lookup(c); ok {
		c.JSON(http.StatusOK, models.NewProfitsResponse(res))
	}
}

// GetPorts handles GET /api/v1/runs/:id/ports
func (h *RunHandler) GetPorts(c *gin.Context) {
	if _, res, ok := h.lookup(c); ok {
		c.JSON(http.StatusOK, models.NewPortsResponse(res.Ports))
	}
}

// GetVessels handles GET /api/v1/runs/:id/vessels
func (h *RunHandler) GetVessels(c *gin.Context) {
	if _, res, ok := h.lookup(c); ok {
		c.JSON(http.StatusOK, models.NewVesselsResponse(res.Vessels))
	}
}

// GetTrades handles GET /api/v1/runs/:id/trades
func (h *RunHandler) GetTrades(c *gin.Context) {
	_, res, ok := h.lookup(c)
	if !ok {
		return
	}
	var q models.TradesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	rows := res.Enriched
	if q.Port != "" || q.Year != 0 {
		rows = slices.DeleteFunc(slices.Clone(rows), func(e model.EnrichedTradeRecord) bool {
			return (q.Port != "" && e.TradeRecord.Port != q.Port) || (q.Year != 0 && e.Year != q.Year)
		})
	}

	out := models.TradesResponse{Total: len(rows), Limit: q.Limit, Offset: q.Offset, Trades: []models.Trade{}}
	if q.Offset < len(rows) {
		end := min(q.Offset+q.Limit, len(rows))
		for _, e := range rows[q.Offset:end] {
			out.Trades = append(out.Trades, models.NewTrade(e))
		}
	}
	c.JSON(http.StatusOK, out)
}

func (h *RunHandler) lookup(c *gin.Context) (uuid.UUID, *pipeline.Result, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_ID", "run id must be a UUID")
		return uuid.Nil, nil, false
	}
	res, ok := h.runs.Get(id)
	if !ok {
		abortWithError(c, http.StatusNotFound, "RUN_NOT_FOUND", fmt.Sprintf("run %s not found or expired", id))
		return uuid.Nil, nil, false
	}
	return id, res, true
}

// options overlays the request on the server defaults.
func (h *RunHandler) options(req models.RunRequest) (pipeline.Options, error) {
	opts := h.defaults
	opts.Rates = slices.Clone(opts.Rates)

	sweep := req.RateMin != nil || req.RateMax != nil || req.RateStep != nil
	switch {
	case len(req.Rates) > 0 && sweep:
		return opts, errors.New("give either rates or rate_min/rate_max/rate_step, not both")
	case len(req.Rates) > analysis.MaxSweepRates:
		return opts, fmt.Errorf("at most %d rates may be given", analysis.MaxSweepRates)
	case len(req.Rates) > 0:
		opts.Rates = slices.Clone(req.Rates)
	case sweep:
		if req.RateMin == nil || req.RateMax == nil || req.RateStep == nil {
			return opts, errors.New("rate_min, rate_max and rate_step must be given together")
		}
		rates, err := analysis.RateSweep(*req.RateMin, *req.RateMax, *req.RateStep)
		if err != nil {
			return opts, err
		}
		opts.Rates = rates
	}

	if req.FixedCostPerTon != nil {
		opts.FixedCostPerTon = *req.FixedCostPerTon
	}
	if req.HorizonStart != 0 {
		opts.Horizon.Start = req.HorizonStart
	}
	if req.HorizonEnd != 0 {
		opts.Horizon.End = req.HorizonEnd
	}
	if err := opts.Horizon.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}
