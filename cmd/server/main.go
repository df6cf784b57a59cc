// Command server exposes the backtester as an HTTP job API. Jobs run
// asynchronously and results are fetched by job id.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alphaledger/services/analytics"
	"alphaledger/services/config"
	"alphaledger/services/engine"
	"alphaledger/services/marketdata"
	"alphaledger/strategies"
)

const (
	jobStatusRunning   = "RUNNING"
	jobStatusCompleted = "COMPLETED"
	jobStatusFailed    = "FAILED"
)

// BacktestRequest is the POST /api/v1/backtest payload. Zero-valued
// fields fall back to the server configuration.
type BacktestRequest struct {
	Symbol         string  `json:"symbol"`
	Sector         string  `json:"sector"`
	AssetClass     string  `json:"asset_class"`
	InitialCapital float64 `json:"initial_capital"`
	CSVPath        string  `json:"csv_path"`
	SyntheticDays  int     `json:"synthetic_days"`
}

// JobResult is the stored outcome of one backtest job.
type JobResult struct {
	JobID       string             `json:"job_id"`
	Status      string             `json:"status"`
	Error       string             `json:"error,omitempty"`
	Symbol      string             `json:"symbol,omitempty"`
	FinalEquity string             `json:"final_equity,omitempty"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
	TradeCount  int                `json:"trade_count,omitempty"`
	BarCount    int                `json:"bar_count,omitempty"`
	StartedAt   int64              `json:"started_at"`
	FinishedAt  int64              `json:"finished_at,omitempty"`
}

// BacktestServer owns the job store and the run configuration.
type BacktestServer struct {
	cfg    *config.Config
	logger *zap.Logger

	mu   sync.RWMutex
	jobs map[string]*JobResult
}

func NewBacktestServer(cfg *config.Config, logger *zap.Logger) *BacktestServer {
	return &BacktestServer{
		cfg:    cfg,
		logger: logger,
		jobs:   make(map[string]*JobResult),
	}
}

func (s *BacktestServer) setupRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.POST("/backtest", s.handleSubmit)
		api.GET("/backtest/:job_id", s.handleGetResult)
		api.GET("/health", s.handleHealth)
	}
}

func (s *BacktestServer) handleSubmit(c *gin.Context) {
	var req BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	jobID := uuid.New().String()
	job := &JobResult{
		JobID:     jobID,
		Status:    jobStatusRunning,
		StartedAt: time.Now().UnixMilli(),
	}
	s.mu.Lock()
	s.jobs[jobID] = job
	s.mu.Unlock()

	s.logger.Info("backtest job accepted",
		zap.String("job_id", jobID),
		zap.String("symbol", req.Symbol),
	)

	go s.runJob(jobID, req)

	c.JSON(http.StatusAccepted, gin.H{"job_id": jobID, "status": jobStatusRunning})
}

func (s *BacktestServer) handleGetResult(c *gin.Context) {
	jobID := c.Param("job_id")

	// Snapshot under the read lock; runJob mutates the stored struct, so
	// serializing the shared pointer would race with job completion.
	s.mu.RLock()
	job, ok := s.jobs[jobID]
	var snapshot JobResult
	if ok {
		snapshot = *job
	}
	s.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown job id"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (s *BacktestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

func (s *BacktestServer) runJob(jobID string, req BacktestRequest) {
	result, barCount, err := s.execute(req)

	s.mu.Lock()
	defer s.mu.Unlock()
	job := s.jobs[jobID]
	job.FinishedAt = time.Now().UnixMilli()
	if err != nil {
		job.Status = jobStatusFailed
		job.Error = err.Error()
		s.logger.Error("backtest job failed", zap.String("job_id", jobID), zap.Error(err))
		return
	}

	job.Status = jobStatusCompleted
	job.Symbol = result.Symbol
	job.FinalEquity = result.FinalEquity.StringFixed(2)
	job.TradeCount = len(result.Trades)
	job.BarCount = barCount
	job.Metrics = curveMetrics(result)
	s.logger.Info("backtest job completed",
		zap.String("job_id", jobID),
		zap.String("final_equity", job.FinalEquity),
		zap.Int("trades", job.TradeCount),
	)
}

func curveMetrics(result *engine.Result) map[string]float64 {
	metrics := map[string]float64{
		"win_rate":      analytics.WinRate(result.Trades),
		"profit_factor": analytics.ProfitFactor(result.Trades),
	}
	if len(result.Curve) < 2 {
		return metrics
	}

	first := result.Curve[0].Equity.InexactFloat64()
	last := result.Curve[len(result.Curve)-1].Equity.InexactFloat64()
	totalReturn := 0.0
	if first != 0 {
		totalReturn = last/first - 1
	}
	start := time.UnixMilli(result.Curve[0].Timestamp).UTC()
	end := time.UnixMilli(result.Curve[len(result.Curve)-1].Timestamp).UTC()
	years := end.Sub(start).Hours() / 24 / 365.25

	returns := analytics.DailyReturns(result.Curve)
	metrics["total_return"] = totalReturn
	metrics["cagr"] = analytics.CAGR(totalReturn, years)
	metrics["sharpe"] = analytics.Sharpe(returns)
	metrics["sortino"] = analytics.Sortino(returns)
	metrics["max_drawdown"] = analytics.MaxDrawdown(result.Curve)
	return metrics
}

func (s *BacktestServer) execute(req BacktestRequest) (*engine.Result, int, error) {
	symbol := req.Symbol
	if symbol == "" {
		symbol = s.cfg.Run.Symbol
	}
	sector := req.Sector
	if sector == "" {
		sector = s.cfg.Run.Sector
	}
	capital := req.InitialCapital
	if capital <= 0 {
		capital = s.cfg.Run.InitialCapital
	}
	class := engine.AssetEquity
	if strings.EqualFold(req.AssetClass, "INTRADAY") {
		class = engine.AssetIntraday
	}

	var bars []engine.Bar
	var err error
	if req.CSVPath != "" {
		bars, err = marketdata.LoadCSV(req.CSVPath)
		if err != nil {
			return nil, 0, fmt.Errorf("load csv: %w", err)
		}
	} else {
		days := req.SyntheticDays
		if days <= 0 {
			days = 500
		}
		start := time.Now().UTC().AddDate(0, 0, -days*2)
		bars = marketdata.SyntheticDaily(start, days)
	}

	strat := strategies.NewBollingerTrendStrategy()
	strat.Window = s.cfg.Strategy.Window
	strat.StdDev = s.cfg.Strategy.StdDev
	strat.ADXWindow = s.cfg.Strategy.ADXWindow
	strat.ADXThreshold = s.cfg.Strategy.ADXThreshold
	if err := strat.Load(bars); err != nil {
		return nil, 0, err
	}
	signals, err := strat.Signals()
	if err != nil {
		return nil, 0, err
	}

	sim := engine.NewSimulator(engine.SimConfig{
		Symbol:          symbol,
		Sector:          sector,
		AssetClass:      class,
		InitialCapital:  capital,
		SlippageBps:     s.cfg.Execution.SlippageBps,
		TargetAnnualVol: s.cfg.Execution.TargetAnnualVol,
		Limits: engine.RiskLimits{
			MaxDrawdown:       s.cfg.Risk.MaxDrawdownLimit,
			MaxSectorExposure: s.cfg.Risk.MaxSectorExposure,
			MaxPositions:      s.cfg.Risk.MaxPositions,
		},
	}, s.logger.Named("sim"))

	result, err := sim.Run(bars, signals)
	if err != nil {
		return nil, 0, err
	}
	return result, len(bars), nil
}

func main() {
	cfgPath := flag.String("config", "", "Path to TOML config (defaults apply if empty)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	server := NewBacktestServer(cfg, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	server.setupRoutes(router)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Info("starting HTTP server", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("serve HTTP", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown server", zap.Error(err))
	}
}
