package api

import (
	"encoding/json"
	"time"

	models "FractalPulse/internal/domain/models"
	domrepo "FractalPulse/internal/domain/repository"
	icache "FractalPulse/internal/service/cache"
	"FractalPulse/internal/service/metrics"
	"FractalPulse/internal/service/ratelimit"
	"FractalPulse/internal/usecase"
	xhttp "FractalPulse/pkg/http"
	xlogger "FractalPulse/pkg/logger"
	"FractalPulse/pkg/util"

	"github.com/labstack/echo/v4"
)

// TerminalEchoHandler serves the terminal header endpoints.
type TerminalEchoHandler struct {
	logger   *xlogger.Logger
	composer *usecase.HeaderComposer
	history  *usecase.HistoryUseCase
	cache    icache.BytesCache
	rl       *ratelimit.Limiter

	signalTTL  time.Duration
	historyTTL time.Duration
}

func NewTerminalEchoHandler(logger *xlogger.Logger, composer *usecase.HeaderComposer, history *usecase.HistoryUseCase) *TerminalEchoHandler {
	metrics.Register()
	return &TerminalEchoHandler{
		logger:     logger,
		composer:   composer,
		history:    history,
		rl:         ratelimit.New(),
		signalTTL:  5 * time.Second,
		historyTTL: 30 * time.Second,
	}
}

// SetCache injects a cache for endpoint responses.
func (h *TerminalEchoHandler) SetCache(c icache.BytesCache) { h.cache = c }

// SetTTLs overrides the response cache TTLs.
func (h *TerminalEchoHandler) SetTTLs(signal, history time.Duration) {
	if signal > 0 {
		h.signalTTL = signal
	}
	if history > 0 {
		h.historyTTL = history
	}
}

func (h *TerminalEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signal", h.Signal)
	g.GET("/signal/history", h.History)
	g.GET("/phase", h.PhaseInfo)
	g.GET("/risk", h.RiskInfo)
}

func (h *TerminalEchoHandler) cached(key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil {
		h.logger.Warn("cache get error", xlogger.Error(err))
		return nil, false
	}
	return b, ok
}

func (h *TerminalEchoHandler) store(key string, v interface{}, ttl time.Duration) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		h.logger.Warn("cache marshal error", xlogger.Error(err))
		return nil
	}
	if h.cache != nil {
		if err := h.cache.SetBytes(key, b, ttl); err != nil {
			h.logger.Warn("cache set error", xlogger.Error(err))
		}
	}
	return b
}

func (h *TerminalEchoHandler) compose(c echo.Context, symbol, horizon string) (*models.SignalHeader, error) {
	hz := domrepo.NormalizeHorizon(horizon)
	return h.composer.Compose(c.Request().Context(), symbol, hz)
}

// Signal returns the full derived header for a symbol.
func (h *TerminalEchoHandler) Signal(c echo.Context) error {
	start := time.Now()
	endpoint := "signal"
	defer func() { metrics.TerminalLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":signal", 10, 5) {
		h.logger.Warn("signal rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.DataResponse(c, 429, "rate limited")
	}

	cacheKey := "signal:" + req.Symbol + ":" + req.Horizon
	if b, ok := h.cached(cacheKey); ok {
		metrics.TerminalCacheHits.WithLabelValues(endpoint).Inc()
		var header models.SignalHeader
		if err := json.Unmarshal(b, &header); err == nil {
			return xhttp.SuccessResponse(c, &header)
		}
	}

	header, err := h.compose(c, req.Symbol, req.Horizon)
	if err != nil {
		metrics.TerminalErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("signal compose error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	h.store(cacheKey, header, h.signalTTL)
	return xhttp.SuccessResponse(c, header)
}

// History returns stored headers for a symbol over a time range.
func (h *TerminalEchoHandler) History(c echo.Context) error {
	start := time.Now()
	endpoint := "history"
	defer func() { metrics.TerminalLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":history", 5, 2) {
		h.logger.Warn("history rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.DataResponse(c, 429, "rate limited")
	}

	now := time.Now()
	from := util.ParseTimeDefault(req.From, now.Add(-24*time.Hour))
	to := util.ParseTimeDefault(req.To, now)

	cacheKey := "history:" + req.Symbol + ":" + req.Horizon + ":" + req.From + ":" + req.To
	if b, ok := h.cached(cacheKey); ok {
		metrics.TerminalCacheHits.WithLabelValues(endpoint).Inc()
		var res usecase.GetHistoryResult
		if err := json.Unmarshal(b, &res); err == nil {
			return xhttp.SuccessResponse(c, &res)
		}
	}

	res, err := h.history.GetHistory(c.Request().Context(), usecase.GetHistoryParams{
		Symbol:  req.Symbol,
		Horizon: domrepo.NormalizeHorizon(req.Horizon),
		From:    from,
		To:      to,
		Limit:   req.Limit,
	})
	if err != nil {
		metrics.TerminalErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("history usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	h.store(cacheKey, res, h.historyTTL)
	return xhttp.SuccessResponse(c, res)
}

// PhaseInfo returns the phase slice of the derived header.
func (h *TerminalEchoHandler) PhaseInfo(c echo.Context) error {
	start := time.Now()
	endpoint := "phase"
	defer func() { metrics.TerminalLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.PhaseRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	header, err := h.compose(c, req.Symbol, req.Horizon)
	if err != nil {
		metrics.TerminalErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("phase compose error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"symbol":          header.Symbol,
		"horizon":         header.Horizon,
		"phase":           header.Phase,
		"phaseConfidence": header.PhaseConfidence,
	})
}

// RiskInfo returns the risk slice of the derived header.
func (h *TerminalEchoHandler) RiskInfo(c echo.Context) error {
	start := time.Now()
	endpoint := "risk"
	defer func() { metrics.TerminalLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.RiskRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	header, err := h.compose(c, req.Symbol, req.Horizon)
	if err != nil {
		metrics.TerminalErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("risk compose error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"symbol":    header.Symbol,
		"horizon":   header.Horizon,
		"riskLevel": header.RiskLevel,
		"avgMaxDD":  header.AvgMaxDD,
		"volRegime": header.VolRegime,
	})
}
