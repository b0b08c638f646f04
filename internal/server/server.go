package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"StockTrends/internal/dashboard"
	"StockTrends/internal/metrics"
	"StockTrends/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

var errMissingTicker = errors.New("ticker query param required")

// Handler serves the dashboard page, single charts, health and metrics.
type Handler struct {
	router *gin.Engine
	dash   *dashboard.Dashboard
	log    logrus.FieldLogger
}

// NewHandler builds the gin router around dash.
func NewHandler(dash *dashboard.Dashboard, log logrus.FieldLogger) *Handler {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	h := &Handler{router: router, dash: dash, log: log}
	h.registerRoutes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/", h.index)
	h.router.GET("/healthz", h.health)
	h.router.GET("/metrics", gin.WrapH(metrics.Handler()))

	charts := h.router.Group("/chart")
	{
		charts.GET("/price", h.priceChart)
		charts.GET("/relative", h.relativeChart)
	}

	admin := h.router.Group("/cache")
	{
		admin.POST("/flush", h.flushCache)
		admin.POST("/invalidate", h.invalidateTicker)
	}
}

func (h *Handler) index(c *gin.Context) {
	sel, err := h.selectionFromQuery(c)
	if err != nil {
		h.renderPage(c, http.StatusBadRequest, sel, nil, err)
		return
	}
	page, err := h.dash.Evaluate(c.Request.Context(), sel)
	if err != nil {
		h.renderPage(c, statusFor(err), sel, nil, err)
		return
	}
	h.renderPage(c, http.StatusOK, page.Selection, page.Regions, nil)
}

func (h *Handler) renderPage(c *gin.Context, status int, sel dashboard.Selection, regions []dashboard.Region, err error) {
	view := pageView{
		Pickers: pickers(h.dash.Universe, sel),
		Regions: regions,
	}
	if err != nil {
		view.Error = err.Error()
	}
	c.HTML(status, "index.html", view)
}

func (h *Handler) priceChart(c *gin.Context) {
	ticker := c.Query("ticker")
	if ticker == "" {
		writeError(c, http.StatusBadRequest, errMissingTicker)
		return
	}
	period, err := model.ParsePeriod(c.DefaultQuery("period", model.DefaultPeriod.String()))
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	art, err := h.dash.PriceChart(c.Request.Context(), normalize(ticker), period)
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", art.HTML)
}

func (h *Handler) relativeChart(c *gin.Context) {
	a, b := c.Query("a"), c.Query("b")
	if a == "" || b == "" {
		writeError(c, http.StatusBadRequest, errors.New("a and b query params required"))
		return
	}
	period, err := model.ParsePeriod(c.DefaultQuery("period", model.DefaultPeriod.String()))
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	art, err := h.dash.RelativeChart(c.Request.Context(), normalize(a), normalize(b), period)
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", art.HTML)
}

func (h *Handler) flushCache(c *gin.Context) {
	bars, names := h.dash.Collector.Flush()
	h.log.WithFields(logrus.Fields{"bars": bars, "names": names}).Info("cache flushed")
	c.JSON(http.StatusOK, gin.H{"bars": bars, "names": names})
}

// invalidateTicker drops one instrument from the caches so the next request refetches it.
func (h *Handler) invalidateTicker(c *gin.Context) {
	ticker := normalize(c.Query("ticker"))
	if ticker == "" {
		writeError(c, http.StatusBadRequest, errMissingTicker)
		return
	}
	if !h.dash.Universe.IsComparable(ticker) {
		writeError(c, http.StatusBadRequest, fmt.Errorf("%w: %q is not a known instrument", dashboard.ErrInvalidSelection, ticker))
		return
	}
	h.dash.Collector.Invalidate(ticker)
	c.JSON(http.StatusOK, gin.H{"invalidated": ticker})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func writeError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrInvalidSelection), errors.Is(err, model.ErrInvalidPeriod):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start),
		}).Debug("request")
	}
}

// Run serves handler on addr until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, log logrus.FieldLogger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("HTTP server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
