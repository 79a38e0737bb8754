// Package server exposes reports over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/export"
	"github.com/etnz/tradebook/reporting"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the reports of a reporting service.
type Handler struct {
	svc    *reporting.Service
	logger *zap.Logger
}

// NewHandler returns a handler serving svc.
func NewHandler(svc *reporting.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// New wires the Gin engine with the report routes and middlewares.
func New(handler *Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/positions", handler.Positions)
	r.GET("/positions/:product", handler.Position)
	r.GET("/balances", handler.Balances)
	r.GET("/report", handler.Report)
	r.GET("/report.xlsx", handler.Export(export.XLSX))
	r.GET("/report.html", handler.Export(export.HTML))
	r.GET("/report.md", handler.Export(export.Markdown))

	if logger != nil {
		logger.Info("router initialized")
	}
	return r
}

func (h *Handler) report(c *gin.Context) (*tradebook.Report, bool) {
	report, err := h.svc.Report(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to compute report", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "unable to load records"})
		return nil, false
	}
	return report, true
}

// Positions returns the stock positions with their totals.
func (h *Handler) Positions(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"digest":    report.Digest,
		"positions": report.Positions,
		"totals":    report.Totals,
	})
}

// Position returns the position of one product.
func (h *Handler) Position(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}
	product := c.Param("product")
	p, found := report.Position(product)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown product", "product": product})
		return
	}
	c.JSON(http.StatusOK, p)
}

// Balances returns the running balances, optionally of a single account.
func (h *Handler) Balances(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}
	account, filtered := c.GetQuery("account")
	if !filtered {
		c.JSON(http.StatusOK, report.Balances)
		return
	}
	summary, found := report.Balances.Account(account)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown account", "account": account})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"account": summary,
		"rows":    report.Balances.AccountRows(account),
	})
}

// Report returns the full report as JSON.
func (h *Handler) Report(c *gin.Context) {
	payload, report, err := h.svc.Render(c.Request.Context(), reporting.JSON)
	if err != nil {
		h.logger.Error("failed to render report", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "unable to render report"})
		return
	}
	c.Header("ETag", `"`+report.Digest+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// Export returns a handler serving the report in format f.
func (h *Handler) Export(f export.Format) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, report, err := h.svc.Render(c.Request.Context(), f)
		if err != nil {
			h.logger.Error("failed to render report", zap.String("format", string(f)), zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "unable to render report"})
			return
		}
		if f == export.XLSX {
			c.Header("Content-Disposition", "attachment; filename=report.xlsx")
		}
		c.Header("ETag", `"`+report.Digest+`"`)
		c.Data(http.StatusOK, f.ContentType(), payload)
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
