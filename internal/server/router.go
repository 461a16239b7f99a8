package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// RouterDependencies collects handler dependencies.
type RouterDependencies struct {
	Health         HealthService
	Sessions       *Sessions
	DataDir        string
	AllowedOrigins []string
}

// NewRouter wires the HTTP routes of the dashboard bridge.
func NewRouter(logger *zap.Logger, deps RouterDependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = sonicSerializer{}
	e.Validator = newValidator()
	e.HTTPErrorHandler = newErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))
	if len(deps.AllowedOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: deps.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
		}))
	}

	e.GET("/healthz", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		if deps.Sessions != nil {
			resp.Sessions = deps.Sessions.Len()
		}
		status := http.StatusOK
		if deps.Health != nil {
			if err := deps.Health.Probe(ctx); err != nil {
				logger.Error("health probe failed", zap.Error(err))
				status = http.StatusServiceUnavailable
				resp.Status = "degraded"
				resp.Error = err.Error()
			}
		}
		return c.JSON(status, resp)
	})

	if deps.DataDir != "" {
		e.Static("/data", deps.DataDir)
	}

	if deps.Sessions != nil {
		api := NewAPIHandlers(deps.Sessions)
		events := newEventsHandler(deps.Sessions, deps.AllowedOrigins, logger)

		pages := e.Group("/api/v1/pages")
		pages.POST("", api.createPage)
		pages.GET("/:id", api.getPage)
		pages.DELETE("/:id", api.deletePage)
		pages.POST("/:id/reload", api.reloadPage)
		pages.GET("/:id/view", api.getView)
		pages.PUT("/:id/layout", api.putLayout)
		pages.POST("/:id/brush", api.postBrush)
		pages.POST("/:id/select", api.postSelect)
		pages.POST("/:id/hover", api.postHover)
		pages.POST("/:id/zoom", api.postZoom)
		pages.GET("/:id/events", events.serve)
	}

	return e
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request completed",
				zap.String("method", v.Method),
				zap.String("path", v.URI),
				zap.Int("status", v.Status),
				zap.Int64("duration_ms", v.Latency.Milliseconds()),
			)
			return nil
		},
	})
}
