package bootstrap

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/locvowork/brandsheet/internal/config"
	"github.com/locvowork/brandsheet/internal/handler"
	"github.com/locvowork/brandsheet/internal/logger"
	"github.com/locvowork/brandsheet/pkg/brandxl"
)

type App struct {
	Echo *echo.Echo
	Port string
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if config.DefaultEnvConfig == nil {
		if err := config.LoadEnvConfig(); err != nil {
			return fmt.Errorf("failed to load env config: %w", err)
		}
	}
	cfg := config.DefaultEnvConfig

	logger.InitLogging(cfg.LOG_FILE_PATH, cfg.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	renderHandler := handler.NewRenderHandler(
		brandxl.WithInsightsSheet(cfg.INSIGHTS_SHEET),
		brandxl.WithChartAnchor(cfg.CHART_ANCHOR),
		brandxl.WithWorkers(cfg.REBRAND_WORKERS),
	)

	if a.Port == "" {
		a.Port = cfg.APP_PORT
	}

	a.RegisterMiddlewares()
	a.RegisterRoutes(renderHandler)

	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.HideBanner = true
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
	a.Echo.Use(middleware.BodyLimit("32M"))
}

func (a *App) RegisterRoutes(h *handler.RenderHandler) {
	a.Echo.GET("/healthz", h.HealthHandler)
	a.Echo.POST("/render", h.RenderHandler)
	a.Echo.POST("/validate", h.ValidateHandler)
}

// Run serves until ctx is cancelled, then shuts the server down.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Echo.Start(":" + a.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.InfoLog(ctx, "shutting down render service")
		return a.Echo.Shutdown(context.Background())
	}
}
