package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	appmiddleware "briefcard/middleware"
)

// NewHTTPServer creates and configures the Echo HTTP server.
func NewHTTPServer(deps *Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Custom error handler for consistent error responses
	e.HTTPErrorHandler = appmiddleware.CustomHTTPErrorHandler(deps.Logger)

	// Middleware
	e.Use(appmiddleware.RequestIDMiddleware())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			deps.Logger.InfoContext(ctx, "HTTP request completed",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"error", v.Error)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Health and webhook stay open; the messaging platform signs its own
	// requests and the webhook handler validates that signature itself.
	e.GET("/health", deps.HealthHandler.HandleHealth)
	e.POST("/webhook/line", deps.WebhookHandler.HandleWebhook)

	// API routes
	api := e.Group("/api/v1")
	api.Use(appmiddleware.JWTAuth(deps.Config.Frontend.AuthSecret))
	api.POST("/bookmarks", deps.BookmarkHandler.HandleCreate)
	api.GET("/bookmarks/history", deps.BookmarkHandler.HandleHistory)
	api.GET("/bookmarks/search", deps.BookmarkHandler.HandleSearch)
	api.GET("/bookmarks/stats", deps.BookmarkHandler.HandleStats)
	api.GET("/bookmarks/:id", deps.BookmarkHandler.HandleGet)
	api.PATCH("/bookmarks/:id", deps.BookmarkHandler.HandleUpdate)
	api.GET("/folders", deps.FolderHandler.HandleList)
	api.POST("/folders", deps.FolderHandler.HandleCreate)
	api.POST("/cards/send", deps.BookmarkHandler.HandleSendCard)

	return e
}

// StartHTTPServer starts the HTTP server in a goroutine.
func StartHTTPServer(e *echo.Echo, port int, log *slog.Logger) {
	go func() {
		addr := fmt.Sprintf(":%d", port)
		log.Info("Starting HTTP server", "port", port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()
}
