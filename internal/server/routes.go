package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RegisterRoutes configures all API routes, middleware, and error handlers
func RegisterRoutes(e *echo.Echo, h *Handlers, cfg ServerConfig) {
	// Set custom error handler for consistent JSON responses
	e.HTTPErrorHandler = NotFoundJSON()

	// Apply global middleware
	e.Use(SetJSONContentType) // Ensure all responses are JSON
	e.Use(SetNoCacheHeaders)  // Prevent caching of API responses

	// Optional API key authentication
	if cfg.APIKey != "" {
		e.Use(middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
			KeyLookup: "header:X-API-Key", // Look for API key in X-API-Key header
			Validator: func(key string, c echo.Context) (bool, error) {
				return key == cfg.APIKey, nil // Simple string comparison
			},
		}))
	}

	// API v1 routes
	v1 := e.Group("/v1")
	v1.GET("/health", h.Health)                         // Health check endpoint
	v1.GET("/pools", h.PoolsList)                       // All pools owned by the program
	v1.GET("/pools/:mintA/:mintB", h.PoolGet)           // Single pool by mint pair
	v1.GET("/pools/:mintA/:mintB/events", h.PoolEvents) // Event history for one pool
	v1.GET("/events/recent", h.RecentEvents)            // Recent pool events

	// Quote endpoints hit the RPC node on every request, so they are rate
	// limited.
	quoteGroup := v1.Group("/quote")
	quoteGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(2), // 2 requests per second
		Burst:     5,             // Allow burst of 5 requests
		ExpiresIn: 2 * time.Minute,
	})))
	quoteGroup.GET("/swap", h.QuoteSwap)     // Swap quote
	quoteGroup.GET("/add", h.QuoteAdd)       // Add-liquidity quote
	quoteGroup.GET("/remove", h.QuoteRemove) // Remove-liquidity quote

	// Catch-all route for 404 responses
	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found", Code: http.StatusNotFound})
	})
}
