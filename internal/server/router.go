package server

import (
	"auction-lifecycle/internal/ratelimit"
	handler "auction-lifecycle/services/lifecycle/handler"
	"auction-lifecycle/utils"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application. A nil limiter disables rate
// limiting on the trigger. Client IPs come from forwarding headers only when the peer is one of
// trustedProxies (IPs or CIDRs); nil trusts none.
func SetupRouter(service handler.LifecycleServiceInterface, cronSecret string, limiter ratelimit.Limiter, trustedProxies []string) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		utils.Warn("invalid trusted proxies, trusting none", map[string]any{"error": err.Error()})
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	lifecycleHandler := handler.NewLifecycleHandler(service)

	router.GET("/healthz", lifecycleHandler.HealthHandler)

	// only authenticated calls spend the limiter budget
	cron := router.Group("/api/cron", BearerAuth(cronSecret))
	if limiter != nil {
		cron.Use(RateLimitMiddleware(limiter))
	}
	{
		cron.POST("/auctions", lifecycleHandler.RunPassHandler)
		cron.GET("/auctions", lifecycleHandler.RunPassHandler)
	}

	auctions := router.Group("/auctions")
	{
		auctions.GET("/:auction_id", lifecycleHandler.GetAuctionHandler)
		auctions.GET("/:auction_id/leading-bid", lifecycleHandler.GetLeadingBidHandler)
	}

	return router
}
