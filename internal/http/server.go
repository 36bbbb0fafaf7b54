// README: HTTP server; registers routes and delegates to module services.
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"taxigo/internal/auth"
	"taxigo/internal/http/handlers"
	"taxigo/internal/http/middleware"
	"taxigo/internal/modules/catalog"
	"taxigo/internal/modules/customer"
	"taxigo/internal/modules/fleet"
	"taxigo/internal/modules/order"
	"taxigo/internal/modules/pricing"
	"taxigo/internal/modules/review"
)

type ServerDeps struct {
	Catalog    *catalog.Service
	Pricing    *pricing.Service
	Fleet      *fleet.Service
	Customer   *customer.Service
	Order      *order.Service
	Review     *review.Service
	JWT        *auth.JWTService
	Logger     *zap.Logger
	Production bool
}

// NewEngine builds the gin engine with all routes registered.
func NewEngine(deps ServerDeps) *gin.Engine {
	if deps.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.Metrics())

	site := handlers.NewSiteHandler(deps.Catalog, deps.Pricing, deps.Fleet)
	r.GET("/", site.Index)
	r.GET("/drivers/", site.Drivers)
	r.GET("/calculate/", site.Calculate)
	r.GET("/payment-methods/", site.PaymentMethods)

	orderHandler := handlers.NewOrderHandler(deps.Order, deps.Logger)
	r.GET("/order/", orderHandler.ListRecent)
	r.POST("/order/", orderHandler.Create)
	r.GET("/order/:order_id/", orderHandler.Get)
	r.POST("/order/:order_id/cancel/", orderHandler.Cancel)
	r.GET("/payment/:order_id/", orderHandler.GetPayment)
	r.POST("/process_payment/:order_id/", orderHandler.ProcessPayment)

	reviewHandler := handlers.NewReviewHandler(deps.Review, deps.Logger)
	r.GET("/reviews/", reviewHandler.List)
	r.GET("/reviews/:order_id/", reviewHandler.GetByOrder)
	r.POST("/reviews/:order_id/", reviewHandler.Submit)

	accountHandler := handlers.NewAccountHandler(deps.Customer, deps.JWT, deps.Logger)
	r.POST("/register/", accountHandler.Register)
	r.POST("/login/", accountHandler.Login)
	r.GET("/profile/", middleware.Auth(deps.JWT), accountHandler.Profile)

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
