package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	availabilitydomain "github.com/smallbiznis/pizzaria/internal/availability/domain"
	"github.com/smallbiznis/pizzaria/internal/config"
	ingredientdomain "github.com/smallbiznis/pizzaria/internal/ingredient/domain"
	"github.com/smallbiznis/pizzaria/internal/liveevents"
	machinedomain "github.com/smallbiznis/pizzaria/internal/machine/domain"
	maintenancedomain "github.com/smallbiznis/pizzaria/internal/maintenance/domain"
	menudomain "github.com/smallbiznis/pizzaria/internal/menu/domain"
	"github.com/smallbiznis/pizzaria/internal/observability"
	obsmiddleware "github.com/smallbiznis/pizzaria/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/pizzaria/internal/observability/metrics"
	obstracing "github.com/smallbiznis/pizzaria/internal/observability/tracing"
	orderdomain "github.com/smallbiznis/pizzaria/internal/order/domain"
	"github.com/smallbiznis/pizzaria/internal/ratelimit"
	stockledgerdomain "github.com/smallbiznis/pizzaria/internal/stockledger/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(RunHTTP),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	orderSvc       orderdomain.Service
	menuSvc        menudomain.Service
	availability   availabilitydomain.Service
	ingredientSvc  ingredientdomain.Service
	machineSvc     machinedomain.Service
	maintenanceSvc maintenancedomain.Service
	ledgerSvc      stockledgerdomain.Service
	liveEvents     *liveevents.Hub
	obsMetrics     *obsmetrics.Metrics
	orderLimiter   orderLimiter
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	OrderSvc       orderdomain.Service
	MenuSvc        menudomain.Service
	Availability   availabilitydomain.Service
	IngredientSvc  ingredientdomain.Service
	MachineSvc     machinedomain.Service
	MaintenanceSvc maintenancedomain.Service
	LedgerSvc      stockledgerdomain.Service
	LiveEvents     *liveevents.Hub          `optional:"true"`
	ObsMetrics     *obsmetrics.Metrics      `optional:"true"`
	OrderLimiter   *ratelimit.OrderLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		orderSvc:       p.OrderSvc,
		menuSvc:        p.MenuSvc,
		availability:   p.Availability,
		ingredientSvc:  p.IngredientSvc,
		machineSvc:     p.MachineSvc,
		maintenanceSvc: p.MaintenanceSvc,
		ledgerSvc:      p.LedgerSvc,
		liveEvents:     p.LiveEvents,
		obsMetrics:     p.ObsMetrics,
	}
	if p.OrderLimiter != nil {
		svc.orderLimiter = p.OrderLimiter
	}

	svc.registerAPIRoutes()
	svc.registerAdminRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Menu --------
	api.GET("/pizzas", s.ListPizzas)
	api.GET("/complements", s.ListComplements)

	// -------- Orders --------
	api.GET("/orders", s.ListOrders)
	api.POST("/orders", s.OrderRateLimit(), s.CreateOrder)
	api.GET("/orders/:id", s.GetOrderByID)
	api.PUT("/orders/:id", s.UpdateOrderStatus)

	// -------- Kitchen --------
	api.GET("/ingredients", s.ListIngredients)
	api.PUT("/ingredients", s.UpdateIngredientStock)
	api.GET("/machines", s.ListMachines)
	api.PUT("/machines", s.UpdateMachine)
	api.POST("/machines/maintenance", s.RunMaintenanceSweep)

	api.GET("/events", s.StreamKitchenEvents)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/api/admin")

	admin.POST("/pizzas", s.CreatePizza)
	admin.PUT("/pizzas/:id", s.ReplacePizza)
	admin.DELETE("/pizzas/:id", s.DeletePizza)

	admin.POST("/complements", s.CreateComplement)
	admin.PUT("/complements/:id", s.ReplaceComplement)
	admin.DELETE("/complements/:id", s.DeleteComplement)

	admin.GET("/stock-adjustments", s.ListStockAdjustments)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
