package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/forecourt/internal/anomaly"
	anomalydomain "github.com/smallbiznis/forecourt/internal/anomaly/domain"
	"github.com/smallbiznis/forecourt/internal/config"
	"github.com/smallbiznis/forecourt/internal/pump"
	pumpdomain "github.com/smallbiznis/forecourt/internal/pump/domain"
	"github.com/smallbiznis/forecourt/internal/purchase"
	purchasedomain "github.com/smallbiznis/forecourt/internal/purchase/domain"
	"github.com/smallbiznis/forecourt/internal/reconciliation"
	reconciliationdomain "github.com/smallbiznis/forecourt/internal/reconciliation/domain"
	"github.com/smallbiznis/forecourt/internal/sale"
	saledomain "github.com/smallbiznis/forecourt/internal/sale/domain"
	"github.com/smallbiznis/forecourt/internal/shift"
	shiftdomain "github.com/smallbiznis/forecourt/internal/shift/domain"
	"github.com/smallbiznis/forecourt/internal/tank"
	tankdomain "github.com/smallbiznis/forecourt/internal/tank/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	tank.Module,
	pump.Module,
	sale.Module,
	purchase.Module,
	shift.Module,
	reconciliation.Module,
	anomaly.Module,
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log.Named("http")))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server) {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: s.Engine(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
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
	engine            *gin.Engine
	cfg               config.Config
	db                *gorm.DB
	genID             *snowflake.Node
	tankSvc           tankdomain.Service
	pumpSvc           pumpdomain.Service
	saleSvc           saledomain.Service
	purchaseSvc       purchasedomain.Service
	shiftSvc          shiftdomain.Service
	reconciliationSvc reconciliationdomain.Service
	anomalySvc        anomalydomain.Service
}

type ServerParams struct {
	fx.In

	Gin               *gin.Engine
	Cfg               config.Config
	DB                *gorm.DB
	GenID             *snowflake.Node
	TankSvc           tankdomain.Service
	PumpSvc           pumpdomain.Service
	SaleSvc           saledomain.Service
	PurchaseSvc       purchasedomain.Service
	ShiftSvc          shiftdomain.Service
	ReconciliationSvc reconciliationdomain.Service
	AnomalySvc        anomalydomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:            p.Gin,
		cfg:               p.Cfg,
		db:                p.DB,
		genID:             p.GenID,
		tankSvc:           p.TankSvc,
		pumpSvc:           p.PumpSvc,
		saleSvc:           p.SaleSvc,
		purchaseSvc:       p.PurchaseSvc,
		shiftSvc:          p.ShiftSvc,
		reconciliationSvc: p.ReconciliationSvc,
		anomalySvc:        p.AnomalySvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.POST("/tanks", s.CreateTank)
	api.GET("/tanks", s.ListTanks)
	api.GET("/tanks/:id", s.GetTankByID)

	api.POST("/pumps", s.CreatePump)
	api.GET("/pumps", s.ListPumps)
	api.GET("/pumps/:id", s.GetPumpByID)

	api.POST("/sales", s.RecordSale)

	api.POST("/purchases", s.RecordPurchase)

	api.POST("/shifts", s.OpenShift)
	api.GET("/shifts/active", s.GetActiveShift)
	api.GET("/shifts/:id", s.GetShiftByID)
	api.GET("/shifts/:id/summary", s.GetShiftSummary)
	api.GET("/shifts/:id/sales", s.ListShiftSales)
	api.POST("/shifts/:id/close", s.CloseShift)

	api.GET("/reports/fuel-reconciliation", s.FuelReconciliationReport)
	api.GET("/reports/daily-reconciliation", s.DailyReconciliationReport)
	api.GET("/reports/pump-reconciliation", s.PumpReconciliationReport)

	api.GET("/anomalies", s.DetectAnomalies)
}
