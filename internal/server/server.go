package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smitnayi/metamorph-inventory/internal/analytics"
	analyticsdomain "github.com/smitnayi/metamorph-inventory/internal/analytics/domain"
	"github.com/smitnayi/metamorph-inventory/internal/auth"
	authdomain "github.com/smitnayi/metamorph-inventory/internal/auth/domain"
	"github.com/smitnayi/metamorph-inventory/internal/auth/session"
	"github.com/smitnayi/metamorph-inventory/internal/authorization"
	"github.com/smitnayi/metamorph-inventory/internal/config"
	"github.com/smitnayi/metamorph-inventory/internal/dashboard"
	dashboardservice "github.com/smitnayi/metamorph-inventory/internal/dashboard/service"
	"github.com/smitnayi/metamorph-inventory/internal/observability"
	obsmiddleware "github.com/smitnayi/metamorph-inventory/internal/observability/logger"
	obsmetrics "github.com/smitnayi/metamorph-inventory/internal/observability/metrics"
	obstracing "github.com/smitnayi/metamorph-inventory/internal/observability/tracing"
	"github.com/smitnayi/metamorph-inventory/internal/powder"
	powderdomain "github.com/smitnayi/metamorph-inventory/internal/powder/domain"
	"github.com/smitnayi/metamorph-inventory/internal/production"
	productiondomain "github.com/smitnayi/metamorph-inventory/internal/production/domain"
	"github.com/smitnayi/metamorph-inventory/internal/profile"
	profiledomain "github.com/smitnayi/metamorph-inventory/internal/profile/domain"
	"github.com/smitnayi/metamorph-inventory/internal/qc"
	qcdomain "github.com/smitnayi/metamorph-inventory/internal/qc/domain"
	"github.com/smitnayi/metamorph-inventory/internal/ratelimit"
	"github.com/smitnayi/metamorph-inventory/internal/utility"
	utilitydomain "github.com/smitnayi/metamorph-inventory/internal/utility/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	auth.Module,
	profile.Module,
	authorization.Module,
	powder.Module,
	production.Module,
	qc.Module,
	utility.Module,
	analytics.Module,
	dashboard.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
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

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
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
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	genID         *snowflake.Node
	sessions      *session.Manager
	authsvc       authdomain.Service
	profileSvc    profiledomain.Service
	authzSvc      authorization.Service
	powderSvc     powderdomain.Service
	productionSvc productiondomain.Service
	qcSvc         qcdomain.Service
	utilitySvc    utilitydomain.Service
	analyticsSvc  analyticsdomain.Service
	dashboardSvc  dashboardservice.Service
	submitLimiter *ratelimit.ReadingSubmitLimiter
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	GenID         *snowflake.Node
	Sessions      *session.Manager
	Authsvc       authdomain.Service
	ProfileSvc    profiledomain.Service
	AuthzSvc      authorization.Service
	PowderSvc     powderdomain.Service
	ProductionSvc productiondomain.Service
	QCSvc         qcdomain.Service
	UtilitySvc    utilitydomain.Service
	AnalyticsSvc  analyticsdomain.Service
	DashboardSvc  dashboardservice.Service
	SubmitLimiter *ratelimit.ReadingSubmitLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		genID:         p.GenID,
		sessions:      p.Sessions,
		authsvc:       p.Authsvc,
		profileSvc:    p.ProfileSvc,
		authzSvc:      p.AuthzSvc,
		powderSvc:     p.PowderSvc,
		productionSvc: p.ProductionSvc,
		qcSvc:         p.QCSvc,
		utilitySvc:    p.UtilitySvc,
		analyticsSvc:  p.AnalyticsSvc,
		dashboardSvc:  p.DashboardSvc,
		submitLimiter: p.SubmitLimiter,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	authGroup := s.engine.Group("/auth")

	authGroup.POST("/register", s.Register)
	authGroup.POST("/login", s.Login)
	authGroup.POST("/logout", s.Logout)
	authGroup.GET("/me", s.AuthRequired(), s.CurrentUser)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.AuthRequired())

	powders := api.Group("/powders")
	powders.GET("", s.requireAuthorized(authorization.ObjectPowder, authorization.ActionView), s.ListPowders)
	powders.GET("/stats", s.requireAuthorized(authorization.ObjectPowder, authorization.ActionView), s.PowderStats)
	powders.GET("/:id", s.requireAuthorized(authorization.ObjectPowder, authorization.ActionView), s.GetPowder)
	powders.POST("", s.requireAuthorized(authorization.ObjectPowder, authorization.ActionCreate), s.CreatePowder)
	powders.PATCH("/:id", s.requireAuthorized(authorization.ObjectPowder, authorization.ActionUpdate), s.UpdatePowder)
	powders.DELETE("/:id", s.requireAuthorized(authorization.ObjectPowder, authorization.ActionDelete), s.DeletePowder)

	orders := api.Group("/orders")
	orders.GET("", s.requireAuthorized(authorization.ObjectProduction, authorization.ActionView), s.ListOrders)
	orders.GET("/:id", s.requireAuthorized(authorization.ObjectProduction, authorization.ActionView), s.GetOrder)
	orders.POST("", s.requireAuthorized(authorization.ObjectProduction, authorization.ActionCreate), s.CreateOrder)
	orders.PATCH("/:id", s.requireAuthorized(authorization.ObjectProduction, authorization.ActionUpdate), s.UpdateOrder)
	orders.POST("/:id/transition", s.requireAuthorized(authorization.ObjectProduction, authorization.ActionProductionTransition), s.TransitionOrder)
	orders.DELETE("/:id", s.requireAuthorized(authorization.ObjectProduction, authorization.ActionDelete), s.DeleteOrder)
	orders.GET("/:id/utilities", s.requireAuthorized(authorization.ObjectUtility, authorization.ActionView), s.OrderUtilitiesDetail)
	orders.PUT("/:id/utilities", s.requireAuthorized(authorization.ObjectUtility, authorization.ActionUtilitySubmit), s.RecordOrderUtilities)

	logs := api.Group("/production-logs")
	logs.GET("", s.requireAuthorized(authorization.ObjectProduction, authorization.ActionView), s.ListProductionLogs)
	logs.POST("", s.requireAuthorized(authorization.ObjectProduction, authorization.ActionCreate), s.CreateProductionLog)
	logs.DELETE("/:id", s.requireAuthorized(authorization.ObjectProduction, authorization.ActionDelete), s.DeleteProductionLog)

	reports := api.Group("/qc-reports")
	reports.GET("", s.requireAuthorized(authorization.ObjectQC, authorization.ActionView), s.ListQCReports)
	reports.GET("/pass-rate", s.requireAuthorized(authorization.ObjectQC, authorization.ActionView), s.QCPassRate)
	reports.GET("/:id", s.requireAuthorized(authorization.ObjectQC, authorization.ActionView), s.GetQCReport)
	reports.POST("", s.requireAuthorized(authorization.ObjectQC, authorization.ActionCreate), s.CreateQCReport)
	reports.PATCH("/:id", s.requireAuthorized(authorization.ObjectQC, authorization.ActionUpdate), s.UpdateQCReport)
	reports.DELETE("/:id", s.requireAuthorized(authorization.ObjectQC, authorization.ActionDelete), s.DeleteQCReport)

	utilities := api.Group("/utilities")
	utilities.GET("/today", s.requireAuthorized(authorization.ObjectUtility, authorization.ActionView), s.UtilityToday)
	utilities.GET("/daily", s.requireAuthorized(authorization.ObjectUtility, authorization.ActionView), s.UtilityRange)
	utilities.GET("/daily/:date", s.requireAuthorized(authorization.ObjectUtility, authorization.ActionView), s.UtilityByDate)
	utilities.PUT("/daily/:date", s.requireAuthorized(authorization.ObjectUtility, authorization.ActionUtilitySubmit), s.UpsertDaily)
	utilities.POST("/daily/:date/recompute", s.requireAuthorized(authorization.ObjectUtility, authorization.ActionUtilityRecompute), s.RecomputeDate)
	utilities.GET("/readings", s.requireAuthorized(authorization.ObjectUtility, authorization.ActionView), s.ListReadings)
	utilities.GET("/readings/latest", s.requireAuthorized(authorization.ObjectUtility, authorization.ActionView), s.LatestReading)
	utilities.POST("/readings", s.requireAuthorized(authorization.ObjectUtility, authorization.ActionUtilitySubmit), s.SubmitReading)
	utilities.GET("/duplicates", s.requireAuthorized(authorization.ObjectUtility, authorization.ActionUtilityRepair), s.ListDuplicateDates)
	utilities.POST("/duplicates/:date/resolve", s.requireAuthorized(authorization.ObjectUtility, authorization.ActionUtilityRepair), s.ResolveDuplicateDate)

	analyticsGroup := api.Group("/analytics")
	analyticsGroup.GET("/daily", s.requireAuthorized(authorization.ObjectAnalytics, authorization.ActionView), s.AnalyticsDailyWindow)
	analyticsGroup.GET("/monthly", s.requireAuthorized(authorization.ObjectAnalytics, authorization.ActionView), s.AnalyticsMonthly)

	api.GET("/dashboard", s.requireAuthorized(authorization.ObjectDashboard, authorization.ActionView), s.DashboardOverview)

	users := api.Group("/users")
	users.GET("", s.requireAuthorized(authorization.ObjectUser, authorization.ActionView), s.ListUsers)
	users.PUT("/:id/role", s.requireAuthorized(authorization.ObjectUser, authorization.ActionUserManage), s.SetUserRole)
	users.POST("/profiles/backfill", s.requireAuthorized(authorization.ObjectUser, authorization.ActionUserManage), s.BackfillProfiles)
}
