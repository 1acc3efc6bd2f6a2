package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/czttgd/breakinfo/internal/config"
	"github.com/czttgd/breakinfo/internal/diaglog"
	inspectiondomain "github.com/czttgd/breakinfo/internal/inspection/domain"
	lookupdomain "github.com/czttgd/breakinfo/internal/lookup/domain"
	"github.com/czttgd/breakinfo/internal/observability"
	obslogger "github.com/czttgd/breakinfo/internal/observability/logger"
	obsmetrics "github.com/czttgd/breakinfo/internal/observability/metrics"
	obstracing "github.com/czttgd/breakinfo/internal/observability/tracing"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, obsCfg observability.Config, log *zap.Logger, httpMetrics *obsmetrics.Metrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log, obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(cors.New(corsConfig(cfg.CORS)))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", obslogger.HeaderRequestID},
		ExposeHeaders: []string{obslogger.HeaderRequestID, "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || slices.Contains(cfg.AllowedOrigins, "*") {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.AllowedOrigins
	}
	return cc
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
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

// LogStore persists uploaded diagnostic logs.
type LogStore interface {
	Save(ctx context.Context, r io.Reader) (diaglog.Saved, error)
	MaxBytes() int64
}

type Params struct {
	fx.In

	Engine        *gin.Engine
	Cfg           config.Config
	Log           *zap.Logger
	InspectionSvc inspectiondomain.Service
	LookupRepo    lookupdomain.Repository
	LogStore      *diaglog.Store
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	log           *zap.Logger
	inspectionSvc inspectiondomain.Service
	lookupRepo    lookupdomain.Repository
	logStore      LogStore
}

func NewServer(p Params) *Server {
	s := &Server{
		engine:        p.Engine,
		cfg:           p.Cfg,
		log:           p.Log.Named("http"),
		inspectionSvc: p.InspectionSvc,
		lookupRepo:    p.LookupRepo,
		logStore:      p.LogStore,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}
