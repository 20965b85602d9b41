// Copyright © 2025-2026 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// admission-server hosts a small gin and grpc application with
// admission control applied at the controller, service and grpc
// method level.
package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/go-core-stack/admission/admission"
	"github.com/go-core-stack/admission/config"
	"github.com/go-core-stack/admission/errors"
	"github.com/go-core-stack/admission/interceptor"
	"github.com/go-core-stack/admission/key"
	"github.com/go-core-stack/admission/model"
	"github.com/go-core-stack/admission/rate"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	svc, err := newAdmission(cfg, logger)
	if err != nil {
		return err
	}

	gctx, err := model.NewGrpcServerContext(model.GrpcServerConfig{
		Endpoint:    dialTarget(cfg.GrpcListenAddr),
		Admission:   svc,
		Interceptor: []interceptor.Option{interceptor.WithSkip("/grpc.health.v1.Health/Watch")},
	})
	if err != nil {
		return err
	}
	defer gctx.Close()

	grpcLis, err := net.Listen("tcp", cfg.GrpcListenAddr)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           newEngine(svc, gctx, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("grpc server listening", "addr", grpcLis.Addr().String())
		return gctx.Server.Serve(grpcLis)
	})
	g.Go(func() error {
		logger.Info("http server listening", "addr", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		gctx.Server.GracefulStop()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newAdmission(cfg config.Config, logger *slog.Logger) (*admission.Service, error) {
	factory, err := cfg.Factory()
	if err != nil {
		return nil, err
	}
	registry, err := rate.NewRegistry[key.Key](factory)
	if err != nil {
		return nil, err
	}
	providers, err := cfg.Providers()
	if err != nil {
		return nil, err
	}
	resolver, err := key.NewResolver(providers...)
	if err != nil {
		return nil, err
	}
	logger.Info("admission control configured",
		"permits", cfg.Permits,
		"period", cfg.Period.String(),
		"algorithm", cfg.Algorithm,
		"providers", cfg.KeyProviders,
	)
	return admission.NewService(resolver, registry, admission.WithLogger(logger))
}

func newEngine(svc *admission.Service, gctx *model.GrpcServerContext, logger *slog.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))

	ls := &limitedService{svc: svc}
	api := engine.Group("/api")
	api.GET("/limit/controller",
		interceptor.Gin(svc, interceptor.WithCallSite("LimitedController", "controller")),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "controller invoked"})
		})
	api.GET("/limit/service", func(c *gin.Context) {
		if err := ls.limitedMethod(c.Request.RemoteAddr); err != nil {
			status, reason := http.StatusInternalServerError, "RATE_LIMIT_KEY_UNRESOLVED"
			if errors.IsResourceExhausted(err) {
				status, reason = http.StatusTooManyRequests, "RATE_LIMITED"
			}
			c.AbortWithStatusJSON(status, gin.H{"code": reason, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "service invoked"})
	})
	api.GET("/unlimited", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "unlimited invoked"})
	})

	engine.GET("/healthz", gin.WrapH(gctx.Mux))
	engine.Any("/v1/*path", gin.WrapH(gctx.Mux))
	return engine
}

// limitedService admits its own invocations, whichever handler calls it
type limitedService struct {
	svc *admission.Service
}

func (s *limitedService) limitedMethod(remoteAddr string) error {
	return s.svc.Admit(&key.Invocation{
		RemoteAddr: remoteAddr,
		Service:    "LimitedService",
		Method:     "limitedMethod",
	})
}

// requestLogger tags every request with an id and logs it once served
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-Id", id)
		start := time.Now()

		c.Next()

		logger.Info("request served",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// dialTarget turns a listen address into one the gateway client can
// dial, ":9090" becomes "localhost:9090".
func dialTarget(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return listen
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}
