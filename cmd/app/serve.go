package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"greensteps/config"
	"greensteps/internal/application"
	"greensteps/internal/badge"
	"greensteps/internal/catalog"
	"greensteps/internal/domain"
	"greensteps/internal/infrastructure/cache"
	"greensteps/internal/infrastructure/repository"
	"greensteps/internal/logger"
	"greensteps/internal/middleware"
	handlers "greensteps/internal/transport/http"
	grpc_server "greensteps/internal/transport/grpc"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// store is what serve needs from a repository implementation.
type store interface {
	application.Store
	Ping(ctx context.Context) error
}

func runServe(cmd *cobra.Command, args []string) error {
	// 1. Config and logging
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Seed catalog and badge rules
	seed, err := catalog.Default()
	if err != nil {
		return err
	}
	evaluator, err := badge.NewEvaluator(seed.Definitions())
	if err != nil {
		return err
	}

	// 3. Storage, with the catalog cached in redis when both are available
	units := domain.Units{Electricity: cfg.ElectricityUnit, Water: cfg.WaterUnit}
	st, err := openStore(ctx, cfg, seed, units)
	if err != nil {
		return err
	}
	rdb := openRedis(ctx, cfg.RedisAddr)
	if rdb != nil {
		defer rdb.Close()
		if cfg.StorageDriver == config.DriverPostgres {
			st = cache.NewCatalogCache(st, rdb, 10*time.Minute)
		}
	}

	uc := application.NewHabitUseCase(st, evaluator, seed.Settings, application.WithLocation(loc))

	user, err := uc.User(ctx, cfg.DefaultUserID)
	if err != nil {
		return fmt.Errorf("default user %d: %w", cfg.DefaultUserID, err)
	}
	logger.Info("acting as default user", "id", user.ID, "username", user.Username)

	if cfg.SeedSampleData {
		if err := uc.SeedSampleData(ctx, user.ID); err != nil {
			return fmt.Errorf("seeding sample data: %w", err)
		}
	}

	// 4. Rate limiting
	limiter := middleware.NewRateLimiter(rdb)

	// 5. HTTP server
	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(uc, limiter, handlers.RouterConfig{
		AllowedOrigins:  cfg.Origins(),
		UserID:          user.ID,
		WritesPerMinute: cfg.RateLimitPerMinute,
	})
	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http api listening", "addr", cfg.Port, "store", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	// 6. Optional gRPC health endpoint
	var ops *grpc_server.OpsServer
	if cfg.GRPCPort != "" {
		lis, err := net.Listen("tcp", cfg.GRPCPort)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", cfg.GRPCPort, err)
		}
		ops = grpc_server.NewOpsServer(st.Ping)
		g.Go(func() error { return ops.Serve(lis) })
		g.Go(func() error {
			ops.Watch(gctx, 15*time.Second)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if ops != nil {
			ops.GracefulStop()
		}
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStore(ctx context.Context, cfg config.Config, seed *catalog.Seed, units domain.Units) (store, error) {
	if cfg.StorageDriver != config.DriverPostgres {
		logger.Info("using in-memory store; data is lost on restart")
		return repository.NewMemoryStore(seed, repository.WithUnits(units)), nil
	}

	db, err := repository.OpenPostgres(repository.DSN(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName))
	if err != nil {
		return nil, err
	}
	pg, err := repository.NewPostgresStore(ctx, db, seed, units)
	if err != nil {
		return nil, err
	}
	return pg, nil
}

// openRedis returns nil when addr is empty or redis is unreachable; the
// limiter then lets every request through.
func openRedis(ctx context.Context, addr string) *redis.Client {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, rate limiting and catalog cache disabled", "addr", addr, "err", err)
		_ = rdb.Close()
		return nil
	}
	logger.Info("connected to redis", "addr", addr)
	return rdb
}
