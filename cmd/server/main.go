package main

import (
	"context"
	"database/sql"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/logger"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"

	"github.com/rl1809/prize-roulette/internal/adapter/handler"
	"github.com/rl1809/prize-roulette/internal/adapter/storage"
	"github.com/rl1809/prize-roulette/internal/config"
	"github.com/rl1809/prize-roulette/internal/core/service"
	"github.com/rl1809/prize-roulette/internal/port"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	defer logger.Init("roulette", err != nil || cfg.Log.Verbose, false, os.Stderr).Close()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalog, err := cfg.Roulette.Catalog()
	if err != nil {
		logger.Fatalf("invalid catalog: %v", err)
	}

	var (
		rdb    *redis.Client
		db     *sql.DB
		store  port.StockStore
		guard  port.ParticipationGuard
		mirror *storage.MySQLAdapter
	)

	if cfg.Roulette.Store == config.StoreMySQL || cfg.Roulette.Mirror {
		db, err = sql.Open("mysql", cfg.MySQL.DSN)
		if err != nil {
			logger.Fatalf("failed to connect mysql: %v", err)
		}
		db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

		if err := db.PingContext(ctx); err != nil {
			logger.Fatalf("failed to ping mysql: %v", err)
		}
		logger.Info("connected to mysql")
	}

	if cfg.Roulette.Store == config.StoreRedis {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatalf("failed to connect redis: %v", err)
		}
		logger.Info("connected to redis")
	}

	memory := storage.NewMemoryAdapter()
	switch cfg.Roulette.Store {
	case config.StoreRedis:
		store = storage.NewRedisAdapter(rdb, cfg.Roulette.ParticipantTTL)
	case config.StoreMySQL:
		store = storage.NewMySQLAdapter(db)
	default:
		store = memory
	}

	if cfg.Roulette.OneSpinPerParticipant {
		if rdb != nil {
			guard = storage.NewRedisAdapter(rdb, cfg.Roulette.ParticipantTTL)
		} else {
			guard = memory
		}
	}

	var opts []service.EngineOption
	opts = append(opts, service.WithSeedPolicy(service.SeedPolicy(cfg.Roulette.SeedPolicy)))
	if cfg.Roulette.Seed != 0 {
		opts = append(opts, service.WithRandomSource(service.NewSeededRNG(cfg.Roulette.Seed)))
	}

	engine := service.NewEngine(catalog, store, opts...)
	if err := engine.Seed(ctx); err != nil {
		logger.Fatalf("failed to seed stock: %v", err)
	}

	rouletteCfg := service.RouletteConfig{
		SpinDelay: cfg.Roulette.SpinDelay,
		Guard:     guard,
	}

	if cfg.Roulette.Mirror {
		mirror = storage.NewMySQLAdapter(db)
		// the mirror starts from the same stock as the hot store
		for _, p := range catalog.Limited() {
			remaining, ok, err := store.ReadStock(ctx, string(p.Kind))
			if err != nil {
				logger.Fatalf("failed to read stock %s: %v", p.Kind, err)
			}
			if !ok {
				continue
			}
			if cfg.Roulette.SeedPolicy == string(service.SeedOverwrite) {
				err = mirror.SetStock(ctx, string(p.Kind), remaining)
			} else {
				_, err = mirror.SeedStock(ctx, string(p.Kind), remaining)
			}
			if err != nil {
				logger.Fatalf("failed to seed mirror %s: %v", p.Kind, err)
			}
		}
		rouletteCfg.CommitQueueSize = cfg.Roulette.QueueSize
	}

	rouletteService := service.NewRouletteService(engine, rouletteCfg)

	// Start mirror workers
	var wg sync.WaitGroup
	if mirror != nil {
		for i := 0; i < cfg.Roulette.WorkerCount; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				service.MirrorWorker(id, rouletteService.GetCommitQueue(), mirror)
			}(i)
		}
		logger.Infof("started %d mirror workers", cfg.Roulette.WorkerCount)
	}

	var grpcServer *grpc.Server
	if cfg.Server.GRPCAddr != "" {
		grpcServer = grpc.NewServer()
		handler.RegisterRouletteServer(grpcServer, handler.NewGRPCHandler(rouletteService))

		lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
		if err != nil {
			logger.Fatalf("failed to listen: %v", err)
		}

		go func() {
			logger.Infof("gRPC server listening on %s", cfg.Server.GRPCAddr)
			if err := grpcServer.Serve(lis); err != nil {
				logger.Errorf("gRPC server error: %v", err)
			}
		}()
	}

	var httpServer *http.Server
	if cfg.Server.HTTPAddr != "" {
		httpServer = &http.Server{
			Addr:    cfg.Server.HTTPAddr,
			Handler: handler.NewRouter(handler.NewHTTPHandler(rouletteService)),
		}

		go func() {
			logger.Infof("HTTP server listening on %s", cfg.Server.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
				logger.Errorf("HTTP server error: %v", err)
			}
		}()
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")

	if httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("HTTP shutdown: %v", err)
		}
		logger.Info("HTTP server stopped")
	}

	if grpcServer != nil {
		grpcServer.GracefulStop()
		logger.Info("gRPC server stopped")
	}

	// Close commit queue and wait for workers
	rouletteService.Close()
	wg.Wait()
	logger.Info("workers stopped")

	if rdb != nil {
		rdb.Close()
	}
	if db != nil {
		db.Close()
	}
	logger.Info("connections closed")
}
