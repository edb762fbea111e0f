package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/logger"
	"github.com/redis/go-redis/v9"

	"github.com/rl1809/prize-roulette/internal/adapter/storage"
	"github.com/rl1809/prize-roulette/internal/config"
	"github.com/rl1809/prize-roulette/internal/core/domain"
	"github.com/rl1809/prize-roulette/internal/core/service"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	totalSpins := flag.Int("spins", 500, "number of concurrent spins")
	instances := flag.Int("instances", 4, "engines sharing the Redis store")
	flag.Parse()

	defer logger.Init("stress_test", false, false, os.Stderr).Close()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	catalog, err := cfg.Roulette.Catalog()
	if err != nil {
		logger.Fatalf("failed to build catalog: %v", err)
	}

	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	redisAdapter := storage.NewRedisAdapter(rdb, cfg.Roulette.ParticipantTTL)

	// every instance overwrites, so each run starts from the catalog stock
	engines := make([]*service.Engine, *instances)
	for i := range engines {
		engines[i] = service.NewEngine(catalog, redisAdapter, service.WithSeedPolicy(service.SeedOverwrite))
		if err := engines[i].Seed(ctx); err != nil {
			logger.Fatalf("failed to seed stock: %v", err)
		}
	}

	var mu sync.Mutex
	awarded := make(map[domain.PrizeKind]int)
	substituted := 0
	failed := 0

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *totalSpins; i++ {
		wg.Add(1)
		go func(e *service.Engine) {
			defer wg.Done()

			result, err := e.Spin(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				return
			}
			awarded[result.Kind]++
			if result.Substituted {
				substituted++
			}
		}(engines[i%len(engines)])
	}

	wg.Wait()
	elapsed := time.Since(start)

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Spins:            %d across %d engines\n", *totalSpins, len(engines))
	fmt.Printf("Failed:           %d\n", failed)
	fmt.Printf("Substituted:      %d\n", substituted)
	fmt.Printf("Duration:         %v\n", elapsed)
	for _, p := range catalog.Prizes() {
		fmt.Printf("  %-10s %d\n", p.Kind, awarded[p.Kind])
	}
	fmt.Println("==========================================")

	pass := failed == 0
	for _, p := range catalog.Limited() {
		remaining, _, err := redisAdapter.ReadStock(ctx, string(p.Kind))
		if err != nil {
			logger.Fatalf("failed to read stock %s: %v", p.Kind, err)
		}

		switch {
		case awarded[p.Kind] > p.InitialStock:
			fmt.Printf("FAIL: %s awarded %d times, stock was %d\n", p.Kind, awarded[p.Kind], p.InitialStock)
			pass = false
		case awarded[p.Kind]+remaining != p.InitialStock:
			fmt.Printf("FAIL: %s awarded %d + remaining %d != %d\n", p.Kind, awarded[p.Kind], remaining, p.InitialStock)
			pass = false
		case remaining < 0:
			fmt.Printf("FAIL: %s stock went negative (%d)\n", p.Kind, remaining)
			pass = false
		default:
			fmt.Printf("PASS: %s awarded %d, %d left\n", p.Kind, awarded[p.Kind], remaining)
		}
	}

	if !pass {
		os.Exit(1)
	}
}
