package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rl1809/prize-roulette/internal/core/domain"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreMySQL  = "mysql"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Roulette RouletteConfig `yaml:"roulette"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	HTTPAddr        string        `yaml:"http_addr"`
	GRPCAddr        string        `yaml:"grpc_addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	PoolSize int    `yaml:"pool_size"`
}

type MySQLConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type RouletteConfig struct {
	// Store is one of memory, redis, mysql.
	Store string `yaml:"store"`
	// SeedPolicy is if_absent or overwrite.
	SeedPolicy string `yaml:"seed_policy"`
	// Preset names a built-in catalog; ignored when Prizes is set.
	Preset    string        `yaml:"preset"`
	Prizes    []PrizeConfig `yaml:"prizes"`
	SpinDelay time.Duration `yaml:"spin_delay"`
	// OneSpinPerParticipant enables the participation guard.
	OneSpinPerParticipant bool          `yaml:"one_spin_per_participant"`
	ParticipantTTL        time.Duration `yaml:"participant_ttl"`
	// Mirror copies committed decrements into MySQL when the store is redis.
	Mirror      bool `yaml:"mirror"`
	WorkerCount int  `yaml:"worker_count"`
	QueueSize   int  `yaml:"queue_size"`
	// Seed fixes the random source for reproducible runs; 0 uses crypto/rand.
	Seed uint64 `yaml:"seed"`
}

type PrizeConfig struct {
	Kind     string `yaml:"kind"`
	Label    string `yaml:"label"`
	Weight   int    `yaml:"weight"`
	Stock    int    `yaml:"stock"`
	Fallback bool   `yaml:"fallback"`
}

type LogConfig struct {
	Verbose bool `yaml:"verbose"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			HTTPAddr:        ":8080",
			GRPCAddr:        ":50051",
			ShutdownTimeout: 5 * time.Second,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 100,
		},
		MySQL: MySQLConfig{
			DSN:             "root:root@tcp(localhost:3306)/roulette?parseTime=true",
			MaxOpenConns:    50,
			MaxIdleConns:    25,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Roulette: RouletteConfig{
			Store:          StoreMemory,
			SeedPolicy:     "if_absent",
			Preset:         "classic",
			ParticipantTTL: 24 * time.Hour,
			WorkerCount:    4,
			QueueSize:      1000,
		},
		Log: LogConfig{Verbose: true},
	}
}

// Load reads path over Default, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("MYSQL_DSN"); v != "" {
		cfg.MySQL.DSN = v
	}
	if v := os.Getenv("ROULETTE_HTTP_ADDR"); v != "" {
		cfg.Server.HTTPAddr = v
	}
	if v := os.Getenv("ROULETTE_GRPC_ADDR"); v != "" {
		cfg.Server.GRPCAddr = v
	}
	if v := os.Getenv("ROULETTE_STORE"); v != "" {
		cfg.Roulette.Store = v
	}
}

// Validate checks semantic constraints and reports every problem at once.
func (c Config) Validate() error {
	var errs []string

	switch c.Roulette.Store {
	case StoreMemory, StoreRedis, StoreMySQL:
	default:
		errs = append(errs, "roulette.store must be one of: memory, redis, mysql")
	}
	switch c.Roulette.SeedPolicy {
	case "if_absent", "overwrite":
	default:
		errs = append(errs, "roulette.seed_policy must be one of: if_absent, overwrite")
	}
	if c.Roulette.SpinDelay < 0 {
		errs = append(errs, "roulette.spin_delay must be >= 0")
	}
	if c.Roulette.OneSpinPerParticipant && c.Roulette.ParticipantTTL < 0 {
		errs = append(errs, "roulette.participant_ttl must be >= 0")
	}
	if c.Roulette.Mirror {
		if c.Roulette.Store != StoreRedis {
			errs = append(errs, "roulette.mirror requires roulette.store=redis")
		}
		if c.Roulette.WorkerCount <= 0 {
			errs = append(errs, "roulette.worker_count must be >= 1 when mirror is enabled")
		}
		if c.Roulette.QueueSize <= 0 {
			errs = append(errs, "roulette.queue_size must be >= 1 when mirror is enabled")
		}
	}
	if len(c.Roulette.Prizes) == 0 {
		if _, ok := presets[c.Roulette.Preset]; !ok {
			errs = append(errs, fmt.Sprintf("roulette.preset %q is unknown, want one of: %s",
				c.Roulette.Preset, strings.Join(Presets(), ", ")))
		}
	}
	if c.Server.HTTPAddr == "" && c.Server.GRPCAddr == "" {
		errs = append(errs, "server.http_addr or server.grpc_addr is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}

	if _, err := c.Roulette.Catalog(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Catalog builds the prize catalog from the explicit prize list, or from the
// preset when no prizes are listed.
func (r RouletteConfig) Catalog() (*domain.Catalog, error) {
	if len(r.Prizes) == 0 {
		defs, ok := presets[r.Preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset %q", r.Preset)
		}
		return domain.NewCatalog(defs)
	}

	defs := make([]domain.PrizeDefinition, 0, len(r.Prizes))
	for _, p := range r.Prizes {
		defs = append(defs, domain.PrizeDefinition{
			Kind:         domain.PrizeKind(p.Kind),
			Label:        p.Label,
			BaseWeight:   p.Weight,
			Limited:      p.Stock > 0,
			InitialStock: p.Stock,
			Fallback:     p.Fallback,
		})
	}
	return domain.NewCatalog(defs)
}
