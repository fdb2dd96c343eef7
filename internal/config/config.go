package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

type Config struct {
	Env       string          `yaml:"env" env:"ENV" env-default:"dev"`
	Server    HTTPServer      `yaml:"server" env-prefix:"SERVER_"`
	DB        DBConfig        `yaml:"db" env-prefix:"DB_"`
	Seed      SeedConfig      `yaml:"seed" env-prefix:"SEED_"`
	GraphQL   GraphQLConfig   `yaml:"graphql" env-prefix:"GRAPHQL_"`
	Benchmark BenchmarkConfig `yaml:"benchmark" env-prefix:"BENCH_"`
}

type HTTPServer struct {
	Port            string        `yaml:"port" env:"PORT" env-default:"8080"`
	Timeout         time.Duration `yaml:"timeout" env:"TIMEOUT" env-default:"5s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
	CORSOrigins     []string      `yaml:"cors_origins" env:"CORS_ORIGINS" env-separator:"," env-default:"*"`
}

type DBConfig struct {
	Driver       string `yaml:"driver" env:"DRIVER" env-default:"sqlite3"`
	Path         string `yaml:"path" env:"PATH" env-default:"gqlbench.db"`
	Host         string `yaml:"host" env:"HOST" env-default:"localhost"`
	Port         string `yaml:"port" env:"PORT" env-default:"5432"`
	User         string `yaml:"user" env:"USER" env-default:"postgres"`
	Password     string `yaml:"password" env:"PASSWORD" env-default:"postgres"`
	DbName       string `yaml:"dbname" env:"DBNAME" env-default:"gqlbench"`
	SslMode      string `yaml:"sslmode" env:"SSLMODE" env-default:"disable"`
	MaxOpenConns int    `yaml:"max_open_conns" env:"MAX_OPEN_CONNS" env-default:"10"`
}

// SeedConfig sizes the deterministic dataset written on startup.
type SeedConfig struct {
	Enabled          bool `yaml:"enabled" env:"ENABLED" env-default:"true"`
	Users            int  `yaml:"users" env:"USERS" env-default:"50"`
	Teams            int  `yaml:"teams" env:"TEAMS" env-default:"5"`
	MembersPerTeam   int  `yaml:"members_per_team" env:"MEMBERS_PER_TEAM" env-default:"8"`
	SprintsPerTeam   int  `yaml:"sprints_per_team" env:"SPRINTS_PER_TEAM" env-default:"4"`
	StoriesPerSprint int  `yaml:"stories_per_sprint" env:"STORIES_PER_SPRINT" env-default:"5"`
	TasksPerStory    int  `yaml:"tasks_per_story" env:"TASKS_PER_STORY" env-default:"5"`
}

type GraphQLConfig struct {
	LoaderWait     time.Duration `yaml:"loader_wait" env:"LOADER_WAIT" env-default:"1ms"`
	MaxBatch       int           `yaml:"max_batch" env:"MAX_BATCH" env-default:"0"`
	MaxParallelism int           `yaml:"max_parallelism" env:"MAX_PARALLELISM" env-default:"100"`
}

type BenchmarkConfig struct {
	Iterations           int    `yaml:"iterations" env:"ITERATIONS" env-default:"50"`
	QuickIterations      int    `yaml:"quick_iterations" env:"QUICK_ITERATIONS" env-default:"10"`
	ConcurrencyLevels    []int  `yaml:"concurrency_levels" env:"CONCURRENCY_LEVELS" env-separator:"," env-default:"10,50,100"`
	ConcurrentBatches    int    `yaml:"concurrent_batches" env:"CONCURRENT_BATCHES" env-default:"20"`
	QuickConcurrentBatch int    `yaml:"quick_concurrent_batches" env:"QUICK_CONCURRENT_BATCHES" env-default:"5"`
	OutputDir            string `yaml:"output_dir" env:"OUTPUT_DIR" env-default:"benchmark/results"`
}

// DSN builds the connection string understood by the configured driver.
func (c DBConfig) DSN() string {
	if c.Driver == DriverPostgres {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DbName, c.SslMode)
	}
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", c.Path)
}

// Load reads the file named by CONFIG_PATH when it is set and the environment otherwise.
func Load() (*Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}

	if cfg.DB.Driver != DriverSQLite && cfg.DB.Driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DB.Driver)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err.Error())
	}

	return cfg
}
