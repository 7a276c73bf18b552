package config

import (
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvProduction Environment = "production"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	GoogleAPI  GoogleAPIConfig
	Scheduling SchedulingConfig
	Worker     WorkerConfig
	Log        LogConfig
}

type AppConfig struct {
	Name     string
	Env      Environment
	Host     string
	Port     string
	Timezone string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type GoogleAPIConfig struct {
	ClientID     string
	ClientSecret string
}

type SchedulingConfig struct {
	DefaultPreset     string
	SearchDays        int
	ScheduleCacheSize int
	ScheduleCacheTTL  int // seconds
	MaxSlots          int
	MaxRangeDays      int
	SequencerSize     int
}

type WorkerConfig struct {
	Enabled     bool
	Concurrency int
}

type LogConfig struct {
	Level  string
	Format string
}

var (
	mu       sync.RWMutex
	instance *Config
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "social-calendar-api")
	v.SetDefault("APP_ENV", string(EnvLocal))
	v.SetDefault("APP_HOST", "0.0.0.0")
	v.SetDefault("APP_PORT", "7070")
	v.SetDefault("APP_TIMEZONE", "Asia/Ho_Chi_Minh")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "social_calendar")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "")

	v.SetDefault("SCHEDULING_DEFAULT_PRESET", "default")
	v.SetDefault("SCHEDULING_SEARCH_DAYS", 7)
	v.SetDefault("SCHEDULING_CACHE_SIZE", 1024)
	v.SetDefault("SCHEDULING_CACHE_TTL", 300)
	v.SetDefault("SCHEDULING_MAX_SLOTS", 50)
	v.SetDefault("SCHEDULING_MAX_RANGE_DAYS", 31)
	v.SetDefault("SCHEDULING_SEQUENCER_SIZE", 10000)

	v.SetDefault("WORKER_ENABLED", true)
	v.SetDefault("WORKER_CONCURRENCY", 4)

	v.SetDefault("LOG_LEVEL", "debug")
	v.SetDefault("LOG_FORMAT", "console")
}

// Load reads .env (when present) and the process environment into a Config.
func Load() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:     v.GetString("APP_NAME"),
			Env:      Environment(strings.ToLower(v.GetString("APP_ENV"))),
			Host:     v.GetString("APP_HOST"),
			Port:     v.GetString("APP_PORT"),
			Timezone: v.GetString("APP_TIMEZONE"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		GoogleAPI: GoogleAPIConfig{
			ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		},
		Scheduling: SchedulingConfig{
			DefaultPreset:     v.GetString("SCHEDULING_DEFAULT_PRESET"),
			SearchDays:        v.GetInt("SCHEDULING_SEARCH_DAYS"),
			ScheduleCacheSize: v.GetInt("SCHEDULING_CACHE_SIZE"),
			ScheduleCacheTTL:  v.GetInt("SCHEDULING_CACHE_TTL"),
			MaxSlots:          v.GetInt("SCHEDULING_MAX_SLOTS"),
			MaxRangeDays:      v.GetInt("SCHEDULING_MAX_RANGE_DAYS"),
			SequencerSize:     v.GetInt("SCHEDULING_SEQUENCER_SIZE"),
		},
		Worker: WorkerConfig{
			Enabled:     v.GetBool("WORKER_ENABLED"),
			Concurrency: v.GetInt("WORKER_CONCURRENCY"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	return cfg, nil
}

// Init loads the configuration and stores it as the process-wide instance.
func Init() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	Set(cfg)
	return cfg, nil
}

func Set(cfg *Config) {
	mu.Lock()
	instance = cfg
	mu.Unlock()
}

// Get returns the loaded configuration and panics if Init was never called.
func Get() *Config {
	cfg, ok := GetSafe()
	if !ok {
		panic("config: Get called before Init")
	}
	return cfg
}

func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) Address() string {
	return c.App.Host + ":" + c.App.Port
}
