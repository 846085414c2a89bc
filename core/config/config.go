package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host     string `mapstructure:"SERVER_HOST"`
	Port     int    `mapstructure:"SERVER_PORT"`
	Timezone string `mapstructure:"SERVER_TIMEZONE"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"DB_HOST"`
	Port     int    `mapstructure:"DB_PORT"`
	User     string `mapstructure:"DB_USER"`
	Password string `mapstructure:"DB_PASSWORD"`
	DBName   string `mapstructure:"DB_NAME"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"REDIS_ADDR"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type JWTConfig struct {
	Secret               string `mapstructure:"JWT_SECRET"`
	AccessTokenTTLMinute int    `mapstructure:"JWT_ACCESS_TOKEN_TTL_MINUTES"`
}

type GoogleAPIConfig struct {
	ClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	ClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	RedirectURI  string `mapstructure:"GOOGLE_REDIRECT_URI"`
}

type SyncConfig struct {
	IntervalMinutes int `mapstructure:"SYNC_INTERVAL_MINUTES"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	JWT       JWTConfig       `mapstructure:",squash"`
	GoogleAPI GoogleAPIConfig `mapstructure:",squash"`
	Sync      SyncConfig      `mapstructure:",squash"`
}

var (
	instance *Config
	once     sync.Once
	loadErr  error
)

// Load reads .env (when present) and the environment into the config
// singleton. Safe to call more than once.
func Load() (*Config, error) {
	once.Do(func() {
		_ = godotenv.Load()

		v := viper.New()
		v.SetDefault("SERVER_HOST", "0.0.0.0")
		v.SetDefault("SERVER_PORT", 8000)
		v.SetDefault("SERVER_TIMEZONE", "UTC")
		v.SetDefault("DB_HOST", "localhost")
		v.SetDefault("DB_PORT", 5432)
		v.SetDefault("DB_USER", "postgres")
		v.SetDefault("DB_PASSWORD", "")
		v.SetDefault("DB_NAME", "groupcal")
		v.SetDefault("REDIS_ADDR", "localhost:6379")
		v.SetDefault("REDIS_PASSWORD", "")
		v.SetDefault("REDIS_DB", 0)
		v.SetDefault("JWT_SECRET", "dev_secret")
		v.SetDefault("JWT_ACCESS_TOKEN_TTL_MINUTES", 60)
		v.SetDefault("GOOGLE_CLIENT_ID", "")
		v.SetDefault("GOOGLE_CLIENT_SECRET", "")
		v.SetDefault("GOOGLE_REDIRECT_URI", "")
		v.SetDefault("SYNC_INTERVAL_MINUTES", 30)

		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal config: %w", err)
			return
		}
		instance = &cfg
	})
	return instance, loadErr
}

// Get returns the loaded config. Panics if Load was never called.
func Get() *Config {
	if instance == nil {
		panic("config: Get called before Load")
	}
	return instance
}

// GetSafe returns the config and whether it has been initialized.
func GetSafe() (*Config, bool) {
	return instance, instance != nil
}
