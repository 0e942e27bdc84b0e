package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for both services. Each entrypoint reads
// only the sections it needs.
type Config struct {
	Registry RegistryConfig `mapstructure:"registry"`
	UserAPI  UserAPIConfig  `mapstructure:"userapi"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type RegistryConfig struct {
	Port        string `mapstructure:"port"`
	DatabaseURL string `mapstructure:"database_url"`
}

type UserAPIConfig struct {
	Port            string `mapstructure:"port"`
	DatabaseURL     string `mapstructure:"database_url"`
	RegistryURL     string `mapstructure:"registry_url"`
	RegistryTimeout int    `mapstructure:"registry_timeout"` // seconds
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"` // empty disables the ticker cache
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoadConfig reads configuration from .env file, environment variables, and defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	v.SetDefault("registry.port", ":8001")
	v.SetDefault("registry.database_url",
		"user=user password=password dbname=stockalert_registry sslmode=disable host=127.0.0.1 port=5432")

	v.SetDefault("userapi.port", ":8000")
	v.SetDefault("userapi.database_url",
		"user=user password=password dbname=stockalert_users sslmode=disable host=127.0.0.1 port=5432")
	v.SetDefault("userapi.registry_url", "http://localhost:8001")
	v.SetDefault("userapi.registry_timeout", 5)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Maps dot-notation to underscores (e.g. "userapi.registry_url" -> "USERAPI_REGISTRY_URL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnv(v, "registry.port", "registry.database_url")
	bindEnv(v, "userapi.port", "userapi.database_url", "userapi.registry_url", "userapi.registry_timeout")
	bindEnv(v, "redis.addr", "redis.password", "redis.db")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %v", err)
	}

	if cfg.UserAPI.RegistryURL == "" {
		return nil, fmt.Errorf("registry URL cannot be empty")
	}
	if cfg.UserAPI.RegistryTimeout <= 0 {
		return nil, fmt.Errorf("registry timeout must be positive")
	}

	return &cfg, nil
}

// bindEnv is a helper to bind multiple keys at once
func bindEnv(v *viper.Viper, keys ...string) {
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			log.Printf("Could not bind env var for key %s: %v", key, err)
		}
	}
}
