package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string
	HTTPAddress string
	LogLevel    string

	DatabaseURL string

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	JWTAccessSecret  string
	JWTRefreshSecret string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	Issuer           string

	BcryptCost int

	LoginThrottleWindow time.Duration
	LoginThrottleMax    int

	RateLimitRPS   int
	RateLimitBurst int

	AllowedOrigins   []string
	AllowCredentials bool
}

// Dev reports whether error responses may carry internal detail.
func (c *Config) Dev() bool {
	return c.Environment != "production"
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	for _, key := range []string{
		"ENVIRONMENT", "HTTP_ADDRESS", "LOG_LEVEL",
		"DATABASE_URL",
		"REDIS_ADDRESS", "REDIS_PASSWORD", "REDIS_DB",
		"JWT_ACCESS_SECRET", "JWT_REFRESH_SECRET",
		"ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "JWT_ISSUER",
		"BCRYPT_COST",
		"LOGIN_THROTTLE_WINDOW", "LOGIN_THROTTLE_MAX",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"ALLOWED_ORIGINS", "ALLOW_CREDENTIALS",
	} {
		if err := viper.BindEnv(key); err != nil {
			return nil, err
		}
	}

	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("HTTP_ADDRESS", ":8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("REDIS_ADDRESS", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("ACCESS_TOKEN_TTL", "168h")
	viper.SetDefault("REFRESH_TOKEN_TTL", "720h")
	viper.SetDefault("JWT_ISSUER", "auth-service")
	viper.SetDefault("BCRYPT_COST", 10)
	viper.SetDefault("LOGIN_THROTTLE_WINDOW", "5m")
	viper.SetDefault("LOGIN_THROTTLE_MAX", 10)
	viper.SetDefault("RATE_LIMIT_RPS", 50)
	viper.SetDefault("RATE_LIMIT_BURST", 100)
	viper.SetDefault("ALLOWED_ORIGINS", "*")
	viper.SetDefault("ALLOW_CREDENTIALS", false)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Environment:         viper.GetString("ENVIRONMENT"),
		HTTPAddress:         viper.GetString("HTTP_ADDRESS"),
		LogLevel:            viper.GetString("LOG_LEVEL"),
		DatabaseURL:         viper.GetString("DATABASE_URL"),
		RedisAddress:        viper.GetString("REDIS_ADDRESS"),
		RedisPassword:       viper.GetString("REDIS_PASSWORD"),
		RedisDB:             viper.GetInt("REDIS_DB"),
		JWTAccessSecret:     viper.GetString("JWT_ACCESS_SECRET"),
		JWTRefreshSecret:    viper.GetString("JWT_REFRESH_SECRET"),
		AccessTokenTTL:      viper.GetDuration("ACCESS_TOKEN_TTL"),
		RefreshTokenTTL:     viper.GetDuration("REFRESH_TOKEN_TTL"),
		Issuer:              viper.GetString("JWT_ISSUER"),
		BcryptCost:          viper.GetInt("BCRYPT_COST"),
		LoginThrottleWindow: viper.GetDuration("LOGIN_THROTTLE_WINDOW"),
		LoginThrottleMax:    viper.GetInt("LOGIN_THROTTLE_MAX"),
		RateLimitRPS:        viper.GetInt("RATE_LIMIT_RPS"),
		RateLimitBurst:      viper.GetInt("RATE_LIMIT_BURST"),
		AllowedOrigins:      strings.Split(viper.GetString("ALLOWED_ORIGINS"), ","),
		AllowCredentials:    viper.GetBool("ALLOW_CREDENTIALS"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	if cfg.JWTAccessSecret == "" || cfg.JWTRefreshSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must be set")
	}
	// Possession of one token kind must not imply forgeability of the other.
	if cfg.JWTAccessSecret == cfg.JWTRefreshSecret {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}

	return cfg, nil
}
