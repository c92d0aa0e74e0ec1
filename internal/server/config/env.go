package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvConfig maps environment variables onto Config. Variables that are not
// set keep the value already present in the struct. The token lifetime is
// given in whole minutes.
type EnvConfig struct {
	EndpointAddrHTTP         string        `env:"HTTP_ADDRESS"`
	EndpointAddrGRPC         string        `env:"GRPC_ADDRESS"`
	DatabaseDSN              string        `env:"DATABASE_DSN"`
	SecretKey                string        `env:"SECRET_KEY"`
	SigningAlgorithm         string        `env:"ALGORITHM"`
	AccessTokenExpireMinutes *int          `env:"ACCESS_TOKEN_EXPIRE_MINUTES"`
	BcryptCost               int           `env:"BCRYPT_COST"`
	RedisURL                 string        `env:"REDIS_URL"`
	ShutdownTimeout          time.Duration `env:"SHUTDOWN_TIMEOUT"`
	LogLevel                 string        `env:"LOG_LEVEL"`
}

// parseEnv loads a .env file from the working directory when one exists and
// overlays the environment onto config.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	e := EnvConfig{
		EndpointAddrHTTP: config.EndpointAddrHTTP,
		EndpointAddrGRPC: config.EndpointAddrGRPC,
		DatabaseDSN:      config.DatabaseDSN,
		SecretKey:        config.SecretKey,
		SigningAlgorithm: config.SigningAlgorithm,
		BcryptCost:       config.BcryptCost,
		RedisURL:         config.RedisURL,
		ShutdownTimeout:  config.ShutdownTimeout,
		LogLevel:         config.LogLevel,
	}

	if err := env.Parse(&e); err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = e.EndpointAddrHTTP
	config.EndpointAddrGRPC = e.EndpointAddrGRPC
	config.DatabaseDSN = e.DatabaseDSN
	config.SecretKey = e.SecretKey
	config.SigningAlgorithm = e.SigningAlgorithm
	config.BcryptCost = e.BcryptCost
	config.RedisURL = e.RedisURL
	config.ShutdownTimeout = e.ShutdownTimeout
	config.LogLevel = e.LogLevel

	if e.AccessTokenExpireMinutes != nil {
		config.AccessTokenValidityDuration = time.Duration(*e.AccessTokenExpireMinutes) * time.Minute
	}
}
