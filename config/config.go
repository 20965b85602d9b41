// Copyright © 2025-2026 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package config loads the admission server settings from the
// environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-core-stack/admission/errors"
	"github.com/go-core-stack/admission/key"
	"github.com/go-core-stack/admission/rate"
)

const (
	AlgorithmTokenBucket = "token-bucket"
	AlgorithmSmooth      = "smooth"
)

type Config struct {
	Permits      int64
	Period       time.Duration
	Algorithm    string
	KeyProviders []string

	ListenAddr     string
	GrpcListenAddr string
	LogLevel       string
}

// Load reads the configuration, every setting has a default and an
// invalid value fails with InvalidArgument.
func Load() (Config, error) {
	cfg := Config{
		Algorithm:      strings.ToLower(getenvDefault("ADMISSION_ALGORITHM", AlgorithmTokenBucket)),
		KeyProviders:   splitList(getenvDefault("ADMISSION_KEY_PROVIDERS", "remote-addr,call-site")),
		ListenAddr:     getenvDefault("LISTEN_ADDR", ":8080"),
		GrpcListenAddr: getenvDefault("GRPC_LISTEN_ADDR", ":9090"),
		LogLevel:       getenvDefault("LOG_LEVEL", "info"),
	}

	permitsStr := getenvDefault("ADMISSION_PERMITS", "20")
	permits, err := strconv.ParseInt(permitsStr, 10, 64)
	if err != nil || permits <= 0 {
		return Config{}, errors.Wrapf(errors.InvalidArgument, "invalid ADMISSION_PERMITS %q", permitsStr)
	}
	cfg.Permits = permits

	periodStr := getenvDefault("ADMISSION_PERIOD", "1s")
	period, err := time.ParseDuration(periodStr)
	if err != nil || period <= 0 {
		return Config{}, errors.Wrapf(errors.InvalidArgument, "invalid ADMISSION_PERIOD %q", periodStr)
	}
	cfg.Period = period

	switch cfg.Algorithm {
	case AlgorithmTokenBucket, AlgorithmSmooth:
	default:
		return Config{}, errors.Wrapf(errors.InvalidArgument, "invalid ADMISSION_ALGORITHM %q", cfg.Algorithm)
	}

	if _, err := cfg.Providers(); err != nil {
		return Config{}, err
	}
	if _, err := cfg.Factory(); err != nil {
		return Config{}, err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return Config{}, errors.Wrapf(errors.InvalidArgument, "invalid LOG_LEVEL %q", cfg.LogLevel)
	}

	return cfg, nil
}

// Factory builds the limiter factory for the configured algorithm.
func (c Config) Factory() (rate.Factory, error) {
	if c.Algorithm == AlgorithmSmooth {
		f, err := rate.NewSmoothFactory(c.Permits, c.Period)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	f, err := rate.NewTokenBucketFactory(c.Permits, c.Period)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Providers builds the key providers in the configured order.
func (c Config) Providers() ([]key.Provider, error) {
	if len(c.KeyProviders) == 0 {
		return nil, errors.Wrapf(errors.InvalidArgument, "ADMISSION_KEY_PROVIDERS must name at least one provider")
	}
	return key.ParseProviders(c.KeyProviders)
}

// SlogLevel returns the configured log level, info when unparsable.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}
