// Package logging builds the application's zap logger from configuration.
package logging

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/km-arc/go-container/framework/config"
)

// New returns a production logger when env is "production" and a development
// logger otherwise, with level and encoding taken from cfg.
func New(cfg config.LogConfig, env string) (*zap.Logger, error) {
	var zc zap.Config
	if env == "production" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return nil, errors.Wrapf(err, "logging: invalid LOG_LEVEL %q", cfg.Level)
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}

	switch cfg.Format {
	case "", "console", "json":
		if cfg.Format != "" {
			zc.Encoding = cfg.Format
		}
	default:
		return nil, errors.Errorf("logging: invalid LOG_FORMAT %q", cfg.Format)
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, errors.Wrap(err, "logging: build logger")
	}
	return logger, nil
}

// Must is New that panics on error.
func Must(cfg config.LogConfig, env string) *zap.Logger {
	logger, err := New(cfg, env)
	if err != nil {
		panic(err)
	}
	return logger
}
