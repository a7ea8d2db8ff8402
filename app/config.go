package main

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ValidationLevel controls how strictly decoder invariants are enforced.
type ValidationLevel int

const (
	// ValidationNone skips the header's reserved-bytes-must-be-zero check.
	// Every other header and page check still applies.
	ValidationNone ValidationLevel = iota
	// ValidationBasic enforces the standard set of decoder invariants.
	// This is the default.
	ValidationBasic
	// ValidationStrict enforces the same checks as ValidationBasic; no
	// decoder treats it differently, so it rejects no additional
	// constructs.
	ValidationStrict
)

// DatabaseConfig holds the knobs an open database can be configured with.
type DatabaseConfig struct {
	Validation  ValidationLevel
	ReadTimeout time.Duration
	Logger      *logrus.Logger
}

// DatabaseOption is a functional option applied when opening a database.
type DatabaseOption func(*DatabaseConfig)

// WithValidation sets the validation strictness.
func WithValidation(level ValidationLevel) DatabaseOption {
	return func(cfg *DatabaseConfig) {
		cfg.Validation = level
	}
}

// WithReadTimeout bounds how long a single Database.Query call may run
// before it returns an error; it does not apply to Open. It is
// diagnostic headroom only: this engine has no cooperative cancellation
// model, and the only blocking operation is a local disk read.
func WithReadTimeout(d time.Duration) DatabaseOption {
	return func(cfg *DatabaseConfig) {
		cfg.ReadTimeout = d
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger *logrus.Logger) DatabaseOption {
	return func(cfg *DatabaseConfig) {
		cfg.Logger = logger
	}
}

// DefaultDatabaseConfig returns the configuration used when no options are
// supplied.
func DefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Validation:  ValidationBasic,
		ReadTimeout: 30 * time.Second,
		Logger:      defaultLogger(),
	}
}

func defaultLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}
