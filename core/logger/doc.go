// Package logger provides structured logging built on the standard slog
// package: a factory with environment-appropriate defaults and nil-safe
// attribute helpers for common patterns.
//
// Basic usage:
//
//	log := logger.New(
//		logger.WithService("runner"),
//		logger.WithLevelString(cfg.LogLevel),
//	)
//
//	log.Info("server starting",
//		logger.Component("server"),
//		logger.Event("startup"),
//	)
//
// Production deployments typically add WithJSON for machine-readable output.
package logger
