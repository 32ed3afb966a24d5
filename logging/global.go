package logging

import (
	"log/slog"
	"os"
)

type LoggingService struct {
	Logger  *slog.Logger
	rotator *RotatingLogger
}

var DefaultLoggingService *LoggingService

// InitLogger initializes the global logger at info level.
// An empty logDir logs to the console only.
func InitLogger(logDir string) {
	InitLoggerWithLevel(logDir, "info", 4)
}

// InitLoggerWithLevel initializes the global logger with the given level name
// and weekly file retention
func InitLoggerWithLevel(logDir, level string, retentionWeeks int) {
	if DefaultLoggingService != nil {
		DefaultLoggingService.Close()
	}
	logger, rotator := SetupLogger(logDir, ParseLevel(level), retentionWeeks)
	DefaultLoggingService = &LoggingService{
		Logger:  logger,
		rotator: rotator,
	}
	slog.SetDefault(logger)
}

// Close closes the log file, if any
func (s *LoggingService) Close() {
	if s == nil || s.rotator == nil {
		return
	}
	if err := s.rotator.Close(); err != nil {
		slog.Warn("Failed to close log file", "error", err)
	}
	s.rotator = nil
}

func fallback(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		fallback(slog.LevelInfo).Info(msg, args...)
		return
	}
	DefaultLoggingService.Logger.Info(msg, args...)
}

func Error(msg string, args ...any) {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		fallback(slog.LevelError).Error(msg, args...)
		return
	}
	DefaultLoggingService.Logger.Error(msg, args...)
}

func Warn(msg string, args ...any) {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		fallback(slog.LevelWarn).Warn(msg, args...)
		return
	}
	DefaultLoggingService.Logger.Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		fallback(slog.LevelDebug).Debug(msg, args...)
		return
	}
	DefaultLoggingService.Logger.Debug(msg, args...)
}

// Default returns the global logger, or a console logger before InitLogger
func Default() *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return fallback(slog.LevelInfo)
	}
	return DefaultLoggingService.Logger
}
