// Package logger provides a structured logging interface for xscraper.
//
// It wraps the zerolog library to provide a clean, easy-to-use API with support for:
// - Multiple log levels (Debug, Info, Warn, Error, Fatal)
// - Structured logging with fields
// - Pretty console output with colors
// - Optional file output alongside the console
// - Global logger instance for easy access
//
// Basic Usage:
//
//	import "xscraper/pkg/logger"
//
//	// Initialize the global logger
//	cfg := &config.LoggingConfig{
//	    Level: "info",
//	    File: "/var/log/xscraper.log",
//	}
//	err := logger.Initialize(cfg)
//
//	// Use the global logger
//	logger.Info("Application started")
//	logger.WithField("post_id", "1956686646272790863").Info("Fetching post")
//	logger.WithError(err).Error("Failed to download media")
//
// Advanced Usage:
//
//	// Create a logger instance with fields
//	log := logger.GetLogger().
//	    WithField("component", "downloader")
//
//	// Use structured logging
//	log.InfoWithFields("Download completed", map[string]interface{}{
//	    "file": "twitter_video_1734567890.mp4",
//	    "size": 1024000,
//	})
package logger
