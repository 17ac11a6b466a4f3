// Package main is the entry point for the wireframe mesh viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/wireview/internal/config"
	"github.com/Faultbox/wireview/internal/logger"
	"github.com/Faultbox/wireview/internal/mesh"
	"github.com/Faultbox/wireview/internal/viewer"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	opts := logger.Options{Level: cfg.Logging.Level, Console: true}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	logger.Init(opts)
	defer logger.Sync()

	logger.Info("=== Wireview ===")
	logger.Debug("config", zap.Any("config", cfg))

	m := mesh.Cube()
	if cfg.Mesh.Path != "" {
		m, err = mesh.Load(cfg.Mesh.Path)
		if err != nil {
			logger.Error("failed to load mesh", zap.String("path", cfg.Mesh.Path), zap.Error(err))
			os.Exit(1)
		}
	}

	// Create and run the viewer
	v, err := viewer.New(cfg, m)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
