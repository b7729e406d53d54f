// Copyright 2025 MediaGenAI, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package main contains the setup and initialization logic for the
// application's state. This file creates the centralized state manager
// holding the shared dependencies: configuration, the job store, the
// media renderer, the optional archiver, and the trailer service itself.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/mediagenai/go-trailer-service/internal/archive"
	"github.com/mediagenai/go-trailer-service/internal/config"
	"github.com/mediagenai/go-trailer-service/internal/core/commands"
	"github.com/mediagenai/go-trailer-service/internal/core/services"
	"github.com/mediagenai/go-trailer-service/internal/render"
	"github.com/mediagenai/go-trailer-service/internal/store"
)

// StateManager holds the shared dependencies for the application,
// avoiding global singletons for each individual service.
type StateManager struct {
	config         *config.Config
	jobStore       *store.JobStore
	trailerService *services.TrailerService
}

// state is the single instance of StateManager for this process.
var state = &StateManager{}

// SetupOS points the configuration loader at the configs directory when
// the deployment has not set the variables itself.
func SetupOS() (err error) {
	if os.Getenv(config.EnvConfigFilePrefix) == "" {
		if err = os.Setenv(config.EnvConfigFilePrefix, "configs"); err != nil {
			return err
		}
	}
	if os.Getenv(config.EnvConfigRuntime) == "" {
		err = os.Setenv(config.EnvConfigRuntime, "local")
	}
	return err
}

// GetConfig provides the singleton application configuration, loading it
// from the TOML files on first use.
func GetConfig() *config.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup os environment: %v\n", err)
		}
		cfg := config.NewConfig()
		config.Load(cfg)
		state.config = cfg
	}
	return state.config
}

// InitState initializes the application state: the job store, the
// renderer (when ffmpeg is present), the optional S3 archiver, and the
// trailer service with its background workers.
func InitState(ctx context.Context) {
	cfg := GetConfig()

	jobStore, err := store.Open(cfg.Storage.JobDatabase)
	if err != nil {
		panic(err)
	}
	state.jobStore = jobStore

	if err := os.MkdirAll(cfg.Storage.IncomingDir, 0o755); err != nil {
		panic(err)
	}
	if err := os.MkdirAll(cfg.Storage.DeliverableDir, 0o755); err != nil {
		panic(err)
	}

	// A missing ffmpeg is a degraded mode, not a startup failure: jobs
	// still run and produce placeholder deliverables.
	var renderer commands.Renderer
	var prober services.DurationProber
	executor, err := render.NewExecutor(cfg.Renderer)
	if err != nil {
		slog.Warn("renderer unavailable, deliverables will be placeholders", "error", err)
	} else {
		renderer = executor
		prober = executor
	}

	var archiver commands.FileArchiver
	if a, err := archive.NewArchiver(ctx, cfg.Archive); err != nil {
		slog.Warn("archiver disabled", "error", err)
	} else if a.Enabled() {
		archiver = a
	}

	state.trailerService = services.NewTrailerService(cfg, jobStore, renderer, prober, archiver)
	state.trailerService.Start(ctx)
}
