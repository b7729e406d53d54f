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

// Package config defines the application configuration, loaded from TOML
// files. It centralizes every configurable parameter of the trailer
// service: storage locations, renderer settings, scene generation bounds,
// the viewer profile table, and the variant template table.
//
// Structs:
//   - Application: General service settings (name, worker pool, rate limit).
//   - Storage: Local paths for the job database, deliverables, and uploads.
//   - Renderer: FFmpeg/FFprobe executables and encoding parameters.
//   - SceneBuilder: Bounds for synthetic scene generation.
//   - Archive: Optional S3 destination for rendered deliverables.
//   - Config: The top-level aggregate, including profile/template tables.
package config

import "github.com/mediagenai/go-trailer-service/internal/core/model"

// Application holds general service settings.
type Application struct {
	Name                string  `toml:"name"`                   // Service name, used in telemetry.
	ThreadPoolSize      int     `toml:"thread_pool_size"`       // Number of background job workers.
	SubmitRatePerSecond float64 `toml:"submit_rate_per_second"` // Sustained job-submission rate.
	SubmitBurst         int     `toml:"submit_burst"`           // Burst allowance for submissions.
}

// Storage holds the local filesystem layout.
type Storage struct {
	JobDatabase    string `toml:"job_database"`    // SQLite file for the job store.
	DeliverableDir string `toml:"deliverable_dir"` // Root directory for rendered trailers.
	IncomingDir    string `toml:"incoming_dir"`    // Directory for uploaded source videos.
}

// Renderer holds the external tool configuration for rendering. Empty
// paths mean the executables are resolved from PATH; a missing binary is
// a degraded-success state, not a startup failure.
type Renderer struct {
	FFmpegPath  string `toml:"ffmpeg_path"`
	FFprobePath string `toml:"ffprobe_path"`
	VideoCodec  string `toml:"video_codec"`
	AudioCodec  string `toml:"audio_codec"`
	CRF         int    `toml:"crf"`
}

// SceneBuilder bounds the synthetic scene model built per video.
type SceneBuilder struct {
	MinSceneSeconds float64 `toml:"min_scene_seconds"`
	MaxSceneSeconds float64 `toml:"max_scene_seconds"`
	MaxSceneCount   int     `toml:"max_scene_count"`
}

// Archive configures the optional S3 destination for rendered
// deliverables. An empty bucket disables archiving entirely.
type Archive struct {
	S3Bucket string `toml:"s3_bucket"`
	S3Prefix string `toml:"s3_prefix"`
}

// Config is the root configuration aggregate. Profile and template tables
// ship with built-in defaults; TOML entries override or extend them per
// deployment. No process-wide mutable state is kept here — the loaded
// Config is injected into the services that need it.
type Config struct {
	Application  Application                      `toml:"application"`
	Storage      Storage                          `toml:"storage"`
	Renderer     Renderer                         `toml:"renderer"`
	SceneBuilder SceneBuilder                     `toml:"scene_builder"`
	Archive      Archive                          `toml:"archive"`
	Profiles     map[string]model.Profile         `toml:"profiles"`
	Templates    map[string]model.VariantTemplate `toml:"templates"`
}

// NewConfig creates a Config pre-populated with built-in defaults. The
// TOML loader overlays deployment values on top; map entries merge rather
// than replace, so a deployment can override a single profile.
func NewConfig() *Config {
	return &Config{
		Application: Application{
			Name:                "trailer-service",
			ThreadPoolSize:      2,
			SubmitRatePerSecond: 2,
			SubmitBurst:         4,
		},
		Storage: Storage{
			JobDatabase:    "data/jobs.db",
			DeliverableDir: "data/deliverables",
			IncomingDir:    "data/incoming",
		},
		Renderer: Renderer{
			VideoCodec: "libx264",
			AudioCodec: "aac",
			CRF:        23,
		},
		SceneBuilder: SceneBuilder{
			MinSceneSeconds: 6,
			MaxSceneSeconds: 18,
			MaxSceneCount:   30,
		},
		Archive:   Archive{S3Prefix: "trailers"},
		Profiles:  model.DefaultProfiles(),
		Templates: model.DefaultVariantTemplates(),
	}
}
