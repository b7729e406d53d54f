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

// Package testutil provides helpers shared across the test suite: a
// cached test configuration and deterministic scene fixtures.
package testutil

import (
	"math/rand"
	"testing"

	"github.com/mediagenai/go-trailer-service/internal/config"
	"github.com/mediagenai/go-trailer-service/internal/core/commands"
	"github.com/mediagenai/go-trailer-service/internal/core/model"
)

// FixedSeed keeps scene generation reproducible across test runs.
const FixedSeed = 42

// stateManager caches the test configuration so it is built once per
// test binary.
type stateManager struct {
	config *config.Config
}

var state = &stateManager{}

// GetTestConfig returns the built-in defaults with test-friendly
// overrides: single worker, generous submission limits, and state kept
// under the test's temp directory.
func GetTestConfig(t *testing.T) *config.Config {
	t.Helper()
	if state.config == nil {
		cfg := config.NewConfig()
		cfg.Application.ThreadPoolSize = 1
		cfg.Application.SubmitRatePerSecond = 1000
		cfg.Application.SubmitBurst = 1000
		state.config = cfg
	}
	// Storage paths are per-test so parallel packages never collide.
	cfg := *state.config
	dir := t.TempDir()
	cfg.Storage.JobDatabase = dir + "/jobs.db"
	cfg.Storage.DeliverableDir = dir + "/deliverables"
	cfg.Storage.IncomingDir = dir + "/incoming"
	return &cfg
}

// HandleErr fails the test on a non-nil error. Convenience to cut
// boilerplate in sequential setup code.
func HandleErr(err error, t *testing.T) {
	t.Helper()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// BuildTestScenes generates a deterministic scene model for the given
// duration using the default builder bounds.
func BuildTestScenes(t *testing.T, duration float64) []*model.Scene {
	t.Helper()
	scenes, err := commands.BuildScenes(duration, config.NewConfig().SceneBuilder, rand.New(rand.NewSource(FixedSeed)))
	if err != nil {
		t.Fatalf("failed to build test scenes: %v", err)
	}
	return scenes
}

// ScoreTestScenes scores a scene list with a named default profile.
func ScoreTestScenes(t *testing.T, scenes []*model.Scene, profileID string, duration float64) []*model.ScoredScene {
	t.Helper()
	profile, ok := model.DefaultProfiles()[profileID]
	if !ok {
		t.Fatalf("unknown test profile %q", profileID)
	}
	return commands.ScoreScenes(scenes, profile, duration)
}
