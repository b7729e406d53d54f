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

// Package commands_test contains unit tests for the pipeline commands.
// This file tests the scene model builder: the coverage, bounds, and
// determinism properties the rest of the pipeline relies on.
package commands_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediagenai/go-trailer-service/internal/config"
	"github.com/mediagenai/go-trailer-service/internal/core/commands"
	"github.com/mediagenai/go-trailer-service/internal/core/model"
)

const coverageEpsilon = 1e-9

func defaultBuilderConfig() config.SceneBuilder {
	return config.NewConfig().SceneBuilder
}

// assertCoverage verifies the core postcondition: scenes are sorted,
// non-overlapping, and tile [0, duration) exactly.
func assertCoverage(t *testing.T, scenes []*model.Scene, duration float64) {
	t.Helper()
	require.NotEmpty(t, scenes)

	assert.Equal(t, 0.0, scenes[0].Start)
	for i, s := range scenes {
		assert.Greater(t, s.End, s.Start, "scene %d must have positive length", i)
		assert.InDelta(t, s.End-s.Start, s.Duration, coverageEpsilon)
		if i > 0 {
			assert.InDelta(t, scenes[i-1].End, s.Start, coverageEpsilon,
				"scene %d must start where its predecessor ends", i)
		}
	}
	assert.InDelta(t, duration, scenes[len(scenes)-1].End, coverageEpsilon)

	total := 0.0
	for _, s := range scenes {
		total += s.Duration
	}
	assert.InDelta(t, duration, total, coverageEpsilon)
}

func TestBuildScenesCoversTimeline(t *testing.T) {
	durations := []float64{1, 5.5, 6, 11.9, 12, 30, 59.4, 60, 61, 240, 600, 609, 3600, 7201.25}
	for _, duration := range durations {
		scenes, err := commands.BuildScenes(duration, defaultBuilderConfig(), rand.New(rand.NewSource(1)))
		require.NoError(t, err, "duration %f", duration)
		assertCoverage(t, scenes, duration)
	}
}

func TestBuildScenesBoundsSceneLength(t *testing.T) {
	cfg := defaultBuilderConfig()
	scenes, err := commands.BuildScenes(600, cfg, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	// The count cap can stretch the ceiling, but never past double.
	maxAllowed := math.Max(cfg.MaxSceneSeconds, 600.0/float64(cfg.MaxSceneCount)) * 2
	for _, s := range scenes {
		assert.LessOrEqual(t, s.Duration, maxAllowed)
	}
}

// The tail of the timeline must never be swallowed by one oversized
// scene: for a long video no scene may hold more than ~20% of the
// runtime.
func TestBuildScenesNoOversizedTailScene(t *testing.T) {
	for seed := int64(0); seed < 25; seed++ {
		scenes, err := commands.BuildScenes(600, defaultBuilderConfig(), rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		for _, s := range scenes {
			assert.LessOrEqual(t, s.Duration, 0.2*600,
				"seed %d: scene %s takes a disproportionate share of the runtime", seed, s.Id)
		}
	}
}

func TestBuildScenesRespectsCountCap(t *testing.T) {
	cfg := defaultBuilderConfig()
	scenes, err := commands.BuildScenes(7200, cfg, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(scenes), cfg.MaxSceneCount)
	assertCoverage(t, scenes, 7200)
}

func TestBuildScenesShortVideoSingleScene(t *testing.T) {
	scenes, err := commands.BuildScenes(4, defaultBuilderConfig(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, scenes, 1)
	assert.Equal(t, "scene_1", scenes[0].Id)
	assert.Equal(t, 0.0, scenes[0].Start)
	assert.Equal(t, 4.0, scenes[0].End)
}

func TestBuildScenesDeterministicForSeed(t *testing.T) {
	a, err := commands.BuildScenes(609, defaultBuilderConfig(), rand.New(rand.NewSource(99)))
	require.NoError(t, err)
	b, err := commands.BuildScenes(609, defaultBuilderConfig(), rand.New(rand.NewSource(99)))
	require.NoError(t, err)

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Start, b[i].Start)
		assert.Equal(t, a[i].End, b[i].End)
	}
}

func TestBuildScenesAssignsRegionsAtThirds(t *testing.T) {
	scenes, err := commands.BuildScenes(300, defaultBuilderConfig(), rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	for _, s := range scenes {
		assert.Equal(t, model.RegionFor(s.Start, 300), s.Region)
	}
	// A 300 second video must produce material in all three regions.
	seen := map[model.Region]bool{}
	for _, s := range scenes {
		seen[s.Region] = true
	}
	for _, region := range model.Regions {
		assert.True(t, seen[region], "no scene in region %s", region)
	}
}

func TestBuildScenesRejectsInvalidInput(t *testing.T) {
	_, err := commands.BuildScenes(0, defaultBuilderConfig(), rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = commands.BuildScenes(-10, defaultBuilderConfig(), rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	bad := defaultBuilderConfig()
	bad.MinSceneSeconds = 20
	bad.MaxSceneSeconds = 10
	_, err = commands.BuildScenes(100, bad, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
