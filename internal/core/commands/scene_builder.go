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

// This file defines the command that builds the synthetic scene model for
// a job: an ordered list of scenes that exactly tiles the source video's
// timeline.
//
// Logic Flow:
//  1. Read the job from the context and its source duration D.
//  2. Walk a cursor from 0 toward D, drawing each scene length from a
//     pseudo-random source bounded to [minLen, maxLen].
//  3. When the remaining gap falls below minLen, extend the scene just
//     emitted to close the gap instead of creating an undersized (or,
//     worse, a single oversized) tail scene.
//  4. Cap the scene count to bound planner cost, growing the effective
//     maximum length when the cap would otherwise leave part of the
//     timeline uncovered.
//
// The walk is deterministic for a given random source, so tests inject a
// fixed seed and assert exact boundaries. Production seeds from the job id
// so that re-running a job reproduces its scene model.
package commands

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/mediagenai/go-trailer-service/internal/config"
	"github.com/mediagenai/go-trailer-service/internal/core/cor"
	"github.com/mediagenai/go-trailer-service/internal/core/model"
)

// SceneBuilder is the command that generates the scene model for a job.
type SceneBuilder struct {
	cor.BaseCommand
	cfg config.SceneBuilder
	rng *rand.Rand // Optional fixed source for tests; nil seeds per job.
}

// NewSceneBuilder creates the scene model builder command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - cfg: The scene generation bounds (min/max length, count cap).
//
// Outputs:
//   - *SceneBuilder: A pointer to the newly instantiated command.
func NewSceneBuilder(name string, cfg config.SceneBuilder) *SceneBuilder {
	return &SceneBuilder{BaseCommand: *cor.NewBaseCommand(name), cfg: cfg}
}

// WithRandSource fixes the pseudo-random source, making scene boundaries
// fully deterministic. Used by tests.
func (c *SceneBuilder) WithRandSource(rng *rand.Rand) *SceneBuilder {
	c.rng = rng
	return c
}

// IsExecutable checks that the job aggregate is present in the context.
func (c *SceneBuilder) IsExecutable(context cor.Context) bool {
	return context != nil && context.Get(GetJobParameterName()) != nil
}

// Execute builds the scene list and stores it on the job's analysis
// section.
func (c *SceneBuilder) Execute(context cor.Context) {
	job := context.Get(GetJobParameterName()).(*model.Job)

	rng := c.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(seedFromString(job.Id)))
	}

	scenes, err := BuildScenes(job.Input.DurationSeconds, c.cfg, rng)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	job.Analysis = &model.Analysis{Scenes: scenes}
	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), job)
}

// BuildScenes tiles [0, D) with scenes whose lengths are drawn from rng
// within the configured bounds. The result is sorted, non-overlapping, and
// covers the timeline exactly. The scene count never exceeds
// min(cfg.MaxSceneCount, ceil(D/12)); when that cap is tight the effective
// maximum length grows so coverage is never sacrificed. No scene is ever
// longer than twice the effective maximum.
func BuildScenes(duration float64, cfg config.SceneBuilder, rng *rand.Rand) ([]*model.Scene, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: video duration must be positive, got %f", model.ErrInvalidInput, duration)
	}

	minLen := cfg.MinSceneSeconds
	maxLen := cfg.MaxSceneSeconds
	if minLen <= 0 || maxLen < minLen {
		return nil, fmt.Errorf("%w: scene length bounds %f/%f", model.ErrInvalidInput, minLen, maxLen)
	}

	maxScenes := cfg.MaxSceneCount
	if byDuration := int(math.Ceil(duration / 12)); byDuration < maxScenes {
		maxScenes = byDuration
	}
	if maxScenes < 1 {
		maxScenes = 1
	}

	// The cap must still allow full coverage: if maxScenes scenes of
	// maxLen cannot reach D, stretch the ceiling.
	if duration/float64(maxScenes) > maxLen {
		maxLen = duration / float64(maxScenes)
	}

	scenes := make([]*model.Scene, 0, maxScenes)
	cursor := 0.0
	for cursor < duration && len(scenes) < maxScenes {
		length := minLen + rng.Float64()*(maxLen-minLen)

		// Ensure the scenes still available after this one can cover the
		// rest of the timeline within the cap.
		remaining := duration - cursor
		scenesLeft := maxScenes - len(scenes)
		if floor := remaining - float64(scenesLeft-1)*maxLen; length < floor {
			length = floor
		}
		if length > remaining {
			length = remaining
		}

		end := cursor + length
		// A tail gap shorter than a viable scene is absorbed into the
		// scene being emitted, never left for a later pass.
		if duration-end < minLen {
			end = duration
		}

		scenes = append(scenes, model.NewScene(len(scenes)+1, cursor, end, duration))
		cursor = end
	}

	return scenes, nil
}

// seedFromString hashes an identifier into a stable rand seed.
func seedFromString(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
