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

// This file defines the command that scores every scene against the job's
// viewer profile. Scoring is a pure function of (scene, profile): the same
// inputs always produce the same score, which keeps variant planning
// reproducible. Scores only rank scenes within one job; they carry no
// meaning across jobs.
package commands

import (
	"fmt"
	"hash/fnv"

	"github.com/mediagenai/go-trailer-service/internal/core/cor"
	"github.com/mediagenai/go-trailer-service/internal/core/model"
)

// SceneScorer is the command that produces the scored scene list for a
// job's profile.
type SceneScorer struct {
	cor.BaseCommand
	profiles map[string]model.Profile
}

// NewSceneScorer creates the scorer command over the configured profile
// table.
func NewSceneScorer(name string, profiles map[string]model.Profile) *SceneScorer {
	return &SceneScorer{BaseCommand: *cor.NewBaseCommand(name), profiles: profiles}
}

// IsExecutable requires a job that has been through scene analysis.
func (c *SceneScorer) IsExecutable(context cor.Context) bool {
	if context == nil {
		return false
	}
	job, ok := context.Get(GetJobParameterName()).(*model.Job)
	return ok && job.Analysis != nil && len(job.Analysis.Scenes) > 0
}

// Execute scores each scene and stores the result on the job's
// personalization section, preserving scene order.
func (c *SceneScorer) Execute(context cor.Context) {
	job := context.Get(GetJobParameterName()).(*model.Job)

	profile, ok := c.profiles[job.Input.Profile]
	if !ok {
		// Submission validates the profile id, so this only fires when the
		// profile table changed between submission and processing.
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("%w: unknown profile %q", model.ErrInvalidInput, job.Input.Profile))
		return
	}

	scored := ScoreScenes(job.Analysis.Scenes, profile, job.Input.DurationSeconds)
	job.Personalization = &model.Personalization{Scores: scored}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), job)
}

// ScoreScenes assigns a profile affinity to every scene, returning the
// scored list in the same order and count as the input.
func ScoreScenes(scenes []*model.Scene, profile model.Profile, videoDuration float64) []*model.ScoredScene {
	out := make([]*model.ScoredScene, 0, len(scenes))
	for _, scene := range scenes {
		out = append(out, &model.ScoredScene{
			Scene: scene,
			Score: ScoreScene(scene, profile, videoDuration),
		})
	}
	return out
}

// ScoreScene combines the profile weights over the scene's signals into a
// single affinity. Position drives the opening/finale biases; duration
// drives the pacing signal (shorter scenes read as faster cuts); emotion
// and action intensity come from a stable per-scene hash standing in for
// upstream content annotations.
func ScoreScene(scene *model.Scene, profile model.Profile, videoDuration float64) float64 {
	position := 0.0
	if videoDuration > 0 {
		position = scene.Start / videoDuration
	}

	pacing := 1.0 - scene.Duration/30.0
	if pacing < 0 {
		pacing = 0
	}

	emotion := hashSignal(scene.Id, "emotion")
	action := hashSignal(scene.Id, "action")

	return profile.Emotion*emotion +
		profile.Pacing*pacing +
		profile.Action*action +
		profile.Opening*(1.0-position) +
		profile.Finale*position
}

// hashSignal maps (scene id, signal name) onto a stable value in [0, 1).
func hashSignal(sceneId, signal string) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(sceneId))
	_, _ = h.Write([]byte{':'})
	_, _ = h.Write([]byte(signal))
	return float64(h.Sum64()%10000) / 10000.0
}
