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

// This file tests the variant planner: region budget adherence, the
// exhaustion fallback, duplicate guarantees, determinism, and the two
// end-to-end selection scenarios.
package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediagenai/go-trailer-service/internal/core/commands"
	"github.com/mediagenai/go-trailer-service/internal/core/model"
	"github.com/mediagenai/go-trailer-service/internal/testutil"
)

func planScenario(t *testing.T, duration float64, templateKey string, trailerSeconds float64) *model.VariantPlan {
	t.Helper()
	scenes := testutil.BuildTestScenes(t, duration)
	scored := testutil.ScoreTestScenes(t, scenes, "default", duration)
	template, ok := model.DefaultVariantTemplates()[templateKey]
	require.True(t, ok, "unknown template key %s", templateKey)
	return commands.PlanVariant(templateKey, template, scored, trailerSeconds)
}

// maxSceneDuration is the longest scene in a plan, used as the slack
// allowance when checking budgets.
func maxSceneDuration(plan *model.VariantPlan) float64 {
	out := 0.0
	for _, s := range plan.Scenes {
		if s.Duration > out {
			out = s.Duration
		}
	}
	return out
}

func TestPlanVariantRegionBudgets(t *testing.T) {
	duration := 609.0
	trailerSeconds := 30.0
	scenes := testutil.BuildTestScenes(t, duration)
	scored := testutil.ScoreTestScenes(t, scenes, "default", duration)

	template := model.DefaultVariantTemplates()["variant_1"] // Opening Act 60/30/10
	plan := commands.PlanVariant("variant_1", template, scored, trailerSeconds)

	perRegion := map[model.Region]float64{}
	for _, s := range plan.Scenes {
		perRegion[s.Region] += s.Duration
	}

	// Each region stays within one scene's duration of its budget. A
	// 609s video has deep buckets, so no exhaustion fallback fires here.
	slack := maxSceneDuration(plan)
	for _, region := range model.Regions {
		budget := trailerSeconds * template.Distribution[region]
		assert.LessOrEqual(t, perRegion[region], budget+slack,
			"region %s overshoots its budget by more than one scene", region)
	}
}

func TestPlanVariantNoDuplicateScenes(t *testing.T) {
	for _, key := range model.VariantKeys {
		plan := planScenario(t, 609, key, 30)
		seen := map[string]bool{}
		for _, s := range plan.Scenes {
			assert.False(t, seen[s.SceneId], "%s: scene %s selected twice", key, s.SceneId)
			seen[s.SceneId] = true
		}
	}
}

func TestPlanVariantDeterministic(t *testing.T) {
	a := planScenario(t, 609, "variant_2", 30)
	b := planScenario(t, 609, "variant_2", 30)
	assert.Equal(t, a, b)
}

func TestPlanVariantChronologicalOrder(t *testing.T) {
	// Ordering is chronological for every template, Grand Finale
	// included.
	for _, key := range model.VariantKeys {
		plan := planScenario(t, 609, key, 30)
		for i := 1; i < len(plan.Scenes); i++ {
			assert.Less(t, plan.Scenes[i-1].Start, plan.Scenes[i].Start,
				"%s: selection must play front to back", key)
		}
	}
}

func TestPlanVariantRealizedSecondsMatchesSelection(t *testing.T) {
	plan := planScenario(t, 609, "variant_4", 30)
	total := 0.0
	for _, s := range plan.Scenes {
		total += s.Duration
	}
	assert.InDelta(t, total, plan.RealizedSeconds, 1e-9)
	assert.Greater(t, plan.RealizedSeconds, 0.0)
}

// A long video with the Balanced Mix template must sample the whole
// runtime, not just the front.
func TestPlanVariantBalancedMixSpansTimeline(t *testing.T) {
	duration := 609.0
	plan := planScenario(t, duration, "variant_4", 30)
	require.NotEmpty(t, plan.Scenes)

	regions := map[model.Region]int{}
	for _, s := range plan.Scenes {
		regions[s.Region]++
	}
	for _, region := range model.Regions {
		assert.Greater(t, regions[region], 0, "balanced mix selected nothing from %s", region)
	}

	// Nothing should be concentrated in the first third of the video.
	lastStart := plan.Scenes[len(plan.Scenes)-1].Start
	assert.GreaterOrEqual(t, lastStart, 2*duration/3)
}

// uniformScenes tiles [0, duration) with fixed-length scenes.
func uniformScenes(duration, sceneLen float64) []*model.Scene {
	var out []*model.Scene
	for cursor := 0.0; cursor < duration; cursor += sceneLen {
		end := cursor + sceneLen
		if end > duration {
			end = duration
		}
		out = append(out, model.NewScene(len(out)+1, cursor, end, duration))
	}
	return out
}

// A short video with the Grand Finale template must lean on late
// material: most selected scenes start in the final third.
func TestPlanVariantGrandFinaleFavorsLateScenes(t *testing.T) {
	duration := 60.0
	scored := testutil.ScoreTestScenes(t, uniformScenes(duration, 6), "default", duration)

	template := model.DefaultVariantTemplates()["variant_3"] // 10/30/60
	plan := commands.PlanVariant("variant_3", template, scored, 20)
	require.NotEmpty(t, plan.Scenes)

	late := 0
	for _, s := range plan.Scenes {
		if s.Start >= 2*duration/3 {
			late++
		}
	}
	assert.Greater(t, late*2, len(plan.Scenes), "expected a majority of scenes with start >= 40")
}

// When a region has no scenes at all, its budget flows to the regions
// that do, and the plan never invents duplicates to fill the gap.
func TestPlanVariantRedistributesEmptyRegionBudget(t *testing.T) {
	duration := 300.0
	scenes := testutil.BuildTestScenes(t, duration)
	var withoutLate []*model.Scene
	for _, s := range scenes {
		if s.Region != model.RegionLate {
			withoutLate = append(withoutLate, s)
		}
	}
	scored := testutil.ScoreTestScenes(t, withoutLate, "default", duration)

	template := model.DefaultVariantTemplates()["variant_3"] // Grand Finale 10/30/60
	plan := commands.PlanVariant("variant_3", template, scored, 30)

	require.NotEmpty(t, plan.Scenes)
	for _, s := range plan.Scenes {
		assert.NotEqual(t, model.RegionLate, s.Region)
	}
	// The late budget (60%) moved elsewhere instead of being dropped.
	assert.Greater(t, plan.RealizedSeconds, 0.4*30.0)

	seen := map[string]bool{}
	for _, s := range plan.Scenes {
		assert.False(t, seen[s.SceneId])
		seen[s.SceneId] = true
	}
}

// When every bucket runs dry the plan accepts the shortfall.
func TestPlanVariantAcceptsShortfall(t *testing.T) {
	duration := 30.0
	scenes := testutil.BuildTestScenes(t, duration)
	scored := testutil.ScoreTestScenes(t, scenes, "default", duration)

	template := model.DefaultVariantTemplates()["variant_4"]
	plan := commands.PlanVariant("variant_4", template, scored, 300)

	assert.Len(t, plan.Scenes, len(scenes), "every scene should be selected")
	assert.InDelta(t, duration, plan.RealizedSeconds, 1e-9)
}
