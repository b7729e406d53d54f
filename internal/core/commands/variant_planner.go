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

// This file defines the command that plans the four trailer variants from
// the scored scene list.
//
// Logic Flow (per template):
//  1. Partition scored scenes by region and sort each bucket by score
//     descending, ties broken by ascending start so output is stable.
//  2. Give each region a time budget of T x distribution[region].
//  3. Greedily walk each bucket top-down while the region's spent time is
//     below its budget. A scene is taken only when it would overshoot the
//     remaining budget by less than half its own duration; oversized
//     candidates are skipped, not terminal, so a smaller scene further
//     down can still fill the region. Realized region durations therefore
//     stay within one scene's duration of the budget.
//  4. Budget left over in an exhausted region is redistributed to regions
//     that still have scenes, in proportion to their original budgets.
//     If every bucket runs dry the plan accepts the shortfall; a trailer
//     is never padded with duplicate scenes.
//  5. Order the final selection chronologically. This applies to every
//     template, Grand Finale included: the emphasis lives in how much
//     late material is selected, not in reshuffling playback order.
package commands

import (
	"sort"

	"github.com/mediagenai/go-trailer-service/internal/core/cor"
	"github.com/mediagenai/go-trailer-service/internal/core/model"
)

// VariantPlanner is the command that produces one VariantPlan per
// configured template.
type VariantPlanner struct {
	cor.BaseCommand
	templates map[string]model.VariantTemplate
}

// NewVariantPlanner creates the planner command over the configured
// template table.
func NewVariantPlanner(name string, templates map[string]model.VariantTemplate) *VariantPlanner {
	return &VariantPlanner{BaseCommand: *cor.NewBaseCommand(name), templates: templates}
}

// IsExecutable requires a job with a scored scene list.
func (c *VariantPlanner) IsExecutable(context cor.Context) bool {
	if context == nil {
		return false
	}
	job, ok := context.Get(GetJobParameterName()).(*model.Job)
	return ok && job.Personalization != nil && len(job.Personalization.Scores) > 0
}

// Execute plans each variant in key order and stores the plans on the
// job's personalization section.
func (c *VariantPlanner) Execute(context cor.Context) {
	job := context.Get(GetJobParameterName()).(*model.Job)

	plans := make([]*model.VariantPlan, 0, len(model.VariantKeys))
	for _, key := range model.VariantKeys {
		template, ok := c.templates[key]
		if !ok {
			continue
		}
		plans = append(plans, PlanVariant(key, template, job.Personalization.Scores, job.Input.TrailerSeconds))
	}
	job.Personalization.Variants = plans

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), job)
}

// regionBucket tracks one region's candidates and fill state during
// planning.
type regionBucket struct {
	region model.Region
	avail  []*model.ScoredScene // Untaken candidates, sorted score desc, start asc.
	budget float64
	spent  float64
}

func (b *regionBucket) exhausted() bool { return len(b.avail) == 0 }

// take pulls candidates while spent time is below the budget. A scene is
// accepted only when the overshoot would stay under half its duration;
// rejected scenes remain available for a later round with a larger
// budget.
func (b *regionBucket) take(selected *[]*model.ScoredScene) {
	var kept []*model.ScoredScene
	for i, s := range b.avail {
		if b.spent >= b.budget {
			kept = append(kept, b.avail[i:]...)
			break
		}
		d := s.Scene.Duration
		if b.spent+d <= b.budget+d/2 {
			b.spent += d
			*selected = append(*selected, s)
		} else {
			kept = append(kept, s)
		}
	}
	b.avail = kept
}

// PlanVariant selects scenes for one template against a scored scene list
// and a target trailer duration. The same inputs always produce the same
// plan. No scene appears twice; the selection is returned in chronological
// order with its realized duration.
func PlanVariant(key string, template model.VariantTemplate, scored []*model.ScoredScene, trailerSeconds float64) *model.VariantPlan {
	buckets := make([]*regionBucket, 0, len(model.Regions))
	for _, region := range model.Regions {
		bucket := &regionBucket{region: region, budget: trailerSeconds * template.Distribution[region]}
		for _, s := range scored {
			if s.Scene.Region == region {
				bucket.avail = append(bucket.avail, s)
			}
		}
		sort.SliceStable(bucket.avail, func(i, j int) bool {
			if bucket.avail[i].Score != bucket.avail[j].Score {
				return bucket.avail[i].Score > bucket.avail[j].Score
			}
			return bucket.avail[i].Scene.Start < bucket.avail[j].Scene.Start
		})
		buckets = append(buckets, bucket)
	}

	var selected []*model.ScoredScene
	for _, b := range buckets {
		b.take(&selected)
	}

	// Fallback: hand unused budget from dry buckets to the regions that
	// can still absorb it. Each round can dry out another bucket, so loop
	// once per region at most.
	for range buckets {
		surplus := 0.0
		for _, b := range buckets {
			if b.exhausted() && b.spent < b.budget {
				surplus += b.budget - b.spent
				b.budget = b.spent
			}
		}
		if surplus == 0 {
			break
		}

		weightTotal := 0.0
		for _, b := range buckets {
			if !b.exhausted() {
				weightTotal += trailerSeconds * template.Distribution[b.region]
			}
		}
		if weightTotal == 0 {
			break // Every bucket is dry; accept the shortfall.
		}
		for _, b := range buckets {
			if !b.exhausted() {
				b.budget += surplus * (trailerSeconds * template.Distribution[b.region]) / weightTotal
				b.take(&selected)
			}
		}
	}

	// Playback order is chronological regardless of selection order.
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Scene.Start < selected[j].Scene.Start
	})

	plan := &model.VariantPlan{
		Key:          key,
		Name:         template.Name,
		Distribution: template.Distribution,
		Scenes:       make([]model.PlannedScene, 0, len(selected)),
	}
	for _, s := range selected {
		plan.Scenes = append(plan.Scenes, model.PlannedScene{
			SceneId:  s.Scene.Id,
			Start:    s.Scene.Start,
			End:      s.Scene.End,
			Duration: s.Scene.Duration,
			Region:   s.Scene.Region,
			Score:    s.Score,
		})
		plan.RealizedSeconds += s.Scene.Duration
	}
	return plan
}
