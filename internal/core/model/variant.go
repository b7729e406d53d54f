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

// Package model defines the core data structures for the trailer service.
// This file contains the variant-level types: the static VariantTemplate
// configuration, the VariantPlan produced by the planner, and the
// Deliverable artifact produced by the assembler.
package model

// VariantKeys are the stable lookup keys for the four trailer variants, in
// presentation order. Plans and deliverables are keyed by these values.
var VariantKeys = []string{"variant_1", "variant_2", "variant_3", "variant_4"}

// VariantTemplate is static configuration describing one trailer style: a
// display name and a target distribution of scene regions. Templates are
// data, not behavior; four fixed templates ship with the service and
// deployments may override them through configuration.
type VariantTemplate struct {
	Name         string             `json:"name" toml:"name"`
	Description  string             `json:"description,omitempty" toml:"description"`
	Distribution map[Region]float64 `json:"distribution" toml:"distribution"`
}

// DefaultVariantTemplates returns the four built-in trailer templates keyed
// by variant key. Distribution fractions sum to 1.0 per template.
func DefaultVariantTemplates() map[string]VariantTemplate {
	return map[string]VariantTemplate{
		"variant_1": {
			Name:        "Opening Act",
			Description: "Front-loaded cut that leans on the film's setup.",
			Distribution: map[Region]float64{
				RegionEarly: 0.60, RegionMiddle: 0.30, RegionLate: 0.10,
			},
		},
		"variant_2": {
			Name:        "Middle Climax",
			Description: "Centers the second-act escalation.",
			Distribution: map[Region]float64{
				RegionEarly: 0.20, RegionMiddle: 0.60, RegionLate: 0.20,
			},
		},
		"variant_3": {
			Name:        "Grand Finale",
			Description: "Builds toward third-act payoff material.",
			Distribution: map[Region]float64{
				RegionEarly: 0.10, RegionMiddle: 0.30, RegionLate: 0.60,
			},
		},
		"variant_4": {
			Name:        "Balanced Mix",
			Description: "Even sampling across the whole runtime.",
			Distribution: map[Region]float64{
				RegionEarly: 0.33, RegionMiddle: 0.33, RegionLate: 0.33,
			},
		},
	}
}

// PlannedScene is one selected scene inside a variant plan, tagged with the
// region whose budget it satisfied and the score it was selected on.
type PlannedScene struct {
	SceneId  string  `json:"scene_id"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
	Region   Region  `json:"region"`
	Score    float64 `json:"score"`
}

// VariantPlan is the output of planning one template against one scored
// scene list: a chronological selection of scenes (no duplicates) and the
// realized duration of that selection. RealizedSeconds may fall short of
// the requested trailer duration when region buckets are exhausted, and may
// exceed it by at most one scene's duration.
type VariantPlan struct {
	Key             string             `json:"key"`
	Name            string             `json:"name"`
	Distribution    map[Region]float64 `json:"distribution"`
	Scenes          []PlannedScene     `json:"scenes"`
	RealizedSeconds float64            `json:"realized_seconds"`
}

// Cut is a single entry in a variant's concrete cut list: the in/out window
// to extract from the source video, in plan order.
type Cut struct {
	SceneId string  `json:"scene_id"`
	In      float64 `json:"in"`
	Out     float64 `json:"out"`
}

// Deliverable is the rendered artifact for one variant. Exactly one of Path
// or Note is populated: Path (plus SizeBytes) when a media file was written,
// Note when rendering was skipped or every cut failed. A note-only
// deliverable is a valid terminal state, not an error. Deliverables are
// never mutated after creation.
type Deliverable struct {
	Name          string  `json:"name"`
	Path          string  `json:"path,omitempty"`
	SizeBytes     int64   `json:"size_bytes,omitempty"`
	Note          string  `json:"note,omitempty"`
	SkippedScenes int     `json:"skipped_scenes,omitempty"` // Cuts dropped by per-scene extraction failures.
	Seconds       float64 `json:"seconds,omitempty"`        // Realized duration of the rendered material.
}

// Rendered reports whether the deliverable carries a playable media file.
func (d *Deliverable) Rendered() bool {
	return d != nil && d.Path != ""
}
