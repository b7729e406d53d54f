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
// This file contains the scene-level types: a Scene is a contiguous,
// time-bounded segment of the source video, and a ScoredScene carries the
// profile affinity computed for it during personalization.
package model

import "fmt"

// Region is the coarse temporal bucket a scene falls into, derived from the
// scene's start position relative to the full video duration.
type Region string

const (
	RegionEarly  Region = "early"  // start < D/3
	RegionMiddle Region = "middle" // D/3 <= start < 2D/3
	RegionLate   Region = "late"   // start >= 2D/3
)

// Regions lists all regions in timeline order. Variant distributions are
// keyed by these values.
var Regions = []Region{RegionEarly, RegionMiddle, RegionLate}

// RegionFor assigns a region based on a scene's start offset within a video
// of the given duration. Boundaries sit at fixed thirds of the timeline.
func RegionFor(start, videoDuration float64) Region {
	switch {
	case start < videoDuration/3:
		return RegionEarly
	case start < 2*videoDuration/3:
		return RegionMiddle
	default:
		return RegionLate
	}
}

// Scene is one time-bounded unit of the source video. Scenes are generated
// once at job creation and never mutated afterward. Within a job the scenes
// are non-overlapping, sorted by start, and together cover [0, duration).
type Scene struct {
	Id       string  `json:"id"`       // Stable identifier, ordering-significant (scene_1, scene_2, ...).
	Start    float64 `json:"start"`    // Start offset in seconds, inclusive.
	End      float64 `json:"end"`      // End offset in seconds, exclusive.
	Duration float64 `json:"duration"` // End - Start, in seconds.
	Region   Region  `json:"region"`   // Temporal bucket derived from Start.
}

// NewScene builds a scene for the given ordinal (1-based) and time window,
// assigning the region from the window's start position.
func NewScene(ordinal int, start, end, videoDuration float64) *Scene {
	return &Scene{
		Id:       fmt.Sprintf("scene_%d", ordinal),
		Start:    start,
		End:      end,
		Duration: end - start,
		Region:   RegionFor(start, videoDuration),
	}
}

// ScoredScene pairs a scene with the affinity score the profile scorer
// assigned to it. Scores are only meaningful relative to other scores
// within the same job. Consumers treat these values as read-only.
type ScoredScene struct {
	Scene *Scene  `json:"scene"`
	Score float64 `json:"score"`
}
