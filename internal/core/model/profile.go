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

package model

// Profile is a named set of weights describing a viewer's content
// preferences. The weights are opaque numeric hints over scene signals;
// the scorer combines them into a single per-scene affinity. A small
// built-in table ships with the service and deployments may add or
// override entries through configuration.
type Profile struct {
	Name    string  `json:"name" toml:"name"`
	Emotion float64 `json:"emotion" toml:"emotion"` // Weight on emotional intensity.
	Pacing  float64 `json:"pacing" toml:"pacing"`   // Weight on cut speed (shorter scenes score higher).
	Action  float64 `json:"action" toml:"action"`   // Weight on action density.
	Opening float64 `json:"opening" toml:"opening"` // Bias toward early material.
	Finale  float64 `json:"finale" toml:"finale"`   // Bias toward late material.
}

// DefaultProfiles returns the built-in viewer profile table keyed by
// profile id. An unknown profile id at submission is an invalid input.
func DefaultProfiles() map[string]Profile {
	return map[string]Profile{
		"default": {
			Name: "Default", Emotion: 0.5, Pacing: 0.5, Action: 0.5, Opening: 0.3, Finale: 0.3,
		},
		"action_fan": {
			Name: "Action Fan", Emotion: 0.3, Pacing: 0.9, Action: 1.0, Opening: 0.2, Finale: 0.6,
		},
		"drama_lover": {
			Name: "Drama Lover", Emotion: 1.0, Pacing: 0.2, Action: 0.2, Opening: 0.5, Finale: 0.5,
		},
		"comedy_fan": {
			Name: "Comedy Fan", Emotion: 0.6, Pacing: 0.7, Action: 0.3, Opening: 0.6, Finale: 0.3,
		},
		"thriller_seeker": {
			Name: "Thriller Seeker", Emotion: 0.8, Pacing: 0.8, Action: 0.7, Opening: 0.1, Finale: 0.9,
		},
		"family_viewer": {
			Name: "Family Viewer", Emotion: 0.5, Pacing: 0.4, Action: 0.2, Opening: 0.7, Finale: 0.4,
		},
	}
}
