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

// Package commands provides the concrete implementations of the chain of
// responsibility Command interface. Each file defines one step of the
// trailer pipeline: scene model building, profile scoring, variant
// planning, timeline assembly, stage persistence, and deliverable
// archiving. Commands share state through the workflow context; the job
// aggregate travels under a well-known parameter name and each command
// mutates the section of the document it owns.
package commands

// GetJobParameterName returns the canonical context key under which the
// job aggregate is stored for the duration of a workflow execution. Using
// a function instead of an exported constant keeps the key read-only to
// other packages.
func GetJobParameterName() string {
	return "__JOB__"
}
