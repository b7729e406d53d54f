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

// Shared helpers for the command tests.
package commands_test

import (
	goctx "context"
	"testing"

	"github.com/mediagenai/go-trailer-service/internal/core/commands"
	"github.com/mediagenai/go-trailer-service/internal/core/cor"
	"github.com/mediagenai/go-trailer-service/internal/core/model"
)

// newTestContext builds a workflow context carrying the given job, the
// way the orchestrator seeds one per pipeline run.
func newTestContext(t *testing.T, job *model.Job) cor.Context {
	t.Helper()
	ctx := cor.NewBaseContext()
	ctx.SetContext(goctx.Background())
	ctx.Add(commands.GetJobParameterName(), job)
	return ctx
}
