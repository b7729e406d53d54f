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

// This file defines the command that checkpoints the job document between
// pipeline stages. One instance is placed after each processing step with
// its target status, so a caller polling the job mid-pipeline observes
// partial progress rather than only the final document.
package commands

import (
	goctx "context"
	"log/slog"

	"github.com/mediagenai/go-trailer-service/internal/core/cor"
	"github.com/mediagenai/go-trailer-service/internal/core/model"
)

// JobWriter is the persistence surface the pipeline needs.
type JobWriter interface {
	Put(ctx goctx.Context, job *model.Job) error
}

// StagePersist advances the job to a target status and writes the
// document through.
type StagePersist struct {
	cor.BaseCommand
	writer JobWriter
	status model.JobStatus
}

// NewStagePersist creates a persistence checkpoint for one stage
// transition.
func NewStagePersist(name string, writer JobWriter, status model.JobStatus) *StagePersist {
	return &StagePersist{BaseCommand: *cor.NewBaseCommand(name), writer: writer, status: status}
}

func (c *StagePersist) IsExecutable(context cor.Context) bool {
	return context != nil && context.Get(GetJobParameterName()) != nil
}

// Execute advances the status and persists the document. A write failure
// is a pipeline error: progress the caller cannot observe is progress
// that did not happen.
func (c *StagePersist) Execute(context cor.Context) {
	job := context.Get(GetJobParameterName()).(*model.Job)

	job.Advance(c.status)
	if err := c.writer.Put(context.GetContext(), job); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	slog.InfoContext(context.GetContext(), "job stage persisted",
		"job_id", job.Id,
		"status", string(c.status))
	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), job)
}
