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

// This file defines the command that copies rendered deliverables into
// long-term storage. Archival is strictly best effort: an upload failure
// is logged and the pipeline continues, because the local file remains
// the authoritative deliverable.
package commands

import (
	goctx "context"
	"log/slog"

	"github.com/mediagenai/go-trailer-service/internal/core/cor"
	"github.com/mediagenai/go-trailer-service/internal/core/model"
)

// FileArchiver uploads one local file for a job and returns the remote
// key it was stored under.
type FileArchiver interface {
	ArchiveFile(ctx goctx.Context, jobID string, localPath string) (string, error)
}

// DeliverableArchiver is the command that archives every rendered
// deliverable after assembly.
type DeliverableArchiver struct {
	cor.BaseCommand
	archiver FileArchiver
}

// NewDeliverableArchiver creates the archive command. A nil archiver
// renders the command non-executable, which the chain skips over.
func NewDeliverableArchiver(name string, archiver FileArchiver) *DeliverableArchiver {
	return &DeliverableArchiver{BaseCommand: *cor.NewBaseCommand(name), archiver: archiver}
}

// IsExecutable requires a configured archiver and a job with
// deliverables.
func (c *DeliverableArchiver) IsExecutable(context cor.Context) bool {
	if c.archiver == nil || context == nil {
		return false
	}
	job, ok := context.Get(GetJobParameterName()).(*model.Job)
	return ok && len(job.Deliverables) > 0
}

// Execute uploads each rendered deliverable. Note-only deliverables have
// nothing to archive and are skipped.
func (c *DeliverableArchiver) Execute(context cor.Context) {
	job := context.Get(GetJobParameterName()).(*model.Job)

	for key, deliverable := range job.Deliverables {
		if !deliverable.Rendered() {
			continue
		}
		if _, err := c.archiver.ArchiveFile(context.GetContext(), job.Id, deliverable.Path); err != nil {
			c.GetErrorCounter().Add(context.GetContext(), 1)
			slog.WarnContext(context.GetContext(), "deliverable archive failed",
				"job_id", job.Id,
				"variant", key,
				"error", err)
		}
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), job)
}
