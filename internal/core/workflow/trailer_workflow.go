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

// Package workflow defines the high-level business logic orchestrations,
// combining pipeline commands into coherent chains. This file implements
// the trailer generation workflow: the full path from an accepted job to
// its four rendered (or placeholder) deliverables.
package workflow

import (
	"github.com/mediagenai/go-trailer-service/internal/config"
	"github.com/mediagenai/go-trailer-service/internal/core/commands"
	"github.com/mediagenai/go-trailer-service/internal/core/cor"
	"github.com/mediagenai/go-trailer-service/internal/core/model"
)

// TrailerWorkflow orchestrates one job through the pipeline stages:
// scene analysis, profile scoring, variant planning, timeline assembly,
// and optional archival. The job document is persisted after every stage
// so a caller polling mid-pipeline sees the stages land one by one.
type TrailerWorkflow struct {
	cor.BaseCommand
	cfg      *config.Config
	writer   commands.JobWriter
	renderer commands.Renderer
	archiver commands.FileArchiver
	chain    cor.Chain
}

// NewTrailerWorkflow wires the trailer pipeline. A nil renderer produces
// placeholder deliverables; a nil archiver skips archival entirely.
func NewTrailerWorkflow(
	name string,
	cfg *config.Config,
	writer commands.JobWriter,
	renderer commands.Renderer,
	archiver commands.FileArchiver) *TrailerWorkflow {
	out := &TrailerWorkflow{
		BaseCommand: *cor.NewBaseCommand(name),
		cfg:         cfg,
		writer:      writer,
		renderer:    renderer,
		archiver:    archiver,
	}
	out.initializeChain()
	return out
}

// IsExecutable requires the job aggregate in the context.
func (w *TrailerWorkflow) IsExecutable(context cor.Context) bool {
	return context != nil && context.Get(commands.GetJobParameterName()) != nil
}

// Execute runs the pipeline chain for one job.
func (w *TrailerWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// initializeChain builds the command sequence. Each processing step is
// followed by a persistence checkpoint that advances the job's status.
func (w *TrailerWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())

	// Stage 1: build the scene model covering the source timeline.
	out.AddCommand(commands.NewSceneBuilder("build-scene-model", w.cfg.SceneBuilder))
	out.AddCommand(commands.NewStagePersist("persist-analyzed", w.writer, model.StatusAnalyzed))

	// Stage 2: score scenes against the viewer profile, then plan the
	// four variants off the one scored list.
	out.AddCommand(commands.NewSceneScorer("score-scenes", w.cfg.Profiles))
	out.AddCommand(commands.NewVariantPlanner("plan-variants", w.cfg.Templates))
	out.AddCommand(commands.NewStagePersist("persist-personalized", w.writer, model.StatusPersonalized))

	// Stage 3: cut lists plus rendered or placeholder deliverables. The
	// four variants render in parallel through the assembler's pool.
	out.AddCommand(commands.NewTimelineAssembler(
		"assemble-timelines",
		w.renderer,
		w.cfg.Storage.DeliverableDir,
		w.cfg.Application.ThreadPoolSize))
	out.AddCommand(commands.NewStagePersist("persist-assembled", w.writer, model.StatusAssembled))

	// Stage 4: best-effort archival of rendered deliverables, then the
	// final checkpoint that freezes the document.
	out.AddCommand(commands.NewDeliverableArchiver("archive-deliverables", w.archiver))
	out.AddCommand(commands.NewStagePersist("persist-complete", w.writer, model.StatusComplete))

	w.chain = out
}
