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

// This file defines the command that turns each variant plan into a
// concrete cut list and, when a renderer is available, a playable media
// file.
//
// Logic Flow:
//  1. Derive the cut list for every variant from its plan. The cut list
//     is recorded on the job even when nothing gets rendered.
//  2. If no renderer is available, emit note-only deliverables and finish
//     successfully. A missing renderer is a degraded success, never an
//     error.
//  3. Otherwise render the four variants concurrently through a worker
//     pool: a jobs channel feeds renderJob values to a fixed set of
//     goroutines, which push renderResult values back on a results
//     channel. Each worker extracts the variant's clips, concatenates
//     them, and moves the output into place.
//
// A single failed clip extraction is logged and skipped, shrinking the
// realized duration, so one bad cut never sinks a variant. The output
// file is written under a temp name and renamed into place, so a partial
// write is never visible under the final name.
package commands

import (
	goctx "context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mediagenai/go-trailer-service/internal/core/cor"
	"github.com/mediagenai/go-trailer-service/internal/core/model"
)

// RenderUnavailableNote is the deliverable note used when no local
// renderer exists. Spot-checked by callers and tests.
const RenderUnavailableNote = "rendering skipped: no renderer available"

// Renderer is the subset of the media executor the assembler needs.
// A nil Renderer means local rendering is unavailable.
type Renderer interface {
	ExtractClip(ctx goctx.Context, source string, start, end float64, output string) error
	Concat(ctx goctx.Context, inputs []string, output string) error
}

// TimelineAssembler is the command that produces cut lists and
// deliverables for every planned variant.
type TimelineAssembler struct {
	cor.BaseCommand
	renderer        Renderer
	outputDir       string
	numberOfWorkers int
}

// NewTimelineAssembler creates the assembler command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - renderer: The clip extractor/concatenator, or nil when unavailable.
//   - outputDir: Root directory for rendered deliverables.
//   - numberOfWorkers: Size of the variant render pool.
//
// Outputs:
//   - *TimelineAssembler: A pointer to the newly instantiated command.
func NewTimelineAssembler(name string, renderer Renderer, outputDir string, numberOfWorkers int) *TimelineAssembler {
	if numberOfWorkers < 1 {
		numberOfWorkers = 1
	}
	return &TimelineAssembler{
		BaseCommand:     *cor.NewBaseCommand(name),
		renderer:        renderer,
		outputDir:       outputDir,
		numberOfWorkers: numberOfWorkers,
	}
}

// IsExecutable requires a job with planned variants.
func (c *TimelineAssembler) IsExecutable(context cor.Context) bool {
	if context == nil {
		return false
	}
	job, ok := context.Get(GetJobParameterName()).(*model.Job)
	return ok && job.Personalization != nil && len(job.Personalization.Variants) > 0
}

// Execute assembles every variant and stores the cut lists and
// deliverables on the job.
func (c *TimelineAssembler) Execute(context cor.Context) {
	job := context.Get(GetJobParameterName()).(*model.Job)

	job.Assembly = &model.Assembly{Timelines: make(map[string][]model.Cut)}
	job.Deliverables = make(map[string]*model.Deliverable)
	for _, plan := range job.Personalization.Variants {
		job.Assembly.Timelines[plan.Key] = cutList(plan)
	}

	if c.renderer == nil {
		for _, plan := range job.Personalization.Variants {
			job.Deliverables[plan.Key] = &model.Deliverable{Name: plan.Name, Note: RenderUnavailableNote}
		}
		slog.InfoContext(context.GetContext(), "renderer unavailable, emitting placeholder deliverables", "job_id", job.Id)
		c.GetSuccessCounter().Add(context.GetContext(), 1)
		context.Add(c.GetOutputParam(), job)
		return
	}

	var wg sync.WaitGroup
	jobs := make(chan *renderJob, len(job.Personalization.Variants))
	results := make(chan *renderResult, len(job.Personalization.Variants))

	for w := 0; w < c.numberOfWorkers; w++ {
		wg.Add(1)
		go c.renderWorker(jobs, results, &wg)
	}

	for _, plan := range job.Personalization.Variants {
		renderCtx, renderSpan := c.Tracer.Start(context.GetContext(), fmt.Sprintf("%s_render_%s", c.GetName(), plan.Key))
		jobs <- &renderJob{
			ctx:    renderCtx,
			span:   renderSpan,
			jobID:  job.Id,
			plan:   plan,
			cuts:   job.Assembly.Timelines[plan.Key],
			source: job.Input.VideoPath,
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	for r := range results {
		job.Deliverables[r.key] = r.deliverable
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), job)
}

// cutList converts a plan's chronological scene selection into in/out
// windows on the source video.
func cutList(plan *model.VariantPlan) []model.Cut {
	cuts := make([]model.Cut, 0, len(plan.Scenes))
	for _, s := range plan.Scenes {
		cuts = append(cuts, model.Cut{SceneId: s.SceneId, In: s.Start, Out: s.End})
	}
	return cuts
}

// renderJob carries everything one worker needs to render one variant.
type renderJob struct {
	ctx    goctx.Context
	span   trace.Span
	jobID  string
	plan   *model.VariantPlan
	cuts   []model.Cut
	source string
}

// renderResult carries one variant's deliverable back from a worker.
type renderResult struct {
	key         string
	deliverable *model.Deliverable
}

// renderWorker consumes render jobs until the channel closes. Every job
// yields a deliverable; render failures degrade to note-only output
// rather than erroring the pipeline.
func (c *TimelineAssembler) renderWorker(jobs <-chan *renderJob, results chan<- *renderResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for j := range jobs {
		deliverable := c.renderVariant(j)
		if deliverable.Rendered() {
			j.span.SetStatus(codes.Ok, "variant rendered")
		} else {
			j.span.SetStatus(codes.Ok, deliverable.Note)
		}
		j.span.End()
		results <- &renderResult{key: j.plan.Key, deliverable: deliverable}
	}
}

// renderVariant extracts each cut, concatenates the surviving clips, and
// moves the result into its final location.
func (c *TimelineAssembler) renderVariant(j *renderJob) *model.Deliverable {
	deliverable := &model.Deliverable{Name: j.plan.Name}

	clipDir, err := os.MkdirTemp("", "trailer-clips-")
	if err != nil {
		deliverable.Note = fmt.Sprintf("rendering skipped: %v", err)
		return deliverable
	}
	defer func() { _ = os.RemoveAll(clipDir) }()

	clips := make([]string, 0, len(j.cuts))
	for i, cut := range j.cuts {
		clip := filepath.Join(clipDir, fmt.Sprintf("clip_%03d.mp4", i))
		if err := c.renderer.ExtractClip(j.ctx, j.source, cut.In, cut.Out, clip); err != nil {
			slog.WarnContext(j.ctx, "clip extraction failed, skipping scene",
				"job_id", j.jobID,
				"variant", j.plan.Key,
				"scene_id", cut.SceneId,
				"error", err)
			deliverable.SkippedScenes++
			continue
		}
		clips = append(clips, clip)
		deliverable.Seconds += cut.Out - cut.In
	}
	if len(clips) == 0 {
		deliverable.Note = "rendering skipped: no scene could be extracted"
		deliverable.Seconds = 0
		return deliverable
	}

	finalDir := filepath.Join(c.outputDir, j.jobID)
	if err := os.MkdirAll(finalDir, 0o755); err != nil {
		deliverable.Note = fmt.Sprintf("rendering skipped: %v", err)
		return deliverable
	}
	finalPath := filepath.Join(finalDir, j.plan.Key+".mp4")
	tempPath := finalPath + ".tmp"

	if err := c.renderer.Concat(j.ctx, clips, tempPath); err != nil {
		_ = os.Remove(tempPath)
		deliverable.Note = fmt.Sprintf("rendering skipped: concat failed: %v", err)
		return deliverable
	}
	if err := os.Rename(tempPath, finalPath); err != nil {
		_ = os.Remove(tempPath)
		deliverable.Note = fmt.Sprintf("rendering skipped: %v", err)
		return deliverable
	}

	if info, err := os.Stat(finalPath); err == nil {
		deliverable.SizeBytes = info.Size()
	}
	deliverable.Path = finalPath
	return deliverable
}
