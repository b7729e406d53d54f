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

// Package services contains the business logic of the trailer service.
// This file defines the TrailerService: the job orchestrator that owns
// the per-request lifecycle. Submission validates synchronously and
// enqueues; a background worker pool drains the queue and drives each
// job through the pipeline workflow; retrieval reads the persisted job
// document in whatever stage it has reached.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/h2non/filetype"
	"golang.org/x/time/rate"

	"github.com/mediagenai/go-trailer-service/internal/config"
	"github.com/mediagenai/go-trailer-service/internal/core/commands"
	"github.com/mediagenai/go-trailer-service/internal/core/cor"
	"github.com/mediagenai/go-trailer-service/internal/core/model"
	"github.com/mediagenai/go-trailer-service/internal/core/workflow"
)

// submitQueueDepth bounds the number of accepted-but-unstarted jobs.
const submitQueueDepth = 64

// JobStore is the persistence surface the orchestrator depends on.
type JobStore interface {
	commands.JobWriter
	Get(ctx context.Context, id string) (*model.Job, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
	ListRecent(ctx context.Context, limit int) ([]*model.Job, error)
}

// DurationProber resolves a video's duration when the caller omits it.
// A nil prober makes the duration a required input.
type DurationProber interface {
	ProbeDuration(ctx context.Context, filePath string) (float64, error)
}

// SubmitRequest carries the validated submission parameters.
type SubmitRequest struct {
	VideoPath       string  // Path to the source video on local disk.
	DurationSeconds float64 // Source duration; zero asks the prober.
	Profile         string  // Key into the configured profile table.
	TrailerSeconds  float64 // Requested trailer duration.
	Uploaded        bool    // True when VideoPath is a fresh upload to content-check.
}

// TrailerService orchestrates trailer jobs from submission to delivery.
type TrailerService struct {
	cfg      *config.Config
	store    JobStore
	prober   DurationProber
	pipeline *workflow.TrailerWorkflow
	limiter  *rate.Limiter
	queue    chan *model.Job
}

// NewTrailerService wires the orchestrator. Renderer, prober, and
// archiver are all optional: a nil renderer yields placeholder
// deliverables, a nil prober requires callers to supply durations, and a
// nil archiver disables archival.
func NewTrailerService(
	cfg *config.Config,
	store JobStore,
	renderer commands.Renderer,
	prober DurationProber,
	archiver commands.FileArchiver) *TrailerService {
	return &TrailerService{
		cfg:      cfg,
		store:    store,
		prober:   prober,
		pipeline: workflow.NewTrailerWorkflow("trailer-pipeline", cfg, store, renderer, archiver),
		limiter:  rate.NewLimiter(rate.Limit(cfg.Application.SubmitRatePerSecond), cfg.Application.SubmitBurst),
		queue:    make(chan *model.Job, submitQueueDepth),
	}
}

// Start launches the background worker pool. Workers exit when the given
// context is canceled; in-flight jobs run to completion first.
func (s *TrailerService) Start(ctx context.Context) {
	workers := s.cfg.Application.ThreadPoolSize
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		go s.worker(ctx, w)
	}
}

func (s *TrailerService) worker(ctx context.Context, id int) {
	slog.Info("job worker started", "worker", id)
	for {
		select {
		case <-ctx.Done():
			slog.Info("job worker stopped", "worker", id)
			return
		case job := <-s.queue:
			s.process(ctx, job)
		}
	}
}

// Submit validates a request, creates the job, persists it in the
// received state, and enqueues it for processing.
//
// Outputs:
//   - string: The new job id, usable immediately for polling.
//   - error: model.ErrInvalidInput for rejected requests, model.ErrBusy
//     when the submission limiter or queue pushes back.
func (s *TrailerService) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	if err := s.validate(ctx, &req); err != nil {
		return "", err
	}
	if !s.limiter.Allow() {
		return "", fmt.Errorf("%w: submission rate limit", model.ErrBusy)
	}

	job := model.NewJob(model.JobInput{
		VideoPath:       req.VideoPath,
		DurationSeconds: req.DurationSeconds,
		Profile:         req.Profile,
		TrailerSeconds:  req.TrailerSeconds,
	})
	if err := s.store.Put(ctx, job); err != nil {
		return "", fmt.Errorf("failed to persist new job: %w", err)
	}

	select {
	case s.queue <- job:
	default:
		job.Fail("submit", "job queue full")
		_ = s.store.Put(ctx, job)
		return "", fmt.Errorf("%w: job queue full", model.ErrBusy)
	}

	slog.InfoContext(ctx, "job accepted",
		"job_id", job.Id,
		"profile", req.Profile,
		"duration_seconds", req.DurationSeconds,
		"trailer_seconds", req.TrailerSeconds)
	return job.Id, nil
}

// validate applies the synchronous submission checks. It may mutate the
// request to fill a probed duration.
func (s *TrailerService) validate(ctx context.Context, req *SubmitRequest) error {
	if req.VideoPath == "" {
		return fmt.Errorf("%w: video path is required", model.ErrInvalidInput)
	}
	if req.TrailerSeconds <= 0 {
		return fmt.Errorf("%w: trailer duration must be positive, got %f", model.ErrInvalidInput, req.TrailerSeconds)
	}
	if _, ok := s.cfg.Profiles[req.Profile]; !ok {
		return fmt.Errorf("%w: unknown profile %q", model.ErrInvalidInput, req.Profile)
	}
	if req.Uploaded {
		if err := checkVideoContent(req.VideoPath); err != nil {
			return err
		}
	}
	if req.DurationSeconds <= 0 {
		if s.prober == nil {
			return fmt.Errorf("%w: video duration must be positive, got %f", model.ErrInvalidInput, req.DurationSeconds)
		}
		probed, err := s.prober.ProbeDuration(ctx, req.VideoPath)
		if err != nil {
			return fmt.Errorf("%w: unable to determine video duration: %v", model.ErrInvalidInput, err)
		}
		req.DurationSeconds = probed
	}
	if req.DurationSeconds <= 0 {
		return fmt.Errorf("%w: video duration must be positive, got %f", model.ErrInvalidInput, req.DurationSeconds)
	}
	return nil
}

// checkVideoContent sniffs an uploaded file's magic bytes and rejects
// anything that is not a video container.
func checkVideoContent(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: unable to read uploaded file: %v", model.ErrInvalidInput, err)
	}
	defer f.Close()

	// 262 bytes is the longest magic number filetype matches against.
	head := make([]byte, 262)
	n, _ := f.Read(head)
	if !filetype.IsVideo(head[:n]) {
		return fmt.Errorf("%w: uploaded file is not a recognized video format", model.ErrInvalidInput)
	}
	return nil
}

// process drives one job through the pipeline chain. Chain errors move
// the job to the terminal error state with the failing command recorded.
func (s *TrailerService) process(ctx context.Context, job *model.Job) {
	corCtx := cor.NewBaseContext()
	corCtx.SetContext(ctx)
	corCtx.Add(commands.GetJobParameterName(), job)
	defer corCtx.Close()

	s.pipeline.Execute(corCtx)

	if corCtx.HasErrors() {
		for stage, err := range corCtx.GetErrors() {
			job.Fail(stage, err.Error())
			slog.ErrorContext(ctx, "job failed",
				"job_id", job.Id,
				"stage", stage,
				"error", err)
			break
		}
		if err := s.store.Put(ctx, job); err != nil {
			slog.ErrorContext(ctx, "failed to persist job error state", "job_id", job.Id, "error", err)
		}
		return
	}

	slog.InfoContext(ctx, "job complete", "job_id", job.Id)
}

// Get returns the persisted job document, in whatever stage it is.
func (s *TrailerService) Get(ctx context.Context, id string) (*model.Job, error) {
	return s.store.Get(ctx, id)
}

// GetDeliverable resolves a variant's rendered media file.
//
// Outputs:
//   - *model.Deliverable: The deliverable carrying the media path.
//   - error: model.ErrNotFound for an unknown job or variant key,
//     model.ErrNotRendered when the variant exists without media.
func (s *TrailerService) GetDeliverable(ctx context.Context, id string, variantKey string) (*model.Deliverable, error) {
	job, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(model.VariantKeys, variantKey) {
		return nil, fmt.Errorf("%w: unknown variant key %q", model.ErrNotFound, variantKey)
	}
	deliverable, ok := job.Deliverables[variantKey]
	if !ok {
		return nil, fmt.Errorf("%w: variant %s has no deliverable yet", model.ErrNotRendered, variantKey)
	}
	if !deliverable.Rendered() {
		return nil, fmt.Errorf("%w: %s", model.ErrNotRendered, deliverable.Note)
	}
	return deliverable, nil
}

// Stats returns job counts grouped by status.
func (s *TrailerService) Stats(ctx context.Context) (map[string]int, error) {
	return s.store.CountByStatus(ctx)
}

// Recent returns the most recently updated jobs for the dashboard.
func (s *TrailerService) Recent(ctx context.Context, limit int) ([]*model.Job, error) {
	return s.store.ListRecent(ctx, limit)
}
