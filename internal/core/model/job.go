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
// This file contains the Job aggregate: the persisted record of one
// trailer-generation request and every pipeline output produced for it.
// The job document is written to the store after every stage, so a caller
// polling mid-pipeline observes partial progress.
package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// JobStatus is the pipeline stage a job has reached. Transitions are
// strictly linear; StatusError is terminal and reachable from any stage.
type JobStatus string

const (
	StatusReceived     JobStatus = "received"     // Accepted, scenes not yet built.
	StatusAnalyzed     JobStatus = "analyzed"     // Scene model built.
	StatusPersonalized JobStatus = "personalized" // Scenes scored, variants planned.
	StatusAssembled    JobStatus = "assembled"    // Timelines cut, deliverables produced.
	StatusComplete     JobStatus = "complete"     // Document is final and immutable.
	StatusError        JobStatus = "error"        // A stage failed; see Job.Error.
)

// Sentinel errors for the service boundary. Handlers map these to HTTP
// statuses; everything else is an internal failure.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrNotRendered  = errors.New("variant not rendered")
	ErrBusy         = errors.New("submission rate exceeded")
)

// JobInput is the immutable request metadata captured at submission.
type JobInput struct {
	VideoPath       string  `json:"video_path"`
	DurationSeconds float64 `json:"duration_seconds"`
	Profile         string  `json:"profile"`
	TrailerSeconds  float64 `json:"trailer_seconds"`
}

// Analysis holds the scene model built from the source video.
type Analysis struct {
	Scenes []*Scene `json:"scenes"`
}

// Personalization holds the scored scene list and the four variant plans.
type Personalization struct {
	Scores   []*ScoredScene `json:"scores,omitempty"`
	Variants []*VariantPlan `json:"variants"`
}

// Assembly holds the concrete cut list per variant key.
type Assembly struct {
	Timelines map[string][]Cut `json:"timelines"`
}

// JobError records which stage failed and why. It is only present on jobs
// in the error state.
type JobError struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Job is the aggregate root for one trailer-generation request. It is
// created at submission, mutated by each pipeline stage in sequence, and
// immutable once Status is complete (or error).
type Job struct {
	Id              string                  `json:"id"`
	Status          JobStatus               `json:"status"`
	CreateDate      time.Time               `json:"create_date"`
	UpdateDate      time.Time               `json:"update_date"`
	Input           JobInput                `json:"input"`
	Analysis        *Analysis               `json:"analysis,omitempty"`
	Personalization *Personalization        `json:"personalization,omitempty"`
	Assembly        *Assembly               `json:"assembly,omitempty"`
	Deliverables    map[string]*Deliverable `json:"deliverables,omitempty"`
	Error           *JobError               `json:"error,omitempty"`
}

// NewJob creates a job in the received state with a fresh random id.
func NewJob(input JobInput) *Job {
	now := time.Now().UTC()
	return &Job{
		Id:         uuid.NewString(),
		Status:     StatusReceived,
		CreateDate: now,
		UpdateDate: now,
		Input:      input,
	}
}

// Fail moves the job to the terminal error state, recording the failing
// stage and message.
func (j *Job) Fail(stage string, message string) {
	j.Status = StatusError
	j.Error = &JobError{Stage: stage, Message: message}
	j.UpdateDate = time.Now().UTC()
}

// Advance moves the job to the given status and bumps the update
// timestamp. Callers are responsible for persisting afterward.
func (j *Job) Advance(status JobStatus) {
	j.Status = status
	j.UpdateDate = time.Now().UTC()
}

// Variant returns the plan stored for the given variant key, or nil.
func (j *Job) Variant(key string) *VariantPlan {
	if j.Personalization == nil {
		return nil
	}
	for _, v := range j.Personalization.Variants {
		if v.Key == key {
			return v
		}
	}
	return nil
}
