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

// Package store_test exercises the SQLite job store against a real
// database file in a temp directory.
package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/zeebo/assert"

	"github.com/mediagenai/go-trailer-service/internal/core/model"
	"github.com/mediagenai/go-trailer-service/internal/store"
)

func openStore(t *testing.T) *store.JobStore {
	t.Helper()
	s, err := store.Open(t.TempDir() + "/jobs.db")
	assert.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newStoredJob() *model.Job {
	return model.NewJob(model.JobInput{
		VideoPath:       "testdata/source.mp4",
		DurationSeconds: 300,
		Profile:         "default",
		TrailerSeconds:  30,
	})
}

func TestJobStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	job := newStoredJob()
	job.Analysis = &model.Analysis{Scenes: []*model.Scene{model.NewScene(1, 0, 12, 300)}}
	assert.NoError(t, s.Put(ctx, job))

	got, err := s.Get(ctx, job.Id)
	assert.NoError(t, err)
	assert.Equal(t, job.Id, got.Id)
	assert.Equal(t, string(model.StatusReceived), string(got.Status))
	assert.Equal(t, job.Input.Profile, got.Input.Profile)
	assert.Equal(t, 1, len(got.Analysis.Scenes))
	assert.Equal(t, "scene_1", got.Analysis.Scenes[0].Id)
}

func TestJobStoreGetUnknownId(t *testing.T) {
	s := openStore(t)
	_, err := s.Get(context.Background(), "no-such-job")
	assert.True(t, err == model.ErrNotFound)
}

// A second Put for the same id must replace the document, not duplicate
// the row.
func TestJobStoreUpsert(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	job := newStoredJob()
	assert.NoError(t, s.Put(ctx, job))

	job.Advance(model.StatusAnalyzed)
	assert.NoError(t, s.Put(ctx, job))

	got, err := s.Get(ctx, job.Id)
	assert.NoError(t, err)
	assert.Equal(t, string(model.StatusAnalyzed), string(got.Status))

	counts, err := s.CountByStatus(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, counts[string(model.StatusAnalyzed)])
	assert.Equal(t, 0, counts[string(model.StatusReceived)])
}

func TestJobStoreCountByStatus(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	for i := 0; i < 3; i++ {
		assert.NoError(t, s.Put(ctx, newStoredJob()))
	}
	done := newStoredJob()
	done.Advance(model.StatusComplete)
	assert.NoError(t, s.Put(ctx, done))

	counts, err := s.CountByStatus(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 3, counts[string(model.StatusReceived)])
	assert.Equal(t, 1, counts[string(model.StatusComplete)])
}

func TestJobStoreListRecent(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	older := newStoredJob()
	assert.NoError(t, s.Put(ctx, older))

	newer := newStoredJob()
	newer.UpdateDate = newer.UpdateDate.Add(time.Minute)
	assert.NoError(t, s.Put(ctx, newer))

	jobs, err := s.ListRecent(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(jobs))
	assert.Equal(t, newer.Id, jobs[0].Id)
}
