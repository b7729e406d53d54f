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

package services_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediagenai/go-trailer-service/internal/config"
	"github.com/mediagenai/go-trailer-service/internal/core/model"
	"github.com/mediagenai/go-trailer-service/internal/core/services"
	"github.com/mediagenai/go-trailer-service/internal/store"
	"github.com/mediagenai/go-trailer-service/internal/testutil"
)

// fakeProber returns a fixed duration for any path.
type fakeProber struct {
	seconds float64
	err     error
}

func (f *fakeProber) ProbeDuration(_ context.Context, _ string) (float64, error) {
	return f.seconds, f.err
}

func newTestService(t *testing.T, cfg *config.Config, prober services.DurationProber) (*services.TrailerService, *store.JobStore) {
	t.Helper()
	js, err := store.Open(cfg.Storage.JobDatabase)
	require.NoError(t, err)
	t.Cleanup(func() { _ = js.Close() })
	return services.NewTrailerService(cfg, js, nil, prober, nil), js
}

func validSubmit() services.SubmitRequest {
	return services.SubmitRequest{
		VideoPath:       "/media/source/feature.mp4",
		DurationSeconds: 600,
		Profile:         "default",
		TrailerSeconds:  30,
	}
}

func TestSubmitRejectsInvalidInput(t *testing.T) {
	svc, _ := newTestService(t, testutil.GetTestConfig(t), nil)

	cases := []struct {
		name   string
		mutate func(*services.SubmitRequest)
	}{
		{"missing video path", func(r *services.SubmitRequest) { r.VideoPath = "" }},
		{"zero trailer seconds", func(r *services.SubmitRequest) { r.TrailerSeconds = 0 }},
		{"negative trailer seconds", func(r *services.SubmitRequest) { r.TrailerSeconds = -5 }},
		{"unknown profile", func(r *services.SubmitRequest) { r.Profile = "cinephile" }},
		{"missing duration without prober", func(r *services.SubmitRequest) { r.DurationSeconds = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validSubmit()
			tc.mutate(&req)
			id, err := svc.Submit(context.Background(), req)
			assert.Empty(t, id)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
		})
	}
}

func TestSubmitRejectsNonVideoUpload(t *testing.T) {
	svc, _ := newTestService(t, testutil.GetTestConfig(t), nil)

	path := filepath.Join(t.TempDir(), "notes.mp4")
	require.NoError(t, os.WriteFile(path, []byte("plain text, wrong magic bytes"), 0o644))

	req := validSubmit()
	req.VideoPath = path
	req.Uploaded = true
	_, err := svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestSubmitProbesMissingDuration(t *testing.T) {
	svc, js := newTestService(t, testutil.GetTestConfig(t), &fakeProber{seconds: 480})

	req := validSubmit()
	req.DurationSeconds = 0
	id, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)

	job, err := js.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 480.0, job.Input.DurationSeconds)
}

func TestSubmitProbeFailureIsInvalidInput(t *testing.T) {
	svc, _ := newTestService(t, testutil.GetTestConfig(t), &fakeProber{err: errors.New("ffprobe exploded")})

	req := validSubmit()
	req.DurationSeconds = 0
	_, err := svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestSubmitRateLimitReturnsBusy(t *testing.T) {
	cfg := testutil.GetTestConfig(t)
	cfg.Application.SubmitRatePerSecond = 0.001
	cfg.Application.SubmitBurst = 1
	svc, _ := newTestService(t, cfg, nil)

	_, err := svc.Submit(context.Background(), validSubmit())
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), validSubmit())
	assert.ErrorIs(t, err, model.ErrBusy)
}

// Submitting a valid job against a started service must drive it to the
// terminal complete state, with placeholder deliverables because no
// renderer is configured.
func TestSubmitProcessesJobToCompletion(t *testing.T) {
	svc, _ := newTestService(t, testutil.GetTestConfig(t), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	id, err := svc.Submit(ctx, validSubmit())
	require.NoError(t, err)

	job := waitForTerminal(t, svc, id)
	require.Equal(t, model.StatusComplete, job.Status)
	require.NotNil(t, job.Personalization)
	assert.Len(t, job.Personalization.Variants, len(model.VariantKeys))
	for _, key := range model.VariantKeys {
		deliverable := job.Deliverables[key]
		require.NotNil(t, deliverable, "deliverable for %s", key)
		assert.False(t, deliverable.Rendered())
	}

	// Without a rendered media file the variant is present but not
	// downloadable.
	_, err = svc.GetDeliverable(ctx, id, "variant_1")
	assert.ErrorIs(t, err, model.ErrNotRendered)

	counts, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[string(model.StatusComplete)])

	recent, err := svc.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, id, recent[0].Id)
}

func TestGetUnknownJob(t *testing.T) {
	svc, _ := newTestService(t, testutil.GetTestConfig(t), nil)

	_, err := svc.Get(context.Background(), "missing-id")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGetDeliverableDistinguishesMissingFromUnrendered(t *testing.T) {
	svc, js := newTestService(t, testutil.GetTestConfig(t), nil)
	ctx := context.Background()

	job := model.NewJob(model.JobInput{VideoPath: "/media/source/feature.mp4", DurationSeconds: 600, Profile: "default", TrailerSeconds: 30})
	job.Deliverables = map[string]*model.Deliverable{
		"variant_1": {Name: "Opening Act", Path: "/media/out/variant_1.mp4", SizeBytes: 1024, Seconds: 30},
		"variant_2": {Name: "Middle Climax", Note: "rendering skipped: no renderer available"},
	}
	require.NoError(t, js.Put(ctx, job))

	_, err := svc.GetDeliverable(ctx, "no-such-job", "variant_1")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = svc.GetDeliverable(ctx, job.Id, "directors_cut")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = svc.GetDeliverable(ctx, job.Id, "variant_2")
	assert.ErrorIs(t, err, model.ErrNotRendered)

	_, err = svc.GetDeliverable(ctx, job.Id, "variant_3")
	assert.ErrorIs(t, err, model.ErrNotRendered)

	deliverable, err := svc.GetDeliverable(ctx, job.Id, "variant_1")
	require.NoError(t, err)
	assert.Equal(t, "/media/out/variant_1.mp4", deliverable.Path)
}

// waitForTerminal polls the job document until it leaves the in-flight
// states or the deadline passes.
func waitForTerminal(t *testing.T, svc *services.TrailerService, id string) *model.Job {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		job, err := svc.Get(context.Background(), id)
		require.NoError(t, err)
		if job.Status == model.StatusComplete || job.Status == model.StatusError {
			return job
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("job %s did not reach a terminal state", id)
	return nil
}
