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

// Package main contains the HTTP route definitions. This file wires the
// job lifecycle endpoints: submission (JSON or multipart upload), job
// document polling, and variant media retrieval.
package main

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mediagenai/go-trailer-service/internal/core/model"
	"github.com/mediagenai/go-trailer-service/internal/core/services"
)

// submitBody is the JSON submission payload. duration_seconds may be
// omitted when ffprobe is available to resolve it.
type submitBody struct {
	VideoPath       string  `json:"video_path"`
	DurationSeconds float64 `json:"duration_seconds"`
	Profile         string  `json:"profile"`
	TrailerSeconds  float64 `json:"trailer_seconds"`
}

// JobRouter sets up the job lifecycle endpoints.
//
// This function defines the following endpoints:
//   - POST /jobs: Submits a trailer job from a JSON body or an uploaded file.
//   - GET /jobs/:id: Retrieves the full job document in its current stage.
//   - GET /jobs/:id/variants/:key: Streams one variant's rendered media.
func JobRouter(r *gin.RouterGroup) {
	jobs := r.Group("/jobs")
	{
		// Handler for POST /jobs
		jobs.POST("", func(c *gin.Context) {
			req, err := buildSubmitRequest(c)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			jobID, err := state.trailerService.Submit(c.Request.Context(), req)
			if err != nil {
				writeServiceError(c, err)
				return
			}
			c.JSON(http.StatusAccepted, gin.H{"job_id": jobID})
		})

		// Handler for GET /jobs/:id
		jobs.GET("/:id", func(c *gin.Context) {
			job, err := state.trailerService.Get(c.Request.Context(), c.Param("id"))
			if err != nil {
				writeServiceError(c, err)
				return
			}
			c.JSON(http.StatusOK, job)
		})

		// Handler for GET /jobs/:id/variants/:key
		// A variant that exists but carries no media (renderer was
		// unavailable) is a conflict, distinct from an unknown id or key.
		jobs.GET("/:id/variants/:key", func(c *gin.Context) {
			deliverable, err := state.trailerService.GetDeliverable(c.Request.Context(), c.Param("id"), c.Param("key"))
			if err != nil {
				writeServiceError(c, err)
				return
			}
			c.FileAttachment(deliverable.Path, filepath.Base(deliverable.Path))
		})
	}
}

// buildSubmitRequest parses either submission shape: a multipart form
// with a source file, or a plain JSON body referencing a local path.
func buildSubmitRequest(c *gin.Context) (services.SubmitRequest, error) {
	if form, err := c.MultipartForm(); err == nil && form != nil && len(form.File["file"]) > 0 {
		file := form.File["file"][0]
		localPath := filepath.Join(state.config.Storage.IncomingDir, uuid.NewString()+filepath.Ext(file.Filename))
		if err := c.SaveUploadedFile(file, localPath); err != nil {
			return services.SubmitRequest{}, err
		}
		return services.SubmitRequest{
			VideoPath:       localPath,
			DurationSeconds: parseFloatForm(form.Value["duration_seconds"]),
			Profile:         firstFormValue(form.Value["profile"]),
			TrailerSeconds:  parseFloatForm(form.Value["trailer_seconds"]),
			Uploaded:        true,
		}, nil
	}

	var body submitBody
	if err := c.ShouldBindJSON(&body); err != nil {
		return services.SubmitRequest{}, err
	}
	return services.SubmitRequest{
		VideoPath:       body.VideoPath,
		DurationSeconds: body.DurationSeconds,
		Profile:         body.Profile,
		TrailerSeconds:  body.TrailerSeconds,
	}, nil
}

func firstFormValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func parseFloatForm(values []string) float64 {
	if len(values) == 0 {
		return 0
	}
	out, err := strconv.ParseFloat(values[0], 64)
	if err != nil {
		return 0
	}
	return out
}

// writeServiceError maps the service's sentinel errors onto HTTP
// statuses. Anything unrecognized is an internal failure.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrNotRendered):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrBusy):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		slog.Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// ConfigRouter exposes the read-only configuration tables the frontend
// renders pickers from.
func ConfigRouter(r *gin.RouterGroup) {
	r.GET("/profiles", func(c *gin.Context) {
		c.JSON(http.StatusOK, state.config.Profiles)
	})
	r.GET("/templates", func(c *gin.Context) {
		c.JSON(http.StatusOK, state.config.Templates)
	})
}
