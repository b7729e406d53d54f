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
// operational dashboard endpoint backed by the job store.
package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// DashboardRouter sets up the stats endpoint.
//
// This function defines the following endpoint:
//   - GET /stats: Job counts grouped by status plus the most recently
//     updated jobs (count controlled by the `recent` query parameter).
func DashboardRouter(r *gin.RouterGroup) {
	r.GET("/stats", func(c *gin.Context) {
		counts, err := state.trailerService.Stats(c.Request.Context())
		if err != nil {
			writeServiceError(c, err)
			return
		}

		limit, err := strconv.Atoi(c.DefaultQuery("recent", "10"))
		if err != nil {
			limit = 10
		}
		recent, err := state.trailerService.Recent(c.Request.Context(), limit)
		if err != nil {
			writeServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"counts": counts,
			"recent": recent,
		})
	})
}
