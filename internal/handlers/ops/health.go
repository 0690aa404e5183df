// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package ops contributes the operational routes: health probes and spam
// detector statistics.
package ops

import (
	"net/http"

	"github.com/MKhiriev/go-hook-gate/internal/pipeline"
	"github.com/MKhiriev/go-hook-gate/internal/registry"
	"github.com/MKhiriev/go-hook-gate/internal/spam"
	"github.com/MKhiriev/go-hook-gate/models"
)

const serviceName = "go-hook-gate"

// Health serves the health probes and the spam statistics route. The spam
// detector is optional; without it the stats route answers 503.
type Health struct {
	registry.BaseModule
	build    models.AppBuildInfo
	detector *spam.Detector
}

// NewHealth builds the module. detector may be nil when spam detection is
// disabled.
func NewHealth(build models.AppBuildInfo, detector *spam.Detector) *Health {
	return &Health{build: build, detector: detector}
}

func (*Health) Name() string { return "ops.health" }

func (m *Health) Routes() []registry.Route {
	return []registry.Route{
		{
			ID:      "health_basic",
			Method:  http.MethodGet,
			Path:    "/webhook/health",
			Handler: m.healthBasic,
		},
		{
			ID:      "health_detail",
			Method:  http.MethodGet,
			Path:    "/webhook/health-detail",
			Handler: m.healthDetail,
		},
		{
			ID:      "spam_stats",
			Method:  http.MethodGet,
			Path:    "/webhook/spam-stats",
			Handler: m.spamStats,
		},
	}
}

func (m *Health) healthBasic(*pipeline.RequestContext) *pipeline.Response {
	return pipeline.Text(http.StatusOK, "ok")
}

func (m *Health) healthDetail(*pipeline.RequestContext) *pipeline.Response {
	return pipeline.JSON(http.StatusOK, models.HealthDetail{
		Status:  "ok",
		Service: serviceName,
		Version: m.build.BuildVersion(),
		Commit:  m.build.BuildCommit(),
	})
}

// spamStatsResponse wraps the detector statistics for the stats route.
type spamStatsResponse struct {
	Status string               `json:"status"`
	Stats  models.DetectorStats `json:"two_pass_stats"`
}

func (m *Health) spamStats(rc *pipeline.RequestContext) *pipeline.Response {
	if m.detector == nil {
		return pipeline.Error(http.StatusServiceUnavailable, "spam detection disabled", rc.RID)
	}
	return pipeline.JSON(http.StatusOK, spamStatsResponse{
		Status: "ok",
		Stats:  m.detector.Stats(),
	})
}
