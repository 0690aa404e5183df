// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package pipeline

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-hook-gate/models"
)

// Response is the value a stage or handler produces for a delivery. The
// dispatcher writes it to the wire exactly once after the chain finishes;
// buffering the whole body keeps responses replayable by the idempotency
// cache.
type Response struct {
	Status      int
	ContentType string
	Body        []byte

	// header holds extra response headers, e.g. the replay marker.
	header http.Header
}

// Header returns the response's extra header map, creating it on first use.
func (resp *Response) Header() http.Header {
	if resp.header == nil {
		resp.header = make(http.Header)
	}
	return resp.header
}

// Write sends the response on w. The correlation id header is the
// dispatcher's job; Write only emits what the Response itself carries.
func (resp *Response) Write(w http.ResponseWriter) {
	for name, values := range resp.header {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}

// JSON builds a response by marshaling v. A marshal failure degrades to a
// plain 500 so the chain always has something to write.
func JSON(status int, v any) *Response {
	body, err := json.Marshal(v)
	if err != nil {
		return &Response{
			Status:      http.StatusInternalServerError,
			ContentType: "application/json",
			Body:        []byte(`{"error":"error writing data to JSON"}`),
		}
	}
	return &Response{Status: status, ContentType: "application/json", Body: body}
}

// Text builds a plain-text response.
func Text(status int, text string) *Response {
	return &Response{Status: status, ContentType: "text/plain; charset=utf-8", Body: []byte(text)}
}

// Error builds the uniform JSON error response carrying the correlation id.
func Error(status int, message, rid string) *Response {
	return JSON(status, models.ErrorResponse{Error: message, RequestID: rid})
}
