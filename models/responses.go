package models

import "encoding/json"

// Ack is the acknowledgement envelope returned for every accepted webhook
// delivery. Senders use it for debugging; nothing in the delivery contract
// depends on the payload echo.
type Ack struct {
	// OK is always true when the delivery reached its handler.
	OK bool `json:"ok"`

	// Event is the route id of the event that was delivered,
	// e.g. "ContactCreate".
	Event string `json:"event"`

	// Path is the request path including the query string, echoed back so
	// operators can see which alias the sender used.
	Path string `json:"path"`

	// Data echoes the parsed request payload. When the body is not valid
	// JSON the raw text is wrapped as {"raw": "<body>"} instead.
	Data json.RawMessage `json:"data"`
}

// ErrorResponse is the uniform JSON error body. Every terminal error carries
// the request correlation id so a sender report can be matched to log lines.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// HealthDetail is the payload of the detailed health endpoint.
type HealthDetail struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
	Commit  string `json:"commit,omitempty"`
}
