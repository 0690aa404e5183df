package models

import "time"

// DeliveryRecord is one row of the delivery journal: the audit trail of
// webhook deliveries that reached a handler or were replayed from the
// idempotency cache. Written off the request path; losing a record never
// fails a delivery.
type DeliveryRecord struct {
	// RequestID is the correlation id assigned at chain entry.
	RequestID string `json:"request_id"`

	// RouteID is the matched route id (event name or ops route id).
	RouteID string `json:"route_id"`

	Method string `json:"method"`
	Path   string `json:"path"`
	Status int    `json:"status"`

	// Replayed marks deliveries answered from the idempotency cache.
	Replayed bool `json:"replayed"`

	// Duration is the full chain latency for the delivery.
	Duration time.Duration `json:"duration"`

	// ReceivedAt is the arrival timestamp recorded by the context stage.
	ReceivedAt time.Time `json:"received_at"`
}
