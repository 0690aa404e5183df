// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package events

import (
	"net/http"

	"github.com/MKhiriev/go-hook-gate/internal/pipeline"
	"github.com/MKhiriev/go-hook-gate/internal/registry"
	"github.com/MKhiriev/go-hook-gate/internal/spam"
)

// Conversations covers messaging events. InboundMessage additionally feeds
// the spam pipeline: the payload is handed to the guard for background
// classification and the sender gets the normal acknowledgement right away.
type Conversations struct {
	registry.BaseModule
	guard *spam.Guard
}

// NewConversations builds the module. A nil guard disables spam inspection
// and leaves InboundMessage a plain acknowledged event.
func NewConversations(guard *spam.Guard) *Conversations {
	return &Conversations{guard: guard}
}

func (*Conversations) Name() string { return "events.conversations" }

func (m *Conversations) Routes() []registry.Route {
	routes := eventRoutes(
		"ConversationUnreadUpdate",
		"LCEmailStats",
		"OutboundMessage",
	)

	routes = append(routes, registry.Route{
		ID:      "InboundMessage",
		Method:  http.MethodPost,
		Path:    "/webhook/InboundMessage",
		Aliases: []string{"/webhooks/InboundMessage"},
		Handler: m.inboundMessage,
	})
	return routes
}

// inboundMessage acks like any other event, then hands a copy of the body
// to the spam guard. Classification never delays or fails the ack.
func (m *Conversations) inboundMessage(rc *pipeline.RequestContext) *pipeline.Response {
	resp := ackHandler("InboundMessage")(rc)
	if m.guard == nil || resp.Status != http.StatusOK {
		return resp
	}

	body, err := rc.Body()
	if err != nil || len(body) == 0 {
		return resp
	}

	payload := make([]byte, len(body))
	copy(payload, body)
	m.guard.InspectAsync(payload)

	return resp
}
