// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package spam

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/MKhiriev/go-hook-gate/models"
)

// bodyLimit caps how much of a message body is classified.
const bodyLimit = 10000

// statsLogEvery controls the periodic running-stats log line.
const statsLogEvery = 10

// Archiver persists a spam report next to the raw webhook payload and the
// email body. Implemented by the store package's file archive.
type Archiver interface {
	Save(report *models.SpamReport, payload []byte, emailBody string) error
}

// ContactDeleter removes the spamming contact from the platform.
// Implemented by the adapter package's platform client.
type ContactDeleter interface {
	DeleteContact(ctx context.Context, contactID, locationID string) error
}

// Guard runs the spam pipeline for inbound messages: classify email
// bodies, archive confirmed spam, and delete the offending contact. It
// runs off the request path; the webhook acknowledgement never waits on
// it.
type Guard struct {
	detector   *Detector
	archive    Archiver       // nil disables archiving
	contacts   ContactDeleter // nil disables contact deletion
	locationID string

	log *logger.Logger

	// timeout bounds one background inspection, model call included.
	timeout time.Duration
}

// NewGuard wires the spam pipeline.
func NewGuard(detector *Detector, archive Archiver, contacts ContactDeleter, locationID string, log *logger.Logger) *Guard {
	return &Guard{
		detector:   detector,
		archive:    archive,
		contacts:   contacts,
		locationID: locationID,
		log:        log,
		timeout:    60 * time.Second,
	}
}

// Detector exposes the underlying detector for the stats endpoint.
func (g *Guard) Detector() *Detector { return g.detector }

// inboundMessage is the slice of the InboundMessage payload the guard
// needs. Subject may live at the top level or under emailData.
type inboundMessage struct {
	Body           string `json:"body"`
	MessageType    string `json:"messageType"`
	Subject        string `json:"subject"`
	ContactID      string `json:"contactId"`
	LocationID     string `json:"locationId"`
	ConversationID string `json:"conversationId"`
	EmailData      struct {
		Subject string `json:"subject"`
	} `json:"emailData"`
}

// isEmail reports whether the channel carries email. Only email is
// classified; chat and SMS pass through untouched.
func isEmail(messageType string) bool {
	switch strings.ToUpper(messageType) {
	case "EMAIL", "TYPE_EMAIL", "MAIL":
		return true
	}
	return false
}

// InspectAsync launches a background inspection of one InboundMessage
// payload. The call returns immediately.
func (g *Guard) InspectAsync(payload []byte) {
	go g.inspect(payload)
}

func (g *Guard) inspect(payload []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			g.log.Error().Any("panic", rec).Msg("panic in spam inspection")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
	defer cancel()

	var msg inboundMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		g.log.Debug().Err(err).Msg("inbound payload is not json, skipping spam check")
		return
	}

	if !isEmail(msg.MessageType) {
		g.log.Debug().Str("message_type", msg.MessageType).Msg("non-email channel, skipping spam check")
		return
	}

	body := msg.Body
	if len(body) > bodyLimit {
		g.log.Warn().Int("bytes", len(body)).Msg("message body too large, truncating")
		body = body[:bodyLimit]
	}

	subject := msg.Subject
	if subject == "" {
		subject = msg.EmailData.Subject
	}

	verdict := g.detector.Detect(ctx, body, subject)
	g.log.Info().
		Bool("is_spam", verdict.IsSpam).
		Float64("confidence", verdict.Confidence).
		Str("method", verdict.Method).
		Str("contact_id", msg.ContactID).
		Msg("email classified")

	if verdict.IsSpam {
		g.handleSpam(ctx, &msg, body, payload, verdict)
	}

	if stats := g.detector.Stats(); stats.Total > 0 && stats.Total%statsLogEvery == 0 {
		g.log.Info().
			Float64("fast_rules_pct", stats.FastRulesPct).
			Float64("llm_calls_pct", stats.LLMCallsPct).
			Float64("estimated_savings_pct", stats.EstimatedSavings).
			Msg("spam detection stats")
	}
}

// handleSpam archives the report and deletes the contact. Both actions
// are best-effort: a failure is logged and the other still runs.
func (g *Guard) handleSpam(ctx context.Context, msg *inboundMessage, body string, payload []byte, verdict models.SpamVerdict) {
	if g.archive != nil {
		report := &models.SpamReport{
			Timestamp:      time.Now(),
			SpamScore:      verdict.Confidence,
			Reason:         verdict.Reason,
			MessageType:    messageTypeOrUnknown(msg.MessageType),
			ContactID:      msg.ContactID,
			LocationID:     msg.LocationID,
			ConversationID: msg.ConversationID,
		}
		if err := g.archive.Save(report, payload, body); err != nil {
			g.log.Error().Err(err).Msg("error archiving spam email")
		}
	}

	if g.contacts == nil {
		return
	}
	if msg.ContactID == "" {
		g.log.Warn().Msg("no contactId in payload, cannot delete contact")
		return
	}

	locationID := msg.LocationID
	if locationID == "" {
		locationID = g.locationID
	}

	if err := g.contacts.DeleteContact(ctx, msg.ContactID, locationID); err != nil {
		g.log.Warn().Err(err).Str("contact_id", msg.ContactID).Msg("could not delete spam contact")
		return
	}
	g.log.Info().Str("contact_id", msg.ContactID).Msg("spam contact deleted")
}

func messageTypeOrUnknown(t string) string {
	if t == "" {
		return "Unknown"
	}
	return t
}
