// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/MKhiriev/go-hook-gate/models"
)

// DefaultSpamDir is where spam reports land unless configured otherwise.
const DefaultSpamDir = "data/spam_emails"

// SpamArchive persists confirmed-spam reports as three files per report
// sharing a timestamp-derived base name: the summary, the raw webhook
// payload, and the email body for later inspection.
type SpamArchive struct {
	dir    string
	logger *logger.Logger
	now    func() time.Time
}

// NewSpamArchive builds the archive rooted at dir. The directory is created
// lazily on first save.
func NewSpamArchive(dir string, log *logger.Logger) *SpamArchive {
	if dir == "" {
		dir = DefaultSpamDir
	}
	return &SpamArchive{dir: dir, logger: log, now: time.Now}
}

// Save writes the report triple. The Files section of the report is filled
// in before the summary is written so the summary references its siblings.
func (a *SpamArchive) Save(report *models.SpamReport, payload []byte, emailBody string) error {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("create spam archive dir: %w", err)
	}

	base := a.now().Format("20060102_150405.000000")
	// dots in the fractional-second format would split the extension
	base = base[:15] + "_" + base[16:]

	report.Files = models.SpamReportFiles{
		Summary: base + "_summary.json",
		Webhook: base + "_webhook.json",
		HTML:    base + "_body.html",
	}

	summary, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode spam summary: %w", err)
	}
	if err = os.WriteFile(filepath.Join(a.dir, report.Files.Summary), summary, 0o644); err != nil {
		return fmt.Errorf("write spam summary: %w", err)
	}

	webhook := payload
	if !json.Valid(webhook) {
		if webhook, err = json.Marshal(map[string]string{"raw": string(payload)}); err != nil {
			return fmt.Errorf("encode webhook payload: %w", err)
		}
	}
	if err = os.WriteFile(filepath.Join(a.dir, report.Files.Webhook), webhook, 0o644); err != nil {
		return fmt.Errorf("write webhook payload: %w", err)
	}

	if err = os.WriteFile(filepath.Join(a.dir, report.Files.HTML), []byte(emailBody), 0o644); err != nil {
		return fmt.Errorf("write email body: %w", err)
	}

	a.logger.Info().
		Str("summary", report.Files.Summary).
		Str("dir", a.dir).
		Msg("spam email archived")

	return nil
}
