// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package spam

import (
	"strings"

	"github.com/MKhiriev/go-hook-gate/models"
)

// ruleVerdict is the first-pass outcome. conclusive=false means the email
// is ambiguous and needs the model pass.
type ruleVerdict struct {
	conclusive bool
	isSpam     bool
	confidence float64
	reason     string
}

// applyFastRules runs the ordered rule set over the extracted features.
// Rule order matters: earlier rules encode stronger priors and the first
// hit wins. Thresholds and confidences come from offline analysis of the
// production mailbox dataset.
func applyFastRules(f models.EmailFeatures) ruleVerdict {
	subject := strings.ToLower(f.Subject)

	// DMARC aggregate reports dominate the legitimate bulk traffic
	if strings.Contains(subject, "report domain:") || strings.Contains(subject, "dmarc") {
		return ruleVerdict{conclusive: true, isSpam: false, confidence: 1.0, reason: "DMARC report (rule)"}
	}

	if f.URLCount > 15 && f.TrackingPixels > 2 {
		return ruleVerdict{conclusive: true, isSpam: true, confidence: 0.95, reason: "high URL volume + tracking (rule)"}
	}

	if f.URLCount > 10 && f.ImgCount > 5 && f.SpamKeywordCount > 3 {
		return ruleVerdict{conclusive: true, isSpam: true, confidence: 0.92, reason: "aggressive marketing (rule)"}
	}

	if f.URLCount == 0 && f.SpamKeywordCount == 0 && f.TrackingPixels == 0 {
		return ruleVerdict{conclusive: true, isSpam: false, confidence: 0.90, reason: "clean email without spam signals (rule)"}
	}

	if f.HTMLTextRatio > 20 && f.URLCount > 5 {
		return ruleVerdict{conclusive: true, isSpam: true, confidence: 0.88, reason: "heavy HTML + URLs (rule)"}
	}

	if strings.Contains(subject, "currículo") || strings.Contains(subject, "curriculo") || strings.Contains(subject, "cv ") {
		return ruleVerdict{conclusive: true, isSpam: true, confidence: 0.85, reason: "unsolicited resume (rule)"}
	}

	if f.CapsRatio > 0.4 && len([]rune(f.TextPreview)) > 50 {
		return ruleVerdict{conclusive: true, isSpam: true, confidence: 0.87, reason: "excessive CAPS (rule)"}
	}

	return ruleVerdict{reason: "ambiguous, needs model pass"}
}
