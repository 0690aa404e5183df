// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package spam

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/MKhiriev/go-hook-gate/internal/adapter"
	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/MKhiriev/go-hook-gate/internal/observability"
	"github.com/MKhiriev/go-hook-gate/models"
)

// defaultSystemPrompt is used when no optimized prompt document is
// deployed next to the service.
const defaultSystemPrompt = `You are a spam detection expert.
Analyze the email and return JSON: {"is_spam": bool, "confidence": 0-1, "reason": "explanation", "category": "type"}`

// optimizedPromptPath is where an offline-tuned system prompt is looked
// for at startup.
const optimizedPromptPath = "config/optimized_prompt.txt"

// bodyPreviewLimit bounds how much of the email the model pass sees.
const bodyPreviewLimit = 1000

// estimated per-email model cost used by the savings statistic
const costPerModelCall = 0.0003

// markdown fences some models wrap around JSON despite JSON mode
var markdownFencePattern = regexp.MustCompile("(?m)^```(?:json)?\\s*|\\s*```$")

// Detector classifies emails in two passes: free feature-based rules
// first, a model call only for the ambiguous remainder. A nil chat client
// fails open to not-spam, never blocking mail.
type Detector struct {
	chat    adapter.ChatCompleter // nil when no API key is configured
	prompt  string
	log     *logger.Logger
	metrics *observability.Metrics

	mu    sync.Mutex
	total int
	rules int
	model int
}

// NewDetector constructs a Detector. The optimized system prompt is loaded
// from config/optimized_prompt.txt when present.
func NewDetector(chat adapter.ChatCompleter, log *logger.Logger, metrics *observability.Metrics) *Detector {
	prompt := defaultSystemPrompt
	if data, err := os.ReadFile(optimizedPromptPath); err == nil && len(data) > 0 {
		prompt = string(data)
		log.Info().Int("chars", len(prompt)).Msg("optimized spam prompt loaded")
	}

	return &Detector{chat: chat, prompt: prompt, log: log, metrics: metrics}
}

// Detect classifies one email. The verdict always carries the extracted
// features and the pass that produced it.
func (d *Detector) Detect(ctx context.Context, body, subject string) models.SpamVerdict {
	d.mu.Lock()
	d.total++
	d.mu.Unlock()

	features := ExtractFeatures(body, subject)

	if rv := applyFastRules(features); rv.conclusive {
		d.mu.Lock()
		d.rules++
		d.mu.Unlock()

		d.log.Info().Bool("is_spam", rv.isSpam).Float64("confidence", rv.confidence).
			Str("reason", rv.reason).Msg("classified by rule")
		d.metrics.ObserveSpamCheck(models.DetectionMethodRule, rv.isSpam)

		return models.SpamVerdict{
			IsSpam:     rv.isSpam,
			Confidence: rv.confidence,
			Reason:     rv.reason,
			Method:     models.DetectionMethodRule,
			Features:   features,
		}
	}

	d.mu.Lock()
	d.model++
	d.mu.Unlock()

	verdict := d.detectWithModel(ctx, body, features)
	verdict.Features = features
	d.metrics.ObserveSpamCheck(verdict.Method, verdict.IsSpam)
	return verdict
}

func (d *Detector) detectWithModel(ctx context.Context, body string, features models.EmailFeatures) models.SpamVerdict {
	if d.chat == nil {
		d.log.Warn().Msg("chat client not configured, assuming not spam")
		return models.SpamVerdict{
			Confidence: 0.5,
			Reason:     "model pass unavailable",
			Category:   "unknown",
			Method:     models.DetectionMethodFallback,
		}
	}

	content, err := d.chat.Complete(ctx, d.prompt, analysisPrompt(body, features))
	if err != nil {
		d.log.Error().Err(err).Msg("chat completion failed")
		return models.SpamVerdict{
			Confidence: 0.5,
			Reason:     fmt.Sprintf("model error: %v", err),
			Category:   "error",
			Method:     models.DetectionMethodError,
		}
	}

	content = strings.TrimSpace(markdownFencePattern.ReplaceAllString(strings.TrimSpace(content), ""))

	var verdict models.SpamVerdict
	if err = json.Unmarshal([]byte(content), &verdict); err != nil {
		d.log.Error().Err(err).Str("content", content).Msg("unparsable model verdict")
		return models.SpamVerdict{
			Confidence: 0.5,
			Reason:     "unparsable model verdict",
			Category:   "error",
			Method:     models.DetectionMethodError,
		}
	}

	verdict.Method = models.DetectionMethodLLM
	return verdict
}

// analysisPrompt renders the user message for the model pass: the body
// preview plus the pre-computed features, so the model never re-derives
// what the rules already measured.
func analysisPrompt(body string, f models.EmailFeatures) string {
	preview := body
	if len(preview) > bodyPreviewLimit {
		preview = preview[:bodyPreviewLimit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# EMAIL FOR ANALYSIS\n\n**Subject:** %s\n\n**Body (beginning):**\n%s...\n\n", f.Subject, preview)
	b.WriteString("## COMPUTED FEATURES\n\n")
	fmt.Fprintf(&b, "- **URLs**: %d\n", f.URLCount)
	fmt.Fprintf(&b, "- **Images**: %d\n", f.ImgCount)
	fmt.Fprintf(&b, "- **HTML/Text Ratio**: %.2f\n", f.HTMLTextRatio)
	fmt.Fprintf(&b, "- **Unique domains**: %d\n", f.UniqueDomains)
	fmt.Fprintf(&b, "- **Tracking pixels**: %d\n", f.TrackingPixels)
	fmt.Fprintf(&b, "- **Spam keywords**: %d\n", f.SpamKeywordCount)
	fmt.Fprintf(&b, "- **CAPS ratio**: %.2f\n", f.CapsRatio)
	fmt.Fprintf(&b, "- **Exclamations**: %d\n", f.ExclamationCount)
	b.WriteString("\nAnalyze this email and return ONLY the JSON (no markdown):\n")
	return b.String()
}

// Stats reports how often each pass resolved a classification and the
// estimated spend the rule pass avoided.
func (d *Detector) Stats() models.DetectorStats {
	d.mu.Lock()
	defer d.mu.Unlock()

	stats := models.DetectorStats{
		Total:     d.total,
		FastRules: d.rules,
		LLMCalls:  d.model,
	}
	if d.total == 0 {
		return stats
	}

	stats.FastRulesPct = round1(float64(d.rules) / float64(d.total) * 100)
	stats.LLMCallsPct = round1(float64(d.model) / float64(d.total) * 100)

	costAll := float64(d.total) * costPerModelCall
	costActual := float64(d.model) * costPerModelCall
	if costAll > 0 {
		stats.EstimatedSavings = round1((costAll - costActual) / costAll * 100)
	}
	return stats
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
