package spam

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/MKhiriev/go-hook-gate/models"
)

type fakeChat struct {
	reply  string
	err    error
	calls  int
	system string
	user   string
}

func (f *fakeChat) Complete(_ context.Context, system, user string) (string, error) {
	f.calls++
	f.system = system
	f.user = user
	return f.reply, f.err
}

// ambiguousBody dodges every fast rule: it carries one URL so the
// no-signals rule does not fire, but nothing strong enough to convict.
const ambiguousBody = `<p>Hi, here are the notes from today.</p><a href="https://example.com/doc">notes</a>`

func newTestDetector(chat *fakeChat) *Detector {
	if chat == nil {
		return &Detector{prompt: defaultSystemPrompt, log: logger.Nop()}
	}
	return &Detector{chat: chat, prompt: defaultSystemPrompt, log: logger.Nop()}
}

func TestDetect_DMARCReportIsNeverSpam(t *testing.T) {
	chat := &fakeChat{}
	d := newTestDetector(chat)

	v := d.Detect(context.Background(), "some aggregate xml", "Report Domain: example.com")

	assert.False(t, v.IsSpam)
	assert.Equal(t, 1.0, v.Confidence)
	assert.Equal(t, models.DetectionMethodRule, v.Method)
	assert.Zero(t, chat.calls, "rule hit must not reach the model")
}

func TestDetect_TrackingHeavyEmailIsSpamByRule(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 16; i++ {
		fmt.Fprintf(&b, `<a href="https://spam%d.example.com/offer">x</a>`, i)
	}
	b.WriteString(strings.Repeat(`<img src="p.gif" width="1" height="1">`, 3))

	d := newTestDetector(&fakeChat{})
	v := d.Detect(context.Background(), b.String(), "hot deal")

	assert.True(t, v.IsSpam)
	assert.Equal(t, 0.95, v.Confidence)
	assert.Equal(t, models.DetectionMethodRule, v.Method)
}

func TestDetect_CleanEmailIsHamByRule(t *testing.T) {
	d := newTestDetector(&fakeChat{})
	v := d.Detect(context.Background(), "see you tomorrow at the office", "tomorrow")

	assert.False(t, v.IsSpam)
	assert.Equal(t, 0.90, v.Confidence)
	assert.Equal(t, models.DetectionMethodRule, v.Method)
}

func TestDetect_AmbiguousEmailGoesToModel(t *testing.T) {
	chat := &fakeChat{reply: `{"is_spam": true, "confidence": 0.8, "reason": "phishing link", "category": "phishing"}`}
	d := newTestDetector(chat)

	v := d.Detect(context.Background(), ambiguousBody, "notes")

	require.Equal(t, 1, chat.calls)
	assert.True(t, v.IsSpam)
	assert.Equal(t, 0.8, v.Confidence)
	assert.Equal(t, "phishing link", v.Reason)
	assert.Equal(t, models.DetectionMethodLLM, v.Method)
	assert.Equal(t, 1, v.Features.URLCount, "verdict must carry the extracted features")
	assert.Contains(t, chat.user, "**URLs**: 1", "prompt must include computed features")
}

func TestDetect_ModelMarkdownFencesStripped(t *testing.T) {
	chat := &fakeChat{reply: "```json\n{\"is_spam\": false, \"confidence\": 0.7, \"reason\": \"newsletter\"}\n```"}
	d := newTestDetector(chat)

	v := d.Detect(context.Background(), ambiguousBody, "notes")

	assert.False(t, v.IsSpam)
	assert.Equal(t, models.DetectionMethodLLM, v.Method)
	assert.Equal(t, "newsletter", v.Reason)
}

func TestDetect_ModelErrorFailsOpen(t *testing.T) {
	chat := &fakeChat{err: errors.New("rate limited")}
	d := newTestDetector(chat)

	v := d.Detect(context.Background(), ambiguousBody, "notes")

	assert.False(t, v.IsSpam)
	assert.Equal(t, models.DetectionMethodError, v.Method)
	assert.Contains(t, v.Reason, "rate limited")
}

func TestDetect_UnparsableModelReplyFailsOpen(t *testing.T) {
	chat := &fakeChat{reply: "sorry, I cannot help with that"}
	d := newTestDetector(chat)

	v := d.Detect(context.Background(), ambiguousBody, "notes")

	assert.False(t, v.IsSpam)
	assert.Equal(t, models.DetectionMethodError, v.Method)
}

func TestDetect_NoChatClientFallsBack(t *testing.T) {
	d := newTestDetector(nil)

	v := d.Detect(context.Background(), ambiguousBody, "notes")

	assert.False(t, v.IsSpam)
	assert.Equal(t, models.DetectionMethodFallback, v.Method)
}

func TestStats(t *testing.T) {
	chat := &fakeChat{reply: `{"is_spam": false, "confidence": 0.6, "reason": "ok"}`}
	d := newTestDetector(chat)

	d.Detect(context.Background(), "plain friendly note", "hi")       // rule
	d.Detect(context.Background(), "another plain note", "hi again")  // rule
	d.Detect(context.Background(), "third plain note", "hi once mo")  // rule
	d.Detect(context.Background(), ambiguousBody, "notes")            // model

	stats := d.Stats()
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.FastRules)
	assert.Equal(t, 1, stats.LLMCalls)
	assert.Equal(t, 75.0, stats.FastRulesPct)
	assert.Equal(t, 25.0, stats.LLMCallsPct)
	assert.Equal(t, 75.0, stats.EstimatedSavings)
}

func TestStats_Empty(t *testing.T) {
	d := newTestDetector(&fakeChat{})
	stats := d.Stats()
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.FastRulesPct)
}
