package models

import "time"

// Detection methods reported in spam verdicts.
const (
	DetectionMethodRule     = "fast_rule"
	DetectionMethodLLM      = "gpt"
	DetectionMethodFallback = "fallback"
	DetectionMethodError    = "error"
)

// EmailFeatures are the cheap signals extracted from an email body before
// any model call. The first detection pass runs entirely on these.
type EmailFeatures struct {
	URLCount          int     `json:"url_count"`
	ImgCount          int     `json:"img_count"`
	UniqueDomains     int     `json:"unique_domains"`
	TrackingPixels    int     `json:"tracking_pixel_count"`
	HTMLTextRatio     float64 `json:"html_text_ratio"`
	SpamKeywordCount  int     `json:"spam_keyword_count"`
	CapsRatio         float64 `json:"caps_ratio"`
	ExclamationCount  int     `json:"exclamation_count"`
	Subject           string  `json:"subject"`
	TextPreview       string  `json:"text_preview"`
}

// SpamVerdict is the outcome of a classification, whichever pass produced it.
type SpamVerdict struct {
	IsSpam     bool          `json:"is_spam"`
	Confidence float64       `json:"confidence"`
	Reason     string        `json:"reason"`
	Category   string        `json:"category,omitempty"`
	Method     string        `json:"method"`
	Features   EmailFeatures `json:"features"`
}

// DetectorStats aggregates how often each pass resolved a classification and
// the estimated API spend avoided by the rule pass.
type DetectorStats struct {
	Total            int     `json:"total"`
	FastRules        int     `json:"fast_rules"`
	LLMCalls         int     `json:"gpt_calls"`
	FastRulesPct     float64 `json:"fast_rules_pct"`
	LLMCallsPct      float64 `json:"gpt_calls_pct"`
	EstimatedSavings float64 `json:"estimated_savings_pct"`
}

// SpamReport is the summary document archived next to the raw webhook and
// the email body when a message is classified as spam.
type SpamReport struct {
	Timestamp      time.Time       `json:"timestamp"`
	SpamScore      float64         `json:"spam_score"`
	Reason         string          `json:"reason"`
	MessageType    string          `json:"message_type"`
	ContactID      string          `json:"contact_id,omitempty"`
	LocationID     string          `json:"location_id,omitempty"`
	ConversationID string          `json:"conversation_id,omitempty"`
	Files          SpamReportFiles `json:"files"`
}

// SpamReportFiles names the three files of one archived report, all sharing
// a timestamp-derived base name.
type SpamReportFiles struct {
	Summary string `json:"summary"`
	Webhook string `json:"webhook"`
	HTML    string `json:"html"`
}
