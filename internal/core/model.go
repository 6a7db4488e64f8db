package core

import (
	"time"
)

// Email represents an email message to classify
type Email struct {
	ID             string              `json:"id,omitempty"`
	Subject        string              `json:"subject"`
	Body           string              `json:"body"`
	Sender         string              `json:"sender,omitempty"`
	HasAttachments bool                `json:"has_attachments,omitempty"`
	Headers        map[string][]string `json:"-"`
}

// Method names how a classification was reached
type Method string

// Classification methods
const (
	MethodRuleHighConfidence Method = "rule_engine_high_confidence"
	MethodThreadRulePriority Method = "thread_rule_priority"
	MethodModelRuleCombined  Method = "ml_rule_combined"
	MethodEscalation         Method = "complexity_urgency_escalation"
	MethodRuleWithValidation Method = "rule_with_validation"
	MethodModelFallback      Method = "ml_fallback"
	MethodFinalFallback      Method = "final_fallback"
	MethodErrorFallback      Method = "error_fallback"
	MethodModel              Method = "ml_classification"
	MethodModelThreadDefer   Method = "ml_thread_defer"
)

// ThreadContext summarizes quoted history found in the body
type ThreadContext struct {
	HasThread          bool `json:"has_thread"`
	ThreadCount        int  `json:"thread_count"`
	CurrentReplyLength int  `json:"current_reply_length"`
}

// ClassificationResult represents the result of classifying one email
type ClassificationResult struct {
	ID              string        `json:"id"`
	Category        string        `json:"category"`
	Subcategory     string        `json:"subcategory"`
	Confidence      float64       `json:"confidence"`
	Method          Method        `json:"method_used"`
	Reason          string        `json:"reason"`
	MatchedPatterns []string      `json:"matched_patterns"`
	Thread          ThreadContext `json:"thread_context"`
	FinalLabel      string        `json:"final_label"`
	ProcessingTime  time.Duration `json:"processing_time"`
	Timestamp       time.Time     `json:"timestamp"`
	Cached          bool          `json:"cached"`
}

// ModelResult is the model classifier's opinion
type ModelResult struct {
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Confidence  float64 `json:"confidence"`
	Method      Method  `json:"method"`
	Reason      string  `json:"reason"`
	Scorer      string  `json:"scorer,omitempty"`
}

// LabelDescription is a candidate label offered to a scorer
type LabelDescription struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LabelScore is a scorer's rating of one label
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}
