package resilience

import (
	"strings"
)

// Category is the closed set of failure categories the system reasons about.
type Category string

const (
	CategoryDocument   Category = "DOCUMENT_PROCESSING"
	CategoryNetwork    Category = "NETWORK"
	CategoryValidation Category = "VALIDATION"
	CategoryGeneration Category = "AI_GENERATION"
	CategoryStorage    Category = "STORAGE"
	CategoryUnknown    Category = "UNKNOWN"

	// Used by the platform error translator, not by Classify.
	CategoryRateLimit  Category = "RATE_LIMIT"
	CategoryPermission Category = "PERMISSION"
)

// ClassifiedError wraps a raw error with its category and the short message
// that may be shown to end users. The raw cause is kept for operator logs only.
type ClassifiedError struct {
	Category    Category
	UserMessage string
	Retryable   bool
	Cause       error
}

func (e *ClassifiedError) Error() string {
	if e.Cause != nil {
		return string(e.Category) + ": " + e.Cause.Error()
	}
	return string(e.Category) + ": " + e.UserMessage
}

func (e *ClassifiedError) Unwrap() error {
	return e.Cause
}

// classificationRule pairs a predicate with the category it selects.
// Rules are evaluated top-to-bottom; the first match wins.
type classificationRule struct {
	matches  func(msg string) bool
	category Category
}

func containsAny(substrings ...string) func(string) bool {
	return func(msg string) bool {
		for _, s := range substrings {
			if strings.Contains(msg, s) {
				return true
			}
		}
		return false
	}
}

// classificationTable is ordered: validation outranks generation so that
// "invalid model output" stays a validation error, and network outranks
// storage so connection failures to the DB count as transient.
var classificationTable = []classificationRule{
	{containsAny("document", "chunk", "parse", "extract", "pdf"), CategoryDocument},
	{containsAny("network", "timeout", "timed out", "connection", "econnrefused", "socket", "unreachable", "fetch failed", "unexpected eof"), CategoryNetwork},
	{containsAny("validation", "invalid", "malformed", "required field", "missing field", "bad request"), CategoryValidation},
	{containsAny("generation", "embedding", "model", "llm", "prompt", "completion"), CategoryGeneration},
	{containsAny("storage", "database", "sql", "transaction", "bucket", "disk"), CategoryStorage},
}

var userMessages = map[Category]string{
	CategoryDocument:   "We could not process this document. Please try a different file.",
	CategoryNetwork:    "A temporary network problem occurred. Please try again shortly.",
	CategoryValidation: "The request was invalid. Please check the input and try again.",
	CategoryGeneration: "The assistant could not generate a response right now.",
	CategoryStorage:    "Saving data failed. Please try again.",
	CategoryUnknown:    "Something went wrong. Please try again.",
}

// Classify maps an error onto a Category using the ordered heuristic table.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}
	msg := strings.ToLower(err.Error())
	for _, rule := range classificationTable {
		if rule.matches(msg) {
			return rule.category
		}
	}
	return CategoryUnknown
}

// ClassifyError derives the full ClassifiedError for a raw error. The result
// is meant to be computed once per operation and reused, not recomputed.
func ClassifyError(err error) *ClassifiedError {
	category := Classify(err)
	return &ClassifiedError{
		Category:    category,
		UserMessage: userMessages[category],
		Retryable:   category == CategoryNetwork,
		Cause:       err,
	}
}
