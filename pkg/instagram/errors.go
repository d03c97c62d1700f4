package instagram

import (
	"fmt"
	"strings"

	"ig-engagement-be/pkg/resilience"
)

// GraphError is the structured error variant of a Graph API response,
// validated at the boundary so internal logic never inspects untyped fields.
type GraphError struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	Subcode   int    `json:"error_subcode"`
	FBTraceID string `json:"fbtrace_id"`
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("graph api error %d (subcode %d): %s", e.Code, e.Subcode, e.Message)
}

// translationRule maps upstream error codes/markers onto a classified,
// user-facing outcome. Rules are evaluated top-to-bottom; first match wins.
type translationRule struct {
	matches     func(e *GraphError) bool
	category    resilience.Category
	userMessage string
	retryable   bool
}

func codeIn(codes ...int) func(*GraphError) bool {
	return func(e *GraphError) bool {
		for _, c := range codes {
			if e.Code == c {
				return true
			}
		}
		return false
	}
}

var translationTable = []translationRule{
	{
		// 4: app-level throttle, 17: user-level, 32: page-level, 613: custom rate limit
		matches:     codeIn(4, 17, 32, 613, 80007),
		category:    resilience.CategoryRateLimit,
		userMessage: "Instagram is limiting requests right now. The message will be retried.",
		retryable:   true,
	},
	{
		// expired or invalidated access token
		matches:     codeIn(190),
		category:    resilience.CategoryPermission,
		userMessage: "The Instagram session has expired. Please reconnect the account.",
		retryable:   false,
	},
	{
		matches:     codeIn(10, 200, 230, 551),
		category:    resilience.CategoryPermission,
		userMessage: "The account is missing a permission needed to send this message.",
		retryable:   false,
	},
	{
		matches:     codeIn(100),
		category:    resilience.CategoryValidation,
		userMessage: "Instagram rejected the message content or recipient.",
		retryable:   false,
	},
	{
		matches: func(e *GraphError) bool {
			return e.Code >= 1 && e.Code <= 2 || strings.Contains(strings.ToLower(e.Message), "unknown error")
		},
		category:    resilience.CategoryNetwork,
		userMessage: "Instagram had a temporary problem. The message will be retried.",
		retryable:   true,
	},
}

// Translate derives the classified, user-facing error for a raw dispatch
// failure. Graph errors go through the code table; anything else falls back
// to the generic message classifier. Raw upstream messages are kept only as
// the wrapped cause for operator logs.
func Translate(err error) *resilience.ClassifiedError {
	if err == nil {
		return nil
	}

	graphErr, ok := err.(*GraphError)
	if !ok {
		return resilience.ClassifyError(err)
	}

	for _, rule := range translationTable {
		if rule.matches(graphErr) {
			return &resilience.ClassifiedError{
				Category:    rule.category,
				UserMessage: rule.userMessage,
				Retryable:   rule.retryable,
				Cause:       graphErr,
			}
		}
	}

	return &resilience.ClassifiedError{
		Category:    resilience.CategoryUnknown,
		UserMessage: "Sending the message failed. Please try again.",
		Retryable:   false,
		Cause:       graphErr,
	}
}
