package parsing

import "fmt"

// APICallError means the LLM never produced a gift request: the provider call itself
// failed (network, quota, empty answer). The whole recommendation batch stops here.
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause == nil {
		return "gift request call failed: " + e.Message
	}
	return fmt.Sprintf("gift request call failed: %s: %v", e.Message, e.Cause)
}

func (e *APICallError) Unwrap() error { return e.Cause }

// ParseError means the LLM answered but the answer could not be decoded into a
// GiftRequest. Raw holds the cleaned response for logs.
type ParseError struct {
	Message string
	Raw     string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause == nil {
		return "gift request parse error: " + e.Message
	}
	return fmt.Sprintf("gift request parse error: %s: %v", e.Message, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// ValidationError means the request text or the decoded GiftRequest is unusable,
// e.g. empty text or no gift categories. Field names the offending field when known.
// The server maps it to 400.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid gift request: " + e.Message
	}
	return fmt.Sprintf("invalid gift request %s: %s", e.Field, e.Message)
}
