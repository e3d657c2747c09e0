package ideas

import "fmt"

// GenerationError represents a failed research call for product ideas
type GenerationError struct {
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("idea generation failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("idea generation failed: %s", e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// FormatError represents raw idea text that could not be reformatted into product ideas
type FormatError struct {
	Message string
	Raw     string
	Cause   error
}

func (e *FormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("idea formatting failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("idea formatting failed: %s", e.Message)
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}
