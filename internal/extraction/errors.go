package extraction

import "fmt"

// ExtractionError is returned when the first generation step does not yield a
// usable record. Raw holds the offending model output.
type ExtractionError struct {
	Message string
	Raw     string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// RewriteError describes a failed rewrite step. It is never returned as a
// hard failure: the extracted record is used instead.
type RewriteError struct {
	Message string
	Raw     string
	Cause   error
}

func (e *RewriteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rewrite error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("rewrite error: %s", e.Message)
}

func (e *RewriteError) Unwrap() error {
	return e.Cause
}
