package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// RepairError is returned when model output cannot be recovered as JSON.
type RepairError struct {
	Raw   string
	Cause error
}

func (e *RepairError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unrecoverable JSON in model output (%d bytes): %v", len(e.Raw), e.Cause)
	}
	return fmt.Sprintf("unrecoverable JSON in model output (%d bytes)", len(e.Raw))
}

func (e *RepairError) Unwrap() error {
	return e.Cause
}

// RepairJSON recovers a JSON document from near-valid model output. Fences
// and surrounding prose are removed by CleanJSONBlock; syntax slips such as
// comments, trailing or missing commas, single quotes, Python literals and
// truncated values are fixed by jsonrepair.
func RepairJSON(text string) (string, error) {
	cleaned := CleanJSONBlock(text)
	if !strings.HasPrefix(cleaned, "{") && !strings.HasPrefix(cleaned, "[") {
		return "", &RepairError{Raw: text}
	}
	if json.Valid([]byte(cleaned)) {
		return cleaned, nil
	}

	repaired, err := jsonrepair.JSONRepair(cleaned)
	if err != nil {
		return "", &RepairError{Raw: text, Cause: err}
	}
	if !json.Valid([]byte(repaired)) {
		return "", &RepairError{Raw: text}
	}
	return repaired, nil
}
