package models

import (
	"fmt"
	"strings"
)

// Kind is the expected answer format for a question. The set is closed:
// every method below switches over all four values so a new kind cannot be
// added without updating the dispatch.
type Kind string

const (
	KindNumber  Kind = "number"
	KindName    Kind = "name"
	KindNames   Kind = "names"
	KindBoolean Kind = "boolean"
)

func (k Kind) Validate() error {
	switch k {
	case KindNumber, KindName, KindNames, KindBoolean:
		return nil
	}
	return fmt.Errorf("unknown question kind %q", string(k))
}

// FormatRule is the answer-format instruction embedded in the prompt.
func (k Kind) FormatRule() string {
	switch k {
	case KindNumber:
		return "'N/A' OR ONLY one number (no commas, no separators, no percent sign, ONLY digits (0-9), example: 45000.6)"
	case KindName:
		return "ONLY the name"
	case KindNames:
		return "'N/A' OR a list of names, separated by commas"
	case KindBoolean:
		return "ONLY true or false"
	}
	return ""
}

// MissingInfoRule tells the model what to do when the context has no answer.
func (k Kind) MissingInfoRule() string {
	switch k {
	case KindNumber:
		return "If the information is not explicitly stated in the context, return 'N/A'."
	case KindName:
		return "Return name of the product or a company." +
			"Exclude companies with missing data from the comparison. " +
			"If only one company remains, return its name. " +
			"Do NOT return 'N/A'."
	case KindNames:
		return "If the information is not explicitly stated in the context, return 'N/A'."
	case KindBoolean:
		return "If the information is not explicitly stated in the context, return false."
	}
	return ""
}

// Normalize maps a raw model answer to the typed submission value.
func (k Kind) Normalize(raw string) string {
	if s := strings.ToLower(strings.TrimSpace(raw)); s == "n/a" || s == "na" {
		return "N/A"
	}

	switch k {
	case KindBoolean:
		s := strings.ToLower(strings.TrimSpace(raw))
		if s == "yes" || s == "true" {
			return "true"
		}
		return "false"
	case KindNumber:
		return strings.NewReplacer(",", "", "%", "").Replace(raw)
	}

	return strings.TrimSpace(raw)
}
