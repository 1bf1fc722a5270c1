package documents

import "fmt"

// LayoutError represents an invalid or unknown document definition.
type LayoutError struct {
	DocumentType string
	Field        string
	Message      string
	Cause        error
}

func (e *LayoutError) Error() string {
	where := e.DocumentType
	if e.Field != "" {
		where += "." + e.Field
	}
	if where != "" {
		where = ": " + where
	}
	if e.Cause != nil {
		return fmt.Sprintf("layout error%s: %s: %v", where, e.Message, e.Cause)
	}
	return fmt.Sprintf("layout error%s: %s", where, e.Message)
}

func (e *LayoutError) Unwrap() error {
	return e.Cause
}
