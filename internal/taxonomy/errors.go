package taxonomy

import "fmt"

// LoadError represents a missing or inconsistent edition table
type LoadError struct {
	Edition string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	prefix := "taxonomy error"
	if e.Edition != "" {
		prefix = fmt.Sprintf("taxonomy error: edition %s", e.Edition)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
