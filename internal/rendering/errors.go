package rendering

import "fmt"

// TemplateLoadError reports that the template asset of a document type could not
// be loaded or parsed. It is fatal for one render call only.
type TemplateLoadError struct {
	DocumentType string
	Path         string
	Message      string
	Cause        error
}

func (e *TemplateLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template load error: %s (%s): %s: %v", e.DocumentType, e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("template load error: %s (%s): %s", e.DocumentType, e.Path, e.Message)
}

func (e *TemplateLoadError) Unwrap() error {
	return e.Cause
}

// RenderError represents a failure while stamping text onto a loaded template
type RenderError struct {
	DocumentType string
	Field        string
	Message      string
	Cause        error
}

func (e *RenderError) Error() string {
	where := e.DocumentType
	if e.Field != "" {
		where += "." + e.Field
	}
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %s: %v", where, e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s: %s", where, e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
