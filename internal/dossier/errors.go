package dossier

import "fmt"

// NotFoundError reports that a referenced attachment, document or edition
// resource does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}
