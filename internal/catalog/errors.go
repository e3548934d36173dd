package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError carries per-field messages for a record that failed schema
// validation. Keys are the JSON field names used on the forms.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "nieprawidłowe dane: " + strings.Join(names, ", ")
}

// Message returns the first message for a field, or "" when the field is
// valid. Convenient for templates.
func (e *ValidationError) Message(field string) string {
	if msgs := e.Fields[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// DuplicateKeyError reports a unique-key collision on add or rename.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("rekord %q już istnieje", e.Key)
}

// NotFoundError reports that the target of an update or delete is absent.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("nie znaleziono rekordu %q", e.Key)
}
