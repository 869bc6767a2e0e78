package mustache

import (
	"errors"
	"fmt"
)

// ErrPartialDepth is returned when partials nest deeper than the renderer allows.
var ErrPartialDepth = errors.New("partial nesting too deep")

// ParseError reports a section that is closed by the wrong tag or never
// closed at all. It is the only error a well-formed data context can cause.
type ParseError struct {
	// Name is the open section, empty at top level.
	Name string
	// Found is the name of the unexpected {{/name}}, empty at end of template.
	Found string
	// Offset is the byte index in the template where the problem was detected.
	Offset int
}

func (e *ParseError) Error() string {
	switch {
	case e.Name == "":
		return fmt.Sprintf("unexpected {{/%s}} at offset %d", e.Found, e.Offset)
	case e.Found == "":
		return fmt.Sprintf("unclosed section %q: end of template at offset %d", e.Name, e.Offset)
	}
	return fmt.Sprintf("section %q closed by {{/%s}} at offset %d", e.Name, e.Found, e.Offset)
}
