package mustache

import (
	"strings"

	"github.com/mcncl/gostache/internal/models"
)

// section evaluates a block opened by tag and returns the index just past
// its matching {{/name}}. A suppressed section is scanned for nesting only.
func (s *state) section(tag Tag, f *frame, suppress bool) (int, error) {
	if suppress {
		return s.body(tag, f, true)
	}

	v, found := s.lookup(tag.Name, f)
	switch tag.Op {
	case OpSectionStart:
		if !truthy(v, found) {
			return s.body(tag, f, true)
		}
		if models.KindOf(v) != models.KindArray {
			return s.body(tag, &frame{value: v, parent: f}, false)
		}
		arr := v.(models.JSONArray)
		if len(arr) == 0 {
			return s.body(tag, f, true)
		}
		var next int
		for _, elem := range arr {
			var err error
			next, err = s.body(tag, &frame{value: elem, parent: f}, false)
			if err != nil {
				return 0, err
			}
		}
		return next, nil

	case OpNegatedSectionStart:
		return s.body(tag, f, truthy(v, found))

	case OpContextPreservingStart:
		return s.body(tag, f, !truthy(v, found))

	case OpEquality, OpNegatedEquality:
		equal := strings.EqualFold(stringify(v, found), tag.Comparand)
		return s.body(tag, f, equal != (tag.Op == OpEquality))
	}
	return s.body(tag, f, true)
}

// body renders the template from just after the opening tag until the
// first {{/name}} seen at this level. Nested sections consume their own
// closing tags, so a same-named close reaching this loop is ours.
func (s *state) body(open Tag, f *frame, suppress bool) (int, error) {
	idx := open.Next
	for {
		tag := scan(s.tmpl, idx, suppress, s.out)
		switch tag.Op {
		case OpEOF:
			return 0, &ParseError{Name: open.Name, Offset: tag.Offset}
		case OpSectionEnd:
			if tag.Name != open.Name {
				return 0, &ParseError{Name: open.Name, Found: tag.Name, Offset: tag.Offset}
			}
			return tag.Next, nil
		}
		next, err := s.dispatch(tag, f, suppress)
		if err != nil {
			return 0, err
		}
		idx = next
	}
}
