package mustache

import (
	"strings"
)

// Operator identifies what a tag does.
type Operator int

const (
	OpEOF Operator = iota
	OpSubstitution
	OpTripleSubstitution
	OpSectionStart
	OpNegatedSectionStart
	OpContextPreservingStart
	OpSectionEnd
	OpComment
	OpPartial
	OpEquality
	OpNegatedEquality
	OpLength
	OpLiteral
)

func (op Operator) String() string {
	switch op {
	case OpEOF:
		return "EOF"
	case OpSubstitution:
		return "substitution"
	case OpTripleSubstitution:
		return "triple substitution"
	case OpSectionStart:
		return "section"
	case OpNegatedSectionStart:
		return "negated section"
	case OpContextPreservingStart:
		return "predicate"
	case OpSectionEnd:
		return "section end"
	case OpComment:
		return "comment"
	case OpPartial:
		return "partial"
	case OpEquality:
		return "equality"
	case OpNegatedEquality:
		return "negated equality"
	case OpLength:
		return "length"
	case OpLiteral:
		return "literal"
	}
	return "unknown"
}

// opensSection reports whether op must be closed by a matching {{/name}}.
func (op Operator) opensSection() bool {
	switch op {
	case OpSectionStart, OpNegatedSectionStart, OpContextPreservingStart, OpEquality, OpNegatedEquality:
		return true
	}
	return false
}

// Tag is a single scanned {{ }} directive.
type Tag struct {
	Op        Operator
	Name      string
	Comparand string
	Offset    int // index of the opening delimiter
	Next      int // index just past the closing delimiter
}

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// prefixes are checked in order; "!=" must come before "!".
var prefixes = []struct {
	prefix string
	op     Operator
}{
	{"!=", OpNegatedEquality},
	{"#", OpSectionStart},
	{"^", OpNegatedSectionStart},
	{"?", OpContextPreservingStart},
	{"/", OpSectionEnd},
	{"!", OpComment},
	{">", OpPartial},
	{"~", OpLiteral},
	{"%", OpLength},
	{"=", OpEquality},
}

// scan copies literal text from tmpl[start:] into out until the next
// well-formed tag and returns that tag. Nothing is written when suppress is
// set. Tags whose name is empty are swallowed. At end of template the
// remaining text has been flushed and an OpEOF tag is returned.
func scan(tmpl string, start int, suppress bool, out *strings.Builder) Tag {
	i := start
	for {
		open := strings.Index(tmpl[i:], openDelim)
		if open < 0 {
			if !suppress {
				out.WriteString(tmpl[i:])
			}
			return Tag{Op: OpEOF, Offset: len(tmpl), Next: len(tmpl)}
		}
		open += i
		if !suppress {
			out.WriteString(tmpl[i:open])
		}

		bodyStart := open + len(openDelim)
		end := findClose(tmpl, bodyStart)
		if end < 0 {
			// No terminator: the rest is plain text.
			if !suppress {
				out.WriteString(tmpl[open:])
			}
			return Tag{Op: OpEOF, Offset: len(tmpl), Next: len(tmpl)}
		}
		next := end + len(closeDelim)
		body := tmpl[bodyStart:end]
		triple := strings.HasPrefix(body, "{")
		if triple {
			body = body[1:]
			if next < len(tmpl) && tmpl[next] == '}' {
				next++
			}
		}

		tag, ok := parseTag(body, triple)
		if !ok {
			i = next
			continue
		}
		tag.Offset = open
		tag.Next = next
		return tag
	}
}

// findClose returns the index of the "}}" terminating a tag body starting
// at i, or -1. A lone '}' belongs to the body.
func findClose(tmpl string, i int) int {
	for ; i < len(tmpl); i++ {
		if tmpl[i] != '}' {
			continue
		}
		if i+1 < len(tmpl) && tmpl[i+1] == '}' {
			return i
		}
	}
	return -1
}

// parseTag classifies a tag body. It reports false for bodies that reduce
// to an empty name.
func parseTag(body string, triple bool) (Tag, bool) {
	body = strings.TrimSpace(body)
	if body == "" {
		return Tag{}, false
	}
	if triple {
		return Tag{Op: OpTripleSubstitution, Name: body}, true
	}

	tag := Tag{Op: OpSubstitution}
	for _, p := range prefixes {
		if strings.HasPrefix(body, p.prefix) {
			tag.Op = p.op
			body = strings.TrimSpace(body[len(p.prefix):])
			break
		}
	}

	if tag.Op == OpEquality || tag.Op == OpNegatedEquality {
		name, rest := body, ""
		if i := strings.IndexAny(body, " \t\r\n"); i >= 0 {
			name, rest = body[:i], body[i+1:]
		}
		tag.Name = name
		tag.Comparand = strings.TrimSpace(rest)
	} else {
		tag.Name = body
	}

	if tag.Name == "" {
		return Tag{}, false
	}
	return tag, true
}
