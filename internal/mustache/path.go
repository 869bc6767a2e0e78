package mustache

import (
	"strings"

	"github.com/mcncl/gostache/internal/models"
)

// frame is one level of the context chain. Frames live on the Go stack of
// the section call that created them and are never retained.
type frame struct {
	value  models.JSONValue
	parent *frame
}

// SplitPath splits a dotted path into member names. A component wrapped in
// double quotes may contain dots, and a backslash escapes the following
// character. A quoted component that is empty is dropped, and a component
// with an unterminated quote is kept verbatim.
func SplitPath(path string) []string {
	var (
		components []string
		inQuote    bool
		escaped    bool
		start      int
	)
	for i := 0; i < len(path); i++ {
		switch c := path[i]; {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inQuote = !inQuote
		case c == '.' && !inQuote:
			components = appendComponent(components, path[start:i])
			start = i + 1
		}
	}
	return appendComponent(components, path[start:])
}

func appendComponent(components []string, raw string) []string {
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' && !escapedAt(raw, len(raw)-1) {
		inner := raw[1 : len(raw)-1]
		if inner == "" {
			return components
		}
		return append(components, unescape(inner))
	}
	return append(components, unescape(raw))
}

// escapedAt reports whether s[i] is preceded by an odd number of backslashes.
func escapedAt(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// resolve looks path up in f, retrying the whole path against each
// enclosing frame until one resolves it.
func resolve(path string, f *frame) (models.JSONValue, bool) {
	if f == nil {
		return nil, false
	}
	if path == "." {
		return f.value, true
	}
	components := SplitPath(path)
	for ; f != nil; f = f.parent {
		if v, ok := lookup(components, f.value); ok {
			return v, true
		}
	}
	return nil, false
}

func lookup(components []string, v models.JSONValue) (models.JSONValue, bool) {
	if len(components) == 0 {
		return nil, false
	}
	for _, name := range components {
		obj, ok := v.(models.JSONObject)
		if !ok {
			return nil, false
		}
		v, ok = obj[name]
		if !ok {
			return nil, false
		}
	}
	return v, true
}
