package mustache

import (
	"bytes"
	"encoding/json"
	"html"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mcncl/gostache/internal/models"
)

// literalIndent is the per-level indentation of {{~name}} dumps.
const literalIndent = "    "

// stringify returns the substitution text of v without escaping.
// Objects, arrays, null and unresolved values produce "".
func stringify(v models.JSONValue, found bool) string {
	if !found {
		return ""
	}
	switch models.KindOf(v) {
	case models.KindString:
		return v.(string)
	case models.KindNumber:
		return decimal(v.(json.Number))
	case models.KindBool:
		return strconv.FormatBool(v.(bool))
	}
	return ""
}

// decimal returns n in plain decimal notation. Integers keep their source
// digits; anything with a fraction or exponent goes through float64.
func decimal(n json.Number) string {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		return s
	}
	f, err := n.Float64()
	if err != nil {
		return s
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// substitute formats v for {{name}} and {{{name}}}. Only strings are
// escaped; numbers and booleans never contain markup.
func substitute(v models.JSONValue, found, escape bool) string {
	s := stringify(v, found)
	if escape && models.KindOf(v) == models.KindString {
		return html.EscapeString(s)
	}
	return s
}

// length formats the element count of an array or the character count of
// a string for {{%name}}.
func length(v models.JSONValue, found bool) string {
	if !found {
		return ""
	}
	switch models.KindOf(v) {
	case models.KindArray:
		return strconv.Itoa(len(v.(models.JSONArray)))
	case models.KindString:
		return strconv.Itoa(utf8.RuneCountInString(v.(string)))
	}
	return ""
}

// literal serializes an object or array for {{~name}}.
func literal(v models.JSONValue, found bool) (string, error) {
	if !found {
		return "", nil
	}
	if k := models.KindOf(v); k != models.KindArray && k != models.KindObject {
		return "", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", literalIndent)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// truthy reports whether a resolved value opens a section.
func truthy(v models.JSONValue, found bool) bool {
	if !found {
		return false
	}
	switch models.KindOf(v) {
	case models.KindNull:
		return false
	case models.KindBool:
		return v.(bool)
	}
	return true
}
