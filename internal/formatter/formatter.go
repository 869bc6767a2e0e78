package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Formatter post-processes rendered template output
type Formatter struct {
	markdown bool
	sanitize bool

	md         goldmark.Markdown
	policyOnce sync.Once
	policy     *bluemonday.Policy
}

// Option configures a Formatter
type Option func(*Formatter)

// WithMarkdown converts the output from Markdown to HTML
func WithMarkdown(enabled bool) Option {
	return func(f *Formatter) { f.markdown = enabled }
}

// WithSanitize strips unsafe HTML from the output
func WithSanitize(enabled bool) Option {
	return func(f *Formatter) { f.sanitize = enabled }
}

// NewFormatter creates a new Formatter instance. With no options it
// returns output unchanged.
func NewFormatter(opts ...Option) *Formatter {
	f := &Formatter{}
	for _, opt := range opts {
		opt(f)
	}
	if f.markdown {
		f.md = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			// Rendered templates routinely carry HTML; sanitizing is a separate step.
			goldmark.WithRendererOptions(html.WithUnsafe()),
		)
	}
	return f
}

// Enabled reports whether Format changes its input
func (f *Formatter) Enabled() bool {
	return f.markdown || f.sanitize
}

// Format applies the configured conversions to output
func (f *Formatter) Format(output string) (string, error) {
	if !f.Enabled() {
		return output, nil
	}
	if strings.TrimSpace(output) == "" {
		return "", nil
	}

	if f.markdown {
		var buf bytes.Buffer
		if err := f.md.Convert([]byte(output), &buf); err != nil {
			return "", fmt.Errorf("failed to convert markdown: %w", err)
		}
		output = buf.String()
	}

	if f.sanitize {
		output = f.sanitizer().Sanitize(output)
	}

	return output, nil
}

func (f *Formatter) sanitizer() *bluemonday.Policy {
	f.policyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").OnElements("code", "pre", "span", "div")
		f.policy = policy
	})
	return f.policy
}
