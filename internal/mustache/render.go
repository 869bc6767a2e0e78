package mustache

import (
	"io"
	"log/slog"
	"strings"

	"github.com/mcncl/gostache/internal/models"
	"github.com/mcncl/gostache/internal/partials"
)

// DefaultMaxPartialDepth bounds partial nesting.
const DefaultMaxPartialDepth = 64

// Renderer renders templates against a data context. A Renderer holds no
// per-render state and may be used from several goroutines at once.
type Renderer struct {
	loader   Loader
	suffix   string
	escape   bool
	maxDepth int
	logger   *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLoader sets the partial loader. Without one, {{>name}} renders nothing.
func WithLoader(l Loader) Option {
	return func(r *Renderer) { r.loader = l }
}

// WithPartialSuffix sets the suffix tried when a partial name is not found.
// An empty suffix disables the second lookup.
func WithPartialSuffix(suffix string) Option {
	return func(r *Renderer) { r.suffix = suffix }
}

// WithHTMLEscape controls escaping of {{name}} string values.
func WithHTMLEscape(escape bool) Option {
	return func(r *Renderer) { r.escape = escape }
}

// WithMaxPartialDepth sets how deeply partials may include each other.
func WithMaxPartialDepth(depth int) Option {
	return func(r *Renderer) {
		if depth > 0 {
			r.maxDepth = depth
		}
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New returns a Renderer configured by opts.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		suffix:   DefaultPartialSuffix,
		escape:   true,
		maxDepth: DefaultMaxPartialDepth,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render renders tmpl against context and returns the output.
func (r *Renderer) Render(tmpl string, context models.JSONValue) (string, error) {
	var out strings.Builder
	s := &state{r: r, tmpl: tmpl, out: &out}
	if err := s.render(&frame{value: context}); err != nil {
		return "", err
	}
	return out.String(), nil
}

// RenderTo renders tmpl and writes the output to w. Nothing is written
// when rendering fails.
func (r *Renderer) RenderTo(w io.Writer, tmpl string, context models.JSONValue) error {
	s, err := r.Render(tmpl, context)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

// Render renders tmpl against context, loading partials from files under
// partialBasePath. An empty partialBasePath disables partials.
func Render(tmpl, partialBasePath string, context models.JSONValue) (string, error) {
	var opts []Option
	if partialBasePath != "" {
		opts = append(opts, WithLoader(partials.NewDirLoader(partialBasePath)))
	}
	return New(opts...).Render(tmpl, context)
}

// state is the cursor over one template: the top-level template or a
// partial being included.
type state struct {
	r     *Renderer
	tmpl  string
	name  string
	out   *strings.Builder
	depth int
}

// render consumes the whole template. A {{/name}} with no open section is
// an error.
func (s *state) render(f *frame) error {
	idx := 0
	for {
		tag := scan(s.tmpl, idx, false, s.out)
		switch tag.Op {
		case OpEOF:
			return nil
		case OpSectionEnd:
			return &ParseError{Found: tag.Name, Offset: tag.Offset}
		}
		next, err := s.dispatch(tag, f, false)
		if err != nil {
			return err
		}
		idx = next
	}
}

// dispatch evaluates a single tag other than a section end and returns the
// index to resume scanning from.
func (s *state) dispatch(tag Tag, f *frame, suppress bool) (int, error) {
	if tag.Op.opensSection() {
		return s.section(tag, f, suppress)
	}
	if suppress {
		return tag.Next, nil
	}

	switch tag.Op {
	case OpSubstitution, OpTripleSubstitution:
		v, found := s.lookup(tag.Name, f)
		s.out.WriteString(substitute(v, found, s.r.escape && tag.Op == OpSubstitution))
	case OpLength:
		v, found := s.lookup(tag.Name, f)
		s.out.WriteString(length(v, found))
	case OpLiteral:
		v, found := s.lookup(tag.Name, f)
		text, err := literal(v, found)
		if err != nil {
			return 0, err
		}
		s.out.WriteString(text)
	case OpPartial:
		if err := s.partial(tag.Name, f); err != nil {
			return 0, err
		}
	case OpComment:
	}
	return tag.Next, nil
}

func (s *state) lookup(name string, f *frame) (models.JSONValue, bool) {
	v, found := resolve(name, f)
	if !found {
		s.r.logger.Debug("unresolved name", slog.String("name", name), slog.String("template", s.name))
	}
	return v, found
}
