package mustache

import (
	"fmt"
	"log/slog"
)

// DefaultPartialSuffix is appended to a partial name when the bare name is
// not found.
const DefaultPartialSuffix = ".mustache"

// Loader returns the template text of a named partial.
type Loader interface {
	Load(name string) (string, bool)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(name string) (string, bool)

// Load calls f(name).
func (f LoaderFunc) Load(name string) (string, bool) {
	return f(name)
}

// MapLoader serves partials from memory.
type MapLoader map[string]string

// Load returns the partial stored under name.
func (m MapLoader) Load(name string) (string, bool) {
	s, ok := m[name]
	return s, ok
}

// loadPartial looks name up as is, then with the suffix appended.
func (r *Renderer) loadPartial(name string) (string, bool) {
	if r.loader == nil {
		return "", false
	}
	if text, ok := r.loader.Load(name); ok {
		return text, true
	}
	if r.suffix == "" {
		return "", false
	}
	text, ok := r.loader.Load(name + r.suffix)
	if ok {
		r.logger.Debug("partial resolved with suffix", slog.String("name", name), slog.String("suffix", r.suffix))
	}
	return text, ok
}

// partial renders the named partial into the output against f. A missing
// partial renders nothing.
func (s *state) partial(name string, f *frame) error {
	text, ok := s.r.loadPartial(name)
	if !ok {
		s.r.logger.Debug("partial not found", slog.String("name", name))
		return nil
	}
	if s.depth >= s.r.maxDepth {
		return fmt.Errorf("%w: %q at depth %d", ErrPartialDepth, name, s.depth)
	}
	sub := &state{
		r:     s.r,
		tmpl:  text,
		name:  name,
		out:   s.out,
		depth: s.depth + 1,
	}
	if err := sub.render(f); err != nil {
		return fmt.Errorf("partial %q: %w", name, err)
	}
	return nil
}
