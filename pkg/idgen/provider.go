// Package idgen generates stable DOM ids for accessibility wiring. Each form
// instance gets its own prefix so ids never collide across concurrently
// mounted forms.
package idgen

import (
	"strings"

	"github.com/google/uuid"
)

// Generator produces an id for a field name and optional own value. Custom
// generators let hosts plug in deterministic schemes for snapshot tests.
type Generator func(name, ownValue string) string

// Provider hands out id props for binding bags and label helpers. A disabled
// provider returns empty props, which keeps the id attribute off the
// rendered element entirely.
type Provider struct {
	enabled  bool
	prefix   string
	generate Generator
}

// Option configures a Provider.
type Option func(*Provider)

// WithGenerator overrides the default prefix-based id scheme.
func WithGenerator(generate Generator) Option {
	return func(p *Provider) {
		if generate != nil {
			p.generate = generate
		}
	}
}

// WithPrefix pins the instance prefix instead of deriving a random one.
func WithPrefix(prefix string) Option {
	return func(p *Provider) {
		if trimmed := strings.TrimSpace(prefix); trimmed != "" {
			p.prefix = trimmed
		}
	}
}

// New constructs a Provider. When enabled is false every lookup returns an
// empty prop map.
func New(enabled bool, options ...Option) *Provider {
	p := &Provider{
		enabled: enabled,
		prefix:  "fs-" + uuid.NewString()[:8],
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	if p.generate == nil {
		p.generate = p.defaultGenerate
	}
	return p
}

// Enabled reports whether id generation is active.
func (p *Provider) Enabled() bool {
	return p != nil && p.enabled
}

// ID returns the stable id for (name, ownValue), or "" when generation is
// disabled. The same pair always maps to the same id for the provider's
// lifetime.
func (p *Provider) ID(name, ownValue string) string {
	if !p.Enabled() {
		return ""
	}
	return p.generate(name, ownValue)
}

// IDProp returns a single-entry prop map under the requested attribute name
// ("id" for inputs, "htmlFor" for labels), or an empty map when generation is
// disabled.
func (p *Provider) IDProp(attribute, name, ownValue string) map[string]string {
	if !p.Enabled() {
		return map[string]string{}
	}
	return map[string]string{attribute: p.generate(name, ownValue)}
}

func (p *Provider) defaultGenerate(name, ownValue string) string {
	id := p.prefix + "__" + sanitize(name)
	if ownValue != "" {
		id += "__" + sanitize(ownValue)
	}
	return id
}

// sanitize keeps ids safe for use in HTML attributes: letters, digits,
// hyphen, and underscore pass through, everything else becomes a hyphen.
func sanitize(raw string) string {
	var builder strings.Builder
	builder.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			builder.WriteRune(r)
		default:
			builder.WriteRune('-')
		}
	}
	return builder.String()
}
