// Package country turns free-text country names from upstream data into
// ISO-2 codes and the display bits derived from them (names, flag emoji,
// flag image URLs).
//
// National naming is inconsistent across data sources: abbreviations,
// historical names and disputed-territory naming all show up. Resolution
// therefore runs an ordered list of strategies and stops at the first hit:
//
//  1. exact      - registry lookup of the trimmed input
//  2. alias      - lowercased input through the alias table, then registry
//  3. normalized - strip "(", ")" and ".", collapse whitespace, registry again
//
// An unresolved name is not an error; callers simply show no flag.
package country

import (
	"regexp"
	"strings"
)

var (
	punctuationRegex = regexp.MustCompile(`[().]`)
	whitespaceRegex  = regexp.MustCompile(`\s+`)
)

// Strategy attempts to resolve a trimmed name to an upper-case ISO-2 code.
type Strategy struct {
	Name    string
	Resolve func(name string) (string, bool)
}

// Resolver resolves country names using an ordered list of strategies.
type Resolver struct {
	registry   *Registry
	aliases    map[string]string
	strategies []Strategy
}

// NewResolver creates a resolver over the given registry and alias table.
// Alias keys must be lower-case.
func NewResolver(registry *Registry, aliases map[string]string) *Resolver {
	r := &Resolver{
		registry: registry,
		aliases:  aliases,
	}
	r.strategies = []Strategy{
		{Name: "exact", Resolve: r.exact},
		{Name: "alias", Resolve: r.alias},
		{Name: "normalized", Resolve: r.normalized},
	}
	return r
}

var defaultResolver = NewResolver(NewRegistry(englishNames), aliases)

// Default returns the package resolver backed by the built-in tables.
func Default() *Resolver {
	return defaultResolver
}

// Resolve maps a free-text country name to a lower-case ISO-2 code using
// the built-in tables.
func Resolve(name string) (string, bool) {
	return defaultResolver.Resolve(name)
}

// Resolve maps a free-text country name to a lower-case ISO-2 code.
// It returns false when no strategy produces a code.
func (r *Resolver) Resolve(name string) (string, bool) {
	code, _, ok := r.ResolveWith(name)
	return code, ok
}

// ResolveWith is Resolve that also reports which strategy matched.
func (r *Resolver) ResolveWith(name string) (string, string, bool) {
	raw := strings.TrimSpace(name)
	if raw == "" {
		return "", "", false
	}

	for _, s := range r.strategies {
		if code, ok := s.Resolve(raw); ok {
			return strings.ToLower(code), s.Name, true
		}
	}
	return "", "", false
}

// Registry returns the name registry the resolver looks names up in.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

func (r *Resolver) exact(raw string) (string, bool) {
	return r.registry.Lookup(raw)
}

func (r *Resolver) alias(raw string) (string, bool) {
	target, ok := r.aliases[strings.ToLower(raw)]
	if !ok {
		return "", false
	}
	if code, ok := r.registry.Lookup(target); ok {
		return code, true
	}
	// Kosovo has no ISO 3166-1 entry; XK is the user-assigned code in use.
	if strings.EqualFold(target, "kosovo") {
		return "XK", true
	}
	return "", false
}

func (r *Resolver) normalized(raw string) (string, bool) {
	return r.registry.Lookup(Normalize(raw))
}

// Normalize strips parentheses and periods and collapses whitespace.
func Normalize(name string) string {
	cleaned := punctuationRegex.ReplaceAllString(name, "")
	cleaned = whitespaceRegex.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
