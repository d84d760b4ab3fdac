// Package parser recognizes payment confirmations in flattened screen text.
//
// Each BillParser understands one app's vocabulary. A Registry tries its
// parsers in the configured order and returns the first match.
package parser

import (
	"fmt"
	"strings"

	"github.com/Veraticus/autobill/internal/model"
)

// BillParser extracts a candidate bill from one source app's screen text.
type BillParser interface {
	Name() string
	Parse(sourceAppID, text string) (model.CandidateBill, bool)
}

// Registry holds an ordered list of parsers. Order is significant.
type Registry struct {
	parsers []BillParser
}

// NewRegistry creates a registry that tries parsers in the given order.
func NewRegistry(parsers ...BillParser) *Registry {
	return &Registry{parsers: parsers}
}

// DefaultRegistry returns the built-in parsers in their default order.
func DefaultRegistry() *Registry {
	return NewRegistry(NewWeChatParser(), NewAlipayParser())
}

// Builtins returns every built-in parser keyed by name.
func Builtins() map[string]BillParser {
	builtins := map[string]BillParser{}
	for _, p := range []BillParser{NewWeChatParser(), NewAlipayParser()} {
		builtins[p.Name()] = p
	}
	return builtins
}

// RegistryFromNames builds a registry from built-in parser names, keeping the
// order given.
func RegistryFromNames(names []string) (*Registry, error) {
	if len(names) == 0 {
		return DefaultRegistry(), nil
	}

	builtins := Builtins()
	parsers := make([]BillParser, 0, len(names))
	for _, name := range names {
		p, ok := builtins[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown bill parser: %q", name)
		}
		parsers = append(parsers, p)
	}
	return NewRegistry(parsers...), nil
}

// Parse returns the first successful match, short-circuiting the rest.
func (r *Registry) Parse(sourceAppID, text string) (model.CandidateBill, bool) {
	for _, p := range r.parsers {
		if bill, ok := p.Parse(sourceAppID, text); ok {
			return bill, true
		}
	}
	return model.CandidateBill{}, false
}

// Parsers returns the configured parsers in order.
func (r *Registry) Parsers() []BillParser {
	out := make([]BillParser, len(r.parsers))
	copy(out, r.parsers)
	return out
}

func containsAny(text string, markers ...string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}
