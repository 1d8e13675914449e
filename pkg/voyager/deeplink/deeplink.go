// Package deeplink provides a table-driven router.DeeplinkResolver.
//
// A Table lists rules that match a link's host and path and name the route
// and presentation option to use. Tables are usually loaded from TOML:
//
//	scheme = "voyager"
//
//	[[rules]]
//	host = "game"
//	path = "/{id}"
//	route = "game_detail"
//	presentation = "sheet"
//
//	[[rules]]
//	host = "settings"
//	path = "/*"
//	route = "settings"
//
// The application turns matched route names into its own route type with a
// Factory, so the table never needs to know about it.
package deeplink

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/BrandonKowalski/voyager/pkg/voyager/router"
	"github.com/BurntSushi/toml"
)

var (
	// ErrInvalidPattern indicates a rule path pattern that cannot be compiled.
	ErrInvalidPattern = errors.New("invalid path pattern")

	// ErrMissingRoute indicates a rule without a route name.
	ErrMissingRoute = errors.New("rule has no route")
)

// RemainderParam is the parameter name that receives the rest of the path
// when a pattern ends in "*".
const RemainderParam = "*"

// Rule maps a host and path pattern to a route name.
type Rule struct {
	Host         string `toml:"host"`         // Empty matches any host
	Path         string `toml:"path"`         // Segment pattern, "{name}" captures, trailing "*" captures the rest
	Route        string `toml:"route"`        // Route name handed to the Factory
	Presentation string `toml:"presentation"` // router.ParseOption name, empty means navigation
}

// Table is an ordered list of rules for one link scheme.
type Table struct {
	Scheme string `toml:"scheme"` // Empty accepts any scheme
	Rules  []Rule `toml:"rules"`
}

// Params holds values captured from the path and the query string.
type Params map[string]string

// Get returns the named parameter or an empty string.
func (p Params) Get(name string) string {
	return p[name]
}

// Factory builds an application route from a matched route name.
// Returning false makes the resolver try the next rule.
type Factory[T comparable] func(route string, params Params) (T, bool)

// ParseTable decodes a TOML table.
func ParseTable(data []byte) (Table, error) {
	var t Table
	if err := toml.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("parse deeplink table: %w", err)
	}
	return t, nil
}

// LoadTable reads and decodes a TOML table file.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("load deeplink table: %w", err)
	}
	return ParseTable(data)
}

// Parse parses a raw link. It is a thin wrapper so drivers share one error shape.
func Parse(raw string) (*url.URL, error) {
	link, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parse deeplink: %w", err)
	}
	return link, nil
}

type compiledRule struct {
	rule     Rule
	option   router.PresentationOption
	segments []string
}

// NewResolver compiles a table into a resolver. Every rule is validated up
// front so a bad table fails at startup rather than on the first link.
func NewResolver[T comparable](table Table, factory Factory[T]) (router.DeeplinkResolver[T], error) {
	compiled := make([]compiledRule, 0, len(table.Rules))

	for i, rule := range table.Rules {
		if strings.TrimSpace(rule.Route) == "" {
			return nil, fmt.Errorf("deeplink rule %d: %w", i, ErrMissingRoute)
		}

		option, err := router.ParseOption(rule.Presentation)
		if err != nil {
			return nil, fmt.Errorf("deeplink rule %d (%s): %w", i, rule.Route, err)
		}

		segments, err := compilePattern(rule.Path)
		if err != nil {
			return nil, fmt.Errorf("deeplink rule %d (%s): %w", i, rule.Route, err)
		}

		compiled = append(compiled, compiledRule{rule: rule, option: option, segments: segments})
	}

	scheme := strings.ToLower(strings.TrimSpace(table.Scheme))

	return func(link *url.URL) (T, router.PresentationOption, bool) {
		var zero T

		if scheme != "" && !strings.EqualFold(link.Scheme, scheme) {
			return zero, router.Navigation, false
		}

		path := splitPath(link.EscapedPath())
		if link.Opaque != "" {
			path = splitPath(link.Opaque)
		}

		for _, c := range compiled {
			if c.rule.Host != "" && !strings.EqualFold(c.rule.Host, link.Hostname()) {
				continue
			}

			captures, ok := match(c.segments, path)
			if !ok {
				continue
			}

			params := Params{}
			for key, values := range link.Query() {
				if len(values) > 0 {
					params[key] = values[0]
				}
			}
			for key, value := range captures {
				params[key] = value
			}

			if route, ok := factory(c.rule.Route, params); ok {
				return route, c.option, true
			}
		}

		return zero, router.Navigation, false
	}, nil
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func compilePattern(pattern string) ([]string, error) {
	segments := splitPath(pattern)

	for i, segment := range segments {
		switch {
		case segment == RemainderParam:
			if i != len(segments)-1 {
				return nil, fmt.Errorf("%w: %q: \"*\" must be the last segment", ErrInvalidPattern, pattern)
			}
		case strings.HasPrefix(segment, "{") || strings.HasSuffix(segment, "}"):
			name := strings.TrimSuffix(strings.TrimPrefix(segment, "{"), "}")
			if !strings.HasPrefix(segment, "{") || !strings.HasSuffix(segment, "}") || name == "" || strings.ContainsAny(name, "{}") {
				return nil, fmt.Errorf("%w: %q: bad capture %q", ErrInvalidPattern, pattern, segment)
			}
		case segment == "":
			return nil, fmt.Errorf("%w: %q: empty segment", ErrInvalidPattern, pattern)
		}
	}

	return segments, nil
}

func match(pattern, path []string) (Params, bool) {
	captures := Params{}

	for i, segment := range pattern {
		if segment == RemainderParam {
			rest, err := url.PathUnescape(strings.Join(path[i:], "/"))
			if err != nil {
				return nil, false
			}
			captures[RemainderParam] = rest
			return captures, true
		}
		if i >= len(path) {
			return nil, false
		}

		if strings.HasPrefix(segment, "{") {
			value, err := url.PathUnescape(path[i])
			if err != nil {
				return nil, false
			}
			captures[segment[1:len(segment)-1]] = value
			continue
		}

		if segment != path[i] {
			return nil, false
		}
	}

	if len(path) != len(pattern) {
		return nil, false
	}
	return captures, true
}
