// Package filter narrows the events shown on the grid with include rules.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cpuguy83/calgrid/internal/calendar"
	"github.com/cpuguy83/calgrid/internal/config"
)

// fields maps a rule's field name to the event value it inspects.
var fields = map[string]func(calendar.Event) string{
	"title":       func(e calendar.Event) string { return e.Title },
	"description": func(e calendar.Event) string { return e.Description },
	"calendar":    func(e calendar.Event) string { return e.CalendarID },
	"color":       func(e calendar.Event) string { return string(e.Color) },
}

// Filter applies include rules to events.
type Filter struct {
	all   bool // every rule must match ("and"); otherwise any rule
	rules []rule
}

type rule struct {
	value func(calendar.Event) string
	match func(string) bool
}

// New creates a filter from configuration. An empty mode means "or".
func New(cfg config.FilterConfig) (*Filter, error) {
	f := &Filter{}
	switch cfg.Mode {
	case "", "or":
	case "and":
		f.all = true
	default:
		return nil, fmt.Errorf("unknown filter mode %q", cfg.Mode)
	}

	for i, r := range cfg.Rules {
		compiled, err := compileRule(r)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		f.rules = append(f.rules, compiled)
	}
	return f, nil
}

func compileRule(r config.FilterRule) (rule, error) {
	value, ok := fields[r.Field]
	if !ok {
		return rule{}, fmt.Errorf("unknown field %q", r.Field)
	}

	if r.Regex != "" {
		pattern := r.Regex
		if r.CaseInsensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return rule{}, fmt.Errorf("invalid regex %q: %w", r.Regex, err)
		}
		return rule{value: value, match: re.MatchString}, nil
	}

	var (
		pattern string
		cmp     func(s, pattern string) bool
	)
	switch {
	case r.Exact != "":
		pattern, cmp = r.Exact, func(s, p string) bool { return s == p }
	case r.Prefix != "":
		pattern, cmp = r.Prefix, strings.HasPrefix
	case r.Suffix != "":
		pattern, cmp = r.Suffix, strings.HasSuffix
	case r.Contains != "":
		pattern, cmp = r.Contains, strings.Contains
	default:
		return rule{}, fmt.Errorf("no match pattern specified (use contains, exact, prefix, suffix, or regex)")
	}

	if r.CaseInsensitive {
		pattern = strings.ToLower(pattern)
		return rule{value: value, match: func(s string) bool {
			return cmp(strings.ToLower(s), pattern)
		}}, nil
	}
	return rule{value: value, match: func(s string) bool {
		return cmp(s, pattern)
	}}, nil
}

// Apply returns the events that pass the rules, keeping their order.
// A filter without rules returns events unchanged.
func (f *Filter) Apply(events []calendar.Event) []calendar.Event {
	if f.Empty() {
		return events
	}

	var out []calendar.Event
	for _, e := range events {
		if f.keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func (f *Filter) keep(e calendar.Event) bool {
	for _, r := range f.rules {
		if r.match(r.value(e)) != f.all {
			return !f.all
		}
	}
	return f.all
}

// Empty reports whether the filter passes every event through.
func (f *Filter) Empty() bool {
	return f == nil || len(f.rules) == 0
}
