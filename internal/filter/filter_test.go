package filter

import (
	"testing"

	"github.com/cpuguy83/calgrid/internal/calendar"
	"github.com/cpuguy83/calgrid/internal/config"
)

func TestApply(t *testing.T) {
	events := []calendar.Event{
		{ID: "a", Title: "Standup", CalendarID: "2", Color: calendar.ColorSage},
		{ID: "b", Title: "Dentist", Description: "bring insurance card", CalendarID: "1", Color: calendar.ColorCoral},
		{ID: "c", Title: "standup retro", CalendarID: "2", Color: calendar.ColorSky},
		{ID: "d", Title: "Dinner", CalendarID: "3", Color: calendar.ColorMarigold},
	}

	tests := []struct {
		name string
		cfg  config.FilterConfig
		want []string
	}{
		{
			name: "no rules",
			cfg:  config.FilterConfig{},
			want: []string{"a", "b", "c", "d"},
		},
		{
			name: "calendar exact",
			cfg:  config.FilterConfig{Rules: []config.FilterRule{{Field: "calendar", Exact: "2"}}},
			want: []string{"a", "c"},
		},
		{
			name: "title contains case sensitive",
			cfg:  config.FilterConfig{Rules: []config.FilterRule{{Field: "title", Contains: "Standup"}}},
			want: []string{"a"},
		},
		{
			name: "title prefix case insensitive",
			cfg:  config.FilterConfig{Rules: []config.FilterRule{{Field: "title", Prefix: "STANDUP", CaseInsensitive: true}}},
			want: []string{"a", "c"},
		},
		{
			name: "description suffix",
			cfg:  config.FilterConfig{Rules: []config.FilterRule{{Field: "description", Suffix: "card"}}},
			want: []string{"b"},
		},
		{
			name: "color regex",
			cfg:  config.FilterConfig{Rules: []config.FilterRule{{Field: "color", Regex: "^(sage|sky)$"}}},
			want: []string{"a", "c"},
		},
		{
			name: "or mode",
			cfg: config.FilterConfig{Mode: "or", Rules: []config.FilterRule{
				{Field: "calendar", Exact: "1"},
				{Field: "calendar", Exact: "3"},
			}},
			want: []string{"b", "d"},
		},
		{
			name: "and mode",
			cfg: config.FilterConfig{Mode: "and", Rules: []config.FilterRule{
				{Field: "calendar", Exact: "2"},
				{Field: "title", Regex: "retro"},
			}},
			want: []string{"c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			got := f.Apply(events)
			if len(got) != len(tt.want) {
				t.Fatalf("Apply() returned %d events, want %d", len(got), len(tt.want))
			}
			for i, e := range got {
				if e.ID != tt.want[i] {
					t.Errorf("Apply()[%d] = %s, want %s", i, e.ID, tt.want[i])
				}
			}
		})
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.FilterConfig
	}{
		{"no pattern", config.FilterConfig{Rules: []config.FilterRule{{Field: "title"}}}},
		{"bad regex", config.FilterConfig{Rules: []config.FilterRule{{Field: "title", Regex: "("}}}},
		{"unknown field", config.FilterConfig{Rules: []config.FilterRule{{Field: "organizer", Contains: "x"}}}},
		{"unknown mode", config.FilterConfig{Mode: "xor"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Error("New() succeeded, want error")
			}
		})
	}
}

func TestEmpty(t *testing.T) {
	var f *Filter
	if !f.Empty() {
		t.Error("nil filter not empty")
	}
	f, err := New(config.FilterConfig{Rules: []config.FilterRule{{Field: "title", Contains: "x"}}})
	if err != nil {
		t.Fatal(err)
	}
	if f.Empty() {
		t.Error("filter with rules reported empty")
	}
}
