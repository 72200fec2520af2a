// Package links detects meeting URLs in calendar events.
package links

import (
	"regexp"

	"github.com/cpuguy83/calgrid/internal/calendar"
)

type service struct {
	name string
	re   *regexp.Regexp
}

// Known meeting services, checked before the generic URL pattern.
var services = []service{
	{"Zoom", regexp.MustCompile(`https?://[\w.-]*zoom\.us/j/[\w?=&-]+`)},
	{"Teams", regexp.MustCompile(`https?://teams\.microsoft\.com/l/meetup-join/[\w%/-]+`)},
	{"Meet", regexp.MustCompile(`https?://meet\.google\.com/[\w-]+`)},
	{"Webex", regexp.MustCompile(`https?://[\w.-]*\.webex\.com/[\w./-]+`)},
}

var genericURL = regexp.MustCompile(`https?://[^\s<>"]+`)

// Detect finds the first meeting link in the given text fields, checked in
// order. Known meeting services win over generic URLs within a field.
func Detect(fields ...string) string {
	for _, text := range fields {
		if link := detectInText(text); link != "" {
			return link
		}
	}
	return ""
}

func detectInText(text string) string {
	if text == "" {
		return ""
	}
	for _, s := range services {
		if match := s.re.FindString(text); match != "" {
			return match
		}
	}
	return genericURL.FindString(text)
}

// FromEvent extracts the meeting link from an event, looking at the
// description before the title.
func FromEvent(e calendar.Event) string {
	return Detect(e.Description, e.Title)
}

// Service returns the name of the meeting service for a URL.
func Service(url string) string {
	for _, s := range services {
		if s.re.MatchString(url) {
			return s.name
		}
	}
	return "Meeting"
}
