package config

import (
	"errors"
	"strings"
)

var errMultiStringSetEmptyValue = errors.New("value cannot be empty")

// MultiStringFlag is a repeatable flag.Value whose occurrences may each hold
// several separated items, so `-listen-http 127.0.0.1:8000,[::1]:8000` and
// `-static-extensions css -static-extensions "js, woff2"` both work.
type MultiStringFlag struct {
	value     []string
	separator string
}

func (s *MultiStringFlag) String() string {
	return strings.Join(s.value, s.sep())
}

// Set records one occurrence of the flag
func (s *MultiStringFlag) Set(value string) error {
	if value == "" {
		return errMultiStringSetEmptyValue
	}

	s.value = append(s.value, value)
	return nil
}

// Split returns every item across all occurrences, trimmed, with blank
// items dropped
func (s *MultiStringFlag) Split() []string {
	var items []string

	for _, occurrence := range s.value {
		for _, item := range strings.Split(occurrence, s.sep()) {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
	}

	return items
}

func (s *MultiStringFlag) sep() string {
	if s.separator == "" {
		return ","
	}

	return s.separator
}

// Len returns how many times the flag was given
func (s *MultiStringFlag) Len() int {
	return len(s.value)
}
