package config

import (
	"fmt"
	"regexp"
	"strings"
)

// MatchString is a predicate over one window property. Every condition that
// is set must hold.
type MatchString struct {
	Equals    string `yaml:"equals,omitempty"`
	Includes  string `yaml:"includes,omitempty"`
	Regex     string `yaml:"regex,omitempty"`
	NotEquals string `yaml:"not_equals,omitempty"`
	NotRegex  string `yaml:"not_regex,omitempty"`

	re    *regexp.Regexp
	notRe *regexp.Regexp
}

func (m *MatchString) isEmpty() bool {
	return m.Equals == "" && m.Includes == "" && m.Regex == "" && m.NotEquals == "" && m.NotRegex == ""
}

func (m *MatchString) compile() error {
	if m.isEmpty() {
		return fmt.Errorf("match needs at least one of equals, includes, regex, not_equals or not_regex")
	}
	var err error
	if m.Regex != "" {
		if m.re, err = regexp.Compile(m.Regex); err != nil {
			return fmt.Errorf("regex %q: %w", m.Regex, err)
		}
	}
	if m.NotRegex != "" {
		if m.notRe, err = regexp.Compile(m.NotRegex); err != nil {
			return fmt.Errorf("not_regex %q: %w", m.NotRegex, err)
		}
	}
	return nil
}

// Matches tests v against the predicate.
func (m *MatchString) Matches(v string) bool {
	if m.re == nil && m.Regex != "" || m.notRe == nil && m.NotRegex != "" {
		if err := m.compile(); err != nil {
			return false
		}
	}
	if m.Equals != "" && v != m.Equals {
		return false
	}
	if m.Includes != "" && !strings.Contains(v, m.Includes) {
		return false
	}
	if m.re != nil && !m.re.MatchString(v) {
		return false
	}
	if m.NotEquals != "" && v == m.NotEquals {
		return false
	}
	if m.notRe != nil && m.notRe.MatchString(v) {
		return false
	}
	return true
}

// WindowMatchConfig matches when every property predicate that is set
// holds. An entry without predicates never matches.
type WindowMatchConfig struct {
	WindowProcess *MatchString `yaml:"window_process,omitempty"`
	WindowClass   *MatchString `yaml:"window_class,omitempty"`
	WindowTitle   *MatchString `yaml:"window_title,omitempty"`
}

// WindowProps are the properties window rules match against.
type WindowProps struct {
	Process string
	Class   string
	Title   string
}

func (m WindowMatchConfig) predicates() []*MatchString {
	var out []*MatchString
	for _, p := range []*MatchString{m.WindowProcess, m.WindowClass, m.WindowTitle} {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Matches tests the window properties against the entry.
func (m WindowMatchConfig) Matches(w WindowProps) bool {
	if m.WindowProcess == nil && m.WindowClass == nil && m.WindowTitle == nil {
		return false
	}
	if m.WindowProcess != nil && !m.WindowProcess.Matches(w.Process) {
		return false
	}
	if m.WindowClass != nil && !m.WindowClass.Matches(w.Class) {
		return false
	}
	if m.WindowTitle != nil && !m.WindowTitle.Matches(w.Title) {
		return false
	}
	return true
}

// Matches reports whether any match entry of the rule accepts w.
func (r WindowRuleConfig) Matches(w WindowProps) bool {
	for _, m := range r.Match {
		if m.Matches(w) {
			return true
		}
	}
	return false
}
