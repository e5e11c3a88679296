package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Rules tunes the derived dataset generators. Known contacts used to be baked
// into the extraction code; they now live in the rules file.
type Rules struct {
	Notes     NotesRules    `yaml:"notes"`
	Schedules ScheduleRules `yaml:"schedules"`
}

// NotesRules configures the raw notes structurer.
type NotesRules struct {
	ChunkSize     int           `yaml:"chunk_size"`
	ChunkOverlap  int           `yaml:"chunk_overlap"`
	ContextBefore int           `yaml:"context_before"`
	ContextAfter  int           `yaml:"context_after"`
	PhonePattern  string        `yaml:"phone_pattern"`
	Contacts      []ContactRule `yaml:"contacts"`
}

// ContactRule describes a known person. Pattern is matched case-insensitively
// across line breaks; the fallback fields fill whatever the matched context
// does not provide.
type ContactRule struct {
	Name          string `yaml:"name"`
	Pattern       string `yaml:"pattern"`
	Address       string `yaml:"address"`
	Email         string `yaml:"email"`
	Phone         string `yaml:"phone"`
	AlwaysInclude bool   `yaml:"always_include"`
}

// ScheduleRules configures the daily schedule consolidator.
type ScheduleRules struct {
	JobMarker string `yaml:"job_marker"`
}

// DefaultRules returns rules with no known contacts.
func DefaultRules() Rules {
	return Rules{
		Notes: NotesRules{
			ChunkSize:     600,
			ChunkOverlap:  0,
			ContextBefore: 50,
			ContextAfter:  300,
			PhonePattern:  `(\(?\d{3}\)?[-.\s]??\d{3}[-.\s]??\d{4})`,
		},
		Schedules: ScheduleRules{
			JobMarker: "COMPANY:",
		},
	}
}

// LoadRules reads c.RulesFile into c.Rules. A missing file keeps the defaults.
func (c *Config) LoadRules() error {
	rules, err := ReadRules(c.Path(c.RulesFile))
	if err != nil {
		return err
	}
	c.Rules = rules
	return nil
}

// ReadRules parses a rules file on top of DefaultRules.
func ReadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return rules, nil
	}
	if err != nil {
		return rules, fmt.Errorf("read rules %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("parse rules %s: %w", path, err)
	}
	if err := rules.Validate(); err != nil {
		return rules, fmt.Errorf("rules %s: %w", path, err)
	}
	return rules, nil
}

// Validate checks that every pattern compiles and sizes are usable.
func (r Rules) Validate() error {
	if r.Notes.ChunkSize <= 0 {
		return fmt.Errorf("notes.chunk_size must be positive")
	}
	if r.Notes.ChunkOverlap < 0 || r.Notes.ChunkOverlap >= r.Notes.ChunkSize {
		return fmt.Errorf("notes.chunk_overlap must be in [0, chunk_size)")
	}
	if _, err := regexp.Compile(r.Notes.PhonePattern); err != nil {
		return fmt.Errorf("notes.phone_pattern: %w", err)
	}
	for i, contact := range r.Notes.Contacts {
		if contact.Name == "" {
			return fmt.Errorf("notes.contacts[%d]: name is required", i)
		}
		if contact.Pattern == "" {
			continue
		}
		if _, err := regexp.Compile(contact.Pattern); err != nil {
			return fmt.Errorf("notes.contacts[%d] (%s): %w", i, contact.Name, err)
		}
	}
	if r.Schedules.JobMarker == "" {
		return fmt.Errorf("schedules.job_marker must not be empty")
	}
	return nil
}
