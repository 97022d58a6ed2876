package types

import (
	"regexp"
	"strings"
)

// OutputExtension is appended to section names to form output filenames
const OutputExtension = ".yaml"

var sectionNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// SectionSpec declares a named region of the resource block to extract
type SectionSpec struct {
	Name        string `yaml:"name" json:"name"`
	StartMarker string `yaml:"start" json:"start"`
	EndMarker   string `yaml:"end,omitempty" json:"end,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Validate checks the spec for configuration errors
func (s *SectionSpec) Validate() error {
	if s.Name == "" {
		return ErrEmptyName
	}

	if !sectionNamePattern.MatchString(s.Name) {
		return ErrInvalidName
	}

	if s.StartMarker == "" {
		return ErrEmptyStartMarker
	}

	return nil
}

// StackName returns the name without any output extension.
// It identifies the split document in its synthesized trailer.
func (s *SectionSpec) StackName() string {
	name := strings.TrimSuffix(s.Name, OutputExtension)
	return strings.TrimSuffix(name, ".yml")
}

// Filename derives the output filename from the section name
func (s *SectionSpec) Filename() string {
	return s.StackName() + OutputExtension
}
