package splitter

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Structural check errors
var (
	ErrNotMapping     = errors.New("document root is not a mapping")
	ErrNoResources    = errors.New("document has no Resources key")
	ErrEmptyResources = errors.New("the Resources key is not a non-empty mapping")
)

// CheckWellFormed decodes content as YAML and checks the top-level shape of
// a template: a mapping root holding a non-empty Resources mapping.
// Custom tags such as !Ref and !Sub are accepted without interpretation.
func CheckWellFormed(content string) error {
	var root yaml.Node
	if err := yaml.NewDecoder(strings.NewReader(content)).Decode(&root); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return ErrNotMapping
	}

	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return ErrNotMapping
	}

	for i := 0; i+1 < len(top.Content); i += 2 {
		if top.Content[i].Value != "Resources" {
			continue
		}
		value := top.Content[i+1]
		if value.Kind != yaml.MappingNode || len(value.Content) == 0 {
			return ErrEmptyResources
		}
		return nil
	}

	return ErrNoResources
}
