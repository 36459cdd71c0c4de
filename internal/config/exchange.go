package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// exportKeyOrder is the order top-level keys are written in exported files.
var exportKeyOrder = []string{
	"logging", "output", "propertyValue", "etfReturn", "inflationRate",
	"horizonYears", "strategy", "scenarios", "options",
}

// ErrMalformed marks a document that cannot be parsed.
var ErrMalformed = errors.New("malformed document")

// ParseYAML decodes a YAML or JSON simulation document without environment
// overrides and normalizes it.
func ParseYAML(data []byte) (*Configuration, error) {
	var c Configuration
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	c.Normalize()
	return &c, nil
}

// ImportScenarios reads scenarios from a YAML or JSON document. The document
// is either a list of scenarios or an object with a scenarios key. Scenarios
// without an id are assigned one.
func ImportScenarios(r io.Reader) ([]Scenario, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, &FieldError{Path: "scenarios", Problem: ErrMissingField, Detail: "empty document"}
	}

	var scenarios []Scenario
	if data[0] == '[' || data[0] == '-' {
		if err := yaml.Unmarshal(data, &scenarios); err != nil {
			return nil, fmt.Errorf("%w: failed to parse scenarios: %v", ErrMalformed, err)
		}
	} else {
		var doc struct {
			Scenarios []Scenario `yaml:"scenarios"`
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: failed to parse scenarios: %v", ErrMalformed, err)
		}
		scenarios = doc.Scenarios
	}

	if len(scenarios) == 0 {
		return nil, &FieldError{Path: "scenarios", Problem: ErrMissingField, Detail: "no scenarios in document"}
	}
	for i := range scenarios {
		scenarios[i].normalize()
	}
	return scenarios, nil
}

// ExportYAML serializes a configuration. Struct field order matches
// exportKeyOrder.
func ExportYAML(c *Configuration) ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return data, nil
}

// MarshalOrderedYAML writes known top-level keys in canonical order followed
// by any remaining keys sorted by name.
func MarshalOrderedYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range exportKeyOrder {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	return yaml.Marshal(orderedConfig{items: items})
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}
