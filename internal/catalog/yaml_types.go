package catalog

import (
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"shapekit/internal/common"
)

// StringOrArray is a list of strings that can be written as a single
// scalar in YAML.
type StringOrArray []string

// UnmarshalYAML accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// First returns the first element or empty string if empty.
func (s StringOrArray) First() string {
	if v, ok := common.First(s); ok {
		return v
	}

	return ""
}

// IsEmpty returns true if the array is empty.
func (s StringOrArray) IsEmpty() bool {
	return common.IsEmpty(s)
}

// IsSingle returns true if the array has exactly one element.
func (s StringOrArray) IsSingle() bool {
	return common.IsSingle(s)
}

// Contains returns true if the array contains the given string.
func (s StringOrArray) Contains(str string) bool {
	return slices.Contains(s, str)
}

// UnmarshalYAML accepts explicit {name: x, type: y} entries, the {x: y}
// shorthand, and bare names typed "any".
func (p *ParamDefs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("expected list of parameters, got %v", node.Kind)
	}

	result := make([]ParamDef, 0, len(node.Content))

	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			var name string
			if err := item.Decode(&name); err != nil {
				return err
			}

			result = append(result, ParamDef{Name: name, Type: "any"})

		case yaml.MappingNode:
			def, err := parseParamFromMap(item)
			if err != nil {
				return err
			}

			result = append(result, def)

		default:
			return fmt.Errorf("expected string or map for parameter, got %v", item.Kind)
		}
	}

	*p = result

	return nil
}

func parseParamFromMap(node *yaml.Node) (ParamDef, error) {
	var explicit map[string]string
	if err := node.Decode(&explicit); err != nil {
		return ParamDef{}, fmt.Errorf("invalid parameter: %w", err)
	}

	if name, ok := explicit["name"]; ok {
		typ := explicit["type"]
		if typ == "" {
			typ = "any"
		}

		return ParamDef{Name: name, Type: typ}, nil
	}

	if len(node.Content) != 2 {
		return ParamDef{}, errors.New("invalid parameter, expected {name: type} or {name: ..., type: ...}")
	}

	return ParamDef{Name: node.Content[0].Value, Type: node.Content[1].Value}, nil
}

// MarshalYAML writes parameters in the {name: type} shorthand.
func (p ParamDefs) MarshalYAML() (any, error) {
	out := make([]map[string]string, len(p))
	for i, def := range p {
		out[i] = map[string]string{def.Name: def.Type}
	}

	return out, nil
}
