package schema

import (
	"fmt"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// MarshalJSON serializes the schema as a map of paths to type expressions.
func (s Schema) MarshalJSON() ([]byte, error) {
	raw, err := s.typeMap()
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return []byte("null"), nil
	}
	return json.Marshal(raw)
}

// UnmarshalJSON deserializes the schema from a map of paths to type expressions.
func (s *Schema) UnmarshalJSON(data []byte) error {
	if s == nil {
		return fmt.Errorf("schema: UnmarshalJSON on nil pointer")
	}
	if string(data) == "null" {
		*s = nil
		return nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return s.fromAny(raw)
}

// MarshalYAML serializes the schema as a map of paths to type expressions.
func (s Schema) MarshalYAML() (any, error) {
	return s.typeMap()
}

// UnmarshalYAML deserializes the schema from a mapping of paths to type expressions.
func (s *Schema) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return s.fromAny(raw)
}

func (s Schema) typeMap() (map[string]string, error) {
	if s == nil {
		return nil, nil
	}
	raw := make(map[string]string, len(s))
	for path, typ := range s {
		if typ == nil {
			return nil, fmt.Errorf("path %s: type is nil", path)
		}
		raw[path] = typ.Name()
	}
	return raw, nil
}

func (s *Schema) fromAny(raw map[string]any) error {
	typeMap := make(map[string]string, len(raw))
	for path, value := range raw {
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("path %s: expected string type, got %T", path, value)
		}
		typeMap[path] = str
	}
	parsed, err := ParseTypeMap(typeMap)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
