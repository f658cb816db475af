package definition

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/formbind/pkg/form"
	"github.com/aretw0/formbind/pkg/registry"
	"github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Document is a declarative form: initial values, env defaults and the fields to bind.
type Document struct {
	Name   string      `json:"name,omitempty" mapstructure:"name"`
	Values any         `json:"values,omitempty" mapstructure:"values"`
	Env    EnvSpec     `json:"env" mapstructure:"env"`
	Fields []FieldSpec `json:"fields" mapstructure:"fields"`
}

// EnvSpec holds the serialisable part of form.Env. Keys left out of the document
// inherit from the env the form is built with.
type EnvSpec struct {
	IsPreview                *bool   `json:"isPreview,omitempty" mapstructure:"isPreview"`
	ValidateOnMount          *bool   `json:"validateOnMount,omitempty" mapstructure:"validateOnMount"`
	ValidateOnChange         *bool   `json:"validateOnChange,omitempty" mapstructure:"validateOnChange"`
	ValidateOnBlur           *bool   `json:"validateOnBlur,omitempty" mapstructure:"validateOnBlur"`
	WriteDefaultValueToModel *bool   `json:"writeDefaultValueToModel,omitempty" mapstructure:"writeDefaultValueToModel"`
	HTMLIDPrefix             *string `json:"htmlIdPrefix,omitempty" mapstructure:"htmlIdPrefix"`
}

// Override converts the spec into a form env override without callbacks.
func (s EnvSpec) Override() form.Override {
	return form.Override{
		IsPreview:                s.IsPreview,
		ValidateOnMount:          s.ValidateOnMount,
		ValidateOnChange:         s.ValidateOnChange,
		ValidateOnBlur:           s.ValidateOnBlur,
		WriteDefaultValueToModel: s.WriteDefaultValueToModel,
		HTMLIDPrefix:             s.HTMLIDPrefix,
	}
}

// FieldSpec declares one bound field. Exactly one of Name or Tuple selects it;
// Compute turns a named field into a read-only computed field.
type FieldSpec struct {
	Name    string   `json:"name,omitempty" mapstructure:"name"`
	Tuple   []string `json:"tuple,omitempty" mapstructure:"tuple"`
	Fork    string   `json:"fork,omitempty" mapstructure:"fork"`
	Compute string   `json:"compute,omitempty" mapstructure:"compute"`
	Kind    string   `json:"kind,omitempty" mapstructure:"kind"`

	Label    string `json:"label,omitempty" mapstructure:"label"`
	Help     string `json:"help,omitempty" mapstructure:"help"`
	Tip      string `json:"tip,omitempty" mapstructure:"tip"`
	ReadOnly bool   `json:"readOnly,omitempty" mapstructure:"readOnly"`
	Disabled bool   `json:"disabled,omitempty" mapstructure:"disabled"`

	Required        bool   `json:"required,omitempty" mapstructure:"required"`
	RequiredMessage string `json:"requiredMessage,omitempty" mapstructure:"requiredMessage"`
	DefaultValue    any    `json:"defaultValue,omitempty" mapstructure:"defaultValue"`
	Type            string `json:"type,omitempty" mapstructure:"type"`
	Rules           []Rule `json:"rules,omitempty" mapstructure:"rules"`

	ValidateOnMount  *bool `json:"validateOnMount,omitempty" mapstructure:"validateOnMount"`
	ValidateOnChange *bool `json:"validateOnChange,omitempty" mapstructure:"validateOnChange"`
	ValidateOnBlur   *bool `json:"validateOnBlur,omitempty" mapstructure:"validateOnBlur"`

	DataSource []registry.Option `json:"dataSource,omitempty" mapstructure:"dataSource"`
}

// Key names the field in error messages and binding lookups.
func (s FieldSpec) Key() string {
	key := s.Name
	if len(s.Tuple) > 0 {
		key = "(" + strings.Join(s.Tuple, ",") + ")"
	}
	if s.Fork != "" {
		key += "#" + s.Fork
	}
	return key
}

// Rule is an expression that must evaluate to true for the value to pass.
type Rule struct {
	Expr    string `json:"expr" mapstructure:"expr"`
	Message string `json:"message,omitempty" mapstructure:"message"`
}

// Parse decodes a YAML document. JSON documents parse as well.
func Parse(data []byte) (*Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}
	return decode(raw)
}

// ParseJSON decodes a JSON document.
func ParseJSON(data []byte) (*Document, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}
	return decode(raw)
}

// LoadFile reads a definition, choosing the decoder by file extension.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return Parse(data)
}

func decode(raw map[string]any) (*Document, error) {
	var doc Document
	if raw == nil {
		return &doc, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &doc,
		ErrorUnused: true,
		TagName:     "mapstructure",
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode definition: %w", err)
	}
	return &doc, nil
}
