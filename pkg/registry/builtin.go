package registry

import (
	"fmt"
	"strings"

	"github.com/aretw0/formbind/pkg/model"
)

// Built-in kind names.
const (
	Switch          = "switch"
	Checkbox        = "checkbox"
	DatePicker      = "datePicker"
	DateRangePicker = "dateRangePicker"
	Input           = "input"
	Select          = "select"
	SingleSelect    = "singleSelect"
	MultipleSelect  = "multipleSelect"
	NotFound        = "notFound"
)

var notFound = Kind{
	Name:    NotFound,
	IsEmpty: func(any) bool { return false },
	Preview: func(any, []Option) string { return "invalid component" },
}.normalize()

// Builtins returns the kinds every registry starts with.
func Builtins() []Kind {
	return []Kind{
		{
			Name:              Switch,
			ValuePropName:     "checked",
			DefaultValue:      false,
			IsEmpty:           model.IsNil,
			Preview:           previewBool,
			HasIntrinsicWidth: true,
		},
		{
			Name:         Checkbox,
			DefaultValue: []any{},
			IsEmpty: func(v any) bool {
				if v == nil {
					return true
				}
				list, ok := v.([]any)
				return ok && len(list) == 0
			},
			Preview:           previewLabels,
			HasIntrinsicWidth: true,
		},
		{
			Name:              DatePicker,
			IsEmpty:           isFalsy,
			HasIntrinsicWidth: true,
		},
		{
			Name:              DateRangePicker,
			Aliases:           []string{"rangePicker"},
			DefaultValue:      []any{},
			IsEmpty:           IsNilOrAllNil,
			HasIntrinsicWidth: true,
		},
		{
			Name:         Input,
			DefaultValue: "",
			IsEmpty:      isFalsy,
		},
		{
			Name:    Select,
			IsEmpty: model.IsNil,
			Preview: previewLabels,
		},
		{
			Name:    SingleSelect,
			IsEmpty: isFalsy,
		},
		{
			Name:    MultipleSelect,
			IsEmpty: IsNilOrAllNil,
		},
	}
}

// IsNilOrAllNil treats nil and lists holding only nils as empty.
func IsNilOrAllNil(v any) bool {
	if v == nil {
		return true
	}
	list, ok := v.([]any)
	if !ok {
		return false
	}
	for _, item := range list {
		if item != nil {
			return false
		}
	}
	return true
}

func isFalsy(v any) bool {
	switch v.(type) {
	case []any, map[string]any:
		return false
	}
	return model.IsFalsyOrEmpty(v)
}

// PreviewText is the default preview: the value formatted with %v, "" for nil.
func PreviewText(v any, _ []Option) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func previewBool(v any, _ []Option) string {
	if b, ok := v.(bool); ok && b {
		return "Yes"
	}
	return "No"
}

func previewLabels(v any, ds []Option) string {
	labels := make(map[string]string, len(ds))
	for _, o := range ds {
		labels[fmt.Sprint(o.Value)] = o.Label
	}
	label := func(item any) string {
		key := fmt.Sprint(item)
		if l, ok := labels[key]; ok {
			return l
		}
		return key
	}

	list, ok := v.([]any)
	if !ok {
		if v == nil {
			return ""
		}
		return label(v)
	}
	parts := make([]string, len(list))
	for i, item := range list {
		parts[i] = label(item)
	}
	return strings.Join(parts, ", ")
}
