package binding

import "github.com/aretw0/formbind/pkg/registry"

// StatusError is the status reported for a field holding a validation error.
const StatusError = "error"

// Props is everything a control needs to render a bound field.
type Props struct {
	ID         string            `json:"id"`
	Kind       string            `json:"kind"`
	Path       string            `json:"path"`
	Label      string            `json:"label,omitempty"`
	Help       string            `json:"help,omitempty"`
	Tip        string            `json:"tip,omitempty"`
	Required   bool              `json:"required,omitempty"`
	ReadOnly   bool              `json:"readOnly,omitempty"`
	Disabled   bool              `json:"disabled,omitempty"`
	Preview    bool              `json:"preview,omitempty"`
	Value      any               `json:"value"`
	Status     string            `json:"status,omitempty"`
	Error      string            `json:"error,omitempty"`
	Validating bool              `json:"validating,omitempty"`
	DataSource []registry.Option `json:"dataSource,omitempty"`

	valueProp  string
	statusProp string
}

// Props snapshots the render state of the binding. An explicit Status in the config
// wins over the "error" status derived from the field state.
func (b *Binding) Props() Props {
	state := b.field.State()
	p := Props{
		ID:         b.htmlID,
		Kind:       b.kind.Name,
		Path:       b.field.Path().String(),
		Label:      b.config.Label,
		Help:       b.config.Help,
		Tip:        b.config.Tip,
		Required:   b.config.Required,
		ReadOnly:   b.config.ReadOnly,
		Disabled:   b.config.Disabled,
		Preview:    b.preview,
		Value:      b.Value(),
		Status:     b.config.Status,
		Validating: state.Validating,
		DataSource: b.dataSource,
		valueProp:  b.kind.ValuePropName,
		statusProp: b.kind.StatusPropName,
	}
	if state.Error != nil {
		p.Error = state.Error.Error()
		if p.Status == "" {
			p.Status = StatusError
		}
	}
	return p
}

// ComponentProps returns the props keyed the way the kind's control expects them,
// e.g. {"id": ..., "checked": true} for a switch.
func (p Props) ComponentProps() map[string]any {
	out := map[string]any{"id": p.ID}
	out[p.valueProp] = p.Value
	if p.Status != "" {
		out[p.statusProp] = p.Status
	}
	if p.ReadOnly {
		out["readOnly"] = true
	}
	if p.Disabled {
		out["disabled"] = true
	}
	if len(p.DataSource) > 0 {
		out["dataSource"] = p.DataSource
	}
	return out
}
