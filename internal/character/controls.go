package character

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ControlKind is the widget used to edit a field.
type ControlKind string

const (
	KindText     ControlKind = "text"
	KindCheckbox ControlKind = "checkbox"
	KindSlider   ControlKind = "slider"
	KindSelect   ControlKind = "select"
)

// Control declares one input on the customizer panel.
type Control struct {
	ID          string      `yaml:"id"`
	Label       string      `yaml:"label"`
	Kind        ControlKind `yaml:"kind"`
	Field       Field       `yaml:"field"`
	Placeholder string      `yaml:"placeholder"`
	Caption     string      `yaml:"caption"` // checkbox text; defaults to Label
	Min         int         `yaml:"min"`
	Max         int         `yaml:"max"`
	Checked     string      `yaml:"checked"`   // value submitted when ticked
	Unchecked   string      `yaml:"unchecked"` // value submitted when cleared
	Options     []string    `yaml:"options"`
}

// Catalog is the ordered list of controls shown on the panel.
type Catalog struct {
	Controls []Control `yaml:"controls"`
}

// LoadControls loads a control catalog from a YAML file.
func LoadControls(path string) (*Catalog, error) {
	cleanPath := filepath.Clean(path)
	b, err := os.ReadFile(cleanPath) //nolint:gosec // path comes from server config
	if err != nil {
		return nil, err
	}
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse controls %s: %w", cleanPath, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("controls %s: %w", cleanPath, err)
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	seen := make(map[string]bool, len(c.Controls))
	for i, ctl := range c.Controls {
		if ctl.ID == "" {
			return fmt.Errorf("control %d: missing id", i)
		}
		if seen[ctl.ID] {
			return fmt.Errorf("control %q: duplicate id", ctl.ID)
		}
		seen[ctl.ID] = true
		if _, ok := ParseField(string(ctl.Field)); !ok {
			return fmt.Errorf("control %q: %w: %q", ctl.ID, ErrUnknownField, ctl.Field)
		}
		switch ctl.Kind {
		case KindText:
		case KindCheckbox:
			if ctl.Checked == ctl.Unchecked {
				return fmt.Errorf("control %q: checked and unchecked values must differ", ctl.ID)
			}
		case KindSlider:
			if ctl.Min > ctl.Max {
				return fmt.Errorf("control %q: min %d above max %d", ctl.ID, ctl.Min, ctl.Max)
			}
		case KindSelect:
			if len(ctl.Options) == 0 {
				return fmt.Errorf("control %q: select without options", ctl.ID)
			}
			if ctl.Field == FieldHat {
				for _, o := range ctl.Options {
					if !allowedHat(o) {
						return fmt.Errorf("control %q: unknown hat %q", ctl.ID, o)
					}
				}
			}
		default:
			return fmt.Errorf("control %q: unknown kind %q", ctl.ID, ctl.Kind)
		}
	}
	return nil
}

// Lookup finds a control by id.
func (c *Catalog) Lookup(id string) (Control, bool) {
	for _, ctl := range c.Controls {
		if ctl.ID == id {
			return ctl, true
		}
	}
	return Control{}, false
}

// Command turns a control event into a Command. Checkboxes ignore raw and
// submit their checked or unchecked value.
func (c Control) Command(raw string, checked bool) Command {
	if c.Kind == KindCheckbox {
		if checked {
			return Command{Field: c.Field, Value: c.Checked}
		}
		return Command{Field: c.Field, Value: c.Unchecked}
	}
	return Command{Field: c.Field, Value: raw}
}

// IsChecked reports whether a checkbox control is ticked for st.
func (c Control) IsChecked(st Settings) bool {
	return c.Kind == KindCheckbox && st.Value(c.Field) == c.Checked
}

// Current is the control's value for st.
func (c Control) Current(st Settings) string {
	return st.Value(c.Field)
}

// CheckboxCaption is the text next to a checkbox.
func (c Control) CheckboxCaption() string {
	if c.Caption != "" {
		return c.Caption
	}
	return c.Label
}
