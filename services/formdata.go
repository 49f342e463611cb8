package services

// Form field controls as submitted by the frontend. Each control carries its
// name, disabled state, and the kind-specific value; ExtractFormData turns a
// slice of controls into the plain record persisted with the document.

type FieldKind int

const (
	FieldText FieldKind = iota
	FieldCheckbox
	FieldRadio
	FieldMultiSelect
	FieldButton
)

type FieldControl struct {
	Kind     FieldKind
	Name     string
	Disabled bool
	Value    string   // text, radio value
	Checked  bool     // checkbox / radio
	Selected []string // multi-select selected option values
}

// ExtractFormData captures the submitted values of the given controls.
//
// Disabled controls are always skipped: they represent derived or read-only
// UI state and must never be persisted as user input. Controls without a name
// and button-type controls are skipped as well. Checkboxes record their
// checked state even when false; a radio records its value only when it is
// the checked member of its group.
func ExtractFormData(controls []FieldControl) map[string]interface{} {
	data := make(map[string]interface{})
	for _, ctrl := range controls {
		if ctrl.Disabled || ctrl.Name == "" || ctrl.Kind == FieldButton {
			continue
		}
		switch ctrl.Kind {
		case FieldCheckbox:
			data[ctrl.Name] = ctrl.Checked
		case FieldRadio:
			if ctrl.Checked {
				data[ctrl.Name] = ctrl.Value
			}
		case FieldMultiSelect:
			selected := make([]string, len(ctrl.Selected))
			copy(selected, ctrl.Selected)
			data[ctrl.Name] = selected
		default:
			data[ctrl.Name] = ctrl.Value
		}
	}
	return data
}
