// Package form turns entity definitions and record data into a form
// layout (tabs, ordered fields, controls, editability) and drives the
// view/edit/save lifecycle of a detail card.
package form

import (
	"fmt"

	"bankreco/internal/metadata"
)

// Control is the input widget used to edit a field.
type Control string

const (
	ControlText     Control = "text"
	ControlNumber   Control = "number"
	ControlToggle   Control = "toggle"
	ControlDate     Control = "date"
	ControlSelect   Control = "select"
	ControlEmail    Control = "email"
	ControlPhone    Control = "phone"
	ControlURL      Control = "url"
	ControlTextarea Control = "textarea"
	ControlImage    Control = "image"
)

// ControlFor maps a field type to its control. Adding a field type means
// adding a case here; an unmapped type is an error, never a silent
// fallback to plain text.
func ControlFor(t metadata.FieldType) (Control, error) {
	switch t {
	case metadata.TypeString:
		return ControlText, nil
	case metadata.TypeNumber:
		return ControlNumber, nil
	case metadata.TypeBoolean:
		return ControlToggle, nil
	case metadata.TypeDate:
		return ControlDate, nil
	case metadata.TypeLookup:
		return ControlSelect, nil
	case metadata.TypeEmail:
		return ControlEmail, nil
	case metadata.TypePhone:
		return ControlPhone, nil
	case metadata.TypeURL:
		return ControlURL, nil
	case metadata.TypeTextarea:
		return ControlTextarea, nil
	case metadata.TypeImage:
		return ControlImage, nil
	default:
		return "", fmt.Errorf("no control for field type %q", t)
	}
}

// Validates reports whether the control carries a format check
// (email, phone, url) the client should surface while typing.
func (c Control) Validates() bool {
	return c == ControlEmail || c == ControlPhone || c == ControlURL
}
