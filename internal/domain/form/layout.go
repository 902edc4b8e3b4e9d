package form

import (
	"fmt"

	"bankreco/internal/core/i18n"
	"bankreco/internal/metadata"
)

// Config is the part of an entity definition a form needs. Pages with
// ad hoc forms build one directly instead of going through a definition.
type Config struct {
	Tabs   []metadata.EntityTab
	Fields []metadata.EntityField
}

// ConfigFor extracts the form configuration of an entity definition.
func ConfigFor(def metadata.EntityDefinition) Config {
	return Config{Tabs: def.Tabs, Fields: def.Fields}
}

// Option is one choice of a select control.
type Option struct {
	Value any    `json:"value"`
	Label string `json:"label"`
}

// Options tune a render.
type Options struct {
	// Editing is true while the card is in edit mode.
	Editing bool

	// Lang selects the label translation.
	Lang i18n.Lang

	// LookupOptions holds select choices keyed by field name.
	LookupOptions map[string][]Option
}

// FieldView is a field ready to be displayed.
type FieldView struct {
	Field        string             `json:"field"`
	Label        string             `json:"label"`
	Type         metadata.FieldType `json:"type"`
	Control      Control            `json:"control"`
	Value        any                `json:"value"`
	Required     bool               `json:"required,omitempty"`
	Disabled     bool               `json:"disabled"`
	Validates    bool               `json:"validates,omitempty"`
	LookupEntity string             `json:"lookupEntity,omitempty"`
	Options      []Option           `json:"options,omitempty"`
}

// Group is a collapsible tab section, or the single grid of an untabbed
// form (TabID 0).
type Group struct {
	TabID  int         `json:"tabId,omitempty"`
	Title  string      `json:"title,omitempty"`
	Open   bool        `json:"open"`
	Fields []FieldView `json:"fields"`
}

// Layout is a rendered form.
type Layout struct {
	Tabbed  bool    `json:"tabbed"`
	Editing bool    `json:"editing"`
	Groups  []Group `json:"groups"`
}

// Render builds the layout of cfg for a record.
//
// With tabs, every tab becomes a group holding the fields whose Tab
// matches its id (fields matching no tab are omitted) and starts open per
// the tab's Open flag. Without tabs, all fields shown on cards form one
// grid. Within a group fields are sorted by Order, ties keeping
// declaration order.
func Render(cfg Config, data map[string]any, opts Options) (Layout, error) {
	conds, err := sharedConditions()
	if err != nil {
		return Layout{}, err
	}

	layout := Layout{
		Tabbed:  len(cfg.Tabs) > 0,
		Editing: opts.Editing,
	}

	if !layout.Tabbed {
		var fields []metadata.EntityField
		for _, f := range cfg.Fields {
			if f.InCard() {
				fields = append(fields, f)
			}
		}
		views, err := renderFields(conds, fields, data, opts)
		if err != nil {
			return Layout{}, err
		}
		layout.Groups = []Group{{Open: true, Fields: views}}
		return layout, nil
	}

	layout.Groups = make([]Group, 0, len(cfg.Tabs))
	for _, tab := range cfg.Tabs {
		var fields []metadata.EntityField
		for _, f := range cfg.Fields {
			if f.Tab == tab.ID {
				fields = append(fields, f)
			}
		}
		views, err := renderFields(conds, fields, data, opts)
		if err != nil {
			return Layout{}, err
		}
		layout.Groups = append(layout.Groups, Group{
			TabID:  tab.ID,
			Title:  tab.Title.Get(opts.Lang),
			Open:   tab.Open,
			Fields: views,
		})
	}
	return layout, nil
}

func renderFields(conds *conditions, fields []metadata.EntityField, data map[string]any, opts Options) ([]FieldView, error) {
	views := make([]FieldView, 0, len(fields))
	for _, f := range metadata.SortFields(fields) {
		if f.HiddenWhen != "" {
			hidden, err := conds.eval(f.HiddenWhen, data, opts.Editing)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Field, err)
			}
			if hidden {
				continue
			}
		}

		control, err := ControlFor(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Field, err)
		}

		views = append(views, FieldView{
			Field:        f.Field,
			Label:        f.Label.Get(opts.Lang),
			Type:         f.Type,
			Control:      control,
			Value:        data[f.Field],
			Required:     f.Required,
			Disabled:     IsDisabled(f, opts.Editing),
			Validates:    control.Validates(),
			LookupEntity: f.LookupEntity,
			Options:      opts.LookupOptions[f.Field],
		})
	}
	return views, nil
}

// IsDisabled reports whether a field is read-only. Disabled fields are
// never editable; outside edit mode everything but booleans is read-only,
// so toggles stay usable on a card in view mode.
func IsDisabled(f metadata.EntityField, editing bool) bool {
	if f.Disabled {
		return true
	}
	return !editing && f.Type != metadata.TypeBoolean
}
