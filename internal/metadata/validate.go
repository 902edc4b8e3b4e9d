package metadata

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// Validate checks the definition for mistakes a renderer could not
// recover from: unknown field types, duplicate names, lookups without a
// target entity and malformed tabs.
func (d EntityDefinition) Validate() error {
	if d.Name == "" {
		return errors.New("entity name is required")
	}

	var errs []error
	tabs := make(map[int]bool, len(d.Tabs))
	for _, tab := range d.Tabs {
		if tab.ID < 1 {
			errs = append(errs, fmt.Errorf("%s: tab id must be positive, got %d", d.Name, tab.ID))
		}
		if tabs[tab.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate tab id %d", d.Name, tab.ID))
		}
		tabs[tab.ID] = true
	}

	names := make(map[string]bool, len(d.Fields))
	for _, f := range d.Fields {
		if f.Field == "" {
			errs = append(errs, fmt.Errorf("%s: field without name", d.Name))
			continue
		}
		if names[f.Field] {
			errs = append(errs, fmt.Errorf("%s.%s: duplicate field", d.Name, f.Field))
		}
		names[f.Field] = true

		if !f.Type.IsValid() {
			errs = append(errs, fmt.Errorf("%s.%s: unknown field type %q", d.Name, f.Field, f.Type))
		}
		if f.Type == TypeLookup && f.LookupEntity == "" {
			errs = append(errs, fmt.Errorf("%s.%s: lookup field requires lookup_entity", d.Name, f.Field))
		}
		if f.Tab < 0 {
			errs = append(errs, fmt.Errorf("%s.%s: negative tab %d", d.Name, f.Field, f.Tab))
		}
	}

	return errors.Join(errs...)
}

// OrphanFields returns the fields that a tabbed layout omits because their
// tab matches no declared tab. Empty when the entity has no tabs.
func (d EntityDefinition) OrphanFields() []string {
	if len(d.Tabs) == 0 {
		return nil
	}
	var orphans []string
	for _, f := range d.Fields {
		if !slices.ContainsFunc(d.Tabs, func(t EntityTab) bool { return t.ID == f.Tab }) {
			orphans = append(orphans, f.Field)
		}
	}
	return orphans
}

// SortFields returns fields sorted ascending by Order. Fields with equal
// order keep their declaration order.
func SortFields(fields []EntityField) []EntityField {
	sorted := slices.Clone(fields)
	slices.SortStableFunc(sorted, func(a, b EntityField) int {
		return cmp.Compare(a.Order, b.Order)
	})
	return sorted
}

// ListFields returns the fields shown in list tables, in display order.
func (d EntityDefinition) ListFields() []EntityField {
	var fields []EntityField
	for _, f := range d.Fields {
		if f.InList() {
			fields = append(fields, f)
		}
	}
	return SortFields(fields)
}
