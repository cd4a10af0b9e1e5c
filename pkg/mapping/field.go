/*
 * Copyright (c) 2024-present DocMesh, Ltd.
 */

package mapping

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// FieldDef is a leaf field definition: a name, a full dotted path, a
// semantic type and a bag of type-specific options. Immutable once the
// owning Mapping is built.
type FieldDef struct {
	name     string
	path     string
	kind     DataKind
	required bool
	options  map[string]string
}

func newFieldDef(name, path string, kind DataKind, required bool, options map[string]string) *FieldDef {
	f := FieldDef{
		name:     name,
		path:     path,
		kind:     kind,
		required: required,
	}
	if len(options) > 0 {
		f.options = maps.Clone(options)
	}
	return &f
}

func (f *FieldDef) Name() string { return f.name }

// Path returns the full dotted path of the field within the document type.
func (f *FieldDef) Path() string { return f.path }

func (f *FieldDef) DataKind() DataKind { return f.kind }

func (f *FieldDef) Required() bool { return f.required }

// Option returns the value of a type-specific option, empty string if the
// option is not set.
func (f *FieldDef) Option(name string) string { return f.options[name] }

// OptionNames returns the names of all set options, sorted.
func (f *FieldDef) OptionNames() []string {
	names := maps.Keys(f.options)
	slices.Sort(names)
	return names
}

func (f *FieldDef) clone() *FieldDef {
	c := *f
	if f.options != nil {
		c.options = maps.Clone(f.options)
	}
	return &c
}

// checkCompatible compares the live field definition with an incoming one
// and appends a conflict per detected incompatibility. Conflicts are data,
// never errors.
func (f *FieldDef) checkCompatible(inc *FieldDef, res *MergeResult) {
	if f.kind != inc.kind {
		res.addConflict("mapper [%s] of different type, current_type [%s], merged_type [%s]", f.path, f.kind, inc.kind)
		return
	}
	if f.required != inc.required {
		res.addConflict("mapper [%s] has different [required] values", f.path)
	}
	names := maps.Keys(f.options)
	for _, n := range maps.Keys(inc.options) {
		if _, ok := f.options[n]; !ok {
			names = append(names, n)
		}
	}
	slices.Sort(names)
	for _, n := range names {
		if f.options[n] != inc.options[n] {
			res.addConflict("mapper [%s] has different [%s] values", f.path, n)
		}
	}
}

func (f *FieldDef) String() string {
	return fmt.Sprintf("field «%s»: %s", f.path, f.kind)
}
