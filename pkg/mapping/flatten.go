/*
 * Copyright (c) 2024-present DocMesh, Ltd.
 */

package mapping

import (
	"fmt"
)

// Indexes is the flattened, path-keyed view of one Mapping: every field
// definition (metadata fields included) and every object definition, in the
// order a depth-first walk of the tree visits them. An Indexes value is an
// immutable snapshot of the mapping it was built from and is safe to hand
// to concurrent readers without copying.
type Indexes struct {
	fields         map[string]*FieldDef
	fieldsOrdered  []string
	objects        map[string]*ObjectDef
	objectsOrdered []string
	hasNested      bool
}

// buildIndexes walks the mapping depth-first, children in declaration
// order, and returns the flattened field and object indexes. Fails with
// ErrPathUniqueViolation if two definitions share a full path.
func buildIndexes(m *Mapping) (*Indexes, error) {
	x := &Indexes{
		fields:  make(map[string]*FieldDef),
		objects: make(map[string]*ObjectDef),
	}
	for _, k := range m.metaOrdered {
		mf := m.metaFields[k]
		if err := x.putField(&mf.FieldDef); err != nil {
			return nil, err
		}
	}
	if err := x.collect(m.root); err != nil {
		return nil, err
	}
	return x, nil
}

func (x *Indexes) collect(o *ObjectDef) error {
	if _, ok := x.objects[o.path]; ok {
		return fmt.Errorf("object «%s»: %w", o.path, ErrPathUniqueViolation)
	}
	if _, ok := x.fields[o.path]; ok {
		return fmt.Errorf("object «%s» collides with a field: %w", o.path, ErrPathUniqueViolation)
	}
	x.objects[o.path] = o
	x.objectsOrdered = append(x.objectsOrdered, o.path)
	if o.IsNested() {
		x.hasNested = true
	}
	for _, n := range o.fieldsOrdered {
		if err := x.putField(o.fields[n]); err != nil {
			return err
		}
	}
	for _, n := range o.childrenOrdered {
		if err := x.collect(o.children[n]); err != nil {
			return err
		}
	}
	return nil
}

func (x *Indexes) putField(f *FieldDef) error {
	if _, ok := x.fields[f.path]; ok {
		return fmt.Errorf("field «%s»: %w", f.path, ErrPathUniqueViolation)
	}
	if _, ok := x.objects[f.path]; ok {
		return fmt.Errorf("field «%s» collides with an object: %w", f.path, ErrPathUniqueViolation)
	}
	x.fields[f.path] = f
	x.fieldsOrdered = append(x.fieldsOrdered, f.path)
	return nil
}

// Field returns the field definition at the given full path, nil if absent.
func (x *Indexes) Field(path string) *FieldDef { return x.fields[path] }

// Object returns the object definition at the given full path, nil if
// absent. The root object is keyed by the empty path.
func (x *Indexes) Object(path string) *ObjectDef { return x.objects[path] }

// Fields enumerates all field definitions in walk order.
func (x *Indexes) Fields(cb func(*FieldDef)) {
	for _, p := range x.fieldsOrdered {
		cb(x.fields[p])
	}
}

// Objects enumerates all object definitions in walk order.
func (x *Indexes) Objects(cb func(*ObjectDef)) {
	for _, p := range x.objectsOrdered {
		cb(x.objects[p])
	}
}

func (x *Indexes) FieldCount() int { return len(x.fieldsOrdered) }

func (x *Indexes) ObjectCount() int { return len(x.objectsOrdered) }

// HasNested reports whether any object definition is classified nested.
// Lets nested-scope resolution exit early in the common case.
func (x *Indexes) HasNested() bool { return x.hasNested }
