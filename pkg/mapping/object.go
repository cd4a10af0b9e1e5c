/*
 * Copyright (c) 2024-present DocMesh, Ltd.
 */

package mapping

import (
	"fmt"
)

// ObjectDef is an object definition: a named, ordered collection of child
// field and object definitions plus a nested classification. Insertion
// order of children is significant and survives merges and serialization.
//
// ObjectDef doubles as its own builder, as mapping trees are assembled once
// and then frozen by Builder.Build; do not modify a definition that belongs
// to a built Mapping.
type ObjectDef struct {
	name            string
	path            string
	kind            ObjectKind
	fields          map[string]*FieldDef
	fieldsOrdered   []string
	children        map[string]*ObjectDef
	childrenOrdered []string
}

func newObjectDef(name, path string, kind ObjectKind) *ObjectDef {
	return &ObjectDef{
		name:     name,
		path:     path,
		kind:     kind,
		fields:   make(map[string]*FieldDef),
		children: make(map[string]*ObjectDef),
	}
}

// newRootObject returns the root object definition of a document type. The
// root has an empty path, so child paths do not include the type name.
func newRootObject(docType string) *ObjectDef {
	return newObjectDef(docType, "", ObjectKind_Object)
}

func childPath(parent *ObjectDef, name string) string {
	if parent.path == "" {
		return name
	}
	return parent.path + "." + name
}

func (o *ObjectDef) Name() string { return o.name }

// Path returns the full dotted path of the object, empty for the root.
func (o *ObjectDef) Path() string { return o.path }

func (o *ObjectDef) Kind() ObjectKind { return o.kind }

func (o *ObjectDef) IsNested() bool { return o.kind == ObjectKind_Nested }

// NestedTypeFilter returns the filter term identifying this object's nested
// sub-documents in the underlying reader.
func (o *ObjectDef) NestedTypeFilter() string { return nestedFilterPrefix + o.path }

// AddField declares a leaf field. Returns the same object for chaining.
//
// # Panics:
//   - if name is empty, reserved or already used by a sibling
//   - if kind is not a valid data kind
func (o *ObjectDef) AddField(name string, kind DataKind, required bool) *ObjectDef {
	return o.AddFieldWithOptions(name, kind, required, nil)
}

// AddFieldWithOptions declares a leaf field with type-specific options.
func (o *ObjectDef) AddFieldWithOptions(name string, kind DataKind, required bool, options map[string]string) *ObjectDef {
	if err := validName(name); err != nil {
		panic(fmt.Errorf("invalid field name: %w", err))
	}
	if kind <= DataKind_null || kind >= DataKind_Count {
		panic(fmt.Errorf("field «%s» data kind is unknown: %w", name, ErrInvalidDataKind))
	}
	o.checkNameFree(name)
	f := newFieldDef(name, childPath(o, name), kind, required, options)
	o.fields[name] = f
	o.fieldsOrdered = append(o.fieldsOrdered, name)
	return o
}

// AddObject declares a child object definition and returns it, so nested
// structure is declared by chaining on the returned child.
//
// # Panics:
//   - if name is empty, reserved or already used by a sibling
func (o *ObjectDef) AddObject(name string, kind ObjectKind) *ObjectDef {
	if err := validName(name); err != nil {
		panic(fmt.Errorf("invalid object name: %w", err))
	}
	o.checkNameFree(name)
	child := newObjectDef(name, childPath(o, name), kind)
	o.children[name] = child
	o.childrenOrdered = append(o.childrenOrdered, name)
	return child
}

func (o *ObjectDef) checkNameFree(name string) {
	if _, ok := o.fields[name]; ok {
		panic(fmt.Errorf("field «%s» already declared in «%s», full path «%s»: %w", name, o.name, childPath(o, name), ErrNameUniqueViolation))
	}
	if _, ok := o.children[name]; ok {
		panic(fmt.Errorf("object «%s» already declared in «%s», full path «%s»: %w", name, o.name, childPath(o, name), ErrNameUniqueViolation))
	}
}

// Field returns the child field definition by name, nil if absent.
func (o *ObjectDef) Field(name string) *FieldDef { return o.fields[name] }

// Child returns the child object definition by name, nil if absent.
func (o *ObjectDef) Child(name string) *ObjectDef { return o.children[name] }

// Fields enumerates child field definitions in declaration order.
func (o *ObjectDef) Fields(cb func(*FieldDef)) {
	for _, n := range o.fieldsOrdered {
		cb(o.fields[n])
	}
}

// Children enumerates child object definitions in declaration order.
func (o *ObjectDef) Children(cb func(*ObjectDef)) {
	for _, n := range o.childrenOrdered {
		cb(o.children[n])
	}
}

// clone deep-copies the object definition and everything below it.
func (o *ObjectDef) clone() *ObjectDef {
	c := newObjectDef(o.name, o.path, o.kind)
	c.fieldsOrdered = append(c.fieldsOrdered, o.fieldsOrdered...)
	for n, f := range o.fields {
		c.fields[n] = f.clone()
	}
	c.childrenOrdered = append(c.childrenOrdered, o.childrenOrdered...)
	for n, ch := range o.children {
		c.children[n] = ch.clone()
	}
	return c
}

func (o *ObjectDef) String() string {
	if o.path == "" {
		return fmt.Sprintf("root object «%s»", o.name)
	}
	return fmt.Sprintf("%s «%s»", o.kind, o.path)
}
