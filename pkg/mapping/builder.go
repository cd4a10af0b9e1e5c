/*
 * Copyright (c) 2024-present DocMesh, Ltd.
 */

package mapping

import (
	"errors"
	"fmt"
)

// Builder assembles a Mapping: root tree, metadata field set, source
// transforms and owner meta map. A builder constructed with a registry
// starts from the registry-supplied metadata defaults; a builder without a
// registry starts empty and is the way partial mappings for merge are made.
type Builder struct {
	docType     string
	version     FormatVersion
	root        *ObjectDef
	metaFields  map[MetaFieldKind]*MetaFieldDef
	metaOrdered []MetaFieldKind
	transforms  []SourceTransform
	meta        map[string]any
}

// NewBuilder returns a mapping builder for the given document type.
// registry may be nil, in which case no metadata defaults are installed.
//
// # Panics:
//   - if docType is empty
func NewBuilder(docType string, registry IMapperRegistry) *Builder {
	if docType == "" {
		panic(fmt.Errorf("document type: %w", ErrNameMissed))
	}
	b := &Builder{
		docType:    docType,
		root:       newRootObject(docType),
		metaFields: make(map[MetaFieldKind]*MetaFieldDef),
	}
	if registry != nil {
		for _, mf := range registry.DefaultMetaFields(docType) {
			b.putMetaField(mf)
		}
	}
	return b
}

// Version fixes the schema-format version. Defaults to FormatVersion_Latest.
func (b *Builder) Version(v FormatVersion) *Builder {
	b.version = v
	return b
}

// Root returns the root object definition to declare fields and objects on.
func (b *Builder) Root() *ObjectDef { return b.root }

// PutMetaField installs or overrides the metadata field of mf's kind.
//
// # Panics:
//   - if mf is of unknown kind
func (b *Builder) PutMetaField(mf *MetaFieldDef) *Builder {
	b.putMetaField(mf)
	return b
}

func (b *Builder) putMetaField(mf *MetaFieldDef) {
	k := mf.Kind()
	if k <= MetaFieldKind_null || k >= MetaFieldKind_Count {
		panic(fmt.Errorf("metadata field kind %d: %w", k, ErrUnknownMetaFieldKind))
	}
	if _, ok := b.metaFields[k]; !ok {
		b.metaOrdered = append(b.metaOrdered, k)
	}
	b.metaFields[k] = mf
}

// Transform appends a source transform to the pipeline.
func (b *Builder) Transform(t SourceTransform) *Builder {
	b.transforms = append(b.transforms, t)
	return b
}

// Meta sets the opaque owner-supplied metadata map.
func (b *Builder) Meta(meta map[string]any) *Builder {
	b.meta = meta
	return b
}

// Build constructs the immutable Mapping. The builder stays usable; the
// result shares no mutable state with it.
//
// Construction enforces the schema invariants: one metadata field per kind
// (guaranteed by the kind-keyed set), unique full paths, and the
// parent-requires-routing rule — if the parent metadata field is active the
// routing metadata field is marked mandatory here, once, not per document.
func (b *Builder) Build() (*Mapping, error) {
	m := &Mapping{
		docType:     b.docType,
		version:     b.version,
		root:        b.root.clone(),
		metaFields:  make(map[MetaFieldKind]*MetaFieldDef, len(b.metaFields)),
		metaOrdered: append([]MetaFieldKind(nil), b.metaOrdered...),
		transforms:  append([]SourceTransform(nil), b.transforms...),
		meta:        b.meta,
	}
	if m.version == FormatVersion_null {
		m.version = FormatVersion_Latest
	}
	for k, mf := range b.metaFields {
		m.metaFields[k] = mf.clone()
	}

	var errs error
	if parent := m.metaFields[MetaFieldKind_Parent]; parent != nil && parent.Active() {
		routing := m.metaFields[MetaFieldKind_Routing]
		if routing == nil {
			errs = errors.Join(errs, fmt.Errorf("parent metadata field is active: %w", ErrRoutingRequired))
		} else {
			routing.markMandatory()
		}
	}
	if _, err := buildIndexes(m); err != nil {
		errs = errors.Join(errs, err)
	}
	if errs != nil {
		return nil, errs
	}
	return m, nil
}
