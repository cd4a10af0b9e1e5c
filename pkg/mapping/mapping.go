/*
 * Copyright (c) 2024-present DocMesh, Ltd.
 */

package mapping

// Mapping is the authoritative schema of one document type: the root object
// definition tree, the fixed metadata field set, the ordered source
// transforms and the owner-supplied meta map. Immutable once built; evolved
// only by merge, which produces a fresh Mapping.
type Mapping struct {
	docType     string
	version     FormatVersion
	root        *ObjectDef
	metaFields  map[MetaFieldKind]*MetaFieldDef
	metaOrdered []MetaFieldKind
	transforms  []SourceTransform
	meta        map[string]any
}

func (m *Mapping) DocType() string { return m.docType }

// Version returns the schema-format version fixed at index creation.
func (m *Mapping) Version() FormatVersion { return m.version }

// Root returns the root object definition.
func (m *Mapping) Root() *ObjectDef { return m.root }

// MetaField returns the metadata field definition of the given kind, nil if
// the mapping does not carry it (partial mappings may carry none).
func (m *Mapping) MetaField(kind MetaFieldKind) *MetaFieldDef {
	return m.metaFields[kind]
}

// MetaFields enumerates metadata field definitions in canonical order.
func (m *Mapping) MetaFields(cb func(*MetaFieldDef)) {
	for _, k := range m.metaOrdered {
		cb(m.metaFields[k])
	}
}

// Transforms returns the ordered source transforms. The returned slice is
// shared; callers must not modify it.
func (m *Mapping) Transforms() []SourceTransform { return m.transforms }

// Meta returns the opaque owner-supplied metadata map. The returned map is
// shared; callers must not modify it.
func (m *Mapping) Meta() map[string]any { return m.meta }
