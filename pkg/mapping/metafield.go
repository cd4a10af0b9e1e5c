/*
 * Copyright (c) 2024-present DocMesh, Ltd.
 */

package mapping

import (
	"fmt"
)

// MetaFieldDef is a singleton metadata field definition, identified by its
// stable kind tag rather than by name. Exactly one instance per kind exists
// in a built Mapping.
type MetaFieldDef struct {
	FieldDef
	metaKind  MetaFieldKind
	active    bool
	mandatory bool
}

// NewMetaFieldDef returns a metadata field definition of the given kind.
//
// # Panics:
//   - if kind is unknown
//   - if dataKind is not a valid data kind
func NewMetaFieldDef(kind MetaFieldKind, dataKind DataKind, active bool) *MetaFieldDef {
	return NewMetaFieldDefWithOptions(kind, dataKind, active, nil)
}

// NewMetaFieldDefWithOptions is NewMetaFieldDef with type-specific options,
// e.g. the source-storage policy of the _source field.
func NewMetaFieldDefWithOptions(kind MetaFieldKind, dataKind DataKind, active bool, options map[string]string) *MetaFieldDef {
	if kind <= MetaFieldKind_null || kind >= MetaFieldKind_Count {
		panic(fmt.Errorf("metadata field kind %d: %w", kind, ErrUnknownMetaFieldKind))
	}
	if dataKind <= DataKind_null || dataKind >= DataKind_Count {
		panic(fmt.Errorf("metadata field «%s» data kind is unknown: %w", kind.FieldName(), ErrInvalidDataKind))
	}
	name := kind.FieldName()
	return &MetaFieldDef{
		FieldDef: *newFieldDef(name, name, dataKind, false, options),
		metaKind: kind,
		active:   active,
	}
}

func (m *MetaFieldDef) Kind() MetaFieldKind { return m.metaKind }

// Active reports whether the metadata field participates in indexing. Most
// kinds are always active; _parent and _ttl are active only when enabled by
// the schema owner.
func (m *MetaFieldDef) Active() bool { return m.active }

// Mandatory reports whether every parsed document must supply a value for
// this field. Set once at construction; in particular the routing field is
// marked mandatory when the parent field is active.
func (m *MetaFieldDef) Mandatory() bool { return m.mandatory }

func (m *MetaFieldDef) markMandatory() { m.mandatory = true }

func (m *MetaFieldDef) clone() *MetaFieldDef {
	c := *m
	c.FieldDef = *m.FieldDef.clone()
	return &c
}

// defaultMetaFields returns the default metadata field set, one instance per
// known kind, in canonical order. _parent and _ttl start inactive.
func defaultMetaFields() []*MetaFieldDef {
	return []*MetaFieldDef{
		NewMetaFieldDef(MetaFieldKind_Id, DataKind_Keyword, true),
		NewMetaFieldDef(MetaFieldKind_Uid, DataKind_Keyword, true),
		NewMetaFieldDef(MetaFieldKind_Type, DataKind_Keyword, true),
		NewMetaFieldDef(MetaFieldKind_Source, DataKind_Binary, true),
		NewMetaFieldDef(MetaFieldKind_All, DataKind_Text, true),
		NewMetaFieldDef(MetaFieldKind_Routing, DataKind_Keyword, true),
		NewMetaFieldDef(MetaFieldKind_Parent, DataKind_Keyword, false),
		NewMetaFieldDef(MetaFieldKind_Timestamp, DataKind_Date, false),
		NewMetaFieldDef(MetaFieldKind_TTL, DataKind_Int64, false),
		NewMetaFieldDef(MetaFieldKind_Index, DataKind_Keyword, true),
	}
}
