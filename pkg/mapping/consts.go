/*
 * Copyright (c) 2024-present DocMesh, Ltd.
 */

package mapping

// MetaFieldKind enumerates the fixed set of metadata fields every document
// type carries. Exactly one metadata field definition exists per kind.
type MetaFieldKind uint8

const (
	MetaFieldKind_null MetaFieldKind = iota

	MetaFieldKind_Id
	MetaFieldKind_Uid
	MetaFieldKind_Type
	MetaFieldKind_Source
	MetaFieldKind_All
	MetaFieldKind_Routing
	MetaFieldKind_Parent
	MetaFieldKind_Timestamp
	MetaFieldKind_TTL
	MetaFieldKind_Index

	MetaFieldKind_Count
)

var metaFieldNames = map[MetaFieldKind]string{
	MetaFieldKind_Id:        "_id",
	MetaFieldKind_Uid:       "_uid",
	MetaFieldKind_Type:      "_type",
	MetaFieldKind_Source:    "_source",
	MetaFieldKind_All:       "_all",
	MetaFieldKind_Routing:   "_routing",
	MetaFieldKind_Parent:    "_parent",
	MetaFieldKind_Timestamp: "_timestamp",
	MetaFieldKind_TTL:       "_ttl",
	MetaFieldKind_Index:     "_index",
}

// FieldName returns the canonical underscore-prefixed name of the metadata
// field, e.g. "_routing". Returns empty string for unknown kinds.
func (k MetaFieldKind) FieldName() string {
	return metaFieldNames[k]
}

func (k MetaFieldKind) String() string {
	if n, ok := metaFieldNames[k]; ok {
		return n
	}
	return "MetaFieldKind_null"
}

// MetaFieldKindByName returns the kind for a canonical metadata field name,
// MetaFieldKind_null if the name is not a known metadata field.
func MetaFieldKindByName(name string) MetaFieldKind {
	for k, n := range metaFieldNames {
		if n == name {
			return k
		}
	}
	return MetaFieldKind_null
}

// DataKind is the semantic type of a leaf field definition. The concrete
// behavior of each type (analysis, doc values, …) lives with the index
// writer; the mapping core only tags and compares.
type DataKind uint8

const (
	DataKind_null DataKind = iota

	DataKind_Text
	DataKind_Keyword
	DataKind_Int64
	DataKind_Float64
	DataKind_Bool
	DataKind_Date
	DataKind_GeoPoint
	DataKind_Binary

	DataKind_Count
)

var dataKindNames = map[DataKind]string{
	DataKind_Text:     "text",
	DataKind_Keyword:  "keyword",
	DataKind_Int64:    "int64",
	DataKind_Float64:  "float64",
	DataKind_Bool:     "bool",
	DataKind_Date:     "date",
	DataKind_GeoPoint: "geo_point",
	DataKind_Binary:   "binary",
}

func (k DataKind) String() string {
	if n, ok := dataKindNames[k]; ok {
		return n
	}
	return "DataKind_null"
}

// DataKindByName returns the kind for its canonical name, DataKind_null if
// the name is unknown.
func DataKindByName(name string) DataKind {
	for k, n := range dataKindNames {
		if n == name {
			return k
		}
	}
	return DataKind_null
}

// ObjectKind is the nested classification of an object definition.
type ObjectKind uint8

const (
	// Plain object: children are indexed flattened into the parent document.
	ObjectKind_Object ObjectKind = iota

	// Nested object: instances are indexed as separately retrievable
	// sub-documents.
	ObjectKind_Nested
)

func (k ObjectKind) String() string {
	if k == ObjectKind_Nested {
		return "nested"
	}
	return "object"
}

// FormatVersion is the schema-format version fixed at index creation time.
type FormatVersion uint8

const (
	FormatVersion_null FormatVersion = iota
	FormatVersion_1

	FormatVersion_Latest = FormatVersion_1
)

// nestedFilterPrefix prefixes an object path to form its nested-type filter.
const nestedFilterPrefix = "__"
