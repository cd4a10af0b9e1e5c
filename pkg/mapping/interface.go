/*
 * Copyright (c) 2024-present DocMesh, Ltd.
 */

package mapping

// ParsedDocument is the result of parsing one raw document source against a
// mapping snapshot.
type ParsedDocument struct {
	// Document id; auto-generated when the source carries none.
	Id string

	// Routing key, empty unless the source (or parse defaults) supplied one.
	Routing string

	// The (possibly transformed) source bytes to be stored.
	Source []byte

	// Partial mapping describing fields the parse discovered that the
	// snapshot does not know. Nil when nothing new was seen. Folding it
	// into the live mapping is the caller's separate merge step.
	Update *Mapping
}

// IDocumentParser turns raw source bytes into a structured document, using
// one consistent mapping snapshot for the whole parse.
type IDocumentParser interface {
	ParseDocument(snap *Snapshot, source []byte) (*ParsedDocument, error)

	// Close releases parser-side resources.
	Close()
}

// IMapperRegistry is the index-wide registry owning cross-document-type
// compatibility policy within one index.
type IMapperRegistry interface {
	// DefaultMetaFields supplies the default metadata field instances, one
	// per kind, for a new document type.
	DefaultMetaFields(docType string) []*MetaFieldDef

	// ValidateNewMappers accepts or rejects a conflict-free merge's new
	// definitions against sibling document types sharing the index.
	ValidateNewMappers(objects []*ObjectDef, fields []*FieldDef, allowTypeWidening bool) error

	// AddMappers reports definitions committed to a document type so the
	// registry can maintain its index-wide view.
	AddMappers(objects []*ObjectDef, fields []*FieldDef)
}

// IScriptService executes a script over a variable binding and returns the
// (possibly mutated) bindings.
type IScriptService interface {
	Execute(script Script, vars map[string]any) (map[string]any, error)
}

// INestedScope is the per-segment reader query primitive: does a document
// id belong to the document set of a nested-type filter.
type INestedScope interface {
	Matches(nestedTypeFilter string, docId int) (bool, error)
}

// NullRegistry is a registry that supplies the default metadata set and
// accepts every merge. Used by tools and tests that run without an
// index-wide registry.
type NullRegistry struct{}

func (NullRegistry) DefaultMetaFields(string) []*MetaFieldDef { return defaultMetaFields() }

func (NullRegistry) ValidateNewMappers([]*ObjectDef, []*FieldDef, bool) error { return nil }

func (NullRegistry) AddMappers([]*ObjectDef, []*FieldDef) {}
