/*
 * Copyright (c) 2024-present DocMesh, Ltd.
 */

package mapping

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/untillpro/goutils/logger"
)

// Snapshot is one consistent (mapping, flattened indexes, cached canonical
// source) triple. A reader holding a Snapshot keeps a single schema
// generation for its whole operation, even if a merge commits concurrently.
type Snapshot struct {
	mapping *Mapping
	indexes *Indexes
	source  CompressedSource
}

func (s *Snapshot) Mapping() *Mapping { return s.mapping }

func (s *Snapshot) Indexes() *Indexes { return s.indexes }

// Source returns the cached canonical serialization of the mapping.
func (s *Snapshot) Source() CompressedSource { return s.source }

// DocumentMapper is the concurrency-safe schema handle for one document
// type: it owns the live Snapshot and replaces it atomically under an
// exclusive lock on merge. Readers either load the Snapshot directly or run
// under the shared lock for multi-step operations (document parse).
type DocumentMapper struct {
	docType  string
	registry IMapperRegistry
	parser   IDocumentParser
	lock     sync.RWMutex
	snap     atomic.Pointer[Snapshot]
}

// NewDocumentMapper wraps a built Mapping. parser may be nil for handles
// used for introspection only.
func NewDocumentMapper(m *Mapping, registry IMapperRegistry, parser IDocumentParser) (*DocumentMapper, error) {
	idx, err := buildIndexes(m)
	if err != nil {
		return nil, err
	}
	data, err := m.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("type «%s»: %v: %w", m.docType, err, ErrSerializeFailed)
	}
	dm := &DocumentMapper{
		docType:  m.docType,
		registry: registry,
		parser:   parser,
	}
	dm.snap.Store(&Snapshot{mapping: m, indexes: idx, source: compressSource(data)})
	return dm, nil
}

func (h *DocumentMapper) DocType() string { return h.docType }

// Snapshot returns the current consistent schema snapshot.
func (h *DocumentMapper) Snapshot() *Snapshot { return h.snap.Load() }

func (h *DocumentMapper) Mapping() *Mapping { return h.snap.Load().mapping }

func (h *DocumentMapper) Root() *ObjectDef { return h.Mapping().root }

func (h *DocumentMapper) Meta() map[string]any { return h.Mapping().meta }

// Indexes returns the current flattened field and object indexes.
func (h *DocumentMapper) Indexes() *Indexes { return h.snap.Load().indexes }

// Field returns the field definition at the given full path in the current
// snapshot, nil if absent.
func (h *DocumentMapper) Field(path string) *FieldDef { return h.Indexes().Field(path) }

// Object returns the object definition at the given full path in the
// current snapshot, nil if absent.
func (h *DocumentMapper) Object(path string) *ObjectDef { return h.Indexes().Object(path) }

func (h *DocumentMapper) HasNestedObjects() bool { return h.Indexes().HasNested() }

// MappingSource returns the cached canonical serialization, refreshed on
// every successful non-simulated merge.
func (h *DocumentMapper) MappingSource() CompressedSource { return h.snap.Load().source }

// MetaField returns the metadata field definition of the given kind.
func (h *DocumentMapper) MetaField(kind MetaFieldKind) *MetaFieldDef {
	return h.Mapping().MetaField(kind)
}

func (h *DocumentMapper) IdField() *MetaFieldDef { return h.MetaField(MetaFieldKind_Id) }

func (h *DocumentMapper) UidField() *MetaFieldDef { return h.MetaField(MetaFieldKind_Uid) }

func (h *DocumentMapper) TypeField() *MetaFieldDef { return h.MetaField(MetaFieldKind_Type) }

func (h *DocumentMapper) SourceField() *MetaFieldDef { return h.MetaField(MetaFieldKind_Source) }

func (h *DocumentMapper) AllField() *MetaFieldDef { return h.MetaField(MetaFieldKind_All) }

func (h *DocumentMapper) RoutingField() *MetaFieldDef { return h.MetaField(MetaFieldKind_Routing) }

func (h *DocumentMapper) ParentField() *MetaFieldDef { return h.MetaField(MetaFieldKind_Parent) }

func (h *DocumentMapper) TimestampField() *MetaFieldDef { return h.MetaField(MetaFieldKind_Timestamp) }

func (h *DocumentMapper) TTLField() *MetaFieldDef { return h.MetaField(MetaFieldKind_TTL) }

func (h *DocumentMapper) IndexField() *MetaFieldDef { return h.MetaField(MetaFieldKind_Index) }

// Merge reconciles an incoming partial mapping into the live one.
//
// All-or-nothing: if the result carries conflicts, or simulate is true, or
// the registry rejects the new definitions, nothing is committed and the
// live snapshot is untouched. On commit the (mapping, indexes, source)
// triple is replaced as one atomic update.
//
// A failure to refresh the canonical source does not roll the commit back:
// the merged mapping is live, the stale source stays cached, and the error
// tells the caller to retry via RefreshSource.
func (h *DocumentMapper) Merge(incoming *Mapping, simulate, allowTypeWidening bool) (*MergeResult, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	cur := h.snap.Load()
	merged, res := cur.mapping.merge(incoming)
	if res.HasConflicts() || simulate {
		return res, nil
	}

	if err := h.registry.ValidateNewMappers(res.newObjects, res.newFields, allowTypeWidening); err != nil {
		return res, fmt.Errorf("type «%s»: %v: %w", h.docType, err, ErrMergeRejected)
	}
	idx, err := buildIndexes(merged)
	if err != nil {
		return res, err
	}

	next := &Snapshot{mapping: merged, indexes: idx}
	data, serr := merged.MarshalJSON()
	if serr == nil {
		next.source = compressSource(data)
	} else {
		next.source = cur.source
	}
	h.registry.AddMappers(res.newObjects, res.newFields)
	h.snap.Store(next)

	if serr != nil {
		logger.Error("mapping source refresh failed for type", h.docType, ":", serr.Error())
		return res, fmt.Errorf("type «%s»: %v: %w", h.docType, serr, ErrSerializeFailed)
	}
	return res, nil
}

// RefreshSource rebuilds the cached canonical serialization of the live
// mapping. Needed only after Merge reported ErrSerializeFailed.
func (h *DocumentMapper) RefreshSource() error {
	h.lock.Lock()
	defer h.lock.Unlock()

	cur := h.snap.Load()
	data, err := cur.mapping.MarshalJSON()
	if err != nil {
		return fmt.Errorf("type «%s»: %v: %w", h.docType, err, ErrSerializeFailed)
	}
	h.snap.Store(&Snapshot{mapping: cur.mapping, indexes: cur.indexes, source: compressSource(data)})
	return nil
}

// Parse turns raw source bytes into a structured document under a shared
// read scope, so the whole parse sees one schema generation. A document
// without an id gets a generated one.
func (h *DocumentMapper) Parse(source []byte) (*ParsedDocument, error) {
	if h.parser == nil {
		return nil, fmt.Errorf("type «%s»: %w", h.docType, ErrNoParser)
	}
	h.lock.RLock()
	defer h.lock.RUnlock()

	doc, err := h.parser.ParseDocument(h.snap.Load(), source)
	if err != nil {
		return nil, err
	}
	if doc.Id == "" {
		doc.Id = uuid.NewString()
	}
	return doc, nil
}

// TransformSourceAsMap runs the mapping's ordered source transforms over a
// document's field map.
func (h *DocumentMapper) TransformSourceAsMap(source *SourceMap) (*SourceMap, error) {
	return transformSourceAsMap(h.Mapping().transforms, source)
}

// Close releases parser-side resources.
func (h *DocumentMapper) Close() {
	if h.parser != nil {
		h.parser.Close()
	}
}
