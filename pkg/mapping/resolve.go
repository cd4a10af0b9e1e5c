/*
 * Copyright (c) 2024-present DocMesh, Ltd.
 */

package mapping

import (
	"strings"
)

// FindNestedObjectMapper returns the most specific nested object definition
// whose document set, as answered by the reader scope, contains docId. Nil
// if no nested object matches or the mapping has no nested objects at all.
//
// Among multiple matches the object with the longest full path wins: child
// object paths are strict dot extensions of their ancestors, so the longest
// path is the most deeply nested scope. Equal lengths cannot both match
// since paths are unique.
func (h *DocumentMapper) FindNestedObjectMapper(docId int, scope INestedScope) (*ObjectDef, error) {
	idx := h.snap.Load().indexes
	if !idx.HasNested() {
		return nil, nil
	}
	var best *ObjectDef
	for _, p := range idx.objectsOrdered {
		o := idx.objects[p]
		if !o.IsNested() {
			continue
		}
		ok, err := scope.Matches(o.NestedTypeFilter(), docId)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if best == nil || len(best.path) < len(o.path) {
			best = o
		}
	}
	return best, nil
}

// FindParentObjectMapper returns the object definition enclosing the given
// one, nil if the object is top-level or its parent path is not indexed.
func (h *DocumentMapper) FindParentObjectMapper(o *ObjectDef) *ObjectDef {
	i := strings.LastIndexByte(o.Path(), '.')
	if i < 0 {
		return nil
	}
	return h.snap.Load().indexes.Object(o.Path()[:i])
}
