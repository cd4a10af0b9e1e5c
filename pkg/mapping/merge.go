/*
 * Copyright (c) 2024-present DocMesh, Ltd.
 */

package mapping

import (
	"fmt"

	"github.com/untillpro/goutils/logger"
)

// MergeResult is the outcome of reconciling an incoming partial mapping
// into a live one: the ordered conflicts (possibly empty) plus the object
// and field definitions the merge would introduce. Conflicts are data, not
// errors, so callers can probe mergeability without exception handling.
type MergeResult struct {
	conflicts  []string
	newObjects []*ObjectDef
	newFields  []*FieldDef
}

func (r *MergeResult) HasConflicts() bool { return len(r.conflicts) > 0 }

// Conflicts returns the detected incompatibilities in walk order.
func (r *MergeResult) Conflicts() []string {
	return append([]string(nil), r.conflicts...)
}

// NewObjects returns the object definitions the merge introduces, pointers
// into the merged tree.
func (r *MergeResult) NewObjects() []*ObjectDef { return r.newObjects }

// NewFields returns the field definitions the merge introduces.
func (r *MergeResult) NewFields() []*FieldDef { return r.newFields }

func (r *MergeResult) addConflict(msg string, args ...any) {
	r.conflicts = append(r.conflicts, fmt.Sprintf(msg, args...))
}

// merge reconciles incoming into m and returns the merged mapping plus the
// result. Purely functional: the merged tree is cloned node by node, m and
// incoming are never written to, so a simulated or conflicting merge cannot
// leave any trace in either tree even if they share substructure.
func (m *Mapping) merge(incoming *Mapping) (*Mapping, *MergeResult) {
	res := &MergeResult{}
	merged := &Mapping{
		docType:     m.docType,
		version:     m.version,
		root:        m.root.clone(),
		metaFields:  make(map[MetaFieldKind]*MetaFieldDef, len(m.metaFields)),
		metaOrdered: append([]MetaFieldKind(nil), m.metaOrdered...),
		transforms:  m.transforms,
		meta:        m.meta,
	}
	for k, mf := range m.metaFields {
		merged.metaFields[k] = mf.clone()
	}

	mergeObjects(merged.root, incoming.root, res)

	for _, k := range incoming.metaOrdered {
		inc := incoming.metaFields[k]
		live, ok := m.metaFields[k]
		if !ok {
			// metadata fields are fixed at construction time
			res.addConflict("metadata field [%s] cannot be added to an existing mapping", k.FieldName())
			continue
		}
		live.checkCompatible(&inc.FieldDef, res)
		if live.Active() != inc.Active() {
			res.addConflict("metadata field [%s] has different [active] values", k.FieldName())
		}
	}

	if len(incoming.transforms) > 0 {
		res.addConflict("source transforms cannot be updated on an existing mapping")
	}
	if incoming.meta != nil {
		merged.meta = incoming.meta
	}

	if logger.IsVerbose() {
		logger.Verbose(fmt.Sprintf("merge of «%s»: %d conflicts, %d new objects, %d new fields",
			m.docType, len(res.conflicts), len(res.newObjects), len(res.newFields)))
	}
	return merged, res
}

// mergeObjects folds the children of inc into merged, which is a private
// clone of the live object. New definitions are cloned in; definitions
// present on both sides are checked for compatibility only.
func mergeObjects(merged, inc *ObjectDef, res *MergeResult) {
	for _, n := range inc.fieldsOrdered {
		incField := inc.fields[n]
		if liveField, ok := merged.fields[n]; ok {
			liveField.checkCompatible(incField, res)
			continue
		}
		if _, ok := merged.children[n]; ok {
			res.addConflict("can't merge a non object mapping [%s] with an object mapping [%s]", incField.path, incField.path)
			continue
		}
		added := incField.clone()
		merged.fields[n] = added
		merged.fieldsOrdered = append(merged.fieldsOrdered, n)
		res.newFields = append(res.newFields, added)
	}
	for _, n := range inc.childrenOrdered {
		incChild := inc.children[n]
		if _, ok := merged.fields[n]; ok {
			res.addConflict("can't merge an object mapping [%s] with a non object mapping [%s]", incChild.path, incChild.path)
			continue
		}
		if liveChild, ok := merged.children[n]; ok {
			if liveChild.kind != incChild.kind {
				res.addConflict("object mapping [%s] can't be changed from %s to %s", liveChild.path, liveChild.kind, incChild.kind)
				continue
			}
			mergeObjects(liveChild, incChild, res)
			continue
		}
		added := incChild.clone()
		merged.children[n] = added
		merged.childrenOrdered = append(merged.childrenOrdered, n)
		collectNew(added, res)
	}
}

// collectNew records a freshly-added subtree: the object itself plus every
// definition below it, in walk order.
func collectNew(o *ObjectDef, res *MergeResult) {
	res.newObjects = append(res.newObjects, o)
	for _, n := range o.fieldsOrdered {
		res.newFields = append(res.newFields, o.fields[n])
	}
	for _, n := range o.childrenOrdered {
		collectNew(o.children[n], res)
	}
}
