/*
 * Copyright (c) 2024-present DocMesh, Ltd.
 */

// Package mapping is the schema engine of a document node: it owns the
// typed field and object definitions of one document type within an index,
// folds newly discovered fields into the live schema through an
// all-or-nothing merge, and serves consistent flattened snapshots to
// concurrent readers.
//
// The package deliberately stops at narrow collaborator interfaces for
// payload parsing, index-wide compatibility policy, script execution and
// reader-side nested membership queries; see interface.go.
package mapping
