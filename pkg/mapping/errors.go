/*
 * Copyright (c) 2024-present DocMesh, Ltd.
 */

package mapping

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNameMissed = errors.New("name missed")

var ErrInvalidName = errors.New("name not valid")

var ErrNameUniqueViolation = errors.New("duplicate name")

var ErrPathUniqueViolation = errors.New("duplicate path")

var ErrUnknownMetaFieldKind = errors.New("unknown metadata field kind")

var ErrInvalidDataKind = errors.New("data kind not valid")

var ErrRoutingRequired = errors.New("routing metadata field required")

var ErrMergeRejected = errors.New("merge rejected by registry")

var ErrSerializeFailed = errors.New("mapping source serialization failed")

var ErrTransformFailed = errors.New("source transform failed")

var ErrScriptNotFound = errors.New("script not found")

var ErrNoParser = errors.New("no document parser attached")

// validName checks a field, object or document type name. Names are single
// path segments: non-empty, no dots, no spaces. Underscore-prefixed names
// are reserved for metadata fields.
func validName(name string) error {
	if name == "" {
		return ErrNameMissed
	}
	if strings.HasPrefix(name, "_") {
		return fmt.Errorf("name «%s» is reserved for metadata fields: %w", name, ErrInvalidName)
	}
	if strings.ContainsAny(name, ". \t\n") {
		return fmt.Errorf("name «%s» contains forbidden characters: %w", name, ErrInvalidName)
	}
	return nil
}
