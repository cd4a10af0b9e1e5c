/*
 * Copyright (c) 2024-present DocMesh, Ltd.
 */

package mapping

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/untillpro/goutils/logger"
)

// ScriptSourceBinding is the variable name the document source is exposed
// under to transform scripts, consistent with the update path.
const ScriptSourceBinding = "_source"

// SourceTransform is one ordered rewrite step applied to a document's field
// map before it is committed to its flattened form. Two capabilities:
// rewrite a map, and serialize its own configuration for persistence.
type SourceTransform interface {
	Transform(source *SourceMap) (*SourceMap, error)
	MarshalConfig() (json.RawMessage, error)
}

// Script references a registered script plus its parameters.
type Script struct {
	Name   string         `json:"script"`
	Lang   string         `json:"lang,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// ScriptTransform delegates the rewrite to a scripting collaborator: the
// source is bound under ScriptSourceBinding, the script runs, and the value
// left under the same binding is the rewritten source.
type ScriptTransform struct {
	scripts IScriptService
	script  Script
}

func NewScriptTransform(scripts IScriptService, script Script) *ScriptTransform {
	return &ScriptTransform{scripts: scripts, script: script}
}

func (t *ScriptTransform) Transform(source *SourceMap) (*SourceMap, error) {
	vars := map[string]any{ScriptSourceBinding: source}
	out, err := t.scripts.Execute(t.script, vars)
	if err != nil {
		return nil, fmt.Errorf("script «%s»: %v: %w", t.script.Name, err, ErrTransformFailed)
	}
	res, ok := out[ScriptSourceBinding].(*SourceMap)
	if !ok {
		return nil, fmt.Errorf("script «%s» dropped the %s binding: %w", t.script.Name, ScriptSourceBinding, ErrTransformFailed)
	}
	return res, nil
}

func (t *ScriptTransform) MarshalConfig() (json.RawMessage, error) {
	return json.Marshal(t.script)
}

// SetTransform is the built-in transform variant: it sets one field to a
// constant value.
type SetTransform struct {
	field string
	value any
}

func NewSetTransform(field string, value any) *SetTransform {
	return &SetTransform{field: field, value: value}
}

func (t *SetTransform) Transform(source *SourceMap) (*SourceMap, error) {
	source.Put(t.field, t.value)
	return source, nil
}

func (t *SetTransform) MarshalConfig() (json.RawMessage, error) {
	return json.Marshal(map[string]any{
		"set": map[string]any{"field": t.field, "value": t.value},
	})
}

// transformSourceAsMap runs the ordered transform chain: the output of step
// i is the input of step i+1. A failing step aborts the chain; no partial
// map is returned.
func transformSourceAsMap(transforms []SourceTransform, source *SourceMap) (*SourceMap, error) {
	for i, t := range transforms {
		out, err := t.Transform(source)
		if err != nil {
			return nil, fmt.Errorf("source transform #%d: %w", i, err)
		}
		if logger.IsVerbose() {
			logger.Verbose(fmt.Sprintf("source transform #%d applied, %d fields", i, out.Len()))
		}
		source = out
	}
	return source, nil
}
