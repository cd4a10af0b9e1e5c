/*
 * Copyright (c) 2024-present DocMesh, Ltd.
 */

package mapping

import (
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

// overwriteIfSet rewrites v only when an earlier transform already set it,
// making the chain order observable.
type overwriteIfSet struct {
	field string
	value any
}

func (t *overwriteIfSet) Transform(source *SourceMap) (*SourceMap, error) {
	if source.Has(t.field) {
		source.Put(t.field, t.value)
	}
	return source, nil
}

func (t *overwriteIfSet) MarshalConfig() (json.RawMessage, error) { return json.RawMessage(`{}`), nil }

func Test_TransformPipeline_Order(t *testing.T) {
	require := require.New(t)

	t.Run("independent transforms apply in registration order", func(t *testing.T) {
		b := NewBuilder("tweet", NullRegistry{}).
			Transform(NewSetTransform("x", 1)).
			Transform(NewSetTransform("y", 2))
		m, err := b.Build()
		require.NoError(err)
		dm, err := NewDocumentMapper(m, NullRegistry{}, nil)
		require.NoError(err)

		out, err := dm.TransformSourceAsMap(NewSourceMap())
		require.NoError(err)
		require.Equal([]string{"x", "y"}, out.Keys())
		v, _ := out.Value("x")
		require.Equal(1, v)
	})

	t.Run("order-dependent transforms prove sequential application", func(t *testing.T) {
		build := func(ts ...SourceTransform) *DocumentMapper {
			b := NewBuilder("tweet", NullRegistry{})
			for _, tr := range ts {
				b.Transform(tr)
			}
			m, err := b.Build()
			require.NoError(err)
			dm, err := NewDocumentMapper(m, NullRegistry{}, nil)
			require.NoError(err)
			return dm
		}

		set := NewSetTransform("v", 1)
		overwrite := &overwriteIfSet{field: "v", value: 2}

		out, err := build(set, overwrite).TransformSourceAsMap(NewSourceMap())
		require.NoError(err)
		v, _ := out.Value("v")
		require.Equal(2, v, "overwrite runs after set, sees v, rewrites it")

		out, err = build(overwrite, set).TransformSourceAsMap(NewSourceMap())
		require.NoError(err)
		v, _ = out.Value("v")
		require.Equal(1, v, "overwrite runs first, sees nothing, set wins")
	})
}

func Test_ScriptTransform(t *testing.T) {
	require := require.New(t)

	scripts := NewNativeScripts(4)
	scripts.Register("stamp", func() NativeScript {
		return func(vars map[string]any) (map[string]any, error) {
			src := vars[ScriptSourceBinding].(*SourceMap)
			src.Put("stamped", true)
			if params, ok := vars["params"].(map[string]any); ok {
				src.Put("by", params["by"])
			}
			return vars, nil
		}
	})
	scripts.Register("boom", func() NativeScript {
		return func(vars map[string]any) (map[string]any, error) {
			return nil, errors.New("script blew up")
		}
	})
	scripts.Register("dropper", func() NativeScript {
		return func(vars map[string]any) (map[string]any, error) {
			delete(vars, ScriptSourceBinding)
			return vars, nil
		}
	})

	t.Run("script rewrites the bound source", func(t *testing.T) {
		tr := NewScriptTransform(scripts, Script{Name: "stamp", Params: map[string]any{"by": "indexer"}})
		out, err := tr.Transform(NewSourceMap().Put("msg", "hi"))
		require.NoError(err)
		v, _ := out.Value("stamped")
		require.Equal(true, v)
		v, _ = out.Value("by")
		require.Equal("indexer", v)
	})

	t.Run("script fault aborts the pipeline with no partial map", func(t *testing.T) {
		transforms := []SourceTransform{
			NewSetTransform("x", 1),
			NewScriptTransform(scripts, Script{Name: "boom"}),
			NewSetTransform("y", 2),
		}
		out, err := transformSourceAsMap(transforms, NewSourceMap())
		require.Nil(out)
		require.ErrorIs(err, ErrTransformFailed)
		require.ErrorContains(err, "script blew up")
	})

	t.Run("script dropping the binding is a fault", func(t *testing.T) {
		tr := NewScriptTransform(scripts, Script{Name: "dropper"})
		_, err := tr.Transform(NewSourceMap())
		require.ErrorIs(err, ErrTransformFailed)
	})

	t.Run("unknown script", func(t *testing.T) {
		tr := NewScriptTransform(scripts, Script{Name: "ghost"})
		_, err := tr.Transform(NewSourceMap())
		require.ErrorIs(err, ErrTransformFailed)
	})

	t.Run("config serialization", func(t *testing.T) {
		tr := NewScriptTransform(scripts, Script{Name: "stamp", Lang: "native"})
		cfg, err := tr.MarshalConfig()
		require.NoError(err)
		require.JSONEq(`{"script":"stamp","lang":"native"}`, string(cfg))
	})
}

func Test_NativeScripts(t *testing.T) {
	require := require.New(t)

	t.Run("compiled scripts are reused", func(t *testing.T) {
		scripts := NewNativeScripts(4)
		compiles := 0
		scripts.Register("once", func() NativeScript {
			compiles++
			return func(vars map[string]any) (map[string]any, error) { return vars, nil }
		})
		for i := 0; i < 5; i++ {
			_, err := scripts.Execute(Script{Name: "once"}, map[string]any{})
			require.NoError(err)
		}
		require.Equal(1, compiles)
	})

	t.Run("unknown script name", func(t *testing.T) {
		scripts := NewNativeScripts(4)
		_, err := scripts.Execute(Script{Name: "nope"}, map[string]any{})
		require.ErrorIs(err, ErrScriptNotFound)
	})

	t.Run("duplicate registration panics", func(t *testing.T) {
		scripts := NewNativeScripts(4)
		scripts.Register("twice", func() NativeScript { return nil })
		require.Panics(func() { scripts.Register("twice", func() NativeScript { return nil }) })
	})

	t.Run("non-positive cache size panics", func(t *testing.T) {
		require.Panics(func() { NewNativeScripts(0) })
	})
}
