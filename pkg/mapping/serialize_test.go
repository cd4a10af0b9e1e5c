/*
 * Copyright (c) 2024-present DocMesh, Ltd.
 */

package mapping

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Mapping_RoundTrip(t *testing.T) {
	require := require.New(t)

	b := NewBuilder("tweet", NullRegistry{})
	b.PutMetaField(NewMetaFieldDefWithOptions(MetaFieldKind_Source, DataKind_Binary, true, map[string]string{"compress": "true"}))
	b.Root().
		AddField("msg", DataKind_Text, true).
		AddFieldWithOptions("lang", DataKind_Keyword, false, map[string]string{"normalizer": "lowercase"})
	b.Root().AddObject("user", ObjectKind_Nested).
		AddField("name", DataKind_Text, false).
		AddObject("address", ObjectKind_Object).
		AddField("city", DataKind_Keyword, false)
	b.Meta(map[string]any{"owner": "feed-service"})
	b.Transform(NewSetTransform("origin", "ingest"))

	m, err := b.Build()
	require.NoError(err)

	data, err := m.MarshalJSON()
	require.NoError(err)

	back, err := MappingFromSource(data, NullRegistry{}, nil)
	require.NoError(err)

	t.Run("flattened indexes must be structurally equal", func(t *testing.T) {
		want, err := buildIndexes(m)
		require.NoError(err)
		got, err := buildIndexes(back)
		require.NoError(err)

		require.Equal(want.fieldsOrdered, got.fieldsOrdered)
		require.Equal(want.objectsOrdered, got.objectsOrdered)
		want.Fields(func(f *FieldDef) {
			g := got.Field(f.Path())
			require.Equal(f.DataKind(), g.DataKind(), f.Path())
			require.Equal(f.Required(), g.Required(), f.Path())
			require.Equal(f.OptionNames(), g.OptionNames(), f.Path())
		})
		want.Objects(func(o *ObjectDef) {
			require.Equal(o.Kind(), got.Object(o.Path()).Kind(), o.Path())
		})
		require.Equal(want.HasNested(), got.HasNested())
	})

	t.Run("metadata overrides survive", func(t *testing.T) {
		src := back.MetaField(MetaFieldKind_Source)
		require.Equal("true", src.Option("compress"))
	})

	t.Run("owner meta survives", func(t *testing.T) {
		require.Equal("feed-service", back.Meta()["owner"])
	})

	t.Run("built-in transforms survive", func(t *testing.T) {
		require.Len(back.Transforms(), 1)
		out, err := back.Transforms()[0].Transform(NewSourceMap())
		require.NoError(err)
		v, _ := out.Value("origin")
		require.Equal("ingest", v)
	})

	t.Run("serialization is deterministic", func(t *testing.T) {
		again, err := m.MarshalJSON()
		require.NoError(err)
		require.Equal(string(data), string(again))
	})
}

func Test_CompressedSource(t *testing.T) {
	require := require.New(t)

	m := buildTestMapping(t)
	data, err := m.MarshalJSON()
	require.NoError(err)

	cs := compressSource(data)
	back, err := cs.Uncompress()
	require.NoError(err)
	require.Equal(data, back)
	require.Equal(string(data), cs.String())

	t.Run("corrupt source", func(t *testing.T) {
		bad := CompressedSource([]byte{0xff, 0x00, 0x01})
		_, err := bad.Uncompress()
		require.Error(err)
		require.Contains(bad.String(), "corrupt mapping source")
	})
}

func Test_MappingFromSource_Faults(t *testing.T) {
	require := require.New(t)

	cases := []struct {
		name string
		data string
	}{
		{"not json", `{{`},
		{"two types", `{"a":{},"b":{}}`},
		{"body not object", `{"tweet":1}`},
		{"unknown metadata field", `{"tweet":{"_shiny":{"type":"keyword"}}}`},
		{"unknown field type", `{"tweet":{"properties":{"x":{"type":"warp"}}}}`},
		{"unknown mapping key", `{"tweet":{"wat":1}}`},
		{"dotted field name", `{"tweet":{"properties":{"a.b":{"type":"text"}}}}`},
		{"script transform without service", `{"tweet":{"transform":[{"script":"s"}]}}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := MappingFromSource([]byte(c.data), NullRegistry{}, nil)
			require.Error(err)
		})
	}

	t.Run("script transforms load with a service", func(t *testing.T) {
		scripts := NewNativeScripts(4)
		m, err := MappingFromSource([]byte(`{"tweet":{"transform":[{"script":"s","lang":"native"}]}}`), NullRegistry{}, scripts)
		require.NoError(err)
		require.Len(m.Transforms(), 1)
	})
}
