/*
 * Copyright (c) 2024-present DocMesh, Ltd.
 */

package mapping

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func Test_SourceMap_Order(t *testing.T) {
	require := require.New(t)

	s := NewSourceMap().Put("b", 1).Put("a", 2).Put("c", 3)
	require.Equal([]string{"b", "a", "c"}, s.Keys())
	require.Equal(3, s.Len())

	t.Run("overwrite keeps position", func(t *testing.T) {
		s.Put("a", 20)
		require.Equal([]string{"b", "a", "c"}, s.Keys())
		v, ok := s.Value("a")
		require.True(ok)
		require.Equal(20, v)
	})

	t.Run("delete keeps relative order", func(t *testing.T) {
		c := s.Clone()
		c.Delete("a")
		require.Equal([]string{"b", "c"}, c.Keys())
		require.False(c.Has("a"))
		require.Equal([]string{"b", "a", "c"}, s.Keys(), "clone must not alias the original")
	})

	t.Run("enum follows insertion order", func(t *testing.T) {
		var seen []string
		s.Enum(func(name string, _ any) { seen = append(seen, name) })
		require.Equal([]string{"b", "a", "c"}, seen)
	})
}

func Test_SourceMap_JSON(t *testing.T) {
	require := require.New(t)

	t.Run("marshal preserves insertion order", func(t *testing.T) {
		s := NewSourceMap().Put("z", 1).Put("a", NewSourceMap().Put("y", 2).Put("b", 3))
		data, err := json.Marshal(s)
		require.NoError(err)
		require.Equal(`{"z":1,"a":{"y":2,"b":3}}`, string(data))
	})

	t.Run("unmarshal preserves document order", func(t *testing.T) {
		s := &SourceMap{}
		require.NoError(json.Unmarshal([]byte(`{"z":1,"a":{"y":2.5,"b":[true,"x",{"k":null}]},"m":"v"}`), s))
		require.Equal([]string{"z", "a", "m"}, s.Keys())

		nested, ok := s.AsMap("a")
		require.True(ok)
		require.Equal([]string{"y", "b"}, nested.Keys())
		y, _ := nested.Value("y")
		require.Equal(2.5, y)

		arr, _ := nested.Value("b")
		require.Equal([]any{true, "x", NewSourceMap().Put("k", nil)}, arr)

		v, ok := s.AsString("m")
		require.True(ok)
		require.Equal("v", v)
	})

	t.Run("round trip", func(t *testing.T) {
		raw := `{"b":1,"a":{"c":2,"aa":3},"d":[1,2]}`
		s := &SourceMap{}
		require.NoError(json.Unmarshal([]byte(raw), s))
		data, err := json.Marshal(s)
		require.NoError(err)
		require.JSONEq(raw, string(data))
		require.Equal([]string{"b", "a", "d"}, s.Keys())
	})

	t.Run("non-object input", func(t *testing.T) {
		s := &SourceMap{}
		require.Error(json.Unmarshal([]byte(`[1,2]`), s))
	})
}
