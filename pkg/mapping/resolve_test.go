/*
 * Copyright (c) 2024-present DocMesh, Ltd.
 */

package mapping

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// testScope answers nested membership from a fixed table of filter → doc
// ids, counting queries to observe the fast-exit path.
type testScope struct {
	members map[string][]int
	queries int
	fail    error
}

func (s *testScope) Matches(filter string, docId int) (bool, error) {
	s.queries++
	if s.fail != nil {
		return false, s.fail
	}
	for _, id := range s.members[filter] {
		if id == docId {
			return true, nil
		}
	}
	return false, nil
}

func Test_FindNestedObjectMapper(t *testing.T) {
	require := require.New(t)

	b := NewBuilder("blog", NullRegistry{})
	a := b.Root().AddObject("a", ObjectKind_Nested)
	a.AddField("x", DataKind_Text, false)
	a.AddObject("b", ObjectKind_Nested).AddField("y", DataKind_Text, false)
	b.Root().AddObject("plain", ObjectKind_Object).AddField("z", DataKind_Text, false)
	m, err := b.Build()
	require.NoError(err)
	dm, err := NewDocumentMapper(m, NullRegistry{}, nil)
	require.NoError(err)

	t.Run("most specific scope wins on overlap", func(t *testing.T) {
		scope := &testScope{members: map[string][]int{
			"__a":   {7},
			"__a.b": {7},
		}}
		o, err := dm.FindNestedObjectMapper(7, scope)
		require.NoError(err)
		require.Equal("a.b", o.Path())
	})

	t.Run("single scope match", func(t *testing.T) {
		scope := &testScope{members: map[string][]int{"__a": {7}}}
		o, err := dm.FindNestedObjectMapper(7, scope)
		require.NoError(err)
		require.Equal("a", o.Path())
	})

	t.Run("no match", func(t *testing.T) {
		scope := &testScope{members: map[string][]int{"__a": {8}}}
		o, err := dm.FindNestedObjectMapper(7, scope)
		require.NoError(err)
		require.Nil(o)
		require.Equal(2, scope.queries, "only nested objects are probed")
	})

	t.Run("reader fault propagates", func(t *testing.T) {
		scope := &testScope{fail: errors.New("segment reader gone")}
		_, err := dm.FindNestedObjectMapper(7, scope)
		require.ErrorContains(err, "segment reader gone")
	})

	t.Run("mapping without nested objects exits before the reader", func(t *testing.T) {
		flat, err := NewBuilder("flat", NullRegistry{}).Build()
		require.NoError(err)
		fdm, err := NewDocumentMapper(flat, NullRegistry{}, nil)
		require.NoError(err)

		scope := &testScope{}
		o, err := fdm.FindNestedObjectMapper(7, scope)
		require.NoError(err)
		require.Nil(o)
		require.Zero(scope.queries)
	})
}

func Test_FindParentObjectMapper(t *testing.T) {
	require := require.New(t)

	b := NewBuilder("blog", NullRegistry{})
	b.Root().AddObject("a", ObjectKind_Nested).
		AddObject("b", ObjectKind_Object).
		AddObject("c", ObjectKind_Nested)
	m, err := b.Build()
	require.NoError(err)
	dm, err := NewDocumentMapper(m, NullRegistry{}, nil)
	require.NoError(err)

	c := dm.Object("a.b.c")
	require.NotNil(c)

	parent := dm.FindParentObjectMapper(c)
	require.Equal("a.b", parent.Path())

	grand := dm.FindParentObjectMapper(parent)
	require.Equal("a", grand.Path())

	t.Run("top-level object has no parent", func(t *testing.T) {
		require.Nil(dm.FindParentObjectMapper(grand))
	})

	t.Run("detached object with absent prefix", func(t *testing.T) {
		stray := newObjectDef("x", "ghost.x", ObjectKind_Object)
		require.Nil(dm.FindParentObjectMapper(stray))
	})
}
