/*
 * Copyright (c) 2024-present DocMesh, Ltd.
 */

package mapping

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Indexes_WalkOrder(t *testing.T) {
	require := require.New(t)

	b := NewBuilder("tweet", NullRegistry{})
	b.Root().
		AddField("msg", DataKind_Text, false).
		AddField("posted", DataKind_Date, false)
	b.Root().AddObject("user", ObjectKind_Nested).
		AddField("name", DataKind_Text, false).
		AddObject("address", ObjectKind_Object).
		AddField("city", DataKind_Keyword, false)
	b.Root().AddField("likes", DataKind_Int64, false)

	m, err := b.Build()
	require.NoError(err)
	idx, err := buildIndexes(m)
	require.NoError(err)

	t.Run("fields must come metadata first, then depth-first in declaration order", func(t *testing.T) {
		require.Equal([]string{
			"_id", "_uid", "_type", "_source", "_all", "_routing", "_parent", "_timestamp", "_ttl", "_index",
			"msg", "posted", "likes",
			"user.name",
			"user.address.city",
		}, idx.fieldsOrdered)
	})

	t.Run("objects must come depth-first in declaration order", func(t *testing.T) {
		require.Equal([]string{"", "user", "user.address"}, idx.objectsOrdered)
	})

	t.Run("lookups by full path", func(t *testing.T) {
		require.Equal(DataKind_Keyword, idx.Field("user.address.city").DataKind())
		require.Nil(idx.Field("user.address"))
		require.True(idx.Object("user").IsNested())
		require.False(idx.Object("user.address").IsNested())
		require.Nil(idx.Object("user.name"))
		require.Same(m.Root(), idx.Object(""))
	})

	t.Run("counts", func(t *testing.T) {
		require.Equal(15, idx.FieldCount())
		require.Equal(3, idx.ObjectCount())
	})

	t.Run("nested flag", func(t *testing.T) {
		require.True(idx.HasNested())

		flat, err := NewBuilder("plain", NullRegistry{}).Build()
		require.NoError(err)
		fidx, err := buildIndexes(flat)
		require.NoError(err)
		require.False(fidx.HasNested())
	})
}
