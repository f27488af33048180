// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lakegate Contributors

package perm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakegate/lakegate/internal/perm"
	"github.com/lakegate/lakegate/internal/perm/grammar"
	"github.com/lakegate/lakegate/internal/perm/types"
)

// extractGrant parses and extracts one grant, failing the test on error.
func extractGrant(t *testing.T, grant string) []types.Path {
	t.Helper()
	tree, err := grammar.Parse(grant)
	require.NoError(t, err, "grant should parse: %s", grant)
	paths, err := perm.Extract(tree)
	require.NoError(t, err, "grant should extract: %s", grant)
	return paths
}

func seg(s string) types.Segment {
	switch s {
	case "db", "native", "schemas", "download", "collection", "query", "read":
		return types.KeySeg(types.Key(s))
	}
	return types.NameSeg(s)
}

func mk(m types.Marker) types.Segment { return types.MarkerSeg(m) }
func id(n uint64) types.Segment       { return types.IDSeg(n) }

func TestExtract_EveryAlternative(t *testing.T) {
	tests := []struct {
		name  string
		grant string
		want  []types.Path
	}{
		{
			name:  "all",
			grant: "/",
			want:  []types.Path{{mk(types.MarkerAll)}},
		},
		{
			name:  "bare db fans out to native write and all schemas",
			grant: "/db/3/",
			want: []types.Path{
				{seg("db"), id(3), seg("native"), mk(types.MarkerWrite)},
				{seg("db"), id(3), seg("schemas"), mk(types.MarkerAll)},
			},
		},
		{
			name:  "db native",
			grant: "/db/3/native/",
			want: []types.Path{
				{seg("db"), id(3), seg("native"), mk(types.MarkerWrite)},
			},
		},
		{
			name:  "db all schemas",
			grant: "/db/3/schema/",
			want: []types.Path{
				{seg("db"), id(3), seg("schemas"), mk(types.MarkerAll)},
			},
		},
		{
			name:  "db schema",
			grant: "/db/3/schema/PUBLIC/",
			want: []types.Path{
				{seg("db"), id(3), seg("schemas"), seg("PUBLIC"), mk(types.MarkerAll)},
			},
		},
		{
			name:  "table bare",
			grant: "/db/3/schema/PUBLIC/table/5/",
			want: []types.Path{
				{seg("db"), id(3), seg("schemas"), seg("PUBLIC"), id(5), mk(types.MarkerAll)},
			},
		},
		{
			name:  "table requires a schema scope",
			grant: "/db/5/table/10/read/",
			want:  nil, // expect a syntax error
		},
		{
			name:  "collection numeric write",
			grant: "/collection/10/",
			want: []types.Path{
				{seg("collection"), id(10), mk(types.MarkerWrite)},
			},
		},
		{
			name:  "collection numeric read",
			grant: "/collection/10/read/",
			want: []types.Path{
				{seg("collection"), id(10), mk(types.MarkerRead)},
			},
		},
		{
			name:  "block maps to schemas block",
			grant: "/block/db/4/",
			want: []types.Path{
				{seg("db"), id(4), seg("schemas"), mk(types.MarkerBlock)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want == nil {
				_, err := grammar.Parse(tt.grant)
				assert.Error(t, err)
				return
			}
			got := extractGrant(t, tt.grant)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_TablePermLeafMapping(t *testing.T) {
	tests := []struct {
		name  string
		grant string
		tail  []types.Segment
	}{
		{"read resolves to read/all", "/db/5/schema/S/table/10/read/",
			[]types.Segment{seg("read"), mk(types.MarkerAll)}},
		{"query resolves to query/all", "/db/5/schema/S/table/10/query/",
			[]types.Segment{seg("query"), mk(types.MarkerAll)}},
		{"query segmented resolves to query/segmented", "/db/5/schema/S/table/10/query/segmented/",
			[]types.Segment{seg("query"), mk(types.MarkerSegmented)}},
		{"no perm resolves to all", "/db/5/schema/S/table/10/",
			[]types.Segment{mk(types.MarkerAll)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := extractGrant(t, tt.grant)
			require.Len(t, paths, 1)
			path := paths[0]
			require.GreaterOrEqual(t, len(path), len(tt.tail))
			assert.Equal(t, types.Path(tt.tail), path[len(path)-len(tt.tail):])
		})
	}
}

func TestExtract_DownloadQualifier(t *testing.T) {
	t.Run("full appended by default", func(t *testing.T) {
		paths := extractGrant(t, "/download/db/2/")
		want := []types.Path{
			{seg("download"), seg("db"), id(2), seg("native"), mk(types.MarkerFull)},
			{seg("download"), seg("db"), id(2), seg("schemas"), mk(types.MarkerFull)},
		}
		assert.Equal(t, want, paths)
	})

	t.Run("limited appended when qualified", func(t *testing.T) {
		paths := extractGrant(t, "/download/limited/db/2/")
		want := []types.Path{
			{seg("download"), seg("db"), id(2), seg("native"), mk(types.MarkerLimited)},
			{seg("download"), seg("db"), id(2), seg("schemas"), mk(types.MarkerLimited)},
		}
		assert.Equal(t, want, paths)
	})

	t.Run("qualifier lands on every nested path", func(t *testing.T) {
		paths := extractGrant(t, "/download/limited/db/2/schema/PUBLIC/table/7/")
		want := []types.Path{
			{seg("download"), seg("db"), id(2), seg("schemas"), seg("PUBLIC"), id(7), mk(types.MarkerLimited)},
		}
		assert.Equal(t, want, paths)
	})

	t.Run("download native", func(t *testing.T) {
		paths := extractGrant(t, "/download/db/2/native/")
		want := []types.Path{
			{seg("download"), seg("db"), id(2), seg("native"), mk(types.MarkerFull)},
		}
		assert.Equal(t, want, paths)
	})

	t.Run("download all schemas", func(t *testing.T) {
		paths := extractGrant(t, "/download/db/2/schema/")
		want := []types.Path{
			{seg("download"), seg("db"), id(2), seg("schemas"), mk(types.MarkerFull)},
		}
		assert.Equal(t, want, paths)
	})
}

func TestExtract_NumericSchemaName(t *testing.T) {
	// A schema name made entirely of digits is an identifying token and
	// converts to an unsigned integer, like table ids do.
	paths := extractGrant(t, "/db/3/schema/2024/")
	want := []types.Path{
		{seg("db"), id(3), seg("schemas"), id(2024), mk(types.MarkerAll)},
	}
	assert.Equal(t, want, paths)
}

func TestExtract_CollectionRoot(t *testing.T) {
	t.Run("root stays symbolic with write tier", func(t *testing.T) {
		paths := extractGrant(t, "/collection/root/")
		want := []types.Path{
			{seg("collection"), types.RootSeg(), mk(types.MarkerWrite)},
		}
		assert.Equal(t, want, paths)
	})

	t.Run("root read tier", func(t *testing.T) {
		paths := extractGrant(t, "/collection/root/read/")
		want := []types.Path{
			{seg("collection"), types.RootSeg(), mk(types.MarkerRead)},
		}
		assert.Equal(t, want, paths)
	})
}

func TestExtract_MalformedIdentifier(t *testing.T) {
	t.Run("numeric overflow", func(t *testing.T) {
		tree, err := grammar.Parse("/db/99999999999999999999999999/")
		require.NoError(t, err, "overflowing digits are still well-formed per the grammar")

		_, err = perm.Extract(tree)
		require.Error(t, err)
		assert.True(t, perm.IsMalformedIdentifier(err))
	})

	t.Run("non-numeric collection id", func(t *testing.T) {
		tree, err := grammar.Parse("/collection/favorites/")
		require.NoError(t, err)

		_, err = perm.Extract(tree)
		require.Error(t, err)
		assert.True(t, perm.IsMalformedIdentifier(err))
	})
}

func TestExtract_NilTree(t *testing.T) {
	_, err := perm.Extract(nil)
	require.Error(t, err)
	assert.True(t, perm.IsUnrecognizedBranch(err))
}

func TestExtract_IsPure(t *testing.T) {
	tree, err := grammar.Parse("/db/3/")
	require.NoError(t, err)

	first, err := perm.Extract(tree)
	require.NoError(t, err)
	second, err := perm.Extract(tree)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
