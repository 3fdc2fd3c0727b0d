package parser

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/migraph/graph/domain"
)

const simpleMigration = `"""Add users table

Revision ID: abc123
Revises:
Create Date: 2024-01-15 10:30:00.000000

"""
revision: str = "abc123"
down_revision: str = None

def upgrade():
    pass
`

func TestParse(t *testing.T) {
	t.Run("root migration", func(t *testing.T) {
		m, err := Parse(simpleMigration, "abc123_add_users.py")
		require.NoError(t, err)

		assert.Equal(t, "abc123", m.Revision)
		assert.Equal(t, domain.DownNone, m.Down.Kind())
		assert.Equal(t, "Add users table", m.Message)
		assert.Equal(t, "2024-01-15 10:30:00.000000", m.CreateDate)
		assert.Equal(t, "abc123_add_users.py", m.Filename)
		assert.False(t, m.IsMerge())
	})

	t.Run("single parent", func(t *testing.T) {
		content := `"""Add posts table

Revision ID: def456
Revises: abc123
Create Date: 2024-01-16 11:00:00.000000

"""
revision: str = "def456"
down_revision: str = "abc123"
`
		m, err := Parse(content, "def456_add_posts.py")
		require.NoError(t, err)

		assert.Equal(t, "def456", m.Revision)
		assert.Equal(t, domain.DownSingle, m.Down.Kind())
		assert.Equal(t, []string{"abc123"}, m.Down.Revisions())
		assert.False(t, m.IsMerge())
	})

	t.Run("merge round trip", func(t *testing.T) {
		content := `"""Merge X

Create Date: 2024-01-01
"""
revision = "r1"
down_revision = ("p1", "p2")
`
		m, err := Parse(content, "r1_merge.py")
		require.NoError(t, err)

		assert.Equal(t, "r1", m.Revision)
		assert.Equal(t, domain.DownMerge, m.Down.Kind())
		assert.Equal(t, []string{"p1", "p2"}, m.Down.Revisions())
		assert.Equal(t, "Merge X", m.Message)
		assert.Equal(t, "2024-01-01", m.CreateDate)
		assert.True(t, m.IsMerge())
	})

	t.Run("invalid file", func(t *testing.T) {
		_, err := Parse("# This is not a valid migration file", "invalid.py")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoRevision))

		var perr *ParseError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, "invalid.py", perr.Filename)
	})

	t.Run("invalid encoding", func(t *testing.T) {
		_, err := Parse("revision = 'a'\xff", "bad.py")
		assert.True(t, errors.Is(err, ErrInvalidEncoding))
	})

	t.Run("message falls back to filename stem", func(t *testing.T) {
		m, err := Parse("revision = 'zz'\n", "versions/zz_no_doc.py")
		require.NoError(t, err)
		assert.Equal(t, "zz_no_doc", m.Message)
		assert.Equal(t, "", m.CreateDate)
		assert.Equal(t, domain.DownNone, m.Down.Kind())
	})
}

func TestParseDownRevisionShapes(t *testing.T) {
	tests := []struct {
		name string
		line string
		kind domain.DownKind
		revs []string
	}{
		{"bare none", "down_revision = None", domain.DownNone, []string{}},
		{"union annotation", "down_revision: Union[str, None] = None", domain.DownNone, []string{}},
		{"single quoted", "down_revision = 'a1'", domain.DownSingle, []string{"a1"}},
		{"annotated string", `down_revision: Union[str, Sequence[str], None] = "a1"`, domain.DownSingle, []string{"a1"}},
		{"trailing comment", `down_revision = "a1"  # previous`, domain.DownSingle, []string{"a1"}},
		{"tuple", `down_revision = ("a1", 'b2')`, domain.DownMerge, []string{"a1", "b2"}},
		{"tuple trailing comma", `down_revision = ("a1", "b2",)`, domain.DownMerge, []string{"a1", "b2"}},
		{"one element tuple", `down_revision = ("a1",)`, domain.DownSingle, []string{"a1"}},
		{"empty tuple", `down_revision = ()`, domain.DownNone, []string{}},
		{"list", `down_revision = ["a1", "b2"]`, domain.DownMerge, []string{"a1", "b2"}},
		{"multi-line tuple", "down_revision = (\n    \"a1\",\n    \"b2\",\n)", domain.DownMerge, []string{"a1", "b2"}},
		{"identifier", "down_revision = previous", domain.DownNone, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse("revision = 'x'\n"+tt.line+"\n", "x.py")
			require.NoError(t, err)
			assert.Equal(t, tt.kind, m.Down.Kind())
			assert.Equal(t, tt.revs, m.Down.Revisions())
			assert.Equal(t, tt.kind == domain.DownMerge, m.IsMerge())
		})
	}
}

func TestParserParseFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/versions/abc123_add_users.py", []byte(simpleMigration), 0o644))

	p := New(fs, nil)

	m, content, err := p.ParseFile("/versions/abc123_add_users.py")
	require.NoError(t, err)
	assert.Equal(t, "abc123", m.Revision)
	assert.Equal(t, simpleMigration, string(content))

	_, _, err = p.ParseFile("/versions/missing.py")
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "missing.py", perr.Filename)
}
