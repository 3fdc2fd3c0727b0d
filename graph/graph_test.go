package graph

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/migraph/graph/domain"
	"github.com/satishbabariya/migraph/graph/layout"
	"github.com/satishbabariya/migraph/graph/query"
)

func TestStateEndToEnd(t *testing.T) {
	c := domain.CollectionOf(
		&domain.Migration{Revision: "rev1", Down: domain.NoDownRevision(), Message: "one", Filename: "1.py", CreateDate: "2024-01-01"},
		&domain.Migration{Revision: "rev2", Down: domain.SingleDownRevision("rev1"), Message: "two", Filename: "2.py", CreateDate: "2024-01-02"},
		&domain.Migration{Revision: "rev3", Down: domain.SingleDownRevision("rev2"), Message: "three", Filename: "3.py", CreateDate: "2024-01-03"},
	)
	s := New(domain.Location{Path: "/app/alembic/versions"}, c, layout.DefaultConfig())

	assert.Equal(t, []string{"rev1"}, s.Roots())
	assert.Equal(t, []string{"rev3"}, s.Heads())
	assert.Equal(t, 0, s.Positions["rev1"].Level)
	assert.Equal(t, 1, s.Positions["rev2"].Level)
	assert.Equal(t, 2, s.Positions["rev3"].Level)
	assert.Equal(t, query.KindRoot, s.Kind("rev1"))

	path, ok := s.SourcePath("rev2")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/app/alembic/versions", "2.py"), path)
	_, ok = s.SourcePath("nope")
	assert.False(t, ok)

	filtered, err := s.Filter("2024-01-02", "")
	require.NoError(t, err)
	assert.True(t, filtered.Filtered())
	assert.Equal(t, 3, filtered.Unfiltered)
	assert.Equal(t, []string{"rev2"}, filtered.Roots())
	assert.Equal(t, 0, filtered.Positions["rev2"].Level)
	assert.False(t, s.Filtered(), "original state is untouched")

	_, err = s.Filter("", "")
	assert.ErrorIs(t, err, query.ErrEmptyDateRange)
}

func TestEmpty(t *testing.T) {
	s := Empty(layout.DefaultConfig())
	assert.Equal(t, 0, s.Collection.Len())
	assert.Empty(t, s.Positions)
	assert.Empty(t, s.Heads())
}
