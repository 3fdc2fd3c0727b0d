package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/satishbabariya/migraph/graph/domain"
)

func mig(rev string, down domain.DownRevision) *domain.Migration {
	return &domain.Migration{Revision: rev, Down: down, Message: rev, Filename: rev + ".py"}
}

func TestBuild(t *testing.T) {
	t.Run("empty collection", func(t *testing.T) {
		adj := Build(domain.NewCollection())
		assert.Empty(t, adj.Children)
		assert.Empty(t, adj.Parents)
	})

	t.Run("single root", func(t *testing.T) {
		adj := Build(domain.CollectionOf(mig("abc123", domain.NoDownRevision())))

		parents, ok := adj.Parents["abc123"]
		assert.True(t, ok, "root must be recorded explicitly")
		assert.Empty(t, parents)
		assert.Empty(t, adj.ChildrenOf("abc123"))
	})

	t.Run("linear chain", func(t *testing.T) {
		adj := Build(domain.CollectionOf(
			mig("rev1", domain.NoDownRevision()),
			mig("rev2", domain.SingleDownRevision("rev1")),
			mig("rev3", domain.SingleDownRevision("rev2")),
		))

		assert.Equal(t, []string{"rev2"}, adj.ChildrenOf("rev1"))
		assert.Equal(t, []string{"rev3"}, adj.ChildrenOf("rev2"))
		assert.Equal(t, []string{"rev1"}, adj.ParentsOf("rev2"))
		assert.Equal(t, []string{"rev2"}, adj.ParentsOf("rev3"))
	})

	t.Run("merge", func(t *testing.T) {
		adj := Build(domain.CollectionOf(
			mig("rev1", domain.NoDownRevision()),
			mig("rev2", domain.NoDownRevision()),
			mig("merge1", domain.MergeDownRevision("rev1", "rev2", "rev1")),
		))

		assert.Equal(t, []string{"rev1", "rev2"}, adj.ParentsOf("merge1"))
		assert.Equal(t, []string{"merge1"}, adj.ChildrenOf("rev1"))
		assert.Equal(t, []string{"merge1"}, adj.ChildrenOf("rev2"))
	})

	t.Run("dangling references are dropped", func(t *testing.T) {
		c := domain.CollectionOf(
			mig("rev2", domain.SingleDownRevision("gone")),
			mig("rev3", domain.MergeDownRevision("rev2", "also-gone")),
		)
		adj := Build(c)

		assert.Empty(t, adj.ParentsOf("rev2"))
		assert.Equal(t, []string{"rev2"}, adj.ParentsOf("rev3"))
		assert.NotContains(t, adj.Children, "gone")

		assert.Equal(t, []DanglingRef{
			{Revision: "rev2", Missing: "gone"},
			{Revision: "rev3", Missing: "also-gone"},
		}, DanglingRefs(c))
	})
}

func TestChildEdgeProperty(t *testing.T) {
	c := domain.CollectionOf(
		mig("a", domain.NoDownRevision()),
		mig("b", domain.SingleDownRevision("a")),
		mig("c", domain.SingleDownRevision("a")),
		mig("d", domain.MergeDownRevision("b", "c")),
		mig("e", domain.SingleDownRevision("missing")),
	)
	adj := Build(c)

	c.Each(func(m *domain.Migration) {
		for _, p := range m.Down.Revisions() {
			if c.Has(p) {
				assert.Contains(t, adj.ChildrenOf(p), m.Revision)
				assert.Contains(t, adj.ParentsOf(m.Revision), p)
			}
		}
	})
}
