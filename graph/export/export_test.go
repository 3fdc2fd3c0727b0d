package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/migraph/graph"
	"github.com/satishbabariya/migraph/graph/domain"
	"github.com/satishbabariya/migraph/graph/layout"
)

func mergeState(t *testing.T) *graph.State {
	t.Helper()
	c := domain.CollectionOf(
		&domain.Migration{Revision: "a", Down: domain.NoDownRevision(), Message: "a", Filename: "a.py", CreateDate: "2024-01-01"},
		&domain.Migration{Revision: "b", Down: domain.NoDownRevision(), Message: "b", Filename: "b.py", CreateDate: "2024-01-02"},
		&domain.Migration{Revision: "m", Down: domain.MergeDownRevision("a", "b"), Message: "merge", Filename: "m.py", CreateDate: "2024-01-03"},
	)
	s := graph.New(domain.Location{Path: "/versions"}, c, layout.DefaultConfig())
	s.Fingerprint = "abc"
	return s
}

func TestBuild(t *testing.T) {
	doc := Build(mergeState(t))

	assert.Equal(t, "/versions", doc.Location)
	assert.Nil(t, doc.Filter)
	assert.Equal(t, []string{"m"}, doc.Heads)
	assert.Equal(t, []string{"a", "b"}, doc.Roots)
	assert.Equal(t, 1, doc.Stats.Merges)

	require.Len(t, doc.Nodes, 3)
	assert.Equal(t, "a", doc.Nodes[0].Revision)
	assert.Equal(t, "b", doc.Nodes[1].Revision)
	assert.Equal(t, 250.0, doc.Nodes[1].X)
	assert.Equal(t, Node{
		Revision: "m", Down: []string{"a", "b"}, Message: "merge", Filename: "m.py",
		CreateDate: "2024-01-03", Kind: "head", X: 100, Y: 150, Level: 1, Column: 0,
	}, doc.Nodes[2])

	assert.Equal(t, []Edge{{From: "a", To: "m"}, {From: "b", To: "m"}}, doc.Edges)
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := mergeState(t)
	for _, f := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, s, f))

			doc, err := Read(&buf, f)
			require.NoError(t, err)
			assert.Equal(t, Build(s), *doc)
		})
	}
}

func TestFilteredDocument(t *testing.T) {
	s, err := mergeState(t).Filter("2024-01-02", "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, s, FormatYAML))
	assert.Contains(t, buf.String(), "2024-01-02")
	assert.Contains(t, buf.String(), "filter:")
	assert.Contains(t, buf.String(), "fingerprint: abc")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("toml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
