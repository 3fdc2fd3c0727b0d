package view

import (
	"github.com/satishbabariya/migraph/graph/query"
)

// SearchResults is the state of a search session. Index is -1 when there
// are no results.
type SearchResults struct {
	Query     string
	Revisions []string
	Index     int
}

// Current returns the revision under the cursor.
func (r SearchResults) Current() (string, bool) {
	if r.Index < 0 || r.Index >= len(r.Revisions) {
		return "", false
	}
	return r.Revisions[r.Index], true
}

// Search starts a session over the current state and centres on the first
// match. An empty result clears the session.
func (c *Controller) Search(text string) SearchResults {
	revs := query.FindNodes(c.state.Collection, text)
	if len(revs) == 0 {
		c.search = SearchResults{Query: text, Index: -1}
		c.notifySearch()
		return c.search
	}

	c.search = SearchResults{Query: text, Revisions: revs, Index: 0}
	c.CenterOn(revs[0])
	c.notifySearch()
	return c.search
}

// SearchNext moves to the next result. It stops at the last one.
func (c *Controller) SearchNext() bool {
	return c.stepSearch(1)
}

// SearchPrev moves to the previous result. It stops at the first one.
func (c *Controller) SearchPrev() bool {
	return c.stepSearch(-1)
}

func (c *Controller) stepSearch(delta int) bool {
	next := c.search.Index + delta
	if next < 0 || next >= len(c.search.Revisions) {
		return false
	}
	c.search.Index = next
	c.CenterOn(c.search.Revisions[c.search.Index])
	c.notifySearch()
	return true
}

// ClearSearch ends the session.
func (c *Controller) ClearSearch() {
	c.search = SearchResults{Index: -1}
	c.notifySearch()
}

// SearchResults returns the active session.
func (c *Controller) SearchResults() SearchResults {
	out := c.search
	out.Revisions = copyOf(c.search.Revisions)
	return out
}

func (c *Controller) notifySearch() {
	if c.hooks.SearchResultsChanged != nil {
		c.hooks.SearchResultsChanged(c.SearchResults())
	}
}
