// Package domain contains the core entities of the migration graph.
package domain

import (
	"path/filepath"
	"strings"
)

// DownKind identifies the shape of a migration's down revision.
type DownKind int

const (
	// DownNone marks a root migration.
	DownNone DownKind = iota
	// DownSingle points at exactly one predecessor.
	DownSingle
	// DownMerge joins two or more predecessors.
	DownMerge
)

// String returns the kind name.
func (k DownKind) String() string {
	switch k {
	case DownNone:
		return "none"
	case DownSingle:
		return "single"
	case DownMerge:
		return "merge"
	default:
		return "unknown"
	}
}

// DownRevision is the tagged variant holding the predecessors a migration
// declares. Use the constructors; the zero value is DownNone.
type DownRevision struct {
	kind      DownKind
	revisions []string
}

// NoDownRevision returns the root marker.
func NoDownRevision() DownRevision {
	return DownRevision{kind: DownNone}
}

// SingleDownRevision returns a single-parent down revision.
func SingleDownRevision(rev string) DownRevision {
	return DownRevision{kind: DownSingle, revisions: []string{rev}}
}

// MergeDownRevision returns a merge of the given revisions. One revision
// collapses to DownSingle and none to DownNone.
func MergeDownRevision(revs ...string) DownRevision {
	switch len(revs) {
	case 0:
		return NoDownRevision()
	case 1:
		return SingleDownRevision(revs[0])
	}
	cp := make([]string, len(revs))
	copy(cp, revs)
	return DownRevision{kind: DownMerge, revisions: cp}
}

// Kind returns the variant tag.
func (d DownRevision) Kind() DownKind { return d.kind }

// Revisions returns a copy of the referenced revisions, empty for DownNone.
func (d DownRevision) Revisions() []string {
	out := make([]string, len(d.revisions))
	copy(out, d.revisions)
	return out
}

// Contains reports whether rev is one of the referenced revisions.
func (d DownRevision) Contains(rev string) bool {
	for _, r := range d.revisions {
		if r == rev {
			return true
		}
	}
	return false
}

// String renders the value the way it appears in a descriptor.
func (d DownRevision) String() string {
	switch d.kind {
	case DownSingle:
		return d.revisions[0]
	case DownMerge:
		return "(" + strings.Join(d.revisions, ", ") + ")"
	default:
		return "None"
	}
}

// Migration is one parsed migration descriptor.
type Migration struct {
	Revision   string
	Down       DownRevision
	Message    string
	Filename   string
	CreateDate string
}

// IsMerge reports whether the migration joins two or more branches.
func (m *Migration) IsMerge() bool {
	return m.Down.Kind() == DownMerge
}

// DateKey returns the YYYY-MM-DD prefix of CreateDate used by date filters.
func (m *Migration) DateKey() string {
	if len(m.CreateDate) > 10 {
		return m.CreateDate[:10]
	}
	return m.CreateDate
}

// ShortRevision truncates the revision for compact displays.
func ShortRevision(rev string, n int) string {
	if len(rev) <= n {
		return rev
	}
	return rev[:n]
}

// Location is a configured versions folder.
type Location struct {
	Path  string `json:"path" yaml:"path" mapstructure:"path" validate:"required"`
	Alias string `json:"alias" yaml:"alias" mapstructure:"alias"`
}

// DisplayName returns the alias or, without one, the folder name.
func (l Location) DisplayName() string {
	if l.Alias != "" {
		return l.Alias
	}
	return filepath.Base(filepath.Clean(l.Path))
}
