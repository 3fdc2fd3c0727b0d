// Package update guards the config file against tool version skew.
package update

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-version"
)

// ErrIncompatibleConfig is returned when the config was written by a newer
// major version.
var ErrIncompatibleConfig = errors.New("config written by an incompatible version")

// Compatibility describes how a config file relates to the running tool
type Compatibility int

const (
	// Compatible configs were written by this or an older version
	Compatible Compatibility = iota
	// Newer configs were written by a newer minor or patch release; they
	// load, but fields the running tool does not know are dropped on save
	Newer
	// Incompatible configs come from a newer major version
	Incompatible
)

func (c Compatibility) String() string {
	switch c {
	case Newer:
		return "newer"
	case Incompatible:
		return "incompatible"
	}
	return "compatible"
}

// CheckConfig compares the written_by stamp of a config against the
// running version. An empty stamp is always compatible.
func CheckConfig(writtenBy, currentVersion string) (Compatibility, error) {
	if writtenBy == "" {
		return Compatible, nil
	}

	current, err := version.NewVersion(currentVersion)
	if err != nil {
		return Compatible, fmt.Errorf("invalid version format: %w", err)
	}
	written, err := version.NewVersion(writtenBy)
	if err != nil {
		return Compatible, fmt.Errorf("invalid written_by %q: %w", writtenBy, err)
	}

	if !written.GreaterThan(current) {
		return Compatible, nil
	}

	// Same major accepts newer minors
	constraint, err := version.NewConstraint(fmt.Sprintf("~> %d.0", current.Segments()[0]))
	if err != nil {
		return Compatible, err
	}
	if current.Segments()[0] > 0 && constraint.Check(written) {
		return Newer, nil
	}
	if current.Segments()[0] == 0 && written.Segments()[1] == current.Segments()[1] {
		// 0.x releases only promise compatibility within a minor
		return Newer, nil
	}
	return Incompatible, fmt.Errorf("written by %s, running %s: %w", writtenBy, currentVersion, ErrIncompatibleConfig)
}
