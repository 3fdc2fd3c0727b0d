// Package parser extracts migration records from Alembic revision files.
//
// Extraction is pattern based: it reads four conventionally shaped fields
// (revision, down_revision, the docstring title and the Create Date line)
// and never tries to understand the rest of the file.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/satishbabariya/migraph/graph/domain"
	"github.com/satishbabariya/migraph/internal/debug"
)

var (
	// ErrNoRevision is returned when a file has no revision assignment.
	ErrNoRevision = errors.New("no revision assignment found")
	// ErrInvalidEncoding is returned for content that is not valid UTF-8.
	ErrInvalidEncoding = errors.New("content is not valid UTF-8")
)

// ParseError describes why one file could not be turned into a migration.
type ParseError struct {
	Filename string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	revisionRe     = regexp.MustCompile(`(?m)^revision[ \t]*(?::[^=\n]*)?=[ \t]*['"]([^'"]+)['"]`)
	downRevisionRe = regexp.MustCompile(`(?m)^down_revision[ \t]*(?::[^=\n]*)?=[ \t]*(\([^)]*\)|\[[^\]]*\]|[^\n]*)`)
	docstringRe    = regexp.MustCompile(`\A(?:[ \t]*(?:#[^\n]*)?\r?\n)*[ \t]*(?:"""((?s:.*?))"""|'''((?s:.*?))''')`)
	createDateRe   = regexp.MustCompile(`(?m)Create Date:[ \t]*(.*?)[ \t\r]*$`)
)

// Parse extracts a migration from the text of one file.
func Parse(text, filename string) (*domain.Migration, error) {
	if !utf8.ValidString(text) {
		return nil, &ParseError{Filename: filename, Err: ErrInvalidEncoding}
	}

	rev := revisionRe.FindStringSubmatch(text)
	if rev == nil {
		return nil, &ParseError{Filename: filename, Err: ErrNoRevision}
	}

	down := domain.NoDownRevision()
	if m := downRevisionRe.FindStringSubmatch(text); m != nil {
		down = parseDownValue(strings.TrimSpace(m[1]))
	}

	createDate := ""
	if m := createDateRe.FindStringSubmatch(text); m != nil {
		createDate = strings.TrimSpace(m[1])
	}

	return &domain.Migration{
		Revision:   rev[1],
		Down:       down,
		Message:    extractMessage(text, filename),
		Filename:   filepath.Base(filename),
		CreateDate: createDate,
	}, nil
}

// extractMessage returns the first line of the leading docstring, or the
// filename stem when there is none.
func extractMessage(text, filename string) string {
	if m := docstringRe.FindStringSubmatch(text); m != nil {
		body := m[1]
		if body == "" {
			body = m[2]
		}
		body = strings.TrimSpace(body)
		if line, _, _ := strings.Cut(body, "\n"); strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line)
		}
	}
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Parser reads and parses files from a filesystem.
type Parser struct {
	fs     afero.Fs
	logger *slog.Logger
}

// New creates a parser over fs. A nil logger uses the debug logger.
func New(fs afero.Fs, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = debug.Logger()
	}
	return &Parser{fs: fs, logger: logger}
}

// ParseFile reads path and parses it. Failures are logged and returned as
// *ParseError so callers can skip the file.
func (p *Parser) ParseFile(path string) (*domain.Migration, []byte, error) {
	content, err := afero.ReadFile(p.fs, path)
	if err != nil {
		perr := &ParseError{Filename: filepath.Base(path), Err: err}
		p.logger.Warn("failed to read migration file", "path", path, "error", err)
		return nil, nil, perr
	}

	m, err := Parse(string(content), path)
	if err != nil {
		p.logger.Warn("skipping migration file", "path", path, "error", err)
		return nil, content, err
	}
	return m, content, nil
}
