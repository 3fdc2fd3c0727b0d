// Package applied reads the revisions stamped into a database's version
// table and compares them against a migration graph.
package applied

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/satishbabariya/migraph/internal/debug"
)

// DefaultTable is the table migration tools stamp revisions into.
const DefaultTable = "alembic_version"

var (
	// ErrNoVersionTable means the database has never been migrated.
	ErrNoVersionTable = errors.New("version table not found")
	// ErrNoDatabaseURL is returned when no connection string is configured.
	ErrNoDatabaseURL = errors.New("no database URL configured")
	// ErrInvalidTable rejects table names that are not plain identifiers.
	ErrInvalidTable = errors.New("invalid version table name")
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Provider names accepted in configuration.
const (
	ProviderPostgres = "postgresql"
	ProviderMySQL    = "mysql"
	ProviderSQLite   = "sqlite"
)

// DetectProvider guesses the database kind from a connection string.
func DetectProvider(connStr string) string {
	lower := strings.ToLower(connStr)
	switch {
	case strings.HasPrefix(lower, "mysql"), strings.Contains(lower, "@tcp("):
		return ProviderMySQL
	case strings.HasPrefix(lower, "sqlite"), strings.HasPrefix(lower, "file:"),
		strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"), lower == ":memory:":
		return ProviderSQLite
	}
	return ProviderPostgres
}

// DriverName maps a provider to its database/sql driver.
// PostgreSQL registers as "postgres" and SQLite as "sqlite3".
func DriverName(provider string) string {
	switch provider {
	case ProviderPostgres, "postgres":
		return "postgres"
	case ProviderSQLite, "sqlite3":
		return "sqlite3"
	default:
		return provider
	}
}

// DSN rewrites URL-style connection strings into the form each driver
// expects. SQLAlchemy-style dialect suffixes such as "+psycopg2" are
// dropped.
func DSN(provider, connStr string) string {
	switch DriverName(provider) {
	case "sqlite3":
		for _, prefix := range []string{"sqlite:///", "sqlite://", "sqlite3://"} {
			if strings.HasPrefix(connStr, prefix) {
				return strings.TrimPrefix(connStr, prefix)
			}
		}
		return connStr
	case "mysql":
		_, rest, ok := strings.Cut(connStr, "://")
		if !ok {
			return connStr
		}
		if strings.Contains(rest, "@tcp(") {
			return rest
		}
		creds, hostPart, ok := strings.Cut(rest, "@")
		if !ok {
			hostPart, creds = rest, ""
		}
		host, db, _ := strings.Cut(hostPart, "/")
		dsn := "tcp(" + host + ")/" + db
		if creds != "" {
			dsn = creds + "@" + dsn
		}
		return dsn
	default:
		scheme, rest, ok := strings.Cut(connStr, "://")
		if ok && strings.Contains(scheme, "+") {
			return "postgres://" + rest
		}
		return connStr
	}
}

// Options configure a Reader.
type Options struct {
	URL      string
	Provider string
	Table    string
	Logger   *slog.Logger
}

// Reader queries one database's version table.
type Reader struct {
	db       *sql.DB
	table    string
	provider string
	logger   *slog.Logger
}

// Open connects to the database described by opts.
func Open(ctx context.Context, opts Options) (*Reader, error) {
	if opts.URL == "" {
		return nil, ErrNoDatabaseURL
	}
	provider := opts.Provider
	if provider == "" {
		provider = DetectProvider(opts.URL)
	}

	db, err := sql.Open(DriverName(provider), DSN(provider, opts.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", provider, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", provider, err)
	}

	r, err := New(db, provider, opts.Table, opts.Logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

// New wraps an open database handle.
func New(db *sql.DB, provider, table string, logger *slog.Logger) (*Reader, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("%q: %w", table, ErrInvalidTable)
	}
	if logger == nil {
		logger = debug.Logger()
	}
	return &Reader{db: db, table: table, provider: provider, logger: logger}, nil
}

// Provider returns the database kind.
func (r *Reader) Provider() string {
	return r.provider
}

// Close closes the database handle.
func (r *Reader) Close() error {
	return r.db.Close()
}

// Current returns the stamped revisions, one per applied branch head.
func (r *Reader) Current(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT version_num FROM "+r.table)
	if err != nil {
		if isMissingTable(err) {
			return nil, fmt.Errorf("%s: %w", r.table, ErrNoVersionTable)
		}
		return nil, fmt.Errorf("failed to query %s: %w", r.table, err)
	}
	defer rows.Close()

	revs := []string{}
	for rows.Next() {
		var rev string
		if err := rows.Scan(&rev); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", r.table, err)
		}
		revs = append(revs, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Debug("read version table", "table", r.table, "revisions", revs)
	return revs, nil
}

func isMissingTable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "42P01"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1146
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return strings.Contains(liteErr.Error(), "no such table")
	}
	return false
}
