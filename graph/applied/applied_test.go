package applied

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/migraph/graph/builder"
	"github.com/satishbabariya/migraph/graph/domain"
)

func TestDetectProvider(t *testing.T) {
	tests := map[string]string{
		"postgresql://user:pw@localhost:5432/app": ProviderPostgres,
		"postgresql+psycopg2://localhost/app":     ProviderPostgres,
		"mysql://root@localhost:3306/app":         ProviderMySQL,
		"root:pw@tcp(localhost:3306)/app":         ProviderMySQL,
		"sqlite:///app.db":                        ProviderSQLite,
		"file:app.db?cache=shared":                ProviderSQLite,
		"/var/lib/app.sqlite":                     ProviderSQLite,
	}
	for url, want := range tests {
		assert.Equal(t, want, DetectProvider(url), url)
	}
}

func TestDriverNameAndDSN(t *testing.T) {
	assert.Equal(t, "postgres", DriverName(ProviderPostgres))
	assert.Equal(t, "sqlite3", DriverName(ProviderSQLite))
	assert.Equal(t, "mysql", DriverName(ProviderMySQL))

	assert.Equal(t, "/tmp/app.db", DSN(ProviderSQLite, "sqlite:////tmp/app.db"))
	assert.Equal(t, "app.db", DSN(ProviderSQLite, "sqlite:///app.db"))
	assert.Equal(t, "root:pw@tcp(db:3306)/app", DSN(ProviderMySQL, "mysql://root:pw@db:3306/app"))
	assert.Equal(t, "tcp(db)/app", DSN(ProviderMySQL, "mysql+pymysql://db/app"))
	assert.Equal(t, "root@tcp(db)/app", DSN(ProviderMySQL, "root@tcp(db)/app"))
	assert.Equal(t, "postgres://u@h/app", DSN(ProviderPostgres, "postgresql+psycopg2://u@h/app"))
	assert.Equal(t, "postgres://u@h/app", DSN(ProviderPostgres, "postgres://u@h/app"))
}

func TestNewRejectsBadTable(t *testing.T) {
	_, err := New(nil, ProviderSQLite, "versions; DROP TABLE x", nil)
	assert.ErrorIs(t, err, ErrInvalidTable)
}

func TestOpenWithoutURL(t *testing.T) {
	_, err := Open(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrNoDatabaseURL)
}

func TestCurrentFromSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "app.db")

	r, err := Open(ctx, Options{URL: "sqlite:///" + path})
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, ProviderSQLite, r.Provider())

	_, err = r.Current(ctx)
	assert.ErrorIs(t, err, ErrNoVersionTable)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(`CREATE TABLE alembic_version (version_num VARCHAR(32) NOT NULL PRIMARY KEY)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO alembic_version (version_num) VALUES ('rev2')`)
	require.NoError(t, err)

	revs, err := r.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"rev2"}, revs)
}

func mig(rev string, down domain.DownRevision, date string) *domain.Migration {
	return &domain.Migration{Revision: rev, Down: down, Filename: rev + ".py", CreateDate: date}
}

func branched() *domain.Collection {
	// rev1 <- rev2 <- rev3a
	//            \<- rev3b
	return domain.CollectionOf(
		mig("rev1", domain.NoDownRevision(), "2024-01-01"),
		mig("rev2", domain.SingleDownRevision("rev1"), "2024-01-02"),
		mig("rev3b", domain.SingleDownRevision("rev2"), "2024-01-04"),
		mig("rev3a", domain.SingleDownRevision("rev2"), "2024-01-03"),
	)
}

func TestCompare(t *testing.T) {
	c := branched()
	adj := builder.Build(c)

	st := Compare(c, adj, []string{"rev2"})
	assert.Equal(t, []string{"rev1", "rev2"}, st.Applied)
	assert.Equal(t, []string{"rev3a", "rev3b"}, st.Pending)
	assert.Empty(t, st.Unknown)
	assert.False(t, st.AtHead)

	st = Compare(c, adj, []string{"rev3b", "rev3a"})
	assert.Empty(t, st.Pending)
	assert.True(t, st.AtHead)

	st = Compare(c, adj, []string{"rev3a"})
	assert.Equal(t, []string{"rev3b"}, st.Pending)
	assert.False(t, st.AtHead)
}

func TestCompareEmptyAndUnknown(t *testing.T) {
	c := branched()
	adj := builder.Build(c)

	st := Compare(c, adj, nil)
	assert.Equal(t, []string{}, st.Current)
	assert.Len(t, st.Pending, 4)
	assert.False(t, st.AtHead)

	st = Compare(c, adj, []string{"ghost"})
	assert.Equal(t, []string{"ghost"}, st.Unknown)
	assert.Len(t, st.Pending, 4)
}
