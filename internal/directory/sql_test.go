package directory

import (
	"database/sql"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/ginjaninja78/ledger-import/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRows replays fixed (id, code, name) tuples.
type fakeRows struct {
	data    [][3]any
	pos     int
	scanErr error
	err     error
}

func (f *fakeRows) Next() bool {
	if f.pos >= len(f.data) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeRows) Scan(dest ...any) error {
	if f.scanErr != nil {
		return f.scanErr
	}
	row := f.data[f.pos-1]
	*dest[0].(*int64) = row[0].(int64)
	*dest[1].(*sql.NullString) = toNullString(row[1])
	*dest[2].(*sql.NullString) = toNullString(row[2])
	return nil
}

func (f *fakeRows) Err() error { return f.err }

func toNullString(v any) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: v.(string), Valid: true}
}

func TestScanAccounts(t *testing.T) {
	rs := &fakeRows{data: [][3]any{
		{int64(7), "100-1 ", "Blagajna"},
		{int64(8), nil, "No code"},
		{int64(12), "2040", nil},
	}}

	snap, err := scanAccounts(rs)
	require.NoError(t, err)

	assert.Equal(t, 2, snap.Len())
	assert.Equal(t, int64(7), snap.Codes["1001"])
	assert.Equal(t, AccountMeta{Code: "2040", Name: ""}, snap.Meta[12])
}

func TestScanAccounts_Errors(t *testing.T) {
	_, err := scanAccounts(&fakeRows{data: [][3]any{{int64(1), "1", "a"}}, scanErr: errors.New("bad column")})
	assert.ErrorContains(t, err, "bad column")

	_, err = scanAccounts(&fakeRows{err: errors.New("connection reset")})
	assert.ErrorContains(t, err, "connection reset")
}

func TestScanCompanies(t *testing.T) {
	rs := &fakeRows{data: [][3]any{
		{int64(1), "01", "Prvo preduzeće"},
		{int64(2), "02", nil},
	}}

	companies, err := scanCompanies(rs)
	require.NoError(t, err)
	assert.Equal(t, []Company{
		{ID: 1, Code: "01", Name: "Prvo preduzeće"},
		{ID: 2, Code: "02"},
	}, companies)
}

func TestBuildDSN_SQLServerWindowsAuth(t *testing.T) {
	dsn, err := BuildDSN(config.DirectoryConfig{
		Driver:      "sqlserver",
		Server:      "GTRS24MPP",
		Port:        1433,
		Database:    "mAS2",
		WindowsAuth: true,
		Username:    "sa",
		Password:    "secret",
		Timeout:     5 * time.Second,
	})
	require.NoError(t, err)

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "sqlserver", u.Scheme)
	assert.Equal(t, "GTRS24MPP:1433", u.Host)
	assert.Nil(t, u.User)
	assert.Equal(t, "mAS2", u.Query().Get("database"))
	assert.Equal(t, "disable", u.Query().Get("encrypt"))
	assert.Equal(t, "true", u.Query().Get("TrustServerCertificate"))
	assert.Equal(t, "5", u.Query().Get("connection timeout"))
}

func TestBuildDSN_SQLServerInstanceAndCredentials(t *testing.T) {
	dsn, err := BuildDSN(config.DirectoryConfig{
		Driver:   "sqlserver",
		Server:   "db.local",
		Instance: "SQLEXPRESS",
		Port:     1433,
		Username: "sa",
		Password: "p@ss",
	})
	require.NoError(t, err)

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "db.local", u.Host)
	assert.Equal(t, "/SQLEXPRESS", u.Path)
	require.NotNil(t, u.User)
	assert.Equal(t, "sa", u.User.Username())
	password, _ := u.User.Password()
	assert.Equal(t, "p@ss", password)
	assert.Equal(t, "5", u.Query().Get("connection timeout"))
}

func TestBuildDSN_Overrides(t *testing.T) {
	dsn, err := BuildDSN(config.DirectoryConfig{Driver: "pgx", DSN: "postgres://u@localhost/ledger"})
	require.NoError(t, err)
	assert.Equal(t, "postgres://u@localhost/ledger", dsn)

	_, err = BuildDSN(config.DirectoryConfig{Driver: "pgx"})
	assert.Error(t, err)

	_, err = BuildDSN(config.DirectoryConfig{Driver: "sqlserver"})
	assert.Error(t, err)

	_, err = BuildDSN(config.DirectoryConfig{Driver: "oracle", Server: "x"})
	assert.Error(t, err)
}

func TestDefaultQuery(t *testing.T) {
	assert.Equal(t, pgxAccountsQuery, defaultQuery("pgx", sqlServerAccountsQuery, pgxAccountsQuery))
	assert.Equal(t, sqlServerAccountsQuery, defaultQuery("sqlserver", sqlServerAccountsQuery, pgxAccountsQuery))
	assert.Contains(t, sqlServerAccountsQuery, "dbo.fk_kp_konto")
	assert.Contains(t, sqlServerCompaniesQuery, "ORDER BY sifra")
}
