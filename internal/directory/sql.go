package directory

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/ledger-import/internal/config"
	"github.com/rs/zerolog"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/microsoft/go-mssqldb"
)

// Default queries per driver. Each returns (id, code, name) rows.
const (
	sqlServerAccountsQuery  = "SELECT fk_kp_konto_id, CAST(Broj AS varchar(64)) AS Broj, CAST(Naziv AS varchar(255)) AS Naziv FROM dbo.fk_kp_konto"
	sqlServerCompaniesQuery = "SELECT cp_preduzece_id, CAST(sifra AS varchar(64)) AS sifra, CAST(naziv AS varchar(255)) AS naziv FROM dbo.cp_preduzece ORDER BY sifra"
	pgxAccountsQuery        = "SELECT fk_kp_konto_id, CAST(broj AS varchar(64)), CAST(naziv AS varchar(255)) FROM fk_kp_konto"
	pgxCompaniesQuery       = "SELECT cp_preduzece_id, CAST(sifra AS varchar(64)), CAST(naziv AS varchar(255)) FROM cp_preduzece ORDER BY sifra"
)

// DefaultTimeout bounds a directory operation when none is configured.
const DefaultTimeout = 5 * time.Second

// Provider supplies the external account directory snapshot.
type Provider interface {
	LoadAccounts(ctx context.Context) (*Snapshot, error)
}

// Company is a selectable company from the directory database.
type Company struct {
	ID   int64
	Code string
	Name string
}

// rows is the subset of *sql.Rows the scanners use.
type rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// =============================================================================
// SQL PROVIDER
// =============================================================================

// SQLProvider reads accounts and companies from a SQL Server or PostgreSQL
// database. Every operation opens its own connection bounded by the
// configured timeout and closes it before returning.
type SQLProvider struct {
	cfg    config.DirectoryConfig
	logger zerolog.Logger
	open   func(driver, dsn string) (*sql.DB, error)
}

var _ Provider = (*SQLProvider)(nil)

// NewSQLProvider creates a provider for the configured database.
func NewSQLProvider(cfg config.DirectoryConfig, logger zerolog.Logger) *SQLProvider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &SQLProvider{cfg: cfg, logger: logger, open: sql.Open}
}

// LoadAccounts loads the code->id and id->metadata tables. Rows whose code
// normalizes to "" are skipped.
func (p *SQLProvider) LoadAccounts(ctx context.Context) (*Snapshot, error) {
	query := p.cfg.AccountsQuery
	if query == "" {
		query = defaultQuery(p.cfg.Driver, sqlServerAccountsQuery, pgxAccountsQuery)
	}

	var snap *Snapshot
	err := p.withDB(ctx, func(ctx context.Context, db *sql.DB) error {
		p.logger.Debug().Str("query", query).Msg("loading accounts")

		rs, err := db.QueryContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to query accounts: %w", err)
		}
		defer rs.Close()

		snap, err = scanAccounts(rs)
		return err
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info().Int("accounts", snap.Len()).Msg("account directory loaded")
	return snap, nil
}

// LoadCompanies lists the companies orders can be booked for.
func (p *SQLProvider) LoadCompanies(ctx context.Context) ([]Company, error) {
	query := p.cfg.CompaniesQuery
	if query == "" {
		query = defaultQuery(p.cfg.Driver, sqlServerCompaniesQuery, pgxCompaniesQuery)
	}

	var companies []Company
	err := p.withDB(ctx, func(ctx context.Context, db *sql.DB) error {
		p.logger.Debug().Str("query", query).Msg("loading companies")

		rs, err := db.QueryContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to query companies: %w", err)
		}
		defer rs.Close()

		companies, err = scanCompanies(rs)
		return err
	})

	return companies, err
}

// Ping checks that the database is reachable.
func (p *SQLProvider) Ping(ctx context.Context) error {
	return p.withDB(ctx, func(ctx context.Context, db *sql.DB) error {
		return db.PingContext(ctx)
	})
}

func (p *SQLProvider) withDB(ctx context.Context, fn func(context.Context, *sql.DB) error) error {
	dsn, err := BuildDSN(p.cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	p.logger.Debug().
		Str("driver", p.cfg.Driver).
		Str("server", p.cfg.Server).
		Str("instance", p.cfg.Instance).
		Int("port", p.cfg.Port).
		Str("database", p.cfg.Database).
		Bool("windows_auth", p.cfg.WindowsAuth).
		Msg("opening directory connection")

	db, err := p.open(p.cfg.Driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s connection: %w", p.cfg.Driver, err)
	}
	defer db.Close()

	return fn(ctx, db)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// BuildDSN returns the connection string for the configured driver. An
// explicit DSN is returned unchanged.
//
// SQL SERVER:
//   A named instance takes precedence over the port. With WindowsAuth the
//   user is left out so the driver falls back to integrated authentication.
func BuildDSN(cfg config.DirectoryConfig) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}

	switch cfg.Driver {
	case "pgx":
		return "", fmt.Errorf("directory.dsn is required for the pgx driver")
	case "sqlserver", "":
	default:
		return "", fmt.Errorf("unknown directory driver %q", cfg.Driver)
	}

	if strings.TrimSpace(cfg.Server) == "" {
		return "", fmt.Errorf("directory.server is required")
	}

	u := &url.URL{Scheme: "sqlserver", Host: cfg.Server}
	switch {
	case cfg.Instance != "":
		u.Path = cfg.Instance
	case cfg.Port > 0:
		u.Host = net.JoinHostPort(cfg.Server, strconv.Itoa(cfg.Port))
	}

	if !cfg.WindowsAuth {
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	seconds := strconv.Itoa(int(timeout.Round(time.Second) / time.Second))

	q := url.Values{}
	if cfg.Database != "" {
		q.Set("database", cfg.Database)
	}
	q.Set("encrypt", "disable")
	q.Set("TrustServerCertificate", "true")
	q.Set("connection timeout", seconds)
	q.Set("dial timeout", seconds)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func defaultQuery(driver, sqlServer, pgx string) string {
	if driver == "pgx" {
		return pgx
	}
	return sqlServer
}

func scanAccounts(rs rows) (*Snapshot, error) {
	snap := NewSnapshot()
	for rs.Next() {
		var (
			id   int64
			code sql.NullString
			name sql.NullString
		)
		if err := rs.Scan(&id, &code, &name); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		snap.Add(strings.TrimSpace(code.String), id, name.String)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}
	return snap, nil
}

func scanCompanies(rs rows) ([]Company, error) {
	var companies []Company
	for rs.Next() {
		var (
			c    Company
			code sql.NullString
			name sql.NullString
		)
		if err := rs.Scan(&c.ID, &code, &name); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		c.Code = code.String
		c.Name = name.String
		companies = append(companies, c)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("failed to read companies: %w", err)
	}
	return companies, nil
}
