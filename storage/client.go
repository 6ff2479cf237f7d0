package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var (
	ErrInvalidConfiguration     = errors.New("invalid configuration")
	ErrDatabaseFailure          = errors.New("database returned an error")
	ErrNotEnoughSQLMigrations   = errors.New("already more migrations than wanted")
	ErrIncompatibleSQLMigration = errors.New("incompatible migration")
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver     string
	PGHostname string
	PGPort     string
	PGDBName   string
	PGUser     string
	PGPassword string
	SQLitePath string
}

type dialect struct {
	migrationTable string
	placeholder    func(n int) string
}

var dialects = map[string]dialect{
	DriverPostgres: {
		migrationTable: `CREATE TABLE IF NOT EXISTS migration
		(id SERIAL PRIMARY KEY, query TEXT)`,
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	},
	DriverSQLite: {
		migrationTable: `CREATE TABLE IF NOT EXISTS migration
		(id INTEGER PRIMARY KEY AUTOINCREMENT, query TEXT)`,
		placeholder: func(int) string { return "?" },
	},
}

type Client struct {
	db      *sql.DB
	dialect dialect
}

func NewClient(cfg *Config) (*Client, error) {
	d, ok := dialects[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("%w: unknown driver %q", ErrInvalidConfiguration, cfg.Driver)
	}

	var dsn string
	switch cfg.Driver {
	case DriverPostgres:
		dsn = fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
			cfg.PGHostname, cfg.PGPort, cfg.PGDBName,
			cfg.PGUser, cfg.PGPassword)
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("%w: missing sqlite path", ErrInvalidConfiguration)
		}
		dsn = cfg.SQLitePath
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	if cfg.Driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	c := &Client{db: db, dialect: d}

	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return c, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) DB() *sql.DB {
	return c.db
}

func (c *Client) migrate() error {
	if _, err := c.db.Exec(c.dialect.migrationTable); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseFailure, err)
	}

	rows, err := c.db.Query(`SELECT query FROM migration ORDER BY id`)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseFailure, err)
	}
	var existing []string
	for rows.Next() {
		var query string
		if err := rows.Scan(&query); err != nil {
			rows.Close()
			return fmt.Errorf("%w: %v", ErrDatabaseFailure, err)
		}
		existing = append(existing, query)
	}
	rows.Close()

	missing, err := compareMigrations(migrations, existing)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseFailure, err)
	}

	for _, query := range missing {
		if _, err := c.db.Exec(query); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseFailure, err)
		}

		insert := fmt.Sprintf(`INSERT INTO migration (query) VALUES (%s)`, c.dialect.placeholder(1))
		if _, err := c.db.Exec(insert, query); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseFailure, err)
		}
	}

	return nil
}

func compareMigrations(wanted, existing []string) ([]string, error) {
	var needed []string
	if len(wanted) < len(existing) {
		return nil, ErrNotEnoughSQLMigrations
	}

	for i, want := range wanted {
		switch {
		case i >= len(existing):
			needed = append(needed, want)
		case want == existing[i]:
			// do nothing
		case want != existing[i]:
			return nil, fmt.Errorf("%w: %v", ErrIncompatibleSQLMigration, want)
		}
	}

	return needed, nil
}
