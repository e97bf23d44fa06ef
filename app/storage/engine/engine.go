// Package engine provides a thin wrapper around sqlx.DB aware of the database dialect.
// It keeps the group id for multi-group storage in a shared database and adopts
// queries to the concrete engine type.
package engine

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // postgres driver loaded here
	_ "modernc.org/sqlite" // sqlite driver loaded here
)

// Type is a type of database engine
type Type string

// enum of supported database engines
const (
	Unknown  Type = ""
	Sqlite   Type = "sqlite"
	Postgres Type = "postgres"
)

// SQL is a wrapper for sqlx.DB with type.
// Type allows distinguishing between different database engines.
type SQL struct {
	sqlx.DB
	gid    string // group id, to allow per-group storage in the same database
	dbType Type   // type of the database engine
}

// New creates a new database engine from a connection URL, detecting the type by its shape.
// Anything looking like a file path or sqlite URI makes a sqlite engine, postgres:// makes postgres.
func New(ctx context.Context, connURL, gid string) (*SQL, error) {
	if connURL == "" {
		return &SQL{}, fmt.Errorf("connection URL is empty")
	}

	switch {
	case connURL == ":memory:":
		return NewSqlite(connURL, gid)
	case strings.HasPrefix(connURL, "sqlite://"):
		return NewSqlite(strings.TrimPrefix(connURL, "sqlite://"), gid)
	case strings.HasPrefix(connURL, "file://"):
		return NewSqlite(strings.TrimPrefix(connURL, "file://"), gid)
	case strings.HasPrefix(connURL, "file:"):
		return NewSqlite(strings.TrimPrefix(connURL, "file:"), gid)
	case strings.HasSuffix(connURL, ".sqlite") || strings.HasSuffix(connURL, ".db"):
		return NewSqlite(connURL, gid)
	case strings.HasPrefix(connURL, "postgres://"):
		res, err := NewPostgres(ctx, connURL, gid)
		if err != nil {
			return &SQL{}, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return res, nil
	default:
		return &SQL{}, fmt.Errorf("unsupported database type in connection URL %q", connURL)
	}
}

// NewSqlite creates a new sqlite database
func NewSqlite(file, gid string) (*SQL, error) {
	db, err := sqlx.Connect("sqlite", file)
	if err != nil {
		return &SQL{}, err
	}
	if err := setSqlitePragma(db); err != nil {
		return &SQL{}, err
	}
	return &SQL{DB: *db, gid: gid, dbType: Sqlite}, nil
}

// NewPostgres creates a new postgres database. If the database from the connection URL
// doesn't exist yet, it is created first via the system postgres database.
func NewPostgres(ctx context.Context, connURL, gid string) (*SQL, error) {
	u, err := url.Parse(connURL)
	if err != nil {
		return &SQL{}, fmt.Errorf("invalid postgres connection url: %w", err)
	}
	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return &SQL{}, fmt.Errorf("database name not specified in connection url")
	}

	// connect to the system database to check for the target and create it if missing
	sysURL := *u
	sysURL.Path = "/postgres"
	sysDB, err := sqlx.ConnectContext(ctx, "postgres", sysURL.String())
	if err != nil {
		return &SQL{}, fmt.Errorf("failed to connect to system database: %w", err)
	}
	defer sysDB.Close()

	var exists bool
	err = sysDB.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", dbName)
	if err != nil {
		return &SQL{}, fmt.Errorf("failed to check database existence: %w", err)
	}
	if !exists {
		if _, err := sysDB.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE %q", dbName)); err != nil {
			return &SQL{}, fmt.Errorf("failed to create database %s: %w", dbName, err)
		}
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", connURL)
	if err != nil {
		return &SQL{}, fmt.Errorf("failed to connect to %s: %w", dbName, err)
	}
	return &SQL{DB: *db, gid: gid, dbType: Postgres}, nil
}

// GID returns the group id
func (e *SQL) GID() string {
	return e.gid
}

// Type returns the database engine type
func (e *SQL) Type() Type {
	return e.dbType
}

// MakeLock creates a new lock for the database engine
func (e *SQL) MakeLock() RWLocker {
	if e.dbType == Sqlite {
		return new(sync.RWMutex) // sqlite need locking
	}
	return &NoopLocker{} // other engines don't need locking
}

// Adopt translates a query to the engine's dialect. Queries are written with sqlite-style ?
// placeholders, for postgres they are rewritten to positional $1, $2 and so on.
// Question marks inside single-quoted string literals are kept as is.
func (e *SQL) Adopt(query string) string {
	if e.dbType != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query))
	inLiteral, pos := false, 0
	for _, r := range query {
		if r == '\'' {
			inLiteral = !inLiteral
		}
		if r == '?' && !inLiteral {
			pos++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(pos))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func setSqlitePragma(db *sqlx.DB) error {
	// busy_timeout makes concurrent writers wait instead of failing with SQLITE_BUSY
	pragmas := map[string]string{
		"busy_timeout": "5000",
	}
	for name, value := range pragmas {
		if _, err := db.Exec("PRAGMA " + name + " = " + value); err != nil {
			return err
		}
	}
	return nil
}

// TableConfig describes a table managed by InitTable
type TableConfig struct {
	Name          string
	CreateTable   DBCmd
	CreateIndexes DBCmd
	MigrateFunc   func(ctx context.Context, tx *sqlx.Tx, gid string) error
	QueriesMap    *QueryMap
}

// InitTable creates a table with its indexes and runs the migration, all in a single transaction
func InitTable(ctx context.Context, db *SQL, cfg TableConfig) error {
	if db == nil {
		return fmt.Errorf("db connection is nil")
	}

	createSchema, err := cfg.QueriesMap.Pick(db.Type(), cfg.CreateTable)
	if err != nil {
		return fmt.Errorf("failed to get create table query for %s: %w", cfg.Name, err)
	}
	createIndexes, err := cfg.QueriesMap.Pick(db.Type(), cfg.CreateIndexes)
	if err != nil {
		return fmt.Errorf("failed to get create indexes query for %s: %w", cfg.Name, err)
	}

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, createSchema); err != nil {
		return fmt.Errorf("failed to create %s table: %w", cfg.Name, err)
	}
	if _, err := tx.ExecContext(ctx, createIndexes); err != nil {
		return fmt.Errorf("failed to create %s indexes: %w", cfg.Name, err)
	}
	if cfg.MigrateFunc != nil {
		if err := cfg.MigrateFunc(ctx, tx, db.GID()); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", cfg.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
