package repository

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mapleleafu/games-service/repository/migrations"
)

const defaultQueryTimeout = 5 * time.Second

// dialect holds what differs between the supported SQL drivers.
type dialect struct {
	name          string
	driverName    string
	insertGameSQL string
	classify      func(error) (Kind, bool)
}

// Options configures the connection pool behind a Store.
type Options struct {
	DSN             string
	ConnectTimeout  time.Duration
	QueryTimeout    time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Logger          zerolog.Logger
}

// Open builds the shared connection pool, checks that the store answers and
// makes sure the schema exists. The returned Store is safe for concurrent use.
func Open(ctx context.Context, opts Options) (*Store, error) {
	d, dsn, err := resolveDialect(opts.DSN)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", d.name, err)
	}

	configurePool(sqlDB, opts, d.name == sqliteDialect.name && isInMemorySQLite(dsn))

	if opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.ConnectTimeout)
		defer cancel()
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, classify("ping", d, err)
	}
	if err := ensureSchema(ctx, sqlDB, migrations.FS); err != nil {
		sqlDB.Close()
		return nil, classify("ensure schema", d, err)
	}

	queryTimeout := opts.QueryTimeout
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}

	opts.Logger.Info().Str("driver", d.name).Msg("Successfully connected to the database")

	return &Store{
		sqlDB:        sqlDB,
		dialect:      d,
		queryTimeout: queryTimeout,
		logger:       opts.Logger,
	}, nil
}

// configurePool applies the pool options. Zero values keep the database/sql
// defaults. An in-memory SQLite database lives only as long as its single
// connection, so that connection is never closed by the pool.
func configurePool(sqlDB *sql.DB, opts Options, inMemory bool) {
	if inMemory {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
		return
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
}

func resolveDialect(dsn string) (dialect, string, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return dialect{}, "", fmt.Errorf("connection string is required")
	}
	if path, ok := sqlitePath(dsn); ok {
		sqliteConn, err := sqliteDSN(path)
		if err != nil {
			return dialect{}, "", err
		}
		return sqliteDialect, sqliteConn, nil
	}
	if isPostgresDSN(dsn) {
		return postgresDialect, dsn, nil
	}
	return dialect{}, "", fmt.Errorf("unsupported connection string: expected postgres:// or sqlite: prefix")
}

// ensureSchema runs every embedded .sql file in name order. The files only
// use IF NOT EXISTS statements, so running them on every start is safe.
func ensureSchema(ctx context.Context, sqlDB *sql.DB, schemaFS fs.FS) error {
	entries, err := fs.ReadDir(schemaFS, ".")
	if err != nil {
		return fmt.Errorf("read schema dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := fs.ReadFile(schemaFS, file)
		if err != nil {
			return fmt.Errorf("read schema %s: %w", file, err)
		}
		if strings.TrimSpace(string(content)) == "" {
			continue
		}
		if _, err := sqlDB.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("apply schema %s: %w", file, err)
		}
	}
	return nil
}
