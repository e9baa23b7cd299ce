package repository

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var sqliteDialect = dialect{
	name:          "sqlite",
	driverName:    "sqlite",
	insertGameSQL: "INSERT INTO games (id, dimension_x, dimension_y) VALUES (?, ?, ?)",
	classify:      classifySQLite,
}

const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

// sqlitePath extracts the database name from "sqlite:<path>" or
// "sqlite://<path>". "file:" URIs are returned whole, since the driver only
// honours URI parameters such as mode=ro when the name keeps that prefix.
func sqlitePath(dsn string) (string, bool) {
	if strings.HasPrefix(dsn, "file:") {
		return dsn, true
	}
	for _, prefix := range []string{"sqlite://", "sqlite:"} {
		if strings.HasPrefix(dsn, prefix) {
			return strings.TrimPrefix(dsn, prefix), true
		}
	}
	return "", false
}

func sqliteDSN(name string) (string, error) {
	name = strings.TrimSpace(name)
	uri := strings.HasPrefix(name, "file:")
	path := strings.TrimPrefix(name, "file:")
	query := ""
	if i := strings.Index(path, "?"); i >= 0 {
		path, query = path[:i], path[i+1:]
	}
	if path == "" {
		return "", fmt.Errorf("sqlite path is required")
	}
	if uri {
		path = "file:" + path
	} else if path != ":memory:" {
		path = filepath.Clean(path)
	}
	if query != "" {
		return path + "?" + query + "&" + sqlitePragmas, nil
	}
	return path + "?" + sqlitePragmas, nil
}

// isInMemorySQLite reports whether a resolved sqlite DSN names a database
// that only exists inside its connection.
func isInMemorySQLite(dsn string) bool {
	path, query, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	if path == ":memory:" {
		return true
	}
	for _, param := range strings.Split(query, "&") {
		if param == "mode=memory" {
			return true
		}
	}
	return false
}

func classifySQLite(err error) (Kind, bool) {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
			return KindConflict, true
		}
		return KindQuery, false
	}
	code := sqliteErr.Code()
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return KindConflict, true
	}
	// extended result codes keep the primary code in the low byte
	switch code & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_IOERR:
		return KindUnavailable, true
	}
	return KindQuery, true
}
