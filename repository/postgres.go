package repository

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

var postgresDialect = dialect{
	name:          "postgres",
	driverName:    "postgres",
	insertGameSQL: "INSERT INTO games (id, dimension_x, dimension_y) VALUES ($1, $2, $3)",
	classify:      classifyPostgres,
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=") ||
		strings.Contains(dsn, "dbname=")
}

func classifyPostgres(err error) (Kind, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return KindQuery, false
	}
	switch {
	case pqErr.Code.Name() == "unique_violation":
		return KindConflict, true
	// connection_exception, insufficient_resources
	case pqErr.Code.Class() == "08", pqErr.Code.Class() == "53":
		return KindUnavailable, true
	// admin_shutdown, crash_shutdown, cannot_connect_now
	case pqErr.Code == "57P01", pqErr.Code == "57P02", pqErr.Code == "57P03":
		return KindUnavailable, true
	}
	return KindQuery, true
}
