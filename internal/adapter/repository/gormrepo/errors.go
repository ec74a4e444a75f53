package gormrepo

import (
	"errors"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUndefinedColumn  = "42703"
	mysqlBadFieldError = 1054
	sqliteNoSuchColumn = "no such column"
)

// isUndefinedColumn reports whether the driver rejected a statement because
// a referenced column does not exist.
func isUndefinedColumn(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedColumn
	}
	var myErr *mysqldrv.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlBadFieldError
	}
	return strings.Contains(strings.ToLower(err.Error()), sqliteNoSuchColumn)
}
