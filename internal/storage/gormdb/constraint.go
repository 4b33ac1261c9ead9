package gormdb

import (
	"errors"
	"strings"

	"github.com/jinzhu/gorm"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const pqUniqueViolation = "23505"

// uniqueViolation reports whether err carries a unique constraint violation from
// either backend, and the column it was raised on when the driver names one.
func uniqueViolation(err error) (column string, ok bool) {
	for _, e := range driverErrors(err) {
		var pqErr *pq.Error
		if errors.As(e, &pqErr) && pqErr.Code == pqUniqueViolation {
			return pqColumn(pqErr), true
		}

		var sqliteErr sqlite3.Error
		if errors.As(e, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return sqliteColumn(sqliteErr), true
		}
	}
	return "", false
}

// driverErrors flattens gorm.Errors, which gorm v1 uses to collect several
// errors and which does not unwrap.
func driverErrors(err error) []error {
	if err == nil {
		return nil
	}
	var errs gorm.Errors
	if errors.As(err, &errs) {
		return errs
	}
	return []error{err}
}

// pqColumn reads the column from a detail such as "Key (email)=(a@b.c) already exists.".
func pqColumn(err *pq.Error) string {
	if err.Column != "" {
		return err.Column
	}
	_, rest, found := strings.Cut(err.Detail, "Key (")
	if !found {
		return ""
	}
	column, _, found := strings.Cut(rest, ")")
	if !found {
		return ""
	}
	return column
}

// sqliteColumn reads the column from "UNIQUE constraint failed: users.email".
func sqliteColumn(err sqlite3.Error) string {
	_, target, found := strings.Cut(err.Error(), "constraint failed: ")
	if !found {
		return ""
	}
	target, _, _ = strings.Cut(target, ",")
	if i := strings.LastIndex(target, "."); i >= 0 {
		target = target[i+1:]
	}
	return strings.TrimSpace(target)
}
