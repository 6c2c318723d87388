package store

import (
	"errors"

	"hr_records/types"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// TranslateError maps constraint violations to validation errors and wraps
// everything else as a store error. Nil and already classified errors pass through.
func TranslateError(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *types.Error
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return types.Validation("a record with the same unique value already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return types.Validation("referenced record does not exist or is still in use")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return types.Validation("a record with the same unique value already exists")
		case "23503":
			return types.Validation("referenced record does not exist or is still in use")
		}
	}

	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1062:
			return types.Validation("a record with the same unique value already exists")
		case 1451, 1452:
			return types.Validation("referenced record does not exist or is still in use")
		}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return types.Validation("a record with the same unique value already exists")
		case sqlite3.ErrConstraintForeignKey:
			return types.Validation("referenced record does not exist or is still in use")
		}
	}

	return types.Store(op, err)
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
