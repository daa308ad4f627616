package repo

import (
	"errors"
	"strings"

	"bookit/pkg/apperrors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"

	mysqlDupEntry = 1062
	mysqlDeadlock = 1213
)

// translate maps driver errors onto apperrors kinds. AppErrors pass through.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.NewConflict("resource already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperrors.NewConflict("resource is still referenced")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperrors.NewConflict("resource already exists")
		case pgForeignKeyViolation:
			return apperrors.NewConflict("resource is still referenced")
		case pgExclusionViolation:
			return apperrors.NewConflict("time slot overlaps an existing booking")
		}
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDupEntry {
		return apperrors.NewConflict("resource already exists")
	}
	if isDupKey(err) {
		return apperrors.NewConflict("resource already exists")
	}
	return apperrors.NewInternal("storage failure", err)
}

func isDupKey(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate") || strings.Contains(s, "unique constraint")
}

// IsSerializationFailure reports whether the transaction lost a
// serialization race and may simply be rerun.
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDeadlock
}
