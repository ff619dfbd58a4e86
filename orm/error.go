package orm

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/coderi421/smallorm/orm/internal/errs"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// 将内部的 sentinel error 暴露出去
var (
	ErrMalformedSchema    = errs.ErrMalformedSchema
	ErrUnknownField       = errs.ErrUnknownField
	ErrUnknownColumn      = errs.ErrUnknownColumn
	ErrTypeMismatch       = errs.ErrTypeMismatch
	ErrUnsupportedType    = errs.ErrUnsupportedType
	ErrUnsupportedValue   = errs.ErrUnsupportedValue
	ErrUnsupportedColumn  = errs.ErrUnsupportedColumn
	ErrEmptyValueSet      = errs.ErrEmptyValueSet
	ErrNilRecord          = errs.ErrNilRecord
	ErrNoUpdatedColumns   = errs.ErrNoUpdatedColumns
	ErrConnectionReleased = errs.ErrConnectionReleased
	ErrPanic              = errs.ErrPanic
	ErrCacheMiss          = errs.ErrCacheMiss

	// ErrMissingTable 每一次终结操作之后都要重新调用 Table
	ErrMissingTable = errs.ErrMissingTable
	// ErrEmptyResult 聚合函数没有拿到数据
	ErrEmptyResult = errs.ErrEmptyResult
)

type (
	CoercionError = errs.CoercionError
	ConnError     = errs.ConnError
	ConnErrKind   = errs.ConnErrKind
)

const (
	ConnErrOther        = errs.ConnErrOther
	ConnErrConnectivity = errs.ConnErrConnectivity
	ConnErrSyntax       = errs.ConnErrSyntax
	ConnErrConstraint   = errs.ConnErrConstraint
)

// connErr 把驱动返回的错误包装成 ConnError，已经包装过的原样返回
func connErr(err error) error {
	if err == nil {
		return nil
	}
	var ce *errs.ConnError
	if errors.As(err, &ce) {
		return err
	}
	return &errs.ConnError{Kind: classify(err), Err: err}
}

func classify(err error) errs.ConnErrKind {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.ConnErrConnectivity
	}

	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		// duplicate entry, foreign key, column cannot be null
		case 1062, 1451, 1452, 1048:
			return errs.ConnErrConstraint
		// syntax, unknown table, unknown column
		case 1064, 1146, 1054:
			return errs.ConnErrSyntax
		}
		return errs.ConnErrOther
	}

	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.Code {
		case sqlite3.ErrConstraint:
			return errs.ConnErrConstraint
		case sqlite3.ErrError:
			return errs.ConnErrSyntax
		case sqlite3.ErrCantOpen, sqlite3.ErrBusy, sqlite3.ErrLocked:
			return errs.ConnErrConnectivity
		}
		return errs.ConnErrOther
	}

	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		switch {
		case strings.HasPrefix(pe.Code, "23"):
			return errs.ConnErrConstraint
		case strings.HasPrefix(pe.Code, "42"):
			return errs.ConnErrSyntax
		case strings.HasPrefix(pe.Code, "08"):
			return errs.ConnErrConnectivity
		}
		return errs.ConnErrOther
	}

	var ne net.Error
	if errors.As(err, &ne) {
		return errs.ConnErrConnectivity
	}
	return errs.ConnErrOther
}
