package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedSchema 只支持具名字段的结构体，或者一级指针
	ErrMalformedSchema = errors.New("orm: malformed schema, only struct or pointer to struct with named fields is supported")

	ErrUnknownField       = errors.New("orm: unknown field")
	ErrUnknownColumn      = errors.New("orm: unknown column")
	ErrInvalidTagContent  = errors.New("orm: invalid tag content")
	ErrTypeMismatch       = errors.New("orm: type mismatch")
	ErrUnsupportedType    = errors.New("orm: unsupported type")
	ErrUnsupportedValue   = errors.New("orm: unsupported value")
	ErrUnsupportedColumn  = errors.New("orm: unsupported column type")
	ErrEmptyValueSet      = errors.New("orm: IN requires at least one value")
	ErrOutOfRange         = errors.New("orm: value out of range")
	ErrNilRecord          = errors.New("orm: record is nil")
	ErrNotAddressable     = errors.New("orm: writing columns back requires a pointer to struct")
	ErrPanic              = errors.New("orm: connection panicked")
	ErrUnknownDialect     = errors.New("orm: unknown dialect")
	ErrTooManyColumns     = errors.New("orm: too many returned columns")
	ErrNoUpdatedColumns   = errors.New("orm: no updated columns")
	ErrStatementMismatch  = errors.New("orm: statement was not prepared by this connection")
	ErrConnectionReleased = errors.New("orm: connection already closed")
	ErrCacheMiss          = errors.New("orm: column cache miss")
	// ErrColumnCountMismatch describe 出来的列和查询返回的列数量对不上
	ErrColumnCountMismatch = errors.New("orm: described columns do not match the returned row")

	// ErrMissingTable 每一次终结操作都会清空 table，所以每次都要先调用 Table
	ErrMissingTable = errors.New("orm: missing table, call Table before every operation")

	// ErrEmptyResult 聚合函数没有拿到任何数据
	ErrEmptyResult = errors.New("orm: empty result")
)

func NewErrMalformedSchema(detail string) error {
	return fmt.Errorf("%w: %s", ErrMalformedSchema, detail)
}

func NewErrUnknownField(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownField, name)
}

func NewErrUnknownColumn(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownColumn, name)
}

func NewErrInvalidTagContent(pair string) error {
	return fmt.Errorf("%w: %s", ErrInvalidTagContent, pair)
}

func NewErrUnsupportedValue(val any) error {
	return fmt.Errorf("%w: %T", ErrUnsupportedValue, val)
}

func NewErrUnsupportedColumnType(field, tag string) error {
	return fmt.Errorf("%w: field %s has type %s", ErrUnsupportedColumn, field, tag)
}

func NewErrEmptyValueSet(field string) error {
	return fmt.Errorf("%w: %s", ErrEmptyValueSet, field)
}

func NewErrOutOfRange(val any, target string) error {
	return fmt.Errorf("%w: %v does not fit %s", ErrOutOfRange, val, target)
}

func NewErrPanic(r any) error {
	return fmt.Errorf("%w: %v", ErrPanic, r)
}

func NewErrUnknownDialect(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownDialect, name)
}

// CoercionError 字段值无法按照声明的类型转换成数据库可以绑定的值
type CoercionError struct {
	Field    string
	Expected string
	Actual   string
	// Err 是 ErrTypeMismatch 或者 ErrUnsupportedType
	Err error
}

func (e *CoercionError) Error() string {
	if errors.Is(e.Err, ErrUnsupportedType) {
		return fmt.Sprintf("%v: field %s declared as %s", e.Err, e.Field, e.Expected)
	}
	return fmt.Sprintf("%v: field %s expected %s, got %s", e.Err, e.Field, e.Expected, e.Actual)
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}

func NewErrTypeMismatch(field, expected string, actual any) error {
	return &CoercionError{
		Field:    field,
		Expected: expected,
		Actual:   fmt.Sprintf("%T", actual),
		Err:      ErrTypeMismatch,
	}
}

func NewErrUnsupportedType(field, tag string) error {
	return &CoercionError{
		Field:    field,
		Expected: tag,
		Err:      ErrUnsupportedType,
	}
}

// ConnErrKind 数据库侧错误的大类
type ConnErrKind uint8

const (
	ConnErrOther ConnErrKind = iota
	ConnErrConnectivity
	ConnErrSyntax
	ConnErrConstraint
)

func (k ConnErrKind) String() string {
	switch k {
	case ConnErrConnectivity:
		return "connectivity"
	case ConnErrSyntax:
		return "syntax"
	case ConnErrConstraint:
		return "constraint"
	default:
		return "other"
	}
}

// ConnError wraps an error coming back from the Connection. The driver error
// stays reachable through errors.As.
type ConnError struct {
	Kind ConnErrKind
	Err  error
}

func (e *ConnError) Error() string {
	return fmt.Sprintf("orm: %s error: %v", e.Kind, e.Err)
}

func (e *ConnError) Unwrap() error {
	return e.Err
}
