package value

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/coderi421/smallorm/orm/internal/errs"
)

// Kind 标记 Value 里面到底存的是哪一种数据
type Kind uint8

const (
	KindNull Kind = iota
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt32:
		return TagInt32
	case KindInt64:
		return TagInt64
	case KindFloat32:
		return TagFloat32
	case KindFloat64:
		return TagFloat64
	case KindString:
		return TagString
	default:
		return "null"
	}
}

// Value is the closed set of primitives the builder binds into statements.
// The zero Value is Null. Values are comparable, so == and assert.Equal work.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

var _ driver.Valuer = Value{}

func Null() Value { return Value{} }

func Int32(v int32) Value { return Value{kind: KindInt32, i: int64(v)} }

func Int64(v int64) Value { return Value{kind: KindInt64, i: v} }

func Float32(v float32) Value { return Value{kind: KindFloat32, f: float64(v)} }

func Float64(v float64) Value { return Value{kind: KindFloat64, f: v} }

func String(v string) Value { return Value{kind: KindString, s: v} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsInt32() (int32, bool) {
	return int32(v.i), v.kind == KindInt32
}

func (v Value) AsInt64() (int64, bool) {
	return v.i, v.kind == KindInt64
}

func (v Value) AsFloat32() (float32, bool) {
	return float32(v.f), v.kind == KindFloat32
}

func (v Value) AsFloat64() (float64, bool) {
	return v.f, v.kind == KindFloat64
}

func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// Any returns the Go native form: int32, int64, float32, float64, string or nil.
func (v Value) Any() any {
	switch v.kind {
	case KindInt32:
		return int32(v.i)
	case KindInt64:
		return v.i
	case KindFloat32:
		return float32(v.f)
	case KindFloat64:
		return v.f
	case KindString:
		return v.s
	default:
		return nil
	}
}

// Value implements driver.Valuer. database/sql only accepts int64 and float64,
// so the 32-bit variants widen here.
func (v Value) Value() (driver.Value, error) {
	switch v.kind {
	case KindInt32, KindInt64:
		return v.i, nil
	case KindFloat32, KindFloat64:
		return v.f, nil
	case KindString:
		return v.s, nil
	default:
		return nil, nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindInt32, KindInt64:
		return fmt.Sprintf("%s(%d)", v.kind, v.i)
	case KindFloat32, KindFloat64:
		return fmt.Sprintf("%s(%g)", v.kind, v.f)
	case KindString:
		return fmt.Sprintf("%s(%q)", v.kind, v.s)
	default:
		return "Null"
	}
}

// Of converts a clause argument into a Value.
// Go int is 64 bits wide and maps to Int64; the narrower signed ints map to Int32.
func Of(val any) (Value, error) {
	switch v := val.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case int8:
		return Int32(int32(v)), nil
	case int16:
		return Int32(int32(v)), nil
	case int32:
		return Int32(v), nil
	case int64:
		return Int64(v), nil
	case int:
		return Int64(int64(v)), nil
	case uint8:
		return Int32(int32(v)), nil
	case uint16:
		return Int32(int32(v)), nil
	case uint32:
		return Int64(int64(v)), nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return Value{}, errs.NewErrOutOfRange(v, TagInt64)
		}
		return Int64(int64(v)), nil
	case uint64:
		if v > math.MaxInt64 {
			return Value{}, errs.NewErrOutOfRange(v, TagInt64)
		}
		return Int64(int64(v)), nil
	case float32:
		return Float32(v), nil
	case float64:
		return Float64(v), nil
	case string:
		return String(v), nil
	case []byte:
		return String(string(v)), nil
	case *int32:
		if v == nil {
			return Null(), nil
		}
		return Int32(*v), nil
	case *int64:
		if v == nil {
			return Null(), nil
		}
		return Int64(*v), nil
	case *float32:
		if v == nil {
			return Null(), nil
		}
		return Float32(*v), nil
	case *float64:
		if v == nil {
			return Null(), nil
		}
		return Float64(*v), nil
	case *string:
		if v == nil {
			return Null(), nil
		}
		return String(*v), nil
	default:
		return Value{}, errs.NewErrUnsupportedValue(val)
	}
}

// FromDriver decodes a value produced by sql.Rows.Scan into a Value.
func FromDriver(src any) Value {
	switch v := src.(type) {
	case nil:
		return Null()
	case int64:
		return Int64(v)
	case int32:
		return Int32(v)
	case int:
		return Int64(int64(v))
	case uint64:
		if v > math.MaxInt64 {
			return String(strconv.FormatUint(v, 10))
		}
		return Int64(int64(v))
	case float64:
		return Float64(v)
	case float32:
		return Float32(v)
	case bool:
		if v {
			return Int64(1)
		}
		return Int64(0)
	case []byte:
		return String(string(v))
	case string:
		return String(v)
	case time.Time:
		return String(v.Format(time.RFC3339Nano))
	default:
		return String(fmt.Sprint(v))
	}
}
