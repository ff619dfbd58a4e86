package value

import (
	"math"
	"reflect"
	"strconv"

	"github.com/coderi421/smallorm/orm/internal/errs"
)

// 字段声明的类型标记，schema 推导和数据库建表都用这一组
const (
	TagInt32   = "int32"
	TagInt64   = "int64"
	TagFloat32 = "float32"
	TagFloat64 = "float64"
	TagString  = "string"
)

var tagKinds = map[string]reflect.Kind{
	TagInt32:   reflect.Int32,
	TagInt64:   reflect.Int64,
	TagFloat32: reflect.Float32,
	TagFloat64: reflect.Float64,
	TagString:  reflect.String,
}

// Supported reports whether the tag is one Coerce knows how to bind.
func Supported(tag string) bool {
	_, ok := tagKinds[tag]
	return ok
}

// TagOf returns the declared type tag of a struct field type.
// A pointer to a supported kind keeps the element's tag and is nullable.
// Everything else falls back to the Go type string, e.g. "int" or "time.Time".
func TagOf(typ reflect.Type) (tag string, nullable bool) {
	if typ.Kind() == reflect.Pointer {
		if t, ok := kindTag(typ.Elem().Kind()); ok {
			return t, true
		}
		return typ.String(), true
	}
	if t, ok := kindTag(typ.Kind()); ok {
		return t, false
	}
	return typ.String(), false
}

func kindTag(k reflect.Kind) (string, bool) {
	for tag, kind := range tagKinds {
		if kind == k {
			return tag, true
		}
	}
	return "", false
}

// Coerce turns an opaque field reference into a Value according to the field's
// declared type tag. The reference must hold exactly that kind (named types
// such as `type Age int32` are accepted); a nil pointer becomes Null.
func Coerce(field string, ref any, tag string) (Value, error) {
	want, ok := tagKinds[tag]
	if !ok {
		return Null(), errs.NewErrUnsupportedType(field, tag)
	}

	rv := reflect.ValueOf(ref)
	if !rv.IsValid() {
		return Null(), nil
	}
	if rv.Kind() == reflect.Pointer {
		if rv.Type().Elem().Kind() != want {
			return Null(), errs.NewErrTypeMismatch(field, tag, ref)
		}
		if rv.IsNil() {
			return Null(), nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != want {
		return Null(), errs.NewErrTypeMismatch(field, tag, ref)
	}

	switch want {
	case reflect.Int32:
		return Int32(int32(rv.Int())), nil
	case reflect.Int64:
		return Int64(rv.Int()), nil
	case reflect.Float32:
		return Float32(float32(rv.Float())), nil
	case reflect.Float64:
		return Float64(rv.Float()), nil
	default:
		return String(rv.String()), nil
	}
}

// Decode is the inverse of Coerce: it builds a reflect.Value of typ from v.
// Null decodes to the zero value (nil for pointers). Drivers that hand back
// numbers as text are handled by parsing the string.
func Decode(field string, v Value, typ reflect.Type) (reflect.Value, error) {
	if typ.Kind() == reflect.Pointer {
		if v.IsNull() {
			return reflect.Zero(typ), nil
		}
		elem, err := Decode(field, v, typ.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(typ.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	}

	out := reflect.New(typ).Elem()
	if v.IsNull() {
		return out, nil
	}

	switch typ.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := v.toInt64()
		if !ok {
			return reflect.Value{}, errs.NewErrTypeMismatch(field, typ.String(), v.Any())
		}
		if out.OverflowInt(n) {
			return reflect.Value{}, errs.NewErrOutOfRange(n, typ.String())
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := v.toInt64()
		if !ok {
			return reflect.Value{}, errs.NewErrTypeMismatch(field, typ.String(), v.Any())
		}
		if n < 0 || out.OverflowUint(uint64(n)) {
			return reflect.Value{}, errs.NewErrOutOfRange(n, typ.String())
		}
		out.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		f, ok := v.toFloat64()
		if !ok {
			return reflect.Value{}, errs.NewErrTypeMismatch(field, typ.String(), v.Any())
		}
		if out.OverflowFloat(f) {
			return reflect.Value{}, errs.NewErrOutOfRange(f, typ.String())
		}
		out.SetFloat(f)
	case reflect.Bool:
		n, ok := v.toInt64()
		if !ok {
			return reflect.Value{}, errs.NewErrTypeMismatch(field, typ.String(), v.Any())
		}
		out.SetBool(n != 0)
	case reflect.String:
		out.SetString(v.text())
	default:
		return reflect.Value{}, errs.NewErrUnsupportedType(field, typ.String())
	}
	return out, nil
}

func (v Value) toInt64() (int64, bool) {
	switch v.kind {
	case KindInt32, KindInt64:
		return v.i, true
	case KindFloat32, KindFloat64:
		if v.f != math.Trunc(v.f) || v.f >= math.MaxInt64 || v.f < math.MinInt64 {
			return 0, false
		}
		return int64(v.f), true
	case KindString:
		if n, err := strconv.ParseInt(v.s, 10, 64); err == nil {
			return n, true
		}
		f, err := strconv.ParseFloat(v.s, 64)
		if err != nil {
			return 0, false
		}
		return Float64(f).toInt64()
	default:
		return 0, false
	}
}

func (v Value) toFloat64() (float64, bool) {
	switch v.kind {
	case KindInt32, KindInt64:
		return float64(v.i), true
	case KindFloat32, KindFloat64:
		return v.f, true
	case KindString:
		f, err := strconv.ParseFloat(v.s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func (v Value) text() string {
	switch v.kind {
	case KindInt32, KindInt64:
		return strconv.FormatInt(v.i, 10)
	case KindFloat32:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return v.s
	}
}
