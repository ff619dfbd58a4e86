package value

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/coderi421/smallorm/orm/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Age int32

func TestCoerce(t *testing.T) {
	name := "Tom"
	var nilName *string
	age := int32(18)

	testCases := []struct {
		name    string
		ref     any
		tag     string
		want    Value
		wantErr error
	}{
		{name: "int32", ref: int32(1), tag: TagInt32, want: Int32(1)},
		{name: "int64", ref: int64(1), tag: TagInt64, want: Int64(1)},
		{name: "float32", ref: float32(1.5), tag: TagFloat32, want: Float32(1.5)},
		{name: "float64", ref: 2.5, tag: TagFloat64, want: Float64(2.5)},
		{name: "string", ref: "Tom", tag: TagString, want: String("Tom")},
		{name: "named type", ref: Age(3), tag: TagInt32, want: Int32(3)},
		{name: "pointer", ref: &name, tag: TagString, want: String("Tom")},
		{name: "pointer int32", ref: &age, tag: TagInt32, want: Int32(18)},
		{name: "nil pointer", ref: nilName, tag: TagString, want: Null()},
		{name: "untyped nil", ref: nil, tag: TagString, want: Null()},
		{
			name:    "mismatch",
			ref:     int64(1),
			tag:     TagInt32,
			want:    Null(),
			wantErr: errs.NewErrTypeMismatch("f", TagInt32, int64(1)),
		},
		{
			name:    "pointer mismatch",
			ref:     &name,
			tag:     TagInt64,
			want:    Null(),
			wantErr: errs.NewErrTypeMismatch("f", TagInt64, &name),
		},
		{
			name:    "go int is not int64",
			ref:     1,
			tag:     TagInt64,
			want:    Null(),
			wantErr: errs.NewErrTypeMismatch("f", TagInt64, 1),
		},
		{
			name:    "unsupported tag",
			ref:     true,
			tag:     "bool",
			want:    Null(),
			wantErr: errs.NewErrUnsupportedType("f", "bool"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Coerce("f", tc.ref, tc.tag)
			assert.Equal(t, tc.wantErr, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCoerce_ErrorsAreClassified(t *testing.T) {
	_, err := Coerce("age", "x", TagInt32)
	assert.ErrorIs(t, err, errs.ErrTypeMismatch)
	var ce *errs.CoercionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "age", ce.Field)
	assert.Equal(t, "int32", ce.Expected)
	assert.Equal(t, "string", ce.Actual)

	_, err = Coerce("born", time.Now(), "time.Time")
	assert.ErrorIs(t, err, errs.ErrUnsupportedType)
}

func TestOf(t *testing.T) {
	s := "a"
	testCases := []struct {
		name    string
		val     any
		want    Value
		wantErr error
	}{
		{name: "nil", val: nil, want: Null()},
		{name: "value", val: Float64(1), want: Float64(1)},
		{name: "int8", val: int8(-1), want: Int32(-1)},
		{name: "int32", val: int32(1), want: Int32(1)},
		{name: "int", val: 1, want: Int64(1)},
		{name: "uint32", val: uint32(math.MaxUint32), want: Int64(math.MaxUint32)},
		{name: "float32", val: float32(0.5), want: Float32(0.5)},
		{name: "bytes", val: []byte("b"), want: String("b")},
		{name: "string pointer", val: &s, want: String("a")},
		{name: "nil pointer", val: (*int64)(nil), want: Null()},
		{
			name:    "uint64 overflow",
			val:     uint64(math.MaxUint64),
			wantErr: errs.NewErrOutOfRange(uint64(math.MaxUint64), TagInt64),
		},
		{
			name:    "struct",
			val:     struct{}{},
			wantErr: errs.NewErrUnsupportedValue(struct{}{}),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Of(tc.val)
			assert.Equal(t, tc.wantErr, err)
			if err != nil {
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValue_Driver(t *testing.T) {
	testCases := []struct {
		name string
		val  Value
		want any
	}{
		{name: "null", val: Null(), want: nil},
		{name: "int32 widens", val: Int32(7), want: int64(7)},
		{name: "float32 widens", val: Float32(0.5), want: 0.5},
		{name: "string", val: String("x"), want: "x"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.val.Value()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFromDriver(t *testing.T) {
	ts := time.Date(2023, 7, 1, 8, 0, 0, 0, time.UTC)
	testCases := []struct {
		name string
		src  any
		want Value
	}{
		{name: "nil", src: nil, want: Null()},
		{name: "int64", src: int64(3), want: Int64(3)},
		{name: "float64", src: 1.25, want: Float64(1.25)},
		{name: "bytes", src: []byte("abc"), want: String("abc")},
		{name: "bool", src: true, want: Int64(1)},
		{name: "time", src: ts, want: String("2023-07-01T08:00:00Z")},
		{name: "big uint", src: uint64(math.MaxUint64), want: String("18446744073709551615")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FromDriver(tc.src))
		})
	}
}

// Coerce 之后再 Decode 回去，应该拿到原来的值
func TestDecode_RoundTrip(t *testing.T) {
	name := "Tom"
	testCases := []struct {
		name string
		ref  any
		tag  string
	}{
		{name: "int32", ref: int32(-5), tag: TagInt32},
		{name: "int64", ref: int64(math.MaxInt64), tag: TagInt64},
		{name: "float32", ref: float32(1.25), tag: TagFloat32},
		{name: "float64", ref: math.Pi, tag: TagFloat64},
		{name: "string", ref: "hello", tag: TagString},
		{name: "pointer", ref: &name, tag: TagString},
		{name: "nil pointer", ref: (*string)(nil), tag: TagString},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := Coerce("f", tc.ref, tc.tag)
			require.NoError(t, err)
			got, err := Decode("f", v, reflect.TypeOf(tc.ref))
			require.NoError(t, err)
			assert.Equal(t, tc.ref, got.Interface())
		})
	}
}

func TestDecode(t *testing.T) {
	testCases := []struct {
		name    string
		val     Value
		typ     reflect.Type
		want    any
		wantErr error
	}{
		{name: "int64 to int32", val: Int64(5), typ: reflect.TypeOf(int32(0)), want: int32(5)},
		{name: "text to int", val: String("42"), typ: reflect.TypeOf(0), want: 42},
		{name: "decimal text to float", val: String("2.50"), typ: reflect.TypeOf(float64(0)), want: 2.5},
		{name: "integral float to int", val: Float64(3), typ: reflect.TypeOf(int64(0)), want: int64(3)},
		{name: "int to string", val: Int32(9), typ: reflect.TypeOf(""), want: "9"},
		{name: "int to bool", val: Int64(1), typ: reflect.TypeOf(false), want: true},
		{name: "null to int", val: Null(), typ: reflect.TypeOf(int32(0)), want: int32(0)},
		{
			name:    "fraction to int",
			val:     Float64(3.5),
			typ:     reflect.TypeOf(int64(0)),
			wantErr: errs.NewErrTypeMismatch("f", "int64", 3.5),
		},
		{
			name:    "float just past int64",
			val:     Float64(math.Exp2(63)),
			typ:     reflect.TypeOf(int64(0)),
			wantErr: errs.NewErrTypeMismatch("f", "int64", math.Exp2(63)),
		},
		{
			name: "float at int64 min",
			val:  Float64(-math.Exp2(63)),
			typ:  reflect.TypeOf(int64(0)),
			want: int64(math.MinInt64),
		},
		{
			name:    "negative to uint",
			val:     Int64(-1),
			typ:     reflect.TypeOf(uint8(0)),
			wantErr: errs.NewErrOutOfRange(int64(-1), "uint8"),
		},
		{
			name:    "struct target",
			val:     Int64(1),
			typ:     reflect.TypeOf(time.Time{}),
			wantErr: errs.NewErrUnsupportedType("f", "time.Time"),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode("f", tc.val, tc.typ)
			assert.Equal(t, tc.wantErr, err)
			if err != nil {
				return
			}
			assert.Equal(t, tc.want, got.Interface())
		})
	}
}

func TestTagOf(t *testing.T) {
	testCases := []struct {
		name         string
		typ          reflect.Type
		wantTag      string
		wantNullable bool
	}{
		{name: "int32", typ: reflect.TypeOf(int32(0)), wantTag: TagInt32},
		{name: "named", typ: reflect.TypeOf(Age(0)), wantTag: TagInt32},
		{name: "pointer", typ: reflect.TypeOf(new(float64)), wantTag: TagFloat64, wantNullable: true},
		{name: "int", typ: reflect.TypeOf(0), wantTag: "int"},
		{name: "time pointer", typ: reflect.TypeOf(&time.Time{}), wantTag: "*time.Time", wantNullable: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tag, nullable := TagOf(tc.typ)
			assert.Equal(t, tc.wantTag, tag)
			assert.Equal(t, tc.wantNullable, nullable)
			assert.Equal(t, tc.wantTag == TagInt32 || tc.wantTag == TagFloat64, Supported(tag))
		})
	}
}
