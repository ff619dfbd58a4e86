package unsafe

import (
	"reflect"
	"unsafe"

	"github.com/coderi421/smallorm/orm/internal/errs"
	"github.com/coderi421/smallorm/orm/schema"
	"github.com/coderi421/smallorm/orm/valuer"
	"github.com/coderi421/smallorm/orm/value"
)

type unsafeValue struct {
	addr unsafe.Pointer // 使用 unsafe Pointer 而不是 uintptr 是因为 gc 后 uintptr 会发生变化
	meta *schema.Schema
	// writable 传进来的是结构体本身的时候，我们拿到的是副本，不允许写回
	writable bool
}

var _ valuer.Creator = NewUnsafeValue

// NewUnsafeValue reads fields through their offsets instead of reflection.
func NewUnsafeValue(val any, meta *schema.Schema) valuer.Value {
	rv := reflect.ValueOf(val)
	if rv.Kind() == reflect.Pointer {
		return unsafeValue{
			addr:     rv.UnsafePointer(),
			meta:     meta,
			writable: true,
		}
	}
	cp := reflect.New(rv.Type())
	cp.Elem().Set(rv)
	return unsafeValue{
		addr: cp.UnsafePointer(),
		meta: meta,
	}
}

func (u unsafeValue) Field(name string) (any, bool) {
	fd, ok := u.meta.FieldMap[name]
	if !ok {
		return nil, false
	}
	ptr := unsafe.Add(u.addr, fd.Offset)
	return reflect.NewAt(fd.GoType, ptr).Elem().Interface(), true
}

func (u unsafeValue) SetColumns(row map[string]value.Value) error {
	if !u.writable {
		return errs.ErrNotAddressable
	}
	if len(row) > len(u.meta.ColumnMap) {
		return errs.ErrTooManyColumns
	}
	for col, v := range row {
		fd, ok := u.meta.ColumnMap[col]
		if !ok {
			return errs.NewErrUnknownColumn(col)
		}
		decoded, err := value.Decode(fd.Name, v, fd.GoType)
		if err != nil {
			return err
		}
		ptr := unsafe.Add(u.addr, fd.Offset)
		reflect.NewAt(fd.GoType, ptr).Elem().Set(decoded)
	}
	return nil
}
