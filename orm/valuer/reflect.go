package valuer

import (
	"reflect"

	"github.com/coderi421/smallorm/orm/internal/errs"
	"github.com/coderi421/smallorm/orm/schema"
	"github.com/coderi421/smallorm/orm/value"
)

// reflectValue 基于反射的 Value
type reflectValue struct {
	val  reflect.Value
	meta *schema.Schema
}

var _ Creator = NewReflectValue

// NewReflectValue 返回一个封装好的，基于反射实现的 Value
// 读字段的时候 val 可以是结构体或者结构体指针，写回的时候必须是指针
func NewReflectValue(val any, meta *schema.Schema) Value {
	rv := reflect.ValueOf(val)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	return reflectValue{
		val:  rv,
		meta: meta,
	}
}

func (r reflectValue) Field(name string) (any, bool) {
	fd, ok := r.meta.FieldMap[name]
	if !ok {
		return nil, false
	}
	return r.val.Field(fd.Index).Interface(), true
}

// SetColumns 将数据库中的数据设置到对应的 struct 上
func (r reflectValue) SetColumns(row map[string]value.Value) error {
	if !r.val.CanSet() {
		return errs.ErrNotAddressable
	}
	if len(row) > len(r.meta.ColumnMap) {
		return errs.ErrTooManyColumns
	}
	for col, v := range row {
		fd, ok := r.meta.ColumnMap[col]
		if !ok {
			return errs.NewErrUnknownColumn(col)
		}
		decoded, err := value.Decode(fd.Name, v, fd.GoType)
		if err != nil {
			return err
		}
		r.val.Field(fd.Index).Set(decoded)
	}
	return nil
}
