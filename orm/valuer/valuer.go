package valuer

import (
	"github.com/coderi421/smallorm/orm/schema"
	"github.com/coderi421/smallorm/orm/value"
)

// Value 是对结构体实例的抽象，引擎通过它读写字段，不需要知道具体的类型
type Value interface {
	// Field returns the current value of the named field without copying it
	// into a database value. Names outside the schema report false.
	Field(name string) (any, bool)
	// SetColumns 把一行数据按照列名写回结构体
	SetColumns(row map[string]value.Value) error
}

// Creator 本质上也可以看所是 factory 模式，极其简单的 factory 模式
type Creator func(val any, s *schema.Schema) Value
