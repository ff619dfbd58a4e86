package schema

import "reflect"

// Field 字段相关的属性
type Field struct {
	// Name 经过命名转换之后的字段名，也是 Accessor 查找字段时用的名字
	Name string
	// Ordinal 在保留下来的字段里面的下标，从 0 开始，连续
	Ordinal int
	// Type 声明的类型标记，例如 int32, string
	Type string
	// Column 数据库中的列名
	Column string
	// Tag 原始的 orm 标签内容
	Tag string
	// Nullable 字段是指针，nil 对应 NULL
	Nullable bool

	GoName string       // go struct 中的名字
	GoType reflect.Type // go 中的数据类型，反射回写的时候需要
	Index  int          // 在结构体里面的下标，包含被跳过的字段
	// Offset 相对于对象起始地址的字段偏移量
	Offset uintptr
}

// Schema is the persisted shape of a record type. FieldNames keeps
// declaration order with skipped fields removed; FieldMap and ColumnMap hold
// exactly the same fields keyed by name and by column.
type Schema struct {
	FieldNames []string
	FieldMap   map[string]*Field
	ColumnMap  map[string]*Field
}

// Fields returns the fields in ordinal order.
func (s *Schema) Fields() []*Field {
	res := make([]*Field, 0, len(s.FieldNames))
	for _, name := range s.FieldNames {
		res = append(res, s.FieldMap[name])
	}
	return res
}

// Columns returns the column names in ordinal order.
func (s *Schema) Columns() []string {
	res := make([]string, 0, len(s.FieldNames))
	for _, name := range s.FieldNames {
		res = append(res, s.FieldMap[name].Column)
	}
	return res
}

// 我们支持的全部标签上的 key 都放在这里
// 方便用户查找，和我们后期维护
const (
	tagORMName   = "orm"
	tagKeyColumn = "column"
	tagKeySkip   = "skip"
	tagSkipShort = "-"
)

// NameTransformer 用户实现这个接口来声明字段名的转换规则
// 返回空切片表示字段名保持 go 里面的原样
type NameTransformer interface {
	NameTransforms() []NameTransform
}
