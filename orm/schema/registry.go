package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/coderi421/smallorm/orm/internal/errs"
	"github.com/coderi421/smallorm/orm/value"
	lru "github.com/hashicorp/golang-lru"
)

const defaultCapacity = 128

// Registry 元数据注册中心，按照类型缓存推导出来的 Schema
type Registry interface {
	Get(val any) (*Schema, error)
	Register(val any, opts ...Option) (*Schema, error)
}

// Option adjusts a single derivation.
type Option func(c *config)

type config struct {
	transforms []NameTransform
	columns    [][2]string
}

// WithNameTransforms replaces the naming-transform directives for this
// derivation. Calling it with no arguments keeps the Go field names as-is.
func WithNameTransforms(ts ...NameTransform) Option {
	return func(c *config) {
		c.transforms = ts
	}
}

// WithColumnName 修改某个字段对应的列名，field 是转换之后的字段名
func WithColumnName(field, column string) Option {
	return func(c *config) {
		c.columns = append(c.columns, [2]string{field, column})
	}
}

type RegistryOption func(r *registry)

// WithCapacity bounds how many record types the registry keeps.
func WithCapacity(n int) RegistryOption {
	return func(r *registry) {
		r.capacity = n
	}
}

// WithDefaultTransforms sets the directives used when neither the call site
// nor the record type declares any. The default is SnakeCase.
func WithDefaultTransforms(ts ...NameTransform) RegistryOption {
	return func(r *registry) {
		r.transforms = ts
	}
}

// registry 并发安全，lru.Cache 内部有锁
type registry struct {
	models     *lru.Cache
	capacity   int
	transforms []NameTransform
}

func NewRegistry(opts ...RegistryOption) Registry {
	r := &registry{
		capacity:   defaultCapacity,
		transforms: []NameTransform{SnakeCase},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.capacity <= 0 {
		r.capacity = defaultCapacity
	}
	// 只有 size <= 0 的时候才会返回 error
	r.models, _ = lru.New(r.capacity)
	return r
}

// Get 查找元数据模型，没有的话就推导一次并且缓存起来
func (r *registry) Get(val any) (*Schema, error) {
	typ, err := structType(val)
	if err != nil {
		return nil, err
	}
	if m, ok := r.models.Get(typ); ok {
		return m.(*Schema), nil
	}
	return r.Register(val)
}

// Register derives the schema with the given options and replaces whatever
// the registry held for that type.
func (r *registry) Register(val any, opts ...Option) (*Schema, error) {
	typ, err := structType(val)
	if err != nil {
		return nil, err
	}
	s, err := derive(val, r.transforms, opts)
	if err != nil {
		return nil, err
	}
	r.models.Add(typ, s)
	return s, nil
}

// Derive builds the schema of a record without caching it. val must be a
// struct or a pointer to a struct.
func Derive(val any, opts ...Option) (*Schema, error) {
	return derive(val, []NameTransform{SnakeCase}, opts)
}

// MustDerive is Derive for package-level schema tables; it panics on an
// unsupported record shape.
func MustDerive(val any, opts ...Option) *Schema {
	s, err := Derive(val, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func structType(val any) (reflect.Type, error) {
	if val == nil {
		return nil, errs.NewErrMalformedSchema("nil record")
	}
	typ := reflect.TypeOf(val)
	// 只支持一级指针
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, errs.NewErrMalformedSchema(reflect.TypeOf(val).String())
	}
	return typ, nil
}

func derive(val any, defaults []NameTransform, opts []Option) (*Schema, error) {
	typ, err := structType(val)
	if err != nil {
		return nil, err
	}

	c := &config{transforms: defaults}
	// 按照类型判断，值接收器和指针接收器都能识别
	if nt, ok := reflect.New(typ).Interface().(NameTransformer); ok {
		c.transforms = nt.NameTransforms()
	}
	for _, opt := range opts {
		opt(c)
	}

	numField := typ.NumField()
	s := &Schema{
		FieldNames: make([]string, 0, numField),
		FieldMap:   make(map[string]*Field, numField),
		ColumnMap:  make(map[string]*Field, numField),
	}

	for i := 0; i < numField; i++ {
		fdStruct := typ.Field(i)
		// 私有字段既读不到也写不进去
		if !fdStruct.IsExported() {
			continue
		}
		tags, err := parseTag(fdStruct.Tag)
		if err != nil {
			return nil, err
		}
		if _, skip := tags[tagKeySkip]; skip {
			continue
		}

		// 名字和类型取自同一个字段，跳过字段之后下标依旧对齐
		name := applyTransforms(fdStruct.Name, c.transforms)
		if name == "" {
			return nil, errs.NewErrMalformedSchema(fmt.Sprintf("field %s has an empty name after transforms", fdStruct.Name))
		}
		if _, dup := s.FieldMap[name]; dup {
			return nil, errs.NewErrMalformedSchema(fmt.Sprintf("duplicate field name %s", name))
		}
		colName := tags[tagKeyColumn]
		if colName == "" {
			colName = name
		}
		if _, dup := s.ColumnMap[colName]; dup {
			return nil, errs.NewErrMalformedSchema(fmt.Sprintf("duplicate column %s", colName))
		}

		tag, nullable := value.TagOf(fdStruct.Type)
		f := &Field{
			Name:     name,
			Ordinal:  len(s.FieldNames),
			Type:     tag,
			Column:   colName,
			Tag:      fdStruct.Tag.Get(tagORMName),
			Nullable: nullable,
			GoName:   fdStruct.Name,
			GoType:   fdStruct.Type,
			Index:    i,
			Offset:   fdStruct.Offset,
		}
		s.FieldNames = append(s.FieldNames, name)
		s.FieldMap[name] = f
		s.ColumnMap[colName] = f
	}

	for _, pair := range c.columns {
		fd, ok := s.FieldMap[pair[0]]
		if !ok {
			return nil, errs.NewErrUnknownField(pair[0])
		}
		if other, dup := s.ColumnMap[pair[1]]; dup && other != fd {
			return nil, errs.NewErrMalformedSchema(fmt.Sprintf("duplicate column %s", pair[1]))
		}
		delete(s.ColumnMap, fd.Column)
		fd.Column = pair[1]
		s.ColumnMap[pair[1]] = fd
	}
	return s, nil
}

// parseTag orm:"column=user_name,skip"
// 标志位类型的 key 没有值，例如 skip；"-" 等同于 skip
func parseTag(tag reflect.StructTag) (map[string]string, error) {
	ormTag, ok := tag.Lookup(tagORMName)
	if !ok || ormTag == "" {
		// 返回一个空的 map，这样调用者就不需要判断 nil 了
		return map[string]string{}, nil
	}
	if ormTag == tagSkipShort {
		return map[string]string{tagKeySkip: ""}, nil
	}

	pairs := strings.Split(ormTag, ",")
	res := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		kv := strings.Split(strings.TrimSpace(pair), "=")
		switch {
		case len(kv) == 1 && kv[0] != "":
			res[kv[0]] = ""
		case len(kv) == 2 && kv[0] != "":
			res[kv[0]] = kv[1]
		default:
			return nil, errs.NewErrInvalidTagContent(pair)
		}
	}
	return res, nil
}
