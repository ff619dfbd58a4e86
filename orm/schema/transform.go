package schema

import (
	"strings"
	"unicode"
)

// NameTransform rewrites a field name. Transforms are applied in the order
// they are declared, each one seeing the previous one's output.
type NameTransform func(name string) string

// SnakeCase UserName -> user_name
func SnakeCase(name string) string {
	var buf []rune
	for i, v := range name {
		if unicode.IsUpper(v) {
			if i != 0 {
				buf = append(buf, '_')
			}
			buf = append(buf, unicode.ToLower(v))
		} else {
			buf = append(buf, v)
		}
	}
	return string(buf)
}

func LowerCase(name string) string {
	return strings.ToLower(name)
}

func UpperCase(name string) string {
	return strings.ToUpper(name)
}

func Prefix(p string) NameTransform {
	return func(name string) string {
		return p + name
	}
}

func Suffix(s string) NameTransform {
	return func(name string) string {
		return name + s
	}
}

// Rename 只替换名字完全相等的字段
func Rename(from, to string) NameTransform {
	return func(name string) string {
		if name == from {
			return to
		}
		return name
	}
}

func applyTransforms(name string, ts []NameTransform) string {
	for _, t := range ts {
		name = t(name)
	}
	return name
}
