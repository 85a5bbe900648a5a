package objcodec

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
)

// tagName is the struct tag consulted for field names and options.
const tagName = "codec"

// defaultRootName is used as XML root tag for unnamed types.
const defaultRootName = "root"

// TypeDescriptor describes how a Go type maps onto the codec's kinds.
// For structs, Params is the canonical field list: exported fields in
// declaration order. Descriptors are built per call and never cached.
type TypeDescriptor struct {
	// Name is the simple type name, "root" for unnamed types.
	Name string
	// GoType is the described Go type.
	GoType reflect.Type
	// Kind is the declared kind values of this type decode as.
	Kind Type
	// Nullable is true for pointers and slices.
	Nullable bool
	// Elem describes list elements (TypeSlice only).
	Elem *TypeDescriptor
	// Params lists struct fields in declaration order (TypeStruct only).
	// Pointer descriptors leave Elem and Params empty; see Deref.
	Params []Param

	// deref is the pointed-to descriptor for pointer types.
	deref *TypeDescriptor
}

// Param is one constructor parameter, i.e. one exported struct field.
type Param struct {
	Name string
	Kind Type
	// Nullable parameters accept an explicit null.
	Nullable bool
	// Optional parameters may be absent; they keep their zero value.
	Optional bool
	// Descriptor describes the field's type.
	Descriptor *TypeDescriptor

	index []int
}

// Deref returns the descriptor of the pointed-to type, or d itself for
// non-pointer types.
func (d *TypeDescriptor) Deref() *TypeDescriptor {
	for d.deref != nil {
		d = d.deref
	}
	return d
}

// Param returns the parameter called name.
func (d *TypeDescriptor) Param(name string) (*Param, bool) {
	base := d.Deref()
	for i := range base.Params {
		if base.Params[i].Name == name {
			return &base.Params[i], true
		}
	}
	return nil, false
}

// ParamNames lists parameter names in declaration order.
func (d *TypeDescriptor) ParamNames() []string {
	return lo.Map(d.Deref().Params, func(p Param, _ int) string { return p.Name })
}

// Describe resolves the descriptor of T.
func Describe[T any]() (*TypeDescriptor, error) {
	return DescribeType(reflect.TypeOf((*T)(nil)).Elem())
}

// DescribeType resolves the descriptor of t. It fails with
// ErrUnsupportedType when t has no canonical field list.
func DescribeType(t reflect.Type) (*TypeDescriptor, error) {
	if t == nil {
		return nil, unsupportedf("nil type")
	}
	r := resolver{inProgress: make(map[reflect.Type]*TypeDescriptor)}
	return r.describe(t)
}

// resolver lives for one DescribeType call; inProgress lets recursive
// types such as linked lists refer back to themselves.
type resolver struct {
	inProgress map[reflect.Type]*TypeDescriptor
}

func (r *resolver) describe(t reflect.Type) (*TypeDescriptor, error) {
	if d, ok := r.inProgress[t]; ok {
		return d, nil
	}
	d := &TypeDescriptor{Name: simpleName(t), GoType: t}

	switch t.Kind() {
	case reflect.Bool:
		d.Kind = TypeBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		d.Kind = TypeInt
	case reflect.Float32, reflect.Float64:
		d.Kind = TypeFloat
	case reflect.String:
		d.Kind = TypeString
	case reflect.Pointer:
		// Kind and Nullable must be final before recursing: a
		// self-referencing field copies them from this descriptor while
		// it is still in progress.
		d.Kind = pointeeKind(t)
		d.Nullable = true
		r.inProgress[t] = d
		base, err := r.describe(t.Elem())
		if err != nil {
			return nil, err
		}
		d.deref = base
	case reflect.Slice, reflect.Array:
		r.inProgress[t] = d
		d.Kind = TypeSlice
		d.Nullable = t.Kind() == reflect.Slice
		elem, err := r.describe(t.Elem())
		if err != nil {
			return nil, err
		}
		d.Elem = elem
	case reflect.Struct:
		r.inProgress[t] = d
		d.Kind = TypeStruct
		if err := r.describeStruct(t, d); err != nil {
			return nil, err
		}
	case reflect.Map:
		return nil, unsupportedf("%s: maps are not encodable values", t)
	default:
		return nil, unsupportedf("%s: %s has no canonical field list", t, t.Kind())
	}
	return d, nil
}

func (r *resolver) describeStruct(t reflect.Type, d *TypeDescriptor) error {
	hidden := 0
	seen := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			hidden++
			continue
		}
		name, opts := parseTag(sf.Tag.Get(tagName))
		if name == "-" && opts == "" {
			continue
		}
		if name == "" {
			name = paramName(sf.Name)
		}
		if !validName(name) {
			return unsupportedf("%s.%s: %q is not a valid field name", t, sf.Name, name)
		}
		if _, dup := seen[name]; dup {
			return unsupportedf("%s: duplicate field name %q", t, name)
		}
		seen[name] = struct{}{}

		fd, err := r.describe(sf.Type)
		if err != nil {
			return err
		}
		d.Params = append(d.Params, Param{
			Name:       name,
			Kind:       fd.Kind,
			Nullable:   fd.Nullable || hasOption(opts, "nullable"),
			Optional:   hasOption(opts, "optional"),
			Descriptor: fd,
			index:      sf.Index,
		})
	}
	if len(d.Params) == 0 && hidden > 0 {
		return unsupportedf("%s: no exported fields", t)
	}
	return nil
}

// pointeeKind is the declared kind behind any number of pointers. Kinds
// with no mapping return "", and describing the pointee then fails.
func pointeeKind(t reflect.Type) Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return TypeBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return TypeInt
	case reflect.Float32, reflect.Float64:
		return TypeFloat
	case reflect.String:
		return TypeString
	case reflect.Slice, reflect.Array:
		return TypeSlice
	case reflect.Struct:
		return TypeStruct
	}
	return ""
}

// simpleName strips the package path and any type arguments.
func simpleName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return defaultRootName
	}
	return name
}

func parseTag(tag string) (string, string) {
	name, opts, _ := strings.Cut(tag, ",")
	return name, opts
}

func hasOption(opts, option string) bool {
	return lo.Contains(strings.Split(opts, ","), option)
}

// paramName lower-cases the leading upper-case run of a Go field name:
// Name -> name, IsStudent -> isStudent, ID -> id, URLPath -> urlPath.
func paramName(field string) string {
	runes := []rune(field)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return field
	case n == 1 || n == len(runes):
	default:
		// keep the last capital: it starts the next word
		n--
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// validName reports whether name can be used as a bare element name.
func validName(name string) bool {
	if name == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(name)
	if !unicode.IsLetter(first) && first != '_' {
		return false
	}
	for _, c := range name {
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == '-' || c == '.' {
			continue
		}
		return false
	}
	return true
}

// FieldsOf enumerates the fields of a struct value (or pointer to one) in
// the order of its type's parameters.
func FieldsOf(v any) ([]Field, error) {
	val, err := ValueOf(v)
	if err != nil {
		return nil, err
	}
	if val.Type() != TypeStruct {
		return nil, unsupportedf("%T is not a struct", v)
	}
	return val.Fields(), nil
}

// ValueOf converts v into its Value tree. A nil v is Null.
func ValueOf(v any) (Value, error) {
	return valueOf(v, DefaultMaxDepth)
}

func valueOf(v any, maxDepth int) (Value, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return Null(), nil
	}
	d, err := DescribeType(rv.Type())
	if err != nil {
		return Value{}, err
	}
	return valueFrom(rv, d, maxDepth)
}

func valueFrom(rv reflect.Value, d *TypeDescriptor, depth int) (Value, error) {
	if depth <= 0 {
		return Value{}, unsupportedf("%s: nesting too deep (cyclic value?)", d.GoType)
	}
	if d.deref != nil {
		if rv.IsNil() {
			return Null(), nil
		}
		return valueFrom(rv.Elem(), d.deref, depth)
	}

	switch d.Kind {
	case TypeBool:
		return Bool(rv.Bool()), nil
	case TypeInt:
		if rv.CanInt() {
			return Int(rv.Int()), nil
		}
		return Uint(rv.Uint()), nil
	case TypeFloat:
		if rv.Kind() == reflect.Float32 {
			return Float32(float32(rv.Float())), nil
		}
		return Float(rv.Float()), nil
	case TypeString:
		return String(rv.String()), nil
	case TypeSlice:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null(), nil
		}
		items := make([]Value, rv.Len())
		for i := range items {
			item, err := valueFrom(rv.Index(i), d.Elem, depth-1)
			if err != nil {
				return Value{}, err
			}
			items[i] = item
		}
		return List(items...), nil
	case TypeStruct:
		fields := make([]Field, 0, len(d.Params))
		for _, p := range d.Params {
			fv, err := valueFrom(rv.FieldByIndex(p.index), p.Descriptor, depth-1)
			if err != nil {
				return Value{}, err
			}
			fields = append(fields, Field{Name: p.Name, Value: fv})
		}
		return Object(d.Name, fields...), nil
	}
	return Value{}, unsupportedf("%s: cannot encode kind %s", d.GoType, d.Kind)
}
