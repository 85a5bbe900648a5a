package objcodec

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is the intermediate form every serializer encodes from: a tagged
// union of null, bool, integer, real, text, list and object.
type Value struct {
	typ      Type
	boolVal  bool
	intVal   int64
	uintVal  uint64
	unsigned bool
	floatVal float64
	single   bool
	strVal   string
	items    []Value
	fields   []Field
	typeName string
}

// Field is one named member of an object Value.
type Field struct {
	Name  string
	Value Value
}

// Null returns the null value.
func Null() Value { return Value{typ: TypeNil} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{typ: TypeBool, boolVal: b} }

// Int returns a signed integer value.
func Int(i int64) Value { return Value{typ: TypeInt, intVal: i} }

// Uint returns an unsigned integer value.
func Uint(u uint64) Value { return Value{typ: TypeInt, uintVal: u, unsigned: true} }

// Float returns a real value.
func Float(f float64) Value { return Value{typ: TypeFloat, floatVal: f} }

// Float32 returns a real value that is printed with single precision,
// so float32(0.1) is written as 0.1.
func Float32(f float32) Value { return Value{typ: TypeFloat, floatVal: float64(f), single: true} }

// String returns a text value.
func String(s string) Value { return Value{typ: TypeString, strVal: s} }

// List returns a list value holding items in order.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{typ: TypeSlice, items: items}
}

// Object returns an object value. typeName is used as the XML root tag.
func Object(typeName string, fields ...Field) Value {
	return Value{typ: TypeStruct, typeName: typeName, fields: fields}
}

func (v Value) Type() Type       { return v.typ }
func (v Value) IsNull() bool     { return v.typ == TypeNil || v.typ == "" }
func (v Value) AsBool() bool     { return v.boolVal }
func (v Value) AsFloat() float64 { return v.floatVal }
func (v Value) AsString() string { return v.strVal }
func (v Value) Items() []Value   { return v.items }
func (v Value) Fields() []Field  { return v.fields }
func (v Value) TypeName() string { return v.typeName }
func (v Value) IsUnsigned() bool { return v.unsigned }
func (v Value) IsFloat32() bool  { return v.single }

// AsInt returns the integer as int64. Unsigned values above MaxInt64 wrap.
func (v Value) AsInt() int64 {
	if v.unsigned {
		return int64(v.uintVal)
	}
	return v.intVal
}

// AsUint returns the integer as uint64. Negative values wrap.
func (v Value) AsUint() uint64 {
	if v.unsigned {
		return v.uintVal
	}
	return uint64(v.intVal)
}

// Field returns the member called name, if present.
func (v Value) Field(name string) (Value, bool) {
	for _, f := range v.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// literal renders a scalar the way both text formats write it unquoted.
func (v Value) literal() string {
	switch v.typ {
	case TypeBool:
		return strconv.FormatBool(v.boolVal)
	case TypeInt:
		if v.unsigned {
			return strconv.FormatUint(v.uintVal, 10)
		}
		return strconv.FormatInt(v.intVal, 10)
	case TypeFloat:
		if v.single {
			return formatFloat(v.floatVal, 32)
		}
		return formatFloat(v.floatVal, 64)
	default:
		return ""
	}
}

// formatFloat uses the shortest representation that round-trips and
// always marks the result as real ("5" becomes "5.0"). bitSize is the
// precision of the source field.
func formatFloat(f float64, bitSize int) string {
	s := strconv.FormatFloat(f, 'g', -1, bitSize)
	if strings.ContainsAny(s, ".eIN") {
		return s
	}
	return s + ".0"
}

// String implements fmt.Stringer using the JSON-like rendering.
func (v Value) String() string {
	var e jsonEncoder
	e.encode(v)
	return e.sb.String()
}

// GoString helps test failure output.
func (v Value) GoString() string {
	return fmt.Sprintf("objcodec.Value(%s)", v.String())
}
