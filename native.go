package objcodec

import (
	"reflect"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// toNative turns a Value into the plain Go tree the binary libraries
// marshal: objects become map[string]any, lists []any.
func toNative(v Value) any {
	switch v.Type() {
	case TypeBool:
		return v.AsBool()
	case TypeInt:
		if v.IsUnsigned() {
			return v.AsUint()
		}
		return v.AsInt()
	case TypeFloat:
		if v.IsFloat32() {
			return float32(v.AsFloat())
		}
		return v.AsFloat()
	case TypeString:
		return v.AsString()
	case TypeSlice:
		return lo.Map(v.Items(), func(item Value, _ int) any { return toNative(item) })
	case TypeStruct:
		m := make(map[string]any, len(v.Fields()))
		for _, f := range v.Fields() {
			m[f.Name] = toNative(f.Value)
		}
		return m
	}
	return nil
}

// bindNative binds a tree produced by a binary decoder to dst, with the
// same rules the text decoders apply: members bind by name, the declared
// kind of the destination drives numeric coercion.
func bindNative(src any, d *TypeDescriptor, dst reflect.Value, depth int) error {
	if depth <= 0 {
		return malformedf("nesting too deep for %s", d.GoType)
	}
	if src == nil {
		return setNull(dst, d)
	}
	dst, d = allocate(dst, d)

	switch d.Kind {
	case TypeStruct:
		m, ok := src.(map[string]any)
		if !ok {
			return mismatchf("%T cannot fill %s", src, d.Name)
		}
		names := lo.Keys(m)
		slices.Sort(names)

		b := newObjectBinder(dst, d)
		for _, name := range names {
			p, field, err := b.field(name)
			if err != nil {
				return err
			}
			if m[name] == nil {
				if err := b.null(p, field); err != nil {
					return err
				}
				continue
			}
			if err := bindNative(m[name], p.Descriptor, field, depth-1); err != nil {
				return inField(err, name)
			}
		}
		return b.finish()

	case TypeSlice:
		items, ok := src.([]any)
		if !ok {
			return mismatchf("%T cannot fill %s", src, d.GoType)
		}
		if err := makeList(dst, d, len(items)); err != nil {
			return err
		}
		for i, item := range items {
			if err := bindNative(item, d.Elem, dst.Index(i), depth-1); err != nil {
				return errors.Wrapf(err, "item %d", i)
			}
		}
		return nil

	case TypeString:
		s, ok := src.(string)
		if !ok {
			return mismatchf("%T is not a string", src)
		}
		dst.SetString(strings.Clone(s))
		return nil

	case TypeBool:
		b, ok := src.(bool)
		if !ok {
			return mismatchf("%T is not a boolean", src)
		}
		dst.SetBool(b)
		return nil

	case TypeInt:
		return bindInteger(src, dst)

	case TypeFloat:
		sv := reflect.ValueOf(src)
		var f float64
		switch {
		case sv.CanFloat():
			f = sv.Float()
		case sv.CanInt():
			f = float64(sv.Int())
		case sv.CanUint():
			f = float64(sv.Uint())
		default:
			return mismatchf("%T is not a number", src)
		}
		if dst.OverflowFloat(f) {
			return mismatchf("%g overflows %s", f, dst.Type())
		}
		dst.SetFloat(f)
		return nil
	}
	return unsupportedf("%s: cannot decode kind %s", d.GoType, d.Kind)
}

// bindInteger accepts any integer width the decoders produce; reals are
// a mismatch even when integral.
func bindInteger(src any, dst reflect.Value) error {
	sv := reflect.ValueOf(src)
	switch {
	case sv.CanInt():
		n := sv.Int()
		if dst.CanInt() {
			return setInt(dst, n)
		}
		if n < 0 {
			return mismatchf("%d overflows %s", n, dst.Type())
		}
		return setUint(dst, uint64(n))
	case sv.CanUint():
		n := sv.Uint()
		if dst.CanUint() {
			return setUint(dst, n)
		}
		if int64(n) < 0 {
			return mismatchf("%d overflows %s", n, dst.Type())
		}
		return setInt(dst, int64(n))
	}
	return mismatchf("%T cannot fill %s", src, dst.Type())
}

// nativeType reports the kind of a decoded binary tree.
func nativeType(v any) Type {
	if v == nil {
		return TypeNil
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.String:
		return TypeString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeInt
	case reflect.Float32, reflect.Float64:
		return TypeFloat
	case reflect.Bool:
		return TypeBool
	case reflect.Slice, reflect.Array:
		return TypeSlice
	case reflect.Map, reflect.Struct:
		return TypeStruct
	default:
		return TypeNil
	}
}
