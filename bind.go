package objcodec

import (
	"reflect"

	"github.com/cockroachdb/errors"
)

// decodeInto resolves the descriptor of *v, lets fill populate a fresh
// value and only then assigns it to *v, so a failed decode never leaves
// a partially built value behind.
func decodeInto(v any, fill func(dst reflect.Value, d *TypeDescriptor) error) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return unsupportedf("decode target must be a non-nil pointer, got %T", v)
	}
	d, err := DescribeType(rv.Type().Elem())
	if err != nil {
		return err
	}
	fresh := reflect.New(rv.Type().Elem()).Elem()
	if err := fill(fresh, d); err != nil {
		return err
	}
	rv.Elem().Set(fresh)
	return nil
}

// allocate follows pointer descriptors, allocating each level, and returns
// the innermost value together with its non-pointer descriptor.
func allocate(dst reflect.Value, d *TypeDescriptor) (reflect.Value, *TypeDescriptor) {
	for d.deref != nil {
		p := reflect.New(d.GoType.Elem())
		dst.Set(p)
		dst = p.Elem()
		d = d.deref
	}
	return dst, d
}

// setNull stores null into a list element or top-level target.
func setNull(dst reflect.Value, d *TypeDescriptor) error {
	if !d.Nullable {
		return mismatchf("null cannot fill non-nullable %s", d.GoType)
	}
	dst.SetZero()
	return nil
}

// makeList prepares dst to receive n elements.
func makeList(dst reflect.Value, d *TypeDescriptor, n int) error {
	if d.GoType.Kind() == reflect.Array {
		if n != d.GoType.Len() {
			return mismatchf("%d elements cannot fill %s", n, d.GoType)
		}
		return nil
	}
	dst.Set(reflect.MakeSlice(d.GoType, n, n))
	return nil
}

// objectBinder binds decoded members of one object to struct fields by
// name and checks required fields once all members are consumed.
type objectBinder struct {
	d     *TypeDescriptor
	dst   reflect.Value
	bound []bool
}

func newObjectBinder(dst reflect.Value, d *TypeDescriptor) *objectBinder {
	return &objectBinder{d: d, dst: dst, bound: make([]bool, len(d.Params))}
}

// field resolves member name to its parameter and destination field.
func (b *objectBinder) field(name string) (*Param, reflect.Value, error) {
	for i := range b.d.Params {
		p := &b.d.Params[i]
		if p.Name != name {
			continue
		}
		if b.bound[i] {
			return nil, reflect.Value{}, malformedf("duplicate member %q in %s", name, b.d.Name)
		}
		b.bound[i] = true
		return p, b.dst.FieldByIndex(p.index), nil
	}
	return nil, reflect.Value{}, errors.Wrapf(ErrUnknownField, "%q is not a field of %s", name, b.d.Name)
}

// null binds an explicit null to p.
func (b *objectBinder) null(p *Param, field reflect.Value) error {
	if !p.Nullable && !p.Optional {
		return errors.Wrapf(ErrMissingRequiredField, "%s.%s is null", b.d.Name, p.Name)
	}
	field.SetZero()
	return nil
}

func (b *objectBinder) finish() error {
	for i, ok := range b.bound {
		p := b.d.Params[i]
		if !ok && !p.Nullable && !p.Optional {
			return errors.Wrapf(ErrMissingRequiredField, "%s.%s", b.d.Name, p.Name)
		}
	}
	return nil
}

// inField adds the member name to err's context.
func inField(err error, name string) error {
	return errors.Wrapf(err, "field %s", name)
}
