package objcodec

import (
	"reflect"
	"strconv"
)

// setLiteral coerces an unquoted literal into dst. The declared kind of
// the destination decides how lit is read, not the literal's shape: "5"
// into a float field is 5.0, "5.0" into an int field is a mismatch.
func setLiteral(dst reflect.Value, kind Type, lit string) error {
	switch kind {
	case TypeBool:
		switch lit {
		case "true":
			dst.SetBool(true)
		case "false":
			dst.SetBool(false)
		default:
			return mismatchf("%q is not a boolean", lit)
		}
	case TypeInt:
		if dst.CanInt() {
			n, err := strconv.ParseInt(lit, 10, 64)
			if err != nil {
				return mismatchf("%q is not a %s", lit, dst.Type())
			}
			return setInt(dst, n)
		}
		n, err := strconv.ParseUint(lit, 10, 64)
		if err != nil {
			return mismatchf("%q is not a %s", lit, dst.Type())
		}
		return setUint(dst, n)
	case TypeFloat:
		f, err := strconv.ParseFloat(lit, dst.Type().Bits())
		if err != nil {
			return mismatchf("%q is not a %s", lit, dst.Type())
		}
		dst.SetFloat(f)
	default:
		return mismatchf("literal %q cannot fill a %s", lit, kind)
	}
	return nil
}

func setInt(dst reflect.Value, n int64) error {
	if dst.OverflowInt(n) {
		return mismatchf("%d overflows %s", n, dst.Type())
	}
	dst.SetInt(n)
	return nil
}

func setUint(dst reflect.Value, n uint64) error {
	if dst.OverflowUint(n) {
		return mismatchf("%d overflows %s", n, dst.Type())
	}
	dst.SetUint(n)
	return nil
}
