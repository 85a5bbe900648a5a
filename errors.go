package objcodec

import (
	"github.com/cockroachdb/errors"
)

// Leaf errors. Every failure returned by this package matches exactly one
// of them under errors.Is; use KindOf to switch on it.
var (
	// ErrMalformedSyntax reports unbalanced quotes, brackets or tags,
	// mismatched open/close tag names and other unparsable input.
	ErrMalformedSyntax = errors.New("objcodec: malformed syntax")

	// ErrUnknownField reports a decoded member with no matching field.
	ErrUnknownField = errors.New("objcodec: unknown field")

	// ErrMissingRequiredField reports a non-nullable field that was absent
	// or explicitly null.
	ErrMissingRequiredField = errors.New("objcodec: missing required field")

	// ErrTypeMismatch reports a literal that cannot be coerced to the
	// declared kind of its destination.
	ErrTypeMismatch = errors.New("objcodec: type mismatch")

	// ErrUnsupportedType reports a type with no canonical field list
	// (maps, interfaces, funcs...) or an unknown format.
	ErrUnsupportedType = errors.New("objcodec: unsupported type")

	// ErrIOFailure reports a resource that could not be read or written.
	ErrIOFailure = errors.New("objcodec: io failure")
)

// ErrorKind classifies an error returned by this package.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindMalformedSyntax
	KindUnknownField
	KindMissingRequiredField
	KindTypeMismatch
	KindUnsupportedType
	KindIOFailure
)

var errorKindName = map[ErrorKind]string{
	KindUnknown:              "unknown",
	KindMalformedSyntax:      "malformed_syntax",
	KindUnknownField:         "unknown_field",
	KindMissingRequiredField: "missing_required_field",
	KindTypeMismatch:         "type_mismatch",
	KindUnsupportedType:      "unsupported_type",
	KindIOFailure:            "io_failure",
}

func (k ErrorKind) String() string {
	return errorKindName[k]
}

var kindSentinels = []struct {
	kind ErrorKind
	err  error
}{
	{KindMalformedSyntax, ErrMalformedSyntax},
	{KindUnknownField, ErrUnknownField},
	{KindMissingRequiredField, ErrMissingRequiredField},
	{KindTypeMismatch, ErrTypeMismatch},
	{KindUnsupportedType, ErrUnsupportedType},
	{KindIOFailure, ErrIOFailure},
}

// KindOf returns the kind of err, KindUnknown for nil or foreign errors.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	for _, s := range kindSentinels {
		if errors.Is(err, s.err) {
			return s.kind
		}
	}
	return KindUnknown
}

func malformedf(format string, args ...any) error {
	return errors.Wrapf(ErrMalformedSyntax, format, args...)
}

func mismatchf(format string, args ...any) error {
	return errors.Wrapf(ErrTypeMismatch, format, args...)
}

func unsupportedf(format string, args ...any) error {
	return errors.Wrapf(ErrUnsupportedType, format, args...)
}

// ioFailure marks err as ErrIOFailure while keeping it in the chain so
// callers can still test for fs.ErrNotExist and friends.
func ioFailure(err error, format string, args ...any) error {
	return errors.Wrapf(errors.Mark(err, ErrIOFailure), format, args...)
}

// syntaxFailure marks a binary decoder's error as ErrMalformedSyntax.
func syntaxFailure(err error, format string, args ...any) error {
	return errors.Wrapf(errors.Mark(err, ErrMalformedSyntax), format, args...)
}
