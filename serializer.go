package objcodec

import (
	"io"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Type represents the declared kind of a value or struct field
type Type string

const (
	TypeString Type = "string"
	TypeInt    Type = "int"
	TypeFloat  Type = "float"
	TypeBool   Type = "bool"
	TypeSlice  Type = "slice"
	TypeMap    Type = "map"
	TypeStruct Type = "struct"
	TypeNil    Type = "nil"
)

// Serializer interface defines the contract for serialization implementations
type Serializer interface {
	// Serialize converts a value to bytes.
	// Struct fields are emitted in declaration order, so the same value
	// always produces the same bytes.
	Serialize(v any) ([]byte, error)

	// Deserialize converts bytes back to a value.
	// v must be a non-nil pointer; it is only assigned when decoding succeeds.
	Deserialize(data []byte, v any) error

	// SerializeTo writes a value to a writer
	SerializeTo(w io.Writer, v any) error

	// DeserializeFrom reads a value from a reader
	DeserializeFrom(r io.Reader, v any) error

	// ContentType returns the MIME type for this serialization format
	ContentType() string

	// GetType returns the type of a serialized value
	GetType(data []byte) (Type, error)
}

// StringDeserializer is implemented by serializers that can decode
// directly from a string without copying it.
type StringDeserializer interface {
	DeserializeString(data string, v any) error
}

// Format enum for selecting serializers
type Format string

const (
	JSON    Format = "json"
	XML     Format = "xml"
	Msgpack Format = "msgpack"
	CBOR    Format = "cbor"
)

// Registry for managing serializers
type Registry struct {
	serializers map[Format]Serializer
}

// NewRegistry creates a new serializer registry
func NewRegistry() *Registry {
	return &Registry{
		serializers: make(map[Format]Serializer),
	}
}

// Register adds a serializer to the registry
func (r *Registry) Register(format Format, serializer Serializer) {
	r.serializers[format] = serializer
}

// Get retrieves a serializer from the registry
func (r *Registry) Get(format Format) (Serializer, bool) {
	serializer, ok := r.serializers[format]
	return serializer, ok
}

// New returns the serializer registered for format
func (r *Registry) New(format Format) (Serializer, error) {
	serializer, ok := r.serializers[format]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedType, "no serializer registered for format %q", format)
	}
	return serializer, nil
}

// Formats lists the registered formats in sorted order
func (r *Registry) Formats() []Format {
	formats := lo.Keys(r.serializers)
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
