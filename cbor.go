package objcodec

import (
	"io"
	"math"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/fxamacker/cbor/v2"
)

// cborEncMode uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
var cborEncMode cbor.EncMode

func init() {
	var err error
	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("objcodec: CBOR encoder initialization failed: " + err.Error())
	}
}

// CBORSerializer encodes values as deterministic CBOR.
type CBORSerializer struct {
	opts    Options
	decMode cbor.DecMode
}

var (
	_ Serializer         = (*CBORSerializer)(nil)
	_ StringDeserializer = (*CBORSerializer)(nil)
)

// NewCBORSerializer creates a new CBOR serializer
func NewCBORSerializer(opts ...Option) Serializer {
	o := newOptions(opts)
	decMode, err := cbor.DecOptions{
		// Objects arrive as map[string]any rather than the CBOR default
		// map[any]any; struct fields are bound by bindNative.
		DefaultMapType:   reflect.TypeOf(map[string]any(nil)),
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		MaxNestedLevels:  min(max(o.MaxDepth+1, 4), 65535),
		MaxArrayElements: math.MaxInt32,
		MaxMapPairs:      math.MaxInt32,
	}.DecMode()
	if err != nil {
		panic("objcodec: CBOR decoder initialization failed: " + err.Error())
	}
	return &CBORSerializer{opts: o, decMode: decMode}
}

func (s *CBORSerializer) Serialize(v any) ([]byte, error) {
	val, err := valueOf(v, s.opts.MaxDepth)
	if err != nil {
		return nil, err
	}
	data, err := cborEncMode.Marshal(toNative(val))
	if err != nil {
		return nil, errors.Wrap(err, "cbor encode")
	}
	return data, nil
}

func (s *CBORSerializer) Deserialize(data []byte, v any) error {
	if data == nil {
		return malformedf("data is nil")
	}
	return decodeInto(v, func(dst reflect.Value, d *TypeDescriptor) error {
		var raw any
		if err := s.decMode.Unmarshal(data, &raw); err != nil {
			return syntaxFailure(err, "cbor decode")
		}
		return bindNative(raw, d, dst, s.opts.MaxDepth)
	})
}

func (s *CBORSerializer) DeserializeString(data string, v any) error {
	return s.Deserialize(stringToReadOnlyBytes(data), v)
}

func (s *CBORSerializer) SerializeTo(w io.Writer, v any) error {
	return serializeTo(s, w, v)
}

func (s *CBORSerializer) DeserializeFrom(r io.Reader, v any) error {
	return deserializeFrom(s, r, v)
}

func (s *CBORSerializer) ContentType() string {
	return "application/cbor"
}

func (s *CBORSerializer) GetType(data []byte) (Type, error) {
	if data == nil {
		return TypeNil, malformedf("data is nil")
	}
	var v any
	if err := s.decMode.Unmarshal(data, &v); err != nil {
		return TypeNil, syntaxFailure(err, "cbor decode")
	}
	return nativeType(v), nil
}
