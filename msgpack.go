package objcodec

import (
	"bytes"
	"io"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// MsgPackSerializer encodes values as MessagePack. Objects are maps
// written in declared field order; decoding binds them through the same
// descriptors as the text formats.
type MsgPackSerializer struct {
	opts Options
}

var (
	_ Serializer            = (*MsgPackSerializer)(nil)
	_ StringDeserializer    = (*MsgPackSerializer)(nil)
	_ msgpack.CustomEncoder = Value{}
)

// NewMsgpackSerializer creates a new MessagePack serializer
func NewMsgpackSerializer(opts ...Option) Serializer {
	return &MsgPackSerializer{opts: newOptions(opts)}
}

func (s *MsgPackSerializer) Serialize(v any) ([]byte, error) {
	val, err := valueOf(v, s.opts.MaxDepth)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.UseCompactInts(true)
	if err := enc.Encode(val); err != nil {
		return nil, errors.Wrap(err, "msgpack encode")
	}
	return buf.Bytes(), nil
}

func (s *MsgPackSerializer) Deserialize(data []byte, v any) error {
	if data == nil {
		return malformedf("data is nil")
	}
	return decodeInto(v, func(dst reflect.Value, d *TypeDescriptor) error {
		raw, err := decodeMsgpack(data)
		if err != nil {
			return err
		}
		return bindNative(raw, d, dst, s.opts.MaxDepth)
	})
}

func (s *MsgPackSerializer) DeserializeString(data string, v any) error {
	return s.Deserialize(stringToReadOnlyBytes(data), v)
}

func (s *MsgPackSerializer) SerializeTo(w io.Writer, v any) error {
	return serializeTo(s, w, v)
}

func (s *MsgPackSerializer) DeserializeFrom(r io.Reader, v any) error {
	return deserializeFrom(s, r, v)
}

func (s *MsgPackSerializer) ContentType() string {
	return "application/msgpack"
}

func (s *MsgPackSerializer) GetType(data []byte) (Type, error) {
	if data == nil {
		return TypeNil, malformedf("data is nil")
	}
	v, err := decodeMsgpack(data)
	if err != nil {
		return TypeNil, err
	}
	return nativeType(v), nil
}

// decodeMsgpack decodes exactly one value; trailing bytes are malformed.
func decodeMsgpack(data []byte) (any, error) {
	r := bytes.NewReader(data)
	var v any
	if err := msgpack.NewDecoder(r).Decode(&v); err != nil {
		return nil, syntaxFailure(err, "msgpack decode")
	}
	if r.Len() > 0 {
		return nil, malformedf("%d bytes after msgpack value", r.Len())
	}
	return v, nil
}

// EncodeMsgpack writes v without going through map[string]any, so object
// members keep their declared order.
func (v Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	switch v.Type() {
	case TypeBool:
		return enc.EncodeBool(v.AsBool())
	case TypeInt:
		if v.IsUnsigned() {
			return enc.EncodeUint(v.AsUint())
		}
		return enc.EncodeInt(v.AsInt())
	case TypeFloat:
		if v.IsFloat32() {
			return enc.EncodeFloat32(float32(v.AsFloat()))
		}
		return enc.EncodeFloat64(v.AsFloat())
	case TypeString:
		return enc.EncodeString(v.AsString())
	case TypeSlice:
		if err := enc.EncodeArrayLen(len(v.Items())); err != nil {
			return err
		}
		for _, item := range v.Items() {
			if err := item.EncodeMsgpack(enc); err != nil {
				return err
			}
		}
		return nil
	case TypeStruct:
		if err := enc.EncodeMapLen(len(v.Fields())); err != nil {
			return err
		}
		for _, f := range v.Fields() {
			if err := enc.EncodeString(f.Name); err != nil {
				return err
			}
			if err := f.Value.EncodeMsgpack(enc); err != nil {
				return err
			}
		}
		return nil
	}
	return enc.EncodeNil()
}
