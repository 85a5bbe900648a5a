package objcodec

import (
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// jsonOpen and jsonClose pair the JSON-like brackets by position.
const (
	jsonOpen  = "{["
	jsonClose = "}]"
)

// JSONSerializer encodes values as compact JSON-like text: members in
// declared field order, no whitespace, strings escaped for \ " \n \r \t.
// It only needs to read text it wrote itself.
type JSONSerializer struct {
	opts Options
}

var (
	_ Serializer         = (*JSONSerializer)(nil)
	_ StringDeserializer = (*JSONSerializer)(nil)
)

// NewJSONSerializer creates a new JSON-like text serializer
func NewJSONSerializer(opts ...Option) Serializer {
	return &JSONSerializer{opts: newOptions(opts)}
}

func (s *JSONSerializer) Serialize(v any) ([]byte, error) {
	val, err := valueOf(v, s.opts.MaxDepth)
	if err != nil {
		return nil, err
	}
	var e jsonEncoder
	e.encode(val)
	return []byte(e.sb.String()), nil
}

func (s *JSONSerializer) Deserialize(data []byte, v any) error {
	return s.DeserializeString(bytesToReadOnlyString(data), v)
}

func (s *JSONSerializer) DeserializeString(data string, v any) error {
	return decodeInto(v, func(dst reflect.Value, d *TypeDescriptor) error {
		return s.decode(data, d, dst, s.opts.MaxDepth)
	})
}

func (s *JSONSerializer) SerializeTo(w io.Writer, v any) error {
	return serializeTo(s, w, v)
}

func (s *JSONSerializer) DeserializeFrom(r io.Reader, v any) error {
	return deserializeFrom(s, r, v)
}

func (s *JSONSerializer) ContentType() string {
	return "application/json"
}

// GetType reports the shape of the top-level value.
func (s *JSONSerializer) GetType(data []byte) (Type, error) {
	if data == nil {
		return TypeNil, malformedf("data is nil")
	}
	text := strings.TrimSpace(bytesToReadOnlyString(data))
	switch {
	case text == "":
		return TypeNil, malformedf("empty input")
	case text == "null":
		return TypeNil, nil
	case text == "true" || text == "false":
		return TypeBool, nil
	case text[0] == '{':
		return TypeStruct, nil
	case text[0] == '[':
		return TypeSlice, nil
	case text[0] == '"':
		return TypeString, nil
	}
	if _, err := strconv.ParseInt(text, 10, 64); err == nil {
		return TypeInt, nil
	}
	if _, err := strconv.ParseUint(text, 10, 64); err == nil {
		return TypeInt, nil
	}
	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return TypeFloat, nil
	}
	return TypeNil, malformedf("unrecognized literal %.32q", text)
}

type jsonEncoder struct {
	sb strings.Builder
}

func (e *jsonEncoder) encode(v Value) {
	switch v.Type() {
	case TypeBool, TypeInt, TypeFloat:
		e.sb.WriteString(v.literal())
	case TypeString:
		e.writeString(v.AsString())
	case TypeSlice:
		e.sb.WriteByte('[')
		for i, item := range v.Items() {
			if i > 0 {
				e.sb.WriteByte(',')
			}
			e.encode(item)
		}
		e.sb.WriteByte(']')
	case TypeStruct:
		e.sb.WriteByte('{')
		for i, f := range v.Fields() {
			if i > 0 {
				e.sb.WriteByte(',')
			}
			e.writeString(f.Name)
			e.sb.WriteByte(':')
			e.encode(f.Value)
		}
		e.sb.WriteByte('}')
	default:
		e.sb.WriteString("null")
	}
}

func (e *jsonEncoder) writeString(s string) {
	e.sb.WriteByte('"')
	e.sb.WriteString(EscapeJSON(s))
	e.sb.WriteByte('"')
}

func (s *JSONSerializer) decode(text string, d *TypeDescriptor, dst reflect.Value, depth int) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return malformedf("missing value for %s", d.GoType)
	}
	if depth <= 0 {
		return malformedf("nesting deeper than %d", s.opts.MaxDepth)
	}
	if text == "null" {
		return setNull(dst, d)
	}
	dst, d = allocate(dst, d)

	switch d.Kind {
	case TypeStruct:
		return s.decodeObject(text, d, dst, depth)
	case TypeSlice:
		return s.decodeList(text, d, dst, depth)
	case TypeString:
		return decodeJSONString(text, dst)
	}
	if strings.ContainsAny(text[:1], `{["`) {
		return mismatchf("%.20q cannot fill %s", text, d.GoType)
	}
	return setLiteral(dst, d.Kind, text)
}

func (s *JSONSerializer) decodeObject(text string, d *TypeDescriptor, dst reflect.Value, depth int) error {
	if text[0] != '{' {
		return mismatchf("expected object %s, got %.20q", d.Name, text)
	}
	if len(text) < 2 || text[len(text)-1] != '}' {
		return malformedf("unterminated object %s", d.Name)
	}
	members, err := SplitTopLevel(text[1:len(text)-1], jsonOpen, jsonClose, ',')
	if err != nil {
		return err
	}

	b := newObjectBinder(dst, d)
	for _, m := range members {
		colon, err := IndexTopLevel(m, jsonOpen, jsonClose, ':')
		if err != nil {
			return err
		}
		if colon < 0 {
			return malformedf("member %.20q has no name", strings.TrimSpace(m))
		}
		name, err := decodeJSONName(m[:colon])
		if err != nil {
			return err
		}
		p, field, err := b.field(name)
		if err != nil {
			return err
		}
		raw := strings.TrimSpace(m[colon+1:])
		if raw == "null" {
			if err := b.null(p, field); err != nil {
				return err
			}
			continue
		}
		if err := s.decode(raw, p.Descriptor, field, depth-1); err != nil {
			return inField(err, name)
		}
	}
	return b.finish()
}

func (s *JSONSerializer) decodeList(text string, d *TypeDescriptor, dst reflect.Value, depth int) error {
	if text[0] != '[' {
		return mismatchf("expected list %s, got %.20q", d.GoType, text)
	}
	if len(text) < 2 || text[len(text)-1] != ']' {
		return malformedf("unterminated list %s", d.GoType)
	}
	items, err := SplitTopLevel(text[1:len(text)-1], jsonOpen, jsonClose, ',')
	if err != nil {
		return err
	}
	if err := makeList(dst, d, len(items)); err != nil {
		return err
	}
	for i, item := range items {
		if err := s.decode(item, d.Elem, dst.Index(i), depth-1); err != nil {
			return errors.Wrapf(err, "item %d", i)
		}
	}
	return nil
}

func decodeJSONName(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", malformedf("member name %.20q is not quoted", raw)
	}
	return UnescapeJSON(raw[1 : len(raw)-1])
}

func decodeJSONString(text string, dst reflect.Value) error {
	if text[0] != '"' {
		return mismatchf("%.20q is not a string", text)
	}
	if len(text) < 2 || text[len(text)-1] != '"' {
		return malformedf("unterminated string %.20q", text)
	}
	str, err := UnescapeJSON(text[1 : len(text)-1])
	if err != nil {
		return err
	}
	dst.SetString(str)
	return nil
}
