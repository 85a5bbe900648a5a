package objcodec

import (
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// listItemTag names every element of an encoded list.
const listItemTag = "item"

// XMLSerializer encodes values as XML-like text: one child element per
// field in declared order, <field/> for null and <item> elements for
// lists. There are no attributes, comments, namespaces or CDATA, and the
// decoder only needs to read text this serializer wrote.
type XMLSerializer struct {
	opts Options
}

var (
	_ Serializer         = (*XMLSerializer)(nil)
	_ StringDeserializer = (*XMLSerializer)(nil)
)

// NewXMLSerializer creates a new XML-like text serializer
func NewXMLSerializer(opts ...Option) Serializer {
	return &XMLSerializer{opts: newOptions(opts)}
}

// Serialize uses the value's simple type name as the root tag.
func (s *XMLSerializer) Serialize(v any) ([]byte, error) {
	val, err := valueOf(v, s.opts.MaxDepth)
	if err != nil {
		return nil, err
	}
	root := defaultRootName
	if t := reflect.TypeOf(v); t != nil {
		root = simpleName(t)
	}
	var e xmlEncoder
	e.encode(val, root)
	return []byte(e.sb.String()), nil
}

func (s *XMLSerializer) Deserialize(data []byte, v any) error {
	return s.DeserializeString(bytesToReadOnlyString(data), v)
}

func (s *XMLSerializer) DeserializeString(data string, v any) error {
	return decodeInto(v, func(dst reflect.Value, d *TypeDescriptor) error {
		root, err := rootElement(data)
		if err != nil {
			return err
		}
		if root.selfClosing {
			return setNull(dst, d)
		}
		return s.decode(root.inner, d, dst, s.opts.MaxDepth)
	})
}

func (s *XMLSerializer) SerializeTo(w io.Writer, v any) error {
	return serializeTo(s, w, v)
}

func (s *XMLSerializer) DeserializeFrom(r io.Reader, v any) error {
	return deserializeFrom(s, r, v)
}

func (s *XMLSerializer) ContentType() string {
	return "application/xml"
}

// GetType guesses the kind of the root element from its content.
func (s *XMLSerializer) GetType(data []byte) (Type, error) {
	if data == nil {
		return TypeNil, malformedf("data is nil")
	}
	root, err := rootElement(bytesToReadOnlyString(data))
	if err != nil {
		return TypeNil, err
	}
	if root.selfClosing {
		return TypeNil, nil
	}
	inner := strings.TrimSpace(root.inner)
	if strings.HasPrefix(inner, "<") {
		children, err := splitElements(inner)
		if err != nil {
			return TypeNil, err
		}
		if lo.EveryBy(children, func(el xmlElement) bool { return el.name == listItemTag }) {
			return TypeSlice, nil
		}
		return TypeStruct, nil
	}
	switch {
	case inner == "true" || inner == "false":
		return TypeBool, nil
	case inner == "":
		return TypeString, nil
	}
	if _, err := strconv.ParseInt(inner, 10, 64); err == nil {
		return TypeInt, nil
	}
	if _, err := strconv.ParseFloat(inner, 64); err == nil {
		return TypeFloat, nil
	}
	return TypeString, nil
}

type xmlEncoder struct {
	sb strings.Builder
}

func (e *xmlEncoder) encode(v Value, tag string) {
	switch v.Type() {
	case TypeBool, TypeInt, TypeFloat:
		e.open(tag)
		e.sb.WriteString(v.literal())
		e.close(tag)
	case TypeString:
		e.open(tag)
		e.sb.WriteString(EscapeXML(v.AsString()))
		e.close(tag)
	case TypeSlice:
		e.open(tag)
		for _, item := range v.Items() {
			e.encode(item, listItemTag)
		}
		e.close(tag)
	case TypeStruct:
		e.open(tag)
		for _, f := range v.Fields() {
			e.encode(f.Value, f.Name)
		}
		e.close(tag)
	default:
		e.sb.WriteByte('<')
		e.sb.WriteString(tag)
		e.sb.WriteString("/>")
	}
}

func (e *xmlEncoder) open(tag string) {
	e.sb.WriteByte('<')
	e.sb.WriteString(tag)
	e.sb.WriteByte('>')
}

func (e *xmlEncoder) close(tag string) {
	e.sb.WriteString("</")
	e.sb.WriteString(tag)
	e.sb.WriteByte('>')
}

func (s *XMLSerializer) decode(inner string, d *TypeDescriptor, dst reflect.Value, depth int) error {
	if depth <= 0 {
		return malformedf("nesting deeper than %d", s.opts.MaxDepth)
	}
	dst, d = allocate(dst, d)

	switch d.Kind {
	case TypeStruct:
		children, err := splitElements(inner)
		if err != nil {
			return err
		}
		b := newObjectBinder(dst, d)
		for _, el := range children {
			p, field, err := b.field(el.name)
			if err != nil {
				return err
			}
			if el.selfClosing {
				if err := b.null(p, field); err != nil {
					return err
				}
				continue
			}
			if err := s.decode(el.inner, p.Descriptor, field, depth-1); err != nil {
				return inField(err, el.name)
			}
		}
		return b.finish()

	case TypeSlice:
		children, err := splitElements(inner)
		if err != nil {
			return err
		}
		if err := makeList(dst, d, len(children)); err != nil {
			return err
		}
		for i, el := range children {
			if el.name != listItemTag {
				return malformedf("list element <%s>, want <%s>", el.name, listItemTag)
			}
			if el.selfClosing {
				err = setNull(dst.Index(i), d.Elem)
			} else {
				err = s.decode(el.inner, d.Elem, dst.Index(i), depth-1)
			}
			if err != nil {
				return errors.Wrapf(err, "item %d", i)
			}
		}
		return nil

	case TypeString:
		str, err := UnescapeXML(inner)
		if err != nil {
			return err
		}
		dst.SetString(str)
		return nil
	}

	lit := strings.TrimSpace(inner)
	if strings.Contains(lit, "<") {
		return mismatchf("element content cannot fill %s", d.GoType)
	}
	return setLiteral(dst, d.Kind, lit)
}

// xmlElement is one top-level element of a body.
type xmlElement struct {
	name        string
	inner       string
	selfClosing bool
}

// rootElement parses a document that must consist of exactly one element.
func rootElement(data string) (xmlElement, error) {
	text := strings.TrimSpace(data)
	if text == "" {
		return xmlElement{}, malformedf("empty document")
	}
	root, rest, err := nextElement(text)
	if err != nil {
		return xmlElement{}, err
	}
	if strings.TrimSpace(rest) != "" {
		return xmlElement{}, malformedf("content after root element <%s>", root.name)
	}
	return root, nil
}

// splitElements divides a body into its top-level elements. Whitespace
// between elements is ignored; any other text is MalformedSyntax.
func splitElements(body string) ([]xmlElement, error) {
	var out []xmlElement
	rest := body
	for {
		rest = strings.TrimLeft(rest, " \t\r\n")
		if rest == "" {
			return out, nil
		}
		el, next, err := nextElement(rest)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
		rest = next
	}
}

// nextElement reads the element s starts with and returns it with the
// remaining text. The matching close tag is found by counting nested
// open and close tags, so same-named descendants do not end it early.
func nextElement(s string) (xmlElement, string, error) {
	if s == "" || s[0] != '<' {
		return xmlElement{}, "", malformedf("expected element, got %.20q", s)
	}
	end := strings.IndexByte(s, '>')
	if end < 0 {
		return xmlElement{}, "", malformedf("unterminated tag %.20q", s)
	}
	tag := s[1:end]
	if strings.HasPrefix(tag, "/") {
		return xmlElement{}, "", malformedf("unexpected closing tag <%s>", tag)
	}
	if name, ok := strings.CutSuffix(tag, "/"); ok {
		if !validName(name) {
			return xmlElement{}, "", malformedf("invalid tag <%s>", tag)
		}
		return xmlElement{name: name, selfClosing: true}, s[end+1:], nil
	}
	if !validName(tag) {
		return xmlElement{}, "", malformedf("invalid tag <%s>", tag)
	}

	depth := 1
	pos := end + 1
	for {
		lt := strings.IndexByte(s[pos:], '<')
		if lt < 0 {
			return xmlElement{}, "", malformedf("missing </%s>", tag)
		}
		lt += pos
		gt := strings.IndexByte(s[lt:], '>')
		if gt < 0 {
			return xmlElement{}, "", malformedf("unterminated tag inside <%s>", tag)
		}
		gt += lt
		inner := s[lt+1 : gt]
		switch {
		case strings.HasPrefix(inner, "/"):
			depth--
			if depth == 0 {
				if inner[1:] != tag {
					return xmlElement{}, "", malformedf("mismatched tags <%s> and <%s>", tag, inner)
				}
				return xmlElement{name: tag, inner: s[end+1 : lt]}, s[gt+1:], nil
			}
		case strings.HasSuffix(inner, "/"):
		default:
			depth++
		}
		pos = gt + 1
	}
}
