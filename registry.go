package objcodec

// DefaultRegistry is a pre-configured registry with every built-in format
var DefaultRegistry = func() *Registry {
	r := NewRegistry()
	r.Register(JSON, NewJSONSerializer())
	r.Register(XML, NewXMLSerializer())
	r.Register(Msgpack, NewMsgpackSerializer())
	r.Register(CBOR, NewCBORSerializer())
	return r
}()
