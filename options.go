package objcodec

// DefaultMaxDepth bounds nesting of lists and objects. Exceeding it while
// encoding usually means the value graph is cyclic.
const DefaultMaxDepth = 512

// Options configures a serializer.
type Options struct {
	MaxDepth int
}

// Option customizes serializer Options.
type Option func(*Options)

// WithMaxDepth overrides DefaultMaxDepth. Values <= 0 keep the default.
func WithMaxDepth(depth int) Option {
	return func(o *Options) {
		if depth > 0 {
			o.MaxDepth = depth
		}
	}
}

func newOptions(opts []Option) Options {
	o := Options{MaxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
