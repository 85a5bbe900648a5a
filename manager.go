package objcodec

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	fieldNameComponent = "component"
	componentName      = "objcodec"
)

// Manager is the facade callers use: it picks the serializer for a
// format and moves whole documents between values and a Store.
//
// A Manager holds no mutable state and is safe for concurrent use;
// concurrent writes to the same destination are the caller's problem.
type Manager struct {
	registry *Registry
	store    Store
	logger   *zap.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithRegistry replaces DefaultRegistry.
func WithRegistry(r *Registry) ManagerOption {
	return func(m *Manager) { m.registry = r }
}

// WithStore replaces the OS-backed FileStore.
func WithStore(s Store) ManagerOption {
	return func(m *Manager) { m.store = s }
}

// WithFs uses a FileStore on fs.
func WithFs(fs afero.Fs) ManagerOption {
	return func(m *Manager) { m.store = NewFileStore(fs) }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a Manager over DefaultRegistry and the OS file system.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		registry: DefaultRegistry,
		store:    NewOSFileStore(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With(zap.String(fieldNameComponent, componentName))
	return m
}

// Registry returns the registry the manager resolves formats with.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Serialize encodes value in format and overwrites destination with the
// result. The value is fully encoded before destination is opened, so an
// encoding error leaves it untouched.
func (m *Manager) Serialize(value any, destination string, format Format) error {
	s, err := m.registry.New(format)
	if err != nil {
		return err
	}
	data, err := s.Serialize(value)
	if err != nil {
		return errors.Wrapf(err, "serialize %T as %s", value, format)
	}
	if err := m.store.WriteAll(destination, data); err != nil {
		m.logger.Warn("write failed",
			zap.String("format", string(format)),
			zap.String("path", destination),
			zap.Error(err))
		return err
	}
	m.logger.Debug("serialized",
		zap.String("format", string(format)),
		zap.String("path", destination),
		zap.Int("bytes", len(data)))
	return nil
}

// Deserialize reads source and decodes it in format into v, which must be
// a non-nil pointer. v is left unchanged on any error.
func (m *Manager) Deserialize(source string, format Format, v any) error {
	s, err := m.registry.New(format)
	if err != nil {
		return err
	}
	data, err := m.store.ReadAll(source)
	if err != nil {
		m.logger.Warn("read failed",
			zap.String("format", string(format)),
			zap.String("path", source),
			zap.Error(err))
		return err
	}
	if err := s.Deserialize(data, v); err != nil {
		return errors.Wrapf(err, "deserialize %s from %s", format, source)
	}
	m.logger.Debug("deserialized",
		zap.String("format", string(format)),
		zap.String("path", source),
		zap.Int("bytes", len(data)))
	return nil
}

// Deserialize reads source as a T.
func Deserialize[T any](m *Manager, source string, format Format) (T, error) {
	var v T
	err := m.Deserialize(source, format, &v)
	return v, err
}
