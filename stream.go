package objcodec

import (
	"io"

	"github.com/cockroachdb/errors"
)

// serializeTo encodes v completely before touching w, so an encoding
// error never produces partial output.
func serializeTo(s Serializer, w io.Writer, v any) error {
	if w == nil {
		return errors.Wrap(ErrIOFailure, "writer is nil")
	}
	data, err := s.Serialize(v)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return ioFailure(err, "write %s", s.ContentType())
	}
	return nil
}

func deserializeFrom(s Serializer, r io.Reader, v any) error {
	if r == nil {
		return errors.Wrap(ErrIOFailure, "reader is nil")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return ioFailure(err, "read %s", s.ContentType())
	}
	return s.Deserialize(data, v)
}
