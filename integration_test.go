package objcodec_test

import (
	"fmt"
	"io"
	"sync"
	"testing"

	objcodec "github.com/MichaelAJay/go-objcodec"
)

// mockSerializer implements only the Serializer interface (not StringDeserializer)
type mockSerializer struct{}

func (m *mockSerializer) Serialize(v any) ([]byte, error) {
	return []byte("mock-data"), nil
}

func (m *mockSerializer) Deserialize(data []byte, v any) error {
	return nil
}

func (m *mockSerializer) SerializeTo(w io.Writer, v any) error {
	return nil
}

func (m *mockSerializer) DeserializeFrom(r io.Reader, v any) error {
	return nil
}

func (m *mockSerializer) ContentType() string {
	return "application/mock"
}

func (m *mockSerializer) GetType(data []byte) (objcodec.Type, error) {
	return objcodec.TypeNil, nil
}

// mockStringSerializer implements both Serializer and StringDeserializer
type mockStringSerializer struct {
	*mockSerializer
}

func (m *mockStringSerializer) DeserializeString(data string, v any) error {
	if v == nil {
		return fmt.Errorf("nil target pointer")
	}
	return nil
}

// TestInterfaceDetection tests that StringDeserializer interface detection works correctly
func TestInterfaceDetection(t *testing.T) {
	tests := []struct {
		name                  string
		serializer            objcodec.Serializer
		implementsStringDeser bool
	}{
		{"JSON_implements_StringDeserializer", objcodec.NewJSONSerializer(), true},
		{"XML_implements_StringDeserializer", objcodec.NewXMLSerializer(), true},
		{"MsgPack_implements_StringDeserializer", objcodec.NewMsgpackSerializer(), true},
		{"CBOR_implements_StringDeserializer", objcodec.NewCBORSerializer(), true},
		{"Mock_does_not_implement_StringDeserializer", &mockSerializer{}, false},
		{"MockString_implements_StringDeserializer", &mockStringSerializer{mockSerializer: &mockSerializer{}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := tt.serializer.(objcodec.StringDeserializer)
			if ok != tt.implementsStringDeser {
				t.Errorf("StringDeserializer detected = %v, want %v", ok, tt.implementsStringDeser)
			}
		})
	}
}

// TestNilTargetIsRejected checks that every serializer refuses a nil
// target without panicking.
func TestNilTargetIsRejected(t *testing.T) {
	for _, s := range allSerializers() {
		t.Run(string(s.format), func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("DeserializeString panicked: %v", r)
				}
			}()

			data, err := s.serializer.Serialize(me)
			if err != nil {
				t.Fatalf("Serialize failed: %v", err)
			}
			stringDeser := s.serializer.(objcodec.StringDeserializer)
			err = stringDeser.DeserializeString(string(data), nil)
			if objcodec.KindOf(err) != objcodec.KindUnsupportedType {
				t.Errorf("expected unsupported type for nil target, got %v", err)
			}

			var notPointer Person
			err = s.serializer.Deserialize(data, notPointer)
			if objcodec.KindOf(err) != objcodec.KindUnsupportedType {
				t.Errorf("expected unsupported type for non-pointer target, got %v", err)
			}
		})
	}
}

// TestFallbackBehavior checks that DeserializeString and Deserialize agree
func TestFallbackBehavior(t *testing.T) {
	testData := "test string, with \"quotes\" & <tags>"

	for _, s := range allSerializers() {
		t.Run("WithStringDeser_"+s.serializer.ContentType(), func(t *testing.T) {
			data, err := s.serializer.Serialize(testData)
			if err != nil {
				t.Fatalf("Serialize failed: %v", err)
			}

			stringDeser, ok := s.serializer.(objcodec.StringDeserializer)
			if !ok {
				t.Fatal("Expected serializer to implement StringDeserializer")
			}
			var stringResult string
			if err := stringDeser.DeserializeString(string(data), &stringResult); err != nil {
				t.Fatalf("DeserializeString failed: %v", err)
			}

			var byteResult string
			if err := s.serializer.Deserialize(data, &byteResult); err != nil {
				t.Fatalf("Deserialize failed: %v", err)
			}

			if stringResult != byteResult || stringResult != testData {
				t.Errorf("results differ: %q vs %q, want %q", stringResult, byteResult, testData)
			}
		})
	}

	t.Run("WithoutStringDeser", func(t *testing.T) {
		var mock objcodec.Serializer = &mockSerializer{}
		if _, ok := mock.(objcodec.StringDeserializer); ok {
			t.Error("Mock serializer should not implement StringDeserializer")
		}
		data, err := mock.Serialize(testData)
		if err != nil {
			t.Fatalf("Serialize failed: %v", err)
		}
		var result string
		if err := mock.Deserialize(data, &result); err != nil {
			t.Fatalf("Deserialize failed: %v", err)
		}
	})
}

// TestRegistryWithStringDeserializer tests that registry works with StringDeserializer implementations
func TestRegistryWithStringDeserializer(t *testing.T) {
	registry := objcodec.NewRegistry()
	for _, s := range allSerializers() {
		registry.Register(s.format, s.serializer)
	}
	registry.Register("mock", &mockSerializer{})
	registry.Register("mockstring", &mockStringSerializer{mockSerializer: &mockSerializer{}})

	for _, format := range registry.Formats() {
		t.Run(string(format), func(t *testing.T) {
			s, err := registry.New(format)
			if err != nil {
				t.Fatalf("Failed to get serializer for format %s: %v", format, err)
			}

			_, hasStringDeser := s.(objcodec.StringDeserializer)
			if want := format != "mock"; hasStringDeser != want {
				t.Errorf("format %s: StringDeserializer = %v, want %v", format, hasStringDeser, want)
			}
		})
	}
}

// TestConcurrentUse shares one serializer per format between goroutines.
// Serializers keep no state between calls, so every result must match.
func TestConcurrentUse(t *testing.T) {
	const numGoroutines = 10
	const numIterations = 50

	for _, s := range allSerializers() {
		t.Run(string(s.format), func(t *testing.T) {
			want, err := s.serializer.Serialize(kotlinBook)
			if err != nil {
				t.Fatalf("Serialize failed: %v", err)
			}

			var wg sync.WaitGroup
			errs := make(chan error, numGoroutines)
			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < numIterations; j++ {
						data, err := s.serializer.Serialize(kotlinBook)
						if err != nil {
							errs <- err
							return
						}
						if string(data) != string(want) {
							errs <- fmt.Errorf("non-deterministic output %q", data)
							return
						}
						var got Book
						if err := s.serializer.Deserialize(data, &got); err != nil {
							errs <- err
							return
						}
						if got != kotlinBook {
							errs <- fmt.Errorf("got %+v", got)
							return
						}
					}
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				t.Error(err)
			}
		})
	}
}

// TestNilSerializerHandling tests behavior with nil serializers
func TestNilSerializerHandling(t *testing.T) {
	var nilSerializer objcodec.Serializer

	stringDeser, ok := nilSerializer.(objcodec.StringDeserializer)
	if ok {
		t.Error("nil serializer should not implement StringDeserializer")
	}
	if stringDeser != nil {
		t.Error("StringDeserializer should be nil for nil serializer")
	}
}
