package objcodec_test

import (
	"bytes"
	"strings"
	"testing"

	objcodec "github.com/MichaelAJay/go-objcodec"
)

type library struct {
	Name  string
	Books []Book
	Tags  []string
	Owner *Person
}

// benchmarkData contains test data of varying sizes for benchmarks
var benchmarkData = []struct {
	name   string
	data   any
	target func() any
}{
	{
		name:   "SmallString",
		data:   "hello world",
		target: func() any { return new(string) },
	},
	{
		name:   "LargeString",
		data:   strings.Repeat("This is a test string for performance benchmarking. ", 10000),
		target: func() any { return new(string) },
	},
	{
		name:   "SmallStruct",
		data:   me,
		target: func() any { return new(Person) },
	},
	{
		name: "LargeStruct",
		data: library{
			Name: "benchmark library",
			Books: func() []Book {
				books := make([]Book, 200)
				for i := range books {
					books[i] = kotlinBook
					books[i].Pages = i
				}
				return books
			}(),
			Tags:  strings.Split(strings.Repeat("item,", 999)+"item", ","),
			Owner: &me,
		},
		target: func() any { return new(library) },
	},
}

func BenchmarkSerialize(b *testing.B) {
	for _, s := range allSerializers() {
		for _, bd := range benchmarkData {
			b.Run(string(s.format)+"/"+bd.name, func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					if _, err := s.serializer.Serialize(bd.data); err != nil {
						b.Fatalf("Serialize failed: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkDeserializeBytes decodes from a fresh byte slice each iteration,
// as callers holding a string would.
func BenchmarkDeserializeBytes(b *testing.B) {
	for _, s := range allSerializers() {
		for _, bd := range benchmarkData {
			b.Run(string(s.format)+"/"+bd.name, func(b *testing.B) {
				data, err := s.serializer.Serialize(bd.data)
				if err != nil {
					b.Fatalf("Serialize failed: %v", err)
				}
				dataString := string(data)

				b.ResetTimer()
				b.ReportAllocs()

				for i := 0; i < b.N; i++ {
					if err := s.serializer.Deserialize([]byte(dataString), bd.target()); err != nil {
						b.Fatalf("Deserialize failed: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkDeserializeString benchmarks the StringDeserializer path
func BenchmarkDeserializeString(b *testing.B) {
	for _, s := range allSerializers() {
		stringDeser, ok := s.serializer.(objcodec.StringDeserializer)
		if !ok {
			continue
		}
		for _, bd := range benchmarkData {
			b.Run(string(s.format)+"/"+bd.name, func(b *testing.B) {
				data, err := s.serializer.Serialize(bd.data)
				if err != nil {
					b.Fatalf("Serialize failed: %v", err)
				}
				dataString := string(data)

				b.ResetTimer()
				b.ReportAllocs()

				for i := 0; i < b.N; i++ {
					if err := stringDeser.DeserializeString(dataString, bd.target()); err != nil {
						b.Fatalf("DeserializeString failed: %v", err)
					}
				}
			})
		}
	}
}

func BenchmarkStreaming(b *testing.B) {
	for _, s := range allSerializers() {
		b.Run(string(s.format), func(b *testing.B) {
			var buf bytes.Buffer
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				buf.Reset()
				if err := s.serializer.SerializeTo(&buf, kotlinBook); err != nil {
					b.Fatal(err)
				}
				var got Book
				if err := s.serializer.DeserializeFrom(&buf, &got); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDescribe(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := objcodec.Describe[library](); err != nil {
			b.Fatal(err)
		}
	}
}
