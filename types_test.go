package objcodec_test

import (
	objcodec "github.com/MichaelAJay/go-objcodec"
)

type Person struct {
	Name      string
	Age       int
	IsStudent bool
}

type Book struct {
	Title  string
	Author Person
	Pages  int
}

type Gradebook struct {
	Scores []int
}

type Profile struct {
	Nickname *string
	Email    string
}

type Measurement struct {
	Value float64
	Count int
	Small int8
	Big   uint64
	Ratio float32
}

type Node struct {
	Label string
	Next  *Node
}

type Matrix struct {
	Rows [][]int
}

type Tagged struct {
	Item  string   `codec:"item"`
	ID    int      `codec:"id"`
	Notes []string `codec:",optional"`
	Skip  string   `codec:"-"`
	Count int      `codec:",nullable"`
}

var (
	me = Person{Name: "Me", Age: 19, IsStudent: false}

	kotlinBook = Book{
		Title:  "Kotlin Programming",
		Author: Person{Name: "Phillip Lanker", Age: 32, IsStudent: true},
		Pages:  350,
	}
)

func strPtr(s string) *string { return &s }

func chain(labels ...string) *Node {
	var head *Node
	for i := len(labels) - 1; i >= 0; i-- {
		head = &Node{Label: labels[i], Next: head}
	}
	return head
}

// allSerializers returns a fresh serializer per format, in a stable order.
func allSerializers(opts ...objcodec.Option) []struct {
	format     objcodec.Format
	serializer objcodec.Serializer
} {
	return []struct {
		format     objcodec.Format
		serializer objcodec.Serializer
	}{
		{objcodec.JSON, objcodec.NewJSONSerializer(opts...)},
		{objcodec.XML, objcodec.NewXMLSerializer(opts...)},
		{objcodec.Msgpack, objcodec.NewMsgpackSerializer(opts...)},
		{objcodec.CBOR, objcodec.NewCBORSerializer(opts...)},
	}
}
