package compress

import "fmt"

const (
	NameNop    = "nop"
	NameGZip   = "gzip"
	NameBrotli = "brotli"
	NameLZ4    = "lz4"
)

// Compress encodes setting values before they are written to the database.
type Compress interface {
	Name() string
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// Nop stores values as they are.
type Nop struct{}

func NewNop() Nop { return Nop{} }

func (Nop) Name() string { return NameNop }

func (Nop) Encode(data []byte) ([]byte, error) { return data, nil }

func (Nop) Decode(data []byte) ([]byte, error) { return data, nil }

// ByName returns the codec registered under name. An empty name is nop.
func ByName(name string) (Compress, error) {
	switch name {
	case "", NameNop:
		return NewNop(), nil
	case NameGZip:
		return NewGZip(), nil
	case NameBrotli:
		return NewBrotli(), nil
	case NameLZ4:
		return NewLZ4(), nil
	default:
		return nil, fmt.Errorf("unknown compression %q", name)
	}
}
