package compress

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
)

// GZip is wire compatible with compress/gzip; writers are pooled per codec.
type GZip struct {
	level   int
	writers *sync.Pool
}

func NewGZip() GZip {
	return NewGZipLevel(gzip.DefaultCompression)
}

// NewGZipLevel returns a gzip codec writing at level. Invalid levels fall
// back to the default.
func NewGZipLevel(level int) GZip {
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}
	return GZip{
		level: level,
		writers: &sync.Pool{New: func() any {
			w, _ := gzip.NewWriterLevel(io.Discard, level)
			return w
		}},
	}
}

func (g GZip) Name() string {
	return NameGZip
}

func (g GZip) Encode(data []byte) ([]byte, error) {
	w := g.writers.Get().(*gzip.Writer)
	defer g.writers.Put(w)

	var buf bytes.Buffer
	w.Reset(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (g GZip) Decode(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}
