package docx

import "io"

// posReader is a byte-exact reader over a document part.
// It hands out exactly one byte per Read call so that the xml.Decoder on top of it
// never reads ahead, which keeps Pos() pointing at the byte right after the token
// the decoder just returned.
type posReader struct {
	s string
	i int64
}

func newPosReader(s string) *posReader {
	return &posReader{s: s}
}

// Pos returns the current byte offset into the underlying data.
func (r *posReader) Pos() int64 {
	return r.i
}

func (r *posReader) Read(b []byte) (int, error) {
	if r.i >= int64(len(r.s)) {
		return 0, io.EOF
	}
	b[0] = r.s[r.i]
	r.i++
	return 1, nil
}

func (r *posReader) ReadByte() (byte, error) {
	if r.i >= int64(len(r.s)) {
		return 0, io.EOF
	}
	b := r.s[r.i]
	r.i++
	return b, nil
}
