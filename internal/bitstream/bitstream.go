// Package bitstream packs and unpacks MSB-first bit fields.
package bitstream

import (
	"bytes"
	"io"
)

// Writer writes bits to a bytes.Buffer (msb-first in each byte).
type Writer struct {
	buf  bytes.Buffer
	byte byte
	n    uint8 // number of bits pending in byte (0..7)
}

// WriteBit writes a single bit.
func (w *Writer) WriteBit(bit bool) {
	w.byte <<= 1
	if bit {
		w.byte |= 1
	}
	w.n++
	if w.n == 8 {
		w.buf.WriteByte(w.byte)
		w.byte = 0
		w.n = 0
	}
}

// WriteBits writes the low n bits of v, most significant first.
// For example, n=4 and v=0b1011 writes 1,0,1,1.
func (w *Writer) WriteBits(v uint64, n uint8) {
	for i := int(n) - 1; i >= 0; i-- {
		w.WriteBit(v>>uint(i)&1 == 1)
	}
}

// Bytes flushes a partial byte (zero padded) and returns the written data.
func (w *Writer) Bytes() []byte {
	if w.n > 0 {
		w.buf.WriteByte(w.byte << (8 - w.n))
		w.byte = 0
		w.n = 0
	}
	return w.buf.Bytes()
}

// Reader reads bits from a byte slice (msb-first in each byte).
type Reader struct {
	data []byte
	idx  int
	bit  uint8 // bit position in current byte (0..7)
}

// NewReader returns a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadBit reads a single bit, returning io.ErrUnexpectedEOF past the end.
func (r *Reader) ReadBit() (bool, error) {
	if r.idx >= len(r.data) {
		return false, io.ErrUnexpectedEOF
	}
	b := r.data[r.idx]>>(7-r.bit)&1 == 1
	r.bit++
	if r.bit == 8 {
		r.bit = 0
		r.idx++
	}
	return b, nil
}

// ReadBits reads n bits (n <= 64) into the low bits of the result.
func (r *Reader) ReadBits(n uint8) (uint64, error) {
	var v uint64
	for i := uint8(0); i < n; i++ {
		b, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		v <<= 1
		if b {
			v |= 1
		}
	}
	return v, nil
}

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int {
	if r.idx >= len(r.data) {
		return 0
	}
	return (len(r.data)-r.idx)*8 - int(r.bit)
}
