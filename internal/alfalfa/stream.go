package alfalfa

import (
	"bytes"
	"encoding/binary"

	"ears-workbench/internal/skinerr"
)

// MarshalBinary serializes the container: the version byte followed by
// length-prefixed key/value pairs in key order, terminated by KeyEnd.
func (d *Data) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(d.Version())
	for _, k := range d.Keys() {
		writeChunk(&buf, []byte(k))
		writeChunk(&buf, d.entries[k])
	}
	writeChunk(&buf, []byte(KeyEnd))
	return buf.Bytes(), nil
}

// UnmarshalBinary replaces d with the container serialized in data.
func (d *Data) UnmarshalBinary(data []byte) error {
	const op = "alfalfa: unmarshal"
	if len(data) == 0 {
		return skinerr.Decodef(op, "empty stream")
	}

	out := NewVersion(data[0])
	r := bytes.NewReader(data[1:])
	for {
		key, err := readChunk(r)
		if err != nil {
			return skinerr.Wrap(skinerr.ErrDecode, op+": key", err)
		}
		if string(key) == KeyEnd {
			break
		}
		val, err := readChunk(r)
		if err != nil {
			return skinerr.Wrap(skinerr.ErrDecode, op+": value of "+string(key), err)
		}
		if len(key) == 0 {
			return skinerr.Decodef(op, "empty key")
		}
		if _, dup := out.entries[string(key)]; dup {
			return skinerr.Decodef(op, "duplicate key %q", key)
		}
		out.entries[string(key)] = val
	}
	if r.Len() != 0 {
		return skinerr.Decodef(op, "%d trailing bytes after END", r.Len())
	}

	*d = *out
	return nil
}

func writeChunk(buf *bytes.Buffer, b []byte) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], uint64(len(b)))
	buf.Write(tmp[:n])
	buf.Write(b)
}

func readChunk(r *bytes.Reader) ([]byte, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	if n > uint64(r.Len()) {
		return nil, skinerr.Decodef("alfalfa: chunk", "length %d exceeds %d remaining bytes", n, r.Len())
	}
	b := make([]byte, n)
	if _, err := r.Read(b); err != nil && n > 0 {
		return nil, err
	}
	return b, nil
}
